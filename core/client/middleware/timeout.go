package middleware

import (
	"context"
	"time"

	"github.com/leofalp/askgpt/core/client"
	"github.com/leofalp/askgpt/providers/completion"
)

// NewTimeoutMiddleware bounds every exchange to timeout. The deadline shows
// up as a transport failure wrapping context.DeadlineExceeded. If the
// caller's context already has a shorter deadline, that one wins.
// A non-positive timeout disables the middleware.
func NewTimeoutMiddleware(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request completion.CompletionRequest) (*completion.CompletionResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
