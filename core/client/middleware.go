package client

import (
	"context"

	"github.com/leofalp/askgpt/providers/completion"
)

// SendFunc performs one exchange for an already built request. It is the
// unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request completion.CompletionRequest) (*completion.CompletionResponse, error)

// Middleware wraps the next SendFunc in the chain. Middlewares are applied
// outermost-first: the first middleware given to [WithMiddleware] sees the
// request first and the outcome last.
type Middleware func(next SendFunc) SendFunc

// buildSendChain wraps sender.Send with middlewares, middlewares[0] outermost.
func buildSendChain(sender Sender, middlewares []Middleware) SendFunc {
	var chain SendFunc = sender.Send

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i](chain)
	}

	return chain
}
