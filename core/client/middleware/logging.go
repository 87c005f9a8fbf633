package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/leofalp/askgpt/core/client"
	"github.com/leofalp/askgpt/internal/utils"
	"github.com/leofalp/askgpt/providers/completion"
)

// LogLevel controls how much detail the logging middleware emits per exchange.
type LogLevel int

const (
	// LogLevelMinimal logs the model, duration and outcome only.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the request parameters, the response id and the
	// number of choices.
	LogLevelStandard

	// LogLevelVerbose adds the prompt and the first choice text, each
	// truncated to 500 characters.
	//
	// WARNING: DO NOT use LogLevelVerbose in production. Prompts and
	// completions may contain sensitive user data.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// NewLoggingMiddleware logs one entry before and one after every exchange.
// Failures are logged at ERROR with their kind. A nil logger means slog.Default().
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request completion.CompletionRequest) (*completion.CompletionResponse, error) {
			logger.InfoContext(ctx, "completion send", buildRequestAttrs(request, level)...)

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "completion send failed",
					slog.String("model", request.Model),
					slog.Duration("duration", elapsed),
					slog.String("kind", completion.KindOf(err).String()),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			logger.InfoContext(ctx, "completion send completed",
				buildResponseAttrs(request.Model, response, elapsed, level)...,
			)

			return response, nil
		}
	}
}

func buildRequestAttrs(request completion.CompletionRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs, slog.Int("max_tokens", request.MaxTokens))
		if request.Temperature != nil {
			attrs = append(attrs, slog.Float64("temperature", float64(*request.Temperature)))
		}
	}

	if level >= LogLevelVerbose {
		attrs = append(attrs, slog.String("prompt", utils.TruncateString(request.Prompt, truncateLen)))
	}

	return attrs
}

func buildResponseAttrs(model string, response *completion.CompletionResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", model),
		slog.Duration("duration", elapsed),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.String("id", response.ID),
			slog.Int("choices", len(response.Choices)),
		)
	}

	if level >= LogLevelVerbose {
		if text, ok := response.FirstText(); ok {
			attrs = append(attrs, slog.String("text", utils.TruncateString(text, truncateLen)))
		}
	}

	return attrs
}
