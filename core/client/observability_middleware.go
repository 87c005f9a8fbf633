package client

import (
	"context"
	"time"

	"github.com/leofalp/askgpt/internal/utils"
	"github.com/leofalp/askgpt/providers/completion"
	"github.com/leofalp/askgpt/providers/observability"
)

// NewObservabilityMiddleware returns a middleware that wraps each exchange in
// a span, counts exchanges and failures, and records exchange duration.
//
// The span is attached to the context passed down the chain, so the HTTP
// helper underneath the provider adds its request/response events to it.
// Failures are tagged with their kind (transport, service, decode).
func NewObservabilityMiddleware(observer observability.Provider) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request completion.CompletionRequest) (*completion.CompletionResponse, error) {
			attrs := []observability.Attribute{
				observability.String(observability.AttrLLMModel, request.Model),
				observability.Int(observability.AttrLLMMaxTokens, request.MaxTokens),
				observability.Int(observability.AttrPromptLength, len(request.Prompt)),
			}
			if request.Temperature != nil {
				attrs = append(attrs, observability.Float64(observability.AttrLLMTemperature, float64(*request.Temperature)))
			}

			ctx, span := observer.StartSpan(ctx, observability.SpanCompletionExchange, attrs...)
			ctx = observability.ContextWithSpan(ctx, span)
			defer span.End()

			start := time.Now()
			response, err := next(ctx, request)
			elapsed := time.Since(start)

			observer.Histogram(observability.MetricExchangeDuration).Record(ctx, elapsed.Seconds(),
				observability.String(observability.AttrLLMModel, request.Model),
			)

			if err != nil {
				kind := completion.KindOf(err).String()

				span.RecordError(err)
				span.SetStatus(observability.StatusError, kind)

				observer.Error(ctx, "completion exchange failed",
					observability.Error(err),
					observability.String(observability.AttrErrorKind, kind),
					observability.Duration(observability.AttrDuration, elapsed),
					observability.String(observability.AttrLLMModel, request.Model),
				)
				observer.Counter(observability.MetricExchangeCount).Add(ctx, 1,
					observability.String(observability.AttrStatus, "error"),
				)
				observer.Counter(observability.MetricExchangeFailures).Add(ctx, 1,
					observability.String(observability.AttrErrorKind, kind),
				)
				return nil, err
			}

			text, _ := response.FirstText()
			span.SetAttributes(
				observability.String(observability.AttrLLMResponseID, response.ID),
				observability.Int(observability.AttrLLMChoicesCount, len(response.Choices)),
			)
			span.SetStatus(observability.StatusOK, "")

			observer.Debug(ctx, "completion exchange completed",
				observability.String(observability.AttrLLMResponseID, response.ID),
				observability.Duration(observability.AttrDuration, elapsed),
				observability.String(observability.AttrResponseContent, utils.TruncateString(text, utils.DefaultMaxStringLength)),
			)
			observer.Counter(observability.MetricExchangeCount).Add(ctx, 1,
				observability.String(observability.AttrStatus, "ok"),
			)

			return response, nil
		}
	}
}
