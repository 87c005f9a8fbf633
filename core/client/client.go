package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/leofalp/askgpt/providers/completion"
	"github.com/leofalp/askgpt/providers/observability"
)

// ErrNoOutcome is delivered when a middleware returns neither a response
// nor an error.
var ErrNoOutcome = errors.New("client: exchange produced no outcome")

// Sender is the provider surface the client needs. *completion.Provider
// satisfies it.
type Sender interface {
	NewRequest(prompt string) completion.CompletionRequest
	Send(ctx context.Context, request completion.CompletionRequest) (*completion.CompletionResponse, error)
}

// Outcome is the single result of a submitted exchange: exactly one of
// Response and Err is set.
type Outcome struct {
	Response *completion.CompletionResponse
	Err      error
}

// Client runs exchanges through a fixed middleware chain. It holds no
// per-exchange state and is safe for concurrent use.
type Client struct {
	sender Sender
	chain  SendFunc
}

type clientOptions struct {
	middlewares []Middleware
	observer    observability.Provider
}

// Option configures a Client.
type Option func(*clientOptions)

// WithMiddleware appends middlewares to the chain, in order.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *clientOptions) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithObserver installs [NewObservabilityMiddleware] as the outermost
// middleware, so spans and metrics reflect the final outcome of each
// exchange after every other middleware has run.
func WithObserver(observer observability.Provider) Option {
	return func(o *clientOptions) {
		o.observer = observer
	}
}

// New builds a Client around sender.
func New(sender Sender, opts ...Option) (*Client, error) {
	if sender == nil {
		return nil, errors.New("client: sender must not be nil")
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	middlewares := options.middlewares
	if options.observer != nil {
		middlewares = append([]Middleware{NewObservabilityMiddleware(options.observer)}, middlewares...)
	}

	for i, mw := range middlewares {
		if mw == nil {
			return nil, fmt.Errorf("client: middleware at index %d is nil", i)
		}
	}

	return &Client{
		sender: sender,
		chain:  buildSendChain(sender, middlewares),
	}, nil
}

// Complete performs one exchange for prompt synchronously.
func (c *Client) Complete(ctx context.Context, prompt string) (*completion.CompletionResponse, error) {
	outcome := c.run(ctx, prompt)
	return outcome.Response, outcome.Err
}

// Submit starts one exchange for prompt and returns a channel that receives
// exactly one Outcome and is then closed. The channel is buffered, so the
// exchange completes and its goroutine exits even if nobody ever receives.
// Cancel ctx to abandon the exchange; the cancellation is still delivered as
// a (transport) failure outcome.
func (c *Client) Submit(ctx context.Context, prompt string) <-chan Outcome {
	result := make(chan Outcome, 1)

	go func() {
		defer close(result)
		result <- c.run(ctx, prompt)
	}()

	return result
}

// run executes the chain and normalises whatever it returns into a single
// outcome. A panic anywhere in the chain becomes a failure outcome.
func (c *Client) run(ctx context.Context, prompt string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Err: fmt.Errorf("client: exchange panicked: %v", r)}
		}
	}()

	response, err := c.chain(ctx, c.sender.NewRequest(prompt))
	switch {
	case err != nil:
		return Outcome{Err: err}
	case response == nil:
		return Outcome{Err: ErrNoOutcome}
	default:
		return Outcome{Response: response}
	}
}
