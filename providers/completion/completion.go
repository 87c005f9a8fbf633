package completion

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/leofalp/askgpt/internal/utils"
	"github.com/leofalp/askgpt/providers/observability"
)

const (
	DefaultBaseURL             = "https://api.openai.com/v1"
	DefaultModel               = "text-davinci-003"
	DefaultTemperature float32 = 0.75
	DefaultMaxTokens           = 255

	completionsEndpoint = "/completions"
	providerName        = "openai"
)

// Provider performs single exchanges against a completions endpoint. It is
// immutable after New and safe for concurrent use; concurrent exchanges
// share nothing but the read-only configuration and the HTTP client.
type Provider struct {
	apiKey      string
	baseURL     string
	model       string
	temperature *float32
	maxTokens   int
	client      *http.Client
	observer    observability.Provider
	lenient     bool
}

// Option configures a Provider at construction time.
type Option func(*Provider)

// WithAPIKey sets the bearer credential sent in the Authorization header.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) { p.apiKey = apiKey }
}

// WithBaseURL overrides DefaultBaseURL. A trailing slash is ignored.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithTemperature overrides DefaultTemperature.
func WithTemperature(temperature float32) Option {
	return func(p *Provider) { p.temperature = utils.Ptr(temperature) }
}

// WithoutTemperature omits the temperature field so the service default applies.
func WithoutTemperature() Option {
	return func(p *Provider) { p.temperature = nil }
}

// WithMaxTokens overrides DefaultMaxTokens. Non-positive values are ignored.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Provider) {
		if maxTokens > 0 {
			p.maxTokens = maxTokens
		}
	}
}

// WithHTTPClient sets the HTTP client used for outbound requests. Timeouts
// configured on the client surface as transport failures.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithObserver enables diagnostic logging of raw responses.
func WithObserver(observer observability.Provider) Option {
	return func(p *Provider) { p.observer = observer }
}

// WithLenientDecoding makes the provider repair syntactically broken JSON
// bodies (trailing commas, truncation) before decoding. Shape validation
// still applies to the repaired document.
func WithLenientDecoding(lenient bool) Option {
	return func(p *Provider) { p.lenient = lenient }
}

// New creates a Provider with the defaults overridden by opts.
func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: utils.Ptr(DefaultTemperature),
		maxTokens:   DefaultMaxTokens,
		client:      &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier used in telemetry.
func (p *Provider) Name() string {
	return providerName
}

// Endpoint returns the full URL requests are POSTed to.
func (p *Provider) Endpoint() string {
	return p.baseURL + completionsEndpoint
}

// NewRequest builds the request body for prompt. The prompt is not
// validated: an empty prompt produces a request with an empty prompt field.
func (p *Provider) NewRequest(prompt string) CompletionRequest {
	request := CompletionRequest{
		Model:     p.model,
		Prompt:    prompt,
		MaxTokens: p.maxTokens,
	}
	if p.temperature != nil {
		request.Temperature = utils.Ptr(*p.temperature)
	}
	return request
}

// Complete builds a request for prompt and performs one exchange.
func (p *Provider) Complete(ctx context.Context, prompt string) (*CompletionResponse, error) {
	return p.Send(ctx, p.NewRequest(prompt))
}

// Send performs exactly one exchange with an already built request. It
// returns either a decoded response or an *ExchangeError, never both and
// never neither. It does not retry.
func (p *Provider) Send(ctx context.Context, request CompletionRequest) (*CompletionResponse, error) {
	if p.apiKey == "" {
		return nil, &ExchangeError{Kind: KindTransport, Err: ErrMissingAPIKey}
	}

	httpResponse, body, err := utils.DoPostSync(ctx, p.client, p.Endpoint(), p.apiKey, request)
	if err != nil {
		var statusErr *utils.StatusError
		if errors.As(err, &statusErr) {
			p.logBody(ctx, statusErr.StatusCode, statusErr.Body)
			return nil, newServiceError(statusErr.StatusCode, statusErr.Body)
		}
		return nil, &ExchangeError{Kind: KindTransport, Err: err}
	}

	p.logBody(ctx, httpResponse.StatusCode, body)

	return decodeResponse(httpResponse.StatusCode, body, p.lenient)
}

func (p *Provider) logBody(ctx context.Context, status int, body []byte) {
	if p.observer == nil {
		return
	}
	p.observer.Debug(ctx, "completion response received",
		observability.String(observability.AttrLLMProvider, providerName),
		observability.Int(observability.AttrHTTPStatusCode, status),
		observability.String(observability.AttrResponseBody, utils.TruncateString(string(body), utils.DefaultMaxStringLength)),
	)
}
