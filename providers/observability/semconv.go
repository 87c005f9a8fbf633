package observability

// Attribute keys, span names and metric names shared by every component.

// --- Completion Attributes ---

const (
	// AttrLLMProvider is the name of the completion provider (e.g. "openai")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier sent with the request
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the completion endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMResponseID is the response identifier returned by the provider
	AttrLLMResponseID = "llm.response.id"

	// AttrLLMTemperature is the sampling temperature used
	AttrLLMTemperature = "llm.temperature"

	// AttrLLMMaxTokens is the maximum output length requested
	AttrLLMMaxTokens = "llm.max_tokens" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMChoicesCount is the number of choices in the response
	AttrLLMChoicesCount = "llm.choices_count"

	// AttrPromptLength is the prompt length in bytes
	AttrPromptLength = "prompt.length"

	// AttrResponseContent is the (truncated) first choice text
	AttrResponseContent = "response.content"

	// AttrResponseBody is the (truncated) raw response body
	AttrResponseBody = "response.body"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorKind is the exchange failure class (transport, service, decode)
	AttrErrorKind = "error.kind"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanCompletionExchange covers one request/response cycle
	SpanCompletionExchange = "completion.exchange"
)

// --- Metric Names ---

const (
	// MetricExchangeCount counts exchanges, tagged with status
	MetricExchangeCount = "askgpt.exchange.count"

	// MetricExchangeFailures counts failed exchanges, tagged with error.kind
	MetricExchangeFailures = "askgpt.exchange.failures"

	// MetricExchangeDuration is the histogram of exchange duration in seconds
	MetricExchangeDuration = "askgpt.exchange.duration"
)
