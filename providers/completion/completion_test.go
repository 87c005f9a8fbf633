package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ========== Helpers ==========

// newTestServer starts a server answering every request with status and body
// and recording the last request it saw.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.contentType = r.Header.Get("Content-Type")
		captured.body, _ = io.ReadAll(r.Body)
		captured.calls++

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

type capturedRequest struct {
	method      string
	path        string
	auth        string
	contentType string
	body        []byte
	calls       int
}

func newTestProvider(server *httptest.Server, opts ...Option) *Provider {
	base := []Option{
		WithAPIKey("sk-test"),
		WithBaseURL(server.URL + "/v1"),
		WithHTTPClient(server.Client()),
	}
	return New(append(base, opts...)...)
}

// ========== Request builder ==========

// TestNew_Defaults verifies the fixed configuration used when no option
// overrides it.
func TestNew_Defaults(t *testing.T) {
	p := New(WithAPIKey("k"))

	req := p.NewRequest("hello")
	if req.Model != DefaultModel {
		t.Errorf("expected model %q, got %q", DefaultModel, req.Model)
	}
	if req.Temperature == nil || *req.Temperature != DefaultTemperature {
		t.Errorf("expected temperature %v, got %v", DefaultTemperature, req.Temperature)
	}
	if req.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected max tokens %d, got %d", DefaultMaxTokens, req.MaxTokens)
	}
	if p.Endpoint() != "https://api.openai.com/v1/completions" {
		t.Errorf("unexpected endpoint %q", p.Endpoint())
	}
}

// TestNewRequest_Options verifies that every fixed value can be overridden.
func TestNewRequest_Options(t *testing.T) {
	p := New(
		WithModel("gpt-3.5-turbo-instruct"),
		WithTemperature(0.2),
		WithMaxTokens(64),
		WithBaseURL("http://localhost:8080/v1/"),
	)

	req := p.NewRequest("hi")
	if req.Model != "gpt-3.5-turbo-instruct" || *req.Temperature != 0.2 || req.MaxTokens != 64 {
		t.Errorf("options not applied: %+v", req)
	}
	if p.Endpoint() != "http://localhost:8080/v1/completions" {
		t.Errorf("expected trailing slash to be trimmed, got %q", p.Endpoint())
	}
}

// TestNewRequest_IgnoresInvalidOptions verifies that empty or non-positive
// overrides keep the defaults.
func TestNewRequest_IgnoresInvalidOptions(t *testing.T) {
	p := New(WithModel(""), WithMaxTokens(0), WithBaseURL(""), WithHTTPClient(nil))

	req := p.NewRequest("x")
	if req.Model != DefaultModel || req.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected defaults, got %+v", req)
	}
	if p.Endpoint() != DefaultBaseURL+"/completions" {
		t.Errorf("expected default endpoint, got %q", p.Endpoint())
	}
}

// TestNewRequest_EmptyPromptPassesThrough verifies that the builder does not
// validate the prompt.
func TestNewRequest_EmptyPromptPassesThrough(t *testing.T) {
	req := New().NewRequest("")
	if req.Prompt != "" {
		t.Errorf("expected empty prompt, got %q", req.Prompt)
	}

	encoded, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(encoded), `"prompt":""`) {
		t.Errorf("expected empty prompt field on the wire, got %s", encoded)
	}
}

// TestNewRequest_WithoutTemperature verifies the optional field is omitted.
func TestNewRequest_WithoutTemperature(t *testing.T) {
	req := New(WithoutTemperature()).NewRequest("x")
	if req.Temperature != nil {
		t.Fatalf("expected nil temperature, got %v", *req.Temperature)
	}

	encoded, _ := json.Marshal(req)
	if strings.Contains(string(encoded), "temperature") {
		t.Errorf("expected temperature to be omitted, got %s", encoded)
	}
}

// TestCompletionRequest_RoundTrip verifies that model, prompt, temperature
// and max_tokens survive encoding and decoding exactly.
func TestCompletionRequest_RoundTrip(t *testing.T) {
	temperature := float32(0.75)
	original := CompletionRequest{Model: "m", Prompt: "hello", Temperature: &temperature, MaxTokens: 255}

	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(encoded, &wire); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	for _, key := range []string{"model", "prompt", "temperature", "max_tokens"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("expected wire key %q in %s", key, encoded)
		}
	}

	var decoded CompletionRequest
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Model != "m" || decoded.Prompt != "hello" || decoded.MaxTokens != 255 {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
	if decoded.Temperature == nil || *decoded.Temperature != 0.75 {
		t.Errorf("temperature not preserved: %v", decoded.Temperature)
	}
}

// ========== Exchange ==========

// TestComplete_Success verifies the wire request and that the first choice
// text matches the mocked payload exactly.
func TestComplete_Success(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"id":"cmpl-1","choices":[{"text":"\n\nParis"}]}`)
	p := newTestProvider(server)

	resp, err := p.Complete(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.method != http.MethodPost || captured.path != "/v1/completions" {
		t.Errorf("expected POST /v1/completions, got %s %s", captured.method, captured.path)
	}
	if captured.auth != "Bearer sk-test" {
		t.Errorf("expected bearer credential, got %q", captured.auth)
	}
	if captured.contentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", captured.contentType)
	}

	var sent CompletionRequest
	if err := json.Unmarshal(captured.body, &sent); err != nil {
		t.Fatalf("server received invalid JSON: %v", err)
	}
	if sent.Prompt != "Capital of France?" || sent.Model != DefaultModel || sent.MaxTokens != DefaultMaxTokens {
		t.Errorf("unexpected request body: %s", captured.body)
	}

	if resp.ID != "cmpl-1" {
		t.Errorf("expected id cmpl-1, got %q", resp.ID)
	}
	text, ok := resp.FirstText()
	if !ok || text != "\n\nParis" {
		t.Errorf("expected exact first choice text, got %q (ok=%v)", text, ok)
	}
	if captured.calls != 1 {
		t.Errorf("expected exactly one request, got %d", captured.calls)
	}
}

// TestComplete_FirstChoiceMatchesForManyPrompts checks the success property
// over a spread of prompts, including unicode and JSON-significant characters.
func TestComplete_FirstChoiceMatchesForManyPrompts(t *testing.T) {
	prompts := []string{"a", "hello world", `quote " and \ backslash`, "ünïcødé ✓", strings.Repeat("long ", 200)}

	for _, prompt := range prompts {
		want := "echo:" + prompt
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req CompletionRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			_ = json.NewEncoder(w).Encode(CompletionResponse{ID: "x", Choices: []Choice{{Text: "echo:" + req.Prompt}}})
		}))

		resp, err := newTestProvider(server).Complete(context.Background(), prompt)
		server.Close()
		if err != nil {
			t.Fatalf("prompt %q: unexpected error: %v", prompt, err)
		}
		if got, _ := resp.FirstText(); got != want {
			t.Errorf("prompt %q: expected %q, got %q", prompt, want, got)
		}
	}
}

// TestComplete_CleanText verifies the trimming applied to display text.
func TestComplete_CleanText(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"id":"abc123","choices":[{"text":"  \"Hi there\"  "}]}`)

	resp, err := newTestProvider(server).Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, ok := resp.CleanText()
	if !ok || text != "Hi there" {
		t.Errorf("expected %q, got %q (ok=%v)", "Hi there", text, ok)
	}
}

// TestComplete_EmptyChoices verifies that zero choices is a valid response
// with no text, not an error.
func TestComplete_EmptyChoices(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"id":"abc123","choices":[]}`)

	resp, err := newTestProvider(server).Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected no error for empty choices, got %v", err)
	}
	if resp.ID != "abc123" || len(resp.Choices) != 0 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if _, ok := resp.FirstText(); ok {
		t.Error("expected no first choice")
	}
	if _, ok := resp.CleanText(); ok {
		t.Error("expected no clean text")
	}
}

// ========== Failure classification ==========

// TestComplete_ConnectionRefused verifies that an unreachable service is a
// transport failure, not a decode failure.
func TestComplete_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	p := New(WithAPIKey("sk-test"), WithBaseURL(base))
	resp, err := p.Complete(context.Background(), "hi")

	if resp != nil {
		t.Errorf("expected nil response on failure, got %+v", resp)
	}
	if !IsTransport(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if IsDecode(err) || IsService(err) {
		t.Errorf("transport failure must not match other kinds: %v", err)
	}
	if KindOf(err) != KindTransport {
		t.Errorf("expected KindTransport, got %v", KindOf(err))
	}
}

// TestComplete_UnexpectedShape verifies that a 200 with a foreign JSON object
// is a decode failure.
func TestComplete_UnexpectedShape(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"unexpected":"shape"}`)

	_, err := newTestProvider(server).Complete(context.Background(), "hi")
	if !IsDecode(err) {
		t.Fatalf("expected decode failure, got %v", err)
	}

	var exchangeErr *ExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("expected *ExchangeError, got %T", err)
	}
	if exchangeErr.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 on decode failure, got %d", exchangeErr.StatusCode)
	}
	if !strings.Contains(exchangeErr.Body, "unexpected") {
		t.Errorf("expected body preview, got %q", exchangeErr.Body)
	}
}

func TestComplete_DecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway</html>`},
		{"json string", `"not an object"`},
		{"missing id", `{"choices":[{"text":"x"}]}`},
		{"id wrong type", `{"id":7,"choices":[]}`},
		{"choices wrong type", `{"id":"x","choices":"nope"}`},
		{"choice without text", `{"id":"x","choices":[{"index":0}]}`},
		{"truncated", `{"id":"x","choices":[{"text":"hi"`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, http.StatusOK, tt.body)
			_, err := newTestProvider(server).Complete(context.Background(), "hi")
			if !IsDecode(err) {
				t.Errorf("expected decode failure, got %v", err)
			}
		})
	}
}

// TestComplete_ServiceFailure verifies that a non-2xx status is a service
// failure carrying the status and the provider's message.
func TestComplete_ServiceFailure(t *testing.T) {
	server, _ := newTestServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)

	_, err := newTestProvider(server).Complete(context.Background(), "hi")
	if !IsService(err) {
		t.Fatalf("expected service failure, got %v", err)
	}

	var exchangeErr *ExchangeError
	errors.As(err, &exchangeErr)
	if exchangeErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", exchangeErr.StatusCode)
	}
	if exchangeErr.Message != "invalid_request_error: Incorrect API key provided" {
		t.Errorf("unexpected message %q", exchangeErr.Message)
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("expected status in error string, got %q", err.Error())
	}
}

// TestComplete_ServiceFailurePlainBody verifies a non-JSON error page is
// still a service failure, not a decode failure.
func TestComplete_ServiceFailurePlainBody(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadGateway, "upstream down")

	_, err := newTestProvider(server).Complete(context.Background(), "hi")
	if !IsService(err) || IsDecode(err) {
		t.Fatalf("expected service failure, got %v", err)
	}
}

// TestComplete_ErrorPayloadWith200 verifies that an error payload on a 2xx
// response is reported as a service failure.
func TestComplete_ErrorPayloadWith200(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"error":{"message":"model overloaded"}}`)

	_, err := newTestProvider(server).Complete(context.Background(), "hi")
	if !IsService(err) {
		t.Fatalf("expected service failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected provider message in error, got %q", err.Error())
	}
}

// TestComplete_MissingAPIKey verifies that no request is made without a key.
func TestComplete_MissingAPIKey(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, `{"id":"x","choices":[]}`)
	p := New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	_, err := p.Complete(context.Background(), "hi")
	if !errors.Is(err, ErrMissingAPIKey) || !IsTransport(err) {
		t.Fatalf("expected missing key transport failure, got %v", err)
	}
	if captured.calls != 0 {
		t.Errorf("expected no request, got %d", captured.calls)
	}
}

// TestComplete_ContextCanceled verifies cancellation is a transport failure
// that still unwraps to the context error.
func TestComplete_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestProvider(server).Complete(ctx, "hi")
	if !IsTransport(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
}

// TestComplete_NoRetry verifies that a failing service is called once.
func TestComplete_NoRetry(t *testing.T) {
	server, captured := newTestServer(t, http.StatusServiceUnavailable, "busy")

	_, _ = newTestProvider(server).Complete(context.Background(), "hi")
	if captured.calls != 1 {
		t.Errorf("expected exactly one attempt, got %d", captured.calls)
	}
}

// ========== Lenient decoding ==========

func TestComplete_LenientRepairsTrailingComma(t *testing.T) {
	body := `{"id":"abc","choices":[{"text":"hi"},],}`

	server, _ := newTestServer(t, http.StatusOK, body)
	if _, err := newTestProvider(server).Complete(context.Background(), "x"); !IsDecode(err) {
		t.Fatalf("strict mode should reject broken JSON, got %v", err)
	}

	resp, err := newTestProvider(server, WithLenientDecoding(true)).Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("lenient mode should repair, got %v", err)
	}
	if text, _ := resp.FirstText(); text != "hi" || resp.ID != "abc" {
		t.Errorf("unexpected repaired response: %+v", resp)
	}
}

// TestComplete_LenientStillValidatesShape verifies that repair does not turn
// a foreign document into a success.
func TestComplete_LenientStillValidatesShape(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"unexpected":"shape"}`)

	_, err := newTestProvider(server, WithLenientDecoding(true)).Complete(context.Background(), "x")
	if !IsDecode(err) {
		t.Fatalf("expected decode failure, got %v", err)
	}
}
