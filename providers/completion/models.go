package completion

import "github.com/leofalp/askgpt/internal/utils"

// CompletionRequest is the JSON body POSTed to the completions endpoint.
// Temperature is optional and omitted from the wire when nil.
type CompletionRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens"`
}

// CompletionResponse is the decoded body of a successful exchange. An empty
// Choices slice is valid and means the service produced no text.
type CompletionResponse struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Choice is one candidate completion.
type Choice struct {
	Text string `json:"text"`
}

// FirstText returns the raw text of the first choice. ok is false when the
// response carries no choices.
func (r *CompletionResponse) FirstText() (text string, ok bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Text, true
}

// CleanText returns the first choice's text with surrounding whitespace and
// double quotes removed. ok is false when the response carries no choices.
func (r *CompletionResponse) CleanText() (text string, ok bool) {
	raw, ok := r.FirstText()
	if !ok {
		return "", false
	}
	return utils.TrimQuoted(raw), true
}
