package completion

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/askgpt/internal/utils"
)

const bodyPreviewLen = 500

// wireResponse mirrors CompletionResponse with pointer fields so missing keys
// can be told apart from empty values.
type wireResponse struct {
	ID      *string       `json:"id"`
	Choices *[]wireChoice `json:"choices"`
	Error   *apiError     `json:"error"`
}

type wireChoice struct {
	Text *string `json:"text"`
}

// apiError is the {"error": {...}} payload OpenAI-compatible services return.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

func (e *apiError) describe() string {
	if e == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if e.Type != "" {
		parts = append(parts, e.Type)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, ": ")
}

// decodeResponse turns a 2xx body into a CompletionResponse. A provider error
// payload is a service failure; anything else that is not a completion is a
// decode failure.
func decodeResponse(status int, body []byte, lenient bool) (*CompletionResponse, error) {
	decodeErr := func(err error) error {
		return &ExchangeError{
			Kind:       KindDecode,
			StatusCode: status,
			Body:       utils.TruncateString(string(body), bodyPreviewLen),
			Err:        err,
		}
	}

	payload := body
	if lenient && !json.Valid(body) {
		repaired, err := utils.RepairJSON(body)
		if err != nil {
			return nil, decodeErr(err)
		}
		payload = repaired
	}

	var wire wireResponse
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, decodeErr(fmt.Errorf("error unmarshaling completion response: %w", err))
	}

	if wire.Error != nil && wire.Choices == nil {
		return nil, &ExchangeError{
			Kind:       KindService,
			StatusCode: status,
			Message:    wire.Error.describe(),
			Body:       utils.TruncateString(string(body), bodyPreviewLen),
			Err:        errors.New("provider reported an error"),
		}
	}

	if wire.ID == nil {
		return nil, decodeErr(errors.New(`response has no "id" field`))
	}
	if wire.Choices == nil {
		return nil, decodeErr(errors.New(`response has no "choices" field`))
	}

	response := &CompletionResponse{
		ID:      *wire.ID,
		Choices: make([]Choice, 0, len(*wire.Choices)),
	}
	for i, choice := range *wire.Choices {
		if choice.Text == nil {
			return nil, decodeErr(fmt.Errorf(`choice %d has no "text" field`, i))
		}
		response.Choices = append(response.Choices, Choice{Text: *choice.Text})
	}

	return response, nil
}

// newServiceError builds the failure for a non-2xx response, pulling the
// provider's error message out of the body when it has one.
func newServiceError(status int, body []byte) *ExchangeError {
	exchangeErr := &ExchangeError{
		Kind:       KindService,
		StatusCode: status,
		Body:       utils.TruncateString(string(body), bodyPreviewLen),
		Err:        &utils.StatusError{StatusCode: status, Body: body},
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != nil {
		exchangeErr.Message = wire.Error.describe()
	}

	return exchangeErr
}
