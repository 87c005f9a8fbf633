package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leofalp/askgpt/core/session"
	"github.com/leofalp/askgpt/providers/completion"
)

var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrMissingPrompt = errors.New("request body has no prompt")
)

// Error kinds reported in the envelope besides the completion kinds.
const (
	KindRequest    = "request"
	KindSuperseded = "superseded"
	KindInternal   = "internal"
)

type jsonError struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	Kind         string `json:"kind,omitempty"`
	UpstreamCode int    `json:"upstreamStatus,omitempty"`
}

// WriteJSONError writes the error envelope with the given status.
func WriteJSONError(w http.ResponseWriter, statusCode int, kind, message string) {
	writeError(w, statusCode, jsonError{
		Error:   http.StatusText(statusCode),
		Message: message,
		Kind:    kind,
	})
}

// writeExchangeError maps a failed submit onto a status code and envelope.
func writeExchangeError(w http.ResponseWriter, err error) {
	body := jsonError{Message: err.Error()}
	statusCode := http.StatusBadGateway

	var exchangeErr *completion.ExchangeError
	switch {
	case errors.Is(err, session.ErrSuperseded):
		statusCode = http.StatusConflict
		body.Kind = KindSuperseded
	case errors.As(err, &exchangeErr):
		body.Kind = exchangeErr.Kind.String()
		if exchangeErr.Kind == completion.KindService {
			body.UpstreamCode = exchangeErr.StatusCode
		}
	default:
		statusCode = http.StatusInternalServerError
		body.Kind = KindInternal
	}

	body.Error = http.StatusText(statusCode)
	writeError(w, statusCode, body)
}

func writeError(w http.ResponseWriter, statusCode int, body jsonError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
