package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leofalp/askgpt/core/session"
)

const maxBodyBytes = 1 << 20

type promptRequest struct {
	Prompt *string `json:"prompt"`
}

type replyResponse struct {
	Reply      *session.ChatMessage `json:"reply"`
	Empty      bool                 `json:"empty"`
	ResponseID string               `json:"responseId,omitempty"`
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	messages := s.chat.Messages()
	if messages == nil {
		messages = []session.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, KindRequest, fmt.Errorf("%w: %v", ErrMalformedBody, err).Error())
		return
	}
	if req.Prompt == nil {
		WriteJSONError(w, http.StatusBadRequest, KindRequest, ErrMissingPrompt.Error())
		return
	}

	reply, err := s.chat.Submit(r.Context(), *req.Prompt)
	if err != nil {
		s.logger.Warn("exchange failed", "error", err)
		writeExchangeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, replyResponse{
		Reply:      reply.Message,
		Empty:      reply.Empty,
		ResponseID: reply.ResponseID,
	})
}

func (s *Server) resetMessages(w http.ResponseWriter, r *http.Request) {
	s.chat.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
