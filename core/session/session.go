package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/askgpt/core/client"
)

// ErrSuperseded is returned by Submit when a newer prompt (or Reset)
// replaced the exchange before its result arrived.
var ErrSuperseded = errors.New("session: exchange superseded by a newer prompt")

// Submitter starts one asynchronous exchange. *client.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, prompt string) <-chan client.Outcome
}

// Reply describes what a successful Submit added to the transcript.
type Reply struct {
	// Message is the remote message appended, nil when Empty.
	Message *ChatMessage

	// Empty is true when the service answered without usable text (no
	// choices, or only whitespace and quotes). Nothing was appended.
	Empty bool

	// ResponseID is the id returned by the service.
	ResponseID string
}

// Session is the transcript plus the single live exchange. It is safe for
// concurrent use.
type Session struct {
	submitter Submitter
	now       func() time.Time
	newID     func() string

	mu         sync.Mutex
	messages   []ChatMessage
	generation uint64
	cancel     context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator overrides the generator used for local message ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// New creates an empty session.
func New(submitter Submitter, opts ...Option) *Session {
	s := &Session{
		submitter: submitter,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends prompt as a local message, cancels any exchange still in
// flight, and waits for this exchange's outcome.
//
// On success with text, the cleaned first choice is appended as a remote
// message whose id is the response id. On success without text, nothing is
// appended and Reply.Empty is set. On failure the error is returned as is
// (see completion.IsTransport and friends). If another Submit or Reset
// happened meanwhile, the result is dropped and ErrSuperseded is returned.
func (s *Session) Submit(ctx context.Context, prompt string) (Reply, error) {
	exchangeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.messages = append(s.messages, ChatMessage{
		ID:        s.newID(),
		Content:   prompt,
		CreatedAt: s.now(),
		Sender:    SenderLocal,
	})
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	generation := s.generation
	s.cancel = cancel
	s.mu.Unlock()

	outcome, ok := <-s.submitter.Submit(exchangeCtx, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return Reply{}, ErrSuperseded
	}
	s.cancel = nil

	if !ok {
		return Reply{}, client.ErrNoOutcome
	}
	if outcome.Err != nil {
		return Reply{}, outcome.Err
	}

	response := outcome.Response
	text, ok := response.CleanText()
	if !ok || text == "" {
		return Reply{Empty: true, ResponseID: response.ID}, nil
	}

	message := ChatMessage{
		ID:        response.ID,
		Content:   text,
		CreatedAt: s.now(),
		Sender:    SenderRemote,
	}
	s.messages = append(s.messages, message)

	return Reply{Message: &message, ResponseID: response.ID}, nil
}

// Messages returns a copy of the transcript in submission order.
func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Len returns the number of messages in the transcript.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Reset clears the transcript and cancels the live exchange, whose result
// will be discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.messages = nil
}
