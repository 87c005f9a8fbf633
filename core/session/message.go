package session

import (
	"fmt"
	"time"
)

// Sender identifies who authored a message.
type Sender int

const (
	SenderLocal Sender = iota + 1
	SenderRemote
)

func (s Sender) String() string {
	switch s {
	case SenderLocal:
		return "local"
	case SenderRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// MarshalText encodes the sender as "local" or "remote".
func (s Sender) MarshalText() ([]byte, error) {
	switch s {
	case SenderLocal, SenderRemote:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("session: invalid sender %d", int(s))
	}
}

// UnmarshalText decodes "local" or "remote".
func (s *Sender) UnmarshalText(text []byte) error {
	switch string(text) {
	case "local":
		*s = SenderLocal
	case "remote":
		*s = SenderRemote
	default:
		return fmt.Errorf("session: invalid sender %q", text)
	}
	return nil
}

// ChatMessage is one bubble in the transcript. It is never modified after
// it is appended.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    Sender    `json:"sender"`
}
