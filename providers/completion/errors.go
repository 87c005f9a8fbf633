package completion

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an exchange failed.
type ErrorKind int

const (
	// KindTransport: the request could not be sent or no response was
	// received (connectivity, TLS, timeout, cancellation, missing key).
	KindTransport ErrorKind = iota + 1
	// KindService: the service answered with a non-2xx status or an error payload.
	KindService
	// KindDecode: the service answered 2xx but the body is not a completion.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindService:
		return "service"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels matched by [ExchangeError.Is], one per kind.
var (
	ErrTransport = errors.New("completion: transport failure")
	ErrService   = errors.New("completion: service failure")
	ErrDecode    = errors.New("completion: decode failure")
)

// ErrMissingAPIKey is reported, as a transport failure, when the provider
// has no bearer credential. No request is attempted.
var ErrMissingAPIKey = errors.New("completion: API key is not set")

// ExchangeError is the single failure type returned by [Provider.Send] and
// [Provider.Complete].
type ExchangeError struct {
	Kind ErrorKind

	// StatusCode is the HTTP status for service and decode failures, zero
	// for transport failures.
	StatusCode int

	// Message is the provider-reported error message, when the body carried one.
	Message string

	// Body is a truncated preview of the response body, if any was read.
	Body string

	// Err is the underlying cause.
	Err error
}

func (e *ExchangeError) Error() string {
	msg := fmt.Sprintf("completion: %s failure", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so errors.Is(err, ErrDecode) works through
// any amount of wrapping.
func (e *ExchangeError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrService:
		return e.Kind == KindService
	case ErrDecode:
		return e.Kind == KindDecode
	}
	return false
}

// KindOf returns the kind of the first *ExchangeError in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var exchangeErr *ExchangeError
	if errors.As(err, &exchangeErr) {
		return exchangeErr.Kind
	}
	return 0
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsService reports whether err is a service failure.
func IsService(err error) bool { return errors.Is(err, ErrService) }

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool { return errors.Is(err, ErrDecode) }
