// Package session keeps the in-memory chat transcript shown by the front
// ends. Each prompt becomes a local [ChatMessage]; each successful exchange
// with text becomes a remote one. Failures are returned to the caller and
// never silently dropped.
//
// At most one exchange is live per Session: submitting a new prompt cancels
// the previous exchange, and a result that arrives for a superseded exchange
// is discarded with [ErrSuperseded].
package session
