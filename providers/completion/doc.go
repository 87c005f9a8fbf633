// Package completion implements the request/response exchange with an
// OpenAI-style text completion endpoint (POST <base>/completions).
//
// [New] builds a [Provider] from explicit options; nothing is read from the
// environment here. [Provider.NewRequest] turns a prompt into a
// [CompletionRequest] using the configured model, temperature and max
// tokens, and [Provider.Complete] performs exactly one exchange: no retries,
// no streaming.
//
// Every failure is an [*ExchangeError] classified as transport, service or
// decode, so callers can tell "could not reach the service" from "the
// service rejected the request" from "the service answered in an unexpected
// format":
//
//	resp, err := provider.Complete(ctx, "Say hi")
//	switch {
//	case completion.IsTransport(err):
//	case completion.IsService(err):
//	case completion.IsDecode(err):
//	}
package completion
