// Package utils provides shared low-level helpers used by the askgpt
// internals: a synchronous JSON POST helper for talking to the completion
// endpoint, JSON repair for lenient decoding, and string utilities for
// trimming, truncating and quoting text in logs and user-facing output.
//
// Key entry points: [DoPostSync] for a single JSON round-trip, [StatusError]
// for non-2xx responses, [RepairJSON] for best-effort body repair, and
// [TrimQuoted] for cleaning completion text.
package utils
