// Package client sits between callers (the chat session, the HTTP front end,
// the CLI) and a completion provider. It threads every exchange through a
// middleware chain and offers the one-shot asynchronous [Client.Submit],
// which always delivers exactly one [Outcome].
//
// The primary entry point is [New], which accepts a [Sender] (normally a
// *completion.Provider) and functional options such as [WithMiddleware] and
// [WithObserver].
package client
