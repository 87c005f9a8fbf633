// Package middleware provides ready-made client.Middleware values:
// structured logging of every exchange and a per-exchange deadline.
//
// There is no retry middleware. Each exchange is attempted once.
package middleware
