package main

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// runAsk performs a single exchange and prints the cleaned reply.
func runAsk(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a, err := newApp("ask", args, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}
	if len(a.cfg.Args) == 0 {
		fmt.Fprintln(stderr, "usage: askgpt ask [flags] <prompt>")
		return 2
	}

	reply, err := a.session.Submit(ctx, strings.Join(a.cfg.Args, " "))
	if err != nil {
		return exitCode(stderr, err)
	}
	if reply.Empty {
		fmt.Fprintln(stderr, "(no reply)")
		return 0
	}
	fmt.Fprintln(stdout, reply.Message.Content)
	return 0
}
