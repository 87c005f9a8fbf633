// Command askgpt sends free-text prompts to a text-completion service.
//
// Usage:
//
//	askgpt serve [flags]          HTTP chat front end
//	askgpt chat  [flags]          interactive terminal chat
//	askgpt ask   [flags] <prompt> one exchange, non-zero exit on failure
//
// Settings come from the environment (optionally a .env file) and can be
// overridden by flags; run "askgpt <command> -h" for the list.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: askgpt <serve|chat|ask> [flags] [prompt]`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches to a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	command, rest := args[0], args[1:]
	switch command {
	case "serve":
		return runServe(ctx, rest, stderr)
	case "chat":
		return runChat(ctx, rest, stdin, stdout, stderr)
	case "ask":
		return runAsk(ctx, rest, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s\n", command, usage)
		return 2
	}
}
