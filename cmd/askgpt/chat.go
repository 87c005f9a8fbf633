package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/leofalp/askgpt/core/session"
)

const chatHelp = `commands: /history, /reset, /quit`

// runChat reads prompts line by line until EOF, /quit or cancellation.
func runChat(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a, err := newApp("chat", args, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}

	fmt.Fprintln(stdout, chatHelp)
	chatLoop(ctx, a.session, stdin, stdout)
	return 0
}

func chatLoop(ctx context.Context, s *session.Session, stdin io.Reader, stdout io.Writer) {
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Fprintln(stdout)
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/reset":
			s.Reset()
			fmt.Fprintln(stdout, "(transcript cleared)")
			continue
		case "/history":
			printHistory(stdout, s.Messages())
			continue
		}

		reply, err := s.Submit(ctx, line)
		switch {
		case err != nil:
			reportError(stdout, err)
		case reply.Empty:
			fmt.Fprintln(stdout, "(no reply)")
		default:
			fmt.Fprintln(stdout, reply.Message.Content)
		}
	}
}

func printHistory(w io.Writer, messages []session.ChatMessage) {
	if len(messages) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	for _, m := range messages {
		fmt.Fprintf(w, "[%s %s] %s\n", m.CreatedAt.Format("15:04:05"), m.Sender, m.Content)
	}
}
