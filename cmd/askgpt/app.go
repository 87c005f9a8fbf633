package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/leofalp/askgpt/core/client"
	"github.com/leofalp/askgpt/core/client/middleware"
	"github.com/leofalp/askgpt/core/session"
	"github.com/leofalp/askgpt/internal/config"
	"github.com/leofalp/askgpt/providers/completion"
	slogobs "github.com/leofalp/askgpt/providers/observability/slog"
)

// app is the wired exchange stack shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *session.Session
}

// errUsage marks invalid command lines; the flag package has already
// printed the details.
var errUsage = errors.New("usage")

// newApp loads configuration for the named subcommand and builds the
// provider, client and session from it. Logs go to logOut.
func newApp(name string, args []string, logOut io.Writer) (*app, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(name, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slogobs.NewTextLogger(logOut, cfg.LogLevel)
	observer := slogobs.New(logger)

	provider := completion.New(append(cfg.ProviderOptions(), completion.WithObserver(observer))...)

	logLevel := middleware.LogLevelStandard
	if cfg.LogLevel <= slog.LevelDebug {
		logLevel = middleware.LogLevelVerbose
	}

	c, err := client.New(provider,
		client.WithObserver(observer),
		client.WithMiddleware(
			middleware.NewLoggingMiddleware(logger, logLevel),
			middleware.NewTimeoutMiddleware(cfg.RequestTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build client: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		session: session.New(c),
	}, nil
}

// exitCode reports err on w and maps it to a process exit code.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(w, err)
		return 2
	default:
		reportError(w, err)
		return 1
	}
}

// reportError prints a failure with its classification.
func reportError(w io.Writer, err error) {
	if kind := completion.KindOf(err); kind != 0 {
		fmt.Fprintf(w, "error [%s]: %v\n", kind, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
