// Package slog implements observability.Provider on top of log/slog.
//
// Spans are logged on start and end, counters keep their running total in
// memory and log every increment, histograms log each recorded value. The
// log level is normally taken from ASKGPT_LOG_LEVEL (falling back to
// LOG_LEVEL) via [GetLogLevelFromEnv].
package slog
