// Package logger provides opinionated slog logging for specgraph.
//
// CLI commands log to stderr so that stdout stays reserved for command
// output (including JSON consumed by workflow tooling).
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level  slog.Level
	pretty bool
	json   bool
	out    io.Writer
}

// New creates a *slog.Logger. Without options it writes leveled text to
// stderr at Info level.
func New(opts ...Option) *slog.Logger {
	c := &config{level: slog.LevelInfo, out: os.Stderr}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.json:
		return slog.New(slog.NewJSONHandler(c.out, &slog.HandlerOptions{Level: c.level}))
	case c.pretty:
		return slog.New(charmlog.NewWithOptions(c.out, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
		}))
	default:
		return slog.New(slog.NewTextHandler(c.out, &slog.HandlerOptions{Level: c.level}))
	}
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
