// Package cli implements the craftwise command-line interface.
//
// Commands load configuration (see internal/config), open the configured
// pool store and cache, build the recipe registry and hand everything to a
// workshop.Workshop. Output goes to stdout through the lipgloss helpers in
// ui.go; diagnostics go to the charmbracelet/log logger on stderr.
//
// # Commands
//
//   - resolve: show what can be synthesized from stock and what is missing
//   - expand, materials: the full cost of an item, ignoring the pool
//   - craft: commit a craft to the pool
//   - pool: inspect and edit the resource pool
//   - recipes: list, show, check and trace recipe sources
//   - serve: run the HTTP API
//   - cache: manage the cache directory
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The root
// command attaches the logger to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are "HH:MM:SS.ms" so that
// recipe loading and rendering steps can be compared at a glance.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one step, such as loading recipes or rendering SVG, and
// logs its completion at a fixed level.
type progress struct {
	logger *log.Logger
	level  log.Level
	start  time.Time
}

func newProgress(l *log.Logger, level log.Level) *progress {
	return &progress{logger: l, level: level, start: time.Now()}
}

// done logs msg with keyvals and an "elapsed" field rounded to milliseconds.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Log(p.level, msg, keyvals...)
}

type ctxKey struct{}

// withLogger attaches l to ctx. The root command does this before any
// subcommand runs.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when a command runs outside the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
