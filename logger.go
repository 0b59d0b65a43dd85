package tilelayer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Its Enabled reports false, so tasks that
// log per tile pay nothing for building attributes while logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the package logger. Task driver goroutines read it while
// the embedder may replace it.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger shared by NewLayer and by every Task created
// without [WithLogger]. Until it is called tilelayer logs nothing.
//
// A nil logger switches logging off again. Running tasks see the new logger
// from their next record on.
//
// Records written by tilelayer:
//   - [slog.LevelDebug]: "partitioned layer" with the tile count, then
//     "dispatch tile", "tile rendered" and "render cancelled" per task
//   - [slog.LevelInfo]: "render complete" with the number of tiles rendered
//   - [slog.LevelWarn]: "tile render failed" with the tile index and error
//
// Every record of a task is written before the task settles, so a handler
// may be inspected safely once [Task.Wait] returns.
//
// Example:
//
//	tilelayer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger set with [SetLogger].
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
