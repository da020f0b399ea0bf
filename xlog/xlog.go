// Package xlog is a small leveled logger in the handler style of
// go-ethereum's log package: a package-level Logger wraps log/slog,
// records are plain key/value pairs, and the default handler colorizes
// level names when writing to a real terminal.
package xlog

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Logger is the leveled logger used across the reader, partitioner,
// chunk store and paged graph instead of ad-hoc fmt.Println/log calls.
type Logger struct {
	s *slog.Logger
}

var root = New(os.Stderr)

// New builds a Logger writing to w, colorizing level names when w is a
// real terminal (detected the same way go-colorable/go-isatty detect it
// for geth's and swarm's console log handlers).
func New(w io.Writer) *Logger {
	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = colorable.NewColorable(f)
	}
	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{s: slog.New(h)}
}

// SetDefault replaces the package-level logger used by Info/Warn/Error.
func SetDefault(l *Logger) { root = l }

func (l *Logger) Info(msg string, kv ...any)  { l.s.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.s.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.s.Error(msg, kv...) }
func (l *Logger) Debug(msg string, kv ...any) { l.s.Debug(msg, kv...) }

// With returns a Logger that always includes the given key/value pairs,
// used to scope messages to a chunk id, node id or operation name.
func (l *Logger) With(kv ...any) *Logger { return &Logger{s: l.s.With(kv...)} }

func Info(msg string, kv ...any)  { root.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { root.Warn(msg, kv...) }
func Error(msg string, kv ...any) { root.Error(msg, kv...) }
func Debug(msg string, kv ...any) { root.Debug(msg, kv...) }
func With(kv ...any) *Logger      { return root.With(kv...) }
