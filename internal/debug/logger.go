// Package debug provides the process wide structured logger used by the
// grammar and the CLI. Only errors are written until Init(true) is called.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  *slog.Logger
	enabled bool
	output  io.Writer = os.Stderr
	mu      sync.RWMutex
)

func init() {
	Init(false)
}

// Init enables or disables debug logging. When disabled only error records
// are written.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	logger = newLogger(output, enable)
}

// SetOutput redirects log records to w, keeping the current enabled state.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	logger = newLogger(output, enabled)
}

func newLogger(w io.Writer, enable bool) *slog.Logger {
	level := slog.LevelDebug
	if !enable {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }

func Error(msg string, args ...any) { current().Error(msg, args...) }
