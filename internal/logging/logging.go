package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat and ParseLevel for unsupported
// names.
var ErrUnknownFormat = errors.New("logging: unknown format")

// Config holds the configuration for creating a new logger.
type Config struct {
	// Level sets the minimum log level.
	Level slog.Level
	// Format selects text or JSON output.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
	// File, when set, also receives every record as JSON at debug level.
	File io.Writer
}

// New creates a logger with the given configuration. Unknown formats fall
// back to text.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = NewHandler(output, opts)
	}
	if cfg.File != nil {
		handler = tee{handler, slog.NewJSONHandler(cfg.File, &slog.HandlerOptions{Level: slog.LevelDebug})}
	}
	return slog.New(handler)
}

// NewDiscard creates a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseFormat maps a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "log format %q", s)
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrapf(ErrUnknownFormat, "log level %q", s)
	}
	return l, nil
}

type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest creates a debug-level logger that writes to the test log.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{Level: slog.LevelDebug, Format: FormatText, Output: &testWriter{t: t}})
}
