package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	j "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("validated", "schema", "form.json")

	var parsed map[string]any
	require.NoError(t, j.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "validated", parsed["msg"])
	assert.Equal(t, "form.json", parsed["schema"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})
	logger.Info("validated", "schema", "form.json")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "validated schema=form.json")
	assert.NotContains(t, out, "hidden")
}

func TestHandler_GroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.With("run", 1).WithGroup("explode").Debug("done", "variants", 2, "note", "two words")

	out := buf.String()
	assert.Contains(t, out, "run=1")
	assert.Contains(t, out, "explode.variants=2")
	assert.Contains(t, out, `explode.note="two words"`)
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)
	require.NoError(t, h.Handle(t.Context(), slog.NewRecord(time.Time{}, slog.LevelWarn, "no time", 0)))
	assert.Equal(t, "WARN  no time\n", buf.String())
}

func TestParse(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorAllowed(true))
	assert.False(t, ColorEnabled(&bytes.Buffer{}))
}

func TestColorAllowed_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, colorAllowed(true))
}

func TestForTest(t *testing.T) {
	ForTest(t).Debug("visible with -v")
}

func TestNew_FileReceivesDebugRecords(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &console, File: &file}).
		WithGroup("explode").With("variants", 4)
	logger.Debug("detail", "k", "v")

	assert.Empty(t, console.String())
	assert.Contains(t, file.String(), `"msg":"detail"`)
	assert.Contains(t, file.String(), `"explode":{"variants":4,"k":"v"}`)

	logger.Warn("too many")
	assert.Contains(t, console.String(), "explode.variants=4")
	assert.Contains(t, file.String(), `"msg":"too many"`)
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
