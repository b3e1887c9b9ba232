// Package logging builds the slog loggers used by the formskema CLI.
//
// Text output is colorized when the writer is a terminal; JSON output is
// meant for pipelines. Library packages never create loggers themselves:
// they receive one through formskema.WithLogger and discard output
// otherwise.
//
//	logger := logging.New(logging.Config{Level: slog.LevelDebug, Format: logging.FormatText})
//	logger.Debug("exploded", "variants", 4)
//
// Tests use [ForTest] so that output shows up only for failing tests.
package logging
