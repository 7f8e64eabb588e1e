// Package logger provides a structured logging interface for the emote scraper.
//
// It wraps zerolog behind a small Logger interface with levelled methods and
// field helpers. Console output goes to stderr so that the report printed on
// stdout stays readable; an optional log file receives the same events.
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("url", indexURL).Info("Fetching index")
//
// NewNopLogger and NewTestLogger are intended for tests.
package logger
