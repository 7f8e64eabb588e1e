package logger

// LogFailure logs an item that was recorded as a batch failure
func LogFailure(log Logger, phase, key string, err error) {
	log.WithError(err).WarnWithFields("Item failed", map[string]interface{}{
		"phase": phase,
		"item":  key,
	})
}

// LogSummary logs the end-of-run counters
func LogSummary(log Logger, links, downloaded, failed int) {
	log.InfoWithFields("Batch finished", map[string]interface{}{
		"links":      links,
		"downloaded": downloaded,
		"failed":     failed,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
