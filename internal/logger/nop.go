package logger

// nopLogger is a logger that does nothing. Used in tests.
type nopLogger struct{}

// NewNop creates a new no-op logger instance.
func NewNop() Logger {
	return &nopLogger{}
}

func (l *nopLogger) Debug(msg string, fields ...Field) {}
func (l *nopLogger) Info(msg string, fields ...Field)  {}
func (l *nopLogger) Warn(msg string, fields ...Field)  {}
func (l *nopLogger) Error(msg string, fields ...Field) {}

func (l *nopLogger) With(fields ...Field) Logger { return l }

func (l *nopLogger) Sync() error { return nil }
