package memoize

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is the leveled logger the memoizer and ProviderCache write to.
// Adapters for zap, logrus and slog live under log/.
// If Logger is nil in Options, NopLogger is used.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}
