package driven

// Logger receives diagnostics from the converters.
// Messages are printf-style format strings.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
