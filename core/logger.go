package core

// Logger is the application-wide logging contract. Extra args may carry an
// error, a map of context values or an auth principal, depending on the
// implementation.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
