package core

// Logger is any leveled logger. args may hold errors, maps of extra data and the
// acting Viewer, which backends such as rollbar attach as the person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
