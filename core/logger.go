package core

// Logger is any service that can log & report messages.
// expected args: error, map[string]interface{}, or any value worth printing
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Actor identifies who a logged event is about: a site visitor or a signed in admin.
// Pass it among the args of a Logger call.
type Actor struct {
	ID       string
	Username string
	Email    string
}
