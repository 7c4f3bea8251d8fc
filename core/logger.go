package core

// Logger is the application logger.
// args may carry errors, extra data (map[string]interface{}) and the Person the message relates to.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the authenticated user a log entry is about.
type Person struct {
	ID    string
	Name  string
	Email string
}
