package console

import "errors"

// Error is a validation failure reported to the user as a single line.
type Error string

func (e Error) Error() string {
	return string(e)
}

// Validation failures, in the order commands check for them.
const (
	ErrClassNameMissing      Error = "** class name missing **"
	ErrClassNameUnknown      Error = "** class doesn't exist **"
	ErrInstanceIDMissing     Error = "** instance id missing **"
	ErrInstanceNotFound      Error = "** no instance found **"
	ErrAttributeNameMissing  Error = "** attribute name missing **"
	ErrAttributeValueMissing Error = "** value missing **"
	ErrInstanceIDTaken       Error = "** instance id already exists **"
)

// ErrUnknownSyntax matches every UnknownSyntaxError.
var ErrUnknownSyntax = errors.New("unknown syntax")

// UnknownSyntaxError is returned for input that is neither a known command
// nor a well-formed dotted call.
type UnknownSyntaxError struct {
	Line string
}

func (e *UnknownSyntaxError) Error() string {
	return "*** Unknown syntax: " + e.Line
}

func (e *UnknownSyntaxError) Unwrap() error {
	return ErrUnknownSyntax
}

// isUserError reports whether err is meant for the command output rather
// than the error stream.
func isUserError(err error) bool {
	var e Error
	return errors.As(err, &e) || errors.Is(err, ErrUnknownSyntax)
}
