package auth

import (
	"errors"
)

var (
	// ErrNoSession is not a failure: the viewer simply is not signed in.
	ErrNoSession = errors.New("no active session")
	// ErrAuthFetchFailed is returned when the current session could not be determined.
	ErrAuthFetchFailed = errors.New("auth: session fetch failed")
	// ErrAuthActionFailed is matched by every sign-in, sign-up and sign-out rejection.
	ErrAuthActionFailed = errors.New("auth: action rejected")

	ErrNotFound   = errors.New("auth: not found")
	ErrEmailTaken = errors.New("auth: email already registered")
)

// ActionError carries a message that is safe to show on the form that triggered it.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Message
}

func (e *ActionError) Unwrap() error { return e.Err }

func (e *ActionError) Is(target error) bool { return target == ErrAuthActionFailed }

func actionError(op, message string, err error) error {
	return &ActionError{Op: op, Message: message, Err: err}
}

// Message returns the text to display for err.
func Message(err error) string {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Something went wrong, please try again."
}
