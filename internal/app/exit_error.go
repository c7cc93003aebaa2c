package app

import (
	"errors"
	"strconv"
)

// exitError ends run with a chosen process exit code. A nil err means the user has
// already seen what went wrong and nothing more gets logged.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func exitSilently(code int) error {
	return &exitError{code: code}
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitStatus maps the result of run to a process exit code and the error worth logging.
// Errors that carry no exit code exit with 1.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		return 1, err
	}
	if ee.code == 0 {
		return 0, nil
	}
	return ee.code, ee.err
}
