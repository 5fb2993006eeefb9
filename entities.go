package httpclient

import (
	"fmt"
)

type Error struct {
	Message    string
	Cause      error
	StatusCode int
}

func (e *Error) Error() string {
	cause := "<nil>"
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	return fmt.Sprintf("message: %s\n cause: %s\n statusCode: %d", e.Message, cause, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
