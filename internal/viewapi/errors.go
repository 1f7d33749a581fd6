package viewapi

import (
	"errors"
	"fmt"
)

// ErrRunNotFound is returned when a run ID prefix matches no run.
var ErrRunNotFound = errors.New("run not found")

// RequestError is a failure to get any response: bad URL, refused
// connection, DNS, timeout or a cancelled context.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("viewapi: GET %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusError is a response with a non-2xx status code.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("viewapi: GET %s returned %d", e.URL, e.Code)
	}
	return fmt.Sprintf("viewapi: GET %s returned %d: %s", e.URL, e.Code, e.Body)
}

// DecodeError is a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("viewapi: decoding %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the backend or ErrRunNotFound.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrRunNotFound) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}
