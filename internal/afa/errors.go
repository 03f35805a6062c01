package afa

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout is matched by errors.Is for requests that ran past the client timeout.
var ErrTimeout = errors.New("request timed out")

// NetworkError is a failed round trip to the report site.
type NetworkError struct {
	Op  string
	Url string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Url, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is makes a timed out NetworkError match ErrTimeout.
func (e *NetworkError) Is(target error) bool {
	return target == ErrTimeout && isTimeout(e.Err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// StatusError is a response with a non 2xx status code.
type StatusError struct {
	Url        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %s", e.Url, e.Status)
}
