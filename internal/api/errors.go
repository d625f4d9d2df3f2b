// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures where no HTTP response was obtained.
	ErrTransport = errors.New("request failed")
	// ErrMalformed is returned when a body is not the expected JSON shape.
	ErrMalformed = errors.New("malformed response")
)

// StatusError is a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.Code)
}

// UnsuccessfulError is a wrapped response with success=false. Message is the
// server supplied description.
type UnsuccessfulError struct {
	URL     string
	Message string
}

func (e *UnsuccessfulError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s reported failure", e.URL)
	}
	return e.Message
}

// IsWireFailure reports whether err came from a response the server sent, as
// opposed to a transport problem.
func IsWireFailure(err error) bool {
	var se *StatusError
	var ue *UnsuccessfulError
	return errors.As(err, &se) || errors.As(err, &ue)
}
