package device

import (
	"errors"
	"fmt"
	"net/http"
)

// Client errors.
var (
	// ErrTransport matches any TransportError via errors.Is.
	ErrTransport = errors.New("transport error")

	// ErrRejected matches any RejectedError via errors.Is.
	ErrRejected = errors.New("request rejected")

	// ErrInvalidEndpoint is returned for an endpoint that is not an absolute URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// TransportError reports a request that could not be completed.
type TransportError struct {
	Op  Operation
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// RejectedError reports a device answer with a non-success status.
type RejectedError struct {
	Op     Operation
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: rejected with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: rejected with status %d: %s", e.Op, e.Status, e.Body)
}

// Is lets errors.Is(err, ErrRejected) match.
func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// Outcome is the classified result of one operation.
type Outcome struct {
	// Op is the operation that produced this outcome.
	Op Operation

	// OK is true only for a recognized success status.
	OK bool

	// Status is the HTTP status, or 0 if no response was received.
	Status int

	// Body is the raw response body.
	Body string

	// Err is a *TransportError or *RejectedError when OK is false.
	Err error
}

// Describe returns a one-line diagnostic for logs and traces.
func (o Outcome) Describe() string {
	switch {
	case o.OK:
		return fmt.Sprintf("status %d", o.Status)
	case o.Status == 0 && o.Err != nil:
		var te *TransportError
		if errors.As(o.Err, &te) {
			return "transport: " + te.Err.Error()
		}
		return o.Err.Error()
	case o.Body != "":
		return fmt.Sprintf("status %d: %s", o.Status, o.Body)
	default:
		return fmt.Sprintf("status %d", o.Status)
	}
}

// classify builds an Outcome from a completed HTTP exchange.
func classify(op Operation, status int, body string) Outcome {
	if status == http.StatusOK {
		return Outcome{Op: op, OK: true, Status: status, Body: body}
	}
	return Outcome{
		Op:     op,
		Status: status,
		Body:   body,
		Err:    &RejectedError{Op: op, Status: status, Body: body},
	}
}

// transportFailure builds an Outcome for a request that got no response.
func transportFailure(op Operation, err error) Outcome {
	return Outcome{Op: op, Err: &TransportError{Op: op, Err: err}}
}
