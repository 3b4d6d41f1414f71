package api

import (
	"errors"
	"net/http"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrNotFound     = errors.New("not found")
)

// opError ties an error to the handler operation that produced it and an
// optional kind used to choose the HTTP status.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.kind != nil && e.err != nil:
		return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
	case e.kind != nil:
		return e.op + ": " + e.kind.Error()
	case e.err != nil:
		return e.op + ": " + e.err.Error()
	default:
		return e.op
	}
}

func (e *opError) Unwrap() []error {
	var errs []error
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.err != nil {
		errs = append(errs, e.err)
	}
	return errs
}

// WrapKind annotates err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// Wrap annotates err with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// statusFor maps an error kind to an HTTP status and response code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
