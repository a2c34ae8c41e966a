package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupported is returned by stores for operations an endpoint lacks
var ErrUnsupported = errors.New("operation not supported by this endpoint")

// TransportError is a network failure or a non-2xx HTTP status
type TransportError struct {
	Method     string
	Path       string
	StatusCode int    // 0 when no response was received
	Message    string // envelope "response" text, if the body had one
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EnvelopeError is a 2xx response whose envelope reports failure or
// cannot be decoded
type EnvelopeError struct {
	Method  string
	Path    string
	Reason  string
	Message string
	Err     error
}

func (e *EnvelopeError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Reason)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an HTTP 404 from the API
func IsNotFound(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == http.StatusNotFound
}

// Message returns the most user-friendly text for err: the server's
// envelope message when present, otherwise the error string
func Message(err error) string {
	var te *TransportError
	if errors.As(err, &te) && te.Message != "" {
		return te.Message
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) && ee.Message != "" {
		return ee.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
