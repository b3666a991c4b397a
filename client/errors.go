package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatusCode is the sentinel wrapped by [StatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthExpired is joined with [ErrUnexpectedStatusCode] when the server
	// responds 401. By the time the caller sees it the stored token has
	// already been cleared.
	ErrAuthExpired = errors.New("auth expired")
	// ErrNetwork is the sentinel wrapped by [NetworkError].
	ErrNetwork = errors.New("network error")
	// ErrResponseParse is the sentinel wrapped by [ResponseParseError].
	ErrResponseParse = errors.New("response parse failed")
	// ErrUploadFailed is the sentinel wrapped by [UploadFailedError].
	ErrUploadFailed = errors.New("upload failed")
	// ErrDownloadFailed is the sentinel wrapped by [DownloadFailedError].
	ErrDownloadFailed = errors.New("download failed")
)

// StatusError is returned when a response status is outside [200,300).
type StatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// NetworkError reports a transport-level failure: the server was
// unreachable or the connection failed before a status was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrNetwork, e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// ResponseParseError reports a body that was expected to be JSON but
// could not be decoded.
type ResponseParseError struct {
	Body string
	Err  error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrResponseParse, e.Err)
}

func (e *ResponseParseError) Unwrap() []error {
	return []error{ErrResponseParse, e.Err}
}

// UploadFailedError reports an upload that completed with a non-2xx status.
type UploadFailedError struct {
	StatusCode int
	Err        error
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("%v: %d", ErrUploadFailed, e.StatusCode)
}

func (e *UploadFailedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUploadFailed}
	}
	return []error{ErrUploadFailed, e.Err}
}

// DownloadFailedError reports a download that completed with a non-2xx status.
type DownloadFailedError struct {
	StatusCode int
	Err        error
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("%v: %d", ErrDownloadFailed, e.StatusCode)
}

func (e *DownloadFailedError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDownloadFailed}
	}
	return []error{ErrDownloadFailed, e.Err}
}

// DownloadCancelledError reports a transfer aborted through its context.
type DownloadCancelledError struct {
	Err error
}

func (e *DownloadCancelledError) Error() string {
	return fmt.Sprintf("download cancelled: %v", e.Err)
}

func (e *DownloadCancelledError) Unwrap() error {
	return e.Err
}

// EnvelopeError reports a structured response whose code signals failure.
type EnvelopeError struct {
	Code    int
	Message string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a completed response.
func StatusCode(err error) int {
	var (
		se *StatusError
		ue *UploadFailedError
		de *DownloadFailedError
	)
	switch {
	case errors.As(err, &ue):
		return ue.StatusCode
	case errors.As(err, &de):
		return de.StatusCode
	case errors.As(err, &se):
		return se.StatusCode
	default:
		return 0
	}
}
