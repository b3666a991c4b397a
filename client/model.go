package client

import (
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for a non-2xx status.
const maxErrBodySize = 4 << 10 // 4KB

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	contentTypeJSON     = "application/json"
)

// Method is one of the HTTP verbs the API clients expose.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
)

// Valid reports whether m is one of the five supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch:
		return true
	default:
		return false
	}
}

// ResponseType selects how a successful body is treated.
type ResponseType int

const (
	// ResponseJSON expects a JSON envelope.
	ResponseJSON ResponseType = iota
	// ResponseBlob keeps the body as opaque bytes.
	ResponseBlob
)

func (rt ResponseType) String() string {
	switch rt {
	case ResponseJSON:
		return "json"
	case ResponseBlob:
		return "blob"
	default:
		return "unknown"
	}
}

// Response is a completed 2xx response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// execFn operates on a 2xx response. The body is drained and closed
// after it returns.
type execFn func(resp *http.Response) error

// success reports whether code is in [200,300).
func success(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
