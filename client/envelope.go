package client

import (
	"encoding/json"
	"fmt"
	"slices"
)

// defaultSuccessCodes are the envelope codes treated as success when
// Envelope.Err is called without explicit codes.
var defaultSuccessCodes = []int{0, 200}

// Envelope is the {code, message, data} wrapper every structured
// endpoint returns.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Err returns an *EnvelopeError when Code is not one of successCodes
// (0 and 200 when none are given).
func (e *Envelope[T]) Err(successCodes ...int) error {
	if len(successCodes) == 0 {
		successCodes = defaultSuccessCodes
	}
	if slices.Contains(successCodes, e.Code) {
		return nil
	}

	return &EnvelopeError{Code: e.Code, Message: e.Message}
}

// DecodeEnvelope parses body as an Envelope[T].
// Malformed JSON yields a *ResponseParseError.
func DecodeEnvelope[T any](body []byte) (*Envelope[T], error) {
	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ResponseParseError{Body: truncate(body), Err: fmt.Errorf("decoding envelope: %w", err)}
	}

	return &env, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrBodySize {
		b = b[:maxErrBodySize]
	}

	return string(b)
}
