package download

import (
	"errors"
	"fmt"
)

var (
	// ErrDownloadCancelled is wrapped when a transfer stops because its
	// context ended.
	ErrDownloadCancelled     = errors.New("download cancelled")
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
)

// Result is a downloaded blob and the name it should be saved under.
type Result struct {
	Blob        []byte
	Filename    string
	ContentType string
}

type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
