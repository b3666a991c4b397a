package download

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// checksum hashes everything written to it and compares the digest
// against a hex string, ignoring case.
type checksum struct {
	hash     hash.Hash
	expected string
}

func (c *checksum) Write(p []byte) (int, error) {
	return c.hash.Write(p)
}

func (c *checksum) verify() error {
	if c == nil {
		return nil
	}

	if actual := hex.EncodeToString(c.hash.Sum(nil)); !strings.EqualFold(actual, c.expected) {
		return &Error{
			Err:    ErrChecksumMismatch,
			Detail: fmt.Sprintf("expected %s, got %s", c.expected, actual),
		}
	}

	return nil
}
