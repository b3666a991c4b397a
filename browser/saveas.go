package browser

import (
	"context"
	"fmt"
	"hash"
	"time"
)

// Anchor is the hidden link element clicked to trigger a save.
// Integrity and KeepExisting are hints a Host may honor when it writes
// the file.
type Anchor struct {
	Href         string
	Download     string
	Hidden       bool
	Integrity    *Integrity
	KeepExisting bool
}

// Integrity is the digest a saved file must match. Expected is hex.
type Integrity struct {
	Hash     hash.Hash
	Expected string
}

// SaveOption adjusts the anchor SaveAs clicks.
type SaveOption func(*Anchor)

// WithIntegrity asks the host to verify the saved file against expected.
func WithIntegrity(h hash.Hash, expected string) SaveOption {
	return func(a *Anchor) { a.Integrity = &Integrity{Hash: h, Expected: expected} }
}

// WithKeepExisting asks the host to leave an existing file of the same
// name untouched instead of saving under a new name.
func WithKeepExisting() SaveOption {
	return func(a *Anchor) { a.KeepExisting = true }
}

// Host is the page a download is saved through.
type Host interface {
	CreateObjectURL(blob []byte, contentType string) (string, error)
	RevokeObjectURL(url string)
	AppendChild(a *Anchor)
	RemoveChild(a *Anchor)
	Click(ctx context.Context, a *Anchor) error
}

// SaveAs runs the save-as sequence on host: create an object URL, append
// a hidden anchor named filename, click it, remove it, and revoke the URL
// once delay has passed. The revoke happens on a timer after SaveAs
// returns, including when the click fails.
func SaveAs(ctx context.Context, host Host, blob []byte, filename, contentType string, delay time.Duration, opts ...SaveOption) error {
	url, err := host.CreateObjectURL(blob, contentType)
	if err != nil {
		return fmt.Errorf("creating object url: %w", err)
	}

	a := &Anchor{Href: url, Download: filename, Hidden: true}
	for _, opt := range opts {
		opt(a)
	}
	host.AppendChild(a)
	clickErr := host.Click(ctx, a)
	host.RemoveChild(a)

	time.AfterFunc(delay, func() { host.RevokeObjectURL(url) })

	if clickErr != nil {
		return fmt.Errorf("clicking anchor: %w", clickErr)
	}

	return nil
}
