package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"net/http"
	"time"

	"github.com/adamwoolhether/apiclient/client"
	"github.com/adamwoolhether/apiclient/client/download"
	"github.com/adamwoolhether/apiclient/client/progress"
)

// maxPrealloc caps the buffer reserved up front from a Content-Length.
const maxPrealloc = 1 << 20

// DownloadResult is a fetched blob and the name it was saved under.
type DownloadResult = download.Result

// DownloadOption configures a single download.
type DownloadOption func(*downloadOptions) error

type downloadOptions struct {
	filename  string
	progress  progress.Func
	overrides []client.Override
	noSave    bool
	save      []SaveOption
}

// WithFilename forces the saved file name, ignoring Content-Disposition.
func WithFilename(name string) DownloadOption {
	return func(o *downloadOptions) error {
		o.filename = name
		return nil
	}
}

// WithDownloadProgress reports bytes received to fn. Events are only
// sent when the response declares a Content-Length.
func WithDownloadProgress(fn progress.Func) DownloadOption {
	return func(o *downloadOptions) error {
		o.progress = fn
		return nil
	}
}

// WithDownloadOverrides applies request overrides to the download.
func WithDownloadOverrides(opts ...client.Override) DownloadOption {
	return func(o *downloadOptions) error {
		o.overrides = append(o.overrides, opts...)
		return nil
	}
}

// WithoutSave returns the blob without handing it to the host.
func WithoutSave() DownloadOption {
	return func(o *downloadOptions) error {
		o.noSave = true
		return nil
	}
}

// WithChecksum makes the save fail unless the blob's digest under h
// matches the hex string expected.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return func(o *downloadOptions) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}
		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}
		o.save = append(o.save, WithIntegrity(h, expected))
		return nil
	}
}

// WithSkipExisting keeps a file already saved under the resolved name
// instead of saving a numbered copy.
func WithSkipExisting() DownloadOption {
	return func(o *downloadOptions) error {
		o.save = append(o.save, WithKeepExisting())
		return nil
	}
}

// Download fetches url with query and saves the blob through the client's
// host. A non-2xx status is reported as a *client.DownloadFailedError, a
// cancelled ctx as a *client.DownloadCancelledError.
func (c *Client) Download(ctx context.Context, url string, query any, optFns ...DownloadOption) (*DownloadResult, error) {
	var opts downloadOptions
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying download option: %w", err)
		}
	}

	overrides := append([]client.Override{client.WithResponseType(client.ResponseBlob)}, opts.overrides...)
	cfg := c.api.Builder().Build(client.MethodGet, url, query, overrides...)

	var (
		resp *client.Response
		err  error
	)
	switch selectTransport(opts.progress) {
	case ProgressTracked:
		resp, err = c.downloadTracked(ctx, cfg, opts.progress)
	default:
		resp, err = c.api.Do(ctx, cfg)
	}
	if err != nil {
		return nil, downloadErr(err)
	}

	result := &DownloadResult{
		Blob:        resp.Body,
		Filename:    download.Filename(resp.Header.Get("Content-Disposition"), opts.filename, time.Now()),
		ContentType: resp.Header.Get("Content-Type"),
	}

	if opts.noSave {
		return result, nil
	}

	if err := SaveAs(ctx, c.host, result.Blob, result.Filename, result.ContentType, c.revokeDelay, opts.save...); err != nil {
		return result, fmt.Errorf("saving %q: %w", result.Filename, err)
	}

	return result, nil
}

func (c *Client) downloadTracked(ctx context.Context, cfg *client.Config, fn progress.Func) (*client.Response, error) {
	if err := cfg.Descriptor().Validate(); err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}

	req, err := cfg.Request(ctx)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	var out *client.Response
	err = c.api.Exec(req, func(resp *http.Response) error {
		// The declared length only sizes the first allocation; the buffer
		// grows with the bytes that actually arrive.
		var buf bytes.Buffer
		if resp.ContentLength > 0 {
			buf.Grow(int(min(resp.ContentLength, maxPrealloc)))
		}

		if _, err := io.Copy(progress.NewWriter(&buf, resp.ContentLength, fn), resp.Body); err != nil {
			return &client.NetworkError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("reading body: %w", err)}
		}

		out = &client.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: buf.Bytes()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func downloadErr(err error) error {
	var se *client.StatusError
	switch {
	case errors.As(err, &se):
		return &client.DownloadFailedError{StatusCode: se.StatusCode, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &client.DownloadCancelledError{Err: fmt.Errorf("%w: %w", download.ErrDownloadCancelled, err)}
	default:
		return err
	}
}
