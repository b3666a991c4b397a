package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/apiclient/client"
	"github.com/adamwoolhether/apiclient/client/progress"
	"github.com/adamwoolhether/apiclient/client/upload"
)

// UploadOption configures a single upload.
type UploadOption func(*uploadOptions) error

type uploadOptions struct {
	fieldName string
	progress  progress.Func
	overrides []client.Override
}

// WithFieldName sets the form field files are sent under. Default "file".
func WithFieldName(name string) UploadOption {
	return func(o *uploadOptions) error {
		if name == "" {
			return errors.New("field name must not be empty")
		}
		o.fieldName = name
		return nil
	}
}

// WithUploadProgress reports bytes sent to fn.
func WithUploadProgress(fn progress.Func) UploadOption {
	return func(o *uploadOptions) error {
		o.progress = fn
		return nil
	}
}

// WithUploadOverrides applies request overrides to the upload.
func WithUploadOverrides(opts ...client.Override) UploadOption {
	return func(o *uploadOptions) error {
		o.overrides = append(o.overrides, opts...)
		return nil
	}
}

// Upload posts payload as a multipart form and returns the raw envelope.
func (c *Client) Upload(ctx context.Context, url string, payload upload.Payload, opts ...UploadOption) (*client.Envelope[json.RawMessage], error) {
	return Upload[json.RawMessage](ctx, c, url, payload, opts...)
}

// Upload posts payload as a multipart form to url. A non-2xx status is
// reported as a *client.UploadFailedError, an unparsable success body as
// a *client.ResponseParseError.
func Upload[T any](ctx context.Context, c *Client, url string, payload upload.Payload, optFns ...UploadOption) (*client.Envelope[T], error) {
	opts := uploadOptions{fieldName: upload.DefaultFieldName}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying upload option: %w", err)
		}
	}

	form, err := upload.NewForm(payload, opts.fieldName)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	cfg := c.api.Builder().Build(client.MethodPost, url, form, opts.overrides...)

	var body []byte
	switch selectTransport(opts.progress) {
	case ProgressTracked:
		body, err = c.uploadTracked(ctx, cfg, opts.progress)
	default:
		var resp *client.Response
		resp, err = c.api.Do(ctx, cfg)
		if resp != nil {
			body = resp.Body
		}
	}
	if err != nil {
		return nil, uploadErr(err)
	}

	return client.DecodeEnvelope[T](body)
}

func (c *Client) uploadTracked(ctx context.Context, cfg *client.Config, fn progress.Func) ([]byte, error) {
	if err := cfg.Descriptor().Validate(); err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}

	req, err := cfg.Request(ctx)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if req.Body != nil {
		size := req.ContentLength
		req.Body = readCloser{Reader: progress.NewReader(req.Body, size, fn), Closer: req.Body}

		// A redirected upload replays the body and restarts the count.
		if getBody := req.GetBody; getBody != nil {
			req.GetBody = func() (io.ReadCloser, error) {
				rc, err := getBody()
				if err != nil {
					return nil, err
				}
				return readCloser{Reader: progress.NewReader(rc, size, fn), Closer: rc}, nil
			}
		}
	}

	var body []byte
	err = c.api.Exec(req, func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return &client.NetworkError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("reading body: %w", err)}
		}
		body = b
		return nil
	})

	return body, err
}

func uploadErr(err error) error {
	var se *client.StatusError
	if errors.As(err, &se) {
		return &client.UploadFailedError{StatusCode: se.StatusCode, Err: err}
	}

	return err
}

type readCloser struct {
	io.Reader
	io.Closer
}
