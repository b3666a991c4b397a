package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adamwoolhether/apiclient/client"
)

// DefaultRevokeDelay is how long an object URL outlives its click.
const DefaultRevokeDelay = 100 * time.Millisecond

// Client issues browser-mode requests through a shared *client.Client.
type Client struct {
	api         *client.Client
	host        Host
	revokeDelay time.Duration
}

// Option configures a [Client] via [New].
type Option func(*options) error

type options struct {
	host        Host
	revokeDelay *time.Duration
}

// WithHost replaces the save-as host downloads are handed to.
func WithHost(h Host) Option {
	return func(o *options) error {
		if h == nil {
			return errors.New("host must not be nil")
		}
		o.host = h
		return nil
	}
}

// WithRevokeDelay sets how long an object URL stays valid after its click.
func WithRevokeDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("revoke delay must not be negative")
		}
		o.revokeDelay = &d
		return nil
	}
}

// New returns a browser-mode client sending through api.
func New(api *client.Client, optFns ...Option) (*Client, error) {
	if api == nil {
		return nil, errors.New("api client must not be nil")
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying browser option: %w", err)
		}
	}

	c := &Client{
		api:         api,
		host:        opts.host,
		revokeDelay: DefaultRevokeDelay,
	}
	if opts.revokeDelay != nil {
		c.revokeDelay = *opts.revokeDelay
	}
	if c.host == nil {
		c.host = NewDiskHost(defaultDownloadDir(), api.Builder().BaseURL(), api.Logger())
	}

	return c, nil
}

// Get sends a GET with payload as query parameters.
func Get[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) (*client.Envelope[T], error) {
	return fetch[T](ctx, c, client.MethodGet, url, payload, opts)
}

// Post sends a POST with payload as the JSON body.
func Post[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) (*client.Envelope[T], error) {
	return fetch[T](ctx, c, client.MethodPost, url, payload, opts)
}

// Put sends a PUT with payload as the JSON body.
func Put[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) (*client.Envelope[T], error) {
	return fetch[T](ctx, c, client.MethodPut, url, payload, opts)
}

// Delete sends a DELETE with payload as the JSON body.
func Delete[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) (*client.Envelope[T], error) {
	return fetch[T](ctx, c, client.MethodDelete, url, payload, opts)
}

// Patch sends a PATCH with payload as the JSON body.
func Patch[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) (*client.Envelope[T], error) {
	return fetch[T](ctx, c, client.MethodPatch, url, payload, opts)
}

func fetch[T any](ctx context.Context, c *Client, method client.Method, url string, payload any, opts []client.Override) (*client.Envelope[T], error) {
	cfg := c.api.Builder().Build(method, url, payload, opts...)

	resp, err := c.api.Do(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return client.DecodeEnvelope[T](resp.Body)
}

// defaultDownloadDir is ~/Downloads when it exists, else the temp dir.
func defaultDownloadDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, "Downloads")
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
	}

	return os.TempDir()
}
