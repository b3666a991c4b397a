// Package server is the server-mode API client. Identical requests in
// flight at the same time share one round trip, and every call returns
// an [AsyncData] result wrapper instead of an error.
package server

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/adamwoolhether/apiclient/client"
)

// Client deduplicates concurrent identical requests by their key.
type Client struct {
	api   *client.Client
	group singleflight.Group
}

// New returns a server-mode client sending through api.
func New(api *client.Client) (*Client, error) {
	if api == nil {
		return nil, errors.New("api client must not be nil")
	}

	return &Client{api: api}, nil
}

// Get fetches url with payload as query parameters.
func Get[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) *AsyncData[T] {
	return run[T](ctx, c, client.MethodGet, url, payload, opts)
}

// Post sends payload as the JSON body of a POST.
func Post[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) *AsyncData[T] {
	return run[T](ctx, c, client.MethodPost, url, payload, opts)
}

// Put sends payload as the JSON body of a PUT.
func Put[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) *AsyncData[T] {
	return run[T](ctx, c, client.MethodPut, url, payload, opts)
}

// Delete sends payload as the JSON body of a DELETE.
func Delete[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) *AsyncData[T] {
	return run[T](ctx, c, client.MethodDelete, url, payload, opts)
}

// Patch sends payload as the JSON body of a PATCH.
func Patch[T any](ctx context.Context, c *Client, url string, payload any, opts ...client.Override) *AsyncData[T] {
	return run[T](ctx, c, client.MethodPatch, url, payload, opts)
}

func run[T any](ctx context.Context, c *Client, method client.Method, url string, payload any, opts []client.Override) *AsyncData[T] {
	ad := &AsyncData[T]{Status: StatusIdle}
	ad.fetch = func(ctx context.Context) (*client.Envelope[T], bool, error) {
		// The token may have changed since the last fetch.
		cfg := c.api.Builder().Build(method, url, payload, opts...)
		ad.Key = cfg.Key

		resp, shared, err := c.do(ctx, cfg)
		if err != nil {
			return nil, shared, err
		}

		env, err := client.DecodeEnvelope[T](resp.Body)
		return env, shared, err
	}
	ad.Refresh(ctx)

	return ad
}

// do sends cfg, joining an identical request already in flight. The
// shared round trip is detached from any single caller's cancellation;
// each caller stops waiting when its own ctx ends.
func (c *Client) do(ctx context.Context, cfg *client.Config) (*client.Response, bool, error) {
	ch := c.group.DoChan(cfg.Key, func() (any, error) {
		return c.api.Do(context.WithoutCancel(ctx), cfg)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.api.Logger().Debug("request shared", "key", cfg.Key)
		}
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		return res.Val.(*client.Response), res.Shared, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
