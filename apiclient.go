// Package apiclient bundles the server-mode and browser-mode API clients
// over one shared transport, token store and endpoint.
package apiclient

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/apiclient/browser"
	"github.com/adamwoolhether/apiclient/client"
	"github.com/adamwoolhether/apiclient/endpoint"
	"github.com/adamwoolhether/apiclient/server"
	"github.com/adamwoolhether/apiclient/token"
)

// API is the pair of request clients. Both read and clear the same token.
type API struct {
	Server  *server.Client
	Browser *browser.Client

	core *client.Client
}

// Option configures [New].
//
// WithClientOptions passes options to the shared transport, e.g.
// client.WithTimeout or client.WithThrottle.
// WithBrowserOptions passes options to the browser-mode client.
type Option func(*options) error
type options struct {
	client  []client.Option
	browser []browser.Option
}

func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.client = append(o.client, opts...)
		return nil
	}
}

func WithBrowserOptions(opts ...browser.Option) Option {
	return func(o *options) error {
		o.browser = append(o.browser, opts...)
		return nil
	}
}

// New builds both clients against ep. A nil tokens gets an empty
// in-memory store.
func New(tokens token.Provider, ep *endpoint.Config, optFns ...Option) (*API, error) {
	if ep == nil {
		return nil, errors.New("endpoint config must not be nil")
	}
	if err := ep.Validate(); err != nil {
		return nil, fmt.Errorf("validating endpoint: %w", err)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	if tokens == nil {
		tokens = token.NewStore("")
	}

	core, err := client.Build(tokens, ep, opts.client...)
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	sc, err := server.New(core)
	if err != nil {
		return nil, fmt.Errorf("building server client: %w", err)
	}

	bc, err := browser.New(core, opts.browser...)
	if err != nil {
		return nil, fmt.Errorf("building browser client: %w", err)
	}

	return &API{Server: sc, Browser: bc, core: core}, nil
}

// Client returns the shared transport both modes send through.
func (a *API) Client() *client.Client {
	return a.core
}
