package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/apiclient/client/throttle"
	"github.com/adamwoolhether/apiclient/endpoint"
	"github.com/adamwoolhether/apiclient/token"
)

const tracerName = "github.com/adamwoolhether/apiclient/client"

// Client sends merged configurations and applies the response-error
// interceptor. It wraps a std-lib *http.Client which can be customized
// via optional funcs.
type Client struct {
	c       *http.Client
	builder *Builder
	tokens  token.Provider
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Build creates a Client. tokens is read on every request and cleared on
// 401; ep supplies the base URL.
func Build(tokens token.Provider, ep *endpoint.Config, optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:       &http.Client{},
		builder: NewBuilder(tokens, ep),
		tokens:  tokens,
		logger:  slog.Default(),
	}

	if opts.client != nil {
		cpy := *opts.client
		client.c = &cpy
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	tp := opts.tracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	client.tracer = tp.Tracer(tracerName)

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Builder returns the request builder bound to the client's token store
// and endpoint.
func (c *Client) Builder() *Builder {
	return c.builder
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Do sends cfg and returns the fully read 2xx response.
func (c *Client) Do(ctx context.Context, cfg *Config) (*Response, error) {
	if err := cfg.Descriptor().Validate(); err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}

	req, err := cfg.Request(ctx)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	var out *Response
	readFn := func(resp *http.Response) error {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return &NetworkError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("reading body: %w", err)}
		}

		out = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       b,
		}

		return nil
	}

	if err := c.Exec(req, readFn); err != nil {
		return nil, err
	}

	return out, nil
}

// Exec sends req and hands a 2xx response to fn. A non-2xx response runs
// the response-error interceptor and yields a *StatusError; a transport
// failure yields a *NetworkError. The body is always drained and closed.
func (c *Client) Exec(req *http.Request, fn func(*http.Response) error) error {
	return c.exec(req, fn)
}

func (c *Client) exec(req *http.Request, fn execFn) (err error) {
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(req.Context(), "apiclient "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
			attribute.String("apiclient.request_id", requestID),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req = req.WithContext(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.c.Do(req)
	if err != nil {
		return &NetworkError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if !success(resp.StatusCode) {
		b, rerr := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if rerr != nil {
			b = []byte("unable to read body")
		}

		return c.onResponseError(requestID, req.Method, req.URL.String(), resp.StatusCode, b)
	}

	if err := fn(resp); err != nil {
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// OnResponseError runs the response-error interceptor for a response
// received outside Exec.
func (c *Client) OnResponseError(method, url string, status int, body []byte) error {
	return c.onResponseError(uuid.NewString(), method, url, status, body)
}

// onResponseError is the response-error interceptor shared by every
// transport: it logs the failure, clears the stored token on 401 and
// returns the matching *StatusError.
func (c *Client) onResponseError(requestID, method, url string, status int, body []byte) error {
	c.logger.Error("api error",
		"requestID", requestID,
		"method", method,
		"url", url,
		"status", status,
		"body", string(body),
	)

	sErr := &StatusError{
		StatusCode: status,
		Body:       string(body),
		Err:        ErrUnexpectedStatusCode,
	}

	if status == http.StatusUnauthorized {
		if c.tokens != nil {
			c.tokens.SetToken("")
		}
		sErr.Err = fmt.Errorf("%w: %w", ErrAuthExpired, ErrUnexpectedStatusCode)
	}

	return sErr
}
