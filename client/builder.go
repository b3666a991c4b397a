package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/adamwoolhether/apiclient/endpoint"
	"github.com/adamwoolhether/apiclient/token"
)

// Config is a fully merged request configuration, ready to be sent.
// Params carries the GET payload and Body every other verb's payload.
type Config struct {
	Method       Method
	BaseURL      string
	URL          string
	Header       http.Header
	Params       any
	Body         any
	ResponseType ResponseType
	// Key identifies identical requests for server-mode deduplication.
	Key string

	// contentTypeSet records a caller-supplied Content-Type, which a
	// self-encoding body must not replace.
	contentTypeSet bool
}

// Descriptor returns the method and URL of c for validation.
func (c *Config) Descriptor() Descriptor {
	return Descriptor{Method: c.Method, URL: c.URL}
}

// Override adjusts a Config after the defaults have been applied.
type Override func(*overrides)

type overrides struct {
	headers      http.Header
	method       *Method
	baseURL      *string
	params       *any
	body         *any
	responseType *ResponseType
	key          *string
}

// WithHeader sets a caller header. It wins over defaults and the
// Authorization header on key collision.
func WithHeader(key, value string) Override {
	return func(o *overrides) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Set(key, value)
	}
}

// WithHeaders sets several caller headers, with the same precedence as WithHeader.
func WithHeaders(headers map[string]string) Override {
	return func(o *overrides) {
		if o.headers == nil {
			o.headers = make(http.Header, len(headers))
		}
		for k, v := range headers {
			o.headers.Set(k, v)
		}
	}
}

// WithMethod replaces the request method.
func WithMethod(m Method) Override {
	return func(o *overrides) { o.method = &m }
}

// WithBaseURL replaces the endpoint base URL for one request.
func WithBaseURL(base string) Override {
	return func(o *overrides) { o.baseURL = &base }
}

// WithParams replaces the query parameters, regardless of method.
func WithParams(params any) Override {
	return func(o *overrides) { o.params = &params }
}

// WithBody replaces the request body, regardless of method.
func WithBody(body any) Override {
	return func(o *overrides) { o.body = &body }
}

// WithResponseType selects JSON (the default) or blob handling.
func WithResponseType(rt ResponseType) Override {
	return func(o *overrides) { o.responseType = &rt }
}

// WithKey replaces the server-mode deduplication key.
func WithKey(key string) Override {
	return func(o *overrides) { o.key = &key }
}

// Builder merges defaults, auth state and caller overrides into a Config.
// It performs no I/O.
type Builder struct {
	tokens   token.Provider
	endpoint *endpoint.Config
}

// NewBuilder returns a Builder reading the token from tokens and the base
// URL from ep on every Build. Either may be nil.
func NewBuilder(tokens token.Provider, ep *endpoint.Config) *Builder {
	return &Builder{tokens: tokens, endpoint: ep}
}

// Token returns the current bearer token, or "".
func (b *Builder) Token() string {
	if b.tokens == nil {
		return ""
	}

	return b.tokens.Token()
}

// BaseURL returns the endpoint base URL.
func (b *Builder) BaseURL() string {
	return b.endpoint.BaseURL()
}

// Build merges a request. Payload becomes Params for GET and Body for
// every other method; overrides apply last.
func (b *Builder) Build(method Method, url string, payload any, opts ...Override) *Config {
	var o overrides
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &Config{
		Method:  method,
		BaseURL: b.BaseURL(),
		URL:     url,
		Header:  MergeHeaders(defaultHeaders(), authHeader(b.Token()), o.headers),
		Key:     Key(method, url, payload),
	}

	if method == MethodGet {
		cfg.Params = payload
	} else {
		cfg.Body = payload
	}

	if o.headers.Get(headerContentType) != "" {
		cfg.contentTypeSet = true
	}
	if o.method != nil {
		cfg.Method = *o.method
	}
	if o.baseURL != nil {
		cfg.BaseURL = *o.baseURL
	}
	if o.params != nil {
		cfg.Params = *o.params
	}
	if o.body != nil {
		cfg.Body = *o.body
	}
	if o.responseType != nil {
		cfg.ResponseType = *o.responseType
	}
	if o.key != nil {
		cfg.Key = *o.key
	}

	return cfg
}

// MergeHeaders merges layers in order; a later layer replaces any key set
// by an earlier one. Nil layers are skipped.
func MergeHeaders(layers ...http.Header) http.Header {
	merged := make(http.Header)
	for _, layer := range layers {
		for k, v := range layer {
			merged[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
		}
	}

	return merged
}

func defaultHeaders() http.Header {
	return http.Header{headerContentType: {contentTypeJSON}}
}

// authHeader returns the bearer header for tok, or nil when tok is empty.
func authHeader(tok string) http.Header {
	if tok == "" {
		return nil
	}

	return http.Header{headerAuthorization: {"Bearer " + tok}}
}

// Key derives the deduplication key METHOD-url-<json payload>.
func Key(method Method, url string, payload any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		data = fmt.Appendf(nil, "%v", payload)
	}

	return fmt.Sprintf("%s-%s-%s", method, url, data)
}

// Clone returns a copy of c with an independent header map.
func (c *Config) Clone() *Config {
	cpy := *c
	cpy.Header = maps.Clone(c.Header)

	return &cpy
}
