package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Encoder is a body that serializes itself and dictates its own content
// type, such as a multipart form.
type Encoder interface {
	Encode() (body io.Reader, contentType string, size int64, err error)
}

// FullURL joins BaseURL and URL. An absolute URL is returned unchanged.
func (c *Config) FullURL() (*url.URL, error) {
	target, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if target.IsAbs() || c.BaseURL == "" {
		return target, nil
	}

	joined := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.URL, "/")
	u, err := url.Parse(joined)
	if err != nil {
		return nil, fmt.Errorf("parsing joined url: %w", err)
	}

	return u, nil
}

// Request instantiates an *http.Request from c. Params are appended to any
// query already present in URL.
func (c *Config) Request(ctx context.Context) (*http.Request, error) {
	u, err := c.FullURL()
	if err != nil {
		return nil, err
	}

	if c.Params != nil {
		params, err := QueryValues(c.Params)
		if err != nil {
			return nil, fmt.Errorf("encoding query params: %w", err)
		}
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	body, contentType, size, err := encodeBody(c.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, string(c.Method), u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	if size >= 0 && body != nil {
		req.ContentLength = size
	}

	for k, v := range c.Header {
		req.Header[k] = slices.Clone(v)
	}
	if contentType != "" && !c.contentTypeSet {
		req.Header.Set(headerContentType, contentType)
	}

	return req, nil
}

// encodeBody converts a payload into a reader, the content type it
// requires (if any) and its size (-1 when unknown).
func encodeBody(body any) (io.Reader, string, int64, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", 0, nil
	case Encoder:
		return v.Encode()
	case []byte:
		return bytes.NewReader(v), "", int64(len(v)), nil
	case string:
		return strings.NewReader(v), "", int64(len(v)), nil
	case io.Reader:
		return v, "", -1, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", 0, err
		}
		return bytes.NewReader(data), "", int64(len(data)), nil
	}
}

// QueryValues flattens a payload into query parameters. Maps and structs
// are accepted; struct keys follow their json tags. Slices become repeated
// keys, nil values are dropped and nested objects are sent as JSON.
func QueryValues(payload any) (url.Values, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case url.Values:
		return v, nil
	case map[string]string:
		q := make(url.Values, len(v))
		for k, s := range v {
			q.Set(k, s)
		}
		return q, nil
	case map[string][]string:
		return url.Values(v), nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling params: %w", err)
	}

	var fields map[string]any
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&fields); err != nil {
		return nil, fmt.Errorf("params must encode to a JSON object: %w", err)
	}

	q := make(url.Values, len(fields))
	for k, val := range fields {
		switch val := val.(type) {
		case nil:
		case []any:
			for _, el := range val {
				if el == nil {
					continue
				}
				s, err := scalar(el)
				if err != nil {
					return nil, fmt.Errorf("param[%s]: %w", k, err)
				}
				q.Add(k, s)
			}
		default:
			s, err := scalar(val)
			if err != nil {
				return nil, fmt.Errorf("param[%s]: %w", k, err)
			}
			q.Set(k, s)
		}
	}

	return q, nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
