package apiclient_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adamwoolhether/apiclient"
	"github.com/adamwoolhether/apiclient/browser"
	"github.com/adamwoolhether/apiclient/client"
	"github.com/adamwoolhether/apiclient/endpoint"
	"github.com/adamwoolhether/apiclient/server"
	"github.com/adamwoolhether/apiclient/token"
)

func TestNew_SharedTokenState(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			_, _ = w.Write([]byte(`{"code":0,"message":"anonymous","data":null}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	ep, err := endpoint.New(ts.URL)
	if err != nil {
		t.Fatal(err)
	}

	tokens := token.NewStore("stale")
	api, err := apiclient.New(tokens, ep)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	res := server.Get[any](t.Context(), api.Server, "/me", nil)
	if !errors.Is(res.Error, client.ErrAuthExpired) {
		t.Fatalf("exp ErrAuthExpired, got %v", res.Error)
	}

	// The browser client sees the token the server client cleared.
	env, err := browser.Get[any](t.Context(), api.Browser, "/me", nil)
	if err != nil {
		t.Fatalf("browser get: %v", err)
	}
	if env.Message != "anonymous" {
		t.Errorf("exp anonymous request, got %q", env.Message)
	}
}

func TestNew_Errors(t *testing.T) {
	testCases := map[string]struct {
		ep   *endpoint.Config
		opts []apiclient.Option
	}{
		"nilEndpoint":  {},
		"invalidBase":  {ep: &endpoint.Config{APIBase: "not a url"}},
		"badClientOpt": {ep: &endpoint.Config{APIBase: "http://localhost"}, opts: []apiclient.Option{apiclient.WithClientOptions(client.WithLogger(nil))}},
		"badBrowserOpt": {
			ep:   &endpoint.Config{APIBase: "http://localhost"},
			opts: []apiclient.Option{apiclient.WithBrowserOptions(browser.WithHost(nil))},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := apiclient.New(nil, tc.ep, tc.opts...); err == nil {
				t.Error("exp error")
			}
		})
	}
}
