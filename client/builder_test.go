package client_test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/adamwoolhether/apiclient/client"
	"github.com/adamwoolhether/apiclient/endpoint"
	"github.com/adamwoolhether/apiclient/token"
)

func newBuilder(t *testing.T, tok string) *client.Builder {
	t.Helper()

	ep, err := endpoint.New("https://api.example.com/v1")
	if err != nil {
		t.Fatal(err)
	}

	return client.NewBuilder(token.NewStore(tok), ep)
}

func TestBuilder_Build(t *testing.T) {
	payload := map[string]any{"id": 1}

	testCases := map[string]struct {
		token   string
		method  client.Method
		payload any
		opts    []client.Override
		exp     *client.Config
	}{
		"getRoutesPayloadToParams": {
			token:   "abc",
			method:  client.MethodGet,
			payload: payload,
			exp: &client.Config{
				Method:  client.MethodGet,
				BaseURL: "https://api.example.com/v1",
				URL:     "/users",
				Header:  http.Header{"Content-Type": {"application/json"}, "Authorization": {"Bearer abc"}},
				Params:  payload,
				Key:     `GET-/users-{"id":1}`,
			},
		},
		"postRoutesPayloadToBody": {
			method:  client.MethodPost,
			payload: payload,
			exp: &client.Config{
				Method:  client.MethodPost,
				BaseURL: "https://api.example.com/v1",
				URL:     "/users",
				Header:  http.Header{"Content-Type": {"application/json"}},
				Body:    payload,
				Key:     `POST-/users-{"id":1}`,
			},
		},
		"callerHeaderWinsOverAuth": {
			token:  "abc",
			method: client.MethodDelete,
			opts: []client.Override{
				client.WithHeaders(map[string]string{"authorization": "Basic xyz", "X-Trace": "1"}),
			},
			exp: &client.Config{
				Method:  client.MethodDelete,
				BaseURL: "https://api.example.com/v1",
				URL:     "/users",
				Header:  http.Header{"Content-Type": {"application/json"}, "Authorization": {"Basic xyz"}, "X-Trace": {"1"}},
				Key:     "DELETE-/users-null",
			},
		},
		"overridesReplaceFields": {
			method:  client.MethodGet,
			payload: payload,
			opts: []client.Override{
				client.WithMethod(client.MethodPatch),
				client.WithBaseURL("https://other.example.com"),
				client.WithParams(map[string]string{"q": "x"}),
				client.WithBody("raw"),
				client.WithResponseType(client.ResponseBlob),
				client.WithKey("custom"),
			},
			exp: &client.Config{
				Method:       client.MethodPatch,
				BaseURL:      "https://other.example.com",
				URL:          "/users",
				Header:       http.Header{"Content-Type": {"application/json"}},
				Params:       map[string]string{"q": "x"},
				Body:         "raw",
				ResponseType: client.ResponseBlob,
				Key:          "custom",
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got := newBuilder(t, tc.token).Build(tc.method, "/users", tc.payload, tc.opts...)

			if diff := cmp.Diff(tc.exp, got, cmpopts.IgnoreUnexported(client.Config{})); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuilder_ReadsTokenPerBuild(t *testing.T) {
	tokens := token.NewStore("one")
	b := client.NewBuilder(tokens, nil)

	if got := b.Build(client.MethodGet, "/", nil).Header.Get("Authorization"); got != "Bearer one" {
		t.Errorf("exp Bearer one, got %q", got)
	}

	tokens.SetToken("")
	if got := b.Build(client.MethodGet, "/", nil).Header.Get("Authorization"); got != "" {
		t.Errorf("exp no Authorization after clear, got %q", got)
	}
}

func TestMergeHeaders(t *testing.T) {
	got := client.MergeHeaders(
		http.Header{"A": {"1"}, "B": {"1"}},
		nil,
		http.Header{"b": {"2"}, "C": {"2"}},
	)

	exp := http.Header{"A": {"1"}, "B": {"2"}, "C": {"2"}}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("merged headers mismatch (-want +got):\n%s", diff)
	}
}
