package apiclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/adamwoolhether/apiclient"
	"github.com/adamwoolhether/apiclient/browser"
	"github.com/adamwoolhether/apiclient/client"
	"github.com/adamwoolhether/apiclient/endpoint"
	"github.com/adamwoolhether/apiclient/server"
	"github.com/adamwoolhether/apiclient/token"
)

func ExampleNew() {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 0, "message": "ok", "data": map[string]string{"msg": "hello " + r.URL.Query().Get("name")},
		})
	}))
	defer ts.Close()

	ep, err := endpoint.New(ts.URL)
	if err != nil {
		fmt.Println("endpoint error:", err)
		return
	}

	api, err := apiclient.New(token.NewStore("secret"), ep,
		apiclient.WithClientOptions(client.WithTimeout(5*time.Second)),
	)
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	type greeting struct{ Msg string }

	res := server.Get[greeting](context.Background(), api.Server, "/greet", map[string]string{"name": "server"})
	fmt.Println(res.Status, res.Data.Data.Msg)

	env, err := browser.Get[greeting](context.Background(), api.Browser, "/greet", map[string]string{"name": "browser"})
	if err != nil {
		fmt.Println("get error:", err)
		return
	}
	fmt.Println(env.Data.Msg)
	// Output:
	// success hello server
	// hello browser
}
