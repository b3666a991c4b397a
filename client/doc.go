// Package client provides the request/response core shared by the
// server-mode and browser-mode API clients.
//
// # Building a Configuration
//
// A [Builder] merges the endpoint base URL, the default JSON content type,
// the bearer token and caller overrides into a single [Config]:
//
//	b := client.NewBuilder(tokens, endpointCfg)
//	cfg := b.Build(client.MethodGet, "/users", map[string]any{"page": 2},
//		client.WithHeader("X-Tenant", "acme"),
//	)
//
// Header precedence, lowest to highest: defaults, the Authorization header,
// caller headers. Every other override replaces its field outright.
//
// # Sending
//
// [Client.Do] sends a Config and returns the raw [Response]. Any non-2xx
// status runs the response-error interceptor, which logs the failure and
// clears the stored token on 401, before a [*StatusError] is returned:
//
//	c, err := client.Build(tokens, endpointCfg, client.WithTimeout(10*time.Second))
//	resp, err := c.Do(ctx, cfg)
//	env, err := client.DecodeEnvelope[User](resp.Body)
//
// For lower-level control over streaming bodies see [Client.Exec].
package client
