// Package throttle provides an [http.RoundTripper] that paces outbound
// API calls with a token bucket from [golang.org/x/time/rate].
//
// Requests beyond the burst block until a token frees up or the request
// context ends; nothing is dropped and nothing is retried.
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
package throttle
