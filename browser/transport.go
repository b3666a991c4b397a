package browser

import "github.com/adamwoolhether/apiclient/client/progress"

// Transport is the strategy an upload or download is sent with.
type Transport int

const (
	// Standard sends through the request builder with no progress events.
	Standard Transport = iota
	// ProgressTracked counts transferred bytes and reports them.
	ProgressTracked
)

func (t Transport) String() string {
	switch t {
	case Standard:
		return "standard"
	case ProgressTracked:
		return "progress"
	default:
		return "unknown"
	}
}

// selectTransport picks the strategy once per call.
func selectTransport(fn progress.Func) Transport {
	if fn != nil {
		return ProgressTracked
	}
	return Standard
}
