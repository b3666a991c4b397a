package server

import (
	"context"

	"github.com/adamwoolhether/apiclient/client"
)

// Status is the lifecycle state of an AsyncData.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// AsyncData is the outcome of a server-mode request. Exactly one of Data
// and Error is set once Status is success or error. Shared reports
// whether the response came from a round trip another caller started.
//
// An AsyncData is not safe for concurrent use.
type AsyncData[T any] struct {
	Key    string
	Data   *client.Envelope[T]
	Error  error
	Status Status
	Shared bool

	fetch func(context.Context) (*client.Envelope[T], bool, error)
}

// Refresh re-runs the request and replaces the result.
func (a *AsyncData[T]) Refresh(ctx context.Context) {
	if a.fetch == nil {
		return
	}

	a.Status = StatusPending
	data, shared, err := a.fetch(ctx)
	a.Shared = shared

	if err != nil {
		a.Data, a.Error, a.Status = nil, err, StatusError
		return
	}
	a.Data, a.Error, a.Status = data, nil, StatusSuccess
}
