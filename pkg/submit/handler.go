// Package submit contains the boundary invoked with a validated form
// snapshot. The default Acknowledger serializes the values and presents them
// back to the user; deployments that need a backend call implement Handler.
package submit

import (
	"context"

	"github.com/goliatone/go-profileform/pkg/model"
)

// Handler consumes the snapshot of a form that passed validation.
type Handler interface {
	Submit(ctx context.Context, snapshot model.Snapshot) error
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(ctx context.Context, snapshot model.Snapshot) error

// Submit calls the underlying function.
func (fn HandlerFunc) Submit(ctx context.Context, snapshot model.Snapshot) error {
	return fn(ctx, snapshot)
}
