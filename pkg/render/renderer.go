package render

import (
	"context"

	"github.com/goliatone/go-profileform/pkg/formstate"
)

// Renderer turns the view of a form controller into a byte representation
// (an HTML document, a terminal summary).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view formstate.View, options RenderOptions) ([]byte, error)
}
