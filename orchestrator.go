package profileform

import (
	"context"

	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/orchestrator"
	"github.com/goliatone/go-profileform/pkg/profile"
	"github.com/goliatone/go-profileform/pkg/render"
	"github.com/goliatone/go-profileform/pkg/schema"
)

// RenderOptions describes per-request overrides such as the form action,
// hidden fields, or an acknowledgment receipt.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Definition returns the built-in profile form definition.
func Definition() model.FormDefinition {
	return profile.Definition()
}

// GenerateHTML renders the empty built-in profile form with the named
// renderer ("html" when empty).
func GenerateHTML(ctx context.Context, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// GenerateHTMLFromSource loads a definition document and renders it.
func GenerateHTMLFromSource(ctx context.Context, source schema.Source, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:        source,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}
