package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/profile"
	"github.com/goliatone/go-profileform/pkg/render"
	"github.com/goliatone/go-profileform/pkg/renderers/tui"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla"
	"github.com/goliatone/go-profileform/pkg/schema"
	"github.com/goliatone/go-profileform/pkg/submit"
	"github.com/goliatone/go-profileform/pkg/validation"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects the definition loader used for Request.Source.
func WithLoader(loader *schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithDefinition replaces the built-in profile as the fallback definition.
func WithDefinition(def model.FormDefinition) Option {
	return func(o *Orchestrator) {
		clone := def.Clone()
		o.definition = &clone
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can patch definitions after
// loading and before compilation. Transformers run in registration order.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithSubmitHandler sets the handler given to every controller.
func WithSubmitHandler(handler submit.Handler) Option {
	return func(o *Orchestrator) {
		o.handler = handler
	}
}

// WithValidationOptions forwards options to validation.Compile.
func WithValidationOptions(opts ...validation.Option) Option {
	return func(o *Orchestrator) {
		o.validation = append(o.validation, opts...)
	}
}

// WithLogger attaches a logger for pipeline events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from definition to rendered output.
// It applies defaults (built-in profile, html and tui renderers) while
// remaining open to dependency injection.
type Orchestrator struct {
	loader          *schema.Loader
	definition      *model.FormDefinition
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	handler         submit.Handler
	validation      []validation.Option
	logger          *slog.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs of one pipeline run.
type Request struct {
	// Source identifies a definition document. Optional when Definition is
	// supplied; both empty selects the orchestrator's default definition.
	Source schema.Source

	// Definition bypasses the loader.
	Definition *model.FormDefinition

	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// Values prefill the controller.
	Values model.Values

	// RenderOptions is passed through to the renderer.
	RenderOptions render.RenderOptions
}

// Definition resolves and transforms the definition of req, then validates
// it.
func (o *Orchestrator) Definition(ctx context.Context, req Request) (model.FormDefinition, error) {
	if ctx == nil {
		return model.FormDefinition{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormDefinition{}, err
	}

	def, err := o.resolveDefinition(ctx, req)
	if err != nil {
		return model.FormDefinition{}, err
	}
	for _, t := range o.transformers {
		if err := t.Transform(ctx, &def); err != nil {
			return model.FormDefinition{}, fmt.Errorf("orchestrator: transform definition: %w", err)
		}
	}
	if err := def.Validate(); err != nil {
		return model.FormDefinition{}, fmt.Errorf("orchestrator: %w", err)
	}
	return def, nil
}

// Controller builds a fresh controller for req.
func (o *Orchestrator) Controller(ctx context.Context, req Request) (*formstate.Controller, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	def, err := o.Definition(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.ControllerFor(def, req.Values)
}

// ControllerFor builds a controller for an already resolved definition.
func (o *Orchestrator) ControllerFor(def model.FormDefinition, values model.Values) (*formstate.Controller, error) {
	compiled, err := validation.Compile(def, o.validation...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: compile validation: %w", err)
	}
	opts := []formstate.Option{formstate.WithSchema(compiled)}
	if o.handler != nil {
		opts = append(opts, formstate.WithSubmitHandler(o.handler))
	}
	if len(values) > 0 {
		opts = append(opts, formstate.WithInitialValues(values))
	}
	ctrl, err := formstate.New(def, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return ctrl, nil
}

// Generate renders a fresh controller for req and returns the output bytes
// (HTML for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	ctrl, err := o.Controller(ctx, req)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, ctrl.View(), req.Renderer, req.RenderOptions)
}

// Render renders view with the named renderer.
func (o *Orchestrator) Render(ctx context.Context, view formstate.View, rendererName string, opts render.RenderOptions) ([]byte, error) {
	renderer, err := o.Renderer(rendererName)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Renderer resolves a renderer by name, falling back to the default and then
// to the first registered renderer.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveDefinition(ctx context.Context, req Request) (model.FormDefinition, error) {
	switch {
	case req.Definition != nil:
		return req.Definition.Clone(), nil
	case req.Source != nil:
		def, err := o.loader.LoadDefinition(ctx, req.Source)
		if err != nil {
			return model.FormDefinition{}, fmt.Errorf("orchestrator: load definition: %w", err)
		}
		o.logger.Debug("definition loaded", "location", req.Source.Location(), "form", def.ID)
		return def, nil
	case o.definition != nil:
		return o.definition.Clone(), nil
	default:
		return profile.Definition(), nil
	}
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = schema.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		terminal, err := tui.New(tui.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: terminal renderer: %w", err)
			return
		}
		for _, renderer := range []render.Renderer{html, terminal} {
			if err := o.registry.Register(renderer); err != nil {
				o.initialiseErr = fmt.Errorf("orchestrator: register renderer: %w", err)
				return
			}
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
