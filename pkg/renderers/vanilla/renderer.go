package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/render"
	rendertemplate "github.com/goliatone/go-profileform/pkg/render/template"
	"github.com/goliatone/go-profileform/pkg/render/template/pongo"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	overrides        map[string]string
	theme            *theme.RendererConfig
	stylesheets      []string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithComponentOverrides maps field names to component names, replacing the
// component chosen from the field kind.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		if len(overrides) == 0 {
			return
		}
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for field, component := range overrides {
			cfg.overrides[strings.TrimSpace(field)] = strings.TrimSpace(component)
		}
	}
}

// WithTheme applies a resolved theme: partials replace component templates,
// CSS variables are emitted as a :root block.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithStylesheet links an external stylesheet in the document head.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithInlineStyles toggles embedding the default stylesheet (on by default).
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer renders a form view as a standalone HTML document.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	overrides    map[string]string
	theme        rendererTheme
	stylesheets  []string
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineStyles: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{
		templates:    templates,
		registry:     registry,
		overrides:    cfg.overrides,
		theme:        buildThemeContext(cfg.theme),
		stylesheets:  cfg.stylesheets,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML document for view. Errors are shown only for
// touched fields, which the view already encodes.
func (r *Renderer) Render(ctx context.Context, view formstate.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	fieldRenderer := newComponentRenderer(r.templates, r.registry, r.overrides, r.theme.Partials)
	fields := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		markup, err := fieldRenderer.render(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		fields = append(fields, markup)
	}

	method, hidden := formMethod(options.Method, options.Hidden)

	data := map[string]any{
		"form": map[string]any{
			"id":          view.ID,
			"title":       view.Title,
			"submitLabel": submitLabel(view.SubmitLabel),
			"action":      options.Action,
			"method":      method,
			"hasErrors":   view.HasVisibleErrors(),
		},
		"fields":      fields,
		"hidden":      hiddenPayload(hidden),
		"stylesheets": append(append([]string{}, r.stylesheets...), fieldRenderer.stylesheets()...),
		"inlineCSS":   "",
		"theme": map[string]any{
			"name":    r.theme.Name,
			"variant": r.theme.Variant,
			"style":   r.theme.CSSVarsStyle,
		},
	}
	if r.inlineStyles {
		data["inlineCSS"] = defaultStylesheet()
	}
	if receipt := options.Receipt; receipt != nil {
		data["receipt"] = map[string]any{
			"id":          receipt.ID,
			"heading":     "Submitted",
			"body":        receipt.Body,
			"contentType": receipt.ContentType,
		}
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// formMethod maps verbs browsers cannot submit onto POST plus a _method
// hidden input.
func formMethod(method string, hidden map[string]string) (string, map[string]string) {
	switch upper := strings.ToUpper(strings.TrimSpace(method)); upper {
	case "", http.MethodPost:
		return "post", hidden
	case http.MethodGet:
		return "get", hidden
	default:
		return "post", render.MergeHiddenFields(hidden, render.Hidden("_method", upper))
	}
}

func hiddenPayload(hidden map[string]string) []map[string]string {
	fields := render.SortedHiddenFields(hidden)
	out := make([]map[string]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func submitLabel(label string) string {
	if strings.TrimSpace(label) == "" {
		return "Submit"
	}
	return label
}
