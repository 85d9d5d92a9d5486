package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/render/template"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[string]string
	partials  map[string]string

	used []string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		overrides: overrides,
		partials:  partials,
	}
}

func (r *componentRenderer) render(field formstate.FieldView) (string, error) {
	name := field.Field.Name
	componentName := strings.TrimSpace(r.overrides[name])
	if componentName == "" {
		componentName = components.ForKind(field.Field.Kind)
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, name)
	}

	var control bytes.Buffer
	err := descriptor.Renderer(&control, field, components.ComponentData{
		Template: r.templates,
		Partials: r.partials,
	})
	if err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, name, err)
	}

	r.markUsed(descriptor.Name)
	return buildFieldMarkup(field, descriptor.Name, control.String()), nil
}

func (r *componentRenderer) markUsed(name string) {
	for _, existing := range r.used {
		if existing == name {
			return
		}
	}
	r.used = append(r.used, name)
}

func (r *componentRenderer) stylesheets() []string {
	return r.registry.Stylesheets(r.used)
}

// buildFieldMarkup wraps a control with its label, description and, once the
// field is touched, its error message.
func buildFieldMarkup(field formstate.FieldView, componentName, control string) string {
	def := field.Field
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="`)
	builder.WriteString(string(ClassField))
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-field="`)
	builder.WriteString(html.EscapeString(def.Name))
	builder.WriteString(`"`)
	if field.Error != "" {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	label := html.EscapeString(def.DisplayLabel())
	labelID := html.EscapeString(components.LabelID(def.Name))
	if components.IsGroup(componentName) {
		builder.WriteString(`    <span id="`)
		builder.WriteString(labelID)
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassLabel))
		builder.WriteString(`">`)
		builder.WriteString(label)
		builder.WriteString("</span>\n")
	} else {
		builder.WriteString(`    <label for="`)
		builder.WriteString(html.EscapeString(components.ControlID(def.Name)))
		builder.WriteString(`" id="`)
		builder.WriteString(labelID)
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassLabel))
		builder.WriteString(`">`)
		builder.WriteString(label)
		builder.WriteString("</label>\n")
	}

	// Control markup is written verbatim: textarea bodies carry the value.
	builder.WriteString("    ")
	builder.WriteString(strings.TrimSpace(control))
	builder.WriteByte('\n')

	if desc := sanitizeDescription(def.Description); desc != "" {
		builder.WriteString(`    <small class="`)
		builder.WriteString(string(ClassDescription))
		builder.WriteString(`">`)
		builder.WriteString(desc)
		builder.WriteString("</small>\n")
	}

	if field.Error != "" {
		builder.WriteString(`    <p id="`)
		builder.WriteString(html.EscapeString(components.ErrorID(def.Name)))
		builder.WriteString(`" class="`)
		builder.WriteString(string(ClassError))
		builder.WriteString(`" role="alert">`)
		builder.WriteString(html.EscapeString(field.Error))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}
