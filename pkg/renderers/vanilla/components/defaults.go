package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-profileform/pkg/formstate"
)

const templatePrefix = "templates/components/"

// Partial keys a theme can override.
const (
	PartialInput         = "forms.input"
	PartialTextarea      = "forms.textarea"
	PartialSelect        = "forms.select"
	PartialRadioGroup    = "forms.radio-group"
	PartialCheckboxGroup = "forms.checkbox-group"
)

// NewDefaultRegistry constructs a registry with one template-backed component
// per field kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(PartialInput, templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer(PartialTextarea, templatePrefix+"textarea.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameRadioGroup, Descriptor{
		Renderer: templateComponentRenderer(PartialRadioGroup, templatePrefix+"radio_group.tmpl"),
	})
	registry.MustRegister(NameCheckboxGroup, Descriptor{
		Renderer: templateComponentRenderer(PartialCheckboxGroup, templatePrefix+"checkbox_group.tmpl"),
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field formstate.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolved := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolved, map[string]any{
			"field": Payload(field),
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolved, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// Payload flattens a field view into the string and bool values templates
// consume.
func Payload(field formstate.FieldView) map[string]any {
	def := field.Field
	invalid := field.Error != ""

	placeholder := def.Placeholder
	if placeholder == "" && def.Kind.HasOptions() && !def.Kind.IsMulti() {
		placeholder = "Select " + def.DisplayLabel()
	}

	options := make([]map[string]any, 0, len(def.Options))
	for _, opt := range def.Options {
		options = append(options, map[string]any{
			"value":    opt.Value,
			"label":    def.OptionLabel(opt.Value),
			"id":       OptionID(def.Name, opt.Value),
			"selected": field.Selected(opt.Value),
		})
	}

	payload := map[string]any{
		"name":        def.Name,
		"id":          ControlID(def.Name),
		"labelId":     LabelID(def.Name),
		"label":       def.DisplayLabel(),
		"placeholder": placeholder,
		"value":       field.Value,
		"invalid":     invalid,
		"describedBy": "",
		"options":     options,
	}
	if invalid {
		payload["describedBy"] = ErrorID(def.Name)
	}
	return payload
}

// ControlID is the DOM id of the control for a field.
func ControlID(name string) string {
	name = idSafe(name)
	if name == "" {
		return ""
	}
	return "fg-" + name
}

// LabelID is the DOM id of a field's label.
func LabelID(name string) string {
	if id := ControlID(name); id != "" {
		return id + "-label"
	}
	return ""
}

// ErrorID is the DOM id of a field's error message.
func ErrorID(name string) string {
	if id := ControlID(name); id != "" {
		return id + "-error"
	}
	return ""
}

// OptionID is the DOM id of one option input inside a choice group.
func OptionID(name, value string) string {
	return ControlID(name) + "-" + idSafe(value)
}

func idSafe(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
