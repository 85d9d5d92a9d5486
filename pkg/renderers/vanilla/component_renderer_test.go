package vanilla

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla/components"
)

func textField(name string) formstate.FieldView {
	return formstate.FieldView{Field: model.FieldDefinition{Name: name, Kind: model.FieldKindText}}
}

func TestComponentRendererUnknownComponent(t *testing.T) {
	renderer := newComponentRenderer(nil, components.NewDefaultRegistry(), map[string]string{
		"field": "missing",
	}, nil)

	_, err := renderer.render(textField("field"))
	if err == nil {
		t.Fatalf("expected error when component is missing")
	}
	if got := err.Error(); got != `component "missing" not registered for field "field"` {
		t.Fatalf("unexpected error: %s", got)
	}
}

func TestComponentRendererUsesThemePartial(t *testing.T) {
	template := &recordingTemplateRenderer{}
	renderer := newComponentRenderer(template, components.NewDefaultRegistry(), nil, map[string]string{
		components.PartialInput: "themes/custom/input.tmpl",
	})

	if _, err := renderer.render(textField("username")); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(template.calls) == 0 {
		t.Fatalf("expected template renderer to be called")
	}
	if got := template.calls[0]; got != "themes/custom/input.tmpl" {
		t.Fatalf("theme partial not applied, got %q", got)
	}
}

func TestComponentRendererCollectsStylesheets(t *testing.T) {
	registry := components.NewDefaultRegistry()
	registry.MustRegister("fancy", components.Descriptor{
		Renderer: func(buf *bytes.Buffer, field formstate.FieldView, _ components.ComponentData) error {
			buf.WriteString(`<input name="` + field.Field.Name + `">`)
			return nil
		},
		Stylesheets: []string{"/fancy.css"},
	})

	renderer := newComponentRenderer(&recordingTemplateRenderer{}, registry, map[string]string{
		"a": "fancy",
		"b": "fancy",
	}, nil)
	for _, name := range []string{"a", "b", "c"} {
		if _, err := renderer.render(textField(name)); err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
	}

	if diff := cmp.Diff([]string{"fancy", "input"}, renderer.used); diff != "" {
		t.Fatalf("used components mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/fancy.css"}, renderer.stylesheets()); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFieldMarkupGroupsUseSpanLabels(t *testing.T) {
	field := formstate.FieldView{
		Field: model.FieldDefinition{
			Name:    "gender",
			Kind:    model.FieldKindSingleChoiceGroup,
			Options: []model.Option{{Value: "male"}},
		},
		Touched: true,
		Error:   "Gender is required",
	}
	markup := buildFieldMarkup(field, components.NameRadioGroup, "<div>\n\n</div>")

	want := `<div class="pf-field" data-component="radio_group" data-field="gender" data-invalid="true">
    <span id="fg-gender-label" class="pf-label">Gender</span>
    <div>
    </div>
    <p id="fg-gender-error" class="pf-error" role="alert">Gender is required</p>
</div>
`
	if diff := cmp.Diff(want, markup); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

type recordingTemplateRenderer struct {
	calls []string
}

func (r *recordingTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	return "", nil
}

func (r *recordingTemplateRenderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingTemplateRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	return nil
}

func (r *recordingTemplateRenderer) GlobalContext(data any) error {
	return nil
}
