package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
)

func noopRenderer(*bytes.Buffer, formstate.FieldView, ComponentData) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register("test", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}

	if err := reg.Register(" ", Descriptor{Renderer: noopRenderer}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("nil", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	reg.MustRegister("input", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/shared.css", "/input.css"}})
	reg.MustRegister("select", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/shared.css", "/select.css"}})

	got := reg.Stylesheets([]string{"input", "select", "unknown"})
	if diff := cmp.Diff([]string{"/shared.css", "/input.css", "/select.css"}, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, kind := range model.AllFieldKinds() {
		if _, ok := reg.Descriptor(ForKind(kind)); !ok {
			t.Fatalf("no component for kind %s", kind)
		}
	}
	if diff := cmp.Diff([]string{"checkbox_group", "input", "radio_group", "select", "textarea"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	clone := reg.Clone()
	clone.MustRegister("extra", Descriptor{Renderer: noopRenderer})
	if _, ok := reg.Descriptor("extra"); ok {
		t.Fatalf("clone must not share state")
	}
}

func TestPayload(t *testing.T) {
	field := formstate.FieldView{
		Field: model.FieldDefinition{
			Name:    "country",
			Kind:    model.FieldKindSingleSelect,
			Label:   "Country",
			Options: []model.Option{{Value: "uk", Label: "UK"}, {Value: "new zealand"}},
		},
		Value: "uk",
		Error: "Country is required",
	}

	payload := Payload(field)
	if payload["placeholder"] != "Select Country" {
		t.Fatalf("expected derived placeholder, got %v", payload["placeholder"])
	}
	if payload["describedBy"] != "fg-country-error" || payload["invalid"] != true {
		t.Fatalf("expected error wiring, got %v", payload)
	}

	options := payload["options"].([]map[string]any)
	want := []map[string]any{
		{"value": "uk", "label": "UK", "id": "fg-country-uk", "selected": true},
		{"value": "new zealand", "label": "new zealand", "id": "fg-country-new-zealand", "selected": false},
	}
	if diff := cmp.Diff(want, options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
