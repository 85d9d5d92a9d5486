package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDefinition() FormDefinition {
	return FormDefinition{
		ID: "profile",
		Fields: []FieldDefinition{
			{Name: "name", Kind: FieldKindText, Validations: []ValidationRule{{Kind: ValidationRuleRequired}}},
			{Name: "country", Kind: FieldKindSingleSelect, Options: []Option{{Value: "uk", Label: "UK"}}},
			{Name: "hobbies", Kind: FieldKindMultiChoiceGroup, Options: []Option{{Value: "music"}}},
		},
	}
}

func TestFormDefinitionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FormDefinition)
		want   error
	}{
		{name: "valid", mutate: func(*FormDefinition) {}},
		{name: "missing id", mutate: func(d *FormDefinition) { d.ID = " " }, want: ErrFormIDMissing},
		{name: "no fields", mutate: func(d *FormDefinition) { d.Fields = nil }, want: ErrNoFields},
		{name: "empty name", mutate: func(d *FormDefinition) { d.Fields[0].Name = "" }, want: ErrFieldNameMissing},
		{name: "whitespace name", mutate: func(d *FormDefinition) { d.Fields[0].Name = "full name" }, want: ErrInvalidFieldNameChar},
		{name: "duplicate", mutate: func(d *FormDefinition) { d.Fields[1].Name = "name" }, want: ErrDuplicateField},
		{name: "bad kind", mutate: func(d *FormDefinition) { d.Fields[0].Kind = "slider" }, want: ErrInvalidFieldKind},
		{name: "choice without options", mutate: func(d *FormDefinition) { d.Fields[1].Options = nil }, want: ErrMissingOptions},
		{name: "text with options", mutate: func(d *FormDefinition) { d.Fields[0].Options = []Option{{Value: "x"}} }, want: ErrUnexpectedOptions},
		{name: "duplicate option", mutate: func(d *FormDefinition) {
			d.Fields[2].Options = []Option{{Value: "music"}, {Value: "music"}}
		}, want: ErrDuplicateOption},
		{name: "duplicate option label", mutate: func(d *FormDefinition) {
			d.Fields[1].Options = []Option{{Value: "uk", Label: "UK"}, {Value: "gb", Label: "UK"}}
		}, want: ErrDuplicateOptionLabel},
		{name: "label shadows bare value", mutate: func(d *FormDefinition) {
			d.Fields[2].Options = []Option{{Value: "music"}, {Value: "tunes", Label: "music"}}
		}, want: ErrDuplicateOptionLabel},
		{name: "empty option value", mutate: func(d *FormDefinition) { d.Fields[2].Options = []Option{{Label: "Music"}} }, want: ErrEmptyOptionValue},
		{name: "unknown rule", mutate: func(d *FormDefinition) {
			d.Fields[0].Validations = []ValidationRule{{Kind: "email"}}
		}, want: ErrUnknownValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := sampleDefinition()
			tt.mutate(&def)
			err := def.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFieldKindHelpers(t *testing.T) {
	if len(AllFieldKinds()) != 5 {
		t.Fatalf("expected five kinds, got %v", AllFieldKinds())
	}
	for _, kind := range AllFieldKinds() {
		if !kind.IsValid() {
			t.Fatalf("%s should be valid", kind)
		}
	}
	if !FieldKindMultiChoiceGroup.IsMulti() || FieldKindSingleChoiceGroup.IsMulti() {
		t.Fatalf("only the multi-choice group is multi-valued")
	}
	if FieldKindText.HasOptions() || FieldKindMultilineText.HasOptions() || !FieldKindSingleSelect.HasOptions() {
		t.Fatalf("unexpected HasOptions results")
	}
}

func TestFieldDefinitionHelpers(t *testing.T) {
	def := sampleDefinition()
	country, ok := def.Field("country")
	if !ok {
		t.Fatalf("expected country field")
	}
	if country.DisplayLabel() != "Country" {
		t.Fatalf("expected humanized label, got %q", country.DisplayLabel())
	}
	if country.OptionLabel("uk") != "UK" || country.OptionLabel("fr") != "fr" {
		t.Fatalf("unexpected option labels")
	}
	if !country.HasOption("uk") || country.HasOption("fr") {
		t.Fatalf("unexpected HasOption results")
	}
	hobbies, _ := def.Field("hobbies")
	if diff := cmp.Diff([]string{}, hobbies.EmptyValue()); diff != "" {
		t.Fatalf("hobbies empty value mismatch (-want +got):\n%s", diff)
	}
	if _, ok := def.Field("missing"); ok {
		t.Fatalf("unexpected field")
	}
}

func TestCloneIsDeep(t *testing.T) {
	def := sampleDefinition()
	def.Fields[0].Validations[0].Params = map[string]string{"value": "1"}

	clone := def.Clone()
	clone.Fields[1].Options[0].Label = "Britain"
	clone.Fields[0].Validations[0].Params["value"] = "2"

	if def.Fields[1].Options[0].Label != "UK" {
		t.Fatalf("option mutation leaked into original")
	}
	if def.Fields[0].Validations[0].Params["value"] != "1" {
		t.Fatalf("param mutation leaked into original")
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"name":         "Name",
		"home_address": "Home Address",
		"homeAddress":  "Home Address",
		"zip-code":     "Zip Code",
		"":             "",
	}
	for input, want := range cases {
		if got := Humanize(input); got != want {
			t.Fatalf("Humanize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSnapshot(t *testing.T) {
	def := sampleDefinition()
	values := Values{
		"hobbies": []string{"music"},
		"name":    "Alice",
		"extra":   "ignored",
	}
	snap := NewSnapshot(def, values)

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"name":"Alice","country":"","hobbies":["music"]}`
	if string(raw) != want {
		t.Fatalf("snapshot json mismatch\nwant %s\n got %s", want, raw)
	}

	values["hobbies"].([]string)[0] = "sports"
	got, _ := snap.Get("hobbies")
	if diff := cmp.Diff([]string{"music"}, got); diff != "" {
		t.Fatalf("snapshot must be frozen (-want +got):\n%s", diff)
	}
	if _, ok := snap.Get("extra"); ok {
		t.Fatalf("unknown keys must not be captured")
	}
}

func TestValuesAccessors(t *testing.T) {
	values := Values{"name": "Alice", "hobbies": []any{"a", "b"}, "bad": []any{1}}
	if values.String("hobbies") != "" || values.String("name") != "Alice" {
		t.Fatalf("unexpected String results")
	}
	if diff := cmp.Diff([]string{"a", "b"}, values.Strings("hobbies")); diff != "" {
		t.Fatalf("Strings mismatch (-want +got):\n%s", diff)
	}
	if got := values.Strings("bad"); got == nil || len(got) != 0 {
		t.Fatalf("malformed sets read as empty, got %#v", got)
	}

	errs := Errors{"hobbies": "x", "name": "y"}
	if diff := cmp.Diff([]string{"name", "hobbies"}, errs.Fields(sampleDefinition())); diff != "" {
		t.Fatalf("Fields order mismatch (-want +got):\n%s", diff)
	}
}
