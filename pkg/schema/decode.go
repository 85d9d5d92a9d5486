package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-profileform/pkg/model"
)

// definitionFile is the on-disk shape of a form definition. Rules may be
// attached inline on a field or grouped by field name under validationRules.
type definitionFile struct {
	ID              string                `json:"id" yaml:"id" toml:"id"`
	Title           string                `json:"title" yaml:"title" toml:"title"`
	SubmitLabel     string                `json:"submitLabel" yaml:"submitLabel" toml:"submitLabel"`
	Fields          []fieldFile           `json:"fields" yaml:"fields" toml:"fields"`
	ValidationRules map[string][]ruleFile `json:"validationRules" yaml:"validationRules" toml:"validationRules"`
}

type fieldFile struct {
	Name        string       `json:"name" yaml:"name" toml:"name"`
	Kind        string       `json:"kind" yaml:"kind" toml:"kind"`
	Label       string       `json:"label" yaml:"label" toml:"label"`
	Placeholder string       `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Description string       `json:"description" yaml:"description" toml:"description"`
	Options     []optionFile `json:"options" yaml:"options" toml:"options"`
	Validations []ruleFile   `json:"validations" yaml:"validations" toml:"validations"`
}

type optionFile struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Label string `json:"label" yaml:"label" toml:"label"`
}

type ruleFile struct {
	Kind    string         `json:"kind" yaml:"kind" toml:"kind"`
	Message string         `json:"message" yaml:"message" toml:"message"`
	Params  map[string]any `json:"params" yaml:"params" toml:"params"`
}

// Decode parses doc, merges grouped validation rules into their fields and
// validates the resulting definition.
func Decode(doc Document) (model.FormDefinition, error) {
	var file definitionFile
	raw := doc.Raw()

	var err error
	switch doc.Format() {
	case FormatYAML:
		err = yaml.Unmarshal(raw, &file)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	case FormatTOML:
		err = toml.Unmarshal(raw, &file)
	default:
		return model.FormDefinition{}, goerr.Wrap(ErrUnsupportedFormat, "cannot decode definition",
			goerr.V("location", doc.Location()), goerr.V("format", doc.Format()))
	}
	if err != nil {
		return model.FormDefinition{}, goerr.Wrap(err, "failed to parse definition",
			goerr.V("location", doc.Location()), goerr.V("format", doc.Format()))
	}

	def, err := file.definition()
	if err != nil {
		return model.FormDefinition{}, goerr.Wrap(err, "invalid definition", goerr.V("location", doc.Location()))
	}
	if err := def.Validate(); err != nil {
		return model.FormDefinition{}, goerr.Wrap(err, "invalid definition", goerr.V("location", doc.Location()))
	}
	return def, nil
}

func (f definitionFile) definition() (model.FormDefinition, error) {
	def := model.FormDefinition{
		ID:          f.ID,
		Title:       f.Title,
		SubmitLabel: f.SubmitLabel,
		Fields:      make([]model.FieldDefinition, 0, len(f.Fields)),
	}

	index := make(map[string]int, len(f.Fields))
	for _, field := range f.Fields {
		out := model.FieldDefinition{
			Name:        field.Name,
			Kind:        model.FieldKind(field.Kind),
			Label:       field.Label,
			Placeholder: field.Placeholder,
			Description: field.Description,
		}
		for _, opt := range field.Options {
			out.Options = append(out.Options, model.Option{Value: opt.Value, Label: opt.Label})
		}
		for _, rule := range field.Validations {
			out.Validations = append(out.Validations, rule.rule())
		}
		index[field.Name] = len(def.Fields)
		def.Fields = append(def.Fields, out)
	}

	names := make([]string, 0, len(f.ValidationRules))
	for name := range f.ValidationRules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		idx, ok := index[name]
		if !ok {
			return model.FormDefinition{}, goerr.Wrap(ErrUnknownRuleField, "cannot attach rules", goerr.V("field", name))
		}
		for _, rule := range f.ValidationRules[name] {
			def.Fields[idx].Validations = append(def.Fields[idx].Validations, rule.rule())
		}
	}
	return def, nil
}

func (r ruleFile) rule() model.ValidationRule {
	rule := model.ValidationRule{Kind: r.Kind, Message: r.Message}
	if len(r.Params) > 0 {
		rule.Params = make(map[string]string, len(r.Params))
		for key, value := range r.Params {
			rule.Params[key] = fmt.Sprint(value)
		}
	}
	return rule
}
