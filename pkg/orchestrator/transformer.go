package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-profileform/pkg/model"
)

// Transformer mutates a FormDefinition before it is compiled. Implementations
// can relabel fields, add descriptions, or attach extra rules.
type Transformer interface {
	Transform(ctx context.Context, def *model.FormDefinition) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, def *model.FormDefinition) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, def *model.FormDefinition) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, def)
}

// PresetTransformer applies declarative copy overrides loaded from a JSON or
// YAML document:
//
//	{
//	  "title": "Your profile",
//	  "submitLabel": "Save",
//	  "fields": {
//	    "country": {"label": "Country of residence", "options": {"uk": "United Kingdom"}}
//	  }
//	}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title       string                 `json:"title" yaml:"title"`
	SubmitLabel string                 `json:"submitLabel" yaml:"submitLabel"`
	Fields      map[string]fieldPreset `json:"fields" yaml:"fields"`
}

type fieldPreset struct {
	Label       string                 `json:"label" yaml:"label"`
	Description string                 `json:"description" yaml:"description"`
	Placeholder string                 `json:"placeholder" yaml:"placeholder"`
	Options     map[string]string      `json:"options" yaml:"options"`
	Messages    map[string]string      `json:"messages" yaml:"messages"`
	Validations []model.ValidationRule `json:"validations" yaml:"validations"`
}

// NewPresetTransformer constructs a transformer from raw JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path. Files ending in .yaml or .yml are parsed as YAML.
func NewPresetTransformerFromFS(fsys fs.FS, name string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", name, err)
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		var document presetDocument
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("preset transformer: parse %s: %w", name, err)
		}
		return &PresetTransformer{document: document}, nil
	default:
		return NewPresetTransformer(data)
	}
}

// Transform applies the declarative patches onto def.
func (t *PresetTransformer) Transform(ctx context.Context, def *model.FormDefinition) error {
	if def == nil {
		return errors.New("preset transformer: definition is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		def.Title = t.document.Title
	}
	if t.document.SubmitLabel != "" {
		def.SubmitLabel = t.document.SubmitLabel
	}

	for name, patch := range t.document.Fields {
		field := findField(def, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found", name)
		}
		if err := applyFieldPreset(field, patch); err != nil {
			return err
		}
	}
	return nil
}

func applyFieldPreset(field *model.FieldDefinition, patch fieldPreset) error {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	for value, label := range patch.Options {
		idx := optionIndex(field.Options, value)
		if idx < 0 {
			return fmt.Errorf("preset transformer: field %q has no option %q", field.Name, value)
		}
		field.Options[idx].Label = label
	}
	for kind, message := range patch.Messages {
		found := false
		for i := range field.Validations {
			if field.Validations[i].Kind == kind {
				field.Validations[i].Message = message
				found = true
			}
		}
		if !found {
			return fmt.Errorf("preset transformer: field %q has no %s rule", field.Name, kind)
		}
	}
	field.Validations = append(field.Validations, patch.Validations...)
	return nil
}

func findField(def *model.FormDefinition, name string) *model.FieldDefinition {
	for idx := range def.Fields {
		if def.Fields[idx].Name == name {
			return &def.Fields[idx]
		}
	}
	return nil
}

func optionIndex(options []model.Option, value string) int {
	for idx, opt := range options {
		if opt.Value == value {
			return idx
		}
	}
	return -1
}
