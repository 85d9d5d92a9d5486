package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFormIDMissing        = errors.New("model: form id is required")
	ErrNoFields             = errors.New("model: form defines no fields")
	ErrFieldNameMissing     = errors.New("model: field name is required")
	ErrDuplicateField       = errors.New("model: duplicate field name")
	ErrInvalidFieldKind     = errors.New("model: invalid field kind")
	ErrMissingOptions       = errors.New("model: choice field requires at least one option")
	ErrUnexpectedOptions    = errors.New("model: options are only allowed on choice fields")
	ErrDuplicateOption      = errors.New("model: duplicate option value")
	ErrDuplicateOptionLabel = errors.New("model: duplicate option label")
	ErrEmptyOptionValue     = errors.New("model: option value is required")
	ErrUnknownValidation    = errors.New("model: unknown validation rule")
	ErrInvalidFieldNameChar = errors.New("model: field name contains whitespace")
)

// Validate checks the registry invariants: unique non-empty names, known
// kinds, options only (and always) on choice kinds, unique option values and
// labels, and known rule kinds. The first violation is returned.
func (d FormDefinition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrFormIDMissing
	}
	if len(d.Fields) == 0 {
		return ErrNoFields
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for idx, field := range d.Fields {
		if err := field.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", idx, err)
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("%w %q", ErrDuplicateField, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// Validate checks a single field definition.
func (f FieldDefinition) Validate() error {
	if f.Name == "" {
		return ErrFieldNameMissing
	}
	if strings.ContainsAny(f.Name, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidFieldNameChar, f.Name)
	}
	if !f.Kind.IsValid() {
		return fmt.Errorf("%w %q for field %q", ErrInvalidFieldKind, f.Kind, f.Name)
	}

	if f.Kind.HasOptions() {
		if len(f.Options) == 0 {
			return fmt.Errorf("%w (field %q)", ErrMissingOptions, f.Name)
		}
		values := make(map[string]struct{}, len(f.Options))
		labels := make(map[string]struct{}, len(f.Options))
		for _, opt := range f.Options {
			if opt.Value == "" {
				return fmt.Errorf("%w (field %q)", ErrEmptyOptionValue, f.Name)
			}
			if _, exists := values[opt.Value]; exists {
				return fmt.Errorf("%w %q (field %q)", ErrDuplicateOption, opt.Value, f.Name)
			}
			values[opt.Value] = struct{}{}

			label := f.OptionLabel(opt.Value)
			if _, exists := labels[label]; exists {
				return fmt.Errorf("%w %q (field %q)", ErrDuplicateOptionLabel, label, f.Name)
			}
			labels[label] = struct{}{}
		}
	} else if len(f.Options) > 0 {
		return fmt.Errorf("%w (field %q)", ErrUnexpectedOptions, f.Name)
	}

	for _, rule := range f.Validations {
		if !KnownValidationRule(rule.Kind) {
			return fmt.Errorf("%w %q (field %q)", ErrUnknownValidation, rule.Kind, f.Name)
		}
	}
	return nil
}
