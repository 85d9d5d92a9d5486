package model

import internalmodel "github.com/goliatone/go-profileform/internal/model"

// FieldKind re-exports the internal FieldKind enumeration.
type FieldKind = internalmodel.FieldKind

const (
	FieldKindText              = internalmodel.FieldKindText
	FieldKindMultilineText     = internalmodel.FieldKindMultilineText
	FieldKindSingleSelect      = internalmodel.FieldKindSingleSelect
	FieldKindSingleChoiceGroup = internalmodel.FieldKindSingleChoiceGroup
	FieldKindMultiChoiceGroup  = internalmodel.FieldKindMultiChoiceGroup
)

const (
	ValidationRuleRequired  = internalmodel.ValidationRuleRequired
	ValidationRuleMinItems  = internalmodel.ValidationRuleMinItems
	ValidationRuleOneOf     = internalmodel.ValidationRuleOneOf
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

type (
	ValidationRule  = internalmodel.ValidationRule
	Option          = internalmodel.Option
	FieldDefinition = internalmodel.FieldDefinition
	FormDefinition  = internalmodel.FormDefinition
	Values          = internalmodel.Values
	Errors          = internalmodel.Errors
	Touched         = internalmodel.Touched
	Snapshot        = internalmodel.Snapshot
)

var (
	ErrFormIDMissing        = internalmodel.ErrFormIDMissing
	ErrNoFields             = internalmodel.ErrNoFields
	ErrFieldNameMissing     = internalmodel.ErrFieldNameMissing
	ErrDuplicateField       = internalmodel.ErrDuplicateField
	ErrInvalidFieldKind     = internalmodel.ErrInvalidFieldKind
	ErrMissingOptions       = internalmodel.ErrMissingOptions
	ErrUnexpectedOptions    = internalmodel.ErrUnexpectedOptions
	ErrDuplicateOption      = internalmodel.ErrDuplicateOption
	ErrDuplicateOptionLabel = internalmodel.ErrDuplicateOptionLabel
	ErrEmptyOptionValue     = internalmodel.ErrEmptyOptionValue
	ErrUnknownValidation    = internalmodel.ErrUnknownValidation
)

// AllFieldKinds returns every supported field kind.
func AllFieldKinds() []FieldKind {
	return internalmodel.AllFieldKinds()
}

// NewSnapshot captures values in definition order.
func NewSnapshot(def FormDefinition, values Values) Snapshot {
	return internalmodel.NewSnapshot(def, values)
}

// StringSet coerces []string or []any of strings into a fresh []string.
func StringSet(value any) ([]string, bool) {
	return internalmodel.StringSet(value)
}

// Humanize derives a display label from a field name.
func Humanize(name string) string {
	return internalmodel.Humanize(name)
}
