package components

import "github.com/goliatone/go-profileform/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput         = "input"
	NameTextarea      = "textarea"
	NameSelect        = "select"
	NameRadioGroup    = "radio_group"
	NameCheckboxGroup = "checkbox_group"
)

// ForKind returns the default component for a field kind.
func ForKind(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindMultilineText:
		return NameTextarea
	case model.FieldKindSingleSelect:
		return NameSelect
	case model.FieldKindSingleChoiceGroup:
		return NameRadioGroup
	case model.FieldKindMultiChoiceGroup:
		return NameCheckboxGroup
	default:
		return NameInput
	}
}

// IsGroup reports whether a component renders several inputs, which means it
// is labelled by id rather than through a label's for attribute.
func IsGroup(name string) bool {
	switch normalize(name) {
	case NameRadioGroup, NameCheckboxGroup:
		return true
	default:
		return false
	}
}
