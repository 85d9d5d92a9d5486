package model

// FieldKind is the closed set of controls a form field can be rendered as.
type FieldKind string

const (
	FieldKindText              FieldKind = "text"
	FieldKindMultilineText     FieldKind = "multiline-text"
	FieldKindSingleSelect      FieldKind = "single-select"
	FieldKindSingleChoiceGroup FieldKind = "single-choice-group"
	FieldKindMultiChoiceGroup  FieldKind = "multi-choice-group"
)

// AllFieldKinds returns every supported kind in declaration order.
func AllFieldKinds() []FieldKind {
	return []FieldKind{
		FieldKindText,
		FieldKindMultilineText,
		FieldKindSingleSelect,
		FieldKindSingleChoiceGroup,
		FieldKindMultiChoiceGroup,
	}
}

// IsValid reports whether k is one of the supported kinds.
func (k FieldKind) IsValid() bool {
	switch k {
	case FieldKindText,
		FieldKindMultilineText,
		FieldKindSingleSelect,
		FieldKindSingleChoiceGroup,
		FieldKindMultiChoiceGroup:
		return true
	default:
		return false
	}
}

// HasOptions reports whether fields of this kind carry an option list.
func (k FieldKind) HasOptions() bool {
	switch k {
	case FieldKindSingleSelect, FieldKindSingleChoiceGroup, FieldKindMultiChoiceGroup:
		return true
	default:
		return false
	}
}

// IsMulti reports whether the field value is a set of option values rather
// than a single string.
func (k FieldKind) IsMulti() bool {
	return k == FieldKindMultiChoiceGroup
}

func (k FieldKind) String() string {
	return string(k)
}

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinItems  = "minItems"
	ValidationRuleOneOf     = "oneOf"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// KnownValidationRule reports whether kind names a rule the validation
// interpreter understands.
func KnownValidationRule(kind string) bool {
	switch kind {
	case ValidationRuleRequired,
		ValidationRuleMinItems,
		ValidationRuleOneOf,
		ValidationRuleMinLength,
		ValidationRuleMaxLength,
		ValidationRulePattern:
		return true
	default:
		return false
	}
}

// ValidationRule represents a single declarative constraint attached to a
// field. Length and item bounds encode their threshold in Params["value"];
// pattern rules keep the expression in Params["pattern"]. Message overrides
// the default error text produced when the rule fails.
type ValidationRule struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

// Option is one selectable entry of a select, radio, or checkbox field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition describes one named input of the form. Definitions are
// built at startup and treated as immutable afterwards.
type FieldDefinition struct {
	Name        string           `json:"name"`
	Kind        FieldKind        `json:"kind"`
	Label       string           `json:"label,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Description string           `json:"description,omitempty"`
	Options     []Option         `json:"options,omitempty"`
	Validations []ValidationRule `json:"validations,omitempty"`
}

// DisplayLabel returns the configured label or one derived from the name.
func (f FieldDefinition) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return Humanize(f.Name)
}

// HasOption reports whether value is one of the field's option values.
func (f FieldDefinition) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel resolves the label for an option value, falling back to the
// value itself.
func (f FieldDefinition) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			if opt.Label != "" {
				return opt.Label
			}
			return opt.Value
		}
	}
	return value
}

// EmptyValue returns the value a field holds before any interaction.
func (f FieldDefinition) EmptyValue() any {
	if f.Kind.IsMulti() {
		return []string{}
	}
	return ""
}

// Clone returns a deep copy of the definition.
func (f FieldDefinition) Clone() FieldDefinition {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Validations != nil {
		out.Validations = make([]ValidationRule, len(f.Validations))
		for i, rule := range f.Validations {
			out.Validations[i] = ValidationRule{
				Kind:    rule.Kind,
				Message: rule.Message,
				Params:  cloneStringMap(rule.Params),
			}
		}
	}
	return out
}

// FormDefinition is the static field registry of a form.
type FormDefinition struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty"`
	Fields      []FieldDefinition `json:"fields"`
}

// Field looks up a field definition by name.
func (d FormDefinition) Field(name string) (FieldDefinition, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// Names returns the field names in declaration order.
func (d FormDefinition) Names() []string {
	names := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy of the definition.
func (d FormDefinition) Clone() FormDefinition {
	out := d
	if d.Fields != nil {
		out.Fields = make([]FieldDefinition, len(d.Fields))
		for i, field := range d.Fields {
			out.Fields[i] = field.Clone()
		}
	}
	return out
}

func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
