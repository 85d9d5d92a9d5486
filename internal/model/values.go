package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Values maps field names to their current value: a string for text, select
// and radio fields, a []string for multi-choice fields.
type Values map[string]any

// String returns the string value stored under name. Absent or non-string
// values read as "".
func (v Values) String(name string) string {
	if s, ok := v[name].(string); ok {
		return s
	}
	return ""
}

// Strings returns a copy of the set stored under name. Absent or malformed
// values read as an empty, non-nil slice.
func (v Values) Strings(name string) []string {
	items, ok := StringSet(v[name])
	if !ok {
		return []string{}
	}
	return items
}

// Clone returns a copy of the values with every set duplicated.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		if items, ok := value.([]string); ok {
			out[key] = append([]string{}, items...)
			continue
		}
		out[key] = value
	}
	return out
}

// StringSet coerces a set-like value into a fresh []string. The boolean is
// false when value is not a list of strings.
func StringSet(value any) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return append([]string{}, typed...), true
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Errors maps field names to the message of their first failing rule. Valid
// fields have no entry.
type Errors map[string]string

// Has reports whether name carries an error.
func (e Errors) Has(name string) bool {
	return e[name] != ""
}

// Clone returns a copy of the error map.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}

// Fields lists the fields with errors in definition order.
func (e Errors) Fields(def FormDefinition) []string {
	var out []string
	for _, field := range def.Fields {
		if e.Has(field.Name) {
			out = append(out, field.Name)
		}
	}
	return out
}

// Touched records which fields have received a change or blur.
type Touched map[string]bool

// Clone returns a copy of the touched map.
func (t Touched) Clone() Touched {
	out := make(Touched, len(t))
	for key, value := range t {
		out[key] = value
	}
	return out
}

// Snapshot is a frozen copy of form values ordered by the form definition. It
// is what submit handlers receive.
type Snapshot struct {
	order  []string
	values Values
}

// NewSnapshot copies values for every field of def, filling missing entries
// with the field's empty value.
func NewSnapshot(def FormDefinition, values Values) Snapshot {
	snap := Snapshot{
		order:  def.Names(),
		values: make(Values, len(def.Fields)),
	}
	for _, field := range def.Fields {
		if field.Kind.IsMulti() {
			snap.values[field.Name] = values.Strings(field.Name)
			continue
		}
		snap.values[field.Name] = values.String(field.Name)
	}
	return snap
}

// Names returns the field names in definition order.
func (s Snapshot) Names() []string {
	return append([]string(nil), s.order...)
}

// Get returns the value captured for name.
func (s Snapshot) Get(name string) (any, bool) {
	value, ok := s.values[name]
	if items, isSet := value.([]string); isSet {
		return append([]string{}, items...), ok
	}
	return value, ok
}

// Values returns a mutable copy of the captured values.
func (s Snapshot) Values() Values {
	return s.values.Clone()
}

// MarshalJSON encodes the snapshot as an object whose keys follow the
// definition order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, name := range s.order {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("model: encode key %q: %w", name, err)
		}
		value, err := json.Marshal(s.values[name])
		if err != nil {
			return nil, fmt.Errorf("model: encode value %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
