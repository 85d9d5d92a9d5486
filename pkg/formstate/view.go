package formstate

import "github.com/goliatone/go-profileform/pkg/model"

// FieldView is everything a renderer needs for one control: the definition,
// the current value and the error to display. Error is empty until the field
// is touched.
type FieldView struct {
	Field   model.FieldDefinition
	Value   string
	Values  []string
	Touched bool
	Error   string
}

// Selected reports whether option is the current value (single-valued kinds)
// or a member of the current set (multi-choice).
func (v FieldView) Selected(option string) bool {
	if v.Field.Kind.IsMulti() {
		for _, item := range v.Values {
			if item == option {
				return true
			}
		}
		return false
	}
	return v.Value == option
}

// View is the render-ready state of a whole form.
type View struct {
	ID          string
	Title       string
	SubmitLabel string
	Fields      []FieldView
}

// HasVisibleErrors reports whether any field currently shows an error.
func (v View) HasVisibleErrors() bool {
	for _, field := range v.Fields {
		if field.Error != "" {
			return true
		}
	}
	return false
}

// View builds the render view of the current state.
func (c *Controller) View() View {
	view := View{
		ID:          c.def.ID,
		Title:       c.def.Title,
		SubmitLabel: c.def.SubmitLabel,
		Fields:      make([]FieldView, 0, len(c.def.Fields)),
	}
	for _, field := range c.def.Fields {
		fv := FieldView{
			Field:   field.Clone(),
			Touched: c.touched[field.Name],
			Error:   c.VisibleError(field.Name),
		}
		if field.Kind.IsMulti() {
			fv.Values = c.values.Strings(field.Name)
		} else {
			fv.Value = c.values.String(field.Name)
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}
