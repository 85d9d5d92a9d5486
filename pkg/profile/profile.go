// Package profile holds the built-in profile form: name, address, country,
// gender and hobbies with their required-field rules.
package profile

import (
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/validation"
)

// FormID identifies the built-in definition.
const FormID = "profile"

// Field names.
const (
	FieldName    = "name"
	FieldAddress = "address"
	FieldCountry = "country"
	FieldGender  = "gender"
	FieldHobbies = "hobbies"
)

// Countries lists the selectable countries in display order.
func Countries() []model.Option {
	return []model.Option{
		{Value: "usa", Label: "USA"},
		{Value: "uk", Label: "UK"},
		{Value: "canada", Label: "Canada"},
	}
}

// Genders lists the gender choices in display order.
func Genders() []model.Option {
	return []model.Option{
		{Value: "male", Label: "Male"},
		{Value: "female", Label: "Female"},
	}
}

// Hobbies lists the hobby toggles in display order.
func Hobbies() []model.Option {
	return []model.Option{
		{Value: "reading", Label: "Reading"},
		{Value: "sports", Label: "Sports"},
		{Value: "music", Label: "Music"},
	}
}

// Definition returns a fresh copy of the profile form registry. Country is
// only checked for non-emptiness; membership in Countries is not enforced.
func Definition() model.FormDefinition {
	return model.FormDefinition{
		ID:          FormID,
		Title:       "Profile",
		SubmitLabel: "Submit",
		Fields: []model.FieldDefinition{
			{
				Name:        FieldName,
				Kind:        model.FieldKindText,
				Label:       "Name",
				Validations: []model.ValidationRule{required("Name is required")},
			},
			{
				Name:        FieldAddress,
				Kind:        model.FieldKindMultilineText,
				Label:       "Address",
				Placeholder: "Address",
				Validations: []model.ValidationRule{required("Address is required")},
			},
			{
				Name:        FieldCountry,
				Kind:        model.FieldKindSingleSelect,
				Label:       "Country",
				Placeholder: "Select Country",
				Options:     Countries(),
				Validations: []model.ValidationRule{required("Country is required")},
			},
			{
				Name:        FieldGender,
				Kind:        model.FieldKindSingleChoiceGroup,
				Label:       "Gender",
				Options:     Genders(),
				Validations: []model.ValidationRule{required("Gender is required")},
			},
			{
				Name:    FieldHobbies,
				Kind:    model.FieldKindMultiChoiceGroup,
				Label:   "Hobbies",
				Options: Hobbies(),
				Validations: []model.ValidationRule{{
					Kind:    model.ValidationRuleMinItems,
					Message: "Select at least one hobby",
					Params:  map[string]string{"value": "1"},
				}},
			},
		},
	}
}

// Schema compiles the validation schema of Definition.
func Schema() *validation.Schema {
	return validation.MustCompile(Definition())
}

func required(msg string) model.ValidationRule {
	return model.ValidationRule{Kind: model.ValidationRuleRequired, Message: msg}
}
