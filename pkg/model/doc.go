// Package model defines the typed field registry consumed by validation, form
// state and renderers. Definitions live in internal/model and are re-exported
// here. A FormDefinition is an ordered list of FieldDefinitions, each with a
// kind (text, multiline-text, single-select, single-choice-group,
// multi-choice-group), optional options for the choice kinds, and declarative
// ValidationRules using the ValidationRule* identifiers (required, minItems,
// oneOf, minLength/maxLength, pattern). Values, Errors and Touched are the
// per-instance maps a form state controller maintains; Snapshot is the
// ordered, immutable copy handed to submit handlers.
package model
