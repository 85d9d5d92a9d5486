package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-profileform/pkg/model"
)

var (
	// ErrInvalidRuleParam is returned by Compile when a rule carries a missing
	// or malformed parameter.
	ErrInvalidRuleParam = errors.New("validation: invalid rule parameter")
	// ErrUnknownField is returned when a custom validator targets a field the
	// definition does not declare.
	ErrUnknownField = errors.New("validation: unknown field")
)

// Option configures schema compilation.
type Option func(*options)

type options struct {
	extra map[string][]Validator
}

// WithValidator appends a custom validator to field. Custom validators run
// after the declarative rules of that field.
func WithValidator(field string, v Validator) Option {
	return func(opts *options) {
		if v == nil {
			return
		}
		if opts.extra == nil {
			opts.extra = make(map[string][]Validator)
		}
		opts.extra[field] = append(opts.extra[field], v)
	}
}

type fieldRules struct {
	name       string
	validators []Validator
}

// Schema is the compiled form of the declarative rules of a definition. It is
// immutable and safe to share between form instances.
type Schema struct {
	fields []fieldRules
}

// Compile interprets every ValidationRule of def into validators. Rule
// parameters are parsed once here so Validate never fails.
func Compile(def model.FormDefinition, opts ...Option) (*Schema, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	for name := range cfg.extra {
		if _, ok := def.Field(name); !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
		}
	}

	schema := &Schema{fields: make([]fieldRules, 0, len(def.Fields))}
	for _, field := range def.Fields {
		compiled := fieldRules{name: field.Name}
		for _, rule := range field.Validations {
			v, err := compileRule(field, rule)
			if err != nil {
				return nil, fmt.Errorf("validation: field %q rule %q: %w", field.Name, rule.Kind, err)
			}
			compiled.validators = append(compiled.validators, v)
		}
		compiled.validators = append(compiled.validators, cfg.extra[field.Name]...)
		schema.fields = append(schema.fields, compiled)
	}
	return schema, nil
}

// MustCompile is Compile that panics on error, for static definitions.
func MustCompile(def model.FormDefinition, opts ...Option) *Schema {
	schema, err := Compile(def, opts...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Validate evaluates every field against values and returns the first failing
// message per field. It never fails: absent values are validated as empty.
func (s *Schema) Validate(values model.Values) model.Errors {
	errs := make(model.Errors)
	if s == nil {
		return errs
	}
	for _, field := range s.fields {
		if msg := validateField(field, values[field.name]); msg != "" {
			errs[field.name] = msg
		}
	}
	return errs
}

// ValidateField evaluates a single field. Unknown fields are always valid.
func (s *Schema) ValidateField(name string, value any) string {
	if s == nil {
		return ""
	}
	for _, field := range s.fields {
		if field.name == name {
			return validateField(field, value)
		}
	}
	return ""
}

func validateField(field fieldRules, value any) string {
	for _, v := range field.validators {
		err := v.Validate(value)
		if err == nil {
			continue
		}
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			return msg
		}
		return "invalid value"
	}
	return ""
}

func compileRule(field model.FieldDefinition, rule model.ValidationRule) (Validator, error) {
	switch rule.Kind {
	case model.ValidationRuleRequired:
		return Required(messageFor(field, rule, 0)), nil
	case model.ValidationRuleMinItems:
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MinItems(n, messageFor(field, rule, n)), nil
	case model.ValidationRuleOneOf:
		if len(field.Options) == 0 {
			return nil, fmt.Errorf("%w: oneOf requires options", ErrInvalidRuleParam)
		}
		return OneOf(field.Options, messageFor(field, rule, 0)), nil
	case model.ValidationRuleMinLength:
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MinLength(n, messageFor(field, rule, n)), nil
	case model.ValidationRuleMaxLength:
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MaxLength(n, messageFor(field, rule, n)), nil
	case model.ValidationRulePattern:
		expr := strings.TrimSpace(rule.Params["pattern"])
		if expr == "" {
			return nil, fmt.Errorf("%w: pattern is required", ErrInvalidRuleParam)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRuleParam, err)
		}
		return Pattern(re, messageFor(field, rule, 0)), nil
	default:
		return nil, fmt.Errorf("%w: unknown rule", ErrInvalidRuleParam)
	}
}

func messageFor(field model.FieldDefinition, rule model.ValidationRule, n int) string {
	if msg := strings.TrimSpace(rule.Message); msg != "" {
		return msg
	}
	return defaultMessage(field, rule, n)
}

func intParam(rule model.ValidationRule, key string) (int, error) {
	raw := strings.TrimSpace(rule.Params[key])
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidRuleParam, key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidRuleParam, key, raw)
	}
	return n, nil
}
