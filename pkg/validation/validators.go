package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-profileform/pkg/model"
)

// Validator checks a single field value. Implementations must be total: any
// value, including nil or a value of the wrong type, yields either nil or a
// ValidationError, never a panic.
type Validator interface {
	Validate(value any) error
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(value any) error

// Validate calls the underlying function.
func (fn ValidatorFunc) Validate(value any) error {
	return fn(value)
}

// ValidationError is the failure produced by a validator. Its message is what
// the form shows next to the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Required rejects empty strings, empty sets and values of any other type.
func Required(msg string) Validator {
	return ValidatorFunc(func(value any) error {
		if isEmpty(value) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MinItems rejects sets with fewer than n members. Absent and malformed
// values count as an empty set.
func MinItems(n int, msg string) Validator {
	return ValidatorFunc(func(value any) error {
		items, _ := model.StringSet(value)
		if len(items) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// OneOf accepts only values (or set members) present in options. Empty values
// pass so Required stays the single source of "missing" errors.
func OneOf(options []model.Option, msg string) Validator {
	allowed := make(map[string]struct{}, len(options))
	for _, opt := range options {
		allowed[opt.Value] = struct{}{}
	}
	return ValidatorFunc(func(value any) error {
		switch typed := value.(type) {
		case nil:
			return nil
		case string:
			if typed == "" {
				return nil
			}
			if _, ok := allowed[typed]; !ok {
				return ValidationError{Message: msg}
			}
			return nil
		default:
			items, ok := model.StringSet(value)
			if !ok {
				return ValidationError{Message: msg}
			}
			for _, item := range items {
				if _, ok := allowed[item]; !ok {
					return ValidationError{Message: msg}
				}
			}
			return nil
		}
	})
}

// MinLength rejects non-empty strings shorter than n runes.
func MinLength(n int, msg string) Validator {
	return ValidatorFunc(func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) < n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// MaxLength rejects strings longer than n runes.
func MaxLength(n int, msg string) Validator {
	return ValidatorFunc(func(value any) error {
		s, _ := value.(string)
		if utf8.RuneCountInString(s) > n {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

// Pattern rejects non-empty strings that do not match re.
func Pattern(re *regexp.Regexp, msg string) Validator {
	return ValidatorFunc(func(value any) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return ValidationError{Message: msg}
		}
		return nil
	})
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	default:
		items, ok := model.StringSet(value)
		return !ok || len(items) == 0
	}
}

func defaultMessage(field model.FieldDefinition, rule model.ValidationRule, n int) string {
	label := field.DisplayLabel()
	switch rule.Kind {
	case model.ValidationRuleRequired:
		return fmt.Sprintf("%s is required", label)
	case model.ValidationRuleMinItems:
		if n == 1 {
			return fmt.Sprintf("Select at least one %s", lowerFirst(label))
		}
		return fmt.Sprintf("Select at least %d %s", n, lowerFirst(label))
	case model.ValidationRuleOneOf:
		return fmt.Sprintf("%s must be one of the listed options", label)
	case model.ValidationRuleMinLength:
		return fmt.Sprintf("%s must be at least %d characters", label, n)
	case model.ValidationRuleMaxLength:
		return fmt.Sprintf("%s must be at most %d characters", label, n)
	case model.ValidationRulePattern:
		return fmt.Sprintf("%s has an invalid format", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	if r >= 'A' && r <= 'Z' {
		return string(r+('a'-'A')) + s[size:]
	}
	return s
}
