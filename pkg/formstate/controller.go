package formstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/submit"
	"github.com/goliatone/go-profileform/pkg/validation"
)

var (
	// ErrUnknownField is returned when a name has no field definition.
	ErrUnknownField = errors.New("formstate: unknown field")
	// ErrInvalidValue is returned when a value does not fit the field kind.
	ErrInvalidValue = errors.New("formstate: invalid value")
	// ErrNotMultiChoice is returned by Toggle on single-valued fields.
	ErrNotMultiChoice = errors.New("formstate: field is not a multi-choice group")
)

// Option configures a Controller.
type Option func(*Controller)

// WithSchema overrides the schema compiled from the definition.
func WithSchema(schema *validation.Schema) Option {
	return func(c *Controller) {
		if schema != nil {
			c.schema = schema
		}
	}
}

// WithSubmitHandler sets the handler invoked on successful submission.
func WithSubmitHandler(handler submit.Handler) Option {
	return func(c *Controller) {
		c.handler = handler
	}
}

// WithInitialValues seeds values (e.g. defaults) applied on construction and
// on Reset. Seeded fields are not marked touched.
func WithInitialValues(values model.Values) Option {
	return func(c *Controller) {
		c.seed = values.Clone()
	}
}

// Result describes the outcome of Submit.
type Result struct {
	Submitted bool
	Errors    model.Errors
	Snapshot  model.Snapshot
}

// Controller holds the values, touched flags and derived errors of one form
// instance. Every mutation re-runs the schema so Errors is always a pure
// function of Values. A Controller is not safe for concurrent use; separate
// instances share nothing.
type Controller struct {
	def     model.FormDefinition
	schema  *validation.Schema
	handler submit.Handler
	seed    model.Values

	initial model.Values
	values  model.Values
	touched model.Touched
	errors  model.Errors
}

// New validates def, compiles its schema unless one is supplied, and returns
// a controller with empty (or seeded) values.
func New(def model.FormDefinition, opts ...Option) (*Controller, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("formstate: %w", err)
	}

	c := &Controller{def: def.Clone()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.schema == nil {
		schema, err := validation.Compile(c.def)
		if err != nil {
			return nil, fmt.Errorf("formstate: %w", err)
		}
		c.schema = schema
	}

	initial := make(model.Values, len(c.def.Fields))
	for _, field := range c.def.Fields {
		initial[field.Name] = field.EmptyValue()
	}
	for name, value := range c.seed {
		field, ok := c.def.Field(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
		}
		normalized, err := normalize(field, value)
		if err != nil {
			return nil, err
		}
		initial[name] = normalized
	}
	c.initial = initial

	c.Reset()
	return c, nil
}

// Definition returns a copy of the field registry.
func (c *Controller) Definition() model.FormDefinition {
	return c.def.Clone()
}

// SetValue replaces the value of a field, marks it touched and re-derives
// errors. Text, select and radio fields take a string; multi-choice fields
// take a []string (duplicates are dropped, first occurrence wins).
func (c *Controller) SetValue(name string, value any) error {
	field, ok := c.def.Field(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	normalized, err := normalize(field, value)
	if err != nil {
		return err
	}
	c.values[name] = normalized
	c.touched[name] = true
	c.revalidate()
	return nil
}

// Toggle flips membership of option in a multi-choice field: absent options
// are appended, present ones removed. The field is marked touched.
func (c *Controller) Toggle(name, option string) error {
	field, ok := c.def.Field(name)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	if !field.Kind.IsMulti() {
		return fmt.Errorf("%w %q", ErrNotMultiChoice, name)
	}

	current := c.values.Strings(name)
	next := make([]string, 0, len(current)+1)
	removed := false
	for _, item := range current {
		if item == option {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		next = append(next, option)
	}

	c.values[name] = next
	c.touched[name] = true
	c.revalidate()
	return nil
}

// Touch marks a field as interacted with (blur) without changing its value,
// which makes an existing error visible.
func (c *Controller) Touch(name string) error {
	if _, ok := c.def.Field(name); !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	c.touched[name] = true
	return nil
}

// Submit re-runs the schema over all values. With errors present every field
// is marked touched and the handler is not called. Otherwise the handler
// receives a snapshot; state is left as-is either way.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.revalidate()
	snapshot := model.NewSnapshot(c.def, c.values)

	if len(c.errors) > 0 {
		for _, field := range c.def.Fields {
			c.touched[field.Name] = true
		}
		return Result{Errors: c.errors.Clone(), Snapshot: snapshot}, nil
	}

	if c.handler != nil {
		if err := c.handler.Submit(ctx, snapshot); err != nil {
			return Result{Errors: model.Errors{}, Snapshot: snapshot}, fmt.Errorf("formstate: submit handler: %w", err)
		}
	}
	return Result{Submitted: true, Errors: model.Errors{}, Snapshot: snapshot}, nil
}

// Reset restores the initial values and clears touched flags. Submit never
// calls it.
func (c *Controller) Reset() {
	c.values = c.initial.Clone()
	c.touched = make(model.Touched, len(c.def.Fields))
	c.revalidate()
}

// Values returns a copy of the current values.
func (c *Controller) Values() model.Values {
	return c.values.Clone()
}

// Errors returns a copy of the derived errors, visible or not.
func (c *Controller) Errors() model.Errors {
	return c.errors.Clone()
}

// Touched returns a copy of the touched flags.
func (c *Controller) Touched() model.Touched {
	return c.touched.Clone()
}

// IsTouched reports whether name has been interacted with.
func (c *Controller) IsTouched(name string) bool {
	return c.touched[name]
}

// Valid reports whether no field currently has an error.
func (c *Controller) Valid() bool {
	return len(c.errors) == 0
}

// VisibleError returns the error of name only once the field is touched.
func (c *Controller) VisibleError(name string) string {
	if !c.touched[name] {
		return ""
	}
	return c.errors[name]
}

// Snapshot captures the current values in definition order.
func (c *Controller) Snapshot() model.Snapshot {
	return model.NewSnapshot(c.def, c.values)
}

func (c *Controller) revalidate() {
	c.errors = c.schema.Validate(c.values)
}

func normalize(field model.FieldDefinition, value any) (any, error) {
	if field.Kind.IsMulti() {
		if value == nil {
			return []string{}, nil
		}
		items, ok := model.StringSet(value)
		if !ok {
			return nil, fmt.Errorf("%w for %q: expected a list of strings, got %T", ErrInvalidValue, field.Name, value)
		}
		return dedupe(items), nil
	}

	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	default:
		return nil, fmt.Errorf("%w for %q: expected a string, got %T", ErrInvalidValue, field.Name, value)
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, exists := seen[item]; exists {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
