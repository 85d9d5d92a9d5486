package openapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-profileform/pkg/model"
)

const (
	// DefaultSubmitPath is where JSON submissions are accepted.
	DefaultSubmitPath = "/submit"
	// DefaultFormPath is where the HTML form posts url-encoded submissions.
	DefaultFormPath = "/"

	// ExtensionOptions lists option values of choice fields whose membership
	// is not enforced.
	ExtensionOptions = "x-options"
	// ExtensionKind carries the field kind of each property.
	ExtensionKind = "x-field-kind"
)

// Option configures Build.
type Option func(*config)

type config struct {
	title      string
	version    string
	serverURL  string
	submitPath string
	formPath   string
}

// WithTitle sets info.title. Defaults to the form title.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = strings.TrimSpace(title)
	}
}

// WithVersion sets info.version. Defaults to "1.0.0".
func WithVersion(version string) Option {
	return func(c *config) {
		c.version = strings.TrimSpace(version)
	}
}

// WithServerURL adds a servers entry.
func WithServerURL(url string) Option {
	return func(c *config) {
		c.serverURL = strings.TrimSpace(url)
	}
}

// WithSubmitPath overrides the JSON submission path.
func WithSubmitPath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.submitPath = path
		}
	}
}

// WithFormPath overrides the url-encoded submission path. An empty path
// omits the operation.
func WithFormPath(path string) Option {
	return func(c *config) {
		c.formPath = path
	}
}

// Build returns an OpenAPI document describing the submission endpoints of
// def. The definition is validated first.
func Build(def model.FormDefinition, opts ...Option) (*openapi3.T, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("openapi: %w", err)
	}

	cfg := config{
		version:    "1.0.0",
		submitPath: DefaultSubmitPath,
		formPath:   DefaultFormPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.title == "" {
		cfg.title = def.Title
	}
	if cfg.title == "" {
		cfg.title = model.Humanize(def.ID)
	}

	names := schemaNames(def)
	components := componentSchemas{
		names:      names,
		submission: SubmissionSchema(def),
		errors:     errorsSchema(def),
	}
	components.receipt = receiptSchema(components)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   cfg.title,
			Version: cfg.version,
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				names.submission: openapi3.NewSchemaRef("", components.submission),
				names.errors:     openapi3.NewSchemaRef("", components.errors),
				names.receipt:    openapi3.NewSchemaRef("", components.receipt),
			},
		},
	}
	if cfg.serverURL != "" {
		doc.Servers = openapi3.Servers{{URL: cfg.serverURL}}
	}

	doc.AddOperation(cfg.submitPath, http.MethodPost, submitOperation(def, components))
	if cfg.formPath != "" {
		doc.AddOperation(cfg.formPath, http.MethodPost, formOperation(def, components))
	}
	return doc, nil
}

// Validate runs the kin-openapi document validation.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if doc == nil {
		return fmt.Errorf("openapi: document is nil")
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// SubmissionSchema derives the request body schema for def.
func SubmissionSchema(def model.FormDefinition) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = def.Title
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: boolPtr(false)}

	for _, field := range def.Fields {
		prop := fieldSchema(field)
		schema.WithProperty(field.Name, prop)
		if isRequired(field) {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema
}

func fieldSchema(field model.FieldDefinition) *openapi3.Schema {
	values := optionValues(field)
	enforced := hasRule(field, model.ValidationRuleOneOf)

	var schema *openapi3.Schema
	if field.Kind.IsMulti() {
		items := openapi3.NewStringSchema()
		if len(values) > 0 {
			items.WithEnum(values...)
		}
		schema = openapi3.NewArraySchema().WithItems(items)
		schema.UniqueItems = true
	} else {
		schema = openapi3.NewStringSchema()
		if len(values) > 0 && enforced {
			schema.WithEnum(values...)
		}
	}

	schema.Title = field.DisplayLabel()
	schema.Description = field.Description
	schema.Extensions = map[string]any{ExtensionKind: string(field.Kind)}
	if len(values) > 0 && !field.Kind.IsMulti() && !enforced {
		schema.Extensions[ExtensionOptions] = values
	}

	for _, rule := range field.Validations {
		applyRule(schema, field, rule)
	}
	return schema
}

func applyRule(schema *openapi3.Schema, field model.FieldDefinition, rule model.ValidationRule) {
	n, _ := strconv.Atoi(rule.Params["value"])
	switch rule.Kind {
	case model.ValidationRuleRequired:
		if field.Kind.IsMulti() {
			schema.WithMinItems(1)
		} else {
			schema.WithMinLength(1)
		}
	case model.ValidationRuleMinItems:
		if field.Kind.IsMulti() && n > 0 {
			schema.WithMinItems(int64(n))
		}
	case model.ValidationRuleMinLength:
		if !field.Kind.IsMulti() && n > 0 {
			schema.WithMinLength(int64(n))
		}
	case model.ValidationRuleMaxLength:
		if !field.Kind.IsMulti() && n > 0 {
			schema.WithMaxLength(int64(n))
		}
	case model.ValidationRulePattern:
		if pattern := rule.Params["pattern"]; pattern != "" && !field.Kind.IsMulti() {
			schema.WithPattern(pattern)
		}
	}
}

type componentNames struct {
	submission string
	errors     string
	receipt    string
}

func schemaNames(def model.FormDefinition) componentNames {
	base := strings.ReplaceAll(model.Humanize(def.ID), " ", "")
	return componentNames{
		submission: base + "Submission",
		errors:     base + "ValidationErrors",
		receipt:    base + "Receipt",
	}
}

// componentSchemas keeps the component values next to their names so refs
// carry a resolved value without a loader round trip.
type componentSchemas struct {
	names      componentNames
	submission *openapi3.Schema
	errors     *openapi3.Schema
	receipt    *openapi3.Schema
}

func (c componentSchemas) submissionRef() *openapi3.SchemaRef {
	return componentRef(c.names.submission, c.submission)
}

func (c componentSchemas) errorsRef() *openapi3.SchemaRef {
	return componentRef(c.names.errors, c.errors)
}

func (c componentSchemas) receiptRef() *openapi3.SchemaRef {
	return componentRef(c.names.receipt, c.receipt)
}

func componentRef(name string, value *openapi3.Schema) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, value)
}

func errorsSchema(def model.FormDefinition) *openapi3.Schema {
	messages := openapi3.NewObjectSchema()
	for _, field := range def.Fields {
		messages.WithProperty(field.Name, openapi3.NewStringSchema())
	}
	schema := openapi3.NewObjectSchema().WithProperty("errors", messages)
	schema.Required = []string{"errors"}
	return schema
}

func receiptSchema(components componentSchemas) *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("format", openapi3.NewStringSchema().WithEnum("json", "form", "pretty")).
		WithProperty("contentType", openapi3.NewStringSchema()).
		WithProperty("body", openapi3.NewStringSchema()).
		WithProperty("acceptedAt", openapi3.NewDateTimeSchema())
	schema.Properties["values"] = components.submissionRef()
	schema.Required = []string{"id", "body", "values"}
	return schema
}

func submitOperation(def model.FormDefinition, components componentSchemas) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submit" + strings.ReplaceAll(model.Humanize(def.ID), " ", "")
	op.Summary = "Submit " + strings.ToLower(def.Title)
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithJSONSchemaRef(components.submissionRef())),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Submission accepted").
				WithContent(openapi3.NewContentWithJSONSchemaRef(components.receiptRef())),
		}),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Malformed request body"),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Validation failed").
				WithContent(openapi3.NewContentWithJSONSchemaRef(components.errorsRef())),
		}),
	)
	return op
}

func formOperation(def model.FormDefinition, components componentSchemas) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "post" + strings.ReplaceAll(model.Humanize(def.ID), " ", "") + "Form"
	op.Summary = "Submit the HTML form"
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithFormDataSchemaRef(components.submissionRef()),
	}
	html := openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"})
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Acknowledgment page").WithContent(html),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Form with inline errors").WithContent(html),
		}),
	)
	return op
}

func optionValues(field model.FieldDefinition) []any {
	if len(field.Options) == 0 {
		return nil
	}
	values := make([]any, 0, len(field.Options))
	for _, opt := range field.Options {
		values = append(values, opt.Value)
	}
	return values
}

func isRequired(field model.FieldDefinition) bool {
	return hasRule(field, model.ValidationRuleRequired) || hasRule(field, model.ValidationRuleMinItems)
}

func hasRule(field model.FieldDefinition, kind string) bool {
	for _, rule := range field.Validations {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}

func boolPtr(v bool) *bool {
	return &v
}
