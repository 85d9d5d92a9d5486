// Package openapi describes the submit boundary of a form definition as an
// OpenAPI 3 document built with kin-openapi. The request schema mirrors the
// field registry: strings for text and single-choice fields, string arrays
// for multi-choice fields, and the declared rules as schema constraints.
package openapi
