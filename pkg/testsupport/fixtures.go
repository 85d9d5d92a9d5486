// Package testsupport holds helpers shared by package tests: profile
// controllers in known states, golden file access and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/profile"
)

// ValidProfile returns values that satisfy every profile rule.
func ValidProfile() model.Values {
	return model.Values{
		profile.FieldName:    "Alice",
		profile.FieldAddress: "1 Main St",
		profile.FieldCountry: "usa",
		profile.FieldGender:  "female",
		profile.FieldHobbies: []string{"reading"},
	}
}

// NewProfileController builds a controller over the profile definition.
func NewProfileController(t *testing.T, opts ...formstate.Option) *formstate.Controller {
	t.Helper()

	ctrl, err := formstate.New(profile.Definition(), opts...)
	if err != nil {
		t.Fatalf("new profile controller: %v", err)
	}
	return ctrl
}

// Fill applies values through SetValue in definition order so every field
// ends up touched.
func Fill(t *testing.T, ctrl *formstate.Controller, values model.Values) {
	t.Helper()

	for _, name := range ctrl.Definition().Names() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := ctrl.SetValue(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
