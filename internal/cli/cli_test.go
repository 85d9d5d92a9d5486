package cli_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/goliatone/go-profileform/internal/cli"
	"github.com/goliatone/go-profileform/internal/logging"
)

func run(t *testing.T, args ...string) error {
	t.Helper()

	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	return cli.Run(context.Background(), append([]string{"profileform", "--log-level", "error"}, args...), "test")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	gt.NoError(t, err).Required()
	return string(data)
}

func TestRun_RenderHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "form.html")

	gt.NoError(t, run(t, "render", "--output", out, "--action", "/profile")).Required()

	html := readFile(t, out)
	gt.Bool(t, strings.Contains(html, `class="pf-form"`)).True()
	gt.Bool(t, strings.Contains(html, `action="/profile"`)).True()
	gt.Bool(t, strings.Contains(html, "<h1 class=\"pf-header\">Profile</h1>")).True()
	gt.Bool(t, strings.Contains(html, `aria-invalid="true"`)).False()
}

func TestRun_RenderTerminalSummary(t *testing.T) {
	out := filepath.Join(t.TempDir(), "form.txt")

	gt.NoError(t, run(t, "render", "--renderer", "tui", "--output", out)).Required()

	text := readFile(t, out)
	gt.Bool(t, strings.HasPrefix(text, "Profile\n")).True()
	gt.Bool(t, strings.Contains(text, "Hobbies")).True()
}

func TestRun_RenderWithValuesShowsErrors(t *testing.T) {
	values := writeFile(t, "values.yaml", "name: Alice\nhobbies: []\n")
	out := filepath.Join(t.TempDir(), "form.html")

	gt.NoError(t, run(t, "render", "--values", values, "--output", out)).Required()

	html := readFile(t, out)
	gt.Bool(t, strings.Contains(html, `value="Alice"`)).True()
	gt.Bool(t, strings.Contains(html, "Select at least one hobby")).True()
}

func TestRun_RenderWithPresetAndDefinition(t *testing.T) {
	preset := writeFile(t, "preset.yaml", `
title: Member profile
fields:
  name:
    label: Full name
`)
	out := filepath.Join(t.TempDir(), "form.html")

	err := run(t, "render",
		"--definition", filepath.Join("..", "..", "pkg", "schema", "testdata", "profile.yaml"),
		"--preset", preset,
		"--output", out,
	)
	gt.NoError(t, err).Required()

	html := readFile(t, out)
	gt.Bool(t, strings.Contains(html, "Member profile")).True()
	gt.Bool(t, strings.Contains(html, "Full name")).True()
}

func TestRun_RenderThemeFromConfig(t *testing.T) {
	cfg := writeFile(t, "profileform.toml", `
[theme]
name = "acme"
variant = "dark"

[theme.tokens]
accent = "#3366ff"

[theme.variants.dark]
accent = "#88aaff"
`)
	out := filepath.Join(t.TempDir(), "form.html")

	gt.NoError(t, run(t, "render", "--config", cfg, "--output", out)).Required()

	html := readFile(t, out)
	gt.Bool(t, strings.Contains(html, `data-theme="acme"`)).True()
	gt.Bool(t, strings.Contains(html, "#88aaff")).True()
}

func TestRun_ValidateDefinitionOnly(t *testing.T) {
	gt.NoError(t, run(t, "validate"))
}

func TestRun_ValidateValues(t *testing.T) {
	valid := writeFile(t, "valid.json", `{
  "name": "Alice",
  "address": "1 Main St",
  "country": "usa",
  "gender": "female",
  "hobbies": ["reading", "music"]
}`)
	gt.NoError(t, run(t, "validate", "--values", valid))

	invalid := writeFile(t, "invalid.yaml", "name: Alice\ncountry: usa\n")
	err := run(t, "validate", "--values", invalid)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, cli.ErrInvalidValues)).True()
}

func TestRun_ValidateRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown field":  `{"nickname": "al"}`,
		"wrong type":     `{"hobbies": "reading"}`,
		"malformed json": `{"name":`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "values.json", content)
			err := run(t, "validate", "--values", path)
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, cli.ErrInvalidValues)).False()
		})
	}

	gt.Error(t, run(t, "validate", "--values", writeFile(t, "values.txt", "name=Alice")))
}

func TestRun_InvalidConfiguration(t *testing.T) {
	gt.Error(t, run(t, "validate", "--ack-format", "xml"))
	gt.Error(t, run(t, "validate", "--definition", filepath.Join(t.TempDir(), "missing.yaml")))
	gt.Error(t, run(t, "render", "--renderer", "pdf", "--output", filepath.Join(t.TempDir(), "x")))
	gt.Error(t, run(t, "--log-level", "loud", "validate"))
}

func TestRun_OpenAPI(t *testing.T) {
	out := filepath.Join(t.TempDir(), "openapi.json")

	err := run(t, "openapi",
		"--output", out,
		"--submit-path", "/api/profile",
		"--server-url", "https://forms.example.com",
	)
	gt.NoError(t, err).Required()

	var doc struct {
		OpenAPI string `json:"openapi"`
		Info    struct {
			Version string `json:"version"`
		} `json:"info"`
		Servers []struct {
			URL string `json:"url"`
		} `json:"servers"`
		Paths map[string]any `json:"paths"`
	}
	gt.NoError(t, json.Unmarshal([]byte(readFile(t, out)), &doc)).Required()
	gt.Value(t, doc.OpenAPI).Equal("3.0.3")
	gt.Value(t, doc.Info.Version).Equal("test")
	gt.Value(t, len(doc.Servers)).Equal(1)
	gt.Value(t, doc.Servers[0].URL).Equal("https://forms.example.com")
	_, ok := doc.Paths["/api/profile"]
	gt.Bool(t, ok).True()
}
