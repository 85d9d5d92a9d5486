package config

import (
	"github.com/m-mizutani/goerr/v2"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-profileform/pkg/renderers/vanilla"
)

const defaultThemeName = "profileform"

// Enabled reports whether any theme tokens were configured.
func (t Theme) Enabled() bool {
	return len(t.Tokens) > 0 || len(t.Variants) > 0
}

// Manifest converts the configured tokens into a go-theme manifest.
func (t Theme) Manifest() *theme.Manifest {
	name := t.Name
	if name == "" {
		name = defaultThemeName
	}
	manifest := &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  copyTokens(t.Tokens),
	}
	if len(t.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(t.Variants))
		for key, tokens := range t.Variants {
			manifest.Variants[key] = theme.Variant{Tokens: copyTokens(tokens)}
		}
	}
	return manifest
}

// RendererConfig registers the manifest and resolves the selected variant
// into the HTML renderer configuration. It returns nil when no theme is
// configured.
func (t Theme) RendererConfig() (*theme.RendererConfig, error) {
	if !t.Enabled() {
		return nil, nil
	}
	manifest := t.Manifest()
	if err := theme.NewRegistry().Register(manifest); err != nil {
		return nil, goerr.Wrap(err, "invalid theme", goerr.V("theme", manifest.Name))
	}
	return vanilla.ThemeFromManifest(manifest, t.Variant), nil
}

func copyTokens(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
