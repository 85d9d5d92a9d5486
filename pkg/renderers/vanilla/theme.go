package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

type rendererTheme struct {
	Name         string
	Variant      string
	Partials     map[string]string
	CSSVars      map[string]string
	CSSVarsStyle string
}

func buildThemeContext(cfg *theme.RendererConfig) rendererTheme {
	if cfg == nil {
		return rendererTheme{}
	}
	ctx := rendererTheme{
		Name:     cfg.Theme,
		Variant:  cfg.Variant,
		Partials: copyStringMap(cfg.Partials),
		CSSVars:  copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

// ThemeFromManifest resolves a manifest and optional variant into the
// renderer configuration accepted by WithTheme. Variant tokens and templates
// override the base ones; every token is exposed as a "--pf-<token>" CSS
// variable.
func ThemeFromManifest(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}

	tokens := copyStringMap(manifest.Tokens)
	partials := copyStringMap(manifest.Templates)
	files := copyStringMap(manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if selected, ok := manifest.Variants[variant]; ok {
		tokens = mergeStringMaps(tokens, selected.Tokens)
		partials = mergeStringMaps(partials, selected.Templates)
		files = mergeStringMaps(files, selected.Assets.Files)
		if selected.Assets.Prefix != "" {
			prefix = selected.Assets.Prefix
		}
	} else {
		variant = ""
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--pf-"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	clean := strings.NewReplacer("<", "", ">", "", "{", "", "}", "", ";", "")
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(clean.Replace(key))
		b.WriteString(": ")
		b.WriteString(clean.Replace(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func mergeStringMaps(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	out := copyStringMap(base)
	if out == nil {
		out = make(map[string]string, len(overlay))
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}
