package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/internal/logging"
	"github.com/goliatone/go-profileform/pkg/formstate"
	"github.com/goliatone/go-profileform/pkg/model"
	"github.com/goliatone/go-profileform/pkg/orchestrator"
	"github.com/goliatone/go-profileform/pkg/render"
	"github.com/goliatone/go-profileform/pkg/renderers/tui"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla"
	"github.com/goliatone/go-profileform/pkg/schema"
)

const definitionFetchTimeout = 30 * time.Second

// pipeline is the resolved definition plus the orchestrator that renders it.
type pipeline struct {
	orch *orchestrator.Orchestrator
	def  model.FormDefinition
}

// newPipeline loads the configured definition, applies the preset and
// registers the html renderer (themed when the configuration declares a
// theme) next to the terminal renderer.
func newPipeline(ctx context.Context, c *cli.Command, app *config.App, html []vanilla.Option, extra ...orchestrator.Option) (*pipeline, error) {
	logger := logging.Default()

	themeCfg, err := app.Theme.RendererConfig()
	if err != nil {
		return nil, err
	}
	if themeCfg != nil {
		html = append(html, vanilla.WithTheme(themeCfg))
	}
	htmlRenderer, err := vanilla.New(html...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create html renderer")
	}
	terminal, err := tui.New(tui.WithWriter(writer(c)), tui.WithLogger(logger))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create terminal renderer")
	}
	registry := render.NewRegistry()
	for _, r := range []render.Renderer{htmlRenderer, terminal} {
		if err := registry.Register(r); err != nil {
			return nil, goerr.Wrap(err, "failed to register renderer", goerr.V("renderer", r.Name()))
		}
	}

	opts := []orchestrator.Option{
		orchestrator.WithLoader(schema.New(
			schema.WithHTTPClient(&http.Client{}),
			schema.WithRequestTimeout(definitionFetchTimeout),
		)),
		orchestrator.WithRegistry(registry),
		orchestrator.WithLogger(logger),
	}
	if app.Preset != "" {
		dir, name := filepath.Split(app.Preset)
		if dir == "" {
			dir = "."
		}
		preset, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(dir), name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load preset", goerr.V("path", app.Preset))
		}
		opts = append(opts, orchestrator.WithTransformer(preset))
	}
	opts = append(opts, extra...)
	orch := orchestrator.New(opts...)

	var req orchestrator.Request
	if app.Definition != "" {
		src, err := definitionSource(app.Definition)
		if err != nil {
			return nil, err
		}
		req.Source = src
	}
	def, err := orch.Definition(ctx, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve form definition", goerr.V("definition", app.Definition))
	}

	logger.Debug("form definition ready", "form", def.ID, "fields", len(def.Fields))
	return &pipeline{orch: orch, def: def}, nil
}

func definitionSource(location string) (schema.Source, error) {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return schema.SourceFromURL(location)
	}
	return schema.SourceFromFile(location), nil
}

// readValues decodes a JSON or YAML document of field values.
func readValues(path string) (model.Values, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read values file", goerr.V("path", path))
	}

	var values map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	case ".json":
		err = json.Unmarshal(data, &values)
	default:
		return nil, goerr.New("unsupported values file, expected .json, .yaml or .yml", goerr.V("path", path))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse values file", goerr.V("path", path))
	}
	return model.Values(values), nil
}

// applyValues sets every provided value and touches the remaining fields so
// the controller reports the state of a full submission attempt.
func applyValues(ctrl *formstate.Controller, values model.Values) error {
	def := ctrl.Definition()
	for name := range values {
		if _, ok := def.Field(name); !ok {
			return goerr.New("unknown field in values", goerr.V("field", name))
		}
	}
	for _, field := range def.Fields {
		value, ok := values[field.Name]
		if !ok {
			if err := ctrl.Touch(field.Name); err != nil {
				return goerr.Wrap(err, "failed to touch field", goerr.V("field", field.Name))
			}
			continue
		}
		if err := ctrl.SetValue(field.Name, value); err != nil {
			return goerr.Wrap(err, "invalid value", goerr.V("field", field.Name))
		}
	}
	return nil
}

func writer(c *cli.Command) io.Writer {
	if root := c.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// writeOutput writes data to path, or to the command writer when path is
// empty or "-".
func writeOutput(c *cli.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := writer(c).Write(data); err != nil {
			return goerr.Wrap(err, "failed to write output")
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
	}
	logging.Default().Info("output written", "path", path, "bytes", len(data))
	return nil
}
