package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/pkg/submit"
)

// App is the configuration of the serve and prompt commands. Values come
// from an optional TOML file; flags and PROFILEFORM_* variables override it.
type App struct {
	Addr       string `toml:"addr"`
	Definition string `toml:"definition"`
	Preset     string `toml:"preset"`
	AckFormat  string `toml:"ack_format"`
	Theme      Theme  `toml:"theme"`

	configPath string
}

// Theme configures the HTML renderer's go-theme manifest.
type Theme struct {
	Name     string                       `toml:"name"`
	Variant  string                       `toml:"variant"`
	Tokens   map[string]string            `toml:"tokens"`
	Variants map[string]map[string]string `toml:"variants"`
}

// Flags returns the CLI flags bound to a.
func (a *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to a TOML configuration file",
			Sources:     cli.EnvVars("PROFILEFORM_CONFIG"),
			Destination: &a.configPath,
		},
		&cli.StringFlag{
			Name:        "definition",
			Aliases:     []string{"d"},
			Usage:       "Form definition file (yaml, json, toml); defaults to the built-in profile",
			Sources:     cli.EnvVars("PROFILEFORM_DEFINITION"),
			Destination: &a.Definition,
		},
		&cli.StringFlag{
			Name:        "preset",
			Usage:       "Copy overrides applied to the definition (json, yaml)",
			Sources:     cli.EnvVars("PROFILEFORM_PRESET"),
			Destination: &a.Preset,
		},
		&cli.StringFlag{
			Name:        "ack-format",
			Usage:       "Acknowledgment format (json, form, pretty)",
			Value:       string(submit.FormatJSON),
			Sources:     cli.EnvVars("PROFILEFORM_ACK_FORMAT"),
			Destination: &a.AckFormat,
		},
		&cli.StringFlag{
			Name:        "theme-variant",
			Usage:       "Theme variant declared in the configuration file",
			Sources:     cli.EnvVars("PROFILEFORM_THEME_VARIANT"),
			Destination: &a.Theme.Variant,
		},
	}
}

// AddrFlag returns the listen address flag of the serve command.
func (a *App) AddrFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "addr",
		Usage:       "HTTP server address",
		Value:       ":8080",
		Sources:     cli.EnvVars("PROFILEFORM_ADDR"),
		Destination: &a.Addr,
	}
}

// Configure merges the configuration file under explicitly set flags and
// validates the result.
func (a *App) Configure(c *cli.Command) error {
	if a.configPath != "" {
		file, err := LoadApp(a.configPath)
		if err != nil {
			return err
		}
		a.mergeFile(c, file)
	}
	return a.Validate()
}

func (a *App) mergeFile(c *cli.Command, file *App) {
	keep := func(flag string, dst *string, value string) {
		if value != "" && !c.IsSet(flag) {
			*dst = value
		}
	}
	keep("addr", &a.Addr, file.Addr)
	keep("definition", &a.Definition, file.Definition)
	keep("preset", &a.Preset, file.Preset)
	keep("ack-format", &a.AckFormat, file.AckFormat)
	keep("theme-variant", &a.Theme.Variant, file.Theme.Variant)
	a.Theme.Name = file.Theme.Name
	a.Theme.Tokens = file.Theme.Tokens
	a.Theme.Variants = file.Theme.Variants
}

// Validate checks the merged configuration.
func (a *App) Validate() error {
	if _, err := submit.ParseFormat(a.AckFormat); err != nil {
		return goerr.Wrap(err, "invalid acknowledgment format", goerr.V("ack_format", a.AckFormat))
	}
	if a.Theme.Variant != "" {
		if _, ok := a.Theme.Variants[a.Theme.Variant]; !ok {
			return goerr.New("unknown theme variant", goerr.V("variant", a.Theme.Variant))
		}
	}
	for key := range a.Theme.Tokens {
		if strings.ContainsAny(key, " ;:{}") {
			return goerr.New("invalid theme token name", goerr.V("token", key))
		}
	}
	return nil
}

// LoadApp reads a TOML configuration file.
func LoadApp(path string) (*App, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var app App
	if err := toml.Unmarshal(data, &app); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}
	return &app, nil
}
