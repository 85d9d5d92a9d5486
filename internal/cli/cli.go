// Package cli wires the profileform commands: serve, prompt, render,
// validate and openapi.
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/internal/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "profileform",
		Usage:   "Profile form server, terminal prompt and renderer",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Debug("Starting profileform", "logger", loggerCfg, "version", version)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdPrompt(),
			cmdRender(),
			cmdValidate(),
			cmdOpenAPI(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
