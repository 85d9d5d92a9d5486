package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/pkg/render"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla"
)

func cmdRender() *cli.Command {
	var (
		appCfg     config.App
		renderer   string
		output     string
		action     string
		method     string
		valuesPath string
		stylesheet string
	)

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "renderer",
			Aliases:     []string{"r"},
			Usage:       "Renderer name (html, tui)",
			Value:       vanilla.Name,
			Destination: &renderer,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file; stdout when empty",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "action",
			Usage:       "Form action URL",
			Destination: &action,
		},
		&cli.StringFlag{
			Name:        "method",
			Usage:       "Form method",
			Value:       "post",
			Destination: &method,
		},
		&cli.StringFlag{
			Name:        "values",
			Usage:       "Prefill values from a JSON or YAML file; errors are shown for every field",
			Destination: &valuesPath,
		},
		&cli.StringFlag{
			Name:        "stylesheet",
			Usage:       "Link an external stylesheet instead of inlining the default styles",
			Destination: &stylesheet,
		},
	)

	return &cli.Command{
		Name:    "render",
		Aliases: []string{"r"},
		Usage:   "Render the form once and write the output",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(c); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}

			var html []vanilla.Option
			if stylesheet != "" {
				html = append(html, vanilla.WithStylesheet(stylesheet), vanilla.WithInlineStyles(false))
			}
			p, err := newPipeline(ctx, c, &appCfg, html)
			if err != nil {
				return err
			}
			ctrl, err := p.orch.ControllerFor(p.def, nil)
			if err != nil {
				return goerr.Wrap(err, "failed to create controller")
			}
			if valuesPath != "" {
				values, err := readValues(valuesPath)
				if err != nil {
					return err
				}
				if err := applyValues(ctrl, values); err != nil {
					return err
				}
			}

			data, err := p.orch.Render(ctx, ctrl.View(), renderer, render.RenderOptions{
				Action: action,
				Method: method,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to render form", goerr.V("renderer", renderer))
			}
			return writeOutput(c, output, data)
		},
	}
}
