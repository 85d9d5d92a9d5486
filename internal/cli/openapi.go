package cli

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/pkg/openapi"
)

func cmdOpenAPI() *cli.Command {
	var (
		appCfg     config.App
		output     string
		serverURL  string
		submitPath string
	)

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file; stdout when empty",
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "server-url",
			Usage:       "Server URL advertised in the document",
			Destination: &serverURL,
		},
		&cli.StringFlag{
			Name:        "submit-path",
			Usage:       "Path of the JSON submit operation",
			Value:       openapi.DefaultSubmitPath,
			Destination: &submitPath,
		},
	)

	return &cli.Command{
		Name:  "openapi",
		Usage: "Print the OpenAPI description of the submit endpoints",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(c); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}
			p, err := newPipeline(ctx, c, &appCfg, nil)
			if err != nil {
				return err
			}

			opts := []openapi.Option{openapi.WithSubmitPath(submitPath)}
			if serverURL != "" {
				opts = append(opts, openapi.WithServerURL(serverURL))
			}
			if version := c.Root().Version; version != "" {
				opts = append(opts, openapi.WithVersion(version))
			}
			doc, err := openapi.Build(p.def, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to build openapi document")
			}
			if err := openapi.Validate(ctx, doc); err != nil {
				return goerr.Wrap(err, "generated document is invalid")
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal openapi document")
			}
			return writeOutput(c, output, append(data, '\n'))
		},
	}
}
