package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/internal/logging"
)

// ErrInvalidValues is returned by the validate command when the values file
// fails at least one rule.
var ErrInvalidValues = goerr.New("values failed validation")

func cmdValidate() *cli.Command {
	var appCfg config.App
	var valuesPath string

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "values",
		Usage:       "JSON or YAML file of field values to check against the form rules",
		Destination: &valuesPath,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the form definition and optionally a set of values",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if err := appCfg.Configure(c); err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			p, err := newPipeline(ctx, c, &appCfg, nil)
			if err != nil {
				return err
			}
			logger.Info("Definition validation passed",
				"form", p.def.ID,
				"field_count", len(p.def.Fields),
			)

			if valuesPath == "" {
				return nil
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			ctrl, err := p.orch.ControllerFor(p.def, nil)
			if err != nil {
				return goerr.Wrap(err, "failed to create controller")
			}
			if err := applyValues(ctrl, values); err != nil {
				return err
			}

			errs := ctrl.Errors()
			out := writer(c)
			for _, name := range errs.Fields(p.def) {
				if _, err := fmt.Fprintf(out, "%s: %s\n", name, errs[name]); err != nil {
					return goerr.Wrap(err, "failed to write report")
				}
			}
			if len(errs) > 0 {
				return goerr.Wrap(ErrInvalidValues, "invalid values",
					goerr.V("path", valuesPath),
					goerr.V("errors", len(errs)),
				)
			}
			logger.Info("Values validation passed", "path", valuesPath)
			return nil
		},
	}
}
