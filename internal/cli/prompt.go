package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/internal/logging"
	"github.com/goliatone/go-profileform/pkg/orchestrator"
	"github.com/goliatone/go-profileform/pkg/renderers/tui"
	"github.com/goliatone/go-profileform/pkg/submit"
)

func cmdPrompt() *cli.Command {
	var appCfg config.App
	var noConfirm bool

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "no-confirm",
		Usage:       "Submit without asking for confirmation",
		Destination: &noConfirm,
	})

	return &cli.Command{
		Name:    "prompt",
		Aliases: []string{"p"},
		Usage:   "Fill in the form interactively in the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(c); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}
			format, err := submit.ParseFormat(appCfg.AckFormat)
			if err != nil {
				return goerr.Wrap(err, "invalid acknowledgment format")
			}

			out := writer(c)
			ack := submit.NewAcknowledger(
				submit.WithWriter(out),
				submit.WithFormat(format),
				submit.WithLogger(logging.Default()),
			)
			p, err := newPipeline(ctx, c, &appCfg, nil, orchestrator.WithSubmitHandler(ack))
			if err != nil {
				return err
			}
			ctrl, err := p.orch.ControllerFor(p.def, nil)
			if err != nil {
				return goerr.Wrap(err, "failed to create controller")
			}

			terminal, err := tui.New(
				tui.WithWriter(out),
				tui.WithConfirmSubmit(!noConfirm),
				tui.WithLogger(logging.Default()),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create terminal renderer")
			}

			if _, err := terminal.Run(ctx, ctrl); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					logging.Default().Info("Submission cancelled", "form", p.def.ID)
					return nil
				}
				return goerr.Wrap(err, "prompt session failed", goerr.V("form", p.def.ID))
			}
			return nil
		},
	}
}
