package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-profileform/internal/config"
	"github.com/goliatone/go-profileform/internal/logging"
	"github.com/goliatone/go-profileform/internal/server"
	"github.com/goliatone/go-profileform/pkg/renderers/vanilla"
	"github.com/goliatone/go-profileform/pkg/submit"
)

func cmdServe() *cli.Command {
	var appCfg config.App

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, appCfg.AddrFlag())

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the form over HTTP",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := appCfg.Configure(c); err != nil {
				return goerr.Wrap(err, "invalid configuration")
			}

			p, err := newPipeline(ctx, c, &appCfg, []vanilla.Option{
				vanilla.WithStylesheet(server.AssetsPrefix + "/" + vanilla.StylesheetName),
				vanilla.WithInlineStyles(false),
			})
			if err != nil {
				return err
			}

			format, err := submit.ParseFormat(appCfg.AckFormat)
			if err != nil {
				return goerr.Wrap(err, "invalid acknowledgment format")
			}
			ack := submit.NewAcknowledger(
				submit.WithFormat(format),
				submit.WithLogger(logging.Default()),
			)

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			srv, err := server.New(p.def,
				server.WithOrchestrator(p.orch),
				server.WithAcknowledger(ack),
				server.WithMetricsRegistry(registry),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create server")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logging.Default().Info("Serving form",
				"form", p.def.ID,
				"addr", appCfg.Addr,
				"ack_format", format,
				"theme", appCfg.Theme.Name,
			)
			return server.Serve(ctx, appCfg.Addr, srv)
		},
	}
}
