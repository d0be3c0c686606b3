package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/inspect"
	"github.com/vango-dev/elemkit/inspect/server"
	"github.com/vango-dev/elemkit/instrument"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		port    int
		host    string
		tracing bool
		store   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspector server",
		Long: `Start the inspector HTTP server.

Clients open sessions by posting a scenario to /sessions, apply steps
with POST /sessions/{id}/steps and follow the results on the
/sessions/{id}/ws websocket.

Examples:
  elemkit serve
  elemkit serve --port=8080 --tracing
  elemkit serve --host=0.0.0.0 --store`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if tracing {
				cfg.Server.Tracing = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			metrics := instrument.NewMetrics()
			elem.SetObserver(metrics)
			defer elem.SetObserver(nil)

			config := server.Config{
				Addr: cfg.ServerAddress(),
				Runner: inspect.NewRunner(
					inspect.WithLogger(logger),
					inspect.WithRecorder(metrics),
					inspect.WithTransitionOptions(cfg.TransitionOptions()),
				),
				Metrics:      metrics,
				MetricsPath:  cfg.MetricsPath(),
				Tracing:      cfg.Server.Tracing,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Logger:       logger,
			}
			if store {
				config.Store, err = inspect.OpenStore(cfg.SnapshotDestination(), cfg.Snapshots.S3.Region, cfg.Snapshots.S3.Endpoint)
				if err != nil {
					return err
				}
			}

			printBanner()
			fmt.Fprintf(cmd.OutOrStdout(), "  inspector  %s\n", cfg.ServerURL())
			if p := cfg.MetricsPath(); p != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  metrics    %s%s\n", cfg.ServerURL(), p)
			}
			fmt.Fprintln(cmd.OutOrStdout())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(config).ListenAndServe(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Enable OpenTelemetry request spans")
	cmd.Flags().BoolVar(&store, "store", false, "Enable POST /sessions/{id}/snapshots using the snapshots config")

	return cmd
}
