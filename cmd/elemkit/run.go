package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/elemkit/inspect"
	"github.com/vango-dev/elemkit/internal/errors"
)

type runOptions struct {
	out        string
	format     string
	noSave     bool
	showMarkup bool
	quiet      bool
}

func runCmd(g *globals) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run <scenario>...",
		Short: "Run scenarios and write snapshots",
		Long: `Run renders each scenario into an in-memory document, applies its
steps and writes the final snapshot.

Snapshots go to the directory or s3://bucket/prefix given by --out,
or to the snapshots section of the config file.

Examples:
  elemkit run scenarios/toggle.yaml
  elemkit run scenarios/*.json --format yaml --markup
  elemkit run login.yaml --out s3://ci-snapshots/nightly`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.setup()
			if err != nil {
				return err
			}
			if opts.out == "" {
				opts.out = cfg.SnapshotDestination()
			}
			if opts.format == "" {
				opts.format = cfg.Snapshots.Format
			}

			var store inspect.Store
			if !opts.noSave {
				store, err = inspect.OpenStore(opts.out, cfg.Snapshots.S3.Region, cfg.Snapshots.S3.Endpoint)
				if err != nil {
					return err
				}
			}

			runner := inspect.NewRunner(
				inspect.WithLogger(logger),
				inspect.WithTransitionOptions(cfg.TransitionOptions()),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runScenarios(ctx, cmd.OutOrStdout(), logger, runner, store, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Snapshot destination directory or s3://bucket/prefix")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Snapshot format: json, yaml or msgpack")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Do not write snapshots")
	cmd.Flags().BoolVarP(&opts.showMarkup, "markup", "m", false, "Print the final markup")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print failing scenarios")

	return cmd
}

// runScenarios runs each scenario file in order. A scenario that fails to
// load or run does not stop the others; the returned error counts them.
func runScenarios(ctx context.Context, w io.Writer, logger *slog.Logger, runner *inspect.Runner, store inspect.Store, paths []string, opts runOptions) error {
	switch opts.format {
	case "", "json", "yaml", "msgpack":
	default:
		return errors.New("E301").WithDetailf("snapshot format %q", opts.format)
	}
	ext := "." + opts.format
	if opts.format == "" {
		ext = ".json"
	}

	failed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		sc, err := inspect.Load(path)
		if err != nil {
			failed++
			fmt.Fprintln(w, renderLoadError(path, err))
			continue
		}

		snap, err := runner.Run(ctx, sc)
		if snap == nil {
			failed++
			fmt.Fprintln(w, renderLoadError(path, err))
			continue
		}
		if err != nil {
			failed++
		}
		if err != nil || !opts.quiet {
			fmt.Fprintln(w, renderReport(snap, opts.showMarkup))
		}

		if store != nil {
			name := sc.Name + ext
			if err := store.Put(ctx, name, snap); err != nil {
				return err
			}
			logger.Info("snapshot written", "scenario", sc.Name, "name", name, "dest", opts.out)
		}
	}

	fmt.Fprintln(w, renderSummary(len(paths), failed))
	if failed > 0 {
		return errors.New("E303").WithDetailf("%d of %d scenarios failed", failed, len(paths))
	}
	return nil
}
