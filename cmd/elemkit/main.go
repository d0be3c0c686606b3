package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/elemkit/elem"
	"github.com/vango-dev/elemkit/internal/config"
	"github.com/vango-dev/elemkit/internal/errors"
	"github.com/vango-dev/elemkit/widget"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬  ┌─┐┌┬┐┬┌─┬┌┬┐
  ├┤ │  ├┤ │││├┴┐│ │
  └─┘┴─┘└─┘┴ ┴┴ ┴┴ ┴
`

// globals holds the persistent flags.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
}

func main() {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "elemkit",
		Short: "Run and inspect element tree scenarios",
		Long: `elemkit drives the element engine from scripted scenarios.

A scenario is a node description plus a list of steps, written
in JSON, YAML or msgpack. Use:

  • run    to render scenarios and write snapshots
  • serve  to open scenarios interactively over HTTP and websockets`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: elemkit.json or elemkit.yaml in the nearest parent)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		runCmd(g),
		serveCmd(g),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads and validates the configuration, applies flag overrides and
// installs the logger.
func (g *globals) setup() (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	elem.SetLogger(logger)
	widget.SetLogger(logger)

	if cfg.Path() != "" {
		logger.Debug("config loaded", "path", cfg.Path())
	}
	return cfg, logger, nil
}

// printBanner prints the elemkit banner.
func printBanner() {
	fmt.Print(banner)
}
