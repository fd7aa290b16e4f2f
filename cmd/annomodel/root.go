package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pablor21/annomodel/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	workers    int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "annomodel",
		Short:         "Resolve enum-valued annotation parameters to their declaring types",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (defaults are embedded)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or none")
	cmd.PersistentFlags().IntVarP(&opts.workers, "workers", "w", 0, "resolution workers (overrides config)")

	cmd.AddCommand(newScanCmd(opts), newVersionCmd())
	return cmd
}

// loadConfig reads the config file, applies flag overrides and installs the logger.
func (o *rootOptions) loadConfig(stderr io.Writer) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if o.configPath != "" {
		loaded, err := config.LoadConfigFromFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.LogLevel = config.LogLevel(o.logLevel)
	}
	if o.workers > 0 {
		cfg.Resolution.Workers = o.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogger(cfg.LogLevel, stderr)
	return cfg, nil
}

func setupLogger(level config.LogLevel, w io.Writer) {
	lvl, enabled := level.SlogLevel()
	if !enabled {
		w = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}
