package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/config"
	logpkg "github.com/kailas-cloud/bioquery/internal/logger"
	"github.com/kailas-cloud/bioquery/internal/version"
)

// rootOptions holds the global flags.
type rootOptions struct {
	env        string
	configPath string
	logLevel   string
}

// app carries the loaded configuration and logger to subcommands.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:           "bioquery",
		Short:         "Taxonomic-distance equivalence queries over a Redis document store",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(opts)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.env, "env", "", "environment name, selects config/<env>.yaml (default: $ENV or local)")
	flags.StringVar(&opts.configPath, "config", "", "explicit config file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCommand(a),
		newIndexCommand(a),
		newTaxonCommand(a),
		newProteinCommand(a),
	)
	return cmd
}

// init loads .env, then the config file, then builds the logger.
func (a *app) init(opts *rootOptions) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	a.env = opts.env
	if a.env == "" {
		a.env = config.GetEnv()
	}

	var err error
	if opts.configPath != "" {
		a.cfg, err = config.LoadFile(opts.configPath)
	} else {
		a.cfg, err = config.Load(a.env)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := a.cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	a.logger, err = logpkg.NewLogger(a.env, level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	return nil
}
