// Package cli defines the faves command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

// NewRootCommand creates the root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "faves",
		Short:         "Regulatory compliance classification for small-molecule structures",
		Long:          "faves classifies SMILES structures against whitelist, controlled-substance and scaffold-pattern reference data.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (defaults to environment variables)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format override (json|console)")

	cmd.AddCommand(
		newClassifyCmd(opts),
		newServeCmd(opts),
		newBenchCmd(opts),
		newMigrateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadEnvironment resolves config and builds the logger, applying the global
// flag overrides.
func loadEnvironment(opts *RootOptions) (*config.Config, logging.Logger, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, nil, err
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	logging.SetDefault(logger)
	return cfg, logger, nil
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
