package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meganhong98/demand-forecasting/internal/config"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	configFile string
	logLevel   string
	dataDir    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Retail demand-forecasting feature pipeline",
		Long: `featurize reads raw transaction, customer and article tables, derives
temporal, demographic and popularity features, and writes the enriched
tables plus a per-date, per-product-group table for model training.

Configuration comes from defaults, FEATURES_* environment variables and an
optional YAML file, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default featurize.yaml or configs/featurize.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory holding the raw, processed, images and models directories")

	cmd.AddCommand(
		newRunCmd(opts),
		newParamsCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig loads the configuration and applies the global flag overrides
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.dataDir != "" {
		cfg.Paths.DataDir = o.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}
