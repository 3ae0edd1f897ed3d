package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/salarygo/config"
	"github.com/YuminosukeSato/salarygo/pkg/log"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootOptions is shared by every subcommand. cfg and logger are filled in
// by PersistentPreRunE before a subcommand runs.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger log.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "salary",
		Short: "Salary prediction: training job and inference service",
		Long: `salary fits a linear regression on Age, Gender, Education Level,
Job Title and Years of Experience, and serves the fitted pipeline over HTTP.

Settings come from the built-in defaults, then --config, then command flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the config file)")

	cmd.AddCommand(newTrainCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newPredictCmd(opts))
	return cmd
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}
