package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/salarygo/config"
	"github.com/YuminosukeSato/salarygo/trainer"
)

type trainFlags struct {
	data     string
	sqlite   string
	table    string
	model    string
	plot     string
	testSize float64
	seed     uint64
}

func newTrainCmd(root *rootOptions) *cobra.Command {
	var flags trainFlags
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the pipeline, print held-out RMSE and R2, save the artifact",
		Long: `Loads the labeled table, drops rows without a Salary, splits it 80/20
with a fixed seed, fits imputation + encoding + linear regression on the
training rows and prints RMSE and R2 on the held-out rows. The fitted
pipeline is then written to --model.

Usage:
  salary train                                    # Salary_Data.csv in the working directory
  salary train --data data/salaries.csv --plot holdout.png
  salary train --sqlite salaries.db --table salaries`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			flags.apply(cmd.Flags(), &cfg.Train)
			if err := cfg.Validate(); err != nil {
				return err
			}
			_, err := trainer.Run(cmd.Context(), cfg.Train.Trainer(),
				trainer.WithLogger(root.logger),
				trainer.WithOutput(cmd.OutOrStdout()),
			)
			return err
		},
	}

	def := config.Default().Train
	f := cmd.Flags()
	f.StringVar(&flags.data, "data", def.Data, "Labeled CSV file")
	f.StringVar(&flags.sqlite, "sqlite", "", "Read the labeled table from this SQLite database instead of --data")
	f.StringVar(&flags.table, "table", "", "Table name inside --sqlite")
	f.StringVar(&flags.model, "model", def.Model, "Artifact output path")
	f.StringVar(&flags.plot, "plot", "", "Write a predicted-vs-actual PNG of the held-out rows")
	f.Float64Var(&flags.testSize, "test-size", def.TestSize, "Held-out fraction")
	f.Uint64Var(&flags.seed, "seed", def.Seed, "Shuffle seed")
	return cmd
}

// apply overrides dst with the flags given on the command line.
func (t *trainFlags) apply(fs *pflag.FlagSet, dst *config.TrainConfig) {
	if fs.Changed("data") {
		dst.Data = t.data
	}
	if fs.Changed("sqlite") {
		dst.SQLite = t.sqlite
	}
	if fs.Changed("table") {
		dst.Table = t.table
	}
	if fs.Changed("model") {
		dst.Model = t.model
	}
	if fs.Changed("plot") {
		dst.Plot = t.plot
	}
	if fs.Changed("test-size") {
		dst.TestSize = t.testSize
	}
	if fs.Changed("seed") {
		dst.Seed = t.seed
	}
}
