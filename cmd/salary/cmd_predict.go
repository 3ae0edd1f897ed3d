package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/salarygo/config"
	"github.com/YuminosukeSato/salarygo/pipeline"
)

type predictFlags struct {
	model      string
	age        float64
	gender     string
	education  string
	jobTitle   string
	experience float64
}

func newPredictCmd(root *rootOptions) *cobra.Command {
	var flags predictFlags
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict one salary with a saved artifact",
		Long: `Runs a single record through the saved pipeline without starting the service.

Usage:
  salary predict --age 28 --gender Female --education "Master's" --job-title "Data Analyst" --experience 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := root.cfg.Serve.Model
			if cmd.Flags().Changed("model") {
				path = flags.model
			}
			p, err := pipeline.Load(path)
			if err != nil {
				return err
			}
			salary, err := p.PredictRecord(flags.record())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted Salary: %.2f\n", salary)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.model, "model", config.Default().Serve.Model, "Artifact written by salary train")
	f.Float64Var(&flags.age, "age", 0, "Age in years")
	f.StringVar(&flags.gender, "gender", "", "Gender")
	f.StringVar(&flags.education, "education", "", "Education Level")
	f.StringVar(&flags.jobTitle, "job-title", "", "Job Title")
	f.Float64Var(&flags.experience, "experience", 0, "Years of Experience")
	for _, name := range []string{"age", "gender", "education", "job-title", "experience"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (p predictFlags) record() map[string]any {
	return map[string]any{
		"Age":                 p.age,
		"Gender":              p.gender,
		"Education Level":     p.education,
		"Job Title":           p.jobTitle,
		"Years of Experience": p.experience,
	}
}
