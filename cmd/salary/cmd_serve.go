package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/salarygo/config"
	"github.com/YuminosukeSato/salarygo/pipeline"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/pkg/log"
	"github.com/YuminosukeSato/salarygo/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var model, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GET /health and POST /predict",
		Long: `Loads the artifact once and serves predictions until SIGINT or SIGTERM.
A missing or incompatible artifact stops the command with a non-zero exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("model") {
				cfg.Serve.Model = model
			}
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			p, err := pipeline.Load(cfg.Serve.Model)
			if err != nil {
				return errors.Wrap(err, "model not ready")
			}
			root.logger.Info("Artifact loaded",
				log.ArtifactPathKey, cfg.Serve.Model,
				log.RunIDKey, p.RunID,
				log.FeaturesKey, len(p.FeatureNames()),
			)

			srv, err := server.New(server.Deps{
				Predictor: p,
				Logger:    root.logger,
				Schema:    p.Schema,
			}, server.WithAddr(cfg.Serve.Addr))
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	def := config.Default().Serve
	f := cmd.Flags()
	f.StringVar(&model, "model", def.Model, "Artifact written by salary train")
	f.StringVar(&addr, "addr", def.Addr, "Listen address")
	return cmd
}
