package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/earlystart/spendcast/internal/forecast"
	"github.com/earlystart/spendcast/internal/server"
	"github.com/earlystart/spendcast/internal/service"
	"github.com/earlystart/spendcast/internal/visualize"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the forecast pipeline and user store over HTTP for the
frontend: statement upload, user management, and forecast generation.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":3000", "Listen address")
	cmd.Flags().String("chart-dir", "", "Directory for rendered charts (empty disables rendering)")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.chart_dir", cmd.Flags().Lookup("chart-dir"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	chartDir := viper.GetString("server.chart_dir")
	opts := []service.Option{}
	if chartDir != "" {
		opts = append(opts, service.WithRenderer(visualize.NewRenderer()))
	}
	pipeline, err := service.NewPipeline(forecast.DefaultConfig(), opts...)
	if err != nil {
		return err
	}

	srv := server.New(store, pipeline, chartDir)
	addr := viper.GetString("server.addr")
	slog.Info("serving HTTP API", "addr", addr)
	return srv.Run(ctx, addr)
}
