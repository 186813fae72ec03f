package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/earlystart/spendcast/internal/cli"
	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/forecast"
	"github.com/earlystart/spendcast/internal/ingest"
	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/report"
	"github.com/earlystart/spendcast/internal/service"
	"github.com/earlystart/spendcast/internal/visualize"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Produce a 12-month spending forecast",
		Long: `Fit the spending model to your transaction history and produce a
12-month forecast: a JSON report, a chart image, and a terminal summary.

Reads transactions from the database by default; --csv forecasts a
statement export directly without importing it.`,
		RunE: runForecast,
	}

	cmd.Flags().Float64P("income", "i", 0, "Monthly income for the savings projection")
	cmd.Flags().Int("horizon", 365, "Forecast horizon in days")
	cmd.Flags().Float64("interval", 0.80, "Uncertainty interval width (0-1)")
	cmd.Flags().String("csv", "", "Forecast a CSV file directly instead of the database")
	cmd.Flags().StringP("output", "o", "", "Directory for forecast_output.json and forecast_plot.png")
	cmd.Flags().Bool("no-chart", false, "Skip chart rendering")

	_ = viper.BindPFlag("forecast.income", cmd.Flags().Lookup("income"))
	_ = viper.BindPFlag("forecast.horizon", cmd.Flags().Lookup("horizon"))
	_ = viper.BindPFlag("forecast.interval", cmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("forecast.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	csvPath, _ := cmd.Flags().GetString("csv")
	noChart, _ := cmd.Flags().GetBool("no-chart")

	var txns []model.Transaction
	if csvPath != "" {
		f, err := os.Open(csvPath) // #nosec G304 -- user-supplied path
		if err != nil {
			return common.NewUserError(fmt.Sprintf("could not open %s", csvPath), err)
		}
		txns, err = ingest.NewCSVLoader().Load(f)
		_ = f.Close()
		if err != nil {
			return err
		}
	} else {
		store, err := initStorage(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		txns, err = store.GetTransactions(ctx, nil, nil)
		if err != nil {
			return err
		}
	}

	cfg := forecast.DefaultConfig()
	cfg.HorizonDays = viper.GetInt("forecast.horizon")
	if w := viper.GetFloat64("forecast.interval"); w > 0 {
		cfg.IntervalWidth = w
	}

	opts := []service.Option{}
	if !noChart {
		opts = append(opts, service.WithRenderer(visualize.NewRenderer()))
	}
	pipeline, err := service.NewPipeline(cfg, opts...)
	if err != nil {
		return err
	}

	outDir := viper.GetString("forecast.output")
	if outDir == "" {
		outDir = "."
	}

	req := service.Request{
		Transactions:  txns,
		MonthlyIncome: viper.GetFloat64("forecast.income"),
	}
	if !noChart {
		req.ChartPath = filepath.Join(outDir, "forecast_plot.png")
	}

	res, err := pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	data, err := report.MarshalJSON(res.Report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	jsonPath := filepath.Join(outDir, "forecast_output.json")
	if err := os.WriteFile(jsonPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderResult(res))
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", jsonPath)
	return nil
}
