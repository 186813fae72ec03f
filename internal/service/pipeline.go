// Package service orchestrates the forecast pipeline: normalize, fit,
// aggregate, assemble. One linear pass per request, no retries, no shared
// state between requests.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/forecast"
	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/report"
	"github.com/earlystart/spendcast/internal/series"
	"github.com/earlystart/spendcast/internal/summary"
)

// Renderer draws the forecast chart. A render failure is reported on the
// Result, never raised; the numeric report must survive it.
type Renderer interface {
	Render(data report.ChartData, path string) error
}

// Request is one forecast computation.
type Request struct {
	Transactions  []model.Transaction
	MonthlyIncome float64
	ChartPath     string // empty disables chart rendering
}

// Result carries the report plus the intermediate series the visualization
// collaborator plots directly.
type Result struct {
	Report            *model.Report
	Points            []model.ForecastPoint
	HistoricalMonthly []model.SeriesPoint
	ForecastMonthly   []model.MonthlySummary
	ChartPath         string
	RenderErr         error
}

// Pipeline runs forecast requests. Fits are CPU-bound and can take seconds,
// so a pool sized to the available CPUs gates how many run at once; requests
// beyond that wait their turn or bail out with the context.
type Pipeline struct {
	cfg      forecast.Config
	renderer Renderer
	fitSlots chan struct{}
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRenderer attaches a chart renderer.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithFitConcurrency bounds how many model fits run concurrently.
func WithFitConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.fitSlots = make(chan struct{}, n)
		}
	}
}

// NewPipeline creates a pipeline with the given engine configuration.
func NewPipeline(cfg forecast.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:      cfg,
		fitSlots: make(chan struct{}, runtime.NumCPU()),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one forecast request end to end. Any stage failure aborts the
// request with a typed error; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if req.MonthlyIncome < 0 {
		return nil, fmt.Errorf("%w: monthly income must not be negative, got %g", common.ErrInvalidConfig, req.MonthlyIncome)
	}

	daily, err := series.Normalize(req.Transactions)
	if err != nil {
		return nil, err
	}

	points, err := p.fit(ctx, daily)
	if err != nil {
		return nil, err
	}

	lastHistorical := daily[len(daily)-1].Date
	future := summary.FuturePoints(points, lastHistorical, p.cfg.HorizonDays)
	months := summary.Monthly(future)
	sum := summary.Compute(months, req.MonthlyIncome)
	cats := summary.Categories(req.Transactions)

	res := &Result{
		Report:            report.Assemble(future, sum, cats, p.now()),
		Points:            points,
		HistoricalMonthly: summary.HistoricalMonthly(req.Transactions),
		ForecastMonthly:   months,
	}

	if p.renderer != nil && req.ChartPath != "" {
		chart := report.ChartData{
			Historical:    res.HistoricalMonthly,
			Forecast:      months,
			MonthlyIncome: req.MonthlyIncome,
			Today:         lastHistorical,
		}
		if err := p.renderer.Render(chart, req.ChartPath); err != nil {
			// Rendering is a collaborator concern; the report stands.
			common.LogError(err, "chart rendering failed, returning report without chart", common.Fields{
				"path": req.ChartPath,
			})
			res.RenderErr = err
		} else {
			res.ChartPath = req.ChartPath
		}
	}

	return res, nil
}

// fit runs the model fit inside the concurrency gate. The fit itself is not
// cancellable mid-flight; cancellation abandons the slot wait, and a fit
// already running completes and its result is discarded by the caller.
func (p *Pipeline) fit(ctx context.Context, daily []model.SeriesPoint) ([]model.ForecastPoint, error) {
	select {
	case p.fitSlots <- struct{}{}:
		defer func() { <-p.fitSlots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	eng, err := forecast.New(p.cfg)
	if err != nil {
		return nil, err
	}
	return eng.Forecast(ctx, daily)
}
