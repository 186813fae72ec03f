package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/earlystart/spendcast/internal/common"
	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/series"
)

// Engine fits one daily series and projects it forward. An Engine fits
// exactly one series; it holds no state that survives the call and must not
// be shared across concurrent requests.
type Engine struct {
	cfg Config
}

// New creates an engine after validating the configuration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Forecast fits the model and returns one point per day covering the
// historical range plus the configured horizon. All bounds are floored at
// zero and capped relative to the mean non-zero historical daily spend.
//
// The model is a generalized ridge regression on log1p(spend): a
// piecewise-linear trend with uniformly placed changepoints plus Fourier
// terms for the weekly, ~30.4-day, and yearly cycles. Fitting in log space
// makes the seasonal swing scale with the trend level, matching how larger
// overall spending produces proportionally larger swings.
func (e *Engine) Forecast(ctx context.Context, hist []model.SeriesPoint) ([]model.ForecastPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nonZero := 0
	for _, p := range hist {
		if p.Value > 0 {
			nonZero++
		}
	}
	if nonZero < 2 {
		return nil, fmt.Errorf("%w: need at least 2 days with spending, got %d", common.ErrInsufficientData, nonZero)
	}
	n := len(hist)
	if n < e.cfg.MinHistoryDays {
		slog.Warn("history shorter than recommended minimum, weekly seasonality may be unreliable",
			"days", n,
			"recommended", e.cfg.MinHistoryDays)
	}

	capBase := series.NonZeroMean(hist)
	slog.Debug("fitting spending model",
		"days", n,
		"nonzero_days", nonZero,
		"avg_daily_spend", capBase,
		"horizon_days", e.cfg.HorizonDays)

	beta, design, err := e.fit(hist)
	if err != nil {
		return nil, err
	}

	// Residual spread in log space drives the uncertainty interval.
	var ssr float64
	for i := 0; i < n; i++ {
		r := math.Log1p(hist[i].Value) - design.predict(beta, i)
		ssr += r * r
	}
	sigma := math.Sqrt(ssr / float64(n))
	z := math.Sqrt2 * math.Erfinv(e.cfg.IntervalWidth)

	total := n + e.cfg.HorizonDays
	points := make([]model.ForecastPoint, total)
	predCap := capBase * e.cfg.CapMultiplier
	upperCap := predCap * e.cfg.UpperCapFactor

	for d := 0; d < total; d++ {
		yhat := design.predict(beta, d)
		if math.IsNaN(yhat) || math.IsInf(yhat, 0) {
			return nil, fmt.Errorf("%w: prediction diverged at day %d", common.ErrModelFit, d)
		}

		pred := math.Expm1(yhat)
		lower := math.Expm1(yhat - z*sigma)
		upper := math.Expm1(yhat + z*sigma)

		// Floor at zero, then contain extrapolated growth.
		pred = math.Max(0, math.Min(pred, predCap))
		lower = math.Max(0, lower)
		upper = math.Max(0, math.Min(upper, upperCap))
		if lower > pred {
			lower = pred
		}
		if upper < pred {
			upper = pred
		}

		points[d] = model.ForecastPoint{
			Date:       hist[0].Date.AddDate(0, 0, d),
			Predicted:  pred,
			LowerBound: lower,
			UpperBound: upper,
		}
	}

	return points, nil
}

// design holds the model structure so historical and future rows are built
// identically.
type design struct {
	n            int
	changepoints []float64
	harmonics    []harmonic
}

type harmonic struct {
	period float64
	order  int
}

func (e *Engine) newDesign(n int) *design {
	k := e.cfg.Changepoints
	if k > n-2 {
		k = n - 2
	}
	if k < 0 {
		k = 0
	}
	cps := make([]float64, k)
	for i := range cps {
		// Uniform over the first ChangepointRange fraction of history.
		cps[i] = e.cfg.ChangepointRange * float64(i+1) / float64(k+1)
	}

	return &design{
		n:            n,
		changepoints: cps,
		harmonics: []harmonic{
			{period: 7, order: e.cfg.WeeklyOrder},
			{period: e.cfg.MonthlyPeriod, order: e.cfg.MonthlyOrder},
			{period: 365.25, order: e.cfg.YearlyOrder},
		},
	}
}

// cols is the number of regression coefficients.
func (d *design) cols() int {
	p := 2 + len(d.changepoints) // intercept, slope, changepoint deltas
	for _, h := range d.harmonics {
		p += 2 * h.order
	}
	return p
}

// row fills out with the regressor values for day index day, which may lie
// beyond the fitted history.
func (d *design) row(out []float64, day int) {
	t := float64(day) / float64(d.n-1)
	out[0] = 1
	out[1] = t
	j := 2
	for _, cp := range d.changepoints {
		out[j] = math.Max(0, t-cp)
		j++
	}
	for _, h := range d.harmonics {
		for k := 1; k <= h.order; k++ {
			arg := 2 * math.Pi * float64(k) * float64(day) / h.period
			out[j] = math.Sin(arg)
			out[j+1] = math.Cos(arg)
			j += 2
		}
	}
}

func (d *design) predict(beta *mat.VecDense, day int) float64 {
	row := make([]float64, d.cols())
	d.row(row, day)
	var y float64
	for j, x := range row {
		y += beta.AtVec(j) * x
	}
	return y
}

// fit solves the penalized normal equations (XᵀX + D)β = Xᵀy. The penalty
// is 1/flexibility on changepoint deltas and 1/seasonality scale on Fourier
// coefficients, the ridge analog of prior scales in Bayesian trend
// decomposition models.
func (e *Engine) fit(hist []model.SeriesPoint) (*mat.VecDense, *design, error) {
	n := len(hist)
	d := e.newDesign(n)
	p := d.cols()

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		d.row(row, i)
		x.SetRow(i, row)
		y.SetVec(i, math.Log1p(hist[i].Value))
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+e.penalty(d, j))
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	beta := mat.NewVecDense(p, nil)
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, nil, fmt.Errorf("%w: singular design matrix: %v", common.ErrModelFit, err)
	}
	for j := 0; j < p; j++ {
		if v := beta.AtVec(j); math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("%w: fit did not converge", common.ErrModelFit)
		}
	}

	return beta, d, nil
}

func (e *Engine) penalty(d *design, col int) float64 {
	switch {
	case col < 2:
		// Intercept and base slope stay effectively unpenalized; the tiny
		// ridge keeps the system well conditioned for flat series.
		return 1e-8
	case col < 2+len(d.changepoints):
		return 1 / e.cfg.ChangepointFlexibility
	default:
		return 1 / e.cfg.SeasonalityScale
	}
}
