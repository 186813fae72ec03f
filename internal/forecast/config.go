// Package forecast fits a trend-plus-seasonality model to a daily spending
// series and projects it forward with uncertainty bounds.
package forecast

import (
	"fmt"

	"github.com/earlystart/spendcast/internal/common"
)

// Config controls model fitting and bounding. Zero values are filled from
// DefaultConfig; use that as the starting point rather than constructing a
// Config by hand.
type Config struct {
	// HorizonDays is how many days past the last historical point to project.
	HorizonDays int

	// IntervalWidth is the coverage of the uncertainty interval, in (0, 1).
	IntervalWidth float64

	// ChangepointFlexibility controls how readily the trend absorbs abrupt
	// historical shifts. Transaction histories are short, so the default is
	// deliberately high.
	ChangepointFlexibility float64

	// ChangepointRange is the fraction of history in which changepoints may
	// be placed.
	ChangepointRange float64

	// Changepoints is the number of candidate trend changepoints.
	Changepoints int

	// SeasonalityScale controls how much seasonal variation the fit allows.
	SeasonalityScale float64

	// Fourier orders per seasonal component. Daily seasonality is never
	// modeled; statement exports carry no time of day.
	WeeklyOrder  int
	MonthlyOrder int
	YearlyOrder  int

	// MonthlyPeriod is the length in days of the custom monthly cycle.
	MonthlyPeriod float64

	// CapMultiplier bounds predictions at this multiple of the mean non-zero
	// historical daily spend; UpperCapFactor scales the cap for the upper
	// bound. Sparse histories let the seasonal model extrapolate unbounded
	// growth without these.
	CapMultiplier  float64
	UpperCapFactor float64

	// MinHistoryDays is the length below which a warning is logged. Shorter
	// histories are still fit; weekly seasonality just gets unreliable.
	MinHistoryDays int
}

// DefaultConfig returns the tuning used for spending data: very flexible
// trend, strong multiplicative-style seasonality, an 80% interval.
func DefaultConfig() Config {
	return Config{
		HorizonDays:            365,
		IntervalWidth:          0.80,
		ChangepointFlexibility: 0.8,
		ChangepointRange:       0.95,
		Changepoints:           25,
		SeasonalityScale:       15,
		WeeklyOrder:            3,
		MonthlyOrder:           5,
		YearlyOrder:            10,
		MonthlyPeriod:          30.4,
		CapMultiplier:          5,
		UpperCapFactor:         1.5,
		MinHistoryDays:         14,
	}
}

// Validate checks caller-supplied parameters.
func (c Config) Validate() error {
	if c.HorizonDays < 1 {
		return fmt.Errorf("%w: horizon must be at least 1 day, got %d", common.ErrInvalidConfig, c.HorizonDays)
	}
	if c.IntervalWidth <= 0 || c.IntervalWidth >= 1 {
		return fmt.Errorf("%w: interval width must be in (0, 1), got %g", common.ErrInvalidConfig, c.IntervalWidth)
	}
	if c.ChangepointFlexibility <= 0 {
		return fmt.Errorf("%w: changepoint flexibility must be positive, got %g", common.ErrInvalidConfig, c.ChangepointFlexibility)
	}
	if c.ChangepointRange <= 0 || c.ChangepointRange > 1 {
		return fmt.Errorf("%w: changepoint range must be in (0, 1], got %g", common.ErrInvalidConfig, c.ChangepointRange)
	}
	if c.SeasonalityScale <= 0 {
		return fmt.Errorf("%w: seasonality scale must be positive, got %g", common.ErrInvalidConfig, c.SeasonalityScale)
	}
	if c.CapMultiplier <= 0 {
		return fmt.Errorf("%w: cap multiplier must be positive, got %g", common.ErrInvalidConfig, c.CapMultiplier)
	}
	if c.UpperCapFactor < 1 {
		return fmt.Errorf("%w: upper cap factor must be at least 1, got %g", common.ErrInvalidConfig, c.UpperCapFactor)
	}
	if c.MonthlyPeriod <= 0 {
		return fmt.Errorf("%w: monthly period must be positive, got %g", common.ErrInvalidConfig, c.MonthlyPeriod)
	}
	return nil
}
