package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLossDailyDollarBreach(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.RealizedPnL = -6000 // max daily loss is 5000

	d := CheckLossLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "max daily loss")
	assert.InDelta(t, 1.2, d.Score, 1e-9)
	assert.Equal(t, SeverityLockdown, d.Details["severity"])
}

func TestLossDailyPctBreach(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.RealizedPnL = -4990 // under $5000 but at 5% of 99800 initial

	lim := DefaultLimits()
	lim.Loss.MaxDailyLoss = 0 // isolate the percent rule
	in.Portfolio.InitialCapital = 99800

	d := CheckLossLimits(in, lim)
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "initial capital")
	assert.Equal(t, SeverityLockdown, d.Details["severity"])
}

func TestLossConsecutiveLosses(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.ConsecutiveLosses = 5

	d := CheckLossLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "consecutive losses")
	assert.Equal(t, SeverityDefensive, d.Details["severity"])
}

func TestLossDrawdownFraction(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Portfolio.PeakValue = 120000
	in.Portfolio.PortfolioValue = 100000
	in.Portfolio.Drawdown = 20000.0 / 120000.0 // ~16.7% vs 15% max

	d := CheckLossLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "max drawdown")
	assert.Equal(t, SeverityLockdown, d.Details["severity"])
}

func TestLossDrawdownDollars(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Portfolio.PeakValue = 200000
	in.Portfolio.PortfolioValue = 184000 // $16k > $15k max, 8% < 15% fraction
	in.Portfolio.Drawdown = 16000.0 / 200000.0

	lim := DefaultLimits()
	lim.Modes.DefensiveDrawdownThreshold = 0.10 // keep the soft flag quiet

	d := CheckLossLimits(in, lim)
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "max drawdown dollars")
}

func TestLossDefensiveFlagOnPass(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Portfolio.PeakValue = 110000
	in.Portfolio.PortfolioValue = 100000
	in.Portfolio.Drawdown = 10000.0 / 110000.0 // ~9.1%: above 8% defensive, below 15% max

	lim := DefaultLimits()
	lim.Loss.MaxDrawdownDollars = 0

	d := CheckLossLimits(in, lim)
	assert.True(t, d.Passed)
	assert.Equal(t, SeverityDefensive, d.Details["severity"])
	assert.Equal(t, string(Defensive), d.Details["mode"])
}

func TestLossProfitDayPasses(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.RealizedPnL = 2500

	d := CheckLossLimits(in, DefaultLimits())
	assert.True(t, d.Passed)
	assert.Zero(t, d.Score) // negative day-loss ratio clamps to zero
}

func TestLossDisabledLimitsPass(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.RealizedPnL = -1e9

	d := CheckLossLimits(in, Limits{})
	assert.True(t, d.Passed)
}
