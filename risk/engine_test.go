package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineAllPass(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultLimits())
	d := e.Evaluate(testInput())

	assert.True(t, d.Passed)
	assert.Equal(t, RuleAll, d.RuleName)
	assert.InDelta(t, 0.4, d.Score, 1e-9) // exposure single-position is the worst ratio
	assert.Equal(t, SourceAuthoritative, d.Details["source"])
}

// A signal violating both the frequency and position rules must come back
// with the frequency reason: earlier checks mask later ones.
func TestEngineShortCircuitOrder(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.TotalTrades = 50 // frequency: daily cap hit
	in.Signal.Quantity = 5000 // position: way over per-trade shares
	in.BuyingPower.Amount = 0 // buying power: nothing left

	d := NewEngine(DefaultLimits()).Evaluate(in)
	assert.False(t, d.Passed)
	assert.Equal(t, RuleFrequency, d.RuleName)
}

func TestEngineFailureReturnedVerbatim(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Signal.Quantity = 5000

	d := NewEngine(DefaultLimits()).Evaluate(in)
	assert.Equal(t, RulePosition, d.RuleName)
	assert.Contains(t, d.Reason, "exceeds max shares per trade")
	assert.InDelta(t, 5.0, d.Score, 1e-9)
}

func TestEnginePropagatesSeverity(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Portfolio.PeakValue = 110000
	in.Portfolio.PortfolioValue = 100000
	in.Portfolio.Drawdown = 10000.0 / 110000.0 // defensive band, still admissible

	lim := DefaultLimits()
	lim.Loss.MaxDrawdownDollars = 0

	d := EvaluateWith(in, lim)
	assert.True(t, d.Passed)
	assert.Equal(t, SeverityDefensive, d.Details["severity"])
}

func TestEvaluateWithTightenedLimits(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Signal.Quantity = 600
	in.Signal.Price = 30

	lim := DefaultLimits()
	full := EvaluateWith(in, lim)
	assert.True(t, full.Passed)

	lim.Position.MaxSharesPerTrade = 500 // halved posture
	half := EvaluateWith(in, lim)
	assert.False(t, half.Passed)
	assert.Equal(t, RulePosition, half.RuleName)
}
