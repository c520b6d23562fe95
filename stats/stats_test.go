package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/riskgate/trade"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker() (*Tracker, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)}
	return NewTracker(clk.Now), clk
}

func sig(symbol string) trade.Signal {
	return trade.Signal{StrategyID: "s1", Symbol: symbol, Action: trade.Buy, Quantity: 10, Price: 100}
}

func fill(symbol string, ts time.Time) trade.Fill {
	return trade.Fill{
		FillID: "f-" + symbol + ts.String(), StrategyID: "s1", Symbol: symbol,
		Action: trade.Buy, Quantity: 10, Price: 100, Time: ts,
	}
}

func TestRecordDecisionCounts(t *testing.T) {
	t.Parallel()

	tr, _ := newTestTracker()

	tr.RecordDecision(true, sig("SPY"))
	tr.RecordDecision(true, sig("SPY"))
	tr.RecordDecision(false, sig("AAPL"))

	ds := tr.Snapshot()
	assert.Equal(t, 3, ds.TotalTrades)
	assert.Equal(t, 2, ds.ApprovedTrades)
	assert.Equal(t, 1, ds.RejectedTrades)
}

func TestRecordFillConsecutiveLosses(t *testing.T) {
	t.Parallel()

	tr, clk := newTestTracker()

	tr.RecordFill(fill("SPY", clk.Now()), -100)
	tr.RecordFill(fill("SPY", clk.Now()), -50)
	assert.Equal(t, 2, tr.Snapshot().ConsecutiveLosses)

	tr.RecordFill(fill("SPY", clk.Now()), 200)
	assert.Equal(t, 0, tr.Snapshot().ConsecutiveLosses, "a win resets the streak")

	tr.RecordFill(fill("SPY", clk.Now()), 0)
	assert.Equal(t, 0, tr.Snapshot().ConsecutiveLosses, "break-even is not a loss")
}

func TestRecordFillAggregates(t *testing.T) {
	t.Parallel()

	tr, clk := newTestTracker()

	tr.RecordFill(fill("SPY", clk.Now()), 100)
	tr.RecordFill(fill("SPY", clk.Now()), -40)
	tr.RecordFill(fill("AAPL", clk.Now()), 10)

	ds := tr.Snapshot()
	assert.InDelta(t, 70.0, ds.RealizedPnL, 1e-9)
	assert.Equal(t, 2, ds.SymbolCounts["SPY"])
	assert.Equal(t, 1, ds.SymbolCounts["AAPL"])
	assert.True(t, ds.HasTraded)
	assert.Equal(t, clk.Now(), ds.LastTrade)
}

func TestTradesSince(t *testing.T) {
	t.Parallel()

	tr, clk := newTestTracker()

	tr.RecordFill(fill("SPY", clk.Now()), 0)
	clk.Advance(30 * time.Second)
	tr.RecordFill(fill("SPY", clk.Now()), 0)
	clk.Advance(45 * time.Second)
	tr.RecordFill(fill("SPY", clk.Now()), 0)

	ds := tr.Snapshot()
	assert.Equal(t, 2, ds.TradesSince(clk.Now().Add(-time.Minute)))
	assert.Equal(t, 3, ds.TradesSince(clk.Now().Add(-2*time.Minute)))
}

func TestRecentTimestampsPruned(t *testing.T) {
	t.Parallel()

	tr, clk := newTestTracker()

	tr.RecordFill(fill("SPY", clk.Now()), 0)
	clk.Advance(15 * time.Minute)
	tr.RecordFill(fill("SPY", clk.Now()), 0)

	ds := tr.Snapshot()
	assert.Len(t, ds.RecentTimestamps, 1, "entries beyond the retention window are dropped")
	assert.Equal(t, 2, ds.SymbolCounts["SPY"], "daily counters keep the full day")
}

func TestDayRollover(t *testing.T) {
	t.Parallel()

	tr, clk := newTestTracker()

	tr.RecordDecision(true, sig("SPY"))
	tr.RecordFill(fill("SPY", clk.Now()), -500)
	before := tr.Snapshot()
	assert.Equal(t, 1, before.TotalTrades)
	assert.Equal(t, 1, before.ConsecutiveLosses)

	clk.Advance(24 * time.Hour)

	ds := tr.Snapshot()
	assert.Equal(t, 0, ds.TotalTrades)
	assert.Equal(t, 0, ds.ConsecutiveLosses)
	assert.InDelta(t, 0.0, ds.RealizedPnL, 1e-9)
	assert.Empty(t, ds.SymbolCounts)
	assert.False(t, ds.HasTraded)

	// The pre-rollover snapshot is untouched: reset swaps a fresh
	// instance rather than clearing in place.
	assert.Equal(t, 1, before.TotalTrades)
	assert.InDelta(t, -500.0, before.RealizedPnL, 1e-9)
}
