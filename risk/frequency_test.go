package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyDailyLimit(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.TotalTrades = 50

	d := CheckFrequency(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "daily trade limit")
	assert.InDelta(t, 1.0, d.Score, 1e-9)
}

func TestFrequencyMinTimeBetweenTrades(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.HasTraded = true
	in.Daily.LastTrade = in.Now.Add(-10 * time.Second)

	d := CheckFrequency(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "since last trade")
	assert.InDelta(t, 3.0, d.Score, 1e-9)
}

func TestFrequencySymbolLimit(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.SymbolCounts["SPY"] = 10

	d := CheckFrequency(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "symbol trade limit")
}

func TestFrequencyPerMinuteLimit(t *testing.T) {
	t.Parallel()

	in := testInput()
	for i := 0; i < 5; i++ {
		in.Daily.RecentTimestamps = append(in.Daily.RecentTimestamps,
			in.Now.Add(-time.Duration(i*10)*time.Second))
	}
	// Keep the spacing rule out of the way.
	in.Daily.HasTraded = true
	in.Daily.LastTrade = in.Now.Add(-40 * time.Second)
	lim := DefaultLimits()
	lim.Frequency.MinTimeBetweenTrades = 0

	d := CheckFrequency(in, lim)
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "rate limit")
}

func TestFrequencyChecksRunInOrder(t *testing.T) {
	t.Parallel()

	// Violating both the daily and the per-minute limit must report the
	// daily limit: checks run in a fixed order and short-circuit.
	in := testInput()
	in.Daily.TotalTrades = 50
	for i := 0; i < 10; i++ {
		in.Daily.RecentTimestamps = append(in.Daily.RecentTimestamps, in.Now)
	}

	d := CheckFrequency(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "daily trade limit")
}

func TestFrequencyPass(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.TotalTrades = 10
	in.Daily.HasTraded = true
	in.Daily.LastTrade = in.Now.Add(-5 * time.Minute)

	d := CheckFrequency(in, DefaultLimits())
	assert.True(t, d.Passed)
	assert.InDelta(t, 0.2, d.Score, 1e-9, "pass score is the daily-trade ratio")
}

func TestFrequencyDisabledLimits(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Daily.TotalTrades = 10000

	d := CheckFrequency(in, Limits{})
	assert.True(t, d.Passed)
}
