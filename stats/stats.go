// Package stats derives the same-day aggregates the rule engine gates on:
// trade counts, realized P&L today, consecutive losses, per-symbol counts,
// and recent trade timestamps for rate limiting.
package stats

import (
	"sync"
	"time"

	"github.com/rustyeddy/riskgate/trade"
)

// recentRetention bounds how far back recent timestamps are kept. Rate
// windows are seconds to a minute; anything older is dead weight.
const recentRetention = 10 * time.Minute

// Snapshot is a read-only copy of one trading day's aggregates.
type Snapshot struct {
	Day               time.Time
	TotalTrades       int
	ApprovedTrades    int
	RejectedTrades    int
	RealizedPnL       float64
	ConsecutiveLosses int
	SymbolCounts      map[string]int
	RecentTimestamps  []time.Time
	LastTrade         time.Time
	HasTraded         bool
}

// TradesSince counts recent trades at or after cutoff.
func (s Snapshot) TradesSince(cutoff time.Time) int {
	n := 0
	for _, ts := range s.RecentTimestamps {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// daily is the mutable day bucket. Rollover swaps in a fresh instance so a
// reader holding a snapshot never observes a half-reset counter set.
type daily struct {
	day               time.Time
	totalTrades       int
	approvedTrades    int
	rejectedTrades    int
	realizedPnL       float64
	consecutiveLosses int
	symbolCounts      map[string]int
	recent            []time.Time
	lastTrade         time.Time
	hasTraded         bool
}

func newDaily(day time.Time) *daily {
	return &daily{
		day:          day,
		symbolCounts: make(map[string]int),
	}
}

// Tracker owns DailyStats for one session. Nothing else writes these.
type Tracker struct {
	mu  sync.Mutex
	cur *daily
	now func() time.Time
}

// NewTracker builds a tracker; now may be nil for the wall clock.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	t := &Tracker{now: now}
	t.cur = newDaily(tradingDay(now()))
	return t
}

// RecordDecision counts an admission decision.
func (t *Tracker) RecordDecision(approved bool, sig trade.Signal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()

	t.cur.totalTrades++
	if approved {
		t.cur.approvedTrades++
	} else {
		t.cur.rejectedTrades++
	}
}

// RecordFill folds one executed fill into the day's aggregates.
func (t *Tracker) RecordFill(f trade.Fill, realized float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()

	ts := f.Time
	if ts.IsZero() {
		ts = t.now()
	}

	t.cur.realizedPnL += realized
	if realized < 0 {
		t.cur.consecutiveLosses++
	} else {
		t.cur.consecutiveLosses = 0
	}
	t.cur.symbolCounts[f.Symbol]++
	t.cur.recent = append(t.cur.recent, ts)
	t.cur.lastTrade = ts
	t.cur.hasTraded = true
}

// Snapshot returns a copy of today's aggregates, pruning stale timestamps.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()

	t.pruneLocked(t.now())

	counts := make(map[string]int, len(t.cur.symbolCounts))
	for sym, n := range t.cur.symbolCounts {
		counts[sym] = n
	}
	recent := append([]time.Time(nil), t.cur.recent...)

	return Snapshot{
		Day:               t.cur.day,
		TotalTrades:       t.cur.totalTrades,
		ApprovedTrades:    t.cur.approvedTrades,
		RejectedTrades:    t.cur.rejectedTrades,
		RealizedPnL:       t.cur.realizedPnL,
		ConsecutiveLosses: t.cur.consecutiveLosses,
		SymbolCounts:      counts,
		RecentTimestamps:  recent,
		LastTrade:         t.cur.lastTrade,
		HasTraded:         t.cur.hasTraded,
	}
}

func (t *Tracker) rolloverLocked() {
	day := tradingDay(t.now())
	if !day.Equal(t.cur.day) {
		t.cur = newDaily(day)
	}
}

func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-recentRetention)
	i := 0
	for ; i < len(t.cur.recent); i++ {
		if !t.cur.recent[i].Before(cutoff) {
			break
		}
	}
	if i > 0 {
		t.cur.recent = append([]time.Time(nil), t.cur.recent[i:]...)
	}
}

func tradingDay(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
