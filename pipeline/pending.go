package pipeline

import (
	"sync"
	"time"

	"github.com/rustyeddy/riskgate/trade"
)

// pendingSet tracks approved signals awaiting a correlated fill, keyed by
// strategy and symbol. A signal that never fills is not an error here, but
// the bookkeeping must stay bounded: entries older than the TTL are evicted
// lazily whenever the set is touched.
type pendingSet struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]pendingSignal
}

type pendingSignal struct {
	sessionID  string
	approvedAt time.Time
}

func newPendingSet(ttl time.Duration) *pendingSet {
	return &pendingSet{ttl: ttl, m: make(map[string]pendingSignal)}
}

func pendingKey(strategyID, symbol string) string {
	return strategyID + "|" + symbol
}

func (s *pendingSet) add(sig trade.Signal, sessionID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)
	s.m[pendingKey(sig.StrategyID, sig.Symbol)] = pendingSignal{
		sessionID:  sessionID,
		approvedAt: now,
	}
}

// take resolves a fill to the session of its pending signal and removes the
// entry. Returns "" when no live entry matches.
func (s *pendingSet) take(f trade.Fill, now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)
	key := pendingKey(f.StrategyID, f.Symbol)
	p, ok := s.m[key]
	if !ok {
		return ""
	}
	delete(s.m, key)
	return p.sessionID
}

func (s *pendingSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *pendingSet) evictLocked(now time.Time) {
	cutoff := now.Add(-s.ttl)
	for key, p := range s.m {
		if p.approvedAt.Before(cutoff) {
			delete(s.m, key)
		}
	}
}
