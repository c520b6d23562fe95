package pipeline

import (
	"errors"
	"sync"

	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/stats"
)

// session bundles the two stateful components owned per session id:
// the ledger and the daily-stats tracker. Constructed once, passed by
// reference; never shared across sessions.
type session struct {
	ledger  *ledger.Ledger
	tracker *stats.Tracker
	fills   int
}

type sessionSet struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionSet() *sessionSet {
	return &sessionSet{sessions: make(map[string]*session)}
}

func (s *sessionSet) get(id string, build func(string) *session) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = build(id)
		s.sessions[id] = sess
	}
	return sess
}

func (s *sessionSet) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *sessionSet) all() []*session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

func (p *Pipeline) newSession(sessionID string) *session {
	return &session{
		ledger:  ledger.New(sessionID, p.capital, p.journal),
		tracker: stats.NewTracker(p.now),
	}
}

// RestoreSession creates (or reuses) a session and loads its most recent
// snapshot from the journal. A session with no snapshot starts fresh.
func (p *Pipeline) RestoreSession(sessionID string) error {
	sess := p.sessions.get(sessionID, p.newSession)
	err := sess.ledger.LoadSnapshot()
	if errors.Is(err, journal.ErrNoSnapshot) {
		return nil
	}
	return err
}

// SeedSession primes a fresh session with externally supplied equity and
// peak, for resuming an account whose history lives elsewhere.
func (p *Pipeline) SeedSession(sessionID string, currentEquity, peakEquity float64) error {
	sess := p.sessions.get(sessionID, p.newSession)
	if currentEquity <= 0 {
		return nil
	}
	if peakEquity < currentEquity {
		peakEquity = currentEquity
	}
	return sess.ledger.Restore(ledger.Snapshot{
		SessionID:      sessionID,
		Cash:           currentEquity,
		InitialCapital: p.capital,
		PeakValue:      peakEquity,
	})
}

// State returns the session's ledger projection, if the session exists.
func (p *Pipeline) State(sessionID string) (ledger.State, bool) {
	sess, ok := p.sessions.lookup(sessionID)
	if !ok {
		return ledger.State{}, false
	}
	return sess.ledger.State(), true
}

// BuyingPower answers the read-only query surface for a session.
func (p *Pipeline) BuyingPower(sessionID string) (float64, bool) {
	st, ok := p.State(sessionID)
	if !ok {
		return 0, false
	}
	return st.BuyingPower, true
}

// Mode recomputes the session's trading mode from current snapshots.
func (p *Pipeline) Mode(sessionID string) risk.Mode {
	sess, ok := p.sessions.lookup(sessionID)
	if !ok {
		return risk.Normal
	}
	return risk.ResolveMode(sess.ledger.State(), sess.tracker.Snapshot(), p.limits)
}

// Sessions lists the known session ids.
func (p *Pipeline) Sessions() []string {
	p.sessions.mu.Lock()
	defer p.sessions.mu.Unlock()
	out := make([]string, 0, len(p.sessions.sessions))
	for id := range p.sessions.sessions {
		out = append(out, id)
	}
	return out
}
