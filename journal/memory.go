package journal

import (
	"sync"
	"time"
)

// Memory is an in-process journal for tests and throwaway sessions. It keeps
// the same semantics as SQLite: append-only transactions, last-write-wins
// state, latest-snapshot reads.
type Memory struct {
	mu           sync.Mutex
	transactions []Transaction
	states       map[string]StateRecord
	positions    map[string][]PositionRecord
	snapshots    map[string][][]byte

	// FailWrites makes every write return this error; used to exercise the
	// swallow-and-count persistence policy.
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{
		states:    make(map[string]StateRecord),
		positions: make(map[string][]PositionRecord),
		snapshots: make(map[string][][]byte),
	}
}

func (j *Memory) RecordTransaction(t Transaction) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailWrites != nil {
		return j.FailWrites
	}
	j.transactions = append(j.transactions, t)
	return nil
}

func (j *Memory) SaveState(s StateRecord, positions []PositionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailWrites != nil {
		return j.FailWrites
	}
	j.states[s.SessionID] = s
	j.positions[s.SessionID] = append([]PositionRecord(nil), positions...)
	return nil
}

func (j *Memory) SaveSnapshot(sessionID string, takenAt time.Time, payload []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.FailWrites != nil {
		return j.FailWrites
	}
	j.snapshots[sessionID] = append(j.snapshots[sessionID], append([]byte(nil), payload...))
	return nil
}

func (j *Memory) LoadSnapshot(sessionID string) ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	snaps := j.snapshots[sessionID]
	if len(snaps) == 0 {
		return nil, ErrNoSnapshot
	}
	return snaps[len(snaps)-1], nil
}

func (j *Memory) ListTransactions(sessionID string, limit int) ([]Transaction, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []Transaction
	for _, t := range j.transactions {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// State returns the last saved state record for the session, if any.
func (j *Memory) State(sessionID string) (StateRecord, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	s, ok := j.states[sessionID]
	return s, ok
}

func (j *Memory) Close() error { return nil }
