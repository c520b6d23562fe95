package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/metrics"
)

// Snapshot captures everything needed to rebuild the ledger: scalar state,
// open positions, and the set of applied fill ids so dedupe survives a
// restart.
type Snapshot struct {
	SessionID        string     `json:"session_id"`
	Cash             float64    `json:"cash"`
	InitialCapital   float64    `json:"initial_capital"`
	Positions        []Position `json:"positions"`
	TotalRealizedPnL float64    `json:"total_realized_pnl"`
	TotalCommissions float64    `json:"total_commissions"`
	TotalTrades      int64      `json:"total_trades"`
	PeakValue        float64    `json:"peak_value"`
	AppliedFills     []string   `json:"applied_fills"`
	TakenAt          time.Time  `json:"taken_at"`
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	positions := make([]Position, 0, len(l.positions))
	for _, pos := range l.positions {
		positions = append(positions, *pos)
	}
	fills := make([]string, 0, len(l.applied))
	for fid := range l.applied {
		fills = append(fills, fid)
	}

	return Snapshot{
		SessionID:        l.sessionID,
		Cash:             l.cash,
		InitialCapital:   l.initialCapital,
		Positions:        positions,
		TotalRealizedPnL: l.totalRealized,
		TotalCommissions: l.totalCommissions,
		TotalTrades:      l.totalTrades,
		PeakValue:        l.peak,
		AppliedFills:     fills,
		TakenAt:          l.now(),
	}
}

// Restore replaces the ledger's state with the snapshot's. State() after a
// restore reproduces the snapshotted ledger's State() exactly.
func (l *Ledger) Restore(s Snapshot) error {
	if s.SessionID != l.sessionID {
		return fmt.Errorf("restore: snapshot is for session %q, ledger is %q", s.SessionID, l.sessionID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cash = s.Cash
	l.initialCapital = s.InitialCapital
	l.totalRealized = s.TotalRealizedPnL
	l.totalCommissions = s.TotalCommissions
	l.totalTrades = s.TotalTrades
	l.peak = s.PeakValue

	l.positions = make(map[string]*Position, len(s.Positions))
	for _, pos := range s.Positions {
		p := pos
		l.positions[p.Symbol] = &p
	}
	l.applied = make(map[string]struct{}, len(s.AppliedFills))
	for _, fid := range s.AppliedFills {
		l.applied[fid] = struct{}{}
	}
	return nil
}

// SaveSnapshot marshals a snapshot through the journal. Failures are counted
// and logged, not propagated; snapshot frequency bounds the loss window.
func (l *Ledger) SaveSnapshot() {
	snap := l.Snapshot()
	payload, err := json.Marshal(snap)
	if err == nil {
		err = l.journal.SaveSnapshot(l.sessionID, snap.TakenAt, payload)
	}
	if err != nil {
		metrics.RecordPersistenceError("snapshot")
		logger.L().Error("snapshot write failed", "session", l.sessionID, "err", err)
	}
}

// LoadSnapshot restores the ledger from the journal's most recent snapshot.
// journal.ErrNoSnapshot means a fresh session and is returned untouched.
func (l *Ledger) LoadSnapshot() error {
	payload, err := l.journal.LoadSnapshot(l.sessionID)
	if err != nil {
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return l.Restore(snap)
}
