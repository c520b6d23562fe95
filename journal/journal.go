// Package journal is the persistence contract for the portfolio ledger: an
// append-only transaction log, the current scalar ledger state with its open
// positions, and periodic snapshots for fast restart.
//
// Writes are best-effort durability. The in-memory ledger is the source of
// truth for a running process; a failed write is surfaced to the caller, who
// counts it and carries on.
package journal

import (
	"errors"
	"time"
)

// ErrNoSnapshot is returned by LoadSnapshot when no snapshot has been stored
// for the session.
var ErrNoSnapshot = errors.New("journal: no snapshot for session")

// Transaction is one row of the append-only log, one per processed fill.
// Before/after cash and portfolio value support audit and replay-from-log
// recovery.
type Transaction struct {
	ID          string
	SessionID   string
	FillID      string
	Symbol      string
	Action      string
	Quantity    int64
	Price       float64
	Commission  float64
	RealizedPnL float64
	CashBefore  float64
	CashAfter   float64
	ValueBefore float64
	ValueAfter  float64
	Time        time.Time
}

// PositionRecord is one open position keyed by (session, symbol).
type PositionRecord struct {
	SessionID     string
	Symbol        string
	Quantity      int64
	AvgPrice      float64
	LastPrice     float64
	HasLastPrice  bool
	UnrealizedPnL float64
	RealizedPnL   float64
}

// StateRecord holds the scalar ledger fields for a session.
type StateRecord struct {
	SessionID          string
	Cash               float64
	InitialCapital     float64
	TotalRealizedPnL   float64
	TotalUnrealizedPnL float64
	TotalCommissions   float64
	TotalTrades        int64
	PeakValue          float64
	UpdatedAt          time.Time
}

type Journal interface {
	// RecordTransaction appends one row to the transaction log.
	RecordTransaction(Transaction) error

	// SaveState replaces the stored state and open positions for the
	// record's session in a single atomic write.
	SaveState(StateRecord, []PositionRecord) error

	// SaveSnapshot stores an opaque ledger snapshot for fast restart.
	SaveSnapshot(sessionID string, takenAt time.Time, payload []byte) error

	// LoadSnapshot returns the most recent snapshot payload for the
	// session, or ErrNoSnapshot.
	LoadSnapshot(sessionID string) ([]byte, error)

	// ListTransactions returns up to limit log rows for the session in
	// append order (limit <= 0 means all).
	ListTransactions(sessionID string, limit int) ([]Transaction, error)

	Close() error
}
