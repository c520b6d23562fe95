package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/riskgate/internal/id"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTransaction(t Transaction) error {
	if t.ID == "" {
		t.ID = id.New()
	}
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(txn_id, session_id, fill_id, symbol, action, quantity, price, commission,
		 realized_pnl, cash_before, cash_after, value_before, value_after, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SessionID, t.FillID, t.Symbol, t.Action, t.Quantity, t.Price,
		t.Commission, t.RealizedPnL, t.CashBefore, t.CashAfter, t.ValueBefore,
		t.ValueAfter, t.Time,
	)
	return err
}

func (j *SQLite) SaveState(s StateRecord, positions []PositionRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO portfolio_state
		(session_id, cash, initial_capital, total_realized_pnl, total_unrealized_pnl,
		 total_commissions, total_trades, peak_value, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SessionID, s.Cash, s.InitialCapital, s.TotalRealizedPnL,
		s.TotalUnrealizedPnL, s.TotalCommissions, s.TotalTrades, s.PeakValue,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM positions WHERE session_id = ?`, s.SessionID); err != nil {
		return err
	}

	for _, p := range positions {
		var last any
		if p.HasLastPrice {
			last = p.LastPrice
		}
		_, err := tx.Exec(`
			INSERT INTO positions
			(session_id, symbol, quantity, avg_price, last_price, unrealized_pnl, realized_pnl)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.SessionID, p.Symbol, p.Quantity, p.AvgPrice, last,
			p.UnrealizedPnL, p.RealizedPnL,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (j *SQLite) SaveSnapshot(sessionID string, takenAt time.Time, payload []byte) error {
	_, err := j.db.Exec(`
		INSERT INTO portfolio_snapshots (snapshot_id, session_id, taken_at, state)
		VALUES (?, ?, ?, ?)`,
		id.New(), sessionID, takenAt, string(payload),
	)
	return err
}

func (j *SQLite) LoadSnapshot(sessionID string) ([]byte, error) {
	var state string
	err := j.db.QueryRow(`
		SELECT state FROM portfolio_snapshots
		WHERE session_id = ?
		ORDER BY snapshot_id DESC LIMIT 1`, sessionID).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return []byte(state), nil
}

func (j *SQLite) ListTransactions(sessionID string, limit int) ([]Transaction, error) {
	q := `
		SELECT txn_id, session_id, fill_id, symbol, action, quantity, price,
		       commission, realized_pnl, cash_before, cash_after, value_before,
		       value_after, time
		FROM transactions WHERE session_id = ? ORDER BY txn_id`
	args := []any{sessionID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.SessionID, &t.FillID, &t.Symbol, &t.Action,
			&t.Quantity, &t.Price, &t.Commission, &t.RealizedPnL,
			&t.CashBefore, &t.CashAfter, &t.ValueBefore, &t.ValueAfter, &t.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
