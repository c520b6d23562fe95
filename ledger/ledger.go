// Package ledger is the authoritative cash, position, and P&L bookkeeping for
// one trading session. All exposure-changing mutation funnels through
// ProcessFill; risk checks and the mode controller only ever see read
// snapshots.
package ledger

import (
	"sync"
	"time"

	"github.com/rustyeddy/riskgate/internal/id"
	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/metrics"
	"github.com/rustyeddy/riskgate/trade"
)

// State is a point-in-time projection of the ledger, safe to hand to rule
// checks while fills keep arriving.
type State struct {
	SessionID          string              `json:"session_id"`
	Cash               float64             `json:"cash"`
	InitialCapital     float64             `json:"initial_capital"`
	Positions          map[string]Position `json:"positions"`
	TotalRealizedPnL   float64             `json:"total_realized_pnl"`
	TotalUnrealizedPnL float64             `json:"total_unrealized_pnl"`
	TotalCommissions   float64             `json:"total_commissions"`
	TotalTrades        int64               `json:"total_trades"`
	PeakValue          float64             `json:"peak_value"`

	// Derived fields, computed at snapshot time.
	PortfolioValue float64 `json:"portfolio_value"`
	BuyingPower    float64 `json:"buying_power"` // = Cash; margin is not modeled
	Exposure       float64 `json:"exposure"`     // Σ|quantity × mark price|
	Drawdown       float64 `json:"drawdown"`     // (peak − value) / peak, clamped to 0
}

// Position returns the snapshot position for symbol, zero-valued if not held.
func (s State) Position(symbol string) Position {
	return s.Positions[symbol]
}

// FillResult reports the ledger after one applied fill.
type FillResult struct {
	CashAfter      float64
	PortfolioValue float64
	RealizedPnL    float64
}

// Ledger applies fills strictly in arrival order under a single mutex.
// Fill math is not commutative: avgPrice and realized P&L depend on order.
type Ledger struct {
	mu        sync.Mutex
	sessionID string

	cash           float64
	initialCapital float64
	positions      map[string]*Position

	totalRealized    float64
	totalCommissions float64
	totalTrades      int64
	peak             float64

	applied map[string]struct{} // fill ids already folded in

	journal journal.Journal
	now     func() time.Time
}

func New(sessionID string, initialCapital float64, j journal.Journal) *Ledger {
	return &Ledger{
		sessionID:      sessionID,
		cash:           initialCapital,
		initialCapital: initialCapital,
		positions:      make(map[string]*Position),
		peak:           initialCapital,
		applied:        make(map[string]struct{}),
		journal:        j,
		now:            time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *Ledger) SessionID() string { return l.sessionID }

// ProcessFill folds one fill into the ledger. BUY debits cash and re-weights
// avgPrice; SELL realizes P&L against avgPrice and credits cash, removing the
// position when it reaches exactly zero. Each applied fill appends one
// transaction-log row. Replayed fill ids and SELLs with no position abort
// without touching state.
func (l *Ledger) ProcessFill(f trade.Fill) (FillResult, error) {
	if err := f.Validate(); err != nil {
		return FillResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, dup := l.applied[f.FillID]; dup {
		metrics.RecordDuplicateFill()
		return FillResult{}, &DuplicateFillError{FillID: f.FillID}
	}

	cashBefore := l.cash
	valueBefore := l.portfolioValueLocked()

	var realized float64

	switch f.Action {
	case trade.Buy:
		pos, ok := l.positions[f.Symbol]
		if !ok {
			pos = &Position{Symbol: f.Symbol}
			l.positions[f.Symbol] = pos
		}
		newQty := pos.Quantity + f.Quantity
		pos.AvgPrice = (float64(pos.Quantity)*pos.AvgPrice + float64(f.Quantity)*f.Price) / float64(newQty)
		pos.Quantity = newQty
		l.cash -= float64(f.Quantity)*f.Price + f.Commission

	case trade.Sell:
		pos, ok := l.positions[f.Symbol]
		if !ok {
			return FillResult{}, &NoPositionError{Symbol: f.Symbol}
		}
		// A SELL never moves avgPrice, only quantity and realized P&L.
		realized = float64(f.Quantity)*(f.Price-pos.AvgPrice) - f.Commission
		pos.Quantity -= f.Quantity
		pos.RealizedPnL += realized
		l.totalRealized += realized
		l.cash += float64(f.Quantity)*f.Price - f.Commission
		if pos.Quantity == 0 {
			delete(l.positions, f.Symbol)
		}
	}

	if pos, ok := l.positions[f.Symbol]; ok {
		l.revaluePositionLocked(pos)
	}

	l.totalCommissions += f.Commission
	l.totalTrades++
	l.applied[f.FillID] = struct{}{}

	value := l.portfolioValueLocked()
	if value > l.peak {
		l.peak = value
	}
	metrics.RecordFill(string(f.Action))
	metrics.SetPortfolio(l.sessionID, value, drawdown(l.peak, value))

	fillTime := f.Time
	if fillTime.IsZero() {
		fillTime = l.now()
	}
	err := l.journal.RecordTransaction(journal.Transaction{
		ID:          id.New(),
		SessionID:   l.sessionID,
		FillID:      f.FillID,
		Symbol:      f.Symbol,
		Action:      string(f.Action),
		Quantity:    f.Quantity,
		Price:       f.Price,
		Commission:  f.Commission,
		RealizedPnL: realized,
		CashBefore:  cashBefore,
		CashAfter:   l.cash,
		ValueBefore: valueBefore,
		ValueAfter:  value,
		Time:        fillTime,
	})
	if err != nil {
		// The in-memory ledger stays the source of truth; the failed write
		// is counted so a persistence outage is visible to operators.
		metrics.RecordPersistenceError("transaction")
		logger.L().Error("transaction log write failed",
			"session", l.sessionID, "fill", f.FillID, "err", err)
	}

	return FillResult{
		CashAfter:      l.cash,
		PortfolioValue: value,
		RealizedPnL:    realized,
	}, nil
}

// UpdateMarketPrices overwrites last prices and recomputes unrealized P&L for
// held symbols. Cash and realized figures are untouched; symbols not held are
// ignored.
func (l *Ledger) UpdateMarketPrices(prices map[string]float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for sym, price := range prices {
		pos, ok := l.positions[sym]
		if !ok {
			continue
		}
		pos.LastPrice = price
		pos.HasLastPrice = true
		l.revaluePositionLocked(pos)
	}

	value := l.portfolioValueLocked()
	if value > l.peak {
		l.peak = value
	}
	metrics.SetPortfolio(l.sessionID, value, drawdown(l.peak, value))
}

// State returns a deep-copied projection of the ledger.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	positions := make(map[string]Position, len(l.positions))
	var unrealized, exposure float64
	for sym, pos := range l.positions {
		positions[sym] = *pos
		unrealized += pos.UnrealizedPnL
		mv := pos.MarketValue()
		if mv < 0 {
			mv = -mv
		}
		exposure += mv
	}

	value := l.portfolioValueLocked()

	return State{
		SessionID:          l.sessionID,
		Cash:               l.cash,
		InitialCapital:     l.initialCapital,
		Positions:          positions,
		TotalRealizedPnL:   l.totalRealized,
		TotalUnrealizedPnL: unrealized,
		TotalCommissions:   l.totalCommissions,
		TotalTrades:        l.totalTrades,
		PeakValue:          l.peak,
		PortfolioValue:     value,
		BuyingPower:        l.cash,
		Exposure:           exposure,
		Drawdown:           drawdown(l.peak, value),
	}
}

// Persist writes the current state and open positions through the journal.
// A failed write is counted and logged, never rolled back.
func (l *Ledger) Persist() {
	l.mu.Lock()
	state := journal.StateRecord{
		SessionID:          l.sessionID,
		Cash:               l.cash,
		InitialCapital:     l.initialCapital,
		TotalRealizedPnL:   l.totalRealized,
		TotalUnrealizedPnL: l.totalUnrealizedLocked(),
		TotalCommissions:   l.totalCommissions,
		TotalTrades:        l.totalTrades,
		PeakValue:          l.peak,
		UpdatedAt:          l.now(),
	}
	positions := make([]journal.PositionRecord, 0, len(l.positions))
	for _, pos := range l.positions {
		positions = append(positions, journal.PositionRecord{
			SessionID:     l.sessionID,
			Symbol:        pos.Symbol,
			Quantity:      pos.Quantity,
			AvgPrice:      pos.AvgPrice,
			LastPrice:     pos.LastPrice,
			HasLastPrice:  pos.HasLastPrice,
			UnrealizedPnL: pos.UnrealizedPnL,
			RealizedPnL:   pos.RealizedPnL,
		})
	}
	l.mu.Unlock()

	if err := l.journal.SaveState(state, positions); err != nil {
		metrics.RecordPersistenceError("state")
		logger.L().Error("state write failed", "session", l.sessionID, "err", err)
	}
}

func (l *Ledger) revaluePositionLocked(pos *Position) {
	if pos.HasLastPrice {
		pos.UnrealizedPnL = float64(pos.Quantity) * (pos.LastPrice - pos.AvgPrice)
	} else {
		pos.UnrealizedPnL = 0
	}
}

func (l *Ledger) portfolioValueLocked() float64 {
	value := l.cash
	for _, pos := range l.positions {
		value += pos.MarketValue()
	}
	return value
}

func (l *Ledger) totalUnrealizedLocked() float64 {
	var sum float64
	for _, pos := range l.positions {
		sum += pos.UnrealizedPnL
	}
	return sum
}

func drawdown(peak, value float64) float64 {
	if peak <= 0 {
		return 0
	}
	dd := (peak - value) / peak
	if dd < 0 {
		return 0
	}
	return dd
}
