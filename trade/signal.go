package trade

import (
	"fmt"
	"time"
)

// Action is the direction of a proposed or executed trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Signal is a proposed trade awaiting risk admission. Immutable once issued.
type Signal struct {
	StrategyID string    `json:"strategy_id"`
	Symbol     string    `json:"symbol"`
	Action     Action    `json:"action"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	BacktestID string    `json:"backtest_id,omitempty"`
	Time       time.Time `json:"time,omitempty"`
}

// Notional returns the dollar value of the proposed trade.
func (s Signal) Notional() float64 {
	return float64(s.Quantity) * s.Price
}

func (s Signal) Validate() error {
	if s.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must be set"}
	}
	if s.Action != Buy && s.Action != Sell {
		return &ValidationError{Field: "action", Reason: fmt.Sprintf("must be BUY or SELL, got %q", s.Action)}
	}
	if s.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if s.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	return nil
}
