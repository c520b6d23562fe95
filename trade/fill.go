package trade

import (
	"fmt"
	"time"
)

// Fill is a confirmed execution of an approved signal, as reported by the
// execution venue. Exactly one ledger mutation results per unique FillID.
type Fill struct {
	FillID     string    `json:"fill_id"`
	StrategyID string    `json:"strategy_id"`
	Symbol     string    `json:"symbol"`
	Action     Action    `json:"action"`
	Quantity   int64     `json:"quantity"`
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	Time       time.Time `json:"timestamp,omitempty"`
}

func (f Fill) Validate() error {
	if f.FillID == "" {
		return &ValidationError{Field: "fill_id", Reason: "must be set"}
	}
	if f.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must be set"}
	}
	if f.Action != Buy && f.Action != Sell {
		return &ValidationError{Field: "action", Reason: fmt.Sprintf("must be BUY or SELL, got %q", f.Action)}
	}
	if f.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if f.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if f.Commission < 0 {
		return &ValidationError{Field: "commission", Reason: "must not be negative"}
	}
	return nil
}
