package ledger

// Position is a single long equity holding. Quantity is never negative:
// the rule engine blocks any SELL beyond the held quantity, and the ledger
// itself refuses a SELL with no position at all.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      int64   `json:"quantity"`
	AvgPrice      float64 `json:"avg_price"`
	LastPrice     float64 `json:"last_price"`
	HasLastPrice  bool    `json:"has_last_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	RealizedPnL   float64 `json:"realized_pnl"`
}

// MarkPrice is the price used to value the position: the last market price
// when one has arrived, otherwise the average entry price.
func (p Position) MarkPrice() float64 {
	if p.HasLastPrice {
		return p.LastPrice
	}
	return p.AvgPrice
}

// MarketValue is the position's contribution to portfolio value.
func (p Position) MarketValue() float64 {
	return float64(p.Quantity) * p.MarkPrice()
}
