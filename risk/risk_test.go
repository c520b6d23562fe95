package risk

import (
	"time"

	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/stats"
	"github.com/rustyeddy/riskgate/trade"
)

// testInput is a healthy account: $100k cash, no positions, no trades today.
// Individual tests perturb exactly what they exercise.
func testInput() Input {
	return Input{
		Signal: trade.Signal{
			StrategyID: "s1",
			Symbol:     "SPY",
			Action:     trade.Buy,
			Quantity:   100,
			Price:      100,
		},
		Portfolio: ledger.State{
			SessionID:      "sess-1",
			Cash:           100000,
			InitialCapital: 100000,
			Positions:      map[string]ledger.Position{},
			PortfolioValue: 100000,
			BuyingPower:    100000,
			PeakValue:      100000,
		},
		Daily: stats.Snapshot{
			SymbolCounts: map[string]int{},
		},
		BuyingPower: BuyingPower{Amount: 100000, Source: SourceAuthoritative},
		Now:         time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
	}
}
