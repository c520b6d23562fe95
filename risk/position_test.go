package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/trade"
)

func TestPositionMaxSharesPerTrade(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Signal.Quantity = 5000

	d := CheckPositionLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "exceeds max shares per trade")
	assert.InDelta(t, 5.0, d.Score, 1e-9)
}

func TestPositionMaxDollarValue(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Signal.Quantity = 200
	in.Signal.Price = 400 // $80k > $50k limit

	d := CheckPositionLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "max dollar value per trade")
	assert.InDelta(t, 1.6, d.Score, 1e-9)
}

func TestPositionProjectedShares(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Portfolio.Positions["SPY"] = ledger.Position{Symbol: "SPY", Quantity: 1500, AvgPrice: 100}
	in.Signal.Quantity = 600
	in.Signal.Price = 80

	d := CheckPositionLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "max position shares")
	assert.InDelta(t, 2100.0/2000.0, d.Score, 1e-9)
}

func TestPositionProjectedDollars(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Portfolio.Positions["SPY"] = ledger.Position{Symbol: "SPY", Quantity: 400, AvgPrice: 240}
	in.Signal.Quantity = 100
	in.Signal.Price = 450 // projected 96000 + 45000 > 100000

	d := CheckPositionLimits(in, DefaultLimits())
	assert.False(t, d.Passed)
	assert.Contains(t, d.Reason, "max position dollars")
}

func TestPositionSellBeyondHoldings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		held int64
		sell int64
		want string
	}{
		{"no_position", 0, 100, "only own 0"},
		{"partial", 60, 100, "only own 60"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := testInput()
			in.Signal.Symbol = "AAPL"
			in.Signal.Action = trade.Sell
			in.Signal.Quantity = tt.sell
			if tt.held > 0 {
				in.Portfolio.Positions["AAPL"] = ledger.Position{Symbol: "AAPL", Quantity: tt.held, AvgPrice: 180}
			}

			d := CheckPositionLimits(in, DefaultLimits())
			assert.False(t, d.Passed)
			assert.Contains(t, d.Reason, tt.want)
		})
	}
}

func TestPositionSellWithinHoldings(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Signal.Action = trade.Sell
	in.Signal.Quantity = 50
	in.Portfolio.Positions["SPY"] = ledger.Position{Symbol: "SPY", Quantity: 100, AvgPrice: 100}

	d := CheckPositionLimits(in, DefaultLimits())
	assert.True(t, d.Passed)
}

func TestPositionPass(t *testing.T) {
	t.Parallel()

	in := testInput()
	d := CheckPositionLimits(in, DefaultLimits())
	assert.True(t, d.Passed)
	assert.InDelta(t, 0.2, d.Score, 1e-9) // 10000/50000 notional ratio
}
