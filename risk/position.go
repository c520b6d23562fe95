package risk

import (
	"fmt"

	"github.com/rustyeddy/riskgate/trade"
)

// CheckPositionLimits bounds a single order's size and, for a BUY, the
// projected post-trade position. For a SELL it is the hard consistency guard:
// quantity must not exceed what the session actually holds.
func CheckPositionLimits(in Input, lim Limits) Decision {
	p := lim.Position
	sig := in.Signal
	notional := sig.Notional()

	if p.MaxSharesPerTrade > 0 && sig.Quantity > p.MaxSharesPerTrade {
		return reject(RulePosition,
			fmt.Sprintf("order of %d shares exceeds max shares per trade %d", sig.Quantity, p.MaxSharesPerTrade),
			ratio(float64(sig.Quantity), float64(p.MaxSharesPerTrade)),
			map[string]any{"quantity": sig.Quantity, "max_shares_per_trade": p.MaxSharesPerTrade})
	}

	if p.MaxDollarValuePerTrade > 0 && notional > p.MaxDollarValuePerTrade {
		return reject(RulePosition,
			fmt.Sprintf("order value $%.2f exceeds max dollar value per trade $%.2f", notional, p.MaxDollarValuePerTrade),
			ratio(notional, p.MaxDollarValuePerTrade),
			map[string]any{"notional": notional, "max_dollar_value_per_trade": p.MaxDollarValuePerTrade})
	}

	held := in.Portfolio.Position(sig.Symbol)

	switch sig.Action {
	case trade.Buy:
		projShares := held.Quantity + sig.Quantity
		if p.MaxPositionShares > 0 && projShares > p.MaxPositionShares {
			return reject(RulePosition,
				fmt.Sprintf("projected position of %d shares in %s exceeds max position shares %d", projShares, sig.Symbol, p.MaxPositionShares),
				ratio(float64(projShares), float64(p.MaxPositionShares)),
				map[string]any{"projected_shares": projShares, "max_position_shares": p.MaxPositionShares})
		}
		projDollars := held.MarketValue() + notional
		if p.MaxPositionDollars > 0 && projDollars > p.MaxPositionDollars {
			return reject(RulePosition,
				fmt.Sprintf("projected position of $%.2f in %s exceeds max position dollars $%.2f", projDollars, sig.Symbol, p.MaxPositionDollars),
				ratio(projDollars, p.MaxPositionDollars),
				map[string]any{"projected_dollars": projDollars, "max_position_dollars": p.MaxPositionDollars})
		}

	case trade.Sell:
		if sig.Quantity > held.Quantity {
			score := float64(sig.Quantity)
			if held.Quantity > 0 {
				score = float64(sig.Quantity) / float64(held.Quantity)
			}
			return reject(RulePosition,
				fmt.Sprintf("cannot sell %d shares of %s, only own %d", sig.Quantity, sig.Symbol, held.Quantity),
				score,
				map[string]any{"quantity": sig.Quantity, "held": held.Quantity})
		}
	}

	score := ratio(float64(sig.Quantity), float64(p.MaxSharesPerTrade))
	if s := ratio(notional, p.MaxDollarValuePerTrade); s > score {
		score = s
	}
	return pass(RulePosition, score, map[string]any{"notional": notional})
}
