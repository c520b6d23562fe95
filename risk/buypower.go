package risk

import (
	"fmt"

	"github.com/rustyeddy/riskgate/trade"
)

// CheckBuyingPower gates a BUY on the funds figure the pipeline resolved,
// authoritative or fallback. A SELL frees cash and passes trivially.
func CheckBuyingPower(in Input, lim Limits) Decision {
	details := map[string]any{"source": in.BuyingPower.Source}

	if in.Signal.Action == trade.Sell {
		return pass(RuleBuyingPower, 0, details)
	}

	tradeValue := in.Signal.Notional()
	bp := in.BuyingPower.Amount
	details["trade_value"] = tradeValue
	details["buying_power"] = bp

	if in.BuyingPower.Source == SourceFallback && lim.FallbackPolicy == FallbackReject {
		return reject(RuleBuyingPower,
			"buying power source degraded and fallback approvals are disabled",
			1, details)
	}

	if tradeValue > bp {
		score := tradeValue
		if bp > 0 {
			score = tradeValue / bp
		}
		return reject(RuleBuyingPower,
			fmt.Sprintf("insufficient buying power: trade value $%.2f exceeds buying power $%.2f", tradeValue, bp),
			score, details)
	}

	return pass(RuleBuyingPower, ratio(tradeValue, bp), details)
}
