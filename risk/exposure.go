package risk

import (
	"fmt"

	"github.com/rustyeddy/riskgate/trade"
)

// CheckExposure bounds what a BUY would do to portfolio concentration:
// projected total exposure, projected single-symbol weight, and the cash
// reserve left after the trade. SELLs reduce exposure and pass.
func CheckExposure(in Input, lim Limits) Decision {
	p := lim.Portfolio

	if in.Signal.Action == trade.Sell {
		return pass(RuleExposure, 0, nil)
	}

	notional := in.Signal.Notional()
	total := in.Portfolio.PortfolioValue
	if total <= 0 {
		return reject(RuleExposure,
			fmt.Sprintf("portfolio value $%.2f cannot fund a $%.2f order", total, notional),
			notional, map[string]any{"portfolio_value": total})
	}

	projExposure := (in.Portfolio.Exposure + notional) / total
	if p.MaxPortfolioExposure > 0 && projExposure > p.MaxPortfolioExposure {
		return reject(RuleExposure,
			fmt.Sprintf("projected exposure %.1f%% exceeds max portfolio exposure %.1f%%", 100*projExposure, 100*p.MaxPortfolioExposure),
			ratio(projExposure, p.MaxPortfolioExposure),
			map[string]any{"projected_exposure": projExposure, "max_portfolio_exposure": p.MaxPortfolioExposure})
	}

	projPosition := (in.Portfolio.Position(in.Signal.Symbol).MarketValue() + notional) / total
	if p.MaxSinglePositionPct > 0 && projPosition > p.MaxSinglePositionPct {
		return reject(RuleExposure,
			fmt.Sprintf("projected %s position %.1f%% exceeds max single position %.1f%%", in.Signal.Symbol, 100*projPosition, 100*p.MaxSinglePositionPct),
			ratio(projPosition, p.MaxSinglePositionPct),
			map[string]any{"symbol": in.Signal.Symbol, "projected_position_pct": projPosition, "max_single_position_pct": p.MaxSinglePositionPct})
	}

	if p.ReserveCashPct > 0 {
		remaining := in.Portfolio.Cash - notional
		reserve := p.ReserveCashPct * total
		if remaining < reserve {
			return reject(RuleExposure,
				fmt.Sprintf("trade would leave $%.2f cash, below required reserve $%.2f", remaining, reserve),
				ratio(reserve, remaining),
				map[string]any{"remaining_cash": remaining, "required_reserve": reserve})
		}
	}

	score := ratio(projExposure, p.MaxPortfolioExposure)
	if s := ratio(projPosition, p.MaxSinglePositionPct); s > score {
		score = s
	}
	return pass(RuleExposure, score, map[string]any{"projected_exposure": projExposure})
}
