package risk

import "fmt"

// Severity classification carried in loss-limit decision details. Hard
// breaches put the account in LOCKDOWN; soft signals in DEFENSIVE.
const (
	SeverityLockdown  = "lockdown"
	SeverityDefensive = "defensive"
)

// CheckLossLimits is the circuit breaker: daily loss in dollars or as a
// fraction of initial capital, consecutive-loss streaks, and drawdown from
// peak. Drawdown above the defensive threshold but below the hard maximum
// passes with DEFENSIVE flagged in details.
func CheckLossLimits(in Input, lim Limits) Decision {
	l := lim.Loss
	ds := in.Daily
	pf := in.Portfolio

	dayLoss := -ds.RealizedPnL // positive when losing

	if l.MaxDailyLoss > 0 && dayLoss >= l.MaxDailyLoss {
		return reject(RuleLoss,
			fmt.Sprintf("daily loss $%.2f breaches max daily loss $%.2f", dayLoss, l.MaxDailyLoss),
			ratio(dayLoss, l.MaxDailyLoss),
			map[string]any{"severity": SeverityLockdown, "daily_pnl": ds.RealizedPnL, "max_daily_loss": l.MaxDailyLoss})
	}

	if l.MaxDailyLossPct > 0 && pf.InitialCapital > 0 {
		limitDollars := l.MaxDailyLossPct * pf.InitialCapital
		if dayLoss >= limitDollars {
			return reject(RuleLoss,
				fmt.Sprintf("daily loss $%.2f breaches %.1f%% of initial capital ($%.2f)", dayLoss, 100*l.MaxDailyLossPct, limitDollars),
				ratio(dayLoss, limitDollars),
				map[string]any{"severity": SeverityLockdown, "daily_pnl": ds.RealizedPnL, "max_daily_loss_pct": l.MaxDailyLossPct})
		}
	}

	if l.MaxConsecutiveLosses > 0 && ds.ConsecutiveLosses >= l.MaxConsecutiveLosses {
		return reject(RuleLoss,
			fmt.Sprintf("%d consecutive losses, max %d", ds.ConsecutiveLosses, l.MaxConsecutiveLosses),
			ratio(float64(ds.ConsecutiveLosses), float64(l.MaxConsecutiveLosses)),
			map[string]any{"severity": SeverityDefensive, "consecutive_losses": ds.ConsecutiveLosses})
	}

	dd := pf.Drawdown
	ddDollars := pf.PeakValue - pf.PortfolioValue

	if l.MaxDrawdown > 0 && dd >= l.MaxDrawdown {
		return reject(RuleLoss,
			fmt.Sprintf("drawdown %.1f%% breaches max drawdown %.1f%%", 100*dd, 100*l.MaxDrawdown),
			ratio(dd, l.MaxDrawdown),
			map[string]any{"severity": SeverityLockdown, "drawdown": dd, "max_drawdown": l.MaxDrawdown})
	}
	if l.MaxDrawdownDollars > 0 && ddDollars >= l.MaxDrawdownDollars {
		return reject(RuleLoss,
			fmt.Sprintf("drawdown $%.2f breaches max drawdown dollars $%.2f", ddDollars, l.MaxDrawdownDollars),
			ratio(ddDollars, l.MaxDrawdownDollars),
			map[string]any{"severity": SeverityLockdown, "drawdown_dollars": ddDollars, "max_drawdown_dollars": l.MaxDrawdownDollars})
	}

	score := ratio(dayLoss, l.MaxDailyLoss)
	if s := ratio(dd, l.MaxDrawdown); s > score {
		score = s
	}
	if score < 0 {
		score = 0
	}

	details := map[string]any{"daily_pnl": ds.RealizedPnL, "drawdown": dd}
	if lim.Modes.DefensiveDrawdownThreshold > 0 && dd >= lim.Modes.DefensiveDrawdownThreshold {
		details["severity"] = SeverityDefensive
		details["mode"] = string(Defensive)
	}

	return pass(RuleLoss, score, details)
}
