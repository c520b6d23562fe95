package risk

import (
	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/stats"
)

// Mode is the account's trading posture. It is derived, never stored:
// every query recomputes it from ledger and daily-stats snapshots.
type Mode string

const (
	Normal    Mode = "NORMAL"
	Defensive Mode = "DEFENSIVE"
	Lockdown  Mode = "LOCKDOWN"
)

// ResolveMode computes the mode from drawdown and loss state. Any hard
// breach (daily loss dollars or percent, max drawdown dollars or percent)
// means LOCKDOWN; soft signals (loss streak, drawdown above the defensive
// threshold) mean DEFENSIVE when not already locked down.
func ResolveMode(pf ledger.State, ds stats.Snapshot, lim Limits) Mode {
	l := lim.Loss
	dayLoss := -ds.RealizedPnL
	ddDollars := pf.PeakValue - pf.PortfolioValue

	switch {
	case l.MaxDailyLoss > 0 && dayLoss >= l.MaxDailyLoss:
		return Lockdown
	case l.MaxDailyLossPct > 0 && pf.InitialCapital > 0 && dayLoss >= l.MaxDailyLossPct*pf.InitialCapital:
		return Lockdown
	case l.MaxDrawdown > 0 && pf.Drawdown >= l.MaxDrawdown:
		return Lockdown
	case l.MaxDrawdownDollars > 0 && ddDollars >= l.MaxDrawdownDollars:
		return Lockdown
	}

	switch {
	case l.MaxConsecutiveLosses > 0 && ds.ConsecutiveLosses >= l.MaxConsecutiveLosses:
		return Defensive
	case lim.Modes.DefensiveDrawdownThreshold > 0 && pf.Drawdown >= lim.Modes.DefensiveDrawdownThreshold:
		return Defensive
	}

	return Normal
}
