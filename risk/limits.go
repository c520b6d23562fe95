package risk

// Limit values of zero disable the corresponding check, so a partial config
// tightens only what it names.

type FrequencyLimits struct {
	MaxTradesPerDay      int `json:"max_trades_per_day" yaml:"max_trades_per_day"`
	MinTimeBetweenTrades int `json:"min_time_between_trades" yaml:"min_time_between_trades"` // seconds
	MaxTradesPerSymbol   int `json:"max_trades_per_symbol" yaml:"max_trades_per_symbol"`
	MaxTradesPerMinute   int `json:"max_trades_per_minute" yaml:"max_trades_per_minute"`
}

type PositionLimits struct {
	MaxSharesPerTrade      int64   `json:"max_shares_per_trade" yaml:"max_shares_per_trade"`
	MaxDollarValuePerTrade float64 `json:"max_dollar_value_per_trade" yaml:"max_dollar_value_per_trade"`
	MaxPositionShares      int64   `json:"max_position_shares" yaml:"max_position_shares"`
	MaxPositionDollars     float64 `json:"max_position_dollars" yaml:"max_position_dollars"`
}

type LossLimits struct {
	MaxDailyLoss         float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxDailyLossPct      float64 `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"` // fraction of initial capital
	MaxConsecutiveLosses int     `json:"max_consecutive_losses" yaml:"max_consecutive_losses"`
	MaxDrawdown          float64 `json:"max_drawdown" yaml:"max_drawdown"` // fraction of peak
	MaxDrawdownDollars   float64 `json:"max_drawdown_dollars" yaml:"max_drawdown_dollars"`
}

type PortfolioLimits struct {
	MaxPortfolioExposure float64 `json:"max_portfolio_exposure" yaml:"max_portfolio_exposure"` // fraction of total value
	MaxSinglePositionPct float64 `json:"max_single_position_pct" yaml:"max_single_position_pct"`
	ReserveCashPct       float64 `json:"reserve_cash_pct" yaml:"reserve_cash_pct"`
}

// ModeLimits holds the mode thresholds plus the pipeline's mode policy.
// What LOCKDOWN and DEFENSIVE actually do to trading is configuration, not
// controller behavior.
type ModeLimits struct {
	DefensiveDrawdownThreshold float64 `json:"defensive_drawdown_threshold" yaml:"defensive_drawdown_threshold"`
	HaltOnLockdown             bool    `json:"halt_on_lockdown" yaml:"halt_on_lockdown"`
	DefensiveLimitFactor       float64 `json:"defensive_limit_factor" yaml:"defensive_limit_factor"` // scales position limits in DEFENSIVE
}

// Fallback policies for a degraded buying-power source.
const (
	FallbackApprove = "approve"
	FallbackReject  = "reject"
)

type Limits struct {
	Frequency FrequencyLimits `json:"frequency_limits" yaml:"frequency_limits"`
	Position  PositionLimits  `json:"position_limits" yaml:"position_limits"`
	Loss      LossLimits      `json:"loss_limits" yaml:"loss_limits"`
	Portfolio PortfolioLimits `json:"portfolio_limits" yaml:"portfolio_limits"`
	Modes     ModeLimits      `json:"modes" yaml:"modes"`

	// FallbackPolicy decides whether a BUY may be admitted on a
	// fallback-sourced buying-power figure ("approve") or is rejected
	// until the authoritative source recovers ("reject").
	FallbackPolicy string `json:"fallback_policy" yaml:"fallback_policy"`
}

func DefaultLimits() Limits {
	return Limits{
		Frequency: FrequencyLimits{
			MaxTradesPerDay:      50,
			MinTimeBetweenTrades: 30,
			MaxTradesPerSymbol:   10,
			MaxTradesPerMinute:   5,
		},
		Position: PositionLimits{
			MaxSharesPerTrade:      1000,
			MaxDollarValuePerTrade: 50000,
			MaxPositionShares:      2000,
			MaxPositionDollars:     100000,
		},
		Loss: LossLimits{
			MaxDailyLoss:         5000,
			MaxDailyLossPct:      0.05,
			MaxConsecutiveLosses: 5,
			MaxDrawdown:          0.15,
			MaxDrawdownDollars:   15000,
		},
		Portfolio: PortfolioLimits{
			MaxPortfolioExposure: 0.80,
			MaxSinglePositionPct: 0.25,
			ReserveCashPct:       0.10,
		},
		Modes: ModeLimits{
			DefensiveDrawdownThreshold: 0.08,
			HaltOnLockdown:             true,
			DefensiveLimitFactor:       0.5,
		},
		FallbackPolicy: FallbackApprove,
	}
}
