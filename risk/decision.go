package risk

import (
	"time"

	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/stats"
	"github.com/rustyeddy/riskgate/trade"
)

// Rule names, in chain order.
const (
	RuleFrequency   = "frequency"
	RulePosition    = "position_limits"
	RuleBuyingPower = "buying_power"
	RuleLoss        = "loss_limits"
	RuleExposure    = "exposure"
	RuleAll         = "all" // synthetic all-passed decision
	RuleMode        = "mode"
	RuleValidation  = "validation"
)

// Buying-power source labels, kept in decision details so audit can tell a
// degraded decision from an authoritative one.
const (
	SourceAuthoritative = "authoritative"
	SourceFallback      = "fallback"
)

// BuyingPower is the figure the buying-power check gates on, resolved by the
// pipeline before the chain runs.
type BuyingPower struct {
	Amount float64
	Source string
}

// Decision is the outcome of one rule check, or of the whole chain. A score
// above 1 means the limit it measures was breached.
type Decision struct {
	RuleName string         `json:"rule_name"`
	Passed   bool           `json:"passed"`
	Reason   string         `json:"reason,omitempty"`
	Score    float64        `json:"score"`
	Details  map[string]any `json:"details,omitempty"`
}

func pass(rule string, score float64, details map[string]any) Decision {
	return Decision{RuleName: rule, Passed: true, Score: score, Details: details}
}

func reject(rule, reason string, score float64, details map[string]any) Decision {
	return Decision{RuleName: rule, Passed: false, Reason: reason, Score: score, Details: details}
}

// Input is the consistent snapshot set a chain evaluation runs against.
// Checks are pure over it: a fill arriving mid-evaluation cannot change what
// the chain sees.
type Input struct {
	Signal      trade.Signal
	Portfolio   ledger.State
	Daily       stats.Snapshot
	BuyingPower BuyingPower
	Now         time.Time
}

// ratio is the score convention: actual over limit, with a disabled or zero
// limit scored as the raw actual so violations are still > 1.
func ratio(actual, limit float64) float64 {
	if limit <= 0 {
		return actual
	}
	return actual / limit
}
