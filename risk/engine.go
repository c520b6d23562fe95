// Package risk is the admission-control rule engine: an ordered,
// short-circuiting chain of five independent checks, each pure over a signal
// and consistent ledger and daily-stats snapshots.
package risk

// Check is one admission rule.
type Check func(Input, Limits) Decision

// chain is the fixed evaluation order. The first failure wins; nothing after
// it runs.
var chain = []Check{
	CheckFrequency,
	CheckPositionLimits,
	CheckBuyingPower,
	CheckLossLimits,
	CheckExposure,
}

type Engine struct {
	limits Limits
}

func NewEngine(lim Limits) *Engine {
	return &Engine{limits: lim}
}

func (e *Engine) Limits() Limits { return e.limits }

// Evaluate runs the chain against in. On a failure the failing check's
// decision is returned verbatim. When everything passes, the synthetic
// all-passed decision carries the maximum score seen across the chain,
// a dashboard figure, not an admission input.
func (e *Engine) Evaluate(in Input) Decision {
	return EvaluateWith(in, e.limits)
}

// EvaluateWith runs the chain with explicit limits, letting the pipeline
// tighten limits per mode without rebuilding the engine.
func EvaluateWith(in Input, lim Limits) Decision {
	var maxScore float64
	details := map[string]any{"source": in.BuyingPower.Source}

	for _, check := range chain {
		d := check(in, lim)
		if !d.Passed {
			return d
		}
		if d.Score > maxScore {
			maxScore = d.Score
		}
		if d.Details != nil {
			if sev, ok := d.Details["severity"]; ok {
				details["severity"] = sev
			}
		}
	}

	return Decision{
		RuleName: RuleAll,
		Passed:   true,
		Score:    maxScore,
		Details:  details,
	}
}
