// Package pipeline orchestrates admission: it assembles consistent snapshots,
// runs the rule chain, publishes decisions, and folds confirmed fills back
// into the ledger exactly once, in order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/riskgate/internal/id"
	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/lock"
	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/metrics"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/trade"
)

// Signal lifecycle states.
const (
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Result is the outcome of admitting one signal, with full audit detail.
type Result struct {
	DecisionID string        `json:"decision_id"`
	SessionID  string        `json:"session_id"`
	Status     string        `json:"status"`
	Signal     trade.Signal  `json:"signal"`
	Decision   risk.Decision `json:"decision"`
	Mode       risk.Mode     `json:"mode"`
	Time       time.Time     `json:"time"`
}

// Publisher receives admission results for downstream consumers. The bus
// implements it; a nil publisher keeps decisions local.
type Publisher interface {
	PublishDecision(Result) error
}

// Options configures a Pipeline. Zero values get sensible defaults.
type Options struct {
	Limits         risk.Limits
	Journal        journal.Journal
	Locks          lock.Lock
	Remote         risk.BuyingPowerSource // optional shared-ledger query
	Publisher      Publisher
	InitialCapital float64
	PendingTTL     time.Duration // eviction window for approved-but-unfilled signals
	SnapshotEvery  int           // fills between periodic snapshots, 0 disables
	Now            func() time.Time
}

type Pipeline struct {
	limits   risk.Limits
	journal  journal.Journal
	locks    lock.Lock
	remote   risk.BuyingPowerSource
	pub      Publisher
	capital  float64
	now      func() time.Time
	snapshot int

	sessions *sessionSet
	pending  *pendingSet
}

func New(opts Options) *Pipeline {
	if opts.Journal == nil {
		opts.Journal = journal.NewMemory()
	}
	if opts.Locks == nil {
		opts.Locks = lock.NewLocal()
	}
	if opts.InitialCapital <= 0 {
		opts.InitialCapital = 100000
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		limits:   opts.Limits,
		journal:  opts.Journal,
		locks:    opts.Locks,
		remote:   opts.Remote,
		pub:      opts.Publisher,
		capital:  opts.InitialCapital,
		now:      opts.Now,
		snapshot: opts.SnapshotEvery,
		sessions: newSessionSet(),
		pending:  newPendingSet(opts.PendingTTL),
	}
}

// SetPublisher wires the decision publisher after construction; the bus and
// pipeline reference each other, so one of the two is attached late.
func (p *Pipeline) SetPublisher(pub Publisher) { p.pub = pub }

// SubmitSignal runs one signal through admission. A malformed signal is a
// validation error and never reaches the rule chain. The returned Result is
// the full audit record, also handed to the publisher.
func (p *Pipeline) SubmitSignal(ctx context.Context, sig trade.Signal) (Result, error) {
	if err := sig.Validate(); err != nil {
		return Result{}, fmt.Errorf("signal rejected: %w", err)
	}

	sessionID := sessionFor(sig.BacktestID, sig.StrategyID)
	sess := p.sessions.get(sessionID, p.newSession)

	pf := sess.ledger.State()
	ds := sess.tracker.Snapshot()
	now := p.now()

	mode := risk.ResolveMode(pf, ds, p.limits)

	var dec risk.Decision
	if mode == risk.Lockdown && p.limits.Modes.HaltOnLockdown {
		dec = risk.Decision{
			RuleName: risk.RuleMode,
			Passed:   false,
			Reason:   "trading halted: account is in LOCKDOWN",
			Score:    1,
			Details:  map[string]any{"mode": string(mode)},
		}
	} else {
		lim := p.limits
		if mode == risk.Defensive {
			lim = tighten(lim)
		}
		bp := risk.ResolveBuyingPower(ctx, p.remote, pf)
		dec = risk.EvaluateWith(risk.Input{
			Signal:      sig,
			Portfolio:   pf,
			Daily:       ds,
			BuyingPower: bp,
			Now:         now,
		}, lim)
	}

	sess.tracker.RecordDecision(dec.Passed, sig)
	metrics.RecordDecision(dec.Passed, dec.RuleName)

	res := Result{
		DecisionID: id.New(),
		SessionID:  sessionID,
		Status:     StatusRejected,
		Signal:     sig,
		Decision:   dec,
		Mode:       mode,
		Time:       now,
	}
	if dec.Passed {
		res.Status = StatusApproved
		p.pending.add(sig, sessionID, now)
	}

	if p.pub != nil {
		if err := p.pub.PublishDecision(res); err != nil {
			logger.L().Error("publish decision failed",
				"session", sessionID, "symbol", sig.Symbol, "err", err)
		}
	}

	logger.L().Info("signal evaluated",
		"session", sessionID, "symbol", sig.Symbol, "action", sig.Action,
		"status", res.Status, "rule", dec.RuleName, "reason", dec.Reason,
		"score", dec.Score, "mode", mode)

	return res, nil
}

// ApplyFill folds a confirmed fill into its session's ledger, then the daily
// stats, then persists. Fills are strictly serialized per session; duplicate
// fill ids and SELLs with no position abort without mutation.
func (p *Pipeline) ApplyFill(ctx context.Context, f trade.Fill) (ledger.FillResult, error) {
	if err := f.Validate(); err != nil {
		return ledger.FillResult{}, fmt.Errorf("fill rejected: %w", err)
	}

	sessionID := p.pending.take(f, p.now())
	if sessionID == "" {
		sessionID = sessionFor("", f.StrategyID)
	}
	sess := p.sessions.get(sessionID, p.newSession)

	if err := p.locks.Acquire(ctx, sessionID, risk.QueryTimeout); err != nil {
		return ledger.FillResult{}, fmt.Errorf("acquire session lock: %w", err)
	}
	defer p.locks.Release(ctx, sessionID)

	res, err := sess.ledger.ProcessFill(f)
	if err != nil {
		logger.L().Error("fill not applied",
			"session", sessionID, "fill", f.FillID, "symbol", f.Symbol, "err", err)
		return ledger.FillResult{}, err
	}

	sess.tracker.RecordFill(f, res.RealizedPnL)
	sess.ledger.Persist()

	if p.snapshot > 0 {
		sess.fills++
		if sess.fills%p.snapshot == 0 {
			sess.ledger.SaveSnapshot()
		}
	}

	logger.L().Info("fill applied",
		"session", sessionID, "fill", f.FillID, "symbol", f.Symbol,
		"action", f.Action, "quantity", f.Quantity, "price", f.Price,
		"cash_after", res.CashAfter, "realized_pnl", res.RealizedPnL)

	return res, nil
}

// UpdatePrices forwards market prices to every session's ledger.
func (p *Pipeline) UpdatePrices(prices map[string]float64) {
	for _, sess := range p.sessions.all() {
		sess.ledger.UpdateMarketPrices(prices)
	}
}

// tighten scales the per-order and per-position limits by the defensive
// factor when the account is in DEFENSIVE mode.
func tighten(lim risk.Limits) risk.Limits {
	f := lim.Modes.DefensiveLimitFactor
	if f <= 0 || f >= 1 {
		return lim
	}
	lim.Position.MaxSharesPerTrade = int64(float64(lim.Position.MaxSharesPerTrade) * f)
	lim.Position.MaxDollarValuePerTrade = lim.Position.MaxDollarValuePerTrade * f
	lim.Position.MaxPositionShares = int64(float64(lim.Position.MaxPositionShares) * f)
	lim.Position.MaxPositionDollars = lim.Position.MaxPositionDollars * f
	return lim
}

// sessionFor maps a signal to its accounting session: the backtest
// correlation id when replaying, otherwise the strategy.
func sessionFor(backtestID, strategyID string) string {
	if backtestID != "" {
		return backtestID
	}
	if strategyID != "" {
		return strategyID
	}
	return "live"
}
