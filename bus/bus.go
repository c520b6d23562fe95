// Package bus connects the pipeline to the message bus: strategy signals and
// execution fills in, admission decisions out, market bars in for ledger
// revaluation. Subject names mirror the execution collaborator's
// (strategy.signals.*, execution.fills.*, risk.approved/rejected.<symbol>).
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/pipeline"
	"github.com/rustyeddy/riskgate/trade"
)

type Config struct {
	URL            string `json:"url" yaml:"url"`
	SignalSubject  string `json:"signal_subject" yaml:"signal_subject"`
	FillSubject    string `json:"fill_subject" yaml:"fill_subject"`
	PriceSubject   string `json:"price_subject" yaml:"price_subject"`
	ApprovedPrefix string `json:"approved_prefix" yaml:"approved_prefix"`
	RejectedPrefix string `json:"rejected_prefix" yaml:"rejected_prefix"`
}

func DefaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL,
		SignalSubject:  "strategy.signals.*",
		FillSubject:    "execution.fills.*",
		PriceSubject:   "md.equity.*.bars.1m.replay",
		ApprovedPrefix: "risk.approved.",
		RejectedPrefix: "risk.rejected.",
	}
}

// bar is the market-data payload shape published by the data collaborator.
type bar struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Time   string  `json:"time"`
}

type Conn struct {
	nc  *nats.Conn
	cfg Config
	pl  *pipeline.Pipeline
}

func Connect(cfg Config, pl *pipeline.Pipeline) (*Conn, error) {
	nc, err := nats.Connect(cfg.URL, nats.Name("riskgate"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Conn{nc: nc, cfg: cfg, pl: pl}, nil
}

// Run subscribes and blocks until ctx ends, then drains in-flight messages.
// NATS delivers per subject in publish order, which gives each session's
// fills the arrival-order guarantee the ledger needs.
func (c *Conn) Run(ctx context.Context) error {
	subSignals, err := c.nc.Subscribe(c.cfg.SignalSubject, func(m *nats.Msg) {
		c.handleSignal(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.cfg.SignalSubject, err)
	}
	defer subSignals.Unsubscribe()

	subFills, err := c.nc.Subscribe(c.cfg.FillSubject, func(m *nats.Msg) {
		c.handleFill(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", c.cfg.FillSubject, err)
	}
	defer subFills.Unsubscribe()

	if c.cfg.PriceSubject != "" {
		subPrices, err := c.nc.Subscribe(c.cfg.PriceSubject, c.handleBar)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", c.cfg.PriceSubject, err)
		}
		defer subPrices.Unsubscribe()
	}

	logger.L().Info("bus connected",
		"url", c.cfg.URL, "signals", c.cfg.SignalSubject, "fills", c.cfg.FillSubject)

	<-ctx.Done()
	return c.nc.Drain()
}

func (c *Conn) Close() {
	c.nc.Close()
}

func (c *Conn) handleSignal(ctx context.Context, m *nats.Msg) {
	var sig trade.Signal
	if err := json.Unmarshal(m.Data, &sig); err != nil {
		logger.L().Error("bad signal payload", "subject", m.Subject, "err", err)
		return
	}
	if sig.StrategyID == "" {
		sig.StrategyID = subjectTail(m.Subject)
	}
	if _, err := c.pl.SubmitSignal(ctx, sig); err != nil {
		logger.L().Warn("signal not admitted", "subject", m.Subject, "err", err)
	}
}

func (c *Conn) handleFill(ctx context.Context, m *nats.Msg) {
	var f trade.Fill
	if err := json.Unmarshal(m.Data, &f); err != nil {
		logger.L().Error("bad fill payload", "subject", m.Subject, "err", err)
		return
	}
	if f.StrategyID == "" {
		f.StrategyID = subjectTail(m.Subject)
	}
	if _, err := c.pl.ApplyFill(ctx, f); err != nil {
		logger.L().Error("fill not applied", "subject", m.Subject, "err", err)
	}
}

func (c *Conn) handleBar(m *nats.Msg) {
	var b bar
	if err := json.Unmarshal(m.Data, &b); err != nil {
		logger.L().Error("bad bar payload", "subject", m.Subject, "err", err)
		return
	}
	if b.Symbol == "" || b.Close <= 0 {
		return
	}
	c.pl.UpdatePrices(map[string]float64{strings.ToUpper(b.Symbol): b.Close})
}

// decisionPayload is the outbound shape: the original signal plus the
// decision, with the rejection reason lifted to the top level.
type decisionPayload struct {
	pipeline.Result
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// PublishDecision implements pipeline.Publisher.
func (c *Conn) PublishDecision(res pipeline.Result) error {
	prefix := c.cfg.ApprovedPrefix
	payload := decisionPayload{Result: res}
	if res.Status == pipeline.StatusRejected {
		prefix = c.cfg.RejectedPrefix
		payload.RejectionReason = res.Decision.Reason
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	subject := prefix + strings.ToLower(res.Signal.Symbol)
	if err := c.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

func subjectTail(subject string) string {
	parts := strings.Split(subject, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}
