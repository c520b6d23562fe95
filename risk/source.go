package risk

import (
	"context"
	"time"

	"github.com/rustyeddy/riskgate/ledger"
	"github.com/rustyeddy/riskgate/logger"
	"github.com/rustyeddy/riskgate/metrics"
)

// QueryTimeout bounds a buying-power lookup that crosses a service boundary.
// Evaluation never blocks longer than this on a collaborator.
const QueryTimeout = 2 * time.Second

// BuyingPowerSource answers buying-power queries for a session. The ledger
// itself satisfies this in-process; server.Client does so across a network
// boundary, where the answer may be a second or two stale.
type BuyingPowerSource interface {
	QueryBuyingPower(ctx context.Context, sessionID string) (float64, error)
}

// ResolveBuyingPower produces the figure the buying-power check gates on.
// With no remote source the local snapshot is authoritative. With one, a
// successful query is authoritative and a failure falls back to a figure
// recomputed from the cached snapshot (portfolio value minus exposure),
// marked degraded for downstream audit.
func ResolveBuyingPower(ctx context.Context, src BuyingPowerSource, pf ledger.State) BuyingPower {
	if src == nil {
		return BuyingPower{Amount: pf.BuyingPower, Source: SourceAuthoritative}
	}

	qctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	amount, err := src.QueryBuyingPower(qctx, pf.SessionID)
	if err != nil {
		metrics.RecordFallbackDecision()
		logger.L().Warn("buying power query failed, using fallback",
			"session", pf.SessionID, "err", err)
		return BuyingPower{Amount: pf.PortfolioValue - pf.Exposure, Source: SourceFallback}
	}
	return BuyingPower{Amount: amount, Source: SourceAuthoritative}
}
