package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/riskgate/ledger"
)

type stubSource struct {
	amount float64
	err    error
}

func (s stubSource) QueryBuyingPower(ctx context.Context, sessionID string) (float64, error) {
	return s.amount, s.err
}

func TestResolveBuyingPowerNoSource(t *testing.T) {
	t.Parallel()

	pf := ledger.State{BuyingPower: 42000}
	bp := ResolveBuyingPower(context.Background(), nil, pf)

	assert.Equal(t, SourceAuthoritative, bp.Source)
	assert.Equal(t, 42000.0, bp.Amount)
}

func TestResolveBuyingPowerRemote(t *testing.T) {
	t.Parallel()

	pf := ledger.State{BuyingPower: 42000}
	bp := ResolveBuyingPower(context.Background(), stubSource{amount: 37500}, pf)

	assert.Equal(t, SourceAuthoritative, bp.Source)
	assert.Equal(t, 37500.0, bp.Amount)
}

func TestResolveBuyingPowerFallback(t *testing.T) {
	t.Parallel()

	pf := ledger.State{PortfolioValue: 100000, Exposure: 60000, BuyingPower: 42000}
	bp := ResolveBuyingPower(context.Background(), stubSource{err: errors.New("timeout")}, pf)

	assert.Equal(t, SourceFallback, bp.Source)
	assert.Equal(t, 40000.0, bp.Amount) // portfolio value less exposure
}
