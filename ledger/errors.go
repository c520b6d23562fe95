package ledger

import "fmt"

// NoPositionError reports a SELL against a symbol the session does not hold.
// Reaching the ledger with one is an upstream logic error, not a risk
// rejection: the operation is aborted without mutating state.
type NoPositionError struct {
	Symbol string
}

func (e *NoPositionError) Error() string {
	return fmt.Sprintf("no position in %s to sell", e.Symbol)
}

// DuplicateFillError reports a replayed fill id. The first application stands;
// the replay is aborted without mutating state.
type DuplicateFillError struct {
	FillID string
}

func (e *DuplicateFillError) Error() string {
	return fmt.Sprintf("fill %s already applied", e.FillID)
}
