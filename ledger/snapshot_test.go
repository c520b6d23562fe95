package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/riskgate/journal"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)

	_, err := l.ProcessFill(buyFill("f1", 100, 450, 1))
	require.NoError(t, err)
	_, err = l.ProcessFill(buyFill("f2", 50, 460, 1))
	require.NoError(t, err)
	_, err = l.ProcessFill(sellFill("f3", 30, 470, 1))
	require.NoError(t, err)
	l.UpdateMarketPrices(map[string]float64{"SPY": 465})

	snap := l.Snapshot()

	restored := New("sess-1", 0, journal.NewMemory())
	require.NoError(t, restored.Restore(snap))

	assert.Equal(t, l.State(), restored.State())
}

func TestSnapshotRoundTripThroughJSON(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)
	_, err := l.ProcessFill(buyFill("f1", 100, 450, 1))
	require.NoError(t, err)

	payload, err := json.Marshal(l.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))

	restored := New("sess-1", 0, journal.NewMemory())
	require.NoError(t, restored.Restore(snap))
	assert.Equal(t, l.State(), restored.State())
}

func TestRestorePreservesFillDedupe(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)
	_, err := l.ProcessFill(buyFill("f1", 100, 450, 0))
	require.NoError(t, err)

	restored := New("sess-1", 0, journal.NewMemory())
	require.NoError(t, restored.Restore(l.Snapshot()))

	_, err = restored.ProcessFill(buyFill("f1", 100, 450, 0))
	var dfe *DuplicateFillError
	assert.ErrorAs(t, err, &dfe)
}

func TestRestoreRejectsWrongSession(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)
	snap := l.Snapshot()
	snap.SessionID = "other"

	assert.Error(t, l.Restore(snap))
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	t.Parallel()

	j := journal.NewMemory()
	l := New("sess-1", 100000, j)
	_, err := l.ProcessFill(buyFill("f1", 100, 450, 1))
	require.NoError(t, err)

	l.SaveSnapshot()

	restored := New("sess-1", 100000, j)
	require.NoError(t, restored.LoadSnapshot())
	assert.Equal(t, l.State(), restored.State())
}

func TestLoadSnapshotMissing(t *testing.T) {
	t.Parallel()

	l, _ := newTestLedger(t)
	assert.ErrorIs(t, l.LoadSnapshot(), journal.ErrNoSnapshot)
}
