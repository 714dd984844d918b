package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/processor"
	"github.com/mitchelldurbincs/DiploStrat/internal/snapshot"
	"github.com/mitchelldurbincs/DiploStrat/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "diplostrat.db"), testutil.NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diplostrat.db")

	s, err := New(path, testutil.NopLogger())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(path, testutil.NopLogger())
	require.NoError(t, err)
	defer s.Close()

	var count int
	require.NoError(t, s.conn.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w := testutil.NewWorld(4, 3)
	w.Turn = 5
	inf := testutil.AddUnit(w, "infantry", core.Coordinate{X: 1, Y: 1}, "red")
	testutil.Chain(w, inf, core.OrderMove, core.Coordinate{X: 2, Y: 1})

	save, err := s.SaveSnapshot(ctx, "campaign", w)
	require.NoError(t, err)
	assert.NotEmpty(t, save.ID)
	assert.Equal(t, 5, save.Turn)

	snap, err := s.LoadSnapshot(ctx, save.ID)
	require.NoError(t, err)
	assert.Equal(t, save.ID, snap.ID)

	got, err := snapshot.NewDecoder(w.Catalog, testutil.NopLogger()).Decode(snap)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Turn)
	assert.Equal(t, w.Units, got.Units)
	assert.Equal(t, w.Arrows, got.Arrows)
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestLatestSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	w := testutil.NewWorld(2, 2)

	_, err := s.SaveSnapshot(ctx, "campaign", w)
	require.NoError(t, err)
	w.Turn = 2
	second, err := s.SaveSnapshot(ctx, "campaign", w)
	require.NoError(t, err)
	w.Turn = 9
	_, err = s.SaveSnapshot(ctx, "other", w)
	require.NoError(t, err)

	save, snap, err := s.LatestSnapshot(ctx, "campaign")
	require.NoError(t, err)
	assert.Equal(t, second.ID, save.ID)
	assert.Equal(t, 2, save.Turn)
	assert.Equal(t, 2, snap.Turn)

	_, _, err = s.LatestSnapshot(ctx, "nobody")
	assert.ErrorIs(t, err, ErrSaveNotFound)
}

func TestListSaves(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	saves, err := s.ListSaves(ctx)
	require.NoError(t, err)
	assert.Empty(t, saves)

	w := testutil.NewWorld(2, 2)
	first, err := s.SaveSnapshot(ctx, "a", w)
	require.NoError(t, err)
	second, err := s.SaveSnapshot(ctx, "b", w)
	require.NoError(t, err)

	saves, err = s.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, saves, 2)
	assert.Equal(t, second.ID, saves[0].ID)
	assert.Equal(t, first.ID, saves[1].ID)
	assert.Equal(t, "b", saves[0].Name)
}

func TestTurnHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	save, err := s.SaveSnapshot(ctx, "campaign", testutil.NewWorld(3, 3))
	require.NoError(t, err)

	moved := processor.Outcome{
		Movements: []processor.Movement{{
			UnitID: "u1",
			Path:   []core.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}},
		}},
		Captures: []processor.Capture{{At: core.Coordinate{X: 1, Y: 0}, Owner: "red"}},
		Consumed: []string{"a1"},
	}
	require.NoError(t, s.RecordTurn(ctx, save.ID, 1, moved))
	require.NoError(t, s.RecordTurn(ctx, save.ID, 2, processor.Outcome{}))

	history, err := s.TurnHistory(ctx, save.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Turn)
	assert.Equal(t, moved, history[0].Outcome)
	assert.Equal(t, 2, history[1].Turn)
	assert.True(t, history[1].Outcome.NoOp())
}

func TestRecordTurn_UnknownSave(t *testing.T) {
	s := newTestStore(t)
	err := s.RecordTurn(context.Background(), "missing", 1, processor.Outcome{})
	assert.Error(t, err)
}

func TestDeleteSave_CascadesTurnLog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	save, err := s.SaveSnapshot(ctx, "campaign", testutil.NewWorld(2, 2))
	require.NoError(t, err)
	require.NoError(t, s.RecordTurn(ctx, save.ID, 1, processor.Outcome{}))

	require.NoError(t, s.DeleteSave(ctx, save.ID))

	_, err = s.LoadSnapshot(ctx, save.ID)
	assert.ErrorIs(t, err, ErrSaveNotFound)
	history, err := s.TurnHistory(ctx, save.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.ErrorIs(t, s.DeleteSave(ctx, save.ID), ErrSaveNotFound)
}
