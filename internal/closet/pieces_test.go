package closet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/omara/internal/model"
)

func TestMovePiecesSharesOneLog(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	_, pieces := f.item(t, a, 3)

	moved, err := f.svc.MovePieces(f.ctx, f.user, pieces, b)
	require.NoError(t, err)
	assert.Equal(t, 3, moved)

	var last string
	for _, id := range pieces {
		p := f.piece(t, id)
		assert.Equal(t, b, p.CurrentLocationID)
		require.Len(t, p.LocationHistory, 2)
		if last != "" {
			assert.Equal(t, last, p.LocationHistory[1])
		}
		last = p.LocationHistory[1]
	}

	history, err := f.svc.LocationHistory(f.ctx, f.user, []string{last})
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Location)
	assert.Equal(t, "B", history[0].Location.Name)
}

func TestMovePiecesIsIdempotent(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	_, pieces := f.item(t, a, 2)

	_, err := f.svc.MovePieces(f.ctx, f.user, pieces, b)
	require.NoError(t, err)

	moved, err := f.svc.MovePieces(f.ctx, f.user, pieces, b)
	require.NoError(t, err)
	assert.Zero(t, moved)
	for _, id := range pieces {
		assert.Len(t, f.piece(t, id).LocationHistory, 2, "no log for a no-op move")
	}
}

func TestMovePiecesSkipsPiecesAlreadyThere(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	_, pieces := f.item(t, a, 3)

	_, err := f.svc.MovePieces(f.ctx, f.user, pieces[:1], b)
	require.NoError(t, err)

	moved, err := f.svc.MovePieces(f.ctx, f.user, pieces, b)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)
	assert.Len(t, f.piece(t, pieces[0]).LocationHistory, 2)
	assert.Len(t, f.piece(t, pieces[1]).LocationHistory, 2)
}

func TestMovePiecesErrors(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	_, pieces := f.item(t, a, 1)

	_, err := f.svc.MovePieces(f.ctx, f.user, pieces, "nope")
	assert.ErrorIs(t, err, ErrLocationNotFound)

	_, err = f.svc.MovePieces(f.ctx, f.user, append(pieces, "nope"), b)
	assert.ErrorIs(t, err, ErrPieceNotFound)
	assert.Equal(t, a, f.piece(t, pieces[0]).CurrentLocationID, "failed move changes nothing")
}

func TestPackingScenario(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	bag := f.location(t, "Bag")
	_, pieces := f.item(t, a, 2)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{
		Name:              "Weekend",
		PackingLocationID: bag,
	})
	require.NoError(t, err)

	_, err = f.svc.AddItems(f.ctx, f.user, list.ID, pieces)
	require.NoError(t, err)

	status, err := f.svc.PackStatus(f.ctx, f.user, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.PercentagePacked)
	assert.Len(t, status.TotalPieces, 2)
	assert.Empty(t, status.PackedPieces)

	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces[:1], list.ID, ""))
	status, err = f.svc.PackStatus(f.ctx, f.user, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, status.PercentagePacked)

	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces[1:], list.ID, ""))
	status, err = f.svc.PackStatus(f.ctx, f.user, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, status.PercentagePacked)
	assert.Len(t, status.PackedPieces, 2)

	for _, id := range pieces {
		p := f.piece(t, id)
		assert.Equal(t, list.ID, p.PackedIn)
		assert.Equal(t, bag, p.CurrentLocationID)
		f.requireLocationInvariant(t, id)
	}

	history, err := f.svc.PieceHistory(f.ctx, f.user, pieces[0])
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].PackingList)
	assert.Equal(t, "Weekend", history[0].PackingList.Name)
	assert.Nil(t, history[1].PackingList)
}

func TestPackPiecesLocationFallback(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	car := f.location(t, "Car")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip"})
	require.NoError(t, err)

	err = f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, "")
	require.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.Equal(t, "please select a packing location first", ErrMissingPrerequisite.Error())
	assert.Len(t, f.piece(t, pieces[0]).LocationHistory, 1)

	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, car))
	p := f.piece(t, pieces[0])
	assert.Equal(t, car, p.CurrentLocationID)
	assert.Equal(t, list.ID, p.PackedIn)
}

func TestPackPiecesErrors(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip", PackingLocationID: a})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.PackPieces(f.ctx, f.user, nil, list.ID, ""), ErrEmptyOperation)
	assert.ErrorIs(t, f.svc.PackPieces(f.ctx, f.user, pieces, "nope", ""), ErrListNotFound)
	assert.ErrorIs(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, "nope"), ErrLocationNotFound)
	assert.ErrorIs(t, f.svc.PackPieces(f.ctx, f.user, []string{"nope"}, list.ID, ""), ErrPieceNotFound)
	assert.ErrorIs(t, f.svc.UnpackPieces(f.ctx, f.user, nil, list.ID), ErrEmptyOperation)
	assert.ErrorIs(t, f.svc.UnpackPieces(f.ctx, f.user, pieces, "nope"), ErrListNotFound)
}

func TestRemoveItemsKeepsPackState(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip", PackingLocationID: a})
	require.NoError(t, err)
	_, err = f.svc.AddItems(f.ctx, f.user, list.ID, pieces)
	require.NoError(t, err)
	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, ""))

	updated, err := f.svc.RemoveItems(f.ctx, f.user, pieces, list.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)
	assert.Equal(t, list.ID, f.piece(t, pieces[0]).PackedIn)

	_, err = f.svc.RemoveItems(f.ctx, f.user, nil, list.ID)
	assert.ErrorIs(t, err, ErrEmptyOperation)
}

func TestUnpackPieces(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	bag := f.location(t, "Bag")
	car := f.location(t, "Car")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip", PackingLocationID: bag})
	require.NoError(t, err)
	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, car))

	require.NoError(t, f.svc.UnpackPieces(f.ctx, f.user, pieces, list.ID))
	p := f.piece(t, pieces[0])
	assert.Empty(t, p.PackedIn)
	assert.Equal(t, bag, p.CurrentLocationID)
	assert.Len(t, p.LocationHistory, 3)
	f.requireLocationInvariant(t, pieces[0])
}

func TestUnpackWithoutPackingLocationIsNoop(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	car := f.location(t, "Car")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip"})
	require.NoError(t, err)
	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, car))

	require.NoError(t, f.svc.UnpackPieces(f.ctx, f.user, pieces, list.ID))
	p := f.piece(t, pieces[0])
	assert.Equal(t, list.ID, p.PackedIn)
	assert.Equal(t, car, p.CurrentLocationID)
	assert.Len(t, p.LocationHistory, 2)
}

func TestLostAndFound(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	_, pieces := f.item(t, a, 1)
	id := pieces[0]

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip", PackingLocationID: a})
	require.NoError(t, err)
	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, ""))

	require.NoError(t, f.svc.MarkLost(f.ctx, f.user, id))
	p := f.piece(t, id)
	require.NotNil(t, p.LostAt)
	assert.Empty(t, p.PackedIn, "lost pieces are not packed")
	assert.Equal(t, a, p.CurrentLocationID, "last known location stays")
	f.requireLocationInvariant(t, id)

	history, err := f.svc.PieceHistory(f.ctx, f.user, id)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].Lost)
	assert.Nil(t, history[0].Location)
	assert.Equal(t, *p.LostAt, history[0].CreatedAt)

	assert.ErrorIs(t, f.svc.MarkLost(f.ctx, f.user, id), ErrAlreadyLost)
	assert.ErrorIs(t, f.svc.MarkFound(f.ctx, f.user, id, "nope"), ErrLocationNotFound)

	require.NoError(t, f.svc.MarkFound(f.ctx, f.user, id, b))
	p = f.piece(t, id)
	assert.Nil(t, p.LostAt)
	assert.Equal(t, b, p.CurrentLocationID)
	assert.Len(t, p.LocationHistory, 4)
	f.requireLocationInvariant(t, id)

	assert.ErrorIs(t, f.svc.MarkFound(f.ctx, f.user, id, b), ErrNotLost)
	assert.ErrorIs(t, f.svc.MarkLost(f.ctx, f.user, "nope"), ErrPieceNotFound)
}

func TestPackClearsLost(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip", PackingLocationID: a})
	require.NoError(t, err)
	require.NoError(t, f.svc.MarkLost(f.ctx, f.user, pieces[0]))

	require.NoError(t, f.svc.PackPieces(f.ctx, f.user, pieces, list.ID, ""))
	p := f.piece(t, pieces[0])
	assert.Nil(t, p.LostAt)
	assert.Equal(t, list.ID, p.PackedIn)
}

func TestCurrentLocationFollowsHistory(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	c := f.location(t, "C")
	_, pieces := f.item(t, a, 2)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip", PackingLocationID: c})
	require.NoError(t, err)

	steps := []func() error{
		func() error { _, err := f.svc.MovePieces(f.ctx, f.user, pieces, b); return err },
		func() error { return f.svc.PackPieces(f.ctx, f.user, pieces[:1], list.ID, "") },
		func() error { return f.svc.MarkLost(f.ctx, f.user, pieces[1]) },
		func() error { return f.svc.UnpackPieces(f.ctx, f.user, pieces[:1], list.ID) },
		func() error { return f.svc.MarkFound(f.ctx, f.user, pieces[1], a) },
		func() error { _, err := f.svc.MovePieces(f.ctx, f.user, pieces, a); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
		for _, id := range pieces {
			f.requireLocationInvariant(t, id)
		}
	}
}
