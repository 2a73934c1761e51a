package closet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/omara/internal/model"
)

func TestCreateItemsQuantityThree(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")

	_, pieces := f.item(t, a, 3)
	require.Len(t, pieces, 3)

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Pieces, 3)

	first := items[0].Pieces[0].LocationHistory
	require.Len(t, first, 1)
	for _, p := range items[0].Pieces {
		require.NotNil(t, p.CurrentLocation)
		assert.Equal(t, "A", p.CurrentLocation.Name)
		assert.Equal(t, first, p.LocationHistory, "pieces share the initial log")
		assert.Empty(t, p.PackedIn)
		assert.Nil(t, p.LostAt)
	}

	assert.Equal(t, "Acme", items[0].Brand)
	assert.Equal(t, "image/jpeg", items[0].ContentType)
	assert.Equal(t, ImagePathPrefix+items[0].PictureID, items[0].ImageURL)
}

func TestCreateItemsMultipleGroups(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")

	infos, err := f.svc.CreateItems(f.ctx, f.user, []NewItem{
		{StorageID: f.image(t), Colors: []string{"red"}, Quantity: 1},
		{StorageID: f.image(t), Colors: []string{"black", "White"}, Types: []string{" pants ", ""}, Quantity: 2},
	}, a)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, []string{"pants"}, infos[1].Types)

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Len(t, items[0].Pieces, 1)
	assert.Len(t, items[1].Pieces, 2)
	assert.NotEqual(t, items[0].Pieces[0].LocationHistory[0], items[1].Pieces[0].LocationHistory[0],
		"each group gets its own initial log")
}

func TestCreateItemsValidation(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	img := f.image(t)

	pending, err := f.svc.CreateUpload(f.ctx, f.user)
	require.NoError(t, err)

	tests := []struct {
		name     string
		items    []NewItem
		location string
		want     error
	}{
		{"no items", nil, a, ErrValidation},
		{"zero quantity", []NewItem{{StorageID: img, Quantity: 0}}, a, ErrInvalidQuantity},
		{"unknown color", []NewItem{{StorageID: img, Colors: []string{"magenta"}, Quantity: 1}}, a, ErrValidation},
		{"unknown image", []NewItem{{StorageID: "nope", Quantity: 1}}, a, ErrImageNotFound},
		{"pending image", []NewItem{{StorageID: pending.ID, Quantity: 1}}, a, ErrUploadIncomplete},
		{"unknown location", []NewItem{{StorageID: img, Quantity: 1}}, "nope", ErrLocationNotFound},
		{"second group invalid", []NewItem{
			{StorageID: img, Quantity: 1},
			{StorageID: "nope", Quantity: 1},
		}, a, ErrImageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateItems(f.ctx, f.user, tt.items, tt.location)
			require.ErrorIs(t, err, tt.want)
		})
	}

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, items, "failed creates leave nothing behind")
}

func TestAddPiece(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	b := f.location(t, "B")
	info, _ := f.item(t, a, 1)

	piece, err := f.svc.AddPiece(f.ctx, f.user, info, b)
	require.NoError(t, err)
	assert.Equal(t, b, piece.CurrentLocationID)
	assert.Len(t, piece.LocationHistory, 1)

	pieces, err := f.svc.ListPieces(f.ctx, f.user, info)
	require.NoError(t, err)
	assert.Len(t, pieces, 2)

	_, err = f.svc.AddPiece(f.ctx, f.user, "nope", a)
	assert.ErrorIs(t, err, ErrInfoNotFound)

	_, err = f.svc.AddPiece(f.ctx, f.user, info, "nope")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestDeleteNonLastPieceKeepsInfo(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	info, pieces := f.item(t, a, 2)

	require.NoError(t, f.svc.DeletePiece(f.ctx, f.user, pieces[0]))

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, info, items[0].ID)
	require.Len(t, items[0].Pieces, 1)
	assert.Equal(t, pieces[1], items[0].Pieces[0].ID)
	assert.Equal(t, 1, f.blobs.Len(), "picture stays while the info lives")
}

func TestDeleteLastPieceDeletesInfo(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	_, pieces := f.item(t, a, 1)

	list, err := f.svc.CreatePackingList(f.ctx, f.user, model.PackingListFields{Name: "Trip"})
	require.NoError(t, err)
	_, err = f.svc.AddItems(f.ctx, f.user, list.ID, pieces)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePiece(f.ctx, f.user, pieces[0]))

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, f.blobs.Len(), "orphaned picture is deleted")

	view, err := f.svc.GetPackingList(f.ctx, f.user, list.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Empty(t, view.Pieces)

	assert.ErrorIs(t, f.svc.DeletePiece(f.ctx, f.user, pieces[0]), ErrPieceNotFound)
}

func TestEditInfoBrandPresence(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	info, _ := f.item(t, a, 1)

	// Omitted brand without force keeps it.
	types := []string{"jacket"}
	got, err := f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{Types: &types})
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Brand)
	assert.Equal(t, []string{"jacket"}, got.Types)
	assert.Len(t, got.Colors, 1, "colors untouched")

	brand := "Nordic"
	got, err = f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{Brand: &brand})
	require.NoError(t, err)
	assert.Equal(t, "Nordic", got.Brand)

	// Forced with no brand clears it.
	got, err = f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{ForceBrand: true})
	require.NoError(t, err)
	assert.Empty(t, got.Brand)

	colors := []string{"green", "gray"}
	got, err = f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{Colors: &colors})
	require.NoError(t, err)
	assert.Len(t, got.Colors, 2)

	bad := []string{"plaid"}
	_, err = f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{Colors: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.EditInfo(f.ctx, f.user, "nope", InfoPatch{Brand: &brand})
	assert.ErrorIs(t, err, ErrInfoNotFound)
}

func TestEditInfoReplacesPicture(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	info, _ := f.item(t, a, 1)

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	oldPicture := items[0].PictureID

	newPicture := f.image(t)
	require.Equal(t, 2, f.blobs.Len())

	got, err := f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{PictureID: &newPicture})
	require.NoError(t, err)
	assert.Equal(t, newPicture, got.PictureID)
	assert.Equal(t, 1, f.blobs.Len())

	_, err = f.blobs.Head(f.ctx, oldPicture)
	assert.Error(t, err, "old picture is deleted")

	missing := "nope"
	_, err = f.svc.EditInfo(f.ctx, f.user, info, InfoPatch{PictureID: &missing})
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestReplaceImage(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	shared := f.image(t)

	_, err := f.svc.CreateItems(f.ctx, f.user, []NewItem{
		{StorageID: shared, Quantity: 1},
		{StorageID: shared, Quantity: 1},
	}, a)
	require.NoError(t, err)

	replacement := f.image(t)
	n, err := f.svc.ReplaceImage(f.ctx, f.user, shared, replacement)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := f.svc.ListItems(f.ctx, f.user)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, replacement, it.PictureID)
	}
	_, err = f.blobs.Head(f.ctx, shared)
	assert.Error(t, err, "old picture is deleted")

	_, err = f.svc.ReplaceImage(f.ctx, f.user, "nope", replacement)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestItemsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	a := f.location(t, "A")
	info, pieces := f.item(t, a, 2)

	other := "user-2"
	items, err := f.svc.ListItems(f.ctx, other)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.ListPieces(f.ctx, other, info)
	assert.ErrorIs(t, err, ErrInfoNotFound)

	otherLoc, err := f.svc.CreateLocation(f.ctx, other, "Elsewhere")
	require.NoError(t, err)
	_, err = f.svc.MovePieces(f.ctx, other, pieces, otherLoc.ID)
	assert.ErrorIs(t, err, ErrPieceNotFound)

	assert.ErrorIs(t, f.svc.DeletePiece(f.ctx, other, pieces[0]), ErrPieceNotFound)

	history, err := f.svc.LocationHistory(f.ctx, other, f.piece(t, pieces[0]).LocationHistory)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Another user's location cannot be used either.
	_, err = f.svc.MovePieces(f.ctx, f.user, pieces, otherLoc.ID)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
