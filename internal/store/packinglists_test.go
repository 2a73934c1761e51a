package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/model"
)

func newTestPieces(t *testing.T, database DBTX, ownerID string, n int) []string {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	loc, err := CreateLocation(ctx, database, ownerID, "Home", now)
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	info, err := CreateInfo(ctx, database, ownerID, "pic", nil, "", nil, now)
	if err != nil {
		t.Fatalf("CreateInfo: %v", err)
	}
	l, err := CreateLog(ctx, database, loc.ID, "", false, now)
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	ids := make([]string, n)
	for i := range ids {
		p, err := CreatePiece(ctx, database, info.ID, loc.ID, l.ID, now)
		if err != nil {
			t.Fatalf("CreatePiece: %v", err)
		}
		ids[i] = p.ID
	}
	return ids
}

func TestPackingListItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	pieces := newTestPieces(t, database, "u1", 3)

	list, err := CreatePackingList(ctx, database, "u1", model.PackingListFields{Name: "Trip"}, time.Now())
	if err != nil {
		t.Fatalf("CreatePackingList: %v", err)
	}

	AppendListItems(ctx, database, list.ID, []string{pieces[0], pieces[1]})
	AppendListItems(ctx, database, list.ID, []string{pieces[2], pieces[0]})

	got, _ := GetPackingList(ctx, database, "u1", list.ID)
	want := []string{pieces[0], pieces[1], pieces[2], pieces[0]}
	if len(got.Items) != len(want) {
		t.Fatalf("expected %d items, got %v", len(want), got.Items)
	}
	for i := range want {
		if got.Items[i] != want[i] {
			t.Errorf("item %d: expected %q, got %q", i, want[i], got.Items[i])
		}
	}

	RemoveListItems(ctx, database, list.ID, []string{pieces[0]})
	got, _ = GetPackingList(ctx, database, "u1", list.ID)
	if len(got.Items) != 2 || got.Items[0] != pieces[1] || got.Items[1] != pieces[2] {
		t.Errorf("expected every occurrence removed, got %v", got.Items)
	}
}

func TestUpdateAndExpirePackingList(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	pieces := newTestPieces(t, database, "u1", 1)

	list, _ := CreatePackingList(ctx, database, "u1", model.PackingListFields{Name: "Trip", Description: "Beach"}, time.Now())
	AppendListItems(ctx, database, list.ID, pieces)

	departure := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	err := UpdatePackingList(ctx, database, list.ID, model.PackingListFields{Name: "Summer", DepartureDate: &departure})
	if err != nil {
		t.Fatalf("UpdatePackingList: %v", err)
	}

	got, _ := GetPackingList(ctx, database, "u1", list.ID)
	if got.Name != "Summer" || got.Description != "" {
		t.Errorf("expected full replace, got name %q description %q", got.Name, got.Description)
	}
	if got.DepartureDate == nil || !got.DepartureDate.Equal(departure) {
		t.Errorf("expected departure %v, got %v", departure, got.DepartureDate)
	}

	if err := ExpirePackingList(ctx, database, list.ID); err != nil {
		t.Fatalf("ExpirePackingList: %v", err)
	}
	got, _ = GetPackingList(ctx, database, "u1", list.ID)
	if !got.Expired || len(got.Items) != 0 {
		t.Errorf("expected expired empty list, got expired=%v items=%v", got.Expired, got.Items)
	}

	other, _ := GetPackingList(ctx, database, "u2", list.ID)
	if other != nil {
		t.Error("expected list of another user to be invisible")
	}
}

func TestCompleteUploadOnce(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUpload(ctx, database, "u1", time.Now())
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}

	ok, err := CompleteUpload(ctx, database, u.ID, "image/jpeg", 42, time.Now())
	if err != nil || !ok {
		t.Fatalf("first CompleteUpload: ok=%v err=%v", ok, err)
	}
	ok, err = CompleteUpload(ctx, database, u.ID, "image/jpeg", 42, time.Now())
	if err != nil || ok {
		t.Errorf("second CompleteUpload: ok=%v err=%v", ok, err)
	}

	got, _ := GetUpload(ctx, database, "u1", u.ID)
	if !got.Completed() || got.Size != 42 {
		t.Errorf("unexpected upload %+v", got)
	}
}
