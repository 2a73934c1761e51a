package model

import (
	"math"
	"time"
)

// PackingList groups pieces for a trip. Items is the candidate set; the
// actual pack state lives on each piece's PackedIn.
type PackingList struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Description       string     `json:"description,omitempty"`
	DepartureDate     *time.Time `json:"departure_date,omitempty"`
	PackingLocationID string     `json:"packing_location_id,omitempty"`
	Items             []string   `json:"items"`
	Expired           bool       `json:"expired"`
	OwnerID           string     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
}

// PackingListRef is the short form of a packing list.
type PackingListRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PackingListView is a packing list joined with its member pieces.
type PackingListView struct {
	PackingList
	Pieces []PieceView `json:"pieces"`
}

// PackStatus summarizes how much of a packing list is packed.
type PackStatus struct {
	PackedPieces     []ClothingPiece `json:"packed_pieces"`
	TotalPieces      []string        `json:"total_pieces"`
	PercentagePacked int             `json:"percentage_packed"`
}

// PercentPacked returns packed/total as a rounded percentage. An empty list
// is 0% packed.
func PercentPacked(packed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(packed) / float64(total) * 100))
}

// PackingListFields are the user-editable fields of a packing list. Updates
// replace all of them at once.
type PackingListFields struct {
	Name              string     `json:"name"`
	Description       string     `json:"description"`
	DepartureDate     *time.Time `json:"departure_date"`
	PackingLocationID string     `json:"packing_location_id"`
}
