package model

import "time"

// Location is a physical place that holds pieces.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationLog is an immutable history record of a piece's whereabouts.
// A lost entry has no location. A packed entry carries both a location and
// a packing list.
type LocationLog struct {
	ID            string    `json:"id"`
	LocationID    string    `json:"location_id,omitempty"`
	PackingListID string    `json:"packing_list_id,omitempty"`
	Lost          bool      `json:"lost,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LogEntry is a LocationLog joined with its location and packing list.
type LogEntry struct {
	LocationLog

	// Joined fields (nil when not referenced or no longer resolvable).
	Location    *LocationRef    `json:"location"`
	PackingList *PackingListRef `json:"packing_list,omitempty"`
}
