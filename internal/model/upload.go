package model

import "time"

// Upload is a write-once slot for an image. Its ID doubles as the storage
// id under which the image is kept in the blob store.
type Upload struct {
	ID          string     `json:"storage_id"`
	OwnerID     string     `json:"-"`
	ContentType string     `json:"content_type,omitempty"`
	Size        int64      `json:"size,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether image bytes have been stored for the slot.
func (u *Upload) Completed() bool { return u.CompletedAt != nil }
