package model

import (
	"fmt"
	"strings"
	"time"
)

// Color is one of the fixed garment colors.
type Color string

// Colors.
const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
	ColorBeige  Color = "beige"
	ColorBrown  Color = "brown"
	ColorGray   Color = "gray"
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
)

var knownColors = map[Color]bool{
	ColorRed: true, ColorGreen: true, ColorBlue: true, ColorYellow: true,
	ColorPurple: true, ColorOrange: true, ColorPink: true, ColorBeige: true,
	ColorBrown: true, ColorGray: true, ColorBlack: true, ColorWhite: true,
}

// ParseColor normalizes s and checks it against the known colors.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !knownColors[c] {
		return "", fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

// ClothingInfo describes a kind of garment: one photo, one brand and a set
// of colors and types shared by one or more physical pieces.
type ClothingInfo struct {
	ID        string    `json:"id"`
	PictureID string    `json:"picture_id"`
	Colors    []Color   `json:"colors"`
	Brand     string    `json:"brand,omitempty"`
	Types     []string  `json:"types"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ClothingPiece is one physical unit of a ClothingInfo.
type ClothingPiece struct {
	ID                string     `json:"id"`
	InfoID            string     `json:"info_id"`
	CurrentLocationID string     `json:"current_location_id"`
	LocationHistory   []string   `json:"location_history"`
	PackedIn          string     `json:"packed_in,omitempty"`
	LostAt            *time.Time `json:"lost_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// Lost reports whether the piece is currently marked lost.
func (p *ClothingPiece) Lost() bool { return p.LostAt != nil }

// LocationRef is the short form of a location embedded in read models.
type LocationRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PieceView is a piece joined with its current location. CurrentLocation is
// nil when the referenced location no longer resolves.
type PieceView struct {
	ClothingPiece
	CurrentLocation *LocationRef `json:"current_location"`
}

// ItemView is a ClothingInfo joined with its pieces and image.
type ItemView struct {
	ClothingInfo
	ImageURL    string      `json:"image_url"`
	ContentType string      `json:"content_type"`
	Pieces      []PieceView `json:"pieces"`
}
