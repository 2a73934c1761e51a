package model

import "testing"

func TestPackStatusPercentage(t *testing.T) {
	tests := []struct {
		packed, total int
		want          int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{2, 2, 100},
	}

	for _, tt := range tests {
		if got := PercentPacked(tt.packed, tt.total); got != tt.want {
			t.Errorf("PercentPacked(%d, %d) = %d, want %d", tt.packed, tt.total, got, tt.want)
		}
	}
}
