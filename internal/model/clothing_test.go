package model

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"red", ColorRed, false},
		{"White", ColorWhite, false},
		{" beige ", ColorBeige, false},
		{"magenta", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
