package tikz

import "testing"

func TestNum(t *testing.T) {
	tests := []struct {
		x    float64
		want string
	}{
		{3.14159, "3.142"},
		{3.0, "3"},
		{0.0, "0"},
		{-2.5, "-2.5"},
		{1.100, "1.1"},
		{0.125, "0.125"},
		{-0.0000001, "-0"},
	}
	for _, tt := range tests {
		if got := Num(tt.x); got != tt.want {
			t.Errorf("Num(%v) = %q, want %q", tt.x, got, tt.want)
		}
	}
}

func TestNumPrec(t *testing.T) {
	tests := []struct {
		x      float64
		places int
		want   string
	}{
		{3.100, 2, "3.1"},
		{45.0, 1, "45"},
		{123.456, 0, "123"},
		{-90.04, 1, "-90"},
	}
	for _, tt := range tests {
		if got := NumPrec(tt.x, tt.places); got != tt.want {
			t.Errorf("NumPrec(%v, %d) = %q, want %q", tt.x, tt.places, got, tt.want)
		}
	}
}

func TestCoord(t *testing.T) {
	tests := []struct {
		x, y float64
		want string
	}{
		{1.0, 2.0, "(1,2)"},
		{-1.5, 0.0, "(-1.5,0)"},
		{3.14159, -2.71828, "(3.142,-2.718)"},
	}
	for _, tt := range tests {
		if got := Coord(tt.x, tt.y); got != tt.want {
			t.Errorf("Coord(%v, %v) = %q, want %q", tt.x, tt.y, got, tt.want)
		}
	}
}
