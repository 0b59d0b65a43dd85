package tilelayer

import "testing"

func TestRect_IntersectArea(t *testing.T) {
	view := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	tests := []struct {
		name string
		r    Rect
		want float64
	}{
		{"inside", Rect{X: 10, Y: 10, Width: 20, Height: 20}, 400},
		{"covers", Rect{X: -10, Y: -10, Width: 200, Height: 200}, 5000},
		{"straddles right", Rect{X: 90, Y: 0, Width: 20, Height: 10}, 100},
		{"straddles top", Rect{X: 0, Y: -5, Width: 10, Height: 10}, 50},
		{"left of", Rect{X: -30, Y: 0, Width: 20, Height: 10}, 0},
		{"below", Rect{X: 0, Y: 60, Width: 20, Height: 10}, 0},
		{"touching edge", Rect{X: 100, Y: 0, Width: 20, Height: 10}, 0},
		{"empty", Rect{X: 10, Y: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IntersectArea(view); got != tt.want {
				t.Errorf("IntersectArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_EmptyClip(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if got := r.IntersectArea(Rect{}); got != 0 {
		t.Errorf("IntersectArea(empty) = %v, want 0", got)
	}
	if !(Rect{Width: 0, Height: 3}).Empty() {
		t.Error("zero-width rect should be empty")
	}
}
