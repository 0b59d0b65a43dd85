package tilelayer

import "testing"

func TestMatrix_Multiply(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix
		x, y   float64
		wx, wy float64
	}{
		{"identity", Identity(), 3, 4, 3, 4},
		{"translate", Translate(10, -5), 3, 4, 13, -1},
		{"scale then translate", Translate(-50, -30).Multiply(Scale(2, 2)), 25, 15, 0, 0},
		{"translate then scale", Scale(2, 2).Multiply(Translate(1, 1)), 3, 4, 8, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.Apply(tt.x, tt.y)
			if !approx(x, tt.wx) || !approx(y, tt.wy) {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestMatrix_Invert(t *testing.T) {
	m := Translate(7, 3).Multiply(Scale(2, 4))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported singular")
	}
	x, y := inv.Apply(m.Apply(5, 6))
	if !approx(x, 5) || !approx(y, 6) {
		t.Errorf("round trip = (%v, %v), want (5, 6)", x, y)
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of a singular matrix reported ok")
	}
}

func TestMatrix_PDF(t *testing.T) {
	// PDF [a b c d e f]: x' = a*x + c*y + e, y' = b*x + d*y + f.
	pdf := [6]float64{2, 0.5, 0.25, 3, 10, 20}
	m := FromPDF(pdf)
	x, y := m.Apply(1, 1)
	if !approx(x, 2+0.25+10) || !approx(y, 0.5+3+20) {
		t.Errorf("Apply(1, 1) = (%v, %v)", x, y)
	}
	if m.PDF() != pdf {
		t.Errorf("PDF() = %v, want %v", m.PDF(), pdf)
	}
}

func TestMatrix_ScaleFactor(t *testing.T) {
	if got := Scale(2, 8).ScaleFactor(); got != 4 {
		t.Errorf("ScaleFactor() = %v, want 4", got)
	}
	if !Translate(3, 4).IsTranslation() || Scale(2, 2).IsTranslation() {
		t.Error("IsTranslation() mismatch")
	}
}
