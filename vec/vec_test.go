package vec

import (
	"math"
	"testing"
)

const tol = 1e-9

func approxEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestAddSubScale(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -2, 0.5)

	sum := a.Add(b)
	if sum != (V{5, 0, 3.5}) {
		t.Errorf("Add wrong: got %+v", sum)
	}

	diff := a.Sub(b)
	if diff != (V{-3, 4, 2.5}) {
		t.Errorf("Sub wrong: got %+v", diff)
	}

	scaled := a.Scale(2)
	if scaled != (V{2, 4, 6}) {
		t.Errorf("Scale wrong: got %+v", scaled)
	}
}

func TestValueSemantics(t *testing.T) {
	a := New(1, 2, 3)
	_ = a.Add(New(10, 10, 10))
	_ = a.Normalize()
	_ = a.Limit(0.1)

	if a != (V{1, 2, 3}) {
		t.Errorf("operations mutated receiver: got %+v", a)
	}
}

func TestNormalize(t *testing.T) {
	v := New(3, 0, 4).Normalize()
	if !approxEq(v.Mag(), 1) {
		t.Errorf("Normalize magnitude: got %f, want 1", v.Mag())
	}
	if !approxEq(v.X, 0.6) || !approxEq(v.Z, 0.8) {
		t.Errorf("Normalize direction wrong: got %+v", v)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	// The degenerate case: must be a defined no-op, never NaN or Inf.
	for _, v := range []V{Zero, New(1e-12, 0, 0), New(0, -1e-15, 1e-15)} {
		n := v.Normalize()
		if n != Zero {
			t.Errorf("Normalize(%+v) = %+v, want zero vector", v, n)
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
			t.Errorf("Normalize(%+v) produced NaN", v)
		}
	}
}

func TestDivByZero(t *testing.T) {
	v := New(1, 2, 3).Div(0)
	if v != Zero {
		t.Errorf("Div by zero: got %+v, want zero", v)
	}
}

func TestLimitPreservesDirection(t *testing.T) {
	tests := []struct {
		v   V
		max float64
	}{
		{New(10, 0, 0), 3},
		{New(1, 2, 2), 100},
		{New(-5, 5, 0.1), 0.5},
		{New(0.001, 0, 0), 1},
	}

	for _, tt := range tests {
		lim := tt.v.Limit(tt.max)

		if lim.Mag() > tt.max+tol {
			t.Errorf("Limit(%+v, %f) magnitude %f exceeds max", tt.v, tt.max, lim.Mag())
		}

		// Identity when already within bounds.
		if tt.v.Mag() <= tt.max && lim != tt.v {
			t.Errorf("Limit(%+v, %f) should be identity, got %+v", tt.v, tt.max, lim)
		}

		// Direction preserved.
		if !tt.v.IsZero() && !lim.IsZero() {
			angle := tt.v.AngleTo(lim)
			if angle > 1e-6 {
				t.Errorf("Limit(%+v, %f) changed direction by %f rad", tt.v, tt.max, angle)
			}
		}
	}
}

func TestDistAndDot(t *testing.T) {
	a := New(0, 0, 0)
	b := New(1, 2, 2)

	if !approxEq(a.Dist(b), 3) {
		t.Errorf("Dist: got %f, want 3", a.Dist(b))
	}
	if !approxEq(b.Dot(b), 9) {
		t.Errorf("Dot: got %f, want 9", b.Dot(b))
	}
}

func TestAngleTo(t *testing.T) {
	x := New(1, 0, 0)
	z := New(0, 0, 1)

	if !approxEq(x.AngleTo(z), math.Pi/2) {
		t.Errorf("AngleTo perpendicular: got %f, want pi/2", x.AngleTo(z))
	}
	if !approxEq(x.AngleTo(x.Scale(5)), 0) {
		t.Errorf("AngleTo parallel: got %f, want 0", x.AngleTo(x.Scale(5)))
	}
	if !approxEq(x.AngleTo(x.Scale(-1)), math.Pi) {
		t.Errorf("AngleTo antiparallel: got %f, want pi", x.AngleTo(x.Scale(-1)))
	}
	if x.AngleTo(Zero) != 0 {
		t.Errorf("AngleTo zero vector should be 0")
	}
}

func TestWithMag(t *testing.T) {
	v := New(0, 3, 0).WithMag(7)
	if !approxEq(v.Mag(), 7) || !approxEq(v.Y, 7) {
		t.Errorf("WithMag wrong: got %+v", v)
	}
	if !Zero.WithMag(5).IsZero() {
		t.Errorf("WithMag on zero vector should stay zero")
	}
}

func TestCross(t *testing.T) {
	x := New(1, 0, 0)
	y := New(0, 1, 0)
	if x.Cross(y) != (V{0, 0, 1}) {
		t.Errorf("Cross wrong: got %+v", x.Cross(y))
	}
}
