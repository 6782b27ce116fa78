// Package vec provides the 3D vector primitive used by all steering math.
package vec

import "math"

// Epsilon is the magnitude below which a vector is treated as zero.
// Normalize and Limit are defined no-ops on such vectors.
const Epsilon = 1e-9

// V is a 3D vector. All operations use value semantics: they return a new
// vector and never mutate the receiver, so callers can freely share values.
type V struct {
	X, Y, Z float64
}

// Zero is the zero vector.
var Zero = V{}

// New creates a vector from components.
func New(x, y, z float64) V {
	return V{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v V) Add(o V) V {
	return V{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v V) Sub(o V) V {
	return V{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v V) Scale(s float64) V {
	return V{v.X * s, v.Y * s, v.Z * s}
}

// Div returns v / s. Division by a near-zero scalar yields the zero vector.
func (v V) Div(s float64) V {
	if math.Abs(s) < Epsilon {
		return Zero
	}
	return v.Scale(1 / s)
}

// Dot returns the dot product of v and o.
func (v V) Dot(o V) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v V) Cross(o V) V {
	return V{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// MagSq returns the squared magnitude. Cheaper than Mag for comparisons.
func (v V) MagSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Mag returns the Euclidean magnitude.
func (v V) Mag() float64 {
	return math.Sqrt(v.MagSq())
}

// Normalize returns a unit vector in the direction of v.
// A near-zero vector normalizes to the zero vector, never a NaN.
func (v V) Normalize() V {
	m := v.Mag()
	if m < Epsilon {
		return Zero
	}
	return v.Scale(1 / m)
}

// Limit rescales v to magnitude max if it exceeds max, otherwise returns
// v unchanged. Direction is always preserved.
func (v V) Limit(max float64) V {
	if max <= 0 {
		return Zero
	}
	mSq := v.MagSq()
	if mSq <= max*max {
		return v
	}
	return v.Scale(max / math.Sqrt(mSq))
}

// WithMag returns a vector in the direction of v with the given magnitude.
// A near-zero v yields the zero vector.
func (v V) WithMag(m float64) V {
	return v.Normalize().Scale(m)
}

// Dist returns the Euclidean distance between v and o as points.
func (v V) Dist(o V) float64 {
	return v.Sub(o).Mag()
}

// DistSq returns the squared distance between v and o as points.
func (v V) DistSq(o V) float64 {
	return v.Sub(o).MagSq()
}

// IsZero reports whether v is within Epsilon of the zero vector.
func (v V) IsZero() bool {
	return v.MagSq() < Epsilon*Epsilon
}

// AngleTo returns the angle in radians between v and o, in [0, pi].
// Defined as zero if either vector is near-zero.
func (v V) AngleTo(o V) float64 {
	if v.IsZero() || o.IsZero() {
		return 0
	}
	d := v.Normalize().Dot(o.Normalize())
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}
