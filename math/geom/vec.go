// Package geom provides the 2D linear algebra used by the dynamics
// package: vectors, rotations, transforms, sweeps and axis-aligned
// bounding boxes. Operations mutate the receiver and return it so that
// call chains can avoid allocating intermediate values inside the
// solver's hot inner loops.
package geom

import "math"

// Vec2 is a 2 element vector. It is also used as a point.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a 3 element vector, used only by the 3x3 Cramer solve and by
// the weld joint's combined linear/angular impulse.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// NewVec2 returns a new vector with the given components.
func NewVec2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Set assigns x and y to v. The updated vector v is returned.
func (v *Vec2) Set(x, y float64) *Vec2 {
	v.X, v.Y = x, y
	return v
}

// SetV assigns the components of a to v. The updated vector v is returned.
func (v *Vec2) SetV(a Vec2) *Vec2 {
	v.X, v.Y = a.X, a.Y
	return v
}

// Eq reports whether v and a have identical components.
func (v Vec2) Eq(a Vec2) bool { return v.X == a.X && v.Y == a.Y }

// Aeq reports whether v and a are almost equal, component-wise.
func (v Vec2) Aeq(a Vec2) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) }

// Add sets v = a + b and returns v.
func (v *Vec2) Add(a, b Vec2) *Vec2 {
	v.X, v.Y = a.X+b.X, a.Y+b.Y
	return v
}

// Sub sets v = a - b and returns v.
func (v *Vec2) Sub(a, b Vec2) *Vec2 {
	v.X, v.Y = a.X-b.X, a.Y-b.Y
	return v
}

// Scale sets v = a * s and returns v.
func (v *Vec2) Scale(a Vec2, s float64) *Vec2 {
	v.X, v.Y = a.X*s, a.Y*s
	return v
}

// Neg sets v = -a and returns v.
func (v *Vec2) Neg(a Vec2) *Vec2 {
	v.X, v.Y = -a.X, -a.Y
	return v
}

// AddScaled sets v = a + b*s and returns v. Common in integration steps.
func (v *Vec2) AddScaled(a, b Vec2, s float64) *Vec2 {
	v.X, v.Y = a.X+b.X*s, a.Y+b.Y*s
	return v
}

// Plus returns a+b without mutating either operand. Used at call sites
// where chaining scratch vectors would obscure more than it saves.
func Plus(a, b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }

// Minus returns a-b without mutating either operand.
func Minus(a, b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Mul returns a*s without mutating a.
func Mul(a Vec2, s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Dot returns the dot product of v and a.
func (v Vec2) Dot(a Vec2) float64 { return v.X*a.X + v.Y*a.Y }

// Cross returns the 2D cross product (a scalar: the z component of the
// 3D cross product of (v,0) and (a,0)).
func (v Vec2) Cross(a Vec2) float64 { return v.X*a.Y - v.Y*a.X }

// CrossVS returns the vector v rotated -90 degrees and scaled by s: the
// cross product of vector v with scalar s, v x s.
func CrossVS(v Vec2, s float64) Vec2 { return Vec2{s * v.Y, -s * v.X} }

// CrossSV returns the cross product of scalar s with vector v, s x v.
func CrossSV(s float64, v Vec2) Vec2 { return Vec2{-s * v.Y, s * v.X} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// LenSqr returns the squared Euclidean length of v.
func (v Vec2) LenSqr() float64 { return v.X*v.X + v.Y*v.Y }

// Unit sets v to a unit vector in the direction of a and returns the
// original length of a. If a is nearly the zero vector, v is set to the
// zero vector and 0 is returned.
func (v *Vec2) Unit(a Vec2) float64 {
	length := a.Len()
	if length < Epsilon {
		v.X, v.Y = 0, 0
		return 0
	}
	inv := 1.0 / length
	v.X, v.Y = a.X*inv, a.Y*inv
	return length
}

// Skew returns the vector perpendicular to v, rotated 90 degrees
// counter-clockwise: (-y, x).
func (v Vec2) Skew() Vec2 { return Vec2{-v.Y, v.X} }

// Finite reports whether both components of v are finite (not NaN, not
// +/-Inf). Used to enforce the "non-finite input is a contract
// violation" rule from the package's failure-semantics contract.
func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Min sets v to the component-wise minimum of a and b and returns v.
func (v *Vec2) Min(a, b Vec2) *Vec2 {
	v.X, v.Y = math.Min(a.X, b.X), math.Min(a.Y, b.Y)
	return v
}

// Max sets v to the component-wise maximum of a and b and returns v.
func (v *Vec2) Max(a, b Vec2) *Vec2 {
	v.X, v.Y = math.Max(a.X, b.X), math.Max(a.Y, b.Y)
	return v
}

// ClampVec2 clamps each component of v between the corresponding
// components of lo and hi.
func ClampVec2(v, lo, hi Vec2) Vec2 {
	return Vec2{
		X: math.Min(math.Max(v.X, lo.X), hi.X),
		Y: math.Min(math.Max(v.Y, lo.Y), hi.Y),
	}
}
