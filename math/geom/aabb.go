package geom

import "math"

// AABB is an axis-aligned bounding box defined by its lower and upper
// corners.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

// NewAABB builds an AABB from its corners.
func NewAABB(lower, upper Vec2) AABB { return AABB{LowerBound: lower, UpperBound: upper} }

// Center returns the AABB's center point.
func (b AABB) Center() Vec2 { return Mul(Plus(b.LowerBound, b.UpperBound), 0.5) }

// Extents returns the AABB's half-width vector.
func (b AABB) Extents() Vec2 { return Mul(Minus(b.UpperBound, b.LowerBound), 0.5) }

// Perimeter returns twice the sum of the AABB's width and height, used
// by the broad-phase tree as the surface-area-heuristic cost of a node.
func (b AABB) Perimeter() float64 {
	wx := b.UpperBound.X - b.LowerBound.X
	wy := b.UpperBound.Y - b.LowerBound.Y
	return 2 * (wx + wy)
}

// Combine returns the union of b and other, the smallest AABB
// containing both.
func (b AABB) Combine(other AABB) AABB {
	var out AABB
	out.LowerBound.Min(b.LowerBound, other.LowerBound)
	out.UpperBound.Max(b.UpperBound, other.UpperBound)
	return out
}

// Contains reports whether b fully contains other.
func (b AABB) Contains(other AABB) bool {
	return b.LowerBound.X <= other.LowerBound.X &&
		b.LowerBound.Y <= other.LowerBound.Y &&
		other.UpperBound.X <= b.UpperBound.X &&
		other.UpperBound.Y <= b.UpperBound.Y
}

// Overlaps reports whether b and other intersect, including touching at
// an edge.
func (b AABB) Overlaps(other AABB) bool {
	d1x := other.LowerBound.X - b.UpperBound.X
	d1y := other.LowerBound.Y - b.UpperBound.Y
	d2x := b.LowerBound.X - other.UpperBound.X
	d2y := b.LowerBound.Y - other.UpperBound.Y
	if d1x > 0 || d1y > 0 {
		return false
	}
	if d2x > 0 || d2y > 0 {
		return false
	}
	return true
}

// Finite reports whether every component of the AABB is finite, used to
// reject non-finite shape/body input at the broad-phase boundary.
func (b AABB) Finite() bool {
	return b.LowerBound.Finite() && b.UpperBound.Finite() &&
		!math.IsNaN(b.LowerBound.X-b.UpperBound.X)
}

// RayCastInput is the segment [P1, P2] scaled by MaxFraction, used by
// both AABB.RayCast and shape-level ray casts.
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

// RayCast performs a slab test of the ray described by input against b,
// returning the entry fraction and whether it hit within
// [0, input.MaxFraction].
func (b AABB) RayCast(input RayCastInput) (fraction float64, hit bool) {
	tmin := -math.MaxFloat64
	tmax := math.MaxFloat64

	p := input.P1
	d := Minus(input.P2, input.P1)
	absD := Vec2{math.Abs(d.X), math.Abs(d.Y)}

	lower := [2]float64{b.LowerBound.X, b.LowerBound.Y}
	upper := [2]float64{b.UpperBound.X, b.UpperBound.Y}
	pc := [2]float64{p.X, p.Y}
	dc := [2]float64{d.X, d.Y}
	absDc := [2]float64{absD.X, absD.Y}

	for i := 0; i < 2; i++ {
		if absDc[i] < Epsilon {
			if pc[i] < lower[i] || upper[i] < pc[i] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / dc[i]
		t1 := (lower[i] - pc[i]) * inv
		t2 := (upper[i] - pc[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	if tmin < 0 || tmin > input.MaxFraction {
		return 0, false
	}
	return tmin, true
}
