package dynamics

import (
	"math"
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

func TestDistanceSeparatedCircles(t *testing.T) {
	a := &Circle{Radius: 0.5}
	b := &Circle{Radius: 0.5}
	pa := a.GetDistanceProxy(0)
	pb := b.GetDistanceProxy(0)

	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(5, 0), 0)

	out := Distance(&pa, xfA, &pb, xfB, &SimplexCache{})
	want := 5 - a.Radius - b.Radius
	if math.Abs(out.Distance-want) > 1e-9 {
		t.Errorf("expected distance %v, got %v", want, out.Distance)
	}
}

func TestDistanceOverlappingCirclesIsZero(t *testing.T) {
	a := &Circle{Radius: 1}
	b := &Circle{Radius: 1}
	pa := a.GetDistanceProxy(0)
	pb := b.GetDistanceProxy(0)

	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(0.5, 0), 0)

	out := Distance(&pa, xfA, &pb, xfB, &SimplexCache{})
	if out.Distance != 0 {
		t.Errorf("expected overlapping circles to report 0 distance, got %v", out.Distance)
	}
}

func TestDistancePolygonToPolygon(t *testing.T) {
	a := NewBoxPolygon(1, 1)
	b := NewBoxPolygon(1, 1)
	pa := a.GetDistanceProxy(0)
	pb := b.GetDistanceProxy(0)

	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(4, 0), 0)

	out := Distance(&pa, xfA, &pb, xfB, &SimplexCache{})
	want := 4.0 - 1 - 1
	if math.Abs(out.Distance-want) > 1e-6 {
		t.Errorf("expected distance %v, got %v", want, out.Distance)
	}
}

// TestDistanceCacheWarmStartsAcrossSmallMotion checks that reusing a
// SimplexCache across a small displacement still tracks the motion:
// the distance reported from the warm cache after moving the boxes
// closer is smaller than the first query's. It does not compare the
// warm-cache result against a fresh cache.
func TestDistanceCacheWarmStartsAcrossSmallMotion(t *testing.T) {
	a := NewBoxPolygon(1, 1)
	b := NewBoxPolygon(1, 1)
	pa := a.GetDistanceProxy(0)
	pb := b.GetDistanceProxy(0)

	xfA := geom.IdentityTransform
	cache := &SimplexCache{}

	xfB1 := geom.NewTransform(geom.NewVec2(4, 0), 0)
	out1 := Distance(&pa, xfA, &pb, xfB1, cache)

	xfB2 := geom.NewTransform(geom.NewVec2(3.9, 0), 0)
	out2 := Distance(&pa, xfA, &pb, xfB2, cache)

	if out2.Distance >= out1.Distance {
		t.Errorf("expected distance to shrink as boxes move closer: %v then %v", out1.Distance, out2.Distance)
	}
}
