package dynamics

import (
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

func TestCollideCirclesOverlapping(t *testing.T) {
	a := &Circle{Center: geom.NewVec2(0, 0), Radius: 1}
	b := &Circle{Center: geom.NewVec2(0, 0), Radius: 1}
	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(1.5, 0), 0)

	m := CollideShapes(a, xfA, 0, b, xfB, 0)
	if m.PointCount != 1 {
		t.Fatalf("expected 1 contact point, got %d", m.PointCount)
	}
	if m.Kind != ManifoldCircles {
		t.Errorf("expected ManifoldCircles, got %v", m.Kind)
	}
}

func TestCollideCirclesSeparated(t *testing.T) {
	a := &Circle{Radius: 1}
	b := &Circle{Radius: 1}
	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(5, 0), 0)

	m := CollideShapes(a, xfA, 0, b, xfB, 0)
	if m.PointCount != 0 {
		t.Errorf("expected no contact, got %d points", m.PointCount)
	}
}

func TestCollidePolygonCircleFaceContact(t *testing.T) {
	box := NewBoxPolygon(1, 1)
	circle := &Circle{Radius: 0.5}
	xfBox := geom.IdentityTransform
	xfCircle := geom.NewTransform(geom.NewVec2(1.3, 0), 0)

	m := CollideShapes(box, xfBox, 0, circle, xfCircle, 0)
	if m.PointCount != 1 {
		t.Fatalf("expected 1 contact point, got %d", m.PointCount)
	}
	if m.Kind != ManifoldFaceA {
		t.Errorf("expected ManifoldFaceA, got %v", m.Kind)
	}
}

func TestCollidePolygonsFaceToFace(t *testing.T) {
	a := NewBoxPolygon(1, 1)
	b := NewBoxPolygon(1, 1)
	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(1.9, 0), 0)

	m := CollideShapes(a, xfA, 0, b, xfB, 0)
	if m.PointCount != 2 {
		t.Fatalf("expected a 2-point face manifold, got %d", m.PointCount)
	}
}

func TestCollidePolygonsSeparatedNoManifold(t *testing.T) {
	a := NewBoxPolygon(1, 1)
	b := NewBoxPolygon(1, 1)
	xfA := geom.IdentityTransform
	xfB := geom.NewTransform(geom.NewVec2(10, 0), 0)

	m := CollideShapes(a, xfA, 0, b, xfB, 0)
	if m.PointCount != 0 {
		t.Errorf("expected no contact, got %d points", m.PointCount)
	}
}

// TestChainOneSidedRejectsBackSideContact builds a two-edge chain lying
// along the X axis and checks that, for the second edge, a circle
// touching the shared vertex from behind that edge's start (in the
// first edge's region, which the ghost-vertex neighbor test rejects)
// produces no manifold, while a circle pressing into the second
// edge's face still collides normally.
func TestChainOneSidedRejectsBackSideContact(t *testing.T) {
	chain := &ChainShape{Vertices: []geom.Vec2{
		geom.NewVec2(-2, 0),
		geom.NewVec2(0, 0),
		geom.NewVec2(2, 0),
	}}
	xfChain := geom.IdentityTransform

	edge := chain.edgeFor(1)
	if !edge.HasVertex0 {
		t.Fatalf("expected edgeFor(1) to carry a ghost vertex at V0")
	}

	// A circle sitting squarely on the second edge's face (well inside
	// its span, away from the shared vertex) must still collide.
	onFace := &Circle{Radius: 0.3}
	xfOnFace := geom.NewTransform(geom.NewVec2(1.0, 0.2), 0)
	m := CollideShapes(chain, xfChain, 1, onFace, xfOnFace, 0)
	if m.PointCount == 0 {
		t.Errorf("expected a face contact away from the shared vertex")
	}

	// A circle that overlaps the shared vertex (0,0) but whose center
	// lies just past it, in the first edge's region, must be rejected
	// by edgeGhostRejects rather than double-reported.
	behind := &Circle{Radius: 0.3}
	xfBehind := geom.NewTransform(geom.NewVec2(-0.2, 0.1), 0)
	mBehind := CollideShapes(chain, xfChain, 1, behind, xfBehind, 0)
	if mBehind.PointCount != 0 {
		t.Errorf("expected the neighbor check to reject a contact behind edge 1's shared vertex, got %d points", mBehind.PointCount)
	}
}
