package dynamics

import (
	"math"
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

func TestCircleComputeMassAtOrigin(t *testing.T) {
	c := &Circle{Radius: 2}
	const density = 3.0

	md := c.ComputeMass(density)

	wantMass := density * math.Pi * c.Radius * c.Radius
	if math.Abs(md.Mass-wantMass) > 1e-9 {
		t.Errorf("mass: want %v, got %v", wantMass, md.Mass)
	}

	wantI := wantMass * 0.5 * c.Radius * c.Radius
	if math.Abs(md.I-wantI) > 1e-9 {
		t.Errorf("I: want %v, got %v", wantI, md.I)
	}
	if md.Center != c.Center {
		t.Errorf("center: want %v, got %v", c.Center, md.Center)
	}
}

// TestCircleComputeMassOffCenter checks the parallel-axis term: an
// off-origin circle's inertia about the shape's local origin must
// exceed its inertia about its own center by mass*|c|^2.
func TestCircleComputeMassOffCenter(t *testing.T) {
	c := &Circle{Center: geom.NewVec2(3, 4), Radius: 1}
	const density = 1.0

	md := c.ComputeMass(density)

	mass := density * math.Pi * c.Radius * c.Radius
	iAboutCenter := mass * 0.5 * c.Radius * c.Radius
	wantI := iAboutCenter + mass*c.Center.Dot(c.Center)
	if math.Abs(md.I-wantI) > 1e-9 {
		t.Errorf("I: want %v, got %v", wantI, md.I)
	}
}

// TestBoxPolygonComputeMass checks the closed-form rectangle mass and
// moment of inertia: mass = density*width*height, I = mass*(w^2+h^2)/12
// about the centroid, which for an axis-aligned box centered at the
// origin coincides with the shape's own local origin.
func TestBoxPolygonComputeMass(t *testing.T) {
	const hx, hy = 2.0, 1.0
	const density = 5.0
	box := NewBoxPolygon(hx, hy)

	md := box.ComputeMass(density)

	width, height := 2*hx, 2*hy
	wantMass := density * width * height
	if math.Abs(md.Mass-wantMass) > 1e-9 {
		t.Errorf("mass: want %v, got %v", wantMass, md.Mass)
	}

	wantI := wantMass * (width*width + height*height) / 12
	if math.Abs(md.I-wantI) > 1e-6 {
		t.Errorf("I: want %v, got %v", wantI, md.I)
	}

	if math.Abs(md.Center.X) > 1e-9 || math.Abs(md.Center.Y) > 1e-9 {
		t.Errorf("expected centroid at origin for a box centered at origin, got %v", md.Center)
	}
}

func TestEdgeAndChainHaveZeroMass(t *testing.T) {
	e := &Edge{V0: geom.NewVec2(0, 0), V1: geom.NewVec2(1, 0)}
	if md := e.ComputeMass(10); md.Mass != 0 {
		t.Errorf("expected zero mass for an edge, got %v", md.Mass)
	}

	c := &ChainShape{Vertices: []geom.Vec2{geom.NewVec2(0, 0), geom.NewVec2(1, 0), geom.NewVec2(2, 0)}}
	if md := c.ComputeMass(10); md.Mass != 0 {
		t.Errorf("expected zero mass for a chain, got %v", md.Mass)
	}
}

func TestChainEdgeForGhostVertices(t *testing.T) {
	c := &ChainShape{Vertices: []geom.Vec2{
		geom.NewVec2(0, 0),
		geom.NewVec2(1, 0),
		geom.NewVec2(2, 0),
		geom.NewVec2(3, 0),
	}}

	first := c.edgeFor(0)
	if first.HasVertex0 {
		t.Errorf("first edge should have no neighbor before it")
	}
	if !first.HasVertex3 {
		t.Errorf("first edge should have a ghost vertex after it")
	}

	middle := c.edgeFor(1)
	if !middle.HasVertex0 || !middle.HasVertex3 {
		t.Errorf("middle edge should have ghost vertices on both ends")
	}

	last := c.edgeFor(2)
	if !last.HasVertex0 {
		t.Errorf("last edge should have a neighbor before it")
	}
	if last.HasVertex3 {
		t.Errorf("last edge should have no neighbor after it")
	}
}
