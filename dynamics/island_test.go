package dynamics

import (
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

func newDynamicBody(t *testing.T, w *World, x, y float64) *Body {
	t.Helper()
	def := DefaultBodyDef()
	def.Position = geom.NewVec2(x, y)
	b, err := w.CreateBody(def)
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}
	if _, err := b.CreateFixture(DefaultFixtureDef(&Circle{Radius: 0.5})); err != nil {
		t.Fatalf("CreateFixture: %v", err)
	}
	return b
}

func TestBuildIslandsGroupsJointedBodies(t *testing.T) {
	w := NewWorld(DefaultDef())
	a := newDynamicBody(t, w, 0, 0)
	b := newDynamicBody(t, w, 2, 0)
	c := newDynamicBody(t, w, 10, 0)

	jd := NewDistanceJointDef(a, b, a.Position(), b.Position())
	if err := w.CreateJoint(NewDistanceJoint(jd)); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	islands := buildIslands(w.Bodies())
	if len(islands) != 2 {
		t.Fatalf("expected 2 islands, got %d", len(islands))
	}

	var jointedIsland, loneIsland *island
	for _, isl := range islands {
		if len(isl.bodies) == 2 {
			jointedIsland = isl
		} else {
			loneIsland = isl
		}
	}
	if jointedIsland == nil || loneIsland == nil {
		t.Fatalf("expected one 2-body island and one 1-body island, got sizes %d and %d", len(islands[0].bodies), len(islands[1].bodies))
	}
	if len(jointedIsland.joints) != 1 {
		t.Errorf("expected 1 joint in the jointed island, got %d", len(jointedIsland.joints))
	}
	if loneIsland.bodies[0] != c {
		t.Errorf("expected the lone island to contain the unconnected body")
	}
}

func TestBuildIslandsSkipsSleepingBodies(t *testing.T) {
	w := NewWorld(DefaultDef())
	a := newDynamicBody(t, w, 0, 0)
	a.SetAwake(false)

	islands := buildIslands(w.Bodies())
	if len(islands) != 0 {
		t.Errorf("expected no islands for an all-sleeping body set, got %d", len(islands))
	}
}
