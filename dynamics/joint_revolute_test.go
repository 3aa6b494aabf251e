package dynamics

import (
	"math"
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

// TestRevoluteJointLimitStopsSwing builds a physical pendulum (a long
// box pinned at one end) starting horizontal and checks that, with an
// angle limit enabled, gravity cannot swing it past the configured
// lower bound, even though an unlimited pendulum started from the same
// pose swings well past it.
func TestRevoluteJointLimitStopsSwing(t *testing.T) {
	const hy = 1.0 // half-length of the rod, anchor at its local (0, hy)

	newPendulum := func(w *World) (*Body, *revoluteJoint) {
		anchorDef := DefaultBodyDef()
		anchorDef.Kind = StaticBody
		anchor, err := w.CreateBody(anchorDef)
		if err != nil {
			t.Fatalf("CreateBody(anchor): %v", err)
		}
		if _, err := anchor.CreateFixture(DefaultFixtureDef(&Circle{Radius: 0.05})); err != nil {
			t.Fatalf("CreateFixture(anchor): %v", err)
		}

		// Rod starts horizontal: body rotated 90 degrees so its local
		// top (0, hy) lands on the world origin, where the anchor sits.
		rodDef := DefaultBodyDef()
		rodDef.Angle = math.Pi / 2
		rodDef.Position = geom.NewVec2(hy, 0)
		rod, err := w.CreateBody(rodDef)
		if err != nil {
			t.Fatalf("CreateBody(rod): %v", err)
		}
		fdef := DefaultFixtureDef(NewBoxPolygon(0.05, hy))
		fdef.Density = 1
		if _, err := rod.CreateFixture(fdef); err != nil {
			t.Fatalf("CreateFixture(rod): %v", err)
		}

		jd := NewRevoluteJointDef(anchor, rod, geom.NewVec2(0, 0))
		jd.EnableLimit = true
		jd.LowerAngle = -math.Pi / 4
		jd.UpperAngle = 0.1
		joint := NewRevoluteJoint(jd)
		if err := w.CreateJoint(joint); err != nil {
			t.Fatalf("CreateJoint: %v", err)
		}
		return rod, joint
	}

	w := NewWorld(DefaultDef())
	_, joint := newPendulum(w)

	conf := DefaultStepConf()
	minAngle := math.Inf(1)
	for i := 0; i < 300; i++ {
		w.Step(conf)
		if a := joint.JointAngle(); a < minAngle {
			minAngle = a
		}
	}

	const limitTolerance = 0.05
	if minAngle < joint.lowerAngle-limitTolerance {
		t.Errorf("expected the limit to hold the joint angle above %v, got minimum %v", joint.lowerAngle, minAngle)
	}

	// Sanity check the limit actually mattered: an unlimited twin
	// started from the same pose swings well past the lower bound.
	wFree := NewWorld(DefaultDef())
	_, freeJoint := newPendulum(wFree)
	freeJoint.enableLimit = false

	minFreeAngle := math.Inf(1)
	for i := 0; i < 300; i++ {
		wFree.Step(conf)
		if a := freeJoint.JointAngle(); a < minFreeAngle {
			minFreeAngle = a
		}
	}

	if minFreeAngle >= joint.lowerAngle-limitTolerance {
		t.Errorf("expected the unlimited pendulum to swing past %v, got minimum %v", joint.lowerAngle, minFreeAngle)
	}
}
