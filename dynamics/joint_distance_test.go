package dynamics

import (
	"math"
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

// TestDistanceJointHoldsBodiesApart anchors a dynamic body to a static
// anchor with a rigid DistanceJoint and checks that after settling
// under gravity the body stays at the joint's configured length from
// the anchorDistanceJoint invariant.
func TestDistanceJointHoldsBodiesApart(t *testing.T) {
	w := NewWorld(DefaultDef())

	anchorDef := DefaultBodyDef()
	anchorDef.Kind = StaticBody
	anchorDef.Position = geom.NewVec2(0, 10)
	anchor, err := w.CreateBody(anchorDef)
	if err != nil {
		t.Fatalf("CreateBody(anchor): %v", err)
	}
	if _, err := anchor.CreateFixture(DefaultFixtureDef(&Circle{Radius: 0.1})); err != nil {
		t.Fatalf("CreateFixture(anchor): %v", err)
	}

	bobDef := DefaultBodyDef()
	bobDef.Position = geom.NewVec2(0, 5) // below the anchor by 5, joint will pull it to 3
	bob, err := w.CreateBody(bobDef)
	if err != nil {
		t.Fatalf("CreateBody(bob): %v", err)
	}
	fdef := DefaultFixtureDef(&Circle{Radius: 0.2})
	fdef.Density = 1
	if _, err := bob.CreateFixture(fdef); err != nil {
		t.Fatalf("CreateFixture(bob): %v", err)
	}

	const length = 3.0
	jd := NewDistanceJointDef(anchor, bob, anchor.Position(), bob.Position())
	jd.Length = length
	if err := w.CreateJoint(NewDistanceJoint(jd)); err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	conf := DefaultStepConf()
	for i := 0; i < 600; i++ {
		w.Step(conf)
	}

	dist := geom.Minus(anchor.Position(), bob.Position()).Len()
	if math.Abs(dist-length) > 0.05 {
		t.Errorf("expected distance ~%v after settling, got %v", length, dist)
	}
}
