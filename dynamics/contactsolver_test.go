package dynamics

import (
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

// TestOverlappingCirclesSeparate drops two overlapping dynamic circles
// onto a static floor and checks the contact solver pushes them apart
// over a few steps rather than leaving them interpenetrating, per
// position-correction contract.
func TestOverlappingCirclesSeparate(t *testing.T) {
	w := NewWorld(DefaultDef())

	groundDef := DefaultBodyDef()
	groundDef.Kind = StaticBody
	ground, err := w.CreateBody(groundDef)
	if err != nil {
		t.Fatalf("CreateBody(ground): %v", err)
	}
	if _, err := ground.CreateFixture(DefaultFixtureDef(NewBoxPolygon(10, 0.5))); err != nil {
		t.Fatalf("CreateFixture(ground): %v", err)
	}

	makeCircle := func(x float64) *Body {
		def := DefaultBodyDef()
		def.Position = geom.NewVec2(x, 1)
		b, err := w.CreateBody(def)
		if err != nil {
			t.Fatalf("CreateBody: %v", err)
		}
		fdef := DefaultFixtureDef(&Circle{Radius: 0.5})
		fdef.Density = 1
		if _, err := b.CreateFixture(fdef); err != nil {
			t.Fatalf("CreateFixture: %v", err)
		}
		return b
	}

	// Centers 0.2 apart with radius 0.5 each: substantially overlapping.
	a := makeCircle(0)
	b := makeCircle(0.2)

	conf := DefaultStepConf()
	for i := 0; i < 120; i++ {
		w.Step(conf)
	}

	dist := geom.Minus(a.Position(), b.Position()).Len()
	if dist < 0.9 {
		t.Errorf("expected circles to separate to ~2*radius apart, got center distance %v", dist)
	}
}
