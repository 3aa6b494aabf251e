package dynamics

import (
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

// TestBulletDoesNotTunnelThroughThinWall fires a fast circle at a thin
// static wall. Without time-of-impact sub-stepping a single step would
// carry the circle clean through the wall (step displacement far
// exceeds the wall's thickness); with conf.DoTOI enabled and the
// circle marked Bullet it must stop at the wall instead, exercising TOI sub-stepping.
func TestBulletDoesNotTunnelThroughThinWall(t *testing.T) {
	w := NewWorld(DefaultDef())

	wallDef := DefaultBodyDef()
	wallDef.Kind = StaticBody
	wallDef.Position = geom.NewVec2(5, 0)
	wall, err := w.CreateBody(wallDef)
	if err != nil {
		t.Fatalf("CreateBody(wall): %v", err)
	}
	if _, err := wall.CreateFixture(DefaultFixtureDef(NewBoxPolygon(0.05, 2))); err != nil {
		t.Fatalf("CreateFixture(wall): %v", err)
	}

	bulletDef := DefaultBodyDef()
	bulletDef.Position = geom.NewVec2(0, 0)
	bulletDef.Bullet = true
	bulletDef.LinearVelocity = geom.NewVec2(1000, 0)
	bullet, err := w.CreateBody(bulletDef)
	if err != nil {
		t.Fatalf("CreateBody(bullet): %v", err)
	}
	fdef := DefaultFixtureDef(&Circle{Radius: 0.1})
	fdef.Density = 1
	if _, err := bullet.CreateFixture(fdef); err != nil {
		t.Fatalf("CreateFixture(bullet): %v", err)
	}

	conf := DefaultStepConf()
	conf.DoTOI = true
	// MaxTranslation clamps each step's displacement to 4 units, so the
	// wall (at x=5) is only reached on the second step, which would
	// otherwise carry the bullet's center straight from x=4 to x=8,
	// skipping clean over a wall only 0.1 units thick.
	w.Step(conf)
	w.Step(conf)

	if bullet.Position().X > 5-0.05-0.1+10*linearSlop {
		t.Errorf("bullet tunneled through the wall: ended at x=%v", bullet.Position().X)
	}
}
