package geom

import "testing"

func TestAABBCombineContains(t *testing.T) {
	a := NewAABB(Vec2{0, 0}, Vec2{1, 1})
	b := NewAABB(Vec2{2, 2}, Vec2{3, 3})
	u := a.Combine(b)
	if !u.Contains(a) || !u.Contains(b) {
		t.Errorf("union %v should contain both inputs", u)
	}
}

func TestAABBOverlaps(t *testing.T) {
	a := NewAABB(Vec2{0, 0}, Vec2{2, 2})
	b := NewAABB(Vec2{1, 1}, Vec2{3, 3})
	c := NewAABB(Vec2{5, 5}, Vec2{6, 6})
	if !a.Overlaps(b) {
		t.Error("a and b should overlap")
	}
	if a.Overlaps(c) {
		t.Error("a and c should not overlap")
	}
}

func TestAABBPerimeter(t *testing.T) {
	a := NewAABB(Vec2{0, 0}, Vec2{3, 4})
	if got := a.Perimeter(); got != 14 {
		t.Errorf("got %v want 14", got)
	}
}

func TestAABBRayCastHit(t *testing.T) {
	box := NewAABB(Vec2{-1, -1}, Vec2{1, 1})
	in := RayCastInput{P1: Vec2{-5, 0}, P2: Vec2{5, 0}, MaxFraction: 1}
	fraction, hit := box.RayCast(in)
	if !hit {
		t.Fatal("expected hit")
	}
	if fraction <= 0 || fraction >= 1 {
		t.Errorf("fraction out of range: %v", fraction)
	}
}

func TestAABBRayCastMiss(t *testing.T) {
	box := NewAABB(Vec2{-1, -1}, Vec2{1, 1})
	in := RayCastInput{P1: Vec2{-5, 5}, P2: Vec2{5, 5}, MaxFraction: 1}
	if _, hit := box.RayCast(in); hit {
		t.Error("expected miss")
	}
}
