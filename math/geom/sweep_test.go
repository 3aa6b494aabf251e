package geom

import "testing"

func TestSweepGetTransformEndpoints(t *testing.T) {
	s := Sweep{
		LocalCenter: Vec2{0, 0},
		C0:          Vec2{0, 0},
		C1:          Vec2{10, 0},
		A0:          0,
		A1:          Pi / 2,
	}
	start := s.GetTransform(0)
	if !start.Position.Aeq(s.C0) {
		t.Errorf("got %v want %v", start.Position, s.C0)
	}
	end := s.GetTransform(1)
	if !end.Position.Aeq(s.C1) {
		t.Errorf("got %v want %v", end.Position, s.C1)
	}
}

func TestSweepAdvance(t *testing.T) {
	s := Sweep{C0: Vec2{0, 0}, C1: Vec2{10, 0}, A0: 0, A1: 1, Alpha0: 0}
	s.Advance(0.5)
	if !Aeq(s.C0.X, 5) {
		t.Errorf("got C0=%v want X=5", s.C0)
	}
	if s.Alpha0 != 0.5 {
		t.Errorf("got Alpha0=%v want 0.5", s.Alpha0)
	}
}
