package geom

import "testing"

func TestMat22ApplyIdentity(t *testing.T) {
	m := NewMat22(Vec2{1, 0}, Vec2{0, 1})
	v := Vec2{3, 4}
	if got := m.Apply(v); !got.Aeq(v) {
		t.Errorf("got %v want %v", got, v)
	}
}

func TestMat22Inverse(t *testing.T) {
	m := NewMat22(Vec2{2, 0}, Vec2{0, 2})
	inv := m.Inverse()
	want := NewMat22(Vec2{0.5, 0}, Vec2{0, 0.5})
	if !inv.Col1.Aeq(want.Col1) || !inv.Col2.Aeq(want.Col2) {
		t.Errorf("got %v want %v", inv, want)
	}
}

func TestMat22SolveSingularDegradesToZero(t *testing.T) {
	m := NewMat22(Vec2{0, 0}, Vec2{0, 0})
	if got := m.Solve(Vec2{1, 1}); got != (Vec2{0, 0}) {
		t.Errorf("singular solve should degrade to zero, got %v", got)
	}
}

func TestMat22SolveRoundTrip(t *testing.T) {
	m := NewMat22(Vec2{2, 1}, Vec2{1, 3})
	b := Vec2{5, 6}
	x := m.Solve(b)
	if got := m.Apply(x); !got.Aeq(b) {
		t.Errorf("m*Solve(b) = %v, want %v", got, b)
	}
}

func TestMat33Solve33RoundTrip(t *testing.T) {
	m := Mat33{
		Col1: Vec3{2, 0, 1},
		Col2: Vec3{0, 3, 0},
		Col3: Vec3{1, 0, 2},
	}
	b := Vec3{5, 6, 4}
	x := m.Solve33(b)
	got := m.Apply(x)
	if !Aeq(got.X, b.X) || !Aeq(got.Y, b.Y) || !Aeq(got.Z, b.Z) {
		t.Errorf("m*Solve33(b) = %v, want %v", got, b)
	}
}
