package geom

import "testing"

func TestAddV3(t *testing.T) {
	var v Vec3
	v.Add(Vec3{1, 2, 3}, Vec3{1, 2, 3})
	if v != (Vec3{2, 4, 6}) {
		t.Errorf("got %v", v)
	}
}

func TestSubV3(t *testing.T) {
	var v Vec3
	v.Sub(Vec3{1, 2, 3}, Vec3{1, 2, 3})
	if v != (Vec3{0, 0, 0}) {
		t.Errorf("got %v", v)
	}
}

func TestScaleV3(t *testing.T) {
	var v Vec3
	v.Scale(Vec3{1, 2, 3}, 2)
	if v != (Vec3{2, 4, 6}) {
		t.Errorf("got %v", v)
	}
}

func TestDotV3(t *testing.T) {
	a, b := Vec3{1, 2, 3}, Vec3{2, 4, 8}
	if a.Dot(b) != 34 || a.Dot(a) != 14 {
		t.Error("invalid dot product")
	}
}

func TestCrossV3(t *testing.T) {
	var v Vec3
	v.Cross(Vec3{3, -3, 1}, Vec3{4, 9, 2})
	want := Vec3{-15, -2, 39}
	if v != want {
		t.Errorf("got %v want %v", v, want)
	}
}
