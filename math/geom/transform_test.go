package geom

import "testing"

func TestTransformApplyApplyT(t *testing.T) {
	tr := NewTransform(Vec2{3, 4}, Pi/4)
	p := Vec2{1, 2}
	world := tr.Apply(p)
	back := tr.ApplyT(world)
	if !back.Aeq(p) {
		t.Errorf("ApplyT(Apply(p)) = %v, want %v", back, p)
	}
}

func TestIdentityTransformIsNoop(t *testing.T) {
	p := Vec2{5, -2}
	if got := IdentityTransform.Apply(p); !got.Aeq(p) {
		t.Errorf("identity Apply changed point: got %v want %v", got, p)
	}
}

func TestMulTransformsComposesLikeApply(t *testing.T) {
	a := NewTransform(Vec2{1, 0}, Pi/2)
	b := NewTransform(Vec2{0, 1}, Pi/4)
	composed := MulTransforms(a, b)
	p := Vec2{2, 3}
	want := a.Apply(b.Apply(p))
	if got := composed.Apply(p); !got.Aeq(want) {
		t.Errorf("MulTransforms mismatch: got %v want %v", got, want)
	}
}

func TestMulTTransformsIsInverseOfMul(t *testing.T) {
	a := NewTransform(Vec2{2, -1}, Pi/3)
	b := NewTransform(Vec2{-3, 4}, Pi/6)
	composed := MulTransforms(a, b)
	recovered := MulTTransforms(a, composed)
	if !recovered.Position.Aeq(b.Position) || !Aeq(recovered.Rotation.Angle(), b.Rotation.Angle()) {
		t.Errorf("got %v want %v", recovered, b)
	}
}
