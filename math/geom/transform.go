package geom

// Transform is a position plus rotation, the rigid transform taking a
// shape's local space into world space.
type Transform struct {
	Position Vec2
	Rotation Rot
}

// IdentityTransform is the identity transform.
var IdentityTransform = Transform{Position: Vec2{}, Rotation: Identity}

// NewTransform builds a transform from a position and an angle in
// radians.
func NewTransform(position Vec2, angle float64) Transform {
	return Transform{Position: position, Rotation: NewRot(angle)}
}

// Apply transforms point p from the transform's local space to world
// space.
func (t Transform) Apply(p Vec2) Vec2 {
	return Plus(t.Rotation.Apply(p), t.Position)
}

// ApplyT transforms point p from world space into the transform's local
// space; the inverse of Apply.
func (t Transform) ApplyT(p Vec2) Vec2 {
	return t.Rotation.ApplyT(Minus(p, t.Position))
}

// MulTransforms composes two transforms: applying the result is the
// same as applying b then a.
func MulTransforms(a, b Transform) Transform {
	return Transform{
		Position: Plus(a.Rotation.Apply(b.Position), a.Position),
		Rotation: a.Rotation.Mul(b.Rotation),
	}
}

// MulTTransforms returns the transform that maps points expressed in b's
// frame into a's frame: inverse(a) composed with b.
func MulTTransforms(a, b Transform) Transform {
	return Transform{
		Position: a.Rotation.ApplyT(Minus(b.Position, a.Position)),
		Rotation: a.Rotation.MulT(b.Rotation),
	}
}

// Finite reports whether the transform's position is finite. Rotation
// built from Sin/Cos is always finite once the angle that produced it
// was finite, so only the position needs the explicit check at
// trust-boundary callers.
func (t Transform) Finite() bool { return t.Position.Finite() }
