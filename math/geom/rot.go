package geom

import "math"

// Rot is a rotation in the plane stored as a unit vector (cos, sin)
// rather than as a bare angle or a 2x2 matrix. Composition is exact
// (no re-normalization against a growing angle) and reconstructing sin
// and cos from an angle happens once, at construction, instead of every
// time the rotation is applied.
type Rot struct {
	Sin float64
	Cos float64
}

// Identity is the zero rotation.
var Identity = Rot{Sin: 0, Cos: 1}

// NewRot builds a rotation from an angle in radians.
func NewRot(angle float64) Rot {
	return Rot{Sin: math.Sin(angle), Cos: math.Cos(angle)}
}

// Set updates r to the rotation for the given angle in radians and
// returns r.
func (r *Rot) Set(angle float64) *Rot {
	r.Sin, r.Cos = math.Sin(angle), math.Cos(angle)
	return r
}

// SetIdentity sets r to the identity rotation and returns r.
func (r *Rot) SetIdentity() *Rot {
	r.Sin, r.Cos = 0, 1
	return r
}

// Angle returns the angle in radians represented by r.
func (r Rot) Angle() float64 { return math.Atan2(r.Sin, r.Cos) }

// XAxis returns the local x axis in world space.
func (r Rot) XAxis() Vec2 { return Vec2{r.Cos, r.Sin} }

// YAxis returns the local y axis in world space.
func (r Rot) YAxis() Vec2 { return Vec2{-r.Sin, r.Cos} }

// Mul returns the rotation q followed by rotation r: r*q.
func (r Rot) Mul(q Rot) Rot {
	return Rot{
		Sin: r.Sin*q.Cos + r.Cos*q.Sin,
		Cos: r.Cos*q.Cos - r.Sin*q.Sin,
	}
}

// MulT returns the inverse of r composed with q: r^T * q.
func (r Rot) MulT(q Rot) Rot {
	return Rot{
		Sin: r.Cos*q.Sin - r.Sin*q.Cos,
		Cos: r.Cos*q.Cos + r.Sin*q.Sin,
	}
}

// Apply rotates v by r.
func (r Rot) Apply(v Vec2) Vec2 {
	return Vec2{r.Cos*v.X - r.Sin*v.Y, r.Sin*v.X + r.Cos*v.Y}
}

// ApplyT rotates v by the inverse of r.
func (r Rot) ApplyT(v Vec2) Vec2 {
	return Vec2{r.Cos*v.X + r.Sin*v.Y, -r.Sin*v.X + r.Cos*v.Y}
}

// NormalizeAngle maps an angle in radians to (-pi, pi].
func NormalizeAngle(angle float64) float64 {
	twoPi := 2 * math.Pi
	angle = math.Mod(angle, twoPi)
	if angle < -math.Pi {
		angle += twoPi
	} else if angle > math.Pi {
		angle -= twoPi
	}
	return angle
}

// RelativeAngle returns the signed angle from b to a, normalized to
// (-pi, pi].
func RelativeAngle(a, b Rot) float64 {
	s := a.Sin*b.Cos - a.Cos*b.Sin
	c := a.Cos*b.Cos + a.Sin*b.Sin
	return math.Atan2(s, c)
}
