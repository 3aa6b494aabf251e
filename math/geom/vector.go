package geom

// Vec3 support. Unlike Vec2 this type only appears in the 3x3 Cramer
// solve (geom.Mat33) and in the dynamics package's weld joint, which
// keeps its accumulated two-linear-plus-one-angular impulse as a Vec3.

// NewVec3 returns a new 3 element vector.
func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add sets v = a + b and returns v.
func (v *Vec3) Add(a, b Vec3) *Vec3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub sets v = a - b and returns v.
func (v *Vec3) Sub(a, b Vec3) *Vec3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Scale sets v = a * s and returns v.
func (v *Vec3) Scale(a Vec3, s float64) *Vec3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// Dot returns the dot product of v and a.
func (v Vec3) Dot(a Vec3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross sets v to the 3D cross product of a and b and returns v.
func (v *Vec3) Cross(a, b Vec3) *Vec3 {
	x := a.Y*b.Z - a.Z*b.Y
	y := a.Z*b.X - a.X*b.Z
	z := a.X*b.Y - a.Y*b.X
	v.X, v.Y, v.Z = x, y, z
	return v
}
