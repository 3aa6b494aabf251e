package geom

import "math"

// Mat22 is a 2x2 matrix, column-major in the sense that Col1/Col2 are
// the matrix's columns: applying it to a vector is Col1*v.X + Col2*v.Y.
type Mat22 struct {
	Col1, Col2 Vec2
}

// NewMat22 builds a matrix from its two columns.
func NewMat22(col1, col2 Vec2) Mat22 { return Mat22{Col1: col1, Col2: col2} }

// NewMat22Angle builds a rotation matrix for the given angle.
func NewMat22Angle(angle float64) Mat22 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat22{Col1: Vec2{c, s}, Col2: Vec2{-s, c}}
}

// Apply returns m*v.
func (m Mat22) Apply(v Vec2) Vec2 {
	return Vec2{m.Col1.X*v.X + m.Col2.X*v.Y, m.Col1.Y*v.X + m.Col2.Y*v.Y}
}

// ApplyT returns transpose(m)*v.
func (m Mat22) ApplyT(v Vec2) Vec2 {
	return Vec2{m.Col1.Dot(v), m.Col2.Dot(v)}
}

// Transpose returns the transpose of m.
func (m Mat22) Transpose() Mat22 {
	return Mat22{
		Col1: Vec2{m.Col1.X, m.Col2.X},
		Col2: Vec2{m.Col1.Y, m.Col2.Y},
	}
}

// Add returns the element-wise sum of m and n.
func (m Mat22) Add(n Mat22) Mat22 {
	return Mat22{Plus(m.Col1, n.Col1), Plus(m.Col2, n.Col2)}
}

// Det returns the determinant of m.
func (m Mat22) Det() float64 { return m.Col1.X*m.Col2.Y - m.Col2.X*m.Col1.Y }

// Inverse returns the inverse of m, or the zero matrix if m is singular.
func (m Mat22) Inverse() Mat22 {
	det := m.Det()
	if det != 0 {
		det = 1.0 / det
	}
	return Mat22{
		Col1: Vec2{det * m.Col2.Y, -det * m.Col1.Y},
		Col2: Vec2{-det * m.Col2.X, det * m.Col1.X},
	}
}

// Solve solves m*x = b for x using Cramer's rule, degrading to the zero
// vector when m is singular rather than dividing by zero. Singular
// effective-mass matrices are expected occasionally at joint/contact
// setup (e.g. coincident anchors) and must degrade gracefully rather
// than poison the solver with NaN.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11, a12, a21, a22 := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1.0 / det
	}
	return Vec2{
		X: det * (a22*b.X - a12*b.Y),
		Y: det * (a11*b.Y - a21*b.X),
	}
}

// Mat33 is a 3x3 matrix stored by columns, used only by the weld
// joint, whose effective mass couples two linear DOF with one angular
// DOF.
type Mat33 struct {
	Col1, Col2, Col3 Vec3
}

// NewMat33 builds a matrix from its three columns.
func NewMat33(col1, col2, col3 Vec3) Mat33 { return Mat33{col1, col2, col3} }

// Apply returns m*v.
func (m Mat33) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m.Col1.X*v.X + m.Col2.X*v.Y + m.Col3.X*v.Z,
		Y: m.Col1.Y*v.X + m.Col2.Y*v.Y + m.Col3.Y*v.Z,
		Z: m.Col1.Z*v.X + m.Col2.Z*v.Y + m.Col3.Z*v.Z,
	}
}

// Solve22 solves the top-left 2x2 block of m against b (x, y unknowns,
// the Z row/column ignored), used when a joint's third row has been
// zeroed out because the angular effective mass degenerated.
func (m Mat33) Solve22(b Vec2) Vec2 {
	a11, a12, a21, a22 := m.Col1.X, m.Col2.X, m.Col1.Y, m.Col2.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1.0 / det
	}
	return Vec2{
		X: det * (a22*b.X - a12*b.Y),
		Y: det * (a11*b.Y - a21*b.X),
	}
}

// Solve33 solves m*x = b via Cramer's rule over all three rows.
func (m Mat33) Solve33(b Vec3) Vec3 {
	var det Vec3
	det.Cross(m.Col1, m.Col2)
	determinant := det.Dot(m.Col3)
	if determinant != 0 {
		determinant = 1.0 / determinant
	}
	var t1, t2, t3 Vec3
	t1.Cross(b, m.Col2)
	x := determinant * t1.Dot(m.Col3)
	t2.Cross(m.Col1, b)
	y := determinant * t2.Dot(m.Col3)
	t3.Cross(m.Col1, m.Col2)
	z := determinant * t3.Dot(b)
	return Vec3{X: x, Y: y, Z: z}
}
