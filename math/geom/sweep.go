package geom

// Sweep describes the motion of a body's center of mass over a step: a
// linear interpolation between the transform at the start of the step
// (C0/A0) and the transform at its end (C1/A1). TOI sub-stepping advances
// Alpha0 into this same interval instead of re-running the full step.
type Sweep struct {
	LocalCenter Vec2 // center of mass in the body's local frame

	C0, C1 Vec2    // center of mass, world frame, start/end of step
	A0, A1 float64 // angle, start/end of step

	Alpha0 float64 // fraction of the step already consumed by earlier TOI events
}

// GetTransform returns the interpolated transform at fraction beta of
// the swept interval, beta in [0, 1].
func (s Sweep) GetTransform(beta float64) Transform {
	var t Transform
	t.Position = Plus(Mul(s.C0, 1-beta), Mul(s.C1, beta))
	angle := (1-beta)*s.A0 + beta*s.A1
	t.Rotation = NewRot(angle)
	t.Position = Minus(t.Position, t.Rotation.Apply(s.LocalCenter))
	return t
}

// Advance moves the start of the sweep forward to the given alpha in
// [Alpha0, 1], re-basing C0/A0 there while leaving C1/A1 untouched. Used
// after a TOI event resolves sub-step alpha so the next sub-step starts
// from the time of impact rather than from the step's original start.
func (s *Sweep) Advance(alpha float64) {
	if s.Alpha0 >= alpha {
		return
	}
	beta := (alpha - s.Alpha0) / (1 - s.Alpha0)
	s.C0 = Plus(s.C0, Mul(Minus(s.C1, s.C0), beta))
	s.A0 = s.A0 + beta*(s.A1-s.A0)
	s.Alpha0 = alpha
}

// Normalize re-centers A0/A1 around the range (-pi, pi], preserving the
// angular displacement A1-A0, so angles don't wind up unboundedly over a
// long-running simulation.
func (s *Sweep) Normalize() {
	angle := NormalizeAngle(s.A0)
	delta := s.A0 - angle
	s.A0 = angle
	s.A1 -= delta
}
