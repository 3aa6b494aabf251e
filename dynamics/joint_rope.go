package dynamics

import "github.com/gerich-home/box2d/math/geom"

// RopeJointDef configures a RopeJoint: an inextensible maximum
// separation between two anchors (never pulls them together, only
// stops them from separating further).
type RopeJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	MaxLength                  float64
}

// ropeJoint is a one-sided distanceJoint: the constraint only ever
// pulls the anchors together, never pushes them apart (its accumulated
// impulse is clamped to <= 0), so C = length - maxLength is clamped to [0,
// inf) before use. Standard Box2D b2RopeJoint formulation; no direct
// precedent, see joint.go's package doc.
type ropeJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	maxLength                  float64

	u       geom.Vec2
	mass    float64
	impulse float64
	length  float64
	state   bool // true when taut (length >= maxLength) this step

	rA, rB geom.Vec2
}

func NewRopeJoint(def RopeJointDef) *ropeJoint {
	return &ropeJoint{
		jointBase:    jointBase{kind: RopeJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxLength:    def.MaxLength,
	}
}

func (j *ropeJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	j.rA = rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	d := geom.Minus(geom.Plus(b.c, j.rB), geom.Plus(a.c, j.rA))
	j.length = j.u.Unit(d)

	cErr := j.length - j.maxLength
	j.state = cErr > 0

	if !j.state {
		j.impulse = 0
		return
	}

	crA := j.rA.Cross(j.u)
	crB := j.rB.Cross(j.u)
	invMass := j.bodyA.invMass + j.bodyA.invI*crA*crA + j.bodyB.invMass + j.bodyB.invI*crB*crB
	if invMass > 0 {
		j.mass = 1 / invMass
	}

	if !input.warmStart {
		j.impulse = 0
	}
}

func (j *ropeJoint) warmStartConstraints(sb *[]solverBody) {
	if !j.state {
		return
	}
	a, b := j.sbA(sb), j.sbB(sb)
	p := geom.Mul(j.u, j.impulse)
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * j.rA.Cross(p)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(p)
}

func (j *ropeJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	if !j.state {
		return
	}
	a, b := j.sbA(sb), j.sbB(sb)
	vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
	vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
	cdot := geom.Minus(vpB, vpA).Dot(j.u)

	impulse := -j.mass * cdot
	old := j.impulse
	j.impulse = minFloat(0, j.impulse+impulse)
	impulse = j.impulse - old

	p := geom.Mul(j.u, impulse)
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * j.rA.Cross(p)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(p)
}

func (j *ropeJoint) solvePositionConstraints(sb *[]solverBody) bool {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	d := geom.Minus(geom.Plus(b.c, rB), geom.Plus(a.c, rA))
	var u geom.Vec2
	length := u.Unit(d)
	cErr := clampFloat(length-j.maxLength, 0, maxLinearCorrectionJoint)

	crA := rA.Cross(u)
	crB := rB.Cross(u)
	invMass := j.bodyA.invMass + j.bodyA.invI*crA*crA + j.bodyB.invMass + j.bodyB.invI*crB*crB
	var impulse float64
	if invMass > 0 {
		impulse = -cErr / invMass
	}

	p := geom.Mul(u, impulse)
	a.c.AddScaled(a.c, p, -j.bodyA.invMass)
	a.a -= j.bodyA.invI * rA.Cross(p)
	b.c.AddScaled(b.c, p, j.bodyB.invMass)
	b.a += j.bodyB.invI * rB.Cross(p)

	return length-j.maxLength < linearSlop
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
