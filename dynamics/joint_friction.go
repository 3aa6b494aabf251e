package dynamics

import "github.com/gerich-home/box2d/math/geom"

// FrictionJointDef configures a FrictionJoint: resists relative linear
// and angular velocity up to a maximum force/torque, used to damp a
// body without pinning it.
type FrictionJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	MaxForce                   float64
	MaxTorque                  float64
}

// frictionJoint drives the relative linear and angular velocity of
// its two bodies toward zero, clamped to maxForce/maxTorque. Standard
// Box2D b2FrictionJoint formulation; no direct precedent, see
// joint.go's package doc.
type frictionJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	maxForce, maxTorque        float64

	linearImpulse  geom.Vec2
	angularImpulse float64

	rA, rB geom.Vec2
	linearMass geom.Mat22
	angularMass float64
}

func NewFrictionJoint(def FrictionJointDef) *frictionJoint {
	return &frictionJoint{
		jointBase:    jointBase{kind: FrictionJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		maxForce:     def.MaxForce,
		maxTorque:    def.MaxTorque,
	}
}

func (j *frictionJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	j.rA = rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	if iA+iB > 0 {
		j.angularMass = 1 / (iA + iB)
	}

	kxx := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	kxy := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	kyy := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.linearMass = geom.NewMat22(geom.NewVec2(kxx, kxy), geom.NewVec2(kxy, kyy))

	if !input.warmStart {
		j.linearImpulse = geom.Vec2{}
		j.angularImpulse = 0
	}
}

func (j *frictionJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	a.v.AddScaled(a.v, j.linearImpulse, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * (j.rA.Cross(j.linearImpulse) + j.angularImpulse)
	b.v.AddScaled(b.v, j.linearImpulse, j.bodyB.invMass)
	b.w += j.bodyB.invI * (j.rB.Cross(j.linearImpulse) + j.angularImpulse)
}

func (j *frictionJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	iA, iB := j.bodyA.invI, j.bodyB.invI

	{
		cdot := b.w - a.w
		impulse := -j.angularMass * cdot
		old := j.angularImpulse
		maxImpulse := j.maxTorque * input.dt
		j.angularImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.angularImpulse - old
		a.w -= iA * impulse
		b.w += iB * impulse
	}

	{
		vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
		vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
		cdot := geom.Minus(vpB, vpA)

		impulse := j.linearMass.Solve(geom.Mul(cdot, -1))
		old := j.linearImpulse
		j.linearImpulse = geom.Plus(j.linearImpulse, impulse)

		maxImpulse := j.maxForce * input.dt
		if j.linearImpulse.LenSqr() > maxImpulse*maxImpulse {
			j.linearImpulse = geom.Mul(j.linearImpulse, maxImpulse/j.linearImpulse.Len())
		}
		impulse = geom.Minus(j.linearImpulse, old)

		a.v.AddScaled(a.v, impulse, -j.bodyA.invMass)
		a.w -= iA * j.rA.Cross(impulse)
		b.v.AddScaled(b.v, impulse, j.bodyB.invMass)
		b.w += iB * j.rB.Cross(impulse)
	}
}

func (j *frictionJoint) solvePositionConstraints(sb *[]solverBody) bool { return true }
