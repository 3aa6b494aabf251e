package dynamics

import "github.com/gerich-home/box2d/math/geom"

// MotorJointDef configures a MotorJoint: drives bodyB toward a target
// linear offset and angle relative to bodyA, clamped to max
// force/torque. Used for things like a character
// controller that should track a kinematic target smoothly.
type MotorJointDef struct {
	jointDef
	LinearOffset   geom.Vec2
	AngularOffset  float64
	MaxForce       float64
	MaxTorque      float64
	CorrectionFactor float64
}

// NewMotorJointDef derives LinearOffset/AngularOffset from the
// bodies' current relative pose, the usual Box2D convenience.
func NewMotorJointDef(bodyA, bodyB *Body) MotorJointDef {
	return MotorJointDef{
		jointDef:         jointDef{BodyA: bodyA, BodyB: bodyB},
		LinearOffset:     bodyA.xf.ApplyT(bodyB.xf.Position),
		AngularOffset:    bodyB.sweep.A1 - bodyA.sweep.A1,
		MaxForce:         1,
		MaxTorque:        1,
		CorrectionFactor: 0.3,
	}
}

// motorJoint is a pure-velocity servo: it has no position-solve pass
// (position error is corrected by biasing the velocity solve toward
// correctionFactor of the error each step), matching Box2D's
// b2MotorJoint; no direct precedent, see joint.go's package doc.
type motorJoint struct {
	jointBase

	linearOffset     geom.Vec2
	angularOffset    float64
	maxForce         float64
	maxTorque        float64
	correctionFactor float64

	linearImpulse  geom.Vec2
	angularImpulse float64

	rA, rB      geom.Vec2
	linearError geom.Vec2
	angularError float64
	linearMass  geom.Mat22
	angularMass float64
}

func NewMotorJoint(def MotorJointDef) *motorJoint {
	return &motorJoint{
		jointBase:        jointBase{kind: MotorJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		linearOffset:     def.LinearOffset,
		angularOffset:    def.AngularOffset,
		maxForce:         def.MaxForce,
		maxTorque:        def.MaxTorque,
		correctionFactor: def.CorrectionFactor,
	}
}

func (j *motorJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)

	j.rA = rotA.Apply(geom.Mul(j.bodyA.sweep.LocalCenter, -1))
	j.rB = rotB.Apply(geom.Mul(j.bodyB.sweep.LocalCenter, -1))

	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	kxx := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	kxy := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	kyy := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	j.linearMass = geom.NewMat22(geom.NewVec2(kxx, kxy), geom.NewVec2(kxy, kyy))

	if iA+iB > 0 {
		j.angularMass = 1 / (iA + iB)
	}

	j.linearError = geom.Minus(geom.Minus(geom.Plus(b.c, j.rB), geom.Plus(a.c, j.rA)), rotA.Apply(j.linearOffset))
	j.angularError = b.a - a.a - j.angularOffset

	if !input.warmStart {
		j.linearImpulse = geom.Vec2{}
		j.angularImpulse = 0
	}
}

func (j *motorJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	a.v.AddScaled(a.v, j.linearImpulse, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * (j.rA.Cross(j.linearImpulse) + j.angularImpulse)
	b.v.AddScaled(b.v, j.linearImpulse, j.bodyB.invMass)
	b.w += j.bodyB.invI * (j.rB.Cross(j.linearImpulse) + j.angularImpulse)
}

func (j *motorJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	iA, iB := j.bodyA.invI, j.bodyB.invI
	invDt := 0.0
	if input.dt > 0 {
		invDt = 1 / input.dt
	}

	{
		cdot := b.w - a.w + j.correctionFactor*invDt*j.angularError
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
		cdot := geom.Plus(geom.Minus(vpB, vpA), geom.Mul(j.linearError, j.correctionFactor*invDt))

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

func (j *motorJoint) solvePositionConstraints(sb *[]solverBody) bool { return true }
