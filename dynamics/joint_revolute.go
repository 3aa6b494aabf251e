package dynamics

import "github.com/gerich-home/box2d/math/geom"

// RevoluteJointDef configures a RevoluteJoint: a pin at a shared
// anchor point, optionally limited to an angle range and/or driven by
// a motor.
type RevoluteJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	ReferenceAngle             float64
	EnableLimit                bool
	LowerAngle, UpperAngle     float64
	EnableMotor                bool
	MotorSpeed                 float64
	MaxMotorTorque             float64
}

// NewRevoluteJointDef derives LocalAnchorA/B and ReferenceAngle from
// the bodies' current poses and a shared world anchor, the usual
// Box2D convenience constructor.
func NewRevoluteJointDef(bodyA, bodyB *Body, anchor geom.Vec2) RevoluteJointDef {
	return RevoluteJointDef{
		jointDef:       jointDef{BodyA: bodyA, BodyB: bodyB},
		LocalAnchorA:   bodyA.xf.ApplyT(anchor),
		LocalAnchorB:   bodyB.xf.ApplyT(anchor),
		ReferenceAngle: bodyB.sweep.A1 - bodyA.sweep.A1,
	}
}

// revoluteJoint pins two bodies at a shared point, with an optional
// angle limit and motor. Standard 2x2 point-to-point constraint plus a
// scalar limit/motor row, solved as in Box2D's b2RevoluteJoint; no direct
// precedent, see joint.go's package doc.
type revoluteJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	referenceAngle             float64

	enableLimit            bool
	lowerAngle, upperAngle float64
	enableMotor            bool
	motorSpeed             float64
	maxMotorTorque         float64

	impulse      geom.Vec2
	motorImpulse float64
	lowerImpulse float64
	upperImpulse float64

	rA, rB geom.Vec2
	k      geom.Mat22
	axialMass float64
}

func NewRevoluteJoint(def RevoluteJointDef) *revoluteJoint {
	return &revoluteJoint{
		jointBase:      jointBase{kind: RevoluteJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		enableLimit:    def.EnableLimit,
		lowerAngle:     def.LowerAngle,
		upperAngle:     def.UpperAngle,
		enableMotor:    def.EnableMotor,
		motorSpeed:     def.MotorSpeed,
		maxMotorTorque: def.MaxMotorTorque,
	}
}

// JointAngle returns bodyB's angle relative to bodyA minus the
// reference angle, the quantity enableLimit clamps.
func (j *revoluteJoint) JointAngle() float64 {
	return j.bodyB.sweep.A1 - j.bodyA.sweep.A1 - j.referenceAngle
}

func (j *revoluteJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	j.rA = rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	fixed := iA+iB == 0
	if fixed {
		j.axialMass = 0
	} else {
		j.axialMass = 1 / (iA + iB)
	}

	kxx := mA + mB + j.rA.Y*j.rA.Y*iA + j.rB.Y*j.rB.Y*iB
	kxy := -j.rA.Y*j.rA.X*iA - j.rB.Y*j.rB.X*iB
	kyy := mA + mB + j.rA.X*j.rA.X*iA + j.rB.X*j.rB.X*iB
	j.k = geom.NewMat22(geom.NewVec2(kxx, kxy), geom.NewVec2(kxy, kyy))

	if !j.enableMotor {
		j.motorImpulse = 0
	}
	if !j.enableLimit {
		j.lowerImpulse, j.upperImpulse = 0, 0
	}

	if !input.warmStart {
		j.impulse = geom.Vec2{}
		j.motorImpulse, j.lowerImpulse, j.upperImpulse = 0, 0, 0
	}
}

func (j *revoluteJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	axial := j.motorImpulse + j.lowerImpulse - j.upperImpulse
	p := j.impulse

	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * (j.rA.Cross(p) + axial)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * (j.rB.Cross(p) + axial)
}

func (j *revoluteJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	iA, iB := j.bodyA.invI, j.bodyB.invI

	if j.enableMotor {
		cdot := b.w - a.w - j.motorSpeed
		impulse := -j.axialMass * cdot
		old := j.motorImpulse
		maxImpulse := j.maxMotorTorque * input.dt
		j.motorImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		a.w -= iA * impulse
		b.w += iB * impulse
	}

	if j.enableLimit {
		angle := j.JointAngle()

		{
			c := angle - j.lowerAngle
			cdot := b.w - a.w
			bias := maxFloat(c, 0) / input.dt
			impulse := -j.axialMass * (cdot + bias)
			old := j.lowerImpulse
			j.lowerImpulse = maxFloat(old+impulse, 0)
			impulse = j.lowerImpulse - old
			a.w -= iA * impulse
			b.w += iB * impulse
		}
		{
			c := j.upperAngle - angle
			cdot := a.w - b.w
			bias := maxFloat(c, 0) / input.dt
			impulse := -j.axialMass * (cdot + bias)
			old := j.upperImpulse
			j.upperImpulse = maxFloat(old+impulse, 0)
			impulse = j.upperImpulse - old
			a.w += iA * impulse
			b.w -= iB * impulse
		}
	}

	vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
	vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
	cdot := geom.Minus(vpB, vpA)

	impulse := j.k.Solve(geom.Mul(cdot, -1))
	j.impulse = geom.Plus(j.impulse, impulse)

	a.v.AddScaled(a.v, impulse, -j.bodyA.invMass)
	a.w -= iA * j.rA.Cross(impulse)
	b.v.AddScaled(b.v, impulse, j.bodyB.invMass)
	b.w += iB * j.rB.Cross(impulse)
}

func (j *revoluteJoint) solvePositionConstraints(sb *[]solverBody) bool {
	a, b := j.sbA(sb), j.sbB(sb)
	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	angularError := 0.0
	if j.enableLimit {
		angle := b.a - a.a - j.referenceAngle
		var c float64
		if j.upperAngle-j.lowerAngle < 2*angularSlop {
			c = clampFloat(angle-j.lowerAngle, -maxAngularCorrectionJoint, maxAngularCorrectionJoint)
		} else if angle <= j.lowerAngle {
			c = clampFloat(angle-j.lowerAngle+angularSlop, -maxAngularCorrectionJoint, 0)
		} else if angle >= j.upperAngle {
			c = clampFloat(angle-j.upperAngle-angularSlop, 0, maxAngularCorrectionJoint)
		}
		if c != 0 {
			var limitMass float64
			if iA+iB > 0 {
				limitMass = 1 / (iA + iB)
			}
			impulse := -limitMass * c
			a.a -= iA * impulse
			b.a += iB * impulse
			angularError = absFloat(c)
		}
	}

	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	cErr := geom.Minus(geom.Plus(b.c, rB), geom.Plus(a.c, rA))
	linearError := cErr.Len()

	kxx := mA + mB + rA.Y*rA.Y*iA + rB.Y*rB.Y*iB
	kxy := -rA.Y*rA.X*iA - rB.Y*rB.X*iB
	kyy := mA + mB + rA.X*rA.X*iA + rB.X*rB.X*iB
	k := geom.NewMat22(geom.NewVec2(kxx, kxy), geom.NewVec2(kxy, kyy))

	impulse := k.Solve(geom.Mul(cErr, -1))

	a.c.AddScaled(a.c, impulse, -mA)
	a.a -= iA * rA.Cross(impulse)
	b.c.AddScaled(b.c, impulse, mB)
	b.a += iB * rB.Cross(impulse)

	return linearError <= linearSlop && angularError <= angularSlop
}

const maxAngularCorrectionJoint = 8 * geom.Pi / 180

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
