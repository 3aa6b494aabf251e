package dynamics

import "github.com/gerich-home/box2d/math/geom"

// PrismaticJointDef configures a PrismaticJoint: bodyB slides along an
// axis fixed in bodyA, optionally limited and/or motorized along that
// axis.
type PrismaticJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	LocalAxisA                 geom.Vec2
	ReferenceAngle             float64
	EnableLimit                bool
	LowerTranslation, UpperTranslation float64
	EnableMotor                bool
	MotorSpeed                 float64
	MaxMotorForce              float64
}

// prismaticJoint constrains bodyB to translate along an axis fixed in
// bodyA and to keep a fixed relative angle, with an optional
// limit/motor along the axis. The perpendicular+angular rows are
// solved as a 2x2 block; the axial row (limit/motor) separately, as in
// Box2D's b2PrismaticJoint; no direct precedent, see joint.go's
// package doc.
type prismaticJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	localAxisA                 geom.Vec2
	referenceAngle             float64

	enableLimit                        bool
	lowerTranslation, upperTranslation float64
	enableMotor                        bool
	motorSpeed                         float64
	maxMotorForce                      float64

	axis, perp geom.Vec2
	s1, s2     float64
	a1, a2     float64

	k       geom.Mat22
	impulse geom.Vec2

	motorMass    float64
	motorImpulse float64
	lowerImpulse float64
	upperImpulse float64
	axialMass    float64
}

func NewPrismaticJoint(def PrismaticJointDef) *prismaticJoint {
	return &prismaticJoint{
		jointBase:        jointBase{kind: PrismaticJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localAxisA:       def.LocalAxisA,
		referenceAngle:   def.ReferenceAngle,
		enableLimit:      def.EnableLimit,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		enableMotor:      def.EnableMotor,
		motorSpeed:       def.MotorSpeed,
		maxMotorForce:    def.MaxMotorForce,
	}
}

// Translation returns the signed displacement of bodyB's anchor along
// the axis relative to bodyA's, the quantity enableLimit clamps.
func (j *prismaticJoint) Translation() float64 {
	a, b := j.bodyA, j.bodyB
	pA := a.xf.Apply(j.localAnchorA)
	pB := b.xf.Apply(j.localAnchorB)
	d := geom.Minus(pB, pA)
	axis := a.xf.Rotation.Apply(j.localAxisA)
	return d.Dot(axis)
}

func (j *prismaticJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)

	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))
	d := geom.Minus(geom.Plus(geom.Minus(b.c, a.c), rB), rA)

	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	j.axis = rotA.Apply(j.localAxisA)
	j.a1 = geom.Plus(d, rA).Cross(j.axis)
	j.a2 = rB.Cross(j.axis)
	j.motorMass = mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
	if j.motorMass > 0 {
		j.axialMass = 1 / j.motorMass
	}

	j.perp = j.axis.Skew()
	j.s1 = geom.Plus(d, rA).Cross(j.perp)
	j.s2 = rB.Cross(j.perp)

	k11 := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	k12 := iA*j.s1 + iB*j.s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	j.k = geom.NewMat22(geom.NewVec2(k11, k12), geom.NewVec2(k12, k22))

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

func (j *prismaticJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	axialImpulse := j.motorImpulse + j.lowerImpulse - j.upperImpulse

	p := geom.Plus(geom.Mul(j.perp, j.impulse.X), geom.Mul(j.axis, axialImpulse))
	la := j.impulse.X*j.s1 + j.impulse.Y + axialImpulse*j.a1
	lb := j.impulse.X*j.s2 + j.impulse.Y + axialImpulse*j.a2

	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * la
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * lb
}

func (j *prismaticJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	iA, iB := j.bodyA.invI, j.bodyB.invI

	if j.enableMotor {
		cdot := j.axis.Dot(geom.Minus(b.v, a.v)) + j.a2*b.w - j.a1*a.w - j.motorSpeed
		impulse := j.axialMass * -cdot
		old := j.motorImpulse
		maxImpulse := j.maxMotorForce * input.dt
		j.motorImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old

		p := geom.Mul(j.axis, impulse)
		a.v.AddScaled(a.v, p, -j.bodyA.invMass)
		a.w -= iA * impulse * j.a1
		b.v.AddScaled(b.v, p, j.bodyB.invMass)
		b.w += iB * impulse * j.a2
	}

	translation := j.Translation()

	if j.enableLimit {
		{
			c := translation - j.lowerTranslation
			cdot := j.axis.Dot(geom.Minus(b.v, a.v)) + j.a2*b.w - j.a1*a.w
			bias := maxFloat(c, 0) / input.dt
			impulse := j.axialMass * -(cdot + bias)
			old := j.lowerImpulse
			j.lowerImpulse = maxFloat(old+impulse, 0)
			impulse = j.lowerImpulse - old

			p := geom.Mul(j.axis, impulse)
			a.v.AddScaled(a.v, p, -j.bodyA.invMass)
			a.w -= iA * impulse * j.a1
			b.v.AddScaled(b.v, p, j.bodyB.invMass)
			b.w += iB * impulse * j.a2
		}
		{
			c := j.upperTranslation - translation
			cdot := j.axis.Dot(geom.Minus(a.v, b.v)) + j.a1*a.w - j.a2*b.w
			bias := maxFloat(c, 0) / input.dt
			impulse := j.axialMass * -(cdot + bias)
			old := j.upperImpulse
			j.upperImpulse = maxFloat(old+impulse, 0)
			impulse = j.upperImpulse - old

			p := geom.Mul(j.axis, -impulse)
			a.v.AddScaled(a.v, p, -j.bodyA.invMass)
			a.w -= iA * impulse * j.a1
			b.v.AddScaled(b.v, p, j.bodyB.invMass)
			b.w += iB * impulse * j.a2
		}
	}

	cdot1X := j.perp.Dot(geom.Minus(b.v, a.v)) + j.s2*b.w - j.s1*a.w
	cdot1Y := b.w - a.w
	impulse := j.k.Solve(geom.NewVec2(-cdot1X, -cdot1Y))
	j.impulse = geom.Plus(j.impulse, impulse)

	p := geom.Mul(j.perp, impulse.X)
	la := impulse.X*j.s1 + impulse.Y
	lb := impulse.X*j.s2 + impulse.Y

	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= iA * la
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += iB * lb
}

func (j *prismaticJoint) solvePositionConstraints(sb *[]solverBody) bool {
	a, b := j.sbA(sb), j.sbB(sb)
	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))
	d := geom.Minus(geom.Plus(b.c, rB), geom.Plus(a.c, rA))

	axis := rotA.Apply(j.localAxisA)
	perp := axis.Skew()
	s1 := geom.Plus(d, rA).Cross(perp)
	s2 := rB.Cross(perp)

	c1X := perp.Dot(d)
	c1Y := b.a - a.a - j.referenceAngle

	linearError := absFloat(c1X)
	angularError := absFloat(c1Y)

	k11 := mA + mB + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}
	k := geom.NewMat22(geom.NewVec2(k11, k12), geom.NewVec2(k12, k22))
	impulse := k.Solve(geom.NewVec2(-c1X, -c1Y))

	p := geom.Mul(perp, impulse.X)
	la := impulse.X*s1 + impulse.Y
	lb := impulse.X*s2 + impulse.Y

	a.c.AddScaled(a.c, p, -mA)
	a.a -= iA * la
	b.c.AddScaled(b.c, p, mB)
	b.a += iB * lb

	return linearError <= linearSlop && angularError <= angularSlop
}
