package dynamics

import "github.com/gerich-home/box2d/math/geom"

// WheelJointDef configures a WheelJoint: bodyB is free to translate
// along an axis fixed in bodyA (softened by a suspension spring) and
// to rotate freely, with the perpendicular translation rigidly locked,
// an optional spin motor, and an optional limit on the translation
// along the axis.
type WheelJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	LocalAxisA                 geom.Vec2
	EnableMotor                bool
	MotorSpeed                 float64
	MaxMotorTorque             float64
	EnableLimit                bool
	LowerTranslation, UpperTranslation float64
	FrequencyHz                float64
	DampingRatio                float64
}

// wheelJoint models a suspension: a rigid perpendicular constraint, a
// soft spring along the axis, an optional axial limit, and an optional
// angular spin motor. Standard Box2D b2WheelJoint formulation; no direct
// precedent, see joint.go's package doc.
type wheelJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	localAxisA                 geom.Vec2

	enableMotor    bool
	motorSpeed     float64
	maxMotorTorque float64
	enableLimit    bool
	lowerTranslation, upperTranslation float64
	frequencyHz, dampingRatio          float64

	axis, perp geom.Vec2
	s1, s2     float64
	a1, a2     float64

	perpMass float64
	perpImpulse float64

	springMass    float64
	springImpulse float64
	bias, gamma   float64

	motorMass    float64
	motorImpulse float64

	lowerImpulse, upperImpulse float64
}

func NewWheelJoint(def WheelJointDef) *wheelJoint {
	return &wheelJoint{
		jointBase:        jointBase{kind: WheelJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA:     def.LocalAnchorA,
		localAnchorB:     def.LocalAnchorB,
		localAxisA:       def.LocalAxisA,
		enableMotor:      def.EnableMotor,
		motorSpeed:       def.MotorSpeed,
		maxMotorTorque:   def.MaxMotorTorque,
		enableLimit:      def.EnableLimit,
		lowerTranslation: def.LowerTranslation,
		upperTranslation: def.UpperTranslation,
		frequencyHz:      def.FrequencyHz,
		dampingRatio:     def.DampingRatio,
	}
}

func (j *wheelJoint) Translation() float64 {
	a, b := j.bodyA, j.bodyB
	d := geom.Minus(b.sweep.C1, a.sweep.C1)
	axis := a.xf.Rotation.Apply(j.localAxisA)
	return d.Dot(axis)
}

func (j *wheelJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
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

	j.perp = j.axis.Skew()
	j.s1 = geom.Plus(d, rA).Cross(j.perp)
	j.s2 = rB.Cross(j.perp)

	kPerp := mA + mB + iA*j.s1*j.s1 + iB*j.s2*j.s2
	if kPerp > 0 {
		j.perpMass = 1 / kPerp
	}

	j.springMass = 0
	j.bias, j.gamma = 0, 0
	if j.frequencyHz > 0 {
		kAxial := mA + mB + iA*j.a1*j.a1 + iB*j.a2*j.a2
		if kAxial > 0 {
			j.springMass = 1 / kAxial
		}
		cErr := d.Dot(j.axis)
		omega := 2 * geom.Pi * j.frequencyHz
		damp := 2 * j.springMass * j.dampingRatio * omega
		stiff := j.springMass * omega * omega
		dt := input.dt
		j.gamma = dt * (damp + dt*stiff)
		if j.gamma != 0 {
			j.gamma = 1 / j.gamma
		}
		j.bias = cErr * dt * stiff * j.gamma
		springK := kAxial + j.gamma
		if springK != 0 {
			j.springMass = 1 / springK
		}
	}

	kMotor := iA + iB
	if kMotor > 0 {
		j.motorMass = 1 / kMotor
	}

	if !j.enableMotor {
		j.motorImpulse = 0
	}
	if !j.enableLimit {
		j.lowerImpulse, j.upperImpulse = 0, 0
	}
	if !input.warmStart {
		j.perpImpulse, j.springImpulse, j.motorImpulse = 0, 0, 0
		j.lowerImpulse, j.upperImpulse = 0, 0
	}
}

func (j *wheelJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	axialImpulse := j.springImpulse + j.lowerImpulse - j.upperImpulse

	p := geom.Plus(geom.Mul(j.perp, j.perpImpulse), geom.Mul(j.axis, axialImpulse))
	la := j.perpImpulse*j.s1 + j.motorImpulse + axialImpulse*j.a1
	lb := j.perpImpulse*j.s2 + j.motorImpulse + axialImpulse*j.a2

	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * la
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * lb
}

func (j *wheelJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	iA, iB := j.bodyA.invI, j.bodyB.invI

	if j.enableMotor {
		cdot := b.w - a.w - j.motorSpeed
		impulse := j.motorMass * -cdot
		old := j.motorImpulse
		maxImpulse := j.maxMotorTorque * input.dt
		j.motorImpulse = clampFloat(old+impulse, -maxImpulse, maxImpulse)
		impulse = j.motorImpulse - old
		a.w -= iA * impulse
		b.w += iB * impulse
	}

	if j.frequencyHz > 0 {
		cdot := j.axis.Dot(geom.Minus(b.v, a.v)) + j.a2*b.w - j.a1*a.w
		impulse := -j.springMass * (cdot + j.bias + j.gamma*j.springImpulse)
		j.springImpulse += impulse
		p := geom.Mul(j.axis, impulse)
		a.v.AddScaled(a.v, p, -j.bodyA.invMass)
		a.w -= iA * impulse * j.a1
		b.v.AddScaled(b.v, p, j.bodyB.invMass)
		b.w += iB * impulse * j.a2
	}

	if j.enableLimit {
		translation := j.Translation()
		{
			c := translation - j.lowerTranslation
			cdot := j.axis.Dot(geom.Minus(b.v, a.v)) + j.a2*b.w - j.a1*a.w
			bias := maxFloat(c, 0) / input.dt
			impulse := -j.springMass * (cdot + bias)
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
			impulse := -j.springMass * (cdot + bias)
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

	cdot := j.perp.Dot(geom.Minus(b.v, a.v)) + j.s2*b.w - j.s1*a.w
	impulse := -j.perpMass * cdot
	j.perpImpulse += impulse

	p := geom.Mul(j.perp, impulse)
	la := impulse * j.s1
	lb := impulse * j.s2
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= iA * la
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += iB * lb
}

func (j *wheelJoint) solvePositionConstraints(sb *[]solverBody) bool {
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

	c := perp.Dot(d)

	k := mA + mB + iA*s1*s1 + iB*s2*s2
	var impulse float64
	if k > 0 {
		impulse = -c / k
	}

	p := geom.Mul(perp, impulse)
	la := impulse * s1
	lb := impulse * s2

	a.c.AddScaled(a.c, p, -mA)
	a.a -= iA * la
	b.c.AddScaled(b.c, p, mB)
	b.a += iB * lb

	return absFloat(c) <= linearSlop
}
