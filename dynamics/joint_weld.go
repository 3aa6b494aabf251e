package dynamics

import "github.com/gerich-home/box2d/math/geom"

// WeldJointDef configures a WeldJoint: fuses two bodies at a shared
// anchor and reference angle, optionally softened into a spring.
type WeldJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	ReferenceAngle             float64
	FrequencyHz                float64
	DampingRatio               float64
}

// weldJoint fuses two bodies rigidly (or, with frequencyHz>0, via a
// soft angular spring) at a shared point. The velocity solve is a
// single coupled 3x3 system (2 linear + 1 angular DOF), matching
// Box2D's b2WeldJoint; no direct precedent, see joint.go's package
// doc.
type weldJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	referenceAngle             float64
	frequencyHz, dampingRatio  float64

	gamma, bias float64
	impulse     geom.Vec3

	rA, rB geom.Vec2
	mass   geom.Mat33
	angularMass float64
}

func NewWeldJoint(def WeldJointDef) *weldJoint {
	return &weldJoint{
		jointBase:      jointBase{kind: WeldJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA:   def.LocalAnchorA,
		localAnchorB:   def.LocalAnchorB,
		referenceAngle: def.ReferenceAngle,
		frequencyHz:    def.FrequencyHz,
		dampingRatio:   def.DampingRatio,
	}
}

func (j *weldJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	j.rA = rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	k11 := mA + mB + iA*j.rA.Y*j.rA.Y + iB*j.rB.Y*j.rB.Y
	k12 := -iA*j.rA.X*j.rA.Y - iB*j.rB.X*j.rB.Y
	k13 := -iA*j.rA.Y - iB*j.rB.Y
	k22 := mA + mB + iA*j.rA.X*j.rA.X + iB*j.rB.X*j.rB.X
	k23 := iA*j.rA.X + iB*j.rB.X
	k33 := iA + iB

	if j.frequencyHz > 0 {
		c := b.a - a.a - j.referenceAngle
		omega := 2 * geom.Pi * j.frequencyHz
		d := 2 * k33 * j.dampingRatio * omega
		kk := k33 * omega * omega
		dt := input.dt
		j.gamma = dt * (d + dt*kk)
		if j.gamma != 0 {
			j.gamma = 1 / j.gamma
		}
		j.bias = c * dt * kk * j.gamma
		k33 += j.gamma
		if k33 != 0 {
			j.angularMass = 1 / k33
		}
	} else {
		j.gamma, j.bias = 0, 0
	}

	j.mass = geom.NewMat33(
		geom.Vec3{X: k11, Y: k12, Z: k13},
		geom.Vec3{X: k12, Y: k22, Z: k23},
		geom.Vec3{X: k13, Y: k23, Z: k33},
	)

	if !input.warmStart {
		j.impulse = geom.Vec3{}
	}
}

func (j *weldJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	p := geom.Vec2{X: j.impulse.X, Y: j.impulse.Y}
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * (j.rA.Cross(p) + j.impulse.Z)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * (j.rB.Cross(p) + j.impulse.Z)
}

func (j *weldJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	iA, iB := j.bodyA.invI, j.bodyB.invI

	if j.frequencyHz > 0 {
		cdot2 := b.w - a.w
		impulse2 := -j.angularMass * (cdot2 + j.bias + j.gamma*j.impulse.Z)
		j.impulse.Z += impulse2
		a.w -= iA * impulse2
		b.w += iB * impulse2

		vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
		vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
		cdot1 := geom.Minus(vpB, vpA)

		k2 := geom.NewMat22(geom.NewVec2(j.mass.Col1.X, j.mass.Col1.Y), geom.NewVec2(j.mass.Col2.X, j.mass.Col2.Y))
		impulse1 := k2.Solve(geom.Mul(cdot1, -1))
		j.impulse.X += impulse1.X
		j.impulse.Y += impulse1.Y

		a.v.AddScaled(a.v, impulse1, -j.bodyA.invMass)
		a.w -= iA * j.rA.Cross(impulse1)
		b.v.AddScaled(b.v, impulse1, j.bodyB.invMass)
		b.w += iB * j.rB.Cross(impulse1)
		return
	}

	vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
	vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
	cdot1 := geom.Minus(vpB, vpA)
	cdot2 := b.w - a.w
	cdot := geom.Vec3{X: cdot1.X, Y: cdot1.Y, Z: cdot2}

	impulse := j.mass.Solve33(geom.Vec3{X: -cdot.X, Y: -cdot.Y, Z: -cdot.Z})
	j.impulse.X += impulse.X
	j.impulse.Y += impulse.Y
	j.impulse.Z += impulse.Z

	p := geom.Vec2{X: impulse.X, Y: impulse.Y}
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= iA * (j.rA.Cross(p) + impulse.Z)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += iB * (j.rB.Cross(p) + impulse.Z)
}

func (j *weldJoint) solvePositionConstraints(sb *[]solverBody) bool {
	a, b := j.sbA(sb), j.sbB(sb)
	mA, mB := j.bodyA.invMass, j.bodyB.invMass
	iA, iB := j.bodyA.invI, j.bodyB.invI

	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	positionError, angularError := 0.0, 0.0

	k11 := mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
	k12 := -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	k13 := -iA*rA.Y - iB*rB.Y
	k22 := mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X
	k23 := iA*rA.X + iB*rB.X
	k33 := iA + iB

	mass := geom.NewMat33(
		geom.Vec3{X: k11, Y: k12, Z: k13},
		geom.Vec3{X: k12, Y: k22, Z: k23},
		geom.Vec3{X: k13, Y: k23, Z: k33},
	)

	if j.frequencyHz > 0 {
		cErr := geom.Minus(geom.Plus(b.c, rB), geom.Plus(a.c, rA))
		positionError = cErr.Len()

		k2 := geom.NewMat22(geom.NewVec2(k11, k12), geom.NewVec2(k12, k22))
		impulse := k2.Solve(geom.Mul(cErr, -1))
		a.c.AddScaled(a.c, impulse, -mA)
		a.a -= iA * rA.Cross(impulse)
		b.c.AddScaled(b.c, impulse, mB)
		b.a += iB * rB.Cross(impulse)
	} else {
		cErr1 := geom.Minus(geom.Plus(b.c, rB), geom.Plus(a.c, rA))
		cErr2 := b.a - a.a - j.referenceAngle
		positionError = cErr1.Len()
		angularError = absFloat(cErr2)

		impulse := mass.Solve33(geom.Vec3{X: -cErr1.X, Y: -cErr1.Y, Z: -cErr2})
		p := geom.Vec2{X: impulse.X, Y: impulse.Y}
		a.c.AddScaled(a.c, p, -mA)
		a.a -= iA * (rA.Cross(p) + impulse.Z)
		b.c.AddScaled(b.c, p, mB)
		b.a += iB * (rB.Cross(p) + impulse.Z)
	}

	return positionError <= linearSlop && angularError <= angularSlop
}
