package dynamics

import "github.com/gerich-home/box2d/math/geom"

// DistanceJointDef configures a DistanceJoint: two anchors held at a
// fixed (or spring-soft) separation.
type DistanceJointDef struct {
	jointDef
	LocalAnchorA, LocalAnchorB geom.Vec2
	Length                     float64
	FrequencyHz                float64
	DampingRatio               float64
}

// NewDistanceJointDef returns a def with Length computed from the
// bodies' current world anchors, the usual Box2D convenience.
func NewDistanceJointDef(bodyA, bodyB *Body, anchorA, anchorB geom.Vec2) DistanceJointDef {
	return DistanceJointDef{
		jointDef:     jointDef{BodyA: bodyA, BodyB: bodyB, CollideConnected: false},
		LocalAnchorA: bodyA.xf.ApplyT(anchorA),
		LocalAnchorB: bodyB.xf.ApplyT(anchorB),
		Length:       geom.Minus(anchorB, anchorA).Len(),
	}
}

// distanceJoint holds a pair of points at a fixed distance apart,
// optionally softened into a spring via frequencyHz/dampingRatio.
// Standard 2D sequential-impulse formulation (a single scalar
// constraint along the anchor-to-anchor axis); no direct precedent,
// see joint.go's package doc.
type distanceJoint struct {
	jointBase

	localAnchorA, localAnchorB geom.Vec2
	length                     float64
	frequencyHz, dampingRatio  float64

	u geom.Vec2
	mass float64
	impulse float64

	gamma, bias float64

	rA, rB geom.Vec2
}

// NewDistanceJoint builds a distanceJoint from def.
func NewDistanceJoint(def DistanceJointDef) *distanceJoint {
	return &distanceJoint{
		jointBase:    jointBase{kind: DistanceJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorA: def.LocalAnchorA,
		localAnchorB: def.LocalAnchorB,
		length:       def.Length,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
}

func (j *distanceJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	j.rA = rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	d := geom.Minus(geom.Plus(b.c, j.rB), geom.Plus(a.c, j.rA))
	j.u.Unit(d)

	crA := j.rA.Cross(j.u)
	crB := j.rB.Cross(j.u)
	invMass := j.bodyA.invMass + j.bodyA.invI*crA*crA + j.bodyB.invMass + j.bodyB.invI*crB*crB
	if invMass > 0 {
		j.mass = 1 / invMass
	}

	j.gamma, j.bias = 0, 0
	if j.frequencyHz > 0 {
		omega := 2 * geom.Pi * j.frequencyHz
		k := j.mass * omega * omega
		c := j.mass * 2 * j.dampingRatio * omega
		dt := input.dt
		j.gamma = dt * (c + dt*k)
		if j.gamma != 0 {
			j.gamma = 1 / j.gamma
		}
		length := d.Len()
		cErr := length - j.length
		j.bias = cErr * dt * k * j.gamma
		invMass += j.gamma
		if invMass > 0 {
			j.mass = 1 / invMass
		}
	}

	if !input.warmStart {
		j.impulse = 0
	}
}

func (j *distanceJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	p := geom.Mul(j.u, j.impulse)
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * j.rA.Cross(p)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(p)
}

func (j *distanceJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
	vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
	cdot := geom.Minus(vpB, vpA).Dot(j.u)

	impulse := -j.mass * (cdot + j.bias + j.gamma*j.impulse)
	j.impulse += impulse

	p := geom.Mul(j.u, impulse)
	a.v.AddScaled(a.v, p, -j.bodyA.invMass)
	a.w -= j.bodyA.invI * j.rA.Cross(p)
	b.v.AddScaled(b.v, p, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(p)
}

func (j *distanceJoint) solvePositionConstraints(sb *[]solverBody) bool {
	if j.frequencyHz > 0 {
		return true
	}
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	d := geom.Minus(geom.Plus(b.c, rB), geom.Plus(a.c, rA))
	var u geom.Vec2
	length := u.Unit(d)
	cErr := clampFloat(length-j.length, -maxLinearCorrectionJoint, maxLinearCorrectionJoint)

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

	return geom.AeqZ(cErr)
}

const maxLinearCorrectionJoint = 0.2
