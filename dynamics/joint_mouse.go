package dynamics

import "github.com/gerich-home/box2d/math/geom"

// MouseJointDef configures a MouseJoint: a soft spring from bodyB to a
// caller-supplied world target point. It is the only joint
// kind whose "first body" is conventionally a fixed ground body rather
// than a dynamic one.
type MouseJointDef struct {
	jointDef
	Target       geom.Vec2
	MaxForce     float64
	FrequencyHz  float64
	DampingRatio float64
}

// mouseJoint drags bodyB's anchor toward a movable target with a soft
// spring, clamped to maxForce. Standard Box2D b2MouseJoint formulation;
// no direct precedent, see joint.go's package doc.
type mouseJoint struct {
	jointBase

	localAnchorB geom.Vec2
	target       geom.Vec2
	maxForce     float64
	frequencyHz, dampingRatio float64

	beta, gamma float64
	impulse     geom.Vec2
	k           geom.Mat22
	rB          geom.Vec2
	c0          geom.Vec2
}

func NewMouseJoint(def MouseJointDef) *mouseJoint {
	return &mouseJoint{
		jointBase:    jointBase{kind: MouseJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		localAnchorB: def.BodyB.xf.ApplyT(def.Target),
		target:       def.Target,
		maxForce:     def.MaxForce,
		frequencyHz:  def.FrequencyHz,
		dampingRatio: def.DampingRatio,
	}
}

func (j *mouseJoint) SetTarget(target geom.Vec2) { j.target = target }

func (j *mouseJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	b := j.sbB(sb)
	rotB := geom.NewRot(b.a)
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	mB := j.bodyB.invMass
	iB := j.bodyB.invI

	omega := 2 * geom.Pi * j.frequencyHz
	d := 2 * mB * j.dampingRatio * omega
	k := mB * omega * omega
	dt := input.dt
	j.gamma = dt * (d + dt*k)
	if j.gamma != 0 {
		j.gamma = 1 / j.gamma
	}
	j.beta = dt * k * j.gamma

	kxx := mB + iB*j.rB.Y*j.rB.Y + j.gamma
	kxy := -iB * j.rB.X * j.rB.Y
	kyy := mB + iB*j.rB.X*j.rB.X + j.gamma
	j.k = geom.NewMat22(geom.NewVec2(kxx, kxy), geom.NewVec2(kxy, kyy))

	j.c0 = geom.Minus(geom.Plus(b.c, j.rB), j.target)

	if !input.warmStart {
		j.impulse = geom.Vec2{}
	}
}

func (j *mouseJoint) warmStartConstraints(sb *[]solverBody) {
	b := j.sbB(sb)
	b.v.AddScaled(b.v, j.impulse, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(j.impulse)
}

func (j *mouseJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	b := j.sbB(sb)
	cdot := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))
	bias := geom.Mul(j.c0, j.beta)
	rhs := geom.Plus(cdot, geom.Plus(bias, geom.Mul(j.impulse, j.gamma)))
	impulse := j.k.Solve(geom.Mul(rhs, -1))

	old := j.impulse
	j.impulse = geom.Plus(j.impulse, impulse)
	maxImpulse := j.maxForce * input.dt
	if j.impulse.LenSqr() > maxImpulse*maxImpulse {
		j.impulse = geom.Mul(j.impulse, maxImpulse/j.impulse.Len())
	}
	impulse = geom.Minus(j.impulse, old)

	b.v.AddScaled(b.v, impulse, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(impulse)
}

func (j *mouseJoint) solvePositionConstraints(sb *[]solverBody) bool { return true }
