package dynamics

import "github.com/gerich-home/box2d/math/geom"

// PulleyJointDef configures a PulleyJoint: bodyA and bodyB each hang
// from a fixed world ground anchor; the joint keeps
// lengthA + ratio*lengthB constant.
type PulleyJointDef struct {
	jointDef
	GroundAnchorA, GroundAnchorB geom.Vec2
	LocalAnchorA, LocalAnchorB   geom.Vec2
	LengthA, LengthB             float64
	Ratio                        float64
}

// NewPulleyJointDef derives LengthA/LengthB from the bodies' current
// world anchors, the usual Box2D convenience constructor.
func NewPulleyJointDef(bodyA, bodyB *Body, groundA, groundB, anchorA, anchorB geom.Vec2, ratio float64) PulleyJointDef {
	return PulleyJointDef{
		jointDef:      jointDef{BodyA: bodyA, BodyB: bodyB},
		GroundAnchorA: groundA,
		GroundAnchorB: groundB,
		LocalAnchorA:  bodyA.xf.ApplyT(anchorA),
		LocalAnchorB:  bodyB.xf.ApplyT(anchorB),
		LengthA:       geom.Minus(anchorA, groundA).Len(),
		LengthB:       geom.Minus(anchorB, groundB).Len(),
		Ratio:         ratio,
	}
}

// pulleyJoint is a single scalar constraint along the combined
// ropeA+ratio*ropeB length, solved like distanceJoint but with two
// independent axes (uA toward groundAnchorA, uB toward groundAnchorB)
// instead of one shared axis. Standard Box2D b2PulleyJoint
// formulation; no direct precedent, see joint.go's package doc.
type pulleyJoint struct {
	jointBase

	groundAnchorA, groundAnchorB geom.Vec2
	localAnchorA, localAnchorB   geom.Vec2
	lengthA, lengthB             float64
	ratio                        float64
	constant                     float64

	uA, uB geom.Vec2
	rA, rB geom.Vec2
	mass   float64
	impulse float64
}

func NewPulleyJoint(def PulleyJointDef) *pulleyJoint {
	return &pulleyJoint{
		jointBase:     jointBase{kind: PulleyJoint, bodyA: def.BodyA, bodyB: def.BodyB, collideConnected: true, userData: def.UserData},
		groundAnchorA: def.GroundAnchorA,
		groundAnchorB: def.GroundAnchorB,
		localAnchorA:  def.LocalAnchorA,
		localAnchorB:  def.LocalAnchorB,
		lengthA:       def.LengthA,
		lengthB:       def.LengthB,
		ratio:         def.Ratio,
		constant:      def.LengthA + def.Ratio*def.LengthB,
	}
}

func (j *pulleyJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	j.rA = rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	j.rB = rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	pA := geom.Plus(a.c, j.rA)
	pB := geom.Plus(b.c, j.rB)

	j.uA.Unit(geom.Minus(pA, j.groundAnchorA))
	j.uB.Unit(geom.Minus(pB, j.groundAnchorB))

	crA := j.rA.Cross(j.uA)
	crB := j.rB.Cross(j.uB)
	mA := j.bodyA.invMass + j.bodyA.invI*crA*crA
	mB := j.bodyB.invMass + j.bodyB.invI*crB*crB

	invMass := mA + j.ratio*j.ratio*mB
	if invMass > 0 {
		j.mass = 1 / invMass
	}

	if !input.warmStart {
		j.impulse = 0
	}
}

func (j *pulleyJoint) warmStartConstraints(sb *[]solverBody) {
	a, b := j.sbA(sb), j.sbB(sb)
	pA := geom.Mul(j.uA, -j.impulse)
	pB := geom.Mul(j.uB, -j.ratio*j.impulse)

	a.v.AddScaled(a.v, pA, j.bodyA.invMass)
	a.w += j.bodyA.invI * j.rA.Cross(pA)
	b.v.AddScaled(b.v, pB, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(pB)
}

func (j *pulleyJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	a, b := j.sbA(sb), j.sbB(sb)
	vpA := geom.Plus(a.v, geom.CrossSV(a.w, j.rA))
	vpB := geom.Plus(b.v, geom.CrossSV(b.w, j.rB))

	cdot := -vpA.Dot(j.uA) - j.ratio*vpB.Dot(j.uB)
	impulse := -j.mass * cdot
	j.impulse += impulse

	pA := geom.Mul(j.uA, -impulse)
	pB := geom.Mul(j.uB, -j.ratio*impulse)
	a.v.AddScaled(a.v, pA, j.bodyA.invMass)
	a.w += j.bodyA.invI * j.rA.Cross(pA)
	b.v.AddScaled(b.v, pB, j.bodyB.invMass)
	b.w += j.bodyB.invI * j.rB.Cross(pB)
}

func (j *pulleyJoint) solvePositionConstraints(sb *[]solverBody) bool {
	a, b := j.sbA(sb), j.sbB(sb)
	rotA, rotB := geom.NewRot(a.a), geom.NewRot(b.a)
	rA := rotA.Apply(geom.Minus(j.localAnchorA, j.bodyA.sweep.LocalCenter))
	rB := rotB.Apply(geom.Minus(j.localAnchorB, j.bodyB.sweep.LocalCenter))

	pA := geom.Plus(a.c, rA)
	pB := geom.Plus(b.c, rB)

	var uA, uB geom.Vec2
	lenA := uA.Unit(geom.Minus(pA, j.groundAnchorA))
	lenB := uB.Unit(geom.Minus(pB, j.groundAnchorB))

	cErr := j.constant - lenA - j.ratio*lenB

	crA := rA.Cross(uA)
	crB := rB.Cross(uB)
	mA := j.bodyA.invMass + j.bodyA.invI*crA*crA
	mB := j.bodyB.invMass + j.bodyB.invI*crB*crB

	invMass := mA + j.ratio*j.ratio*mB
	var mass float64
	if invMass > 0 {
		mass = 1 / invMass
	}
	impulse := -mass * cErr

	pAImp := geom.Mul(uA, -impulse)
	pBImp := geom.Mul(uB, -j.ratio*impulse)

	a.c.AddScaled(a.c, pAImp, j.bodyA.invMass)
	a.a += j.bodyA.invI * rA.Cross(pAImp)
	b.c.AddScaled(b.c, pBImp, j.bodyB.invMass)
	b.a += j.bodyB.invI * rB.Cross(pBImp)

	return absFloat(cErr) < linearSlop
}
