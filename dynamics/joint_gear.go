package dynamics

import "github.com/gerich-home/box2d/math/geom"

// gearCoordinateJoint is the subset of Joint behavior a GearJoint can
// couple: a revolute or prismatic joint contributing one scalar
// coordinate (an angle or a translation) to the gear ratio equation.
type gearCoordinateJoint interface {
	Joint
	gearCoordinate() float64
	gearAxisInfo() (groundBody *Body, axisOrRef geom.Vec2, isPrismatic bool)
}

func (j *revoluteJoint) gearCoordinate() float64 { return j.JointAngle() }
func (j *revoluteJoint) gearAxisInfo() (*Body, geom.Vec2, bool) {
	return j.bodyA, geom.Vec2{}, false
}

func (j *prismaticJoint) gearCoordinate() float64 { return j.Translation() }
func (j *prismaticJoint) gearAxisInfo() (*Body, geom.Vec2, bool) {
	return j.bodyA, j.localAxisA, true
}

// GearJointDef configures a GearJoint: couples two revolute and/or
// prismatic joints so coordinate1 + ratio*coordinate2 stays constant.
type GearJointDef struct {
	jointDef
	Joint1, Joint2 gearCoordinateJoint
	Ratio          float64
}

// gearJoint links two existing joints' scalar coordinates (angle for
// revolute, translation for prismatic) by a fixed ratio. Standard
// Box2D b2GearJoint formulation, simplified to a single combined
// scalar constraint rather than the four-body block solve Box2D uses;
// no direct precedent, see joint.go's package doc.
type gearJoint struct {
	jointBase

	joint1, joint2 gearCoordinateJoint
	bodyC, bodyD   *Body
	localAxisC     geom.Vec2
	localAxisD     geom.Vec2
	prismaticC     bool
	prismaticD     bool
	ratio          float64
	constant       float64

	indexC, indexD int

	mass float64

	jC, jD geom.Vec2 // linear Jacobian rows (zero for the revolute leg)
	lC, lD float64   // angular Jacobian rows

	impulse float64
}

func NewGearJoint(def GearJointDef) *gearJoint {
	bodyA, bodyB := def.Joint1.BodyB(), def.Joint2.BodyB()
	bodyC, axisC, prismC := def.Joint1.gearAxisInfo()
	bodyD, axisD, prismD := def.Joint2.gearAxisInfo()

	coord1 := def.Joint1.gearCoordinate()
	coord2 := def.Joint2.gearCoordinate()

	return &gearJoint{
		jointBase:  jointBase{kind: GearJoint, bodyA: bodyA, bodyB: bodyB, collideConnected: def.CollideConnected, userData: def.UserData},
		joint1:     def.Joint1,
		joint2:     def.Joint2,
		bodyC:      bodyC,
		bodyD:      bodyD,
		localAxisC: axisC,
		localAxisD: axisD,
		prismaticC: prismC,
		prismaticD: prismD,
		ratio:      def.Ratio,
		constant:   coord1 + def.Ratio*coord2,
	}
}

func (j *gearJoint) initVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	j.indexC, j.indexD = j.bodyC.islandIndex, j.bodyD.islandIndex

	mass := 0.0

	if j.prismaticC {
		rotC := geom.NewRot((*sb)[j.indexC].a)
		axis := rotC.Apply(j.localAxisC)
		j.jC = axis
		j.lC = 0
		mass += j.bodyC.invMass
	} else {
		j.jC = geom.Vec2{}
		j.lC = 1
		mass += j.bodyC.invI
	}

	if j.prismaticD {
		rotD := geom.NewRot((*sb)[j.indexD].a)
		axis := rotD.Apply(j.localAxisD)
		j.jD = geom.Mul(axis, j.ratio)
		j.lD = 0
		mass += j.ratio * j.ratio * j.bodyD.invMass
	} else {
		j.jD = geom.Vec2{}
		j.lD = j.ratio
		mass += j.ratio * j.ratio * j.bodyD.invI
	}

	if mass > 0 {
		j.mass = 1 / mass
	}

	if !input.warmStart {
		j.impulse = 0
	}
}

func (j *gearJoint) warmStartConstraints(sb *[]solverBody) {
	c, d := &(*sb)[j.indexC], &(*sb)[j.indexD]
	c.v.AddScaled(c.v, j.jC, j.bodyC.invMass*j.impulse)
	c.w += j.bodyC.invI * j.lC * j.impulse
	d.v.AddScaled(d.v, j.jD, j.bodyD.invMass*j.impulse)
	d.w += j.bodyD.invI * j.lD * j.impulse
}

func (j *gearJoint) solveVelocityConstraints(sb *[]solverBody, input jointSolverInput) {
	c, d := &(*sb)[j.indexC], &(*sb)[j.indexD]
	cdot := j.jC.Dot(c.v) + j.lC*c.w + j.jD.Dot(d.v) + j.lD*d.w
	impulse := -j.mass * cdot
	j.impulse += impulse

	c.v.AddScaled(c.v, j.jC, j.bodyC.invMass*impulse)
	c.w += j.bodyC.invI * j.lC * impulse
	d.v.AddScaled(d.v, j.jD, j.bodyD.invMass*impulse)
	d.w += j.bodyD.invI * j.lD * impulse
}

func (j *gearJoint) solvePositionConstraints(sb *[]solverBody) bool {
	c, d := &(*sb)[j.indexC], &(*sb)[j.indexD]

	var coord1, coord2 float64
	if j.prismaticC {
		coord1 = j.jC.Dot(c.c)
	} else {
		coord1 = c.a
	}
	if j.prismaticD {
		coord2 = j.jD.Dot(d.c) / j.ratio
	} else {
		coord2 = d.a
	}

	cErr := coord1 + j.ratio*coord2 - j.constant
	impulse := -j.mass * cErr

	c.c.AddScaled(c.c, j.jC, j.bodyC.invMass*impulse)
	c.a += j.bodyC.invI * j.lC * impulse
	d.c.AddScaled(d.c, j.jD, j.bodyD.invMass*impulse)
	d.a += j.bodyD.invI * j.lD * impulse

	return absFloat(cErr) <= linearSlop
}
