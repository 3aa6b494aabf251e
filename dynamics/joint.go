package dynamics

import "github.com/gerich-home/box2d/math/geom"

// JointKind names the eleven concrete joint kinds // enumerates.
type JointKind int

const (
	RevoluteJoint JointKind = iota
	PrismaticJoint
	DistanceJoint
	WeldJoint
	WheelJoint
	PulleyJoint
	GearJoint
	MouseJoint
	RopeJoint
	FrictionJoint
	MotorJoint
)

// solverBody is the per-body scratch the velocity/position solvers
// read from and write back to — the island builder populates one per
// island body so the solver never touches Body fields mid-iteration,
// Modeled on the solver.go scratch-vector idiom
// (sol.v0/v1/v2, reused every call instead of allocated).
type solverBody struct {
	body *Body

	c geom.Vec2 // center of mass position
	a float64   // angle

	v geom.Vec2 // linear velocity
	w float64   // angular velocity
}

// jointSolverInput bundles what every joint needs to prepare and
// solve its constraints for one step.
type jointSolverInput struct {
	dt      float64
	dtRatio float64
	warmStart bool
}

// Joint is a constraint between two bodies (or one body and a fixed
// world point, for MouseJoint). Grounded algorithmically on Box2D's
// b2Joint hierarchy; the reference codebase has no joint concept at all (its
// bodies only ever collide), so every joint kind here is new code
// built from the standard 2D sequential-impulse joint formulas, kept
// in the prior constraint-solver idiom (initVelocityConstraints /
// solveVelocityConstraints / solvePositionConstraints split, matching
// solver.go's setupConstraints/solveIterations/finish phases).
type Joint interface {
	Kind() JointKind
	BodyA() *Body
	BodyB() *Body
	CollideConnected() bool
	UserData() interface{}
	ID() int

	setID(id int)
	setIslandIndices(indexA, indexB int)

	initVelocityConstraints(sb *[]solverBody, input jointSolverInput)
	warmStartConstraints(sb *[]solverBody)
	solveVelocityConstraints(sb *[]solverBody, input jointSolverInput)
	solvePositionConstraints(sb *[]solverBody) bool
}

// jointDef holds the fields common to every concrete JointDef:
// bodyA, bodyB, collideConnected, userData.
type jointDef struct {
	BodyA            *Body
	BodyB            *Body
	CollideConnected bool
	UserData         interface{}
}

// jointBase is embedded by every concrete joint and implements the
// Joint methods that don't vary per kind.
type jointBase struct {
	id               int
	kind             JointKind
	bodyA, bodyB     *Body
	collideConnected bool
	userData         interface{}

	indexA, indexB int // island-local solver body indices, set by the island builder
}

func (j *jointBase) Kind() JointKind           { return j.kind }
func (j *jointBase) BodyA() *Body              { return j.bodyA }
func (j *jointBase) BodyB() *Body              { return j.bodyB }
func (j *jointBase) CollideConnected() bool    { return j.collideConnected }
func (j *jointBase) UserData() interface{}     { return j.userData }
func (j *jointBase) ID() int                   { return j.id }
func (j *jointBase) setID(id int)              { j.id = id }

func (j *jointBase) sbA(sb *[]solverBody) *solverBody { return &(*sb)[j.indexA] }
func (j *jointBase) sbB(sb *[]solverBody) *solverBody { return &(*sb)[j.indexB] }

func (j *jointBase) setIslandIndices(indexA, indexB int) { j.indexA, j.indexB = indexA, indexB }

// jointEdge links a Joint into the doubly-visited list each of its two
// bodies keeps, replaced here, like the contact edges, with plain Go
// slices on Body rather than an intrusive linked list.
type jointEdge struct {
	joint Joint
	other *Body
}
