package dynamics

import (
	"math"

	"github.com/gerich-home/box2d/math/geom"
)

// BodyKind classifies how a Body participates in the simulation:
// static bodies never move, kinematic bodies move at a
// prescribed velocity but have no mass, dynamic bodies have both.
type BodyKind int

const (
	StaticBody BodyKind = iota
	KinematicBody
	DynamicBody
)

// BodyDef configures a new Body.
type BodyDef struct {
	Kind                BodyKind
	Position            geom.Vec2
	Angle               float64
	LinearVelocity      geom.Vec2
	AngularVelocity     float64
	LinearDamping       float64
	AngularDamping      float64
	AllowSleep          bool
	Awake               bool
	FixedRotation       bool
	Bullet              bool
	Active              bool
	GravityScale        float64
	UserData            interface{}
}

// DefaultBodyDef returns a dynamic, awake, active body definition at
// the origin with default damping and gravity scale 1, the zero value
// a caller reasonably expects before overriding individual fields.
func DefaultBodyDef() BodyDef {
	return BodyDef{
		Kind:         DynamicBody,
		Awake:        true,
		AllowSleep:   true,
		Active:       true,
		GravityScale: 1,
	}
}

type bodyFlags uint16

const (
	flagActive bodyFlags = 1 << iota
	flagAwake
	flagFixedRotation
	flagBullet
	flagAutoSleep
	flagTOI // touched by the current TOI sub-step pass
)

// Body is a rigid body: a transform, a sweep interpolating its motion
// over the current step, a velocity, and the mass/inertia the solver
// needs. Modeled on the body struct (body.go) — same
// separation of "motion data" (velocity/damping) from "solver scratch"
// (here, ContactList/JointList/solver-index fields) — generalized from
// a single-shape 3D rigid body wrapping a cgo box/sphere collider to a
// multi-fixture 2D body.
type Body struct {
	id    int
	world *World
	kind  BodyKind
	flags bodyFlags

	xf    geom.Transform
	sweep geom.Sweep

	linearVelocity  geom.Vec2
	angularVelocity float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	force  geom.Vec2
	torque float64

	mass, invMass float64
	i, invI       float64

	sleepTime float64

	fixtures []*Fixture

	contactEdges []*contactEdge
	jointEdges   []*jointEdge

	islandIndex int

	userData interface{}
}

func newBody(w *World, id int, def BodyDef) *Body {
	b := &Body{
		id:             id,
		world:          w,
		kind:           def.Kind,
		xf:             geom.NewTransform(def.Position, def.Angle),
		linearVelocity: def.LinearVelocity,
		angularVelocity: def.AngularVelocity,
		linearDamping:  def.LinearDamping,
		angularDamping: def.AngularDamping,
		gravityScale:   orDefault(def.GravityScale, 1),
		userData:       def.UserData,
	}
	b.sweep.C0 = def.Position
	b.sweep.C1 = def.Position
	b.sweep.A0 = def.Angle
	b.sweep.A1 = def.Angle

	if def.Active {
		b.flags |= flagActive
	}
	if def.Awake || def.Kind != StaticBody {
		b.flags |= flagAwake
	}
	if def.FixedRotation {
		b.flags |= flagFixedRotation
	}
	if def.Bullet {
		b.flags |= flagBullet
	}
	if def.AllowSleep {
		b.flags |= flagAutoSleep
	}
	return b
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func (b *Body) ID() int                     { return b.id }
func (b *Body) Kind() BodyKind              { return b.kind }
func (b *Body) Transform() geom.Transform   { return b.xf }
func (b *Body) Position() geom.Vec2         { return b.xf.Position }
func (b *Body) Angle() float64              { return b.sweep.A1 }
func (b *Body) LinearVelocity() geom.Vec2   { return b.linearVelocity }
func (b *Body) AngularVelocity() float64    { return b.angularVelocity }
func (b *Body) InvMass() float64            { return b.invMass }
func (b *Body) InvI() float64               { return b.invI }
func (b *Body) IsActive() bool              { return b.flags&flagActive != 0 }
func (b *Body) IsAwake() bool               { return b.flags&flagAwake != 0 }
func (b *Body) IsBullet() bool              { return b.flags&flagBullet != 0 }
func (b *Body) IsFixedRotation() bool       { return b.flags&flagFixedRotation != 0 }
func (b *Body) UserData() interface{}       { return b.userData }
func (b *Body) Fixtures() []*Fixture        { return b.fixtures }
func (b *Body) WorldCenter() geom.Vec2      { return b.sweep.C1 }

// SetLinearVelocity sets the body's linear velocity, waking it first
// when v is non-zero (no effect on static bodies).
func (b *Body) SetLinearVelocity(v geom.Vec2) {
	if b.kind == StaticBody {
		return
	}
	if v.Dot(v) > 0 {
		b.SetAwake(true)
	}
	b.linearVelocity = v
}

func (b *Body) SetAngularVelocity(w float64) {
	if b.kind == StaticBody {
		return
	}
	if w*w > 0 {
		b.SetAwake(true)
	}
	b.angularVelocity = w
}

// SetAwake toggles the awake flag, resetting sleepTime whenever a
// body wakes so it is given the full minStillTimeToSleep window again.
func (b *Body) SetAwake(awake bool) {
	if awake {
		b.flags |= flagAwake
		b.sleepTime = 0
		return
	}
	b.flags &^= flagAwake
	b.sleepTime = 0
	b.linearVelocity = geom.Vec2{}
	b.angularVelocity = 0
	b.force = geom.Vec2{}
	b.torque = 0
}

// ApplyForce accumulates a world-space force (and the torque it
// generates about point, if point is off-center) to be applied on the
// next integrateVelocities.
func (b *Body) ApplyForce(force geom.Vec2, point geom.Vec2, wake bool) {
	if b.kind != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.force = geom.Plus(b.force, force)
	b.torque += geom.Minus(point, b.sweep.C1).Cross(force)
}

func (b *Body) ApplyTorque(torque float64, wake bool) {
	if b.kind != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.torque += torque
}

// ApplyLinearImpulse instantaneously changes velocity (rather than
// accumulating force for the next integration), used for things like
// explosions or mouse-drag launches.
func (b *Body) ApplyLinearImpulse(impulse geom.Vec2, point geom.Vec2, wake bool) {
	if b.kind != DynamicBody {
		return
	}
	if wake && b.flags&flagAwake == 0 {
		b.SetAwake(true)
	}
	if b.flags&flagAwake == 0 {
		return
	}
	b.linearVelocity.AddScaled(b.linearVelocity, impulse, b.invMass)
	b.angularVelocity += b.invI * geom.Minus(point, b.sweep.C1).Cross(impulse)
}

// resetMassData recomputes mass, center of mass, and rotational
// inertia from the body's fixtures: a fixture with density > 0
// contributes to its body's mass. Modeled on a per-body mass
// bookkeeping idiom (imass/iit fields, recomputed whenever a
// shape/material is set).
func (b *Body) resetMassData() {
	b.mass, b.invMass, b.i, b.invI = 0, 0, 0, 0
	b.sweep.LocalCenter = geom.Vec2{}

	if b.kind != DynamicBody {
		b.sweep.C0 = b.xf.Position
		b.sweep.C1 = b.xf.Position
		return
	}

	localCenter := geom.Vec2{}
	for _, f := range b.fixtures {
		if f.density == 0 {
			continue
		}
		massData := f.shape.ComputeMass(f.density)
		b.mass += massData.Mass
		localCenter = geom.Plus(localCenter, geom.Mul(massData.Center, massData.Mass))
		b.i += massData.I
	}

	if b.mass > 0 {
		b.invMass = 1 / b.mass
		localCenter = geom.Mul(localCenter, b.invMass)
	} else {
		b.mass = 1
		b.invMass = 1
	}

	if b.i > 0 && b.flags&flagFixedRotation == 0 {
		b.i -= b.mass * localCenter.Dot(localCenter)
		b.invI = 1 / b.i
	} else {
		b.i = 0
		b.invI = 0
	}

	oldCenter := b.sweep.C1
	b.sweep.LocalCenter = localCenter
	b.sweep.C1 = b.xf.Apply(localCenter)
	b.sweep.C0 = b.sweep.C1
	b.sweep.A0 = b.sweep.A1

	delta := geom.CrossSV(b.angularVelocity, geom.Minus(b.sweep.C1, oldCenter))
	b.linearVelocity.AddScaled(b.linearVelocity, delta, 1)
}

// synchronizeTransform recomputes xf from the sweep's end pose
// (sweep.C1/A1 track the body's true position; xf is derived).
func (b *Body) synchronizeTransform() {
	b.xf.Rotation = geom.NewRot(b.sweep.A1)
	b.xf.Position = geom.Minus(b.sweep.C1, b.xf.Rotation.Apply(b.sweep.LocalCenter))
}

// shouldCollide reports whether two bodies may ever generate a
// contact: never the same body, never two non-dynamic bodies (no
// mutual response possible).
func (a *Body) shouldCollide(b *Body) bool {
	if a == b {
		return false
	}
	if a.kind != DynamicBody && b.kind != DynamicBody {
		return false
	}
	for _, je := range a.jointEdges {
		if je.other == b && !je.joint.CollideConnected() {
			return false
		}
	}
	return true
}

func (b *Body) isSpeedable() bool { return b.kind != StaticBody }

// Finite reports whether the body's pose and velocities satisfy
// non-finite-input contract.
func (b *Body) Finite() bool {
	return b.xf.Finite() && !math.IsNaN(b.angularVelocity) && !math.IsInf(b.angularVelocity, 0) && b.linearVelocity.Finite()
}
