package dynamics

import (
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/gerich-home/box2d/math/geom"
)

// World owns every Body, Joint, and the ContactManager, and drives
// Step. Modeled on a top-level Physics/body-map orchestration style,
// generalized from a single flat body map plus a brute-force collision
// pass to an island-based pipeline.
type World struct {
	id   uuid.UUID
	def  Def
	conf StepConf

	bodies []*Body
	joints []Joint

	contactManager *ContactManager

	bodyPool    *BodyPool
	jointPool   *JointPool
	fixturePool *FixturePool

	locked bool

	contactListener     ContactListener
	destructionListener DestructionListener

	log *slog.Logger

	stats StepStats
}

// NewWorld constructs a World with the given definition.
func NewWorld(def Def) *World {
	return &World{
		id:             uuid.New(),
		def:            def,
		conf:           DefaultStepConf(),
		contactManager: newContactManager(),
		bodyPool:       newBodyPool(def.MaxBodies),
		jointPool:      newJointPool(def.MaxJoints),
		fixturePool:    newFixturePool(def.MaxFixtures),
		contactListener: NopContactListener{},
		destructionListener: NopDestructionListener{},
		log: slog.Default(),
	}
}

func (w *World) SetStepConf(conf StepConf)               { w.conf = conf }
func (w *World) SetContactListener(l ContactListener)     { w.contactListener = l; w.contactManager.listener = l }
func (w *World) SetDestructionListener(l DestructionListener) { w.destructionListener = l }
func (w *World) SetLogger(l *slog.Logger)                 { w.log = l }
func (w *World) Bodies() []*Body                          { return w.bodies }
func (w *World) Joints() []Joint                           { return w.joints }
func (w *World) IsLocked() bool                            { return w.locked }
func (w *World) Gravity() geom.Vec2                        { return w.def.Gravity }
func (w *World) Stats() StepStats                          { return w.stats }
func (w *World) ID() uuid.UUID                              { return w.id }

// CreateBody adds a new Body. Creation is forbidden while the world is
// mid-Step.
func (w *World) CreateBody(def BodyDef) (*Body, error) {
	if w.locked {
		return nil, ErrWorldLocked
	}
	id, err := w.bodyPool.acquire()
	if err != nil {
		w.log.Warn("body pool exhausted", "world_id", w.id, "capacity", w.def.MaxBodies)
		return nil, err
	}
	b := newBody(w, id, def)
	w.bodies = append(w.bodies, b)
	return b, nil
}

// DestroyBody removes b, cascading to its fixtures, contacts, and
// joints.
func (w *World) DestroyBody(b *Body) error {
	if w.locked {
		return ErrWorldLocked
	}

	for len(b.jointEdges) > 0 {
		w.destroyJoint(b.jointEdges[0].joint)
	}

	for _, f := range b.fixtures {
		w.contactManager.destroyContactsFor(f)
		w.contactManager.removeProxy(f)
		if w.destructionListener != nil {
			w.destructionListener.SayGoodbyeFixture(f)
		}
	}

	for i, bb := range w.bodies {
		if bb == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.bodyPool.release(b.id)
	return nil
}

// CreateFixture attaches a shape to a Body, registering broad-phase
// proxies and recomputing mass data.
func (b *Body) CreateFixture(def FixtureDef) (*Fixture, error) {
	if b.world.locked {
		return nil, ErrWorldLocked
	}
	id, err := b.world.fixturePool.acquire()
	if err != nil {
		return nil, err
	}
	f := newFixture(b, id, def)
	b.fixtures = append(b.fixtures, f)
	b.world.contactManager.addProxy(f, b.xf)
	if def.Density > 0 {
		b.resetMassData()
	}
	return f, nil
}

// DestroyFixture detaches a fixture from its body.
func (b *Body) DestroyFixture(f *Fixture) error {
	if b.world.locked {
		return ErrWorldLocked
	}
	b.world.contactManager.destroyContactsFor(f)
	b.world.contactManager.removeProxy(f)
	if b.world.destructionListener != nil {
		b.world.destructionListener.SayGoodbyeFixture(f)
	}
	for i, ff := range b.fixtures {
		if ff == f {
			b.fixtures = append(b.fixtures[:i], b.fixtures[i+1:]...)
			break
		}
	}
	b.world.fixturePool.release(f.id)
	b.resetMassData()
	return nil
}

// CreateJoint adds j to the world and wires its jointEdges into both
// bodies.
func (w *World) CreateJoint(j Joint) error {
	if w.locked {
		return ErrWorldLocked
	}
	id, err := w.jointPool.acquire()
	if err != nil {
		return err
	}
	j.setID(id)
	w.joints = append(w.joints, j)
	a, b := j.BodyA(), j.BodyB()
	a.jointEdges = append(a.jointEdges, &jointEdge{joint: j, other: b})
	b.jointEdges = append(b.jointEdges, &jointEdge{joint: j, other: a})
	a.SetAwake(true)
	b.SetAwake(true)
	return nil
}

func (w *World) DestroyJoint(j Joint) error {
	if w.locked {
		return ErrWorldLocked
	}
	w.destroyJoint(j)
	return nil
}

func (w *World) destroyJoint(j Joint) {
	a, b := j.BodyA(), j.BodyB()
	removeJointEdge(a, j)
	removeJointEdge(b, j)
	for i, jj := range w.joints {
		if jj == j {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			break
		}
	}
	w.jointPool.release(j.ID())
	if w.destructionListener != nil {
		w.destructionListener.SayGoodbyeJoint(j)
	}
	a.SetAwake(true)
	b.SetAwake(true)
}

func removeJointEdge(b *Body, j Joint) {
	for i, e := range b.jointEdges {
		if e.joint == j {
			b.jointEdges = append(b.jointEdges[:i], b.jointEdges[i+1:]...)
			return
		}
	}
}

// QueryAABB visits every fixture whose broad-phase proxy overlaps
// aabb. visit returns false to stop early.
func (w *World) QueryAABB(aabb geom.AABB, visit func(f *Fixture) bool) {
	w.contactManager.broadPhase.Query(aabb, func(proxyID int) bool {
		owner, ok := w.contactManager.proxyOwner[proxyID]
		if !ok {
			return true
		}
		return visit(owner.fixture)
	})
}

// RayCast casts a ray against every fixture whose broad-phase proxy it
// crosses, calling visit with the shape's own RayCast result.
func (w *World) RayCast(input geom.RayCastInput, visit func(f *Fixture, out RayCastOutput) bool) {
	w.contactManager.broadPhase.RayCast(input, func(proxyID int) bool {
		owner, ok := w.contactManager.proxyOwner[proxyID]
		if !ok {
			return true
		}
		out, hit := owner.fixture.shape.RayCast(input, owner.fixture.body.xf, owner.child)
		if !hit {
			return true
		}
		return visit(owner.fixture, out)
	})
}

// Step advances the simulation by conf.Dt: find new
// contacts, run narrow-phase, solve islands, sub-step through any
// time-of-impact events, then clear per-step force accumulators.
func (w *World) Step(conf StepConf) StepStats {
	w.locked = true
	defer func() { w.locked = false }()

	w.stats = StepStats{}

	for _, c := range w.contactManager.contacts {
		c.flags &^= flagToi
	}

	w.contactManager.FindNewContacts()
	w.contactManager.Collide()

	islands := buildIslands(w.bodies)
	w.stats.IslandCount = len(islands)
	for _, isl := range islands {
		w.solveIsland(isl, conf)
		w.stats.ContactCount += len(isl.contacts)
		w.stats.JointCount += len(isl.joints)
	}

	w.synchronizeFixtures()

	if conf.DoTOI {
		w.solveTOI(conf)
	}

	for _, b := range w.bodies {
		b.force = geom.Vec2{}
		b.torque = 0
	}

	w.log.Debug("step complete", "world_id", w.id, "islands", w.stats.IslandCount, "contacts", w.stats.ContactCount, "toi_substeps", w.stats.TOISubSteps)

	return w.stats
}

func (w *World) synchronizeFixtures() {
	for _, b := range w.bodies {
		for _, f := range b.fixtures {
			w.contactManager.synchronizeFixture(f, b.xf, geom.Vec2{})
		}
	}
}

// solveIsland integrates velocities, solves contact+joint velocity
// constraints, integrates positions, solves position constraints, and
// updates sleeping for one island. Modeled on a solver's three-phase
// setup/iterate/finish split, generalized from a single flat contact
// set to per-island scoping.
func (w *World) solveIsland(isl *island, conf StepConf) {
	sb := make([]solverBody, len(isl.bodies))
	for i, b := range isl.bodies {
		b.islandIndex = i
		sb[i] = solverBody{body: b, c: b.sweep.C1, a: b.sweep.A1, v: b.linearVelocity, w: b.angularVelocity}
	}

	dt := conf.Dt
	for i := range sb {
		b := sb[i].body
		if b.kind != DynamicBody {
			continue
		}
		sb[i].v.AddScaled(sb[i].v, geom.Plus(geom.Mul(w.def.Gravity, b.gravityScale), geom.Mul(b.force, b.invMass)), dt)
		sb[i].w += dt * b.invI * b.torque
		sb[i].v = geom.Mul(sb[i].v, 1/(1+dt*b.linearDamping))
		sb[i].w *= 1 / (1 + dt*b.angularDamping)
	}

	input := jointSolverInput{dt: dt, dtRatio: conf.DtRatio, warmStart: conf.DoWarmStart}

	for _, j := range isl.joints {
		j.setIslandIndices(j.BodyA().islandIndex, j.BodyB().islandIndex)
	}

	cs := newContactSolver()
	cs.prepare(isl.contacts, sb, conf, false)

	for _, j := range isl.joints {
		j.initVelocityConstraints(&sb, input)
	}
	if conf.DoWarmStart {
		for _, j := range isl.joints {
			j.warmStartConstraints(&sb)
		}
	}
	cs.warmStart(sb, conf)

	for iter := 0; iter < conf.RegVelocityIterations; iter++ {
		for _, j := range isl.joints {
			j.solveVelocityConstraints(&sb, input)
		}
		cs.solveVelocityConstraints(sb)
	}
	cs.storeImpulses(w.contactListener, conf.RegVelocityIterations)

	for i := range sb {
		b := sb[i].body
		if b.kind == StaticBody {
			continue
		}
		translation := geom.Mul(sb[i].v, dt)
		if translation.Dot(translation) > conf.MaxTranslation*conf.MaxTranslation {
			ratio := conf.MaxTranslation / translation.Len()
			sb[i].v = geom.Mul(sb[i].v, ratio)
		}
		rotation := dt * sb[i].w
		if rotation*rotation > conf.MaxRotation*conf.MaxRotation {
			ratio := conf.MaxRotation / math.Abs(rotation)
			sb[i].w *= ratio
		}
		sb[i].c = geom.Plus(sb[i].c, geom.Mul(sb[i].v, dt))
		sb[i].a += dt * sb[i].w
	}

	positionSolved := false
	for iter := 0; iter < conf.RegPositionIterations; iter++ {
		contactsOK := cs.solvePositionConstraints(sb, conf, false)
		jointsOK := true
		for _, j := range isl.joints {
			if !j.solvePositionConstraints(&sb) {
				jointsOK = false
			}
		}
		if contactsOK && jointsOK {
			positionSolved = true
			break
		}
	}

	minSleepTime := math.Inf(1)
	for i, b := range isl.bodies {
		b.sweep.C1 = sb[i].c
		b.sweep.A1 = sb[i].a
		b.linearVelocity = sb[i].v
		b.angularVelocity = sb[i].w
		b.synchronizeTransform()

		if b.kind == StaticBody {
			continue
		}

		if b.flags&flagAutoSleep == 0 ||
			b.angularVelocity*b.angularVelocity > conf.AngularSleepTolerance*conf.AngularSleepTolerance ||
			b.linearVelocity.Dot(b.linearVelocity) > conf.LinearSleepTolerance*conf.LinearSleepTolerance {
			b.sleepTime = 0
		} else {
			b.sleepTime += dt
		}
		minSleepTime = math.Min(minSleepTime, b.sleepTime)
	}

	if positionSolved && minSleepTime >= conf.MinStillTimeToSleep {
		for _, b := range isl.bodies {
			if b.kind != StaticBody {
				b.SetAwake(false)
			}
		}
	}
}
