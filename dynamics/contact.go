package dynamics

import "github.com/gerich-home/box2d/math/geom"

// contactFlags bitmask, mirroring bodyFlags' style.
type contactFlags uint8

const (
	flagTouching contactFlags = 1 << iota
	flagEnabled
	flagFilter // filter changed since last Collide pass, re-check shouldCollide
	flagToi    // has a valid TOI queued this step
)

// Contact pairs two fixtures whose broad-phase proxies overlap. Unlike
// a stateless recompute-every-step approach, a Contact instance
// persists across steps so the manifold's ContactFeature ids can
// warm-start impulses.
type Contact struct {
	fixtureA, fixtureB *Fixture
	childIndexA, childIndexB int

	manifold Manifold

	flags contactFlags

	friction    float64
	restitution float64
	tangentSpeed float64

	toi       float64
	toiCount  int
}

func newContact(fa, fb *Fixture, childA, childB int) *Contact {
	return &Contact{
		fixtureA:    fa,
		fixtureB:    fb,
		childIndexA: childA,
		childIndexB: childB,
		flags:       flagEnabled,
		friction:    combinedFriction(fa, fb),
		restitution: combinedRestitution(fa, fb),
	}
}

func (c *Contact) FixtureA() *Fixture { return c.fixtureA }
func (c *Contact) FixtureB() *Fixture { return c.fixtureB }
func (c *Contact) Manifold() Manifold { return c.manifold }
func (c *Contact) IsTouching() bool   { return c.flags&flagTouching != 0 }
func (c *Contact) IsEnabled() bool    { return c.flags&flagEnabled != 0 }
func (c *Contact) SetEnabled(enabled bool) {
	if enabled {
		c.flags |= flagEnabled
	} else {
		c.flags &^= flagEnabled
	}
}
func (c *Contact) Friction() float64    { return c.friction }
func (c *Contact) Restitution() float64 { return c.restitution }
func (c *Contact) SetTangentSpeed(v float64) { c.tangentSpeed = v }
func (c *Contact) TangentSpeed() float64     { return c.tangentSpeed }

// contactEdge links a Contact into the per-body adjacency list each of
// its two fixtures' bodies keeps, the contact counterpart of
// jointEdge.
type contactEdge struct {
	contact *Contact
	other   *Body
}

// update runs narrow-phase for one contact, updates its touching flag,
// fires the listener's begin/end-touch callbacks on transitions, and
// fires PreSolve whenever the contact is touching with a non-empty new
// manifold, whether or not touching just began.
func (c *Contact) update(listener ContactListener) {
	wasTouching := c.IsTouching()
	oldManifold := c.manifold

	bodyA, bodyB := c.fixtureA.body, c.fixtureB.body
	if c.fixtureA.isSensor || c.fixtureB.isSensor {
		touching := testOverlap(c.fixtureA.shape, c.childIndexA, bodyA.xf, c.fixtureB.shape, c.childIndexB, bodyB.xf)
		c.setTouching(touching)
	} else {
		m := CollideShapes(c.fixtureA.shape, bodyA.xf, c.childIndexA, c.fixtureB.shape, bodyB.xf, c.childIndexB)
		touching := m.PointCount > 0
		if touching {
			c.mergeWarmStart(m)
		}
		c.manifold = m
		c.setTouching(touching)
	}

	touching := c.IsTouching()
	if touching != wasTouching && listener != nil {
		if touching {
			listener.BeginContact(c)
		} else {
			listener.EndContact(c)
		}
	}

	if touching && c.manifold.PointCount > 0 && listener != nil {
		listener.PreSolve(c, oldManifold)
	}
}

func (c *Contact) setTouching(touching bool) {
	if touching {
		c.flags |= flagTouching
	} else {
		c.flags &^= flagTouching
		c.manifold.PointCount = 0
	}
}

// mergeWarmStart copies normal/tangent impulses from the previous
// manifold into matching ContactFeature ids of the new one so the
// solver can warm-start.
func (c *Contact) mergeWarmStart(m Manifold) {
	old := c.manifold
	for i := 0; i < m.PointCount; i++ {
		np := &m.Points[i]
		np.NormalImpulse, np.TangentImpulse = 0, 0
		for j := 0; j < old.PointCount; j++ {
			if old.Points[j].ID == np.ID {
				np.NormalImpulse = old.Points[j].NormalImpulse
				np.TangentImpulse = old.Points[j].TangentImpulse
				break
			}
		}
	}
}

func testOverlap(shapeA Shape, childA int, xfA geom.Transform, shapeB Shape, childB int, xfB geom.Transform) bool {
	pa := shapeA.GetDistanceProxy(childA)
	pb := shapeB.GetDistanceProxy(childB)
	out := Distance(&pa, xfA, &pb, xfB, &SimplexCache{})
	return out.Distance < 10*linearSlop
}

// ContactManager owns the broad-phase and the world's live contact
// set.
type ContactManager struct {
	broadPhase *BroadPhase
	contacts   map[pairKey]*Contact
	proxyOwner map[int]proxyOwner // tree proxy id -> fixture/child it belongs to
	listener   ContactListener
}

type proxyOwner struct {
	fixture *Fixture
	child   int
}

func newContactManager() *ContactManager {
	return &ContactManager{
		broadPhase: newBroadPhase(),
		contacts:   map[pairKey]*Contact{},
		proxyOwner: map[int]proxyOwner{},
	}
}

// addProxy registers one broad-phase proxy per shape child of a newly
// created fixture.
func (cm *ContactManager) addProxy(f *Fixture, xf geom.Transform) {
	n := f.shape.GetChildCount()
	f.proxyIDs = make([]int, n)
	for i := 0; i < n; i++ {
		aabb := f.shape.ComputeAABB(xf, i)
		id := cm.broadPhase.CreateProxy(aabb, 0)
		f.proxyIDs[i] = id
		cm.proxyOwner[id] = proxyOwner{fixture: f, child: i}
	}
}

func (cm *ContactManager) removeProxy(f *Fixture) {
	for _, id := range f.proxyIDs {
		delete(cm.proxyOwner, id)
		cm.broadPhase.DestroyProxy(id)
	}
	f.proxyIDs = nil
}

func (cm *ContactManager) synchronizeFixture(f *Fixture, xf geom.Transform, displacement geom.Vec2) {
	for i, id := range f.proxyIDs {
		aabb := f.shape.ComputeAABB(xf, i)
		cm.broadPhase.MoveProxy(id, aabb, displacement)
	}
}

// destroyContactsFor removes every contact touching f (called when a
// fixture is destroyed), notifying the listener.
func (cm *ContactManager) destroyContactsFor(f *Fixture) {
	for key, c := range cm.contacts {
		if c.fixtureA == f || c.fixtureB == f {
			cm.destroy(key, c)
		}
	}
}

func (cm *ContactManager) destroy(key pairKey, c *Contact) {
	if c.IsTouching() && cm.listener != nil {
		cm.listener.EndContact(c)
	}
	removeContactEdge(c.fixtureA.body, c)
	removeContactEdge(c.fixtureB.body, c)
	delete(cm.contacts, key)
}

func removeContactEdge(b *Body, c *Contact) {
	for i, e := range b.contactEdges {
		if e.contact == c {
			b.contactEdges = append(b.contactEdges[:i], b.contactEdges[i+1:]...)
			return
		}
	}
}

// FindNewContacts asks the broad-phase for every proxy pair whose fat
// AABBs now overlap and creates a Contact for any not already tracked,
// skipping pairs the built-in body/filter checks or the listener's
// ShouldCollide veto reject.
func (cm *ContactManager) FindNewContacts() {
	cm.broadPhase.UpdatePairs(func(proxyA, proxyB int) {
		ownerA, okA := cm.proxyOwner[proxyA]
		ownerB, okB := cm.proxyOwner[proxyB]
		if !okA || !okB {
			return
		}
		fa, fb := ownerA.fixture, ownerB.fixture
		if fa == fb {
			return
		}
		bodyA, bodyB := fa.body, fb.body
		if !bodyA.shouldCollide(bodyB) {
			return
		}
		if !fa.filter.shouldCollide(fb.filter) {
			return
		}
		if cm.listener != nil && !cm.listener.ShouldCollide(fa, fb) {
			return
		}
		key := newPairKey(proxyA, proxyB)
		if _, exists := cm.contacts[key]; exists {
			return
		}
		c := newContact(fa, fb, ownerA.child, ownerB.child)
		cm.contacts[key] = c
		bodyA.contactEdges = append(bodyA.contactEdges, &contactEdge{contact: c, other: bodyB})
		bodyB.contactEdges = append(bodyB.contactEdges, &contactEdge{contact: c, other: bodyA})
	})
}

// Collide runs narrow-phase on every non-filtered contact whose
// fixtures' fat AABBs still overlap, dropping ones that no longer
// overlap or whose filter forbids collision.
func (cm *ContactManager) Collide() {
	for key, c := range cm.contacts {
		fa, fb := c.fixtureA, c.fixtureB
		bodyA, bodyB := fa.body, fb.body

		if c.flags&flagFilter != 0 {
			vetoed := cm.listener != nil && !cm.listener.ShouldCollide(fa, fb)
			if !bodyA.shouldCollide(bodyB) || !fa.filter.shouldCollide(fb.filter) || vetoed {
				cm.destroy(key, c)
				continue
			}
			c.flags &^= flagFilter
		}

		if !bodyA.IsAwake() && !bodyB.IsAwake() {
			continue
		}

		overlap := cm.broadPhase.TestOverlap(proxyIDFor(fa, c.childIndexA), proxyIDFor(fb, c.childIndexB))
		if !overlap {
			cm.destroy(key, c)
			continue
		}

		c.update(cm.listener)
	}
}

func proxyIDFor(f *Fixture, child int) int { return f.proxyIDs[child] }
