package dynamics

// ContactListener receives notifications as contacts update each step:
// BeginContact/EndContact on touching-state transitions, PreSolve
// before the velocity solve for every touching contact, PostSolve
// after it with the impulses actually applied, and ShouldCollide as a
// user-level veto layered on top of the built-in filter/body checks.
type ContactListener interface {
	BeginContact(c *Contact)
	EndContact(c *Contact)
	PreSolve(c *Contact, oldManifold Manifold)
	PostSolve(c *Contact, impulse ContactImpulse, iterationCount int)
	ShouldCollide(fixtureA, fixtureB *Fixture) bool
}

// ContactImpulse carries the normal/tangent impulses the solver
// actually applied to one contact's manifold points, reported to
// PostSolve after the velocity iterations for a step or TOI sub-step
// finish.
type ContactImpulse struct {
	NormalImpulses  [2]float64
	TangentImpulses [2]float64
	PointCount      int
}

// DestructionListener is notified when a fixture or joint is destroyed
// as a side effect of its body being destroyed.
type DestructionListener interface {
	SayGoodbyeFixture(f *Fixture)
	SayGoodbyeJoint(j Joint)
}

// NopContactListener discards every notification, the default a World
// starts with. ShouldCollide defaults to true so it never narrows the
// built-in filter/body checks unless a caller overrides it.
type NopContactListener struct{}

func (NopContactListener) BeginContact(c *Contact)                   {}
func (NopContactListener) EndContact(c *Contact)                     {}
func (NopContactListener) PreSolve(c *Contact, oldManifold Manifold) {}
func (NopContactListener) PostSolve(c *Contact, impulse ContactImpulse, iterationCount int) {
}
func (NopContactListener) ShouldCollide(fixtureA, fixtureB *Fixture) bool { return true }

// NopDestructionListener discards every notification.
type NopDestructionListener struct{}

func (NopDestructionListener) SayGoodbyeFixture(f *Fixture) {}
func (NopDestructionListener) SayGoodbyeJoint(j Joint)      {}
