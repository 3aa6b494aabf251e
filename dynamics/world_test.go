package dynamics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerich-home/box2d/math/geom"
)

// TestWorldStepFreeFall checks a dynamic circle with no ground falls
// under gravity and never enters the sleeping state.
func TestWorldStepFreeFall(t *testing.T) {
	w := NewWorld(DefaultDef())
	bdef := DefaultBodyDef()
	bdef.Position = geom.NewVec2(0, 10)
	ball, err := w.CreateBody(bdef)
	require.NoError(t, err)
	_, err = ball.CreateFixture(DefaultFixtureDef(&Circle{Radius: 0.5}))
	require.NoError(t, err)

	startY := ball.Position().Y
	conf := DefaultStepConf()
	for i := 0; i < 30; i++ {
		w.Step(conf)
	}

	assert.Less(t, ball.Position().Y, startY, "ball should have fallen")
	assert.True(t, ball.IsAwake(), "a still-falling body should stay awake")
}

// TestWorldStepRestsOnGround drops a circle onto a static ground box
// and checks it comes to rest above the ground without tunneling
// through it.
func TestWorldStepRestsOnGround(t *testing.T) {
	w := NewWorld(DefaultDef())

	groundDef := DefaultBodyDef()
	groundDef.Kind = StaticBody
	groundDef.Position = geom.NewVec2(0, 0)
	ground, err := w.CreateBody(groundDef)
	require.NoError(t, err)
	_, err = ground.CreateFixture(DefaultFixtureDef(NewBoxPolygon(10, 0.5)))
	require.NoError(t, err)

	ballDef := DefaultBodyDef()
	ballDef.Position = geom.NewVec2(0, 3)
	ball, err := w.CreateBody(ballDef)
	require.NoError(t, err)
	fdef := DefaultFixtureDef(&Circle{Radius: 0.5})
	fdef.Density = 1
	_, err = ball.CreateFixture(fdef)
	require.NoError(t, err)

	conf := DefaultStepConf()
	for i := 0; i < 300; i++ {
		w.Step(conf)
	}

	// The ball should have settled on top of the ground (ground top at
	// y=0.5, ball radius 0.5) and not have fallen through it.
	assert.Greater(t, ball.Position().Y, 0.5-2*linearSlop)
	assert.InDelta(t, 0.0, ball.LinearVelocity().X, 1e-6)
}

// TestWorldLockedDuringStepRejectsMutation drops a ball directly onto
// a ground box so BeginContact fires during Step, and checks that a
// CreateBody call from inside that callback is rejected with
// ErrWorldLocked.
func TestWorldLockedDuringStepRejectsMutation(t *testing.T) {
	w := NewWorld(DefaultDef())

	groundDef := DefaultBodyDef()
	groundDef.Kind = StaticBody
	ground, err := w.CreateBody(groundDef)
	require.NoError(t, err)
	_, err = ground.CreateFixture(DefaultFixtureDef(NewBoxPolygon(10, 0.5)))
	require.NoError(t, err)

	ballDef := DefaultBodyDef()
	ballDef.Position = geom.NewVec2(0, 0.99)
	ball, err := w.CreateBody(ballDef)
	require.NoError(t, err)
	fdef := DefaultFixtureDef(&Circle{Radius: 0.5})
	fdef.Density = 1
	_, err = ball.CreateFixture(fdef)
	require.NoError(t, err)

	listener := &lockCheckingListener{w: w, def: DefaultBodyDef()}
	w.SetContactListener(listener)

	conf := DefaultStepConf()
	for i := 0; i < 10 && !listener.fired; i++ {
		w.Step(conf)
	}

	require.True(t, listener.fired, "expected BeginContact to fire")
	assert.ErrorIs(t, listener.err, ErrWorldLocked)
}

type lockCheckingListener struct {
	w     *World
	def   BodyDef
	fired bool
	err   error
}

func (l *lockCheckingListener) BeginContact(c *Contact) {
	l.fired = true
	_, l.err = l.w.CreateBody(l.def)
}
func (l *lockCheckingListener) EndContact(c *Contact)                     {}
func (l *lockCheckingListener) PreSolve(c *Contact, oldManifold Manifold) {}
func (l *lockCheckingListener) PostSolve(c *Contact, impulse ContactImpulse, iterationCount int) {
}
func (l *lockCheckingListener) ShouldCollide(fixtureA, fixtureB *Fixture) bool { return true }
