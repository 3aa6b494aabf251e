package dynamics

import "errors"

// Sentinel errors returned by package-level operations. Callers compare
// with errors.Is rather than matching on error strings.
var (
	// ErrBodyPoolExhausted is returned by World.CreateBody when the
	// configured body capacity has been reached.
	ErrBodyPoolExhausted = errors.New("dynamics: body pool exhausted")

	// ErrFixturePoolExhausted is returned by Body.CreateFixture when the
	// configured fixture capacity has been reached.
	ErrFixturePoolExhausted = errors.New("dynamics: fixture pool exhausted")

	// ErrJointPoolExhausted is returned by World.CreateJoint when the
	// configured joint capacity has been reached.
	ErrJointPoolExhausted = errors.New("dynamics: joint pool exhausted")

	// ErrNonFiniteInput is returned when a caller-supplied vector,
	// transform, or scalar fails the package's finiteness contract.
	ErrNonFiniteInput = errors.New("dynamics: non-finite input")

	// ErrShapeVertexCount is returned by NewPolygon when the supplied
	// vertex count falls outside [3, MaxPolygonVertices].
	ErrShapeVertexCount = errors.New("dynamics: polygon vertex count out of range")

	// ErrDegenerateShape is returned by NewPolygon when the supplied
	// vertices are collinear or wind clockwise after hulling.
	ErrDegenerateShape = errors.New("dynamics: degenerate shape")

	// ErrJointAlreadyDestroyed is returned by operations on a Joint or
	// Body after DestroyJoint/DestroyBody has already been called on it.
	ErrJointAlreadyDestroyed = errors.New("dynamics: joint already destroyed")

	// ErrBodiesNotInSameWorld is returned by CreateJoint when the two
	// bodies named in a joint definition belong to different worlds.
	ErrBodiesNotInSameWorld = errors.New("dynamics: bodies belong to different worlds")

	// ErrWorldLocked is returned by CreateBody/DestroyBody/CreateFixture/
	// DestroyFixture/CreateJoint/DestroyJoint when called during Step,
	//lifecycle invariant.
	ErrWorldLocked = errors.New("dynamics: world locked during step")
)
