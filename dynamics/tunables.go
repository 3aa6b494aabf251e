package dynamics

import "github.com/gerich-home/box2d/math/geom"

// Package-wide slop constantsdefaults. These are
// package-level (not per-World) because the manifold builder, which
// has no World reference, needs linearSlop for its clip tolerance.
const (
	linearSlop      = 0.005
	angularSlop     = 2 * geom.Pi / 180
	maxVertexRadius = 255.0
	minVertexRadius = 0.0

	aabbExtension = linearSlop * 20
)

// StepConf tunes a single World.Step call.
type StepConf struct {
	Dt      float64
	DtRatio float64

	RegVelocityIterations int
	RegPositionIterations int
	ToiVelocityIterations int
	ToiPositionIterations int

	MaxSubSteps         int
	MaxTOIRootIterCount int
	MaxTOIIterations    int

	VelocityThreshold float64
	MaxTranslation    float64
	MaxRotation       float64

	MaxLinearCorrection  float64
	MaxAngularCorrection float64

	RegResolutionRate float64
	TOIResolutionRate float64

	DoWarmStart bool
	DoTOI       bool

	MinStillTimeToSleep float64

	LinearSleepTolerance  float64
	AngularSleepTolerance float64
}

// DefaultStepConf returns the default tunables, generalized from a
// package-wide tunable-constant idiom (body.go's damping/mass
// defaults).
func DefaultStepConf() StepConf {
	return StepConf{
		Dt:                    1.0 / 60.0,
		DtRatio:               1,
		RegVelocityIterations: 8,
		RegPositionIterations: 3,
		ToiVelocityIterations: 8,
		ToiPositionIterations: 20,
		MaxSubSteps:           48,
		MaxTOIRootIterCount:   50,
		MaxTOIIterations:      20,
		VelocityThreshold:     0.8,
		MaxTranslation:        4,
		MaxRotation:           geom.Pi / 2,
		MaxLinearCorrection:   0.2,
		MaxAngularCorrection:  8 * geom.Pi / 180,
		RegResolutionRate:     0.2,
		TOIResolutionRate:     0.75,
		DoWarmStart:           true,
		DoTOI:                 true,
		MinStillTimeToSleep:   0.5,
		LinearSleepTolerance:  0.01,
		AngularSleepTolerance: 2 * geom.Pi / 180,
	}
}

// Def configures a new World.
type Def struct {
	Gravity         geom.Vec2
	LinearSlop      float64
	AngularSlop     float64
	MaxVertexRadius float64

	// MaxBodies/MaxJoints/MaxFixtures cap the corresponding id pool; 0
	// means unbounded.
	MaxBodies   int
	MaxJoints   int
	MaxFixtures int
}

// DefaultDef returns the default World configuration.
func DefaultDef() Def {
	return Def{
		Gravity:         geom.NewVec2(0, -9.8),
		LinearSlop:      linearSlop,
		AngularSlop:     angularSlop,
		MaxVertexRadius: maxVertexRadius,
	}
}
