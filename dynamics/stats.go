package dynamics

// StepStats summarizes one World.Step call: the per-step counters a
// caller (e.g. cmd/simstat) reports without needing to walk the
// World's internals itself.
type StepStats struct {
	IslandCount  int
	ContactCount int
	JointCount   int
	TOISubSteps  int
}
