package dynamics

import "github.com/gerich-home/box2d/math/geom"

// timeOfImpact finds the first time in [0,1] (fraction of the current
// step) at which proxyA and proxyB, sweeping through sweepA/sweepB,
// come within target of each other, using conservative advancement
// bounded by GJK distance bounds. There is no root bracketing or
// bisection: after conf.MaxTOIIterations advances without reaching
// target, the last alpha reached is reported as a hit.
// Modeled on the gjk.go iteration-cap-with-fallback idiom
// (distSimplex bails out after maxGJKIterations rather than looping
// forever on degenerate input) applied here to the outer advance
// loop instead of the simplex growth loop.
func timeOfImpact(proxyA *DistanceProxy, sweepA geom.Sweep, proxyB *DistanceProxy, sweepB geom.Sweep, target float64, conf StepConf) (float64, bool) {
	cache := &SimplexCache{}
	alpha := 0.0

	for iter := 0; iter < conf.MaxTOIIterations; iter++ {
		xfA := sweepA.GetTransform(alpha)
		xfB := sweepB.GetTransform(alpha)

		out := Distance(proxyA, xfA, proxyB, xfB, cache)
		if out.Distance <= target {
			return alpha, true
		}

		// Bound how fast the proxies can approach each other: the sum
		// of each body's maximum point velocity projected onto the
		// separating direction.
		normal := geom.Minus(out.PointB, out.PointA)
		var unitNormal geom.Vec2
		if unitNormal.Unit(normal) == 0 {
			return alpha, true
		}

		approachRate := maxApproachRate(sweepA, proxyA, unitNormal, alpha) + maxApproachRate(sweepB, proxyB, geom.Mul(unitNormal, -1), alpha)
		if approachRate <= geom.Epsilon {
			return 1, false
		}

		dAlpha := (out.Distance - target) / approachRate
		next := alpha + dAlpha
		if next >= 1 {
			return 1, false
		}
		if next <= alpha {
			return alpha, true
		}
		alpha = next
	}

	return alpha, true
}

// maxApproachRate bounds how fast any point of the proxy's hull can
// move toward the plane with normal n, over the remainder of the
// sweep from alpha to 1: linear speed along n plus angular speed times
// the hull's farthest extent from its center of rotation.
func maxApproachRate(sweep geom.Sweep, proxy *DistanceProxy, n geom.Vec2, alpha float64) float64 {
	linear := geom.Minus(sweep.C1, sweep.C0).Dot(n)
	angular := sweep.A1 - sweep.A0
	maxExtent := 0.0
	for _, v := range proxy.Vertices {
		d := geom.Minus(v, sweep.LocalCenter).Len()
		if d > maxExtent {
			maxExtent = d
		}
	}
	rate := linear + angularAbs(angular)*maxExtent
	if rate < 0 {
		rate = 0
	}
	return rate
}

func angularAbs(a float64) float64 {
	if a < 0 {
		return -a
	}
	return a
}

// solveTOI sub-steps through the earliest unresolved time-of-impact
// among the step's contacts, advancing the involved bodies' sweeps and
// re-running a minimal two-body position solve at each event, up to
// conf.MaxSubSteps times.
func (w *World) solveTOI(conf StepConf) {
	for sub := 0; sub < conf.MaxSubSteps; sub++ {
		var minAlpha = 1.0
		var minContact *Contact

		for _, c := range w.contactManager.contacts {
			if !c.IsEnabled() || c.flags&flagToi != 0 {
				continue
			}
			bodyA, bodyB := c.fixtureA.body, c.fixtureB.body
			if !bodyA.IsBullet() && !bodyB.IsBullet() {
				continue
			}
			if bodyA.kind != DynamicBody && bodyB.kind != DynamicBody {
				continue
			}
			if !bodyA.IsAwake() && !bodyB.IsAwake() {
				continue
			}

			pa := c.fixtureA.shape.GetDistanceProxy(c.childIndexA)
			pb := c.fixtureB.shape.GetDistanceProxy(c.childIndexB)
			target := maxFloat(linearSlop, pa.Radius+pb.Radius-3*linearSlop)

			alpha, hit := timeOfImpact(&pa, bodyA.sweep, &pb, bodyB.sweep, target, conf)
			if hit && alpha < minAlpha {
				minAlpha = alpha
				minContact = c
			}
		}

		if minContact == nil {
			return
		}

		bodyA, bodyB := minContact.fixtureA.body, minContact.fixtureB.body
		bodyA.sweep.Advance(minAlpha)
		bodyB.sweep.Advance(minAlpha)
		bodyA.synchronizeTransform()
		bodyB.synchronizeTransform()

		minContact.update(w.contactListener)
		minContact.flags |= flagToi

		w.solveTOIIsland(bodyA, bodyB, minContact, conf)
		w.stats.TOISubSteps++
	}
}

// solveTOIIsland runs a minimal, position-only NGS correction between
// the two bodies in a TOI event plus one velocity pass, leaving every
// other body untouched: resolve just the colliding pair without
// re-solving the whole island.
func (w *World) solveTOIIsland(bodyA, bodyB *Body, c *Contact, conf StepConf) {
	sb := []solverBody{
		{body: bodyA, c: bodyA.sweep.C1, a: bodyA.sweep.A1, v: bodyA.linearVelocity, w: bodyA.angularVelocity},
		{body: bodyB, c: bodyB.sweep.C1, a: bodyB.sweep.A1, v: bodyB.linearVelocity, w: bodyB.angularVelocity},
	}
	bodyA.islandIndex, bodyB.islandIndex = 0, 1

	cs := newContactSolver()
	cs.prepare([]*Contact{c}, sb, conf, true)

	for iter := 0; iter < conf.ToiPositionIterations; iter++ {
		if cs.solvePositionConstraints(sb, conf, true) {
			break
		}
	}

	cs.warmStart(sb, conf)
	for iter := 0; iter < conf.ToiVelocityIterations; iter++ {
		cs.solveVelocityConstraints(sb)
	}
	cs.storeImpulses(w.contactListener, conf.ToiVelocityIterations)

	bodyA.sweep.C1, bodyA.sweep.A1 = sb[0].c, sb[0].a
	bodyB.sweep.C1, bodyB.sweep.A1 = sb[1].c, sb[1].a
	bodyA.linearVelocity, bodyA.angularVelocity = sb[0].v, sb[0].w
	bodyB.linearVelocity, bodyB.angularVelocity = sb[1].v, sb[1].w
	bodyA.synchronizeTransform()
	bodyB.synchronizeTransform()
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
