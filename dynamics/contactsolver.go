package dynamics

import (
	"math"

	"github.com/gerich-home/box2d/math/geom"
)

// velocityConstraintPoint is the per-manifold-point solver state: the
// contact/friction mass terms and accumulated impulses carried across
// iterations (and, via Contact.mergeWarmStart, across steps).
type velocityConstraintPoint struct {
	rA, rB geom.Vec2

	normalImpulse  float64
	tangentImpulse float64

	normalMass  float64
	tangentMass float64

	velocityBias float64
}

// contactVelocityConstraint is one contact's velocity-solve state.
// Modeled on a solverConstraint shape — indices into the body array,
// accumulated impulses, precomputed masses — generalized from a single
// contact point to up to two.
type contactVelocityConstraint struct {
	contact *Contact

	indexA, indexB int
	invMassA, invMassB float64
	invIA, invIB       float64

	friction    float64
	restitution float64
	tangentSpeed float64

	normal geom.Vec2

	points     [2]velocityConstraintPoint
	pointCount int
}

// contactPositionConstraint holds what solvePositionConstraints needs:
// local geometry, since position correction re-evaluates separation
// from scratch each iteration rather than reusing velocity-solve state.
type contactPositionConstraint struct {
	contact *Contact

	indexA, indexB int
	localCenterA, localCenterB geom.Vec2
	invMassA, invMassB         float64
	invIA, invIB               float64

	localNormal geom.Vec2
	localPoint  geom.Vec2
	localPoints [2]geom.Vec2
	radiusA, radiusB float64
	kind        ManifoldKind
}

// contactSolver runs the sequential-impulse pass over one island's
// contacts. Modeled on a solver type's setup/iterate/finish split and
// scratch-slice reuse idiom, generalized from single-point 3D contacts
// to point-by-point PGS over up to two manifold points, with friction
// and warm starting.
type contactSolver struct {
	velocityConstraints []contactVelocityConstraint
	positionConstraints []contactPositionConstraint
}

func newContactSolver() *contactSolver { return &contactSolver{} }

// prepare builds one velocity+position constraint per contact. toi
// marks a TOI sub-step solve: such contacts get a zero velocity bias
// regardless of restitution or closing speed, since a TOI correction
// is meant to stop penetration, not simulate a bounce.
func (s *contactSolver) prepare(contacts []*Contact, sb []solverBody, conf StepConf, toi bool) {
	s.velocityConstraints = s.velocityConstraints[:0]
	s.positionConstraints = s.positionConstraints[:0]

	for _, c := range contacts {
		if c.manifold.PointCount == 0 {
			continue
		}
		fa, fb := c.fixtureA, c.fixtureB
		bodyA, bodyB := fa.body, fb.body
		ia, ib := bodyA.islandIndex, bodyB.islandIndex

		radiusA, radiusB := shapeRadius(fa.shape), shapeRadius(fb.shape)

		vc := contactVelocityConstraint{
			contact:      c,
			indexA:       ia,
			indexB:       ib,
			invMassA:     bodyA.invMass,
			invMassB:     bodyB.invMass,
			invIA:        bodyA.invI,
			invIB:        bodyB.invI,
			friction:     c.friction,
			restitution:  c.restitution,
			tangentSpeed: c.tangentSpeed,
			pointCount:   c.manifold.PointCount,
		}
		pc := contactPositionConstraint{
			contact:      c,
			indexA:       ia,
			indexB:       ib,
			localCenterA: bodyA.sweep.LocalCenter,
			localCenterB: bodyB.sweep.LocalCenter,
			invMassA:     bodyA.invMass,
			invMassB:     bodyB.invMass,
			invIA:        bodyA.invI,
			invIB:        bodyB.invI,
			localNormal:  c.manifold.LocalNormal,
			localPoint:   c.manifold.LocalPoint,
			radiusA:      radiusA,
			radiusB:      radiusB,
			kind:         c.manifold.Kind,
		}

		wm := ComputeWorldManifold(&c.manifold, bodyA.xf, radiusA, bodyB.xf, radiusB)
		vc.normal = wm.Normal

		for j := 0; j < vc.pointCount; j++ {
			mp := c.manifold.Points[j]
			vcp := &vc.points[j]
			vcp.rA = geom.Minus(wm.Points[j], sb[ia].c)
			vcp.rB = geom.Minus(wm.Points[j], sb[ib].c)
			pc.localPoints[j] = mp.LocalPoint

			rnA := vcp.rA.Cross(vc.normal)
			rnB := vcp.rB.Cross(vc.normal)
			kNormal := vc.invMassA + vc.invMassB + vc.invIA*rnA*rnA + vc.invIB*rnB*rnB
			if kNormal > 0 {
				vcp.normalMass = 1 / kNormal
			}

			tangent := geom.CrossSV(1, vc.normal)
			rtA := vcp.rA.Cross(tangent)
			rtB := vcp.rB.Cross(tangent)
			kTangent := vc.invMassA + vc.invMassB + vc.invIA*rtA*rtA + vc.invIB*rtB*rtB
			if kTangent > 0 {
				vcp.tangentMass = 1 / kTangent
			}

			if conf.DoWarmStart {
				vcp.normalImpulse = mp.NormalImpulse
				vcp.tangentImpulse = mp.TangentImpulse
			}

			if !toi {
				relVel := relativeVelocity(sb[ia], sb[ib], vcp.rA, vcp.rB)
				vn := relVel.Dot(vc.normal)
				if vn < -conf.VelocityThreshold {
					vcp.velocityBias = -vc.restitution * vn
				}
			}
		}

		s.velocityConstraints = append(s.velocityConstraints, vc)
		s.positionConstraints = append(s.positionConstraints, pc)
	}
}

func shapeRadius(s Shape) float64 {
	switch v := s.(type) {
	case *Circle:
		return v.Radius
	case *Polygon:
		return 0
	default:
		return 0
	}
}

func relativeVelocity(a, b solverBody, rA, rB geom.Vec2) geom.Vec2 {
	vb := geom.Plus(b.v, geom.CrossSV(b.w, rB))
	va := geom.Plus(a.v, geom.CrossSV(a.w, rA))
	return geom.Minus(vb, va)
}

// warmStart applies the carried-over impulses to island velocities
// before the first real iteration.
func (s *contactSolver) warmStart(sb []solverBody, conf StepConf) {
	if !conf.DoWarmStart {
		return
	}
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		tangent := geom.CrossSV(1, vc.normal)
		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			impulse := geom.Plus(geom.Mul(vc.normal, p.normalImpulse), geom.Mul(tangent, p.tangentImpulse))
			a, b := &sb[vc.indexA], &sb[vc.indexB]
			a.v.AddScaled(a.v, impulse, -vc.invMassA)
			a.w -= vc.invIA * p.rA.Cross(impulse)
			b.v.AddScaled(b.v, impulse, vc.invMassB)
			b.w += vc.invIB * p.rB.Cross(impulse)
		}
	}
}

// solveVelocityConstraints runs one sequential-impulse pass: friction
// first, then normal impulses, point-by-point.
func (s *contactSolver) solveVelocityConstraints(sb []solverBody) {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		a, b := &sb[vc.indexA], &sb[vc.indexB]
		tangent := geom.CrossSV(1, vc.normal)

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			dv := relativeVelocity(*a, *b, p.rA, p.rB)
			vt := dv.Dot(tangent) - vc.tangentSpeed
			lambda := p.tangentMass * -vt

			maxFriction := vc.friction * p.normalImpulse
			newImpulse := clampFloat(p.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - p.tangentImpulse
			p.tangentImpulse = newImpulse

			impulse := geom.Mul(tangent, lambda)
			a.v.AddScaled(a.v, impulse, -vc.invMassA)
			a.w -= vc.invIA * p.rA.Cross(impulse)
			b.v.AddScaled(b.v, impulse, vc.invMassB)
			b.w += vc.invIB * p.rB.Cross(impulse)
		}

		for j := 0; j < vc.pointCount; j++ {
			p := &vc.points[j]
			dv := relativeVelocity(*a, *b, p.rA, p.rB)
			vn := dv.Dot(vc.normal)
			lambda := -p.normalMass * (vn - p.velocityBias)

			newImpulse := math.Max(p.normalImpulse+lambda, 0)
			lambda = newImpulse - p.normalImpulse
			p.normalImpulse = newImpulse

			impulse := geom.Mul(vc.normal, lambda)
			a.v.AddScaled(a.v, impulse, -vc.invMassA)
			a.w -= vc.invIA * p.rA.Cross(impulse)
			b.v.AddScaled(b.v, impulse, vc.invMassB)
			b.w += vc.invIB * p.rB.Cross(impulse)
		}
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// storeImpulses writes the solved impulses back into each contact's
// manifold so the next step's mergeWarmStart can find them, and, when
// listener is non-nil, reports the final per-point impulses through
// PostSolve.
func (s *contactSolver) storeImpulses(listener ContactListener, iterationCount int) {
	for i := range s.velocityConstraints {
		vc := &s.velocityConstraints[i]
		var impulse ContactImpulse
		for j := 0; j < vc.pointCount; j++ {
			vc.contact.manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			vc.contact.manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
			impulse.NormalImpulses[j] = vc.points[j].normalImpulse
			impulse.TangentImpulses[j] = vc.points[j].tangentImpulse
		}
		impulse.PointCount = vc.pointCount
		if listener != nil {
			listener.PostSolve(vc.contact, impulse, iterationCount)
		}
	}
}

// solvePositionConstraints runs one Baumgarte-style NGS position
// correction pass over every contact and reports whether every
// separation is within 3*linearSlop. toi selects conf.TOIResolutionRate
// instead of conf.RegResolutionRate, since a TOI sub-step corrects
// faster than the regular island pass.
func (s *contactSolver) solvePositionConstraints(sb []solverBody, conf StepConf, toi bool) bool {
	minSeparation := 0.0

	resolutionRate := conf.RegResolutionRate
	if toi {
		resolutionRate = conf.TOIResolutionRate
	}

	for i := range s.positionConstraints {
		pc := &s.positionConstraints[i]
		a, b := &sb[pc.indexA], &sb[pc.indexB]

		for j := 0; j < pointCountFor(pc); j++ {
			normal, point, separation := evaluatePositionConstraint(pc, a, b, j)
			minSeparation = math.Min(minSeparation, separation)

			c := clampFloat(resolutionRate*(separation+linearSlop), -conf.MaxLinearCorrection, 0)

			rA := geom.Minus(point, a.c)
			rB := geom.Minus(point, b.c)

			rnA := rA.Cross(normal)
			rnB := rB.Cross(normal)
			k := pc.invMassA + pc.invMassB + pc.invIA*rnA*rnA + pc.invIB*rnB*rnB
			var impulse float64
			if k > 0 {
				impulse = -c / k
			}

			p := geom.Mul(normal, impulse)
			a.c.AddScaled(a.c, p, -pc.invMassA)
			a.a -= pc.invIA * rA.Cross(p)
			b.c.AddScaled(b.c, p, pc.invMassB)
			b.a += pc.invIB * rB.Cross(p)
		}
	}

	return minSeparation >= -3*linearSlop
}

func pointCountFor(pc *contactPositionConstraint) int {
	if pc.kind == ManifoldCircles {
		return 1
	}
	return pc.contact.manifold.PointCount
}

// evaluatePositionConstraint re-derives the world normal, a
// representative world point, and the signed separation for manifold
// point j, following the same three-case split as
// ComputeWorldManifold but expressed against the solver's scratch
// position (a.c/a.a, b.c/b.a) instead of a Body's committed transform.
func evaluatePositionConstraint(pc *contactPositionConstraint, a, b *solverBody, j int) (geom.Vec2, geom.Vec2, float64) {
	xfA := geom.Transform{Position: geom.Minus(a.c, geom.NewRot(a.a).Apply(pc.localCenterA)), Rotation: geom.NewRot(a.a)}
	xfB := geom.Transform{Position: geom.Minus(b.c, geom.NewRot(b.a).Apply(pc.localCenterB)), Rotation: geom.NewRot(b.a)}

	switch pc.kind {
	case ManifoldCircles:
		pointA := xfA.Apply(pc.localPoint)
		pointB := xfB.Apply(pc.localPoints[0])
		var normal geom.Vec2
		normal.Unit(geom.Minus(pointB, pointA))
		sep := geom.Minus(pointB, pointA).Dot(normal) - pc.radiusA - pc.radiusB
		point := geom.Plus(pointA, geom.Mul(normal, pc.radiusA))
		return normal, point, sep
	case ManifoldFaceA:
		normal := xfA.Rotation.Apply(pc.localNormal)
		planePoint := xfA.Apply(pc.localPoint)
		clip := xfB.Apply(pc.localPoints[j])
		sep := geom.Minus(clip, planePoint).Dot(normal) - pc.radiusA - pc.radiusB
		point := geom.Minus(clip, geom.Mul(normal, pc.radiusB+geom.Minus(clip, planePoint).Dot(normal)-sep))
		return normal, point, sep
	default: // ManifoldFaceB
		normal := xfB.Rotation.Apply(pc.localNormal)
		planePoint := xfB.Apply(pc.localPoint)
		clip := xfA.Apply(pc.localPoints[j])
		sep := geom.Minus(clip, planePoint).Dot(normal) - pc.radiusA - pc.radiusB
		point := geom.Minus(clip, geom.Mul(normal, pc.radiusA+geom.Minus(clip, planePoint).Dot(normal)-sep))
		normal = geom.Mul(normal, -1)
		return normal, point, sep
	}
}
