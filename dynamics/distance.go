package dynamics

import (
	"math"

	"github.com/gerich-home/box2d/math/geom"
)

// maxGJKIterations caps the simplex-growth loop so a degenerate input
// (coincident proxies, NaN slipping past the finiteness contract)
// cannot spin forever.
const maxGJKIterations = 20

// SimplexCache lets a Distance call resume from the winning vertex
// indices of the previous call on the same fixture pair for
// warm-starting. Modeled on an incremental simplex-growth idea
// (add_to_simplex / do_simplex_N), narrowed from a 3D boolean
// intersection test to a 2D closest-point query with an explicit
// index-pair cache.
type SimplexCache struct {
	Count      int
	IndexA     [3]int
	IndexB     [3]int
	Metric     float64
}

type distSimplexVertex struct {
	wA, wB, w geom.Vec2
	a         float64 // barycentric coordinate for closest point
	indexA    int
	indexB    int
}

type distSimplex struct {
	v     [3]distSimplexVertex
	count int
}

func (s *distSimplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, xfA geom.Transform, proxyB *DistanceProxy, xfB geom.Transform) {
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.v[i]
		v.indexA = cache.IndexA[i]
		v.indexB = cache.IndexB[i]
		wALocal := proxyA.Vertices[v.indexA]
		wBLocal := proxyB.Vertices[v.indexB]
		v.wA = xfA.Apply(wALocal)
		v.wB = xfB.Apply(wBLocal)
		v.w = geom.Minus(v.wB, v.wA)
		v.a = -1
	}
	if s.count == 0 {
		v := &s.v[0]
		v.indexA, v.indexB = 0, 0
		wALocal := proxyA.Vertices[0]
		wBLocal := proxyB.Vertices[0]
		v.wA = xfA.Apply(wALocal)
		v.wB = xfB.Apply(wBLocal)
		v.w = geom.Minus(v.wB, v.wA)
		v.a = 1
		s.count = 1
	}
}

func (s *distSimplex) writeCache(cache *SimplexCache) {
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.v[i].indexA
		cache.IndexB[i] = s.v[i].indexB
	}
}

func (s *distSimplex) searchDirection() geom.Vec2 {
	switch s.count {
	case 1:
		return geom.Mul(s.v[0].w, -1)
	case 2:
		e := geom.Minus(s.v[1].w, s.v[0].w)
		sgn := e.Cross(geom.Mul(s.v[0].w, -1))
		if sgn > 0 {
			return geom.CrossSV(1, e)
		}
		return geom.CrossVS(e, 1)
	default:
		return geom.Vec2{}
	}
}

func (s *distSimplex) closestPoint() geom.Vec2 {
	switch s.count {
	case 1:
		return s.v[0].w
	case 2:
		return geom.Plus(geom.Mul(s.v[0].w, s.v[0].a), geom.Mul(s.v[1].w, s.v[1].a))
	default:
		return geom.Vec2{}
	}
}

func (s *distSimplex) witnessPoints() (pA, pB geom.Vec2) {
	switch s.count {
	case 1:
		return s.v[0].wA, s.v[0].wB
	case 2:
		pA = geom.Plus(geom.Mul(s.v[0].wA, s.v[0].a), geom.Mul(s.v[1].wA, s.v[1].a))
		pB = geom.Plus(geom.Mul(s.v[0].wB, s.v[0].a), geom.Mul(s.v[1].wB, s.v[1].a))
		return pA, pB
	default:
		pA = geom.Mul(geom.Plus(geom.Plus(s.v[0].wA, s.v[1].wA), s.v[2].wA), 1.0/3)
		return pA, pA
	}
}

// solve2 computes barycentric coordinates for the closest point on
// segment v0v1 to the origin, possibly degenerating to a single
// vertex.
func (s *distSimplex) solve2() {
	w1, w2 := s.v[0].w, s.v[1].w
	e12 := geom.Minus(w2, w1)

	d12_2 := -w1.Dot(e12)
	if d12_2 <= 0 {
		s.v[0].a = 1
		s.count = 1
		return
	}

	d12_1 := w2.Dot(e12)
	if d12_1 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].a = 1
		s.count = 1
		return
	}

	inv := 1.0 / (d12_1 + d12_2)
	s.v[0].a = d12_1 * inv
	s.v[1].a = d12_2 * inv
	s.count = 2
}

// solve3 computes barycentric coordinates for the closest point on
// triangle v0v1v2 to the origin, degenerating to an edge or vertex
// when the origin's projection falls outside the triangle.
func (s *distSimplex) solve3() {
	w1, w2, w3 := s.v[0].w, s.v[1].w, s.v[2].w

	e12 := geom.Minus(w2, w1)
	w1e12 := w1.Dot(e12)
	w2e12 := w2.Dot(e12)
	d12_1 := w2e12
	d12_2 := -w1e12

	e13 := geom.Minus(w3, w1)
	w1e13 := w1.Dot(e13)
	w3e13 := w3.Dot(e13)
	d13_1 := w3e13
	d13_2 := -w1e13

	e23 := geom.Minus(w3, w2)
	w2e23 := w2.Dot(e23)
	w3e23 := w3.Dot(e23)
	d23_1 := w3e23
	d23_2 := -w2e23

	n123 := e12.Cross(e13)

	d123_1 := n123 * w2.Cross(w3)
	d123_2 := n123 * w3.Cross(w1)
	d123_3 := n123 * w1.Cross(w2)

	if d12_2 <= 0 && d13_2 <= 0 {
		s.v[0].a = 1
		s.count = 1
		return
	}

	if d12_1 > 0 && d12_2 > 0 && d123_3 <= 0 {
		inv := 1.0 / (d12_1 + d12_2)
		s.v[0].a = d12_1 * inv
		s.v[1].a = d12_2 * inv
		s.count = 2
		return
	}

	if d13_1 > 0 && d13_2 > 0 && d123_2 <= 0 {
		inv := 1.0 / (d13_1 + d13_2)
		s.v[0].a = d13_1 * inv
		s.v[2].a = d13_2 * inv
		s.v[1] = s.v[2]
		s.count = 2
		return
	}

	if d12_1 <= 0 && d23_2 <= 0 {
		s.v[0] = s.v[1]
		s.v[0].a = 1
		s.count = 1
		return
	}

	if d13_1 <= 0 && d23_1 <= 0 {
		s.v[0] = s.v[2]
		s.v[0].a = 1
		s.count = 1
		return
	}

	if d23_1 > 0 && d23_2 > 0 && d123_1 <= 0 {
		inv := 1.0 / (d23_1 + d23_2)
		s.v[1].a = d23_1 * inv
		s.v[2].a = d23_2 * inv
		s.v[0] = s.v[2]
		s.count = 2
		return
	}

	inv := 1.0 / (d123_1 + d123_2 + d123_3)
	s.v[0].a = d123_1 * inv
	s.v[1].a = d123_2 * inv
	s.v[2].a = d123_3 * inv
	s.count = 3
}

// DistanceOutput is the closest-points result of a Distance call.
type DistanceOutput struct {
	PointA     geom.Vec2
	PointB     geom.Vec2
	Distance   float64
	Iterations int
}

// Distance computes the closest points between proxyA (in frame xfA)
// and proxyB (in frame xfB), resuming from and updating cache so the
// next call on the same pair can start warm. Modeled on an
// incremental-simplex-growth idiom, rebuilt as a
// 2D closest-point query (Box2D's b2Distance shape) rather than a
// boolean intersection test.
func Distance(proxyA *DistanceProxy, xfA geom.Transform, proxyB *DistanceProxy, xfB geom.Transform, cache *SimplexCache) DistanceOutput {
	var simplex distSimplex
	simplex.readCache(cache, proxyA, xfA, proxyB, xfB)

	var saveA, saveB [3]int
	iter := 0
	for iter < maxGJKIterations {
		saveCount := simplex.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = simplex.v[i].indexA
			saveB[i] = simplex.v[i].indexB
		}

		switch simplex.count {
		case 1:
		case 2:
			simplex.solve2()
		case 3:
			simplex.solve3()
		}

		if simplex.count == 3 {
			break
		}

		d := simplex.searchDirection()
		if d.LenSqr() < geom.Epsilon*geom.Epsilon {
			break
		}

		neg := geom.Mul(d, -1)
		indexA := proxyA.Support(xfA.Rotation.ApplyT(neg))
		indexB := proxyB.Support(xfB.Rotation.ApplyT(d))

		v := &simplex.v[simplex.count]
		v.indexA = indexA
		v.indexB = indexB
		v.wA = xfA.Apply(proxyA.Vertices[indexA])
		v.wB = xfB.Apply(proxyB.Vertices[indexB])
		v.w = geom.Minus(v.wB, v.wA)
		iter++

		duplicate := false
		for i := 0; i < saveCount; i++ {
			if indexA == saveA[i] && indexB == saveB[i] {
				duplicate = true
				break
			}
		}
		if duplicate {
			break
		}
		simplex.count++
	}

	pA, pB := simplex.witnessPoints()
	dist := geom.Minus(pB, pA).Len()

	simplex.writeCache(cache)

	// Apply vertex radii: shrink the reported witness points toward
	// each other by their proxies' vertex radii.
	if proxyA.Radius+proxyB.Radius > 0 && dist > geom.Epsilon {
		normal := geom.Mul(geom.Minus(pB, pA), 1.0/dist)
		pA = geom.Plus(pA, geom.Mul(normal, proxyA.Radius))
		pB = geom.Minus(pB, geom.Mul(normal, proxyB.Radius))
		dist = math.Max(0, dist-proxyA.Radius-proxyB.Radius)
	}

	return DistanceOutput{PointA: pA, PointB: pB, Distance: dist, Iterations: iter}
}
