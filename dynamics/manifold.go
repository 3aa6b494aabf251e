package dynamics

import (
	"math"

	"github.com/gerich-home/box2d/math/geom"
)

// ManifoldKind distinguishes how a Manifold's local point and normal
// should be interpreted.
type ManifoldKind int

const (
	ManifoldCircles ManifoldKind = iota
	ManifoldFaceA
	ManifoldFaceB
)

// ContactFeature names the vertex/edge pair that produced a manifold
// point, stable across frames so warm-start impulses survive a
// point's clip source changing slightly.
type ContactFeature struct {
	IndexA, IndexB uint8
	TypeA, TypeB   uint8
}

const (
	featureVertex = uint8(iota)
	featureFace
)

// ManifoldPoint is one of up to two contact points in a Manifold.
type ManifoldPoint struct {
	LocalPoint     geom.Vec2
	NormalImpulse  float64
	TangentImpulse float64
	ID             ContactFeature
}

// Manifold is the narrow phase's output: up to two points plus a
// local normal/point whose frame depends on Kind.
type Manifold struct {
	Kind       ManifoldKind
	LocalNormal geom.Vec2
	LocalPoint  geom.Vec2
	Points      [2]ManifoldPoint
	PointCount  int
}

// WorldManifold resolves a Manifold (expressed in local space) into
// world-space normal and point data using each shape's radius and
// transform, for use by the velocity/position solver.
type WorldManifold struct {
	Normal   geom.Vec2
	Points   [2]geom.Vec2
	Separations [2]float64
}

// ComputeWorldManifold converts m into world space given the two
// fixtures' transforms and vertex radii.
func ComputeWorldManifold(m *Manifold, xfA geom.Transform, radiusA float64, xfB geom.Transform, radiusB float64) WorldManifold {
	var out WorldManifold
	if m.PointCount == 0 {
		return out
	}

	switch m.Kind {
	case ManifoldCircles:
		pointA := xfA.Apply(m.LocalPoint)
		pointB := xfB.Apply(m.Points[0].LocalPoint)
		normal := geom.NewVec2(1, 0)
		if geom.Minus(pointB, pointA).LenSqr() > geom.Epsilon*geom.Epsilon {
			normal.Unit(geom.Minus(pointB, pointA))
		}
		out.Normal = normal
		cA := geom.Plus(pointA, geom.Mul(normal, radiusA))
		cB := geom.Minus(pointB, geom.Mul(normal, radiusB))
		out.Points[0] = geom.Mul(geom.Plus(cA, cB), 0.5)
		out.Separations[0] = geom.Minus(cB, cA).Dot(normal)

	case ManifoldFaceA:
		normal := xfA.Rotation.Apply(m.LocalNormal)
		planePoint := xfA.Apply(m.LocalPoint)
		out.Normal = normal
		for i := 0; i < m.PointCount; i++ {
			clipPoint := xfB.Apply(m.Points[i].LocalPoint)
			cA := geom.Plus(clipPoint, geom.Mul(normal, radiusA-geom.Minus(clipPoint, planePoint).Dot(normal)))
			cB := geom.Minus(clipPoint, geom.Mul(normal, radiusB))
			out.Points[i] = geom.Mul(geom.Plus(cA, cB), 0.5)
			out.Separations[i] = geom.Minus(cB, cA).Dot(normal)
		}

	case ManifoldFaceB:
		normal := xfB.Rotation.Apply(m.LocalNormal)
		planePoint := xfB.Apply(m.LocalPoint)
		out.Normal = geom.Mul(normal, -1)
		for i := 0; i < m.PointCount; i++ {
			clipPoint := xfA.Apply(m.Points[i].LocalPoint)
			cB := geom.Plus(clipPoint, geom.Mul(normal, radiusB-geom.Minus(clipPoint, planePoint).Dot(normal)))
			cA := geom.Minus(clipPoint, geom.Mul(normal, radiusA))
			out.Points[i] = geom.Mul(geom.Plus(cA, cB), 0.5)
			out.Separations[i] = geom.Minus(cB, cA).Dot(out.Normal)
		}
	}
	return out
}

// CollideShapes dispatches on the pair of shape kinds and fills in a
// Manifold, per a per-shape-pair dispatch table idiom
// (algorithms[][]collide) and a Sutherland-Hodgman clip (narrowed to
// 2D segment-vs-half-plane clipping, i.e. Box2D's b2ClipSegmentToLine).
func CollideShapes(shapeA Shape, xfA geom.Transform, childA int, shapeB Shape, xfB geom.Transform, childB int) Manifold {
	switch a := shapeA.(type) {
	case *Circle:
		switch b := shapeB.(type) {
		case *Circle:
			return collideCircles(a, xfA, b, xfB)
		case *Polygon:
			return flipFaceOwner(collidePolygonCircle(b, xfB, a, xfA))
		case *Edge:
			return flipFaceOwner(collideEdgeLike(b, xfB, edgeToPolygon(b), a, xfA, func(poly *Polygon) Manifold {
				return collidePolygonCircle(poly, xfB, a, xfA)
			}))
		case *ChainShape:
			edge := b.edgeFor(childB)
			return flipFaceOwner(collideEdgeLike(edge, xfB, edgeToPolygon(edge), a, xfA, func(poly *Polygon) Manifold {
				return collidePolygonCircle(poly, xfB, a, xfA)
			}))
		}
	case *Polygon:
		switch b := shapeB.(type) {
		case *Circle:
			return collidePolygonCircle(a, xfA, b, xfB)
		case *Polygon:
			return collidePolygons(a, xfA, b, xfB)
		case *Edge:
			return collideEdgeLike(b, xfB, edgeToPolygon(b), a, xfA, func(poly *Polygon) Manifold {
				return collidePolygons(a, xfA, poly, xfB)
			})
		case *ChainShape:
			edge := b.edgeFor(childB)
			return collideEdgeLike(edge, xfB, edgeToPolygon(edge), a, xfA, func(poly *Polygon) Manifold {
				return collidePolygons(a, xfA, poly, xfB)
			})
		}
	case *Edge:
		edgeAsPolygon := edgeToPolygon(a)
		switch b := shapeB.(type) {
		case *Circle:
			return collideEdgeLike(a, xfA, edgeAsPolygon, b, xfB, func(poly *Polygon) Manifold {
				return collidePolygonCircle(poly, xfA, b, xfB)
			})
		case *Polygon:
			return collideEdgeLike(a, xfA, edgeAsPolygon, b, xfB, func(poly *Polygon) Manifold {
				return collidePolygons(poly, xfA, b, xfB)
			})
		case *Edge:
			return collidePolygons(edgeAsPolygon, xfA, edgeToPolygon(b), xfB)
		case *ChainShape:
			return collidePolygons(edgeAsPolygon, xfA, edgeToPolygon(b.edgeFor(childB)), xfB)
		}
	case *ChainShape:
		edgeA := a.edgeFor(childA)
		edgeAsPolygon := edgeToPolygon(edgeA)
		switch b := shapeB.(type) {
		case *Circle:
			return collideEdgeLike(edgeA, xfA, edgeAsPolygon, b, xfB, func(poly *Polygon) Manifold {
				return collidePolygonCircle(poly, xfA, b, xfB)
			})
		case *Polygon:
			return collideEdgeLike(edgeA, xfA, edgeAsPolygon, b, xfB, func(poly *Polygon) Manifold {
				return collidePolygons(poly, xfA, b, xfB)
			})
		case *Edge:
			return collidePolygons(edgeAsPolygon, xfA, edgeToPolygon(b), xfB)
		case *ChainShape:
			return collidePolygons(edgeAsPolygon, xfA, edgeToPolygon(b.edgeFor(childB)), xfB)
		}
	}
	return Manifold{}
}

// collideEdgeLike runs collide against e's degenerate polygon stand-in
// unless e's one-sided ghost vertices say the contact belongs to a
// neighboring edge instead, mirroring Box2D's b2ChainShape/b2EdgeShape
// one-sided test: a ghost vertex at V0 or V3 marks that end of the
// edge as shared with a neighbor, and a contact whose incident shape
// falls in the neighbor's region (rather than this edge's own
// region) is rejected so the chain does not report the same corner
// contact twice. Only the regions past the two ends are tested: a
// shape on the edge's back side, within its span, is not rejected.
func collideEdgeLike(e *Edge, xfE geom.Transform, edgeAsPolygon *Polygon, other Shape, xfOther geom.Transform, collide func(*Polygon) Manifold) Manifold {
	if e.HasVertex0 || e.HasVertex3 {
		localOther := xfE.ApplyT(xfOther.Apply(shapeReferencePoint(other)))
		if edgeGhostRejects(e, localOther) {
			return Manifold{}
		}
	}
	return collide(edgeAsPolygon)
}

// shapeReferencePoint picks the point of s, in s's own local frame,
// used to decide which side of an edge's ghost vertex it falls on.
func shapeReferencePoint(s Shape) geom.Vec2 {
	switch s := s.(type) {
	case *Circle:
		return s.Center
	case *Polygon:
		return s.Centroid
	case *Edge:
		return geom.Mul(geom.Plus(s.V0, s.V1), 0.5)
	case *ChainShape:
		return geom.Vec2{}
	}
	return geom.Vec2{}
}

// edgeGhostRejects reports whether localPoint (expressed in e's own
// local frame) lies in the region a neighboring edge owns rather than
// e itself, following the same barycentric region test Box2D's
// b2CollideEdgeAndCircle applies per endpoint.
func edgeGhostRejects(e *Edge, localPoint geom.Vec2) bool {
	edge := geom.Minus(e.V1, e.V0)

	v := edge.Dot(geom.Minus(localPoint, e.V0))
	if v <= 0 && e.HasVertex0 {
		e1 := geom.Minus(e.V0, e.Vertex0)
		u1 := e1.Dot(geom.Minus(e.V0, localPoint))
		if u1 > 0 {
			return true
		}
	}

	u := edge.Dot(geom.Minus(e.V1, localPoint))
	if u <= 0 && e.HasVertex3 {
		e2 := geom.Minus(e.Vertex3, e.V1)
		v2 := e2.Dot(geom.Minus(localPoint, e.V1))
		if v2 < 0 {
			return true
		}
	}

	return false
}

// flipFaceOwner re-tags a faceA manifold produced by treating the
// second shape of a CollideShapes call as the reference polygon: the
// point data is already expressed in the correct per-shape local
// frames, only the A/B tag needs to flip so ComputeWorldManifold
// picks the right transform for the reference face.
func flipFaceOwner(m Manifold) Manifold {
	if m.Kind == ManifoldFaceA {
		m.Kind = ManifoldFaceB
	}
	return m
}

// edgeToPolygon reduces an edge to a degenerate two-vertex polygon so
// it can flow through the shared polygon-polygon clip path. The edge's
// ghost vertices are not carried through this reduction; one-sided
// rejection is applied separately by collideEdgeLike before the
// reduced polygon ever reaches the clip path.
func edgeToPolygon(e *Edge) *Polygon {
	edge := geom.Minus(e.V1, e.V0)
	normal := geom.NewVec2(edge.Y, -edge.X)
	normal.Unit(normal)
	return &Polygon{
		Vertices: []geom.Vec2{e.V0, e.V1},
		Normals:  []geom.Vec2{normal, geom.Mul(normal, -1)},
		Centroid: geom.Mul(geom.Plus(e.V0, e.V1), 0.5),
	}
}

func collideCircles(a *Circle, xfA geom.Transform, b *Circle, xfB geom.Transform) Manifold {
	pA := xfA.Apply(a.Center)
	pB := xfB.Apply(b.Center)
	d := geom.Minus(pB, pA)
	distSqr := d.LenSqr()
	rSum := a.Radius + b.Radius
	if distSqr > rSum*rSum {
		return Manifold{}
	}
	var m Manifold
	m.Kind = ManifoldCircles
	m.LocalPoint = a.Center
	m.LocalNormal = geom.Vec2{}
	m.PointCount = 1
	m.Points[0].LocalPoint = b.Center
	m.Points[0].ID = ContactFeature{TypeA: featureVertex, TypeB: featureVertex}
	return m
}

// collidePolygonCircle implements polygon-circle rule:
// find the face with maximum separation of the circle center;
// if negative (circle center inside), build a faceA manifold from the
// face midpoint.
func collidePolygonCircle(poly *Polygon, xfPoly geom.Transform, c *Circle, xfC geom.Transform) Manifold {
	center := xfPoly.ApplyT(xfC.Apply(c.Center))

	separation := -math.MaxFloat64
	normalIndex := 0
	for i, v := range poly.Vertices {
		s := poly.Normals[i].Dot(geom.Minus(center, v))
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	if separation > c.Radius+geom.Epsilon {
		return Manifold{}
	}

	n := len(poly.Vertices)
	v1 := poly.Vertices[normalIndex]
	v2 := poly.Vertices[(normalIndex+1)%n]

	var m Manifold
	m.Kind = ManifoldFaceA
	m.PointCount = 1
	m.Points[0].ID = ContactFeature{TypeA: featureFace, IndexA: uint8(normalIndex), TypeB: featureVertex}

	if separation < geom.Epsilon {
		m.LocalNormal = poly.Normals[normalIndex]
		m.LocalPoint = geom.Mul(geom.Plus(v1, v2), 0.5)
		m.Points[0].LocalPoint = c.Center
		return m
	}

	u1 := geom.Minus(center, v1).Dot(geom.Minus(v2, v1))
	u2 := geom.Minus(center, v2).Dot(geom.Minus(v1, v2))
	switch {
	case u1 <= 0:
		if geom.Minus(center, v1).LenSqr() > c.Radius*c.Radius {
			return Manifold{}
		}
		m.LocalNormal = geom.Vec2{}
		m.LocalNormal.Unit(geom.Minus(center, v1))
		m.LocalPoint = v1
	case u2 <= 0:
		if geom.Minus(center, v2).LenSqr() > c.Radius*c.Radius {
			return Manifold{}
		}
		m.LocalNormal = geom.Vec2{}
		m.LocalNormal.Unit(geom.Minus(center, v2))
		m.LocalPoint = v2
	default:
		faceCenter := geom.Mul(geom.Plus(v1, v2), 0.5)
		s := geom.Minus(center, faceCenter).Dot(poly.Normals[normalIndex])
		if s > c.Radius {
			return Manifold{}
		}
		m.LocalNormal = poly.Normals[normalIndex]
		m.LocalPoint = faceCenter
	}
	m.Points[0].LocalPoint = c.Center
	return m
}

// collidePolygons implements polygon-polygon rule:
// best separating axes from each polygon's faces, reference-face
// selection with a small stability bias toward A, then clipping B's
// incident face against A's reference face side planes.
func collidePolygons(polyA *Polygon, xfA geom.Transform, polyB *Polygon, xfB geom.Transform) Manifold {
	edgeA, sepA := findMaxSeparation(polyA, xfA, polyB, xfB)
	if sepA > 0 {
		return Manifold{}
	}
	edgeB, sepB := findMaxSeparation(polyB, xfB, polyA, xfA)
	if sepB > 0 {
		return Manifold{}
	}

	const referenceFaceBias = 0.1 * linearSlop

	var ref, inc *Polygon
	var xfRef, xfInc geom.Transform
	var edge1 int
	var flip bool

	if sepB > sepA+referenceFaceBias {
		ref, xfRef = polyB, xfB
		inc, xfInc = polyA, xfA
		edge1 = edgeB
		flip = true
	} else {
		ref, xfRef = polyA, xfA
		inc, xfInc = polyB, xfB
		edge1 = edgeA
		flip = false
	}

	incidentEdge := findIncidentEdge(ref, xfRef, edge1, inc, xfInc)

	n := len(ref.Vertices)
	v11 := ref.Vertices[edge1]
	v12 := ref.Vertices[(edge1+1)%n]

	localTangent := geom.Minus(v12, v11)
	localTangent.Unit(localTangent)
	localNormal := geom.CrossVS(localTangent, 1)
	planePoint := geom.Mul(geom.Plus(v11, v12), 0.5)

	tangent := xfRef.Rotation.Apply(localTangent)
	normal := geom.CrossVS(tangent, 1)

	v11w := xfRef.Apply(v11)
	v12w := xfRef.Apply(v12)

	frontOffset := normal.Dot(v11w)
	sideOffset1 := -tangent.Dot(v11w) + linearSlop
	sideOffset2 := tangent.Dot(v12w) + linearSlop

	clip1, ok := clipSegmentToLine(incidentEdge, geom.Mul(tangent, -1), sideOffset1, edge1)
	if !ok || len(clip1) < 2 {
		return Manifold{}
	}
	clip2, ok := clipSegmentToLine(clip1, tangent, sideOffset2, (edge1+1)%n)
	if !ok || len(clip2) < 2 {
		return Manifold{}
	}

	var m Manifold
	m.LocalNormal = localNormal
	m.LocalPoint = planePoint
	if flip {
		m.Kind = ManifoldFaceB
	} else {
		m.Kind = ManifoldFaceA
	}

	pointCount := 0
	for _, cp := range clip2 {
		separation := normal.Dot(cp.point) - frontOffset
		if separation <= linearSlop {
			m.Points[pointCount].LocalPoint = xfInc.ApplyT(cp.point)
			m.Points[pointCount].ID = cp.id
			pointCount++
			if pointCount == 2 {
				break
			}
		}
	}
	m.PointCount = pointCount
	if pointCount == 0 {
		return Manifold{}
	}
	return m
}

// findMaxSeparation returns the index of poly1's face with maximum
// separation against poly2, the best separating axis candidate for
// that polygon.
func findMaxSeparation(poly1 *Polygon, xf1 geom.Transform, poly2 *Polygon, xf2 geom.Transform) (int, float64) {
	bestIndex := 0
	bestSeparation := -math.MaxFloat64
	for i, n1Local := range poly1.Normals {
		n := xf1.Rotation.Apply(n1Local)
		v1 := xf1.Apply(poly1.Vertices[i])

		nLocal2 := xf2.Rotation.ApplyT(n)
		support := poly2.Support(geom.Mul(nLocal2, -1))
		v2 := xf2.Apply(poly2.Vertices[support])

		s := n.Dot(geom.Minus(v2, v1))
		if s > bestSeparation {
			bestSeparation = s
			bestIndex = i
		}
	}
	return bestIndex, bestSeparation
}

// Support for Polygon (used by findMaxSeparation and GJK support
// queries) returns the index of the vertex furthest along d.
func (p *Polygon) Support(d geom.Vec2) int {
	best := 0
	bestValue := p.Vertices[0].Dot(d)
	for i := 1; i < len(p.Vertices); i++ {
		v := p.Vertices[i].Dot(d)
		if v > bestValue {
			bestValue = v
			best = i
		}
	}
	return best
}

type clipVertex struct {
	point geom.Vec2
	id    ContactFeature
}

func findIncidentEdge(ref *Polygon, xfRef geom.Transform, edge1 int, inc *Polygon, xfInc geom.Transform) []clipVertex {
	refNormalWorld := xfRef.Rotation.Apply(ref.Normals[edge1])
	refNormalLocal := xfInc.Rotation.ApplyT(refNormalWorld)

	index := 0
	minDot := math.MaxFloat64
	for i, n := range inc.Normals {
		d := refNormalLocal.Dot(n)
		if d < minDot {
			minDot = d
			index = i
		}
	}

	i1 := index
	i2 := (index + 1) % len(inc.Vertices)
	return []clipVertex{
		{point: xfInc.Apply(inc.Vertices[i1]), id: ContactFeature{TypeA: featureFace, IndexA: uint8(edge1), TypeB: featureVertex, IndexB: uint8(i1)}},
		{point: xfInc.Apply(inc.Vertices[i2]), id: ContactFeature{TypeA: featureFace, IndexA: uint8(edge1), TypeB: featureVertex, IndexB: uint8(i2)}},
	}
}

// clipSegmentToLine is the 2D segment-vs-half-plane clip, the same
// shape as Box2D's b2ClipSegmentToLine and a 2D narrowing of a
// 3D Sutherland-Hodgman clipSegmentToLine idiom.
func clipSegmentToLine(in []clipVertex, normal geom.Vec2, offset float64, vertexIndexA int) ([]clipVertex, bool) {
	out := make([]clipVertex, 0, 2)

	dist0 := normal.Dot(in[0].point) - offset
	dist1 := normal.Dot(in[1].point) - offset

	if dist0 <= 0 {
		out = append(out, in[0])
	}
	if dist1 <= 0 {
		out = append(out, in[1])
	}

	if dist0*dist1 < 0 {
		interp := dist0 / (dist0 - dist1)
		point := geom.Plus(in[0].point, geom.Mul(geom.Minus(in[1].point, in[0].point), interp))
		out = append(out, clipVertex{
			point: point,
			id:    ContactFeature{TypeA: featureFace, IndexA: uint8(vertexIndexA), TypeB: featureVertex},
		})
	}
	return out, len(out) >= 1
}
