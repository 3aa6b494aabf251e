package dynamics

import (
	"math"

	"github.com/gerich-home/box2d/math/geom"
)

// MaxPolygonVertices bounds the vertex count of a convex Polygon, per
// the shape contract's "concavity yields undefined behavior" rule: a
// polygon with more vertices is rejected with ErrShapeVertexCount.
// Vertices and normals are stored in slices, not fixed-size arrays.
const MaxPolygonVertices = 8

// ShapeKind enumerates the Shape variants dispatched on by the
// manifold builder's per-pair-of-kinds table.
type ShapeKind int

const (
	KindCircle ShapeKind = iota
	KindEdge
	KindPolygon
	KindChain
)

// MassData is the output of Shape.ComputeMass: the mass, center of
// mass in the shape's local frame, and rotational inertia about that
// center.
type MassData struct {
	Mass   float64
	Center geom.Vec2
	I      float64
}

// DistanceProxy is the vertex list plus vertex radius GJK operates
// over; every Shape variant (or one child of a multi-child variant,
// such as a chain edge) reduces to one of these.
type DistanceProxy struct {
	Vertices []geom.Vec2
	Radius   float64
}

// Support returns the index of the vertex of the proxy furthest along
// direction d.
func (p *DistanceProxy) Support(d geom.Vec2) int {
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

// RayCastInput mirrors geom.RayCastInput for shape-level ray casts
// (shapes cast against a single child index, unlike AABB.RayCast).
type RayCastInput = geom.RayCastInput

// RayCastOutput reports where a ray hit a shape.
type RayCastOutput struct {
	Normal   geom.Vec2
	Fraction float64
}

// Shape is the capability set every collision primitive implements:
// child count (chains have one per edge), AABB, mass data, a GJK
// distance proxy, and ray casting. Modeled on the Shape
// interface (Type/Volume/Aabb/Inertia in shape.go) narrowed from 3D
// box/sphere/plane/ray primitives to the 2D circle/edge/polygon/chain
// set this engine needs, and extended with child indices for chains.
type Shape interface {
	Kind() ShapeKind
	GetChildCount() int
	ComputeAABB(xf geom.Transform, child int) geom.AABB
	ComputeMass(density float64) MassData
	GetDistanceProxy(child int) DistanceProxy
	RayCast(input RayCastInput, xf geom.Transform, child int) (RayCastOutput, bool)
}

// Circle is a disc of the given radius centered at Center in its
// local frame.
type Circle struct {
	Center geom.Vec2
	Radius float64
}

func (c *Circle) Kind() ShapeKind     { return KindCircle }
func (c *Circle) GetChildCount() int  { return 1 }

func (c *Circle) ComputeAABB(xf geom.Transform, _ int) geom.AABB {
	p := xf.Apply(c.Center)
	r := geom.NewVec2(c.Radius, c.Radius)
	return geom.NewAABB(geom.Minus(p, r), geom.Plus(p, r))
}

// ComputeMass follows : circle mass is rho*pi*r^2 and
// I = rho*pi*r^4/2 + m*|c|^2 (parallel-axis term for an off-origin
// center).
func (c *Circle) ComputeMass(density float64) MassData {
	mass := density * math.Pi * c.Radius * c.Radius
	i := mass * (0.5*c.Radius*c.Radius + c.Center.Dot(c.Center))
	return MassData{Mass: mass, Center: c.Center, I: i}
}

func (c *Circle) GetDistanceProxy(_ int) DistanceProxy {
	return DistanceProxy{Vertices: []geom.Vec2{c.Center}, Radius: c.Radius}
}

func (c *Circle) RayCast(input RayCastInput, xf geom.Transform, _ int) (RayCastOutput, bool) {
	position := xf.Apply(c.Center)
	s := geom.Minus(input.P1, position)
	b := s.LenSqr() - c.Radius*c.Radius

	r := geom.Minus(input.P2, input.P1)
	rr := r.LenSqr()
	c2 := s.Dot(r)
	sigma := c2*c2 - rr*b
	if sigma < 0 || rr < geom.Epsilon {
		return RayCastOutput{}, false
	}

	t := -(c2 + math.Sqrt(sigma))
	if t >= 0 && t <= input.MaxFraction*rr {
		t /= rr
		var out RayCastOutput
		out.Fraction = t
		out.Normal.Unit(geom.Plus(s, geom.Mul(r, t)))
		return out, true
	}
	return RayCastOutput{}, false
}

// Edge is a single segment, optionally carrying one-sided ghost
// vertices used to suppress spurious normals where it meets a
// neighboring edge in a chain.
type Edge struct {
	V0, V1           geom.Vec2
	HasVertex0, HasVertex3 bool
	Vertex0, Vertex3 geom.Vec2
}

func (e *Edge) Kind() ShapeKind    { return KindEdge }
func (e *Edge) GetChildCount() int { return 1 }

func (e *Edge) ComputeAABB(xf geom.Transform, _ int) geom.AABB {
	v1 := xf.Apply(e.V0)
	v2 := xf.Apply(e.V1)
	lower := geom.Vec2{X: math.Min(v1.X, v2.X), Y: math.Min(v1.Y, v2.Y)}
	upper := geom.Vec2{X: math.Max(v1.X, v2.X), Y: math.Max(v1.Y, v2.Y)}
	return geom.NewAABB(lower, upper)
}

// ComputeMass: an edge has zero mass when vertex radius is zero, and
// this engine does not give edges a vertex radius, so mass is always
// zero.
func (e *Edge) ComputeMass(_ float64) MassData {
	mid := geom.Mul(geom.Plus(e.V0, e.V1), 0.5)
	return MassData{Mass: 0, Center: mid, I: 0}
}

func (e *Edge) GetDistanceProxy(_ int) DistanceProxy {
	return DistanceProxy{Vertices: []geom.Vec2{e.V0, e.V1}, Radius: 0}
}

func (e *Edge) RayCast(input RayCastInput, xf geom.Transform, _ int) (RayCastOutput, bool) {
	p1 := xf.ApplyT(input.P1)
	p2 := xf.ApplyT(input.P2)
	d := geom.Minus(p2, p1)

	v1, v2 := e.V0, e.V1
	e2 := geom.Minus(v2, v1)
	normal := geom.NewVec2(e2.Y, -e2.X)
	normal.Unit(normal)

	denom := d.Dot(normal)
	if math.Abs(denom) < geom.Epsilon {
		return RayCastOutput{}, false
	}

	t := geom.Minus(v1, p1).Dot(normal) / denom
	if t < 0 || t > input.MaxFraction {
		return RayCastOutput{}, false
	}

	point := geom.Plus(p1, geom.Mul(d, t))
	s := geom.Minus(point, v1).Dot(e2) / e2.Dot(e2)
	if s < 0 || s > 1 {
		return RayCastOutput{}, false
	}

	var out RayCastOutput
	out.Fraction = t
	if denom > 0 {
		out.Normal = xf.Rotation.Apply(geom.Mul(normal, -1))
	} else {
		out.Normal = xf.Rotation.Apply(normal)
	}
	return out, true
}

// Polygon is a convex hull of at most MaxPolygonVertices
// counter-clockwise vertices with matching outward unit normals.
type Polygon struct {
	Vertices []geom.Vec2
	Normals  []geom.Vec2
	Centroid geom.Vec2
}

// NewPolygon builds a convex polygon from a vertex set, computing its
// normals and centroid. Vertices are expected to already be in
// counter-clockwise, convex order by contract — this engine does not
// re-hull defensively; malformed input yields a malformed polygon.
func NewPolygon(vertices []geom.Vec2) (*Polygon, error) {
	if len(vertices) < 3 || len(vertices) > MaxPolygonVertices {
		return nil, ErrShapeVertexCount
	}
	p := &Polygon{
		Vertices: append([]geom.Vec2(nil), vertices...),
		Normals:  make([]geom.Vec2, len(vertices)),
	}
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		edge := geom.Minus(p.Vertices[(i+1)%n], p.Vertices[i])
		if edge.LenSqr() < geom.Epsilon*geom.Epsilon {
			return nil, ErrDegenerateShape
		}
		normal := geom.NewVec2(edge.Y, -edge.X)
		normal.Unit(normal)
		p.Normals[i] = normal
	}
	p.Centroid = polygonCentroid(p.Vertices)
	return p, nil
}

// NewBoxPolygon builds an axis-aligned box polygon of the given
// half-widths centered at the origin, the common case exercised by
// scenario tests.
func NewBoxPolygon(hx, hy float64) *Polygon {
	p, _ := NewPolygon([]geom.Vec2{
		{X: -hx, Y: -hy},
		{X: hx, Y: -hy},
		{X: hx, Y: hy},
		{X: -hx, Y: hy},
	})
	return p
}

func polygonCentroid(vs []geom.Vec2) geom.Vec2 {
	center := geom.Vec2{}
	area := 0.0
	origin := vs[0]
	const inv3 = 1.0 / 3.0
	for i := 1; i+1 < len(vs); i++ {
		e1 := geom.Minus(vs[i], origin)
		e2 := geom.Minus(vs[i+1], origin)
		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea
		center = geom.Plus(center, geom.Mul(geom.Plus(e1, e2), triArea*inv3))
	}
	if area > geom.Epsilon {
		center = geom.Mul(center, 1.0/area)
	}
	return geom.Plus(origin, center)
}

func (p *Polygon) Kind() ShapeKind    { return KindPolygon }
func (p *Polygon) GetChildCount() int { return 1 }

func (p *Polygon) ComputeAABB(xf geom.Transform, _ int) geom.AABB {
	lower := xf.Apply(p.Vertices[0])
	upper := lower
	for i := 1; i < len(p.Vertices); i++ {
		v := xf.Apply(p.Vertices[i])
		lower.Min(lower, v)
		upper.Max(upper, v)
	}
	return geom.NewAABB(lower, upper)
}

// ComputeMass integrates mass, centroid, and polar moment from
// signed-triangle contributions about the first vertex, then applies
// the parallel-axis term to report inertia about the shape's own
// origin when the centroid is off-origin.
func (p *Polygon) ComputeMass(density float64) MassData {
	center := geom.Vec2{}
	area := 0.0
	i := 0.0
	origin := p.Vertices[0]
	const inv3 = 1.0 / 3.0

	n := len(p.Vertices)
	for k := 1; k+1 < n; k++ {
		e1 := geom.Minus(p.Vertices[k], origin)
		e2 := geom.Minus(p.Vertices[k+1], origin)

		d := e1.Cross(e2)
		triArea := 0.5 * d
		area += triArea
		center = geom.Plus(center, geom.Mul(geom.Plus(e1, e2), triArea*inv3))

		ex1, ey1 := e1.X, e1.Y
		ex2, ey2 := e2.X, e2.Y
		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2
		i += (0.25 * inv3 * d) * (intx2 + inty2)
	}

	mass := density * area
	if area > geom.Epsilon {
		center = geom.Mul(center, 1.0/area)
	}
	centerWorld := geom.Plus(origin, center)

	// i is the polar moment about the first vertex (origin); shift it
	// to the shape's local-frame origin via the parallel-axis term.
	i *= density
	i += mass * (centerWorld.Dot(centerWorld) - center.Dot(center))

	return MassData{Mass: mass, Center: centerWorld, I: i}
}

func (p *Polygon) GetDistanceProxy(_ int) DistanceProxy {
	return DistanceProxy{Vertices: p.Vertices, Radius: 0}
}

func (p *Polygon) RayCast(input RayCastInput, xf geom.Transform, _ int) (RayCastOutput, bool) {
	p1 := xf.Rotation.ApplyT(geom.Minus(input.P1, xf.Position))
	p2 := xf.Rotation.ApplyT(geom.Minus(input.P2, xf.Position))
	d := geom.Minus(p2, p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1

	for i, normal := range p.Normals {
		numerator := normal.Dot(geom.Minus(p.Vertices[i], p1))
		denominator := normal.Dot(d)
		if denominator == 0 {
			if numerator < 0 {
				return RayCastOutput{}, false
			}
			continue
		}
		t := numerator / denominator
		if denominator < 0 && t > lower {
			lower = t
			index = i
		} else if denominator > 0 && t < upper {
			upper = t
		}
		if upper < lower {
			return RayCastOutput{}, false
		}
	}

	if index >= 0 {
		var out RayCastOutput
		out.Fraction = lower
		out.Normal = xf.Rotation.Apply(p.Normals[index])
		return out, true
	}
	return RayCastOutput{}, false
}

// ChainShape is an ordered, non-closed sequence of vertices exposing
// one Edge child per consecutive pair, with ghost vertices at each
// interior joint so the one-sided edge logic can suppress duplicate
// normals at shared vertices.
type ChainShape struct {
	Vertices []geom.Vec2
}

func (c *ChainShape) Kind() ShapeKind    { return KindChain }
func (c *ChainShape) GetChildCount() int { return len(c.Vertices) - 1 }

func (c *ChainShape) edgeFor(child int) *Edge {
	e := &Edge{V0: c.Vertices[child], V1: c.Vertices[child+1]}
	if child > 0 {
		e.HasVertex0 = true
		e.Vertex0 = c.Vertices[child-1]
	}
	if child+2 < len(c.Vertices) {
		e.HasVertex3 = true
		e.Vertex3 = c.Vertices[child+2]
	}
	return e
}

func (c *ChainShape) ComputeAABB(xf geom.Transform, child int) geom.AABB {
	return c.edgeFor(child).ComputeAABB(xf, 0)
}

// ComputeMass: chains, like edges, carry no mass.
func (c *ChainShape) ComputeMass(_ float64) MassData { return MassData{} }

func (c *ChainShape) GetDistanceProxy(child int) DistanceProxy {
	return c.edgeFor(child).GetDistanceProxy(0)
}

func (c *ChainShape) RayCast(input RayCastInput, xf geom.Transform, child int) (RayCastOutput, bool) {
	return c.edgeFor(child).RayCast(input, xf, 0)
}
