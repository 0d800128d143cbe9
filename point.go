package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Point is a point of a flat triangulation, given by barycentric coordinates
// with respect to the three corners of a face. The coordinates are projective,
// i.e. only defined up to a common positive scale.
//
// Points are canonicalized so that a vertex point has a single positive
// coordinate in first position and a point on an edge has its two positive
// coordinates in the first two positions, with the reference half edge lying
// on that edge.
type Point[T Scalar[T]] struct {
	surface *Triangulation[T]
	face    HalfEdge
	a, b, c T
}

// NewPoint returns the point with barycentric coordinates (a, b, c) with
// respect to the corners of the face at face, the corners being the source of
// face, the source of its successor and the source of its predecessor.
func NewPoint[T Scalar[T]](surface *Triangulation[T], face HalfEdge, a, b, c T) (Point[T], error) {
	p := Point[T]{surface: surface, face: face, a: a, b: b, c: c}
	if err := p.normalize(); err != nil {
		return Point[T]{}, err
	}
	return p, nil
}

// PointAtVertex returns v as a point of the triangulation.
func PointAtVertex[T Scalar[T]](surface *Triangulation[T], v Vertex) Point[T] {
	var zero T
	p, err := NewPoint(surface, v.Representative(), zero.One(), zero, zero)
	if err != nil {
		panic(fmt.Sprintf("flatsurf: vertex cannot be normalized as a point: %v", err))
	}
	return p
}

// NewPointFromVertex returns the point at displacement v from the source
// vertex of sector. The displacement must not leave the surface through a
// boundary.
func NewPointFromVertex[T Scalar[T]](surface *Triangulation[T], sector HalfEdge, v Vector[T]) (Point[T], error) {
	if v.IsZero() {
		return PointAtVertex(surface, surface.Source(sector)), nil
	}
	var zero T
	return locate(surface, surface.SectorOf(sector, v), v, zero.One())
}

func (p *Point[T]) normalize() error {
	sum := p.a.Add(p.b).Add(p.c)
	if sum.Sign() == 0 {
		return errors.New("cannot create point from barycentric coordinates that sum to zero")
	}
	if sum.Sign() < 0 {
		p.a, p.b, p.c = p.a.Neg(), p.b.Neg(), p.c.Neg()
	}
	if p.a.Sign() < 0 || p.b.Sign() < 0 || p.c.Sign() < 0 {
		return errors.Wrap(ErrNotImplemented, "cannot normalize point outside of a face")
	}
	if p.a.Sign() > 0 && p.b.Sign() > 0 && p.c.Sign() > 0 {
		return nil
	}
	// Rotate a boundary point so that c is zero and a is not; a vertex point
	// ends up as (a, 0, 0), an edge point as (a, b, 0) on the edge of the
	// reference half edge.
	for rotations := 0; p.c.Sign() != 0 || p.a.Sign() == 0; rotations++ {
		if rotations > 3 {
			panic("flatsurf: rotation of barycentric coordinates does not stabilize")
		}
		p.a, p.b, p.c = p.b, p.c, p.a
		p.face = p.surface.NextInFace(p.face)
	}
	return nil
}

// Surface returns the triangulation this point lives in.
func (p Point[T]) Surface() *Triangulation[T] { return p.surface }

// Face returns the canonical reference half edge of this point's face.
func (p Point[T]) Face() HalfEdge { return p.face }

// Vertex returns the vertex this point is at, if any.
func (p Point[T]) Vertex() (Vertex, bool) {
	if p.b.Sign() == 0 && p.c.Sign() == 0 {
		return p.surface.Source(p.face), true
	}
	return Vertex{}, false
}

// Edge returns the edge this point lies on, if any. For a vertex point the
// edge of the canonical reference half edge is returned.
func (p Point[T]) Edge() (Edge, bool) {
	if p.c.Sign() == 0 {
		return p.face.Edge(), true
	}
	return Edge(0), false
}

// In reports whether this point is contained in the closure of the face at
// face.
func (p Point[T]) In(face HalfEdge) bool {
	if p.sameFace(face, p.face) {
		return true
	}
	if v, ok := p.Vertex(); ok {
		for _, he := range []HalfEdge{face, p.surface.NextInFace(face), p.surface.PreviousInFace(face)} {
			if p.surface.Source(he) == v {
				return true
			}
		}
		return false
	}
	if _, ok := p.Edge(); ok {
		return p.sameFace(face, -p.face)
	}
	return false
}

// On reports whether this point lies on the edge e.
func (p Point[T]) On(e Edge) bool {
	if v, ok := p.Vertex(); ok {
		return p.surface.Source(e.Positive()) == v || p.surface.Source(e.Negative()) == v
	}
	if pe, ok := p.Edge(); ok {
		return pe == e
	}
	return false
}

// At reports whether this point is the vertex v.
func (p Point[T]) At(v Vertex) bool {
	pv, ok := p.Vertex()
	return ok && pv == v
}

func (p Point[T]) sameFace(a, b HalfEdge) bool {
	return a == b || p.surface.NextInFace(a) == b || p.surface.PreviousInFace(a) == b
}

// rotated returns the coordinate triple with respect to face, which must be
// a rotation of the canonical reference half edge.
func (p Point[T]) rotated(face HalfEdge) [3]T {
	switch face {
	case p.face:
		return [3]T{p.a, p.b, p.c}
	case p.surface.NextInFace(p.face):
		return [3]T{p.b, p.c, p.a}
	case p.surface.PreviousInFace(p.face):
		return [3]T{p.c, p.a, p.b}
	default:
		panic(fmt.Sprintf("flatsurf: %v is not a rotation of %v", face, p.face))
	}
}

// crossed returns the coordinate triple with respect to the face across the
// edge of the reference half edge, i.e. with respect to its reverse.
func (p Point[T]) crossed() [3]T {
	s := p.surface
	A := s.FromHalfEdge(s.NextInFace(-p.face)).Neg()
	B := s.FromHalfEdge(s.PreviousInFace(-p.face))
	C := B.Add(s.FromHalfEdge(s.NextInFace(p.face)))

	det := B.X.Mul(A.Y).Sub(B.Y.Mul(A.X))
	lb := A.Y.Mul(C.X).Sub(A.X.Mul(C.Y))
	la := B.X.Mul(C.Y).Sub(B.Y.Mul(C.X))
	d := det.Sub(la).Sub(lb)

	return [3]T{
		det.Mul(p.b).Add(p.c.Mul(lb)),
		det.Mul(p.a).Add(p.c.Mul(la)),
		p.c.Mul(d),
	}
}

// Coordinates returns barycentric coordinates of this point with respect to
// the face at face, which must contain the point.
func (p Point[T]) Coordinates(face HalfEdge) ([3]T, error) {
	if !p.In(face) {
		return [3]T{}, errors.Errorf("point %v has no coordinates in face %v", p, face)
	}
	if p.sameFace(face, p.face) {
		return p.rotated(face), nil
	}
	if v, ok := p.Vertex(); ok {
		var zero T
		one := zero.One()
		switch {
		case p.surface.Source(face) == v:
			return [3]T{one, zero, zero}, nil
		case p.surface.Source(p.surface.NextInFace(face)) == v:
			return [3]T{zero, one, zero}, nil
		default:
			return [3]T{zero, zero, one}, nil
		}
	}
	// An edge point seen from the face across its edge.
	triple := p.crossed()
	crossed := Point[T]{surface: p.surface, face: -p.face, a: triple[0], b: triple[1], c: triple[2]}
	return crossed.rotated(face), nil
}

// Equal reports whether both points are the same point of the same surface.
// Coordinates are compared up to a common positive scale.
func (p Point[T]) Equal(q Point[T]) bool {
	if p.surface != q.surface && !p.surface.Equal(q.surface) {
		return false
	}
	if pv, ok := p.Vertex(); ok {
		qv, qok := q.Vertex()
		return qok && pv == qv
	}
	coords, err := q.Coordinates(p.face)
	if err != nil {
		return false
	}
	return p.a.Mul(coords[1]).Cmp(p.b.Mul(coords[0])) == 0 &&
		p.b.Mul(coords[2]).Cmp(p.c.Mul(coords[1])) == 0 &&
		p.a.Mul(coords[2]).Cmp(p.c.Mul(coords[0])) == 0
}

func (p Point[T]) String() string {
	return fmt.Sprintf("(%v, %v, %v) in (%v, %v, %v)", p.a, p.b, p.c, p.face, p.surface.NextInFace(p.face), p.surface.PreviousInFace(p.face))
}

// offsetScaled expresses the point as a displacement from the source vertex
// of its reference half edge: the point is at u/scale from that vertex, with
// scale positive. The displacement is zero exactly for that vertex itself.
func (p Point[T]) offsetScaled() (u Vector[T], scale T) {
	s := p.surface
	e1 := s.FromHalfEdge(p.face)
	e2 := s.FromHalfEdge(s.PreviousInFace(p.face)).Neg()
	return e1.Scale(p.b).Add(e2.Scale(p.c)), p.a.Add(p.b).Add(p.c)
}

// locate walks the straight segment of displacement u/scale from the source
// vertex of sector, crossing faces as needed, and returns the point at its
// end. The direction of u must lie in the sector and scale must be positive.
// Segments running into a boundary fail.
func locate[T Scalar[T]](s *Triangulation[T], sector HalfEdge, u Vector[T], scale T) (Point[T], error) {
	var zero T
	if u.IsZero() {
		return PointAtVertex(s, s.Source(sector)), nil
	}
	if scale.Sign() <= 0 {
		panic("flatsurf: displacement scale must be positive")
	}

	e1 := s.FromHalfEdge(sector)
	next := s.NextInFace(sector)
	e2 := e1.Add(s.FromHalfEdge(next))

	if e1.CCW(u) == Collinear {
		// Along the lower boundary edge of the sector.
		along := u.Dot(e1)
		total := scale.Mul(e1.Hypot2())
		if total.Cmp(along) >= 0 {
			return NewPoint(s, sector, total.Sub(along), along, zero)
		}
		// Past the far end of the edge; continue from there.
		rest := u.Sub(e1.Scale(scale))
		return locate(s, continuationSector(s, -sector, rest), rest, scale)
	}

	d := e1.Cross(e2)
	lb := u.Cross(e2)
	lc := e1.Cross(u)
	if a := scale.Mul(d).Sub(lb).Sub(lc); a.Sign() >= 0 {
		return NewPoint(s, sector, a, lb, lc)
	}

	// The segment leaves the starting face through the edge opposite the
	// start vertex. It cannot pass through the far corner of that edge since
	// its direction is strictly below the upper boundary of the sector.
	ref := -next
	w := e2

	for {
		if s.Boundary(ref) {
			return Point[T]{}, errors.Errorf("segment leaves the surface through the boundary at %v", ref)
		}
		// The segment entered the face of ref through its edge; the source of
		// ref is on the left of the segment, its target on the right.
		e1 := s.FromHalfEdge(ref)
		e2 := e1.Add(s.FromHalfEdge(s.NextInFace(ref)))
		rel := u.Sub(w.Scale(scale))
		d := e1.Cross(e2)
		lb := rel.Cross(e2)
		lc := e1.Cross(rel)
		if a := scale.Mul(d).Sub(lb).Sub(lc); a.Sign() >= 0 && lb.Sign() >= 0 && lc.Sign() >= 0 {
			return NewPoint(s, ref, a, lb, lc)
		}

		far := w.Add(e2)
		switch u.CCW(far) {
		case CounterClockwise:
			// The far corner is left of the segment; leave between it and the
			// right corner.
			ref = -s.NextInFace(ref)
			w = far
		case Clockwise:
			// The left corner keeps its position.
			ref = -s.PreviousInFace(ref)
		default:
			if u.OrientationTo(far) != SameDirection {
				panic("flatsurf: segment cannot pass through its own start vertex")
			}
			// Exactly through the far corner; continue from that vertex.
			rest := u.Sub(far.Scale(scale))
			arrival := s.PreviousInFace(ref)
			return locate(s, continuationSector(s, arrival, rest), rest, scale)
		}
	}
}

// continuationSector finds the sector in which a straight segment continues
// after passing through a vertex. The segment arrives in the sector of
// arrival, which contains the reversed direction; the continuation is the
// first sector counterclockwise from there that contains the direction
// itself.
func continuationSector[T Scalar[T]](s *Triangulation[T], arrival HalfEdge, direction Vector[T]) HalfEdge {
	p := arrival
	for {
		p = s.NextAtVertex(p)
		if s.InSector(p, direction) {
			return p
		}
		if p == arrival {
			panic(fmt.Sprintf("flatsurf: no sector at %v contains the continuation direction %v", arrival, direction))
		}
	}
}
