package flatsurf

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// SaddleConnection is an oriented straight segment between two vertices of a
// triangulation that does not meet any vertex in between. It is determined by
// its translation vector together with the sectors at both ends: the source
// sector contains the vector, the target sector contains its negative.
type SaddleConnection[T Scalar[T]] struct {
	surface *Triangulation[T]
	source  HalfEdge
	target  HalfEdge
	vector  Vector[T]
}

// NewSaddleConnection returns the saddle connection leaving the sector of
// source with the given vector and arriving in the sector of target.
func NewSaddleConnection[T Scalar[T]](surface *Triangulation[T], source, target HalfEdge, vector Vector[T]) (SaddleConnection[T], error) {
	if vector.IsZero() {
		return SaddleConnection[T]{}, errors.New("saddle connection must have a non-zero vector")
	}
	if !surface.InSector(source, vector) {
		return SaddleConnection[T]{}, errors.Errorf("vector %v must lie in the sector of %v", vector, source)
	}
	if !surface.InSector(target, vector.Neg()) {
		return SaddleConnection[T]{}, errors.Errorf("vector %v must arrive in the sector of %v", vector, target)
	}
	return SaddleConnection[T]{surface: surface, source: source, target: target, vector: vector}, nil
}

// SaddleConnectionFromHalfEdge returns the half edge he as a saddle
// connection.
func SaddleConnectionFromHalfEdge[T Scalar[T]](surface *Triangulation[T], he HalfEdge) SaddleConnection[T] {
	return SaddleConnection[T]{surface: surface, source: he, target: -he, vector: surface.FromHalfEdge(he)}
}

// SaddleConnectionInSector returns the saddle connection leaving the sector
// of source in the given direction. The direction must lie in that sector and
// must point at another vertex of the surface; otherwise the search does not
// terminate.
func SaddleConnectionInSector[T Scalar[T]](surface *Triangulation[T], source HalfEdge, direction Vector[T]) (SaddleConnection[T], error) {
	if !surface.InSector(source, direction) {
		return SaddleConnection[T]{}, errors.Errorf("direction %v does not lie in the sector of %v", direction, source)
	}
	vector, target, err := firstVertexHit(surface, source, direction)
	if err != nil {
		return SaddleConnection[T]{}, err
	}
	return SaddleConnection[T]{surface: surface, source: source, target: target, vector: vector}, nil
}

// SaddleConnectionInPlane returns the saddle connection with the exact
// vector v whose direction is found by rotating counterclockwise from the
// sector of seed. The vector must be realized by a saddle connection starting
// at the source vertex of seed.
func SaddleConnectionInPlane[T Scalar[T]](surface *Triangulation[T], seed HalfEdge, v Vector[T]) (SaddleConnection[T], error) {
	if v.IsZero() {
		return SaddleConnection[T]{}, errors.New("saddle connection must have a non-zero vector")
	}
	source := seed
	for !surface.InSector(source, v) {
		source = surface.NextAtVertex(source)
		if source == seed {
			panic(fmt.Sprintf("flatsurf: no sector at %v contains the direction %v", seed, v))
		}
	}
	c, err := SaddleConnectionInSector(surface, source, v)
	if err != nil {
		return SaddleConnection[T]{}, err
	}
	if !c.vector.Equal(v) {
		return SaddleConnection[T]{}, errors.Errorf("%v is not a saddle connection of the surface; the first vertex in its direction is at %v", v, c.vector)
	}
	return c, nil
}

// Surface returns the triangulation this connection lives in.
func (c SaddleConnection[T]) Surface() *Triangulation[T] { return c.surface }

// Source returns the sector at the start of this connection.
func (c SaddleConnection[T]) Source() HalfEdge { return c.source }

// Target returns the sector at the end of this connection, containing the
// reversed direction.
func (c SaddleConnection[T]) Target() HalfEdge { return c.target }

// Vector returns the translation vector of this connection.
func (c SaddleConnection[T]) Vector() Vector[T] { return c.vector }

// Neg returns this connection with its orientation reversed.
func (c SaddleConnection[T]) Neg() SaddleConnection[T] {
	return SaddleConnection[T]{surface: c.surface, source: c.target, target: c.source, vector: c.vector.Neg()}
}

// Equal reports whether both connections are the same oriented segment of the
// same surface.
func (c SaddleConnection[T]) Equal(o SaddleConnection[T]) bool {
	if c.surface != o.surface && !c.surface.Equal(o.surface) {
		return false
	}
	return c.source == o.source && c.target == o.target && c.vector.Equal(o.vector)
}

// Angle returns the number of full counterclockwise turns when rotating from
// this connection to other; both must start at the same vertex. The result is
// non-negative and smaller than the total angle at that vertex.
func (c SaddleConnection[T]) Angle(o SaddleConnection[T]) int {
	if c.surface.Source(c.source) != o.surface.Source(o.source) {
		panic(fmt.Sprintf("flatsurf: angle requires connections starting at the same vertex, got %v and %v", c.surface.Source(c.source), o.surface.Source(o.source)))
	}
	return turnsBetween(c.surface, c.source, c.vector, o.source, o.vector)
}

func (c SaddleConnection[T]) String() string {
	return fmt.Sprintf("%v from %v to %v", c.vector, c.source, c.target)
}

// Path is a sequence of saddle connections, each starting at the vertex where
// the previous one ends.
type Path[T Scalar[T]] []SaddleConnection[T]

// Vector returns the sum of the vectors of the connections of this path.
func (p Path[T]) Vector() Vector[T] {
	var sum Vector[T]
	for _, c := range p {
		sum = sum.Add(c.vector)
	}
	return sum
}

// Equal reports whether both paths consist of the same connections.
func (p Path[T]) Equal(o Path[T]) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

func (p Path[T]) String() string {
	parts := make([]string, 0, len(p))
	for _, c := range p {
		parts = append(parts, c.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// atOrAfter reports whether v is reached from r by a counterclockwise
// rotation of less than π, including v parallel to r. It is only meaningful
// when used to test membership in arcs spanning less than π.
func atOrAfter[T Scalar[T]](r, v Vector[T]) bool {
	switch r.CCW(v) {
	case CounterClockwise:
		return true
	case Collinear:
		return r.OrientationTo(v) == SameDirection
	default:
		return false
	}
}

// turnsBetween returns the number of full counterclockwise turns needed to
// rotate the ray u in the sector of sectorA onto the ray v in the sector of
// sectorB. Both sectors must be at the same vertex and contain their
// respective rays.
func turnsBetween[T Scalar[T]](s *Triangulation[T], sectorA HalfEdge, u Vector[T], sectorB HalfEdge, v Vector[T]) int {
	degree := len(s.Outgoing(s.Source(sectorA)))
	turns := 0
	p := sectorA
	r := u
	for steps := 0; ; steps++ {
		if steps > 2*degree+2 {
			panic(fmt.Sprintf("flatsurf: rotation from %v never reaches %v", sectorA, sectorB))
		}
		// The current position is the ray r inside the sector of p; the
		// remaining part of that sector is the arc from r to the sector of
		// the next half edge at the vertex.
		if p == sectorB && atOrAfter(r, v) && s.InSector(p, v) {
			// The sweep ends at v inside this sector; it completed one more
			// turn if it still passed u on the way, i.e. if u lies between
			// the entry ray and v. The arc the sweep started in does not
			// count; u is its left endpoint.
			if steps > 0 && atOrAfter(r, u) && atOrAfter(u, v) {
				turns++
			}
			return turns
		}
		next := s.NextAtVertex(p)
		// Passing the original direction u completes another full turn.
		if steps > 0 && atOrAfter(r, u) && !atOrAfter(s.FromHalfEdge(next), u) {
			turns++
		}
		p = next
		r = s.FromHalfEdge(next)
	}
}

// alignSector returns the sector reached from the ray in the sector of
// sector by the given number of full counterclockwise turns followed by the
// rotation onto direction.
func alignSector[T Scalar[T]](s *Triangulation[T], sector HalfEdge, ray Vector[T], direction Vector[T], turns int) HalfEdge {
	p := sector
	for i := 0; i < turns; i++ {
		p = continuationSector(s, p, ray)
	}
	if atOrAfter(ray, direction) && s.InSector(p, direction) {
		return p
	}
	return continuationSector(s, p, direction)
}

// firstVertexHit walks from the source vertex of sector in the given
// direction, which must lie in that sector, until the straight ray meets
// another vertex. It returns the position of that vertex and the sector there
// that contains the arriving direction. The walk does not terminate when the
// ray never meets a vertex.
func firstVertexHit[T Scalar[T]](s *Triangulation[T], sector HalfEdge, direction Vector[T]) (Vector[T], HalfEdge, error) {
	e1 := s.FromHalfEdge(sector)
	if e1.CCW(direction) == Collinear {
		// Along the lower boundary edge of the sector.
		return e1, -sector, nil
	}
	next := s.NextInFace(sector)
	w := e1.Add(s.FromHalfEdge(next))
	if direction.CCW(w) == Collinear {
		// Along the diagonal to the far corner of the starting face.
		if direction.OrientationTo(w) != SameDirection {
			panic("flatsurf: ray cannot pass through its own start vertex")
		}
		return w, s.PreviousInFace(sector), nil
	}
	ref := -next

	for {
		if s.Boundary(ref) {
			return Vector[T]{}, 0, errors.Errorf("ray leaves the surface through the boundary at %v", ref)
		}
		far := w.Add(s.FromHalfEdge(ref)).Add(s.FromHalfEdge(s.NextInFace(ref)))
		switch direction.CCW(far) {
		case CounterClockwise:
			ref = -s.NextInFace(ref)
			w = far
		case Clockwise:
			ref = -s.PreviousInFace(ref)
		default:
			if direction.OrientationTo(far) != SameDirection {
				panic("flatsurf: ray cannot pass through its own start vertex")
			}
			return far, s.PreviousInFace(ref), nil
		}
	}
}
