package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Ray is a directed half line starting at a point of a flat triangulation.
//
// Next to its start point and direction a ray records a source half edge
// identifying the germ of the ray combinatorially: the sector at the start
// vertex the ray leaves through, the half edge of the start edge on whose
// left the ray continues, or the face containing the start point. The source
// is canonical, so geometrically equal rays are equal regardless of the face
// they were constructed against.
type Ray[T Scalar[T]] struct {
	start     Point[T]
	source    HalfEdge
	direction Vector[T]
}

// NewRay returns the ray from start in the given direction.
func NewRay[T Scalar[T]](start Point[T], direction Vector[T]) (Ray[T], error) {
	if direction.IsZero() {
		return Ray[T]{}, errors.New("direction of a ray must not be trivial")
	}
	return Ray[T]{
		start:     start,
		source:    sourceOfGerm(start, direction),
		direction: direction,
	}, nil
}

// NewRayInSector returns the ray leaving the source vertex of sector in the
// given direction. The direction must lie in the closure of the sector.
func NewRayInSector[T Scalar[T]](surface *Triangulation[T], sector HalfEdge, direction Vector[T]) (Ray[T], error) {
	if direction.IsZero() {
		return Ray[T]{}, errors.New("direction of a ray must not be trivial")
	}
	source, err := normalizeSourceAtVertex(surface, sector, surface.Source(sector), direction)
	if err != nil {
		return Ray[T]{}, err
	}
	return Ray[T]{
		start:     PointAtVertex(surface, surface.Source(sector)),
		source:    source,
		direction: direction,
	}, nil
}

// Surface returns the triangulation this ray lives in.
func (r Ray[T]) Surface() *Triangulation[T] { return r.start.Surface() }

// Start returns the start point of the ray.
func (r Ray[T]) Start() Point[T] { return r.start }

// Source returns the canonical half edge identifying the germ of the ray at
// its start point.
func (r Ray[T]) Source() HalfEdge { return r.source }

// Vector returns a vector pointing in the direction of the ray. Its length
// has no meaning.
func (r Ray[T]) Vector() Vector[T] { return r.direction }

// Vertical returns the direction of the ray as a vertical direction on the
// surface.
func (r Ray[T]) Vertical() *Vertical[T] {
	vertical, err := NewVertical(r.Surface(), r.direction)
	if err != nil {
		panic("flatsurf: direction of a ray is zero")
	}
	return vertical
}

// SaddleConnection extends the ray until it hits a vertex and returns the
// corresponding saddle connection. Only rays based at a vertex can be
// extended this way.
func (r Ray[T]) SaddleConnection() (SaddleConnection[T], error) {
	if _, ok := r.start.Vertex(); !ok {
		return SaddleConnection[T]{}, errors.Wrap(ErrNotImplemented, "cannot extend a ray based at a non-vertex point to a saddle connection")
	}
	vector, target, err := firstVertexHit(r.Surface(), r.source, r.direction)
	if err != nil {
		return SaddleConnection[T]{}, err
	}
	return SaddleConnection[T]{surface: r.Surface(), source: r.source, target: target, vector: vector}, nil
}

// Equal reports whether both rays start at the same point and point in the
// same direction.
func (r Ray[T]) Equal(o Ray[T]) bool {
	return r.start.Equal(o.start) &&
		r.direction.CCW(o.direction) == Collinear &&
		r.direction.OrientationTo(o.direction) == SameDirection
}

func (r Ray[T]) String() string {
	return fmt.Sprintf("Ray from %v in direction %v", r.start, r.direction)
}

// sourceOfGerm returns the canonical half edge identifying a straight motion
// from p in the given direction: the sector containing the direction for a
// vertex point, the half edge of the edge with the direction on its left, or
// along it, for an edge point, and the reference half edge of the face for an
// interior point.
func sourceOfGerm[T Scalar[T]](p Point[T], direction Vector[T]) HalfEdge {
	s := p.Surface()
	if _, ok := p.Vertex(); ok {
		return s.SectorOf(p.Face(), direction)
	}
	if _, ok := p.Edge(); ok {
		return normalizeSourceAtEdge(s, p.Face(), direction)
	}
	return p.Face()
}

// normalizeSourceAtVertex rotates source until the direction lies in the
// sector at the vertex at. The rotation runs through the face of source,
// jumping to the next sector counterclockwise when the direction is parallel
// to its boundary, so the direction must leave the vertex into the face of
// source.
func normalizeSourceAtVertex[T Scalar[T]](s *Triangulation[T], source HalfEdge, at Vertex, direction Vector[T]) (HalfEdge, error) {
	for i := 0; i < 3; i++ {
		if s.InSector(source, direction) {
			break
		}
		boundary := s.FromHalfEdge(s.NextAtVertex(source))
		if boundary.CCW(direction) == Collinear && boundary.OrientationTo(direction) == SameDirection {
			source = s.NextAtVertex(source)
			break
		}
		source = s.NextInFace(source)
	}
	if !s.InSector(source, direction) || s.Source(source) != at {
		return 0, errors.Errorf("direction %v does not leave %v through the face at %v", direction, at, source)
	}
	return source, nil
}

// normalizeSourceAtEdge picks the half edge of the edge of source on whose
// left the direction continues; a direction along the edge keeps the half
// edge it is parallel to.
func normalizeSourceAtEdge[T Scalar[T]](s *Triangulation[T], source HalfEdge, direction Vector[T]) HalfEdge {
	e := s.FromHalfEdge(source)
	if e.CCW(direction) == CounterClockwise || (e.CCW(direction) == Collinear && e.OrientationTo(direction) == SameDirection) {
		return source
	}
	return -source
}
