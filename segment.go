package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
)

// Segment is a straight oriented segment between two points of a flat
// triangulation, given by its end points and the vector it develops to in the
// plane.
//
// Like a ray, a segment records canonical source and target half edges
// identifying the germs at its end points, so geometrically equal segments
// are equal regardless of the faces they were constructed against.
type Segment[T Scalar[T]] struct {
	start, end     Point[T]
	source, target HalfEdge
	vector         Vector[T]
}

// NewSegment returns the segment from start to end developing to vector.
func NewSegment[T Scalar[T]](start, end Point[T], vector Vector[T]) (Segment[T], error) {
	if vector.IsZero() {
		return Segment[T]{}, errors.New("vector defining a segment must not be trivial")
	}
	if start.Surface() != end.Surface() && !start.Surface().Equal(end.Surface()) {
		return Segment[T]{}, errors.New("start and end of a segment must be defined on the same surface")
	}
	seg := Segment[T]{
		start:  start,
		end:    end,
		source: sourceOfGerm(start, vector),
		target: sourceOfGerm(end, vector.Neg()),
		vector: vector,
	}
	if err := seg.check(); err != nil {
		return Segment[T]{}, err
	}
	return seg, nil
}

// NewSegmentInFaces returns the segment from start to end developing to
// vector, where start lies in the face of source and end in the face of
// target. The half edges are normalized away, they only resolve which face
// each end point leaves through when an end point is a vertex.
func NewSegmentInFaces[T Scalar[T]](start Point[T], source HalfEdge, end Point[T], target HalfEdge, vector Vector[T]) (Segment[T], error) {
	if vector.IsZero() {
		return Segment[T]{}, errors.New("vector defining a segment must not be trivial")
	}
	if start.Surface() != end.Surface() && !start.Surface().Equal(end.Surface()) {
		return Segment[T]{}, errors.New("start and end of a segment must be defined on the same surface")
	}
	if !start.In(source) {
		return Segment[T]{}, errors.Errorf("start point of segment must be in the face of %v", source)
	}
	if !end.In(target) {
		return Segment[T]{}, errors.Errorf("end point of segment must be in the face of %v", target)
	}
	s := start.Surface()
	var err error
	if v, ok := start.Vertex(); ok {
		if source, err = normalizeSourceAtVertex(s, source, v, vector); err != nil {
			return Segment[T]{}, err
		}
	} else if _, ok := start.Edge(); ok {
		source = normalizeSourceAtEdge(s, start.Face(), vector)
	} else {
		source = start.Face()
	}
	if v, ok := end.Vertex(); ok {
		if target, err = normalizeSourceAtVertex(s, target, v, vector.Neg()); err != nil {
			return Segment[T]{}, err
		}
	} else if _, ok := end.Edge(); ok {
		target = normalizeSourceAtEdge(s, end.Face(), vector.Neg())
	} else {
		target = end.Face()
	}
	seg := Segment[T]{start: start, end: end, source: source, target: target, vector: vector}
	if err := seg.check(); err != nil {
		return Segment[T]{}, err
	}
	return seg, nil
}

// check verifies that walking the vector from one end point arrives at the
// other. The walk needs a vertex to start from; a segment with no end point
// at a vertex is taken at the caller's word.
func (s Segment[T]) check() error {
	var zero T
	if _, ok := s.start.Vertex(); ok {
		end, err := locate(s.Surface(), s.source, s.vector, zero.One())
		if err != nil {
			return err
		}
		if !end.Equal(s.end) {
			return errors.Errorf("segment along %v from %v ends at %v, not at %v", s.vector, s.start, end, s.end)
		}
		return nil
	}
	if _, ok := s.end.Vertex(); ok {
		start, err := locate(s.Surface(), s.target, s.vector.Neg(), zero.One())
		if err != nil {
			return err
		}
		if !start.Equal(s.start) {
			return errors.Errorf("segment along %v to %v starts at %v, not at %v", s.vector, s.end, start, s.start)
		}
	}
	return nil
}

// Surface returns the triangulation this segment lives in.
func (s Segment[T]) Surface() *Triangulation[T] { return s.start.Surface() }

// Start returns the start point of the segment.
func (s Segment[T]) Start() Point[T] { return s.start }

// End returns the end point of the segment.
func (s Segment[T]) End() Point[T] { return s.end }

// Source returns the canonical half edge identifying the germ of the segment
// at its start point.
func (s Segment[T]) Source() HalfEdge { return s.source }

// Target returns the canonical half edge identifying the germ of the
// reversed segment at the end point.
func (s Segment[T]) Target() HalfEdge { return s.target }

// Vector returns the vector the segment develops to in the plane.
func (s Segment[T]) Vector() Vector[T] { return s.vector }

// Ray returns the ray shooting through the segment from its start.
func (s Segment[T]) Ray() Ray[T] {
	return Ray[T]{start: s.start, source: s.source, direction: s.vector}
}

// Neg returns the segment traversed in the opposite direction.
func (s Segment[T]) Neg() Segment[T] {
	return Segment[T]{
		start:  s.end,
		end:    s.start,
		source: s.target,
		target: s.source,
		vector: s.vector.Neg(),
	}
}

// SaddleConnection returns this segment as a saddle connection if both of
// its end points are vertices.
func (s Segment[T]) SaddleConnection() (SaddleConnection[T], bool) {
	if _, ok := s.start.Vertex(); !ok {
		return SaddleConnection[T]{}, false
	}
	if _, ok := s.end.Vertex(); !ok {
		return SaddleConnection[T]{}, false
	}
	return SaddleConnection[T]{surface: s.Surface(), source: s.source, target: s.target, vector: s.vector}, true
}

// Equal reports whether both segments connect the same points through the
// same vector.
func (s Segment[T]) Equal(o Segment[T]) bool {
	return s.vector.Equal(o.vector) && s.start.Equal(o.start) && s.end.Equal(o.end)
}

func (s Segment[T]) String() string {
	return fmt.Sprintf("Segment %v from %v to %v", s.vector, s.start, s.end)
}
