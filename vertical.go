package flatsurf

import (
	"github.com/pkg/errors"
)

// Triangle classifies a face of a triangulation against a vertical
// direction, by the horizontal extents of its sides. Pick a side of positive
// horizontal extent; the face is RightVertical or LeftVertical if the side
// following respectively preceding it is parallel to the vertical, Forward
// if another side also has positive extent, and Backward otherwise.
type Triangle int

const (
	TriangleBackward      Triangle = 1
	TriangleForward       Triangle = -1
	TriangleLeftVertical  Triangle = 2
	TriangleRightVertical Triangle = -2
)

func (t Triangle) String() string {
	switch t {
	case TriangleBackward:
		return "backward"
	case TriangleForward:
		return "forward"
	case TriangleLeftVertical:
		return "left-vertical"
	case TriangleRightVertical:
		return "right-vertical"
	default:
		return "unknown"
	}
}

// Vertical is a choice of vertical direction on a flat triangulation,
// together with the derived horizontal direction, the vertical rotated by
// 90° clockwise.
type Vertical[T Scalar[T]] struct {
	surface    *Triangulation[T]
	vertical   Vector[T]
	horizontal Vector[T]
}

// NewVertical equips surface with the non-zero direction vertical.
func NewVertical[T Scalar[T]](surface *Triangulation[T], vertical Vector[T]) (*Vertical[T], error) {
	if vertical.IsZero() {
		return nil, errors.New("vertical must be non-zero")
	}
	return &Vertical[T]{
		surface:    surface,
		vertical:   vertical,
		horizontal: vertical.Perp().Neg(),
	}, nil
}

// Surface returns the underlying triangulation.
func (d *Vertical[T]) Surface() *Triangulation[T] { return d.surface }

// Vector returns the vertical direction.
func (d *Vertical[T]) Vector() Vector[T] { return d.vertical }

// Horizontal returns the horizontal direction.
func (d *Vertical[T]) Horizontal() Vector[T] { return d.horizontal }

// Neg returns the vertical for the opposite direction.
func (d *Vertical[T]) Neg() *Vertical[T] {
	neg, err := NewVertical(d.surface, d.vertical.Neg())
	if err != nil {
		panic("flatsurf: negation of non-zero vertical is zero")
	}
	return neg
}

// Project returns the scalar product of v with the vertical direction, the
// signed vertical extent of v.
func (d *Vertical[T]) Project(v Vector[T]) T {
	return d.vertical.Dot(v)
}

// ProjectPerpendicular returns the scalar product of v with the horizontal
// direction, the signed horizontal extent of v.
func (d *Vertical[T]) ProjectPerpendicular(v Vector[T]) T {
	return d.horizontal.Dot(v)
}

// Ccw locates v relative to the vertical direction.
func (d *Vertical[T]) Ccw(v Vector[T]) CCW {
	return d.vertical.CCW(v)
}

// Orientation compares the direction of v with the vertical direction.
func (d *Vertical[T]) Orientation(v Vector[T]) Orientation {
	return d.vertical.OrientationTo(v)
}

// Parallel reports whether the half edge he is parallel to the vertical.
func (d *Vertical[T]) Parallel(he HalfEdge) bool {
	return d.Ccw(d.surface.FromHalfEdge(he)) == Collinear
}

// Perpendicular reports whether the half edge he is horizontal.
func (d *Vertical[T]) Perpendicular(he HalfEdge) bool {
	return d.Orientation(d.surface.FromHalfEdge(he)) == Orthogonal
}

// Large reports whether the horizontal extent of e is at least that of the
// four other edges of its two adjacent faces.
func (d *Vertical[T]) Large(e Edge) bool {
	he := e.Positive()
	length := func(he HalfEdge) T {
		l := d.ProjectPerpendicular(d.surface.FromHalfEdge(he))
		if l.Sign() < 0 {
			return l.Neg()
		}
		return l
	}
	l := length(he)
	return l.Cmp(length(d.surface.NextInFace(he))) >= 0 &&
		l.Cmp(length(d.surface.PreviousInFace(he))) >= 0 &&
		l.Cmp(length(d.surface.NextInFace(-he))) >= 0 &&
		l.Cmp(length(d.surface.PreviousInFace(-he))) >= 0
}

// ClassifyFace classifies the face at the half edge face.
func (d *Vertical[T]) ClassifyFace(face HalfEdge) Triangle {
	for {
		perp := d.ProjectPerpendicular(d.surface.FromHalfEdge(face))
		if perp.Sign() <= 0 {
			// Rotate to a side of positive horizontal extent; one exists
			// since the extents sum to zero and the face has positive area.
			face = d.surface.NextInFace(face)
			continue
		}
		a := d.ProjectPerpendicular(d.surface.FromHalfEdge(d.surface.NextInFace(face)))
		b := d.ProjectPerpendicular(d.surface.FromHalfEdge(d.surface.PreviousInFace(face)))
		switch {
		case a.Sign() == 0:
			return TriangleRightVertical
		case b.Sign() == 0:
			return TriangleLeftVertical
		case a.Sign() > 0 || b.Sign() > 0:
			return TriangleForward
		default:
			return TriangleBackward
		}
	}
}

// Components partitions the half edges into the connected components that
// remain when the surface is cut along all edges parallel to the vertical.
// Parallel half edges are part of the component they bound but are not
// crossed.
func (d *Vertical[T]) Components() [][]HalfEdge {
	var components [][]HalfEdge
	done := map[HalfEdge]bool{}
	for _, start := range d.surface.HalfEdges() {
		if done[start] {
			continue
		}
		seen := map[HalfEdge]bool{}
		var component []HalfEdge
		d.visit(start, seen, &component)
		for _, he := range component {
			done[he] = true
		}
		components = append(components, component)
	}
	return components
}

func (d *Vertical[T]) visit(start HalfEdge, seen map[HalfEdge]bool, component *[]HalfEdge) {
	if seen[start] {
		return
	}
	seen[start] = true
	*component = append(*component, start)

	// Do not cross vertical edges.
	if d.Ccw(d.surface.FromHalfEdge(start)) == Collinear {
		return
	}

	d.visit(-start, seen, component)
	d.visit(d.surface.NextInFace(start), seen, component)
	d.visit(d.surface.PreviousInFace(start), seen, component)
}

// Equal reports whether both verticals are the same direction on equal
// surfaces.
func (d *Vertical[T]) Equal(o *Vertical[T]) bool {
	return d.surface.Equal(o.surface) && d.vertical.Equal(o.vertical)
}

func (d *Vertical[T]) String() string {
	return d.vertical.String()
}
