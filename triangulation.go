package flatsurf

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Triangulation is a flat triangulation: a combinatorial triangulation
// together with one exact vector per half edge, antisymmetric under reversal.
// The vectors of every face sum to zero and turn counterclockwise, so each
// face is a positively oriented euclidean triangle.
//
// The combinatorial structure is embedded; all its read accessors apply
// unchanged. Mutating it other than through the methods of Triangulation
// invalidates the geometry.
type Triangulation[T Scalar[T]] struct {
	*Combinatorial
	vectors *Tracked[*OddHalfEdgeMap[T]]
	approx  *Tracked[*EdgeMap[vecInterval]]
}

// NewTriangulation builds a flat triangulation from vertex cycles, as in
// [NewCombinatorial], and one vector per edge; vectors[i] is the vector
// attached to the half edge i+1. The vectors must close up every face into a
// counterclockwise triangle.
func NewTriangulation[T Scalar[T]](vertexCycles [][]HalfEdge, vectors []Vector[T]) (*Triangulation[T], error) {
	c, err := NewCombinatorial(vertexCycles)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(c.Edges()) {
		return nil, errors.Errorf("need exactly one vector per edge, got %d vectors for %d edges", len(vectors), len(c.Edges()))
	}
	return NewTriangulationFromCombinatorial(c, func(he HalfEdge) Vector[T] {
		return vectors[he.Edge().index()]
	})
}

// NewTriangulationFromCombinatorial lifts a combinatorial triangulation to a
// flat one by attaching vector(he) to every positive half edge. The
// triangulation takes ownership of c.
func NewTriangulationFromCombinatorial[T Scalar[T]](c *Combinatorial, vector func(HalfEdge) Vector[T]) (*Triangulation[T], error) {
	t := &Triangulation[T]{Combinatorial: c}

	vectors := &OddHalfEdgeMap[T]{}
	for _, e := range c.Edges() {
		vectors.Set(e.Positive(), vector(e.Positive()))
	}
	t.vectors = Track(c, vectors,
		func(m *OddHalfEdgeMap[T], c *Combinatorial, flipped HalfEdge) *OddHalfEdgeMap[T] {
			// The flipped edge is the diagonal of the quadrilateral formed by
			// its two new neighbors.
			m.Set(flipped, m.Get(-c.NextInFace(flipped)).Add(m.Get(-c.PreviousInFace(flipped))))
			return m
		},
		nil)

	approx := &EdgeMap[vecInterval]{}
	for _, e := range c.Edges() {
		approx.Set(e, vecIntervalOf(vectors.Get(e.Positive())))
	}
	t.approx = Track(c, approx,
		func(m *EdgeMap[vecInterval], c *Combinatorial, flipped HalfEdge) *EdgeMap[vecInterval] {
			m.Set(flipped.Edge(), vecIntervalOf(t.FromHalfEdge(flipped.Edge().Positive())))
			return m
		},
		nil)

	if err := t.check(); err != nil {
		return nil, err
	}
	return t, nil
}

// check verifies that all faces are closed, non-degenerate and positively
// oriented.
func (t *Triangulation[T]) check() error {
	for _, he := range t.HalfEdges() {
		if t.Boundary(he) {
			continue
		}
		v := t.FromHalfEdge(he)
		if v.IsZero() {
			return errors.Errorf("edges must not be trivial but %v is zero in %v", he, t)
		}
		next := t.NextInFace(he)
		zero := v.Add(t.FromHalfEdge(next)).Add(t.FromHalfEdge(t.NextInFace(next)))
		if !zero.IsZero() {
			return errors.Errorf("face at %v is not closed in %v", he, t)
		}
		switch v.CCW(t.FromHalfEdge(next)) {
		case Collinear:
			return errors.Errorf("face at %v has vanishing area in %v", he, t)
		case Clockwise:
			return errors.Errorf("face at %v is not oriented correctly in %v", he, t)
		}
	}
	return nil
}

// FromHalfEdge returns the vector attached to he.
func (t *Triangulation[T]) FromHalfEdge(he HalfEdge) Vector[T] {
	return t.vectors.Value().Get(he)
}

// intervalFrom returns the cached interval enclosure of the vector of he.
func (t *Triangulation[T]) intervalFrom(he HalfEdge) vecInterval {
	v := t.approx.Value().Get(he.Edge())
	if !he.Positive() {
		v = v.neg()
	}
	return v
}

// ccwFromHalfEdge is the counterclockwise predicate of the vector of he
// against v, answered through the approximation cache when the intervals
// already certify a sign.
func (t *Triangulation[T]) ccwFromHalfEdge(he HalfEdge, v vecInterval, exact func() CCW) CCW {
	if sign, ok := t.intervalFrom(he).cross(v).sign(); ok {
		return CCW(sign)
	}
	return exact()
}

// Flip replaces the edge of he by the opposite diagonal of the quadrilateral
// formed by its two neighboring faces. The flip is only possible if that
// quadrilateral is strictly convex. Flipping the same edge twice restores
// the original triangulation exactly, including the orientation of the
// diagonal.
func (t *Triangulation[T]) Flip(he HalfEdge) error {
	if t.Boundary(he) || t.Boundary(-he) {
		return errors.Errorf("cannot flip boundary half edge %v", he)
	}
	if !t.Convex(he, true) {
		return errors.Errorf("cannot flip %v, the surrounding quadrilateral is not strictly convex", he)
	}
	// The replacement diagonal admits two orientations. Take the one turned
	// counterclockwise from he exactly if the current diagonal and the
	// counterclockwise candidate straddle the horizontal axis; this choice
	// inverts itself, making the flip an involution.
	candidate := t.FromHalfEdge(-t.PreviousInFace(he)).Add(t.FromHalfEdge(-t.NextInFace(-he)))
	ccw := t.FromHalfEdge(he).upper() != candidate.upper()
	if err := t.Combinatorial.flip(he, ccw); err != nil {
		return err
	}
	logger().Debug("flipped half edge",
		zap.Stringer("halfEdge", he),
		zap.Stringer("vector", t.FromHalfEdge(he)))
	if err := t.check(); err != nil {
		panic(fmt.Sprintf("flatsurf: triangulation invalid after flip of %v: %v", he, err))
	}
	return nil
}

// Collapse removes the edge of he, identifying its endpoints. Geometrically
// this is only meaningful for an edge whose vector has become zero; since a
// valid triangulation has no such edges, collapses happen on intermediate
// combinatorial data during deformations rather than here.
func (t *Triangulation[T]) Collapse(he HalfEdge) error {
	if !t.FromHalfEdge(he).IsZero() {
		return errors.Errorf("cannot collapse half edge %v with non-zero vector %v", he, t.FromHalfEdge(he))
	}
	return t.Combinatorial.Collapse(he)
}

// Convex reports whether the two faces at the edge of he form a convex
// quadrilateral, strictly so if strict is set.
func (t *Triangulation[T]) Convex(he HalfEdge, strict bool) bool {
	a := t.FromHalfEdge(t.PreviousAtVertex(he)).CCW(t.FromHalfEdge(t.NextAtVertex(he)))
	b := t.FromHalfEdge(t.PreviousAtVertex(-he)).CCW(t.FromHalfEdge(t.NextAtVertex(-he)))
	if strict {
		return a == CounterClockwise && b == CounterClockwise
	}
	return a != Clockwise && b != Clockwise
}

// InSector reports whether v points into the angular sector counterclockwise
// between sector and NextAtVertex(sector), including the ray of sector itself
// and excluding the ray of its successor.
func (t *Triangulation[T]) InSector(sector HalfEdge, v Vector[T]) bool {
	if v.IsZero() {
		panic("flatsurf: sector membership is undefined for the zero vector")
	}
	vi := vecIntervalOf(v)
	lower := t.ccwFromHalfEdge(sector, vi, func() CCW {
		return t.FromHalfEdge(sector).CCW(v)
	})
	if lower == Clockwise {
		return false
	}
	upper := t.ccwFromHalfEdge(t.NextAtVertex(sector), vi, func() CCW {
		return t.FromHalfEdge(t.NextAtVertex(sector)).CCW(v)
	})
	return upper == Clockwise
}

// SectorOf returns the half edge at the source vertex of start whose sector
// contains v, walking the vertex fan from start.
func (t *Triangulation[T]) SectorOf(start HalfEdge, v Vector[T]) HalfEdge {
	sector := start
	for {
		if t.InSector(sector, v) {
			return sector
		}
		sector = t.NextAtVertex(sector)
		if sector == start {
			panic(fmt.Sprintf("flatsurf: no sector at the source of %v contains %v", start, v))
		}
	}
}

// Angle returns the total angle at v as a multiple of 2π. Marked points have
// angle one, actual singularities more.
func (t *Triangulation[T]) Angle(v Vertex) int {
	angle := 0
	first := v.Representative()
	for current := first; ; {
		next := t.NextAtVertex(current)
		if t.FromHalfEdge(current).X.Sign() >= 0 && t.FromHalfEdge(next).X.Sign() < 0 {
			angle++
		}
		current = next
		if current == first {
			break
		}
	}
	if angle < 1 {
		panic(fmt.Sprintf("flatsurf: total angle at %v cannot be less than 2π", v))
	}
	return angle
}

// Area2 returns twice the total area of the triangulation.
func (t *Triangulation[T]) Area2() T {
	var area T
	for _, he := range t.HalfEdges() {
		if t.Boundary(he) {
			continue
		}
		// Count each face only at its smallest half edge.
		next := t.NextInFace(he)
		prev := t.PreviousInFace(he)
		if he.index() > next.index() || he.index() > prev.index() {
			continue
		}
		area = area.Add(Area2([]Vector[T]{
			t.FromHalfEdge(he), t.FromHalfEdge(next), t.FromHalfEdge(prev),
		}))
	}
	return area
}

// Scale returns a copy of the triangulation with all vectors multiplied
// by k.
func (t *Triangulation[T]) Scale(k T) (*Triangulation[T], error) {
	if k.Sign() <= 0 {
		return nil, errors.Errorf("scaling factor must be positive, got %v", k)
	}
	return NewTriangulationFromCombinatorial(t.Combinatorial.Clone(), func(he HalfEdge) Vector[T] {
		return t.FromHalfEdge(he).Scale(k)
	})
}

// ApplyMatrix transforms all vectors by the invertible matrix m. A matrix
// with negative determinant reflects the surface, reversing every face
// cycle. The result is packaged as a deformation from the original
// triangulation.
func (t *Triangulation[T]) ApplyMatrix(m Linear[T]) (*Deformation[T], error) {
	if m.Determinant().Sign() == 0 {
		return nil, errors.Errorf("matrix %v is singular", m)
	}
	mirrored := !m.IsOrientationPreserving()
	var combinatorial *Combinatorial
	if mirrored {
		var err error
		if combinatorial, err = t.Combinatorial.mirror(); err != nil {
			return nil, err
		}
	} else {
		combinatorial = t.Combinatorial.Clone()
	}
	codomain, err := NewTriangulationFromCombinatorial(combinatorial, func(he HalfEdge) Vector[T] {
		return m.Apply(t.FromHalfEdge(he))
	})
	if err != nil {
		return nil, err
	}
	return newDeformation[T](&linearRelation[T]{dom: t, cod: codomain, linear: m, mirrored: mirrored}), nil
}

// Shortest returns the edge of smallest euclidean length, preferring smaller
// ids among ties.
func (t *Triangulation[T]) Shortest() Edge {
	edges := t.Edges()
	shortest := edges[0]
	best := t.FromHalfEdge(shortest.Positive()).Hypot2()
	for _, e := range edges[1:] {
		if l := t.FromHalfEdge(e.Positive()).Hypot2(); l.Cmp(best) < 0 {
			shortest, best = e, l
		}
	}
	return shortest
}

// ShortestInDirection returns the edge with the smallest non-zero absolute
// projection onto direction, preferring smaller ids among ties.
func (t *Triangulation[T]) ShortestInDirection(direction Vector[T]) (Edge, bool) {
	var shortest Edge
	var best T
	found := false
	for _, e := range t.Edges() {
		l := t.FromHalfEdge(e.Positive()).Dot(direction)
		if l.Sign() < 0 {
			l = l.Neg()
		}
		if l.Sign() == 0 {
			continue
		}
		if !found || l.Cmp(best) < 0 {
			shortest, best, found = e, l, true
		}
	}
	return shortest, found
}

// Clone returns an independent deep copy of the triangulation.
func (t *Triangulation[T]) Clone() *Triangulation[T] {
	clone, err := NewTriangulationFromCombinatorial(t.Combinatorial.Clone(), func(he HalfEdge) Vector[T] {
		return t.FromHalfEdge(he)
	})
	if err != nil {
		panic(fmt.Sprintf("flatsurf: clone of valid triangulation is invalid: %v", err))
	}
	return clone
}

// Equal reports whether the two triangulations have identical labels,
// permutations and vectors. Relabeling tolerance is [Equivalence]'s concern.
func (t *Triangulation[T]) Equal(o *Triangulation[T]) bool {
	if !t.Combinatorial.Equal(o.Combinatorial) {
		return false
	}
	for _, he := range t.HalfEdges() {
		if !t.FromHalfEdge(he).Equal(o.FromHalfEdge(he)) {
			return false
		}
	}
	return true
}

func (t *Triangulation[T]) String() string {
	var sb strings.Builder
	sb.WriteString(t.Combinatorial.String())
	sb.WriteString(" with vectors {")
	for i, e := range t.Edges() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v: %v", e, t.FromHalfEdge(e.Positive()))
	}
	sb.WriteString("}")
	return sb.String()
}
