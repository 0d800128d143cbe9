package flatsurf

import (
	"github.com/pkg/errors"
)

// IsomorphismKind selects the combinatorial granularity of the isomorphism
// search.
type IsomorphismKind int

const (
	// IsomorphismFaces matches the two triangulations triangle by triangle.
	IsomorphismFaces IsomorphismKind = iota
	// IsomorphismDelaunayCells matches the Delaunay cell decompositions
	// instead: edges whose incircle determinant vanishes are interior to a
	// cell and ignored. Both surfaces must be Delaunay triangulated, but the
	// match does not depend on which triangulation of each cell was chosen.
	IsomorphismDelaunayCells
)

// Isomorphism searches for a linear isomorphism onto other: an invertible
// 2×2 matrix together with a matching of half edges such that the matrix
// sends each vector of t to the vector of the matched half edge. Orientation
// reversing matrices are part of the search.
//
// The optional filters restrict the search: filterMatrix rejects candidate
// matrices, given by their coefficients in row major order, and
// filterHalfEdges rejects individual half edge correspondences. Either may
// be nil.
//
// The isomorphism is returned as a deformation onto other; the second
// return value reports whether one was found.
func (t *Triangulation[T]) Isomorphism(
	other *Triangulation[T],
	kind IsomorphismKind,
	filterMatrix func(a, b, c, d T) bool,
	filterHalfEdges func(from, to HalfEdge) bool,
) (*Deformation[T], bool, error) {
	if t.HasBoundary() != other.HasBoundary() {
		return nil, false, nil
	}
	if len(t.HalfEdges()) != len(other.HalfEdges()) {
		return nil, false, nil
	}
	if t.HasBoundary() {
		return nil, false, errors.Wrap(ErrNotImplemented, "isomorphism of surfaces with boundary")
	}
	if kind == IsomorphismDelaunayCells {
		for _, e := range t.Edges() {
			if t.DelaunayCondition(e) == NonDelaunay {
				return nil, false, errors.Errorf("%v is not Delaunay triangulated", t)
			}
		}
		for _, e := range other.Edges() {
			if other.DelaunayCondition(e) == NonDelaunay {
				return nil, false, errors.Errorf("%v is not Delaunay triangulated", other)
			}
		}
	}

	ignore := func(he HalfEdge) bool {
		return kind == IsomorphismDelaunayCells && t.DelaunayCondition(he.Edge()) == Ambiguous
	}
	ignoreImage := func(he HalfEdge) bool {
		return kind == IsomorphismDelaunayCells && other.DelaunayCondition(he.Edge()) == Ambiguous
	}

	// Walking a face boundary generalizes to walking a cell boundary by
	// skipping the fan of ignored edges between two boundary edges.
	nextInCell := func(e HalfEdge) HalfEdge {
		e = -e
		for {
			e = t.PreviousAtVertex(e)
			if !ignore(e) {
				return e
			}
		}
	}

	var preimage HalfEdge
	for _, he := range t.HalfEdges() {
		if !ignore(he) {
			preimage = he
			break
		}
	}
	if preimage == 0 {
		return nil, false, errors.Errorf("cannot search for an isomorphism of %v: every edge is ambiguous", t)
	}

	// The matrix is determined by the images of two reference vectors: fix
	// a corner of a face or cell of t and try every corner of other, in both
	// orientations.
	v := t.FromHalfEdge(preimage)
	w := t.FromHalfEdge(nextInCell(preimage))

	for _, image := range other.HalfEdges() {
		if ignoreImage(image) {
			continue
		}
		for _, sgn := range []int{1, -1} {
			nextInImageCell := func(e HalfEdge) HalfEdge {
				e = -e
				for {
					if sgn == 1 {
						e = other.PreviousAtVertex(e)
					} else {
						e = other.NextAtVertex(e)
					}
					if !ignoreImage(e) {
						return e
					}
				}
			}

			vi := other.FromHalfEdge(image)
			wi := other.FromHalfEdge(nextInImageCell(image))

			// Solve the 2×2 system sending v to vi and w to wi: the rows
			// (a b) and (c d) of the matrix are determined independently by
			// Cramer's rule on the coordinates of vi and wi.
			den := v.Cross(w)
			a, okA := divExact(vi.X.Mul(w.Y).Sub(v.Y.Mul(wi.X)), den)
			b, okB := divExact(v.X.Mul(wi.X).Sub(vi.X.Mul(w.X)), den)
			c, okC := divExact(vi.Y.Mul(w.Y).Sub(v.Y.Mul(wi.Y)), den)
			d, okD := divExact(v.X.Mul(wi.Y).Sub(vi.Y.Mul(w.X)), den)
			if !(okA && okB && okC && okD) {
				continue
			}
			m := Linear[T]{a, c, b, d}
			if (sgn == 1) != m.IsOrientationPreserving() {
				continue
			}
			if filterMatrix != nil && !filterMatrix(a, b, c, d) {
				continue
			}

			// Grow the matching depth first from the fixed corner, through
			// reversed half edges and along cell boundaries; a disagreement
			// with the actual vectors of other discards the candidate.
			matching := &HalfEdgeMap[HalfEdge]{}
			var match func(from, to HalfEdge) bool
			match = func(from, to HalfEdge) bool {
				if img := matching.Get(from); img != 0 {
					return img == to
				}
				if filterHalfEdges != nil && !filterHalfEdges(from, to) {
					return false
				}
				if !m.Apply(t.FromHalfEdge(from)).Equal(other.FromHalfEdge(to)) {
					return false
				}
				matching.Set(from, to)
				return match(-from, -to) && match(nextInCell(from), nextInImageCell(to))
			}
			if !match(preimage, image) {
				continue
			}

			linear, err := t.ApplyMatrix(m)
			if err != nil {
				return nil, false, err
			}
			transformed := linear.Codomain()

			// The transformed surface carries the vectors of other on the
			// labels of t; the relabeling is recorded as a retriangulation.
			var table []pathPair[T]
			for _, he := range t.HalfEdges() {
				to := matching.Get(he)
				if to == 0 {
					continue
				}
				table = append(table, pathPair[T]{
					preimage: Path[T]{SaddleConnectionFromHalfEdge(transformed, he)},
					image:    Path[T]{SaddleConnectionFromHalfEdge(other, to)},
				})
			}
			relabel := newDeformation[T](newGenericRelation(transformed, other, table))
			iso, err := relabel.Compose(linear)
			if err != nil {
				return nil, false, err
			}
			return iso, true, nil
		}
	}
	return nil, false, nil
}
