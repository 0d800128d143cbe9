package flatsurf

import (
	"fmt"

	"go.uber.org/zap"
)

// DelaunayCondition classifies an edge with respect to the local Delaunay
// condition of its two adjacent faces.
type DelaunayCondition int

const (
	// NonDelaunay means the vertex opposite one of the two adjacent faces
	// lies strictly inside the circumcircle of the other; flipping the edge
	// improves the triangulation.
	NonDelaunay DelaunayCondition = iota
	// Delaunay means the opposite vertices lie strictly outside the
	// circumcircles.
	Delaunay
	// Ambiguous means the four vertices around the edge are concyclic; the
	// edge and its flip are both Delaunay. Ambiguous edges are exactly the
	// edges interior to the faces of the Delaunay cell decomposition.
	Ambiguous
)

func (d DelaunayCondition) String() string {
	switch d {
	case NonDelaunay:
		return "non-Delaunay"
	case Delaunay:
		return "Delaunay"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("DelaunayCondition(%d)", int(d))
	}
}

// DelaunayCondition classifies the edge e. Boundary edges cannot be flipped
// and count as Delaunay.
//
// The test is the classical incircle determinant, evaluated on the
// quadrilateral around e in coordinates where the source of e is the origin.
// An interval approximation decides the generic case; only near-degenerate
// configurations fall through to exact arithmetic.
func (t *Triangulation[T]) DelaunayCondition(e Edge) DelaunayCondition {
	he := e.Positive()
	if t.Boundary(he) || t.Boundary(-he) {
		return Delaunay
	}

	dci := t.intervalFrom(-t.NextInFace(-he))
	cai := t.intervalFrom(he)
	cbi := t.intervalFrom(t.NextAtVertex(he))
	if sign, ok := incircleInterval(dci.add(cai), dci.add(cbi), dci); ok {
		if sign < 0 {
			return Delaunay
		}
		return NonDelaunay
	}

	dc := t.FromHalfEdge(-t.NextInFace(-he))
	ca := t.FromHalfEdge(he)
	cb := t.FromHalfEdge(t.NextAtVertex(he))
	switch sign := incircleExact(dc.Add(ca), dc.Add(cb), dc); {
	case sign < 0:
		return Delaunay
	case sign == 0:
		return Ambiguous
	default:
		return NonDelaunay
	}
}

// Delaunay retriangulates in place by flipping non-Delaunay edges until every
// edge satisfies the Delaunay condition. Ambiguous edges are left alone, so
// afterwards the triangulation refines the Delaunay cell decomposition.
func (t *Triangulation[T]) Delaunay() {
	flips := 0
	for {
		flipped := false
		for _, e := range t.Edges() {
			if t.DelaunayCondition(e) == NonDelaunay {
				if err := t.Flip(e.Positive()); err != nil {
					panic(fmt.Sprintf("flatsurf: cannot flip non-Delaunay edge %v: %v", e, err))
				}
				flips++
				flipped = true
			}
		}
		if !flipped {
			break
		}
	}
	logger().Debug("Delaunay retriangulation complete", zap.Int("flips", flips))
}

// incircleExact is the sign of the determinant
//
//	| a.X  a.Y  a.X²+a.Y² |
//	| b.X  b.Y  b.X²+b.Y² |
//	| c.X  c.Y  c.X²+c.Y² |
//
// which is positive iff the origin lies strictly inside the circle through
// a, b and c, these being in counterclockwise order.
func incircleExact[T Scalar[T]](a, b, c Vector[T]) int {
	az, bz, cz := a.Hypot2(), b.Hypot2(), c.Hypot2()
	det := a.X.Mul(b.Y.Mul(cz).Sub(bz.Mul(c.Y)))
	det = det.Sub(a.Y.Mul(b.X.Mul(cz).Sub(bz.Mul(c.X))))
	det = det.Add(az.Mul(b.X.Mul(c.Y).Sub(b.Y.Mul(c.X))))
	return det.Sign()
}

// incircleInterval is incircleExact over interval enclosures. The sign is
// only reported when the enclosure certifies it.
func incircleInterval(a, b, c vecInterval) (int, bool) {
	az := a.x.mul(a.x).add(a.y.mul(a.y))
	bz := b.x.mul(b.x).add(b.y.mul(b.y))
	cz := c.x.mul(c.x).add(c.y.mul(c.y))
	det := a.x.mul(b.y.mul(cz).sub(bz.mul(c.y)))
	det = det.sub(a.y.mul(b.x.mul(cz).sub(bz.mul(c.x))))
	det = det.add(az.mul(b.x.mul(c.y).sub(b.y.mul(c.x))))
	return det.sign()
}
