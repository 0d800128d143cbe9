package flatsurf

import (
	"github.com/pkg/errors"
)

// InsertAt inserts a new marked vertex at the point reached from the source
// of nextTo by walking along v, which must lie in the sector at nextTo. The
// sector is refined by flips until v lies strictly inside a single face or
// on an existing half edge; the first kind of position is realized by a
// three-way split of the face, the second by subdividing the edge into two
// halves meeting at the new vertex.
//
// Returns the deformation onto the enlarged surface together with the half
// edge taking over the role of nextTo: flips may rotate the sector
// containing v to a different half edge, and subdividing the edge of nextTo
// consumes it, moving the reference to the previous half edge at its source
// vertex. The reference is a half edge of the deformation's domain after
// the preparatory flips, i.e., of the surface the insertion itself acts on.
func (t *Triangulation[T]) InsertAt(nextTo HalfEdge, v Vector[T]) (*Deformation[T], HalfEdge, error) {
	if !t.InSector(nextTo, v) {
		return nil, 0, errors.Errorf("%v must be contained in the sector at %v", v, nextTo)
	}

	deformation := TrivialDeformation(t)

	// The new vertex must not coincide with or lie beyond an existing vertex
	// in its direction.
	checkOrientation := func(saddle Vector[T]) error {
		switch saddle.Sub(v).OrientationTo(v) {
		case OppositeDirection:
			return errors.Errorf("cannot insert a vertex along %v, it would cross over the existing vertex at %v", v, saddle)
		case Orthogonal:
			return errors.Wrapf(ErrNotImplemented, "cannot insert a vertex at %v on top of an existing vertex", v)
		}
		return nil
	}

	// Flip a half edge out of the way of v; when the surrounding
	// quadrilateral is not convex yet, first flip the edges of the forward
	// triangle blocking it.
	var flipAway func(e HalfEdge) error
	flipAway = func(e HalfEdge) error {
		canFlip := func(e HalfEdge) bool {
			cur := deformation.Codomain()
			return e != nextTo && e != -nextTo &&
				e != cur.NextAtVertex(nextTo) && e != -cur.NextAtVertex(nextTo) &&
				cur.Convex(e, true)
		}
		for !canFlip(e) {
			cur := deformation.Codomain()
			if v.CCW(cur.FromHalfEdge(cur.PreviousAtVertex(e))) != CounterClockwise {
				if err := flipAway(-cur.NextAtVertex(-e)); err != nil {
					return err
				}
			} else {
				if err := flipAway(cur.PreviousAtVertex(e)); err != nil {
					return err
				}
			}
		}
		cur := deformation.Codomain()
		flipped := cur.Clone()
		if err := flipped.Flip(e); err != nil {
			return err
		}
		composed, err := newDeformation[T](&flipRelation[T]{dom: cur, cod: flipped, flipped: e}).Compose(deformation)
		if err != nil {
			return err
		}
		deformation = composed
		return nil
	}

	// Flip the half edges the segment from the source of nextTo to v would
	// cross, rotating nextTo along when the sector containing v changes.
	for {
		cur := deformation.Codomain()
		if cur.FromHalfEdge(nextTo).CCW(v) == Collinear {
			// v lies on the ray of nextTo itself.
			if err := checkOrientation(cur.FromHalfEdge(nextTo)); err != nil {
				return nil, 0, err
			}
			break
		}

		// The half edge the segment is potentially crossing, and its base
		// point relative to the source of nextTo.
		crossing := cur.NextInFace(nextTo)
		base := cur.FromHalfEdge(nextTo)

		// It would suffice to flip when v reaches past the crossing edge,
		// but we also do not want the new vertex to end up on any edge other
		// than nextTo, so an endpoint on the crossing edge flips too.
		if cur.FromHalfEdge(crossing).CCW(v.Sub(base)) == CounterClockwise {
			break
		}

		if err := flipAway(crossing); err != nil {
			return nil, 0, err
		}

		for {
			cur := deformation.Codomain()
			if cur.FromHalfEdge(cur.NextAtVertex(nextTo)).CCW(v) == Clockwise {
				break
			}
			nextTo = cur.NextAtVertex(nextTo)
		}
	}

	symmetric := func(x, e HalfEdge, v Vector[T]) Vector[T] {
		if x == e {
			return v
		}
		return v.Neg()
	}

	cur := deformation.Codomain()

	if cur.FromHalfEdge(nextTo).CCW(v) != Collinear {
		// The new vertex lies strictly inside the face of nextTo; join it to
		// the three corners.
		combinatorial, err := cur.Combinatorial.InsertAt(nextTo)
		if err != nil {
			return nil, 0, err
		}

		a := -combinatorial.NextAtVertex(nextTo)
		b := combinatorial.NextAtVertex(a)
		c := combinatorial.NextAtVertex(b)

		codomain, err := NewTriangulationFromCombinatorial(combinatorial, func(e HalfEdge) Vector[T] {
			switch e.Edge() {
			case a.Edge():
				return symmetric(e, a, v.Neg())
			case b.Edge():
				return symmetric(e, b, cur.FromHalfEdge(nextTo).Sub(v))
			case c.Edge():
				return symmetric(e, c, cur.FromHalfEdge(cur.NextAtVertex(nextTo)).Sub(v))
			}
			return cur.FromHalfEdge(e)
		})
		if err != nil {
			return nil, 0, err
		}

		composed, err := newDeformation[T](&insertMarkedRelation[T]{
			original: cur,
			inserted: codomain,
			vertex:   codomain.Source(a),
		}).Compose(deformation)
		if err != nil {
			return nil, 0, err
		}
		return composed, nextTo, nil
	}

	// The new vertex lies on the half edge nextTo and subdivides its edge.
	// Combinatorially this is an insertion into the face of nextTo followed
	// by a flip of nextTo: the inserted vertex then has four neighbors, and
	// moving it onto the edge gives the two halves the right vectors.
	combinatorial, err := cur.Combinatorial.InsertAt(nextTo)
	if err != nil {
		return nil, 0, err
	}

	a := -combinatorial.NextAtVertex(nextTo)
	if err := combinatorial.Flip(nextTo); err != nil {
		return nil, 0, err
	}

	// The four half edges leaving the inserted vertex.
	b := combinatorial.NextAtVertex(a)
	c := combinatorial.NextAtVertex(b)
	d := combinatorial.NextAtVertex(c)

	codomain, err := NewTriangulationFromCombinatorial(combinatorial, func(e HalfEdge) Vector[T] {
		switch e.Edge() {
		case a.Edge():
			return symmetric(e, -a, v)
		case b.Edge():
			return symmetric(e, b, cur.FromHalfEdge(cur.PreviousAtVertex(nextTo)).Sub(v))
		case c.Edge():
			return symmetric(e, c, cur.FromHalfEdge(nextTo).Sub(v))
		case d.Edge():
			return symmetric(e, d, cur.FromHalfEdge(cur.NextAtVertex(nextTo)).Sub(v))
		}
		return cur.FromHalfEdge(e)
	})
	if err != nil {
		return nil, 0, err
	}

	composed, err := newDeformation[T](&insertMarkedRelation[T]{
		original:   cur,
		inserted:   codomain,
		vertex:     codomain.Source(a),
		split:      nextTo,
		firstHalf:  -a,
		secondHalf: c,
	}).Compose(deformation)
	if err != nil {
		return nil, 0, err
	}
	return composed, cur.PreviousAtVertex(nextTo), nil
}

// Slit cuts the surface open along the edge of he. The cut duplicates the
// edge: the face at the reverse of he is sewn to a copy of the edge instead,
// and the two copies become boundary half edges of the cut surface.
func (t *Triangulation[T]) Slit(he HalfEdge) (*Deformation[T], error) {
	combinatorial, err := t.Combinatorial.Slit(he)
	if err != nil {
		return nil, err
	}
	added := HalfEdge(t.Combinatorial.maxEdge() + 1)

	codomain, err := NewTriangulationFromCombinatorial(combinatorial, func(e HalfEdge) Vector[T] {
		switch e {
		case added:
			return t.FromHalfEdge(he)
		case -added:
			return t.FromHalfEdge(he).Neg()
		}
		return t.FromHalfEdge(e)
	})
	if err != nil {
		return nil, err
	}

	return newDeformation[T](&slitRelation[T]{
		closed: t,
		slit:   codomain,
		along:  he,
		added:  added,
	}), nil
}
