package flatsurf

import (
	"fmt"
)

// EliminateMarkedPoints removes all vertices of total angle 2π that can be
// removed, i.e., all marked points with at least one neighboring vertex.
// Each such vertex is translated onto a neighbor with [Triangulation.Add],
// collapsing the connecting edge; the returned deformation relates the
// original surface to the one without the marked points.
//
// A surface whose only vertex is marked keeps that vertex.
func (t *Triangulation[T]) EliminateMarkedPoints() (*Deformation[T], error) {
	// Pick the edge to collapse: prefer moving a vertex of low degree, and
	// among its edges one of maximal length, which tends to keep the
	// remaining triangles fat.
	var collapse HalfEdge
	for _, vertex := range t.Vertices() {
		if t.Angle(vertex) != 1 {
			continue
		}
		if collapse != 0 && len(t.Outgoing(vertex)) > len(t.Outgoing(t.Source(collapse))) {
			continue
		}
		for _, outgoing := range t.Outgoing(vertex) {
			if t.Target(outgoing) == vertex {
				continue
			}
			if collapse != 0 && t.FromHalfEdge(collapse).Hypot2().Cmp(t.FromHalfEdge(outgoing).Hypot2()) > 0 {
				continue
			}
			collapse = outgoing
		}
	}
	if collapse == 0 {
		return TrivialDeformation(t), nil
	}

	marked := t.Source(collapse)

	// Translate the marked vertex onto the target of collapse: edges leaving
	// it shrink by the vector of collapse, edges arriving grow by it, and
	// loops at the vertex just translate along.
	delta := &OddHalfEdgeMap[T]{}
	for _, e := range t.Edges() {
		he := e.Positive()
		from, to := t.Source(he) == marked, t.Target(he) == marked
		switch {
		case from && to:
		case from:
			delta.Set(he, t.FromHalfEdge(collapse).Neg())
		case to:
			delta.Set(he, t.FromHalfEdge(collapse))
		}
	}

	shift, err := t.Add(delta)
	if err != nil {
		return nil, err
	}
	codomain := shift.Codomain()
	if len(codomain.Vertices()) >= len(t.Vertices()) {
		panic(fmt.Sprintf("flatsurf: eliminating %v did not reduce the number of vertices of %v", marked, t))
	}

	// The shift knows how the surface moved, but its mapping only answers
	// for half edges. Rebuild the correspondence as an explicit table of
	// related paths so that any connection can be pulled back later.
	var relation []pathPair[T]

	// Half edges away from the marked vertex keep their geometric meaning
	// under the shift.
	for _, preimage := range t.HalfEdges() {
		if t.Source(preimage) == marked || t.Target(preimage) == marked {
			continue
		}
		image, err := shift.MapConnection(SaddleConnectionFromHalfEdge(t, preimage))
		if err != nil || len(image) == 0 {
			panic(fmt.Sprintf("flatsurf: %v is not next to the eliminated point %v but it cannot be found after the shift by %v", preimage, marked, delta))
		}
		relation = append(relation, pathPair[T]{
			preimage: Path[T]{SaddleConnectionFromHalfEdge(t, preimage)},
			image:    image,
		})
	}

	// Half edges of the codomain pull back by turning: find a connection
	// known in both surfaces at the same vertex, measure the angle to the
	// half edge there, and reproduce that angle in the original surface. The
	// pullback consists of two connections when it passes through the
	// eliminated point.
	for _, he := range codomain.HalfEdges() {
		image := SaddleConnectionFromHalfEdge(codomain, he)

		found := false
		for _, rel := range relation {
			base := rel.image[0]
			if codomain.Source(base.Source()) != codomain.Source(image.Source()) {
				continue
			}
			basePre := rel.preimage[0]

			source := alignSector(t, basePre.Source(), basePre.Vector(), image.Vector(), base.Angle(image))
			first, err := SaddleConnectionInSector(t, source, image.Vector())
			if err != nil {
				return nil, err
			}

			preimage := Path[T]{first}
			if !first.Vector().Equal(image.Vector()) {
				rest := image.Vector().Sub(first.Vector())
				if rest.OrientationTo(image.Vector()) != SameDirection {
					panic(fmt.Sprintf("flatsurf: partial pullback %v of %v can only be shorter, never longer", first, image))
				}
				second, err := SaddleConnectionInPlane(t, t.NextAtVertex(first.Target()), rest)
				if err != nil {
					return nil, err
				}
				preimage = append(preimage, second)
			}

			relation = append(relation, pathPair[T]{preimage: preimage, image: Path[T]{image}})
			found = true
			break
		}
		if !found {
			panic(fmt.Sprintf("flatsurf: cannot pull %v back from %v to %v, all half edges at its source connect to the eliminated point", image, codomain, t))
		}
	}

	retriangulation := newDeformation[T](newGenericRelation(t, codomain, relation))

	// There might be further marked points; eliminate them as well.
	rest, err := codomain.EliminateMarkedPoints()
	if err != nil {
		return nil, err
	}
	return rest.Compose(retriangulation)
}
