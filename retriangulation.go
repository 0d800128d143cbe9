package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
)

// A frame fixes a direction at a vertex of a triangulation: a ray lying in
// the sector of a half edge. Relations between two triangulations of the
// same flat surface use pairs of frames to carry directions from one to the
// other; rotating by the same angle from matching frames reaches matching
// directions.
type frame[T Scalar[T]] struct {
	sector HalfEdge
	ray    Vector[T]
}

// seedFunc produces matching frames at the source vertex of a domain sector
// and at the corresponding vertex of the codomain. It fails for vertices
// without a counterpart.
type seedFunc[T Scalar[T]] func(sector HalfEdge) (frame[T], frame[T], bool)

// transportSector carries a direction lying in a sector at a domain vertex
// into the codomain: it measures the rotation from the domain frame to the
// direction and reproduces that rotation from the codomain frame.
func transportSector[T Scalar[T]](dom *Triangulation[T], df frame[T], cod *Triangulation[T], cf frame[T], sector HalfEdge, direction Vector[T]) HalfEdge {
	turns := turnsBetween(dom, df.sector, df.ray, sector, direction)
	return alignSector(cod, cf.sector, cf.ray, direction, turns)
}

// transportPoint maps a point between two triangulations of the same flat
// surface by expressing it as a displacement from a vertex, carrying the
// displacement direction through the seed frames and walking it out in the
// codomain.
func transportPoint[T Scalar[T]](dom, cod *Triangulation[T], seeds seedFunc[T], p Point[T]) (Point[T], error) {
	df, cf, ok := seeds(p.face)
	if !ok {
		return Point[T]{}, errors.Errorf("the vertex of %v has no counterpart", p)
	}
	u, scale := p.offsetScaled()
	if u.IsZero() {
		return PointAtVertex(cod, cod.Source(cf.sector)), nil
	}
	return locate(cod, transportSector(dom, df, cod, cf, p.face, u), u, scale)
}

// retraceConnection maps a saddle connection by reproducing its direction at
// the image vertex and walking the straight segment in the codomain. The
// image is a path of one or more connections; it does not exist when the
// segment runs into a boundary or when its endpoint is not a vertex of the
// codomain.
func retraceConnection[T Scalar[T]](dom, cod *Triangulation[T], seeds seedFunc[T], c SaddleConnection[T]) (Path[T], bool) {
	df, cf, ok := seeds(c.source)
	if !ok {
		return nil, false
	}
	sector := transportSector(dom, df, cod, cf, c.source, c.vector)
	return traceSegment(cod, sector, c.vector)
}

// traceSegment expresses the straight segment v starting at the source vertex
// of sector as a path of saddle connections, splitting at every vertex on the
// way. It fails when the segment runs into a boundary or when its endpoint is
// not a vertex.
func traceSegment[T Scalar[T]](s *Triangulation[T], sector HalfEdge, v Vector[T]) (Path[T], bool) {
	var image Path[T]
	remaining := v
	for {
		hit, arrival, _, ok, err := boundedVertexHit(s, sector, remaining)
		if err != nil || !ok {
			return nil, false
		}
		image = append(image, SaddleConnection[T]{surface: s, source: sector, target: arrival, vector: hit})
		if hit.Equal(remaining) {
			return image, true
		}
		remaining = remaining.Sub(hit)
		sector = continuationSector(s, arrival, remaining)
	}
}

// retracePath maps a path connection by connection, see retraceConnection.
func retracePath[T Scalar[T]](dom, cod *Triangulation[T], seeds seedFunc[T], p Path[T]) (Path[T], bool) {
	var image Path[T]
	for _, c := range p {
		part, ok := retraceConnection(dom, cod, seeds, c)
		if !ok {
			return nil, false
		}
		image = append(image, part...)
	}
	return image, true
}

// boundedVertexHit walks from the source vertex of sector along the segment
// v, whose direction must lie in that sector, and returns the position of
// the first vertex on the segment together with the sector of arrival there
// and the chain of half edges traversed: an edge path from the start vertex
// to the hit vertex homotopic to the initial piece of the segment, whose
// vectors sum to the hit position. It reports failure when the segment ends
// strictly inside a face or an edge, i.e. when no vertex lies on it.
func boundedVertexHit[T Scalar[T]](s *Triangulation[T], sector HalfEdge, v Vector[T]) (Vector[T], HalfEdge, []HalfEdge, bool, error) {
	e1 := s.FromHalfEdge(sector)
	if e1.CCW(v) == Collinear {
		rest := v.Sub(e1)
		if rest.IsZero() || rest.OrientationTo(v) == SameDirection {
			return e1, -sector, []HalfEdge{sector}, true, nil
		}
		// The segment ends inside the edge.
		return Vector[T]{}, 0, nil, false, nil
	}
	next := s.NextInFace(sector)
	e2 := e1.Add(s.FromHalfEdge(next))
	chain := []HalfEdge{sector, next}
	if v.CCW(e2) == Collinear {
		// Along the diagonal to the far corner of the starting face.
		if v.OrientationTo(e2) != SameDirection {
			panic("flatsurf: segment cannot pass through its own start vertex")
		}
		rest := v.Sub(e2)
		if rest.IsZero() || rest.OrientationTo(v) == SameDirection {
			return e2, s.PreviousInFace(sector), chain, true, nil
		}
		return Vector[T]{}, 0, nil, false, nil
	}
	if d := e1.Cross(e2); d.Sub(v.Cross(e2)).Sub(e1.Cross(v)).Sign() >= 0 {
		// The segment ends in the starting face without reaching a vertex.
		return Vector[T]{}, 0, nil, false, nil
	}
	ref := -next
	w := e2

	for {
		if s.Boundary(ref) {
			return Vector[T]{}, 0, nil, false, errors.Errorf("segment leaves the surface through the boundary at %v", ref)
		}
		far := w.Add(s.FromHalfEdge(ref)).Add(s.FromHalfEdge(s.NextInFace(ref)))
		side := v.CCW(far)
		if side == Collinear {
			if v.OrientationTo(far) != SameDirection {
				panic("flatsurf: segment cannot pass through its own start vertex")
			}
			rest := v.Sub(far)
			if rest.IsZero() || rest.OrientationTo(v) == SameDirection {
				chain = append(chain, ref, s.NextInFace(ref))
				return far, s.PreviousInFace(ref), chain, true, nil
			}
			// The far corner lies beyond the end of the segment.
			return Vector[T]{}, 0, nil, false, nil
		}
		e1 := s.FromHalfEdge(ref)
		e2 := e1.Add(s.FromHalfEdge(s.NextInFace(ref)))
		rel := v.Sub(w)
		if d := e1.Cross(e2); d.Sub(rel.Cross(e2)).Sub(e1.Cross(rel)).Sign() >= 0 {
			// The segment ends in this face without reaching a vertex.
			return Vector[T]{}, 0, nil, false, nil
		}
		if side == CounterClockwise {
			chain = append(chain, ref, s.NextInFace(ref))
			ref = -s.NextInFace(ref)
			w = far
		} else {
			ref = -s.PreviousInFace(ref)
		}
	}
}

// flipRelation relates a surface to the surface obtained by flipping a
// single half edge.
type flipRelation[T Scalar[T]] struct {
	dom, cod *Triangulation[T]
	flipped  HalfEdge
}

func (r *flipRelation[T]) domain() *Triangulation[T]   { return r.dom }
func (r *flipRelation[T]) codomain() *Triangulation[T] { return r.cod }

func (r *flipRelation[T]) seeds(sector HalfEdge) (frame[T], frame[T], bool) {
	seed := sector
	for seed.Edge() == r.flipped.Edge() {
		seed = r.dom.NextAtVertex(seed)
		if seed == sector {
			return frame[T]{}, frame[T]{}, false
		}
	}
	ray := r.dom.FromHalfEdge(seed)
	return frame[T]{sector: seed, ray: ray}, frame[T]{sector: seed, ray: ray}, true
}

func (r *flipRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	return transportPoint(r.dom, r.cod, r.seeds, p)
}

func (r *flipRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	return retracePath(r.dom, r.cod, r.seeds, p)
}

func (r *flipRelation[T]) section() (deformationRelation[T], error) {
	return &flipRelation[T]{dom: r.cod, cod: r.dom, flipped: r.flipped}, nil
}

func (r *flipRelation[T]) trivial() bool { return false }

func (r *flipRelation[T]) String() string {
	return fmt.Sprintf("Flip of %v in %v", r.flipped, r.dom)
}

// insertMarkedRelation relates a surface to the surface with one additional
// marked point, either in the interior of a face or in the interior of an
// edge. In the latter case the split edge of the original surface turns into
// a path of two half edges through the new vertex.
type insertMarkedRelation[T Scalar[T]] struct {
	original, inserted *Triangulation[T]
	vertex             Vertex // the marked point, a vertex of inserted

	// split is the half edge of original whose edge was subdivided, zero for
	// an insertion in the interior of a face; firstHalf and secondHalf are
	// the half edges of inserted that make up its image.
	split      HalfEdge
	firstHalf  HalfEdge
	secondHalf HalfEdge

	inverted bool
}

func (r *insertMarkedRelation[T]) domain() *Triangulation[T] {
	if r.inverted {
		return r.inserted
	}
	return r.original
}

func (r *insertMarkedRelation[T]) codomain() *Triangulation[T] {
	if r.inverted {
		return r.original
	}
	return r.inserted
}

func (r *insertMarkedRelation[T]) seeds(sector HalfEdge) (frame[T], frame[T], bool) {
	if !r.inverted {
		switch {
		case r.split != 0 && sector == r.split:
			ray := r.original.FromHalfEdge(r.split)
			return frame[T]{sector: r.split, ray: ray}, frame[T]{sector: r.firstHalf, ray: ray}, true
		case r.split != 0 && sector == -r.split:
			ray := r.original.FromHalfEdge(-r.split)
			return frame[T]{sector: -r.split, ray: ray}, frame[T]{sector: -r.secondHalf, ray: ray}, true
		default:
			ray := r.original.FromHalfEdge(sector)
			return frame[T]{sector: sector, ray: ray}, frame[T]{sector: sector, ray: ray}, true
		}
	}
	if r.inserted.Source(sector) == r.vertex {
		return frame[T]{}, frame[T]{}, false
	}
	seed := sector
	for !r.sharedLabel(seed) {
		seed = r.inserted.NextAtVertex(seed)
		if seed == sector {
			return frame[T]{}, frame[T]{}, false
		}
	}
	ray := r.inserted.FromHalfEdge(seed)
	return frame[T]{sector: seed, ray: ray}, frame[T]{sector: seed, ray: ray}, true
}

// sharedLabel reports whether a half edge of the inserted surface exists in
// the original surface with the same vector. The insertion allocates its new
// edges past the largest original id, and splitting the edge of split turns
// its label into the flipped diagonal.
func (r *insertMarkedRelation[T]) sharedLabel(he HalfEdge) bool {
	if he.Edge() > r.original.maxEdge() {
		return false
	}
	return r.split == 0 || he.Edge() != r.split.Edge()
}

func (r *insertMarkedRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	return transportPoint(r.domain(), r.codomain(), r.seeds, p)
}

func (r *insertMarkedRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	return retracePath(r.domain(), r.codomain(), r.seeds, p)
}

func (r *insertMarkedRelation[T]) section() (deformationRelation[T], error) {
	inverse := *r
	inverse.inverted = !r.inverted
	return &inverse, nil
}

func (r *insertMarkedRelation[T]) trivial() bool { return false }

func (r *insertMarkedRelation[T]) String() string {
	if r.inverted {
		return fmt.Sprintf("Removal of the marked point %v of %v", r.vertex, r.inserted)
	}
	return fmt.Sprintf("Insertion of the marked point %v into %v", r.vertex, r.original)
}

// slitRelation relates a surface to the surface cut open along one of its
// edges. Points and connections meeting the cut only map in one direction.
type slitRelation[T Scalar[T]] struct {
	closed, slit *Triangulation[T]
	along        HalfEdge // half edge of closed along which slit was cut
	added        HalfEdge // half edge of slit carrying the second copy

	inverted bool
}

func (r *slitRelation[T]) domain() *Triangulation[T] {
	if r.inverted {
		return r.slit
	}
	return r.closed
}

func (r *slitRelation[T]) codomain() *Triangulation[T] {
	if r.inverted {
		return r.closed
	}
	return r.slit
}

func (r *slitRelation[T]) seeds(sector HalfEdge) (frame[T], frame[T], bool) {
	if !r.inverted {
		if sector == -r.along {
			// The reverse of the cut half edge borders the boundary in the
			// slit surface; the second copy of the edge takes its place.
			ray := r.closed.FromHalfEdge(-r.along)
			return frame[T]{sector: -r.along, ray: ray}, frame[T]{sector: -r.added, ray: ray}, true
		}
		ray := r.closed.FromHalfEdge(sector)
		return frame[T]{sector: sector, ray: ray}, frame[T]{sector: sector, ray: ray}, true
	}
	seed := sector
	for seed.Edge() == r.added.Edge() || seed == -r.along {
		seed = r.slit.NextAtVertex(seed)
		if seed == sector {
			return frame[T]{}, frame[T]{}, false
		}
	}
	ray := r.slit.FromHalfEdge(seed)
	return frame[T]{sector: seed, ray: ray}, frame[T]{sector: seed, ray: ray}, true
}

func (r *slitRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	return transportPoint(r.domain(), r.codomain(), r.seeds, p)
}

func (r *slitRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	return retracePath(r.domain(), r.codomain(), r.seeds, p)
}

func (r *slitRelation[T]) section() (deformationRelation[T], error) {
	inverse := *r
	inverse.inverted = !r.inverted
	return &inverse, nil
}

func (r *slitRelation[T]) trivial() bool { return false }

func (r *slitRelation[T]) String() string {
	if r.inverted {
		return fmt.Sprintf("Gluing of the slit along %v of %v", r.along, r.slit)
	}
	return fmt.Sprintf("Slit along %v of %v", r.along, r.closed)
}

// pathPair records that a path of the domain maps to a path of the codomain.
type pathPair[T Scalar[T]] struct {
	preimage Path[T]
	image    Path[T]
}

// genericRelation relates two triangulations of the same flat surface
// through an explicit table of path pairs. The table must contain, for every
// vertex shared by both surfaces, a pair of paths leaving that vertex in the
// same direction; everything else is derived by transporting directions.
type genericRelation[T Scalar[T]] struct {
	dom, cod *Triangulation[T]
	table    []pathPair[T]
}

func newGenericRelation[T Scalar[T]](dom, cod *Triangulation[T], table []pathPair[T]) *genericRelation[T] {
	for _, pair := range table {
		if len(pair.preimage) == 0 || len(pair.image) == 0 {
			panic("flatsurf: related paths must not be empty")
		}
		u, v := pair.preimage[0].Vector(), pair.image[0].Vector()
		if u.CCW(v) != Collinear || u.OrientationTo(v) != SameDirection {
			panic(fmt.Sprintf("flatsurf: related paths must start in the same direction, got %v and %v", u, v))
		}
	}
	return &genericRelation[T]{dom: dom, cod: cod, table: table}
}

func (r *genericRelation[T]) domain() *Triangulation[T]   { return r.dom }
func (r *genericRelation[T]) codomain() *Triangulation[T] { return r.cod }

func (r *genericRelation[T]) seeds(sector HalfEdge) (frame[T], frame[T], bool) {
	vertex := r.dom.Source(sector)
	for _, pair := range r.table {
		first := pair.preimage[0]
		if r.dom.Source(first.Source()) == vertex {
			return frame[T]{sector: first.Source(), ray: first.Vector()},
				frame[T]{sector: pair.image[0].Source(), ray: pair.image[0].Vector()}, true
		}
	}
	return frame[T]{}, frame[T]{}, false
}

func (r *genericRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	return transportPoint(r.dom, r.cod, r.seeds, p)
}

func (r *genericRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	var image Path[T]
connections:
	for _, c := range p {
		for _, pair := range r.table {
			if len(pair.preimage) == 1 && pair.preimage[0].Equal(c) {
				image = append(image, pair.image...)
				continue connections
			}
		}
		part, ok := retraceConnection(r.dom, r.cod, r.seeds, c)
		if !ok {
			return nil, false
		}
		image = append(image, part...)
	}
	return image, true
}

func (r *genericRelation[T]) section() (deformationRelation[T], error) {
	swapped := make([]pathPair[T], 0, len(r.table))
	for _, pair := range r.table {
		swapped = append(swapped, pathPair[T]{preimage: pair.image, image: pair.preimage})
	}
	return &genericRelation[T]{dom: r.cod, cod: r.dom, table: swapped}, nil
}

func (r *genericRelation[T]) trivial() bool { return false }

func (r *genericRelation[T]) String() string {
	return fmt.Sprintf("Retriangulation of %v as %v", r.dom, r.cod)
}
