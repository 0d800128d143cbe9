package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// flipCandidate is a half edge that has to be flipped while a shift is
// carried out, together with the polynomial whose first root in (0, 1] is
// the time of the crossing that forces the flip.
type flipCandidate[T Scalar[T]] struct {
	halfEdge HalfEdge
	det      quadratic[T]
}

// Add deforms the triangulation by adding shift.Get(he) to the vector of
// every half edge he, moving the geometry along the straight-line
// interpolation between the two vector assignments. The combinatorial
// structure follows along: when a vertex would cross the interior of an
// edge, that edge is flipped just before the crossing, and edges whose
// vectors reach zero at the end of the interpolation are collapsed in the
// codomain, merging their endpoints.
//
// The interpolation must stay non-degenerate strictly inside the unit time
// interval, i.e., no edge vector may vanish at a time t in (0, 1).
// Vanishing exactly at t = 1 is fine; [Triangulation.EliminateMarkedPoints]
// relies on it to remove trivial vertices.
func (t *Triangulation[T]) Add(shift *OddHalfEdgeMap[T]) (*Deformation[T], error) {
	var zero T
	one := zero.One()

	// Find the edges that become trivial at time 1. A vector that crosses
	// zero strictly before that leaves no consistent surface to deform
	// through.
	var collapsing EdgeSet
	for _, he := range t.HalfEdges() {
		v := t.FromHalfEdge(he)
		s := shift.Get(he)
		if v.CCW(s) != Collinear {
			continue
		}
		switch v.OrientationTo(v.Add(s)) {
		case SameDirection:
		case OppositeDirection:
			return nil, errors.Errorf("shift %v would collapse %v at a time t in (0, 1)", s, he)
		case Orthogonal:
			collapsing.Insert(he.Edge())
		}
	}

	// Search for the first vertex that crosses the interior of an edge: in
	// every face corner the signed area spanned by the two adjacent edges is
	// a quadratic polynomial in time, and a root of that polynomial means
	// the corner degenerates.
	var flip *flipCandidate[T]
	for _, vertex := range t.Vertices() {
		outgoing := t.Outgoing(vertex)
		for i, he := range outgoing {
			if t.Boundary(he) {
				continue
			}
			he2 := outgoing[(i+1)%len(outgoing)]
			e, s := t.FromHalfEdge(he), shift.Get(he)
			e2, s2 := t.FromHalfEdge(he2), shift.Get(he2)

			det := quadratic[T]{
				a: s.Cross(s2),
				b: e.Cross(s2).Add(s.Cross(e2)),
				c: e.Cross(e2),
			}
			if det.c.Sign() <= 0 {
				panic(fmt.Sprintf("flatsurf: face corner at %v spans non-positive area in %v", he, t))
			}
			if det.positiveOn01() {
				continue
			}

			// A corner that degenerates because one of its edges collapses
			// entirely is handled by the collapse machinery, not by a flip.
			if collapsing.Contains(he.Edge()) || collapsing.Contains(he2.Edge()) {
				continue
			}

			// The corner degenerates at the first root of det. The vertex only
			// moves onto the interior of the opposite edge if the two adjacent
			// edges then point in opposite directions; if they point the same
			// way, the far vertex of this face is the one crossing an edge and
			// its own corner will demand the flip.
			dot := quadratic[T]{
				a: s.Dot(s2),
				b: e.Dot(s2).Add(s.Dot(e2)),
				c: e.Dot(e2),
			}
			switch sign := det.signAtFirstRoot(dot); {
			case sign == 0:
				panic(fmt.Sprintf("flatsurf: edges at the corner %v cannot be orthogonal when their area vanishes", he))
			case sign > 0:
				continue
			}

			proposed := &flipCandidate[T]{halfEdge: t.NextInFace(he), det: det}
			if flip == nil || proposed.det.cmpFirstRoot(flip.det) < 0 {
				flip = proposed
			}
		}
	}

	if flip != nil {
		// Flipping right away could loop forever, flipping the same edges
		// back and forth without progress, and the quadrilateral might not
		// even be convex yet. Instead move a dyadic step closer to the
		// critical time, where the flip is valid, and recurse on what is
		// left of the shift.
		for k := 1; ; k++ {
			if !flip.det.rootAfterDyadic(k) {
				continue
			}
			pow := one
			for i := 0; i < k; i++ {
				pow = double(pow)
			}
			logger().Debug("stepping towards critical time before flip",
				zap.Stringer("halfEdge", flip.halfEdge),
				zap.String("step", "1/"+pow.String()))

			partial := &OddHalfEdgeMap[T]{}
			for _, e := range t.Edges() {
				v, ok := shift.Get(e.Positive()).Div(pow)
				if !ok {
					return nil, errors.Wrapf(ErrNotImplemented,
						"cannot move towards the critical time of %v, %v is not divisible by %v in the coordinate ring",
						flip.halfEdge, shift.Get(e.Positive()), pow)
				}
				partial.Set(e.Positive(), v)
			}

			deformation, err := t.Add(partial)
			if err != nil {
				return nil, err
			}
			closer := deformation.Codomain().Clone()

			remaining := &OddHalfEdgeMap[T]{}
			for _, e := range t.Edges() {
				remaining.Set(e.Positive(), shift.Get(e.Positive()).Sub(partial.Get(e.Positive())))
			}
			tracked := Track(closer.Combinatorial, remaining,
				func(m *OddHalfEdgeMap[T], c *Combinatorial, flipped HalfEdge) *OddHalfEdgeMap[T] {
					m.Set(flipped, m.Get(-c.NextInFace(flipped)).Add(m.Get(-c.PreviousInFace(flipped))))
					return m
				},
				nil)

			if t.Convex(flip.halfEdge, true) {
				if err := closer.Flip(flip.halfEdge); err != nil {
					return nil, err
				}
				deformation, err = newDeformation[T](&flipRelation[T]{
					dom:     deformation.Codomain(),
					cod:     closer,
					flipped: flip.halfEdge,
				}).Compose(deformation)
				if err != nil {
					return nil, err
				}
			}
			tracked.Forget()

			rest, err := closer.Add(remaining)
			if err != nil {
				return nil, err
			}
			return rest.Compose(deformation)
		}
	}

	// No vertex crosses an edge, so the shift only moves vectors and, at
	// time 1, collapses the trivial edges on a copy of the combinatorial
	// structure.
	combinatorial := t.Combinatorial.Clone()

	// Collapsing an edge identifies the remaining edge pairs of its two
	// faces. preimages records, for every surviving half edge, the original
	// half edges that were folded onto it.
	preimages := &HalfEdgeMap[map[HalfEdge]bool]{}
	for _, he := range t.HalfEdges() {
		preimages.Set(he, map[HalfEdge]bool{he: true})
	}
	trackedPreimages := Track(combinatorial, preimages, nil,
		func(m *HalfEdgeMap[map[HalfEdge]bool], c *Combinatorial, collapsed HalfEdge) *HalfEdgeMap[map[HalfEdge]bool] {
			copyInto := func(from, to HalfEdge) {
				set := m.Get(to)
				if set == nil {
					set = map[HalfEdge]bool{}
					m.Set(to, set)
				}
				for he := range m.Get(from) {
					set[he] = true
				}
			}
			equate := func(a, b HalfEdge) {
				copyInto(a, b)
				copyInto(b, a)
			}
			for _, col := range [2]HalfEdge{collapsed.Edge().Positive(), collapsed.Edge().Negative()} {
				equate(c.NextInFace(col), -c.PreviousInFace(col))
				equate(-c.NextInFace(col), c.PreviousInFace(col))
			}
			return m
		})

	vectors := &OddHalfEdgeMap[T]{}
	for _, e := range t.Edges() {
		vectors.Set(e.Positive(), t.FromHalfEdge(e.Positive()).Add(shift.Get(e.Positive())))
	}
	trackedVectors := Track(combinatorial, vectors, nil,
		func(m *OddHalfEdgeMap[T], c *Combinatorial, collapsed HalfEdge) *OddHalfEdgeMap[T] {
			if !m.Get(collapsed).IsZero() {
				panic(fmt.Sprintf("flatsurf: can only collapse half edges that have become trivial, %v still has vector %v", collapsed, m.Get(collapsed)))
			}
			return m
		})

	trackedCollapsing := Track(combinatorial, &collapsing, nil,
		func(s *EdgeSet, c *Combinatorial, collapsed HalfEdge) *EdgeSet {
			if !s.Contains(collapsed.Edge()) {
				panic(fmt.Sprintf("flatsurf: can only collapse edges that were found to collapse at time 1, not %v", collapsed))
			}
			// The dropped labels disappear with the collapse; their edges
			// live on under the kept labels, which are already members when
			// trivial themselves.
			s.Remove(collapsed.Edge())
			s.Remove(c.PreviousInFace(collapsed).Edge())
			s.Remove(c.PreviousInFace(-collapsed).Edge())
			return s
		})

	if !collapsing.Empty() {
		logger().Debug("shift collapses trivial edges",
			zap.Int("edges", len(collapsing.Slice())))
	}
	for !collapsing.Empty() {
		if err := combinatorial.Collapse(collapsing.Slice()[0].Positive()); err != nil {
			return nil, err
		}
	}

	trackedPreimages.Forget()
	trackedVectors.Forget()
	trackedCollapsing.Forget()

	codomain, err := NewTriangulationFromCombinatorial(combinatorial, vectors.Get)
	if err != nil {
		return nil, err
	}

	imageOf := &HalfEdgeMap[HalfEdge]{}
	for _, image := range codomain.HalfEdges() {
		for preimage := range preimages.Get(image) {
			imageOf.Set(preimage, image)
		}
	}

	return newDeformation[T](&shiftRelation[T]{
		dom:     t,
		cod:     codomain,
		shift:   shift.Clone(),
		imageOf: imageOf,
	}), nil
}

// shiftRelation relates a surface to the surface with the same combinatorial
// structure and translated edge vectors, except that edges whose vectors
// were translated to zero have been collapsed.
type shiftRelation[T Scalar[T]] struct {
	dom, cod *Triangulation[T]
	shift    *OddHalfEdgeMap[T]

	// imageOf maps every half edge of the domain to the half edge of the
	// codomain it was folded onto by the collapses, zero for the collapsed
	// half edges themselves.
	imageOf *HalfEdgeMap[HalfEdge]
}

func (r *shiftRelation[T]) domain() *Triangulation[T]   { return r.dom }
func (r *shiftRelation[T]) codomain() *Triangulation[T] { return r.cod }

// trivialized reports whether the edge of he collapses under the shift.
func (r *shiftRelation[T]) trivialized(he HalfEdge) bool {
	return r.dom.FromHalfEdge(he).Add(r.shift.Get(he)).IsZero()
}

func (r *shiftRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	f := p.face
	n := r.dom.NextInFace(f)
	prev := r.dom.PreviousInFace(f)
	var zero T

	// Barycentric coordinates are preserved by the interpolation. When an
	// edge of the face collapses, two of the corners merge and their weights
	// add up; when all of them collapse, the face shrinks to a single
	// vertex. Note that a face never loses exactly two of its edges since
	// the three vectors sum to zero.
	switch {
	case r.trivialized(f) && r.trivialized(n):
		return r.mergedVertex(f), nil
	case r.trivialized(f):
		return NewPoint(r.cod, r.imageOf.Get(n), p.a.Add(p.b), p.c, zero)
	case r.trivialized(n):
		return NewPoint(r.cod, r.imageOf.Get(f), p.a, p.b.Add(p.c), zero)
	case r.trivialized(prev):
		return NewPoint(r.cod, r.imageOf.Get(f), p.a.Add(p.c), p.b, zero)
	}
	return NewPoint(r.cod, r.imageOf.Get(f), p.a, p.b, p.c)
}

// mergedVertex returns the vertex of the codomain that the source of sector
// was merged into, found by searching outward along collapsed edges.
func (r *shiftRelation[T]) mergedVertex(sector HalfEdge) Point[T] {
	seen := map[HalfEdge]bool{}
	queue := []HalfEdge{sector}
	for len(queue) > 0 {
		at := queue[0]
		queue = queue[1:]
		for _, out := range r.dom.Outgoing(r.dom.Source(at)) {
			if seen[out] {
				continue
			}
			seen[out] = true
			if image := r.imageOf.Get(out); image != 0 {
				return PointAtVertex(r.cod, r.cod.Source(image))
			}
			// The edge collapsed, so the far endpoint merged with this one.
			queue = append(queue, -out)
		}
	}
	panic(fmt.Sprintf("flatsurf: no half edge survives the collapse near %v in %v", sector, r.dom))
}

// seeds pairs the sector of a surviving half edge at the source vertex of
// sector with its sector in the codomain. The interpolation moves both rays
// of such a pair continuously, so rotations measured from one carry over to
// the other.
func (r *shiftRelation[T]) seeds(sector HalfEdge) (frame[T], frame[T], bool) {
	seed := sector
	for {
		if image := r.imageOf.Get(seed); image != 0 {
			return frame[T]{sector: seed, ray: r.dom.FromHalfEdge(seed)},
				frame[T]{sector: image, ray: r.cod.FromHalfEdge(image)}, true
		}
		seed = r.dom.NextAtVertex(seed)
		if seed == sector {
			return frame[T]{}, frame[T]{}, false
		}
	}
}

// imageVector returns the holonomy of the deformed connection. The shift
// moves the endpoints of every edge path homotopic to the connection, so the
// image holonomy is the original vector plus the shift accumulated along
// such a path.
func (r *shiftRelation[T]) imageVector(c SaddleConnection[T]) (Vector[T], bool) {
	hit, _, chain, ok, err := boundedVertexHit(r.dom, c.source, c.vector)
	if err != nil || !ok || !hit.Equal(c.vector) {
		return Vector[T]{}, false
	}
	w := c.vector
	for _, he := range chain {
		w = w.Add(r.shift.Get(he))
	}
	return w, true
}

func (r *shiftRelation[T]) mapPath(path Path[T]) (Path[T], bool) {
	image := Path[T]{}
	for _, c := range path {
		// Saddle connections along half edges follow the shift directly.
		if c.Target() == -c.Source() && c.Vector().Equal(r.dom.FromHalfEdge(c.Source())) {
			if to := r.imageOf.Get(c.Source()); to != 0 {
				image = append(image, SaddleConnectionFromHalfEdge(r.cod, to))
			}
			continue
		}
		// Other connections map to the segment with the deformed holonomy,
		// traced out from the transported source sector.
		w, ok := r.imageVector(c)
		if !ok {
			return nil, false
		}
		if w.IsZero() {
			// The connection collapses to a single vertex.
			continue
		}
		df, cf, ok := r.seeds(c.source)
		if !ok {
			return nil, false
		}
		turns := turnsBetween(r.dom, df.sector, df.ray, c.source, c.vector)
		mapped, ok := traceSegment(r.cod, alignSector(r.cod, cf.sector, cf.ray, w, turns), w)
		if !ok {
			return nil, false
		}
		image = append(image, mapped...)
	}
	return image, true
}

func (r *shiftRelation[T]) section() (deformationRelation[T], error) {
	for _, he := range r.dom.HalfEdges() {
		if r.imageOf.Get(he) != he {
			return nil, errors.Wrapf(ErrNotImplemented, "cannot invert %v since it collapses half edges", r)
		}
	}
	inverse := &OddHalfEdgeMap[T]{}
	for _, e := range r.dom.Edges() {
		inverse.Set(e.Positive(), r.shift.Get(e.Positive()).Neg())
	}
	return &shiftRelation[T]{dom: r.cod, cod: r.dom, shift: inverse, imageOf: r.imageOf}, nil
}

func (r *shiftRelation[T]) trivial() bool {
	for _, e := range r.dom.Edges() {
		if !r.shift.Get(e.Positive()).IsZero() {
			return false
		}
	}
	return r.dom.Equal(r.cod)
}

func (r *shiftRelation[T]) String() string {
	return fmt.Sprintf("Shift of %v to %v", r.dom, r.cod)
}
