package flatsurf

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Equivalence describes when two flat triangulations are considered the
// same: up to a relabeling of their half edges, up to a linear
// transformation from a prescribed group, or up to a custom normalization.
// Build instances through [CombinatorialEquivalence], [UnlabeledEquivalence],
// [OrthogonalEquivalence], [AreaPreservingEquivalence] and
// [LinearEquivalence].
//
// An equivalence assigns to every surface a canonical code, see
// [NewEquivalenceClass]; two surfaces are equivalent iff their codes are
// equal.
type Equivalence[T Scalar[T]] struct {
	relation equivalenceRelation[T]
}

// EdgePredicate selects the edges an equivalence gets to see; codes are
// computed as if the rejected edges were not part of the triangulation.
//
// A nil predicate rejects exactly the edges whose Delaunay condition is
// [Ambiguous]. On a Delaunay triangulation these are the edges interior to
// the faces of the Delaunay cell decomposition, so by default the code of a
// Delaunay triangulation only depends on its cells and not on how they were
// cut into triangles.
type EdgePredicate[T Scalar[T]] func(*Triangulation[T], Edge) bool

// Normalization chooses the matrix that normalizes a walk of the half-edge
// graph. It receives the first two half edges the walk encounters, in
// counterclockwise order at their common source vertex for an orientation
// preserving walk and in clockwise order for an orientation reversing one,
// and must return a matrix with positive determinant in the former case and
// negative determinant in the latter.
type Normalization[T Scalar[T]] func(*Triangulation[T], HalfEdge, HalfEdge) (Linear[T], error)

// normalizationGroup is the subgroup of GL(2) that a linear equivalence
// quotients by, when no custom normalization is given.
type normalizationGroup int

const (
	trivialGroup normalizationGroup = iota
	orthogonalGroup
	specialLinearGroup
	generalLinearGroup
)

// equivalenceRelation is the implementation behind Equivalence. code turns a
// surface into its canonical code, a relabeled (and possibly transformed)
// representative, and the number of walkers realizing the code, i.e. the
// order of the surface's automorphism group under the relation.
type equivalenceRelation[T Scalar[T]] interface {
	code(*Triangulation[T]) (*EquivalenceCode[T], *Triangulation[T], int, error)
	equal(equivalenceRelation[T]) bool
	String() string
}

// CombinatorialEquivalence considers surfaces equal when their half-edge
// graphs are isomorphic, ignoring all geometry. When oriented is set, only
// isomorphisms preserving the orientation of the surface are allowed.
func CombinatorialEquivalence[T Scalar[T]](oriented bool, predicate EdgePredicate[T]) Equivalence[T] {
	return Equivalence[T]{&combinatorialEquivalence[T]{oriented: oriented, predicate: predicate}}
}

// UnlabeledEquivalence considers surfaces equal when they differ only by a
// relabeling of their half edges, i.e. when they are isomorphic as geometric
// surfaces without applying any linear transformation.
func UnlabeledEquivalence[T Scalar[T]](predicate EdgePredicate[T]) Equivalence[T] {
	return Equivalence[T]{&linearEquivalence[T]{oriented: true, group: trivialGroup, predicate: predicate}}
}

// OrthogonalEquivalence considers surfaces equal when they differ by a
// rotation, or by a rotoreflection when oriented is unset.
//
// Normalizing modulo the orthogonal group requires square roots, which the
// scalar types of this package cannot represent exactly, so computing codes
// under this equivalence currently fails with [ErrNotImplemented].
func OrthogonalEquivalence[T Scalar[T]](oriented bool, predicate EdgePredicate[T]) Equivalence[T] {
	return Equivalence[T]{&linearEquivalence[T]{oriented: oriented, group: orthogonalGroup, predicate: predicate}}
}

// AreaPreservingEquivalence considers surfaces equal when they differ by an
// area preserving linear transformation, i.e. an element of SL(2), or of
// SL±(2) when oriented is unset, and a relabeling.
func AreaPreservingEquivalence[T Scalar[T]](oriented bool, predicate EdgePredicate[T]) Equivalence[T] {
	return Equivalence[T]{&linearEquivalence[T]{oriented: oriented, group: specialLinearGroup, predicate: predicate}}
}

// LinearEquivalence considers surfaces equal when they differ by an
// invertible linear transformation and a relabeling. With a nil
// normalization the full group GL(2) is quotiented out, restricted to
// orientation preserving transformations when oriented is set; a custom
// normalization restricts the group to the matrices it returns.
func LinearEquivalence[T Scalar[T]](oriented bool, normalization Normalization[T], predicate EdgePredicate[T]) Equivalence[T] {
	return Equivalence[T]{&linearEquivalence[T]{
		oriented:      oriented,
		group:         generalLinearGroup,
		normalization: normalization,
		predicate:     predicate,
	}}
}

// Equal reports whether the two equivalences are built from the same kind,
// orientedness and normalization group. Edge predicates and custom
// normalization functions cannot be compared, so equivalences carrying a
// custom normalization never compare equal.
func (e Equivalence[T]) Equal(o Equivalence[T]) bool {
	return e.relation.equal(o.relation)
}

// Isomorphic reports whether the two surfaces are equivalent, by comparing
// their canonical codes.
func (e Equivalence[T]) Isomorphic(a, b *Triangulation[T]) (bool, error) {
	ca, _, _, err := e.relation.code(a)
	if err != nil {
		return false, err
	}
	cb, _, _, err := e.relation.code(b)
	if err != nil {
		return false, err
	}
	return ca.Equal(cb), nil
}

// Isomorphisms would enumerate the deformations turning a into b. It is not
// implemented; use [Triangulation.Isomorphism] to search for a single
// isomorphism of Delaunay cells.
func (e Equivalence[T]) Isomorphisms(a, b *Triangulation[T]) ([]*Deformation[T], error) {
	return nil, errors.Wrap(ErrNotImplemented, "cannot enumerate the isomorphisms between two surfaces")
}

func (e Equivalence[T]) String() string {
	return e.relation.String()
}

// includedEdges binds the predicate of an equivalence to a surface,
// substituting the default predicate when none was given.
func includedEdges[T Scalar[T]](surface *Triangulation[T], predicate EdgePredicate[T]) func(Edge) bool {
	if predicate == nil {
		return func(e Edge) bool { return surface.DelaunayCondition(e) != Ambiguous }
	}
	return func(e Edge) bool { return predicate(surface, e) }
}

type combinatorialEquivalence[T Scalar[T]] struct {
	oriented  bool
	predicate EdgePredicate[T]
}

func (e *combinatorialEquivalence[T]) code(surface *Triangulation[T]) (*EquivalenceCode[T], *Triangulation[T], int, error) {
	include := includedEdges(surface, e.predicate)
	var walkers []*combinatorialWalker[T]
	for _, he := range surface.HalfEdges() {
		if !include(he.Edge()) {
			continue
		}
		walkers = append(walkers, newCombinatorialWalker(surface, he, 1, include))
		if !e.oriented {
			walkers = append(walkers, newCombinatorialWalker(surface, he, -1, include))
		}
	}
	if len(walkers) == 0 {
		return nil, nil, 0, errors.Errorf("cannot compute a canonical code for %v: every edge is excluded from the equivalence", surface)
	}

	word, winners := minimalWord(walkers, slices.Compare[[]int])

	// Prefer an orientation preserving winner as the blueprint for the
	// representative; they all produce the same code.
	winner := walkers[winners[0]]
	for _, i := range winners {
		if walkers[i].sgn == 1 {
			winner = walkers[i]
			break
		}
	}
	normalized := surface
	if winner.sgn == -1 {
		// The walk read the surface with its orientation reversed. A
		// reflection across the horizontal axis realizes that reading as an
		// honest triangulation.
		var zero T
		one := zero.One()
		reflection, err := surface.ApplyMatrix(Linear[T]{one, zero, zero, one.Neg()})
		if err != nil {
			return nil, nil, 0, err
		}
		normalized = reflection.Codomain()
	}
	representative, err := relabelCanonically(normalized, winner.labeled)
	if err != nil {
		return nil, nil, 0, err
	}

	return &EquivalenceCode[T]{fans: word}, representative, len(winners), nil
}

func (e *combinatorialEquivalence[T]) equal(o equivalenceRelation[T]) bool {
	other, ok := o.(*combinatorialEquivalence[T])
	return ok && e.oriented == other.oriented
}

func (e *combinatorialEquivalence[T]) String() string {
	if e.oriented {
		return "Orientation Preserving Combinatorial Equivalence"
	}
	return "Combinatorial Equivalence"
}

type linearEquivalence[T Scalar[T]] struct {
	oriented      bool
	group         normalizationGroup
	normalization Normalization[T]
	predicate     EdgePredicate[T]
}

func (e *linearEquivalence[T]) code(surface *Triangulation[T]) (*EquivalenceCode[T], *Triangulation[T], int, error) {
	include := includedEdges(surface, e.predicate)
	senses := []int{1}
	if !e.oriented {
		senses = []int{1, -1}
	}
	var walkers []*linearWalker[T]
	for _, he := range surface.HalfEdges() {
		if !include(he.Edge()) {
			continue
		}
		for _, sense := range senses {
			to := rotateVisible(surface, he, sense, include)
			n, err := e.normalize(surface, he, to)
			if err != nil {
				return nil, nil, 0, err
			}
			if (sense == 1) != n.IsOrientationPreserving() {
				return nil, nil, 0, errors.Errorf("normalization %v of the frame (%v, %v) has the wrong orientation", n, he, to)
			}
			walkers = append(walkers, newLinearWalker(surface, he, n, include))
		}
	}
	if len(walkers) == 0 {
		return nil, nil, 0, errors.Errorf("cannot compute a canonical code for %v: every edge is excluded from the equivalence", surface)
	}

	word, winners := minimalWord(walkers, compareLinearCharacters[T])

	winner := walkers[winners[0]]
	transformed, err := surface.ApplyMatrix(winner.normalization)
	if err != nil {
		return nil, nil, 0, err
	}
	representative, err := relabelCanonically(transformed.Codomain(), winner.combinatorial.labeled)
	if err != nil {
		return nil, nil, 0, err
	}

	fans := make([][]int, len(word))
	vectors := make([]Vector[T], len(word))
	for i, character := range word {
		fans[i] = character.fan
		vectors[i] = character.vector
	}
	return &EquivalenceCode[T]{fans: fans, vectors: vectors}, representative, len(winners), nil
}

// normalize picks the matrix normalizing a walk that starts with the frame
// (from, to) of half edges.
func (e *linearEquivalence[T]) normalize(surface *Triangulation[T], from, to HalfEdge) (Linear[T], error) {
	if e.normalization != nil {
		return e.normalization(surface, from, to)
	}
	v, w := surface.FromHalfEdge(from), surface.FromHalfEdge(to)
	switch e.group {
	case trivialGroup:
		return IdentityLinear[T](), nil
	case specialLinearGroup:
		return orthogonalize(v, w)
	case generalLinearGroup:
		return orthonormalize(v, w)
	default:
		return Linear[T]{}, errors.Wrap(ErrNotImplemented, "cannot normalize modulo the orthogonal group")
	}
}

func (e *linearEquivalence[T]) equal(o equivalenceRelation[T]) bool {
	other, ok := o.(*linearEquivalence[T])
	if !ok || e.oriented != other.oriented {
		return false
	}
	if e.normalization != nil || other.normalization != nil {
		return false
	}
	return e.group == other.group
}

func (e *linearEquivalence[T]) String() string {
	if e.normalization != nil {
		return "Custom Linear Equivalence"
	}
	switch e.group {
	case trivialGroup:
		return "Equivalence Modulo Labels"
	case orthogonalGroup:
		return "Orthogonal Equivalence"
	case specialLinearGroup:
		if e.oriented {
			return "Equivalence Modulo SL(2)"
		}
		return "Equivalence Modulo SL±(2)"
	default:
		if e.oriented {
			return "Orientation Preserving Linear Equivalence"
		}
		return "Linear Equivalence"
	}
}

// orthonormalize returns the transformation taking the frame (v, w) to the
// standard frame ((1, 0), (0, 1)). Its determinant has the sign of v×w.
func orthonormalize[T Scalar[T]](v, w Vector[T]) (Linear[T], error) {
	det := v.Cross(w)
	if det.Sign() == 0 {
		return Linear[T]{}, errors.Errorf("cannot normalize the degenerate frame (%v, %v)", v, w)
	}
	n0, ok0 := divExact(w.Y, det)
	n1, ok1 := divExact(v.Y.Neg(), det)
	n2, ok2 := divExact(w.X.Neg(), det)
	n3, ok3 := divExact(v.X, det)
	if !(ok0 && ok1 && ok2 && ok3) {
		return Linear[T]{}, errors.Wrapf(ErrNotImplemented, "normalization of the frame (%v, %v) is not possible over this ring", v, w)
	}
	return Linear[T]{n0, n1, n2, n3}, nil
}

// orthogonalize returns the transformation of determinant ±1 taking the
// frame (v, w) to ((1, 0), (0, |v×w|)).
func orthogonalize[T Scalar[T]](v, w Vector[T]) (Linear[T], error) {
	det := v.Cross(w)
	if det.Sign() == 0 {
		return Linear[T]{}, errors.Errorf("cannot normalize the degenerate frame (%v, %v)", v, w)
	}
	n0, ok0 := divExact(w.Y, det)
	n2, ok2 := divExact(w.X.Neg(), det)
	if !(ok0 && ok2) {
		return Linear[T]{}, errors.Wrapf(ErrNotImplemented, "normalization of the frame (%v, %v) is not possible over this ring", v, w)
	}
	n1, n3 := v.Y.Neg(), v.X
	if det.Sign() < 0 {
		n1, n3 = v.Y, v.X.Neg()
	}
	return Linear[T]{n0, n1, n2, n3}, nil
}

// relabelCanonically renames the half edges of surface so that the half
// edges in labeled get the edge ids 1, 2, … in order of first appearance,
// with the half edge listed first becoming the positive one. Edges absent
// from labeled keep their relative order after them.
func relabelCanonically[T Scalar[T]](surface *Triangulation[T], labeled []HalfEdge) (*Triangulation[T], error) {
	mapping := map[HalfEdge]HalfEdge{}
	next := Edge(1)
	for _, he := range labeled {
		if _, ok := mapping[he]; ok {
			continue
		}
		mapping[he] = next.Positive()
		mapping[-he] = next.Negative()
		next++
	}
	for _, e := range surface.Edges() {
		if _, ok := mapping[e.Positive()]; ok {
			continue
		}
		mapping[e.Positive()] = next.Positive()
		mapping[e.Negative()] = next.Negative()
		next++
	}

	vertices := &Permutation{}
	inverse := map[HalfEdge]HalfEdge{}
	for _, he := range surface.HalfEdges() {
		vertices.set(mapping[he], mapping[surface.NextAtVertex(he)])
		inverse[mapping[he]] = he
	}
	c, err := newCombinatorial(vertices)
	if err != nil {
		return nil, err
	}
	return NewTriangulationFromCombinatorial(c, func(he HalfEdge) Vector[T] {
		return surface.FromHalfEdge(inverse[he])
	})
}

// EquivalenceCode is the canonical fingerprint of a surface under an
// equivalence: the minimal word over all walks of its half-edge graph. Codes
// of surfaces computed under the same equivalence are equal iff the surfaces
// are equivalent.
type EquivalenceCode[T Scalar[T]] struct {
	fans    [][]int
	vectors []Vector[T]
}

// Equal reports whether the two codes are identical.
func (c *EquivalenceCode[T]) Equal(o *EquivalenceCode[T]) bool {
	if len(c.fans) != len(o.fans) || len(c.vectors) != len(o.vectors) {
		return false
	}
	for i := range c.fans {
		if !slices.Equal(c.fans[i], o.fans[i]) {
			return false
		}
	}
	for i := range c.vectors {
		if !c.vectors[i].Equal(o.vectors[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash compatible with Equal.
func (c *EquivalenceCode[T]) Hash() uint64 {
	h := fnv.New64a()
	for i, fan := range c.fans {
		for _, label := range fan {
			fmt.Fprintf(h, "%d,", label)
		}
		if i < len(c.vectors) {
			fmt.Fprintf(h, "%v", c.vectors[i])
		}
		h.Write([]byte{';'})
	}
	return h.Sum64()
}

func (c *EquivalenceCode[T]) String() string {
	var sb strings.Builder
	for i, fan := range c.fans {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v", fan)
		if i < len(c.vectors) {
			fmt.Fprintf(&sb, " %v", c.vectors[i])
		}
	}
	return sb.String()
}

// EquivalenceClass is the set of surfaces equivalent to a given one. Classes
// are cheap to compare once constructed, so they are the tool of choice to
// deduplicate large collections of surfaces.
type EquivalenceClass[T Scalar[T]] struct {
	equivalence    Equivalence[T]
	code           *EquivalenceCode[T]
	representative *Triangulation[T]
	automorphisms  int
}

// NewEquivalenceClass computes the equivalence class of surface by running
// one walker per half edge, sense and normalization and keeping the
// lexicographically minimal word they produce.
func NewEquivalenceClass[T Scalar[T]](surface *Triangulation[T], equivalence Equivalence[T]) (*EquivalenceClass[T], error) {
	code, representative, automorphisms, err := equivalence.relation.code(surface)
	if err != nil {
		return nil, err
	}
	logger().Debug("equivalence class computed",
		zap.Stringer("equivalence", equivalence),
		zap.Int("automorphisms", automorphisms))
	return &EquivalenceClass[T]{
		equivalence:    equivalence,
		code:           code,
		representative: representative,
		automorphisms:  automorphisms,
	}, nil
}

// Code returns the canonical code identifying this class.
func (c *EquivalenceClass[T]) Code() *EquivalenceCode[T] {
	return c.code
}

// Representative returns a member of this class in canonical form: the
// surface transformed by the winning walker's normalization and relabeled in
// the order that walker discovered its half edges. Edges invisible to the
// equivalence are named after all visible ones, so representatives agree up
// to retriangulation of the invisible parts.
func (c *EquivalenceClass[T]) Representative() *Triangulation[T] {
	return c.representative
}

// Automorphisms returns the number of symmetries of the surfaces in this
// class under the equivalence, i.e. the order of their automorphism group.
func (c *EquivalenceClass[T]) Automorphisms() int {
	return c.automorphisms
}

// Equal reports whether the two classes contain the same surfaces. Classes
// built from different equivalences are never equal.
func (c *EquivalenceClass[T]) Equal(o *EquivalenceClass[T]) bool {
	return c.equivalence.Equal(o.equivalence) && c.code.Equal(o.code)
}

// Hash returns a hash compatible with Equal.
func (c *EquivalenceClass[T]) Hash() uint64 {
	return c.code.Hash()
}

func (c *EquivalenceClass[T]) String() string {
	return fmt.Sprintf("%v identified by (%v)", c.representative, c.code)
}
