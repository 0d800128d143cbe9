package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotImplemented is returned by operations that are not supported for the
// arguments given to them.
var ErrNotImplemented = errors.New("not implemented")

// deformationRelation is the implementation behind Deformation. A relation
// maps points and paths from its domain surface into its codomain surface.
// Relations may be partial on paths; mapPath reports failure through its
// second return value.
type deformationRelation[T Scalar[T]] interface {
	domain() *Triangulation[T]
	codomain() *Triangulation[T]

	mapPoint(Point[T]) (Point[T], error)
	mapPath(Path[T]) (Path[T], bool)

	// section returns the relation inverting this one.
	section() (deformationRelation[T], error)

	// trivial reports whether this relation is the identity.
	trivial() bool

	String() string
}

// A Deformation transforms one triangulation into another while keeping
// track of how the points and saddle connections of the domain map into the
// codomain. Deformations compose and, where possible, invert.
type Deformation[T Scalar[T]] struct {
	relation deformationRelation[T]
}

func newDeformation[T Scalar[T]](relation deformationRelation[T]) *Deformation[T] {
	return &Deformation[T]{relation: relation}
}

// TrivialDeformation returns the identity deformation of surface.
func TrivialDeformation[T Scalar[T]](surface *Triangulation[T]) *Deformation[T] {
	return newDeformation[T](newTrivialRelation(surface))
}

// Domain returns the surface this deformation maps from.
func (d *Deformation[T]) Domain() *Triangulation[T] { return d.relation.domain() }

// Codomain returns the surface this deformation maps to.
func (d *Deformation[T]) Codomain() *Triangulation[T] { return d.relation.codomain() }

// Trivial reports whether this deformation is the identity.
func (d *Deformation[T]) Trivial() bool { return d.relation.trivial() }

// MapPoint returns the image of a point of the domain.
func (d *Deformation[T]) MapPoint(p Point[T]) (Point[T], error) {
	if p.Surface() != d.Domain() && !p.Surface().Equal(d.Domain()) {
		return Point[T]{}, errors.Errorf("point %v is not in the domain of %v", p, d)
	}
	return d.relation.mapPoint(p)
}

// MapConnection returns the image of a saddle connection of the domain,
// possibly a path of several connections when the image passes through
// vertices. Not every relation can map every connection; an error is
// returned when the image cannot be expressed.
func (d *Deformation[T]) MapConnection(c SaddleConnection[T]) (Path[T], error) {
	return d.MapPath(Path[T]{c})
}

// MapPath returns the image of a path of the domain.
func (d *Deformation[T]) MapPath(p Path[T]) (Path[T], error) {
	for _, c := range p {
		if c.Surface() != d.Domain() && !c.Surface().Equal(d.Domain()) {
			return nil, errors.Errorf("path %v is not in the domain of %v", p, d)
		}
	}
	image, ok := d.relation.mapPath(p)
	if !ok {
		return nil, errors.Errorf("cannot map %v through %v", p, d)
	}
	return image, nil
}

// Section returns the deformation undoing this one.
func (d *Deformation[T]) Section() (*Deformation[T], error) {
	relation, err := d.relation.section()
	if err != nil {
		return nil, err
	}
	return newDeformation[T](relation), nil
}

// Compose returns the deformation that applies other first and this one
// after. The codomain of other must be the domain of this deformation.
func (d *Deformation[T]) Compose(other *Deformation[T]) (*Deformation[T], error) {
	if !other.Codomain().Equal(d.Domain()) {
		return nil, errors.Errorf("cannot compose %v with %v: the codomain of the latter is not the domain of the former", d, other)
	}
	if d.Trivial() {
		return other, nil
	}
	if other.Trivial() {
		return d, nil
	}
	return newDeformation[T](&compositeRelation[T]{outer: d.relation, inner: other.relation}), nil
}

func (d *Deformation[T]) String() string {
	return d.relation.String()
}

// compositeRelation chains two relations, applying inner first.
type compositeRelation[T Scalar[T]] struct {
	outer, inner deformationRelation[T]
}

func (r *compositeRelation[T]) domain() *Triangulation[T]   { return r.inner.domain() }
func (r *compositeRelation[T]) codomain() *Triangulation[T] { return r.outer.codomain() }

func (r *compositeRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	q, err := r.inner.mapPoint(p)
	if err != nil {
		return Point[T]{}, err
	}
	return r.outer.mapPoint(q)
}

func (r *compositeRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	q, ok := r.inner.mapPath(p)
	if !ok {
		return nil, false
	}
	return r.outer.mapPath(q)
}

func (r *compositeRelation[T]) section() (deformationRelation[T], error) {
	outer, err := r.outer.section()
	if err != nil {
		return nil, err
	}
	inner, err := r.inner.section()
	if err != nil {
		return nil, err
	}
	return &compositeRelation[T]{outer: inner, inner: outer}, nil
}

func (r *compositeRelation[T]) trivial() bool {
	return r.inner.trivial() && r.outer.trivial()
}

func (r *compositeRelation[T]) String() string {
	return fmt.Sprintf("%v * %v", r.outer, r.inner)
}

// combinatorialRelation relates two surfaces that differ only by a renaming
// of their half edges; in particular it covers the identity.
type combinatorialRelation[T Scalar[T]] struct {
	dom, cod *Triangulation[T]
	// mapping sends each half edge of the domain to its name in the
	// codomain; it maps reverses to reverses and faces to faces.
	mapping *HalfEdgeMap[HalfEdge]
}

func newTrivialRelation[T Scalar[T]](surface *Triangulation[T]) *combinatorialRelation[T] {
	mapping := &HalfEdgeMap[HalfEdge]{}
	for _, he := range surface.HalfEdges() {
		mapping.Set(he, he)
	}
	return &combinatorialRelation[T]{dom: surface, cod: surface, mapping: mapping}
}

// newRelabelingRelation relates dom to cod via the given half edge renaming,
// which must be a combinatorial isomorphism preserving the vectors.
func newRelabelingRelation[T Scalar[T]](dom, cod *Triangulation[T], mapping *HalfEdgeMap[HalfEdge]) *combinatorialRelation[T] {
	return &combinatorialRelation[T]{dom: dom, cod: cod, mapping: mapping}
}

func (r *combinatorialRelation[T]) domain() *Triangulation[T]   { return r.dom }
func (r *combinatorialRelation[T]) codomain() *Triangulation[T] { return r.cod }

func (r *combinatorialRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	return NewPoint(r.cod, r.mapping.Get(p.face), p.a, p.b, p.c)
}

func (r *combinatorialRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	image := make(Path[T], 0, len(p))
	for _, c := range p {
		image = append(image, SaddleConnection[T]{
			surface: r.cod,
			source:  r.mapping.Get(c.source),
			target:  r.mapping.Get(c.target),
			vector:  c.vector,
		})
	}
	return image, true
}

func (r *combinatorialRelation[T]) section() (deformationRelation[T], error) {
	inverse := &HalfEdgeMap[HalfEdge]{}
	for _, he := range r.dom.HalfEdges() {
		inverse.Set(r.mapping.Get(he), he)
	}
	return &combinatorialRelation[T]{dom: r.cod, cod: r.dom, mapping: inverse}, nil
}

func (r *combinatorialRelation[T]) trivial() bool {
	if r.dom != r.cod && !r.dom.Equal(r.cod) {
		return false
	}
	for _, he := range r.dom.HalfEdges() {
		if r.mapping.Get(he) != he {
			return false
		}
	}
	return true
}

func (r *combinatorialRelation[T]) String() string {
	if r.trivial() {
		return fmt.Sprintf("Identity on %v", r.dom)
	}
	return fmt.Sprintf("Relabeling of %v as %v", r.dom, r.cod)
}

// linearRelation applies a matrix to every vector of the domain. Under an
// orientation preserving matrix domain and codomain share their
// combinatorial structure; a reflection reverses every face cycle, see
// [Combinatorial] mirror.
type linearRelation[T Scalar[T]] struct {
	dom, cod *Triangulation[T]
	linear   Linear[T]
	mirrored bool
}

func (r *linearRelation[T]) domain() *Triangulation[T]   { return r.dom }
func (r *linearRelation[T]) codomain() *Triangulation[T] { return r.cod }

// mapPoint keeps barycentric coordinates; they are invariant under linear
// maps of the containing face.
func (r *linearRelation[T]) mapPoint(p Point[T]) (Point[T], error) {
	if r.mirrored {
		// The face (f n p) of the domain is the face (-n -f -p) of the
		// codomain, with its corners in reverse order.
		return NewPoint(r.cod, -r.dom.NextInFace(p.face), p.c, p.b, p.a)
	}
	return NewPoint(r.cod, p.face, p.a, p.b, p.c)
}

// mapSector returns the codomain sector containing the image of the
// direction v, which must lie in the domain sector of s.
func (r *linearRelation[T]) mapSector(s HalfEdge, v Vector[T]) HalfEdge {
	if !r.mirrored {
		return s
	}
	// A reflection turns the sector of s inside out: its interior lands in
	// the sector of the next half edge at the vertex; only the boundary ray
	// of s itself stays with s.
	if e := r.dom.FromHalfEdge(s); e.CCW(v) == Collinear && e.OrientationTo(v) == SameDirection {
		return s
	}
	return r.dom.NextAtVertex(s)
}

func (r *linearRelation[T]) mapPath(p Path[T]) (Path[T], bool) {
	image := make(Path[T], 0, len(p))
	for _, c := range p {
		image = append(image, SaddleConnection[T]{
			surface: r.cod,
			source:  r.mapSector(c.source, c.vector),
			target:  r.mapSector(c.target, c.vector.Neg()),
			vector:  r.linear.Apply(c.vector),
		})
	}
	return image, true
}

func (r *linearRelation[T]) section() (deformationRelation[T], error) {
	inverse, ok := r.linear.Invert()
	if !ok {
		return nil, errors.Wrapf(ErrNotImplemented, "cannot invert %v over this scalar type", r.linear)
	}
	return &linearRelation[T]{dom: r.cod, cod: r.dom, linear: inverse, mirrored: r.mirrored}, nil
}

func (r *linearRelation[T]) trivial() bool {
	return !r.mirrored && r.linear.IsIdentity() && (r.dom == r.cod || r.dom.Equal(r.cod))
}

func (r *linearRelation[T]) String() string {
	return fmt.Sprintf("%v applied to %v", r.linear, r.dom)
}
