package flatsurf

import (
	"fmt"

	"github.com/pkg/errors"
)

// observer receives synchronous notifications about structural mutations of a
// [Combinatorial]. Observers fire in registration order: afterFlip right
// after the permutations have been updated, beforeCollapse right before the
// collapsed half edges disappear.
type observer interface {
	afterFlip(c *Combinatorial, flipped HalfEdge)
	beforeCollapse(c *Combinatorial, collapsed HalfEdge)
}

// Combinatorial is the combinatorial structure underlying a flat
// triangulation: a half-edge mesh given by two mutually consistent
// permutations, the vertex permutation (half edges leaving a vertex in
// counterclockwise order) and the face permutation (half edges of a face in
// counterclockwise order). Every face is a triangle. Half edges lying on the
// boundary, if any, are fixed points of the face permutation.
type Combinatorial struct {
	vertices  *Permutation // successor = NextAtVertex
	faces     *Permutation // successor = NextInFace
	observers []observer
}

// NewCombinatorial builds a triangulation from its vertex cycles: one cycle
// per vertex listing the outgoing half edges in counterclockwise order. The
// face permutation is derived through the half-edge duality; every derived
// face must be a triangle. Surfaces with boundary cannot be described this
// way; they arise through [Combinatorial.Slit].
func NewCombinatorial(vertexCycles [][]HalfEdge) (*Combinatorial, error) {
	vertices, err := NewPermutation(vertexCycles)
	if err != nil {
		return nil, errors.Wrap(err, "invalid vertex cycles")
	}
	return newCombinatorial(vertices)
}

// NewCombinatorialFromPermutation builds a triangulation from an explicit
// vertex permutation.
func NewCombinatorialFromPermutation(vertices *Permutation) (*Combinatorial, error) {
	return newCombinatorial(vertices.Clone())
}

func newCombinatorial(vertices *Permutation) (*Combinatorial, error) {
	for _, he := range vertices.Domain() {
		if !vertices.Contains(-he) {
			return nil, errors.Errorf("half edge %v has no reverse %v", he, -he)
		}
	}
	// nextInFace(he) = previousAtVertex(-he), the standard duality.
	faces := &Permutation{}
	for _, he := range vertices.Domain() {
		faces.set(he, vertices.Preimage(-he))
	}
	c := &Combinatorial{vertices: vertices, faces: faces}
	for _, cycle := range faces.Cycles() {
		if len(cycle) != 3 {
			return nil, errors.Errorf("face %v is not a triangle", cycle)
		}
	}
	return c, nil
}

// HalfEdges returns all half edges in index order, i.e. 1, -1, 2, -2, …
func (c *Combinatorial) HalfEdges() []HalfEdge {
	return c.vertices.Domain()
}

// Edges returns all edges in increasing order.
func (c *Combinatorial) Edges() []Edge {
	var edges []Edge
	for _, he := range c.HalfEdges() {
		if he > 0 {
			edges = append(edges, he.Edge())
		}
	}
	return edges
}

// Vertices returns the vertices of the triangulation.
func (c *Combinatorial) Vertices() []Vertex {
	var vertices []Vertex
	for _, cycle := range c.vertices.Cycles() {
		vertices = append(vertices, Vertex{rep: cycle[0]})
	}
	return vertices
}

// Faces returns the faces of the triangulation. Boundary half edges do not
// belong to any face.
func (c *Combinatorial) Faces() []Face {
	var faces []Face
	for _, cycle := range c.faces.Cycles() {
		if len(cycle) == 1 {
			continue
		}
		faces = append(faces, Face{rep: cycle[0]})
	}
	return faces
}

// NextInFace returns the half edge following he in its face.
func (c *Combinatorial) NextInFace(he HalfEdge) HalfEdge {
	return c.faces.Image(he)
}

// PreviousInFace returns the half edge preceding he in its face.
func (c *Combinatorial) PreviousInFace(he HalfEdge) HalfEdge {
	return c.faces.Preimage(he)
}

// NextAtVertex returns the half edge following he counterclockwise among the
// half edges leaving the same vertex.
func (c *Combinatorial) NextAtVertex(he HalfEdge) HalfEdge {
	return c.vertices.Image(he)
}

// PreviousAtVertex returns the half edge preceding he at its source vertex.
func (c *Combinatorial) PreviousAtVertex(he HalfEdge) HalfEdge {
	return c.vertices.Preimage(he)
}

// Boundary reports whether he lies on the boundary, i.e. has no face.
func (c *Combinatorial) Boundary(he HalfEdge) bool {
	return c.faces.Image(he) == he
}

// HasBoundary reports whether any half edge lies on the boundary.
func (c *Combinatorial) HasBoundary() bool {
	for _, he := range c.HalfEdges() {
		if c.Boundary(he) {
			return true
		}
	}
	return false
}

// Source returns the vertex this half edge leaves.
func (c *Combinatorial) Source(he HalfEdge) Vertex {
	rep := he
	for cur := c.vertices.Image(he); cur != he; cur = c.vertices.Image(cur) {
		if cur.index() < rep.index() {
			rep = cur
		}
	}
	return Vertex{rep: rep}
}

// Target returns the vertex this half edge points to.
func (c *Combinatorial) Target(he HalfEdge) Vertex {
	return c.Source(-he)
}

// Outgoing returns the half edges leaving v in counterclockwise order,
// starting at the representative.
func (c *Combinatorial) Outgoing(v Vertex) []HalfEdge {
	out := []HalfEdge{v.rep}
	for cur := c.vertices.Image(v.rep); cur != v.rep; cur = c.vertices.Image(cur) {
		out = append(out, cur)
	}
	return out
}

// FaceOf returns the face containing he. It panics for boundary half edges.
func (c *Combinatorial) FaceOf(he HalfEdge) Face {
	if c.Boundary(he) {
		panic(fmt.Sprintf("flatsurf: boundary half edge %v has no face", he))
	}
	rep := he
	for cur := c.faces.Image(he); cur != he; cur = c.faces.Image(cur) {
		if cur.index() < rep.index() {
			rep = cur
		}
	}
	return Face{rep: rep}
}

// faceCycle returns the three half edges of he's face, starting at he.
func (c *Combinatorial) faceCycle(he HalfEdge) [3]HalfEdge {
	n := c.faces.Image(he)
	return [3]HalfEdge{he, n, c.faces.Image(n)}
}

// mirror returns the combinatorial structure of the reflected surface: every
// face cycle (a b c) turns into (-b -a -c). Surfaces with boundary cannot be
// mirrored this way.
func (c *Combinatorial) mirror() (*Combinatorial, error) {
	if c.HasBoundary() {
		return nil, errors.New("cannot mirror a surface with boundary")
	}
	vertices := &Permutation{}
	for _, he := range c.vertices.Domain() {
		vertices.set(he, c.faces.Image(-he))
	}
	return newCombinatorial(vertices)
}

// maxEdge returns the largest edge id in use.
func (c *Combinatorial) maxEdge() Edge {
	max := Edge(0)
	for _, he := range c.HalfEdges() {
		if e := he.Edge(); e > max {
			max = e
		}
	}
	return max
}

// Clone returns a deep copy of the combinatorial structure. Observers are not
// carried over.
func (c *Combinatorial) Clone() *Combinatorial {
	return &Combinatorial{
		vertices: c.vertices.Clone(),
		faces:    c.faces.Clone(),
	}
}

// Equal reports whether the two triangulations have identical half edges and
// permutations. There is no relabeling tolerance; that is what [Equivalence]
// is for.
func (c *Combinatorial) Equal(o *Combinatorial) bool {
	return c.vertices.Equal(o.vertices) && c.faces.Equal(o.faces)
}

func (c *Combinatorial) String() string {
	return fmt.Sprintf("Combinatorial(vertices = %v, faces = %v)", c.vertices, c.faces)
}

func (c *Combinatorial) addObserver(o observer) {
	c.observers = append(c.observers, o)
}

func (c *Combinatorial) removeObserver(o observer) {
	for i, other := range c.observers {
		if other == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

// Flip replaces the edge of he with the opposite diagonal of the
// quadrilateral formed by its two adjacent faces, turning he one step
// counterclockwise around that quadrilateral. Whether the quadrilateral is
// geometrically convex is the concern of the geometric layer; here the flip
// is always possible on interior half edges.
func (c *Combinatorial) Flip(he HalfEdge) error {
	return c.flip(he, true)
}

// flip performs the diagonal exchange at he. The replacement diagonal can be
// oriented two ways; ccw picks the orientation turned counterclockwise from
// he, its negation the reverse. The two variants are inverse to each other.
func (c *Combinatorial) flip(he HalfEdge, ccw bool) error {
	if c.Boundary(he) || c.Boundary(-he) {
		return errors.Errorf("cannot flip boundary half edge %v", he)
	}
	if c.faces.Image(he) == -he || c.faces.Preimage(he) == -he {
		return errors.Errorf("cannot flip %v, both sides belong to the same face", he)
	}

	b := c.faces.Image(he)
	a := c.faces.Image(b)
	d := c.faces.Image(-he)
	g := c.faces.Image(d)

	if ccw {
		// Faces (he b a) and (-he d g) become (he a d) and (-he g b).
		c.faces.set(he, a)
		c.faces.set(a, d)
		c.faces.set(d, he)
		c.faces.set(-he, g)
		c.faces.set(g, b)
		c.faces.set(b, -he)
	} else {
		// Faces (he b a) and (-he d g) become (he g b) and (-he a d).
		c.faces.set(he, g)
		c.faces.set(g, b)
		c.faces.set(b, he)
		c.faces.set(-he, a)
		c.faces.set(a, d)
		c.faces.set(d, -he)
	}

	// Re-derive the vertex permutation where the faces changed.
	for _, x := range [6]HalfEdge{he, -he, a, b, d, g} {
		c.vertices.set(x, -c.faces.Preimage(x))
	}

	for _, o := range c.observers {
		o.afterFlip(c, he)
	}
	return nil
}

// Collapse removes the edge of he, merging its two endpoints into one
// vertex. The two adjacent faces degenerate; their remaining edge pairs get
// identified, with the labels nextInFace(±he) surviving. The edge must not
// be a loop and the five edges of the two adjacent faces must be distinct,
// otherwise the collapse would create degenerate one- or two-sided faces.
func (c *Combinatorial) Collapse(he HalfEdge) error {
	if c.Boundary(he) || c.Boundary(-he) {
		return errors.Errorf("cannot collapse boundary half edge %v", he)
	}
	keepA := c.faces.Image(he)
	dropA := c.faces.Image(keepA)
	keepB := c.faces.Image(-he)
	dropB := c.faces.Image(keepB)

	if c.Source(he) == c.Target(he) {
		return errors.Errorf("cannot collapse %v, its endpoints are the same vertex", he)
	}
	edges := map[Edge]bool{he.Edge(): true}
	for _, x := range [4]HalfEdge{keepA, dropA, keepB, dropB} {
		if edges[x.Edge()] {
			return errors.Errorf("cannot collapse %v, adjacent faces share edge %v", he, x.Edge())
		}
		edges[x.Edge()] = true
	}

	for _, o := range c.observers {
		o.beforeCollapse(c, he)
	}

	// Splice the far corners: dropA and -keepA coincide after the collapse,
	// as do dropB and -keepB.
	c.vertices.set(c.vertices.Preimage(dropA), c.vertices.Image(dropA))
	c.vertices.set(c.vertices.Preimage(dropB), c.vertices.Image(dropB))

	// Fuse the two vertex fans at the collapsed edge. keepA takes over the
	// rotational position of -dropA, keepB that of -dropB.
	c.vertices.set(keepA, c.vertices.Image(-dropA))
	c.vertices.set(keepB, c.vertices.Image(-dropB))

	// The surviving labels move into the faces of the labels they replace.
	c.replaceInFace(-dropA, keepA)
	c.replaceInFace(-dropB, keepB)

	for _, x := range [6]HalfEdge{he, -he, dropA, -dropA, dropB, -dropB} {
		c.vertices.remove(x)
		c.faces.remove(x)
	}
	return nil
}

// replaceInFace substitutes to for from in from's face cycle and removes
// from.
func (c *Combinatorial) replaceInFace(from, to HalfEdge) {
	next := c.faces.Image(from)
	prev := c.faces.Preimage(from)
	c.faces.set(prev, to)
	c.faces.set(to, next)
	c.faces.remove(from)
}

// InsertAt returns a copy of the triangulation with a new vertex inside the
// face of he, joined to the three corners of that face. The three new edges
// get the next unused ids; in the new triangulation, -NextAtVertex(he) runs
// from the new vertex to the corner at he.
func (c *Combinatorial) InsertAt(he HalfEdge) (*Combinatorial, error) {
	if c.Boundary(he) {
		return nil, errors.Errorf("cannot insert into the face of boundary half edge %v", he)
	}
	res := c.Clone()

	cycle := res.faceCycle(he)
	n, p := cycle[1], cycle[2]

	next := res.maxEdge()
	// a, b, g run from the new vertex to the source of he, of n, and of p.
	a := HalfEdge(next + 1)
	b := HalfEdge(next + 2)
	g := HalfEdge(next + 3)

	// Faces (he -b a), (n -g b) and (p -a g).
	res.faces.set(he, -b)
	res.faces.set(-b, a)
	res.faces.set(a, he)
	res.faces.set(n, -g)
	res.faces.set(-g, b)
	res.faces.set(b, n)
	res.faces.set(p, -a)
	res.faces.set(-a, g)
	res.faces.set(g, p)

	for _, x := range [9]HalfEdge{he, n, p, a, -a, b, -b, g, -g} {
		res.vertices.set(x, -res.faces.Preimage(x))
	}
	return res, nil
}

// Slit returns a copy of the triangulation cut open along the edge of he.
// The face on the reverse side of he is reattached to a new edge carrying
// the next unused id, and both he's reverse and the new edge's positive half
// become boundary half edges.
func (c *Combinatorial) Slit(he HalfEdge) (*Combinatorial, error) {
	if c.Boundary(he) || c.Boundary(-he) {
		return nil, errors.Errorf("cannot slit along boundary half edge %v", he)
	}
	res := c.Clone()

	// n is parallel to he; -n takes the place of -he in its face.
	n := HalfEdge(res.maxEdge() + 1)
	d := res.faces.Image(-he)
	g := res.faces.Image(d)

	res.replaceInFace(-he, -n)
	res.faces.set(-he, -he)
	res.faces.set(n, n)

	// At the source of he the new half edge slips in between d and he; at
	// the target, -n continues the fan where -he now stops.
	res.vertices.set(d, n)
	res.vertices.set(n, he)
	res.vertices.set(-he, -n)
	res.vertices.set(-n, -g)
	return res, nil
}
