package flatsurf

import (
	"fmt"
	"strconv"
)

// HalfEdge is one of the two directed sides of an edge in a triangulation.
//
// Half edges are identified by small non-zero integers. The two half edges
// making up an edge carry opposite signs, so the reverse of a half edge is
// its negation.
type HalfEdge int

// Reverse returns the half edge running in the opposite direction.
func (he HalfEdge) Reverse() HalfEdge {
	return -he
}

// Edge returns the undirected edge this half edge belongs to.
func (he HalfEdge) Edge() Edge {
	if he < 0 {
		return Edge(-he)
	}
	return Edge(he)
}

// Positive reports whether this is the positively oriented half of its edge.
func (he HalfEdge) Positive() bool {
	return he > 0
}

func (he HalfEdge) String() string {
	return strconv.Itoa(int(he))
}

// index maps a half edge to a dense non-negative index: 1 → 0, -1 → 1,
// 2 → 2, -2 → 3, and so on.
func (he HalfEdge) index() int {
	if he > 0 {
		return 2 * (int(he) - 1)
	}
	return 2*(-int(he)) - 1
}

// halfEdgeFromIndex is the inverse of HalfEdge.index.
func halfEdgeFromIndex(i int) HalfEdge {
	if i%2 == 0 {
		return HalfEdge(i/2 + 1)
	}
	return HalfEdge(-(i/2 + 1))
}

// Edge is an undirected edge of a triangulation, identified by a positive
// integer. Its two sides are the half edges with ids +e and -e.
type Edge int

// Positive returns the positively oriented half edge of this edge.
func (e Edge) Positive() HalfEdge {
	return HalfEdge(e)
}

// Negative returns the negatively oriented half edge of this edge.
func (e Edge) Negative() HalfEdge {
	return HalfEdge(-e)
}

func (e Edge) String() string {
	return strconv.Itoa(int(e))
}

// index maps an edge to a dense non-negative index.
func (e Edge) index() int {
	return int(e) - 1
}

// Vertex is a vertex of a triangulation, i.e. an orbit of half edges under
// the vertex permutation. It is represented by a canonical half edge leaving
// it, the smallest one under index order.
type Vertex struct {
	rep HalfEdge
}

// Representative returns the canonical half edge leaving this vertex.
func (v Vertex) Representative() HalfEdge {
	return v.rep
}

func (v Vertex) String() string {
	return fmt.Sprintf("vertex at %v", v.rep)
}

// Face is a face of a triangulation, i.e. an orbit of half edges under the
// face permutation. It is represented by its smallest half edge under index
// order.
type Face struct {
	rep HalfEdge
}

// Representative returns the canonical half edge of this face.
func (f Face) Representative() HalfEdge {
	return f.rep
}

func (f Face) String() string {
	return fmt.Sprintf("face at %v", f.rep)
}
