package flatsurf

import (
	"errors"
	"strings"
	"testing"
)

func TestNewPointNormalization(t *testing.T) {
	s := squareTorus(t)

	// An interior point keeps its reference half edge.
	interior, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, HalfEdge(1), interior.Face())

	// A vertex point rotates until its single positive coordinate is first.
	vertex, err := NewPoint(s, 1, Rat{}, RatFromInt(1), Rat{})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, HalfEdge(2), vertex.Face())
	if _, ok := vertex.Vertex(); !ok {
		t.Error("vertex point does not report a vertex")
	}

	// An edge point rotates until its reference half edge lies on that edge.
	edge, err := NewPoint(s, 1, RatFromInt(1), Rat{}, RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, HalfEdge(-3), edge.Face())
	e, ok := edge.Edge()
	if !ok {
		t.Fatal("edge point does not report an edge")
	}
	diff(t, Edge(3), e)

	// A negative sum flips all signs.
	flipped, err := NewPoint(s, 1, RatFromInt(-1), RatFromInt(-1), RatFromInt(-1))
	if err != nil {
		t.Fatal(err)
	}
	if !flipped.Equal(interior) {
		t.Error("negated coordinates give a different point")
	}
}

func TestNewPointErrors(t *testing.T) {
	s := squareTorus(t)

	if _, err := NewPoint(s, 1, Rat{}, Rat{}, Rat{}); err == nil {
		t.Error("no error for coordinates summing to zero")
	}

	_, err := NewPoint(s, 1, RatFromInt(-1), RatFromInt(1), RatFromInt(1))
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("err = %v, want ErrNotImplemented", err)
	}
}

func TestPointInOnAt(t *testing.T) {
	s := squareTorus(t)

	interior, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if !interior.In(1) || !interior.In(2) || !interior.In(-3) {
		t.Error("interior point not in its own face")
	}
	if interior.In(-1) {
		t.Error("interior point in the opposite face")
	}
	if interior.On(1) {
		t.Error("interior point on an edge")
	}
	if interior.At(s.Source(1)) {
		t.Error("interior point at a vertex")
	}

	edge, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), Rat{})
	if err != nil {
		t.Fatal(err)
	}
	if !edge.In(1) || !edge.In(-1) {
		t.Error("edge point not in both adjacent faces")
	}
	if !edge.On(1) {
		t.Error("edge point not on its edge")
	}
	if edge.On(2) {
		t.Error("edge point on an unrelated edge")
	}

	vertex := PointAtVertex(s, s.Source(1))
	if !vertex.At(s.Source(1)) {
		t.Error("vertex point not at its vertex")
	}
	// The torus has a single vertex, so it is a corner of every face.
	if !vertex.In(1) || !vertex.In(-1) {
		t.Error("vertex point not in all faces")
	}
	if !vertex.On(2) {
		t.Error("vertex point not on an incident edge")
	}
}

func TestPointCoordinates(t *testing.T) {
	s := squareTorus(t)

	p, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(2), RatFromInt(3))
	if err != nil {
		t.Fatal(err)
	}

	coords, err := p.Coordinates(2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, [3]Rat{RatFromInt(2), RatFromInt(3), RatFromInt(1)}, coords)

	if _, err := p.Coordinates(-1); err == nil {
		t.Error("coordinates in a face that does not contain the point")
	}
}

func TestPointCoordinatesAcrossEdge(t *testing.T) {
	s := squareTorus(t)

	// The midpoint of edge 1, seen from both sides.
	p, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), Rat{})
	if err != nil {
		t.Fatal(err)
	}
	coords, err := p.Coordinates(-1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, [3]Rat{RatFromInt(1), RatFromInt(1), Rat{}}, coords)

	q, err := NewPoint(s, -1, RatFromInt(1), RatFromInt(1), Rat{})
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(q) {
		t.Error("the two sides of the edge disagree about the midpoint")
	}
}

func TestPointEqual(t *testing.T) {
	s := squareTorus(t)

	p, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), RatFromInt(2))
	if err != nil {
		t.Fatal(err)
	}

	// Scaling all coordinates does not change the point.
	q, err := NewPoint(s, 1, RatFromInt(3), RatFromInt(3), RatFromInt(6))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(q) {
		t.Error("scaled coordinates give a different point")
	}

	r, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(2), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if p.Equal(r) {
		t.Error("distinct points equal")
	}

	// Points of combinatorially different surfaces are never equal.
	other, err := NewPoint(lSurface(t), 1, RatFromInt(1), RatFromInt(1), RatFromInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if p.Equal(other) {
		t.Error("points of different surfaces equal")
	}

	// An equal copy of the surface is fine.
	clone, err := NewPoint(s.Clone(), 1, RatFromInt(1), RatFromInt(1), RatFromInt(2))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(clone) {
		t.Error("the same point on an equal surface not equal")
	}
}

func TestNewPointFromVertex(t *testing.T) {
	s := squareTorus(t)

	// The zero displacement stays at the vertex.
	p, err := NewPointFromVertex(s, 1, rv(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !p.At(s.Source(1)) {
		t.Error("zero displacement left the vertex")
	}

	// Half way along edge 1.
	mid, err := NewPointFromVertex(s, 1, rq(1, 2, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !mid.On(1) {
		t.Error("midpoint not on edge 1")
	}
	want, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), Rat{})
	if err != nil {
		t.Fatal(err)
	}
	if !mid.Equal(want) {
		t.Error("midpoint has wrong coordinates")
	}

	// A displacement longer than the edge wraps around the torus.
	wrapped, err := NewPointFromVertex(s, 1, rq(3, 2, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !wrapped.Equal(mid) {
		t.Error("displacement by 3/2 does not wrap to the midpoint")
	}

	// Along the diagonal.
	diag, err := NewPointFromVertex(s, 1, rq(1, 2, 1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if !diag.On(3) {
		t.Error("diagonal displacement not on edge 3")
	}

	// Into the interior.
	interior, err := NewPointFromVertex(s, 1, rq(2, 3, 1, 3))
	if err != nil {
		t.Fatal(err)
	}
	wantInterior, err := NewPoint(s, 1, NewRat(1, 3), NewRat(1, 3), NewRat(1, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !interior.Equal(wantInterior) {
		t.Error("interior displacement has wrong coordinates")
	}

	// Across a face boundary and around the torus.
	far, err := NewPointFromVertex(s, 1, rq(3, 2, 1, 4))
	if err != nil {
		t.Fatal(err)
	}
	wantFar, err := NewPoint(s, 1, RatFromInt(2), RatFromInt(1), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if !far.Equal(wantFar) {
		t.Error("far displacement has wrong coordinates")
	}
}

func TestNewPointFromVertexBoundary(t *testing.T) {
	s := slitTorus(t)
	_, err := NewPointFromVertex(s, -3, Vec(NewRat(-1, 2), NewRat(-9, 8)))
	if err == nil {
		t.Error("no error for a segment through the slit")
	} else if !strings.Contains(err.Error(), "boundary") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestPointString(t *testing.T) {
	s := squareTorus(t)
	p, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.String(); got != "(1, 1, 1) in (1, 2, -3)" {
		t.Errorf("String() = %q", got)
	}
}
