package flatsurf

import "testing"

func TestDelaunayCondition(t *testing.T) {
	s := squareTorus(t)

	// The diagonal (1, 1) of the unit square is inscribed in the same
	// circle as either side, so it is ambiguous; the sides are Delaunay.
	diff(t, Delaunay, s.DelaunayCondition(1))
	diff(t, Delaunay, s.DelaunayCondition(2))
	diff(t, Ambiguous, s.DelaunayCondition(3))
}

func TestDelaunayConditionL(t *testing.T) {
	s := lSurface(t)
	for _, e := range []Edge{1, 2, 3, 4, 5, 6} {
		diff(t, Delaunay, s.DelaunayCondition(e))
	}
	for _, e := range []Edge{7, 8, 9} {
		diff(t, Ambiguous, s.DelaunayCondition(e))
	}
}

func TestDelaunayConditionBoundary(t *testing.T) {
	s := slitTorus(t)
	diff(t, Delaunay, s.DelaunayCondition(1))
	diff(t, Delaunay, s.DelaunayCondition(4))
}

func TestDelaunayConditionHexagon(t *testing.T) {
	s := hexagon(t)

	// Fanning the hexagon from one corner leaves the long diagonal (2, 2)
	// non-Delaunay; the short diagonals lie on their circumcircles.
	for _, e := range []Edge{1, 2, 3} {
		diff(t, Delaunay, s.DelaunayCondition(e))
	}
	diff(t, Ambiguous, s.DelaunayCondition(4))
	diff(t, NonDelaunay, s.DelaunayCondition(5))
	diff(t, Ambiguous, s.DelaunayCondition(6))
}

func TestDelaunay(t *testing.T) {
	// Shearing the square torus makes the diagonal very long; edge 3 then
	// violates the Delaunay condition.
	s, err := NewTriangulation(
		[][]HalfEdge{{1, 3, 2, -1, -3, -2}},
		[]Vector[Rat]{rv(1, 0), rv(2, 1), rv(3, 1)})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, NonDelaunay, s.DelaunayCondition(3))

	s.Delaunay()

	for _, e := range s.Edges() {
		if s.DelaunayCondition(e) == NonDelaunay {
			t.Errorf("edge %v still not Delaunay", e)
		}
	}
	diff(t, RatFromInt(2), s.Area2())
}

func TestDelaunayIdempotent(t *testing.T) {
	s := squareTorus(t)
	before := s.Clone()
	s.Delaunay()
	if !s.Equal(before) {
		t.Error("retriangulating a Delaunay surface changed it")
	}
}

func TestDelaunayHexagon(t *testing.T) {
	s := hexagon(t)
	s.Delaunay()

	for _, e := range s.Edges() {
		if s.DelaunayCondition(e) == NonDelaunay {
			t.Errorf("edge %v still not Delaunay", e)
		}
	}
	diff(t, RatFromInt(6), s.Area2())
	if len(s.Vertices()) != 2 {
		t.Error("retriangulation changed the vertex count")
	}
}

func TestDelaunayConditionString(t *testing.T) {
	for cond, want := range map[DelaunayCondition]string{
		NonDelaunay: "non-Delaunay",
		Delaunay:    "Delaunay",
		Ambiguous:   "ambiguous",
	} {
		if got := cond.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
