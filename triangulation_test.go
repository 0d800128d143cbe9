package flatsurf

import (
	"errors"
	"strings"
	"testing"
)

func TestNewTriangulationErrors(t *testing.T) {
	cycles := [][]HalfEdge{{1, 3, 2, -1, -3, -2}}
	for _, tc := range []struct {
		name    string
		vectors []Vector[Rat]
		want    string
	}{
		{"count", []Vector[Rat]{rv(1, 0), rv(0, 1)}, "need exactly one vector per edge"},
		{"trivial", []Vector[Rat]{rv(1, 0), rv(0, 1), rv(0, 0)}, "must not be trivial"},
		{"closure", []Vector[Rat]{rv(1, 0), rv(0, 1), rv(1, 2)}, "is not closed"},
		{"area", []Vector[Rat]{rv(1, 0), rv(1, 0), rv(2, 0)}, "vanishing area"},
		{"orientation", []Vector[Rat]{rv(1, 0), rv(0, -1), rv(1, -1)}, "not oriented correctly"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTriangulation(cycles, tc.vectors); err == nil {
				t.Error("no error")
			} else if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestFromHalfEdge(t *testing.T) {
	s := squareTorus(t)

	diff(t, rv(1, 0), s.FromHalfEdge(1))
	diff(t, rv(0, 1), s.FromHalfEdge(2))
	diff(t, rv(1, 1), s.FromHalfEdge(3))
	for _, he := range s.HalfEdges() {
		diff(t, s.FromHalfEdge(he).Neg(), s.FromHalfEdge(-he))
	}
}

func TestTriangulationFlip(t *testing.T) {
	s := squareTorus(t)
	orig := s.Clone()

	if err := s.Flip(3); err != nil {
		t.Fatal(err)
	}
	diff(t, rv(1, -1), s.FromHalfEdge(3))
	diff(t, RatFromInt(2), s.Area2())
	if s.Equal(orig) {
		t.Error("flip left the surface unchanged")
	}

	// Flipping the same edge again restores the surface exactly, including
	// the orientation of the diagonal.
	if err := s.Flip(3); err != nil {
		t.Fatal(err)
	}
	if !s.Equal(orig) {
		t.Error("double flip did not restore the surface")
	}
}

func TestTriangulationFlipOrientation(t *testing.T) {
	s := squareTorus(t)
	if err := s.Flip(1); err != nil {
		t.Fatal(err)
	}
	diff(t, rv(-1, -2), s.FromHalfEdge(1))
	diff(t, RatFromInt(2), s.Area2())
}

func TestTriangulationFlipBoundary(t *testing.T) {
	s := slitTorus(t)
	if err := s.Flip(1); err == nil {
		t.Error("flipped an edge on the boundary")
	} else if !strings.Contains(err.Error(), "boundary") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestTriangulationFlipNonConvex(t *testing.T) {
	s := insertedTorus(t)
	if err := s.Flip(4); err == nil {
		t.Error("flipped a spoke of a vertex of total angle 2π")
	} else if !strings.Contains(err.Error(), "convex") {
		t.Errorf("unexpected error %q", err)
	}
}

// slitTorus returns the square torus cut open along edge 1.
func slitTorus(t *testing.T) *Triangulation[Rat] {
	t.Helper()

	s := squareTorus(t)
	c, err := s.Combinatorial.Slit(1)
	if err != nil {
		t.Fatal(err)
	}
	slit, err := NewTriangulationFromCombinatorial(c, func(he HalfEdge) Vector[Rat] {
		if he.Edge() == 4 {
			return rv(1, 0)
		}
		return s.FromHalfEdge(he)
	})
	if err != nil {
		t.Fatal(err)
	}
	return slit
}

// insertedTorus returns the square torus with an extra marked point at
// (2/3, 1/3), joined to the three corners of the face of half edge 1.
func insertedTorus(t *testing.T) *Triangulation[Rat] {
	t.Helper()

	s := squareTorus(t)
	c, err := s.Combinatorial.InsertAt(1)
	if err != nil {
		t.Fatal(err)
	}
	v := rq(2, 3, 1, 3)
	inserted, err := NewTriangulationFromCombinatorial(c, func(he HalfEdge) Vector[Rat] {
		switch he {
		case 4:
			return v.Neg()
		case 5:
			return s.FromHalfEdge(1).Sub(v)
		case 6:
			return s.FromHalfEdge(3).Sub(v)
		}
		return s.FromHalfEdge(he)
	})
	if err != nil {
		t.Fatal(err)
	}
	return inserted
}

func TestTriangulationCollapse(t *testing.T) {
	s := squareTorus(t)
	if err := s.Collapse(1); err == nil {
		t.Error("collapsed an edge with a non-zero vector")
	} else if !strings.Contains(err.Error(), "non-zero vector") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestConvex(t *testing.T) {
	s := squareTorus(t)
	for _, e := range s.Edges() {
		if !s.Convex(e.Positive(), true) {
			t.Errorf("edge %v of the torus not strictly convex", e)
		}
	}

	inserted := insertedTorus(t)
	if inserted.Convex(4, true) {
		t.Error("spoke 4 strictly convex despite the flat corner")
	}
}

func TestTriangulationArea2(t *testing.T) {
	diff(t, RatFromInt(2), squareTorus(t).Area2())
	diff(t, RatFromInt(6), lSurface(t).Area2())
	diff(t, RatFromInt(2), insertedTorus(t).Area2())
	diff(t, RatFromInt(2), slitTorus(t).Area2())
	diff(t, RatFromInt(6), hexagon(t).Area2())
}

func TestAngle(t *testing.T) {
	torus := squareTorus(t)
	if got := torus.Angle(torus.Source(1)); got != 1 {
		t.Errorf("Angle = %d, want 1", got)
	}

	l := lSurface(t)
	if got := l.Angle(l.Source(1)); got != 3 {
		t.Errorf("Angle = %d, want 3", got)
	}

	inserted := insertedTorus(t)
	if got := inserted.Angle(inserted.Source(4)); got != 1 {
		t.Errorf("Angle = %d, want 1", got)
	}
	if got := inserted.Angle(inserted.Source(1)); got != 1 {
		t.Errorf("Angle = %d, want 1", got)
	}

	// Both corner classes of the hexagon are flat.
	hx := hexagon(t)
	if hx.Source(1) == hx.Source(2) {
		t.Fatal("the hexagon glues all corners to a single vertex")
	}
	if got := hx.Angle(hx.Source(1)); got != 1 {
		t.Errorf("Angle = %d, want 1", got)
	}
	if got := hx.Angle(hx.Source(2)); got != 1 {
		t.Errorf("Angle = %d, want 1", got)
	}
}

func TestInSector(t *testing.T) {
	s := squareTorus(t)

	// The sector of 1 spans from (1, 0) counterclockwise to (1, 1),
	// including the first ray and excluding the second.
	if !s.InSector(1, rv(1, 0)) {
		t.Error("lower boundary ray not in sector")
	}
	if !s.InSector(1, rv(2, 1)) {
		t.Error("interior direction not in sector")
	}
	if s.InSector(1, rv(1, 1)) {
		t.Error("upper boundary ray in sector")
	}
	if s.InSector(1, rv(1, 2)) {
		t.Error("direction beyond the sector in sector")
	}
	if !s.InSector(3, rv(1, 1)) {
		t.Error("(1, 1) not in the sector of 3")
	}
	if !s.InSector(3, rv(1, 2)) {
		t.Error("(1, 2) not in the sector of 3")
	}
}

func TestSectorOf(t *testing.T) {
	s := squareTorus(t)

	diff(t, HalfEdge(1), s.SectorOf(1, rv(2, 1)))
	diff(t, HalfEdge(3), s.SectorOf(1, rv(1, 2)))
	diff(t, HalfEdge(-3), s.SectorOf(1, rv(-1, -2)))
	diff(t, HalfEdge(2), s.SectorOf(2, rv(-1, 3)))
}

func TestScale(t *testing.T) {
	s := squareTorus(t)
	scaled, err := s.Scale(RatFromInt(2))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, rv(2, 0), scaled.FromHalfEdge(1))
	diff(t, RatFromInt(8), scaled.Area2())
	diff(t, rv(1, 0), s.FromHalfEdge(1))

	if _, err := s.Scale(RatFromInt(-1)); err == nil {
		t.Error("scaled by a negative factor")
	}
	if _, err := s.Scale(Rat{}); err == nil {
		t.Error("scaled by zero")
	}
}

func TestApplyMatrix(t *testing.T) {
	s := squareTorus(t)
	two := RatFromInt(2)

	d, err := s.ApplyMatrix(Linear[Rat]{N0: two, N3: two})
	if err != nil {
		t.Fatal(err)
	}
	if d.Domain() != s {
		t.Error("domain is not the original surface")
	}
	diff(t, RatFromInt(8), d.Codomain().Area2())
	diff(t, rv(2, 2), d.Codomain().FromHalfEdge(3))

	section, err := d.Section()
	if err != nil {
		t.Fatal(err)
	}
	if !section.Codomain().Equal(s) {
		t.Error("section does not map back to the original")
	}

	roundtrip, err := section.Compose(d)
	if err != nil {
		t.Fatal(err)
	}
	if !roundtrip.Codomain().Equal(s) {
		t.Error("roundtrip does not end at the original")
	}
}

func TestApplyMatrixSingular(t *testing.T) {
	s := squareTorus(t)
	if _, err := s.ApplyMatrix(Linear[Rat]{N0: RatFromInt(1), N2: RatFromInt(1)}); err == nil {
		t.Error("applied a singular matrix")
	} else if !strings.Contains(err.Error(), "singular") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestApplyMatrixReflection(t *testing.T) {
	s := squareTorus(t)
	reflect := Linear[Rat]{N0: RatFromInt(1), N3: RatFromInt(-1)}

	d, err := s.ApplyMatrix(reflect)
	if err != nil {
		t.Fatal(err)
	}
	if d.Codomain().Equal(s) {
		t.Error("reflection left the surface unchanged")
	}
	diff(t, RatFromInt(2), d.Codomain().Area2())

	back, err := d.Codomain().ApplyMatrix(reflect)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Codomain().Equal(s) {
		t.Error("reflecting twice did not restore the surface")
	}
}

func TestApplyMatrixIntegerSection(t *testing.T) {
	s, err := NewTriangulation(
		[][]HalfEdge{{1, 3, 2, -1, -3, -2}},
		[]Vector[Int]{iv(1, 0), iv(0, 1), iv(1, 1)})
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.ApplyMatrix(Linear[Int]{N0: 2, N3: 2})
	if err != nil {
		t.Fatal(err)
	}
	// The inverse matrix has entries 1/2 which do not exist over the
	// integers.
	if _, err := d.Section(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Section() = %v, want ErrNotImplemented", err)
	}
}

func TestShortest(t *testing.T) {
	diff(t, Edge(1), squareTorus(t).Shortest())
	diff(t, Edge(1), lSurface(t).Shortest())
	diff(t, Edge(5), insertedTorus(t).Shortest())
}

func TestShortestInDirection(t *testing.T) {
	s := squareTorus(t)

	e, ok := s.ShortestInDirection(rv(0, 1))
	if !ok {
		t.Fatal("no edge found")
	}
	diff(t, Edge(2), e)

	e, ok = s.ShortestInDirection(rv(1, 0))
	if !ok {
		t.Fatal("no edge found")
	}
	diff(t, Edge(1), e)

	if _, ok := s.ShortestInDirection(rv(0, 0)); ok {
		t.Error("found an edge in the zero direction")
	}
}

func TestTriangulationClone(t *testing.T) {
	s := squareTorus(t)
	clone := s.Clone()
	if !s.Equal(clone) {
		t.Error("clone differs from original")
	}

	if err := clone.Flip(3); err != nil {
		t.Fatal(err)
	}
	if s.Equal(clone) {
		t.Error("flipping the clone changed the original")
	}
	diff(t, rv(1, 1), s.FromHalfEdge(3))
}

func TestTriangulationString(t *testing.T) {
	want := "Combinatorial(vertices = (1 3 2 -1 -3 -2), faces = (1 2 -3)(-1 -2 3)) with vectors {1: (1, 0), 2: (0, 1), 3: (1, 1)}"
	if got := squareTorus(t).String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
