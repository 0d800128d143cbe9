package flatsurf

import "testing"

// squareTorus is the unit square with opposite sides glued, triangulated
// along the diagonal (1, 1).
func squareTorus(t *testing.T) *Triangulation[Rat] {
	t.Helper()

	s, err := NewTriangulation(
		[][]HalfEdge{{1, 3, 2, -1, -3, -2}},
		[]Vector[Rat]{rv(1, 0), rv(0, 1), rv(1, 1)})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// lSurface is the L-shaped surface of genus two built from three unit
// squares, each triangulated along a diagonal.
func lSurface(t *testing.T) *Triangulation[Rat] {
	t.Helper()

	s, err := NewTriangulation(
		[][]HalfEdge{{1, 7, 4, -2, -8, -4, 3, 9, 5, -3, -7, -6, 2, 8, 6, -1, -9, -5}},
		[]Vector[Rat]{
			rv(1, 0), rv(1, 0), rv(1, 0),
			rv(0, 1), rv(0, 1), rv(0, 1),
			rv(1, 1), rv(1, 1), rv(1, 1),
		})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// hexagon is the centrally symmetric hexagon with sides (1, 0), (1, 1),
// (0, 1) and opposite sides glued, fanned into four triangles from one
// corner. Its two vertices both have angle 2π, so it is a torus with a
// marked point.
func hexagon(t *testing.T) *Triangulation[Rat] {
	t.Helper()

	s, err := NewTriangulation(
		[][]HalfEdge{{1, 4, 5, 6, 3, -4, -2, -6}, {2, -1, -5, -3}},
		[]Vector[Rat]{
			rv(1, 0), rv(1, 1), rv(0, 1),
			rv(2, 1), rv(2, 2), rv(1, 2),
		})
	if err != nil {
		t.Fatal(err)
	}
	return s
}
