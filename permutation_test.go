package flatsurf

import (
	"strings"
	"testing"
)

func TestNewPermutation(t *testing.T) {
	p, err := NewPermutation([][]HalfEdge{{1, 3, 2, -1, -3, -2}})
	if err != nil {
		t.Fatal(err)
	}

	if got := p.Size(); got != 6 {
		t.Errorf("Size() = %d", got)
	}
	diff(t, HalfEdge(3), p.Image(1))
	diff(t, HalfEdge(1), p.Image(-2))
	diff(t, HalfEdge(-2), p.Preimage(1))
	diff(t, HalfEdge(1), p.Preimage(3))

	if !p.Contains(-3) {
		t.Error("Contains(-3) = false")
	}
	if p.Contains(4) {
		t.Error("Contains(4) = true")
	}
}

func TestNewPermutationErrors(t *testing.T) {
	for _, tc := range []struct {
		cycles [][]HalfEdge
		want   string
	}{
		{[][]HalfEdge{{1, 2}, {}}, "cycles must not be empty"},
		{[][]HalfEdge{{1, 0}}, "0 is not a valid half edge"},
		{[][]HalfEdge{{1, 2}, {2, 3}}, "appears in more than one cycle position"},
		{[][]HalfEdge{{1, 2, 1}}, "appears in more than one cycle position"},
	} {
		if _, err := NewPermutation(tc.cycles); err == nil {
			t.Errorf("no error for %v", tc.cycles)
		} else if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("error %q does not mention %q", err, tc.want)
		}
	}
}

func TestPermutationDomain(t *testing.T) {
	p, err := NewPermutation([][]HalfEdge{{2, -1}, {1, -2}})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []HalfEdge{1, -1, 2, -2}, p.Domain())
}

func TestPermutationCycles(t *testing.T) {
	// Cycles are reported starting from their smallest half edge, ordered
	// by that half edge, no matter how the permutation was put together.
	p, err := NewPermutation([][]HalfEdge{{-3, -2, 3}, {2, 1, -1}})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, [][]HalfEdge{{1, -1, 2}, {3, -3, -2}}, p.Cycles())
}

func TestPermutationClone(t *testing.T) {
	p, err := NewPermutation([][]HalfEdge{{1, 3, 2, -1, -3, -2}})
	if err != nil {
		t.Fatal(err)
	}
	q := p.Clone()
	if !p.Equal(q) {
		t.Error("clone not equal to original")
	}

	q.set(1, 2)
	q.set(3, 3)
	if p.Equal(q) {
		t.Error("mutating the clone changed the original")
	}
	diff(t, HalfEdge(3), p.Image(1))
}

func TestPermutationEqual(t *testing.T) {
	p, err := NewPermutation([][]HalfEdge{{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	q, err := NewPermutation([][]HalfEdge{{2, 3, 1}})
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewPermutation([][]HalfEdge{{1, 3, 2}})
	if err != nil {
		t.Fatal(err)
	}

	if !p.Equal(q) {
		t.Error("rotated cycle not equal")
	}
	if p.Equal(r) {
		t.Error("inverse cycle equal")
	}
}

func TestPermutationString(t *testing.T) {
	p, err := NewPermutation([][]HalfEdge{{1, 3, 2, -1, -3, -2}})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.String(); got != "(1 3 2 -1 -3 -2)" {
		t.Errorf("String() = %q", got)
	}
}

func TestPermutationImagePanics(t *testing.T) {
	p, err := NewPermutation([][]HalfEdge{{1, -1}})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("no panic for half edge outside the permutation")
		}
	}()
	p.Image(2)
}
