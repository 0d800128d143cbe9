package flatsurf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEquivalenceString(t *testing.T) {
	custom := func(*Triangulation[Rat], HalfEdge, HalfEdge) (Linear[Rat], error) {
		return IdentityLinear[Rat](), nil
	}
	diff(t, "Orientation Preserving Combinatorial Equivalence", CombinatorialEquivalence[Rat](true, nil).String())
	diff(t, "Combinatorial Equivalence", CombinatorialEquivalence[Rat](false, nil).String())
	diff(t, "Equivalence Modulo Labels", UnlabeledEquivalence[Rat](nil).String())
	diff(t, "Equivalence Modulo SL(2)", AreaPreservingEquivalence[Rat](true, nil).String())
	diff(t, "Equivalence Modulo SL±(2)", AreaPreservingEquivalence[Rat](false, nil).String())
	diff(t, "Orthogonal Equivalence", OrthogonalEquivalence[Rat](true, nil).String())
	diff(t, "Orientation Preserving Linear Equivalence", LinearEquivalence[Rat](true, nil, nil).String())
	diff(t, "Linear Equivalence", LinearEquivalence[Rat](false, nil, nil).String())
	diff(t, "Custom Linear Equivalence", LinearEquivalence(true, custom, nil).String())
}

func TestEquivalenceEqual(t *testing.T) {
	require.True(t, CombinatorialEquivalence[Rat](true, nil).Equal(CombinatorialEquivalence[Rat](true, nil)))
	require.False(t, CombinatorialEquivalence[Rat](true, nil).Equal(CombinatorialEquivalence[Rat](false, nil)))
	require.False(t, CombinatorialEquivalence[Rat](true, nil).Equal(UnlabeledEquivalence[Rat](nil)))
	require.True(t, UnlabeledEquivalence[Rat](nil).Equal(UnlabeledEquivalence[Rat](nil)))
	require.False(t, UnlabeledEquivalence[Rat](nil).Equal(AreaPreservingEquivalence[Rat](true, nil)))
	require.False(t, AreaPreservingEquivalence[Rat](true, nil).Equal(AreaPreservingEquivalence[Rat](false, nil)))

	// Custom normalizations cannot be compared, not even to themselves.
	custom := func(*Triangulation[Rat], HalfEdge, HalfEdge) (Linear[Rat], error) {
		return IdentityLinear[Rat](), nil
	}
	e := LinearEquivalence(true, custom, nil)
	require.False(t, e.Equal(e))
}

func TestEquivalenceAutomorphisms(t *testing.T) {
	s := squareTorus(t)

	// The diagonal of the torus is invisible to the default predicate, so
	// the combinatorial symmetries are those of the square cell.
	for _, tt := range []struct {
		equivalence Equivalence[Rat]
		want        int
	}{
		{CombinatorialEquivalence[Rat](true, nil), 4},
		{CombinatorialEquivalence[Rat](false, nil), 8},
		{UnlabeledEquivalence[Rat](nil), 1},
		{AreaPreservingEquivalence[Rat](true, nil), 4},
	} {
		class, err := NewEquivalenceClass(s, tt.equivalence)
		require.NoError(t, err, tt.equivalence.String())
		require.Equal(t, tt.want, class.Automorphisms(), tt.equivalence.String())
	}

	// Seeing all edges adds the symmetries moving the diagonal.
	all := func(*Triangulation[Rat], Edge) bool { return true }
	class, err := NewEquivalenceClass(s, CombinatorialEquivalence(true, all))
	require.NoError(t, err)
	require.Equal(t, 6, class.Automorphisms())
}

func TestEquivalenceClassRelabeled(t *testing.T) {
	s := squareTorus(t)
	relabeled, err := NewTriangulation(
		[][]HalfEdge{{1, 2, 3, -1, -2, -3}},
		[]Vector[Rat]{rv(1, 0), rv(1, 1), rv(0, 1)})
	require.NoError(t, err)

	a, err := NewEquivalenceClass(s, UnlabeledEquivalence[Rat](nil))
	require.NoError(t, err)
	b, err := NewEquivalenceClass(relabeled, UnlabeledEquivalence[Rat](nil))
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.True(t, a.Code().Equal(b.Code()))
	require.Equal(t, a.Hash(), b.Hash())
	require.True(t, a.Representative().Equal(b.Representative()))

	// The canonical representative reproduces its own class.
	c, err := NewEquivalenceClass(a.Representative(), UnlabeledEquivalence[Rat](nil))
	require.NoError(t, err)
	require.True(t, a.Equal(c))

	isomorphic, err := UnlabeledEquivalence[Rat](nil).Isomorphic(s, relabeled)
	require.NoError(t, err)
	require.True(t, isomorphic)
}

func TestEquivalenceClassDistinguishes(t *testing.T) {
	a, err := NewEquivalenceClass(squareTorus(t), UnlabeledEquivalence[Rat](nil))
	require.NoError(t, err)
	b, err := NewEquivalenceClass(lSurface(t), UnlabeledEquivalence[Rat](nil))
	require.NoError(t, err)
	require.False(t, a.Equal(b))

	// Classes under different equivalences never compare equal.
	c, err := NewEquivalenceClass(squareTorus(t), AreaPreservingEquivalence[Rat](true, nil))
	require.NoError(t, err)
	require.False(t, a.Equal(c))
}

func TestEquivalenceScaled(t *testing.T) {
	s := squareTorus(t)
	doubled, err := s.Scale(NewRat(2, 1))
	require.NoError(t, err)

	isomorphic, err := AreaPreservingEquivalence[Rat](true, nil).Isomorphic(s, doubled)
	require.NoError(t, err)
	require.False(t, isomorphic)

	isomorphic, err = LinearEquivalence[Rat](true, nil, nil).Isomorphic(s, doubled)
	require.NoError(t, err)
	require.True(t, isomorphic)
}

func TestCombinatorialEquivalencePredicate(t *testing.T) {
	s := squareTorus(t)
	sheared := shearedTorus(t)

	// Under the default predicate the torus is a single square cell while
	// the sheared torus, not being Delaunay, keeps all its edges.
	isomorphic, err := CombinatorialEquivalence[Rat](true, nil).Isomorphic(s, sheared)
	require.NoError(t, err)
	require.False(t, isomorphic)

	all := func(*Triangulation[Rat], Edge) bool { return true }
	isomorphic, err = CombinatorialEquivalence(true, all).Isomorphic(s, sheared)
	require.NoError(t, err)
	require.True(t, isomorphic)

	none := func(*Triangulation[Rat], Edge) bool { return false }
	_, err = NewEquivalenceClass(s, CombinatorialEquivalence(true, none))
	require.Error(t, err)
	require.Contains(t, err.Error(), "every edge is excluded")
}

func TestLinearEquivalenceCustomNormalization(t *testing.T) {
	s := squareTorus(t)
	identity := func(*Triangulation[Rat], HalfEdge, HalfEdge) (Linear[Rat], error) {
		return IdentityLinear[Rat](), nil
	}

	class, err := NewEquivalenceClass(s, LinearEquivalence(true, identity, nil))
	require.NoError(t, err)
	require.Equal(t, 1, class.Automorphisms())

	// Normalizing to the identity matches the plain relabeling codes, but
	// the equivalences themselves stay distinct.
	unlabeled, err := NewEquivalenceClass(s, UnlabeledEquivalence[Rat](nil))
	require.NoError(t, err)
	require.True(t, class.Code().Equal(unlabeled.Code()))
	require.False(t, class.Equal(unlabeled))

	// An orientation reversing walk needs a reflecting normalization.
	_, err = NewEquivalenceClass(s, LinearEquivalence(false, identity, nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "wrong orientation")
}

func TestOrthogonalEquivalenceNotImplemented(t *testing.T) {
	s := squareTorus(t)

	_, err := NewEquivalenceClass(s, OrthogonalEquivalence[Rat](true, nil))
	require.ErrorIs(t, err, ErrNotImplemented)

	_, err = OrthogonalEquivalence[Rat](true, nil).Isomorphic(s, s)
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestEquivalenceIsomorphismsNotImplemented(t *testing.T) {
	s := squareTorus(t)

	_, err := UnlabeledEquivalence[Rat](nil).Isomorphisms(s, s)
	require.ErrorIs(t, err, ErrNotImplemented)
}
