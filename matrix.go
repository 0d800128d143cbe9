package flatsurf

import "fmt"

// Linear describes a linear transformation of the plane via coefficients.
//
// If the coefficients are (a, b, c, d), then the resulting transformation
// represents this matrix:
//
//	| a c |
//	| b d |
//
// acting on column vectors, so that (A * B) * v == A * (B * v).
type Linear[T Scalar[T]] struct {
	N0, N1, N2, N3 T
}

// NewLinear creates a new linear transformation from an array of
// coefficients. Alternatively, you can initialize the fields of [Linear]
// manually.
func NewLinear[T Scalar[T]](n [4]T) Linear[T] {
	return Linear[T]{n[0], n[1], n[2], n[3]}
}

// LinearFromColumns creates the transformation whose columns are v and w,
// i.e. the one taking (1, 0) to v and (0, 1) to w.
func LinearFromColumns[T Scalar[T]](v, w Vector[T]) Linear[T] {
	return Linear[T]{v.X, v.Y, w.X, w.Y}
}

// IdentityLinear returns the identity transformation.
func IdentityLinear[T Scalar[T]]() Linear[T] {
	var zero T
	one := zero.One()
	return Linear[T]{one, zero, zero, one}
}

// Coefficients returns the coefficients of the transformation.
func (m Linear[T]) Coefficients() [4]T {
	return [4]T{m.N0, m.N1, m.N2, m.N3}
}

// Apply transforms the vector v.
func (m Linear[T]) Apply(v Vector[T]) Vector[T] {
	return Vector[T]{
		X: m.N0.Mul(v.X).Add(m.N2.Mul(v.Y)),
		Y: m.N1.Mul(v.X).Add(m.N3.Mul(v.Y)),
	}
}

// Mul composes two transformations; the returned transformation acts like o
// followed by m.
func (m Linear[T]) Mul(o Linear[T]) Linear[T] {
	return Linear[T]{
		m.N0.Mul(o.N0).Add(m.N2.Mul(o.N1)),
		m.N1.Mul(o.N0).Add(m.N3.Mul(o.N1)),
		m.N0.Mul(o.N2).Add(m.N2.Mul(o.N3)),
		m.N1.Mul(o.N2).Add(m.N3.Mul(o.N3)),
	}
}

// Determinant computes the determinant.
func (m Linear[T]) Determinant() T {
	return m.N0.Mul(m.N3).Sub(m.N1.Mul(m.N2))
}

// IsIdentity reports whether this is the identity transformation.
func (m Linear[T]) IsIdentity() bool {
	var zero T
	one := zero.One()
	return m.N0.Cmp(one) == 0 && m.N1.Sign() == 0 && m.N2.Sign() == 0 && m.N3.Cmp(one) == 0
}

// IsOrientationPreserving reports whether the transformation has positive
// determinant.
func (m Linear[T]) IsOrientationPreserving() bool {
	return m.Determinant().Sign() > 0
}

// Invert computes the inverse transformation.
//
// The second return value is false when the transformation is singular or
// when the inverse has entries that cannot be represented exactly in T, for
// example when inverting an integer matrix of determinant two over the
// integers.
func (m Linear[T]) Invert() (Linear[T], bool) {
	det := m.Determinant()
	if det.Sign() == 0 {
		return Linear[T]{}, false
	}
	n0, ok0 := divExact(m.N3, det)
	n1, ok1 := divExact(m.N1.Neg(), det)
	n2, ok2 := divExact(m.N2.Neg(), det)
	n3, ok3 := divExact(m.N0, det)
	if !(ok0 && ok1 && ok2 && ok3) {
		return Linear[T]{}, false
	}
	return Linear[T]{n0, n1, n2, n3}, true
}

func (m Linear[T]) String() string {
	return fmt.Sprintf("[[%v, %v], [%v, %v]]", m.N0, m.N2, m.N1, m.N3)
}
