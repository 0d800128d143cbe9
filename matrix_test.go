package flatsurf

import "testing"

func TestLinearApply(t *testing.T) {
	// The shear taking (0, 1) to (2, 1).
	m := NewLinear([4]Int{1, 0, 2, 1})

	diff(t, iv(1, 0), m.Apply(iv(1, 0)))
	diff(t, iv(2, 1), m.Apply(iv(0, 1)))
	diff(t, iv(7, 3), m.Apply(iv(1, 3)))
}

func TestLinearFromColumns(t *testing.T) {
	m := LinearFromColumns(iv(1, 2), iv(3, 4))
	diff(t, iv(1, 2), m.Apply(iv(1, 0)))
	diff(t, iv(3, 4), m.Apply(iv(0, 1)))
	diff(t, [4]Int{1, 2, 3, 4}, m.Coefficients())
}

func TestLinearMul(t *testing.T) {
	a := NewLinear([4]Int{1, 0, 2, 1})
	b := NewLinear([4]Int{0, 1, -1, 0})

	v := iv(3, 5)
	diff(t, a.Apply(b.Apply(v)), a.Mul(b).Apply(v))
	diff(t, b.Apply(a.Apply(v)), b.Mul(a).Apply(v))
}

func TestLinearDeterminant(t *testing.T) {
	diff(t, Int(1), NewLinear([4]Int{1, 0, 2, 1}).Determinant())
	diff(t, Int(-2), NewLinear([4]Int{1, 1, 1, -1}).Determinant())
	diff(t, Int(0), NewLinear([4]Int{1, 2, 2, 4}).Determinant())
}

func TestLinearIsIdentity(t *testing.T) {
	if !IdentityLinear[Int]().IsIdentity() {
		t.Error("identity not recognized")
	}
	if NewLinear([4]Int{1, 0, 1, 1}).IsIdentity() {
		t.Error("shear reported as identity")
	}
}

func TestLinearIsOrientationPreserving(t *testing.T) {
	if !NewLinear([4]Int{1, 0, 2, 1}).IsOrientationPreserving() {
		t.Error("shear not orientation preserving")
	}
	if NewLinear([4]Int{1, 0, 0, -1}).IsOrientationPreserving() {
		t.Error("reflection orientation preserving")
	}
}

func TestLinearInvert(t *testing.T) {
	m := NewLinear([4]Int{1, 0, 2, 1})
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("shear not invertible")
	}
	if !m.Mul(inv).IsIdentity() || !inv.Mul(m).IsIdentity() {
		t.Error("inverse does not compose to the identity")
	}

	// Singular matrices have no inverse.
	if _, ok := NewLinear([4]Int{1, 2, 2, 4}).Invert(); ok {
		t.Error("inverted a singular matrix")
	}

	// Over the integers a determinant of two cannot be divided out.
	if _, ok := NewLinear([4]Int{2, 0, 0, 1}).Invert(); ok {
		t.Error("inverted an integer matrix of determinant two")
	}

	// Over the rationals it can.
	r := NewLinear([4]Rat{RatFromInt(2), Rat{}, Rat{}, RatFromInt(1)})
	rinv, ok := r.Invert()
	if !ok {
		t.Fatal("rational matrix not invertible")
	}
	diff(t, Vec(NewRat(1, 2), Rat{}), rinv.Apply(Vec(RatFromInt(1), Rat{})))
}

func TestLinearString(t *testing.T) {
	m := NewLinear([4]Int{1, 2, 3, 4})
	if got := m.String(); got != "[[1, 3], [2, 4]]" {
		t.Errorf("String() = %q", got)
	}
}
