package flatsurf

import "testing"

func TestIntArithmetic(t *testing.T) {
	a, b := Int(6), Int(-4)

	diff(t, Int(2), a.Add(b))
	diff(t, Int(10), a.Sub(b))
	diff(t, Int(-24), a.Mul(b))
	diff(t, Int(-6), a.Neg())
	diff(t, Int(1), a.One())

	if got := a.Sign(); got != 1 {
		t.Errorf("Sign(6) = %d", got)
	}
	if got := b.Sign(); got != -1 {
		t.Errorf("Sign(-4) = %d", got)
	}
	if got := Int(0).Sign(); got != 0 {
		t.Errorf("Sign(0) = %d", got)
	}
	if got := a.Cmp(b); got != 1 {
		t.Errorf("Cmp(6, -4) = %d", got)
	}
	if got := a.String(); got != "6" {
		t.Errorf("String() = %q", got)
	}
}

func TestIntDiv(t *testing.T) {
	q, ok := Int(6).Div(Int(3))
	if !ok {
		t.Fatal("6/3 not exact")
	}
	diff(t, Int(2), q)

	// 5/2 is not an integer so the quotient does not exist in this ring.
	if _, ok := Int(5).Div(Int(2)); ok {
		t.Error("5/2 reported exact")
	}
	if _, ok := Int(5).Div(Int(0)); ok {
		t.Error("5/0 reported exact")
	}
}

func TestRatArithmetic(t *testing.T) {
	a := NewRat(1, 2)
	b := NewRat(1, 3)

	diff(t, NewRat(5, 6), a.Add(b))
	diff(t, NewRat(1, 6), a.Sub(b))
	diff(t, NewRat(1, 6), a.Mul(b))
	diff(t, NewRat(-1, 2), a.Neg())
	diff(t, RatFromInt(1), a.One())

	if got := a.Sign(); got != 1 {
		t.Errorf("Sign(1/2) = %d", got)
	}
	if got := a.Cmp(b); got != 1 {
		t.Errorf("Cmp(1/2, 1/3) = %d", got)
	}
	if got := a.String(); got != "1/2" {
		t.Errorf("String() = %q", got)
	}
	if got := RatFromInt(3).String(); got != "3" {
		t.Errorf("String() = %q", got)
	}
}

func TestRatDiv(t *testing.T) {
	q, ok := NewRat(1, 2).Div(NewRat(3, 4))
	if !ok {
		t.Fatal("division failed in a field")
	}
	diff(t, NewRat(2, 3), q)

	if _, ok := NewRat(1, 2).Div(Rat{}); ok {
		t.Error("division by zero reported exact")
	}
}

func TestRatZeroValue(t *testing.T) {
	// The zero value must be usable without initialization.
	var zero Rat

	if got := zero.Sign(); got != 0 {
		t.Errorf("Sign() = %d", got)
	}
	diff(t, NewRat(1, 2), zero.Add(NewRat(1, 2)))
	diff(t, Rat{}, zero.Mul(NewRat(7, 3)))
	if got := zero.String(); got != "0" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewRatZeroDenominator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic for zero denominator")
		}
	}()
	NewRat(1, 0)
}

func TestRatImmutable(t *testing.T) {
	a := NewRat(1, 2)
	a.Add(NewRat(1, 2))
	a.Neg()
	diff(t, NewRat(1, 2), a)
}
