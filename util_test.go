package flatsurf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ratEqual compares Rat values by value; cmp cannot look inside big.Rat.
var ratEqual = cmp.Comparer(func(a, b Rat) bool { return a.Cmp(b) == 0 })

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	opts = append(opts, ratEqual)
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

// rv is shorthand for a vector with integral rational coordinates.
func rv(x, y int64) Vector[Rat] {
	return Vec(RatFromInt(x), RatFromInt(y))
}

// rq is shorthand for a vector with general rational coordinates.
func rq(xn, xd, yn, yd int64) Vector[Rat] {
	return Vec(NewRat(xn, xd), NewRat(yn, yd))
}

// iv is shorthand for a vector with int64 coordinates.
func iv(x, y int64) Vector[Int] {
	return Vec(Int(x), Int(y))
}
