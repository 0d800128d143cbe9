package flatsurf

import "math"

// interval is a float64 interval certain to contain the exact value it
// approximates. Arithmetic widens the bounds outward by an ulp per
// operation, so a sign read off an interval is a proof, never a guess; when
// the interval straddles zero the caller falls back to exact arithmetic.
type interval struct {
	lo, hi float64
}

func intervalOf[T Scalar[T]](x T) interval {
	f := x.Float64()
	return interval{
		lo: math.Nextafter(f, math.Inf(-1)),
		hi: math.Nextafter(f, math.Inf(1)),
	}
}

func (i interval) add(j interval) interval {
	return interval{
		lo: math.Nextafter(i.lo+j.lo, math.Inf(-1)),
		hi: math.Nextafter(i.hi+j.hi, math.Inf(1)),
	}
}

func (i interval) sub(j interval) interval {
	return interval{
		lo: math.Nextafter(i.lo-j.hi, math.Inf(-1)),
		hi: math.Nextafter(i.hi-j.lo, math.Inf(1)),
	}
}

func (i interval) neg() interval {
	return interval{lo: -i.hi, hi: -i.lo}
}

func (i interval) mul(j interval) interval {
	a, b, c, d := i.lo*j.lo, i.lo*j.hi, i.hi*j.lo, i.hi*j.hi
	lo := math.Min(math.Min(a, b), math.Min(c, d))
	hi := math.Max(math.Max(a, b), math.Max(c, d))
	return interval{
		lo: math.Nextafter(lo, math.Inf(-1)),
		hi: math.Nextafter(hi, math.Inf(1)),
	}
}

// sign returns the sign of the enclosed value if the interval certifies it.
func (i interval) sign() (int, bool) {
	switch {
	case i.lo > 0:
		return 1, true
	case i.hi < 0:
		return -1, true
	}
	return 0, false
}

// vecInterval approximates a vector componentwise.
type vecInterval struct {
	x, y interval
}

func vecIntervalOf[T Scalar[T]](v Vector[T]) vecInterval {
	return vecInterval{x: intervalOf(v.X), y: intervalOf(v.Y)}
}

func (v vecInterval) neg() vecInterval {
	return vecInterval{x: v.x.neg(), y: v.y.neg()}
}

func (v vecInterval) add(o vecInterval) vecInterval {
	return vecInterval{x: v.x.add(o.x), y: v.y.add(o.y)}
}

func (v vecInterval) cross(o vecInterval) interval {
	return v.x.mul(o.y).sub(v.y.mul(o.x))
}

func (v vecInterval) dot(o vecInterval) interval {
	return v.x.mul(o.x).add(v.y.mul(o.y))
}
