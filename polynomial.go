package flatsurf

import "math/big"

// quadratic is the polynomial a·t² + b·t + c with exact coefficients. The
// shift deformation uses these polynomials to track the signed area of a
// triangle corner along the straight-line homotopy; all the root questions it
// asks are answered exactly, with dyadic interval refinement standing in
// where a root is irrational.
type quadratic[T Scalar[T]] struct {
	a, b, c T
}

func (p quadratic[T]) valueAtOne() T {
	return p.a.Add(p.b).Add(p.c)
}

// vertexInside01 reports whether the parabola's vertex -b/2a lies strictly
// inside (0, 1). Requires a ≠ 0.
func (p quadratic[T]) vertexInside01() bool {
	sa := p.a.Sign()
	if p.b.Sign() != -sa {
		return false
	}
	return double(p.a).Add(p.b).Sign() == sa
}

func (p quadratic[T]) discriminant() T {
	return p.b.Mul(p.b).Sub(double(double(p.a.Mul(p.c))))
}

// hasRootIn01 reports whether p has a real root in the closed interval
// [0, 1].
func (p quadratic[T]) hasRootIn01() bool {
	s0 := p.c.Sign()
	s1 := p.valueAtOne().Sign()
	if s0 == 0 || s1 == 0 || s0 != s1 {
		return true
	}
	// Both endpoint values share a strict sign; only a parabola opening
	// towards that sign can reach back across zero in between.
	if p.a.Sign() != s0 {
		return false
	}
	return p.vertexInside01() && p.discriminant().Sign() >= 0
}

// positiveOn01 reports whether p is strictly positive on (0, 1]. Requires
// p(0) > 0.
func (p quadratic[T]) positiveOn01() bool {
	if p.valueAtOne().Sign() <= 0 {
		return false
	}
	if p.a.Sign() > 0 && p.vertexInside01() && p.discriminant().Sign() >= 0 {
		return false
	}
	return true
}

// leftHalf returns 4·p(t/2), whose behavior on [0, 1] matches p on [0, 1/2].
func (p quadratic[T]) leftHalf() quadratic[T] {
	return quadratic[T]{p.a, double(p.b), double(double(p.c))}
}

// rightHalf returns 4·p((t+1)/2), matching p on [1/2, 1].
func (p quadratic[T]) rightHalf() quadratic[T] {
	return quadratic[T]{
		p.a,
		double(p.a.Add(p.b)),
		p.a.Add(double(p.b)).Add(double(double(p.c))),
	}
}

// rootAfterDyadic reports whether p has no root in (0, 2^-k]. Requires
// p(0) > 0.
func (p quadratic[T]) rootAfterDyadic(k int) bool {
	q := p
	for i := 0; i < k; i++ {
		q = q.leftHalf()
	}
	return q.positiveOn01()
}

// signAtFrac returns the sign of p(n/d) for d ≠ 0.
func (p quadratic[T]) signAtFrac(n, d T) int {
	return p.a.Mul(n).Mul(n).Add(p.b.Mul(n).Mul(d)).Add(p.c.Mul(d).Mul(d)).Sign()
}

// isFirstRoot reports whether n/d is the smallest root of p in (0, 1].
func (p quadratic[T]) isFirstRoot(n, d T) bool {
	if n.Sign()*d.Sign() <= 0 || cmpFrac(n, d, n.One(), n.One()) > 0 {
		return false
	}
	if p.signAtFrac(n, d) != 0 {
		return false
	}
	if p.a.Sign() == 0 {
		return true
	}
	// The other root is -b/a - n/d by Vieta; n/d is first unless that
	// root lies strictly between 0 and n/d.
	on := p.b.Neg().Mul(d).Sub(p.a.Mul(n))
	od := p.a.Mul(d)
	if on.Sign()*od.Sign() <= 0 {
		return true
	}
	return cmpFrac(on, od, n, d) >= 0
}

// firstRootsCoincide reports whether p and q have the same smallest root in
// (0, 1]. Both polynomials must be positive at 0 and have a root in (0, 1].
func (p quadratic[T]) firstRootsCoincide(q quadratic[T]) bool {
	if p.a.Sign() == 0 && q.a.Sign() == 0 {
		// -c/b against -c'/b'.
		return cmpFrac(p.c.Neg(), p.b, q.c.Neg(), q.b) == 0
	}
	if p.a.Sign() == 0 {
		return q.isFirstRoot(p.c.Neg(), p.b)
	}
	if q.a.Sign() == 0 {
		return p.isFirstRoot(q.c.Neg(), q.b)
	}
	g1 := p.a.Mul(q.b).Sub(q.a.Mul(p.b))
	g0 := p.a.Mul(q.c).Sub(q.a.Mul(p.c))
	if g1.Sign() == 0 && g0.Sign() == 0 {
		// The polynomials are proportional.
		return true
	}
	h := p.b.Mul(q.c).Sub(q.b.Mul(p.c))
	resultant := g0.Mul(g0).Sub(g1.Mul(h))
	if resultant.Sign() != 0 {
		// No common root at all.
		return false
	}
	// The unique common root is -g0/g1.
	return p.isFirstRoot(g0.Neg(), g1) && q.isFirstRoot(g0.Neg(), g1)
}

// cmpFirstRoot compares the smallest roots of p and q in (0, 1]. Both
// polynomials must be positive at 0 and have a root in (0, 1].
func (p quadratic[T]) cmpFirstRoot(q quadratic[T]) int {
	if p.firstRootsCoincide(q) {
		return 0
	}
	// Bisect both root intervals in lockstep until they separate. Cells
	// are indexed by their left endpoint at the current depth; descending
	// prefers the left half, so a root on a cell border stays at the right
	// edge of its cell.
	P, Q := p, q
	loP, loQ := new(big.Int), new(big.Int)
	one := big.NewInt(1)
	for {
		if l := P.leftHalf(); l.hasRootIn01() {
			P = l
			loP.Lsh(loP, 1)
		} else {
			P = P.rightHalf()
			loP.Lsh(loP, 1).Add(loP, one)
		}
		if l := Q.leftHalf(); l.hasRootIn01() {
			Q = l
			loQ.Lsh(loQ, 1)
		} else {
			Q = Q.rightHalf()
			loQ.Lsh(loQ, 1).Add(loQ, one)
		}
		if c := loP.Cmp(loQ); c != 0 {
			return c
		}
	}
}

// signAtFirstRoot returns the sign of q evaluated at the smallest root of p
// in (0, 1]. p must be positive at 0 and have such a root.
func (p quadratic[T]) signAtFirstRoot(q quadratic[T]) int {
	if p.a.Sign() == 0 {
		// The root is the rational -c/b.
		return q.signAtFrac(p.c.Neg(), p.b)
	}
	// Reduce q modulo p: at any root of p, q agrees with
	// (α·t + β)/a where α = a·b' - a'·b and β = a·c' - a'·c.
	alpha := p.a.Mul(q.b).Sub(q.a.Mul(p.b))
	beta := p.a.Mul(q.c).Sub(q.a.Mul(p.c))
	return p.signOfLinearAtFirstRoot(alpha, beta) * p.a.Sign()
}

// signOfLinearAtFirstRoot returns the sign of α·t₀ + β where t₀ is the
// smallest root of p in (0, 1]. Requires a ≠ 0.
func (p quadratic[T]) signOfLinearAtFirstRoot(alpha, beta T) int {
	if alpha.Sign() == 0 {
		return beta.Sign()
	}
	// α·t₀ + β vanishes iff t₀ is the rational -β/α.
	if p.signAtFrac(beta.Neg(), alpha) == 0 && p.isFirstRoot(beta.Neg(), alpha) {
		return 0
	}
	// Otherwise refine the root interval until -β/α falls outside. The
	// candidate is transformed along with the interval: halving the
	// interval doubles the coordinate, descending right also subtracts
	// the denominator.
	P := p
	n, d := beta.Neg(), alpha
	for {
		if n.Sign()*d.Sign() <= 0 {
			// t₀ > -β/α, so the linear form has the sign of α.
			return alpha.Sign()
		}
		if cmpFrac(n, d, n.One(), n.One()) > 0 {
			return -alpha.Sign()
		}
		if l := P.leftHalf(); l.hasRootIn01() {
			P = l
			n = double(n)
		} else {
			P = P.rightHalf()
			n = double(n).Sub(d)
		}
	}
}
