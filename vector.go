package flatsurf

import "fmt"

// A CCW is the result of the counterclockwise predicate on an ordered pair
// of vectors.
type CCW int

const (
	Clockwise        CCW = -1
	Collinear        CCW = 0
	CounterClockwise CCW = 1
)

func (ccw CCW) String() string {
	switch ccw {
	case Clockwise:
		return "clockwise"
	case Collinear:
		return "collinear"
	case CounterClockwise:
		return "counterclockwise"
	}
	return fmt.Sprintf("CCW(%d)", int(ccw))
}

// An Orientation relates two vectors as directions, ignoring their lengths.
type Orientation int

const (
	OppositeDirection Orientation = -1
	Orthogonal        Orientation = 0
	SameDirection     Orientation = 1
)

func (o Orientation) String() string {
	switch o {
	case OppositeDirection:
		return "opposite"
	case Orthogonal:
		return "orthogonal"
	case SameDirection:
		return "same"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Vector is a 2-D vector with exact coordinates.
type Vector[T Scalar[T]] struct {
	X T
	Y T
}

// Vec returns the vector (x, y).
func Vec[T Scalar[T]](x, y T) Vector[T] {
	return Vector[T]{X: x, Y: y}
}

func (v Vector[T]) String() string {
	return fmt.Sprintf("(%v, %v)", v.X, v.Y)
}

func (v Vector[T]) Add(o Vector[T]) Vector[T] {
	return Vector[T]{
		X: v.X.Add(o.X),
		Y: v.Y.Add(o.Y),
	}
}

func (v Vector[T]) Sub(o Vector[T]) Vector[T] {
	return Vector[T]{
		X: v.X.Sub(o.X),
		Y: v.Y.Sub(o.Y),
	}
}

func (v Vector[T]) Neg() Vector[T] {
	return Vector[T]{
		X: v.X.Neg(),
		Y: v.Y.Neg(),
	}
}

// Scale returns the vector scaled by k.
func (v Vector[T]) Scale(k T) Vector[T] {
	return Vector[T]{
		X: v.X.Mul(k),
		Y: v.Y.Mul(k),
	}
}

// Div returns v/k if both coordinates divide exactly.
func (v Vector[T]) Div(k T) (Vector[T], bool) {
	x, okx := divExact(v.X, k)
	y, oky := divExact(v.Y, k)
	return Vector[T]{X: x, Y: y}, okx && oky
}

// Dot returns the dot product of the two vectors.
func (v Vector[T]) Dot(o Vector[T]) T {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y))
}

// Cross returns the cross product of the two vectors.
func (v Vector[T]) Cross(o Vector[T]) T {
	return v.X.Mul(o.Y).Sub(v.Y.Mul(o.X))
}

// Perp returns the vector rotated by a quarter turn counterclockwise.
func (v Vector[T]) Perp() Vector[T] {
	return Vector[T]{
		X: v.Y.Neg(),
		Y: v.X,
	}
}

// IsZero reports whether both coordinates are zero.
func (v Vector[T]) IsZero() bool {
	return v.X.Sign() == 0 && v.Y.Sign() == 0
}

// upper reports whether the vector lies in the upper half plane, which
// includes the positive horizontal axis; of v and -v exactly one does.
func (v Vector[T]) upper() bool {
	if s := v.Y.Sign(); s != 0 {
		return s > 0
	}
	return v.X.Sign() > 0
}

// Equal reports whether the two vectors are exactly equal.
func (v Vector[T]) Equal(o Vector[T]) bool {
	return v.X.Cmp(o.X) == 0 && v.Y.Cmp(o.Y) == 0
}

// Hypot2 returns the squared euclidean length of the vector.
func (v Vector[T]) Hypot2() T {
	return v.Dot(v)
}

// CCW returns the counterclockwise predicate for the ordered pair (v, o):
// [CounterClockwise] if o lies strictly to the left of v, [Clockwise] if
// strictly to the right, [Collinear] otherwise. The answer is exact.
func (v Vector[T]) CCW(o Vector[T]) CCW {
	return CCW(v.Cross(o).Sign())
}

// OrientationTo relates the directions of v and o: [SameDirection] if their
// dot product is positive, [OppositeDirection] if negative, [Orthogonal] if
// exactly zero.
func (v Vector[T]) OrientationTo(o Vector[T]) Orientation {
	return Orientation(v.Dot(o).Sign())
}

// Parallel reports whether o points in exactly the same direction as v.
func (v Vector[T]) Parallel(o Vector[T]) bool {
	return v.CCW(o) == Collinear && v.OrientationTo(o) == SameDirection
}

// Area2 returns twice the signed area enclosed by the polygon traced by the
// given vectors laid head to tail. The factor of two keeps the result inside
// the ring for integer scalars.
func Area2[T Scalar[T]](perimeter []Vector[T]) T {
	var area T
	var current Vector[T]
	for _, v := range perimeter {
		next := current.Add(v)
		area = area.Add(current.Cross(next))
		current = next
	}
	return area
}
