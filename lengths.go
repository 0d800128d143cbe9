package flatsurf

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Lengths labels edges of a surface with the horizontal extents of saddle
// connections, measured against a fixed vertical direction. It is the bridge
// towards interval exchange transformations: the labeled widths are the
// interval lengths on a transversal of the vertical flow, and the
// stack/subtract protocol below is the arithmetic that induction performs on
// them. Edges parallel to the vertical have no width and carry no label.
//
// Subtractions update the stored widths only; the anchoring saddle
// connections keep describing the surface the widths were read off from.
type Lengths[T Scalar[T]] struct {
	vertical    *Vertical[T]
	connections *EdgeMap[SaddleConnection[T]]
	lengths     *EdgeMap[T]
	labeled     *EdgeSet

	stack []Edge
	sum   T
}

// NewLengths labels every edge with a connection in connections by the
// horizontal extent of that connection with respect to vertical. Edges
// without a connection carry no label. Every connection must live on the
// vertical's surface and have positive horizontal extent; for an edge
// crossed against the horizontal, pass the connection of its reversed half
// edge.
func NewLengths[T Scalar[T]](vertical *Vertical[T], connections *EdgeMap[SaddleConnection[T]]) (*Lengths[T], error) {
	l := &Lengths[T]{
		vertical:    vertical,
		connections: &EdgeMap[SaddleConnection[T]]{},
		lengths:     &EdgeMap[T]{},
		labeled:     &EdgeSet{},
	}
	for _, e := range vertical.Surface().Edges() {
		c := connections.Get(e)
		if c.Surface() == nil {
			continue
		}
		if !c.Surface().Equal(vertical.Surface()) {
			return nil, errors.Errorf("connection %v for edge %v lives on a different surface", c, e)
		}
		width := vertical.ProjectPerpendicular(c.Vector())
		if width.Sign() <= 0 {
			return nil, errors.Errorf("connection %v for edge %v must have positive horizontal extent, got %v", c, e, width)
		}
		l.connections.Set(e, c)
		l.lengths.Set(e, width)
		l.labeled.Insert(e)
	}
	if l.labeled.Empty() {
		return nil, errors.New("at least one edge must carry a connection")
	}
	return l, nil
}

// Vertical returns the direction the widths are measured against.
func (l *Lengths[T]) Vertical() *Vertical[T] { return l.vertical }

// Edges returns the labeled edges in increasing order.
func (l *Lengths[T]) Edges() []Edge { return l.labeled.Slice() }

// Connection returns the saddle connection e was labeled with.
func (l *Lengths[T]) Connection(e Edge) SaddleConnection[T] {
	l.must(e)
	return l.connections.Get(e)
}

// Get returns the current length of e.
func (l *Lengths[T]) Get(e Edge) T {
	l.must(e)
	return l.lengths.Get(e)
}

// Cmp compares the lengths of a and b.
func (l *Lengths[T]) Cmp(a, b Edge) int {
	return l.Get(a).Cmp(l.Get(b))
}

// CmpStack compares the sum of the stacked lengths with the length of e.
func (l *Lengths[T]) CmpStack(e Edge) int {
	return l.sum.Cmp(l.Get(e))
}

// Push places e on the stack of pending subtrahends.
func (l *Lengths[T]) Push(e Edge) {
	l.must(e)
	l.stack = append(l.stack, e)
	l.sum = l.sum.Add(l.lengths.Get(e))
}

// Pop removes the most recently pushed edge from the stack.
func (l *Lengths[T]) Pop() {
	if len(l.stack) == 0 {
		panic("flatsurf: pop from an empty length stack")
	}
	e := l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	l.sum = l.sum.Sub(l.lengths.Get(e))
}

// Subtract shortens from by the sum of the stacked lengths and clears the
// stack. The remainder must stay positive; callers check with [Lengths.CmpStack]
// first.
func (l *Lengths[T]) Subtract(from Edge) {
	l.mustNotStack(from)
	r := l.Get(from).Sub(l.sum)
	if r.Sign() <= 0 {
		panic(fmt.Sprintf("flatsurf: subtracting the stacked lengths from %v leaves no positive length", from))
	}
	l.lengths.Set(from, r)
	l.clear()
}

// SubtractRepeated shortens from by the sum of the stacked lengths as often
// as the remainder stays positive, which must be possible at least once. It
// clears the stack and returns the stacked edge at which one further round
// of subtraction would exhaust the remainder.
func (l *Lengths[T]) SubtractRepeated(from Edge) Edge {
	l.mustNotStack(from)
	if l.sum.Sign() <= 0 {
		panic("flatsurf: nothing stacked to subtract")
	}
	r := l.Get(from).Sub(l.sum)
	if r.Sign() <= 0 {
		panic(fmt.Sprintf("flatsurf: subtracting the stacked lengths from %v leaves no positive length", from))
	}

	// Reduce modulo the stack sum, subtracting the largest doublings of the
	// sum that keep the remainder positive.
	for r.Cmp(l.sum) > 0 {
		step := l.sum
		for double(step).Cmp(r) < 0 {
			step = double(step)
		}
		r = r.Sub(step)
	}

	// The next round runs out of length inside the stack where the
	// cumulative stacked length first reaches the remainder.
	var stop Edge
	var cum T
	for _, e := range l.stack {
		cum = cum.Add(l.lengths.Get(e))
		if cum.Cmp(r) >= 0 {
			stop = e
			break
		}
	}

	l.lengths.Set(from, r)
	l.clear()
	return stop
}

func (l *Lengths[T]) must(e Edge) {
	if !l.labeled.Contains(e) {
		panic(fmt.Sprintf("flatsurf: edge %v carries no length", e))
	}
}

func (l *Lengths[T]) mustNotStack(e Edge) {
	for _, s := range l.stack {
		if s == e {
			panic(fmt.Sprintf("flatsurf: cannot subtract the stack from %v while it is stacked", e))
		}
	}
}

func (l *Lengths[T]) clear() {
	l.stack = l.stack[:0]
	var zero T
	l.sum = zero
}

func (l *Lengths[T]) String() string {
	var parts []string
	for _, e := range l.Edges() {
		parts = append(parts, fmt.Sprintf("%v: %v", e, l.lengths.Get(e)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
