package flatsurf

// A Tracked value is attached to a combinatorial triangulation and kept
// consistent across its structural mutations. The update callbacks fire
// synchronously, exactly once per mutation, in the order the tracked values
// were registered: after each flip and before each collapse.
//
// The geometric layer uses this to maintain its vector and approximation
// maps; the deformation algorithms use it to follow half edges through
// sequences of flips and collapses.
type Tracked[V any] struct {
	c          *Combinatorial
	value      V
	onFlip     func(value V, c *Combinatorial, flipped HalfEdge) V
	onCollapse func(value V, c *Combinatorial, collapsed HalfEdge) V
}

// Track registers value with c. The callbacks may be nil, in which case the
// corresponding mutation leaves the value untouched. onFlip runs after the
// flip has been performed, onCollapse right before the collapsed half edges
// disappear.
func Track[V any](c *Combinatorial, value V,
	onFlip func(value V, c *Combinatorial, flipped HalfEdge) V,
	onCollapse func(value V, c *Combinatorial, collapsed HalfEdge) V,
) *Tracked[V] {
	t := &Tracked[V]{c: c, value: value, onFlip: onFlip, onCollapse: onCollapse}
	c.addObserver(t)
	return t
}

// Value returns the tracked value.
func (t *Tracked[V]) Value() V {
	return t.value
}

// Set replaces the tracked value.
func (t *Tracked[V]) Set(value V) {
	t.value = value
}

// Forget detaches the value from the triangulation; later mutations no
// longer update it.
func (t *Tracked[V]) Forget() {
	if t.c != nil {
		t.c.removeObserver(t)
		t.c = nil
	}
}

func (t *Tracked[V]) afterFlip(c *Combinatorial, flipped HalfEdge) {
	if t.onFlip != nil {
		t.value = t.onFlip(t.value, c, flipped)
	}
}

func (t *Tracked[V]) beforeCollapse(c *Combinatorial, collapsed HalfEdge) {
	if t.onCollapse != nil {
		t.value = t.onCollapse(t.value, c, collapsed)
	}
}
