package flatsurf

// HalfEdgeMap is a dense map from half edges to values. The zero value is an
// empty map; missing entries read as the zero value of V.
type HalfEdgeMap[V any] struct {
	values []V
}

func (m *HalfEdgeMap[V]) grow(n int) {
	for len(m.values) <= n {
		var zero V
		m.values = append(m.values, zero)
	}
}

// Get returns the value stored for he.
func (m *HalfEdgeMap[V]) Get(he HalfEdge) V {
	i := he.index()
	if i >= len(m.values) {
		var zero V
		return zero
	}
	return m.values[i]
}

// Set stores v for he.
func (m *HalfEdgeMap[V]) Set(he HalfEdge, v V) {
	i := he.index()
	m.grow(i)
	m.values[i] = v
}

// Clone returns a deep copy of the map structure. Values are copied
// shallowly.
func (m *HalfEdgeMap[V]) Clone() *HalfEdgeMap[V] {
	values := make([]V, len(m.values))
	copy(values, m.values)
	return &HalfEdgeMap[V]{values: values}
}

// OddHalfEdgeMap maps half edges to vectors subject to the antisymmetry
// vector(-he) = -vector(he). Only one value per edge is stored; reading the
// reverse half edge negates on the fly.
type OddHalfEdgeMap[T Scalar[T]] struct {
	values []Vector[T]
}

// Get returns the vector assigned to he.
func (m *OddHalfEdgeMap[T]) Get(he HalfEdge) Vector[T] {
	i := he.Edge().index()
	if i >= len(m.values) {
		return Vector[T]{}
	}
	if he < 0 {
		return m.values[i].Neg()
	}
	return m.values[i]
}

// Set assigns v to he and, implicitly, -v to its reverse.
func (m *OddHalfEdgeMap[T]) Set(he HalfEdge, v Vector[T]) {
	i := he.Edge().index()
	for len(m.values) <= i {
		m.values = append(m.values, Vector[T]{})
	}
	if he < 0 {
		v = v.Neg()
	}
	m.values[i] = v
}

// Clone returns a deep copy of the map.
func (m *OddHalfEdgeMap[T]) Clone() *OddHalfEdgeMap[T] {
	values := make([]Vector[T], len(m.values))
	copy(values, m.values)
	return &OddHalfEdgeMap[T]{values: values}
}

// EdgeMap is a dense map from undirected edges to values.
type EdgeMap[V any] struct {
	values []V
}

// Get returns the value stored for e.
func (m *EdgeMap[V]) Get(e Edge) V {
	i := e.index()
	if i >= len(m.values) {
		var zero V
		return zero
	}
	return m.values[i]
}

// Set stores v for e.
func (m *EdgeMap[V]) Set(e Edge, v V) {
	i := e.index()
	for len(m.values) <= i {
		var zero V
		m.values = append(m.values, zero)
	}
	m.values[i] = v
}

// EdgeSet is a set of undirected edges.
type EdgeSet struct {
	members EdgeMap[bool]
}

// Contains reports whether e is in the set.
func (s *EdgeSet) Contains(e Edge) bool {
	return s.members.Get(e)
}

// Insert adds e to the set.
func (s *EdgeSet) Insert(e Edge) {
	s.members.Set(e, true)
}

// Remove deletes e from the set.
func (s *EdgeSet) Remove(e Edge) {
	s.members.Set(e, false)
}

// Empty reports whether the set has no members.
func (s *EdgeSet) Empty() bool {
	for _, in := range s.members.values {
		if in {
			return false
		}
	}
	return true
}

// Slice returns the members in increasing edge order.
func (s *EdgeSet) Slice() []Edge {
	var edges []Edge
	for i, in := range s.members.values {
		if in {
			edges = append(edges, Edge(i+1))
		}
	}
	return edges
}

// HalfEdgeSet is a set of half edges.
type HalfEdgeSet struct {
	members HalfEdgeMap[bool]
}

// Contains reports whether he is in the set.
func (s *HalfEdgeSet) Contains(he HalfEdge) bool {
	return s.members.Get(he)
}

// Insert adds he to the set.
func (s *HalfEdgeSet) Insert(he HalfEdge) {
	s.members.Set(he, true)
}
