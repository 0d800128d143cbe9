package flatsurf

import (
	"slices"
)

// combinatorialWalker relabels the half edges of a surface breadth first from
// a fixed start, emitting one character per processed half edge: the labels
// of the fan of half edges at the vertex the processed half edge points to,
// anchored at its reverse. Words of such characters reconstruct the walked
// structure up to relabeling, so the lexicographically minimal word over all
// walkers is a canonical form.
//
// A walker with sgn -1 reads the surface with its orientation reversed;
// edges rejected by include are invisible to the walk.
type combinatorialWalker[T Scalar[T]] struct {
	surface *Triangulation[T]
	sgn     int
	include func(Edge) bool
	labels  map[HalfEdge]int
	labeled []HalfEdge
	steps   int
}

func newCombinatorialWalker[T Scalar[T]](surface *Triangulation[T], start HalfEdge, sgn int, include func(Edge) bool) *combinatorialWalker[T] {
	w := &combinatorialWalker[T]{
		surface: surface,
		sgn:     sgn,
		include: include,
		labels:  map[HalfEdge]int{},
	}
	w.label(start)
	return w
}

// label returns the label of he, assigning the next free one on first sight.
func (w *combinatorialWalker[T]) label(he HalfEdge) int {
	if l, ok := w.labels[he]; ok {
		return l
	}
	l := len(w.labeled)
	w.labels[he] = l
	w.labeled = append(w.labeled, he)
	return l
}

// rotate advances around the source vertex of he in the walker's sense,
// skipping invisible edges.
func (w *combinatorialWalker[T]) rotate(he HalfEdge) HalfEdge {
	return rotateVisible(w.surface, he, w.sgn, w.include)
}

// rotateVisible advances he around its source vertex, counterclockwise for
// sense 1 and clockwise for sense -1, skipping edges rejected by include.
func rotateVisible[T Scalar[T]](surface *Triangulation[T], he HalfEdge, sense int, include func(Edge) bool) HalfEdge {
	for {
		if sense == 1 {
			he = surface.NextAtVertex(he)
		} else {
			he = surface.PreviousAtVertex(he)
		}
		if include(he.Edge()) {
			return he
		}
	}
}

// step crosses the next labeled half edge and emits the labels of the fan at
// the vertex it arrives at, starting with the reversed half edge itself.
func (w *combinatorialWalker[T]) step() ([]int, bool) {
	if w.steps >= len(w.labeled) {
		return nil, false
	}
	cross := w.labeled[w.steps]
	w.steps++

	arrive := -cross
	character := []int{w.label(arrive)}
	for pos := w.rotate(arrive); pos != arrive; pos = w.rotate(pos) {
		character = append(character, w.label(pos))
	}
	return character, true
}

// linearWalker refines the combinatorial walk geometrically: every character
// additionally carries the vector of the half edge crossed at this step,
// transformed by the walker's normalization matrix.
type linearWalker[T Scalar[T]] struct {
	combinatorial *combinatorialWalker[T]
	normalization Linear[T]
}

type linearCharacter[T Scalar[T]] struct {
	fan    []int
	vector Vector[T]
}

func newLinearWalker[T Scalar[T]](surface *Triangulation[T], start HalfEdge, normalization Linear[T], include func(Edge) bool) *linearWalker[T] {
	sgn := 1
	if !normalization.IsOrientationPreserving() {
		sgn = -1
	}
	return &linearWalker[T]{
		combinatorial: newCombinatorialWalker(surface, start, sgn, include),
		normalization: normalization,
	}
}

func (w *linearWalker[T]) step() (linearCharacter[T], bool) {
	fan, ok := w.combinatorial.step()
	if !ok {
		return linearCharacter[T]{}, false
	}
	crossed := w.combinatorial.labeled[w.combinatorial.steps-1]
	return linearCharacter[T]{
		fan:    fan,
		vector: w.normalization.Apply(w.surface().FromHalfEdge(crossed)),
	}, true
}

func (w *linearWalker[T]) surface() *Triangulation[T] { return w.combinatorial.surface }

func compareLinearCharacters[T Scalar[T]](lhs, rhs linearCharacter[T]) int {
	if c := slices.Compare(lhs.fan, rhs.fan); c != 0 {
		return c
	}
	if c := lhs.vector.X.Cmp(rhs.vector.X); c != 0 {
		return c
	}
	return lhs.vector.Y.Cmp(rhs.vector.Y)
}

// minimalWord advances all walkers in lockstep and returns the
// lexicographically minimal word together with the indices of the walkers
// that produce it. A walker whose word ends while others continue produces a
// strict prefix of theirs and therefore wins.
func minimalWord[C any, W interface{ step() (C, bool) }](walkers []W, compare func(C, C) int) ([]C, []int) {
	var word []C
	survivors := make([]int, len(walkers))
	for i := range walkers {
		survivors[i] = i
	}
	for {
		var best C
		var finished, advanced []int
		for _, i := range survivors {
			c, ok := walkers[i].step()
			if !ok {
				finished = append(finished, i)
				continue
			}
			if len(advanced) == 0 && len(finished) == 0 {
				best = c
				advanced = []int{i}
				continue
			}
			if len(advanced) == 0 {
				// Some walker already finished; its word is a strict prefix
				// of this one and therefore smaller.
				continue
			}
			switch sign := compare(c, best); {
			case sign < 0:
				best = c
				advanced = []int{i}
			case sign == 0:
				advanced = append(advanced, i)
			}
		}
		if len(finished) > 0 {
			return word, finished
		}
		if len(advanced) == 0 {
			return word, survivors
		}
		word = append(word, best)
		survivors = advanced
	}
}
