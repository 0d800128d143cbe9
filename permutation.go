package flatsurf

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Permutation is a bijection on a finite set of half edges, presented by its
// cycles. It is the backing structure for the vertex and face permutations of
// a triangulation.
type Permutation struct {
	to   []HalfEdge // successor per half edge index; 0 marks "not in domain"
	from []HalfEdge // predecessor per half edge index
}

// NewPermutation builds a permutation from a list of cycles. Every half edge
// may appear at most once across all cycles.
func NewPermutation(cycles [][]HalfEdge) (*Permutation, error) {
	p := &Permutation{}
	for _, cycle := range cycles {
		if len(cycle) == 0 {
			return nil, errors.New("cycles must not be empty")
		}
		for i, he := range cycle {
			if he == 0 {
				return nil, errors.New("0 is not a valid half edge")
			}
			if p.Contains(he) {
				return nil, errors.Errorf("half edge %v appears in more than one cycle position", he)
			}
			p.set(he, cycle[(i+1)%len(cycle)])
		}
	}
	return p, nil
}

func (p *Permutation) grow(n int) {
	for len(p.to) <= n {
		p.to = append(p.to, 0)
		p.from = append(p.from, 0)
	}
}

// set makes to the successor of he, keeping the inverse in sync.
func (p *Permutation) set(he, to HalfEdge) {
	i, j := he.index(), to.index()
	p.grow(i)
	p.grow(j)
	p.to[i] = to
	p.from[j] = he
}

// remove takes he out of the domain. The caller is responsible for keeping
// the remaining successors total.
func (p *Permutation) remove(he HalfEdge) {
	i := he.index()
	if i < len(p.to) {
		p.to[i] = 0
	}
}

// Contains reports whether he is in the domain of the permutation.
func (p *Permutation) Contains(he HalfEdge) bool {
	i := he.index()
	return i < len(p.to) && p.to[i] != 0
}

// Image returns the successor of he. It panics if he is not in the domain.
func (p *Permutation) Image(he HalfEdge) HalfEdge {
	if !p.Contains(he) {
		panic(fmt.Sprintf("flatsurf: half edge %v not in permutation", he))
	}
	return p.to[he.index()]
}

// Preimage returns the predecessor of he. It panics if he is not in the
// domain.
func (p *Permutation) Preimage(he HalfEdge) HalfEdge {
	if !p.Contains(he) {
		panic(fmt.Sprintf("flatsurf: half edge %v not in permutation", he))
	}
	return p.from[he.index()]
}

// Size returns the number of half edges in the domain.
func (p *Permutation) Size() int {
	n := 0
	for _, to := range p.to {
		if to != 0 {
			n++
		}
	}
	return n
}

// Domain returns the half edges of the domain in index order, i.e.
// 1, -1, 2, -2, …
func (p *Permutation) Domain() []HalfEdge {
	var domain []HalfEdge
	for i, to := range p.to {
		if to != 0 {
			domain = append(domain, halfEdgeFromIndex(i))
		}
	}
	return domain
}

// Cycles returns the cycle decomposition. Each cycle starts at its smallest
// element in index order and cycles are ordered by those elements.
func (p *Permutation) Cycles() [][]HalfEdge {
	var cycles [][]HalfEdge
	seen := make(map[HalfEdge]bool)
	for _, start := range p.Domain() {
		if seen[start] {
			continue
		}
		var cycle []HalfEdge
		for he := start; ; he = p.Image(he) {
			if len(cycle) > 0 && he == start {
				break
			}
			cycle = append(cycle, he)
			seen[he] = true
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// Clone returns a deep copy of the permutation.
func (p *Permutation) Clone() *Permutation {
	to := make([]HalfEdge, len(p.to))
	from := make([]HalfEdge, len(p.from))
	copy(to, p.to)
	copy(from, p.from)
	return &Permutation{to: to, from: from}
}

// Equal reports whether the two permutations have the same domain and agree
// on it.
func (p *Permutation) Equal(o *Permutation) bool {
	n := len(p.to)
	if len(o.to) > n {
		n = len(o.to)
	}
	for i := 0; i < n; i++ {
		var a, b HalfEdge
		if i < len(p.to) {
			a = p.to[i]
		}
		if i < len(o.to) {
			b = o.to[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

func (p *Permutation) String() string {
	var sb strings.Builder
	for _, cycle := range p.Cycles() {
		sb.WriteByte('(')
		for i, he := range cycle {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(he.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}
