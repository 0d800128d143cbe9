package flatsurf

import "testing"

func TestTrackedFlip(t *testing.T) {
	c := torusCombinatorial(t)
	var flips []HalfEdge
	tracked := Track(c, 0, func(v int, c *Combinatorial, flipped HalfEdge) int {
		flips = append(flips, flipped)
		return v + 1
	}, nil)

	if err := c.Flip(3); err != nil {
		t.Fatal(err)
	}
	if err := c.Flip(2); err != nil {
		t.Fatal(err)
	}

	if got := tracked.Value(); got != 2 {
		t.Errorf("Value() = %d", got)
	}
	diff(t, []HalfEdge{3, 2}, flips)
}

func TestTrackedCollapse(t *testing.T) {
	c := torusCombinatorial(t)
	inserted, err := c.InsertAt(1)
	if err != nil {
		t.Fatal(err)
	}

	var collapsed HalfEdge
	tracked := Track(inserted, 0, nil, func(v int, c *Combinatorial, he HalfEdge) int {
		collapsed = he
		// The half edges are still present when the callback runs.
		if !c.vertices.Contains(he) {
			t.Error("collapsed half edge already gone")
		}
		return v + 1
	})

	if err := inserted.Collapse(4); err != nil {
		t.Fatal(err)
	}
	if got := tracked.Value(); got != 1 {
		t.Errorf("Value() = %d", got)
	}
	diff(t, HalfEdge(4), collapsed)
}

func TestTrackedForget(t *testing.T) {
	c := torusCombinatorial(t)
	tracked := Track(c, 0, func(v int, c *Combinatorial, flipped HalfEdge) int {
		return v + 1
	}, nil)

	if err := c.Flip(3); err != nil {
		t.Fatal(err)
	}
	tracked.Forget()
	if err := c.Flip(3); err != nil {
		t.Fatal(err)
	}

	if got := tracked.Value(); got != 1 {
		t.Errorf("Value() = %d after Forget", got)
	}
}

func TestTrackedSet(t *testing.T) {
	c := torusCombinatorial(t)
	tracked := Track(c, 7, nil, nil)
	diff(t, 7, tracked.Value())
	tracked.Set(9)
	diff(t, 9, tracked.Value())
}
