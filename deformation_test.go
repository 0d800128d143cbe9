package flatsurf

import (
	"strings"
	"testing"
)

func TestTrivialDeformation(t *testing.T) {
	s := squareTorus(t)
	d := TrivialDeformation(s)

	if !d.Trivial() {
		t.Error("identity not trivial")
	}
	if d.Domain() != s || d.Codomain() != s {
		t.Error("identity does not map the surface to itself")
	}

	p, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(1), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	image, err := d.MapPoint(p)
	if err != nil {
		t.Fatal(err)
	}
	if !image.Equal(p) {
		t.Error("identity moved a point")
	}

	c := SaddleConnectionFromHalfEdge(s, 3)
	path, err := d.MapConnection(c)
	if err != nil {
		t.Fatal(err)
	}
	if !path.Equal(Path[Rat]{c}) {
		t.Error("identity moved a connection")
	}
}

func TestDeformationCompose(t *testing.T) {
	torus := squareTorus(t)
	l := lSurface(t)

	if _, err := TrivialDeformation(l).Compose(TrivialDeformation(torus)); err == nil {
		t.Error("composed deformations of unrelated surfaces")
	} else if !strings.Contains(err.Error(), "cannot compose") {
		t.Errorf("unexpected error %q", err)
	}

	d, err := TrivialDeformation(torus).Compose(TrivialDeformation(torus))
	if err != nil {
		t.Fatal(err)
	}
	if !d.Trivial() {
		t.Error("composition of identities not trivial")
	}
}

func TestDeformationMapPointWrongSurface(t *testing.T) {
	torus := squareTorus(t)
	l := lSurface(t)

	p, err := NewPoint(l, 1, RatFromInt(1), RatFromInt(1), RatFromInt(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := TrivialDeformation(torus).MapPoint(p); err == nil {
		t.Error("mapped a point from an unrelated surface")
	} else if !strings.Contains(err.Error(), "not in the domain") {
		t.Errorf("unexpected error %q", err)
	}
}

func TestDeformationMapConnection(t *testing.T) {
	s := squareTorus(t)
	two := RatFromInt(2)

	d, err := s.ApplyMatrix(Linear[Rat]{N0: two, N3: two})
	if err != nil {
		t.Fatal(err)
	}
	path, err := d.MapConnection(SaddleConnectionFromHalfEdge(s, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !path.Equal(Path[Rat]{SaddleConnectionFromHalfEdge(d.Codomain(), 1)}) {
		t.Error("image of edge 1 is not edge 1 of the scaled surface")
	}
}

func TestDeformationMapPointReflection(t *testing.T) {
	s := squareTorus(t)
	reflect := Linear[Rat]{N0: RatFromInt(1), N3: RatFromInt(-1)}

	down, err := s.ApplyMatrix(reflect)
	if err != nil {
		t.Fatal(err)
	}
	up, err := down.Codomain().ApplyMatrix(reflect)
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewPoint(s, 1, RatFromInt(1), RatFromInt(2), RatFromInt(3))
	if err != nil {
		t.Fatal(err)
	}
	mid, err := down.MapPoint(p)
	if err != nil {
		t.Fatal(err)
	}
	back, err := up.MapPoint(mid)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(p) {
		t.Error("reflecting a point twice did not return it")
	}
}

func TestDeformationSectionTrivial(t *testing.T) {
	s := squareTorus(t)
	section, err := TrivialDeformation(s).Section()
	if err != nil {
		t.Fatal(err)
	}
	if !section.Trivial() {
		t.Error("section of the identity not trivial")
	}
}
