package geom

import "testing"

func TestIntersect(t *testing.T) {
	a := Make(0, 0, 10, 10)
	b := Make(5, 5, 10, 10)
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatalf("expected overlap")
	}
	want := Rect{5, 5, 10, 10}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	c := Make(20, 20, 5, 5)
	if _, ok := a.Intersect(c); ok {
		t.Errorf("expected no overlap")
	}
}

func TestUnion(t *testing.T) {
	a := Rect{0, 0, 5, 5}
	b := Rect{3, 3, 10, 10}
	got := a.Union(b)
	want := Rect{0, 0, 10, 10}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestUnionWithEmpty(t *testing.T) {
	a := Rect{0, 0, 5, 5}
	empty := Rect{}
	if got := a.Union(empty); got != a {
		t.Errorf("union with empty rect should be a no-op, got %+v", got)
	}
	if got := empty.Union(a); got != a {
		t.Errorf("union with empty rect should be a no-op, got %+v", got)
	}
}

func TestOffset(t *testing.T) {
	r := Make(1, 1, 4, 4)
	got := r.Offset(2, 3)
	want := Rect{3, 4, 7, 8}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestEqual(t *testing.T) {
	a := Make(0, 0, 5, 5)
	b := Make(0, 0, 5, 5)
	if !a.Equal(b) {
		t.Errorf("expected equal rects")
	}
	c := Make(1, 0, 5, 5)
	if a.Equal(c) {
		t.Errorf("expected unequal rects")
	}
}

func TestEmpty(t *testing.T) {
	if !(Rect{}).Empty() {
		t.Errorf("zero rect should be empty")
	}
	if (Make(0, 0, 0, 5)).Empty() == false {
		t.Errorf("zero-width rect should be empty")
	}
}
