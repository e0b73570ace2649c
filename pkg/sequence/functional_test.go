package sequence

import (
	"slices"
	"testing"
)

func TestFromCollect(t *testing.T) {
	in := []int{1, 2, 3, 4}
	out := From(in).Collect()
	if !slices.Equal(in, out) {
		t.Fatalf("expected %v, got %v", in, out)
	}
}

func TestFilter(t *testing.T) {
	out := From([]int{1, 2, 3, 4, 5, 6}).
		Filter(func(v int) bool { return v%2 == 0 }).
		Collect()
	if !slices.Equal([]int{2, 4, 6}, out) {
		t.Fatalf("unexpected filtered result: %v", out)
	}
}

func TestPull(t *testing.T) {
	next, stop := From([]string{"a", "b"}).Pull()
	defer stop()

	v, ok := next()
	if !ok || v != "a" {
		t.Fatalf("expected a, got %q (%v)", v, ok)
	}
	v, ok = next()
	if !ok || v != "b" {
		t.Fatalf("expected b, got %q (%v)", v, ok)
	}
	if _, ok = next(); ok {
		t.Fatal("expected exhausted iterator")
	}
}

func TestPullStopEarly(t *testing.T) {
	next, stop := From([]int{1, 2, 3}).Pull()
	if _, ok := next(); !ok {
		t.Fatal("expected first element")
	}
	stop()
	if _, ok := next(); ok {
		t.Fatal("expected no elements after stop")
	}
}
