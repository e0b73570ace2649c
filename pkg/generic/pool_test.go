package generic

import "testing"

func TestPoolRoundTrip(t *testing.T) {
	type item struct{ n int }
	p := NewPool(func() *item { return &item{} })

	v := p.Get()
	if v == nil {
		t.Fatal("Get returned nil")
	}
	v.n = 7
	p.Put(v)

	got := p.Get()
	if got == nil {
		t.Fatal("Get returned nil after Put")
	}
}

func TestHotPoolPrewarms(t *testing.T) {
	calls := 0
	p := NewHotPool(func() int {
		calls++
		return calls
	}, 4)
	if calls != 4 {
		t.Fatalf("expected 4 prewarm allocations, got %d", calls)
	}
	_ = p.Get()
}
