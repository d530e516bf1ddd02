package buffer

import "testing"

func TestNewZeroFilled(t *testing.T) {
	b := New(8)
	if b.Len() != 8 {
		t.Fatalf("Len = %d, want 8", b.Len())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Errorf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestNewNegativeLength(t *testing.T) {
	b := New(-3)
	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
}

func TestFromSliceShares(t *testing.T) {
	s := []float64{1, 2, 3}
	b := FromSlice(s)
	b.Samples()[1] = 9
	if s[1] != 9 {
		t.Fatalf("mutation not visible through original slice: %v", s)
	}
}

func TestResizeReusesCapacity(t *testing.T) {
	b := New(16)
	base := &b.Samples()[0]
	b.Resize(4)
	b.Resize(12)
	if &b.Samples()[0] != base {
		t.Fatal("Resize within capacity reallocated")
	}
}

func TestResizeZeroesExposedTail(t *testing.T) {
	b := New(8)
	for i := range b.Samples() {
		b.Samples()[i] = 1
	}
	b.Resize(2)
	b.Resize(6)
	s := b.Samples()
	for i := 2; i < 6; i++ {
		if s[i] != 0 {
			t.Errorf("stale value %v at %d after regrow", s[i], i)
		}
	}
}

func TestResetResizesAndZeroes(t *testing.T) {
	b := New(4)
	for i := range b.Samples() {
		b.Samples()[i] = float64(i + 1)
	}
	b.Reset(3)
	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Errorf("sample %d = %v, want 0", i, v)
		}
	}
}

func TestDrain(t *testing.T) {
	b := FromSlice([]float64{1, 2, 3})
	dst := make([]float64, 3)
	if n := b.Drain(dst); n != 3 {
		t.Fatalf("Drain = %d, want 3", n)
	}
	if dst[0] != 1 || dst[1] != 2 || dst[2] != 3 {
		t.Fatalf("Drain copied %v", dst)
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Errorf("sample %d = %v after Drain, want 0", i, v)
		}
	}
}

func TestCopyIsDeep(t *testing.T) {
	b := FromSlice([]float64{1, 2})
	c := b.Copy()
	c.Samples()[0] = 7
	if b.Samples()[0] != 1 {
		t.Fatal("Copy shares backing storage")
	}
}

func TestPoolGetZeroed(t *testing.T) {
	p := NewPool()
	b := p.Get(5)
	for i := range b.Samples() {
		b.Samples()[i] = 1
	}
	p.Put(b)

	b = p.Get(5)
	for i, v := range b.Samples() {
		if v != 0 {
			t.Errorf("pooled sample %d = %v, want 0", i, v)
		}
	}
	p.Put(b)
}

func TestPoolPutNil(t *testing.T) {
	p := NewPool()
	p.Put(nil) // must not panic
}
