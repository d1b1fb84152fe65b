package backingstore

import "testing"

func TestDrawRegionIteratorCursor(t *testing.T) {
	buf := &mockBuffer{w: 10, h: 10}
	blits := []Blit{
		{Buffer: buf, OutX: 0, OutY: 0, InX: 0, InY: 0, Width: 10, Height: 5},
		{Buffer: buf, OutX: 0, OutY: 5, InX: 0, InY: 5, Width: 10, Height: 5},
	}
	it := newDrawRegionIterator(blits)

	if it.Len() != 2 {
		t.Fatalf("Len = %d, want 2", it.Len())
	}
	if got := it.Blit(); got != (Blit{}) {
		t.Error("Blit before Next should return the zero Blit")
	}

	var seen []Blit
	for it.Next() {
		seen = append(seen, it.Blit())
	}
	if len(seen) != 2 {
		t.Fatalf("iterated %d blits, want 2", len(seen))
	}
	if seen[0] != blits[0] || seen[1] != blits[1] {
		t.Error("iterator yielded blits out of order")
	}

	if it.Next() {
		t.Error("Next after exhaustion should keep returning false")
	}
	if got := it.Blit(); got != (Blit{}) {
		t.Error("Blit after exhaustion should return the zero Blit")
	}

	it.Release()
	if it.Next() {
		t.Error("Next after Release should return false")
	}
	if it.Len() != 0 {
		t.Errorf("Len after Release = %d, want 0", it.Len())
	}
	it.Release() // second release is harmless
}

func TestDrawRegionIteratorReleaseMidway(t *testing.T) {
	it := newDrawRegionIterator([]Blit{
		{Width: 1, Height: 1},
		{Width: 2, Height: 2},
	})
	if !it.Next() {
		t.Fatal("expected first blit")
	}
	it.Release()
	if it.Next() {
		t.Error("Next after mid-iteration Release should return false")
	}
	if got := it.Blit(); got != (Blit{}) {
		t.Error("Blit after Release should return the zero Blit")
	}
}
