package backingstore

// Blit describes one buffer-to-screen copy: the source rectangle
// (InX, InY, Width, Height) of Buffer composites to the destination
// rectangle (OutX, OutY, Width, Height) in screen space.
type Blit struct {
	Buffer Buffer
	OutX   int
	OutY   int
	InX    int
	InY    int
	Width  int
	Height int
}

// DrawRegionIterator is a single-pass, forward-only cursor over the
// blits needed to composite a requested region from the cache. The
// destination rectangles never overlap and their union is exactly the
// drawable part of the request.
//
// Usage:
//
//	it := store.BeginDrawRegion(region, vp.X, vp.Y)
//	if it != nil {
//		defer it.Release()
//		for it.Next() {
//			b := it.Blit()
//			// composite b.Buffer[In...] to screen[Out...]
//		}
//	}
//
// The store must not be mutated while the iterator is in use. Release
// frees iterator-owned state only, never the buffers; call it exactly
// once when done.
type DrawRegionIterator struct {
	blits    []Blit
	pos      int
	released bool
}

// newDrawRegionIterator wraps a prepared blit list in a cursor.
func newDrawRegionIterator(blits []Blit) *DrawRegionIterator {
	return &DrawRegionIterator{blits: blits, pos: -1}
}

// Next advances to the next blit. It returns false when the sequence
// is exhausted or the iterator has been released.
func (it *DrawRegionIterator) Next() bool {
	if it.released {
		return false
	}
	it.pos++
	return it.pos < len(it.blits)
}

// Blit returns the current blit. Valid only after a Next call that
// returned true.
func (it *DrawRegionIterator) Blit() Blit {
	if it.released || it.pos < 0 || it.pos >= len(it.blits) {
		return Blit{}
	}
	return it.blits[it.pos]
}

// Len returns the total number of blits in the sequence.
func (it *DrawRegionIterator) Len() int {
	if it.released {
		return 0
	}
	return len(it.blits)
}

// Release frees the iterator's state. Further Next calls return false.
// Releasing twice is harmless.
func (it *DrawRegionIterator) Release() {
	it.released = true
	it.blits = nil
}
