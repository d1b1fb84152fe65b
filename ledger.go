package backingstore

// tileState tracks the validity of a tile's buffer content.
type tileState int

const (
	// tileValid content matches the document for the tile's region.
	tileValid tileState = iota

	// tileStalePendingScroll content is mid-relocation. Transient:
	// only seen inside an update while a scroll shift is in flight.
	tileStalePendingScroll

	// tileInvalid content is unusable; the tile is about to be dropped.
	tileInvalid
)

// tile associates one buffer with the document-space region it holds
// valid content for. The pixel for document point (dx, dy) inside the
// region lives at buffer position (bufX + dx - region.X1,
// bufY + dy - region.Y1). Buffer pixels outside the region are unclaimed.
type tile struct {
	buf     Buffer
	region  Region
	bufX    int
	bufY    int
	quality Quality
	state   tileState
	seq     uint64
}

// docToBuf translates a document point into t's buffer coordinates.
func (t *tile) docToBuf(x, y int) (int, int) {
	return t.bufX + x - t.region.X1, t.bufY + y - t.region.Y1
}

// release frees the tile's buffer and marks the tile invalid.
func (t *tile) release() {
	if t.buf != nil {
		t.buf.Release()
		t.buf = nil
	}
	t.state = tileInvalid
	t.region = Region{}
}

// ledger is the bookkeeping of which buffers hold valid content for
// which document regions. Tiles never overlap in document space: on
// insert the newer tile wins and older tiles are trimmed. The slice
// order is insertion order (oldest first) so enumeration stays
// deterministic. All access is serialized by the owning store.
type ledger struct {
	tiles   []*tile
	nextSeq uint64
}

// newTile wraps a buffer and region in a sequenced tile.
func (l *ledger) newTile(buf Buffer, region Region, bufX, bufY int, quality Quality) *tile {
	l.nextSeq++
	return &tile{
		buf:     buf,
		region:  region,
		bufX:    bufX,
		bufY:    bufY,
		quality: quality,
		state:   tileValid,
		seq:     l.nextSeq,
	}
}

// insert adds t, trimming any overlapped existing tile so the
// no-overlap invariant holds. A fully covered tile is released. A
// partially covered tile keeps its single largest remaining fragment;
// smaller fragments give up their claim (the pixels stay in the buffer
// but no longer count as coverage).
func (l *ledger) insert(t *tile) {
	kept := l.tiles[:0]
	for _, e := range l.tiles {
		if e.state != tileValid || !e.region.Intersects(t.region) {
			kept = append(kept, e)
			continue
		}
		fragments := e.region.Subtract(t.region)
		best := Region{}
		for _, f := range fragments {
			if f.Area() > best.Area() {
				best = f
			}
		}
		if best.Empty() {
			e.release()
			continue
		}
		e.bufX, e.bufY = e.docToBuf(best.X1, best.Y1)
		e.region = best
		kept = append(kept, e)
	}
	l.tiles = append(kept, t)
}

// validRegions returns the regions of all valid tiles.
func (l *ledger) validRegions() []Region {
	out := make([]Region, 0, len(l.tiles))
	for _, t := range l.tiles {
		if t.state == tileValid {
			out = append(out, t.region)
		}
	}
	return out
}

// coverage classifies how much of region is backed by valid tiles.
// An empty region is vacuously fully available.
func (l *ledger) coverage(region Region) Availability {
	if region.Empty() {
		return FullyAvailable
	}
	remaining := subtractAll(region, l.validRegions())
	if len(remaining) == 0 {
		return FullyAvailable
	}
	if totalArea(remaining) == region.Area() {
		return NotAvailable
	}
	return PartiallyAvailable
}

// coverageBounds returns the bounding box of the intersection of
// region with the coverage set, or the zero Region when they do not
// intersect.
func (l *ledger) coverageBounds(region Region) Region {
	var bounds Region
	for _, t := range l.tiles {
		if t.state != tileValid {
			continue
		}
		bounds = bounds.UnionBounds(region.Intersect(t.region))
	}
	return bounds
}

// intersecting returns the valid tiles overlapping region in insertion
// order.
func (l *ledger) intersecting(region Region) []*tile {
	var out []*tile
	for _, t := range l.tiles {
		if t.state == tileValid && t.region.Intersects(region) {
			out = append(out, t)
		}
	}
	return out
}

// hasContent reports whether any valid tile exists.
func (l *ledger) hasContent() bool {
	for _, t := range l.tiles {
		if t.state == tileValid && !t.region.Empty() {
			return true
		}
	}
	return false
}

// validCount returns the number of valid tiles.
func (l *ledger) validCount() int {
	n := 0
	for _, t := range l.tiles {
		if t.state == tileValid {
			n++
		}
	}
	return n
}

// drop removes t from the ledger and releases its buffer.
func (l *ledger) drop(t *tile) {
	for i, e := range l.tiles {
		if e == t {
			l.tiles = append(l.tiles[:i], l.tiles[i+1:]...)
			break
		}
	}
	t.release()
}

// invalidateAll releases every buffer and empties the ledger.
// It returns the number of tiles dropped.
func (l *ledger) invalidateAll() int {
	n := len(l.tiles)
	for _, t := range l.tiles {
		t.release()
	}
	l.tiles = nil
	return n
}
