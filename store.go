package backingstore

import (
	"sync"
	"sync/atomic"
)

// StoreStats is a point-in-time snapshot of store activity counters.
type StoreStats struct {
	Renders   uint64 // render requests issued to the updater
	Scrolls   uint64 // in-place scroll shifts issued
	Evictions uint64 // tiles evicted by the budget policy
	Hits      uint64 // CanDrawRegion queries answered FullyAvailable
	Misses    uint64 // CanDrawRegion queries answered partially or not
}

// Store is a viewport-relative raster cache over a scrollable document.
// It tracks which document regions hold valid rendered pixels, reuses
// buffer content across viewport moves by scrolling it in place, and
// enumerates the blits needed to composite the cache to a screen.
//
// Rendering and buffer allocation are delegated to the caller-supplied
// [Updater]; compositing consumes the [DrawRegionIterator] returned by
// BeginDrawRegion. The store owns every buffer it inserts and releases
// each exactly once.
//
// The contract is single-threaded from the caller's point of view:
// Update, CanDrawRegion, BeginDrawRegion, and the updater callbacks
// never interleave. A mutex serializes all internal mutation, so
// accidental cross-goroutine use fails safe rather than corrupting the
// ledger.
type Store struct {
	mu      sync.Mutex
	updater Updater
	ledger  ledger
	params  Params
	budget  int

	lastVP Viewport
	haveVP bool
	fault  bool
	closed bool

	renders   atomic.Uint64
	scrolls   atomic.Uint64
	evictions atomic.Uint64
	hits      atomic.Uint64
	misses    atomic.Uint64
}

// New creates a store that renders and allocates through updater.
// It panics if updater is nil.
func New(updater Updater, opts ...StoreOption) *Store {
	if updater == nil {
		panic("backingstore: nil updater")
	}
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		updater: updater,
		params:  o.params,
		budget:  o.tileBudget,
	}
}

// SetParam sets one configuration key. It reports false for unknown
// keys below the extension range and after Cleanup. Extension keys
// (>= [ParamExtensionsStart]) are stored without interpretation.
func (s *Store) SetParam(key Param, value int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.params.set(key, value)
}

// Params returns a snapshot of the current configuration, including
// extension keys.
func (s *Store) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.clone()
}

// Update refreshes cache content for the given viewport. region
// selects the document sub-rectangle to refresh; nil means the whole
// viewport. A non-nil region must not exceed the viewport's size.
// content is the full document extent; everything is clipped to it.
// contentChanged signals that document pixels changed since the last
// update, which conservatively invalidates all cached tiles first.
//
// When the viewport moved and overlaps its previous position, existing
// buffer content is reused by a scroll shift (one InPlaceScroll per
// surviving buffer) and only the remaining uncovered rectangles are
// rendered. [UpdateExposedOnly] further restricts rendering to the
// parts newly exposed by the move.
//
// Update returns true when the target is fully available afterwards.
// It returns false for malformed input, after Cleanup, or when an
// allocation or render failure interrupted the work; progress made
// before a failure is kept and the fault flag is set.
func (s *Store) Update(region *Region, mode UpdateMode, viewport Viewport, content Size, contentChanged bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !mode.valid() || !viewport.wellFormed() {
		return false
	}
	if region != nil {
		if !region.wellFormed() ||
			region.Width() > viewport.Width || region.Height() > viewport.Height {
			return false
		}
	}
	if mode >= UpdateModeExtensionsStart {
		mode = UpdateAll
	}

	if contentChanged {
		if n := s.ledger.invalidateAll(); n > 0 {
			Logger().Debug("content changed, coverage dropped", "tiles", n)
		}
	}

	bounds := content.Region()
	target := viewport.Region()
	if region != nil {
		target = *region
	}
	target = target.Clip(bounds)

	prev := s.lastVP
	havePrev := s.haveVP
	s.lastVP = viewport
	s.haveVP = true

	if target.Empty() {
		return true
	}

	dx := viewport.X - prev.X
	dy := viewport.Y - prev.Y
	if havePrev && mode == UpdateAll && (dx != 0 || dy != 0) &&
		s.params.AllowInPlaceScroll && s.params.AllowPartialRender &&
		prev.Region().Intersects(viewport.Region()) {
		s.scrollTiles(prev.Region(), dx, dy, bounds)
	}

	delta := subtractAll(target, s.ledger.validRegions())
	if mode == UpdateExposedOnly && havePrev {
		var exposed []Region
		for _, r := range delta {
			exposed = append(exposed, r.Subtract(prev.Region())...)
		}
		delta = exposed
	}
	if !s.params.AllowPartialRender && len(delta) > 0 {
		delta = []Region{target}
	}

	Logger().Debug("update",
		"target", target.String(),
		"mode", mode.String(),
		"delta", len(delta),
		"contentChanged", contentChanged)

	ok := s.renderDelta(delta)
	s.evictOverBudget(viewport.Region())

	return ok && s.ledger.coverage(target) == FullyAvailable
}

// scrollTiles relocates buffer content of tiles overlapping the
// previous viewport so it stays aligned after the viewport moved by
// (dx, dy). Content scrolled fully out of a buffer drops its tile. A
// failed shift leaves the buffer indeterminate, so its tile is dropped
// and the fault flag set.
func (s *Store) scrollTiles(prevRegion Region, dx, dy int, bounds Region) {
	for _, t := range s.ledger.intersecting(prevRegion) {
		surviving := t.region.Intersect(t.region.Translate(dx, dy)).Clip(bounds)
		if surviving.Empty() {
			Logger().Debug("scroll dropped tile", "region", t.region.String())
			s.ledger.drop(t)
			continue
		}
		t.state = tileStalePendingScroll
		err := s.updater.InPlaceScroll(t.buf, t.bufX, t.bufY, t.region.Width(), t.region.Height(), dx, dy)
		if err != nil {
			Logger().Warn("in-place scroll failed", "region", t.region.String(), "err", err)
			s.fault = true
			s.ledger.drop(t)
			continue
		}
		t.bufX += surviving.X1 - (t.region.X1 + dx)
		t.bufY += surviving.Y1 - (t.region.Y1 + dy)
		t.region = surviving
		t.state = tileValid
		s.scrolls.Add(1)
	}
}

// renderDelta renders each uncovered rectangle. A rectangle extends an
// existing tile's buffer when the combined region stays a single
// rectangle that fits the buffer (the freed strip after a scroll is
// the common case); otherwise it gets a fresh buffer. The first
// failure sets the fault flag and abandons the remaining rectangles;
// tiles completed earlier in the same call are kept.
func (s *Store) renderDelta(delta []Region) bool {
	for _, rect := range delta {
		if rect.Empty() {
			continue
		}
		if t, bufX, bufY, ok := s.extension(rect); ok {
			if err := s.updater.RenderRegion(t.buf, bufX, bufY, rect, s.params.Quality, true); err != nil {
				Logger().Warn("render failed", "region", rect.String(), "err", err)
				s.fault = true
				return false
			}
			u := t.region.UnionBounds(rect)
			t.bufX += u.X1 - t.region.X1
			t.bufY += u.Y1 - t.region.Y1
			t.region = u
			s.renders.Add(1)
			continue
		}
		buf, err := s.updater.CreateBuffer(rect.Width(), rect.Height())
		if err != nil {
			Logger().Warn("buffer allocation failed",
				"width", rect.Width(), "height", rect.Height(), "err", err)
			s.fault = true
			return false
		}
		if err := s.updater.RenderRegion(buf, 0, 0, rect, s.params.Quality, false); err != nil {
			Logger().Warn("render failed", "region", rect.String(), "err", err)
			buf.Release()
			s.fault = true
			return false
		}
		s.ledger.insert(s.ledger.newTile(buf, rect, 0, 0, s.params.Quality))
		s.renders.Add(1)
	}
	return true
}

// extension finds a valid tile whose region unions with rect into a
// single rectangle that fits the tile's buffer at matching quality.
// It returns the tile and the buffer position where rect's top-left
// must be rendered.
func (s *Store) extension(rect Region) (*tile, int, int, bool) {
	for _, t := range s.ledger.tiles {
		if t.state != tileValid || t.quality != s.params.Quality {
			continue
		}
		u := t.region.UnionBounds(rect)
		if u.Area() != t.region.Area()+rect.Area() {
			continue
		}
		bufX := t.bufX + u.X1 - t.region.X1
		bufY := t.bufY + u.Y1 - t.region.Y1
		if bufX < 0 || bufY < 0 ||
			bufX+u.Width() > t.buf.Width() || bufY+u.Height() > t.buf.Height() {
			continue
		}
		return t, bufX + rect.X1 - u.X1, bufY + rect.Y1 - u.Y1, true
	}
	return nil, 0, 0, false
}

// evictOverBudget drops tiles until the valid count fits the budget.
// Only tiles with no overlap with the current viewport are candidates;
// the farthest from the viewport center goes first, oldest winning
// ties. With the budget at zero or below, nothing is ever evicted.
func (s *Store) evictOverBudget(vp Region) {
	if s.budget <= 0 {
		return
	}
	for s.ledger.validCount() > s.budget {
		var victim *tile
		var worst int64 = -1
		for _, t := range s.ledger.tiles {
			if t.state != tileValid || t.region.Intersects(vp) {
				continue
			}
			d := centerDistance(t.region, vp)
			if d > worst || (d == worst && victim != nil && t.seq < victim.seq) {
				victim, worst = t, d
			}
		}
		if victim == nil {
			return
		}
		Logger().Debug("evicting tile", "region", victim.region.String())
		s.ledger.drop(victim)
		s.evictions.Add(1)
	}
}

// centerDistance returns the squared distance between the centers of a
// and b, doubled in each axis to stay in integer arithmetic.
func centerDistance(a, b Region) int64 {
	dx := int64(a.X1+a.X2) - int64(b.X1+b.X2)
	dy := int64(a.Y1+a.Y2) - int64(b.Y1+b.Y2)
	return dx*dx + dy*dy
}

// CanDrawRegion classifies how much of want can be drawn from cache.
// When out is non-nil it receives the bounding box of the drawable
// part, so callers can retry with a smaller request on partial
// availability. Malformed input is NotAvailable.
func (s *Store) CanDrawRegion(want Region, out *Region) Availability {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out != nil {
		*out = Region{}
	}
	if s.closed || !want.wellFormed() {
		return NotAvailable
	}
	avail := s.ledger.coverage(want)
	if out != nil {
		*out = s.ledger.coverageBounds(want)
	}
	if avail == FullyAvailable {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return avail
}

// BeginDrawRegion returns an iterator over the blits that composite
// the drawable part of region to screen space, where screen (0, 0)
// corresponds to document (viewportX, viewportY). Destination
// rectangles never overlap and union exactly to the intersection of
// region with the coverage set. It returns nil when nothing is
// drawable.
//
// The store must not be mutated until the iterator is released.
func (s *Store) BeginDrawRegion(region Region, viewportX, viewportY int) *DrawRegionIterator {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !region.wellFormed() || region.Empty() {
		return nil
	}
	var blits []Blit
	remaining := []Region{region}
	for _, t := range s.ledger.tiles {
		if t.state != tileValid {
			continue
		}
		var next []Region
		for _, piece := range remaining {
			in := piece.Intersect(t.region)
			if in.Empty() {
				next = append(next, piece)
				continue
			}
			inX, inY := t.docToBuf(in.X1, in.Y1)
			blits = append(blits, Blit{
				Buffer: t.buf,
				OutX:   in.X1 - viewportX,
				OutY:   in.Y1 - viewportY,
				InX:    inX,
				InY:    inY,
				Width:  in.Width(),
				Height: in.Height(),
			})
			next = append(next, piece.Subtract(in)...)
		}
		remaining = next
		if len(remaining) == 0 {
			break
		}
	}
	if len(blits) == 0 {
		return nil
	}
	return newDrawRegionIterator(blits)
}

// CheckError reports the sticky fault flag. Once an allocation or
// render failure sets it, the only recovery is Cleanup followed by
// recreating the store.
func (s *Store) CheckError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// HasContent reports whether any valid cached content exists.
func (s *Store) HasContent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.ledger.hasContent()
}

// Finish waits for in-flight update work to complete. All rendering
// runs synchronously under the store lock, so Finish returns as soon
// as it acquires it; valid tiles are never altered.
func (s *Store) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
}

// Invalidate drops all cached content and releases every buffer. The
// store stays usable; subsequent updates rebuild coverage from scratch.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if n := s.ledger.invalidateAll(); n > 0 {
		Logger().Debug("coverage invalidated", "tiles", n)
	}
}

// Cleanup invalidates everything, releases all owned resources, and
// clears the fault flag. The store is unusable afterwards: operations
// become no-ops reporting unavailability.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	n := s.ledger.invalidateAll()
	s.closed = true
	s.fault = false
	Logger().Info("backing store cleaned up", "tiles", n)
}

// Stats returns a snapshot of the activity counters.
func (s *Store) Stats() StoreStats {
	return StoreStats{
		Renders:   s.renders.Load(),
		Scrolls:   s.scrolls.Load(),
		Evictions: s.evictions.Load(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
	}
}
