package backingstore

// Buffer is an opaque, externally-owned pixel container. The store
// never inspects its representation; it may be a block of host memory,
// a GPU texture, or anything else the updater can render into. A
// buffer's size is fixed at creation.
//
// Ownership is single-owner with no reference counting: once a buffer
// backs a tile, the store owns it and releases it exactly once when
// the tile is invalidated, evicted, or the store is cleaned up.
type Buffer interface {
	// Width returns the buffer width in pixels.
	Width() int

	// Height returns the buffer height in pixels.
	Height() int

	// Release frees the buffer's backing storage. The buffer must not
	// be used afterwards.
	Release()
}

// Updater is the embedder-supplied rendering and allocation capability.
// The store calls it synchronously from Update on the caller's thread;
// implementations need no internal locking against the store.
//
// The software package provides a host-memory implementation and the
// texture package a GPU-resident one.
type Updater interface {
	// CreateBuffer allocates a pixel buffer of the given size.
	CreateBuffer(width, height int) (Buffer, error)

	// InPlaceScroll moves pixel content within the rectangle
	// (x, y, width, height) of buf by the scroll amount (dx, dy):
	// the pixel previously at (px+dx, py+dy) ends up at (px, py).
	// Pixels shifted in from outside the rectangle are undefined and
	// will be re-rendered by the store.
	InPlaceScroll(buf Buffer, x, y, width, height, dx, dy int) error

	// RenderRegion paints the document-space region into buf with its
	// top-left pixel at (bufX, bufY) in buffer space, at the requested
	// quality. existing is true when buf already holds valid content
	// outside the target rectangle, telling renderers that preserve
	// state per buffer not to clear it.
	RenderRegion(buf Buffer, bufX, bufY int, region Region, quality Quality, existing bool) error
}
