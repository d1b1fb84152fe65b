// Package backingstore provides a viewport-relative raster cache for
// scrollable, zoomable document surfaces.
//
// # Overview
//
// backingstore sits between a document renderer (which knows how to
// paint pixels) and a display compositor (which knows how to copy
// pixels to a screen), owning neither. It tracks which rectangular
// regions of document space hold valid rendered content, reuses that
// content across scroll moves by shifting it in place instead of
// re-rendering, and enumerates the exact buffer-to-screen blits needed
// to composite a requested region.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/backingstore"
//	    "github.com/gogpu/backingstore/software"
//	)
//
//	// The updater renders document pixels into buffers.
//	up := software.NewUpdater(renderFunc)
//	bs := backingstore.New(up)
//
//	// Refresh the cache for the visible viewport.
//	vp := backingstore.Viewport{X: 0, Y: 0, Width: 800, Height: 600}
//	bs.Update(nil, backingstore.UpdateAll, vp, content, false)
//
//	// Composite the cache to the screen.
//	it := bs.BeginDrawRegion(vp.Region(), vp.X, vp.Y)
//	if it != nil {
//	    defer it.Release()
//	    for it.Next() {
//	        blit(it.Blit())
//	    }
//	}
//
// # Update Model
//
// Update clips its target to the document, subtracts the regions
// already covered by valid tiles, and renders only the difference.
// When the viewport moved and overlaps its previous position, buffer
// content is first reused by a single in-place scroll per surviving
// buffer; only the newly exposed strip is rendered. Scrolling is O(1)
// in rendered pixels where a full repaint is O(area).
//
// # Buffers and Ownership
//
// Buffers are opaque containers created by the caller-supplied
// Updater; the store never inspects their representation. Ownership is
// single-owner with no reference counting: a buffer backing a tile
// belongs to the store and is released exactly once when the tile is
// invalidated, evicted, or the store is cleaned up.
//
// The software package supplies a host-memory implementation, the
// texture package a GPU-resident one, and backend/wgpu a compute
// kernel that accelerates in-place scrolling. The docrender package is
// a ready-made content producer that renders shaped text documents
// through either updater.
//
// # Failure Model
//
// Allocation and render failures are absorbed into a sticky fault flag
// readable via CheckError; progress made before a failure is kept.
// Recovery is Cleanup followed by recreating the store.
//
// # Coordinate System
//
// All regions and viewports are in scaled document coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Region edges X2/Y2 are exclusive
//
// Blit destinations are in screen space, where screen (0,0) is the
// document point given by the viewport origin passed to
// BeginDrawRegion.
package backingstore
