// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a host-memory implementation of the
// backingstore updater contract.
//
// Buffers are plain *image.RGBA images. Content is produced by a
// caller-supplied RenderFunc that draws in document coordinates, and
// in-place scrolling is implemented with overlap-safe row moves, so a
// viewport shift reuses cached pixels without an intermediate copy.
//
// This is the reference backend: it has no device dependencies and is
// the one to reach for in tests, headless tools, and CPU-only
// presentation paths.
//
//	up := software.NewUpdater(func(img *image.RGBA, q backingstore.Quality) error {
//	    return doc.Draw(img) // img.Bounds() is the document region
//	})
//	store := backingstore.New(up)
//
// Compose copies a store's draw-region blits onto any draw.Image,
// which is all a presenter needs:
//
//	if it := store.BeginDrawRegion(region, vp.X, vp.Y); it != nil {
//	    defer it.Release()
//	    _ = software.Compose(screen, it)
//	}
package software
