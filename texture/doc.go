// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture provides a GPU-resident implementation of the
// backingstore updater contract over gogpu texture objects.
//
// Each buffer keeps a host-side staging image that scrolling and
// rendering mutate, plus a lazily created gpucontext texture. Flush
// uploads the staged pixels (UpdateData on textures that support it,
// recreate otherwise), so presenters draw cached regions with no
// readback. The GPU device is received from the host application
// through gpucontext.DeviceProvider; this package never creates one.
//
//	up, err := texture.NewUpdater(app.GPUContextProvider(), renderDoc)
//	store := backingstore.New(up)
//
//	// per frame, after store.Update:
//	it := store.BeginDrawRegion(region, vp.X, vp.Y)
//	for it.Next() {
//	    bl := it.Blit()
//	    tex, _ := bl.Buffer.(*texture.Buffer).Flush(dc.TextureCreator())
//	    // draw tex at (bl.OutX, bl.OutY) ...
//	}
//	it.Release()
//
// When the store's AllowTextureCoordinate parameter is enabled,
// TexCoords converts a blit into a textured quad instead of a copy.
package texture
