// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"

	"github.com/gogpu/backingstore"
)

// Buffer is a host-memory pixel buffer backed by an *image.RGBA.
//
// Buffers are created by Updater.CreateBuffer and owned by the store
// that requested them; the pixel data stays addressable until Release.
type Buffer struct {
	img      *image.RGBA
	width    int
	height   int
	released bool
}

var _ backingstore.Buffer = (*Buffer)(nil)

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Image returns the backing image, or nil after Release. The image is
// a direct reference: compositors may read from it, but writes belong
// to the render callback.
func (b *Buffer) Image() *image.RGBA { return b.img }

// Release frees the pixel data. Further updater operations on the
// buffer fail with ErrBufferReleased. Release is idempotent.
func (b *Buffer) Release() {
	b.img = nil
	b.released = true
}

// view returns an RGBA view of the window win, re-registered so its
// bounds are the document region. view.Bounds().Min corresponds to the
// first pixel of win; rows alias the buffer's backing array.
func (b *Buffer) view(win image.Rectangle, region backingstore.Region) *image.RGBA {
	off := b.img.PixOffset(win.Min.X, win.Min.Y)
	return &image.RGBA{
		Pix:    b.img.Pix[off:],
		Stride: b.img.Stride,
		Rect:   image.Rect(region.X1, region.Y1, region.X2, region.Y2),
	}
}
