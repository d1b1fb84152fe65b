// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"
	"image"

	"github.com/gogpu/backingstore"
	"github.com/gogpu/gpucontext"
)

// textureDestroyer matches the Destroy method of gogpu textures.
type textureDestroyer interface {
	Destroy()
}

// Buffer is a cache buffer with a host-side staging image and a lazily
// created GPU texture. Updater operations mutate the staging image and
// mark the buffer dirty; Flush uploads staged pixels to the texture.
//
// Buffer follows the owning store's single-goroutine discipline.
type Buffer struct {
	width   int
	height  int
	staging *image.RGBA

	// tex is the GPU texture (created on first Flush), held as any so
	// the concrete gogpu type stays out of this package.
	tex any

	// creator is the fallback TextureCreator from WithCreator.
	creator gpucontext.TextureCreator

	dirty    bool
	released bool
}

var _ backingstore.Buffer = (*Buffer)(nil)

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Dirty reports whether staged pixels are newer than the GPU texture.
func (b *Buffer) Dirty() bool { return b.dirty }

// Texture returns the current GPU texture without flushing, or nil if
// none has been created yet.
func (b *Buffer) Texture() any { return b.tex }

// Staging returns the host-side staging image, or nil after Release.
// It is a direct reference; writes belong to the updater.
func (b *Buffer) Staging() *image.RGBA { return b.staging }

// Release destroys the GPU texture and frees the staging image.
// Further updater operations fail with ErrBufferReleased. Release is
// idempotent.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.staging = nil
	if d, ok := b.tex.(textureDestroyer); ok {
		d.Destroy()
	}
	b.tex = nil
}

// Flush uploads staged pixels to the GPU texture, creating the texture
// on first use. creator takes precedence over the updater's WithCreator
// fallback and may be nil when that fallback exists. Textures that do
// not support in-place update are destroyed and recreated.
//
// The returned texture is the value produced by the creator (a gogpu
// texture); it stays valid until the next Flush or Release.
func (b *Buffer) Flush(creator gpucontext.TextureCreator) (any, error) {
	if b.released || b.staging == nil {
		return nil, ErrBufferReleased
	}
	if !b.dirty && b.tex != nil {
		return b.tex, nil
	}
	if creator == nil {
		creator = b.creator
	}

	if b.tex != nil {
		if up, ok := b.tex.(gpucontext.TextureUpdater); ok {
			if err := up.UpdateData(b.staging.Pix); err != nil {
				return nil, fmt.Errorf("texture: update %dx%d: %w", b.width, b.height, err)
			}
			b.dirty = false
			return b.tex, nil
		}
		// No update support: replace the texture wholesale.
		if d, ok := b.tex.(textureDestroyer); ok {
			d.Destroy()
		}
		b.tex = nil
	}

	if creator == nil {
		return nil, ErrNoCreator
	}
	tex, err := creator.NewTextureFromRGBA(b.width, b.height, b.staging.Pix)
	if err != nil {
		return nil, fmt.Errorf("texture: create %dx%d: %w", b.width, b.height, err)
	}
	// image.RGBA staging is alpha-premultiplied; tell the renderer so
	// it picks the matching blend pipeline.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}
	b.tex = tex
	b.dirty = false
	return b.tex, nil
}

// view returns an RGBA view of the staging window win, re-registered
// so its bounds are the document region.
func (b *Buffer) view(win image.Rectangle, region backingstore.Region) *image.RGBA {
	off := b.staging.PixOffset(win.Min.X, win.Min.Y)
	return &image.RGBA{
		Pix:    b.staging.Pix[off:],
		Stride: b.staging.Stride,
		Rect:   image.Rect(region.X1, region.Y1, region.X2, region.Y2),
	}
}

// QuadCoords pairs a blit's screen-space destination with the
// normalized texture coordinates of its source rect.
type QuadCoords struct {
	// OutX, OutY is the destination top-left corner in screen space.
	OutX, OutY int

	// Width, Height is the destination size in pixels.
	Width, Height int

	// U0, V0, U1, V1 is the source rect normalized to the texture,
	// top-left (U0, V0) to bottom-right (U1, V1).
	U0, V0, U1, V1 float32
}

// TexCoords converts a blit into a textured-quad description for
// presenters that address cache textures by coordinate instead of
// copying pixels. Callers should gate this path on the store's
// AllowTextureCoordinate parameter.
func TexCoords(bl backingstore.Blit) (QuadCoords, error) {
	b, ok := bl.Buffer.(*Buffer)
	if !ok {
		return QuadCoords{}, ErrForeignBuffer
	}
	w := float32(b.width)
	h := float32(b.height)
	return QuadCoords{
		OutX:   bl.OutX,
		OutY:   bl.OutY,
		Width:  bl.Width,
		Height: bl.Height,
		U0:     float32(bl.InX) / w,
		V0:     float32(bl.InY) / h,
		U1:     float32(bl.InX+bl.Width) / w,
		V1:     float32(bl.InY+bl.Height) / h,
	}, nil
}
