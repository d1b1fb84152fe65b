// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/backingstore"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// RenderFunc draws document content into img. The view is registered
// in document coordinates: img.Bounds() is exactly the document region
// being rendered. The callback must not retain img past the call.
type RenderFunc func(img *image.RGBA, quality backingstore.Quality) error

// UpdaterOption configures an Updater.
type UpdaterOption func(*updaterOptions)

type updaterOptions struct {
	creator gpucontext.TextureCreator
	clear   color.Color
}

func defaultUpdaterOptions() updaterOptions {
	return updaterOptions{}
}

// WithCreator supplies a TextureCreator up front so Buffer.Flush can
// be called with nil. Hosts that only expose the creator at draw time
// (through gpucontext.TextureDrawer) skip this and pass it to Flush.
func WithCreator(creator gpucontext.TextureCreator) UpdaterOption {
	return func(o *updaterOptions) { o.creator = creator }
}

// WithClearColor fills fresh staging images with c before their first
// render.
func WithClearColor(c color.Color) UpdaterOption {
	return func(o *updaterOptions) { o.clear = c }
}

// Updater implements backingstore.Updater with GPU-texture buffers.
//
// The device is received from the host, never created: the provider
// should come from the host application (for gogpu apps,
// App.GPUContextProvider()).
type Updater struct {
	provider gpucontext.DeviceProvider
	render   RenderFunc
	opts     updaterOptions
	format   gputypes.TextureFormat
}

var _ backingstore.Updater = (*Updater)(nil)

// NewUpdater returns a texture-backed Updater producing content with
// render. It fails with ErrNilProvider, ErrNilRender, or ErrNoDevice
// when the wiring is incomplete.
func NewUpdater(provider gpucontext.DeviceProvider, render RenderFunc, opts ...UpdaterOption) (*Updater, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if render == nil {
		return nil, ErrNilRender
	}
	if provider.Device() == nil {
		return nil, ErrNoDevice
	}
	o := defaultUpdaterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	u := &Updater{
		provider: provider,
		render:   render,
		opts:     o,
		format:   gputypes.TextureFormatRGBA8Unorm,
	}
	if sf := provider.SurfaceFormat(); sf != gputypes.TextureFormatUndefined && sf != u.format {
		backingstore.Logger().Debug("texture: surface format differs from upload format",
			"surface", sf, "upload", u.format)
	}
	return u, nil
}

// Provider returns the DeviceProvider this updater was built with.
func (u *Updater) Provider() gpucontext.DeviceProvider { return u.provider }

// Format returns the pixel format of uploaded buffers.
func (u *Updater) Format() gputypes.TextureFormat { return u.format }

// CreateBuffer allocates a buffer with a width x height RGBA staging
// image. The GPU texture is created lazily on the buffer's first
// Flush.
func (u *Updater) CreateBuffer(width, height int) (backingstore.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d buffer", ErrInvalidSize, width, height)
	}
	staging := image.NewRGBA(image.Rect(0, 0, width, height))
	if u.opts.clear != nil {
		draw.Draw(staging, staging.Bounds(), image.NewUniform(u.opts.clear), image.Point{}, draw.Src)
	}
	return &Buffer{
		width:   width,
		height:  height,
		staging: staging,
		creator: u.opts.creator,
		dirty:   true,
	}, nil
}

// InPlaceScroll shifts the staging pixels of the width x height window
// at (x, y) so that the pixel previously at (px+dx, py+dy) ends up at
// (px, py), then marks the buffer dirty for the next Flush.
func (u *Updater) InPlaceScroll(buf backingstore.Buffer, x, y, width, height, dx, dy int) error {
	b, err := u.own(buf)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d scroll window", ErrInvalidSize, width, height)
	}
	win := image.Rect(x, y, x+width, y+height)
	if !win.In(b.staging.Bounds()) {
		return fmt.Errorf("%w: scroll window %v, buffer %v", ErrOutOfBounds, win, b.staging.Bounds())
	}

	dst := win.Intersect(win.Sub(image.Pt(dx, dy)))
	if dst.Empty() {
		return nil
	}

	rowBytes := dst.Dx() * 4
	move := func(py int) {
		so := b.staging.PixOffset(dst.Min.X+dx, py+dy)
		do := b.staging.PixOffset(dst.Min.X, py)
		copy(b.staging.Pix[do:do+rowBytes], b.staging.Pix[so:so+rowBytes])
	}
	if dy >= 0 {
		for py := dst.Min.Y; py < dst.Max.Y; py++ {
			move(py)
		}
	} else {
		for py := dst.Max.Y - 1; py >= dst.Min.Y; py-- {
			move(py)
		}
	}
	b.dirty = true
	return nil
}

// RenderRegion draws the document region into the staging image with
// the region's top-left pixel landing at (bufX, bufY), then marks the
// buffer dirty for the next Flush.
func (u *Updater) RenderRegion(buf backingstore.Buffer, bufX, bufY int, region backingstore.Region, quality backingstore.Quality, existing bool) error {
	b, err := u.own(buf)
	if err != nil {
		return err
	}
	if region.Empty() {
		return nil
	}
	win := image.Rect(bufX, bufY, bufX+region.Width(), bufY+region.Height())
	if !win.In(b.staging.Bounds()) {
		return fmt.Errorf("%w: render window %v, buffer %v", ErrOutOfBounds, win, b.staging.Bounds())
	}
	if err := u.render(b.view(win, region), quality); err != nil {
		return fmt.Errorf("texture: render %v: %w", region, err)
	}
	b.dirty = true
	return nil
}

// own coerces buf to this package's Buffer and checks it is usable.
func (u *Updater) own(buf backingstore.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, ErrForeignBuffer
	}
	if b.released || b.staging == nil {
		return nil, ErrBufferReleased
	}
	return b, nil
}
