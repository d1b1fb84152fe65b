// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gogpu/backingstore"
)

// RenderFunc draws document content into img.
//
// The view is registered in document coordinates: img.Bounds() is
// exactly the document region being rendered, so drawing at document
// point (x, y) writes the cached pixel for that point. The callback
// must not retain img past the call. A returned error abandons the
// render and the owning store discards the affected buffer.
type RenderFunc func(img *image.RGBA, quality backingstore.Quality) error

// UpdaterOption configures an Updater.
type UpdaterOption func(*updaterOptions)

type updaterOptions struct {
	clear color.Color
}

func defaultUpdaterOptions() updaterOptions {
	return updaterOptions{}
}

// WithClearColor fills fresh buffers with c before their first render.
// Unclaimed buffer pixels then hold c instead of transparent black,
// which makes coverage gaps visible when debugging a compositor.
func WithClearColor(c color.Color) UpdaterOption {
	return func(o *updaterOptions) { o.clear = c }
}

// Updater implements backingstore.Updater with host-memory buffers.
// Content comes from the RenderFunc given to NewUpdater. An Updater is
// stateless between calls and safe to share across stores, provided
// the RenderFunc is.
type Updater struct {
	render RenderFunc
	opts   updaterOptions
}

var _ backingstore.Updater = (*Updater)(nil)

// NewUpdater returns an Updater whose buffers live in host memory and
// whose content is produced by render. It panics if render is nil.
func NewUpdater(render RenderFunc, opts ...UpdaterOption) *Updater {
	if render == nil {
		panic("software: nil render func")
	}
	o := defaultUpdaterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Updater{render: render, opts: o}
}

// CreateBuffer allocates a width x height RGBA buffer.
func (u *Updater) CreateBuffer(width, height int) (backingstore.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d buffer", ErrInvalidSize, width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if u.opts.clear != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(u.opts.clear), image.Point{}, draw.Src)
	}
	return &Buffer{img: img, width: width, height: height}, nil
}

// InPlaceScroll shifts the pixels of the width x height window at
// (x, y) so that the pixel previously at (px+dx, py+dy) ends up at
// (px, py). Destination pixels whose source lies outside the window
// keep their old value. Source and destination may overlap.
func (u *Updater) InPlaceScroll(buf backingstore.Buffer, x, y, width, height, dx, dy int) error {
	b, err := u.own(buf)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d scroll window", ErrInvalidSize, width, height)
	}
	win := image.Rect(x, y, x+width, y+height)
	if !win.In(b.img.Bounds()) {
		return fmt.Errorf("%w: scroll window %v, buffer %v", ErrOutOfBounds, win, b.img.Bounds())
	}

	// Destination pixels whose source also lies inside the window.
	dst := win.Intersect(win.Sub(image.Pt(dx, dy)))
	if dst.Empty() {
		return nil
	}

	rowBytes := dst.Dx() * 4
	move := func(py int) {
		so := b.img.PixOffset(dst.Min.X+dx, py+dy)
		do := b.img.PixOffset(dst.Min.X, py)
		copy(b.img.Pix[do:do+rowBytes], b.img.Pix[so:so+rowBytes])
	}
	// Walk rows in the order that never overwrites a source row before
	// reading it. Within a row, copy handles overlap.
	if dy >= 0 {
		for py := dst.Min.Y; py < dst.Max.Y; py++ {
			move(py)
		}
	} else {
		for py := dst.Max.Y - 1; py >= dst.Min.Y; py-- {
			move(py)
		}
	}
	return nil
}

// RenderRegion draws the document region into buf with the region's
// top-left pixel landing at (bufX, bufY). The existing flag reports
// whether the buffer already holds live content elsewhere; the render
// callback only ever sees the window being rendered, so this backend
// treats both cases alike.
func (u *Updater) RenderRegion(buf backingstore.Buffer, bufX, bufY int, region backingstore.Region, quality backingstore.Quality, existing bool) error {
	b, err := u.own(buf)
	if err != nil {
		return err
	}
	if region.Empty() {
		return nil
	}
	win := image.Rect(bufX, bufY, bufX+region.Width(), bufY+region.Height())
	if !win.In(b.img.Bounds()) {
		return fmt.Errorf("%w: render window %v, buffer %v", ErrOutOfBounds, win, b.img.Bounds())
	}
	if err := u.render(b.view(win, region), quality); err != nil {
		return fmt.Errorf("software: render %v: %w", region, err)
	}
	return nil
}

// own coerces buf to this package's Buffer and checks it is usable.
func (u *Updater) own(buf backingstore.Buffer) (*Buffer, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, ErrForeignBuffer
	}
	if b.released || b.img == nil {
		return nil, ErrBufferReleased
	}
	return b, nil
}
