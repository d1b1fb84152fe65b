package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/backingstore"
)

// hostPixels matches buffers that expose their backing image, such as
// the software backend's Buffer.
type hostPixels interface {
	Image() *image.RGBA
}

// Updater decorates a backingstore.Updater, routing InPlaceScroll
// through a Scroller for buffers that expose host pixels. Buffer
// creation and rendering always go to the inner updater, as do
// scrolls of buffers the scroller cannot reach.
type Updater struct {
	inner    backingstore.Updater
	scroller Scroller
}

var _ backingstore.Updater = (*Updater)(nil)

// NewUpdater wraps inner with scroller. The Updater takes ownership
// of the scroller (Destroy releases it) but never of the inner
// updater.
func NewUpdater(inner backingstore.Updater, scroller Scroller) (*Updater, error) {
	if inner == nil {
		return nil, fmt.Errorf("wgpu: inner updater is required")
	}
	if scroller == nil {
		return nil, fmt.Errorf("wgpu: scroller is required")
	}
	return &Updater{inner: inner, scroller: scroller}, nil
}

// CreateBuffer delegates to the inner updater.
func (u *Updater) CreateBuffer(width, height int) (backingstore.Buffer, error) {
	return u.inner.CreateBuffer(width, height)
}

// InPlaceScroll scrolls through the accelerator when buf exposes its
// host pixels, and through the inner updater otherwise.
func (u *Updater) InPlaceScroll(buf backingstore.Buffer, x, y, width, height, dx, dy int) error {
	if u.scroller != nil {
		if hp, ok := buf.(hostPixels); ok {
			if img := hp.Image(); img != nil {
				return u.scroller.Scroll(img, x, y, width, height, dx, dy)
			}
		}
	}
	return u.inner.InPlaceScroll(buf, x, y, width, height, dx, dy)
}

// RenderRegion delegates to the inner updater.
func (u *Updater) RenderRegion(buf backingstore.Buffer, bufX, bufY int, region backingstore.Region, quality backingstore.Quality, existing bool) error {
	return u.inner.RenderRegion(buf, bufX, bufY, region, quality, existing)
}

// Destroy releases the scroller. The inner updater is left alone.
func (u *Updater) Destroy() {
	if u.scroller != nil {
		u.scroller.Destroy()
		u.scroller = nil
	}
}
