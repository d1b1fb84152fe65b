package wgpu

import (
	"fmt"
	"image"
)

// Scroller moves a window of an RGBA image in place by (dx, dy),
// with backing-store semantics: the pixel previously at (px+dx, py+dy)
// ends up at (px, py). Pixels of the window with no source stay
// untouched.
type Scroller interface {
	Scroll(img *image.RGBA, x, y, width, height, dx, dy int) error

	// Destroy releases scroller resources.
	Destroy()
}

// scrollWindows computes the source and destination rectangles of a
// scroll: dst is the part of the window that receives pixels, src is
// where those pixels come from. ok is false when nothing survives the
// shift.
func scrollWindows(x, y, width, height, dx, dy int) (src, dst image.Rectangle, ok bool) {
	win := image.Rect(x, y, x+width, y+height)
	dst = win.Intersect(win.Sub(image.Pt(dx, dy)))
	if dst.Empty() {
		return image.Rectangle{}, image.Rectangle{}, false
	}
	return dst.Add(image.Pt(dx, dy)), dst, true
}

// scrollRows performs the overlapping move row by row. Rows walk in
// the order that never overwrites a source row before reading it;
// within a row, copy handles overlap.
func scrollRows(img *image.RGBA, dst image.Rectangle, dx, dy int) {
	rowBytes := dst.Dx() * 4
	move := func(py int) {
		so := img.PixOffset(dst.Min.X+dx, py+dy)
		do := img.PixOffset(dst.Min.X, py)
		copy(img.Pix[do:do+rowBytes], img.Pix[so:so+rowBytes])
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
}

// CPUScroller is the host-memory Scroller. It is the fallback the
// hybrid scroller uses when no GPU is available and the whole story
// under the nogpu build tag.
type CPUScroller struct{}

// NewCPUScroller creates a CPU scroller.
func NewCPUScroller() *CPUScroller {
	return &CPUScroller{}
}

var _ Scroller = (*CPUScroller)(nil)

// Scroll moves the window at (x, y) of size width x height by (dx, dy).
func (s *CPUScroller) Scroll(img *image.RGBA, x, y, width, height, dx, dy int) error {
	if img == nil {
		return fmt.Errorf("scroll: nil image")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("scroll: invalid window %dx%d", width, height)
	}
	win := image.Rect(x, y, x+width, y+height)
	if !win.In(img.Bounds()) {
		return fmt.Errorf("scroll: window %v outside image bounds %v", win, img.Bounds())
	}
	_, dst, ok := scrollWindows(x, y, width, height, dx, dy)
	if !ok {
		return nil
	}
	scrollRows(img, dst, dx, dy)
	return nil
}

// Destroy is a no-op for the CPU scroller.
func (s *CPUScroller) Destroy() {}
