package backingstore

import "fmt"

// Region is an axis-aligned rectangle in scaled document coordinates.
// The edges satisfy X1 <= X2 and Y1 <= Y2 for a well-formed region;
// X2 and Y2 are exclusive. A region with zero width or height is
// degenerate and treated as empty everywhere.
type Region struct {
	X1, Y1 int // top-left corner (inclusive)
	X2, Y2 int // bottom-right corner (exclusive)
}

// Rect returns the region spanning (x1,y1) to (x2,y2).
func Rect(x1, y1, x2, y2 int) Region {
	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// RectWH returns the region at (x,y) with the given width and height.
func RectWH(x, y, width, height int) Region {
	return Region{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Width returns the horizontal extent of the region.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of the region.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Area returns the number of pixels covered by the region,
// or zero for an empty region.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

// Empty reports whether the region covers no pixels.
func (r Region) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// wellFormed reports whether the edges are ordered. Empty regions are
// well formed; inverted ones (X2 < X1 or Y2 < Y1) are not and are
// rejected at the public API boundary.
func (r Region) wellFormed() bool {
	return r.X1 <= r.X2 && r.Y1 <= r.Y2
}

// Intersect returns the overlap of r and o, or the zero Region when
// they do not overlap.
func (r Region) Intersect(o Region) Region {
	x1 := max(r.X1, o.X1)
	y1 := max(r.Y1, o.Y1)
	x2 := min(r.X2, o.X2)
	y2 := min(r.Y2, o.Y2)
	if x2 <= x1 || y2 <= y1 {
		return Region{}
	}
	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Intersects reports whether r and o share at least one pixel.
func (r Region) Intersects(o Region) bool {
	return !r.Intersect(o).Empty()
}

// Contains reports whether o lies entirely within r.
// Every region contains the empty region.
func (r Region) Contains(o Region) bool {
	if o.Empty() {
		return true
	}
	return r.X1 <= o.X1 && r.Y1 <= o.Y1 && o.X2 <= r.X2 && o.Y2 <= r.Y2
}

// UnionBounds returns the smallest region enclosing both r and o.
// Empty inputs do not contribute.
func (r Region) UnionBounds(o Region) Region {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Region{
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
		X2: max(r.X2, o.X2),
		Y2: max(r.Y2, o.Y2),
	}
}

// Clip returns the part of r inside bounds. It is the content-clipping
// form of Intersect.
func (r Region) Clip(bounds Region) Region {
	return r.Intersect(bounds)
}

// Translate returns r shifted by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	return Region{X1: r.X1 + dx, Y1: r.Y1 + dy, X2: r.X2 + dx, Y2: r.Y2 + dy}
}

// Subtract returns the parts of r not covered by o as zero to four
// disjoint regions: a full-width strip above and below the overlap,
// and left and right strips beside it. Subtracting a non-overlapping
// region returns r unchanged; subtracting a covering region returns
// nothing.
func (r Region) Subtract(o Region) []Region {
	if r.Empty() {
		return nil
	}
	in := r.Intersect(o)
	if in.Empty() {
		return []Region{r}
	}
	if in == r {
		return nil
	}
	out := make([]Region, 0, 4)
	if in.Y1 > r.Y1 {
		out = append(out, Region{X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: in.Y1})
	}
	if in.Y2 < r.Y2 {
		out = append(out, Region{X1: r.X1, Y1: in.Y2, X2: r.X2, Y2: r.Y2})
	}
	if in.X1 > r.X1 {
		out = append(out, Region{X1: r.X1, Y1: in.Y1, X2: in.X1, Y2: in.Y2})
	}
	if in.X2 < r.X2 {
		out = append(out, Region{X1: in.X2, Y1: in.Y1, X2: r.X2, Y2: in.Y2})
	}
	return out
}

// String returns the region in "(x1,y1)-(x2,y2)" form.
func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// subtractAll removes every hole from target and returns the disjoint
// remainder. The result shares no pixels with any hole.
func subtractAll(target Region, holes []Region) []Region {
	if target.Empty() {
		return nil
	}
	remaining := []Region{target}
	for _, h := range holes {
		if h.Empty() {
			continue
		}
		var next []Region
		for _, piece := range remaining {
			next = append(next, piece.Subtract(h)...)
		}
		remaining = next
		if len(remaining) == 0 {
			break
		}
	}
	return remaining
}

// totalArea sums the areas of the given regions. The caller guarantees
// they are disjoint.
func totalArea(regions []Region) int {
	area := 0
	for _, r := range regions {
		area += r.Area()
	}
	return area
}

// Viewport is the visible window into document space, in the same
// coordinate system as Region.
type Viewport struct {
	X, Y          int // document position of the top-left corner
	Width, Height int // extent; never negative for a valid viewport
}

// Region returns the document-space region covered by the viewport.
func (v Viewport) Region() Region {
	return RectWH(v.X, v.Y, v.Width, v.Height)
}

// wellFormed reports whether the viewport has non-negative extent.
func (v Viewport) wellFormed() bool {
	return v.Width >= 0 && v.Height >= 0
}

// Size is the full document extent in scaled coordinates. Viewports and
// update regions are clipped to it.
type Size struct {
	Width, Height int
}

// Region returns the document bounds as a region anchored at the origin.
func (s Size) Region() Region {
	return RectWH(0, 0, s.Width, s.Height)
}
