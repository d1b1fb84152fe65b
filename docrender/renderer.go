package docrender

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"github.com/gogpu/backingstore"
	"github.com/gogpu/backingstore/software"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrNoFontData is returned when New is called with empty font data.
var ErrNoFontData = errors.New("docrender: empty font data")

// Option configures a Renderer.
type Option func(*options)

type options struct {
	size       float64
	lineHeight float64
	padding    float64
	fg, bg     color.Color
	rtl        bool
	cacheLimit int
}

func defaultOptions() options {
	return options{
		size:       14,
		lineHeight: 1.4,
		padding:    8,
		fg:         color.Black,
		bg:         color.White,
		cacheLimit: 512,
	}
}

// WithSize sets the font size in pixels. Must be positive.
func WithSize(px float64) Option {
	return func(o *options) { o.size = px }
}

// WithLineHeight sets the line advance as a multiple of the font size.
func WithLineHeight(factor float64) Option {
	return func(o *options) { o.lineHeight = factor }
}

// WithPadding sets the document margin in pixels.
func WithPadding(px float64) Option {
	return func(o *options) { o.padding = px }
}

// WithForeground sets the text color.
func WithForeground(c color.Color) Option {
	return func(o *options) { o.fg = c }
}

// WithBackground sets the page color.
func WithBackground(c color.Color) Option {
	return func(o *options) { o.bg = c }
}

// WithRightToLeft makes right-to-left the default paragraph direction
// for lines with no strong directional character.
func WithRightToLeft() Option {
	return func(o *options) { o.rtl = true }
}

// WithCacheLimit sets the maximum number of cached shaped runs.
// A value of 0 disables the cache limit.
func WithCacheLimit(n int) Option {
	return func(o *options) { o.cacheLimit = n }
}

// Renderer lays out and rasterizes a multi-line text document in
// document space. Its Render method satisfies the render callback of
// the software and texture updaters, which makes a Renderer a complete
// content producer for a backing store.
type Renderer struct {
	mu   sync.Mutex
	opts options

	// shapeFont is the go-text Font for HarfBuzz shaping; read-only
	// and safe for concurrent use, unlike the Faces built over it.
	shapeFont *gtfont.Font

	// rasterFont is the x/image font for rasterization.
	rasterFont *opentype.Font

	shaperPool sync.Pool
	shapeCache *Cache[ShapeKey, Run]

	lines       []Line
	lineAdvance float64
}

// New parses fontData (TTF) and returns an empty document renderer.
// The data is parsed twice: once by go-text/typesetting for shaping
// and once by x/image/font/opentype for rasterization.
func New(fontData []byte, opts ...Option) (*Renderer, error) {
	if len(fontData) == 0 {
		return nil, ErrNoFontData
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	face, err := gtfont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("docrender: parse font for shaping: %w", err)
	}
	otf, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("docrender: parse font for rasterization: %w", err)
	}

	d := &Renderer{
		opts:        o,
		shapeFont:   face.Font,
		rasterFont:  otf,
		shapeCache:  NewCache[ShapeKey, Run](o.cacheLimit),
		lineAdvance: o.size * o.lineHeight,
	}
	d.shaperPool = sync.Pool{
		New: func() any {
			return &shaping.HarfbuzzShaper{}
		},
	}
	return d, nil
}

// SetText replaces the document content, one entry per line, and lays
// out every line.
func (d *Renderer) SetText(lines []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = d.lines[:0]
	for _, text := range lines {
		d.lines = append(d.lines, d.layoutLine(text))
	}
}

// AppendLine lays out one more line at the end of the document.
func (d *Renderer) AppendLine(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, d.layoutLine(text))
}

// LineCount returns the number of laid-out lines.
func (d *Renderer) LineCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lines)
}

// Line returns the laid-out line at index i, or a zero Line when i is
// out of range. Identical lines share cached glyph slices; treat the
// returned value as read-only.
func (d *Renderer) Line(i int) Line {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.lines) {
		return Line{}
	}
	return d.lines[i]
}

// ContentSize reports the document extent in pixels, for the content
// size argument of Store.Update.
func (d *Renderer) ContentSize() backingstore.Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	var w float64
	for _, l := range d.lines {
		if l.Width > w {
			w = l.Width
		}
	}
	return backingstore.Size{
		Width:  int(2*d.opts.padding + w + 0.5),
		Height: int(2*d.opts.padding + float64(len(d.lines))*d.lineAdvance + 0.5),
	}
}

// Render draws the document into img, which is registered in document
// coordinates: img.Bounds() is exactly the region to refresh. High
// quality rasterizes with full hinting, low quality without.
func (d *Renderer) Render(img *image.RGBA, quality backingstore.Quality) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	bounds := img.Bounds()
	draw.Draw(img, bounds, image.NewUniform(d.opts.bg), image.Point{}, draw.Src)

	hinting := font.HintingFull
	if quality == backingstore.QualityLow {
		hinting = font.HintingNone
	}
	// opentype.Face is not safe for concurrent use; build one per call
	// over the parsed font.
	face, err := opentype.NewFace(d.rasterFont, &opentype.FaceOptions{
		Size:    d.opts.size,
		DPI:     72,
		Hinting: hinting,
	})
	if err != nil {
		return fmt.Errorf("docrender: create face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	ascent := fixedToFloat(face.Metrics().Ascent)
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(d.opts.fg),
		Face: face,
	}

	for i, line := range d.lines {
		top := d.opts.padding + float64(i)*d.lineAdvance
		if int(top) >= bounds.Max.Y || int(top+d.lineAdvance) <= bounds.Min.Y {
			continue
		}
		baseline := top + ascent
		for _, run := range line.Runs {
			drawer.Dot = fixed.Point26_6{
				X: floatToFixed(d.opts.padding + run.X),
				Y: floatToFixed(baseline),
			}
			drawer.DrawString(run.displayText())
		}
	}
	return nil
}

// Updater wraps the renderer in a host-memory updater whose buffers
// clear to the document background.
func (d *Renderer) Updater(opts ...software.UpdaterOption) *software.Updater {
	opts = append([]software.UpdaterOption{software.WithClearColor(d.opts.bg)}, opts...)
	return software.NewUpdater(d.Render, opts...)
}
