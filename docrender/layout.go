package docrender

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Glyph is one shaped glyph, positioned relative to its run origin.
// Cluster is the index of the glyph's first rune within Run.Text.
type Glyph struct {
	ID      uint16
	Cluster int
	X, Y    float64
	Advance float64
}

// Run is a visually contiguous span of a line with one direction.
type Run struct {
	Text    string
	RTL     bool
	X       float64 // run origin relative to the line start
	Advance float64
	Glyphs  []Glyph
}

// Line is one laid-out document line.
type Line struct {
	Text  string
	Runs  []Run
	Width float64
}

// layoutLine splits text into bidi-ordered visual runs and shapes each
// run with HarfBuzz.
func (d *Renderer) layoutLine(text string) Line {
	if text == "" {
		return Line{}
	}
	runes := []rune(text)

	defaultDir := bidi.Neutral
	if d.opts.rtl {
		defaultDir = bidi.RightToLeft
	}
	var p bidi.Paragraph
	_, _ = p.SetString(text, bidi.DefaultDirection(defaultDir))
	ordering, err := p.Order()
	if err != nil {
		// Treat the whole line as one left-to-right run.
		run := d.shapeRun(runes, 0, len(runes), false)
		return Line{Text: text, Runs: []Run{run}, Width: run.Advance}
	}

	line := Line{Text: text}
	var pen float64
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		// run.Pos() returns RUNE indices (start, end inclusive)
		start, end := r.Pos()
		run := d.shapeRun(runes, start, end+1, r.Direction() == bidi.RightToLeft)
		run.X = pen
		pen += run.Advance
		line.Runs = append(line.Runs, run)
	}
	line.Width = pen
	return line
}

// shapeRun returns the shaped form of runes[start:end], consulting the
// shaping cache first. Identical text with the same direction shapes
// identically, so repeated lines reuse the cached glyphs.
func (d *Renderer) shapeRun(runes []rune, start, end int, rtl bool) Run {
	text := string(runes[start:end])
	return d.shapeCache.GetOrCreate(ShapeKey{Text: text, RTL: rtl}, func() Run {
		return d.shapeText(text, rtl)
	})
}

// shapeText shapes text as one standalone run with a pooled
// HarfbuzzShaper. font.Face is not safe for concurrent use, so each
// call gets a fresh lightweight Face over the cached thread-safe Font.
func (d *Renderer) shapeText(text string, rtl bool) Run {
	runes := []rune(text)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      font.NewFace(d.shapeFont),
		Size:      floatToFixed(d.opts.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := d.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	d.shaperPool.Put(hb)

	run := Run{Text: text, RTL: rtl}
	var x float64
	for _, g := range output.Glyphs {
		adv := fixedToFloat(g.Advance)
		run.Glyphs = append(run.Glyphs, Glyph{
			ID:      uint16(g.GlyphID),
			Cluster: g.TextIndex(),
			X:       x + fixedToFloat(g.XOffset),
			Y:       fixedToFloat(g.YOffset),
			Advance: adv,
		})
		x += adv
	}
	run.Advance = x
	return run
}

// displayText returns the run text in visual order for rune-keyed
// rasterizers.
func (r Run) displayText() string {
	if !r.RTL {
		return r.Text
	}
	runes := []rune(r.Text)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// detectScript returns the script of the first non-space rune. For
// mixed-script runs, callers should split by script before shaping.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64.0 }
