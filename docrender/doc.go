// Package docrender is a text document renderer for backing-store
// updaters.
//
// It turns a list of text lines into a laid-out document: lines are
// split into visual runs with the Unicode bidirectional algorithm
// (golang.org/x/text/unicode/bidi), each run is shaped with HarfBuzz
// (github.com/go-text/typesetting), and Render rasterizes the result
// through golang.org/x/image/font/opentype with hinting controlled by
// the requested quality.
//
// Render is registered in document coordinates, so it plugs directly
// into the software and texture updaters:
//
//	doc, err := docrender.New(goregular.TTF)
//	doc.SetText([]string{"first line", "second line"})
//
//	store := backingstore.New(doc.Updater())
//	vp := backingstore.Viewport{X: 0, Y: 0, Width: 800, Height: 600}
//	store.Update(nil, backingstore.UpdateAll, vp, doc.ContentSize(), false)
//
// Scrolling the viewport afterwards reuses rendered lines through the
// store's in-place scroll instead of shaping and rasterizing them
// again. Within the renderer an LRU cache deduplicates shaping work,
// so documents with repeated lines lay out in proportion to their
// distinct content.
package docrender
