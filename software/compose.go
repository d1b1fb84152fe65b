// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/backingstore"
)

// Compose copies every blit of it onto dst. Blit destinations are in
// screen coordinates, so dst's coordinate space is the screen's. The
// iterator is consumed but not released; a nil iterator composes
// nothing.
//
// Compose only accepts buffers created by this package's updater.
func Compose(dst draw.Image, it *backingstore.DrawRegionIterator) error {
	if it == nil {
		return nil
	}
	for it.Next() {
		bl := it.Blit()
		src, ok := bl.Buffer.(*Buffer)
		if !ok {
			return ErrForeignBuffer
		}
		if src.img == nil {
			return ErrBufferReleased
		}
		draw.Copy(dst,
			image.Pt(bl.OutX, bl.OutY),
			src.img,
			image.Rect(bl.InX, bl.InY, bl.InX+bl.Width, bl.InY+bl.Height),
			draw.Src, nil)
	}
	return nil
}
