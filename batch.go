// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

// Sparse pixel writes are expensive: every isolated pixel costs an address
// window update (CASET, RASET, RAMWR) before its data. The batcher groups
// a pixel stream into maximal contiguous runs on one row, then stacks runs
// with identical column extents into blocks, so a filled shape scanned row
// by row collapses into a handful of window updates.

const (
	// maxRunPixels bounds the colors buffered for a single row run.
	maxRunPixels = 50
	// maxBlockPixels bounds the colors buffered for a block of runs.
	maxBlockPixels = 100
)

// Pixel is one colored coordinate in a sparse draw.
type Pixel struct {
	X, Y int
	C    Color
}

// PixelRun is a contiguous horizontal run of pixels on one row. Bounds are
// inclusive and len(Colors) == XRight-XLeft+1.
type PixelRun struct {
	XLeft, XRight int
	Y             int
	Colors        []Color
}

// PixelBlock is a stack of adjacent PixelRuns sharing the same column
// extent. Bounds are inclusive; Colors holds the rows top to bottom.
type PixelBlock struct {
	XLeft, XRight int
	YTop, YBottom int
	Colors        []Color
}

// PixelSlice adapts a slice to the pixel source form used by DrawPixels.
func PixelSlice(pixels []Pixel) func() (Pixel, bool) {
	i := 0
	return func() (Pixel, bool) {
		if i >= len(pixels) {
			return Pixel{}, false
		}
		p := pixels[i]
		i++
		return p, true
	}
}

// rowIterator groups a pixel stream into maximal same-row runs. It yields
// exactly one run per maximal contiguous stretch, in input order, and
// never drops a pixel: when a run fills up it is flushed and the
// overflowing pixel starts the next run.
type rowIterator struct {
	src func() (Pixel, bool)

	xLeft, xRight int
	y             int
	colors        []Color
	first         bool

	pending    Pixel
	hasPending bool
}

func newRowIterator(src func() (Pixel, bool)) *rowIterator {
	return &rowIterator{src: src, first: true}
}

func (it *rowIterator) start(p Pixel) {
	it.xLeft = p.X
	it.xRight = p.X
	it.y = p.Y
	it.colors = make([]Color, 1, maxRunPixels)
	it.colors[0] = p.C
	it.first = false
}

func (it *rowIterator) flush() PixelRun {
	run := PixelRun{XLeft: it.xLeft, XRight: it.xRight, Y: it.y, Colors: it.colors}
	it.colors = nil
	it.first = true
	return run
}

// Next returns the next completed run. The second return is false once the
// source is exhausted and the last run has been flushed.
func (it *rowIterator) Next() (PixelRun, bool) {
	for {
		var p Pixel
		var ok bool
		if it.hasPending {
			p, ok = it.pending, true
			it.hasPending = false
		} else {
			p, ok = it.src()
		}
		if !ok {
			if it.first {
				return PixelRun{}, false
			}
			return it.flush(), true
		}
		if p.X < 0 || p.Y < 0 {
			continue
		}
		if it.first {
			it.start(p)
			continue
		}
		if p.X == it.xRight+1 && p.Y == it.y {
			if len(it.colors) < maxRunPixels {
				it.xRight = p.X
				it.colors = append(it.colors, p.C)
				continue
			}
			// Run is full: flush it and revisit this pixel as the start
			// of the next run.
		}
		it.pending = p
		it.hasPending = true
		return it.flush(), true
	}
}

// blockIterator merges adjacent runs with identical column extents into
// blocks. Same shape as rowIterator, one level up.
type blockIterator struct {
	rows *rowIterator

	xLeft, xRight int
	yTop, yBottom int
	colors        []Color
	first         bool

	pending    PixelRun
	hasPending bool
}

func newBlockIterator(rows *rowIterator) *blockIterator {
	return &blockIterator{rows: rows, first: true}
}

func (it *blockIterator) start(r PixelRun) {
	it.xLeft = r.XLeft
	it.xRight = r.XRight
	it.yTop = r.Y
	it.yBottom = r.Y
	it.colors = make([]Color, 0, maxBlockPixels)
	it.colors = append(it.colors, r.Colors...)
	it.first = false
}

func (it *blockIterator) flush() PixelBlock {
	b := PixelBlock{
		XLeft:   it.xLeft,
		XRight:  it.xRight,
		YTop:    it.yTop,
		YBottom: it.yBottom,
		Colors:  it.colors,
	}
	it.colors = nil
	it.first = true
	return b
}

// Next returns the next completed block.
func (it *blockIterator) Next() (PixelBlock, bool) {
	for {
		var r PixelRun
		var ok bool
		if it.hasPending {
			r, ok = it.pending, true
			it.hasPending = false
		} else {
			r, ok = it.rows.Next()
		}
		if !ok {
			if it.first {
				return PixelBlock{}, false
			}
			return it.flush(), true
		}
		if it.first {
			it.start(r)
			continue
		}
		if r.Y == it.yBottom+1 && r.XLeft == it.xLeft && r.XRight == it.xRight &&
			len(it.colors)+len(r.Colors) <= maxBlockPixels {
			it.yBottom = r.Y
			it.colors = append(it.colors, r.Colors...)
			continue
		}
		it.pending = r
		it.hasPending = true
		return it.flush(), true
	}
}

// DrawPixels writes an arbitrary, possibly sparse pixel sequence. next
// returns one pixel at a time and false when done. Pixels with negative
// coordinates are skipped; coordinates beyond the display bounds are the
// caller's responsibility, as with SetPixels.
func (d *Dev) DrawPixels(next func() (Pixel, bool)) error {
	blocks := newBlockIterator(newRowIterator(next))
	for {
		b, ok := blocks.Next()
		if !ok {
			return nil
		}
		if err := d.SetPixels(b.XLeft, b.YTop, b.XRight, b.YBottom, b.Colors); err != nil {
			return err
		}
	}
}
