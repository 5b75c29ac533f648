// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var (
	red  = Color{R: 0xFF}
	blue = Color{B: 0xFF}
)

func collectRuns(pixels []Pixel) []PixelRun {
	it := newRowIterator(PixelSlice(pixels))
	var runs []PixelRun
	for {
		r, ok := it.Next()
		if !ok {
			return runs
		}
		runs = append(runs, r)
	}
}

func collectBlocks(pixels []Pixel) []PixelBlock {
	it := newBlockIterator(newRowIterator(PixelSlice(pixels)))
	var blocks []PixelBlock
	for {
		b, ok := it.Next()
		if !ok {
			return blocks
		}
		blocks = append(blocks, b)
	}
}

func TestRowIterator(t *testing.T) {
	data := []struct {
		name     string
		pixels   []Pixel
		expected []PixelRun
	}{
		{
			name: "empty",
		},
		{
			name:   "single",
			pixels: []Pixel{{3, 7, red}},
			expected: []PixelRun{
				{XLeft: 3, XRight: 3, Y: 7, Colors: []Color{red}},
			},
		},
		{
			name:   "contiguous and gap",
			pixels: []Pixel{{0, 0, red}, {1, 0, red}, {2, 0, red}, {5, 0, blue}},
			expected: []PixelRun{
				{XLeft: 0, XRight: 2, Y: 0, Colors: []Color{red, red, red}},
				{XLeft: 5, XRight: 5, Y: 0, Colors: []Color{blue}},
			},
		},
		{
			name:   "row change splits",
			pixels: []Pixel{{0, 0, red}, {1, 0, red}, {2, 1, red}},
			expected: []PixelRun{
				{XLeft: 0, XRight: 1, Y: 0, Colors: []Color{red, red}},
				{XLeft: 2, XRight: 2, Y: 1, Colors: []Color{red}},
			},
		},
		{
			name:   "backwards splits",
			pixels: []Pixel{{2, 0, red}, {1, 0, red}},
			expected: []PixelRun{
				{XLeft: 2, XRight: 2, Y: 0, Colors: []Color{red}},
				{XLeft: 1, XRight: 1, Y: 0, Colors: []Color{red}},
			},
		},
		{
			name:   "negative coordinates skipped",
			pixels: []Pixel{{-1, 0, red}, {0, -2, red}, {0, 0, blue}},
			expected: []PixelRun{
				{XLeft: 0, XRight: 0, Y: 0, Colors: []Color{blue}},
			},
		},
	}
	for _, line := range data {
		got := collectRuns(line.pixels)
		if diff := cmp.Diff(line.expected, got); diff != "" {
			t.Errorf("%s: runs mismatch (-expected +got):\n%s", line.name, diff)
		}
	}
}

// A run that fills up flushes and the overflowing pixel starts the next
// run; nothing is dropped.
func TestRowIterator_Capacity(t *testing.T) {
	var pixels []Pixel
	for x := 0; x < maxRunPixels+1; x++ {
		pixels = append(pixels, Pixel{X: x, Y: 0, C: red})
	}
	runs := collectRuns(pixels)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, expected 2", len(runs))
	}
	if len(runs[0].Colors) != maxRunPixels || runs[0].XLeft != 0 || runs[0].XRight != maxRunPixels-1 {
		t.Errorf("first run: %d pixels (%d,%d)", len(runs[0].Colors), runs[0].XLeft, runs[0].XRight)
	}
	if len(runs[1].Colors) != 1 || runs[1].XLeft != maxRunPixels {
		t.Errorf("overflow run: %d pixels at %d", len(runs[1].Colors), runs[1].XLeft)
	}
}

func TestBlockIterator(t *testing.T) {
	data := []struct {
		name     string
		pixels   []Pixel
		expected []PixelBlock
	}{
		{
			name: "rows with identical extents merge",
			pixels: []Pixel{
				{0, 0, red}, {1, 0, red},
				{0, 1, blue}, {1, 1, blue},
			},
			expected: []PixelBlock{
				{XLeft: 0, XRight: 1, YTop: 0, YBottom: 1, Colors: []Color{red, red, blue, blue}},
			},
		},
		{
			name: "different extents split",
			pixels: []Pixel{
				{0, 0, red}, {1, 0, red},
				{0, 1, red},
			},
			expected: []PixelBlock{
				{XLeft: 0, XRight: 1, YTop: 0, YBottom: 0, Colors: []Color{red, red}},
				{XLeft: 0, XRight: 0, YTop: 1, YBottom: 1, Colors: []Color{red}},
			},
		},
		{
			name: "row gap splits",
			pixels: []Pixel{
				{0, 0, red},
				{0, 2, red},
			},
			expected: []PixelBlock{
				{XLeft: 0, XRight: 0, YTop: 0, YBottom: 0, Colors: []Color{red}},
				{XLeft: 0, XRight: 0, YTop: 2, YBottom: 2, Colors: []Color{red}},
			},
		},
	}
	for _, line := range data {
		got := collectBlocks(line.pixels)
		if diff := cmp.Diff(line.expected, got); diff != "" {
			t.Errorf("%s: blocks mismatch (-expected +got):\n%s", line.name, diff)
		}
	}
}

// Every input pixel ends up in exactly one block, even across the run and
// block capacity limits.
func TestBlockIterator_Conservation(t *testing.T) {
	// 5 full-width rows of 40 pixels: each row is one run, the block limit
	// of 100 forces a split after 2 rows.
	var pixels []Pixel
	for y := 0; y < 5; y++ {
		for x := 0; x < 40; x++ {
			pixels = append(pixels, Pixel{X: x, Y: y, C: red})
		}
	}
	blocks := collectBlocks(pixels)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, expected 3", len(blocks))
	}
	total := 0
	for _, b := range blocks {
		if got := (b.XRight - b.XLeft + 1) * (b.YBottom - b.YTop + 1); got != len(b.Colors) {
			t.Errorf("block %+v: %d colors for %d cells", b, len(b.Colors), got)
		}
		total += len(b.Colors)
	}
	if total != len(pixels) {
		t.Errorf("blocks carry %d pixels, expected %d", total, len(pixels))
	}
}
