// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcsemu_test

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"periph.io/x/devices/v3/mipitft"
	"periph.io/x/devices/v3/mipitft/dcsemu"
)

var _ mipitft.Interface = &dcsemu.Dev{}

func newDev(t *testing.T, opts *mipitft.Opts) (*mipitft.Dev, *dcsemu.Dev) {
	t.Helper()
	emu := dcsemu.New(&dcsemu.Opts{Width: 240, Height: 320})
	dev, err := mipitft.New(emu, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	return dev, emu
}

func TestFillAndSetPixel(t *testing.T) {
	dev, emu := newDev(t, &mipitft.Opts{Model: mipitft.ST7789})
	if emu.Sleeping() {
		t.Fatal("init left the controller asleep")
	}
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	if err := dev.Fill(mipitft.Color{R: 0xFF}); err != nil {
		t.Fatal(err)
	}
	img := emu.Image()
	if got := img.NRGBAAt(0, 0); got != red {
		t.Fatalf("top left = %v, expected %v", got, red)
	}
	if got := img.NRGBAAt(239, 319); got != red {
		t.Fatalf("bottom right = %v, expected %v", got, red)
	}

	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	if err := dev.SetPixel(5, 10, mipitft.Color{B: 0xFF}); err != nil {
		t.Fatal(err)
	}
	if got := emu.Image().NRGBAAt(5, 10); got != blue {
		t.Fatalf("(5,10) = %v, expected %v", got, blue)
	}
}

// A pixel drawn at the origin of 90° rotated content must land in the top
// right corner of the panel.
func TestRotatedWrite(t *testing.T) {
	dev, emu := newDev(t, &mipitft.Opts{Model: mipitft.ST7789})
	if err := dev.SetOrientation(mipitft.Orientation{Rotation: mipitft.Deg90}); err != nil {
		t.Fatal(err)
	}
	if err := dev.SetPixel(0, 0, mipitft.Color{G: 0xFF}); err != nil {
		t.Fatal(err)
	}
	green := color.NRGBA{G: 0xFF, A: 0xFF}
	if got := emu.Image().NRGBAAt(239, 0); got != green {
		t.Fatalf("panel top right = %v, expected %v", got, green)
	}
}

func TestInvertAndSleep(t *testing.T) {
	dev, emu := newDev(t, &mipitft.Opts{Model: mipitft.ST7789})
	if err := dev.Invert(true); err != nil {
		t.Fatal(err)
	}
	white := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if got := emu.Image().NRGBAAt(0, 0); got != white {
		t.Fatalf("inverted black = %v, expected %v", got, white)
	}
	if err := dev.Sleep(); err != nil {
		t.Fatal(err)
	}
	if !emu.Sleeping() {
		t.Fatal("Sleep() did not reach the controller")
	}
	if err := dev.Wake(); err != nil {
		t.Fatal(err)
	}
	if emu.Sleeping() {
		t.Fatal("Wake() did not reach the controller")
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	emu := dcsemu.New(&dcsemu.Opts{Width: 240, Height: 320, Scale: 40, Writer: &buf})
	dev, err := mipitft.New(emu, nil, &mipitft.Opts{Model: mipitft.ST7789})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Fill(mipitft.Color{R: 0xFF}); err != nil {
		t.Fatal(err)
	}
	if err := emu.Render(); err != nil {
		t.Fatal(err)
	}
	// 320 lines at scale 40 render as 8 terminal rows.
	if got := strings.Count(buf.String(), "\n"); got != 8 {
		t.Fatalf("rendered %d rows, expected 8", got)
	}
}

func TestPixelsWithoutWrite(t *testing.T) {
	emu := dcsemu.New(&dcsemu.Opts{Width: 8, Height: 8})
	if err := emu.Pixels([]byte{0x00, 0x00}); err == nil {
		t.Fatal("pixel data without a memory write command must fail")
	}
	if err := emu.RepeatedPixel([]byte{0x00, 0x00}, 4); err == nil {
		t.Fatal("repeated pixel without a memory write command must fail")
	}
}
