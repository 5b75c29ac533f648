// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import "time"

// cmdWriter batches controller commands and settle delays with sticky
// error handling, so init scripts read as the straight command lists in
// the datasheets.
type cmdWriter struct {
	di    Interface
	sleep func(time.Duration)
	err   error
}

func (w *cmdWriter) command(cmd byte, params ...byte) {
	if w.err != nil {
		return
	}
	w.err = w.di.Command(cmd, params...)
}

func (w *cmdWriter) delay(d time.Duration) {
	if w.err != nil {
		return
	}
	w.sleep(d)
}

func (w *cmdWriter) invert(on bool) {
	if on {
		w.command(enterInvertMode)
	} else {
		w.command(exitInvertMode)
	}
}

// Model describes one controller chip: its frame memory geometry, the
// panel size it usually drives and the power-up script. The script
// content is per-chip register trivia taken from the vendor init tables;
// everything after it goes through the shared command layer.
type Model struct {
	// Name of the controller chip.
	Name string
	// FramebufferWidth and FramebufferHeight are the fixed size of the
	// controller's frame memory.
	FramebufferWidth  int
	FramebufferHeight int
	// Width and Height are the default display size.
	Width  int
	Height int
	// PixelFormat is the default interface pixel format.
	PixelFormat PixelFormat

	// init powers the panel up. madctl, the COLMOD parameter and the
	// inversion flag are resolved by the driver and passed in because
	// the scripts interleave them with vendor registers.
	init func(w *cmdWriter, madctl byte, pf PixelFormat, invert bool)
}

func (m Model) String() string {
	return m.Name
}

// ST7789 is a 240x320 TFT/IPS controller, commonly wired to 240x240 or
// 135x240 panels with a frame memory offset.
var ST7789 = Model{
	Name:              "ST7789",
	FramebufferWidth:  240,
	FramebufferHeight: 320,
	Width:             240,
	Height:            320,
	PixelFormat:       RGB565,
	init: func(w *cmdWriter, madctl byte, pf PixelFormat, invert bool) {
		w.delay(150 * time.Millisecond)
		w.command(exitSleepMode)
		w.delay(10 * time.Millisecond)
		w.command(setAddressMode, madctl)
		w.invert(invert)
		w.command(setPixelFormat, pf.colmod())
		w.delay(10 * time.Millisecond)
		w.command(enterNormalMode)
		w.delay(10 * time.Millisecond)
		w.command(setDisplayOn)
		// DISPON needs time or the first transfers get corrupted.
		w.delay(120 * time.Millisecond)
	},
}

// ILI9341 is a 240x320 TFT controller.
var ILI9341 = Model{
	Name:              "ILI9341",
	FramebufferWidth:  240,
	FramebufferHeight: 320,
	Width:             240,
	Height:            320,
	PixelFormat:       RGB565,
	init: func(w *cmdWriter, madctl byte, pf PixelFormat, invert bool) {
		// 5ms required after releasing reset before the first command.
		w.delay(5 * time.Millisecond)
		w.command(setAddressMode, madctl)
		w.command(0xB4, 0x00) // display inversion control
		w.invert(invert)
		w.command(setPixelFormat, pf.colmod())
		w.command(enterNormalMode)
		// A reset may have left the controller in sleep; SLPOUT can only
		// follow SLPIN after 120ms.
		w.delay(120 * time.Millisecond)
		w.command(exitSleepMode)
		w.delay(140 * time.Millisecond)
		w.command(setDisplayOn)
	},
}

// GC9A01 is a 240x240 round panel controller.
var GC9A01 = Model{
	Name:              "GC9A01",
	FramebufferWidth:  240,
	FramebufferHeight: 240,
	Width:             240,
	Height:            240,
	PixelFormat:       RGB565,
	init: func(w *cmdWriter, madctl byte, pf PixelFormat, invert bool) {
		w.delay(200 * time.Millisecond)
		w.command(0xEF) // inter register enable 2
		w.command(0xEB, 0x14)
		w.command(0xFE) // inter register enable 1
		w.command(0xEF) // inter register enable 2
		w.command(0xEB, 0x14)
		w.command(0x84, 0x40)
		w.command(0x85, 0xFF)
		w.command(0x86, 0xFF)
		w.command(0x87, 0xFF)
		w.command(0x88, 0x0A)
		w.command(0x89, 0x21)
		w.command(0x8A, 0x00)
		w.command(0x8B, 0x80)
		w.command(0x8C, 0x01)
		w.command(0x8D, 0x01)
		w.command(0x8E, 0xFF)
		w.command(0x8F, 0xFF)
		w.command(0xB6, 0x00, 0x20) // display function control
		w.command(setAddressMode, madctl)
		w.command(setPixelFormat, pf.colmod())
		w.command(0x90, 0x08, 0x08, 0x08, 0x08)
		w.command(0xBD, 0x06)
		w.command(0xBC, 0x00)
		w.command(0xFF, 0x60, 0x01, 0x04)
		w.command(0xC3, 0x13) // power control 2
		w.command(0xC4, 0x13) // power control 3
		w.command(0xC9, 0x22) // power control 4
		w.command(0xBE, 0x11)
		w.command(0xE1, 0x10, 0x0E)
		w.command(0xDF, 0x20, 0x0C, 0x02)
		w.command(0xF0, 0x45, 0x09, 0x08, 0x08, 0x26, 0x2A) // gamma 1
		w.command(0xF1, 0x43, 0x70, 0x72, 0x36, 0x37, 0x6F) // gamma 2
		w.command(0xF2, 0x45, 0x09, 0x08, 0x08, 0x26, 0x2A) // gamma 3
		w.command(0xF3, 0x43, 0x70, 0x72, 0x36, 0x37, 0x6F) // gamma 4
		w.command(0xED, 0x18, 0x0B)
		w.command(0xAE, 0x77)
		w.command(0xCD, 0x63)
		w.command(0x70, 0x07, 0x07, 0x04, 0x0E, 0x0F, 0x09, 0x07, 0x08, 0x03)
		w.command(0xE8, 0x34) // frame rate
		w.command(0x62,
			0x18, 0x0D, 0x71, 0xED, 0x70, 0x70, 0x18, 0x0F, 0x71, 0xEF, 0x70, 0x70)
		w.command(0x63,
			0x18, 0x11, 0x71, 0xF1, 0x70, 0x70, 0x18, 0x13, 0x71, 0xF3, 0x70, 0x70)
		w.command(0x64, 0x28, 0x29, 0xF1, 0x01, 0xF1, 0x00, 0x07)
		w.command(0x66, 0x3C, 0x00, 0xCD, 0x67, 0x45, 0x45, 0x10, 0x00, 0x00, 0x00)
		w.command(0x67, 0x00, 0x3C, 0x00, 0x00, 0x00, 0x01, 0x54, 0x10, 0x32, 0x98)
		w.command(0x74, 0x10, 0x85, 0x80, 0x00, 0x00, 0x4E, 0x00)
		w.command(0x98, 0x3E, 0x07)
		w.invert(invert)
		w.command(exitSleepMode)
		w.delay(120 * time.Millisecond)
		w.command(setDisplayOn)
	},
}
