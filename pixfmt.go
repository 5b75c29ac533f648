// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import "image/color"

// Color is a display pixel with 8 bits per channel. The wire encoding
// repacks the channels down to the active PixelFormat; no other color
// processing happens in this package.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// colorModel converts arbitrary colors to Color, dropping alpha.
var colorModel = color.ModelFunc(func(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
})

// PixelFormat selects the interface pixel format programmed into the
// controller via COLMOD (0x3A) and the matching wire encoding.
type PixelFormat uint8

// Pixel formats supported by the DCS controllers this package drives.
const (
	// RGB565 is 16 bits per pixel, the native format of most panels.
	RGB565 PixelFormat = iota + 1
	// RGB666 is 18 bits per pixel, sent as 3 bytes with each 6 bit
	// channel left aligned.
	RGB666
	// RGB888 is 24 bits per pixel.
	RGB888
)

// BitsPerPixel returns the color depth programmed into the controller.
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case RGB565:
		return 16
	case RGB666:
		return 18
	case RGB888:
		return 24
	default:
		return 0
	}
}

// bytesPerPixel is the wire size of one encoded pixel on an 8 bit bus.
func (f PixelFormat) bytesPerPixel() int {
	if f == RGB565 {
		return 2
	}
	return 3
}

// colmod returns the COLMOD parameter byte for the format.
func (f PixelFormat) colmod() byte {
	switch f {
	case RGB666:
		return 0x66
	case RGB888:
		return 0x77
	default:
		return 0x55
	}
}

func (f PixelFormat) String() string {
	switch f {
	case RGB565:
		return "RGB565"
	case RGB666:
		return "RGB666"
	case RGB888:
		return "RGB888"
	default:
		return "PixelFormat(0)"
	}
}

// encode packs c into dst in the controller's expected byte order. dst
// must hold at least bytesPerPixel() bytes. Multi byte values are big
// endian; a 16 bit parallel bus reassembles them into native words.
func (f PixelFormat) encode(c Color, dst []byte) {
	switch f {
	case RGB666:
		// 6 bits per channel in the top bits of each byte.
		dst[0] = c.R &^ 0x03
		dst[1] = c.G &^ 0x03
		dst[2] = c.B &^ 0x03
	case RGB888:
		dst[0] = c.R
		dst[1] = c.G
		dst[2] = c.B
	default:
		raw := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
		dst[0] = byte(raw >> 8)
		dst[1] = byte(raw)
	}
}
