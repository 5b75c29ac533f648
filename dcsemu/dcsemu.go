// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dcsemu emulates a MIPI DCS display controller in memory and
// renders its frame memory to a terminal using ANSI color codes.
//
// It implements the mipitft.Interface transport, so a program can be
// developed against the emulator on a workstation and moved to SPI or
// parallel hardware unchanged:
//
//	emu := dcsemu.New(&dcsemu.Opts{Width: 240, Height: 320})
//	dev, err := mipitft.New(emu, nil, &mipitft.Opts{Model: mipitft.ST7789})
package dcsemu

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// DCS instructions the emulator interprets. Everything else, including the
// vendor register writes done by init scripts, is accepted and ignored.
const (
	enterSleepMode   byte = 0x10
	exitSleepMode    byte = 0x11
	exitInvertMode   byte = 0x20
	enterInvertMode  byte = 0x21
	setDisplayOff    byte = 0x28
	setDisplayOn     byte = 0x29
	setColumnAddress byte = 0x2A
	setPageAddress   byte = 0x2B
	writeMemoryStart byte = 0x2C
	setAddressMode   byte = 0x36
	setPixelFormat   byte = 0x3A
)

const (
	madctlMY byte = 1 << 7
	madctlMX byte = 1 << 6
	madctlMV byte = 1 << 5
)

// Opts configures the emulated controller.
type Opts struct {
	// Width and Height of the emulated frame memory.
	Width, Height int

	// Scale renders one terminal cell per Scale x Scale pixels. Defaults to
	// 8 so a 240x320 panel fits a terminal.
	Scale int

	// Palette used for terminal rendering. Defaults to ansi256.Default.
	Palette *ansi256.Palette

	// Writer receives the ANSI output. Defaults to a colorable stdout.
	Writer io.Writer
}

// Dev is an emulated DCS display controller.
type Dev struct {
	w       io.Writer
	scale   int
	palette ansi256.Palette

	fb     *image.NRGBA
	madctl byte
	bpp    int

	// Address window and write cursor, in logical (pre MADCTL) space.
	x0, x1, y0, y1 int
	cx, cy         int
	writing        bool

	partial []byte

	sleeping bool
	on       bool
	inverted bool
}

// New returns an emulated controller with all-black frame memory.
func New(opts *Opts) *Dev {
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 8
	}
	d := &Dev{
		w:        w,
		scale:    scale,
		palette:  *p,
		fb:       image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		bpp:      2,
		x1:       opts.Width - 1,
		y1:       opts.Height - 1,
		sleeping: true,
	}
	for i := 3; i < len(d.fb.Pix); i += 4 {
		d.fb.Pix[i] = 0xFF
	}
	return d
}

func (d *Dev) String() string {
	b := d.fb.Bounds()
	return fmt.Sprintf("dcsemu.Dev{%dx%d}", b.Dx(), b.Dy())
}

// Command implements the command half of the transport.
func (d *Dev) Command(cmd byte, params ...byte) error {
	d.writing = false
	d.partial = d.partial[:0]
	switch cmd {
	case enterSleepMode:
		d.sleeping = true
	case exitSleepMode:
		d.sleeping = false
	case enterInvertMode:
		d.inverted = true
	case exitInvertMode:
		d.inverted = false
	case setDisplayOn:
		d.on = true
	case setDisplayOff:
		d.on = false
	case setAddressMode:
		if len(params) != 1 {
			return fmt.Errorf("dcsemu: address mode takes 1 parameter, got %d", len(params))
		}
		d.madctl = params[0]
	case setPixelFormat:
		if len(params) != 1 {
			return fmt.Errorf("dcsemu: pixel format takes 1 parameter, got %d", len(params))
		}
		switch params[0] {
		case 0x55:
			d.bpp = 2
		case 0x66, 0x77:
			d.bpp = 3
		default:
			return fmt.Errorf("dcsemu: unknown pixel format %#02x", params[0])
		}
	case setColumnAddress:
		s, e, err := window(params)
		if err != nil {
			return err
		}
		d.x0, d.x1 = s, e
		d.cx = s
	case setPageAddress:
		s, e, err := window(params)
		if err != nil {
			return err
		}
		d.y0, d.y1 = s, e
		d.cy = s
	case writeMemoryStart:
		d.cx, d.cy = d.x0, d.y0
		d.writing = true
	}
	return nil
}

func window(params []byte) (int, int, error) {
	if len(params) != 4 {
		return 0, 0, fmt.Errorf("dcsemu: address window takes 4 parameters, got %d", len(params))
	}
	s := int(params[0])<<8 | int(params[1])
	e := int(params[2])<<8 | int(params[3])
	if e < s {
		return 0, 0, fmt.Errorf("dcsemu: inverted address window %d-%d", s, e)
	}
	return s, e, nil
}

// Pixels implements the data half of the transport.
func (d *Dev) Pixels(data []byte) error {
	if !d.writing {
		return errors.New("dcsemu: pixel data without a preceding memory write command")
	}
	data = append(d.partial, data...)
	for len(data) >= d.bpp {
		d.put(d.decode(data))
		data = data[d.bpp:]
	}
	d.partial = append(d.partial[:0], data...)
	return nil
}

// RepeatedPixel implements the transport's fill fast path.
func (d *Dev) RepeatedPixel(pixel []byte, count int) error {
	if !d.writing {
		return errors.New("dcsemu: pixel data without a preceding memory write command")
	}
	if len(pixel) != d.bpp {
		return fmt.Errorf("dcsemu: %d byte pixel for a %d byte format", len(pixel), d.bpp)
	}
	c := d.decode(pixel)
	for i := 0; i < count; i++ {
		d.put(c)
	}
	return nil
}

func (d *Dev) decode(p []byte) color.NRGBA {
	if d.bpp == 2 {
		raw := uint16(p[0])<<8 | uint16(p[1])
		// Expand by bit replication, like panel gamma blocks do.
		r := uint8(raw >> 11)
		g := uint8(raw >> 5 & 0x3F)
		b := uint8(raw & 0x1F)
		return color.NRGBA{
			R: r<<3 | r>>2,
			G: g<<2 | g>>4,
			B: b<<3 | b>>2,
			A: 0xFF,
		}
	}
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: 0xFF}
}

// put stores one pixel at the write cursor and advances it, wrapping within
// the address window like a real controller.
func (d *Dev) put(c color.NRGBA) {
	x, y := d.cx, d.cy
	if d.madctl&madctlMV != 0 {
		x, y = y, x
	}
	if d.madctl&madctlMX != 0 {
		x = d.fb.Bounds().Dx() - 1 - x
	}
	if d.madctl&madctlMY != 0 {
		y = d.fb.Bounds().Dy() - 1 - y
	}
	if image.Pt(x, y).In(d.fb.Bounds()) {
		d.fb.SetNRGBA(x, y, c)
	}
	d.cx++
	if d.cx > d.x1 {
		d.cx = d.x0
		d.cy++
		if d.cy > d.y1 {
			d.cy = d.y0
		}
	}
}

// Image returns what the panel shows: frame memory with the controller's
// color inversion applied, or black when the display is off.
func (d *Dev) Image() *image.NRGBA {
	b := d.fb.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := d.fb.NRGBAAt(x, y)
			if !d.on {
				c = color.NRGBA{A: 0xFF}
			} else if d.inverted {
				c = color.NRGBA{R: ^c.R, G: ^c.G, B: ^c.B, A: 0xFF}
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// Sleeping reports whether the controller is in sleep mode.
func (d *Dev) Sleeping() bool {
	return d.sleeping
}

// Render writes an ANSI rendering of the panel to the configured writer,
// one colored block per Scale x Scale pixels.
func (d *Dev) Render() error {
	img := d.Image()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += d.scale {
		for x := b.Min.X; x < b.Max.X; x += d.scale {
			if _, err := io.WriteString(d.w, d.palette.Block(img.NRGBAAt(x, y))); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(d.w, "\033[0m\n"); err != nil {
			return err
		}
	}
	return nil
}
