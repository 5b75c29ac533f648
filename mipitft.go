// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// timeSleep is swapped out in tests to skip panel settle delays.
var timeSleep = time.Sleep

// Dev is a handle to an initialized display.
//
// All drawing methods take coordinates in the current content orientation;
// the controller's MADCTL register and the address window arithmetic
// translate them to frame memory.
type Dev struct {
	di  Interface
	rst gpio.PinOut

	opts   Opts
	format PixelFormat
	bpp    int
	madctl byte

	sleeping bool
	buf      []byte
	sleep    func(time.Duration)
}

// NewSPI returns a Dev driving a display over 4-wire SPI.
//
// dc is the data/command selection pin. rst is the hardware reset pin; pass
// nil to fall back to a software reset.
func NewSPI(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("mipitft: dc pin is required in 4-wire SPI mode")
	}
	c, err := p.Connect(40*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("mipitft: %w", err)
	}
	return New(&spiInterface{c: c, dc: dc}, rst, opts)
}

// NewParallel8 returns a Dev driving a display over an 8 bit 8080-style
// parallel bus. data is the bus, least significant bit first. wr is the
// write strobe, latching on the rising edge.
func NewParallel8(data [8]gpio.PinOut, dc, wr, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	return New(&parallelInterface{
		bus: gpioBus{pins: data[:]},
		dc:  dc,
		wr:  wr,
	}, rst, opts)
}

// NewParallel16 returns a Dev driving a display over a 16 bit 8080-style
// parallel bus. One bus word carries exactly one pixel, so only RGB565 is
// supported.
func NewParallel16(data [16]gpio.PinOut, dc, wr, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	f := opts.PixelFormat
	if f == 0 {
		f = opts.Model.PixelFormat
	}
	if f != RGB565 {
		return nil, fmt.Errorf("%w: 16 bit bus requires RGB565, got %s", ErrInvalidFormat, f)
	}
	return New(&parallelInterface{
		bus:  gpioBus{pins: data[:]},
		dc:   dc,
		wr:   wr,
		wide: true,
	}, rst, opts)
}

// New returns a Dev on a custom Interface implementation. Most users want
// NewSPI, NewParallel8 or NewParallel16 instead.
//
// New validates opts, resets the controller and runs the model's power-up
// script, leaving the display on and ready to draw.
func New(di Interface, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	o, err := opts.validate()
	if err != nil {
		return nil, err
	}
	d := &Dev{
		di:     di,
		rst:    rst,
		opts:   o,
		format: o.PixelFormat,
		bpp:    o.PixelFormat.bytesPerPixel(),
		madctl: madctl(o.ColorOrder, o.Orientation, o.RefreshOrder),
		sleep:  timeSleep,
	}
	if o.Model.init == nil {
		return nil, fmt.Errorf("mipitft: model %s has no init script", o.Model.Name)
	}
	if err := d.reset(); err != nil {
		return nil, err
	}
	w := &cmdWriter{di: di, sleep: d.sleep}
	o.Model.init(w, d.madctl, d.format, o.InvertColors)
	if w.err != nil {
		return nil, w.err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("mipitft.Dev{%s, %dx%d}", d.opts.Model.Name, d.opts.Width, d.opts.Height)
}

// reset pulses the reset pin, or issues a software reset when no pin is
// wired.
func (d *Dev) reset() error {
	if d.rst == nil || d.rst == gpio.INVALID {
		if err := d.di.Command(softReset); err != nil {
			return err
		}
		// Software reset needs 120ms before the next command, 5ms of which
		// the models' own settle delays do not cover.
		d.sleep(150 * time.Millisecond)
		return nil
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.Low); err != nil {
		return err
	}
	d.sleep(10 * time.Millisecond)
	return d.rst.Out(gpio.High)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return colorModel
}

// Bounds implements display.Drawer. The bounds follow the content
// orientation: a vertical rotation swaps width and height.
func (d *Dev) Bounds() image.Rectangle {
	w, h := d.opts.Width, d.opts.Height
	if d.opts.Orientation.Rotation.IsVertical() {
		w, h = h, w
	}
	return image.Rect(0, 0, w, h)
}

// windowOffset returns the frame memory offset of the display origin under
// the current orientation. The configured offset is expressed in the
// default orientation; reversed axes measure from the far edge of frame
// memory and swapped axes swap the pair.
func (d *Dev) windowOffset() (int, int) {
	m := d.opts.Orientation.memoryMapping()
	ox, oy := d.opts.OffsetX, d.opts.OffsetY
	if m.reverseColumns {
		ox = d.opts.Model.FramebufferWidth - (d.opts.Width + ox)
	}
	if m.reverseRows {
		oy = d.opts.Model.FramebufferHeight - (d.opts.Height + oy)
	}
	if m.swapRowsAndColumns {
		ox, oy = oy, ox
	}
	return ox, oy
}

// setAddressWindow programs the controller's write window to the inclusive
// rectangle (sx,sy)-(ex,ey) in content coordinates and starts a memory
// write.
func (d *Dev) setAddressWindow(sx, sy, ex, ey int) error {
	ox, oy := d.windowOffset()
	c := addressParams(uint16(sx+ox), uint16(ex+ox))
	if err := d.di.Command(setColumnAddress, c[:]...); err != nil {
		return err
	}
	p := addressParams(uint16(sy+oy), uint16(ey+oy))
	if err := d.di.Command(setPageAddress, p[:]...); err != nil {
		return err
	}
	return d.di.Command(writeMemoryStart)
}

// encodeRow encodes colors into the scratch buffer and returns the wire
// bytes.
func (d *Dev) encodeRow(colors []Color) []byte {
	n := len(colors) * d.bpp
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
	}
	b := d.buf[:n]
	for i, c := range colors {
		d.format.encode(c, b[i*d.bpp:])
	}
	return b
}

// SetOrientation changes the content orientation. The display content is
// remapped by the controller; anything already on screen moves accordingly.
func (d *Dev) SetOrientation(o Orientation) error {
	d.madctl = madctl(d.opts.ColorOrder, o, d.opts.RefreshOrder)
	d.opts.Orientation = o
	return d.di.Command(setAddressMode, d.madctl)
}

// Orientation returns the current content orientation.
func (d *Dev) Orientation() Orientation {
	return d.opts.Orientation
}

// SetPixel writes a single pixel. Sparse drawing is much faster through
// DrawPixels, which batches adjacent pixels into shared address windows.
func (d *Dev) SetPixel(x, y int, c Color) error {
	if d.sleeping {
		return ErrSleeping
	}
	if err := d.setAddressWindow(x, y, x, y); err != nil {
		return err
	}
	var px [3]byte
	d.format.encode(c, px[:])
	return d.di.Pixels(px[:d.bpp])
}

// SetPixels writes the inclusive rectangle (sx,sy)-(ex,ey), row by row top
// to bottom. len(colors) must match the rectangle's area exactly.
func (d *Dev) SetPixels(sx, sy, ex, ey int, colors []Color) error {
	if d.sleeping {
		return ErrSleeping
	}
	w, h := ex-sx+1, ey-sy+1
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: empty window (%d,%d)-(%d,%d)", ErrInvalidSize, sx, sy, ex, ey)
	}
	if len(colors) != w*h {
		return fmt.Errorf("mipitft: got %d colors for a %dx%d window", len(colors), w, h)
	}
	if err := d.setAddressWindow(sx, sy, ex, ey); err != nil {
		return err
	}
	return d.di.Pixels(d.encodeRow(colors))
}

// FillSolid fills the inclusive rectangle (sx,sy)-(ex,ey) with one color.
// The rectangle is clipped to the display bounds.
func (d *Dev) FillSolid(sx, sy, ex, ey int, c Color) error {
	if d.sleeping {
		return ErrSleeping
	}
	b := d.Bounds()
	if sx < b.Min.X {
		sx = b.Min.X
	}
	if sy < b.Min.Y {
		sy = b.Min.Y
	}
	if ex > b.Max.X-1 {
		ex = b.Max.X - 1
	}
	if ey > b.Max.Y-1 {
		ey = b.Max.Y - 1
	}
	if sx > ex || sy > ey {
		return nil
	}
	if err := d.setAddressWindow(sx, sy, ex, ey); err != nil {
		return err
	}
	var px [3]byte
	d.format.encode(c, px[:])
	return d.di.RepeatedPixel(px[:d.bpp], (ex-sx+1)*(ey-sy+1))
}

// Fill fills the whole display with one color.
func (d *Dev) Fill(c Color) error {
	b := d.Bounds()
	return d.FillSolid(0, 0, b.Max.X-1, b.Max.Y-1, c)
}

// FillContiguous writes the inclusive rectangle (sx,sy)-(ex,ey) from a
// color stream laid out row by row, top to bottom. The rectangle may hang
// off the display; colors falling outside are consumed from the stream and
// dropped, so the same stream draws the same content at any position.
//
// The stream must yield at least the rectangle's area; running out earlier
// is an error, with the preceding pixels already written.
func (d *Dev) FillContiguous(sx, sy, ex, ey int, next func() (Color, bool)) error {
	if d.sleeping {
		return ErrSleeping
	}
	if sx > ex || sy > ey {
		return fmt.Errorf("%w: empty window (%d,%d)-(%d,%d)", ErrInvalidSize, sx, sy, ex, ey)
	}
	b := d.Bounds()
	csx, csy, cex, cey := sx, sy, ex, ey
	if csx < b.Min.X {
		csx = b.Min.X
	}
	if csy < b.Min.Y {
		csy = b.Min.Y
	}
	if cex > b.Max.X-1 {
		cex = b.Max.X - 1
	}
	if cey > b.Max.Y-1 {
		cey = b.Max.Y - 1
	}
	visible := csx <= cex && csy <= cey
	if visible {
		if err := d.setAddressWindow(csx, csy, cex, cey); err != nil {
			return err
		}
	}
	total := (ex - sx + 1) * (ey - sy + 1)
	taken := 0
	row := make([]Color, 0, cex-csx+1)
	for y := sy; y <= ey; y++ {
		row = row[:0]
		for x := sx; x <= ex; x++ {
			c, ok := next()
			if !ok {
				return fmt.Errorf("mipitft: color stream ended after %d of %d pixels", taken, total)
			}
			taken++
			if visible && y >= csy && y <= cey && x >= csx && x <= cex {
				row = append(row, c)
			}
		}
		if len(row) == 0 {
			continue
		}
		if err := d.di.Pixels(d.encodeRow(row)); err != nil {
			return err
		}
	}
	return nil
}

// Draw implements display.Drawer with draw.Draw semantics: sp is the point
// in src aligned with r.Min. r is clipped against the display bounds and
// the available source region, with sp following the clip.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.sleeping {
		return ErrSleeping
	}
	orig := r.Min
	r = r.Intersect(d.Bounds())
	r = r.Intersect(src.Bounds().Add(orig.Sub(sp)))
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(orig))
	if err := d.setAddressWindow(r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1); err != nil {
		return err
	}
	row := make([]Color, r.Dx())
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			c := src.At(sp.X+x, sp.Y+y)
			row[x] = colorModel.Convert(c).(Color)
		}
		if err := d.di.Pixels(d.encodeRow(row)); err != nil {
			return err
		}
	}
	return nil
}

// SetScrollArea configures hardware vertical scrolling, splitting frame
// memory into a top fixed area, a scrolling middle and a bottom fixed area,
// all in frame memory lines. Fixed areas larger than frame memory clamp to
// an all-fixed configuration.
func (d *Dev) SetScrollArea(topFixedLines, bottomFixedLines int) error {
	if topFixedLines < 0 || bottomFixedLines < 0 {
		return fmt.Errorf("%w: negative scroll area", ErrInvalidSize)
	}
	fh := d.opts.Model.FramebufferHeight
	tfa, bfa := topFixedLines, bottomFixedLines
	if tfa+bfa > fh {
		tfa, bfa = fh, 0
	}
	p := scrollAreaParams(uint16(tfa), uint16(fh-tfa-bfa), uint16(bfa))
	return d.di.Command(setScrollArea, p[:]...)
}

// SetScrollStart sets the frame memory line shown at the top of the scroll
// area. Incrementing it each frame scrolls the content.
func (d *Dev) SetScrollStart(line int) error {
	if line < 0 || line >= d.opts.Model.FramebufferHeight {
		return fmt.Errorf("%w: scroll start %d outside frame memory", ErrInvalidSize, line)
	}
	p := scrollStartParams(uint16(line))
	return d.di.Command(setScrollStart, p[:]...)
}

// Invert enables or disables the controller's color inversion, on top of
// whatever Opts.InvertColors selected at init.
func (d *Dev) Invert(on bool) error {
	if on {
		return d.di.Command(enterInvertMode)
	}
	return d.di.Command(exitInvertMode)
}

// SetTearingEffect configures the controller's tearing effect output line,
// used to synchronize writes with the panel refresh.
func (d *Dev) SetTearingEffect(te TearingEffect) error {
	switch te {
	case TearingOff:
		return d.di.Command(tearingEffectOff)
	case TearingVertical:
		return d.di.Command(tearingEffectOn, 0x00)
	case TearingHorizontalAndVertical:
		return d.di.Command(tearingEffectOn, 0x01)
	default:
		return fmt.Errorf("mipitft: unknown tearing effect mode %d", te)
	}
}

// Sleep puts the display in sleep mode. Frame memory is retained but
// drawing is rejected with ErrSleeping until Wake.
func (d *Dev) Sleep() error {
	if d.sleeping {
		return nil
	}
	if err := d.di.Command(enterSleepMode); err != nil {
		return err
	}
	d.sleeping = true
	// The controller ignores most commands for 120ms after SLPIN.
	d.sleep(120 * time.Millisecond)
	return nil
}

// Wake brings the display out of sleep mode.
func (d *Dev) Wake() error {
	if !d.sleeping {
		return nil
	}
	if err := d.di.Command(exitSleepMode); err != nil {
		return err
	}
	d.sleeping = false
	d.sleep(120 * time.Millisecond)
	return nil
}

// Halt turns the display panel off. It implements conn.Resource; the
// controller keeps its configuration and the panel turns back on at the
// next init.
func (d *Dev) Halt() error {
	return d.di.Command(setDisplayOff)
}

var _ display.Drawer = &Dev{}
