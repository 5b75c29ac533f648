// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import (
	"encoding/binary"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Interface is the physical link to the display controller. SPI and
// parallel GPIO implementations are provided; any other transport that can
// distinguish command from data bytes can implement it.
type Interface interface {
	// Command sends a DCS instruction followed by its parameter bytes.
	Command(cmd byte, params ...byte) error
	// Pixels sends encoded pixel data. A WriteMemoryStart (0x2C) command
	// must have been sent first.
	Pixels(data []byte) error
	// RepeatedPixel sends one encoded pixel count times. It must produce
	// the same controller state as sending the pixel count times through
	// Pixels.
	RepeatedPixel(pixel []byte, count int) error
}

// spiBufLen is the scratch size used to expand repeated pixels into bus
// writes. One 240x320 RGB565 screen fill takes 38 transactions at this
// size.
const spiBufLen = 4096

// spiInterface drives a controller in 4-wire SPI mode: an 8 bit serial
// link plus a D/C pin selecting between command and data bytes.
type spiInterface struct {
	c   conn.Conn
	dc  gpio.PinOut
	buf [spiBufLen]byte
}

func (s *spiInterface) Command(cmd byte, params ...byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	s.buf[0] = cmd
	if err := s.c.Tx(s.buf[:1], nil); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	return s.c.Tx(params, nil)
}

func (s *spiInterface) Pixels(data []byte) error {
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) > 0 {
		n := len(data)
		if n > spiBufLen {
			n = spiBufLen
		}
		if err := s.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (s *spiInterface) RepeatedPixel(pixel []byte, count int) error {
	if count <= 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	n := len(pixel)
	fit := spiBufLen / n
	if fit > count {
		fit = count
	}
	for i := 0; i < fit; i++ {
		copy(s.buf[i*n:], pixel)
	}
	for count > 0 {
		c := fit
		if c > count {
			c = count
		}
		if err := s.c.Tx(s.buf[:c*n], nil); err != nil {
			return err
		}
		count -= c
	}
	return nil
}

// gpioBus is a set of data pins forming a parallel bus, least significant
// bit first. The last driven value is cached; consecutive identical words
// only cost the WR strobe and repainting a word only touches the pins
// whose bit changed.
type gpioBus struct {
	pins     []gpio.PinOut
	last     uint16
	haveLast bool
}

func (b *gpioBus) set(v uint16) error {
	if b.haveLast && v == b.last {
		return nil
	}
	changed := ^uint16(0)
	if b.haveLast {
		changed = v ^ b.last
	}
	// Invalidate until every pin is driven, in case one fails halfway.
	b.haveLast = false
	for i, p := range b.pins {
		mask := uint16(1) << uint(i)
		if changed&mask == 0 {
			continue
		}
		l := gpio.Low
		if v&mask != 0 {
			l = gpio.High
		}
		if err := p.Out(l); err != nil {
			return err
		}
	}
	b.last = v
	b.haveLast = true
	return nil
}

// parallelInterface drives a controller over an "8080" style write-only
// parallel bus: 8 or 16 data pins, a D/C pin and a WR strobe sampled on
// the rising edge.
type parallelInterface struct {
	bus    gpioBus
	dc, wr gpio.PinOut
	wide   bool // 16 bit bus
}

func (p *parallelInterface) writeWord(w uint16) error {
	if err := p.wr.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.bus.set(w); err != nil {
		return err
	}
	return p.wr.Out(gpio.High)
}

// strobe latches the current bus value again without re-driving the data
// pins.
func (p *parallelInterface) strobe() error {
	if err := p.wr.Out(gpio.Low); err != nil {
		return err
	}
	return p.wr.Out(gpio.High)
}

func (p *parallelInterface) Command(cmd byte, params ...byte) error {
	if err := p.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.writeWord(uint16(cmd)); err != nil {
		return err
	}
	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	for _, b := range params {
		if err := p.writeWord(uint16(b)); err != nil {
			return err
		}
	}
	return nil
}

func (p *parallelInterface) Pixels(data []byte) error {
	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	if p.wide {
		// The bus carries one 16 bit word per strobe; pair up the big
		// endian pixel bytes.
		for len(data) >= 2 {
			if err := p.writeWord(binary.BigEndian.Uint16(data)); err != nil {
				return err
			}
			data = data[2:]
		}
		return nil
	}
	for _, b := range data {
		if err := p.writeWord(uint16(b)); err != nil {
			return err
		}
	}
	return nil
}

func (p *parallelInterface) RepeatedPixel(pixel []byte, count int) error {
	if count <= 0 {
		return nil
	}
	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	if p.wide && len(pixel) == 2 {
		if err := p.writeWord(binary.BigEndian.Uint16(pixel)); err != nil {
			return err
		}
		for i := 1; i < count; i++ {
			if err := p.strobe(); err != nil {
				return err
			}
		}
		return nil
	}
	// On an 8 bit bus a pixel whose bytes are all equal reduces to a
	// single bus value and len(pixel)*count strobes.
	uniform := true
	for _, b := range pixel[1:] {
		if b != pixel[0] {
			uniform = false
			break
		}
	}
	if uniform {
		if err := p.writeWord(uint16(pixel[0])); err != nil {
			return err
		}
		for i := 1; i < count*len(pixel); i++ {
			if err := p.strobe(); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < count; i++ {
		if err := p.Pixels(pixel); err != nil {
			return err
		}
	}
	return nil
}
