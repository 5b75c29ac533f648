// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import "encoding/binary"

// MIPI Display Command Set instructions used by this driver. Vendor
// specific registers used during init are kept as raw bytes in the model
// scripts.
const (
	nop              byte = 0x00
	softReset        byte = 0x01
	enterSleepMode   byte = 0x10
	exitSleepMode    byte = 0x11
	enterNormalMode  byte = 0x13
	exitInvertMode   byte = 0x20
	enterInvertMode  byte = 0x21
	setDisplayOff    byte = 0x28
	setDisplayOn     byte = 0x29
	setColumnAddress byte = 0x2A
	setPageAddress   byte = 0x2B
	writeMemoryStart byte = 0x2C
	setScrollArea    byte = 0x33
	tearingEffectOff byte = 0x34
	tearingEffectOn  byte = 0x35
	setAddressMode   byte = 0x36
	setScrollStart   byte = 0x37
	setPixelFormat   byte = 0x3A
)

// MADCTL (0x36) bit assignments.
const (
	madctlMY  byte = 1 << 7 // page address order: reverse rows
	madctlMX  byte = 1 << 6 // column address order: reverse columns
	madctlMV  byte = 1 << 5 // page/column order: swap rows and columns
	madctlML  byte = 1 << 4 // line address order: vertical refresh bottom to top
	madctlBGR byte = 1 << 3 // BGR subpixel order
	madctlMH  byte = 1 << 2 // data latch order: horizontal refresh right to left
)

// madctl encodes the address mode control byte. It is sent once at init
// and again on every orientation change.
func madctl(co ColorOrder, o Orientation, ro RefreshOrder) byte {
	var b byte
	m := o.memoryMapping()
	if m.reverseRows {
		b |= madctlMY
	}
	if m.reverseColumns {
		b |= madctlMX
	}
	if m.swapRowsAndColumns {
		b |= madctlMV
	}
	if co == BGR {
		b |= madctlBGR
	}
	if ro.BottomToTop {
		b |= madctlML
	}
	if ro.RightToLeft {
		b |= madctlMH
	}
	return b
}

// addressParams builds the 4 parameter bytes shared by the column (0x2A)
// and page (0x2B) address set instructions. Bounds are inclusive.
func addressParams(start, end uint16) [4]byte {
	var p [4]byte
	binary.BigEndian.PutUint16(p[0:2], start)
	binary.BigEndian.PutUint16(p[2:4], end)
	return p
}

// scrollAreaParams builds the VSCRDEF (0x33) parameters: top fixed area,
// vertical scroll area and bottom fixed area, in frame memory lines.
func scrollAreaParams(tfa, vsa, bfa uint16) [6]byte {
	var p [6]byte
	binary.BigEndian.PutUint16(p[0:2], tfa)
	binary.BigEndian.PutUint16(p[2:4], vsa)
	binary.BigEndian.PutUint16(p[4:6], bfa)
	return p
}

// scrollStartParams builds the VSCSAD (0x37) parameter: the frame memory
// line displayed at the top of the scroll area.
func scrollStartParams(line uint16) [2]byte {
	var p [2]byte
	binary.BigEndian.PutUint16(p[0:2], line)
	return p
}
