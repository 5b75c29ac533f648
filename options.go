// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

import (
	"errors"
	"fmt"
)

// ColorOrder is the subpixel order of the panel.
type ColorOrder uint8

// Possible subpixel orders. Panels wired backwards need BGR or red and
// blue swap.
const (
	RGB ColorOrder = iota
	BGR
)

// RefreshOrder sets the direction the controller scans the panel in.
// The default is top to bottom, left to right.
type RefreshOrder struct {
	BottomToTop bool
	RightToLeft bool
}

// TearingEffect configures the controller's tearing effect output line.
type TearingEffect uint8

// Tearing effect output modes.
const (
	// TearingOff disables the output.
	TearingOff TearingEffect = iota
	// TearingVertical outputs vertical blanking information.
	TearingVertical
	// TearingHorizontalAndVertical outputs horizontal and vertical
	// blanking information.
	TearingHorizontalAndVertical
)

// Errors returned during configuration, before any bus traffic happens.
var (
	// ErrInvalidSize is returned when the configured display size is zero
	// or negative.
	ErrInvalidSize = errors.New("mipitft: invalid display size")
	// ErrInvalidOffset is returned when the display offset plus the
	// display size does not fit in the controller's frame memory.
	ErrInvalidOffset = errors.New("mipitft: display offset and size exceed frame memory")
	// ErrInvalidFormat is returned when the pixel format is not supported
	// by the chosen model or interface.
	ErrInvalidFormat = errors.New("mipitft: unsupported pixel format")
	// ErrSleeping is returned by drawing operations while the display is
	// in sleep mode.
	ErrSleeping = errors.New("mipitft: display is sleeping")
)

// Opts is the display configuration. Model is mandatory; the zero value
// of every other field selects the model default.
type Opts struct {
	// Model describes the controller chip and panel.
	Model Model

	// Width and Height override the model's display size, for panels that
	// expose only part of the controller's frame memory.
	Width  int
	Height int
	// OffsetX and OffsetY position the visible area inside frame memory.
	// Clipped panels such as some 135x240 ST7789 boards need a non zero
	// offset.
	OffsetX int
	OffsetY int

	// ColorOrder is the panel's subpixel order.
	ColorOrder ColorOrder
	// Orientation is the initial content orientation. It can be changed
	// later with SetOrientation.
	Orientation Orientation
	// InvertColors enables the controller's color inversion. Many IPS
	// panels need it to show colors normally.
	InvertColors bool
	// RefreshOrder is the panel scan direction.
	RefreshOrder RefreshOrder
	// PixelFormat overrides the model's default interface pixel format.
	PixelFormat PixelFormat
}

// validate resolves defaults and checks the configuration against the
// model's frame memory. It runs before any hardware access so a bad
// configuration never leaves the controller half initialized.
func (o *Opts) validate() (Opts, error) {
	opts := *o
	m := &opts.Model
	if m.Name == "" {
		return opts, errors.New("mipitft: Opts.Model is required")
	}
	if opts.Width == 0 && opts.Height == 0 {
		opts.Width = m.Width
		opts.Height = m.Height
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return opts, ErrInvalidSize
	}
	if opts.PixelFormat == 0 {
		opts.PixelFormat = m.PixelFormat
	}
	if opts.PixelFormat.BitsPerPixel() == 0 {
		return opts, ErrInvalidFormat
	}
	if opts.OffsetX < 0 || opts.OffsetY < 0 ||
		opts.OffsetX+opts.Width > m.FramebufferWidth ||
		opts.OffsetY+opts.Height > m.FramebufferHeight {
		return opts, fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d frame memory",
			ErrInvalidOffset, opts.Width, opts.Height, opts.OffsetX, opts.OffsetY,
			m.FramebufferWidth, m.FramebufferHeight)
	}
	return opts, nil
}
