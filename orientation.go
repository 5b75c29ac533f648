// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipitft

// Rotation is a clockwise rotation of the display content in 90° steps.
type Rotation uint8

// Valid rotations.
const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
)

// Degrees returns the rotation angle in degrees.
func (r Rotation) Degrees() int {
	return int(r&3) * 90
}

// Rotate composes two rotations.
func (r Rotation) Rotate(other Rotation) Rotation {
	return (r + other) & 3
}

// IsVertical returns true for the 90° and 270° rotations, which swap the
// display axes.
func (r Rotation) IsVertical() bool {
	return r == Deg90 || r == Deg270
}

func (r Rotation) String() string {
	switch r & 3 {
	case Deg90:
		return "90°"
	case Deg180:
		return "180°"
	case Deg270:
		return "270°"
	default:
		return "0°"
	}
}

// Orientation describes how display content is oriented relative to the
// default orientation of the panel.
//
// Orientations are built by chaining transformations:
//
//	o := mipitft.Orientation{}.Rotate(mipitft.Deg90).FlipHorizontal()
//
// The order of operations matters; rotating then flipping is generally not
// the same orientation as flipping then rotating.
type Orientation struct {
	Rotation Rotation
	Mirrored bool
}

// Rotate returns the orientation rotated clockwise by r.
func (o Orientation) Rotate(r Rotation) Orientation {
	return Orientation{Rotation: o.Rotation.Rotate(r), Mirrored: o.Mirrored}
}

// flipHorizontalAbsolute mirrors across the panel's vertical axis,
// regardless of the current rotation.
func (o Orientation) flipHorizontalAbsolute() Orientation {
	return Orientation{Rotation: o.Rotation, Mirrored: !o.Mirrored}
}

// flipVerticalAbsolute mirrors across the panel's horizontal axis,
// regardless of the current rotation.
func (o Orientation) flipVerticalAbsolute() Orientation {
	return Orientation{Rotation: o.Rotation.Rotate(Deg180), Mirrored: !o.Mirrored}
}

// FlipHorizontal returns the orientation flipped across the content's
// vertical axis. On a vertical rotation the content axes are swapped
// relative to the panel, so the flip happens across the other panel axis.
func (o Orientation) FlipHorizontal() Orientation {
	if o.Rotation.IsVertical() {
		return o.flipVerticalAbsolute()
	}
	return o.flipHorizontalAbsolute()
}

// FlipVertical returns the orientation flipped across the content's
// horizontal axis.
func (o Orientation) FlipVertical() Orientation {
	if o.Rotation.IsVertical() {
		return o.flipHorizontalAbsolute()
	}
	return o.flipVerticalAbsolute()
}

func (o Orientation) String() string {
	if o.Mirrored {
		return o.Rotation.String() + " mirrored"
	}
	return o.Rotation.String()
}

// memoryMapping describes how a logical framebuffer maps onto the physical
// rows and columns of the controller's frame memory. The panel's native
// scan order is fixed; the mapping is what the MADCTL register and the
// address window arithmetic have to agree on.
type memoryMapping struct {
	swapRowsAndColumns bool
	reverseRows        bool
	reverseColumns     bool
}

// memoryMapping resolves the orientation into physical frame memory terms.
func (o Orientation) memoryMapping() memoryMapping {
	var reverseRows, reverseColumns bool
	switch o.Rotation & 3 {
	case Deg0:
	case Deg90:
		reverseColumns = true
	case Deg180:
		reverseRows = true
		reverseColumns = true
	case Deg270:
		reverseRows = true
	}
	return memoryMapping{
		swapRowsAndColumns: o.Rotation.IsVertical(),
		reverseRows:        reverseRows,
		reverseColumns:     reverseColumns != o.Mirrored,
	}
}
