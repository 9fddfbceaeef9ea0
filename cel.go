// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import "image"

// Frame is a position on the sprite timeline, valid in [0, TotalFrames).
type Frame int

// Cel binds an image to one (layer, frame) pair.
//
// A linked cel shares its image, position and opacity with a canonical cel
// of the same layer; every accessor follows the link.
type Cel struct {
	frame    Frame
	image    *Image
	position image.Point
	bounds   RectF
	hasBound bool
	opacity  uint8
	link     *Cel
}

// NewCel creates a free-standing cel, not attached to any sprite. It is used
// for tool feedback ("extra") overlays.
func NewCel(img *Image, pos image.Point) *Cel {
	return &Cel{image: img, position: pos, opacity: 255}
}

// Frame returns the frame the cel is bound to.
func (c *Cel) Frame() Frame { return c.frame }

// Canonical returns the cel holding the data: c itself, or the cel it links to.
func (c *Cel) Canonical() *Cel {
	if c.link != nil {
		return c.link
	}
	return c
}

// IsLinked reports whether c shares another cel's data.
func (c *Cel) IsLinked() bool { return c.link != nil }

// Image returns the cel image.
func (c *Cel) Image() *Image { return c.Canonical().image }

// Position returns the image offset inside the sprite canvas.
func (c *Cel) Position() image.Point { return c.Canonical().position }

// SetPosition moves the cel.
func (c *Cel) SetPosition(p image.Point) { c.Canonical().position = p }

// Opacity returns the cel opacity in [0, 255].
func (c *Cel) Opacity() uint8 { return c.Canonical().opacity }

// SetOpacity sets the cel opacity.
func (c *Cel) SetOpacity(opacity uint8) { c.Canonical().opacity = opacity }

// Bounds returns the integer rectangle covered by the cel image.
func (c *Cel) Bounds() image.Rectangle {
	d := c.Canonical()
	if d.image == nil {
		return image.Rectangle{Min: d.position, Max: d.position}
	}
	return image.Rectangle{Min: d.position, Max: d.position.Add(image.Pt(d.image.Width(), d.image.Height()))}
}

// BoundsF returns the fractional bounds set by SetBoundsF, or Bounds.
// Reference layers may stretch their image over non-integer bounds.
func (c *Cel) BoundsF() RectF {
	d := c.Canonical()
	if d.hasBound {
		return d.bounds
	}
	return RectFFrom(d.Bounds())
}

// SetBoundsF overrides the area covered by the cel image.
func (c *Cel) SetBoundsF(r RectF) {
	d := c.Canonical()
	d.bounds = r
	d.hasBound = true
}
