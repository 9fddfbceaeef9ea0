// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/sprite"
)

// Zoom is a rational scale factor Num/Den. The zero value is 1:1.
type Zoom struct {
	Num, Den int
}

func (z Zoom) norm() (num, den int) {
	if z.Num <= 0 || z.Den <= 0 {
		return 1, 1
	}
	return z.Num, z.Den
}

// Scale returns the zoom as a float.
func (z Zoom) Scale() float64 {
	n, d := z.norm()
	return float64(n) / float64(d)
}

// Apply scales a length, rounding down.
func (z Zoom) Apply(v int) int {
	n, d := z.norm()
	return floorDiv(v*n, d)
}

// PixelRatio is the pixel aspect ratio W:H. The zero value is 1:1.
type PixelRatio struct {
	W, H int
}

func (r PixelRatio) norm() (w, h int) {
	if r.W <= 0 || r.H <= 0 {
		return 1, 1
	}
	return r.W, r.H
}

// Projection maps sprite coordinates to output coordinates. Each axis is
// scaled by the zoom times that axis' pixel ratio component. The zero value
// is the identity.
type Projection struct {
	Zoom  Zoom
	Ratio PixelRatio
}

// NewProjection creates a projection from a zoom and pixel ratio.
func NewProjection(zoom Zoom, ratio PixelRatio) Projection {
	return Projection{Zoom: zoom, Ratio: ratio}
}

// scaleX returns the X scale as the rational num/den.
func (p Projection) scaleX() (num, den int) {
	n, d := p.Zoom.norm()
	w, _ := p.Ratio.norm()
	return n * w, d
}

func (p Projection) scaleY() (num, den int) {
	n, d := p.Zoom.norm()
	_, h := p.Ratio.norm()
	return n * h, d
}

// ScaleX returns how many output pixels one sprite pixel covers horizontally.
func (p Projection) ScaleX() float64 {
	n, d := p.scaleX()
	return float64(n) / float64(d)
}

// ScaleY returns how many output pixels one sprite pixel covers vertically.
func (p Projection) ScaleY() float64 {
	n, d := p.scaleY()
	return float64(n) / float64(d)
}

// ApplyX projects a sprite X coordinate, rounding down.
func (p Projection) ApplyX(x int) int {
	n, d := p.scaleX()
	return floorDiv(x*n, d)
}

// ApplyY projects a sprite Y coordinate, rounding down.
func (p Projection) ApplyY(y int) int {
	n, d := p.scaleY()
	return floorDiv(y*n, d)
}

// RemoveX maps an output X coordinate back to sprite space, rounding up.
// RemoveX(ApplyX(x)) == x whenever ScaleX >= 1.
func (p Projection) RemoveX(x int) int {
	n, d := p.scaleX()
	return ceilDiv(x*d, n)
}

// RemoveY maps an output Y coordinate back to sprite space, rounding up.
func (p Projection) RemoveY(y int) int {
	n, d := p.scaleY()
	return ceilDiv(y*d, n)
}

// Apply projects a rectangle edge by edge.
func (p Projection) Apply(r image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(p.ApplyX(r.Min.X), p.ApplyY(r.Min.Y)),
		Max: image.Pt(p.ApplyX(r.Max.X), p.ApplyY(r.Max.Y)),
	}
}

// Remove is the inverse of Apply.
func (p Projection) Remove(r image.Rectangle) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(p.RemoveX(r.Min.X), p.RemoveY(r.Min.Y)),
		Max: image.Pt(p.RemoveX(r.Max.X), p.RemoveY(r.Max.Y)),
	}
}

// ApplyF projects a fractional rectangle without rounding.
func (p Projection) ApplyF(r sprite.RectF) sprite.RectF {
	sx, sy := p.ScaleX(), p.ScaleY()
	return sprite.RectF{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

// RemoveF is the inverse of ApplyF.
func (p Projection) RemoveF(r sprite.RectF) sprite.RectF {
	sx, sy := p.ScaleX(), p.ScaleY()
	return sprite.RectF{X: r.X / sx, Y: r.Y / sy, W: r.W / sx, H: r.H / sy}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
