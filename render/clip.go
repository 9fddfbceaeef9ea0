// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"math"
)

// Clip is the region of a render call: a W×H rectangle whose top-left
// corner is Dst in the destination image and Src in projected sprite space
// (sprite coordinates after the projection is applied).
type Clip struct {
	Dst  image.Point
	Src  image.Point
	W, H int
}

// NewClip creates a clip drawing the projected rectangle src at dst.
func NewClip(dst image.Point, src image.Rectangle) Clip {
	return Clip{Dst: dst, Src: src.Min, W: src.Dx(), H: src.Dy()}
}

// FullClip returns the clip covering a whole projected canvas of w×h
// sprite pixels, drawn at the destination origin.
func FullClip(w, h int, proj Projection) Clip {
	return NewClip(image.Point{}, proj.Apply(image.Rect(0, 0, w, h)))
}

// Empty reports whether the clip covers no pixels.
func (c Clip) Empty() bool { return c.W <= 0 || c.H <= 0 }

// SrcBounds returns the clip rectangle in projected sprite space.
func (c Clip) SrcBounds() image.Rectangle {
	return image.Rect(c.Src.X, c.Src.Y, c.Src.X+c.W, c.Src.Y+c.H)
}

// DstBounds returns the clip rectangle in destination space.
func (c Clip) DstBounds() image.Rectangle {
	return image.Rect(c.Dst.X, c.Dst.Y, c.Dst.X+c.W, c.Dst.Y+c.H)
}

// Sub returns the clip restricted to r, a rectangle in projected sprite
// space. The destination origin moves with the source origin.
func (c Clip) Sub(r image.Rectangle) Clip {
	r = r.Intersect(c.SrcBounds())
	if r.Empty() {
		return Clip{Dst: c.Dst, Src: c.Src}
	}
	return Clip{
		Dst: c.Dst.Add(r.Min.Sub(c.Src)),
		Src: r.Min,
		W:   r.Dx(),
		H:   r.Dy(),
	}
}

// ClipF is the region handed to a composite routine. Dst, W and H select
// destination pixels; SrcX and SrcY give the offset of the first of them
// inside the scaled source image, which may be fractional when a cel has
// fractional bounds.
type ClipF struct {
	Dst        image.Point
	SrcX, SrcY float64
	W, H       int
}

// Empty reports whether the clip covers no pixels.
func (c ClipF) Empty() bool { return c.W <= 0 || c.H <= 0 }

func (c ClipF) integral() bool {
	return c.SrcX == math.Trunc(c.SrcX) && c.SrcY == math.Trunc(c.SrcY)
}

// subtract returns r minus hole as at most four disjoint rectangles.
func subtract(r, hole image.Rectangle) []image.Rectangle {
	hole = hole.Intersect(r)
	if hole.Empty() {
		if r.Empty() {
			return nil
		}
		return []image.Rectangle{r}
	}
	var out []image.Rectangle
	add := func(x0, y0, x1, y1 int) {
		if x1 > x0 && y1 > y0 {
			out = append(out, image.Rect(x0, y0, x1, y1))
		}
	}
	add(r.Min.X, r.Min.Y, r.Max.X, hole.Min.Y)
	add(r.Min.X, hole.Min.Y, hole.Min.X, hole.Max.Y)
	add(hole.Max.X, hole.Min.Y, r.Max.X, hole.Max.Y)
	add(r.Min.X, hole.Max.Y, r.Max.X, r.Max.Y)
	return out
}
