// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"image"
	"math"
)

// RectF is an axis-aligned rectangle with floating point origin and size.
// It is used for reference-layer cels and for projected bounds, both of
// which may fall between pixels.
type RectF struct {
	X, Y, W, H float64
}

// RectFFrom converts an integer rectangle.
func RectFFrom(r image.Rectangle) RectF {
	return RectF{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}

// Empty reports whether the rectangle has no area.
func (r RectF) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// X2 returns the right edge.
func (r RectF) X2() float64 { return r.X + r.W }

// Y2 returns the bottom edge.
func (r RectF) Y2() float64 { return r.Y + r.H }

// Intersect returns the largest rectangle contained by both r and s. The
// result is the zero RectF when they do not overlap.
func (r RectF) Intersect(s RectF) RectF {
	x1 := math.Max(r.X, s.X)
	y1 := math.Max(r.Y, s.Y)
	x2 := math.Min(r.X2(), s.X2())
	y2 := math.Min(r.Y2(), s.Y2())
	if x2 <= x1 || y2 <= y1 {
		return RectF{}
	}
	return RectF{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Bounds returns the smallest integer rectangle containing r.
func (r RectF) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X2())), int(math.Ceil(r.Y2())),
	)
}
