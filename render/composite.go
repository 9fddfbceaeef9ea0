// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/internal/blend"
)

// Params carries the per-call inputs of a CompositeFunc.
type Params struct {
	// Palette resolves indexed pixels. It may be nil for RGB and grayscale
	// images.
	Palette *sprite.Palette

	// Opacity scales the source alpha.
	Opacity uint8

	// ScaleX and ScaleY are the number of destination pixels one source
	// pixel covers. Zero means 1.
	ScaleX, ScaleY float64

	// Tint is the colour used by BlendTint.
	Tint color.NRGBA

	// MaskIndex is the transparent palette index, or -1 for none.
	MaskIndex int
}

func (p *Params) scale() (sx, sy float64) {
	sx, sy = p.ScaleX, p.ScaleY
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return sx, sy
}

// CompositeFunc draws the pixels of src selected by area onto dst.
//
// Each destination pixel (area.Dst.X+i, area.Dst.Y+j) samples the source
// pixel at floor((area.SrcX+i)/ScaleX), floor((area.SrcY+j)/ScaleY).
// Destination pixels that fall outside dst, or that sample outside src,
// are left untouched. Because sampling only depends on absolute offsets,
// splitting an area into pieces gives the same result as one call.
type CompositeFunc func(dst, src *sprite.Image, area ClipF, p Params)

type compositeKey struct {
	dst, src sprite.PixelFormat
	mode     sprite.BlendMode
}

var composites map[compositeKey]CompositeFunc

func init() {
	composites = make(map[compositeKey]CompositeFunc)
	for _, d := range sprite.Formats() {
		for _, s := range sprite.Formats() {
			for _, m := range sprite.AllBlendModes() {
				composites[compositeKey{d, s, m}] = newComposite(d, s, m)
			}
		}
	}
}

// Lookup returns the composite routine for drawing srcFormat pixels onto
// dstFormat pixels with mode. BlendUnspecified and BlendSrc both resolve to
// an opaque replace. Lookup panics for combinations that have no routine.
func Lookup(dstFormat, srcFormat sprite.PixelFormat, mode sprite.BlendMode) CompositeFunc {
	f, ok := composites[compositeKey{dstFormat, srcFormat, mode}]
	if !ok {
		panic(fmt.Sprintf("render: no composite routine for %v <- %v with mode %v", dstFormat, srcFormat, mode))
	}
	return f
}

// RenderImage draws src onto dst at (x, y) without scaling. Index 0 is
// the transparent index of indexed sources.
func RenderImage(dst, src *sprite.Image, pal *sprite.Palette, x, y int, opacity uint8, mode sprite.BlendMode) {
	f := Lookup(dst.Format(), src.Format(), mode)
	f(dst, src, ClipF{Dst: image.Pt(x, y), W: src.Width(), H: src.Height()}, Params{
		Palette: pal,
		Opacity: opacity,
		ScaleX:  1,
		ScaleY:  1,
	})
}

func isReplace(mode sprite.BlendMode) bool {
	return mode == sprite.BlendSrc || mode == sprite.BlendUnspecified
}

func newComposite(dstFormat, srcFormat sprite.PixelFormat, mode sprite.BlendMode) CompositeFunc {
	replace := isReplace(mode)
	base := blend.Get(mode)
	dbpp, sbpp := dstFormat.BytesPerPixel(), srcFormat.BytesPerPixel()

	return func(dst, src *sprite.Image, area ClipF, p Params) {
		if area.Empty() {
			return
		}
		sx, sy := p.scale()
		if replace && dstFormat == srcFormat && sx == 1 && sy == 1 && p.Opacity == 255 && area.integral() {
			copyRows(dst, src, area)
			return
		}

		f := base
		if mode == sprite.BlendTint {
			f = blend.Tint(p.Tint)
		}
		op := pixelOp(dstFormat, srcFormat, replace, f)

		// Source column for every destination column; -1 skips it.
		cols := make([]int, area.W)
		for i := range cols {
			cols[i] = -1
			dx := area.Dst.X + i
			if dx < 0 || dx >= dst.Width() {
				continue
			}
			if x := int(math.Floor((area.SrcX + float64(i)) / sx)); x >= 0 && x < src.Width() {
				cols[i] = x
			}
		}

		for j := range area.H {
			dy := area.Dst.Y + j
			if dy < 0 || dy >= dst.Height() {
				continue
			}
			y := int(math.Floor((area.SrcY + float64(j)) / sy))
			if y < 0 || y >= src.Height() {
				continue
			}
			drow, srow := dst.RowBytes(dy), src.RowBytes(y)
			for i, x := range cols {
				if x < 0 {
					continue
				}
				d := (area.Dst.X + i) * dbpp
				s := x * sbpp
				op(drow[d:d+dbpp], srow[s:s+sbpp], &p)
			}
		}
	}
}

// copyRows copies whole row spans between images of the same format.
func copyRows(dst, src *sprite.Image, area ClipF) {
	bpp := dst.Format().BytesPerPixel()
	off := area.Dst.Sub(image.Pt(int(area.SrcX), int(area.SrcY)))
	r := image.Rect(area.Dst.X, area.Dst.Y, area.Dst.X+area.W, area.Dst.Y+area.H)
	r = r.Intersect(dst.Bounds()).Intersect(src.Bounds().Add(off))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := dst.RowBytes(y)[r.Min.X*bpp : r.Max.X*bpp]
		s := src.RowBytes(y - off.Y)[(r.Min.X-off.X)*bpp : (r.Max.X-off.X)*bpp]
		copy(d, s)
	}
}

// readColor decodes one source pixel. ok is false for the transparent index.
func readColor(format sprite.PixelFormat, s []byte, p *Params) (c color.NRGBA, ok bool) {
	switch format {
	case sprite.FormatRGB:
		return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}, true
	case sprite.FormatGrayscale:
		return color.NRGBA{R: s[0], G: s[0], B: s[0], A: s[1]}, true
	default:
		if int(s[0]) == p.MaskIndex {
			return sprite.Transparent, false
		}
		return p.Palette.Entry(int(s[0])), true
	}
}

// pixelOp builds the per-pixel routine for one (dst, src) format pair.
func pixelOp(dstFormat, srcFormat sprite.PixelFormat, replace bool, f blend.Func) func(d, s []byte, p *Params) {
	switch dstFormat {
	case sprite.FormatRGB:
		return func(d, s []byte, p *Params) {
			c, ok := readColor(srcFormat, s, p)
			if !replace {
				if !ok {
					return
				}
				c = f(color.NRGBA{R: d[0], G: d[1], B: d[2], A: d[3]}, c, p.Opacity)
			}
			d[0], d[1], d[2], d[3] = c.R, c.G, c.B, c.A
		}

	case sprite.FormatGrayscale:
		if replace {
			return func(d, s []byte, p *Params) {
				c, _ := readColor(srcFormat, s, p)
				d[0], d[1] = sprite.GrayOf(c)
			}
		}
		g := blend.Gray(f)
		return func(d, s []byte, p *Params) {
			if c, ok := readColor(srcFormat, s, p); ok {
				d[0], d[1] = g(d[0], d[1], c, p.Opacity)
			}
		}

	default:
		if srcFormat == sprite.FormatIndexed {
			return func(d, s []byte, p *Params) {
				if replace || int(s[0]) != p.MaskIndex {
					d[0] = s[0]
				}
			}
		}
		return func(d, s []byte, p *Params) {
			c, _ := readColor(srcFormat, s, p)
			if !replace {
				if c.A == 0 {
					return
				}
				b := sprite.Transparent
				if int(d[0]) != p.MaskIndex {
					b = p.Palette.Entry(int(d[0]))
				}
				c = f(b, c, p.Opacity)
			}
			d[0] = p.Palette.FindBestFit(c, p.MaskIndex)
		}
	}
}
