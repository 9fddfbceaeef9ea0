// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/internal/blend"
)

// RenderBackground draws a checkerboard over area. The tile phase depends
// on projected sprite coordinates only, so adjacent clips line up.
// Indexed destinations get the nearest palette entries of the two colours.
func RenderBackground(dst *sprite.Image, area Clip, bg Background, proj Projection, pal *sprite.Palette) {
	tw, th := bg.CheckedSize.X, bg.CheckedSize.Y
	if bg.Zoom {
		tw, th = proj.ApplyX(tw), proj.ApplyY(th)
	}
	tw, th = max(tw, 1), max(th, 1)

	r := area.DstBounds().Intersect(dst.Bounds())
	idx1 := pal.FindBestFit(bg.Color1, -1)
	idx2 := pal.FindBestFit(bg.Color2, -1)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		v := floorDiv(area.Src.Y+y-area.Dst.Y, th)
		for x := r.Min.X; x < r.Max.X; x++ {
			u := floorDiv(area.Src.X+x-area.Dst.X, tw)
			second := (u+v)&1 != 0
			if dst.Format() == sprite.FormatIndexed {
				i := idx1
				if second {
					i = idx2
				}
				dst.SetIndex(x, y, i)
				continue
			}
			c := bg.Color1
			if second {
				c = bg.Color2
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// fillBackground runs the background step of RenderSprite.
func fillBackground(dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, area Clip, req *Request) {
	pal := s.Palette(frame)

	// The colour behind every layer: transparent for RGB and grayscale
	// sprites, the transparent palette entry for indexed ones.
	bgColor := sprite.Transparent
	bgIndex := s.TransparentIndex()
	bgLayer := s.BackgroundLayer()
	if s.Format() == sprite.FormatIndexed && bgLayer != nil && bgLayer.IsVisible() {
		bgColor = pal.Entry(int(bgIndex))
	}

	r := area.DstBounds().Intersect(dst.Bounds())
	switch req.bg.Type {
	case BgChecked:
		RenderBackground(dst, area, req.bg, req.proj, pal)
		if bgColor.A > 0 && dst.Format() != sprite.FormatIndexed {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					dst.SetRGBA(x, y, blend.Normal(dst.RGBA(x, y), bgColor, 255))
				}
			}
		}
	case BgTransparent:
		if dst.Format() == sprite.FormatIndexed {
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					dst.SetIndex(x, y, bgIndex)
				}
			}
			return
		}
		dst.FillRect(r, bgColor)
	}
}
