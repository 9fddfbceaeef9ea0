// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/sprite"
)

// Renderer is a stateful front end to RenderSprite for editors that change
// one setting at a time. Every setter affects the next render call only.
//
// Renderer is NOT thread-safe. Take a snapshot with Request to render from
// several goroutines.
//
// Example:
//
//	r := render.NewRenderer()
//	r.SetBgType(render.BgChecked)
//	r.SetProjection(render.NewProjection(render.Zoom{Num: 4, Den: 1}, render.PixelRatio{}))
//	r.RenderSprite(dst, s, 0, render.FullClip(s.Width(), s.Height(), r.Request().Projection()))
type Renderer struct {
	req Request
}

// NewRenderer creates a renderer with the default background and no
// overlays. The background type starts as BgNone.
func NewRenderer() *Renderer {
	bg := DefaultBackground()
	bg.Type = BgNone
	return &Renderer{req: NewRequest(WithBackground(bg))}
}

// Request returns a snapshot of the current settings.
func (r *Renderer) Request() Request { return r.req }

// SetRefLayersVisibility forces reference layers on or off.
func (r *Renderer) SetRefLayersVisibility(show bool) { r.req.refLayers = show }

// SetNonactiveLayersOpacity sets the opacity multiplier of layers outside
// the selected subtree.
func (r *Renderer) SetNonactiveLayersOpacity(opacity uint8) { r.req.nonactiveOpacity = opacity }

// SetProjection sets the zoom and pixel ratio.
func (r *Renderer) SetProjection(p Projection) { r.req.proj = p }

// SetBgType sets the background type.
func (r *Renderer) SetBgType(t BgType) { r.req.bg.Type = t }

// SetBgZoom makes checker tiles scale with the projection.
func (r *Renderer) SetBgZoom(state bool) { r.req.bg.Zoom = state }

// SetBgColor1 sets the first checker colour.
func (r *Renderer) SetBgColor1(c color.NRGBA) { r.req.bg.Color1 = c }

// SetBgColor2 sets the second checker colour.
func (r *Renderer) SetBgColor2(c color.NRGBA) { r.req.bg.Color2 = c }

// SetBgCheckedSize sets the checker tile size.
func (r *Renderer) SetBgCheckedSize(size image.Point) { r.req.bg.CheckedSize = size }

// SetSelectedLayer sets the layer that keeps full opacity. sprite.NoLayer
// clears the selection.
func (r *Renderer) SetSelectedLayer(id sprite.LayerID) { r.req.selected = id }

// SetPreviewImage substitutes img for the cel of (layer, frame). A nil img
// removes the preview.
func (r *Renderer) SetPreviewImage(layer sprite.LayerID, frame sprite.Frame, img *sprite.Image, pos image.Point, mode sprite.BlendMode) {
	WithPreview(Preview{Layer: layer, Frame: frame, Image: img, Position: pos, Mode: mode})(&r.req)
}

// RemovePreviewImage removes the preview image.
func (r *Renderer) RemovePreviewImage() { r.req.preview = nil }

// SetExtraImage sets the extra overlay. img may be nil to use the cel's own
// image.
func (r *Renderer) SetExtraImage(typ ExtraType, cel *sprite.Cel, img *sprite.Image, mode sprite.BlendMode, layer sprite.LayerID, frame sprite.Frame) {
	WithExtra(Extra{Type: typ, Cel: cel, Image: img, Mode: mode, Layer: layer, Frame: frame})(&r.req)
}

// RemoveExtraImage removes the extra overlay.
func (r *Renderer) RemoveExtraImage() { r.req.extra = nil }

// SetOnionskin enables ghost frames.
func (r *Renderer) SetOnionskin(o OnionskinOptions) { r.req.onion = o }

// DisableOnionskin turns ghost frames off.
func (r *Renderer) DisableOnionskin() { r.req.onion = OnionskinOptions{} }

// RenderSprite renders one frame with the current settings.
func (r *Renderer) RenderSprite(dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, area Clip) {
	RenderSprite(dst, s, frame, area, r.req)
}

// RenderLayer renders one layer subtree with the current settings.
func (r *Renderer) RenderLayer(dst *sprite.Image, s *sprite.Sprite, layer sprite.LayerID, frame sprite.Frame, area Clip, mode sprite.BlendMode) {
	RenderLayer(dst, s, layer, frame, area, mode, r.req)
}

// RenderBackground draws the configured checkerboard over area.
func (r *Renderer) RenderBackground(dst *sprite.Image, area Clip, pal *sprite.Palette) {
	RenderBackground(dst, area, r.req.bg, r.req.proj, pal)
}

// RenderImage draws src onto dst at the projected position of (x, y),
// scaled by the current projection.
func (r *Renderer) RenderImage(dst, src *sprite.Image, pal *sprite.Palette, x, y int, opacity uint8, mode sprite.BlendMode) {
	proj := r.req.proj
	b := proj.Apply(image.Rect(x, y, x+src.Width(), y+src.Height()))
	area := NewClip(b.Min, b)
	f := Lookup(dst.Format(), src.Format(), mode)
	f(dst, src, ClipF{Dst: area.Dst, W: area.W, H: area.H}, Params{
		Palette: pal,
		Opacity: opacity,
		ScaleX:  proj.ScaleX(),
		ScaleY:  proj.ScaleY(),
	})
}
