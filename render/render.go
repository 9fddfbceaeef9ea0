// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/internal/blend"
)

// pass selects which layers a tree walk draws.
type pass uint8

const (
	passBackground pass = 1 << iota
	passTransparent

	passAll = passBackground | passTransparent
)

// compositor is the state of one render call.
type compositor struct {
	s    *sprite.Sprite
	req  *Request
	dst  *sprite.Image
	mask int

	// Per-walk state: the palette of the walked frame, the onion ghost
	// opacity and its tint.
	pal    *sprite.Palette
	global uint8
	tint   color.NRGBA
}

func newCompositor(dst *sprite.Image, s *sprite.Sprite, req *Request) *compositor {
	return &compositor{
		s:      s,
		req:    req,
		dst:    dst,
		mask:   int(s.TransparentIndex()),
		global: 255,
	}
}

func checkArgs(dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, area Clip) {
	if dst == nil {
		panic("render: nil destination image")
	}
	if s == nil {
		panic("render: nil sprite")
	}
	if !s.ValidFrame(frame) {
		panic(fmt.Sprintf("render: frame %d out of range [0, %d)", frame, s.TotalFrames()))
	}
	if area.W < 0 || area.H < 0 {
		panic(fmt.Sprintf("render: negative clip size %dx%d", area.W, area.H))
	}
}

// RenderSprite composites one frame of s into dst over area.
//
// The steps run in order, each drawing over the previous ones: background,
// the background layer, onion skin behind, the remaining layers, onion skin
// in front, then the overlays that cover the whole composite. dst may have
// any pixel format.
//
// RenderSprite panics when dst or s is nil, when frame is outside
// [0, s.TotalFrames()) or when area has a negative size.
func RenderSprite(dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, area Clip, req Request) {
	checkArgs(dst, s, frame, area)
	if area.Empty() {
		return
	}
	c := newCompositor(dst, s, &req)

	sprite.Logger().Debug("render sprite",
		"frame", frame,
		"area", area.SrcBounds(),
		"bg", req.bg.Type,
		"onion", req.onion.Type)

	fillBackground(dst, s, frame, area, &req)
	c.renderRoot(frame, area, passBackground)
	if req.onion.Position == OnionskinBehind {
		c.renderOnionskin(frame, area)
	}
	c.renderRoot(frame, area, passTransparent)
	if req.onion.Position == OnionskinInFront {
		c.renderOnionskin(frame, area)
	}
	c.renderOverlays(frame, area)
}

// RenderLayer composites the subtree of one layer into dst with no
// background and no onion skin. Opacities of the layer's parents are not
// applied. A mode other than BlendUnspecified overrides every layer's mode.
// An unknown layer draws nothing.
func RenderLayer(dst *sprite.Image, s *sprite.Sprite, layer sprite.LayerID, frame sprite.Frame, area Clip, mode sprite.BlendMode, req Request) {
	checkArgs(dst, s, frame, area)
	l := s.Layer(layer)
	if l == nil || area.Empty() {
		return
	}
	c := newCompositor(dst, s, &req)
	c.pal = s.Palette(frame)
	c.renderLayer(l, frame, area, mode, 255, c.inSelected(l), passAll)
}

func (c *compositor) renderRoot(frame sprite.Frame, area Clip, ps pass) {
	c.pal = c.s.Palette(frame)
	c.global = 255
	c.renderLayer(c.s.Root(), frame, area, sprite.BlendUnspecified, 255, false, ps)
}

// inSelected reports whether l is the selected layer or one of its
// descendants.
func (c *compositor) inSelected(l *sprite.Layer) bool {
	sel := c.req.selected
	if sel == sprite.NoLayer {
		return false
	}
	for id := l.ID(); id != sprite.NoLayer; id = c.s.Layer(id).Parent() {
		if id == sel {
			return true
		}
	}
	return false
}

func (c *compositor) renderOnionskin(frame sprite.Frame, area Clip) {
	o := &c.req.onion
	if o.Type == OnionskinNone {
		return
	}
	l := c.s.Layer(o.Layer)
	if l == nil {
		return
	}
	ps := passTransparent
	if l.IsBackground() {
		ps = passAll
	}
	mode := o.Mode()
	selected := c.inSelected(l)
	for _, g := range Ghosts(frame, *o, c.s.TotalFrames()) {
		c.pal = c.s.Palette(g.Frame)
		c.global = g.Opacity
		c.tint = o.TintFor(g)
		c.renderLayer(l, g.Frame, area, mode, 255, selected, ps)
	}
	c.global = 255
}

// renderLayer draws one layer subtree. opacity is the product of the
// enclosing groups' opacities.
func (c *compositor) renderLayer(l *sprite.Layer, frame sprite.Frame, area Clip, override sprite.BlendMode, opacity uint8, inSelected bool, ps pass) {
	if l.IsReference() {
		if !c.req.refLayers {
			return
		}
	} else if !l.IsVisible() {
		return
	}
	if l.ID() == c.req.selected {
		inSelected = true
	}

	if l.IsGroup() {
		eff := blend.MulUN8(opacity, l.Opacity())
		for _, id := range l.Children() {
			c.renderLayer(c.s.Layer(id), frame, area, override, eff, inSelected, ps)
		}
		return
	}

	if l.IsBackground() {
		if ps&passBackground == 0 {
			return
		}
	} else if ps&passTransparent == 0 {
		return
	}
	c.renderCel(l, frame, area, override, opacity, inSelected)
}

func (c *compositor) renderCel(l *sprite.Layer, frame sprite.Frame, area Clip, override sprite.BlendMode, parentOpacity uint8, inSelected bool) {
	var (
		img    *sprite.Image
		bounds sprite.RectF
		mode   = l.BlendMode()
		celOp  = uint8(255)
	)
	if cel := l.Cel(frame); cel != nil {
		img = cel.Image()
		celOp = cel.Opacity()
		if l.IsReference() {
			bounds = cel.BoundsF()
		} else {
			bounds = sprite.RectFFrom(cel.Bounds())
		}
	}
	if pv := c.req.preview; pv != nil && pv.Layer == l.ID() && pv.Frame == frame {
		img = pv.Image
		bounds = imageBounds(pv.Image, pv.Position)
		if pv.Mode != sprite.BlendUnspecified {
			mode = pv.Mode
		}
	}
	if override != sprite.BlendUnspecified {
		mode = override
	}

	opacity := blend.MulUN8(celOp, l.Opacity())
	opacity = blend.MulUN8(opacity, parentOpacity)
	opacity = blend.MulUN8(opacity, c.global)
	if c.req.selected != sprite.NoLayer && !inSelected {
		opacity = blend.MulUN8(opacity, c.req.nonactiveOpacity)
	}

	ex := c.req.extra
	patch := ex != nil && ex.Type == ExtraPatch && ex.Layer == l.ID() && ex.Frame == frame

	if img != nil {
		if patch {
			hole := c.req.proj.Apply(imageBounds(ex.image(), ex.Cel.Position()).Bounds())
			for _, r := range subtract(area.SrcBounds(), hole) {
				c.drawImage(img, bounds, area.Sub(r), opacity, mode)
			}
		} else {
			c.drawImage(img, bounds, area, opacity, mode)
		}
	}

	if patch && ex.Cel.Opacity() > 0 {
		emode := ex.Mode
		if emode == sprite.BlendUnspecified {
			emode = l.BlendMode()
		}
		c.drawImage(ex.image(), imageBounds(ex.image(), ex.Cel.Position()), area, ex.Cel.Opacity(), emode)
	}
}

// renderOverlays draws the preview and extra images that are not bound to
// a layer.
func (c *compositor) renderOverlays(frame sprite.Frame, area Clip) {
	c.pal = c.s.Palette(frame)
	c.global = 255
	if pv := c.req.preview; pv != nil && pv.Layer == sprite.NoLayer && pv.Frame == frame {
		c.drawImage(pv.Image, imageBounds(pv.Image, pv.Position), area, 255, overlayMode(pv.Mode))
	}
	if ex := c.req.extra; ex != nil && ex.Type == ExtraComposite && ex.Frame == frame && ex.Cel.Opacity() > 0 {
		img := ex.image()
		c.drawImage(img, imageBounds(img, ex.Cel.Position()), area, ex.Cel.Opacity(), overlayMode(ex.Mode))
	}
}

func overlayMode(m sprite.BlendMode) sprite.BlendMode {
	if m == sprite.BlendUnspecified {
		return sprite.BlendNormal
	}
	return m
}

func imageBounds(img *sprite.Image, pos image.Point) sprite.RectF {
	return sprite.RectF{X: float64(pos.X), Y: float64(pos.Y), W: float64(img.Width()), H: float64(img.Height())}
}

// drawImage composites img, covering bounds in sprite space, into the part
// of area it overlaps.
func (c *compositor) drawImage(img *sprite.Image, bounds sprite.RectF, area Clip, opacity uint8, mode sprite.BlendMode) {
	if area.Empty() || bounds.Empty() {
		return
	}
	if opacity == 0 && !isReplace(mode) {
		return
	}
	proj := c.req.proj
	scaled := proj.ApplyF(bounds)
	if r := bounds.Bounds(); sprite.RectFFrom(r) == bounds {
		scaled = sprite.RectFFrom(proj.Apply(r))
	}
	sub := area.Sub(scaled.Bounds())
	if sub.Empty() {
		return
	}

	f := Lookup(c.dst.Format(), img.Format(), mode)
	f(c.dst, img, ClipF{
		Dst:  sub.Dst,
		SrcX: float64(sub.Src.X) - scaled.X,
		SrcY: float64(sub.Src.Y) - scaled.Y,
		W:    sub.W,
		H:    sub.H,
	}, Params{
		Palette:   c.pal,
		Opacity:   opacity,
		ScaleX:    proj.ScaleX() * bounds.W / float64(img.Width()),
		ScaleY:    proj.ScaleY() * bounds.H / float64(img.Height()),
		Tint:      c.tint,
		MaskIndex: c.mask,
	})
}
