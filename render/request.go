// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/sprite"
)

// BgType selects what is drawn under the sprite.
type BgType uint8

const (
	// BgNone leaves the destination untouched.
	BgNone BgType = iota

	// BgTransparent fills the area with the sprite's transparent colour.
	BgTransparent

	// BgChecked draws a two-colour checkerboard.
	BgChecked
)

// String returns the background type name.
func (t BgType) String() string {
	switch t {
	case BgNone:
		return "none"
	case BgTransparent:
		return "transparent"
	case BgChecked:
		return "checked"
	default:
		return "unknown"
	}
}

// Background configures the fill drawn before any layer.
type Background struct {
	Type BgType

	// Color1 and Color2 are the checkerboard colours; Color1 is used for
	// the tile at the projected origin.
	Color1, Color2 color.NRGBA

	// CheckedSize is the tile size in output pixels.
	CheckedSize image.Point

	// Zoom scales the tile size with the projection, pixel ratio included,
	// so tiles cover the same sprite area at every zoom.
	Zoom bool
}

// DefaultBackground returns a 16×16 gray checkerboard.
func DefaultBackground() Background {
	return Background{
		Type:        BgChecked,
		Color1:      color.NRGBA{R: 128, G: 128, B: 128, A: 255},
		Color2:      color.NRGBA{R: 192, G: 192, B: 192, A: 255},
		CheckedSize: image.Pt(16, 16),
	}
}

// Preview substitutes Image for the cel of (Layer, Frame) while that layer
// is composited. With Layer set to sprite.NoLayer the image is drawn over
// the whole composite instead.
type Preview struct {
	Layer    sprite.LayerID
	Frame    sprite.Frame
	Image    *sprite.Image
	Position image.Point

	// Mode is the blend mode of the preview. BlendUnspecified uses the
	// layer's own mode.
	Mode sprite.BlendMode
}

// ExtraType selects where the extra image is drawn.
type ExtraType uint8

const (
	// ExtraNone disables the extra image.
	ExtraNone ExtraType = iota

	// ExtraPatch draws the extra image in place of the current layer's cel
	// inside the extra cel bounds, at the layer's depth.
	ExtraPatch

	// ExtraComposite draws the extra image over the finished composite.
	ExtraComposite
)

// Extra is transient tool feedback bound to one layer and frame.
type Extra struct {
	Type ExtraType

	// Cel gives the position and opacity of the extra image. Image
	// overrides the cel's own image when set.
	Cel   *sprite.Cel
	Image *sprite.Image
	Mode  sprite.BlendMode

	Layer sprite.LayerID
	Frame sprite.Frame
}

func (e *Extra) image() *sprite.Image {
	if e.Image != nil {
		return e.Image
	}
	return e.Cel.Image()
}

// Request holds every setting of a render call. It is a value: build one
// with NewRequest and pass it to RenderSprite or RenderLayer. Requests are
// never modified by rendering, so one request may serve concurrent calls.
type Request struct {
	proj             Projection
	bg               Background
	onion            OnionskinOptions
	preview          *Preview
	extra            *Extra
	selected         sprite.LayerID
	nonactiveOpacity uint8
	refLayers        bool
}

// Option configures a Request.
type Option func(*Request)

// NewRequest creates a request. Without options it renders at 1:1 with no
// background, no onion skin and no overlays.
func NewRequest(opts ...Option) Request {
	r := Request{
		selected:         sprite.NoLayer,
		nonactiveOpacity: 255,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// With returns a copy of r with opts applied.
func (r Request) With(opts ...Option) Request {
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithProjection sets the zoom and pixel ratio.
func WithProjection(p Projection) Option {
	return func(r *Request) { r.proj = p }
}

// WithBackground sets the background fill.
func WithBackground(bg Background) Option {
	return func(r *Request) { r.bg = bg }
}

// WithOnionskin enables ghost frames.
func WithOnionskin(o OnionskinOptions) Option {
	return func(r *Request) { r.onion = o }
}

// WithPreview sets the preview overlay. A nil image removes it.
func WithPreview(p Preview) Option {
	return func(r *Request) {
		if p.Image == nil {
			r.preview = nil
			return
		}
		r.preview = &p
	}
}

// WithExtra sets the extra overlay. ExtraNone or a nil cel removes it.
func WithExtra(e Extra) Option {
	return func(r *Request) {
		if e.Type == ExtraNone || e.Cel == nil || e.image() == nil {
			r.extra = nil
			return
		}
		r.extra = &e
	}
}

// WithSelectedLayer sets the layer whose subtree keeps full opacity when
// a non-active opacity is configured.
func WithSelectedLayer(id sprite.LayerID) Option {
	return func(r *Request) { r.selected = id }
}

// WithNonactiveOpacity sets the opacity multiplier of layers outside the
// selected subtree.
func WithNonactiveOpacity(opacity uint8) Option {
	return func(r *Request) { r.nonactiveOpacity = opacity }
}

// WithReferenceLayers forces reference layers to render.
func WithReferenceLayers(show bool) Option {
	return func(r *Request) { r.refLayers = show }
}

// Projection returns the request's projection.
func (r Request) Projection() Projection { return r.proj }

// Background returns the background settings.
func (r Request) Background() Background { return r.bg }

// Onionskin returns the onion-skin settings.
func (r Request) Onionskin() OnionskinOptions { return r.onion }

// Preview returns the preview overlay, if any.
func (r Request) Preview() (Preview, bool) {
	if r.preview == nil {
		return Preview{}, false
	}
	return *r.preview, true
}

// Extra returns the extra overlay, if any.
func (r Request) Extra() (Extra, bool) {
	if r.extra == nil {
		return Extra{}, false
	}
	return *r.extra, true
}

// SelectedLayer returns the selected layer, or sprite.NoLayer.
func (r Request) SelectedLayer() sprite.LayerID { return r.selected }

// NonactiveOpacity returns the opacity multiplier of non-selected layers.
func (r Request) NonactiveOpacity() uint8 { return r.nonactiveOpacity }

// ReferenceLayers reports whether reference layers are forced visible.
func (r Request) ReferenceLayers() bool { return r.refLayers }
