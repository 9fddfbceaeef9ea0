// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/sprite"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

func solidImage(t testing.TB, w, h int, c color.NRGBA) *sprite.Image {
	t.Helper()
	img, err := sprite.NewImage(w, h, sprite.FormatRGB)
	if err != nil {
		t.Fatalf("NewImage(%d, %d) error = %v", w, h, err)
	}
	img.Fill(c)
	return img
}

func newTestSprite(t testing.TB, w, h, frames int) *sprite.Sprite {
	t.Helper()
	s, err := sprite.New(w, h, sprite.FormatRGB, frames)
	if err != nil {
		t.Fatalf("sprite.New() error = %v", err)
	}
	return s
}

// addLayer adds an image layer under parent with a w×h cel of c at pos on
// frame 0.
func addLayer(t testing.TB, s *sprite.Sprite, parent sprite.LayerID, name string, c color.NRGBA, pos image.Point, w, h int) *sprite.Layer {
	t.Helper()
	l, err := s.AddLayer(parent, sprite.LayerImage, name)
	if err != nil {
		t.Fatalf("AddLayer(%q) error = %v", name, err)
	}
	if _, err := s.SetCel(l.ID(), 0, solidImage(t, w, h, c), pos); err != nil {
		t.Fatalf("SetCel(%q) error = %v", name, err)
	}
	return l
}

// blueRed builds a 4×4 sprite with a blue layer under a red one.
func blueRed(t testing.TB) (s *sprite.Sprite, bottom, top *sprite.Layer) {
	t.Helper()
	s = newTestSprite(t, 4, 4, 1)
	bottom = addLayer(t, s, sprite.RootLayer, "bottom", blue, image.Point{}, 4, 4)
	top = addLayer(t, s, sprite.RootLayer, "top", red, image.Point{}, 4, 4)
	return s, bottom, top
}

func renderRGB(t testing.TB, s *sprite.Sprite, frame sprite.Frame, req Request) *sprite.Image {
	t.Helper()
	area := FullClip(s.Width(), s.Height(), req.Projection())
	dst, err := sprite.NewImage(area.W, area.H, sprite.FormatRGB)
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	RenderSprite(dst, s, frame, area, req)
	return dst
}

func checkPixel(t *testing.T, img *sprite.Image, x, y int, want color.NRGBA) {
	t.Helper()
	if got := img.RGBA(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func checkAll(t *testing.T, img *sprite.Image, want color.NRGBA) {
	t.Helper()
	for y := range img.Height() {
		for x := range img.Width() {
			if got := img.RGBA(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

func TestRenderSprite_NormalHalfOpacity(t *testing.T) {
	tests := []struct {
		name        string
		bottom, top color.NRGBA
		want        color.NRGBA
	}{
		{"blue over red", red, blue, color.NRGBA{R: 127, G: 0, B: 128, A: 255}},
		{"red over blue", blue, red, color.NRGBA{R: 128, G: 0, B: 127, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSprite(t, 4, 4, 1)
			addLayer(t, s, sprite.RootLayer, "bottom", tt.bottom, image.Point{}, 4, 4)
			top := addLayer(t, s, sprite.RootLayer, "top", tt.top, image.Point{}, 4, 4)
			top.SetOpacity(128)

			checkAll(t, renderRGB(t, s, 0, NewRequest()), tt.want)
		})
	}
}

func TestRenderSprite_Idempotent(t *testing.T) {
	s, _, top := blueRed(t)
	top.SetOpacity(100)
	top.SetBlendMode(sprite.BlendOverlay)

	req := NewRequest(
		WithBackground(DefaultBackground()),
		WithProjection(NewProjection(Zoom{Num: 3, Den: 2}, PixelRatio{})),
	)
	a := renderRGB(t, s, 0, req)
	b := renderRGB(t, s, 0, req)
	if !bytes.Equal(a.Pix(), b.Pix()) {
		t.Error("two renders of the same request differ")
	}
}

// Rendering the full clip must equal rendering its two halves.
func TestRenderSprite_ClipSplit(t *testing.T) {
	projections := []Projection{
		{},
		NewProjection(Zoom{Num: 2, Den: 1}, PixelRatio{}),
		NewProjection(Zoom{Num: 3, Den: 2}, PixelRatio{W: 2, H: 1}),
	}
	for _, mode := range sprite.LayerBlendModes() {
		for pi, proj := range projections {
			t.Run(fmt.Sprintf("%v/proj%d", mode, pi), func(t *testing.T) {
				s := newTestSprite(t, 9, 7, 1)
				addLayer(t, s, sprite.RootLayer, "base", color.NRGBA{R: 30, G: 160, B: 90, A: 200}, image.Pt(1, 0), 7, 6)
				top := addLayer(t, s, sprite.RootLayer, "top", color.NRGBA{R: 220, G: 40, B: 180, A: 170}, image.Pt(3, 2), 5, 5)
				top.SetBlendMode(mode)
				top.SetOpacity(200)

				req := NewRequest(WithProjection(proj), WithBackground(DefaultBackground()))
				full := renderRGB(t, s, 0, req)

				area := FullClip(s.Width(), s.Height(), proj)
				split, _ := sprite.NewImage(area.W, area.H, sprite.FormatRGB)
				half := area.W / 2
				left := image.Rect(area.Src.X, area.Src.Y, area.Src.X+half, area.Src.Y+area.H)
				right := image.Rect(area.Src.X+half, area.Src.Y, area.Src.X+area.W, area.Src.Y+area.H)
				RenderSprite(split, s, 0, area.Sub(left), req)
				RenderSprite(split, s, 0, area.Sub(right), req)

				if !bytes.Equal(full.Pix(), split.Pix()) {
					t.Error("split render differs from full render")
				}
			})
		}
	}
}

func TestRenderSprite_Visibility(t *testing.T) {
	s, _, top := blueRed(t)
	top.SetVisible(false)

	checkAll(t, renderRGB(t, s, 0, NewRequest()), blue)
}

func TestRenderSprite_HiddenGroupHidesChildren(t *testing.T) {
	s := newTestSprite(t, 2, 2, 1)
	addLayer(t, s, sprite.RootLayer, "bottom", blue, image.Point{}, 2, 2)
	g, _ := s.AddLayer(sprite.RootLayer, sprite.LayerGroup, "group")
	addLayer(t, s, g.ID(), "child", red, image.Point{}, 2, 2)
	g.SetVisible(false)

	checkAll(t, renderRGB(t, s, 0, NewRequest()), blue)
}

func TestRenderSprite_OpacityMonotonic(t *testing.T) {
	s, _, top := blueRed(t)

	prev := -1
	for op := 0; op <= 255; op += 15 {
		top.SetOpacity(uint8(op))
		got := renderRGB(t, s, 0, NewRequest()).RGBA(0, 0)
		if int(got.R) < prev {
			t.Fatalf("opacity %d: red = %d, less than %d at lower opacity", op, got.R, prev)
		}
		prev = int(got.R)
	}
	if prev != 255 {
		t.Errorf("red at full opacity = %d, want 255", prev)
	}
}

func TestRenderSprite_GroupOpacity(t *testing.T) {
	s := newTestSprite(t, 2, 2, 1)
	addLayer(t, s, sprite.RootLayer, "bottom", blue, image.Point{}, 2, 2)
	g, _ := s.AddLayer(sprite.RootLayer, sprite.LayerGroup, "group")
	g.SetOpacity(128)
	child := addLayer(t, s, g.ID(), "child", red, image.Point{}, 2, 2)
	child.SetOpacity(128)

	checkAll(t, renderRGB(t, s, 0, NewRequest()), color.NRGBA{R: 64, B: 191, A: 255})
}

func TestRenderSprite_CelOpacity(t *testing.T) {
	s, _, top := blueRed(t)
	top.Cel(0).SetOpacity(128)

	checkAll(t, renderRGB(t, s, 0, NewRequest()), color.NRGBA{R: 128, B: 127, A: 255})
}

func TestRenderSprite_PartialCel(t *testing.T) {
	s := newTestSprite(t, 4, 4, 1)
	addLayer(t, s, sprite.RootLayer, "dot", red, image.Pt(1, 2), 2, 1)

	dst := renderRGB(t, s, 0, NewRequest())
	checkPixel(t, dst, 1, 2, red)
	checkPixel(t, dst, 2, 2, red)
	checkPixel(t, dst, 0, 2, sprite.Transparent)
	checkPixel(t, dst, 1, 1, sprite.Transparent)
	checkPixel(t, dst, 3, 2, sprite.Transparent)
}

func TestRenderSprite_Zoom(t *testing.T) {
	s := newTestSprite(t, 2, 2, 1)
	addLayer(t, s, sprite.RootLayer, "dot", red, image.Pt(1, 1), 1, 1)

	req := NewRequest(WithProjection(NewProjection(Zoom{Num: 2, Den: 1}, PixelRatio{})))
	dst := renderRGB(t, s, 0, req)
	if dst.Width() != 4 || dst.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", dst.Width(), dst.Height())
	}
	for y := range 4 {
		for x := range 4 {
			want := sprite.Transparent
			if x >= 2 && y >= 2 {
				want = red
			}
			checkPixel(t, dst, x, y, want)
		}
	}
}

func TestRenderSprite_NonactiveOpacity(t *testing.T) {
	s, bottom, top := blueRed(t)

	tests := []struct {
		name     string
		selected sprite.LayerID
		want     color.NRGBA
	}{
		{"no selection", sprite.NoLayer, red},
		{"top selected", top.ID(), red},
		{"bottom selected", bottom.ID(), color.NRGBA{R: 128, B: 127, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(WithSelectedLayer(tt.selected), WithNonactiveOpacity(128))
			checkPixel(t, renderRGB(t, s, 0, req), 0, 0, tt.want)
		})
	}
}

func TestRenderSprite_SelectedGroup(t *testing.T) {
	s := newTestSprite(t, 2, 2, 1)
	addLayer(t, s, sprite.RootLayer, "bottom", blue, image.Point{}, 2, 2)
	g, _ := s.AddLayer(sprite.RootLayer, sprite.LayerGroup, "group")
	addLayer(t, s, g.ID(), "child", red, image.Point{}, 2, 2)

	req := NewRequest(WithSelectedLayer(g.ID()), WithNonactiveOpacity(0))
	checkAll(t, renderRGB(t, s, 0, req), red)
}

func TestRenderSprite_ReferenceLayer(t *testing.T) {
	s := newTestSprite(t, 4, 1, 1)
	addLayer(t, s, sprite.RootLayer, "bottom", blue, image.Point{}, 4, 1)
	ref, _ := s.AddLayer(sprite.RootLayer, sprite.LayerReference, "ref")
	cel, _ := s.SetCel(ref.ID(), 0, solidImage(t, 1, 1, red), image.Point{})
	cel.SetBoundsF(sprite.RectF{X: 0.5, Y: 0, W: 2, H: 1})

	checkAll(t, renderRGB(t, s, 0, NewRequest()), blue)

	ref.SetVisible(false)
	dst := renderRGB(t, s, 0, NewRequest(WithReferenceLayers(true)))
	checkPixel(t, dst, 0, 0, blue)
	checkPixel(t, dst, 1, 0, red)
	checkPixel(t, dst, 2, 0, red)
	checkPixel(t, dst, 3, 0, blue)
}

func TestRenderSprite_OnionProvenance(t *testing.T) {
	s := newTestSprite(t, 2, 2, 3)
	addLayer(t, s, sprite.RootLayer, "a", red, image.Point{}, 2, 2)

	checkAll(t, renderRGB(t, s, 1, NewRequest()), sprite.Transparent)

	onion := OnionskinOptions{Type: OnionskinMerge, PrevFrames: 1, OpacityBase: 128}
	checkAll(t, renderRGB(t, s, 1, NewRequest(WithOnionskin(onion))), color.NRGBA{R: 255, A: 128})

	// Only frame 0 has content, so next ghosts add nothing.
	onion = OnionskinOptions{Type: OnionskinMerge, NextFrames: 1, OpacityBase: 128}
	checkAll(t, renderRGB(t, s, 1, NewRequest(WithOnionskin(onion))), sprite.Transparent)
}

func TestRenderSprite_OnionPosition(t *testing.T) {
	s := newTestSprite(t, 2, 2, 2)
	l := addLayer(t, s, sprite.RootLayer, "a", red, image.Point{}, 2, 2)
	if _, err := s.SetCel(l.ID(), 1, solidImage(t, 2, 2, blue), image.Point{}); err != nil {
		t.Fatal(err)
	}

	onion := OnionskinOptions{Type: OnionskinMerge, PrevFrames: 1, OpacityBase: 128}
	checkAll(t, renderRGB(t, s, 1, NewRequest(WithOnionskin(onion))), blue)

	onion.Position = OnionskinInFront
	checkAll(t, renderRGB(t, s, 1, NewRequest(WithOnionskin(onion))), color.NRGBA{R: 128, B: 127, A: 255})
}

func TestRenderSprite_OnionTint(t *testing.T) {
	s := newTestSprite(t, 2, 2, 2)
	addLayer(t, s, sprite.RootLayer, "a", white, image.Point{}, 2, 2)

	onion := OnionskinOptions{Type: OnionskinTint, PrevFrames: 1, OpacityBase: 255}
	checkAll(t, renderRGB(t, s, 1, NewRequest(WithOnionskin(onion))), color.NRGBA{R: 255, G: 127, B: 127, A: 255})
}

func TestRenderSprite_OnionLayer(t *testing.T) {
	s := newTestSprite(t, 2, 1, 2)
	a := addLayer(t, s, sprite.RootLayer, "a", red, image.Point{}, 1, 1)
	addLayer(t, s, sprite.RootLayer, "b", blue, image.Pt(1, 0), 1, 1)

	onion := OnionskinOptions{Type: OnionskinMerge, PrevFrames: 1, OpacityBase: 255, Layer: a.ID()}
	dst := renderRGB(t, s, 1, NewRequest(WithOnionskin(onion)))
	checkPixel(t, dst, 0, 0, red)
	checkPixel(t, dst, 1, 0, sprite.Transparent)
}

func TestRenderSprite_Preview(t *testing.T) {
	s, _, top := blueRed(t)

	req := NewRequest(WithPreview(Preview{
		Layer:    top.ID(),
		Frame:    0,
		Image:    solidImage(t, 2, 2, green),
		Position: image.Pt(1, 1),
		Mode:     sprite.BlendUnspecified,
	}))
	dst := renderRGB(t, s, 0, req)
	checkPixel(t, dst, 1, 1, green)
	checkPixel(t, dst, 2, 2, green)
	// The preview replaces the whole cel, so the rest shows the layer below.
	checkPixel(t, dst, 0, 0, blue)
	checkPixel(t, dst, 3, 3, blue)
}

func TestRenderSprite_PreviewWithoutCel(t *testing.T) {
	s := newTestSprite(t, 2, 2, 1)
	l, _ := s.AddLayer(sprite.RootLayer, sprite.LayerImage, "empty")

	req := NewRequest(WithPreview(Preview{Layer: l.ID(), Image: solidImage(t, 2, 2, green)}))
	checkAll(t, renderRGB(t, s, 0, req), green)
}

func TestRenderSprite_PreviewOverlay(t *testing.T) {
	s, _, _ := blueRed(t)

	req := NewRequest(WithPreview(Preview{
		Layer:    sprite.NoLayer,
		Image:    solidImage(t, 1, 1, green),
		Position: image.Pt(2, 2),
	}))
	dst := renderRGB(t, s, 0, req)
	checkPixel(t, dst, 2, 2, green)
	checkPixel(t, dst, 1, 1, red)
}

func TestRenderSprite_ExtraPatch(t *testing.T) {
	s, _, top := blueRed(t)

	tests := []struct {
		name   string
		patch  color.NRGBA
		inside color.NRGBA
	}{
		{"opaque", green, green},
		// The cel is not drawn under the patch, so the layer below shows.
		{"transparent", sprite.Transparent, blue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cel := sprite.NewCel(solidImage(t, 2, 2, tt.patch), image.Pt(1, 1))
			req := NewRequest(WithExtra(Extra{Type: ExtraPatch, Cel: cel, Layer: top.ID(), Frame: 0}))
			dst := renderRGB(t, s, 0, req)
			checkPixel(t, dst, 1, 1, tt.inside)
			checkPixel(t, dst, 2, 2, tt.inside)
			checkPixel(t, dst, 0, 0, red)
			checkPixel(t, dst, 3, 1, red)
			checkPixel(t, dst, 1, 3, red)
		})
	}
}

// A preview and a patch on the same cel: the preview replaces the cel and
// the patch is cut into the preview.
func TestRenderSprite_PreviewAndExtraPatch(t *testing.T) {
	s, _, top := blueRed(t)

	cel := sprite.NewCel(solidImage(t, 2, 2, white), image.Pt(2, 2))
	req := NewRequest(
		WithPreview(Preview{
			Layer: top.ID(),
			Frame: 0,
			Image: solidImage(t, 3, 3, green),
		}),
		WithExtra(Extra{Type: ExtraPatch, Cel: cel, Layer: top.ID(), Frame: 0}),
	)
	dst := renderRGB(t, s, 0, req)

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, green}, // preview, outside the patch
		{1, 1, green},
		{2, 0, green},
		{2, 2, white}, // patch
		{3, 3, white},
		{3, 2, white},
		{3, 0, blue}, // neither: the preview replaced the red cel
		{0, 3, blue},
	}
	for _, tt := range tests {
		checkPixel(t, dst, tt.x, tt.y, tt.want)
	}
}

func TestRenderSprite_ExtraComposite(t *testing.T) {
	s, _, _ := blueRed(t)

	cel := sprite.NewCel(solidImage(t, 1, 1, green), image.Pt(3, 0))
	cel.SetOpacity(128)
	req := NewRequest(WithExtra(Extra{Type: ExtraComposite, Cel: cel, Frame: 0}))
	dst := renderRGB(t, s, 0, req)
	checkPixel(t, dst, 3, 0, color.NRGBA{R: 127, G: 128, A: 255})
	checkPixel(t, dst, 0, 0, red)

	// Bound to another frame: no effect.
	req = NewRequest(WithExtra(Extra{Type: ExtraComposite, Cel: cel, Frame: 1}))
	checkPixel(t, renderRGB(t, s, 0, req), 3, 0, red)
}

func TestRenderSprite_LinkedCel(t *testing.T) {
	s := newTestSprite(t, 2, 2, 2)
	l := addLayer(t, s, sprite.RootLayer, "a", red, image.Point{}, 2, 2)
	if _, err := s.LinkCel(l.ID(), 1, 0); err != nil {
		t.Fatalf("LinkCel() error = %v", err)
	}

	checkAll(t, renderRGB(t, s, 1, NewRequest()), red)
}

func TestRenderSprite_IndexedSprite(t *testing.T) {
	s, err := sprite.New(2, 1, sprite.FormatIndexed, 1)
	if err != nil {
		t.Fatal(err)
	}
	l, _ := s.AddLayer(sprite.RootLayer, sprite.LayerImage, "a")
	img, _ := sprite.NewImage(2, 1, sprite.FormatIndexed)
	img.SetIndex(1, 0, 200)
	if _, err := s.SetCel(l.ID(), 0, img, image.Point{}); err != nil {
		t.Fatal(err)
	}

	t.Run("rgb destination", func(t *testing.T) {
		dst := renderRGB(t, s, 0, NewRequest())
		checkPixel(t, dst, 0, 0, sprite.Transparent)
		checkPixel(t, dst, 1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	})

	t.Run("indexed destination", func(t *testing.T) {
		dst, _ := sprite.NewImage(2, 1, sprite.FormatIndexed)
		dst.FillIndex(7)
		RenderSprite(dst, s, 0, FullClip(2, 1, Projection{}), NewRequest())
		if got := dst.Index(0, 0); got != 7 {
			t.Errorf("masked pixel = %d, want 7", got)
		}
		if got := dst.Index(1, 0); got != 200 {
			t.Errorf("opaque pixel = %d, want 200", got)
		}
	})
}

func TestRenderSprite_GrayscaleDestination(t *testing.T) {
	s, _, _ := blueRed(t)

	dst, _ := sprite.NewImage(4, 4, sprite.FormatGrayscale)
	RenderSprite(dst, s, 0, FullClip(4, 4, Projection{}), NewRequest())

	wantV, wantA := sprite.GrayOf(red)
	got := dst.RGBA(0, 0)
	if got.R != wantV || got.A != wantA {
		t.Errorf("gray pixel = %v, want value %d alpha %d", got, wantV, wantA)
	}
}

func TestRenderSprite_Preconditions(t *testing.T) {
	s, _, _ := blueRed(t)
	dst := solidImage(t, 4, 4, sprite.Transparent)
	area := FullClip(4, 4, Projection{})
	req := NewRequest()

	mustPanic(t, "nil destination", func() { RenderSprite(nil, s, 0, area, req) })
	mustPanic(t, "nil sprite", func() { RenderSprite(dst, nil, 0, area, req) })
	mustPanic(t, "frame out of range", func() { RenderSprite(dst, s, 1, area, req) })
	mustPanic(t, "negative frame", func() { RenderSprite(dst, s, -1, area, req) })
	mustPanic(t, "negative clip", func() { RenderSprite(dst, s, 0, Clip{W: -1, H: 4}, req) })
}

func TestRenderSprite_AreaOutsideDestination(t *testing.T) {
	s, _, _ := blueRed(t)
	dst := solidImage(t, 2, 2, sprite.Transparent)

	// The clip reaches past every edge of dst; nothing may panic.
	RenderSprite(dst, s, 0, Clip{Dst: image.Pt(-1, -1), W: 4, H: 4}, NewRequest(WithBackground(DefaultBackground())))
	checkAll(t, dst, red)
}

func TestRenderLayer(t *testing.T) {
	s, bottom, top := blueRed(t)
	top.SetOpacity(128)

	dst := solidImage(t, 4, 4, green)
	RenderLayer(dst, s, bottom.ID(), 0, FullClip(4, 4, Projection{}), sprite.BlendUnspecified, NewRequest())
	checkAll(t, dst, blue)

	// The override mode replaces every layer's own mode.
	dst = solidImage(t, 4, 4, green)
	RenderLayer(dst, s, sprite.RootLayer, 0, FullClip(4, 4, Projection{}), sprite.BlendSrc, NewRequest())
	checkAll(t, dst, red)

	dst = solidImage(t, 4, 4, green)
	RenderLayer(dst, s, 99, 0, FullClip(4, 4, Projection{}), sprite.BlendUnspecified, NewRequest())
	checkAll(t, dst, green)
}

func BenchmarkRenderSprite(b *testing.B) {
	s := newTestSprite(b, 256, 256, 1)
	for i, mode := range []sprite.BlendMode{sprite.BlendNormal, sprite.BlendMultiply, sprite.BlendHue} {
		l := addLayer(b, s, sprite.RootLayer, mode.String(), color.NRGBA{R: uint8(80 * i), G: 120, B: 200, A: 180}, image.Pt(i*16, i*16), 200, 200)
		l.SetBlendMode(mode)
	}
	req := NewRequest(WithBackground(DefaultBackground()), WithProjection(NewProjection(Zoom{Num: 2, Den: 1}, PixelRatio{})))
	area := FullClip(256, 256, req.Projection())
	dst, _ := sprite.NewImage(area.W, area.H, sprite.FormatRGB)

	for b.Loop() {
		RenderSprite(dst, s, 0, area, req)
	}
}
