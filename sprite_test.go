// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func newTestSprite(t *testing.T, frames int) *Sprite {
	t.Helper()
	s, err := New(8, 8, FormatRGB, frames)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func solid(t *testing.T, w, h int, c color.NRGBA) *Image {
	t.Helper()
	img, err := NewImage(w, h, FormatRGB)
	if err != nil {
		t.Fatalf("NewImage() error = %v", err)
	}
	img.Fill(c)
	return img
}

func TestNewSprite(t *testing.T) {
	tests := []struct {
		name    string
		w, h, n int
		format  PixelFormat
		wantErr error
	}{
		{"ok", 8, 8, 1, FormatRGB, nil},
		{"no frames", 8, 8, 0, FormatRGB, ErrFrameOutOfRange},
		{"no width", 0, 8, 1, FormatRGB, ErrInvalidDimensions},
		{"bad format", 8, 8, 1, PixelFormat(7), ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.w, tt.h, tt.format, tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if s.Root() == nil || !s.Root().IsGroup() || s.Root().Parent() != NoLayer {
				t.Error("Root() should be a parentless group")
			}
			if s.LastFrame() != Frame(tt.n-1) {
				t.Errorf("LastFrame() = %d, want %d", s.LastFrame(), tt.n-1)
			}
			if s.Bounds() != image.Rect(0, 0, tt.w, tt.h) {
				t.Errorf("Bounds() = %v", s.Bounds())
			}
		})
	}
}

func TestAddLayer(t *testing.T) {
	s := newTestSprite(t, 1)
	g, err := s.AddLayer(RootLayer, LayerGroup, "group")
	if err != nil {
		t.Fatalf("AddLayer(group) error = %v", err)
	}
	a, _ := s.AddLayer(g.ID(), LayerImage, "a")
	b, _ := s.AddLayer(RootLayer, LayerImage, "b")

	if a.Parent() != g.ID() {
		t.Errorf("a.Parent() = %d, want %d", a.Parent(), g.ID())
	}
	if got := s.Root().Children(); len(got) != 2 || got[0] != g.ID() || got[1] != b.ID() {
		t.Errorf("root children = %v", got)
	}
	if _, err := s.AddLayer(a.ID(), LayerImage, "x"); !errors.Is(err, ErrNotGroup) {
		t.Errorf("AddLayer under image layer error = %v, want ErrNotGroup", err)
	}
	if _, err := s.AddLayer(99, LayerImage, "x"); !errors.Is(err, ErrLayerNotFound) {
		t.Errorf("AddLayer under missing layer error = %v, want ErrLayerNotFound", err)
	}
	if s.LayerByName("a") != a {
		t.Error("LayerByName(a) did not find the nested layer")
	}

	var order []string
	s.Walk(func(l *Layer) bool {
		order = append(order, l.Name())
		return true
	})
	if len(order) != 3 || order[0] != "group" || order[1] != "a" || order[2] != "b" {
		t.Errorf("Walk order = %v, want [group a b]", order)
	}
}

func TestLayerDefaults(t *testing.T) {
	s := newTestSprite(t, 1)
	l, _ := s.AddLayer(RootLayer, LayerReference, "ref")
	if !l.IsVisible() || l.Opacity() != 255 || l.BlendMode() != BlendNormal {
		t.Errorf("defaults: visible=%v opacity=%d mode=%v", l.IsVisible(), l.Opacity(), l.BlendMode())
	}
	if !l.IsReference() || !l.HasCels() {
		t.Error("reference layer should hold cels")
	}
	l.SetBlendMode(BlendTint)
	if l.BlendMode() != BlendNormal {
		t.Errorf("SetBlendMode(Tint) changed the mode to %v", l.BlendMode())
	}
	l.SetBlendMode(BlendScreen)
	if l.BlendMode() != BlendScreen {
		t.Errorf("BlendMode() = %v, want Screen", l.BlendMode())
	}
}

func TestSetBackgroundLayer(t *testing.T) {
	s := newTestSprite(t, 1)
	top, _ := s.AddLayer(RootLayer, LayerImage, "top")
	bg, _ := s.AddLayer(RootLayer, LayerImage, "bg")
	g, _ := s.AddLayer(RootLayer, LayerGroup, "g")

	if err := s.SetBackgroundLayer(g.ID()); !errors.Is(err, ErrNotBackground) {
		t.Errorf("SetBackgroundLayer(group) error = %v, want ErrNotBackground", err)
	}
	if err := s.SetBackgroundLayer(bg.ID()); err != nil {
		t.Fatalf("SetBackgroundLayer() error = %v", err)
	}
	if s.BackgroundLayer() != bg || !bg.IsBackground() {
		t.Error("bg should be the background layer")
	}
	if s.Root().Children()[0] != bg.ID() {
		t.Errorf("background should move to the bottom, children = %v", s.Root().Children())
	}
	if err := s.SetBackgroundLayer(top.ID()); err != nil {
		t.Fatalf("SetBackgroundLayer(top) error = %v", err)
	}
	if bg.IsBackground() {
		t.Error("previous background kept its flag")
	}
}

func TestCels(t *testing.T) {
	s := newTestSprite(t, 3)
	l, _ := s.AddLayer(RootLayer, LayerImage, "l")
	g, _ := s.AddLayer(RootLayer, LayerGroup, "g")
	red := solid(t, 2, 2, color.NRGBA{R: 255, A: 255})

	if _, err := s.SetCel(g.ID(), 0, red, image.Point{}); !errors.Is(err, ErrNotImageLayer) {
		t.Errorf("SetCel(group) error = %v, want ErrNotImageLayer", err)
	}
	if _, err := s.SetCel(l.ID(), 3, red, image.Point{}); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("SetCel(frame 3) error = %v, want ErrFrameOutOfRange", err)
	}

	c0, err := s.SetCel(l.ID(), 0, red, image.Pt(1, 2))
	if err != nil {
		t.Fatalf("SetCel() error = %v", err)
	}
	if c0.Bounds() != image.Rect(1, 2, 3, 4) {
		t.Errorf("Bounds() = %v", c0.Bounds())
	}

	c1, err := s.LinkCel(l.ID(), 1, 0)
	if err != nil {
		t.Fatalf("LinkCel() error = %v", err)
	}
	c2, _ := s.LinkCel(l.ID(), 2, 1)
	if c2.Canonical() != c0 {
		t.Error("a link to a linked cel should point at the canonical cel")
	}
	c1.SetOpacity(100)
	if c0.Opacity() != 100 || c2.Image() != red {
		t.Error("linked cels should share opacity and image")
	}
	if _, err := s.LinkCel(l.ID(), 1, 0); err != nil {
		t.Fatalf("relink error = %v", err)
	}

	if err := s.RemoveCel(l.ID(), 0); err != nil {
		t.Fatalf("RemoveCel() error = %v", err)
	}
	if s.Cel(l.ID(), 0) != nil {
		t.Error("cel at frame 0 should be gone")
	}
	n1, n2 := s.Cel(l.ID(), 1), s.Cel(l.ID(), 2)
	if n1.IsLinked() || n1.Image() != red || n1.Opacity() != 100 || n1.Position() != image.Pt(1, 2) {
		t.Error("frame 1 should inherit the removed canonical data")
	}
	if n2.Canonical() != n1 {
		t.Error("frame 2 should now link to frame 1")
	}
	if _, err := s.LinkCel(l.ID(), 0, 0); !errors.Is(err, ErrCelNotFound) {
		t.Errorf("LinkCel to empty frame error = %v, want ErrCelNotFound", err)
	}
}

func TestCelBoundsF(t *testing.T) {
	c := NewCel(solid(t, 4, 2, Transparent), image.Pt(1, 1))
	if got := c.BoundsF(); got != (RectF{X: 1, Y: 1, W: 4, H: 2}) {
		t.Errorf("BoundsF() = %+v", got)
	}
	c.SetBoundsF(RectF{X: 0.5, Y: 0, W: 8, H: 4})
	if got := c.BoundsF().Bounds(); got != image.Rect(0, 0, 9, 4) {
		t.Errorf("BoundsF().Bounds() = %v", got)
	}
}

func TestPalettesByFrame(t *testing.T) {
	s := newTestSprite(t, 10)
	p3 := NewPalette(color.NRGBA{R: 3, A: 255})
	p7 := NewPalette(color.NRGBA{R: 7, A: 255})
	if err := s.SetPalette(7, p7); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPalette(3, p3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPalette(10, p3); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("SetPalette(10) error = %v", err)
	}
	tests := []struct {
		frame Frame
		want  uint8
	}{
		{0, 0}, {2, 0}, {3, 3}, {6, 3}, {7, 7}, {9, 7},
	}
	for _, tt := range tests {
		if got := s.Palette(tt.frame).Entry(0).R; got != tt.want {
			t.Errorf("Palette(%d).Entry(0).R = %d, want %d", tt.frame, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	s := newTestSprite(t, 6)
	tag, err := s.AddTag(Tag{Name: "walk", From: 1, To: 3})
	if err != nil {
		t.Fatalf("AddTag() error = %v", err)
	}
	if s.Tag("walk") != tag || len(s.Tags()) != 1 {
		t.Error("Tag(walk) lookup failed")
	}
	if !tag.Contains(3) || tag.Contains(4) || tag.Len() != 3 {
		t.Errorf("tag range checks failed: %+v", tag)
	}
	for _, bad := range []Tag{{Name: "", From: 0, To: 1}, {Name: "r", From: 3, To: 1}, {Name: "o", From: 0, To: 6}} {
		if _, err := s.AddTag(bad); !errors.Is(err, ErrInvalidTag) {
			t.Errorf("AddTag(%+v) error = %v, want ErrInvalidTag", bad, err)
		}
	}
}
