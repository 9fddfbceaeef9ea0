// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"fmt"
	"image"
	"maps"
	"slices"
)

// RootLayer is the id of every sprite's root group.
const RootLayer LayerID = 0

type framePalette struct {
	from Frame
	pal  *Palette
}

// Sprite is a layered, animated document.
//
// Layers are kept in a table indexed by LayerID; parent and child links are
// ids into that table. Renderers only read a Sprite, so a sprite must not be
// edited while a render call that reads it is running.
type Sprite struct {
	format           PixelFormat
	width            int
	height           int
	frames           int
	layers           []*Layer
	background       LayerID
	palettes         []framePalette
	tags             []*Tag
	transparentIndex uint8
}

// New creates a sprite with an empty root group and a gray-ramp palette.
func New(width, height int, format PixelFormat, frames int) (*Sprite, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if frames <= 0 {
		return nil, fmt.Errorf("%d frames: %w", frames, ErrFrameOutOfRange)
	}
	s := &Sprite{
		format:     format,
		width:      width,
		height:     height,
		frames:     frames,
		background: NoLayer,
		palettes:   []framePalette{{from: 0, pal: GrayRamp()}},
	}
	s.layers = []*Layer{newLayer(RootLayer, LayerGroup, "root", NoLayer)}
	return s, nil
}

// Format returns the sprite pixel format.
func (s *Sprite) Format() PixelFormat { return s.format }

// Width returns the canvas width.
func (s *Sprite) Width() int { return s.width }

// Height returns the canvas height.
func (s *Sprite) Height() int { return s.height }

// Bounds returns the canvas rectangle.
func (s *Sprite) Bounds() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// TotalFrames returns the number of frames.
func (s *Sprite) TotalFrames() int { return s.frames }

// LastFrame returns the index of the last frame.
func (s *Sprite) LastFrame() Frame { return Frame(s.frames - 1) }

// SetTotalFrames changes the number of frames. Cels and tags past the new
// end are kept but never rendered.
func (s *Sprite) SetTotalFrames(n int) error {
	if n <= 0 {
		return fmt.Errorf("%d frames: %w", n, ErrFrameOutOfRange)
	}
	s.frames = n
	return nil
}

// ValidFrame reports whether f lies in [0, TotalFrames).
func (s *Sprite) ValidFrame(f Frame) bool { return f >= 0 && int(f) < s.frames }

// Root returns the root group.
func (s *Sprite) Root() *Layer { return s.layers[RootLayer] }

// Layer returns the layer with the given id, or nil.
func (s *Sprite) Layer(id LayerID) *Layer {
	if id < 0 || int(id) >= len(s.layers) {
		return nil
	}
	return s.layers[id]
}

// LayerCount returns the number of layers including the root.
func (s *Sprite) LayerCount() int { return len(s.layers) }

// LayerByName returns the first layer named name in walk order, or nil.
func (s *Sprite) LayerByName(name string) *Layer {
	var found *Layer
	s.Walk(func(l *Layer) bool {
		if l.name == name {
			found = l
			return false
		}
		return true
	})
	return found
}

// AddLayer appends a new layer on top of the children of parent.
func (s *Sprite) AddLayer(parent LayerID, kind LayerKind, name string) (*Layer, error) {
	p := s.Layer(parent)
	if p == nil {
		return nil, fmt.Errorf("parent %d: %w", parent, ErrLayerNotFound)
	}
	if !p.IsGroup() {
		return nil, fmt.Errorf("parent %q: %w", p.name, ErrNotGroup)
	}
	if kind > LayerReference {
		return nil, fmt.Errorf("layer kind %d: %w", kind, ErrInvalidFormat)
	}
	l := newLayer(LayerID(len(s.layers)), kind, name, parent)
	s.layers = append(s.layers, l)
	p.children = append(p.children, l.id)
	return l, nil
}

// SetBackgroundLayer marks an image layer directly under the root as the
// background and moves it to the bottom of the stack. Any previous
// background layer loses the flag.
func (s *Sprite) SetBackgroundLayer(id LayerID) error {
	l := s.Layer(id)
	if l == nil {
		return fmt.Errorf("layer %d: %w", id, ErrLayerNotFound)
	}
	if l.kind != LayerImage || l.parent != RootLayer {
		return fmt.Errorf("layer %q: %w", l.name, ErrNotBackground)
	}
	if prev := s.Layer(s.background); prev != nil {
		prev.background = false
	}
	root := s.Root()
	if i := slices.Index(root.children, id); i > 0 {
		root.children = slices.Delete(root.children, i, i+1)
		root.children = slices.Insert(root.children, 0, id)
	}
	l.background = true
	s.background = id
	return nil
}

// BackgroundLayer returns the background layer, or nil.
func (s *Sprite) BackgroundLayer() *Layer { return s.Layer(s.background) }

func (s *Sprite) celLayer(id LayerID, f Frame) (*Layer, error) {
	l := s.Layer(id)
	if l == nil {
		return nil, fmt.Errorf("layer %d: %w", id, ErrLayerNotFound)
	}
	if !l.HasCels() {
		return nil, fmt.Errorf("layer %q: %w", l.name, ErrNotImageLayer)
	}
	if !s.ValidFrame(f) {
		return nil, fmt.Errorf("frame %d: %w", f, ErrFrameOutOfRange)
	}
	return l, nil
}

// SetCel binds img to (layer, frame) at pos with full opacity, replacing any
// cel already there.
func (s *Sprite) SetCel(id LayerID, f Frame, img *Image, pos image.Point) (*Cel, error) {
	l, err := s.celLayer(id, f)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("cel image: %w", ErrInvalidDimensions)
	}
	c := &Cel{frame: f, image: img, position: pos, opacity: 255}
	l.cels[f] = c
	return c, nil
}

// LinkCel makes the cel at (layer, frame) share the data of the cel at
// (layer, from). Links always point at a canonical cel.
func (s *Sprite) LinkCel(id LayerID, f, from Frame) (*Cel, error) {
	l, err := s.celLayer(id, f)
	if err != nil {
		return nil, err
	}
	if !s.ValidFrame(from) {
		return nil, fmt.Errorf("frame %d: %w", from, ErrFrameOutOfRange)
	}
	src := l.cels[from]
	if src == nil {
		return nil, fmt.Errorf("layer %q frame %d: %w", l.name, from, ErrCelNotFound)
	}
	if f == from {
		return src, nil
	}
	c := &Cel{frame: f, link: src.Canonical()}
	l.cels[f] = c
	return c, nil
}

// RemoveCel deletes the cel at (layer, frame). Cels linked to it keep the
// shared data.
func (s *Sprite) RemoveCel(id LayerID, f Frame) error {
	l, err := s.celLayer(id, f)
	if err != nil {
		return err
	}
	old := l.cels[f]
	if old == nil {
		return nil
	}
	delete(l.cels, f)
	if old.link != nil {
		return nil
	}
	// Promote the first dependent cel to canonical and relink the rest.
	var heir *Cel
	for _, fr := range slices.Sorted(maps.Keys(l.cels)) {
		c := l.cels[fr]
		if c.link != old {
			continue
		}
		if heir == nil {
			heir = c
			heir.link = nil
			heir.image, heir.position, heir.opacity = old.image, old.position, old.opacity
			heir.bounds, heir.hasBound = old.bounds, old.hasBound
			continue
		}
		c.link = heir
	}
	return nil
}

// Cel returns the cel at (layer, frame), or nil.
func (s *Sprite) Cel(id LayerID, f Frame) *Cel {
	l := s.Layer(id)
	if l == nil {
		return nil
	}
	return l.Cel(f)
}

// SetPalette makes pal the palette for frames starting at f, until the next
// palette change.
func (s *Sprite) SetPalette(f Frame, pal *Palette) error {
	if !s.ValidFrame(f) {
		return fmt.Errorf("frame %d: %w", f, ErrFrameOutOfRange)
	}
	i, found := slices.BinarySearchFunc(s.palettes, f, func(p framePalette, f Frame) int {
		return int(p.from - f)
	})
	if found {
		s.palettes[i].pal = pal
		return nil
	}
	s.palettes = slices.Insert(s.palettes, i, framePalette{from: f, pal: pal})
	return nil
}

// Palette returns the palette in effect at frame f.
func (s *Sprite) Palette(f Frame) *Palette {
	pal := s.palettes[0].pal
	for _, p := range s.palettes {
		if p.from > f {
			break
		}
		pal = p.pal
	}
	return pal
}

// AddTag registers a frame tag.
func (s *Sprite) AddTag(t Tag) (*Tag, error) {
	if t.Name == "" || t.From < 0 || t.To < t.From || !s.ValidFrame(t.To) {
		return nil, fmt.Errorf("tag %q [%d, %d]: %w", t.Name, t.From, t.To, ErrInvalidTag)
	}
	tag := t
	s.tags = append(s.tags, &tag)
	return &tag, nil
}

// Tag returns the first tag named name, or nil.
func (s *Sprite) Tag(name string) *Tag {
	for _, t := range s.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Tags returns the registered tags in insertion order.
func (s *Sprite) Tags() []*Tag { return s.tags }

// TransparentIndex returns the palette index treated as transparent in
// indexed images.
func (s *Sprite) TransparentIndex() uint8 { return s.transparentIndex }

// SetTransparentIndex sets the transparent palette index.
func (s *Sprite) SetTransparentIndex(i uint8) { s.transparentIndex = i }

// Walk visits every layer below the root depth-first, each group before its
// children and siblings bottom to top. It stops when fn returns false.
func (s *Sprite) Walk(fn func(*Layer) bool) {
	s.walk(s.Root(), fn)
}

func (s *Sprite) walk(g *Layer, fn func(*Layer) bool) bool {
	for _, id := range g.children {
		l := s.layers[id]
		if !fn(l) {
			return false
		}
		if l.IsGroup() && !s.walk(l, fn) {
			return false
		}
	}
	return true
}
