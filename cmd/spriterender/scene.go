package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/render"
)

var errScene = errors.New("scene")

// Scene is the YAML description of a sprite and how to render it.
type Scene struct {
	Width       int         `yaml:"width"`
	Height      int         `yaml:"height"`
	Format      string      `yaml:"format"`
	Frames      int         `yaml:"frames"`
	Transparent int         `yaml:"transparent"`
	Palette     []string    `yaml:"palette"`
	Tags        []TagSpec   `yaml:"tags"`
	Layers      []LayerSpec `yaml:"layers"`
	Render      RenderSpec  `yaml:"render"`
}

// TagSpec is a named frame range.
type TagSpec struct {
	Name string `yaml:"name"`
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
}

// LayerSpec describes one layer and, for groups, its children listed
// bottom to top.
type LayerSpec struct {
	Name       string      `yaml:"name"`
	Kind       string      `yaml:"kind"`
	Opacity    *int        `yaml:"opacity"`
	Blend      string      `yaml:"blend"`
	Hidden     bool        `yaml:"hidden"`
	Background bool        `yaml:"background"`
	Cels       []CelSpec   `yaml:"cels"`
	Children   []LayerSpec `yaml:"children"`
}

// CelSpec describes the cel of one frame. Exactly one of Image, Fill,
// Index or Link supplies the pixels.
type CelSpec struct {
	Frame   int    `yaml:"frame"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Opacity *int   `yaml:"opacity"`
	Image   string `yaml:"image"`
	Fill    string `yaml:"fill"`
	Index   *int   `yaml:"index"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Link    *int   `yaml:"link"`

	// Bounds stretches a reference layer image: [x, y, w, h].
	Bounds []float64 `yaml:"bounds"`
}

// RenderSpec holds the render options of a scene.
type RenderSpec struct {
	Zoom       string         `yaml:"zoom"`
	Ratio      string         `yaml:"ratio"`
	Background BackgroundSpec `yaml:"background"`
	Onionskin  OnionSpec      `yaml:"onionskin"`
	Selected   string         `yaml:"selected"`
	Nonactive  *int           `yaml:"nonactive"`
	Reference  bool           `yaml:"reference"`
}

// BackgroundSpec configures the background fill.
type BackgroundSpec struct {
	Type   string `yaml:"type"`
	Color1 string `yaml:"color1"`
	Color2 string `yaml:"color2"`
	Size   int    `yaml:"size"`
	Zoom   bool   `yaml:"zoom"`
}

// OnionSpec configures ghost frames.
type OnionSpec struct {
	Type     string `yaml:"type"`
	Position string `yaml:"position"`
	Prev     int    `yaml:"prev"`
	Next     int    `yaml:"next"`
	Base     int    `yaml:"base"`
	Step     int    `yaml:"step"`
	Tag      string `yaml:"tag"`
	Loop     string `yaml:"loop"`
	Layer    string `yaml:"layer"`
	PrevTint string `yaml:"prevTint"`
	NextTint string `yaml:"nextTint"`
}

// LoadScene reads a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScene(data)
}

// ParseScene decodes a YAML scene. Unknown keys are rejected.
func ParseScene(data []byte) (*Scene, error) {
	var sc Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %v", errScene, err)
	}
	if sc.Frames == 0 {
		sc.Frames = 1
	}
	return &sc, nil
}

// builder carries the state of Scene.Build.
type builder struct {
	s   *sprite.Sprite
	dir string
	pal *sprite.Palette
}

// Build creates the sprite and render request described by the scene.
// Image paths are resolved relative to dir.
func (sc *Scene) Build(dir string) (*sprite.Sprite, render.Request, error) {
	format, err := parseFormat(sc.Format)
	if err != nil {
		return nil, render.Request{}, err
	}
	s, err := sprite.New(sc.Width, sc.Height, format, sc.Frames)
	if err != nil {
		return nil, render.Request{}, err
	}
	if sc.Transparent < 0 || sc.Transparent > 255 {
		return nil, render.Request{}, fmt.Errorf("%w: transparent index %d", errScene, sc.Transparent)
	}
	s.SetTransparentIndex(uint8(sc.Transparent))

	b := &builder{s: s, dir: dir, pal: s.Palette(0)}
	if len(sc.Palette) > 0 {
		entries := make([]color.NRGBA, len(sc.Palette))
		for i, name := range sc.Palette {
			if entries[i], err = parseColor(name); err != nil {
				return nil, render.Request{}, err
			}
		}
		b.pal = sprite.NewPalette(entries...)
		if err := s.SetPalette(0, b.pal); err != nil {
			return nil, render.Request{}, err
		}
	}

	for _, t := range sc.Tags {
		if _, err := s.AddTag(sprite.Tag{Name: t.Name, From: sprite.Frame(t.From), To: sprite.Frame(t.To)}); err != nil {
			return nil, render.Request{}, err
		}
	}
	for _, ls := range sc.Layers {
		if err := b.addLayer(sprite.RootLayer, ls); err != nil {
			return nil, render.Request{}, err
		}
	}

	req, err := sc.Render.request(s)
	if err != nil {
		return nil, render.Request{}, err
	}
	return s, req, nil
}

func (b *builder) addLayer(parent sprite.LayerID, ls LayerSpec) error {
	kind, err := parseKind(ls.Kind)
	if err != nil {
		return err
	}
	l, err := b.s.AddLayer(parent, kind, ls.Name)
	if err != nil {
		return fmt.Errorf("layer %q: %w", ls.Name, err)
	}
	if ls.Opacity != nil {
		op, err := byteValue("opacity", *ls.Opacity)
		if err != nil {
			return err
		}
		l.SetOpacity(op)
	}
	if ls.Blend != "" {
		m, ok := sprite.ParseBlendMode(ls.Blend)
		if !ok {
			return fmt.Errorf("%w: layer %q: unknown blend mode %q", errScene, ls.Name, ls.Blend)
		}
		l.SetBlendMode(m)
	}
	l.SetVisible(!ls.Hidden)
	if ls.Background {
		if err := b.s.SetBackgroundLayer(l.ID()); err != nil {
			return fmt.Errorf("layer %q: %w", ls.Name, err)
		}
	}

	// Links refer to other cels of the layer, so they go last.
	var links []CelSpec
	for _, cs := range ls.Cels {
		if cs.Link != nil {
			links = append(links, cs)
			continue
		}
		if err := b.addCel(l, cs); err != nil {
			return fmt.Errorf("layer %q frame %d: %w", ls.Name, cs.Frame, err)
		}
	}
	for _, cs := range links {
		if _, err := b.s.LinkCel(l.ID(), sprite.Frame(cs.Frame), sprite.Frame(*cs.Link)); err != nil {
			return fmt.Errorf("layer %q frame %d: %w", ls.Name, cs.Frame, err)
		}
	}

	for _, child := range ls.Children {
		if err := b.addLayer(l.ID(), child); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addCel(l *sprite.Layer, cs CelSpec) error {
	img, err := b.celImage(cs)
	if err != nil {
		return err
	}
	cel, err := b.s.SetCel(l.ID(), sprite.Frame(cs.Frame), img, image.Pt(cs.X, cs.Y))
	if err != nil {
		return err
	}
	if cs.Opacity != nil {
		op, err := byteValue("cel opacity", *cs.Opacity)
		if err != nil {
			return err
		}
		cel.SetOpacity(op)
	}
	if len(cs.Bounds) > 0 {
		if len(cs.Bounds) != 4 {
			return fmt.Errorf("%w: bounds needs 4 values, got %d", errScene, len(cs.Bounds))
		}
		cel.SetBoundsF(sprite.RectF{X: cs.Bounds[0], Y: cs.Bounds[1], W: cs.Bounds[2], H: cs.Bounds[3]})
	}
	return nil
}

// celImage produces the pixels of a cel in the sprite's format.
func (b *builder) celImage(cs CelSpec) (*sprite.Image, error) {
	format := b.s.Format()
	switch {
	case cs.Image != "":
		path := cs.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.dir, path)
		}
		src, err := imgio.Open(path)
		if err != nil {
			return nil, err
		}
		rgb, err := sprite.FromImage(src)
		if err != nil {
			return nil, err
		}
		return b.convert(rgb)

	case cs.Index != nil:
		if format != sprite.FormatIndexed {
			return nil, fmt.Errorf("%w: index fill needs an indexed sprite", errScene)
		}
		i, err := byteValue("index", *cs.Index)
		if err != nil {
			return nil, err
		}
		img, err := sprite.NewImage(cs.Width, cs.Height, format)
		if err != nil {
			return nil, err
		}
		img.FillIndex(i)
		return img, nil

	case cs.Fill != "":
		c, err := parseColor(cs.Fill)
		if err != nil {
			return nil, err
		}
		rgb, err := sprite.NewImage(cs.Width, cs.Height, sprite.FormatRGB)
		if err != nil {
			return nil, err
		}
		rgb.Fill(c)
		return b.convert(rgb)
	}
	return nil, fmt.Errorf("%w: cel needs image, fill, index or link", errScene)
}

// convert maps an RGB image to the sprite's format.
func (b *builder) convert(rgb *sprite.Image) (*sprite.Image, error) {
	format := b.s.Format()
	if format == sprite.FormatRGB {
		return rgb, nil
	}
	out, err := sprite.NewImage(rgb.Width(), rgb.Height(), format)
	if err != nil {
		return nil, err
	}
	mask := int(b.s.TransparentIndex())
	for y := range rgb.Height() {
		for x := range rgb.Width() {
			c := rgb.RGBA(x, y)
			if format == sprite.FormatIndexed {
				out.SetIndex(x, y, b.pal.FindBestFit(c, mask))
				continue
			}
			out.SetRGBA(x, y, c)
		}
	}
	return out, nil
}

func (rs *RenderSpec) request(s *sprite.Sprite) (render.Request, error) {
	var opts []render.Option

	zoom, err := parseZoom(rs.Zoom)
	if err != nil {
		return render.Request{}, err
	}
	ratio, err := parseRatio(rs.Ratio)
	if err != nil {
		return render.Request{}, err
	}
	opts = append(opts, render.WithProjection(render.NewProjection(zoom, ratio)))

	bg, err := rs.Background.background()
	if err != nil {
		return render.Request{}, err
	}
	opts = append(opts, render.WithBackground(bg))

	if rs.Onionskin.Type != "" {
		o, err := rs.Onionskin.options(s)
		if err != nil {
			return render.Request{}, err
		}
		opts = append(opts, render.WithOnionskin(o))
	}

	if rs.Selected != "" {
		l := s.LayerByName(rs.Selected)
		if l == nil {
			return render.Request{}, fmt.Errorf("selected layer %q: %w", rs.Selected, sprite.ErrLayerNotFound)
		}
		opts = append(opts, render.WithSelectedLayer(l.ID()))
	}
	if rs.Nonactive != nil {
		op, err := byteValue("nonactive opacity", *rs.Nonactive)
		if err != nil {
			return render.Request{}, err
		}
		opts = append(opts, render.WithNonactiveOpacity(op))
	}
	opts = append(opts, render.WithReferenceLayers(rs.Reference))

	return render.NewRequest(opts...), nil
}

func (bs *BackgroundSpec) background() (render.Background, error) {
	bg := render.DefaultBackground()
	switch strings.ToLower(bs.Type) {
	case "", "none":
		bg.Type = render.BgNone
	case "transparent":
		bg.Type = render.BgTransparent
	case "checked":
		bg.Type = render.BgChecked
	default:
		return bg, fmt.Errorf("%w: unknown background %q", errScene, bs.Type)
	}
	var err error
	if bs.Color1 != "" {
		if bg.Color1, err = parseColor(bs.Color1); err != nil {
			return bg, err
		}
	}
	if bs.Color2 != "" {
		if bg.Color2, err = parseColor(bs.Color2); err != nil {
			return bg, err
		}
	}
	if bs.Size > 0 {
		bg.CheckedSize = image.Pt(bs.Size, bs.Size)
	}
	bg.Zoom = bs.Zoom
	return bg, nil
}

func (oc *OnionSpec) options(s *sprite.Sprite) (render.OnionskinOptions, error) {
	o := render.OnionskinOptions{
		PrevFrames:  oc.Prev,
		NextFrames:  oc.Next,
		OpacityBase: oc.Base,
		OpacityStep: oc.Step,
	}
	switch strings.ToLower(oc.Type) {
	case "none":
		o.Type = render.OnionskinNone
	case "merge":
		o.Type = render.OnionskinMerge
	case "tint":
		o.Type = render.OnionskinTint
	default:
		return o, fmt.Errorf("%w: unknown onion skin type %q", errScene, oc.Type)
	}
	switch strings.ToLower(oc.Position) {
	case "", "behind":
		o.Position = render.OnionskinBehind
	case "front", "infront":
		o.Position = render.OnionskinInFront
	default:
		return o, fmt.Errorf("%w: unknown onion skin position %q", errScene, oc.Position)
	}
	switch strings.ToLower(oc.Loop) {
	case "", "clip":
		o.LoopPolicy = render.LoopClip
	case "wrap":
		o.LoopPolicy = render.LoopWrap
	default:
		return o, fmt.Errorf("%w: unknown loop policy %q", errScene, oc.Loop)
	}
	if oc.Tag != "" {
		if o.LoopTag = s.Tag(oc.Tag); o.LoopTag == nil {
			return o, fmt.Errorf("%w: unknown tag %q", errScene, oc.Tag)
		}
	}
	if oc.Layer != "" {
		l := s.LayerByName(oc.Layer)
		if l == nil {
			return o, fmt.Errorf("onion skin layer %q: %w", oc.Layer, sprite.ErrLayerNotFound)
		}
		o.Layer = l.ID()
	}
	var err error
	if oc.PrevTint != "" {
		if o.PrevTint, err = parseColor(oc.PrevTint); err != nil {
			return o, err
		}
	}
	if oc.NextTint != "" {
		if o.NextTint, err = parseColor(oc.NextTint); err != nil {
			return o, err
		}
	}
	return o, nil
}

func parseFormat(s string) (sprite.PixelFormat, error) {
	switch strings.ToLower(s) {
	case "", "rgb", "rgba":
		return sprite.FormatRGB, nil
	case "gray", "grayscale":
		return sprite.FormatGrayscale, nil
	case "indexed":
		return sprite.FormatIndexed, nil
	}
	return 0, fmt.Errorf("format %q: %w", s, sprite.ErrInvalidFormat)
}

func parseKind(s string) (sprite.LayerKind, error) {
	switch strings.ToLower(s) {
	case "", "image":
		return sprite.LayerImage, nil
	case "group":
		return sprite.LayerGroup, nil
	case "reference":
		return sprite.LayerReference, nil
	}
	return 0, fmt.Errorf("%w: unknown layer kind %q", errScene, s)
}

// parseColor accepts a colour name, "transparent", #rrggbb or #rrggbbaa.
func parseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return sprite.Transparent, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 && len(hex) != 8 {
			return color.NRGBA{}, fmt.Errorf("%w: bad colour %q", errScene, s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: bad colour %q", errScene, s)
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	}
	c, ok := colornames.Map[s]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("%w: unknown colour %q", errScene, s)
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// parseZoom accepts "n" or "n/d".
func parseZoom(s string) (render.Zoom, error) {
	if s == "" {
		return render.Zoom{Num: 1, Den: 1}, nil
	}
	num, den, err := parseRational(s, "/")
	if err != nil {
		return render.Zoom{}, fmt.Errorf("%w: zoom %q: %v", errScene, s, err)
	}
	return render.Zoom{Num: num, Den: den}, nil
}

// parseRatio accepts "w:h".
func parseRatio(s string) (render.PixelRatio, error) {
	if s == "" {
		return render.PixelRatio{W: 1, H: 1}, nil
	}
	w, h, err := parseRational(s, ":")
	if err != nil {
		return render.PixelRatio{}, fmt.Errorf("%w: pixel ratio %q: %v", errScene, s, err)
	}
	return render.PixelRatio{W: w, H: h}, nil
}

func parseRational(s, sep string) (a, b int, err error) {
	as, bs, found := strings.Cut(s, sep)
	if a, err = strconv.Atoi(strings.TrimSpace(as)); err != nil {
		return 0, 0, err
	}
	b = 1
	if found {
		if b, err = strconv.Atoi(strings.TrimSpace(bs)); err != nil {
			return 0, 0, err
		}
	}
	if a <= 0 || b <= 0 {
		return 0, 0, errors.New("must be positive")
	}
	return a, b, nil
}

func byteValue(what string, v int) (uint8, error) {
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: %s %d outside [0, 255]", errScene, what, v)
	}
	return uint8(v), nil
}
