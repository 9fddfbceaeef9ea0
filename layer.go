// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

// LayerID identifies a layer inside its sprite's layer table.
type LayerID int

// NoLayer is the LayerID used where no layer is selected.
const NoLayer LayerID = -1

// LayerKind is the variant tag of a Layer.
type LayerKind uint8

const (
	// LayerImage holds one cel per frame.
	LayerImage LayerKind = iota

	// LayerGroup holds an ordered list of child layers.
	LayerGroup

	// LayerReference holds cels like an image layer but is a guide that is
	// only composited when reference layers are forced visible.
	LayerReference
)

// String returns the kind name.
func (k LayerKind) String() string {
	switch k {
	case LayerImage:
		return "Image"
	case LayerGroup:
		return "Group"
	case LayerReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// Layer is one node of a sprite's layer tree.
//
// Group layers own the ids of their children, ordered bottom to top. Image
// and reference layers own their cels. Which of the two is populated is
// decided by Kind.
type Layer struct {
	id         LayerID
	kind       LayerKind
	name       string
	parent     LayerID
	visible    bool
	background bool
	opacity    uint8
	blendMode  BlendMode

	children []LayerID
	cels     map[Frame]*Cel
}

func newLayer(id LayerID, kind LayerKind, name string, parent LayerID) *Layer {
	l := &Layer{
		id:      id,
		kind:    kind,
		name:    name,
		parent:  parent,
		visible: true,
		opacity: 255,
	}
	if kind != LayerGroup {
		l.cels = make(map[Frame]*Cel)
	}
	return l
}

// ID returns the layer's id.
func (l *Layer) ID() LayerID { return l.id }

// Kind returns the layer variant.
func (l *Layer) Kind() LayerKind { return l.kind }

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// SetName renames the layer.
func (l *Layer) SetName(name string) { l.name = name }

// Parent returns the id of the enclosing group, or NoLayer for the root.
func (l *Layer) Parent() LayerID { return l.parent }

// IsGroup reports whether the layer is a group.
func (l *Layer) IsGroup() bool { return l.kind == LayerGroup }

// IsReference reports whether the layer is a reference layer.
func (l *Layer) IsReference() bool { return l.kind == LayerReference }

// HasCels reports whether the layer variant can hold cels.
func (l *Layer) HasCels() bool { return l.kind != LayerGroup }

// IsVisible reports the layer's own visibility flag.
func (l *Layer) IsVisible() bool { return l.visible }

// SetVisible sets the visibility flag.
func (l *Layer) SetVisible(visible bool) { l.visible = visible }

// IsBackground reports whether the layer is the sprite's opaque base layer.
func (l *Layer) IsBackground() bool { return l.background }

// Opacity returns the layer opacity in [0, 255].
func (l *Layer) Opacity() uint8 { return l.opacity }

// SetOpacity sets the layer opacity.
func (l *Layer) SetOpacity(opacity uint8) { l.opacity = opacity }

// BlendMode returns the layer blend mode.
func (l *Layer) BlendMode() BlendMode { return l.blendMode }

// SetBlendMode sets the layer blend mode. Special modes are ignored.
func (l *Layer) SetBlendMode(m BlendMode) {
	if m.IsLayerMode() {
		l.blendMode = m
	}
}

// Children returns the child ids of a group, bottom to top. The slice must
// not be modified.
func (l *Layer) Children() []LayerID { return l.children }

// Cel returns the cel bound to frame, or nil.
func (l *Layer) Cel(frame Frame) *Cel {
	if l.cels == nil {
		return nil
	}
	return l.cels[frame]
}

// CelCount returns the number of frames with a cel.
func (l *Layer) CelCount() int { return len(l.cels) }
