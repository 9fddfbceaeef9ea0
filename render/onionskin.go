// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"
	"slices"

	"github.com/gogpu/sprite"
	"golang.org/x/image/colornames"
)

// OnionskinType selects how ghost frames are drawn.
type OnionskinType uint8

const (
	// OnionskinNone disables onion skinning.
	OnionskinNone OnionskinType = iota

	// OnionskinMerge draws ghosts with the Normal blend mode.
	OnionskinMerge

	// OnionskinTint draws previous ghosts tinted with PrevTint and next
	// ghosts tinted with NextTint.
	OnionskinTint
)

// String returns the onion-skin type name.
func (t OnionskinType) String() string {
	switch t {
	case OnionskinNone:
		return "none"
	case OnionskinMerge:
		return "merge"
	case OnionskinTint:
		return "tint"
	default:
		return "unknown"
	}
}

// OnionskinPosition selects whether ghosts are drawn under or over the
// current frame's layers.
type OnionskinPosition uint8

const (
	OnionskinBehind OnionskinPosition = iota
	OnionskinInFront
)

// LoopPolicy decides what happens to ghost frames that fall outside the
// loop tag.
type LoopPolicy uint8

const (
	// LoopClip drops frames outside the tag.
	LoopClip LoopPolicy = iota

	// LoopWrap wraps frames around the tag, as an animation loop would
	// play them.
	LoopWrap
)

// Default ghost tints.
var (
	DefaultPrevTint = color.NRGBA(colornames.Red)
	DefaultNextTint = color.NRGBA(colornames.Blue)
)

// OnionskinOptions configures ghost frames. The zero value disables them.
type OnionskinOptions struct {
	Type     OnionskinType
	Position OnionskinPosition

	// PrevFrames and NextFrames are the number of ghosts on each side.
	PrevFrames int
	NextFrames int

	// Ghost opacity is OpacityBase - OpacityStep*(distance-1), clamped
	// to [0, 255].
	OpacityBase int
	OpacityStep int

	// LoopTag, when set, restricts ghosts to the tag's frames.
	LoopTag    *sprite.Tag
	LoopPolicy LoopPolicy

	// Layer restricts ghosts to one layer subtree. Zero means the whole
	// sprite (the root).
	Layer sprite.LayerID

	// PrevTint and NextTint colour OnionskinTint ghosts. Zero values use
	// DefaultPrevTint and DefaultNextTint.
	PrevTint color.NRGBA
	NextTint color.NRGBA
}

// Ghost is one onion-skin frame to draw.
type Ghost struct {
	Frame    sprite.Frame
	Distance int
	Opacity  uint8
	Previous bool
}

// Mode returns the blend mode ghosts are drawn with.
func (o *OnionskinOptions) Mode() sprite.BlendMode {
	switch o.Type {
	case OnionskinMerge:
		return sprite.BlendNormal
	case OnionskinTint:
		return sprite.BlendTint
	default:
		return sprite.BlendUnspecified
	}
}

// TintFor returns the tint colour of a ghost.
func (o *OnionskinOptions) TintFor(g Ghost) color.NRGBA {
	if g.Previous {
		if o.PrevTint == (color.NRGBA{}) {
			return DefaultPrevTint
		}
		return o.PrevTint
	}
	if o.NextTint == (color.NRGBA{}) {
		return DefaultNextTint
	}
	return o.NextTint
}

func (o *OnionskinOptions) opacity(distance int) uint8 {
	v := o.OpacityBase - o.OpacityStep*(distance-1)
	return uint8(max(0, min(255, v)))
}

// Ghosts returns the frames to draw around current, in drawing order:
// previous frames from farthest to nearest, then next frames from farthest
// to nearest, so nearer ghosts overdraw farther ones.
//
// Frames outside [0, total) are dropped, as are ghosts with zero opacity.
// With a loop tag, out-of-tag frames are dropped (LoopClip) or wrapped
// around the tag (LoopWrap); a wrapped frame equal to current is dropped
// and a frame is never returned twice, keeping its nearest occurrence.
func Ghosts(current sprite.Frame, o OnionskinOptions, total int) []Ghost {
	if o.Type == OnionskinNone {
		return nil
	}

	seen := make(map[sprite.Frame]int) // frame -> index in cand
	var cand []Ghost
	add := func(out sprite.Frame, dist int, prev bool) {
		in, ok := o.resolve(out)
		if !ok || in == current || in < 0 || int(in) >= total {
			return
		}
		g := Ghost{Frame: in, Distance: dist, Opacity: o.opacity(dist), Previous: prev}
		if i, dup := seen[in]; dup {
			if cand[i].Distance <= dist {
				return
			}
			cand[i] = g
			return
		}
		seen[in] = len(cand)
		cand = append(cand, g)
	}
	// Nearest first so duplicates keep the nearest occurrence.
	for d := 1; d <= max(o.PrevFrames, o.NextFrames); d++ {
		if d <= o.PrevFrames {
			add(current-sprite.Frame(d), d, true)
		}
		if d <= o.NextFrames {
			add(current+sprite.Frame(d), d, false)
		}
	}

	ghosts := cand[:0:0]
	for _, g := range cand {
		if g.Opacity > 0 {
			ghosts = append(ghosts, g)
		}
	}
	slices.SortStableFunc(ghosts, func(a, b Ghost) int {
		if a.Previous != b.Previous {
			if a.Previous {
				return -1
			}
			return 1
		}
		return b.Distance - a.Distance
	})
	return ghosts
}

// resolve maps an onion frame through the loop tag.
func (o *OnionskinOptions) resolve(out sprite.Frame) (sprite.Frame, bool) {
	tag := o.LoopTag
	if tag == nil || tag.Contains(out) {
		return out, true
	}
	if o.LoopPolicy == LoopClip {
		return 0, false
	}
	n := sprite.Frame(tag.Len())
	rel := (out - tag.From) % n
	if rel < 0 {
		rel += n
	}
	return tag.From + rel, true
}
