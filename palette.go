// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import "image/color"

// Palette is an ordered list of colours used to resolve indexed pixels.
type Palette struct {
	entries []color.NRGBA
}

// NewPalette creates a palette holding a copy of entries.
func NewPalette(entries ...color.NRGBA) *Palette {
	p := &Palette{entries: make([]color.NRGBA, len(entries))}
	copy(p.entries, entries)
	return p
}

// GrayRamp returns a 256-entry palette going from black to white.
func GrayRamp() *Palette {
	p := &Palette{entries: make([]color.NRGBA, 256)}
	for i := range p.entries {
		v := uint8(i)
		p.entries[i] = color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	return p
}

// Len returns the number of entries. A nil palette is empty.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Entry returns entry i, or Transparent when i is out of range.
func (p *Palette) Entry(i int) color.NRGBA {
	if p == nil || i < 0 || i >= len(p.entries) {
		return Transparent
	}
	return p.entries[i]
}

// SetEntry sets entry i, growing the palette when needed.
func (p *Palette) SetEntry(i int, c color.NRGBA) {
	if i < 0 {
		return
	}
	if i >= len(p.entries) {
		p.entries = append(p.entries, make([]color.NRGBA, i+1-len(p.entries))...)
	}
	p.entries[i] = c
}

// FindBestFit returns the index of the entry closest to c in RGB space.
// The mask index is skipped unless c is fully transparent, in which case the
// mask index itself is returned. A negative mask disables skipping.
func (p *Palette) FindBestFit(c color.NRGBA, mask int) uint8 {
	if c.A == 0 && mask >= 0 {
		return uint8(mask)
	}
	if p == nil {
		return 0
	}
	best, bestDist := 0, -1
	for i, e := range p.entries {
		if i == mask {
			continue
		}
		dr := int(e.R) - int(c.R)
		dg := int(e.G) - int(c.G)
		db := int(e.B) - int(c.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}
