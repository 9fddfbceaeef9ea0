// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import "image/color"

// Luma returns the Rec. 709 luma of an 8-bit RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((int(r)*2126 + int(g)*7152 + int(b)*722) / 10000)
}

// GrayOf converts c to the value/alpha pair stored by FormatGrayscale.
func GrayOf(c color.NRGBA) (v, a uint8) {
	return Luma(c.R, c.G, c.B), c.A
}

// Transparent is the zero colour used for empty pixels.
var Transparent = color.NRGBA{}
