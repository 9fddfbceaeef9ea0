// Package blend implements the per-pixel layer blend modes.
//
// All colours are unpremultiplied 8-bit RGBA. Every Func receives the
// backdrop (the destination pixel), the source pixel and an opacity that
// scales the source alpha. Blend modes compute a new source colour from
// the two pixels, keep the source alpha, then composite the result with
// Normal.
package blend

import (
	"image/color"

	"github.com/gogpu/sprite"
)

// Func is the signature for blend operations.
// Parameters:
//   - b: backdrop colour (unpremultiplied)
//   - s: source colour (unpremultiplied)
//   - opacity: scale applied to the source alpha, 0-255
//
// Returns: resulting colour.
type Func func(b, s color.NRGBA, opacity uint8) color.NRGBA

// Get returns the blend function for a layer mode.
// Special modes and unknown modes return Normal, except BlendSrc which
// returns Src. Tint needs a colour; use Tint for it.
func Get(mode sprite.BlendMode) Func {
	switch mode {
	case sprite.BlendSrc, sprite.BlendUnspecified:
		return Src
	case sprite.BlendMultiply:
		return Multiply
	case sprite.BlendScreen:
		return Screen
	case sprite.BlendOverlay:
		return Overlay
	case sprite.BlendDarken:
		return Darken
	case sprite.BlendLighten:
		return Lighten
	case sprite.BlendColorDodge:
		return ColorDodge
	case sprite.BlendColorBurn:
		return ColorBurn
	case sprite.BlendHardLight:
		return HardLight
	case sprite.BlendSoftLight:
		return SoftLight
	case sprite.BlendDifference:
		return Difference
	case sprite.BlendExclusion:
		return Exclusion
	case sprite.BlendHue:
		return Hue
	case sprite.BlendSaturation:
		return Saturation
	case sprite.BlendColor:
		return Color
	case sprite.BlendLuminosity:
		return Luminosity
	case sprite.BlendAddition:
		return Addition
	case sprite.BlendSubtract:
		return Subtract
	case sprite.BlendDivide:
		return Divide
	default:
		return Normal
	}
}

// Src replaces the backdrop with the source. Opacity is ignored.
func Src(_, s color.NRGBA, _ uint8) color.NRGBA {
	return s
}

// Normal composites the source over the backdrop.
//
// Formula:
//
//	Sa = Sa * opacity
//	Ra = Sa + Ba - Ba*Sa
//	Rc = Bc + (Sc - Bc) * Sa / Ra
//
// A transparent backdrop takes the source colour unchanged; a transparent
// source leaves the backdrop untouched.
func Normal(b, s color.NRGBA, opacity uint8) color.NRGBA {
	if b.A == 0 {
		s.A = uint8(mulUN8(int(s.A), int(opacity)))
		return s
	}
	if s.A == 0 {
		return b
	}

	sa := mulUN8(int(s.A), int(opacity))
	ba := int(b.A)
	ra := sa + ba - mulUN8(ba, sa)

	return color.NRGBA{
		R: uint8(int(b.R) + (int(s.R)-int(b.R))*sa/ra),
		G: uint8(int(b.G) + (int(s.G)-int(b.G))*sa/ra),
		B: uint8(int(b.B) + (int(s.B)-int(b.B))*sa/ra),
		A: uint8(ra),
	}
}

// Tint returns a blend function that draws the source luma tinted toward c,
// composited with Normal. Onion-skin ghosts use it to tell previous and
// next frames apart.
func Tint(c color.NRGBA) Func {
	tr, tg, tb := int(c.R), int(c.G), int(c.B)
	return func(b, s color.NRGBA, opacity uint8) color.NRGBA {
		v := int(sprite.Luma(s.R, s.G, s.B))
		s.R = uint8((tr + v) / 2)
		s.G = uint8((tg + v) / 2)
		s.B = uint8((tb + v) / 2)
		return Normal(b, s, opacity)
	}
}

// Gray adapts an RGB blend function to a value/alpha backdrop: the value is
// spread over three channels, blended with s, and reduced back to luma.
func Gray(f Func) func(bv, ba uint8, s color.NRGBA, opacity uint8) (v, a uint8) {
	return func(bv, ba uint8, s color.NRGBA, opacity uint8) (uint8, uint8) {
		return sprite.GrayOf(f(color.NRGBA{R: bv, G: bv, B: bv, A: ba}, s, opacity))
	}
}
