// Package blend implements HSL-based non-separable blend modes.
//
// These modes (Hue, Saturation, Color, Luminosity) work on the whole RGB
// triplet. Channels are converted to [0, 1], combined with the W3C
// Lum/Sat/SetLum/SetSat helpers, and truncated back to bytes.
//
// References:
//   - W3C Compositing and Blending Level 1, section 8: Non-separable blend modes
package blend

import "image/color"

// Lum returns the luminance of a colour using BT.601 coefficients.
// Formula: Lum(r, g, b) = 0.30*r + 0.59*g + 0.11*b
func Lum(r, g, b float64) float64 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat returns the saturation (max - min) of a colour.
func Sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

// ClipColor brings components back into [0, 1] while preserving luminance.
func ClipColor(r, g, b float64) (float64, float64, float64) {
	l := Lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)

	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// SetLum shifts a colour to luminance l, then clips it.
func SetLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat rescales a colour to saturation s, keeping the channel order.
// A gray input has no hue and becomes black.
func SetSat(r, g, b, s float64) (float64, float64, float64) {
	lo, mid, hi := sortRGB(&r, &g, &b)
	if *hi > *lo {
		*mid = (*mid - *lo) * s / (*hi - *lo)
		*hi = s
	} else {
		*mid, *hi = 0, 0
	}
	*lo = 0
	return r, g, b
}

// sortRGB returns pointers to r, g, b ordered by value.
func sortRGB(r, g, b *float64) (lo, mid, hi *float64) {
	switch {
	case *r <= *g && *g <= *b:
		return r, g, b
	case *r <= *b && *b <= *g:
		return r, b, g
	case *b <= *r && *r <= *g:
		return b, r, g
	case *g <= *r && *r <= *b:
		return g, r, b
	case *g <= *b && *b <= *r:
		return g, b, r
	default:
		return b, g, r
	}
}

func unit(c color.NRGBA) (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// nonSeparable replaces the source colour with f's result, keeping the
// source alpha, and composites it with Normal.
func nonSeparable(b, s color.NRGBA, opacity uint8, f func(br, bg, bb, sr, sg, sb float64) (float64, float64, float64)) color.NRGBA {
	br, bg, bb := unit(b)
	sr, sg, sb := unit(s)
	r, g, bl := f(br, bg, bb, sr, sg, sb)
	s.R = uint8(clamp255(int(255 * r)))
	s.G = uint8(clamp255(int(255 * g)))
	s.B = uint8(clamp255(int(255 * bl)))
	return Normal(b, s, opacity)
}

// Hue takes the hue of the source with the saturation and luminosity of the
// backdrop: SetLum(SetSat(Cs, Sat(Cb)), Lum(Cb)).
func Hue(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return nonSeparable(b, s, opacity, func(br, bg, bb, sr, sg, sb float64) (float64, float64, float64) {
		r, g, bl := SetSat(sr, sg, sb, Sat(br, bg, bb))
		return SetLum(r, g, bl, Lum(br, bg, bb))
	})
}

// Saturation takes the saturation of the source with the hue and luminosity
// of the backdrop: SetLum(SetSat(Cb, Sat(Cs)), Lum(Cb)).
func Saturation(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return nonSeparable(b, s, opacity, func(br, bg, bb, sr, sg, sb float64) (float64, float64, float64) {
		l := Lum(br, bg, bb)
		r, g, bl := SetSat(br, bg, bb, Sat(sr, sg, sb))
		return SetLum(r, g, bl, l)
	})
}

// Color takes the hue and saturation of the source with the luminosity of
// the backdrop: SetLum(Cs, Lum(Cb)).
func Color(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return nonSeparable(b, s, opacity, func(br, bg, bb, sr, sg, sb float64) (float64, float64, float64) {
		return SetLum(sr, sg, sb, Lum(br, bg, bb))
	})
}

// Luminosity takes the luminosity of the source with the hue and saturation
// of the backdrop: SetLum(Cb, Lum(Cs)).
func Luminosity(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return nonSeparable(b, s, opacity, func(br, bg, bb, sr, sg, sb float64) (float64, float64, float64) {
		return SetLum(br, bg, bb, Lum(sr, sg, sb))
	})
}
