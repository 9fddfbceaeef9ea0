// Package blend implements the separable layer blend modes.
//
// Separable modes combine each colour channel independently with a
// channel function B(b, s) of the backdrop and source values.
package blend

import (
	"image/color"
	"math"
)

// separable applies ch to every colour channel, keeps the source alpha and
// composites the result with Normal.
func separable(b, s color.NRGBA, opacity uint8, ch func(b, s int) int) color.NRGBA {
	s.R = uint8(clamp255(ch(int(b.R), int(s.R))))
	s.G = uint8(clamp255(ch(int(b.G), int(s.G))))
	s.B = uint8(clamp255(ch(int(b.B), int(s.B))))
	return Normal(b, s, opacity)
}

// Channel functions. b is the backdrop value, s the source value.

func chMultiply(b, s int) int { return mulUN8(b, s) }

func chScreen(b, s int) int { return b + s - mulUN8(b, s) }

func chOverlay(b, s int) int { return chHardLight(s, b) }

func chDarken(b, s int) int { return min(b, s) }

func chLighten(b, s int) int { return max(b, s) }

func chHardLight(b, s int) int {
	if s < 128 {
		return chMultiply(b, s<<1)
	}
	return chScreen(b, (s<<1)-255)
}

func chColorDodge(b, s int) int {
	if b == 0 {
		return 0
	}
	s = 255 - s
	if b >= s {
		return 255
	}
	return divUN8(b, s)
}

func chColorBurn(b, s int) int {
	if b == 255 {
		return 255
	}
	b = 255 - b
	if b >= s {
		return 0
	}
	return 255 - divUN8(b, s)
}

func chSoftLight(bi, si int) int {
	b := float64(bi) / 255
	s := float64(si) / 255

	var d float64
	if b <= 0.25 {
		d = ((16*b-12)*b + 4) * b
	} else {
		d = math.Sqrt(b)
	}

	var r float64
	if s <= 0.5 {
		r = b - (1-2*s)*b*(1-b)
	} else {
		r = b + (2*s-1)*(d-b)
	}
	return int(r*255 + 0.5)
}

func chDifference(b, s int) int { return absInt(b - s) }

func chExclusion(b, s int) int { return b + s - 2*mulUN8(b, s) }

func chAddition(b, s int) int { return min(b+s, 255) }

func chSubtract(b, s int) int { return max(b-s, 0) }

func chDivide(b, s int) int {
	if b == 0 {
		return 0
	}
	if b >= s {
		return 255
	}
	return divUN8(b, s)
}

// Multiply darkens: B(b, s) = b * s.
func Multiply(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chMultiply)
}

// Screen lightens: B(b, s) = b + s - b*s.
func Screen(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chScreen)
}

// Overlay is HardLight with the operands swapped.
func Overlay(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chOverlay)
}

// Darken keeps the darker channel.
func Darken(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chDarken)
}

// Lighten keeps the lighter channel.
func Lighten(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chLighten)
}

// ColorDodge brightens the backdrop: B(b, s) = b / (1 - s).
func ColorDodge(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chColorDodge)
}

// ColorBurn darkens the backdrop: B(b, s) = 1 - (1 - b) / s.
func ColorBurn(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chColorBurn)
}

// HardLight multiplies or screens depending on the source.
func HardLight(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chHardLight)
}

// SoftLight is a softer HardLight.
func SoftLight(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chSoftLight)
}

// Difference: B(b, s) = |b - s|.
func Difference(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chDifference)
}

// Exclusion: B(b, s) = b + s - 2*b*s.
func Exclusion(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chExclusion)
}

// Addition: B(b, s) = min(b + s, 1).
func Addition(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chAddition)
}

// Subtract: B(b, s) = max(b - s, 0).
func Subtract(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chSubtract)
}

// Divide: B(b, s) = b / s.
func Divide(b, s color.NRGBA, opacity uint8) color.NRGBA {
	return separable(b, s, opacity, chDivide)
}
