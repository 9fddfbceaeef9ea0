// Package blend provides fixed-point math for 8-bit (UN8) channel blending.
//
// mulUN8 and divUN8 treat bytes as fractions in [0, 1] where 255 means 1.
// Both are exact to the rounding used by the layer blend formulas, so
// results are reproducible bit for bit across platforms.
package blend

// mulUN8 returns round(a*b/255).
//
// Formula: t = a*b + 0x80; ((t >> 8) + t) >> 8
func mulUN8(a, b int) int {
	t := a*b + 0x80
	return ((t >> 8) + t) >> 8
}

// MulUN8 multiplies two opacities. It is used to compose layer, group and
// cel opacities.
func MulUN8(a, b uint8) uint8 {
	return uint8(mulUN8(int(a), int(b)))
}

// divUN8 returns round(a*255/b). b must not be zero.
func divUN8(a, b int) int {
	return (a*255 + b/2) / b
}

// clamp255 clamps an int to [0, 255].
func clamp255(x int) int {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
