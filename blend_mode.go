// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import "strings"

// BlendMode selects the per-pixel formula used to combine a layer with the
// pixels below it. The zero value is BlendNormal.
type BlendMode int8

// Special modes. They never appear on layers loaded from a document.
const (
	// BlendUnspecified means "use the layer's own mode" when passed as an
	// override, and opaque replace when it reaches a composite routine.
	BlendUnspecified BlendMode = -1

	// BlendSrc replaces the destination with the source.
	BlendSrc BlendMode = -2

	// BlendTint draws the source luma tinted toward a colour; used for
	// onion-skin ghosts.
	BlendTint BlendMode = -3
)

// Layer blend modes.
const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
	BlendAddition
	BlendSubtract
	BlendDivide

	blendModeCount
)

var blendModeNames = [blendModeCount]string{
	BlendNormal:     "Normal",
	BlendMultiply:   "Multiply",
	BlendScreen:     "Screen",
	BlendOverlay:    "Overlay",
	BlendDarken:     "Darken",
	BlendLighten:    "Lighten",
	BlendColorDodge: "ColorDodge",
	BlendColorBurn:  "ColorBurn",
	BlendHardLight:  "HardLight",
	BlendSoftLight:  "SoftLight",
	BlendDifference: "Difference",
	BlendExclusion:  "Exclusion",
	BlendHue:        "Hue",
	BlendSaturation: "Saturation",
	BlendColor:      "Color",
	BlendLuminosity: "Luminosity",
	BlendAddition:   "Addition",
	BlendSubtract:   "Subtract",
	BlendDivide:     "Divide",
}

// LayerBlendModes returns the modes a layer may carry, in enum order.
func LayerBlendModes() []BlendMode {
	modes := make([]BlendMode, 0, blendModeCount)
	for m := BlendNormal; m < blendModeCount; m++ {
		modes = append(modes, m)
	}
	return modes
}

// AllBlendModes returns the layer modes followed by the special modes.
func AllBlendModes() []BlendMode {
	return append(LayerBlendModes(), BlendUnspecified, BlendSrc, BlendTint)
}

// IsLayerMode reports whether m may be stored on a layer.
func (m BlendMode) IsLayerMode() bool {
	return m >= BlendNormal && m < blendModeCount
}

// String returns the mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendUnspecified:
		return "Unspecified"
	case BlendSrc:
		return "Src"
	case BlendTint:
		return "Tint"
	}
	if m.IsLayerMode() {
		return blendModeNames[m]
	}
	return "Unknown"
}

// ParseBlendMode returns the layer mode whose String matches name, ignoring case.
func ParseBlendMode(name string) (BlendMode, bool) {
	for m := BlendNormal; m < blendModeCount; m++ {
		if strings.EqualFold(blendModeNames[m], name) {
			return m, true
		}
	}
	return BlendNormal, false
}
