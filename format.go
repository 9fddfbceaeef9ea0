// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import "github.com/gogpu/gputypes"

// PixelFormat represents how an Image stores its pixels.
type PixelFormat uint8

const (
	// FormatRGB stores unpremultiplied R, G, B, A bytes (4 bytes per pixel).
	FormatRGB PixelFormat = iota

	// FormatGrayscale stores a value byte and an alpha byte (2 bytes per pixel).
	FormatGrayscale

	// FormatIndexed stores one palette index per pixel.
	FormatIndexed

	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	BytesPerPixel int
	Channels      int
	HasAlpha      bool
	IsIndexed     bool
	IsGrayscale   bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatRGB: {
		BytesPerPixel: 4,
		Channels:      4,
		HasAlpha:      true,
	},
	FormatGrayscale: {
		BytesPerPixel: 2,
		Channels:      2,
		HasAlpha:      true,
		IsGrayscale:   true,
	},
	FormatIndexed: {
		BytesPerPixel: 1,
		Channels:      1,
		IsIndexed:     true,
	},
}

// Formats lists every valid pixel format.
func Formats() []PixelFormat {
	return []PixelFormat{FormatRGB, FormatGrayscale, FormatIndexed}
}

// Info returns the FormatInfo for f, or the zero value for unknown formats.
func (f PixelFormat) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel.
func (f PixelFormat) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// IsValid reports whether f is a known format.
func (f PixelFormat) IsValid() bool {
	return f < formatCount
}

// RowBytes returns the number of bytes needed for a row of width pixels.
func (f PixelFormat) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// TextureFormat returns the GPU texture format a host renderer should use to
// upload an image of this format. Indexed images upload raw indices.
func (f PixelFormat) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGB:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatGrayscale:
		return gputypes.TextureFormatRG8Unorm
	case FormatIndexed:
		return gputypes.TextureFormatR8Uint
	default:
		return gputypes.TextureFormatUndefined
	}
}

// String returns a string representation of the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatRGB:
		return "RGB"
	case FormatGrayscale:
		return "Grayscale"
	case FormatIndexed:
		return "Indexed"
	default:
		return "Unknown"
	}
}
