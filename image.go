// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// Image is a dense pixel buffer with a fixed size and pixel format.
//
// Pixels are stored row by row in Pix; a row may be padded up to Stride
// bytes. The compositor reads images and only ever writes to the destination
// image passed to a render call.
type Image struct {
	pix    []byte
	width  int
	height int
	stride int
	format PixelFormat
}

// NewImage creates a zeroed image. A zeroed image is fully transparent in
// RGB and grayscale formats and holds index 0 in indexed format.
func NewImage(width, height int, format PixelFormat) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	stride := format.RowBytes(width)
	return &Image{
		pix:    make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying. The caller keeps data
// alive for the lifetime of the image.
func FromRaw(data []byte, width, height int, format PixelFormat, stride int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, fmt.Errorf("stride %d for width %d: %w", stride, width, ErrDataTooSmall)
	}
	if len(data) < stride*height {
		return nil, ErrDataTooSmall
	}
	return &Image{
		pix:    data[:stride*height],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromImage converts any image.Image into a new RGB image.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	img, err := NewImage(b.Dx(), b.Dy(), FormatRGB)
	if err != nil {
		return nil, err
	}
	nrgba := &image.NRGBA{Pix: img.pix, Stride: img.stride, Rect: image.Rect(0, 0, img.width, img.height)}
	draw.Copy(nrgba, image.Point{}, src, b, draw.Src, nil)
	return img, nil
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	pix := make([]byte, len(m.pix))
	copy(pix, m.pix)
	return &Image{pix: pix, width: m.width, height: m.height, stride: m.stride, format: m.format}
}

// Width returns the width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the height in pixels.
func (m *Image) Height() int { return m.height }

// Stride returns the number of bytes per row.
func (m *Image) Stride() int { return m.stride }

// Format returns the pixel format.
func (m *Image) Format() PixelFormat { return m.format }

// Pix returns the raw pixel data.
func (m *Image) Pix() []byte { return m.pix }

// Bounds returns the image rectangle, always anchored at the origin.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// TextureFormat returns the GPU format matching the image's pixel format.
func (m *Image) TextureFormat() gputypes.TextureFormat {
	return m.format.TextureFormat()
}

// PixOffset returns the byte offset of pixel (x, y), or -1 when out of bounds.
func (m *Image) PixOffset(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return -1
	}
	return y*m.stride + x*m.format.BytesPerPixel()
}

// RowBytes returns the pixel bytes of row y, or nil when out of bounds.
func (m *Image) RowBytes(y int) []byte {
	if y < 0 || y >= m.height {
		return nil
	}
	start := y * m.stride
	return m.pix[start : start+m.format.RowBytes(m.width)]
}

// RGBA returns the colour at (x, y) for RGB and grayscale images.
// Indexed images and out-of-bounds coordinates return Transparent; use
// Index together with a palette for indexed images.
func (m *Image) RGBA(x, y int) color.NRGBA {
	off := m.PixOffset(x, y)
	if off < 0 {
		return Transparent
	}
	switch m.format {
	case FormatRGB:
		return color.NRGBA{R: m.pix[off], G: m.pix[off+1], B: m.pix[off+2], A: m.pix[off+3]}
	case FormatGrayscale:
		v := m.pix[off]
		return color.NRGBA{R: v, G: v, B: v, A: m.pix[off+1]}
	default:
		return Transparent
	}
}

// SetRGBA stores c at (x, y). Grayscale images store the luma of c.
// It is a no-op for indexed images and out-of-bounds coordinates.
func (m *Image) SetRGBA(x, y int, c color.NRGBA) {
	off := m.PixOffset(x, y)
	if off < 0 {
		return
	}
	m.putRGBA(off, c)
}

func (m *Image) putRGBA(off int, c color.NRGBA) {
	switch m.format {
	case FormatRGB:
		m.pix[off], m.pix[off+1], m.pix[off+2], m.pix[off+3] = c.R, c.G, c.B, c.A
	case FormatGrayscale:
		m.pix[off], m.pix[off+1] = GrayOf(c)
	}
}

// Index returns the palette index at (x, y) of an indexed image.
func (m *Image) Index(x, y int) uint8 {
	if m.format != FormatIndexed {
		return 0
	}
	off := m.PixOffset(x, y)
	if off < 0 {
		return 0
	}
	return m.pix[off]
}

// SetIndex stores a palette index at (x, y) of an indexed image.
func (m *Image) SetIndex(x, y int, i uint8) {
	if m.format != FormatIndexed {
		return
	}
	if off := m.PixOffset(x, y); off >= 0 {
		m.pix[off] = i
	}
}

// Clear zeroes every pixel.
func (m *Image) Clear() {
	clear(m.pix)
}

// Fill sets every pixel of an RGB or grayscale image to c.
func (m *Image) Fill(c color.NRGBA) {
	m.FillRect(m.Bounds(), c)
}

// FillRect sets the pixels of r (clipped to the image) to c.
func (m *Image) FillRect(r image.Rectangle, c color.NRGBA) {
	if m.format == FormatIndexed {
		return
	}
	r = r.Intersect(m.Bounds())
	bpp := m.format.BytesPerPixel()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y*m.stride + r.Min.X*bpp
		for x := r.Min.X; x < r.Max.X; x++ {
			m.putRGBA(off, c)
			off += bpp
		}
	}
}

// FillIndex sets every pixel of an indexed image to i.
func (m *Image) FillIndex(i uint8) {
	if m.format != FormatIndexed {
		return
	}
	for y := range m.height {
		row := m.RowBytes(y)
		for x := range row {
			row[x] = i
		}
	}
}

// ToNRGBA converts the image to a standard library image. Indexed pixels are
// resolved through pal; a nil palette maps every index to transparent.
func (m *Image) ToNRGBA(pal *Palette) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for y := range m.height {
		for x := range m.width {
			var c color.NRGBA
			if m.format == FormatIndexed {
				c = pal.Entry(int(m.Index(x, y)))
			} else {
				c = m.RGBA(x, y)
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}
