// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sprite provides the document model read by the sprite compositor.
//
// # Overview
//
// A [Sprite] is a layered, animated document: a tree of layers rooted at a
// group, a number of frames, palettes that may change per frame and named
// frame tags. Image layers bind one [Cel] per frame, and every cel points to
// an [Image] placed at an offset inside the sprite canvas.
//
// The package only models data. Flattening a sprite into a raster buffer is
// done by the render subpackage:
//
//	s, _ := sprite.New(32, 32, sprite.FormatRGB, 4)
//	bg, _ := s.AddLayer(s.Root().ID(), sprite.LayerImage, "background")
//	img, _ := sprite.NewImage(32, 32, sprite.FormatRGB)
//	img.Fill(color.NRGBA{R: 255, A: 255})
//	s.SetCel(bg.ID(), 0, img, image.Point{})
//
//	dst, _ := sprite.NewImage(32, 32, sprite.FormatRGB)
//	render.RenderSprite(dst, s, 0, render.FullClip(32, 32, render.Projection{}), render.NewRequest())
//
// # Layers
//
// Layers form a closed set of variants selected by [LayerKind]: image layers,
// group layers and reference layers. A layer refers to its parent by
// [LayerID], an index into the sprite's layer table, never by pointer.
//
// # Pixel formats
//
// Images are stored as RGB (unpremultiplied RGBA, 4 bytes per pixel),
// grayscale (value and alpha, 2 bytes) or indexed (1 byte palette index).
//
// # Concurrency
//
// Sprite and its layers, cels, images and palettes are not synchronized.
// Callers must not mutate a sprite while a render call reads it.
package sprite
