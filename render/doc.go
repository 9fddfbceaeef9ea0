// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render composites sprite frames into images.
//
// A render call walks the layer tree of one frame from bottom to top and
// blends every visible cel into a destination image of any pixel format,
// using the same 8-bit arithmetic as Aseprite so that results match pixel
// for pixel.
//
// # Pipeline
//
// RenderSprite draws, in order:
//
//  1. the background (none, transparent or a checkerboard)
//  2. the background layer
//  3. onion-skin ghosts, when placed behind
//  4. every other layer, with preview and extra patches substituted inline
//  5. onion-skin ghosts, when placed in front
//  6. overlays not bound to a layer
//
// # Requests
//
// All settings travel in a Request value built with NewRequest and
// functional options. Requests are immutable, so one request may drive any
// number of concurrent render calls:
//
//	req := render.NewRequest(
//	    render.WithProjection(render.NewProjection(render.Zoom{Num: 2, Den: 1}, render.PixelRatio{})),
//	    render.WithBackground(render.DefaultBackground()),
//	    render.WithOnionskin(render.OnionskinOptions{
//	        Type:        render.OnionskinTint,
//	        PrevFrames:  1,
//	        NextFrames:  1,
//	        OpacityBase: 128,
//	        OpacityStep: 32,
//	    }),
//	)
//	dst, _ := sprite.NewImage(2*s.Width(), 2*s.Height(), sprite.FormatRGB)
//	render.RenderSprite(dst, s, 0, render.FullClip(s.Width(), s.Height(), req.Projection()), req)
//
// Renderer wraps a Request behind setters for editors that change one
// setting at a time.
//
// # Clips
//
// A Clip pairs a rectangle of the destination with the same-sized rectangle
// of projected sprite space. Rendering is clip-exact: splitting a clip into
// pieces and rendering each gives the same pixels as one call. The
// TiledRenderer relies on this to render tiles in parallel, and
// DirtyTracker to re-render only the tiles that changed.
//
// # Composite routines
//
// Lookup returns the routine for a (destination format, source format,
// blend mode) triple from a table built at init. Routines sample the
// source with nearest-neighbour scaling.
//
// # Errors
//
// Programming errors (nil images, frames out of range, negative clips)
// panic. Missing optional data, such as an empty cel, draws nothing.
package render
