// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

import "errors"

// Errors returned while building or editing a document.
var (
	// ErrInvalidDimensions is returned when a width or height is not positive.
	ErrInvalidDimensions = errors.New("sprite: invalid dimensions")

	// ErrInvalidFormat is returned for an unknown pixel format.
	ErrInvalidFormat = errors.New("sprite: invalid pixel format")

	// ErrDataTooSmall is returned when a raw pixel slice cannot hold the image.
	ErrDataTooSmall = errors.New("sprite: data buffer too small")

	// ErrLayerNotFound is returned when a LayerID does not name a layer.
	ErrLayerNotFound = errors.New("sprite: layer not found")

	// ErrNotGroup is returned when children are added to a non-group layer.
	ErrNotGroup = errors.New("sprite: layer is not a group")

	// ErrNotImageLayer is returned when a cel is bound to a group layer.
	ErrNotImageLayer = errors.New("sprite: layer cannot hold cels")

	// ErrNotBackground is returned when a layer cannot become the background.
	ErrNotBackground = errors.New("sprite: layer cannot be the background")

	// ErrFrameOutOfRange is returned for frames outside [0, TotalFrames).
	ErrFrameOutOfRange = errors.New("sprite: frame out of range")

	// ErrCelNotFound is returned when linking to a frame without a cel.
	ErrCelNotFound = errors.New("sprite: cel not found")

	// ErrInvalidTag is returned for an empty name or a reversed frame range.
	ErrInvalidTag = errors.New("sprite: invalid tag")
)
