// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sprite

// AniDir is the playback direction of a tag.
type AniDir uint8

const (
	AniForward AniDir = iota
	AniReverse
	AniPingPong
)

// Tag names an inclusive range of frames, used for animation loops.
type Tag struct {
	Name   string
	From   Frame
	To     Frame
	AniDir AniDir
}

// Contains reports whether f lies inside the tag.
func (t *Tag) Contains(f Frame) bool {
	return f >= t.From && f <= t.To
}

// Len returns the number of frames covered by the tag.
func (t *Tag) Len() int {
	return int(t.To-t.From) + 1
}
