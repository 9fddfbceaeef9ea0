// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"image"
	"sync/atomic"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/internal/parallel"
)

// TiledRenderer renders large areas as independent tiles on a worker pool.
// Tiles are aligned to multiples of the tile size in projected sprite
// space, and each one is a separate RenderSprite call, so the output equals
// a single call over the whole area.
//
// TiledRenderer is safe for concurrent use. Call Close to stop its workers.
type TiledRenderer struct {
	pool     *parallel.WorkerPool
	tileSize int
}

// NewTiledRenderer starts a renderer with the given number of workers and
// tile size. Zero or negative values pick GOMAXPROCS workers and 64 pixel
// tiles.
func NewTiledRenderer(workers, tileSize int) *TiledRenderer {
	if tileSize <= 0 {
		tileSize = parallel.DefaultTileSize
	}
	return &TiledRenderer{
		pool:     parallel.NewWorkerPool(workers),
		tileSize: tileSize,
	}
}

// Close stops the worker goroutines. Close is safe to call multiple times.
func (t *TiledRenderer) Close() { t.pool.Close() }

// Workers returns the number of worker goroutines.
func (t *TiledRenderer) Workers() int { return t.pool.Workers() }

// TileSize returns the tile edge in pixels.
func (t *TiledRenderer) TileSize() int { return t.tileSize }

// Render composites one frame over area, tile by tile. Cancellation is
// checked between tiles; a cancelled call leaves the unrendered tiles
// untouched and returns ctx.Err(). Preconditions are those of RenderSprite
// and are checked before any tile starts.
func (t *TiledRenderer) Render(ctx context.Context, dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, area Clip, req Request) error {
	checkArgs(dst, s, frame, area)
	if area.Empty() {
		return ctx.Err()
	}
	tiles := parallel.NewGrid(area.SrcBounds(), t.tileSize).Tiles()
	_, err := t.renderTiles(ctx, dst, s, frame, area, req, tiles)
	return err
}

// renderTiles renders the given projected rectangles and reports which of
// them were drawn.
func (t *TiledRenderer) renderTiles(ctx context.Context, dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, area Clip, req Request, tiles []image.Rectangle) ([]bool, error) {
	sprite.Logger().Debug("render tiles",
		"frame", frame,
		"tiles", len(tiles),
		"workers", t.pool.Workers())

	drawn := make([]atomic.Bool, len(tiles))
	jobs := make([]func(), len(tiles))
	for i, r := range tiles {
		jobs[i] = func() {
			RenderSprite(dst, s, frame, area.Sub(r), req)
			drawn[i].Store(true)
		}
	}
	err := t.pool.ExecuteAll(ctx, jobs)

	done := make([]bool, len(tiles))
	for i := range drawn {
		done[i] = drawn[i].Load()
	}
	return done, err
}

// DirtyTracker remembers which tiles of an area changed since they were
// last rendered.
//
// DirtyTracker is safe for concurrent use.
type DirtyTracker struct {
	area  Clip
	dirty *parallel.DirtyRegion
}

// NewDirtyTracker creates a tracker for area with tiles of tileSize pixels.
// Every tile starts dirty.
func NewDirtyTracker(area Clip, tileSize int) *DirtyTracker {
	d := &DirtyTracker{
		area:  area,
		dirty: parallel.NewDirtyRegion(parallel.NewGrid(area.SrcBounds(), tileSize)),
	}
	d.MarkAll()
	return d
}

// Area returns the tracked clip.
func (d *DirtyTracker) Area() Clip { return d.area }

// Mark flags every tile overlapping r, a rectangle in projected sprite
// space, for rendering.
func (d *DirtyTracker) Mark(r image.Rectangle) {
	if d.dirty != nil {
		d.dirty.MarkRect(r)
	}
}

// MarkSprite flags the tiles covering r, a rectangle in sprite
// coordinates, as it appears under proj.
func (d *DirtyTracker) MarkSprite(r image.Rectangle, proj Projection) {
	p := proj.Apply(r)
	// Apply rounds down; widen so partially covered output pixels count.
	p.Max = p.Max.Add(image.Pt(1, 1))
	d.Mark(p)
}

// MarkAll flags every tile.
func (d *DirtyTracker) MarkAll() {
	if d.dirty != nil {
		d.dirty.MarkAll()
	}
}

// Count returns the number of tiles waiting to be rendered.
func (d *DirtyTracker) Count() int {
	if d.dirty == nil {
		return 0
	}
	return d.dirty.Count()
}

// RenderDirty re-renders the dirty tiles with tr and marks them clean. It
// returns the number of tiles drawn. Tiles skipped by a cancelled ctx stay
// dirty.
func (d *DirtyTracker) RenderDirty(ctx context.Context, tr *TiledRenderer, dst *sprite.Image, s *sprite.Sprite, frame sprite.Frame, req Request) (int, error) {
	checkArgs(dst, s, frame, d.area)
	if d.dirty == nil {
		return 0, ctx.Err()
	}
	tiles := d.dirty.TakeDirty()
	if len(tiles) == 0 {
		return 0, ctx.Err()
	}

	done, err := tr.renderTiles(ctx, dst, s, frame, d.area, req, tiles)
	n := 0
	for i, ok := range done {
		if ok {
			n++
			continue
		}
		d.dirty.MarkRect(tiles[i])
	}
	return n, err
}
