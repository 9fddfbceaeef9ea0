package parallel

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DirtyRegion tracks which tiles of a Grid need rendering again, one bit
// per tile packed into atomic words. All methods are safe for concurrent
// use without external locking.
type DirtyRegion struct {
	grid Grid

	// Bit ty*tilesX+tx of words is set when tile (tx, ty) is dirty.
	words []atomic.Uint64
}

// NewDirtyRegion creates a tracker for g with every tile clean.
// It returns nil for a grid with no tiles.
func NewDirtyRegion(g Grid) *DirtyRegion {
	n := g.TotalTiles()
	if n == 0 {
		return nil
	}
	return &DirtyRegion{
		grid:  g,
		words: make([]atomic.Uint64, (n+63)/64),
	}
}

// Grid returns the tracked grid.
func (d *DirtyRegion) Grid() Grid { return d.grid }

// Mark marks tile (tx, ty) dirty. Out-of-range tiles are ignored.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.grid.tilesX || ty < 0 || ty >= d.grid.tilesY {
		return
	}
	i := ty*d.grid.tilesX + tx
	d.words[i/64].Or(1 << (i & 63))
}

// MarkRect marks every tile overlapping the pixel rectangle r.
func (d *DirtyRegion) MarkRect(r image.Rectangle) {
	tx1, ty1, tx2, ty2, ok := d.grid.Span(r)
	if !ok {
		return
	}
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// MarkAll marks every tile dirty.
func (d *DirtyRegion) MarkAll() {
	n := d.grid.TotalTiles()
	full := n / 64
	for i := range full {
		d.words[i].Store(^uint64(0))
	}
	if rem := n % 64; rem > 0 {
		d.words[full].Store(1<<rem - 1)
	}
}

// Clear marks every tile clean.
func (d *DirtyRegion) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// IsDirty reports whether tile (tx, ty) is dirty.
func (d *DirtyRegion) IsDirty(tx, ty int) bool {
	if tx < 0 || tx >= d.grid.tilesX || ty < 0 || ty >= d.grid.tilesY {
		return false
	}
	i := ty*d.grid.tilesX + tx
	return d.words[i/64].Load()&(1<<(i&63)) != 0
}

// IsEmpty reports whether no tile is dirty.
func (d *DirtyRegion) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of dirty tiles.
func (d *DirtyRegion) Count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

// TakeDirty atomically clears the dirty bits and returns the pixel
// rectangles of the tiles that were set, in row-major order.
func (d *DirtyRegion) TakeDirty() []image.Rectangle {
	var rects []image.Rectangle
	for w := range d.words {
		word := d.words[w].Swap(0)
		for word != 0 {
			b := bits.TrailingZeros64(word)
			i := w*64 + b
			rects = append(rects, d.grid.Rect(i%d.grid.tilesX, i/d.grid.tilesX))
			word &^= 1 << b
		}
	}
	return rects
}

// ForEachDirty calls fn with each dirty tile without clearing it.
func (d *DirtyRegion) ForEachDirty(fn func(tx, ty int)) {
	for w := range d.words {
		word := d.words[w].Load()
		for word != 0 {
			b := bits.TrailingZeros64(word)
			i := w*64 + b
			fn(i%d.grid.tilesX, i/d.grid.tilesX)
			word &^= 1 << b
		}
	}
}
