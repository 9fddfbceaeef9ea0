// Package parallel provides the tile scheduling used by the tiled sprite
// renderer.
//
// An area is divided into square tiles aligned to a fixed grid, so that the
// same sprite pixel always falls in the same tile no matter which sub-area
// is rendered. Tiles are rendered independently on a WorkerPool, and a
// DirtyRegion remembers which of them need rendering again.
//
// Thread safety: Grid is immutable. WorkerPool and DirtyRegion are safe for
// concurrent use.
package parallel

import "image"

// DefaultTileSize is the tile edge used when none is given. 64×64 RGBA
// pixels is 16KB, which fits L1 cache.
const DefaultTileSize = 64

// Grid is a tile grid covering an area. Tile (0, 0) is the tile holding
// the area's top-left pixel; tiles on the border are clipped to the area.
type Grid struct {
	area image.Rectangle
	size int

	// first is the grid-aligned origin of tile (0, 0).
	first          image.Point
	tilesX, tilesY int
}

// NewGrid creates a grid of size×size tiles over area. Tile edges fall on
// multiples of size. A size of 0 or less uses DefaultTileSize.
func NewGrid(area image.Rectangle, size int) Grid {
	if size <= 0 {
		size = DefaultTileSize
	}
	g := Grid{area: area.Canon(), size: size}
	if g.area.Empty() {
		return g
	}
	g.first = image.Pt(alignDown(g.area.Min.X, size), alignDown(g.area.Min.Y, size))
	g.tilesX = (alignDown(g.area.Max.X-1, size)-g.first.X)/size + 1
	g.tilesY = (alignDown(g.area.Max.Y-1, size)-g.first.Y)/size + 1
	return g
}

// Area returns the rectangle covered by the grid.
func (g Grid) Area() image.Rectangle { return g.area }

// TileSize returns the tile edge in pixels.
func (g Grid) TileSize() int { return g.size }

// TilesX returns the number of tile columns.
func (g Grid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g Grid) TilesY() int { return g.tilesY }

// TotalTiles returns the number of tiles.
func (g Grid) TotalTiles() int { return g.tilesX * g.tilesY }

// Rect returns the pixels of tile (tx, ty), clipped to the area. It is
// empty for tiles outside the grid.
func (g Grid) Rect(tx, ty int) image.Rectangle {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return image.Rectangle{}
	}
	min := g.first.Add(image.Pt(tx*g.size, ty*g.size))
	r := image.Rectangle{Min: min, Max: min.Add(image.Pt(g.size, g.size))}
	return r.Intersect(g.area)
}

// Span returns the inclusive tile range touched by r. ok is false when r
// does not overlap the area.
func (g Grid) Span(r image.Rectangle) (tx1, ty1, tx2, ty2 int, ok bool) {
	r = r.Intersect(g.area)
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	tx1 = (alignDown(r.Min.X, g.size) - g.first.X) / g.size
	ty1 = (alignDown(r.Min.Y, g.size) - g.first.Y) / g.size
	tx2 = (alignDown(r.Max.X-1, g.size) - g.first.X) / g.size
	ty2 = (alignDown(r.Max.Y-1, g.size) - g.first.Y) / g.size
	return tx1, ty1, tx2, ty2, true
}

// Tiles returns every tile rectangle in row-major order.
func (g Grid) Tiles() []image.Rectangle {
	tiles := make([]image.Rectangle, 0, g.TotalTiles())
	for ty := range g.tilesY {
		for tx := range g.tilesX {
			tiles = append(tiles, g.Rect(tx, ty))
		}
	}
	return tiles
}

// alignDown rounds v down to a multiple of size, toward negative infinity.
func alignDown(v, size int) int {
	q := v / size
	if v%size != 0 && v < 0 {
		q--
	}
	return q * size
}
