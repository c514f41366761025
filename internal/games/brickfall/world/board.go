// Package world holds the static model of a brickfall board: grid geometry,
// bricks and the brick arena with its id-indexed occupancy matrix.
package world

import (
	"math"

	"github.com/vovakirdan/brickfall/internal/config"
	"github.com/vovakirdan/brickfall/internal/core"
)

// Board maps signed grid coordinates to pixels.
// Cells run from -HalfCols..HalfCols and -HalfRows..HalfRows, surrounded by
// SafeZone empty cells on every side. Pixel (0,0) is the top-left corner of
// the safe zone.
type Board struct {
	Cols     int
	Rows     int
	SafeZone int
	CellSize float64
	Border   float64
}

// NewBoard creates a board from config.
func NewBoard(cfg config.BoardConfig) Board {
	return Board{
		Cols:     cfg.Cols,
		Rows:     cfg.Rows,
		SafeZone: cfg.SafeZone,
		CellSize: cfg.CellSize,
		Border:   cfg.Border,
	}
}

// HalfCols returns the largest signed column index.
func (b Board) HalfCols() int { return b.Cols / 2 }

// HalfRows returns the largest signed row index.
func (b Board) HalfRows() int { return b.Rows / 2 }

// TotalCols is the number of columns including the safe zone.
func (b Board) TotalCols() int { return b.Cols + 2*b.SafeZone }

// TotalRows is the number of rows including the safe zone.
func (b Board) TotalRows() int { return b.Rows + 2*b.SafeZone }

// Bounds returns the pixel rectangle of the whole board.
func (b Board) Bounds() core.RectF {
	return core.NewRectF(0, 0, float64(b.TotalCols())*b.CellSize, float64(b.TotalRows())*b.CellSize)
}

// Walls returns the playfield rectangle used for wall collisions:
// the bounds inset by half a border.
func (b Board) Walls() core.RectF {
	return b.Bounds().Inset(b.Border / 2)
}

// InGrid reports whether signed grid coordinates are inside the brick grid.
func (b Board) InGrid(gx, gy int) bool {
	return gx >= -b.HalfCols() && gx <= b.HalfCols() && gy >= -b.HalfRows() && gy <= b.HalfRows()
}

// CellOrigin returns the top-left pixel of a grid cell.
func (b Board) CellOrigin(gx, gy int) core.Vec2 {
	return core.V(
		float64(gx+b.HalfCols()+b.SafeZone)*b.CellSize,
		float64(gy+b.HalfRows()+b.SafeZone)*b.CellSize,
	)
}

// GridToPixel returns the pixel center of a grid cell.
func (b Board) GridToPixel(gx, gy int) core.Vec2 {
	return b.CellOrigin(gx, gy).Add(core.V(b.CellSize/2, b.CellSize/2))
}

// PixelToGrid returns the grid cell containing a pixel. Coordinates are
// floored so a point exactly on a boundary belongs to the cell to its
// right/below. The result may lie outside the grid.
func (b Board) PixelToGrid(p core.Vec2) (gx, gy int) {
	gx = int(math.Floor(p.X/b.CellSize)) - b.SafeZone - b.HalfCols()
	gy = int(math.Floor(p.Y/b.CellSize)) - b.SafeZone - b.HalfRows()
	return gx, gy
}

// CellRect returns the pixel rectangle of a w×h block whose top-left cell is (gx, gy).
func (b Board) CellRect(gx, gy, w, h int) core.RectF {
	o := b.CellOrigin(gx, gy)
	return core.NewRectF(o.X, o.Y, float64(w)*b.CellSize, float64(h)*b.CellSize)
}

// LaunchOrigin returns where main balls start: bottom-center, half a cell
// above the bottom wall.
func (b Board) LaunchOrigin() core.Vec2 {
	w := b.Walls()
	return core.V(w.Center().X, w.Max.Y-b.CellSize/2)
}

// Radius converts a per-type radius multiplier into pixels.
func (b Board) Radius(multiplier float64) float64 {
	return multiplier * b.CellSize
}
