package world

import (
	"cmp"
	"slices"
)

// Matrix is the brick arena. Bricks live in an id-indexed slice and the
// grid stores ids, so a multi-cell brick is one entity referenced by every
// cell it occupies.
type Matrix struct {
	halfCols, halfRows int
	cols, rows         int
	cells              []BrickID
	arena              []*Brick // arena[id-1]; nil once removed
}

// NewMatrix creates an empty cols×rows matrix.
func NewMatrix(cols, rows int) *Matrix {
	return &Matrix{
		cols:     cols,
		rows:     rows,
		halfCols: cols / 2,
		halfRows: rows / 2,
		cells:    make([]BrickID, cols*rows),
	}
}

// Cols returns the grid width.
func (m *Matrix) Cols() int { return m.cols }

// Rows returns the grid height.
func (m *Matrix) Rows() int { return m.rows }

// InBounds reports whether signed coordinates lie in the grid.
func (m *Matrix) InBounds(gx, gy int) bool {
	return gx >= -m.halfCols && gx <= m.halfCols && gy >= -m.halfRows && gy <= m.halfRows
}

func (m *Matrix) index(gx, gy int) int {
	return (gy+m.halfRows)*m.cols + gx + m.halfCols
}

// IDAt returns the id at a cell, or 0 if empty or out of bounds.
func (m *Matrix) IDAt(gx, gy int) BrickID {
	if !m.InBounds(gx, gy) {
		return 0
	}
	return m.cells[m.index(gx, gy)]
}

// At returns the brick at a cell, or nil.
func (m *Matrix) At(gx, gy int) *Brick {
	return m.Get(m.IDAt(gx, gy))
}

// Get returns a live brick by id, or nil.
func (m *Matrix) Get(id BrickID) *Brick {
	if id <= 0 || int(id) > len(m.arena) {
		return nil
	}
	return m.arena[id-1]
}

// Fits reports whether a w×h block at (gx, gy) is in bounds and empty.
func (m *Matrix) Fits(gx, gy, w, h int) bool {
	for dy := range h {
		for dx := range w {
			if !m.InBounds(gx+dx, gy+dy) || m.IDAt(gx+dx, gy+dy) != 0 {
				return false
			}
		}
	}
	return true
}

// Place adds a brick, assigning its id. It returns false and leaves the
// matrix untouched when any target cell is occupied or out of bounds.
func (m *Matrix) Place(b *Brick) bool {
	if b.W < 1 {
		b.W = 1
	}
	if b.H < 1 {
		b.H = 1
	}
	if !m.Fits(b.X, b.Y, b.W, b.H) {
		return false
	}
	m.arena = append(m.arena, b)
	b.ID = BrickID(len(m.arena))
	b.Cells(func(gx, gy int) {
		m.cells[m.index(gx, gy)] = b.ID
	})
	return true
}

// Remove nulls every cell the brick occupies and drops it from the arena.
func (m *Matrix) Remove(id BrickID) *Brick {
	b := m.Get(id)
	if b == nil {
		return nil
	}
	b.Cells(func(gx, gy int) {
		if m.InBounds(gx, gy) && m.cells[m.index(gx, gy)] == id {
			m.cells[m.index(gx, gy)] = 0
		}
	})
	m.arena[id-1] = nil
	return b
}

// Resize changes a brick's footprint. It fails if the new cells overlap
// another brick or leave the grid.
func (m *Matrix) Resize(id BrickID, x, y, w, h int) bool {
	b := m.Get(id)
	if b == nil {
		return false
	}
	for dy := range h {
		for dx := range w {
			if !m.InBounds(x+dx, y+dy) {
				return false
			}
			if other := m.IDAt(x+dx, y+dy); other != 0 && other != id {
				return false
			}
		}
	}
	b.Cells(func(gx, gy int) { m.cells[m.index(gx, gy)] = 0 })
	b.X, b.Y, b.W, b.H = x, y, w, h
	b.Cells(func(gx, gy int) { m.cells[m.index(gx, gy)] = id })
	return true
}

// Bricks returns live bricks in id order.
func (m *Matrix) Bricks() []*Brick {
	out := make([]*Brick, 0, len(m.arena))
	for _, b := range m.arena {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of live bricks.
func (m *Matrix) Len() int {
	n := 0
	for _, b := range m.arena {
		if b != nil {
			n++
		}
	}
	return n
}

// Count returns the number of live bricks of a type.
func (m *Matrix) Count(t BrickType) int {
	n := 0
	for _, b := range m.arena {
		if b != nil && b.Type == t {
			n++
		}
	}
	return n
}

// CountOverlay returns the number of live bricks carrying an overlay.
func (m *Matrix) CountOverlay(o Overlay) int {
	n := 0
	for _, b := range m.arena {
		if b != nil && b.Overlay == o {
			n++
		}
	}
	return n
}

// EmptyCells returns all empty cells in row-major order.
func (m *Matrix) EmptyCells() [][2]int {
	var out [][2]int
	for gy := -m.halfRows; gy <= m.halfRows; gy++ {
		for gx := -m.halfCols; gx <= m.halfCols; gx++ {
			if m.IDAt(gx, gy) == 0 {
				out = append(out, [2]int{gx, gy})
			}
		}
	}
	return out
}

// Neighbors returns the distinct live bricks orthogonally adjacent to b.
func (m *Matrix) Neighbors(b *Brick) []*Brick {
	seen := map[BrickID]bool{b.ID: true}
	var out []*Brick
	add := func(gx, gy int) {
		id := m.IDAt(gx, gy)
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, m.Get(id))
		}
	}
	for dx := range b.W {
		add(b.X+dx, b.Y-1)
		add(b.X+dx, b.Y+b.H)
	}
	for dy := range b.H {
		add(b.X-1, b.Y+dy)
		add(b.X+b.W, b.Y+dy)
	}
	slices.SortFunc(out, func(a, c *Brick) int { return cmp.Compare(a.ID, c.ID) })
	return out
}

// Clone returns a deep copy. Ids are preserved.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		cols:     m.cols,
		rows:     m.rows,
		halfCols: m.halfCols,
		halfRows: m.halfRows,
		cells:    slices.Clone(m.cells),
		arena:    make([]*Brick, len(m.arena)),
	}
	for i, b := range m.arena {
		if b != nil {
			c.arena[i] = b.Clone()
		}
	}
	return c
}

// Compact rebuilds the matrix with fresh sequential ids in the current
// id order, discarding removed slots.
func (m *Matrix) Compact() *Matrix {
	c := NewMatrix(m.cols, m.rows)
	for _, b := range m.Bricks() {
		c.Place(b.Clone())
	}
	return c
}
