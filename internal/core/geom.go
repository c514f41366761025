// Package core provides fundamental types shared by the simulation and the
// terminal front end: geometry, the screen buffer, input frames and the
// deterministic RNG. It has no external dependencies (especially no Bubble
// Tea) so game logic stays pure and testable.
package core

// Rect is an integer box in screen cells, used for drawing frames and
// panels.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// CenteredRect returns a w×h rectangle centered in an outer area of
// outerW×outerH cells. Odd leftovers go to the right and bottom.
func CenteredRect(w, h, outerW, outerH int) Rect {
	return Rect{X: (outerW - w) / 2, Y: (outerH - h) / 2, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether the cell (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Center returns the center cell of the rectangle.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// ClampF restricts v to [lo, hi].
func ClampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ChebyshevDist is the grid distance where diagonal steps count as one.
func ChebyshevDist(ax, ay, bx, by int) int {
	return max(Abs(ax-bx), Abs(ay-by))
}
