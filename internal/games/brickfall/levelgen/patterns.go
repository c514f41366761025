package levelgen

import (
	"cmp"
	"math"
	"slices"

	"github.com/vovakirdan/brickfall/internal/core"
)

// Cell is a signed grid coordinate.
type Cell struct {
	X, Y int
}

// Region is the rectangle of cells the generator may fill.
type Region struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether a cell lies in the region.
func (r Region) Contains(c Cell) bool {
	return c.X >= r.MinX && c.X <= r.MaxX && c.Y >= r.MinY && c.Y <= r.MaxY
}

// Center returns the region's central point in cell units.
func (r Region) Center() (float64, float64) {
	return float64(r.MinX+r.MaxX) / 2, float64(r.MinY+r.MaxY) / 2
}

// Cells returns every cell in row-major order.
func (r Region) Cells() []Cell {
	var out []Cell
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			out = append(out, Cell{x, y})
		}
	}
	return out
}

// Shape names the closed-form point generators used by the formulaic pattern.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeCircle
	ShapeRect
	ShapeWedge
	ShapeStar
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeSine:
		return "sine"
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	case ShapeWedge:
		return "wedge"
	case ShapeStar:
		return "star"
	default:
		return "unknown"
	}
}

// patternCells returns the ordered candidate cells for a pattern. The
// formulaic pattern rolls a shape; the others are fixed layouts.
func patternCells(pattern string, reg Region, rng *core.RNG) (cells []Cell, name string) {
	switch pattern {
	case "solid":
		return reg.Cells(), "solid"
	case "checkerboard":
		var out []Cell
		for _, c := range reg.Cells() {
			if (c.X+c.Y)%2 == 0 {
				out = append(out, c)
			}
		}
		return out, "checkerboard"
	case "spiral":
		return spiral(reg), "spiral"
	default:
		shape := Shape(rng.Intn(int(shapeCount)))
		return shapeCells(shape, reg, rng), shape.String()
	}
}

// shapeCells samples a shape over the region, nearest-to-center first.
func shapeCells(shape Shape, reg Region, rng *core.RNG) []Cell {
	cx, cy := reg.Center()
	halfW := float64(reg.MaxX-reg.MinX) / 2
	halfH := float64(reg.MaxY-reg.MinY) / 2

	var inside func(x, y float64) bool
	switch shape {
	case ShapeSine:
		amp := rng.FloatRange(1, math.Max(1, halfH/2))
		freq := rng.FloatRange(0.4, 1.1)
		phase := rng.FloatRange(0, 2*math.Pi)
		inside = func(x, y float64) bool {
			wave := cy + amp*math.Sin(freq*(x-cx)+phase)
			return math.Abs(y-wave) <= 1
		}
	case ShapeCircle:
		radius := rng.FloatRange(math.Min(2, halfW), math.Max(2, math.Min(halfW, halfH)))
		ring := rng.Chance(0.5)
		inside = func(x, y float64) bool {
			d := math.Hypot(x-cx, y-cy)
			if ring {
				return d <= radius+0.5 && d >= radius-1.5
			}
			return d <= radius+0.5
		}
	case ShapeRect:
		w := rng.FloatRange(2, math.Max(2, halfW))
		h := rng.FloatRange(1.5, math.Max(1.5, halfH/1.5))
		angle := rng.FloatRange(-math.Pi/4, math.Pi/4)
		sin, cos := math.Sin(-angle), math.Cos(-angle)
		inside = func(x, y float64) bool {
			dx, dy := x-cx, y-cy
			rx := dx*cos - dy*sin
			ry := dx*sin + dy*cos
			return math.Abs(rx) <= w && math.Abs(ry) <= h
		}
	case ShapeWedge:
		slope := rng.FloatRange(0.5, 1.5)
		down := rng.Chance(0.5)
		inside = func(x, y float64) bool {
			depth := y - float64(reg.MinY)
			if down {
				depth = float64(reg.MaxY) - y
			}
			return math.Abs(x-cx) <= depth*slope
		}
	default:
		outer := math.Max(2, math.Min(halfW, halfH))
		points := float64(rng.Range(4, 6))
		spin := rng.FloatRange(0, 2*math.Pi)
		inside = func(x, y float64) bool {
			dx, dy := x-cx, y-cy
			theta := math.Atan2(dy, dx) + spin
			r := outer * (0.55 + 0.45*math.Cos(points*theta))
			return math.Hypot(dx, dy) <= r+0.5
		}
	}

	var out []Cell
	for _, c := range reg.Cells() {
		if inside(float64(c.X), float64(c.Y)) {
			out = append(out, c)
		}
	}
	sortByCenter(out, cx, cy)
	return out
}

// spiral walks the region from the center outward, skipping every other
// ring so the arms stay separated.
func spiral(reg Region) []Cell {
	cx, cy := reg.Center()
	x, y := int(math.Round(cx)), int(math.Round(cy))
	dirs := [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	total := (reg.MaxX - reg.MinX + 1) * (reg.MaxY - reg.MinY + 1)

	var out []Cell
	seen := make(map[Cell]bool)
	steps, dir, visited := 1, 0, 0
	for visited < total*4 {
		for range 2 {
			for range steps {
				c := Cell{x, y}
				if reg.Contains(c) && !seen[c] && (steps%4 != 3) {
					seen[c] = true
					out = append(out, c)
				}
				x += dirs[dir][0]
				y += dirs[dir][1]
				visited++
			}
			dir = (dir + 1) % 4
		}
		steps++
	}
	return out
}

func sortByCenter(cells []Cell, cx, cy float64) {
	slices.SortStableFunc(cells, func(a, b Cell) int {
		da := math.Hypot(float64(a.X)-cx, float64(a.Y)-cy)
		db := math.Hypot(float64(b.X)-cx, float64(b.Y)-cy)
		if c := cmp.Compare(da, db); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
}
