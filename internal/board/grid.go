// Package board implements the sphere grid: bounds-safe access, adjacent
// swaps, connected-group search and the clear/gravity/refill resolve step.
package board

import (
	"errors"
	"fmt"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/rng"
)

const (
	DefaultWidth  = 8
	DefaultHeight = 9
	// MinMatch is the smallest group size that clears.
	MinMatch = 3
)

var (
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrNotAdjacent = errors.New("cells are not adjacent")
	ErrBadSize     = errors.New("grid dimensions must be positive")
)

// Point is a cell coordinate. Y grows downward; row 0 is the top.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Direction is one of the four grid neighbours.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Offset returns the unit step for d, or ok=false for an unknown direction.
func (d Direction) Offset() (dx, dy int, ok bool) {
	switch d {
	case Up:
		return 0, -1, true
	case Down:
		return 0, 1, true
	case Left:
		return -1, 0, true
	case Right:
		return 1, 0, true
	}
	return 0, 0, false
}

// Cell is a grid slot. Type is SphereNone only between clearing and refill.
type Cell struct {
	Point
	Type game.SphereType `json:"type"`
}

// Grid is a fixed-size W x H sphere board stored row-major.
type Grid struct {
	w, h  int
	cells []game.SphereType
}

// New returns a grid with every cell empty.
func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrBadSize
	}
	g := &Grid{w: w, h: h, cells: make([]game.SphereType, w*h)}
	for i := range g.cells {
		g.cells[i] = game.SphereNone
	}
	return g, nil
}

// NewRandom fills a new grid with uniformly chosen spawnable spheres.
// Initial matches are allowed.
func NewRandom(w, h int, src rng.Source) (*Grid, error) {
	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	for i := range g.cells {
		g.cells[i] = rng.Choice(src, game.SpawnableSpheres)
	}
	return g, nil
}

// FromRows builds a grid from rows[y][x]. All rows must share a length.
func FromRows(rows [][]game.SphereType) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrBadSize
	}
	g, _ := New(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.w {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", y, len(row), g.w, ErrBadSize)
		}
		for x, t := range row {
			g.cells[y*g.w+x] = t
		}
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// Get returns the cell at (x, y). Out-of-range coordinates yield ok=false.
func (g *Grid) Get(x, y int) (Cell, bool) {
	if !g.InBounds(x, y) {
		return Cell{}, false
	}
	return Cell{Point: Point{X: x, Y: y}, Type: g.cells[y*g.w+x]}, true
}

func (g *Grid) set(x, y int, t game.SphereType) { g.cells[y*g.w+x] = t }

// Set overwrites one cell. It is meant for setup code and tests.
func (g *Grid) Set(x, y int, t game.SphereType) error {
	if !g.InBounds(x, y) {
		return ErrOutOfBounds
	}
	g.set(x, y, t)
	return nil
}

// Swap exchanges two 4-adjacent cells. Swaps that form no match are legal.
func (g *Grid) Swap(x1, y1, x2, y2 int) error {
	if !g.InBounds(x1, y1) || !g.InBounds(x2, y2) {
		return ErrOutOfBounds
	}
	if abs(x1-x2)+abs(y1-y2) != 1 {
		return ErrNotAdjacent
	}
	a, b := g.cells[y1*g.w+x1], g.cells[y2*g.w+x2]
	g.set(x1, y1, b)
	g.set(x2, y2, a)
	return nil
}

// Rows returns a copy of the board as rows[y][x].
func (g *Grid) Rows() [][]game.SphereType {
	out := make([][]game.SphereType, g.h)
	for y := 0; y < g.h; y++ {
		out[y] = make([]game.SphereType, g.w)
		copy(out[y], g.cells[y*g.w:(y+1)*g.w])
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
