package board

import "github.com/ericogr/sphere-quiz/internal/game"

var neighbourSteps = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// FindConnectedGroup returns every cell reachable from (x, y) through
// 4-neighbours of the same type. An empty or out-of-range start yields nil.
func (g *Grid) FindConnectedGroup(x, y int) []Point {
	start, ok := g.Get(x, y)
	if !ok || start.Type == game.SphereNone {
		return nil
	}
	visited := make([]bool, len(g.cells))
	return g.flood(start.Point, start.Type, visited)
}

// flood is an explicit-stack fill so large boards cannot blow the stack.
func (g *Grid) flood(from Point, t game.SphereType, visited []bool) []Point {
	var group []Point
	stack := []Point{from}
	visited[from.Y*g.w+from.X] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, p)
		for _, s := range neighbourSteps {
			nx, ny := p.X+s[0], p.Y+s[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			idx := ny*g.w + nx
			if visited[idx] || g.cells[idx] != t {
				continue
			}
			visited[idx] = true
			stack = append(stack, Point{X: nx, Y: ny})
		}
	}
	return group
}

// Group is a maximal connected set of same-type cells.
type Group struct {
	Type   game.SphereType `json:"type"`
	Points []Point         `json:"points"`
}

// Groups partitions every non-empty cell into maximal groups, scanning in
// row-major order.
func (g *Grid) Groups() []Group {
	visited := make([]bool, len(g.cells))
	var out []Group
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			idx := y*g.w + x
			if visited[idx] || g.cells[idx] == game.SphereNone {
				continue
			}
			t := g.cells[idx]
			out = append(out, Group{Type: t, Points: g.flood(Point{X: x, Y: y}, t, visited)})
		}
	}
	return out
}

// Matches returns the groups large enough to clear.
func (g *Grid) Matches() []Group {
	var out []Group
	for _, grp := range g.Groups() {
		if len(grp.Points) >= MinMatch {
			out = append(out, grp)
		}
	}
	return out
}
