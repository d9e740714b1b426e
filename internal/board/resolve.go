package board

import (
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/rng"
)

// Accumulator receives cleared counts per type before the cells empty.
// stock.Ledger satisfies it.
type Accumulator interface {
	AddCleared(t game.SphereType, n int)
}

// RefillPosition classifies a refilled cell for the falling animation.
type RefillPosition string

const (
	RefillTop    RefillPosition = "top"
	RefillMiddle RefillPosition = "middle"
	RefillBottom RefillPosition = "bottom"
)

// RefillCell is one row of a column that changed during refill.
type RefillCell struct {
	Y        int             `json:"y"`
	Old      game.SphereType `json:"old"`
	New      game.SphereType `json:"new"`
	Position RefillPosition  `json:"position"`
}

// ColumnRefill lists rows 0..last-emptied-row of one column.
type ColumnRefill struct {
	X     int          `json:"x"`
	Cells []RefillCell `json:"cells"`
}

// MatchReport describes one resolve pass.
type MatchReport struct {
	Groups  []Group                 `json:"groups"`
	Cleared map[game.SphereType]int `json:"cleared"`
	Total   int                     `json:"total"`
	Refills []ColumnRefill          `json:"refills"`
}

// ResolveMatches clears every group of MinMatch or more, credits acc with
// the cleared counts, then compacts each column downward and refills the
// vacated top cells from SpawnableSpheres. It runs exactly once; matches
// formed by refill stay on the board until the next resolve.
func (g *Grid) ResolveMatches(acc Accumulator, src rng.Source) MatchReport {
	report := MatchReport{Cleared: map[game.SphereType]int{}}
	report.Groups = g.Matches()
	if len(report.Groups) == 0 {
		return report
	}

	for _, grp := range report.Groups {
		report.Cleared[grp.Type] += len(grp.Points)
		report.Total += len(grp.Points)
	}
	if acc != nil {
		for _, t := range game.AllSpheres {
			if n := report.Cleared[t]; n > 0 {
				acc.AddCleared(t, n)
			}
		}
	}
	for _, grp := range report.Groups {
		for _, p := range grp.Points {
			g.set(p.X, p.Y, game.SphereNone)
		}
	}

	for x := 0; x < g.w; x++ {
		if col, ok := g.refillColumn(x, src); ok {
			report.Refills = append(report.Refills, col)
		}
	}
	return report
}

func (g *Grid) refillColumn(x int, src rng.Source) (ColumnRefill, bool) {
	old := make([]game.SphereType, g.h)
	last := -1
	for y := 0; y < g.h; y++ {
		old[y] = g.cells[y*g.w+x]
		if old[y] == game.SphereNone {
			last = y
		}
	}
	if last < 0 {
		return ColumnRefill{}, false
	}

	kept := make([]game.SphereType, 0, g.h)
	for _, t := range old {
		if t != game.SphereNone {
			kept = append(kept, t)
		}
	}
	empty := g.h - len(kept)
	next := make([]game.SphereType, g.h)
	for y := 0; y < empty; y++ {
		next[y] = rng.Choice(src, game.SpawnableSpheres)
	}
	copy(next[empty:], kept)

	col := ColumnRefill{X: x, Cells: make([]RefillCell, 0, last+1)}
	for y := 0; y <= last; y++ {
		pos := RefillMiddle
		switch {
		case y == 0:
			pos = RefillTop
		case y == last:
			pos = RefillBottom
		}
		col.Cells = append(col.Cells, RefillCell{Y: y, Old: old[y], New: next[y], Position: pos})
	}
	for y := 0; y < g.h; y++ {
		g.cells[y*g.w+x] = next[y]
	}
	return col, true
}
