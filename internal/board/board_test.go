package board

import (
	"testing"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingAcc map[game.SphereType]int

func (c countingAcc) AddCleared(t game.SphereType, n int) { c[t] += n }

// watchingAcc records the board as it looks when each credit arrives.
type watchingAcc struct {
	g      *Grid
	counts countingAcc
	seen   [][][]game.SphereType
}

func (w *watchingAcc) AddCleared(t game.SphereType, n int) {
	w.counts.AddCleared(t, n)
	w.seen = append(w.seen, w.g.Rows())
}

func (w *watchingAcc) emptyCellsSeen() int {
	n := 0
	for _, rows := range w.seen {
		for _, row := range rows {
			for _, c := range row {
				if c == game.SphereNone {
					n++
				}
			}
		}
	}
	return n
}

const (
	R = game.Red
	C = game.Cyan
	G = game.Green
	Y = game.Yellow
	K = game.Key
	D = game.Dark
	N = game.SphereNone
)

func TestGet_OutOfRange(t *testing.T) {
	g, err := New(DefaultWidth, DefaultHeight)
	require.NoError(t, err)
	for _, p := range []Point{{-1, 0}, {0, -1}, {8, 0}, {0, 9}, {100, 100}} {
		_, ok := g.Get(p.X, p.Y)
		assert.False(t, ok, p.String())
	}
	c, ok := g.Get(7, 8)
	assert.True(t, ok)
	assert.Equal(t, Point{X: 7, Y: 8}, c.Point)
}

func TestSwap_RequiresAdjacency(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{R, C},
		{G, Y},
	})
	assert.ErrorIs(t, g.Swap(0, 0, 1, 1), ErrNotAdjacent)
	assert.ErrorIs(t, g.Swap(0, 0, 0, 0), ErrNotAdjacent)
	assert.ErrorIs(t, g.Swap(1, 0, 2, 0), ErrOutOfBounds)
	require.NoError(t, g.Swap(0, 0, 1, 0))
	assert.Equal(t, [][]game.SphereType{{C, R}, {G, Y}}, g.Rows())
}

func TestFindConnectedGroup(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{R, R, C},
		{C, R, C},
		{R, C, C},
	})
	assert.Len(t, g.FindConnectedGroup(0, 0), 3)
	assert.Len(t, g.FindConnectedGroup(2, 2), 4)
	// diagonal neighbours do not connect
	assert.Len(t, g.FindConnectedGroup(0, 2), 1)
	assert.Nil(t, g.FindConnectedGroup(5, 5))
}

func TestResolveMatches_TwoByOne(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{R, C},
		{R, C},
	})
	acc := countingAcc{}
	before := g.Rows()
	rep := g.ResolveMatches(acc, rng.New(1))
	assert.Empty(t, rep.Groups)
	assert.Equal(t, 0, rep.Total)
	assert.Empty(t, acc)
	assert.Equal(t, before, g.Rows())
}

func TestResolveMatches_ClearsAndRefills(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{C, G, Y},
		{R, R, R},
		{G, Y, C},
	})
	acc := countingAcc{}
	// refill picks index 4 (Key) for every empty cell
	src := &rng.Scripted{Ints: []int{4, 4, 4}}
	rep := g.ResolveMatches(acc, src)

	assert.Equal(t, 3, rep.Total)
	assert.Equal(t, 3, acc[game.Red])
	assert.Equal(t, [][]game.SphereType{
		{K, K, K},
		{C, G, Y},
		{G, Y, C},
	}, g.Rows())

	require.Len(t, rep.Refills, 3)
	col := rep.Refills[0]
	assert.Equal(t, 0, col.X)
	require.Len(t, col.Cells, 2)
	assert.Equal(t, RefillCell{Y: 0, Old: C, New: K, Position: RefillTop}, col.Cells[0])
	assert.Equal(t, RefillCell{Y: 1, Old: N, New: C, Position: RefillBottom}, col.Cells[1])
}

func TestResolveMatches_CreditsStockBeforeClearing(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{R, C, C, C},
		{R, G, Y, G},
		{R, Y, G, Y},
	})
	before := g.Rows()
	acc := &watchingAcc{g: g, counts: countingAcc{}}
	g.ResolveMatches(acc, rng.New(3))

	require.Len(t, acc.seen, 2)
	assert.Equal(t, 0, acc.emptyCellsSeen())
	for _, rows := range acc.seen {
		assert.Equal(t, before, rows)
	}
	assert.Equal(t, countingAcc{game.Red: 3, game.Cyan: 3}, acc.counts)
}

func TestResolveMatches_SkipsUntouchedColumns(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{R, C, G, Y},
		{R, C, Y, G},
		{R, G, C, Y},
		{C, Y, G, C},
	})
	rep := g.ResolveMatches(countingAcc{}, rng.New(9))
	require.Len(t, rep.Refills, 1)
	assert.Equal(t, 0, rep.Refills[0].X)
	cells := rep.Refills[0].Cells
	require.Len(t, cells, 3)
	assert.Equal(t, RefillTop, cells[0].Position)
	assert.Equal(t, RefillMiddle, cells[1].Position)
	assert.Equal(t, RefillBottom, cells[2].Position)
	c, _ := g.Get(0, 3)
	assert.Equal(t, C, c.Type)
}

func TestResolveMatches_CountsDarkButNeverSpawnsIt(t *testing.T) {
	g, _ := FromRows([][]game.SphereType{
		{D, D, D},
	})
	acc := countingAcc{}
	g.ResolveMatches(acc, rng.New(4))
	assert.Equal(t, 3, acc[game.Dark])
	for _, row := range g.Rows() {
		for _, c := range row {
			assert.NotEqual(t, D, c)
			assert.True(t, c.Valid())
		}
	}
}

func TestResolveMatches_SinglePass(t *testing.T) {
	// after gravity the top refill lands on two yellows; a Yellow refill
	// would form a new match that must survive until the next resolve
	g, _ := FromRows([][]game.SphereType{
		{R},
		{R},
		{R},
		{Y},
		{Y},
	})
	src := &rng.Scripted{Ints: []int{3, 3, 3}}
	rep := g.ResolveMatches(countingAcc{}, src)
	assert.Equal(t, 3, rep.Total)
	assert.NotEmpty(t, g.Matches())
}
