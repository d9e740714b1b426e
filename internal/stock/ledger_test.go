package stock

import (
	"testing"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestLedger_StartsAtZero(t *testing.T) {
	l := New()
	for _, st := range game.AllSpheres {
		assert.Equal(t, 0, l.Get(st), st.String())
	}
	assert.False(t, l.AnyAtLeast(1))
}

func TestLedger_AddClampsAtZero(t *testing.T) {
	l := New()
	l.Add(game.Red, 3)
	l.Add(game.Red, -10)
	assert.Equal(t, 0, l.Get(game.Red))
}

func TestLedger_DisplayCapsButRawKeepsCounting(t *testing.T) {
	l := New()
	l.Add(game.Cyan, 55)
	assert.Equal(t, 55, l.Get(game.Cyan))
	assert.Equal(t, DisplayCap, l.Display(game.Cyan))
	assert.Equal(t, DisplayCap, l.DisplaySnapshot()[game.Cyan])
	assert.Equal(t, 55, l.Snapshot()[game.Cyan])
}

func TestLedger_AllOutThreshold(t *testing.T) {
	l := New()
	l.Set(game.Yellow, AllOutThreshold-1)
	assert.False(t, l.AnyAtLeast(AllOutThreshold))
	l.AddCleared(game.Yellow, 1)
	assert.True(t, l.AnyAtLeast(AllOutThreshold))
	l.Reset(game.Yellow)
	assert.False(t, l.AnyAtLeast(AllOutThreshold))
}

func TestLedger_SnapshotIsCopy(t *testing.T) {
	l := New()
	snap := l.Snapshot()
	snap[game.Key] = 9
	assert.Equal(t, 0, l.Get(game.Key))
}
