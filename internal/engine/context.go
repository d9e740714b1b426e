package engine

import (
	"fmt"
	"strings"

	"github.com/ericogr/sphere-quiz/internal/game"
)

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	s       *BattleState
	inputs  game.TurnInputs
	result  game.TurnResult
	summary []string
}

func newTurnContext(s *BattleState, inputs game.TurnInputs) *turnContext {
	return &turnContext{
		s:      s,
		inputs: inputs,
		result: game.TurnResult{
			Turn:               s.turn,
			PartyActionResults: make(map[game.Character]game.PartyActionResult, len(inputs)),
		},
		summary: make([]string, 0, 8),
	}
}

func (tc *turnContext) add(format string, args ...any) {
	tc.summary = append(tc.summary, fmt.Sprintf(format, args...))
}

func (tc *turnContext) deathTag(dead bool) string {
	if dead {
		return " and falls"
	}
	return ""
}

// finish stamps the stock snapshot and summary onto the result.
func (tc *turnContext) finish() game.TurnResult {
	tc.result.StockCounts = tc.s.Stock.Snapshot()
	tc.result.Summary = strings.Join(tc.summary, "\n")
	return tc.result
}
