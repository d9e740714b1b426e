package battle

import (
	"context"
	"fmt"

	"github.com/ericogr/sphere-quiz/internal/board"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
)

func to(p Phase) *Transition { return &Transition{To: p} }

func rejected(p Phase, in Input, reason string) error {
	return fmt.Errorf("%w: %s in %s: %s", ErrInputRejected, in.Kind, p, reason)
}

func (b *Battle) registerPhases() {
	b.m.register(PhaseIntro, phaseHandlers{enter: b.enterIntro})
	b.m.register(PhaseStartActionChoice, phaseHandlers{enter: b.enterStartActionChoice})
	b.m.register(PhaseActionChoice, phaseHandlers{enter: b.enterActionChoice, handle: b.handleActionChoice})
	b.m.register(PhaseQuiz, phaseHandlers{enter: b.enterQuiz, handle: b.handleQuiz})
	b.m.register(PhaseStartMove, phaseHandlers{enter: b.enterStartMove})
	b.m.register(PhaseMove, phaseHandlers{enter: b.enterMove, handle: b.handleMove})
	b.m.register(PhaseSwapChoice, phaseHandlers{enter: b.enterSwapChoice, handle: b.handleSwapChoice, exit: b.exitSwapChoice})
	b.m.register(PhaseSwap, phaseHandlers{enter: b.enterSwap})
	b.m.register(PhaseSolve, phaseHandlers{enter: b.enterSolve})
	b.m.register(PhaseTurnResult, phaseHandlers{enter: b.enterTurnResult})
	b.m.register(PhaseGameOver, phaseHandlers{enter: b.enterEnd})
	b.m.register(PhaseVictory, phaseHandlers{enter: b.enterEnd})
}

// The intro waits only for observers (countdown, reveal) to finish.
func (b *Battle) enterIntro(ctx context.Context, _ Transition) (*Transition, error) {
	return to(PhaseStartActionChoice), nil
}

func (b *Battle) enterStartActionChoice(ctx context.Context, _ Transition) (*Transition, error) {
	if b.state.IsGameOver() {
		return to(PhaseGameOver), nil
	}
	b.choosers = b.state.ActiveCharacters()
	return &Transition{To: PhaseActionChoice, Index: 0}, nil
}

func (b *Battle) enterActionChoice(ctx context.Context, t Transition) (*Transition, error) {
	if t.Index == 0 {
		b.inputs = game.TurnInputs{}
		b.quizCorrect = false
		b.cleared = 0
		b.question = nil
	}
	b.actionIndex = t.Index
	return nil, nil
}

func (b *Battle) handleActionChoice(ctx context.Context, in Input) (*Transition, error) {
	if in.Kind != InputSelectAction {
		return nil, rejected(PhaseActionChoice, in, "expected select_action")
	}
	if !in.Action.Valid() {
		return nil, rejected(PhaseActionChoice, in, fmt.Sprintf("unknown action %q", in.Action))
	}
	c := b.choosers[b.actionIndex]
	b.inputs[c] = in.Action
	if b.actionIndex < len(b.choosers)-1 {
		return &Transition{To: PhaseActionChoice, Index: b.actionIndex + 1}, nil
	}
	return to(PhaseQuiz), nil
}

func (b *Battle) enterQuiz(ctx context.Context, _ Transition) (*Transition, error) {
	q := b.deck.Draw()
	b.question = &q
	p := q.Prompt()
	b.notify(ctx, Event{Type: EventQuestion, Question: &p})
	return nil, nil
}

func (b *Battle) handleQuiz(ctx context.Context, in Input) (*Transition, error) {
	if in.Kind != InputAnswer {
		return nil, rejected(PhaseQuiz, in, "expected answer")
	}
	correct, err := b.question.IsCorrect(in.Choice)
	if err != nil {
		return nil, rejected(PhaseQuiz, in, err.Error())
	}
	b.quizCorrect = correct
	b.notify(ctx, Event{Type: EventAnswer, Correct: &correct})
	if correct {
		return to(PhaseStartMove), nil
	}
	// a wrong answer skips the board: everyone still standing defends
	for _, c := range b.state.ActiveCharacters() {
		b.inputs[c] = game.ActionDefend
	}
	return to(PhaseTurnResult), nil
}

func (b *Battle) enterStartMove(ctx context.Context, _ Transition) (*Transition, error) {
	return to(PhaseMove), nil
}

func (b *Battle) clampCursor(x, y int) board.Point {
	return board.Point{
		X: max(0, min(x, b.grid.Width()-1)),
		Y: max(0, min(y, b.grid.Height()-1)),
	}
}

func (b *Battle) enterMove(ctx context.Context, t Transition) (*Transition, error) {
	if t.HasAt {
		b.cursor = b.clampCursor(t.At.X, t.At.Y)
	}
	return nil, nil
}

func (b *Battle) handleMove(ctx context.Context, in Input) (*Transition, error) {
	switch in.Kind {
	case InputMoveCursor:
		if in.At != nil {
			b.cursor = b.clampCursor(in.At.X, in.At.Y)
		} else {
			b.cursor = b.clampCursor(b.cursor.X+in.DX, b.cursor.Y+in.DY)
		}
		return nil, nil
	case InputPick:
		if in.At != nil {
			b.cursor = b.clampCursor(in.At.X, in.At.Y)
		}
		return &Transition{To: PhaseSwapChoice, At: b.cursor, HasAt: true}, nil
	case InputSolve:
		return to(PhaseSolve), nil
	}
	return nil, rejected(PhaseMove, in, "expected move_cursor, pick or solve")
}

func (b *Battle) enterSwapChoice(ctx context.Context, t Transition) (*Transition, error) {
	from := t.At
	b.swapFrom = &from
	return nil, nil
}

func (b *Battle) handleSwapChoice(ctx context.Context, in Input) (*Transition, error) {
	switch in.Kind {
	case InputRelease:
		return to(PhaseMove), nil
	case InputDirection:
		dx, dy, ok := in.Direction.Offset()
		if !ok {
			return nil, rejected(PhaseSwapChoice, in, fmt.Sprintf("unknown direction %q", in.Direction))
		}
		from := *b.swapFrom
		if !b.grid.InBounds(from.X+dx, from.Y+dy) {
			return nil, rejected(PhaseSwapChoice, in, "neighbour is off the board")
		}
		return &Transition{To: PhaseSwap, At: from, HasAt: true, Dir: in.Direction}, nil
	}
	return nil, rejected(PhaseSwapChoice, in, "expected direction or release")
}

func (b *Battle) exitSwapChoice(ctx context.Context) error {
	b.swapFrom = nil
	return nil
}

func (b *Battle) enterSwap(ctx context.Context, t Transition) (*Transition, error) {
	dx, dy, _ := t.Dir.Offset()
	dest := board.Point{X: t.At.X + dx, Y: t.At.Y + dy}
	if err := b.grid.Swap(t.At.X, t.At.Y, dest.X, dest.Y); err != nil {
		return nil, err
	}
	b.notify(ctx, Event{Type: EventSwap, Swap: &SwapEvent{From: t.At, To: dest, Dir: t.Dir}})
	return &Transition{To: PhaseMove, At: dest, HasAt: true}, nil
}

func (b *Battle) enterSolve(ctx context.Context, _ Transition) (*Transition, error) {
	report := b.grid.ResolveMatches(b.state.Stock, b.src)
	b.cleared = report.Total
	b.score += report.Total
	b.lastReport = &report
	b.notify(ctx, Event{Type: EventMatch, Match: &report})
	return to(PhaseTurnResult), nil
}

func (b *Battle) enterTurnResult(ctx context.Context, _ Transition) (*Transition, error) {
	if b.quizCorrect {
		if healed := b.state.ApplyRecovery(b.inputs, b.cleared); len(healed) > 0 {
			b.notify(ctx, Event{Type: EventRecovery, Recovery: healed})
		}
	}
	res := b.state.ExecuteTurn(ctx, b.inputs, b.provider)
	b.lastResult = &res
	b.notify(ctx, Event{Type: EventTurnResult, TurnResult: &res})
	if b.state.IsVictory() {
		return to(PhaseVictory), nil
	}
	b.firstRound = false
	return to(PhaseStartActionChoice), nil
}

func (b *Battle) enterEnd(ctx context.Context, _ Transition) (*Transition, error) {
	victory := b.m.current == PhaseVictory
	logging.Info("battle finished", logging.Fields{"battle_id": b.id, "victory": victory, "score": b.score, "turns": b.state.Turn()})
	b.notify(ctx, Event{Type: EventBattleEnd, Victory: &victory})
	return nil, nil
}
