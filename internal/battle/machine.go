package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/sphere-quiz/internal/board"
)

var (
	// ErrUnknownPhase means a transition named a phase that was never
	// registered. It is a programming error and must not be swallowed.
	ErrUnknownPhase = errors.New("unknown battle phase")
	// ErrInputRejected means the current phase does not accept the input.
	ErrInputRejected = errors.New("input not accepted in current phase")
)

// Transition names the next phase plus the arguments it is entered with.
type Transition struct {
	To Phase
	// Index is the action-choice position.
	Index int
	// At is a grid cell: the swap origin, or where the cursor lands when
	// re-entering the move phase.
	At    board.Point
	HasAt bool
	Dir   board.Direction
}

type phaseHandlers struct {
	// enter may return a follow-up transition, which the machine applies
	// before returning control.
	enter  func(ctx context.Context, t Transition) (*Transition, error)
	handle func(ctx context.Context, in Input) (*Transition, error)
	exit   func(ctx context.Context) error
}

// machine runs transitions synchronously: the exit hook of the old phase
// completes before the new phase is entered, and chained transitions
// resolve in a loop until a phase waits for input.
type machine struct {
	phases  map[Phase]phaseHandlers
	current Phase
	// onEnter runs after the phase switch and before the enter hook.
	onEnter func(ctx context.Context, p Phase) error
}

func newMachine() *machine {
	return &machine{phases: make(map[Phase]phaseHandlers)}
}

func (m *machine) register(p Phase, h phaseHandlers) {
	m.phases[p] = h
}

func (m *machine) transition(ctx context.Context, t Transition) error {
	next := &t
	for next != nil {
		h, ok := m.phases[next.To]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPhase, next.To)
		}
		if m.current != "" {
			if cur := m.phases[m.current]; cur.exit != nil {
				if err := cur.exit(ctx); err != nil {
					return fmt.Errorf("exit %s: %w", m.current, err)
				}
			}
		}
		m.current = next.To
		if m.onEnter != nil {
			if err := m.onEnter(ctx, m.current); err != nil {
				return err
			}
		}
		if h.enter == nil {
			return nil
		}
		n, err := h.enter(ctx, *next)
		if err != nil {
			return fmt.Errorf("enter %s: %w", m.current, err)
		}
		next = n
	}
	return nil
}

func (m *machine) dispatch(ctx context.Context, in Input) error {
	h, ok := m.phases[m.current]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPhase, m.current)
	}
	if h.handle == nil {
		return fmt.Errorf("%w: %s does not take %s", ErrInputRejected, m.current, in.Kind)
	}
	next, err := h.handle(ctx, in)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	return m.transition(ctx, *next)
}
