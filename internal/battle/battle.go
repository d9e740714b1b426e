// Package battle drives one battle through its phases: action choice, quiz,
// sphere moves, match resolution and turn result. It owns the grid and the
// combat state and reports progress to observers.
package battle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/sphere-quiz/internal/board"
	"github.com/ericogr/sphere-quiz/internal/engine"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/quiz"
	"github.com/ericogr/sphere-quiz/internal/rng"
)

var (
	ErrBattleOver     = errors.New("battle is over")
	ErrNotStarted     = errors.New("battle has not started")
	ErrAlreadyStarted = errors.New("battle already started")
)

// Observer is notified of battle events. Notify is awaited before the
// battle continues, so presentation layers can hold a phase while they
// animate. Errors are logged and never change the battle's course.
type Observer interface {
	Notify(ctx context.Context, ev Event) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event) error

func (f ObserverFunc) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Config holds everything needed to build a battle. Zero sizes default to
// the 8x9 board; a nil Party uses engine.DefaultParty; a nil Bank uses
// quiz.DefaultBank; a nil Source is seeded randomly.
type Config struct {
	ID        string
	Width     int
	Height    int
	BossHP    int
	Party     game.Party
	Bank      quiz.Bank
	Provider  engine.AttackParameterProvider
	Source    rng.Source
	Observers []Observer
}

// Battle is a single battle session. It is not safe for concurrent use.
type Battle struct {
	id        string
	m         *machine
	state     *engine.BattleState
	grid      *board.Grid
	deck      *quiz.Deck
	provider  engine.AttackParameterProvider
	src       rng.Source
	observers []Observer

	choosers    []game.Character
	inputs      game.TurnInputs
	actionIndex int
	question    *quiz.Question
	quizCorrect bool
	cleared     int
	score       int
	firstRound  bool
	cursor      board.Point
	swapFrom    *board.Point
	lastReport  *board.MatchReport
	lastResult  *game.TurnResult
}

// New builds a battle in no phase. Call Start to enter the intro.
func New(cfg Config) (*Battle, error) {
	if cfg.BossHP <= 0 {
		return nil, fmt.Errorf("boss hp must be positive, got %d", cfg.BossHP)
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = board.DefaultWidth
	}
	if h == 0 {
		h = board.DefaultHeight
	}
	src := cfg.Source
	if src == nil {
		src = rng.NewRandom()
	}
	party := cfg.Party
	if party == nil {
		party = engine.DefaultParty()
	}
	bank := cfg.Bank
	if bank == nil {
		bank = quiz.DefaultBank()
	}
	grid, err := board.NewRandom(w, h, src)
	if err != nil {
		return nil, err
	}
	deck, err := quiz.NewDeck(bank, src)
	if err != nil {
		return nil, err
	}
	b := &Battle{
		id:         cfg.ID,
		state:      engine.NewBattleState(party, cfg.BossHP, src),
		grid:       grid,
		deck:       deck,
		provider:   cfg.Provider,
		src:        src,
		observers:  cfg.Observers,
		inputs:     game.TurnInputs{},
		firstRound: true,
	}
	b.m = newMachine()
	b.m.onEnter = func(ctx context.Context, p Phase) error {
		b.notify(ctx, Event{Type: EventPhaseEntered})
		return nil
	}
	b.registerPhases()
	return b, nil
}

// Start enters the intro and runs until the first phase that waits for
// input.
func (b *Battle) Start(ctx context.Context) error {
	if b.m.current != "" {
		return ErrAlreadyStarted
	}
	return b.m.transition(ctx, Transition{To: PhaseIntro})
}

// Handle applies one input. Inputs the current phase does not accept fail
// with ErrInputRejected and leave the battle unchanged.
func (b *Battle) Handle(ctx context.Context, in Input) error {
	if b.m.current == "" {
		return ErrNotStarted
	}
	if b.m.current.Terminal() {
		return ErrBattleOver
	}
	return b.m.dispatch(ctx, in)
}

func (b *Battle) notify(ctx context.Context, ev Event) {
	ev.BattleID = b.id
	ev.Phase = b.m.current
	ev.Turn = b.state.Turn()
	ev.Score = b.score
	ev.FirstRound = b.firstRound
	for _, o := range b.observers {
		if err := o.Notify(ctx, ev); err != nil {
			logging.Error("battle observer failed", err, logging.Fields{"battle_id": b.id, "event": string(ev.Type)})
		}
	}
}

func (b *Battle) ID() string          { return b.id }
func (b *Battle) Phase() Phase        { return b.m.current }
func (b *Battle) Score() int          { return b.score }
func (b *Battle) Finished() bool      { return b.m.current.Terminal() }
func (b *Battle) Victory() bool       { return b.m.current == PhaseVictory }
func (b *Battle) Turn() int           { return b.state.Turn() }
func (b *Battle) Cursor() board.Point { return b.cursor }

// State exposes combat state for inspection. Callers must not mutate it
// while the battle is running.
func (b *Battle) State() *engine.BattleState { return b.state }

// Grid exposes the board for inspection.
func (b *Battle) Grid() *board.Grid { return b.grid }

// CurrentCharacter is the character being asked during action choice.
func (b *Battle) CurrentCharacter() (game.Character, bool) {
	if b.m.current != PhaseActionChoice || b.actionIndex >= len(b.choosers) {
		return "", false
	}
	return b.choosers[b.actionIndex], true
}

// View is a serialisable snapshot of everything a client renders.
type View struct {
	ID               string              `json:"id"`
	Phase            Phase               `json:"phase"`
	Turn             int                 `json:"turn"`
	Score            int                 `json:"score"`
	FirstRound       bool                `json:"first_round"`
	CurrentCharacter game.Character      `json:"current_character,omitempty"`
	Inputs           game.TurnInputs     `json:"inputs"`
	Question         *quiz.Prompt        `json:"question,omitempty"`
	Cursor           board.Point         `json:"cursor"`
	SwapFrom         *board.Point        `json:"swap_from,omitempty"`
	Board            [][]game.SphereType `json:"board"`
	State            engine.StateView    `json:"state"`
	LastMatch        *board.MatchReport  `json:"last_match,omitempty"`
	LastTurnResult   *game.TurnResult    `json:"last_turn_result,omitempty"`
}

func (b *Battle) View() View {
	v := View{
		ID:             b.id,
		Phase:          b.m.current,
		Turn:           b.state.Turn(),
		Score:          b.score,
		FirstRound:     b.firstRound,
		Inputs:         make(game.TurnInputs, len(b.inputs)),
		Cursor:         b.cursor,
		Board:          b.grid.Rows(),
		State:          b.state.Snapshot(),
		LastMatch:      b.lastReport,
		LastTurnResult: b.lastResult,
	}
	for c, a := range b.inputs {
		v.Inputs[c] = a
	}
	if c, ok := b.CurrentCharacter(); ok {
		v.CurrentCharacter = c
	}
	if b.m.current == PhaseQuiz && b.question != nil {
		p := b.question.Prompt()
		v.Question = &p
	}
	if b.swapFrom != nil {
		p := *b.swapFrom
		v.SwapFrom = &p
	}
	return v
}
