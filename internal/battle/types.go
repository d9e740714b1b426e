package battle

import (
	"github.com/ericogr/sphere-quiz/internal/board"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/quiz"
)

// Phase is a node of the turn state machine.
type Phase string

const (
	PhaseIntro             Phase = "intro"
	PhaseStartActionChoice Phase = "start_action_choice"
	PhaseActionChoice      Phase = "action_choice"
	PhaseQuiz              Phase = "quiz"
	PhaseStartMove         Phase = "start_move"
	PhaseMove              Phase = "move"
	PhaseSwapChoice        Phase = "swap_choice"
	PhaseSwap              Phase = "swap"
	PhaseSolve             Phase = "solve"
	PhaseTurnResult        Phase = "turn_result"
	PhaseGameOver          Phase = "game_over"
	PhaseVictory           Phase = "victory"
)

// Terminal reports whether no further input is accepted.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver || p == PhaseVictory
}

// InputKind selects what an Input carries.
type InputKind string

const (
	// InputSelectAction picks Action for the character being asked.
	InputSelectAction InputKind = "select_action"
	// InputAnswer picks Choice (0-based) for the current question.
	InputAnswer InputKind = "answer"
	// InputMoveCursor shifts the cursor by DX, DY, or jumps to At.
	InputMoveCursor InputKind = "move_cursor"
	// InputPick grabs the sphere under the cursor (or At).
	InputPick InputKind = "pick"
	// InputDirection swaps the grabbed sphere with its neighbour.
	InputDirection InputKind = "direction"
	// InputRelease lets go of the grabbed sphere without swapping.
	InputRelease InputKind = "release"
	// InputSolve ends the move phase and resolves matches.
	InputSolve InputKind = "solve"
)

// Input is one player command.
type Input struct {
	Kind      InputKind         `json:"kind"`
	Action    game.BattleAction `json:"action,omitempty"`
	Choice    int               `json:"choice"`
	DX        int               `json:"dx"`
	DY        int               `json:"dy"`
	At        *board.Point      `json:"at,omitempty"`
	Direction board.Direction   `json:"direction,omitempty"`
}

// EventType labels an Event.
type EventType string

const (
	EventPhaseEntered EventType = "phase_entered"
	EventQuestion     EventType = "question"
	EventAnswer       EventType = "answer"
	EventSwap         EventType = "swap"
	EventMatch        EventType = "match"
	EventRecovery     EventType = "recovery"
	EventTurnResult   EventType = "turn_result"
	EventBattleEnd    EventType = "battle_end"
)

// SwapEvent reports a completed swap.
type SwapEvent struct {
	From board.Point     `json:"from"`
	To   board.Point     `json:"to"`
	Dir  board.Direction `json:"direction"`
}

// Event is what observers receive. Only the fields relevant to Type are set.
type Event struct {
	BattleID   string                 `json:"battle_id"`
	Type       EventType              `json:"type"`
	Phase      Phase                  `json:"phase"`
	Turn       int                    `json:"turn"`
	Score      int                    `json:"score"`
	FirstRound bool                   `json:"first_round"`
	Question   *quiz.Prompt           `json:"question,omitempty"`
	Correct    *bool                  `json:"correct,omitempty"`
	Swap       *SwapEvent             `json:"swap,omitempty"`
	Match      *board.MatchReport     `json:"match,omitempty"`
	Recovery   map[game.Character]int `json:"recovery,omitempty"`
	TurnResult *game.TurnResult       `json:"turn_result,omitempty"`
	Victory    *bool                  `json:"victory,omitempty"`
}
