// Package engine owns combat state and turn resolution: party attacks,
// the enemy's single or all-out attack, and recovery for defenders.
package engine

import (
	"time"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/rng"
	"github.com/ericogr/sphere-quiz/internal/stock"
)

// DefaultParamTimeout bounds a single attack parameter fetch.
const DefaultParamTimeout = 3 * time.Second

// BattleState is the mutable combat state of one battle. It is not safe for
// concurrent use; callers serialise access per battle.
type BattleState struct {
	Party Party
	Enemy game.EnemyStatus
	Stock *stock.Ledger

	// ParamTimeout bounds each attack parameter fetch. Zero means
	// DefaultParamTimeout.
	ParamTimeout time.Duration

	rng  rng.Source
	turn int
}

// Party is the roster in play.
type Party = game.Party

// NewBattleState copies party so the caller's stats are not mutated.
func NewBattleState(party game.Party, bossHP int, src rng.Source) *BattleState {
	p := make(game.Party, len(party))
	for c, m := range party {
		mm := *m
		p[c] = &mm
	}
	return &BattleState{
		Party: p,
		Enemy: game.EnemyStatus{HP: bossHP, MaxHP: bossHP},
		Stock: stock.New(),
		rng:   src,
	}
}

// IsVictory reports whether the enemy is down.
func (s *BattleState) IsVictory() bool { return s.Enemy.HP < 1 }

// IsGameOver reports whether every party member is down.
func (s *BattleState) IsGameOver() bool {
	for _, m := range s.Party {
		if m.HP >= 1 {
			return false
		}
	}
	return true
}

// ActiveCharacters returns living characters in party order.
func (s *BattleState) ActiveCharacters() []game.Character {
	out := make([]game.Character, 0, len(game.Characters))
	for _, c := range game.Characters {
		if m, ok := s.Party[c]; ok && m.Active() {
			out = append(out, c)
		}
	}
	return out
}

// Turn is the number of turns executed so far.
func (s *BattleState) Turn() int { return s.turn }

// ApplyRecovery heals every active defender by the spheres cleared this
// turn plus its own stock, never above max HP. It returns the amount healed
// per character.
func (s *BattleState) ApplyRecovery(inputs game.TurnInputs, cleared int) map[game.Character]int {
	healed := map[game.Character]int{}
	for _, c := range s.ActiveCharacters() {
		if inputs[c] != game.ActionDefend {
			continue
		}
		m := s.Party[c]
		amount := min(cleared+s.Stock.Get(c.Sphere()), m.MaxHP-m.HP)
		if amount <= 0 {
			continue
		}
		m.HP += amount
		healed[c] = amount
	}
	return healed
}

// Snapshot returns copies of the party, enemy and display stock for
// presentation.
func (s *BattleState) Snapshot() StateView {
	party := make([]game.PartyMember, 0, len(game.Characters))
	for _, c := range game.Characters {
		if m, ok := s.Party[c]; ok {
			party = append(party, *m)
		}
	}
	return StateView{
		Party: party,
		Enemy: s.Enemy,
		Stock: s.Stock.DisplaySnapshot(),
	}
}

// StateView is a read-only copy of the battle state.
type StateView struct {
	Party []game.PartyMember `json:"party"`
	Enemy game.EnemyStatus   `json:"enemy"`
	Stock game.StockCounts   `json:"stock"`
}
