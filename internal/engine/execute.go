package engine

import (
	"context"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
)

// ExecuteTurn resolves the party phase and then, if the enemy survives,
// the enemy phase. It mutates party, enemy and stock in place. Provider
// failures fall back to DefaultAttackParameters and are never returned.
func (s *BattleState) ExecuteTurn(ctx context.Context, inputs game.TurnInputs, provider AttackParameterProvider) game.TurnResult {
	s.turn++
	tc := newTurnContext(s, inputs)

	tc.partyPhase()
	if s.Enemy.HP > 0 {
		params := s.fetchAttackParameters(ctx, provider)
		tc.enemyPhase(params)
	} else {
		tc.add("The enemy is defeated.")
	}

	res := tc.finish()
	logging.Debug("turn executed", logging.Fields{
		"turn":     res.Turn,
		"enemy_hp": s.Enemy.HP,
		"all_out":  res.EnemyActionResult != nil && res.EnemyActionResult.AllOut,
	})
	return res
}

// partyPhase runs each chosen, active character in party order. Any attack
// that lands consumes the Key stock once the phase ends.
func (tc *turnContext) partyPhase() {
	s := tc.s
	clearKey := false
	for _, c := range game.Characters {
		action, ok := tc.inputs[c]
		if !ok {
			continue
		}
		m, ok := s.Party[c]
		if !ok || !m.Active() {
			continue
		}
		if action != game.ActionAttack {
			tc.result.PartyActionResults[c] = game.PartyActionResult{Character: c, Action: game.ActionDefend}
			tc.add("%s defends.", c)
			continue
		}
		if s.Enemy.HP <= 0 {
			// enemy already down this turn: the swing lands on nothing
			tc.result.PartyActionResults[c] = game.PartyActionResult{Character: c, Action: game.ActionAttack, Damage: 0, Death: true}
			continue
		}
		own := c.Sphere()
		damage := max(0, m.Atk+s.Stock.Get(own)+s.Stock.Get(game.Key))
		s.Enemy.HP = max(s.Enemy.HP-damage, 0)
		s.Stock.Reset(own)
		clearKey = true
		dead := s.Enemy.HP < 1
		tc.result.PartyActionResults[c] = game.PartyActionResult{Character: c, Action: game.ActionAttack, Damage: damage, Death: dead}
		tc.add("%s attacks for %d damage%s.", c, damage, tc.deathTag(dead))
	}
	if clearKey {
		s.Stock.Reset(game.Key)
	}
}

func (tc *turnContext) enemyPhase(params AttackParameters) {
	targets := tc.s.ActiveCharacters()
	if len(targets) == 0 {
		return
	}
	if tc.s.Stock.AnyAtLeast(allOutThreshold) {
		tc.allOutAttack(targets, params)
		return
	}
	tc.singleAttack(targets, params)
}
