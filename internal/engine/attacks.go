package engine

import (
	"math"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/rng"
	"github.com/ericogr/sphere-quiz/internal/stock"
)

const allOutThreshold = stock.AllOutThreshold

// defenseFor is the stock a character can spend against a hit: its own
// sphere plus the shared Yellow pool.
func (s *BattleState) defenseFor(c game.Character) int {
	return s.Stock.Get(c.Sphere()) + s.Stock.Get(game.Yellow)
}

func (s *BattleState) hit(c game.Character, damage int) bool {
	m := s.Party[c]
	m.HP = max(m.HP-damage, 0)
	return m.HP == 0
}

// allOutAttack hits every active character with the overall multiplier.
// Every target defends with its stock, whether or not it chose Defend, and
// the spent stock is reset only after all targets are resolved.
func (tc *turnContext) allOutAttack(targets []game.Character, p AttackParameters) {
	s := tc.s
	res := &game.EnemyActionResult{AllOut: true, Hits: make([]game.EnemyHit, 0, len(targets))}
	tc.add("The enemy unleashes an all-out attack!")
	for _, c := range targets {
		raw := int(math.Floor(p.OverallAttackParameter * (s.rng.Uniform()*p.AdjustedVolatility + p.BaseAttackPower)))
		final := max(0, raw-s.defenseFor(c))
		dead := s.hit(c, final)
		res.Hits = append(res.Hits, game.EnemyHit{Character: c, Damage: final, Death: dead})
		tc.add("%s takes %d damage%s.", c, final, tc.deathTag(dead))
	}
	for _, c := range targets {
		s.Stock.Reset(c.Sphere())
	}
	s.Stock.Reset(game.Yellow)
	tc.result.EnemyActionResult = res
}

// singleAttack hits one random active character. Only a defending target
// spends stock to reduce the hit.
func (tc *turnContext) singleAttack(targets []game.Character, p AttackParameters) {
	s := tc.s
	target := rng.Choice(s.rng, targets)
	damage := int(math.Floor(s.rng.Uniform()*p.AdjustedVolatility + p.BaseAttackPower))
	if tc.inputs[target] == game.ActionDefend {
		damage -= s.defenseFor(target)
		s.Stock.Reset(target.Sphere())
		s.Stock.Reset(game.Yellow)
	}
	damage = max(0, damage)
	dead := s.hit(target, damage)
	tc.result.EnemyActionResult = &game.EnemyActionResult{
		Hits: []game.EnemyHit{{Character: target, Damage: damage, Death: dead}},
	}
	tc.add("The enemy strikes %s for %d damage%s.", target, damage, tc.deathTag(dead))
}
