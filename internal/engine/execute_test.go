package engine

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParty() game.Party {
	return game.Party{
		game.Rojo:   {Character: game.Rojo, HP: 50, MaxHP: 101, Atk: 10},
		game.Blue:   {Character: game.Blue, HP: 30, MaxHP: 93, Atk: 5},
		game.Midori: {Character: game.Midori, HP: 100, MaxHP: 123, Atk: 10},
	}
}

func allDefend() game.TurnInputs {
	return game.TurnInputs{game.Rojo: game.ActionDefend, game.Blue: game.ActionDefend, game.Midori: game.ActionDefend}
}

func TestExecuteTurn_AttackUsesOwnAndKeyStock(t *testing.T) {
	src := &rng.Scripted{Ints: []int{0}, Floats: []float64{0.4}}
	s := NewBattleState(testParty(), 100, src)
	s.Stock.Set(game.Red, 5)
	s.Stock.Set(game.Key, 3)
	s.Stock.Set(game.Cyan, 4)

	inputs := game.TurnInputs{game.Rojo: game.ActionAttack, game.Blue: game.ActionDefend, game.Midori: game.ActionDefend}
	res := s.ExecuteTurn(context.Background(), inputs, StaticAttackParameters(DefaultAttackParameters))

	r := res.PartyActionResults[game.Rojo]
	if r.Damage != 18 {
		t.Fatalf("expected 18 damage (10 atk + 5 red + 3 key), got %d", r.Damage)
	}
	assert.False(t, r.Death)
	assert.Equal(t, 82, s.Enemy.HP)
	assert.Equal(t, 0, s.Stock.Get(game.Red))
	assert.Equal(t, 0, s.Stock.Get(game.Key))
	assert.Equal(t, 4, s.Stock.Get(game.Cyan))
	assert.Equal(t, game.ActionDefend, res.PartyActionResults[game.Blue].Action)

	require.NotNil(t, res.EnemyActionResult)
	assert.False(t, res.EnemyActionResult.AllOut)
	require.Len(t, res.EnemyActionResult.Hits, 1)
	hit := res.EnemyActionResult.Hits[0]
	// floor(0.4*25 + 20) = 30 against a non-defending Rojo
	assert.Equal(t, game.EnemyHit{Character: game.Rojo, Damage: 30, Death: false}, hit)
	assert.Equal(t, 20, s.Party[game.Rojo].HP)
	assert.Equal(t, 1, res.Turn)
	assert.NotEmpty(t, res.Summary)
}

func TestExecuteTurn_DefendNeverGoesNegative(t *testing.T) {
	src := &rng.Scripted{Ints: []int{1}, Floats: []float64{0}}
	s := NewBattleState(testParty(), 100, src)
	s.Stock.Set(game.Cyan, 10)
	s.Stock.Set(game.Yellow, 10)

	res := s.ExecuteTurn(context.Background(), allDefend(), StaticAttackParameters(DefaultAttackParameters))
	require.NotNil(t, res.EnemyActionResult)
	hit := res.EnemyActionResult.Hits[0]
	assert.Equal(t, game.Blue, hit.Character)
	assert.Equal(t, 0, hit.Damage)
	assert.Equal(t, 30, s.Party[game.Blue].HP)
	assert.Equal(t, 0, s.Stock.Get(game.Cyan))
	assert.Equal(t, 0, s.Stock.Get(game.Yellow))
}

func TestExecuteTurn_NonDefenderKeepsStock(t *testing.T) {
	src := &rng.Scripted{Ints: []int{2}, Floats: []float64{0}}
	s := NewBattleState(testParty(), 100, src)
	s.Stock.Set(game.Green, 7)
	s.Stock.Set(game.Yellow, 3)

	inputs := game.TurnInputs{game.Rojo: game.ActionDefend, game.Blue: game.ActionDefend, game.Midori: game.ActionAttack}
	res := s.ExecuteTurn(context.Background(), inputs, StaticAttackParameters(DefaultAttackParameters))
	hit := res.EnemyActionResult.Hits[0]
	assert.Equal(t, game.Midori, hit.Character)
	assert.Equal(t, 20, hit.Damage)
	// Green was spent by Midori's attack; Yellow untouched
	assert.Equal(t, 0, s.Stock.Get(game.Green))
	assert.Equal(t, 3, s.Stock.Get(game.Yellow))
}

func TestExecuteTurn_AllOutAttack(t *testing.T) {
	src := &rng.Scripted{Floats: []float64{0.5, 0.5, 0.5}}
	s := NewBattleState(testParty(), 100, src)
	s.Stock.Set(game.Green, 11)
	s.Stock.Set(game.Yellow, 2)
	s.Stock.Set(game.Red, 1)
	s.Stock.Set(game.Key, 4)

	params := StaticAttackParameters{BaseAttackPower: 20, AdjustedVolatility: 20, OverallAttackParameter: 0.5}
	res := s.ExecuteTurn(context.Background(), allDefend(), params)

	require.NotNil(t, res.EnemyActionResult)
	assert.True(t, res.EnemyActionResult.AllOut)
	// raw = floor(0.5*(0.5*20+20)) = 15 for every target
	assert.Equal(t, []game.EnemyHit{
		{Character: game.Rojo, Damage: 12},
		{Character: game.Blue, Damage: 13},
		{Character: game.Midori, Damage: 2},
	}, res.EnemyActionResult.Hits)
	for _, st := range []game.SphereType{game.Red, game.Cyan, game.Green, game.Yellow} {
		assert.Equal(t, 0, s.Stock.Get(st), st.String())
	}
	assert.Equal(t, 4, s.Stock.Get(game.Key))
	assert.Equal(t, 0, res.StockCounts[game.Green])
}

func TestExecuteTurn_AllOutSkipsFallenMembers(t *testing.T) {
	party := testParty()
	party[game.Blue].HP = 0
	s := NewBattleState(party, 100, &rng.Scripted{})
	s.Stock.Set(game.Key, 20)
	s.Stock.Set(game.Cyan, 5)

	res := s.ExecuteTurn(context.Background(), game.TurnInputs{game.Rojo: game.ActionDefend, game.Midori: game.ActionDefend}, StaticAttackParameters(DefaultAttackParameters))
	require.Len(t, res.EnemyActionResult.Hits, 2)
	assert.Equal(t, game.Rojo, res.EnemyActionResult.Hits[0].Character)
	assert.Equal(t, game.Midori, res.EnemyActionResult.Hits[1].Character)
	// Blue was not a target so its stock survives
	assert.Equal(t, 5, s.Stock.Get(game.Cyan))
}

func TestExecuteTurn_EnemyDefeatedSkipsEnemyPhase(t *testing.T) {
	s := NewBattleState(testParty(), 10, &rng.Scripted{})
	s.Stock.Set(game.Key, 2)
	s.Stock.Set(game.Cyan, 3)
	called := false
	provider := AttackParameterFunc(func(context.Context) (AttackParameters, error) {
		called = true
		return DefaultAttackParameters, nil
	})

	inputs := game.TurnInputs{game.Rojo: game.ActionAttack, game.Blue: game.ActionAttack, game.Midori: game.ActionDefend}
	res := s.ExecuteTurn(context.Background(), inputs, provider)

	assert.Equal(t, game.PartyActionResult{Character: game.Rojo, Action: game.ActionAttack, Damage: 12, Death: true}, res.PartyActionResults[game.Rojo])
	assert.Equal(t, game.PartyActionResult{Character: game.Blue, Action: game.ActionAttack, Damage: 0, Death: true}, res.PartyActionResults[game.Blue])
	assert.Equal(t, 3, s.Stock.Get(game.Cyan))
	assert.Equal(t, 0, s.Stock.Get(game.Key))
	assert.Nil(t, res.EnemyActionResult)
	assert.False(t, called)
	assert.True(t, s.IsVictory())
	assert.Equal(t, 0, s.Enemy.HP)
}

func TestExecuteTurn_ProviderErrorUsesDefaults(t *testing.T) {
	s := NewBattleState(testParty(), 100, &rng.Scripted{})
	provider := AttackParameterFunc(func(context.Context) (AttackParameters, error) {
		return AttackParameters{}, errors.New("rpc down")
	})
	res := s.ExecuteTurn(context.Background(), allDefend(), provider)
	assert.Equal(t, 20, res.EnemyActionResult.Hits[0].Damage)
}

func TestExecuteTurn_ProviderTimeoutUsesDefaults(t *testing.T) {
	s := NewBattleState(testParty(), 100, &rng.Scripted{})
	s.ParamTimeout = 10 * time.Millisecond
	provider := AttackParameterFunc(func(ctx context.Context) (AttackParameters, error) {
		<-ctx.Done()
		return AttackParameters{BaseAttackPower: 999}, ctx.Err()
	})
	start := time.Now()
	res := s.ExecuteTurn(context.Background(), allDefend(), provider)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 20, res.EnemyActionResult.Hits[0].Damage)
}

func TestExecuteTurn_NilProviderUsesDefaults(t *testing.T) {
	s := NewBattleState(testParty(), 100, &rng.Scripted{})
	res := s.ExecuteTurn(context.Background(), allDefend(), nil)
	assert.Equal(t, 20, res.EnemyActionResult.Hits[0].Damage)
}

func TestIsGameOver(t *testing.T) {
	party := testParty()
	s := NewBattleState(party, 100, &rng.Scripted{})
	assert.False(t, s.IsGameOver())
	for _, m := range s.Party {
		m.HP = 0
	}
	assert.True(t, s.IsGameOver())
	// the caller's roster is not mutated
	assert.Equal(t, 50, party[game.Rojo].HP)
	assert.Empty(t, s.ActiveCharacters())
}

func TestApplyRecovery(t *testing.T) {
	party := testParty()
	party[game.Blue].HP = 93
	s := NewBattleState(party, 100, &rng.Scripted{})
	s.Stock.Set(game.Green, 30)
	s.Stock.Set(game.Red, 4)

	inputs := game.TurnInputs{game.Rojo: game.ActionAttack, game.Blue: game.ActionDefend, game.Midori: game.ActionDefend}
	healed := s.ApplyRecovery(inputs, 5)
	assert.Equal(t, map[game.Character]int{game.Midori: 23}, healed)
	assert.Equal(t, 123, s.Party[game.Midori].HP)
	assert.Equal(t, 50, s.Party[game.Rojo].HP)
	assert.Equal(t, 93, s.Party[game.Blue].HP)
}

func TestPartyFromActivity(t *testing.T) {
	p := PartyFromActivity(&WalletActivity{
		BalanceWei:        big.NewInt(7e16),
		LastGasPriceGwei:  1.7,
		TxCountLastWeek:   50,
		BlocksSinceLastTx: 30000,
	})
	assert.Equal(t, game.PartyMember{Character: game.Rojo, HP: 90, MaxHP: 121, Atk: 40}, *p[game.Rojo])
	assert.Equal(t, game.PartyMember{Character: game.Blue, HP: 70, MaxHP: 113, Atk: 80}, *p[game.Blue])
	assert.Equal(t, game.PartyMember{Character: game.Midori, HP: 80, MaxHP: 133, Atk: 65}, *p[game.Midori])

	low := PartyFromActivity(&WalletActivity{LastGasPriceGwei: 0.2, TxCountLastWeek: 1, BlocksSinceLastTx: 1_000_000_000})
	assert.Equal(t, 50, low[game.Rojo].HP)
	assert.Equal(t, 15, low[game.Rojo].Atk)
	assert.Equal(t, 10, low[game.Blue].Atk)
	assert.Equal(t, 5, low[game.Midori].Atk)

	rich := PartyFromActivity(&WalletActivity{BalanceWei: big.NewInt(1e18), LastGasPriceGwei: 10})
	assert.Equal(t, 150, rich[game.Midori].MaxHP)
	assert.Equal(t, 90, rich[game.Rojo].Atk)
	assert.Equal(t, 75, rich[game.Midori].Atk)

	def := PartyFromActivity(nil)
	assert.Equal(t, 80, def[game.Rojo].HP)
	assert.Equal(t, 5, def[game.Blue].Atk)
}
