package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/engine"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/quiz"
	"github.com/ericogr/sphere-quiz/internal/storage"
)

const (
	correctChoice = 1
	wrongChoice   = 0
)

type mockRepo struct {
	records     map[string]*game.BattleRecord
	updates     int
	statsCalled int
	statsErr    error
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: map[string]*game.BattleRecord{}}
}

func (m *mockRepo) CreateBattle(b *game.BattleRecord) error {
	m.records[b.BattleUUID] = b
	return nil
}

func (m *mockRepo) UpdateBattle(b *game.BattleRecord) error {
	m.updates++
	m.records[b.BattleUUID] = b
	return nil
}

func (m *mockRepo) GetBattleByUUID(id string) (*game.BattleRecord, error) {
	if b, ok := m.records[id]; ok {
		return b, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) UpdateStatsOnBattleEnd(b *game.BattleRecord) error {
	m.statsCalled++
	m.records[b.BattleUUID] = b
	return m.statsErr
}

type fakeChain struct {
	activity *engine.WalletActivity
	hp       int
	err      error
	asked    []string
}

func (f *fakeChain) WalletActivity(_ context.Context, addr string) (*engine.WalletActivity, error) {
	f.asked = append(f.asked, addr)
	return f.activity, f.err
}

func (f *fakeChain) BossHP(context.Context) (int, error) { return f.hp, f.err }

func testOptions() Options {
	return Options{
		DefaultBossHP: 500,
		IdleTimeout:   time.Minute,
		Bank:          quiz.Bank{{Question: "Which is b?", Choices: []string{"a", "b", "c"}, Answer: "b"}},
		Provider:      engine.StaticAttackParameters(engine.DefaultAttackParameters),
	}
}

func seed(v uint64) *uint64 { return &v }

func mustSubmit(t *testing.T, m *Manager, id string, in battle.Input) battle.View {
	t.Helper()
	v, err := m.SubmitInput(context.Background(), id, in)
	if err != nil {
		t.Fatalf("unexpected error for %s: %v", in.Kind, err)
	}
	return v
}

func TestCreateBattle_PersistsAndStarts(t *testing.T) {
	repo := newMockRepo()
	m := NewManager(repo, testOptions())
	v, err := m.CreateBattle(context.Background(), CreateBattleRequest{PlayerAddress: "0x00000000000000000000000000000000000000AB", Seed: seed(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Phase != battle.PhaseActionChoice {
		t.Fatalf("expected action_choice, got %s", v.Phase)
	}
	rec, ok := repo.records[v.ID]
	if !ok {
		t.Fatalf("expected record for %s", v.ID)
	}
	if rec.Status != game.StatusInProgress || rec.BossMaxHP != 500 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.PlayerAddress != "0x00000000000000000000000000000000000000ab" {
		t.Fatalf("expected lowercase address, got %s", rec.PlayerAddress)
	}
	if m.Live() != 1 {
		t.Fatalf("expected one live battle, got %d", m.Live())
	}
	if _, err := m.Get(v.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestCreateBattle_InvalidAddress(t *testing.T) {
	m := NewManager(newMockRepo(), testOptions())
	if _, err := m.CreateBattle(context.Background(), CreateBattleRequest{PlayerAddress: "bob"}); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestCreateBattle_UsesChainValues(t *testing.T) {
	opts := testOptions()
	fc := &fakeChain{hp: 77, activity: &engine.WalletActivity{TxCountLastWeek: 10}}
	opts.Chain = fc
	m := NewManager(newMockRepo(), opts)
	v, err := m.CreateBattle(context.Background(), CreateBattleRequest{PlayerAddress: "0x00000000000000000000000000000000000000cd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.State.Enemy.MaxHP != 77 {
		t.Fatalf("expected boss hp from chain, got %d", v.State.Enemy.MaxHP)
	}
	want := engine.PartyFromActivity(fc.activity)
	for _, pm := range v.State.Party {
		if pm.Atk != want[pm.Character].Atk {
			t.Fatalf("%s atk = %d, want %d", pm.Character, pm.Atk, want[pm.Character].Atk)
		}
	}
	if len(fc.asked) != 1 {
		t.Fatalf("expected one wallet lookup, got %d", len(fc.asked))
	}
}

func TestCreateBattle_ChainFailureFallsBack(t *testing.T) {
	opts := testOptions()
	opts.Chain = &fakeChain{err: errors.New("rpc down")}
	m := NewManager(newMockRepo(), opts)
	v, err := m.CreateBattle(context.Background(), CreateBattleRequest{PlayerAddress: "0x00000000000000000000000000000000000000ef"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.State.Enemy.MaxHP != 500 {
		t.Fatalf("expected default boss hp, got %d", v.State.Enemy.MaxHP)
	}
	def := engine.DefaultParty()
	for _, pm := range v.State.Party {
		if pm.HP != def[pm.Character].HP {
			t.Fatalf("expected default party for %s", pm.Character)
		}
	}
}

func TestSubmitInput_RejectedLeavesBattleUnchanged(t *testing.T) {
	m := NewManager(newMockRepo(), testOptions())
	v, _ := m.CreateBattle(context.Background(), CreateBattleRequest{Seed: seed(5)})
	got, err := m.SubmitInput(context.Background(), v.ID, battle.Input{Kind: battle.InputSolve})
	if !errors.Is(err, ErrInputRejected) {
		t.Fatalf("expected ErrInputRejected, got %v", err)
	}
	if got.Phase != battle.PhaseActionChoice || got.CurrentCharacter != game.Rojo {
		t.Fatalf("battle changed after rejected input: %s %s", got.Phase, got.CurrentCharacter)
	}
}

func TestSubmitInput_UnknownBattle(t *testing.T) {
	m := NewManager(newMockRepo(), testOptions())
	if _, err := m.SubmitInput(context.Background(), "nope", battle.Input{Kind: battle.InputSolve}); !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("expected ErrBattleNotFound, got %v", err)
	}
}

func TestSubmitInput_CheckpointsEachTurn(t *testing.T) {
	repo := newMockRepo()
	m := NewManager(repo, testOptions())
	v, _ := m.CreateBattle(context.Background(), CreateBattleRequest{Seed: seed(5)})
	for i := 0; i < 3; i++ {
		mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputSelectAction, Action: game.ActionDefend})
	}
	got := mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputAnswer, Choice: wrongChoice})
	if got.Turn != 1 {
		t.Fatalf("expected turn 1, got %d", got.Turn)
	}
	if repo.updates != 1 || repo.records[v.ID].Turns != 1 {
		t.Fatalf("expected one checkpoint at turn 1, got %d updates, turns=%d", repo.updates, repo.records[v.ID].Turns)
	}
}

func TestSubmitInput_VictoryRecordsStats(t *testing.T) {
	repo := newMockRepo()
	opts := testOptions()
	opts.DefaultBossHP = 1
	m := NewManager(repo, opts)
	v, _ := m.CreateBattle(context.Background(), CreateBattleRequest{Seed: seed(5)})

	events, cancel, err := m.Subscribe(v.ID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputSelectAction, Action: game.ActionAttack})
	mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputSelectAction, Action: game.ActionDefend})
	mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputSelectAction, Action: game.ActionDefend})
	mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputAnswer, Choice: correctChoice})
	got := mustSubmit(t, m, v.ID, battle.Input{Kind: battle.InputSolve})

	if got.Phase != battle.PhaseVictory {
		t.Fatalf("expected victory, got %s", got.Phase)
	}
	rec := repo.records[v.ID]
	if rec.Status != game.StatusVictory || rec.BossHP != 0 || rec.FinishedAt.IsZero() {
		t.Fatalf("unexpected final record: %+v", rec)
	}
	if repo.statsCalled != 1 {
		t.Fatalf("expected stats update once, got %d", repo.statsCalled)
	}

	var sawEnd bool
	for ev := range events {
		if ev.Type == battle.EventBattleEnd {
			sawEnd = true
		}
	}
	if !sawEnd {
		t.Fatalf("expected battle_end event before the stream closed")
	}

	if _, err := m.SubmitInput(context.Background(), v.ID, battle.Input{Kind: battle.InputSolve}); !errors.Is(err, ErrBattleOver) {
		t.Fatalf("expected ErrBattleOver, got %v", err)
	}
}

func TestRecord_FallsBackToRepository(t *testing.T) {
	repo := newMockRepo()
	repo.records["old"] = &game.BattleRecord{BattleUUID: "old", Status: game.StatusAbandoned}
	m := NewManager(repo, testOptions())
	rec, err := m.Record("old")
	if err != nil || rec.Status != game.StatusAbandoned {
		t.Fatalf("unexpected record %+v, err %v", rec, err)
	}
	if _, err := m.Record("missing"); !errors.Is(err, ErrBattleNotFound) {
		t.Fatalf("expected ErrBattleNotFound, got %v", err)
	}
}
