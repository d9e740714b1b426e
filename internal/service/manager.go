package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/engine"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/quiz"
	"github.com/ericogr/sphere-quiz/internal/rng"
	"github.com/ericogr/sphere-quiz/internal/storage"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

var (
	ErrBattleNotFound = errors.New("battle not found")
	ErrBattleOver     = errors.New("battle is already over")
	ErrInputRejected  = errors.New("input rejected")
	ErrInvalidAddress = errors.New("invalid wallet address")
)

// BattleRepo is the minimal repository interface the manager needs.
type BattleRepo interface {
	CreateBattle(b *game.BattleRecord) error
	UpdateBattle(b *game.BattleRecord) error
	GetBattleByUUID(battleUUID string) (*game.BattleRecord, error)
	UpdateStatsOnBattleEnd(b *game.BattleRecord) error
}

// ChainReader supplies per-player and per-boss values read on chain.
type ChainReader interface {
	WalletActivity(ctx context.Context, address string) (*engine.WalletActivity, error)
	BossHP(ctx context.Context) (int, error)
}

// Options configures new battles. Zero values fall back to the battle
// package defaults.
type Options struct {
	Width         int
	Height        int
	DefaultBossHP int
	IdleTimeout   time.Duration
	ParamTimeout  time.Duration
	Bank          quiz.Bank
	Provider      engine.AttackParameterProvider
	// Chain is optional; without it every player gets the default party
	// and the boss uses DefaultBossHP.
	Chain ChainReader
}

// CreateBattleRequest is the payload for a new battle. Seed makes the
// board and quiz order reproducible.
type CreateBattleRequest struct {
	PlayerAddress string  `json:"player_address"`
	Seed          *uint64 `json:"seed,omitempty"`
}

type session struct {
	mu           sync.Mutex
	battle       *battle.Battle
	record       *game.BattleRecord
	lastActivity time.Time
	hub          *eventHub
	closed       bool
}

// Manager owns the live battles of this process. Each battle is driven
// under its own lock; the manager lock only guards the session map and
// is never held while waiting for a session lock.
type Manager struct {
	repo BattleRepo
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewManager(repo BattleRepo, opts Options) *Manager {
	return &Manager{
		repo:     repo,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// CreateBattle builds a party from the player's wallet, starts the battle
// and persists its record. The returned view is waiting for the first
// action choice.
func (m *Manager) CreateBattle(ctx context.Context, req CreateBattleRequest) (battle.View, error) {
	addr := strings.TrimSpace(req.PlayerAddress)
	if addr != "" && !common.IsHexAddress(addr) {
		return battle.View{}, ErrInvalidAddress
	}
	addr = strings.ToLower(addr)

	id := uuid.NewString()
	hub := newEventHub(id)
	var src rng.Source
	if req.Seed != nil {
		src = rng.New(*req.Seed)
	}
	b, err := battle.New(battle.Config{
		ID:        id,
		Width:     m.opts.Width,
		Height:    m.opts.Height,
		BossHP:    m.bossHP(ctx),
		Party:     m.party(ctx, addr),
		Bank:      m.opts.Bank,
		Provider:  m.opts.Provider,
		Source:    src,
		Observers: []battle.Observer{hub},
	})
	if err != nil {
		return battle.View{}, err
	}
	if m.opts.ParamTimeout > 0 {
		b.State().ParamTimeout = m.opts.ParamTimeout
	}

	rec := &game.BattleRecord{
		BattleUUID:    id,
		PlayerAddress: addr,
		Status:        game.StatusInProgress,
		BossMaxHP:     b.State().Enemy.MaxHP,
		BossHP:        b.State().Enemy.HP,
	}
	if err := m.repo.CreateBattle(rec); err != nil {
		return battle.View{}, err
	}
	if err := b.Start(ctx); err != nil {
		return battle.View{}, err
	}

	s := &session{battle: b, record: rec, lastActivity: m.now(), hub: hub}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	logging.Info("battle created", logging.Fields{constants.LogFieldBattleID: id, constants.LogFieldPlayer: addr, "boss_hp": rec.BossMaxHP})
	return b.View(), nil
}

func (m *Manager) party(ctx context.Context, addr string) game.Party {
	if m.opts.Chain == nil || addr == "" {
		return engine.DefaultParty()
	}
	act, err := m.opts.Chain.WalletActivity(ctx, addr)
	if err != nil {
		logging.Warn("wallet activity unavailable; using default party", logging.Fields{constants.LogFieldPlayer: addr, "error": err.Error()})
		return engine.DefaultParty()
	}
	return engine.PartyFromActivity(act)
}

func (m *Manager) bossHP(ctx context.Context) int {
	if m.opts.Chain != nil {
		hp, err := m.opts.Chain.BossHP(ctx)
		if err == nil {
			return hp
		}
		logging.Warn("boss hp unavailable; using configured default", logging.Fields{"error": err.Error()})
	}
	if m.opts.DefaultBossHP > 0 {
		return m.opts.DefaultBossHP
	}
	return 500
}

func (m *Manager) session(battleID string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[battleID]
	if !ok {
		return nil, ErrBattleNotFound
	}
	return s, nil
}

// Get returns the current view of a live battle.
func (m *Manager) Get(battleID string) (battle.View, error) {
	s, err := m.session(battleID)
	if err != nil {
		return battle.View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return battle.View{}, ErrBattleNotFound
	}
	return s.battle.View(), nil
}

// Record returns the persisted summary of any battle, live or not.
func (m *Manager) Record(battleID string) (*game.BattleRecord, error) {
	rec, err := m.repo.GetBattleByUUID(battleID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && rec == nil) {
		return nil, ErrBattleNotFound
	}
	return rec, err
}

// Live reports how many battles are held in memory.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
