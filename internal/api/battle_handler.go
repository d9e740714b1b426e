package api

import (
	"context"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/service"
)

// BattleService is what the HTTP layer needs from service.Manager.
type BattleService interface {
	CreateBattle(ctx context.Context, req service.CreateBattleRequest) (battle.View, error)
	Get(battleID string) (battle.View, error)
	Record(battleID string) (*game.BattleRecord, error)
	SubmitInput(ctx context.Context, battleID string, in battle.Input) (battle.View, error)
	Subscribe(battleID string) (<-chan battle.Event, func(), error)
}

// ProfileStore serves the leaderboard and player lookups.
type ProfileStore interface {
	GetTopScores(limit int) ([]game.PlayerProfile, error)
	GetProfileByAddress(address string) (*game.PlayerProfile, error)
}

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	battles  BattleService
	profiles ProfileStore
	// host patterns allowed to open event streams besides the server's own
	originPatterns []string
}

func NewBattleHandler(battles BattleService, profiles ProfileStore, originPatterns []string) *BattleHandler {
	return &BattleHandler{battles: battles, profiles: profiles, originPatterns: originPatterns}
}
