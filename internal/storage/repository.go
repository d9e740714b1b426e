package storage

import (
	"errors"
	"time"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/quiz"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrNotFinished = errors.New("battle is still in progress")
)

type Repository interface {
	CreateBattle(b *game.BattleRecord) error
	UpdateBattle(b *game.BattleRecord) error
	GetBattleByUUID(battleUUID string) (*game.BattleRecord, error)
	// UpdateStatsOnBattleEnd saves the finished record and folds it into
	// the player's profile once. Abandoned battles are saved but not
	// counted. A record that is still in progress fails with ErrNotFinished.
	UpdateStatsOnBattleEnd(b *game.BattleRecord) error
	// Leaderboard, best score first.
	GetTopScores(limit int) ([]game.PlayerProfile, error)
	// GetProfileByAddress returns an empty profile for unknown addresses.
	GetProfileByAddress(address string) (*game.PlayerProfile, error)
	// AbandonStaleBattles marks every in-progress record as abandoned. It
	// runs at startup since live battles do not survive a restart.
	AbandonStaleBattles(now time.Time) (int64, error)
	GetQuestions() (quiz.Bank, error)
}
