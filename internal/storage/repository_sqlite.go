package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/quiz"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func normalizeAddress(a string) string {
	return strings.ToLower(strings.TrimSpace(a))
}

func (r *sqliteRepository) CreateBattle(b *game.BattleRecord) error {
	b.PlayerAddress = normalizeAddress(b.PlayerAddress)
	return r.db.Create(b).Error
}

func (r *sqliteRepository) UpdateBattle(b *game.BattleRecord) error {
	return r.db.Save(b).Error
}

func (r *sqliteRepository) GetBattleByUUID(battleUUID string) (*game.BattleRecord, error) {
	var b game.BattleRecord
	if err := r.db.Where("battle_uuid = ?", battleUUID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *sqliteRepository) UpdateStatsOnBattleEnd(b *game.BattleRecord) error {
	if !b.Finished() {
		return ErrNotFinished
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var stored game.BattleRecord
		if err := tx.Where("battle_uuid = ?", b.BattleUUID).First(&stored).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if stored.StatsCounted {
			return nil
		}
		b.ID = stored.ID
		b.CreatedAt = stored.CreatedAt
		b.StatsCounted = true
		if err := tx.Save(b).Error; err != nil {
			return err
		}
		if b.Status == game.StatusAbandoned || b.PlayerAddress == "" {
			return nil
		}

		var p game.PlayerProfile
		addr := normalizeAddress(b.PlayerAddress)
		if err := tx.Where("address = ?", addr).First(&p).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			p = game.PlayerProfile{Address: addr}
		}
		p.BattlesPlayed++
		if b.Status == game.StatusVictory {
			p.Victories++
		}
		p.BestScore = max(p.BestScore, b.Score)
		p.TotalCleared += b.Score
		return tx.Save(&p).Error
	})
}

func (r *sqliteRepository) GetTopScores(limit int) ([]game.PlayerProfile, error) {
	var out []game.PlayerProfile
	err := r.db.Where("battles_played > 0").
		Order("best_score desc").Order("victories desc").Order("id asc").
		Limit(limit).Find(&out).Error
	return out, err
}

func (r *sqliteRepository) GetProfileByAddress(address string) (*game.PlayerProfile, error) {
	addr := normalizeAddress(address)
	var p game.PlayerProfile
	if err := r.db.Where("address = ?", addr).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &game.PlayerProfile{Address: addr}, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) AbandonStaleBattles(now time.Time) (int64, error) {
	res := r.db.Model(&game.BattleRecord{}).
		Where("status = ?", game.StatusInProgress).
		Updates(map[string]interface{}{
			"status":        game.StatusAbandoned,
			"finished_at":   now,
			"stats_counted": true,
		})
	return res.RowsAffected, res.Error
}

func (r *sqliteRepository) GetQuestions() (quiz.Bank, error) {
	var rows []game.QuizQuestion
	if err := r.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	bank := make(quiz.Bank, 0, len(rows))
	for _, q := range rows {
		bank = append(bank, quiz.Question{Question: q.Question, Choices: q.Choices, Answer: q.Answer})
	}
	return bank, nil
}
