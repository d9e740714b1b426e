package game

import (
	"time"

	"gorm.io/gorm"
)

// Battle status values stored on BattleRecord.
const (
	StatusInProgress = "in_progress"
	StatusVictory    = "victory"
	StatusGameOver   = "game_over"
	StatusAbandoned  = "abandoned"
)

// BattleRecord is the persisted summary of a battle. The live board and
// phase state stay in memory; the record is written at creation and again
// when the battle ends.
type BattleRecord struct {
	gorm.Model
	BattleUUID    string    `json:"battle_uuid" gorm:"uniqueIndex;size:36"`
	PlayerAddress string    `json:"player_address" gorm:"index;size:42"`
	Status        string    `json:"status" gorm:"index"`
	Score         int       `json:"score"`
	Turns         int       `json:"turns"`
	BossMaxHP     int       `json:"boss_max_hp"`
	BossHP        int       `json:"boss_hp"`
	FinishedAt    time.Time `json:"finished_at"`
	StatsCounted  bool      `json:"-"`
}

func (BattleRecord) TableName() string { return "battles" }

// Finished reports whether the record is in a terminal status.
func (b *BattleRecord) Finished() bool {
	return b.Status != "" && b.Status != StatusInProgress
}

// PlayerProfile aggregates results for a wallet address. BestScore is what
// the mint signer looks up.
type PlayerProfile struct {
	gorm.Model
	Address       string `json:"address" gorm:"uniqueIndex;size:42"`
	BattlesPlayed int    `json:"battles_played"`
	Victories     int    `json:"victories"`
	BestScore     int    `json:"best_score"`
	TotalCleared  int    `json:"total_cleared"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// QuizQuestion is a persisted trivia question. Choices are stored as a JSON
// column.
type QuizQuestion struct {
	gorm.Model
	Question string   `json:"question"`
	Choices  []string `json:"choices" gorm:"serializer:json"`
	Answer   string   `json:"answer"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }
