package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/quiz"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the SQLite database, migrates the schema and seeds
// the question table from bank when it is empty.
func OpenAndMigrate(dataSourceName string, bank quiz.Bank) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." && !isMemoryDSN(dataSourceName) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.BattleRecord{}, &game.PlayerProfile{}, &game.QuizQuestion{}); err != nil {
		return nil, err
	}
	if err := seedQuestions(db, bank); err != nil {
		return nil, err
	}
	return db, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file:")
}

func seedQuestions(db *gorm.DB, bank quiz.Bank) error {
	var count int64
	if err := db.Model(&game.QuizQuestion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(bank) == 0 {
		return nil
	}
	rows := make([]game.QuizQuestion, 0, len(bank))
	for _, q := range bank {
		rows = append(rows, game.QuizQuestion{Question: q.Question, Choices: q.Choices, Answer: q.Answer})
	}
	if err := db.Create(&rows).Error; err != nil {
		return err
	}
	logging.Info("seeded quiz questions", logging.Fields{"count": len(rows)})
	return nil
}
