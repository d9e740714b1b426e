package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/ericogr/sphere-quiz/internal/chain"
	"github.com/ericogr/sphere-quiz/internal/config"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/quiz"
	"github.com/ericogr/sphere-quiz/internal/storage"
)

// loadConfigOrExit reads the config file. A missing file is only an error
// when its path was given explicitly.
func loadConfigOrExit(path string, explicit bool) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logging.Info("no config file found; using defaults", logging.Fields{"config_path": path})
			return config.Defaults()
		}
		logging.Fatal("Missing or invalid sphere quiz configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func applyEnvOverrides(cfg *config.LoadedConfig) {
	if v := os.Getenv(constants.EnvDBPath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(constants.EnvRPCURL); v != "" {
		cfg.RPCURL = v
	}
	if v := os.Getenv(constants.EnvAddr); v != "" {
		cfg.ServerAddress = v
	}
	if err := cfg.Validate(); err != nil {
		logging.Fatal("Invalid configuration after environment overrides", err, nil)
	}
}

func loadBankOrExit(path string) quiz.Bank {
	if path == "" {
		return quiz.DefaultBank()
	}
	bank, err := quiz.LoadBank(path)
	if err != nil {
		logging.Fatal("Failed to load quiz bank", err, logging.Fields{"quiz_file": path})
	}
	return bank
}

func createRepositoryOrExit(dbPath string, bank quiz.Bank) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, bank)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{"db_path": dbPath})
	}
	return storage.NewSQLiteRepository(db)
}

// questionsFromRepository prefers the stored questions so operators can
// edit them in place; a broken table falls back to fallback.
func questionsFromRepository(repo storage.Repository, fallback quiz.Bank) quiz.Bank {
	bank, err := repo.GetQuestions()
	if err == nil {
		err = bank.Validate()
	}
	if err != nil {
		logging.Warn("stored questions unusable; using loaded bank", logging.Fields{"error": err.Error()})
		return fallback
	}
	return bank
}

// dialChain returns nil when no RPC endpoint is configured.
func dialChain(cfg *config.LoadedConfig) *chain.Client {
	if cfg.RPCURL == "" {
		logging.Info("no chain rpc configured; using default parties and attack parameters", nil)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c, err := chain.Dial(ctx, cfg.RPCURL, cfg.BossStatsAddress, cfg.NFTAddress)
	if err != nil {
		logging.Fatal("Failed to connect to chain rpc", err, logging.Fields{"rpc_url": cfg.RPCURL})
	}
	return c
}
