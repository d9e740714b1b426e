package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericogr/sphere-quiz/internal/api"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/engine"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/service"
	"github.com/ericogr/sphere-quiz/internal/version"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	defer logging.Sync()

	// Config path may be provided via SPHERE_QUIZ_CONFIG; otherwise
	// ./sphere_quiz.json is used when present.
	configPath, explicit := os.LookupEnv(constants.EnvConfigPath)
	if !explicit || configPath == "" {
		configPath, explicit = constants.DefaultConfigPath, false
	}
	cfg := loadConfigOrExit(configPath, explicit)
	applyEnvOverrides(cfg)
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.Fatal("Invalid log level", err, logging.Fields{"log_level": cfg.LogLevel})
	}
	logging.Info("starting sphere quiz", logging.Fields{"version": version.Version, "commit": version.Commit})

	bank := loadBankOrExit(cfg.QuizFile)
	repo := createRepositoryOrExit(cfg.DatabasePath, bank)
	abandonStaleBattles(repo)

	opts := service.Options{
		Width:         cfg.BoardWidth,
		Height:        cfg.BoardHeight,
		DefaultBossHP: cfg.DefaultBossHP,
		IdleTimeout:   cfg.IdleTimeout,
		ParamTimeout:  cfg.AttackParamsTimeout,
		Bank:          questionsFromRepository(repo, bank),
		Provider:      engine.StaticAttackParameters(engine.DefaultAttackParameters),
	}
	if client := dialChain(cfg); client != nil {
		defer client.Close()
		opts.Chain = client
		if cfg.BossStatsAddress != "" {
			opts.Provider = client
		}
	}
	manager := service.NewManager(repo, opts)

	router := gin.Default()
	api.RegisterRoutes(router, api.NewBattleHandler(manager, repo, cfg.AllowedOrigins))
	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runIdleScanner(gctx, manager) })
	g.Go(func() error { return serve(gctx, srv) })
	if err := g.Wait(); err != nil {
		logging.Fatal("Server stopped with error", err, nil)
	}
	logging.Info("Server stopped", nil)
}
