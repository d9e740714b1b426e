package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/service"
	"github.com/ericogr/sphere-quiz/internal/storage"
)

const (
	idleScanInterval = 5 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// abandonStaleBattles closes out battles a previous process left in
// progress; their in-memory state is gone.
func abandonStaleBattles(repo storage.Repository) {
	n, err := repo.AbandonStaleBattles(time.Now())
	if err != nil {
		logging.Error("failed to abandon stale battles", err, nil)
		return
	}
	if n > 0 {
		logging.Info("abandoned stale battles", logging.Fields{constants.LogFieldCount: n})
	}
}

// runIdleScanner periodically expires idle battles until ctx is done.
func runIdleScanner(ctx context.Context, m *service.Manager) error {
	ticker := time.NewTicker(idleScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := m.ExpireIdle(now); n > 0 {
				logging.Info("expired idle battles", logging.Fields{constants.LogFieldCount: n, "live": m.Live()})
			}
		}
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.Info("Server shutting down", nil)
	return srv.Shutdown(shutdownCtx)
}
