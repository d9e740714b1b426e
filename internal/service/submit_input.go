package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
)

// SubmitInput applies one player input to a live battle. When the input
// ends the battle the record is finalised and the player's profile
// updated. Rejected inputs leave the battle unchanged.
func (m *Manager) SubmitInput(ctx context.Context, battleID string, in battle.Input) (battle.View, error) {
	s, err := m.session(battleID)
	if err != nil {
		return battle.View{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return battle.View{}, ErrBattleNotFound
	}
	if s.battle.Finished() {
		return s.battle.View(), ErrBattleOver
	}
	s.lastActivity = m.now()

	if err := s.battle.Handle(ctx, in); err != nil {
		switch {
		case errors.Is(err, battle.ErrInputRejected):
			return s.battle.View(), fmt.Errorf("%w: %v", ErrInputRejected, err)
		case errors.Is(err, battle.ErrBattleOver):
			return s.battle.View(), ErrBattleOver
		default:
			// the machine is in an undefined state; stop serving it
			logging.Error("battle failed while handling input", err, logging.Fields{constants.LogFieldBattleID: battleID, constants.LogFieldPhase: string(s.battle.Phase())})
			m.abandon(s, m.now())
			m.drop(battleID, s)
			return battle.View{}, err
		}
	}

	if s.battle.Finished() {
		status := game.StatusGameOver
		if s.battle.Victory() {
			status = game.StatusVictory
		}
		m.finish(s, status)
	} else if s.battle.Turn() != s.record.Turns {
		m.checkpoint(s)
	}
	return s.battle.View(), nil
}

// checkpoint persists progress after each completed turn so the record
// reflects how far an abandoned battle got.
func (m *Manager) checkpoint(s *session) {
	rec := s.record
	rec.Score = s.battle.Score()
	rec.Turns = s.battle.Turn()
	rec.BossHP = max(s.battle.State().Enemy.HP, 0)
	if err := m.repo.UpdateBattle(rec); err != nil {
		logging.Error("failed to checkpoint battle", err, logging.Fields{constants.LogFieldBattleID: rec.BattleUUID, constants.LogFieldTurn: rec.Turns})
	}
}

// finish records the final state and closes subscriptions. The caller
// holds s.mu. Persistence failures are logged; the in-memory battle is
// already over either way.
func (m *Manager) finish(s *session, status string) {
	rec := s.record
	st := s.battle.State()
	rec.Status = status
	rec.Score = s.battle.Score()
	rec.Turns = s.battle.Turn()
	rec.BossHP = max(st.Enemy.HP, 0)
	rec.FinishedAt = m.now()
	if err := m.repo.UpdateStatsOnBattleEnd(rec); err != nil {
		logging.Error("failed to record battle end", err, logging.Fields{constants.LogFieldBattleID: rec.BattleUUID, constants.LogFieldStatus: status})
	}
	s.hub.close()
	logging.Info("battle ended", logging.Fields{
		constants.LogFieldBattleID: rec.BattleUUID,
		constants.LogFieldStatus:   status,
		constants.LogFieldScore:    rec.Score,
		constants.LogFieldTurn:     rec.Turns,
	})
}
