package service

import (
	"time"

	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/game"
	"github.com/ericogr/sphere-quiz/internal/logging"
)

// ExpireIdle drops battles with no input since now minus the idle
// timeout. Unfinished ones are recorded as abandoned and never count
// toward player stats. It returns the number of sessions dropped.
func (m *Manager) ExpireIdle(now time.Time) int {
	timeout := m.opts.IdleTimeout
	if timeout <= 0 {
		return 0
	}
	m.mu.Lock()
	all := make(map[string]*session, len(m.sessions))
	for id, s := range m.sessions {
		all[id] = s
	}
	m.mu.Unlock()

	n := 0
	for id, s := range all {
		s.mu.Lock()
		if !s.closed && now.Sub(s.lastActivity) >= timeout {
			if !s.battle.Finished() {
				m.abandon(s, now)
			}
			m.drop(id, s)
			n++
		}
		s.mu.Unlock()
	}
	return n
}

func (m *Manager) abandon(s *session, now time.Time) {
	rec := s.record
	rec.Status = game.StatusAbandoned
	rec.Score = s.battle.Score()
	rec.Turns = s.battle.Turn()
	rec.BossHP = max(s.battle.State().Enemy.HP, 0)
	rec.FinishedAt = now
	if err := m.repo.UpdateStatsOnBattleEnd(rec); err != nil {
		logging.Error("failed to abandon battle", err, logging.Fields{constants.LogFieldBattleID: rec.BattleUUID})
		return
	}
	logging.Info("battle abandoned", logging.Fields{constants.LogFieldBattleID: rec.BattleUUID, constants.LogFieldTurn: rec.Turns})
}

// drop removes s from the live set. The caller holds s.mu.
func (m *Manager) drop(id string, s *session) {
	s.closed = true
	s.hub.close()
	m.mu.Lock()
	if m.sessions[id] == s {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
}
