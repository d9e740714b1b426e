package service

import (
	"context"
	"sync"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/logging"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 64

// eventHub fans battle events out to subscribers. It is the battle's
// observer, so Notify runs with the session lock held and must not block.
type eventHub struct {
	battleID string

	mu     sync.Mutex
	subs   map[int]chan battle.Event
	next   int
	closed bool
}

func newEventHub(battleID string) *eventHub {
	return &eventHub{battleID: battleID, subs: make(map[int]chan battle.Event)}
}

func (h *eventHub) Notify(_ context.Context, ev battle.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			logging.Warn("subscriber lagging; event dropped", logging.Fields{constants.LogFieldBattleID: h.battleID, "subscriber": id, "event": string(ev.Type)})
		}
	}
	return nil
}

func (h *eventHub) subscribe() (<-chan battle.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan battle.Event, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
}

// close ends every subscription. Later subscribers get a closed channel.
func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

// Subscribe streams the battle's future events. The channel is closed when
// the battle ends or is expired; cancel stops the subscription early.
func (m *Manager) Subscribe(battleID string) (<-chan battle.Event, func(), error) {
	s, err := m.session(battleID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe()
	return ch, cancel, nil
}
