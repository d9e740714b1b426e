package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/service"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
)

const eventWriteTimeout = 5 * time.Second

// snapshotMessage is the first frame of every event stream.
type snapshotMessage struct {
	Type string      `json:"type"`
	View battle.View `json:"view"`
}

// StreamEvents upgrades to a websocket and forwards the battle's events
// until the battle ends or the client goes away.
func (h *BattleHandler) StreamEvents(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	events, cancel, err := h.battles.Subscribe(id)
	if err != nil {
		if errors.Is(err, service.ErrBattleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSubscribe})
		return
	}
	defer cancel()

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
	if err != nil {
		// Accept has already written the HTTP error, 403 for a foreign origin
		logging.Error(constants.ErrFailedWebsocketUpgrade, err, logging.Fields{constants.LogFieldBattleID: id})
		return
	}
	defer conn.CloseNow()

	// clients only listen; CloseRead handles their close frame
	ctx := conn.CloseRead(c.Request.Context())

	if v, err := h.battles.Get(id); err == nil {
		if err := writeJSON(ctx, conn, snapshotMessage{Type: "snapshot", View: v}); err != nil {
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "battle closed")
				return
			}
			if err := writeJSON(ctx, conn, ev); err != nil {
				logging.Debug("event stream ended", logging.Fields{constants.LogFieldBattleID: id, "error": err.Error()})
				return
			}
		}
	}
}

func writeJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, v)
}
