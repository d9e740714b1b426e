package api

import (
	"errors"
	"net/http"

	"github.com/ericogr/sphere-quiz/internal/battle"
	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/logging"
	"github.com/ericogr/sphere-quiz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func battleIDParam(c *gin.Context) (string, bool) {
	id := c.Param(constants.ParamBattleID)
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return "", false
	}
	return id, true
}

// CreateBattle starts a new battle for the optional wallet address.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req service.CreateBattleRequest
	// an empty body starts a guest battle
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
	}
	v, err := h.battles.CreateBattle(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAddress})
			return
		}
		logging.Error("failed to create battle", err, logging.Fields{constants.LogFieldPlayer: req.PlayerAddress})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GetBattle returns the live view, or the stored record once the battle
// has left memory.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	v, err := h.battles.Get(id)
	if err == nil {
		c.JSON(http.StatusOK, v)
		return
	}
	rec, err := h.battles.Record(id)
	if err != nil {
		if errors.Is(err, service.ErrBattleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
			return
		}
		logging.Error("failed to fetch battle record", err, logging.Fields{constants.LogFieldBattleID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.BattleUUID, constants.JSONKeyStatus: rec.Status, "record": rec})
}

// SubmitInput applies one player command and returns the resulting view.
func (h *BattleHandler) SubmitInput(c *gin.Context) {
	id, ok := battleIDParam(c)
	if !ok {
		return
	}
	var in battle.Input
	if err := c.ShouldBindJSON(&in); err != nil || in.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	v, err := h.battles.SubmitInput(c.Request.Context(), id, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBattleNotFound):
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case errors.Is(err, service.ErrBattleOver):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleOver})
		case errors.Is(err, service.ErrInputRejected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{constants.JSONKeyError: constants.ErrInputRejected, constants.JSONKeyDetails: err.Error()})
		case errors.Is(err, battle.ErrUnknownPhase):
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrBattleInternalFailure})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedHandleInput})
		}
		return
	}
	c.JSON(http.StatusOK, v)
}
