package api

import (
	"net/http"
	"strconv"

	"github.com/ericogr/sphere-quiz/internal/constants"
	"github.com/ericogr/sphere-quiz/internal/logging"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// ListLeaderboard returns the best scores, highest first.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	limit := constants.DefaultLeaderboardLimit
	if s := c.Query(constants.QueryLimit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > constants.MaxLeaderboardLimit {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidLimit})
			return
		}
		limit = n
	}
	top, err := h.profiles.GetTopScores(limit)
	if err != nil {
		logging.Error("failed to fetch leaderboard", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchLeaderboard})
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, top)
}

// GetPlayer returns a wallet's aggregated results. The mint signer reads
// best_score from here.
func (h *BattleHandler) GetPlayer(c *gin.Context) {
	addr := c.Param(constants.ParamAddress)
	if !common.IsHexAddress(addr) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidAddress})
		return
	}
	p, err := h.profiles.GetProfileByAddress(addr)
	if err != nil {
		logging.Error("failed to fetch player", err, logging.Fields{constants.LogFieldPlayer: addr})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchPlayer})
		return
	}
	c.JSON(http.StatusOK, p)
}
