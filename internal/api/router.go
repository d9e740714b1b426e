package api

import (
	"github.com/ericogr/sphere-quiz/internal/constants"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API endpoint under /api.
func RegisterRoutes(router *gin.Engine, h *BattleHandler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		apiRoutes.GET(constants.RoutePlayer, h.GetPlayer)

		apiRoutes.POST(constants.RouteBattles, h.CreateBattle)
		apiRoutes.GET(constants.RouteBattleByID, h.GetBattle)
		apiRoutes.POST(constants.RouteBattleInput, h.SubmitInput)
		apiRoutes.GET(constants.RouteBattleEvents, h.StreamEvents)
	}
}
