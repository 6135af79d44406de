package main

import (
	"time"

	"cardclash/internal/api"
	"cardclash/internal/constants"
	"cardclash/internal/service"

	"github.com/gin-gonic/gin"
)

// startTimeoutSweeper periodically force-passes battles whose turn deadline
// elapsed. In-memory timers already cover the common case; the sweeper picks
// up battles whose timers were lost to a restart.
func startTimeoutSweeper(svc *service.BattleService) {
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			svc.SweepStalled(time.Now().UTC(), 20)
		}
	}()
}

func buildRouter(a *app) *gin.Engine {
	handler := api.NewBattleHandler(a.svc, a.repo)
	authHandler := api.NewAuthHandler(a.repo)

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.GET(constants.RouteLeaderboard, handler.Leaderboard)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(api.AuthRequired())

		protected.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		protected.POST(constants.RoutePlayerStats, handler.UpdatePlayerProfile)

		protected.POST(constants.RouteQueueJoin, handler.JoinQueue)
		protected.POST(constants.RouteQueueLeave, handler.LeaveQueue)
		protected.GET(constants.RouteQueueStatus, handler.QueueStatus)

		protected.POST(constants.RouteBattles, handler.CreateBattle)
		protected.GET(constants.RouteBattleHistory, handler.History)
		protected.GET(constants.RouteBattleByID, handler.GetBattle)
		protected.POST(constants.RouteBattleStart, handler.StartBattle)
		protected.POST(constants.RouteBattlePlay, handler.PlayCard)
		protected.POST(constants.RouteBattleAttack, handler.Attack)
		protected.POST(constants.RouteBattleEndTurn, handler.EndTurn)
		protected.POST(constants.RouteBattleAbandon, handler.Abandon)
		protected.POST(constants.RouteBattleTimeout, handler.TimeoutCheck)
		protected.GET(constants.RouteBattleLog, handler.GetLog)
		protected.GET(constants.RouteBattleStream, handler.StreamBattle)
		protected.POST(constants.RouteLogNormalize, handler.NormalizeLog)
	}

	router.POST(constants.RouteAuthGoogleCallBack, authHandler.GoogleOAuthCallback)

	return router
}
