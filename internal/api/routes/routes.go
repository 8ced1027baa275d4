package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardramp/ramp_sdk/internal/api/handlers"
	"github.com/cardramp/ramp_sdk/internal/api/middleware"
	"github.com/cardramp/ramp_sdk/pkg/logger"
	"github.com/cardramp/ramp_sdk/pkg/ratelimit"
)

// Register wires all routes and middleware onto the engine.
func Register(
	router *gin.Engine,
	rampHandlers *handlers.RampHandlers,
	healthHandler *handlers.HealthHandler,
	limiter *ratelimit.Limiter,
	log *logger.Logger,
) {
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(limiter))
	{
		v1.GET("/settings", rampHandlers.GetSettings)
		v1.GET("/networks", rampHandlers.GetNetworks)
		v1.GET("/tags/:tag", rampHandlers.GetTagInfo)
		v1.GET("/address/:address/validate", rampHandlers.ValidateAddress)
		v1.GET("/wallets/:address/balances", rampHandlers.GetWalletBalances)

		offramp := v1.Group("/offramp")
		{
			offramp.POST("/estimate", rampHandlers.EstimateTopUp)
			offramp.POST("/topup", rampHandlers.TopUp)
		}

		onramp := v1.Group("/onramp")
		{
			onramp.POST("/requests", rampHandlers.CreateOnRampRequest)
			onramp.POST("/estimate", rampHandlers.EstimateOnRamp)
			onramp.GET("/requests/:uid/watch", rampHandlers.WatchOnRampRequest)
		}
	}
}
