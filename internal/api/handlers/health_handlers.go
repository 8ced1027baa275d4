package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cardramp/ramp_sdk/internal/infrastructure/cache"
)

// HealthHandler reports process and dependency health.
type HealthHandler struct {
	redis     cache.RedisClient
	startTime time.Time
}

func NewHealthHandler(redis cache.RedisClient) *HealthHandler {
	return &HealthHandler{redis: redis, startTime: time.Now()}
}

// Health reports liveness plus a Redis reachability check.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	redisStatus := "ok"
	if err := h.redis.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		redisStatus = err.Error()
	}

	c.JSON(status, gin.H{
		"status": http.StatusText(status),
		"uptime": time.Since(h.startTime).String(),
		"checks": gin.H{"redis": redisStatus},
	})
}
