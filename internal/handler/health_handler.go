package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process liveness and dependency readiness
type HealthHandler struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

// NewHealthHandler creates a new health handler. Both dependencies are
// optional; nil dependencies are skipped in the readiness check.
func NewHealthHandler(db *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "up",
		"service": "hotel-booking",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	ready := true

	if h.db != nil {
		checks["postgres"] = h.check(c.Request.Context(), func(ctx context.Context) error {
			return h.db.Ping(ctx)
		}, &ready)
	}
	if h.redis != nil {
		checks["redis"] = h.check(c.Request.Context(), func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		}, &ready)
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}

func (h *HealthHandler) check(ctx context.Context, ping func(context.Context) error, ready *bool) string {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := ping(pingCtx); err != nil {
		*ready = false
		return "down"
	}
	return "up"
}
