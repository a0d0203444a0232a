package handler

import (
	"context"
	"net/http"
	"time"

	"user-crud-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Pinger reports whether a backing dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string  `json:"status"`
	Uptime    float64 `json:"uptime"`
	Timestamp string  `json:"timestamp"`
	Database  string  `json:"database"`
	Error     string  `json:"error,omitempty"`
}

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	db        Pinger
	log       *zap.Logger
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler creates a HealthHandler whose uptime counts from startedAt
func NewHealthHandler(db Pinger, startedAt time.Time, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		log:       log,
		startedAt: startedAt,
		now:       time.Now,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	now := h.now()
	resp := HealthResponse{
		Status:    "healthy",
		Uptime:    now.Sub(h.startedAt).Seconds(),
		Timestamp: now.UTC().Format(timestampLayout),
		Database:  "connected",
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
