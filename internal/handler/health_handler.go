package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc checks a dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler reports whether the storage backend is reachable.
type HealthHandler struct {
	service string
	backend string
	ping    PingFunc
}

// NewHealthHandler creates a HealthHandler. A nil ping always reports healthy.
func NewHealthHandler(service, backend string, ping PingFunc) *HealthHandler {
	return &HealthHandler{service: service, backend: backend, ping: ping}
}

// RegisterRoutes registers /health.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
}

// Health pings the backend with a short deadline.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			fail(c, http.StatusServiceUnavailable, codeUnavailable,
				h.backend+" storage unreachable: "+err.Error())
			return
		}
	}
	success(c, gin.H{"status": "ok", "service": h.service, "storage": h.backend})
}
