package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Pinger  Pinger // nil means nothing to check
	Timeout time.Duration
	Logger  *logrus.Logger
}

func NewHealthHandler(p Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{Pinger: p, Timeout: 2 * time.Second, Logger: logger}
}

func (h *HealthHandler) Check(c *gin.Context) {
	if h.Pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()
		if err := h.Pinger.Ping(ctx); err != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).Warn("health check failed")
			}
			response.Status(c, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	response.Status(c, http.StatusOK, "ok")
}
