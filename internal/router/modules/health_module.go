package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-table-reservation/internal/interface/http"
)

type HealthModule struct {
	Handler      *handlers.HealthHandler
	DebugMetrics bool
}

func NewHealthModule(h *handlers.HealthHandler, debugMetrics bool) *HealthModule {
	return &HealthModule{Handler: h, DebugMetrics: debugMetrics}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Check)
	if m.DebugMetrics {
		// expvar, including reservation_outcomes
		rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	}
}
