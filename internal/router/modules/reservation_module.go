package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-table-reservation/internal/interface/http"
	"github.com/oksasatya/go-table-reservation/internal/interface/middleware"
)

// ReservationModule wires booking routes; all of them require Basic auth.
type ReservationModule struct {
	Handler *handlers.ReservationHandler
	Auth    middleware.Authenticator
}

func NewReservationModule(h *handlers.ReservationHandler, auth middleware.Authenticator) *ReservationModule {
	return &ReservationModule{Handler: h, Auth: auth}
}

func (m *ReservationModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BasicAuth(m.Auth))
	{
		auth.POST("/reservation", m.Handler.Create)
		auth.GET("/reservation/availability", m.Handler.Availability)
		auth.GET("/reservations", m.Handler.List)
	}
}
