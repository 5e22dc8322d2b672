package router

import (
	"github.com/oksasatya/go-table-reservation/internal/container"
	handlers "github.com/oksasatya/go-table-reservation/internal/interface/http"
	"github.com/oksasatya/go-table-reservation/internal/router/modules"
)

// InitModules builds every feature module from the container and registers it.
// This function should be called once during application startup.
func InitModules(r *Registry, c *container.Container) {
	auth := c.AuthService()

	userHandler := handlers.NewUserHandler(c.UserService(), c.Logger)
	r.Add(modules.NewUserModule(userHandler, auth))

	reservationHandler := handlers.NewReservationHandler(c.BookingService(), c.Logger)
	r.Add(modules.NewReservationModule(reservationHandler, auth))

	var pinger handlers.Pinger
	if c.Pinger != nil {
		pinger = c.Pinger
	}
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(pinger, c.Logger), c.Config.DebugMetricsEnabled))
}
