package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-table-reservation/internal/container"
	"github.com/oksasatya/go-table-reservation/internal/interface/middleware"
	"github.com/oksasatya/go-table-reservation/pkg/response"
	"github.com/oksasatya/go-table-reservation/pkg/validation"
)

// NewEngine returns a Gin engine with global middleware and all modules registered.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if origins := c.Config.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Location", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if c.Config.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.NoRoute(response.NotFound)

	reg := NewRegistry(r, c.Logger)
	if c.Reporter.Enabled() {
		reg.Use(middleware.ErrorReporting(c.Reporter))
	}
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
