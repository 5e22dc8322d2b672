package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-table-reservation/internal/interface/http"
	"github.com/oksasatya/go-table-reservation/internal/interface/middleware"
)

// UserModule wires registration and the Basic-auth greeting.
// Public: POST /api/user/add, GET /api/user/:id
// Protected: GET /api/resource
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    middleware.Authenticator
}

func NewUserModule(h *handlers.UserHandler, auth middleware.Authenticator) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/user/add", m.Handler.Register)
	rg.GET("/user/:id", m.Handler.Get)

	rg.GET("/resource", middleware.BasicAuth(m.Auth), m.Handler.Resource)
}
