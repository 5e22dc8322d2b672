package router

import "github.com/gin-gonic/gin"

// Module is one feature's routes; Register receives the /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
