package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	"github.com/oksasatya/go-table-reservation/pkg/response"
)

// CtxUserKey holds the authenticated *entity.User for the rest of the request.
const CtxUserKey = "currentUser"

// Authenticator resolves a phone/password pair to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, phone, password string) (*entity.User, error)
}

// BasicAuth verifies the Authorization: Basic header on every request.
// It sets currentUser, userID and userPhone in the Gin context on success.
func BasicAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		phone, password, ok := c.Request.BasicAuth()
		if !ok || phone == "" {
			response.Unauthorized(c)
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), phone, password)
		if err != nil {
			response.Unauthorized(c)
			return
		}

		c.Set(CtxUserKey, u)
		c.Set("userID", u.ID)
		c.Set("userPhone", u.PhoneNumber)
		c.Next()
	}
}

// CurrentUser returns the user bound by BasicAuth, if any.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}
