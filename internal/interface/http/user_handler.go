package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/internal/interface/middleware"
	"github.com/oksasatya/go-table-reservation/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Telephone string `json:"telephone" binding:"required,max=32"`
	Password  string `json:"password" binding:"required,max=72"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Name      string `json:"name" binding:"required,max=100"`
}

type userResponse struct {
	Telephone string `json:"telephone"`
}

// Register handles POST /api/user/add.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		PhoneNumber: req.Telephone,
		Password:    req.Password,
		Email:       req.Email,
		Name:        req.Name,
	})
	switch {
	case err == nil:
	case errors.Is(err, application.ErrMissingField), errors.Is(err, application.ErrFieldTooLong):
		response.Message(c, http.StatusBadRequest, err.Error(), nil)
		return
	case errors.Is(err, application.ErrDuplicatePhone):
		response.Message(c, http.StatusBadRequest, "a user with this telephone already exists", nil)
		return
	default:
		internalError(c, h.Logger, "register user", err)
		return
	}

	c.Header("Location", "/api/user/"+u.ID)
	response.Status(c, http.StatusCreated, "User added successfully!")
}

// Get handles GET /api/user/:id.
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Message(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		internalError(c, h.Logger, "get user", err)
		return
	}
	response.Data(c, http.StatusOK, userResponse{Telephone: u.PhoneNumber})
}

// Resource handles GET /api/resource, a greeting for the authenticated caller.
func (h *UserHandler) Resource(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	response.Data(c, http.StatusOK, gin.H{"data": "Hello, " + u.PhoneNumber + "!"})
}
