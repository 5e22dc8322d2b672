package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/internal/domain/entity"
	"github.com/oksasatya/go-table-reservation/internal/interface/middleware"
	"github.com/oksasatya/go-table-reservation/pkg/response"
)

type ReservationHandler struct {
	Svc    *application.BookingService
	Logger *logrus.Logger
}

func NewReservationHandler(svc *application.BookingService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Logger: logger}
}

type reservationRequest struct {
	Date string `json:"date" binding:"required"`
}

type availabilityQuery struct {
	Date string `form:"date" binding:"required"`
}

type availabilityResponse struct {
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Reserved  int    `json:"reserved"`
	Remaining int    `json:"remaining"`
}

type reservationItem struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

// Create handles POST /api/reservation. A full day is a 200 with a status
// message, not an error.
func (h *ReservationHandler) Create(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.Svc.MakeReservation(c.Request.Context(), u, req.Date)
	if errors.Is(err, application.ErrInvalidDate) {
		response.Message(c, http.StatusBadRequest, err.Error(), map[string]string{"date": req.Date})
		return
	}
	if err != nil {
		internalError(c, h.Logger, "make reservation", err)
		return
	}
	response.Status(c, http.StatusOK, res.Outcome.Message())
}

// Availability handles GET /api/reservation/availability?date=YYYY-MM-DD.
func (h *ReservationHandler) Availability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	a, err := h.Svc.Availability(c.Request.Context(), q.Date)
	if errors.Is(err, application.ErrInvalidDate) {
		response.Message(c, http.StatusBadRequest, err.Error(), map[string]string{"date": q.Date})
		return
	}
	if err != nil {
		internalError(c, h.Logger, "availability", err)
		return
	}
	response.Data(c, http.StatusOK, availabilityResponse{
		Date:      a.Date.Format(entity.DateLayout),
		Capacity:  a.Capacity,
		Reserved:  a.Reserved,
		Remaining: a.Remaining,
	})
}

// List handles GET /api/reservations for the authenticated caller.
func (h *ReservationHandler) List(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}
	rs, err := h.Svc.ListReservations(c.Request.Context(), u)
	if err != nil {
		internalError(c, h.Logger, "list reservations", err)
		return
	}
	items := make([]reservationItem, 0, len(rs))
	for _, r := range rs {
		items = append(items, reservationItem{ID: r.ID, Date: r.DateString()})
	}
	response.Data(c, http.StatusOK, gin.H{"reservations": items})
}
