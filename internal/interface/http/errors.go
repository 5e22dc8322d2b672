package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/pkg/helpers"
	"github.com/oksasatya/go-table-reservation/pkg/response"
	"github.com/oksasatya/go-table-reservation/pkg/validation"
)

// internalError logs err with the request id and hides it from the client.
// The error is attached to the context for the error reporting middleware.
func internalError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	helpers.LogError(logger, op+" failed", err, logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	})
	_ = c.Error(err)
	response.Message(c, http.StatusInternalServerError, "internal server error", nil)
}

// badRequest answers a binding failure with field-level details.
func badRequest(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	msg := "invalid payload"
	if p, ok := details["payload"]; ok && len(details) == 1 {
		msg += ": " + p
	} else {
		msg += ": " + validation.Summary(details)
	}
	response.Message(c, http.StatusBadRequest, msg, details)
}
