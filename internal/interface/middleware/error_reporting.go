package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// ErrorReporter is satisfied by *helpers.SentryReporter.
type ErrorReporter interface {
	CaptureError(err error, tags map[string]string)
}

// ErrorReporting reports errors handlers attached with c.Error, and panics,
// which are re-raised for gin.Recovery to answer.
func ErrorReporting(r ErrorReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				r.CaptureError(fmt.Errorf("panic: %v", rec), requestTags(c))
				panic(rec)
			}
		}()
		c.Next()

		for _, e := range c.Errors.ByType(gin.ErrorTypePrivate) {
			r.CaptureError(e.Err, requestTags(c))
		}
	}
}

func requestTags(c *gin.Context) map[string]string {
	return map[string]string{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"route":      c.FullPath(),
	}
}
