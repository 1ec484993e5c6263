package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/utils"
)

// RequestLogger writes one structured line per request
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"correlation_id": utils.GetCorrelationIDFromContext(c),
			"method":         c.Request.Method,
			"path":           c.FullPath(),
			"status":         c.Writer.Status(),
			"latency":        time.Since(start).String(),
			"client_ip":      c.ClientIP(),
		}
		if user := utils.GetCurrentUser(c); user != nil {
			fields["user_id"] = user.ID
		}

		entry := logger.WithFields(fields)
		switch {
		case len(c.Errors) > 0 && c.Writer.Status() >= 500:
			entry.WithError(c.Errors.Last()).Error("request")
		case c.Writer.Status() >= 500:
			entry.Error("request")
		default:
			entry.Info("request")
		}
	}
}
