package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/immowert/api/internal/logger"
)

// Recovery converts a panic in a valuation handler into a 500 carrying the
// request ID. gin's own recovery handles broken client connections; its
// writer is discarded because the panic is logged here.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestLogger := GetLogger(c)
		if requestLogger == nil {
			requestLogger = log
		}

		requestID := GetRequestID(c)
		requestLogger.Error("Panic recovered", fmt.Errorf("panic: %v", recovered), map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"stack":      string(debug.Stack()),
		})

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":       "INTERNAL_SERVER_ERROR",
				"message":    "An unexpected error occurred",
				"request_id": requestID,
			},
		})
	})
}
