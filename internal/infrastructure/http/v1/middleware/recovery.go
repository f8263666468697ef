// Package middleware holds the gin middleware of the frontuser API: request
// tracing, logging, metrics and error rendering, plus the per-request
// security context and current user.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"frontuser/internal/core/apperror"
	"frontuser/pkg/logger"
)

// Recovery converts a panic in a handler or in current user resolution into
// an INTERNAL_ERROR carrying the request id. The stack goes to the log with
// the request's context hash and account, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(
					apperror.NewInternal(fmt.Errorf("panic: %v", err)).
						WithDetail("request_id", c.GetString("request_id")),
				)
				c.Abort()
			}
		}()
		c.Next()
	}
}
