package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focusd/internal/logging"
)

// ErrorHandlingMiddleware converts unhandled panics and accumulated gin
// errors into a well-formed JSON error body so no raw fault reaches the
// extension.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	logger := logging.NewComponentLogger("http")
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic handling %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":        "internal server error",
					"isProductive": false,
					"explanation":  "Internal error while processing request",
				})
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			logger.Error("request error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}
