package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler recovers from panics in later handlers, logs them and answers with
// a JSON 500 that carries no internal detail.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	})
}

// NotFound answers unknown routes with the JSON error envelope
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not Found"})
}

// MethodNotAllowed answers known routes called with the wrong method
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"})
}
