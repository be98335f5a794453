package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invtrack/backend/internal/interfaces/http/dto"
)

// BodyLimit caps the request body size. Snapshot imports carry whole
// database documents, so the cap is configured rather than hardcoded.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds the maximum allowed size"))
			return
		}

		// requests without a Content-Length are still capped while streaming
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
