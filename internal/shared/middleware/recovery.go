package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"edunews-backend/internal/shared/response"
)

// Recovery turns a handler panic into the standard error envelope instead
// of a dropped connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("path", c.Request.URL.Path).
					Interface("panic", r).
					Msg("panic recovered")

				response.ErrorResponse(c, http.StatusInternalServerError,
					"SYS_001", "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
