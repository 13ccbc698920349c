package api

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"hr-interviewer/internal/common/errors"
)

// requestLogger emits one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("HTTP request", map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		})
	}
}

// authenticate enforces a bearer token when a validator is configured.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.validator == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			s.errs.Respond(c, errors.NewAuthenticationError("missing bearer token"))
			return
		}

		info, err := s.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			s.errs.Respond(c, err)
			return
		}
		if !info.Active {
			s.errs.Respond(c, errors.NewAuthenticationError("token is not active"))
			return
		}

		c.Set("username", info.Username)
		c.Next()
	}
}
