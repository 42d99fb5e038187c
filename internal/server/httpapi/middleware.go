package httpapi

import (
	"net/http"
	"strings"

	"github.com/cachao/media/internal/common"
	"github.com/cachao/media/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// authMiddleware verifies the bearer token and stores the user id in the
// request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := auth.GetUserIDFromToken(token, []byte(s.config.SecretKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}
