package middleware

import (
	"net/http"
	"strings"

	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

const AdminIDKey = "admin_id"

// TokenParser validates a bearer token and returns the admin id it was
// issued for.
type TokenParser interface {
	ParseToken(raw string) (uint, error)
}

// RequireAdmin rejects requests without a valid bearer token and stores the
// admin id under AdminIDKey.
func RequireAdmin(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id, err := tokens.ParseToken(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(AdminIDKey, id)
		c.Next()
	}
}
