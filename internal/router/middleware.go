package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopora/backend/internal/auth"
	"github.com/shopora/backend/pkg/global"
)

// CtxUserID is the context key the auth middleware stores the resolved user
// id under.
const CtxUserID = "userId"

// RequireAuth resolves the bearer token into a user id and attaches it to
// the request context. Requests without a valid token never reach the
// handler.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c)
			return
		}

		userID, err := tokens.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(CtxUserID, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, global.ErrorResponse("Not Authorized, login again"))
}

func currentUserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
