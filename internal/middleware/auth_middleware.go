package middleware

import (
	"net/http"
	"strings"

	"client_directory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// sessionClaimsKey is where AuthMiddleware stores the validated claims.
const sessionClaimsKey = "sessionClaims"

// sessionCookieName mirrors handlers.SessionCookie; duplicated here to keep
// the middleware free of a handlers import cycle.
const sessionCookieName = "session_token"

// AuthMiddleware creates a Gin middleware that requires a valid session token,
// taken from the session cookie or an Authorization Bearer header.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionTokenFromRequest(c)
		if tokenString == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", "No session cookie or bearer token"))
			return
		}

		claims, err := utils.ValidateSessionToken(tokenString)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired session.", err.Error()))
			return
		}

		c.Set(sessionClaimsKey, claims)
		c.Next()
	}
}

// SessionClaimsFromContext retrieves the claims placed by AuthMiddleware.
func SessionClaimsFromContext(c *gin.Context) (*utils.SessionClaims, bool) {
	raw, exists := c.Get(sessionClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := raw.(*utils.SessionClaims)
	return claims, ok
}

func sessionTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
