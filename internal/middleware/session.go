package middleware

import (
	"net/http"
	"strings"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionMiddleware
const (
	SessionIDKey = "session_id"
	SessionKey   = "session"
)

// SessionMiddleware validates the session token in the Authorization header
// and resolves the live session it refers to
func SessionMiddleware(issuer *auth.TokenIssuer, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		// Fallback for WebSocket/browser where custom headers cannot be set: allow token in query param
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session token is required",
			})
			return
		}

		claims, err := issuer.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session token",
			})
			return
		}

		s, ok := sessions.Get(claims.SessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session has ended",
			})
			return
		}

		c.Set(SessionIDKey, s.ID)
		c.Set(SessionKey, s)

		c.Next()
	}
}

// CurrentSession returns the session resolved by SessionMiddleware
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}
