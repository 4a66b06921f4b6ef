package handlers

import (
	"log"
	"net/http"
	"time"

	"task-tracker-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SessionResponse represents the response to starting a session
type SessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Message   string    `json:"message"`
}

// CreateSession handles POST /api/sessions
// Starts a session with an empty task collection
func (h *Handler) CreateSession(c *gin.Context) {
	s, err := h.sessions.Create()
	if err != nil {
		log.Printf("Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create session",
		})
		return
	}

	token, expiresAt, err := h.issuer.GenerateToken(s.ID)
	if err != nil {
		h.sessions.End(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Token:     token,
		SessionID: s.ID,
		ExpiresAt: expiresAt,
		Message:   "Session started",
	})
}

// EndSession handles DELETE /api/sessions/current
// Discards the session and its tasks
func (h *Handler) EndSession(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	if !h.sessions.End(sessionID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Session ended",
		"sessionId": sessionID,
	})
}
