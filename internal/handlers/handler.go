package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/session"

	"github.com/gin-gonic/gin"
)

// Outcome values reported to the presentation layer
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
)

// Handler serves the session and task endpoints
type Handler struct {
	sessions *session.Manager
	issuer   *auth.TokenIssuer
	hub      *realtime.Hub
	now      func() time.Time
}

// New creates a Handler
func New(sessions *session.Manager, issuer *auth.TokenIssuer, hub *realtime.Hub) *Handler {
	return &Handler{
		sessions: sessions,
		issuer:   issuer,
		hub:      hub,
		now:      time.Now,
	}
}

// RejectionResponse is the body of every rejected operation
type RejectionResponse struct {
	Outcome string            `json:"outcome"`
	Reason  collection.Reason `json:"reason"`
	Message string            `json:"message"`
}

func statusFor(reason collection.Reason) int {
	switch reason {
	case collection.ReasonValidation:
		return http.StatusBadRequest
	case collection.ReasonNotFound:
		return http.StatusNotFound
	case collection.ReasonDuplicatePriority, collection.ReasonIllegalState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func reject(c *gin.Context, reason collection.Reason, message string) {
	c.JSON(statusFor(reason), RejectionResponse{
		Outcome: OutcomeRejected,
		Reason:  reason,
		Message: message,
	})
}

// fail reports err from a collection operation
func fail(c *gin.Context, err error) {
	if r, ok := collection.AsRejection(err); ok {
		reject(c, r.Reason, r.Message)
		return
	}
	if errors.Is(err, session.ErrClosed) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has ended"})
		return
	}
	log.Printf("collection error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process task request"})
}

// withSession runs fn against the current session's collection
func withSession(c *gin.Context, fn func(tasks collection.Collection) error) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return session.ErrClosed
	}
	return s.Do(fn)
}

func (h *Handler) publish(c *gin.Context, eventType string, taskID int) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(realtime.Event{
		Type:      eventType,
		TaskID:    taskID,
		SessionID: c.GetString(middleware.SessionIDKey),
	})
}
