package routes

import (
	"net/http"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/session"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Sessions *session.Manager
	Issuer   *auth.TokenIssuer
	Hub      *realtime.Hub
}

// Endpoints lists the registered API routes for the startup banner
var Endpoints = []string{
	"POST   /api/sessions",
	"DELETE /api/sessions/current",
	"GET    /api/categories",
	"GET    /api/tasks",
	"GET    /api/tasks/:id",
	"POST   /api/tasks",
	"PATCH  /api/tasks/:id/complete",
	"DELETE /api/tasks/:id",
	"GET    /api/stats",
	"GET    /ws",
	"GET    /health",
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	h := handlers.New(deps.Sessions, deps.Issuer, deps.Hub)

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"message":  "Task Tracker API is running",
			"sessions": deps.Sessions.Len(),
		})
	})

	// Public routes (no session required)
	api := ginRouter.Group("/api")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/categories", handlers.GetCategories)
	}

	sessionRequired := middleware.SessionMiddleware(deps.Issuer, deps.Sessions)

	// Session routes (token required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(sessionRequired)
	{
		protectedRoutes.DELETE("/sessions/current", h.EndSession)
		// Task endpoints
		protectedRoutes.GET("/tasks", h.ListTasks)
		protectedRoutes.GET("/tasks/:id", h.GetTask)
		protectedRoutes.POST("/tasks", h.AddTask)
		protectedRoutes.PATCH("/tasks/:id/complete", h.CompleteTask)
		protectedRoutes.DELETE("/tasks/:id", h.DeleteTask)
		protectedRoutes.GET("/stats", h.GetStats)
	}

	ginRouter.GET("/ws", sessionRequired, h.WebSocket)

	return ginRouter
}
