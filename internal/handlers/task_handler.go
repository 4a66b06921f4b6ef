package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"task-tracker-api/internal/collection"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// Columns of the task table, in display order
var Columns = []string{"ID", "Description", "Category", "Due Date", "Priority", "Status"}

// AddTaskRequest represents the request payload for adding a task
type AddTaskRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	DueDate     string `json:"dueDate"`
	Priority    int    `json:"priority"`
}

// TaskResponse is the body of a successful single-task operation
type TaskResponse struct {
	Outcome string      `json:"outcome"`
	Message string      `json:"message"`
	Task    models.Task `json:"task"`
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		models.DateLayout, // ISO date
		"2 Jan 2006",      // e.g., 30 Oct 2025
		time.RFC3339,      // full RFC3339
		"02 Jan 2006",     // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			// Keep only the calendar day
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parseTaskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		reject(c, collection.ReasonValidation, "Task ID must be an integer.")
		return 0, false
	}
	return id, true
}

/*
*
ListTasks handles GET /api/tasks
Returns the session's tasks sorted by ascending priority.
Optional query params: status, category.
*/
func (h *Handler) ListTasks(c *gin.Context) {
	var statusFilter models.TaskStatus
	if v := c.Query("status"); v != "" {
		s, ok := models.ParseStatus(v)
		if !ok {
			reject(c, collection.ReasonValidation, "Unknown status "+strconv.Quote(v)+".")
			return
		}
		statusFilter = s
	}
	var categoryFilter models.Category
	if v := c.Query("category"); v != "" {
		cat, ok := models.ParseCategory(v)
		if !ok {
			reject(c, collection.ReasonValidation, "Unknown category "+strconv.Quote(v)+".")
			return
		}
		categoryFilter = cat
	}

	var tasks []models.Task
	err := withSession(c, func(col collection.Collection) error {
		var err error
		tasks, err = col.List()
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	filtered := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if statusFilter != "" && t.Status != statusFilter {
			continue
		}
		if categoryFilter != "" && t.Category != categoryFilter {
			continue
		}
		filtered = append(filtered, t)
	}

	resp := gin.H{
		"columns": Columns,
		"tasks":   filtered,
		"count":   len(filtered),
		"total":   len(tasks),
	}
	if len(tasks) == 0 {
		resp["message"] = "No tasks available."
	}
	c.JSON(http.StatusOK, resp)
}

// GetTask handles GET /api/tasks/:id
func (h *Handler) GetTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var task models.Task
	err := withSession(c, func(col collection.Collection) error {
		var err error
		task, err = col.Get(id)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

/*
*
AddTask handles POST /api/tasks
Adds a Pending task to the session's collection. dueDate defaults to today.
*/
func (h *Handler) AddTask(c *gin.Context) {
	var req AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reject(c, collection.ReasonValidation, "Invalid request: "+err.Error())
		return
	}

	due := models.CalendarDay(h.now())
	if strings.TrimSpace(req.DueDate) != "" {
		parsed, ok := parseDateFlexible(req.DueDate)
		if !ok {
			reject(c, collection.ReasonValidation, "Due date must look like "+models.DateLayout+".")
			return
		}
		due = parsed
	}

	var task models.Task
	err := withSession(c, func(col collection.Collection) error {
		var err error
		task, err = col.Add(collection.AddRequest{
			Description: req.Description,
			Category:    models.Category(req.Category),
			DueDate:     due,
			Priority:    req.Priority,
		})
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.publish(c, realtime.EventTaskAdded, task.ID)

	c.JSON(http.StatusCreated, TaskResponse{
		Outcome: OutcomeSuccess,
		Message: collection.MsgAdded,
		Task:    task,
	})
}

// CompleteTask handles PATCH /api/tasks/:id/complete
func (h *Handler) CompleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var task models.Task
	err := withSession(c, func(col collection.Collection) error {
		var err error
		task, err = col.MarkCompleted(id)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.publish(c, realtime.EventTaskCompleted, task.ID)

	c.JSON(http.StatusOK, TaskResponse{
		Outcome: OutcomeSuccess,
		Message: collection.MsgCompleted,
		Task:    task,
	})
}

// DeleteTask handles DELETE /api/tasks/:id
// Only completed tasks can be deleted
func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	err := withSession(c, func(col collection.Collection) error {
		return col.Delete(id)
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.publish(c, realtime.EventTaskDeleted, id)

	c.JSON(http.StatusOK, gin.H{
		"outcome": OutcomeSuccess,
		"message": collection.MsgDeleted,
		"id":      id,
	})
}

// GetStats handles GET /api/stats
// Returns counts of tasks by status for the session
func (h *Handler) GetStats(c *gin.Context) {
	var stats collection.Stats
	err := withSession(c, func(col collection.Collection) error {
		var err error
		stats, err = col.Stats()
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
