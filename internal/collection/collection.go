// Package collection holds the tasks of a single session and enforces the
// mutation rules: priorities are unique among active tasks, identifiers are
// never reused, status only moves forward, and only completed tasks may be
// deleted.
//
// A Collection is not safe for concurrent use. Callers serving more than one
// goroutine must serialise access (see session.Session.Do).
package collection

import (
	"fmt"
	"strings"
	"time"

	"task-tracker-api/internal/models"
)

// Collection is the four-operation contract consumed by the presentation
// layers, plus read helpers.
type Collection interface {
	// Add validates req and appends a new Pending task.
	Add(req AddRequest) (models.Task, error)

	// List returns a fresh snapshot sorted by ascending priority.
	List() ([]models.Task, error)

	// MarkCompleted moves a task to Completed. Re-applying it is a no-op.
	MarkCompleted(id int) (models.Task, error)

	// Delete removes a Completed task permanently.
	Delete(id int) error

	// Get returns a single task.
	Get(id int) (models.Task, error)

	// Stats counts tasks by status.
	Stats() (Stats, error)

	// Close releases backend resources. The collection must not be used afterwards.
	Close() error
}

// Factory builds an empty collection for a new session
type Factory func() (Collection, error)

// AddRequest represents the user-entered fields of a new task
type AddRequest struct {
	Description string
	Category    models.Category
	DueDate     time.Time
	Priority    int
}

// Stats represents task counts by status
type Stats struct {
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// normalize checks the required fields and returns the task to store,
// without an ID.
func (req AddRequest) normalize() (models.Task, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return models.Task{}, validationError("Description is required.")
	}
	if strings.TrimSpace(string(req.Category)) == "" {
		return models.Task{}, validationError("Category is required.")
	}
	category, ok := models.ParseCategory(string(req.Category))
	if !ok {
		return models.Task{}, validationError(fmt.Sprintf("Unknown category %q.", req.Category))
	}
	if req.DueDate.IsZero() {
		return models.Task{}, validationError("Due date is required.")
	}
	if req.Priority < 1 {
		return models.Task{}, validationError("Priority must be a positive integer.")
	}

	return models.Task{
		Description: description,
		Category:    category,
		DueDate:     req.DueDate.Format(models.DateLayout),
		Priority:    req.Priority,
		Status:      models.StatusPending,
	}, nil
}

// Backend names accepted by NewFactory
const (
	BackendList  = "list"
	BackendTable = "table"
)

// NewFactory returns the factory for the named backend. open is only used by
// the table backend and supplies a fresh private database per collection.
func NewFactory(backend string, open DBOpener) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendList, "":
		return func() (Collection, error) {
			return NewListCollection(), nil
		}, nil
	case BackendTable:
		if open == nil {
			return nil, fmt.Errorf("table backend requires a database opener")
		}
		return func() (Collection, error) {
			db, err := open()
			if err != nil {
				return nil, fmt.Errorf("open session database: %w", err)
			}
			return NewTableCollection(db)
		}, nil
	default:
		return nil, fmt.Errorf("unknown collection backend %q", backend)
	}
}
