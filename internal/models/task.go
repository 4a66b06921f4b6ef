package models

import (
	"strings"
	"time"
)

// DateLayout is the canonical text form of a task due date
const DateLayout = "2006-01-02"

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
)

// Statuses lists every status in lifecycle order
var Statuses = []TaskStatus{StatusPending, StatusCompleted}

// Category represents the area a task belongs to
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryShopping Category = "Shopping"
	CategoryFitness  Category = "Fitness"
)

// Categories lists the accepted categories in form order
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryShopping, CategoryFitness}

// ParseCategory matches name case-insensitively against the known categories
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}

// ParseStatus matches name case-insensitively against the known statuses
func ParseStatus(name string) (TaskStatus, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Statuses {
		if strings.EqualFold(string(s), name) {
			return s, true
		}
	}
	return "", false
}

// Task represents a task in a session's collection
type Task struct {
	ID          int        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Description string     `json:"description" gorm:"not null"`
	Category    Category   `json:"category" gorm:"not null"`
	DueDate     string     `json:"dueDate" gorm:"column:due_date;not null"`
	Priority    int        `json:"priority" gorm:"not null;uniqueIndex"`
	Status      TaskStatus `json:"status" gorm:"not null;default:'Pending'"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// CalendarDay is the date now falls on in its own location, as UTC midnight.
// Both front ends resolve "today" through it.
func CalendarDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Completed reports whether the task has been marked completed
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}
