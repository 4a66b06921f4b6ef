package collection

import (
	"errors"
	"fmt"

	"task-tracker-api/internal/models"

	"gorm.io/gorm"
)

// DBOpener supplies a fresh, private database for one collection
type DBOpener func() (*gorm.DB, error)

// TableCollection stores tasks as rows of a "tasks" table in a database owned
// by the collection. The database is expected to be in-memory and is closed
// with the collection.
type TableCollection struct {
	db     *gorm.DB
	lastID int
}

// NewTableCollection migrates the tasks table into db and returns an empty collection
func NewTableCollection(db *gorm.DB) (*TableCollection, error) {
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return nil, fmt.Errorf("migrate tasks table: %w", err)
	}
	return &TableCollection{db: db}, nil
}

func (c *TableCollection) find(id int) (models.Task, error) {
	var task models.Task
	if err := c.db.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, notFound(MsgNotFound)
		}
		return models.Task{}, fmt.Errorf("fetch task %d: %w", id, err)
	}
	return task, nil
}

// Add implements Collection.Add.
func (c *TableCollection) Add(req AddRequest) (models.Task, error) {
	task, err := req.normalize()
	if err != nil {
		return models.Task{}, err
	}

	var clashes int64
	if err := c.db.Model(&models.Task{}).Where("priority = ?", task.Priority).Count(&clashes).Error; err != nil {
		return models.Task{}, fmt.Errorf("check priority: %w", err)
	}
	if clashes > 0 {
		return models.Task{}, duplicatePriority()
	}

	task.ID = c.lastID + 1
	if err := c.db.Create(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	c.lastID = task.ID
	return task, nil
}

// List implements Collection.List.
func (c *TableCollection) List() ([]models.Task, error) {
	tasks := []models.Task{}
	if err := c.db.Order("priority asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	return tasks, nil
}

// MarkCompleted implements Collection.MarkCompleted.
func (c *TableCollection) MarkCompleted(id int) (models.Task, error) {
	task, err := c.find(id)
	if err != nil {
		return models.Task{}, err
	}
	if task.Completed() {
		return task, nil
	}

	// Explicitly update only the status column
	if err := c.db.Model(&task).Update("status", models.StatusCompleted).Error; err != nil {
		return models.Task{}, fmt.Errorf("update status: %w", err)
	}
	task.Status = models.StatusCompleted
	return task, nil
}

// Delete implements Collection.Delete.
func (c *TableCollection) Delete(id int) error {
	var total int64
	if err := c.db.Model(&models.Task{}).Count(&total).Error; err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if total == 0 {
		return notFound(MsgListEmpty)
	}

	task, err := c.find(id)
	if err != nil {
		return err
	}
	if !task.Completed() {
		return notCompleted()
	}
	if err := c.db.Delete(&task).Error; err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Get implements Collection.Get.
func (c *TableCollection) Get(id int) (models.Task, error) {
	return c.find(id)
}

// Stats implements Collection.Stats.
func (c *TableCollection) Stats() (Stats, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	if err := c.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return Stats{}, fmt.Errorf("compute stats: %w", err)
	}

	var s Stats
	for _, r := range rows {
		switch models.TaskStatus(r.Status) {
		case models.StatusCompleted:
			s.Completed = int(r.Count)
		case models.StatusPending:
			s.Pending = int(r.Count)
		}
		s.Total += int(r.Count)
	}
	return s, nil
}

// Close implements Collection.Close.
func (c *TableCollection) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure TableCollection implements Collection at compile time.
var _ Collection = (*TableCollection)(nil)
