package collection

import (
	"cmp"
	"slices"

	"task-tracker-api/internal/models"
)

// ListCollection keeps tasks in insertion order in a growable slice.
// Lookups are linear scans; List sorts a copy on every call.
type ListCollection struct {
	tasks  []models.Task
	lastID int
}

// NewListCollection creates an empty ListCollection
func NewListCollection() *ListCollection {
	return &ListCollection{}
}

func (l *ListCollection) indexOf(id int) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add implements Collection.Add.
func (l *ListCollection) Add(req AddRequest) (models.Task, error) {
	task, err := req.normalize()
	if err != nil {
		return models.Task{}, err
	}
	for _, existing := range l.tasks {
		if existing.Priority == task.Priority {
			return models.Task{}, duplicatePriority()
		}
	}

	l.lastID++
	task.ID = l.lastID
	l.tasks = append(l.tasks, task)
	return task, nil
}

// List implements Collection.List.
func (l *ListCollection) List() ([]models.Task, error) {
	out := slices.Clone(l.tasks)
	if out == nil {
		out = []models.Task{}
	}
	slices.SortFunc(out, func(a, b models.Task) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return out, nil
}

// MarkCompleted implements Collection.MarkCompleted.
func (l *ListCollection) MarkCompleted(id int) (models.Task, error) {
	i := l.indexOf(id)
	if i < 0 {
		return models.Task{}, notFound(MsgNotFound)
	}
	l.tasks[i].Status = models.StatusCompleted
	return l.tasks[i], nil
}

// Delete implements Collection.Delete.
func (l *ListCollection) Delete(id int) error {
	if len(l.tasks) == 0 {
		return notFound(MsgListEmpty)
	}
	i := l.indexOf(id)
	if i < 0 {
		return notFound(MsgNotFound)
	}
	if !l.tasks[i].Completed() {
		return notCompleted()
	}
	l.tasks = slices.Delete(l.tasks, i, i+1)
	return nil
}

// Get implements Collection.Get.
func (l *ListCollection) Get(id int) (models.Task, error) {
	i := l.indexOf(id)
	if i < 0 {
		return models.Task{}, notFound(MsgNotFound)
	}
	return l.tasks[i], nil
}

// Stats implements Collection.Stats.
func (l *ListCollection) Stats() (Stats, error) {
	var s Stats
	for _, t := range l.tasks {
		if t.Completed() {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	s.Total = len(l.tasks)
	return s, nil
}

// Close implements Collection.Close.
func (l *ListCollection) Close() error {
	l.tasks = nil
	return nil
}

// Ensure ListCollection implements Collection at compile time.
var _ Collection = (*ListCollection)(nil)
