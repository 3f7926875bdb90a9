// iface.go defines the StoreInterface for dependency injection and testing.
//
// The concrete *Store type satisfies this interface. Code that depends on
// the store (the cmd layer, the sync loop) can accept StoreInterface
// instead of *Store, enabling mock injection in tests.
package store

import (
	"time"

	"timegrid/pkg/model"
)

// StoreInterface defines the full set of store operations.
// The concrete *Store type implements this interface.
type StoreInterface interface {
	// Close closes the database connection.
	Close() error

	// --- Tasks ---

	// PutTask inserts or replaces a task by ID.
	PutTask(t *model.Task) error

	// GetTask retrieves a task by ID.
	GetTask(id string) (*model.Task, error)

	// ListTasks returns all tasks ordered by creation time.
	ListTasks() ([]model.Task, error)

	// DeleteTask removes a task by ID.
	DeleteTask(id string) error

	// SetTaskState transitions a task's execution state.
	SetTaskState(id string, state model.TaskState) error

	// SetEstimatedStart persists a derived estimated start (nil clears it).
	SetEstimatedStart(id string, at *time.Time) error

	// --- Template ---

	// SaveTemplate replaces the daily template and its fixed events.
	SaveTemplate(tpl *model.DailyTemplate) error

	// GetTemplate retrieves the daily template (default when unset).
	GetTemplate() (*model.DailyTemplate, error)

	// --- Calendar ---

	// ReplaceCalendarDay swaps a day's stored calendar events.
	ReplaceCalendarDay(day time.Time, events []model.CalendarEvent) error

	// ListCalendarEvents returns a day's stored calendar events.
	ListCalendarEvents(day time.Time) ([]model.CalendarEvent, error)
}

// Compile-time check that *Store implements StoreInterface.
var _ StoreInterface = (*Store)(nil)
