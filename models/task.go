package models

import "time"

// Task statuses accepted by the store.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Task priorities. Priority lives inside Extras and may be unset.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// TaskExtras is the freeform metadata attached to a task at creation.
// The store treats it as an opaque blob; updates never touch it.
type TaskExtras struct {
	Tags     []string `json:"tags"`
	DueDate  string   `json:"dueDate,omitempty"`
	Priority string   `json:"priority,omitempty"`
}

type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Extras      TaskExtras `json:"extras"`
	CreatedAt   time.Time  `json:"created_at"`
}
