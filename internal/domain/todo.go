package domain

import "time"

// Priority of a todo item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID        int64
	UserID    int64
	Text      string
	Completed bool
	// CompletedAt is set when Completed flips to true and cleared when it
	// flips back to false.
	CompletedAt *time.Time
	Priority    Priority
	DueDate     *time.Time
	Category    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
