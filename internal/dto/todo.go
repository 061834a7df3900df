package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DueDate parses due_date from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("due_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

type CreateTodoRequest struct {
	Text     string  `json:"text" binding:"required,min=1,max=500"`
	Priority string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate  DueDate `json:"due_date"` // optional: "2026-02-19" or RFC3339
	Category *string `json:"category" binding:"omitempty,min=1,max=60"`
}

// UpdateTodoRequest is a partial update: nil = don't change.
type UpdateTodoRequest struct {
	Text      *string  `json:"text" binding:"omitempty,min=1,max=500"`
	Priority  *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate   *DueDate `json:"due_date"`
	Category  *string  `json:"category" binding:"omitempty,max=60"`
	Completed *bool    `json:"completed"`
}

type TodoResponse struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Category    *string    `json:"category"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
