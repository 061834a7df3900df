package domain

import "time"

// Domain entity: the business object. Does not depend on Gin, Postgres, Redis.
type Note struct {
	ID       int64
	UserID   int64
	Title    string
	Body     string
	Tags     []string
	Pinned   bool
	Archived bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
