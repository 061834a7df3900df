package dto

import "time"

type CreateNoteRequest struct {
	Title  string   `json:"title" binding:"required,min=1,max=200"`
	Body   string   `json:"body" binding:"max=20000"`
	Tags   []string `json:"tags" binding:"max=16,dive,min=1,max=40"`
	Pinned bool     `json:"pinned"`
}

// UpdateNoteRequest is a partial update: nil = don't change.
type UpdateNoteRequest struct {
	Title    *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Body     *string   `json:"body" binding:"omitempty,max=20000"`
	Tags     *[]string `json:"tags" binding:"omitempty,max=16,dive,min=1,max=40"`
	Pinned   *bool     `json:"pinned"`
	Archived *bool     `json:"archived"`
}

type NoteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Pinned    bool      `json:"pinned"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListNotesResponse struct {
	Items []NoteResponse `json:"items"`
}
