package repo

import (
	"context"
	"fmt"

	dom "notekit/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NoteFilter narrows a note listing. Zero value = no filtering.
type NoteFilter struct {
	Query    string
	Tag      string
	Pinned   *bool
	Archived *bool
}

type NoteRepo interface {
	Create(ctx context.Context, n dom.Note) (dom.Note, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Note, error)
	List(ctx context.Context, userID int64, f NoteFilter) ([]dom.Note, error)
	Update(ctx context.Context, userID, id int64, patch dom.Note) (dom.Note, error)
	Delete(ctx context.Context, userID, id int64) error
}

type PGNoteRepo struct {
	db *pgxpool.Pool
}

func NewPGNoteRepo(db *pgxpool.Pool) *PGNoteRepo {
	return &PGNoteRepo{db: db}
}

const noteColumns = `id, user_id, title, body, tags, pinned, archived, created_at, updated_at`

func (r *PGNoteRepo) Create(ctx context.Context, n dom.Note) (dom.Note, error) {
	query := `
		INSERT INTO notes (user_id, title, body, tags, pinned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + noteColumns
	var out dom.Note
	err := r.db.QueryRow(ctx, query, n.UserID, n.Title, n.Body, n.Tags, n.Pinned).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Body, &out.Tags,
		&out.Pinned, &out.Archived, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGNoteRepo) GetByID(ctx context.Context, userID, id int64) (dom.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`
	var n dom.Note
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Body, &n.Tags,
		&n.Pinned, &n.Archived, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

// buildNoteList renders the filtered listing query with positional args.
func buildNoteList(userID int64, f NoteFilter) (string, []any) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1`
	args := []any{userID}
	idx := 2
	if f.Query != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR body ILIKE $%d)", idx, idx)
		args = append(args, "%"+f.Query+"%")
		idx++
	}
	if f.Tag != "" {
		query += fmt.Sprintf(" AND $%d = ANY(tags)", idx)
		args = append(args, f.Tag)
		idx++
	}
	if f.Pinned != nil {
		query += fmt.Sprintf(" AND pinned = $%d", idx)
		args = append(args, *f.Pinned)
		idx++
	}
	if f.Archived != nil {
		query += fmt.Sprintf(" AND archived = $%d", idx)
		args = append(args, *f.Archived)
		idx++
	}
	query += " ORDER BY pinned DESC, updated_at DESC"
	return query, args
}

func (r *PGNoteRepo) List(ctx context.Context, userID int64, f NoteFilter) ([]dom.Note, error) {
	query, args := buildNoteList(userID, f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Note
	for rows.Next() {
		var n dom.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Tags,
			&n.Pinned, &n.Archived, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *PGNoteRepo) Update(ctx context.Context, userID, id int64, patch dom.Note) (dom.Note, error) {
	query := `
		UPDATE notes
		SET title = $3, body = $4, tags = $5, pinned = $6, archived = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns
	var n dom.Note
	err := r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Body, patch.Tags, patch.Pinned, patch.Archived,
	).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Body, &n.Tags,
		&n.Pinned, &n.Archived, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func (r *PGNoteRepo) Delete(ctx context.Context, userID, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
