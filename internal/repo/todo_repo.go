package repo

import (
	"context"
	"fmt"

	dom "notekit/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TodoFilter narrows a todo listing. Zero value = no filtering.
type TodoFilter struct {
	Completed *bool
	Priority  string
	Category  string
}

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64, f TodoFilter) ([]dom.Todo, error)
	Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = `id, user_id, text, completed, completed_at, priority, due_date, category, created_at, updated_at`

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, text, priority, due_date, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.UserID, t.Text, t.Priority, t.DueDate, t.Category).Scan(
		&out.ID, &out.UserID, &out.Text, &out.Completed, &out.CompletedAt,
		&out.Priority, &out.DueDate, &out.Category, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Text, &t.Completed, &t.CompletedAt,
		&t.Priority, &t.DueDate, &t.Category, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// buildTodoList renders the filtered listing query with positional args.
func buildTodoList(userID int64, f TodoFilter) (string, []any) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`
	args := []any{userID}
	idx := 2
	if f.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", idx)
		args = append(args, *f.Completed)
		idx++
	}
	if f.Priority != "" {
		query += fmt.Sprintf(" AND priority = $%d", idx)
		args = append(args, f.Priority)
		idx++
	}
	if f.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, f.Category)
		idx++
	}
	query += " ORDER BY created_at DESC"
	return query, args
}

func (r *PGTodoRepo) List(ctx context.Context, userID int64, f TodoFilter) ([]dom.Todo, error) {
	query, args := buildTodoList(userID, f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.Completed, &t.CompletedAt,
			&t.Priority, &t.DueDate, &t.Category, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos
		SET text = $3, completed = $4, completed_at = $5, priority = $6, due_date = $7, category = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, userID,
		patch.Text, patch.Completed, patch.CompletedAt, patch.Priority, patch.DueDate, patch.Category,
	).Scan(
		&t.ID, &t.UserID, &t.Text, &t.Completed, &t.CompletedAt,
		&t.Priority, &t.DueDate, &t.Category, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTodoRepo) Delete(ctx context.Context, userID, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
