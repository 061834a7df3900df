package repo

import (
	"context"

	dom "notekit/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides account persistence.
type UserRepo interface {
	Create(ctx context.Context, email, handle, passwordHash string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new account and returns it.
func (r *PGUserRepo) Create(ctx context.Context, email, handle, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (email, handle, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, handle, password_hash, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, email, handle, passwordHash).Scan(
		&u.ID, &u.Email, &u.Handle, &u.PasswordHash, &u.CreatedAt,
	)
	return u, err
}

// GetByEmail returns the account with the given email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, handle, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Handle, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID returns the account with the given id.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, handle, password_hash, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Handle, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// UpdatePassword replaces the stored password hash.
func (r *PGUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

// Delete removes the account. Owned notes and todos go with it (FK cascade).
func (r *PGUserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}
