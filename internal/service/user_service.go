package service

import (
	"context"
	"errors"
	"strings"

	"notekit/internal/cache"
	dom "notekit/internal/domain"
	"notekit/internal/repo"
	"notekit/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrHandleTaken        = errors.New("handle already taken")
)

// UserService handles account auth logic.
type UserService struct {
	repo  repo.UserRepo
	pages *cache.ResponseCache
}

// NewUserService creates a UserService. If pages is nil, cache invalidation
// on account deletion is skipped.
func NewUserService(r repo.UserRepo, pages *cache.ResponseCache) *UserService {
	return &UserService{repo: r, pages: pages}
}

// Register creates a new account with a hashed password.
func (s *UserService) Register(ctx context.Context, email, handle, password string) (dom.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	handle = strings.TrimSpace(handle)
	if email == "" || handle == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, email, handle, string(hash))
	if err != nil {
		if constraint, ok := utils.UniqueConstraint(err); ok {
			if strings.Contains(constraint, "handle") {
				return dom.User{}, ErrHandleTaken
			}
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks email and password; returns the account if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the account with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// Delete removes the account; notes and todos cascade in the database, and
// the account's cached reads are dropped with it.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.pages != nil {
		_ = s.pages.Invalidate(ctx, id, cache.ResourceNotes)
		_ = s.pages.Invalidate(ctx, id, cache.ResourceTodos)
	}
	return nil
}
