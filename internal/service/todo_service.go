package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"notekit/internal/cache"
	dom "notekit/internal/domain"
	"notekit/internal/repo"

	"github.com/jackc/pgx/v5"
)

var ErrInvalidDueDate = errors.New("due_date is in the past")

type TodoService struct {
	repo  repo.TodoRepo
	pages *cache.ResponseCache
}

// NewTodoService creates a TodoService. If pages is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, pages *cache.ResponseCache) *TodoService {
	return &TodoService{repo: r, pages: pages}
}

func (s *TodoService) Create(ctx context.Context, userID int64, text string, priority dom.Priority, dueDate *time.Time, category *string) (dom.Todo, error) {
	text = strings.TrimSpace(text)
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		priority = dom.PriorityMedium
	}
	if dueDate != nil && dueDate.Before(time.Now().UTC()) {
		return dom.Todo{}, ErrInvalidDueDate
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:   userID,
		Text:     text,
		Priority: priority,
		DueDate:  dueDate,
		Category: trimCategory(category),
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidate(ctx, userID)
	return t, nil
}

func (s *TodoService) GetByID(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) List(ctx context.Context, userID int64, f repo.TodoFilter) ([]dom.Todo, error) {
	return s.repo.List(ctx, userID, f)
}

func (s *TodoService) Update(ctx context.Context, userID, id int64, text, priority *string, dueDate *time.Time, dueDateSet bool, category *string, completed *bool) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	if text != nil {
		patch.Text = strings.TrimSpace(*text)
	}
	if priority != nil && dom.Priority(*priority).Valid() {
		patch.Priority = dom.Priority(*priority)
	}
	if dueDateSet {
		if dueDate != nil && dueDate.Before(time.Now().UTC()) {
			return dom.Todo{}, ErrInvalidDueDate
		}
		patch.DueDate = dueDate
	}
	if category != nil {
		patch.Category = trimCategory(category)
	}
	if completed != nil {
		applyCompletion(&patch, *completed)
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidate(ctx, userID)
	return t, nil
}

// Complete marks the todo done, stamping completed_at.
func (s *TodoService) Complete(ctx context.Context, userID, id int64) (dom.Todo, error) {
	return s.setCompletion(ctx, userID, id, true)
}

// Reopen marks the todo not done, clearing completed_at.
func (s *TodoService) Reopen(ctx context.Context, userID, id int64) (dom.Todo, error) {
	return s.setCompletion(ctx, userID, id, false)
}

func (s *TodoService) setCompletion(ctx context.Context, userID, id int64, done bool) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	applyCompletion(&patch, done)
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidate(ctx, userID)
	return t, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *TodoService) invalidate(ctx context.Context, userID int64) {
	if s.pages != nil {
		_ = s.pages.Invalidate(ctx, userID, cache.ResourceTodos)
	}
}

// applyCompletion keeps completed_at in lockstep with the flag: stamped on
// the flip to done, cleared on the flip back.
func applyCompletion(t *dom.Todo, done bool) {
	if done && !t.Completed {
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
	if !done {
		t.CompletedAt = nil
	}
	t.Completed = done
}

func trimCategory(category *string) *string {
	if category == nil {
		return nil
	}
	c := strings.TrimSpace(*category)
	if c == "" {
		return nil
	}
	return &c
}
