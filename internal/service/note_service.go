package service

import (
	"context"
	"errors"
	"strings"

	"notekit/internal/cache"
	dom "notekit/internal/domain"
	"notekit/internal/repo"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("not found")

type NoteService struct {
	repo  repo.NoteRepo
	pages *cache.ResponseCache
}

// NewNoteService creates a NoteService. If pages is nil, caching is disabled.
func NewNoteService(r repo.NoteRepo, pages *cache.ResponseCache) *NoteService {
	return &NoteService{repo: r, pages: pages}
}

func (s *NoteService) Create(ctx context.Context, userID int64, title, body string, tags []string, pinned bool) (dom.Note, error) {
	n, err := s.repo.Create(ctx, dom.Note{
		UserID: userID,
		Title:  strings.TrimSpace(title),
		Body:   body,
		Tags:   normalizeTags(tags),
		Pinned: pinned,
	})
	if err != nil {
		return dom.Note{}, err
	}
	s.invalidate(ctx, userID)
	return n, nil
}

func (s *NoteService) GetByID(ctx context.Context, userID, id int64) (dom.Note, error) {
	n, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	return n, nil
}

func (s *NoteService) List(ctx context.Context, userID int64, f repo.NoteFilter) ([]dom.Note, error) {
	f.Query = strings.TrimSpace(f.Query)
	return s.repo.List(ctx, userID, f)
}

func (s *NoteService) Update(ctx context.Context, userID, id int64, title, body *string, tags *[]string, pinned, archived *bool) (dom.Note, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	patch := existing
	if title != nil {
		patch.Title = strings.TrimSpace(*title)
	}
	if body != nil {
		patch.Body = *body
	}
	if tags != nil {
		patch.Tags = normalizeTags(*tags)
	}
	if pinned != nil {
		patch.Pinned = *pinned
	}
	if archived != nil {
		patch.Archived = *archived
	}
	n, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Note{}, ErrNotFound
		}
		return dom.Note{}, err
	}
	s.invalidate(ctx, userID)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// invalidate drops the caller's cached note reads. Best-effort: stale entries
// die at TTL anyway.
func (s *NoteService) invalidate(ctx context.Context, userID int64) {
	if s.pages != nil {
		_ = s.pages.Invalidate(ctx, userID, cache.ResourceNotes)
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
