package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"notekit/internal/cache"
	dom "notekit/internal/domain"
	"notekit/internal/repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeNoteRepo struct {
	nextID int64
	notes  map[int64]dom.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: map[int64]dom.Note{}}
}

func (f *fakeNoteRepo) Create(_ context.Context, n dom.Note) (dom.Note, error) {
	f.nextID++
	n.ID = f.nextID
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt
	f.notes[n.ID] = n
	return n, nil
}

func (f *fakeNoteRepo) GetByID(_ context.Context, userID, id int64) (dom.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	return n, nil
}

func (f *fakeNoteRepo) List(_ context.Context, userID int64, _ repo.NoteFilter) ([]dom.Note, error) {
	var out []dom.Note
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNoteRepo) Update(_ context.Context, userID, id int64, patch dom.Note) (dom.Note, error) {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return dom.Note{}, pgx.ErrNoRows
	}
	patch.ID = id
	patch.UserID = userID
	patch.UpdatedAt = time.Now().UTC()
	f.notes[id] = patch
	return patch, nil
}

func (f *fakeNoteRepo) Delete(_ context.Context, userID, id int64) error {
	n, ok := f.notes[id]
	if !ok || n.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.notes, id)
	return nil
}

func newServiceCache(t *testing.T) (*cache.ResponseCache, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.New(rdb, time.Minute, zap.NewNop()), rdb
}

func TestNoteCreateNormalizesTags(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo(), nil)

	n, err := svc.Create(context.Background(), 1, "  Groceries ", "milk", []string{" Shopping", "shopping", "", "Food "}, false)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", n.Title)
	assert.Equal(t, []string{"shopping", "food"}, n.Tags)
}

func TestNoteGetScopedToOwner(t *testing.T) {
	repo := newFakeNoteRepo()
	svc := NewNoteService(repo, nil)

	n, err := svc.Create(context.Background(), 1, "mine", "", nil, false)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 2, n.ID)
	assert.ErrorIs(t, err, ErrNotFound, "another user's note must look like it does not exist")
}

func TestNoteUpdatePartial(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo(), nil)

	n, err := svc.Create(context.Background(), 1, "title", "body", []string{"a"}, false)
	require.NoError(t, err)

	newTitle := "renamed"
	pinned := true
	got, err := svc.Update(context.Background(), 1, n.ID, &newTitle, nil, nil, &pinned, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "body", got.Body, "unset fields keep their value")
	assert.Equal(t, []string{"a"}, got.Tags)
	assert.True(t, got.Pinned)
}

func TestNoteDeleteNotFound(t *testing.T) {
	repo := newFakeNoteRepo()
	svc := NewNoteService(repo, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, 99), ErrNotFound)

	n, err := svc.Create(context.Background(), 1, "mine", "", nil, false)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(context.Background(), 2, n.ID), ErrNotFound,
		"another user's note must look like it does not exist")
	require.NoError(t, svc.Delete(context.Background(), 1, n.ID))
}

func TestNoteUpdateNotFound(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo(), nil)

	title := "x"
	_, err := svc.Update(context.Background(), 1, 99, &title, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteWritesInvalidateCachedReads(t *testing.T) {
	pages, rdb := newServiceCache(t)
	svc := NewNoteService(newFakeNoteRepo(), pages)
	ctx := context.Background()

	mine := cache.Key(cache.ResourceNotes, "1", "/api/notes", url.Values{})
	theirs := cache.Key(cache.ResourceNotes, "2", "/api/notes", url.Values{})
	myTodos := cache.Key(cache.ResourceTodos, "1", "/api/todos", url.Values{})
	require.NoError(t, pages.Set(ctx, mine, []byte(`{"success":true}`)))
	require.NoError(t, pages.Set(ctx, theirs, []byte(`{"success":true}`)))
	require.NoError(t, pages.Set(ctx, myTodos, []byte(`{"success":true}`)))

	_, err := svc.Create(ctx, 1, "trigger", "", nil, false)
	require.NoError(t, err)

	assert.Zero(t, rdb.Exists(ctx, mine).Val(), "own notes entries dropped")
	assert.EqualValues(t, 1, rdb.Exists(ctx, theirs).Val(), "other users untouched")
	assert.EqualValues(t, 1, rdb.Exists(ctx, myTodos).Val(), "other resources untouched")
}

func TestNoteWriteSucceedsWhenInvalidationFails(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	pages := cache.New(rdb, time.Minute, zap.New(core))
	svc := NewNoteService(newFakeNoteRepo(), pages)

	mr.Close()

	n, err := svc.Create(context.Background(), 1, "survives", "", nil, false)
	require.NoError(t, err, "invalidation failure must not fail the write")
	assert.Equal(t, "survives", n.Title)
	assert.Equal(t, 1, logs.FilterMessage("cache invalidate failed").Len())
}
