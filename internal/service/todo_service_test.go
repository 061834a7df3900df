package service

import (
	"context"
	"testing"
	"time"

	dom "notekit/internal/domain"
	"notekit/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTodoRepo struct {
	nextID int64
	todos  map[int64]dom.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: map[int64]dom.Todo{}}
}

func (f *fakeTodoRepo) Create(_ context.Context, td dom.Todo) (dom.Todo, error) {
	f.nextID++
	td.ID = f.nextID
	td.CreatedAt = time.Now().UTC()
	td.UpdatedAt = td.CreatedAt
	f.todos[td.ID] = td
	return td, nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return td, nil
}

func (f *fakeTodoRepo) List(_ context.Context, userID int64, _ repo.TodoFilter) ([]dom.Todo, error) {
	var out []dom.Todo
	for _, td := range f.todos {
		if td.UserID == userID {
			out = append(out, td)
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) Update(_ context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return dom.Todo{}, pgx.ErrNoRows
	}
	patch.ID = id
	patch.UserID = userID
	patch.UpdatedAt = time.Now().UTC()
	f.todos[id] = patch
	return patch, nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, userID, id int64) error {
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.todos, id)
	return nil
}

func TestTodoCreateDefaults(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	td, err := svc.Create(context.Background(), 1, "  buy milk ", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", td.Text)
	assert.Equal(t, dom.PriorityMedium, td.Priority)
	assert.False(t, td.Completed)
	assert.Nil(t, td.CompletedAt)
	assert.Nil(t, td.DueDate)
}

func TestTodoCreateInvalidPriorityFallsBack(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	td, err := svc.Create(context.Background(), 1, "x", dom.Priority("urgent"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, dom.PriorityMedium, td.Priority)
}

func TestTodoCreatePastDueDateRejected(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	past := time.Now().UTC().Add(-time.Hour)
	_, err := svc.Create(context.Background(), 1, "late", dom.PriorityHigh, &past, nil)
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestTodoCompleteStampsTimestamp(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	td, err := svc.Create(context.Background(), 1, "x", dom.PriorityLow, nil, nil)
	require.NoError(t, err)

	done, err := svc.Complete(context.Background(), 1, td.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *done.CompletedAt, 5*time.Second)

	// Completing again keeps the original timestamp.
	again, err := svc.Complete(context.Background(), 1, td.ID)
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, *done.CompletedAt, *again.CompletedAt)
}

func TestTodoReopenClearsTimestamp(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	td, err := svc.Create(context.Background(), 1, "x", dom.PriorityLow, nil, nil)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), 1, td.ID)
	require.NoError(t, err)

	reopened, err := svc.Reopen(context.Background(), 1, td.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
}

func TestTodoUpdateClearsDueDate(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	due := time.Now().UTC().Add(24 * time.Hour)
	td, err := svc.Create(context.Background(), 1, "x", dom.PriorityLow, &due, nil)
	require.NoError(t, err)
	require.NotNil(t, td.DueDate)

	got, err := svc.Update(context.Background(), 1, td.ID, nil, nil, nil, true, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got.DueDate, "explicit null clears the due date")

	// Absent field leaves it alone.
	due2 := time.Now().UTC().Add(48 * time.Hour)
	_, err = svc.Update(context.Background(), 1, td.ID, nil, nil, &due2, true, nil, nil)
	require.NoError(t, err)
	got, err = svc.Update(context.Background(), 1, td.ID, nil, nil, nil, false, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.WithinDuration(t, due2, *got.DueDate, time.Second)
}

func TestTodoUpdateCompletionViaPatch(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	td, err := svc.Create(context.Background(), 1, "x", dom.PriorityLow, nil, nil)
	require.NoError(t, err)

	done := true
	got, err := svc.Update(context.Background(), 1, td.ID, nil, nil, nil, false, nil, &done)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.NotNil(t, got.CompletedAt)
}

func TestTodoCategoryTrimmed(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	cat := "  work "
	td, err := svc.Create(context.Background(), 1, "x", dom.PriorityLow, nil, &cat)
	require.NoError(t, err)
	require.NotNil(t, td.Category)
	assert.Equal(t, "work", *td.Category)

	empty := "   "
	td2, err := svc.Create(context.Background(), 1, "y", dom.PriorityLow, nil, &empty)
	require.NoError(t, err)
	assert.Nil(t, td2.Category, "blank category stored as null")
}

func TestTodoDeleteNotFound(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, 99), ErrNotFound)

	td, err := svc.Create(context.Background(), 1, "x", dom.PriorityLow, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(context.Background(), 2, td.ID), ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1, td.ID))
}

func TestTodoScopedToOwner(t *testing.T) {
	svc := NewTodoService(newFakeTodoRepo(), nil)

	td, err := svc.Create(context.Background(), 1, "mine", dom.PriorityLow, nil, nil)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), 2, td.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
