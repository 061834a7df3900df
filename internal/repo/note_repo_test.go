package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildNoteListNoFilter(t *testing.T) {
	query, args := buildNoteList(7, NoteFilter{})

	assert.Equal(t, `SELECT `+noteColumns+` FROM notes WHERE user_id = $1 ORDER BY pinned DESC, updated_at DESC`, query)
	assert.Equal(t, []any{int64(7)}, args)
}

func TestBuildNoteListAllFilters(t *testing.T) {
	pinned := true
	archived := false
	query, args := buildNoteList(7, NoteFilter{
		Query:    "milk",
		Tag:      "shopping",
		Pinned:   &pinned,
		Archived: &archived,
	})

	assert.Contains(t, query, "(title ILIKE $2 OR body ILIKE $2)")
	assert.Contains(t, query, "$3 = ANY(tags)")
	assert.Contains(t, query, "pinned = $4")
	assert.Contains(t, query, "archived = $5")
	assert.Equal(t, []any{int64(7), "%milk%", "shopping", true, false}, args)
}

func TestBuildNoteListPlaceholdersStayAligned(t *testing.T) {
	// Skipping earlier filters must not leave gaps in the numbering.
	archived := true
	query, args := buildNoteList(7, NoteFilter{Archived: &archived})

	assert.Contains(t, query, "archived = $2")
	assert.NotContains(t, query, "$3")
	assert.Equal(t, []any{int64(7), true}, args)
}
