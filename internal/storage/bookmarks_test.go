package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDatabase(testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestStore_Insert(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("https://example.com", "Example")
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Greater(t, b.ID, int64(0))
	assert.NotEmpty(t, b.UUID)
	assert.Equal(t, b.CreatedAt, b.ModifiedAt)
	assert.False(t, b.IsDeleted())

	// Insert then List returns the record exactly once
	list, err := store.List(SortModified, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, "https://example.com", list[0].URL)
}

func TestStore_Insert_EmptyURL(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("", "no url")
	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.Nil(t, b)

	b, err = store.Insert("   ", "whitespace url")
	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.Nil(t, b)
}

func TestStore_Insert_DuplicateURLsAppend(t *testing.T) {
	store := testStore(t)

	_, err := store.Insert("https://example.com", "first")
	require.NoError(t, err)
	_, err = store.Insert("https://example.com", "second")
	require.NoError(t, err)

	count, err := store.Count(false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStore_InsertRecord_PreservesTimestamps(t *testing.T) {
	store := testStore(t)

	b := &Bookmark{
		URL:        "https://example.com",
		Title:      "Imported",
		Tags:       "#go #tui",
		Notes:      "imported from export",
		CreatedAt:  1000,
		ModifiedAt: 2000,
	}
	require.NoError(t, store.InsertRecord(b))
	require.Greater(t, b.ID, int64(0))

	got, err := store.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.CreatedAt)
	assert.Equal(t, int64(2000), got.ModifiedAt)
	assert.Equal(t, "#go #tui", got.Tags)
	assert.Equal(t, "imported from export", got.Notes)
	assert.NotEmpty(t, got.UUID)
}

func TestStore_Update(t *testing.T) {
	store := testStore(t)

	a, err := store.Insert("https://a.example", "a")
	require.NoError(t, err)
	b, err := store.Insert("https://b.example", "b")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	updated, err := store.Update(a.ID, "https://a2.example", "a2", "#tag", "note")
	require.NoError(t, err)

	// Only the target changes
	assert.Equal(t, "https://a2.example", updated.URL)
	assert.Equal(t, "a2", updated.Title)
	assert.Equal(t, "#tag", updated.Tags)
	assert.Equal(t, "note", updated.Notes)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.ModifiedAt, a.ModifiedAt)

	other, err := store.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", other.URL)
	assert.Equal(t, b.ModifiedAt, other.ModifiedAt)
}

func TestStore_Update_Errors(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("https://example.com", "x")
	require.NoError(t, err)

	_, err = store.Update(9999, "https://example.com", "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Update(b.ID, "", "", "", "")
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestStore_Update_RestoresDeleted(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("https://example.com", "x")
	require.NoError(t, err)
	require.NoError(t, store.SoftDelete(b.ID))

	updated, err := store.Update(b.ID, b.URL, "edited", "", "")
	require.NoError(t, err)
	assert.False(t, updated.IsDeleted())

	list, err := store.List(SortModified, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_SoftDeleteAndRestore(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("https://example.com", "x")
	require.NoError(t, err)

	require.NoError(t, store.SoftDelete(b.ID))

	// Gone from the default view
	list, err := store.List(SortModified, false)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Present in the deleted view
	deleted, err := store.List(SortModified, true)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.True(t, deleted[0].IsDeleted())

	// Search follows the same filter
	found, err := store.Search("example", SortModified, false)
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, store.Restore(b.ID))

	list, err = store.List(SortModified, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsDeleted())
}

func TestStore_SoftDelete_Errors(t *testing.T) {
	store := testStore(t)

	assert.ErrorIs(t, store.SoftDelete(42), ErrNotFound)
	assert.ErrorIs(t, store.Restore(42), ErrNotFound)

	b, err := store.Insert("https://example.com", "x")
	require.NoError(t, err)

	// Restoring a live record is NotFound
	assert.ErrorIs(t, store.Restore(b.ID), ErrNotFound)

	require.NoError(t, store.SoftDelete(b.ID))

	// Deleting twice is NotFound
	assert.ErrorIs(t, store.SoftDelete(b.ID), ErrNotFound)
}

func TestStore_Get(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("https://example.com", "x")
	require.NoError(t, err)

	got, err := store.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.UUID, got.UUID)

	byUUID, err := store.GetByUUID(b.UUID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, byUUID.ID)

	_, err = store.Get(9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetByUUID("no-such-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List_TitleSort(t *testing.T) {
	store := testStore(t)

	// Insert out of order; the untitled record sorts by its URL
	mustInsertRecord(t, store, &Bookmark{URL: "https://z.example", Title: "zebra"})
	mustInsertRecord(t, store, &Bookmark{URL: "https://apple.example", Title: ""})
	mustInsertRecord(t, store, &Bookmark{URL: "https://m.example", Title: "Mango"})

	list, err := store.List(SortTitle, false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "https://apple.example", list[0].URL)
	assert.Equal(t, "Mango", list[1].Title)
	assert.Equal(t, "zebra", list[2].Title)
}

func TestStore_List_TimestampSorts(t *testing.T) {
	store := testStore(t)

	mustInsertRecord(t, store, &Bookmark{URL: "https://old.example", CreatedAt: 1000, ModifiedAt: 3000})
	mustInsertRecord(t, store, &Bookmark{URL: "https://new.example", CreatedAt: 2000, ModifiedAt: 2500})

	byModified, err := store.List(SortModified, false)
	require.NoError(t, err)
	require.Len(t, byModified, 2)
	assert.Equal(t, "https://old.example", byModified[0].URL)

	byCreated, err := store.List(SortCreated, false)
	require.NoError(t, err)
	assert.Equal(t, "https://new.example", byCreated[0].URL)

	byURL, err := store.List(SortURL, false)
	require.NoError(t, err)
	assert.Equal(t, "https://new.example", byURL[0].URL)
}

func TestStore_Search(t *testing.T) {
	store := testStore(t)

	_, err := store.Insert("https://foo.example", "plain")
	require.NoError(t, err)
	_, err = store.Insert("https://other.example", "Foobar")
	require.NoError(t, err)
	_, err = store.Insert("https://nothing.example", "nothing here")
	require.NoError(t, err)
	mustInsertRecord(t, store, &Bookmark{URL: "https://tagged.example", Tags: "#football"})

	// Case-insensitive substring over url, title, and tags
	found, err := store.Search("FOO", SortURL, false)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "https://foo.example", found[0].URL)
	assert.Equal(t, "https://other.example", found[1].URL)
	assert.Equal(t, "https://tagged.example", found[2].URL)

	// Empty query lists everything
	all, err := store.Search("", SortURL, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// LIKE wildcards are literal characters
	none, err := store.Search("%", SortURL, false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_Count(t *testing.T) {
	store := testStore(t)

	b, err := store.Insert("https://example.com", "x")
	require.NoError(t, err)
	_, err = store.Insert("https://example.org", "y")
	require.NoError(t, err)
	require.NoError(t, store.SoftDelete(b.ID))

	live, err := store.Count(false)
	require.NoError(t, err)
	assert.Equal(t, 1, live)

	deleted, err := store.Count(true)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func mustInsertRecord(t *testing.T, store *Store, b *Bookmark) {
	t.Helper()
	require.NoError(t, store.InsertRecord(b))
}
