package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

func testService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := storage.NewDatabase(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := storage.NewStore(db)
	svc := NewService(store, cfg)
	t.Cleanup(func() { svc.Close() })

	return svc, store
}

func TestService_SubstringSearch(t *testing.T) {
	svc, store := testService(t)

	_, err := store.Insert("https://golang.org", "The Go Programming Language")
	require.NoError(t, err)
	_, err = store.Insert("https://example.com", "unrelated")
	require.NoError(t, err)

	resp, err := svc.Search(&Request{Query: "go", SortKey: storage.SortModified})
	require.NoError(t, err)
	assert.False(t, resp.UsedFuzzy)
	require.Len(t, resp.Bookmarks, 1)
	assert.Equal(t, "https://golang.org", resp.Bookmarks[0].URL)
}

func TestService_FuzzySearch(t *testing.T) {
	svc, store := testService(t)

	_, err := store.Insert("https://golang.org", "The Go Programming Language")
	require.NoError(t, err)
	_, err = store.Insert("https://example.com", "cooking recipes")
	require.NoError(t, err)

	// One edit away from "language"
	resp, err := svc.Search(&Request{
		Query:    "lenguage",
		SortKey:  storage.SortModified,
		UseFuzzy: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.UsedFuzzy)
	require.Len(t, resp.Bookmarks, 1)
	assert.Equal(t, "https://golang.org", resp.Bookmarks[0].URL)
}

func TestService_FuzzyPreservesSort(t *testing.T) {
	svc, store := testService(t)

	require.NoError(t, store.InsertRecord(&storage.Bookmark{
		URL: "https://b.example", Title: "shared term beta", CreatedAt: 1000, ModifiedAt: 1000,
	}))
	require.NoError(t, store.InsertRecord(&storage.Bookmark{
		URL: "https://a.example", Title: "shared term alpha", CreatedAt: 2000, ModifiedAt: 2000,
	}))

	resp, err := svc.Search(&Request{
		Query:    "shared",
		SortKey:  storage.SortURL,
		UseFuzzy: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookmarks, 2)
	assert.Equal(t, "https://a.example", resp.Bookmarks[0].URL)
	assert.Equal(t, "https://b.example", resp.Bookmarks[1].URL)
}

func TestService_InvalidateRebuildsIndex(t *testing.T) {
	svc, store := testService(t)

	_, err := store.Insert("https://golang.org", "gopher")
	require.NoError(t, err)

	resp, err := svc.Search(&Request{Query: "gopher", SortKey: storage.SortModified, UseFuzzy: true})
	require.NoError(t, err)
	require.Len(t, resp.Bookmarks, 1)

	_, err = store.Insert("https://go.dev", "gopher central")
	require.NoError(t, err)
	svc.Invalidate()

	resp, err = svc.Search(&Request{Query: "gopher", SortKey: storage.SortModified, UseFuzzy: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookmarks, 2)
}

func TestService_EmptyQueryListsAll(t *testing.T) {
	svc, store := testService(t)

	_, err := store.Insert("https://one.example", "")
	require.NoError(t, err)
	_, err = store.Insert("https://two.example", "")
	require.NoError(t, err)

	resp, err := svc.Search(&Request{Query: "", SortKey: storage.SortModified})
	require.NoError(t, err)
	assert.Len(t, resp.Bookmarks, 2)
}

func TestFuzzyIndex_Lifecycle(t *testing.T) {
	idx := NewFuzzyIndex()

	// Operations before Initialize fail
	err := idx.IndexBookmark(storage.NewBookmark("https://x.example", "x"))
	assert.Error(t, err)

	require.NoError(t, idx.Initialize())
	t.Cleanup(func() { idx.Close() })

	b := storage.NewBookmark("https://golang.org", "gopher")
	require.NoError(t, idx.IndexBookmark(b))

	uuids, err := idx.Search("gopher", nil)
	require.NoError(t, err)
	require.Len(t, uuids, 1)
	assert.Equal(t, b.UUID, uuids[0])

	require.NoError(t, idx.DeleteBookmark(b.UUID))

	uuids, err = idx.Search("gopher", nil)
	require.NoError(t, err)
	assert.Empty(t, uuids)
}
