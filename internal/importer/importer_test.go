package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

const diigoExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
<DT><A HREF="https://golang.org" LAST_VISIT="1700000100" ADD_DATE="1700000000" PRIVATE="0" TAGS="go,programming">The Go Programming Language</A>
<DD>The official site.
Second line of notes.
<DT><A HREF="https://example.com" LAST_VISIT="1700000200" ADD_DATE="1700000150" PRIVATE="0" TAGS="">Example</A>
</DL><p>
`

func testImporter(t *testing.T) (*Importer, *storage.Store) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := storage.NewDatabase(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := storage.NewStore(db)
	return New(store, cfg), store
}

func TestImport_TwoAnchors(t *testing.T) {
	im, store := testImporter(t)

	// Existing rows stay untouched
	existing, err := store.Insert("https://pre.example", "already here")
	require.NoError(t, err)

	result, err := im.Import(strings.NewReader(diigoExport))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 0, result.Skipped)

	count, err := store.Count(false)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	got, err := store.Get(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "already here", got.Title)
}

func TestImport_FieldMapping(t *testing.T) {
	im, store := testImporter(t)

	_, err := im.Import(strings.NewReader(diigoExport))
	require.NoError(t, err)

	list, err := store.List(storage.SortCreated, false)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Created DESC puts example.com first
	assert.Equal(t, "https://example.com", list[0].URL)

	b := list[1]
	assert.Equal(t, "https://golang.org", b.URL)
	assert.Equal(t, "The Go Programming Language", b.Title)
	assert.Equal(t, "#go #programming", b.Tags)
	assert.Equal(t, "The official site.\nSecond line of notes.", b.Notes)
	assert.Equal(t, int64(1700000000_000), b.CreatedAt)
	assert.Equal(t, int64(1700000100_000), b.ModifiedAt)
}

func TestImport_ReimportAppends(t *testing.T) {
	im, store := testImporter(t)

	_, err := im.Import(strings.NewReader(diigoExport))
	require.NoError(t, err)
	_, err = im.Import(strings.NewReader(diigoExport))
	require.NoError(t, err)

	count, err := store.Count(false)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestImport_SkipsAnchorsWithoutHref(t *testing.T) {
	im, store := testImporter(t)

	export := `<DL><p>
<DT><A ADD_DATE="1700000000">no href here</A>
<DT><A HREF="https://kept.example" ADD_DATE="1700000000" LAST_VISIT="1700000000" TAGS="">kept</A>
</DL><p>`

	result, err := im.Import(strings.NewReader(export))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)

	count, err := store.Count(false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImport_MissingTimestampsDefaultToNow(t *testing.T) {
	im, store := testImporter(t)

	export := `<DL><p>
<DT><A HREF="https://bare.example">bare</A>
</DL><p>`

	_, err := im.Import(strings.NewReader(export))
	require.NoError(t, err)

	list, err := store.List(storage.SortModified, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Greater(t, list[0].CreatedAt, int64(0))
	assert.GreaterOrEqual(t, list[0].ModifiedAt, list[0].CreatedAt)
}

func TestParse_Tags(t *testing.T) {
	assert.Equal(t, "#a #b", formatTags("a,b"))
	assert.Equal(t, "#a", formatTags("a,"))
	assert.Equal(t, "", formatTags(""))
	assert.Equal(t, "#one two", formatTags(" one two "))
}
