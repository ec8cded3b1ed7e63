package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

func TestFields_RoundTrip(t *testing.T) {
	in := &Fields{
		URL:   "https://example.com",
		Title: "Example Site",
		Tags:  "#web #test",
		Notes: "first line\nsecond line\n\nfourth line",
	}

	out, err := Parse(strings.NewReader(in.Format()))
	require.NoError(t, err)

	assert.Equal(t, in.URL, out.URL)
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.Tags, out.Tags)
	assert.Equal(t, in.Notes, out.Notes)
}

func TestFields_RoundTripEmpty(t *testing.T) {
	in := &Fields{URL: "https://example.com"}

	out, err := Parse(strings.NewReader(in.Format()))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", out.URL)
	assert.Empty(t, out.Title)
	assert.Empty(t, out.Tags)
	assert.Empty(t, out.Notes)
}

func TestFields_Format(t *testing.T) {
	f := &Fields{
		URL:   "https://example.com",
		Title: "t",
		Tags:  "#a",
		Notes: "n",
	}

	expected := "URL:\nhttps://example.com\n\nTitle:\nt\n\nTags:\n#a\n\nNotes:\nn\n"
	assert.Equal(t, expected, f.Format())
}

func TestFormat_NormalizesNotes(t *testing.T) {
	f := &Fields{Notes: "a\r\nb\tc\n\n"}

	out, err := Parse(strings.NewReader(f.Format()))
	require.NoError(t, err)
	assert.Equal(t, "a\nb    c", out.Notes)
}

func TestParse_MissingHeaders(t *testing.T) {
	_, err := Parse(strings.NewReader("not an edit file\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("URL:\nhttps://x\n\nTitle:\nt\n"))
	assert.Error(t, err)
}

func TestFieldsFromBookmark(t *testing.T) {
	b := storage.NewBookmark("https://example.com", "Example")
	b.Tags = "#x"
	b.Notes = "note"

	f := FieldsFromBookmark(b)
	assert.Equal(t, b.URL, f.URL)
	assert.Equal(t, b.Title, f.Title)
	assert.Equal(t, b.Tags, f.Tags)
	assert.Equal(t, b.Notes, f.Notes)
}

func TestEditor_Command(t *testing.T) {
	cfg := config.DefaultConfig()

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	e := New(cfg)
	assert.Equal(t, "vi", e.Command())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", e.Command())

	t.Setenv("VISUAL", "emacs")
	assert.Equal(t, "emacs", e.Command())

	cfg.Editor.Command = "custom-editor"
	assert.Equal(t, "custom-editor", e.Command())
}

func TestSession_UnchangedFileCancels(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Editor.TempDir = t.TempDir()
	e := New(cfg)

	session, cmd, err := e.Begin(&Fields{URL: "https://example.com"})
	require.NoError(t, err)
	require.NotNil(t, cmd)

	// Editor never ran, mtime is unchanged
	fields, err := session.Finish()
	require.NoError(t, err)
	assert.Nil(t, fields)

	// Scratch file is removed
	_, err = os.Stat(filepath.Clean(session.Path))
	assert.True(t, session.Path == "" || os.IsNotExist(err))
}

func TestSession_ChangedFileParses(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Editor.TempDir = t.TempDir()
	e := New(cfg)

	session, _, err := e.Begin(&Fields{URL: "https://example.com"})
	require.NoError(t, err)

	edited := &Fields{
		URL:   "https://edited.example",
		Title: "edited",
		Tags:  "#edited",
		Notes: "new notes",
	}
	require.NoError(t, os.WriteFile(session.Path, []byte(edited.Format()), 0600))

	// Make sure the mtime moves even on coarse filesystems
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(session.Path, future, future))

	fields, err := session.Finish()
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "https://edited.example", fields.URL)
	assert.Equal(t, "edited", fields.Title)
	assert.Equal(t, "#edited", fields.Tags)
	assert.Equal(t, "new notes", fields.Notes)
}
