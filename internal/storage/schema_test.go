package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookmark(t *testing.T) {
	b := NewBookmark("https://example.com", "Example")

	assert.NotEmpty(t, b.UUID)
	assert.Equal(t, "https://example.com", b.URL)
	assert.Equal(t, "Example", b.Title)
	assert.Equal(t, b.CreatedAt, b.ModifiedAt)
	assert.False(t, b.IsDeleted())
	assert.True(t, b.IsValid())
}

func TestBookmark_DisplayTitle(t *testing.T) {
	b := NewBookmark("https://example.com", "Example")
	assert.Equal(t, "Example", b.DisplayTitle())

	b.Title = ""
	assert.Equal(t, "https://example.com", b.DisplayTitle())

	b.Title = "   "
	assert.Equal(t, "https://example.com", b.DisplayTitle())
}

func TestBookmark_IsValid(t *testing.T) {
	b := NewBookmark("https://example.com", "")
	assert.True(t, b.IsValid())

	b.URL = ""
	assert.False(t, b.IsValid())

	b = NewBookmark("https://example.com", "")
	b.UUID = ""
	assert.False(t, b.IsValid())

	b = NewBookmark("https://example.com", "")
	b.ModifiedAt = b.CreatedAt - 1
	assert.False(t, b.IsValid())
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortModified, ParseSortKey("modified"))
	assert.Equal(t, SortCreated, ParseSortKey("created"))
	assert.Equal(t, SortTitle, ParseSortKey("Title"))
	assert.Equal(t, SortURL, ParseSortKey(" url "))
	assert.Equal(t, SortModified, ParseSortKey("bogus"))
	assert.Equal(t, SortModified, ParseSortKey(""))
}
