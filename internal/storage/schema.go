package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bookmark represents a single stored bookmark record
type Bookmark struct {
	// Database identifier, assigned on insert, immutable
	ID int64 `json:"id"`

	// Stable external identifier, used to re-find a record after re-sorting
	UUID string `json:"uuid"`

	// Core fields
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Tags  string `json:"tags,omitempty"` // "#tag1 #tag2 ..." convention
	Notes string `json:"notes,omitempty"`

	// Timestamps, unix milliseconds
	CreatedAt  int64 `json:"created_at_ms"`
	ModifiedAt int64 `json:"modified_at_ms"`

	// Soft-delete marker: 0 = live, otherwise deletion time in unix ms
	DeletedAt int64 `json:"deleted_at_ms,omitempty"`
}

// NewBookmark creates a bookmark with a fresh UUID and current timestamps
func NewBookmark(url, title string) *Bookmark {
	now := time.Now().UnixMilli()
	return &Bookmark{
		UUID:       uuid.NewString(),
		URL:        url,
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// IsDeleted reports whether the record carries the soft-delete marker
func (b *Bookmark) IsDeleted() bool {
	return b.DeletedAt != 0
}

// DisplayTitle returns the title, falling back to the URL when empty
func (b *Bookmark) DisplayTitle() string {
	if strings.TrimSpace(b.Title) == "" {
		return b.URL
	}
	return b.Title
}

// IsValid validates that the bookmark has required fields
func (b *Bookmark) IsValid() bool {
	if strings.TrimSpace(b.URL) == "" || b.UUID == "" {
		return false
	}
	if b.CreatedAt <= 0 || b.ModifiedAt <= 0 || b.CreatedAt > b.ModifiedAt {
		return false
	}
	if len(b.URL) > MaxURLLength || len(b.Title) > MaxTitleLength {
		return false
	}
	return true
}

// SortKey selects the ordering of listings
type SortKey string

const (
	SortModified SortKey = "modified"
	SortCreated  SortKey = "created"
	SortTitle    SortKey = "title"
	SortURL      SortKey = "url"
)

// ParseSortKey maps a configuration string to a SortKey, defaulting to
// most-recently-modified for unknown values
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortCreated:
		return SortCreated
	case SortTitle:
		return SortTitle
	case SortURL:
		return SortURL
	default:
		return SortModified
	}
}

// orderClause returns the ORDER BY expression for the sort key.
// Timestamp keys sort newest first; text keys sort ascending,
// case-insensitive, with recency as tiebreak (matching the title index).
func (k SortKey) orderClause() string {
	switch k {
	case SortCreated:
		return "created_at DESC"
	case SortTitle:
		return "lower(CASE WHEN title = '' THEN url ELSE title END) ASC, modified_at DESC"
	case SortURL:
		return "url ASC"
	default:
		return "modified_at DESC"
	}
}

// DatabaseSchema contains all SQL statements for database initialization
type DatabaseSchema struct {
	// Current schema version
	Version int

	// DDL statements
	Tables  []string
	Indexes []string

	// Migration statements for future use
	Migrations map[int][]string
}

// GetCurrentSchema returns the current database schema
func GetCurrentSchema() *DatabaseSchema {
	return &DatabaseSchema{
		Version: 1,
		Tables: []string{
			`CREATE TABLE IF NOT EXISTS bookmarks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				uuid TEXT NOT NULL UNIQUE,
				url TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				tags TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				created_at INTEGER NOT NULL,
				modified_at INTEGER NOT NULL,
				deleted_at INTEGER NOT NULL DEFAULT 0
			)`,

			`CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at INTEGER NOT NULL,
				description TEXT
			)`,
		},

		Indexes: []string{
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_modified ON bookmarks(modified_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_created ON bookmarks(created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_title ON bookmarks(lower(title), modified_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_bookmarks_deleted ON bookmarks(deleted_at)`,
		},

		Migrations: map[int][]string{},
	}
}

// SchemaVersion represents the schema version tracking
type SchemaVersion struct {
	Version     int    `db:"version"`
	AppliedAt   int64  `db:"applied_at"`
	Description string `db:"description"`
}

// Constants for database constraints and limits
const (
	MaxURLLength   = 4096  // Maximum URL length
	MaxTitleLength = 4096  // Maximum title length
	MaxNotesLength = 65536 // Maximum notes length

	// Schema version constants
	CurrentSchemaVersion = 1
	MinSupportedVersion  = 1
)
