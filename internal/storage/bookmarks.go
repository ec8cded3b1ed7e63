package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shamilbi/bookmarks-curses/internal/logger"
)

// Sentinel errors returned by the bookmark store
var (
	ErrNotFound = errors.New("bookmark not found")
	ErrEmptyURL = errors.New("bookmark URL cannot be empty")
)

const bookmarkColumns = "id, uuid, url, title, tags, notes, created_at, modified_at, deleted_at"

// Store provides CRUD operations over the bookmarks table.
// All mutations persist immediately in their own transaction.
type Store struct {
	db     *Database
	logger *logger.Logger
}

// NewStore creates a bookmark store backed by the given database
func NewStore(db *Database) *Store {
	return &Store{
		db:     db,
		logger: logger.GetLogger().Storage(),
	}
}

// Insert creates a new bookmark from a URL and optional title.
// CreatedAt and ModifiedAt are both set to the current time.
func (s *Store) Insert(url, title string) (*Bookmark, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}

	b := NewBookmark(strings.TrimSpace(url), strings.TrimSpace(title))
	if err := s.InsertRecord(b); err != nil {
		return nil, err
	}
	return b, nil
}

// InsertRecord inserts a fully populated bookmark, preserving its tags,
// notes, and timestamps. Used by the importer and the editor path.
// Missing UUID and timestamps are filled in.
func (s *Store) InsertRecord(b *Bookmark) error {
	if b == nil || strings.TrimSpace(b.URL) == "" {
		return ErrEmptyURL
	}

	if b.UUID == "" {
		b.UUID = NewBookmark(b.URL, b.Title).UUID
	}
	now := time.Now().UnixMilli()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	if b.ModifiedAt == 0 {
		b.ModifiedAt = now
	}
	if b.ModifiedAt < b.CreatedAt {
		b.ModifiedAt = b.CreatedAt
	}

	query := `INSERT INTO bookmarks (uuid, url, title, tags, notes, created_at, modified_at, deleted_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(query,
		b.UUID, b.URL, b.Title, b.Tags, b.Notes, b.CreatedAt, b.ModifiedAt, b.DeletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted bookmark id: %w", err)
	}
	b.ID = id

	s.logger.Debug().Int64("id", b.ID).Str("url", b.URL).Msg("Bookmark inserted")
	return nil
}

// Update replaces the editable fields of a bookmark and refreshes
// ModifiedAt. CreatedAt is untouched. Updating a soft-deleted record
// restores it, matching the editor workflow.
func (s *Store) Update(id int64, url, title, tags, notes string) (*Bookmark, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}

	now := time.Now().UnixMilli()

	query := `UPDATE bookmarks
	          SET url = ?, title = ?, tags = ?, notes = ?, modified_at = ?, deleted_at = 0
	          WHERE id = ?`

	result, err := s.db.ExecContext(query,
		strings.TrimSpace(url), strings.TrimSpace(title), strings.TrimSpace(tags), notes, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	s.logger.Debug().Int64("id", id).Msg("Bookmark updated")
	return s.Get(id)
}

// SoftDelete marks a bookmark as deleted without removing the row
func (s *Store) SoftDelete(id int64) error {
	now := time.Now().UnixMilli()

	result, err := s.db.ExecContext(
		`UPDATE bookmarks SET deleted_at = ?, modified_at = ? WHERE id = ? AND deleted_at = 0`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug().Int64("id", id).Msg("Bookmark soft-deleted")
	return nil
}

// Restore clears the soft-delete marker of a bookmark
func (s *Store) Restore(id int64) error {
	now := time.Now().UnixMilli()

	result, err := s.db.ExecContext(
		`UPDATE bookmarks SET deleted_at = 0, modified_at = ? WHERE id = ? AND deleted_at != 0`,
		now, id)
	if err != nil {
		return fmt.Errorf("failed to restore bookmark: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check restore result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Debug().Int64("id", id).Msg("Bookmark restored")
	return nil
}

// Get fetches a single bookmark by its database id
func (s *Store) Get(id int64) (*Bookmark, error) {
	query := fmt.Sprintf("SELECT %s FROM bookmarks WHERE id = ?", bookmarkColumns)
	return s.scanOne(s.db.QueryRowContext(query, id))
}

// GetByUUID fetches a single bookmark by its stable identifier
func (s *Store) GetByUUID(uuid string) (*Bookmark, error) {
	query := fmt.Sprintf("SELECT %s FROM bookmarks WHERE uuid = ?", bookmarkColumns)
	return s.scanOne(s.db.QueryRowContext(query, uuid))
}

// List returns all bookmarks in the given order. When showDeleted is
// false only live records are returned; when true only deleted ones,
// matching the two views of the interface.
func (s *Store) List(sortKey SortKey, showDeleted bool) ([]*Bookmark, error) {
	query := fmt.Sprintf("SELECT %s FROM bookmarks WHERE %s ORDER BY %s",
		bookmarkColumns, deletedFilter(showDeleted), sortKey.orderClause())

	rows, err := s.db.QueryContext(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	return s.scanAll(rows)
}

// Search returns bookmarks whose url, title, tags, or notes contain the
// query as a case-insensitive substring. An empty query lists everything.
func (s *Store) Search(query string, sortKey SortKey, showDeleted bool) ([]*Bookmark, error) {
	needle := strings.TrimSpace(query)
	if needle == "" {
		return s.List(sortKey, showDeleted)
	}

	// instr() avoids LIKE wildcard escaping for user input
	sqlQuery := fmt.Sprintf(`SELECT %s FROM bookmarks
	          WHERE %s
	            AND (instr(lower(url), lower(?)) > 0
	              OR instr(lower(title), lower(?)) > 0
	              OR instr(lower(tags), lower(?)) > 0
	              OR instr(lower(notes), lower(?)) > 0)
	          ORDER BY %s`,
		bookmarkColumns, deletedFilter(showDeleted), sortKey.orderClause())

	rows, err := s.db.QueryContext(sqlQuery, needle, needle, needle, needle)
	if err != nil {
		return nil, fmt.Errorf("failed to search bookmarks: %w", err)
	}
	defer rows.Close()

	return s.scanAll(rows)
}

// Count returns the number of records in the current view
func (s *Store) Count(showDeleted bool) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM bookmarks WHERE %s", deletedFilter(showDeleted))

	var count int
	if err := s.db.QueryRowContext(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return count, nil
}

func deletedFilter(showDeleted bool) string {
	if showDeleted {
		return "deleted_at != 0"
	}
	return "deleted_at = 0"
}

func (s *Store) scanOne(row *sql.Row) (*Bookmark, error) {
	var b Bookmark
	err := row.Scan(&b.ID, &b.UUID, &b.URL, &b.Title, &b.Tags, &b.Notes,
		&b.CreatedAt, &b.ModifiedAt, &b.DeletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}
	return &b, nil
}

func (s *Store) scanAll(rows *sql.Rows) ([]*Bookmark, error) {
	var bookmarks []*Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.UUID, &b.URL, &b.Title, &b.Tags, &b.Notes,
			&b.CreatedAt, &b.ModifiedAt, &b.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookmark rows: %w", err)
	}
	return bookmarks, nil
}

// InsertBatch inserts many bookmarks in a single transaction. Used by
// the importer so large exports do not pay per-record fsync costs.
func (s *Store) InsertBatch(bookmarks []*Bookmark) error {
	if len(bookmarks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO bookmarks (uuid, url, title, tags, notes, created_at, modified_at, deleted_at)
	                         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for _, b := range bookmarks {
		if b == nil || strings.TrimSpace(b.URL) == "" {
			return ErrEmptyURL
		}
		if b.UUID == "" {
			b.UUID = NewBookmark(b.URL, b.Title).UUID
		}
		if b.CreatedAt == 0 {
			b.CreatedAt = now
		}
		if b.ModifiedAt == 0 {
			b.ModifiedAt = now
		}
		if b.ModifiedAt < b.CreatedAt {
			b.ModifiedAt = b.CreatedAt
		}

		result, err := stmt.Exec(b.UUID, b.URL, b.Title, b.Tags, b.Notes,
			b.CreatedAt, b.ModifiedAt, b.DeletedAt)
		if err != nil {
			return fmt.Errorf("failed to insert bookmark in batch: %w", err)
		}
		if id, err := result.LastInsertId(); err == nil {
			b.ID = id
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}

	s.logger.Debug().Int("count", len(bookmarks)).Msg("Batch insert committed")
	return nil
}
