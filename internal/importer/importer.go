// Package importer reads Netscape-format bookmark exports, the file
// layout produced by Diigo and Chrome. Every anchor becomes one record;
// a following <DD> text block becomes the record's notes.
package importer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

// Result summarizes one import run
type Result struct {
	// Records inserted
	Added int

	// Anchors without an HREF
	Skipped int
}

// Importer parses bookmark exports and inserts the records
type Importer struct {
	store     *storage.Store
	batchSize int
	logger    *logger.Logger
}

// New creates an importer writing to the given store
func New(store *storage.Store, cfg *config.Config) *Importer {
	batchSize := cfg.Import.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Importer{
		store:     store,
		batchSize: batchSize,
		logger:    logger.GetLogger().Import(),
	}
}

// ImportFile imports the export at the given path
func (im *Importer) ImportFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	im.logger.Info().Str("path", path).Msg("Starting bookmark import")

	result, err := im.Import(f)
	if err != nil {
		return nil, err
	}

	im.logger.Info().
		Int("added", result.Added).
		Int("skipped", result.Skipped).
		Msg("Bookmark import completed")

	return result, nil
}

// Import parses an export from the reader and inserts the records.
// Each import appends; existing rows are never touched or deduplicated.
func (im *Importer) Import(r io.Reader) (*Result, error) {
	records, skipped, err := Parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{Skipped: skipped}

	for start := 0; start < len(records); start += im.batchSize {
		end := start + im.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := im.store.InsertBatch(records[start:end]); err != nil {
			return nil, fmt.Errorf("import failed after %d records: %w", result.Added, err)
		}
		result.Added += end - start
	}

	return result, nil
}

// Parse extracts bookmark records from a Netscape-format export.
// Returns the parsed records and the count of anchors without an HREF.
func Parse(r io.Reader) ([]*storage.Bookmark, int, error) {
	tokenizer := html.NewTokenizer(r)

	var (
		records []*storage.Bookmark
		skipped int

		current   *storage.Bookmark // anchor being collected, nil outside <a>
		inAnchor  bool
		inNotes   bool
		noteLines []string
	)

	flushNotes := func() {
		if current != nil && len(noteLines) > 0 {
			current.Notes = strings.TrimRight(strings.Join(noteLines, ""), "\n \t")
		}
		noteLines = nil
		inNotes = false
	}

	closeRecord := func() {
		flushNotes()
		if current != nil {
			current.Title = cleanTitle(current.Title)
			records = append(records, current)
			current = nil
		}
	}

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			err := tokenizer.Err()
			if err == io.EOF {
				closeRecord()
				return records, skipped, nil
			}
			return nil, 0, fmt.Errorf("failed to parse bookmark export: %w", err)

		case html.StartTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "a":
				closeRecord()
				b, ok := anchorToBookmark(token)
				if !ok {
					skipped++
					continue
				}
				current = b
				inAnchor = true
			case "dd":
				inNotes = current != nil
			case "dt", "dl":
				flushNotes()
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "a":
				inAnchor = false
			case "dl":
				closeRecord()
			}

		case html.TextToken:
			text := string(tokenizer.Text())
			if inAnchor && current != nil {
				current.Title += text
			} else if inNotes {
				noteLines = append(noteLines, text)
			}
		}
	}
}

// anchorToBookmark builds a record from an <a> tag's attributes.
// Timestamps are unix seconds in the export and unix milliseconds in
// the store. Missing timestamps default to insert time.
func anchorToBookmark(token html.Token) (*storage.Bookmark, bool) {
	var href, tags string
	var addDate, lastVisit int64

	for _, attr := range token.Attr {
		switch strings.ToLower(attr.Key) {
		case "href":
			href = strings.TrimSpace(attr.Val)
		case "tags":
			tags = attr.Val
		case "add_date":
			addDate = parseSeconds(attr.Val)
		case "last_visit":
			lastVisit = parseSeconds(attr.Val)
		}
	}

	if href == "" {
		return nil, false
	}

	b := &storage.Bookmark{
		URL:        href,
		Tags:       formatTags(tags),
		CreatedAt:  addDate,
		ModifiedAt: lastVisit,
	}
	if b.ModifiedAt == 0 {
		b.ModifiedAt = b.CreatedAt
	}
	return b, true
}

func parseSeconds(s string) int64 {
	seconds, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return seconds * 1000
}

// formatTags converts the export's "a,b,c" form to "#a #b #c"
func formatTags(raw string) string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, "#"+tag)
		}
	}
	return strings.Join(tags, " ")
}

// cleanTitle strips whitespace and the left-to-right mark Diigo
// prepends to some titles
func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	return strings.TrimLeft(title, "‎")
}
