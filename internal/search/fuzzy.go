package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/shamilbi/bookmarks-curses/internal/logger"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

// FuzzyIndex provides fuzzy matching over bookmarks using an in-memory
// Bleve index. Documents are keyed by bookmark UUID so hits map straight
// back to store records.
type FuzzyIndex struct {
	index       bleve.Index
	logger      *logger.Logger
	initialized bool
}

// searchableBookmark is the document shape fed to the index
type searchableBookmark struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Tags  string `json:"tags"`
	Notes string `json:"notes"`
}

// FuzzyOptions controls fuzzy search behavior
type FuzzyOptions struct {
	// Edit distance allowed per term (0-2)
	Fuzziness int

	// Score boosts
	BoostExactMatch float64
	BoostPrefix     float64

	// Minimum relevance score to include in results
	MinScore float64

	// Maximum candidates to evaluate
	MaxCandidates int
}

// DefaultFuzzyOptions returns sensible defaults for interactive search
func DefaultFuzzyOptions() *FuzzyOptions {
	return &FuzzyOptions{
		Fuzziness:       1,
		BoostExactMatch: 3.0,
		BoostPrefix:     2.0,
		MinScore:        0.1,
		MaxCandidates:   1000,
	}
}

// NewFuzzyIndex creates an uninitialized fuzzy index
func NewFuzzyIndex() *FuzzyIndex {
	return &FuzzyIndex{
		logger: logger.GetLogger().WithComponent("fuzzy-search"),
	}
}

// Initialize creates the in-memory Bleve index. The index lives only for
// the process lifetime and is rebuilt from the store on demand.
func (f *FuzzyIndex) Initialize() error {
	if f.initialized {
		return nil
	}

	index, err := bleve.NewMemOnly(f.createIndexMapping())
	if err != nil {
		return fmt.Errorf("failed to initialize search index: %w", err)
	}

	f.index = index
	f.initialized = true

	f.logger.Debug().Msg("Fuzzy search index initialized")
	return nil
}

// createIndexMapping builds the document mapping for bookmark records
func (f *FuzzyIndex) createIndexMapping() mapping.IndexMapping {
	bookmarkMapping := bleve.NewDocumentMapping()

	// URL as keyword, matched by prefix and wildcard
	urlMapping := bleve.NewTextFieldMapping()
	urlMapping.Analyzer = "keyword"
	urlMapping.Store = false
	urlMapping.Index = true
	bookmarkMapping.AddFieldMappingsAt("url", urlMapping)

	// Titles tokenize to plain lowercased words. Stemming would move
	// the indexed terms away from what fuzzy queries compare against.
	titleMapping := bleve.NewTextFieldMapping()
	titleMapping.Analyzer = "simple"
	titleMapping.Store = false
	titleMapping.Index = true
	bookmarkMapping.AddFieldMappingsAt("title", titleMapping)

	notesMapping := bleve.NewTextFieldMapping()
	notesMapping.Analyzer = en.AnalyzerName
	notesMapping.Store = false
	notesMapping.Index = true
	bookmarkMapping.AddFieldMappingsAt("notes", notesMapping)

	// Tags as simple analyzed text so "#go" and "go" both match
	tagsMapping := bleve.NewTextFieldMapping()
	tagsMapping.Analyzer = "simple"
	tagsMapping.Store = false
	tagsMapping.Index = true
	bookmarkMapping.AddFieldMappingsAt("tags", tagsMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("bookmark", bookmarkMapping)
	indexMapping.DefaultMapping = bookmarkMapping

	return indexMapping
}

// IndexBookmark adds or updates a bookmark in the index
func (f *FuzzyIndex) IndexBookmark(b *storage.Bookmark) error {
	if !f.initialized {
		return fmt.Errorf("fuzzy index not initialized")
	}

	if err := f.index.Index(b.UUID, f.toDocument(b)); err != nil {
		return fmt.Errorf("failed to index bookmark: %w", err)
	}
	return nil
}

// IndexBookmarks adds multiple bookmarks in one batch
func (f *FuzzyIndex) IndexBookmarks(bookmarks []*storage.Bookmark) error {
	if !f.initialized {
		return fmt.Errorf("fuzzy index not initialized")
	}

	if len(bookmarks) == 0 {
		return nil
	}

	batch := f.index.NewBatch()
	for _, b := range bookmarks {
		if err := batch.Index(b.UUID, f.toDocument(b)); err != nil {
			return fmt.Errorf("failed to add bookmark to batch: %w", err)
		}
	}

	if err := f.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to execute batch index: %w", err)
	}

	f.logger.Debug().Int("indexed", len(bookmarks)).Msg("Batch indexing completed")
	return nil
}

// DeleteBookmark removes a bookmark from the index
func (f *FuzzyIndex) DeleteBookmark(uuid string) error {
	if !f.initialized {
		return fmt.Errorf("fuzzy index not initialized")
	}
	return f.index.Delete(uuid)
}

// Search returns the UUIDs of bookmarks matching the query, best first
func (f *FuzzyIndex) Search(searchQuery string, opts *FuzzyOptions) ([]string, error) {
	if !f.initialized {
		return nil, fmt.Errorf("fuzzy index not initialized")
	}

	if opts == nil {
		opts = DefaultFuzzyOptions()
	}

	request := bleve.NewSearchRequest(f.buildQuery(searchQuery, opts))
	request.Size = opts.MaxCandidates

	results, err := f.index.Search(request)
	if err != nil {
		return nil, fmt.Errorf("search execution failed: %w", err)
	}

	uuids := make([]string, 0, len(results.Hits))
	for _, hit := range results.Hits {
		if hit.Score < opts.MinScore {
			continue
		}
		uuids = append(uuids, hit.ID)
	}

	f.logger.Debug().
		Str("query", searchQuery).
		Int("hits", len(uuids)).
		Dur("search_time", results.Took).
		Msg("Fuzzy search completed")

	return uuids, nil
}

// buildQuery combines exact, prefix, fuzzy, and wildcard strategies
func (f *FuzzyIndex) buildQuery(searchQuery string, opts *FuzzyOptions) query.Query {
	if searchQuery == "" {
		return bleve.NewMatchAllQuery()
	}

	boolQuery := bleve.NewBooleanQuery()

	for _, field := range []string{"title", "notes", "tags"} {
		if opts.BoostExactMatch > 0 {
			exactQuery := bleve.NewMatchQuery(searchQuery)
			exactQuery.SetField(field)
			exactQuery.SetBoost(opts.BoostExactMatch)
			boolQuery.AddShould(exactQuery)
		}

		fuzzyQuery := bleve.NewFuzzyQuery(searchQuery)
		fuzzyQuery.SetField(field)
		fuzzyQuery.SetFuzziness(opts.Fuzziness)
		boolQuery.AddShould(fuzzyQuery)
	}

	if opts.BoostPrefix > 0 {
		prefixQuery := bleve.NewPrefixQuery(searchQuery)
		prefixQuery.SetField("title")
		prefixQuery.SetBoost(opts.BoostPrefix)
		boolQuery.AddShould(prefixQuery)
	}

	// URLs rarely tokenize well, substring match them instead
	urlQuery := bleve.NewWildcardQuery("*" + searchQuery + "*")
	urlQuery.SetField("url")
	urlQuery.SetBoost(0.5)
	boolQuery.AddShould(urlQuery)

	return boolQuery
}

func (f *FuzzyIndex) toDocument(b *storage.Bookmark) *searchableBookmark {
	return &searchableBookmark{
		URL:   b.URL,
		Title: b.Title,
		Tags:  b.Tags,
		Notes: b.Notes,
	}
}

// DocCount returns the number of indexed documents
func (f *FuzzyIndex) DocCount() (uint64, error) {
	if !f.initialized {
		return 0, fmt.Errorf("fuzzy index not initialized")
	}
	return f.index.DocCount()
}

// Close releases the index
func (f *FuzzyIndex) Close() error {
	if f.index != nil {
		err := f.index.Close()
		f.index = nil
		f.initialized = false
		return err
	}
	return nil
}
