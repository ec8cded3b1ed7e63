package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/shamilbi/bookmarks-curses/internal/config"
	"github.com/shamilbi/bookmarks-curses/internal/logger"
	"github.com/shamilbi/bookmarks-curses/internal/storage"
)

// Service provides the search surface of the interface: plain substring
// search straight from the store, or optional fuzzy matching through an
// in-memory index built lazily from the store.
type Service struct {
	store  *storage.Store
	config *config.Config
	logger *logger.Logger

	fuzzy *FuzzyIndex
	dirty bool
}

// Request contains search parameters
type Request struct {
	Query       string
	SortKey     storage.SortKey
	ShowDeleted bool

	// Use the fuzzy index instead of substring matching
	UseFuzzy     bool
	FuzzyOptions *FuzzyOptions
}

// Response contains search results and metadata
type Response struct {
	Bookmarks  []*storage.Bookmark
	UsedFuzzy  bool
	SearchTime time.Duration
}

// NewService creates a search service over the given store
func NewService(store *storage.Store, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		config: cfg,
		logger: logger.GetLogger().Search(),
		dirty:  true,
	}
}

// Search runs the request, falling back to substring search when the
// fuzzy index cannot be used
func (s *Service) Search(req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil search request")
	}

	start := time.Now()

	if req.UseFuzzy && strings.TrimSpace(req.Query) != "" {
		bookmarks, err := s.fuzzySearch(req)
		if err == nil {
			return &Response{
				Bookmarks:  bookmarks,
				UsedFuzzy:  true,
				SearchTime: time.Since(start),
			}, nil
		}
		s.logger.Warn().Err(err).Msg("Fuzzy search failed, falling back to substring search")
	}

	bookmarks, err := s.store.Search(req.Query, req.SortKey, req.ShowDeleted)
	if err != nil {
		return nil, err
	}

	return &Response{
		Bookmarks:  bookmarks,
		SearchTime: time.Since(start),
	}, nil
}

// fuzzySearch matches through the index, then filters the sorted listing
// so the active sort order is preserved
func (s *Service) fuzzySearch(req *Request) ([]*storage.Bookmark, error) {
	if err := s.ensureIndex(); err != nil {
		return nil, err
	}

	uuids, err := s.fuzzy.Search(req.Query, req.FuzzyOptions)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]struct{}, len(uuids))
	for _, id := range uuids {
		matched[id] = struct{}{}
	}

	all, err := s.store.List(req.SortKey, req.ShowDeleted)
	if err != nil {
		return nil, err
	}

	results := make([]*storage.Bookmark, 0, len(matched))
	for _, b := range all {
		if _, ok := matched[b.UUID]; ok {
			results = append(results, b)
		}
	}

	return results, nil
}

// ensureIndex builds or rebuilds the fuzzy index from the store
func (s *Service) ensureIndex() error {
	if s.fuzzy != nil && !s.dirty {
		return nil
	}

	if s.fuzzy != nil {
		s.fuzzy.Close()
		s.fuzzy = nil
	}

	idx := NewFuzzyIndex()
	if err := idx.Initialize(); err != nil {
		return err
	}

	// Index both views so the deleted listing can be searched too
	for _, showDeleted := range []bool{false, true} {
		bookmarks, err := s.store.List(storage.SortModified, showDeleted)
		if err != nil {
			idx.Close()
			return err
		}
		if err := idx.IndexBookmarks(bookmarks); err != nil {
			idx.Close()
			return err
		}
	}

	s.fuzzy = idx
	s.dirty = false

	if count, err := idx.DocCount(); err == nil {
		s.logger.Debug().Uint64("documents", count).Msg("Fuzzy index built")
	}

	return nil
}

// Invalidate marks the fuzzy index stale after a store mutation.
// The next fuzzy search rebuilds it.
func (s *Service) Invalidate() {
	s.dirty = true
}

// Close releases the fuzzy index
func (s *Service) Close() error {
	if s.fuzzy != nil {
		err := s.fuzzy.Close()
		s.fuzzy = nil
		return err
	}
	return nil
}
