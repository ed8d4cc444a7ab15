package search

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index wraps a Bleve index with reading-specific operations.
// All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Options configures the search index.
type Options struct {
	// DataPath is the directory for index storage. Empty selects an
	// in-memory index, used by tests.
	DataPath string
	Logger   *slog.Logger
}

// NewIndex creates or opens a search index.
func NewIndex(opts Options) (*Index, error) {
	var index bleve.Index
	var err error

	if opts.DataPath == "" {
		index, err = bleve.NewMemOnly(buildMapping())
	} else {
		indexPath := filepath.Join(opts.DataPath, "readings.bleve")
		index, err = bleve.Open(indexPath)
		if err != nil {
			index, err = bleve.New(indexPath, buildMapping())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}

	return &Index{index: index, logger: opts.Logger}, nil
}

// buildMapping defines the document mapping: section text is analyzed with
// the standard analyzer, identity fields are keyword-indexed for filtering.
func buildMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("text", textField)
	doc.AddFieldMappingsAt("reading_key", keywordField)
	doc.AddFieldMappingsAt("language", keywordField)
	doc.AddFieldMappingsAt("category", keywordField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// IndexReading indexes all section documents for a reading, replacing any
// previously indexed sections with the same IDs.
func (ix *Index) IndexReading(_ context.Context, docs []Document) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	batch := ix.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	if err := ix.index.Batch(batch); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}

	if ix.logger != nil {
		ix.logger.Debug("indexed reading sections", "count", len(docs))
	}
	return nil
}

// Search runs a match query over section texts and returns up to limit hits
// ordered by score.
func (ix *Index) Search(_ context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("text")

	req := bleve.NewSearchRequestOptions(matchQuery, limit, 0, false)
	req.Fields = []string{"reading_key", "language", "category", "section_index"}

	result, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, match := range result.Hits {
		hit := Hit{Score: match.Score}
		if v, ok := match.Fields["reading_key"].(string); ok {
			hit.ReadingKey = v
		}
		if v, ok := match.Fields["language"].(string); ok {
			hit.Language = v
		}
		if v, ok := match.Fields["category"].(string); ok {
			hit.Category = v
		}
		if v, ok := match.Fields["section_index"].(float64); ok {
			hit.SectionIndex = int(v)
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the underlying index.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.index.Close()
}
