// Package service contains the business services: the reading library and
// the playback session manager.
package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shlokapp/narrate-server/internal/domain"
	"github.com/shlokapp/narrate-server/internal/errors"
	"github.com/shlokapp/narrate-server/internal/search"
	"github.com/shlokapp/narrate-server/internal/store"
)

// LibraryService ingests alignment artifacts from the data directory,
// serves readings, and answers text search over their sections.
type LibraryService struct {
	store    *store.Store
	index    *search.Index
	logger   *slog.Logger
	dataPath string

	watcher *fsnotify.Watcher

	// highlightSeq numbers jump-to-match requests so the reading screen can
	// tell a fresh request from a stale one.
	highlightSeq atomic.Int64
}

// NewLibraryService creates the library service over the given store and
// search index. dataPath is the directory holding per-reading, per-language
// alignment JSON artifacts.
func NewLibraryService(st *store.Store, index *search.Index, dataPath string, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:    st,
		index:    index,
		logger:   logger,
		dataPath: dataPath,
	}
}

// IngestDir loads every alignment artifact under the data directory into the
// store and search index. Returns the number of readings ingested. A broken
// artifact is logged and skipped; it must not block the rest of the library.
func (s *LibraryService) IngestDir(ctx context.Context) (int, error) {
	if s.dataPath == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(s.dataPath)
	if err != nil {
		return 0, fmt.Errorf("read data directory %s: %w", s.dataPath, err)
	}

	ingested := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dataPath, entry.Name())
		if err := s.IngestFile(ctx, path); err != nil {
			s.logger.Warn("skipping unreadable alignment artifact", "path", path, "error", err)
			continue
		}
		ingested++
	}

	s.logger.Info("library ingest complete", "readings", ingested)
	return ingested, nil
}

// IngestFile parses, validates, stores, and indexes one alignment artifact.
func (s *LibraryService) IngestFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- artifact path comes from the configured data dir
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	var reading domain.AlignedReading
	if err := json.Unmarshal(data, &reading); err != nil {
		return fmt.Errorf("parse artifact %s: %w", filepath.Base(path), err)
	}

	if err := validateReading(&reading); err != nil {
		return err
	}

	if err := s.store.PutReading(ctx, &reading); err != nil {
		return err
	}
	if err := s.index.IndexReading(ctx, search.DocumentsForReading(&reading)); err != nil {
		return err
	}

	s.logger.Debug("ingested reading",
		"reading_key", reading.ReadingKey,
		"language", reading.Language,
		"sections", len(reading.Sections),
	)
	return nil
}

// validateReading enforces the artifact invariants: identity fields present
// and word spans sorted, non-overlapping, with start <= end.
func validateReading(reading *domain.AlignedReading) error {
	if reading.ReadingKey == "" {
		return errors.Validation("artifact missing reading_key")
	}
	if reading.Language == "" {
		return errors.Validationf("artifact %s missing language", reading.ReadingKey)
	}
	if reading.DurationSeconds < 0 {
		return errors.Validationf("artifact %s has negative duration", reading.ReadingKey)
	}

	for si := range reading.Sections {
		words := reading.Sections[si].Words
		for wi, word := range words {
			if word.StartSeconds > word.EndSeconds {
				return errors.Validationf("artifact %s: section %d word %d has start after end",
					reading.ReadingKey, si, wi)
			}
			if wi > 0 && word.StartSeconds < words[wi-1].EndSeconds {
				return errors.Validationf("artifact %s: section %d word %d overlaps previous word",
					reading.ReadingKey, si, wi)
			}
		}
	}
	return nil
}

// Watch re-ingests artifacts as they appear or change in the data directory,
// so new narration days arrive without a restart. Returns after the watcher
// is registered; events are handled on a background goroutine until Close.
func (s *LibraryService) Watch(ctx context.Context) error {
	if s.dataPath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create artifact watcher: %w", err)
	}
	if err := watcher.Add(s.dataPath); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dataPath, err)
	}
	s.watcher = watcher

	go s.watchLoop(ctx, watcher)
	s.logger.Info("watching alignment data directory", "path", s.dataPath)
	return nil
}

// watchLoop dispatches file events until the watcher closes.
func (s *LibraryService) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if err := s.IngestFile(ctx, event.Name); err != nil {
				s.logger.Warn("failed to ingest changed artifact", "path", event.Name, "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("artifact watcher error", "error", err)
		}
	}
}

// Close stops the artifact watcher if one is running.
func (s *LibraryService) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// GetReading fetches a stored reading by key and language.
func (s *LibraryService) GetReading(ctx context.Context, readingKey, language string) (*domain.AlignedReading, error) {
	return s.store.GetReading(ctx, readingKey, language)
}

// HasReading reports whether an artifact is stored for the key and language.
func (s *LibraryService) HasReading(ctx context.Context, readingKey, language string) (bool, error) {
	return s.store.HasReading(ctx, readingKey, language)
}

// MarkAssetDownloaded records that a reading's audio asset is available at
// localPath, so later loads can play from disk instead of streaming.
func (s *LibraryService) MarkAssetDownloaded(ctx context.Context, audioFileRef, localPath string) error {
	if audioFileRef == "" {
		return errors.Validation("audio file ref is empty")
	}
	if localPath == "" {
		return errors.Validation("local path is empty")
	}
	if err := s.store.MarkAssetDownloaded(ctx, audioFileRef, localPath); err != nil {
		return err
	}
	s.logger.Info("audio asset downloaded", "audio_file_ref", audioFileRef, "path", localPath)
	return nil
}

// AssetPath resolves an audio asset reference to its downloaded local path.
// The second return reports whether the asset is in the downloaded index.
func (s *LibraryService) AssetPath(ctx context.Context, audioFileRef string) (string, bool, error) {
	return s.store.DownloadedAssetPath(ctx, audioFileRef)
}

// ReadingSummary is a display-ready listing entry.
type ReadingSummary struct {
	ReadingKey      string  `json:"reading_key"`
	Language        string  `json:"language"`
	AudioFileRef    string  `json:"audio_file_ref"`
	DurationSeconds float64 `json:"duration_seconds"`
	SectionCount    int     `json:"section_count"`
}

// ListReadings lists all stored readings as summaries.
func (s *LibraryService) ListReadings(ctx context.Context) ([]ReadingSummary, error) {
	readings, err := s.store.ListReadings(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ReadingSummary, 0, len(readings))
	for _, reading := range readings {
		summaries = append(summaries, ReadingSummary{
			ReadingKey:      reading.ReadingKey,
			Language:        reading.Language,
			AudioFileRef:    reading.AudioFileRef,
			DurationSeconds: reading.DurationSeconds,
			SectionCount:    len(reading.Sections),
		})
	}
	return summaries, nil
}

// SearchResult pairs a search hit with the highlight request the client
// hands to the reading screen when the user taps the result.
type SearchResult struct {
	Hit       search.Hit              `json:"hit"`
	Highlight search.HighlightRequest `json:"highlight"`
}

// Search runs a query over section texts and builds a jump-to-match
// highlight request for each hit.
func (s *LibraryService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Validation("search query is empty")
	}

	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			Hit:       hit,
			Highlight: s.highlightRequestFor(ctx, hit, query),
		})
	}
	return results, nil
}

// highlightRequestFor locates the first word of the hit section matching the
// query term. Word index falls back to 0 when the term spans words or the
// reading is no longer stored.
func (s *LibraryService) highlightRequestFor(ctx context.Context, hit search.Hit, query string) search.HighlightRequest {
	req := search.HighlightRequest{
		Seq:          s.highlightSeq.Add(1),
		ReadingKey:   hit.ReadingKey,
		Language:     hit.Language,
		SectionIndex: hit.SectionIndex,
	}

	reading, err := s.store.GetReading(ctx, hit.ReadingKey, hit.Language)
	if err != nil || hit.SectionIndex >= len(reading.Sections) {
		return req
	}

	term := strings.ToLower(firstField(query))
	for wi, word := range reading.Sections[hit.SectionIndex].Words {
		if strings.Contains(strings.ToLower(word.Text), term) {
			req.WordIndex = wi
			break
		}
	}
	return req
}

// firstField returns the first whitespace-separated token of a query.
func firstField(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return query
	}
	return fields[0]
}
