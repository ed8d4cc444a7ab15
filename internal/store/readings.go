package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shlokapp/narrate-server/internal/domain"
)

// readingStoreKey builds the key for an alignment artifact, one per reading
// key and language.
func readingStoreKey(readingKey, language string) []byte {
	return fmt.Appendf(nil, "reading:%s:%s", readingKey, language)
}

// assetKey builds the key for a downloaded-audio index entry.
func assetKey(audioFileRef string) []byte {
	return fmt.Appendf(nil, "asset:%s", audioFileRef)
}

// PutReading stores an aligned reading, replacing any previous artifact for
// the same reading key and language.
func (s *Store) PutReading(_ context.Context, reading *domain.AlignedReading) error {
	key := readingStoreKey(reading.ReadingKey, reading.Language)
	if err := s.set(key, reading); err != nil {
		return fmt.Errorf("put reading %s/%s: %w", reading.ReadingKey, reading.Language, err)
	}
	return nil
}

// GetReading fetches an aligned reading by key and language.
// Returns ErrReadingNotFound when no artifact is stored.
func (s *Store) GetReading(_ context.Context, readingKey, language string) (*domain.AlignedReading, error) {
	var reading domain.AlignedReading
	err := s.get(readingStoreKey(readingKey, language), &reading)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reading %s/%s: %w", readingKey, language, err)
	}
	return &reading, nil
}

// HasReading reports whether an artifact is stored for the key and language
// without deserializing it.
func (s *Store) HasReading(_ context.Context, readingKey, language string) (bool, error) {
	return s.exists(readingStoreKey(readingKey, language))
}

// ListReadings returns all stored readings, across languages.
func (s *Store) ListReadings(_ context.Context) ([]*domain.AlignedReading, error) {
	var readings []*domain.AlignedReading
	err := s.iteratePrefix([]byte("reading:"), func(val []byte) error {
		var reading domain.AlignedReading
		if err := json.Unmarshal(val, &reading); err != nil {
			return err
		}
		readings = append(readings, &reading)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

// MarkAssetDownloaded records that an audio asset is present at localPath.
func (s *Store) MarkAssetDownloaded(_ context.Context, audioFileRef, localPath string) error {
	return s.set(assetKey(audioFileRef), localPath)
}

// DownloadedAssetPath returns the local path of a downloaded asset and
// whether it is present in the index.
func (s *Store) DownloadedAssetPath(_ context.Context, audioFileRef string) (string, bool, error) {
	var path string
	err := s.get(assetKey(audioFileRef), &path)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
