package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/shlokapp/narrate-server/internal/domain"
)

// progressKey builds the key for a reading's progress snapshot.
func progressKey(readingID int) []byte {
	return fmt.Appendf(nil, "progress:%d", readingID)
}

// SaveProgress upserts the progress snapshot for a reading.
func (s *Store) SaveProgress(_ context.Context, snap *domain.ProgressSnapshot) error {
	if err := s.set(progressKey(snap.ReadingID), snap); err != nil {
		return fmt.Errorf("save progress for reading %d: %w", snap.ReadingID, err)
	}
	return nil
}

// GetProgress fetches the progress snapshot for a reading.
// Returns ErrProgressNotFound when no snapshot has been written.
func (s *Store) GetProgress(_ context.Context, readingID int) (*domain.ProgressSnapshot, error) {
	var snap domain.ProgressSnapshot
	err := s.get(progressKey(readingID), &snap)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress for reading %d: %w", readingID, err)
	}
	return &snap, nil
}

// DeleteProgress removes the snapshot for a reading. Deleting a missing
// snapshot is not an error.
func (s *Store) DeleteProgress(_ context.Context, readingID int) error {
	return s.delete(progressKey(readingID))
}
