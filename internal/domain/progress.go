package domain

import "time"

// ProgressSnapshot is the persisted playback state for one reading. Written
// periodically while playing and on dismiss, read back when the reading is
// loaded again to seed RestorePosition.
type ProgressSnapshot struct {
	ReadingID            int       `json:"reading_id"`
	TimeSeconds          float64   `json:"time_seconds"`
	HasCompletedPlayback bool      `json:"has_completed_playback"`
	Speed                float64   `json:"speed"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// SnapshotFromState captures the persistable fields of a player state.
func SnapshotFromState(state PlayerUIState, currentTime float64) *ProgressSnapshot {
	readingID := 0
	if state.ReadingID != nil {
		readingID = *state.ReadingID
	}
	return &ProgressSnapshot{
		ReadingID:            readingID,
		TimeSeconds:          currentTime,
		HasCompletedPlayback: state.HasCompletedPlayback,
		Speed:                state.Speed,
		UpdatedAt:            time.Now(),
	}
}
