package store

import "github.com/shlokapp/narrate-server/internal/errors"

// Sentinel errors returned by the store layer.
var (
	ErrReadingNotFound  = errors.NotFound("reading not found")
	ErrProgressNotFound = errors.NotFound("playback progress not found")
)
