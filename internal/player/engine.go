// Package player contains the playback-time sampling machinery: the engine
// interface, a clock-driven engine implementation, and the dual-source
// position sampler.
package player

import (
	"math"
	"sync"
	"time"
)

// Engine exposes the playback engine surface the sampler reads. The sampler
// only consumes current time and duration; engine lifecycle is owned by the
// session layer.
type Engine interface {
	CurrentTime() float64
	Duration() float64
}

// ClockEngine models the expected playback position of a remote audio engine
// by advancing wall-clock time at the configured rate while playing. Clients
// push their observed positions separately; the sampler reconciles the two.
type ClockEngine struct {
	mu        sync.Mutex
	base      float64 // position at the last play/seek/rate change
	rate      float64
	duration  float64
	playing   bool
	resumedAt time.Time
}

// NewClockEngine creates a paused engine at position 0 with 1x rate.
func NewClockEngine(duration float64) *ClockEngine {
	return &ClockEngine{rate: 1.0, duration: duration}
}

// CurrentTime returns the modeled playback position in seconds.
func (e *ClockEngine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position()
}

// position computes the current position. Callers must hold mu.
func (e *ClockEngine) position() float64 {
	if !e.playing {
		return e.base
	}
	return e.base + time.Since(e.resumedAt).Seconds()*e.rate
}

// Duration returns the track duration in seconds.
func (e *ClockEngine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// Play starts advancing the position.
func (e *ClockEngine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		return
	}
	e.playing = true
	e.resumedAt = time.Now()
}

// Pause freezes the position.
func (e *ClockEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return
	}
	e.base = e.position()
	e.playing = false
}

// Playing reports whether the engine is advancing.
func (e *ClockEngine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Seek moves the position. Negative and non-finite values are ignored.
func (e *ClockEngine) Seek(t float64) {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base = t
	e.resumedAt = time.Now()
}

// SetRate changes the playback speed. Non-positive rates are ignored.
func (e *ClockEngine) SetRate(rate float64) {
	if math.IsNaN(rate) || rate <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.base = e.position()
	e.resumedAt = time.Now()
	e.rate = rate
}
