package player

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/shlokapp/narrate-server/internal/domain"
)

// DefaultSampleInterval is the poll period while a session is active.
// Word spans are typically a few hundred milliseconds, so sampling in the
// tens of milliseconds keeps highlights visually in step with narration.
const DefaultSampleInterval = 50 * time.Millisecond

// Sampler produces a single live time value for the active reading from two
// possibly-divergent sources: a high-frequency poll of the playback engine
// and lower-frequency status pushes from the client. Either source may lag
// or momentarily read zero, so the most advanced value wins on every read;
// taking the minimum or an average would reintroduce the lag the dual-source
// design exists to eliminate.
//
// A Sampler belongs to exactly one playback session and is never shared.
type Sampler struct {
	engine   Engine
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	polled float64
	pushed float64

	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewSampler creates a sampler for one session. interval <= 0 selects
// DefaultSampleInterval.
func NewSampler(engine Engine, interval time.Duration, logger *slog.Logger) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Sampler{
		engine:   engine,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the poll loop. Starting an already-running sampler is a
// no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.poll(s.stop, s.done)
}

// Stop halts the poll loop synchronously: no tick fires after Stop returns.
// The polled value resets to 0 because the session is no longer active.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done

	s.mu.Lock()
	s.polled = 0
	s.mu.Unlock()
}

// poll samples the engine on the fixed interval until stopped.
func (s *Sampler) poll(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t := s.engine.CurrentTime()
			if math.IsNaN(t) {
				// Transient engine glitch; keep the previous sample.
				continue
			}
			s.mu.Lock()
			s.polled = t
			s.mu.Unlock()
		}
	}
}

// Push records a time value reported by the lower-frequency status source.
// NaN values are discarded and the previous valid sample retained.
func (s *Sampler) Push(t float64) {
	if math.IsNaN(t) {
		if s.logger != nil {
			s.logger.Debug("discarding NaN status sample")
		}
		return
	}
	s.mu.Lock()
	s.pushed = t
	s.mu.Unlock()
}

// CurrentTime returns the reconciled time: the maximum of the two sources.
func (s *Sampler) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return math.Max(s.polled, s.pushed)
}

// Position derives the playback position for a reading from the reconciled
// time. Progress is 0 when duration is unknown, otherwise unclamped so
// minor end-of-track overshoot stays visible to callers that care.
func (s *Sampler) Position(reading *domain.AlignedReading) domain.PlaybackPosition {
	t := s.CurrentTime()

	pos := domain.PlaybackPosition{
		SectionIndex:    -1,
		ActiveWordIndex: -1,
	}
	if reading == nil {
		return pos
	}

	if reading.DurationSeconds > 0 {
		pos.ProgressPercent = t / reading.DurationSeconds * 100
	}

	pos.SectionIndex = domain.LocateSection(reading.Sections, t)
	if pos.SectionIndex >= 0 {
		section := &reading.Sections[pos.SectionIndex]
		pos.SectionKind = string(section.Kind)
		pos.ActiveWordIndex = domain.LocateWord(section.Words, t)
		return pos
	}

	pos.InGap = domain.InGap(reading.Sections, t)
	return pos
}
