package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shlokapp/narrate-server/internal/domain"
	"github.com/shlokapp/narrate-server/internal/errors"
	"github.com/shlokapp/narrate-server/internal/player"
	"github.com/shlokapp/narrate-server/internal/store"
)

// DefaultPersistInterval is how often a playing session's progress snapshot
// is written to storage.
const DefaultPersistInterval = 10 * time.Second

// PlaybackService manages live playback sessions. Each session owns one
// AlignedReading, a position sampler, memoized sentence groups, and the
// player surface state; nothing is shared across sessions.
type PlaybackService struct {
	store            *store.Store
	library          *LibraryService
	logger           *slog.Logger
	sampleInterval   time.Duration
	persistInterval  time.Duration
	maxSentenceWords int

	mu       sync.Mutex
	sessions map[string]*playbackSession
}

// PlaybackOptions configures the playback service.
type PlaybackOptions struct {
	SampleInterval   time.Duration
	PersistInterval  time.Duration
	MaxSentenceWords int
}

// NewPlaybackService creates the playback session manager.
func NewPlaybackService(st *store.Store, library *LibraryService, opts PlaybackOptions, logger *slog.Logger) *PlaybackService {
	if opts.PersistInterval <= 0 {
		opts.PersistInterval = DefaultPersistInterval
	}
	if opts.MaxSentenceWords <= 0 {
		opts.MaxSentenceWords = domain.DefaultMaxSentenceWords
	}
	return &PlaybackService{
		store:            st,
		library:          library,
		logger:           logger,
		sampleInterval:   opts.SampleInterval,
		persistInterval:  opts.PersistInterval,
		maxSentenceWords: opts.MaxSentenceWords,
		sessions:         make(map[string]*playbackSession),
	}
}

// playbackSession is one live session. The reading is read-only after load;
// only the sampler's time value and the player state mutate.
type playbackSession struct {
	id      string
	reading *domain.AlignedReading
	engine  *player.ClockEngine
	sampler *player.Sampler

	// audioPath is the local path of the downloaded audio asset, empty when
	// the client must stream from the asset reference instead.
	audioPath string

	// groups holds sentence groups per section, memoized for the lifetime
	// of the loaded reading. Verse sections carry nil (word-granularity).
	groups [][]domain.SentenceGroup

	mu    sync.Mutex
	state domain.PlayerUIState

	persistStop chan struct{}
	persistDone chan struct{}
}

// SessionView is the externally visible snapshot of a session. AudioPath is
// the downloaded asset's local path, empty when the client streams from the
// asset reference.
type SessionView struct {
	SessionID    string                 `json:"session_id"`
	State        domain.PlayerUIState   `json:"state"`
	ReadingKey   string                 `json:"reading_key"`
	Language     string                 `json:"language"`
	AudioFileRef string                 `json:"audio_file_ref"`
	AudioPath    string                 `json:"audio_path,omitempty"`
	Categories   []domain.CategoryStart `json:"categories"`
}

// LoadReading starts (or restarts) a session on the given reading. The
// stored progress snapshot, if any, seeds the restored position and speed.
func (s *PlaybackService) LoadReading(ctx context.Context, sessionID string, readingID int, readingKey, language string) (*SessionView, error) {
	reading, err := s.library.GetReading(ctx, readingKey, language)
	if err != nil {
		return nil, err
	}

	// A missing index entry means the client streams; index trouble degrades
	// the same way and never blocks playback.
	audioPath, _, err := s.library.AssetPath(ctx, reading.AudioFileRef)
	if err != nil {
		s.logger.Warn("could not resolve audio asset", "audio_file_ref", reading.AudioFileRef, "error", err)
		audioPath = ""
	}

	engine := player.NewClockEngine(reading.DurationSeconds)
	session := &playbackSession{
		id:        sessionID,
		reading:   reading,
		engine:    engine,
		sampler:   player.NewSampler(engine, s.sampleInterval, s.logger),
		audioPath: audioPath,
		groups:    s.segmentSections(reading),
		state:     domain.ReducePlayer(domain.NewPlayerUIState(), domain.LoadReading{ReadingID: readingID}),
	}

	// Seed from the persisted snapshot. Storage trouble degrades to a fresh
	// start; it never blocks playback.
	if snap, err := s.store.GetProgress(ctx, readingID); err == nil {
		session.state = domain.ReducePlayer(session.state, domain.RestorePosition{
			TimeSeconds:          snap.TimeSeconds,
			HasCompletedPlayback: snap.HasCompletedPlayback,
			Speed:                snap.Speed,
		})
		engine.Seek(snap.TimeSeconds)
		engine.SetRate(session.state.Speed)
	} else if !errors.Is(err, store.ErrProgressNotFound) {
		s.logger.Warn("could not restore progress", "reading_id", readingID, "error", err)
	}

	session.sampler.Start()
	session.persistStop = make(chan struct{})
	session.persistDone = make(chan struct{})
	go s.persistLoop(session)

	s.mu.Lock()
	if old := s.sessions[sessionID]; old != nil {
		s.teardown(old)
	}
	s.sessions[sessionID] = session
	s.mu.Unlock()

	s.logger.Info("loaded reading",
		"session_id", sessionID,
		"reading_key", readingKey,
		"language", language,
		"reading_id", readingID,
	)
	return s.view(session), nil
}

// segmentSections memoizes sentence groups per section. Verse sections keep
// nil groups; they highlight at word granularity.
func (s *PlaybackService) segmentSections(reading *domain.AlignedReading) [][]domain.SentenceGroup {
	groups := make([][]domain.SentenceGroup, len(reading.Sections))
	for i := range reading.Sections {
		if reading.Sections[i].Kind == domain.KindVerse {
			continue
		}
		groups[i] = domain.SegmentSentences(reading.Sections[i].Words, s.maxSentenceWords)
	}
	return groups
}

// Apply dispatches a player action to a session and returns the new state.
// MarkListened and Dismiss also end the live session.
func (s *PlaybackService) Apply(ctx context.Context, sessionID string, action domain.PlayerAction) (domain.PlayerUIState, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.PlayerUIState{}, err
	}

	session.mu.Lock()
	session.state = domain.ReducePlayer(session.state, action)
	state := session.state
	session.mu.Unlock()

	switch a := action.(type) {
	case domain.SetSpeed:
		session.engine.SetRate(a.Value)
	case domain.MarkListened:
		s.persist(ctx, session) // snapshot now carries time 0 + completed
		s.remove(sessionID)
	case domain.Dismiss:
		s.persist(ctx, session)
		s.remove(sessionID)
	}

	return state, nil
}

// Play resumes the session's modeled engine.
func (s *PlaybackService) Play(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.engine.Play()
	return nil
}

// Pause freezes the session's modeled engine.
func (s *PlaybackService) Pause(sessionID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.engine.Pause()
	return nil
}

// Seek moves the session's modeled engine to t seconds.
func (s *PlaybackService) Seek(sessionID string, t float64) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.engine.Seek(t)
	return nil
}

// PushTime records a client-observed playback time, the lower-frequency
// status source reconciled against the engine poll.
func (s *PlaybackService) PushTime(sessionID string, t float64) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	session.sampler.Push(t)
	return nil
}

// Position returns the session's derived playback position.
func (s *PlaybackService) Position(sessionID string) (domain.PlaybackPosition, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.PlaybackPosition{SectionIndex: -1, ActiveWordIndex: -1}, err
	}
	return session.sampler.Position(session.reading), nil
}

// Highlight projects the session's position onto its memoized sentence
// groups. A session without timing data reports None rather than failing.
func (s *PlaybackService) Highlight(sessionID string) (domain.Highlight, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Highlight{Kind: domain.HighlightNone}, err
	}

	pos := session.sampler.Position(session.reading)
	return domain.ProjectHighlight(pos, session.reading.Sections, session.groups), nil
}

// View returns the session's current snapshot.
func (s *PlaybackService) View(sessionID string) (*SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Shutdown ends all live sessions, persisting their progress.
func (s *PlaybackService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	sessions := make([]*playbackSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.sessions = make(map[string]*playbackSession)
	s.mu.Unlock()

	for _, session := range sessions {
		s.persist(ctx, session)
		s.teardown(session)
	}
}

// session looks up a live session.
func (s *PlaybackService) session(sessionID string) (*playbackSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.sessions[sessionID]
	if session == nil {
		return nil, errors.NotFoundf("no active playback session %q", sessionID)
	}
	return session, nil
}

// remove ends and deletes a session.
func (s *PlaybackService) remove(sessionID string) {
	s.mu.Lock()
	session := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if session != nil {
		s.teardown(session)
	}
}

// teardown stops the sampler and persist loop. The sampler stop is
// synchronous; no tick fires afterwards.
func (s *PlaybackService) teardown(session *playbackSession) {
	session.engine.Pause()
	session.sampler.Stop()
	if session.persistStop != nil {
		close(session.persistStop)
		<-session.persistDone
	}
}

// view builds the external snapshot of a session.
func (s *PlaybackService) view(session *playbackSession) *SessionView {
	session.mu.Lock()
	state := session.state
	session.mu.Unlock()

	return &SessionView{
		SessionID:    session.id,
		State:        state,
		ReadingKey:   session.reading.ReadingKey,
		Language:     session.reading.Language,
		AudioFileRef: session.reading.AudioFileRef,
		AudioPath:    session.audioPath,
		Categories:   domain.CategoryStarts(session.reading.Sections),
	}
}

// persistLoop writes progress snapshots on a fixed interval while the
// session lives. Persistence is fire-and-forget: playback never waits on
// storage and never sees its errors.
func (s *PlaybackService) persistLoop(session *playbackSession) {
	defer close(session.persistDone)

	ticker := time.NewTicker(s.persistInterval)
	defer ticker.Stop()

	for {
		select {
		case <-session.persistStop:
			return
		case <-ticker.C:
			s.persist(context.Background(), session)
		}
	}
}

// persist writes one snapshot, swallowing storage errors.
func (s *PlaybackService) persist(ctx context.Context, session *playbackSession) {
	session.mu.Lock()
	state := session.state
	session.mu.Unlock()

	if state.ReadingID == nil {
		return
	}

	snap := domain.SnapshotFromState(state, session.sampler.CurrentTime())
	if state.HasCompletedPlayback {
		snap.TimeSeconds = 0
	}
	if err := s.store.SaveProgress(ctx, snap); err != nil {
		s.logger.Debug("progress persist failed", "reading_id", snap.ReadingID, "error", err)
	}
}
