// Package domain contains the core types for narrated readings: word-level
// timing data, section/word location, sentence grouping, highlight projection,
// and the audio player state machine.
package domain

// SectionKind classifies a structural unit of narrated text.
type SectionKind string

// Section kinds in narration order for a typical reading.
const (
	KindVerse            SectionKind = "verse"
	KindVerseTranslation SectionKind = "verse_translation"
	KindCommentary       SectionKind = "commentary"
	KindReflection       SectionKind = "reflection"
)

// TimedWord is a single word of narrated text with its aligned time span.
// Spans are half-open: the word is active for start <= t < end.
type TimedWord struct {
	Text         string  `json:"text"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`

	// Matched reports whether the alignment pass located this word in the
	// source audio. Informational only; location logic ignores it.
	Matched bool `json:"matched"`
}

// Section is one structural unit of a reading (a verse, its translation,
// commentary, or reflection) with its ordered word timings.
type Section struct {
	Kind       SectionKind `json:"kind"`
	Text       string      `json:"text"`
	Words      []TimedWord `json:"words"`
	VerseIndex *int        `json:"verse_index,omitempty"`
}

// StartSeconds returns the section's derived start time.
// A section with no words has the degenerate span [0,0].
func (s *Section) StartSeconds() float64 {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Words[0].StartSeconds
}

// EndSeconds returns the section's derived end time.
func (s *Section) EndSeconds() float64 {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Words[len(s.Words)-1].EndSeconds
}

// Contains reports whether t falls inside the section's half-open span.
func (s *Section) Contains(t float64) bool {
	return t >= s.StartSeconds() && t < s.EndSeconds()
}

// AlignedReading is the immutable per-reading alignment artifact: the audio
// asset reference plus ordered sections of timed words. Loaded once when a
// reading's audio is prepared and discarded when the user moves on.
type AlignedReading struct {
	AudioFileRef    string    `json:"audio_file_ref"`
	ReadingKey      string    `json:"reading_key"`
	Language        string    `json:"language"`
	DurationSeconds float64   `json:"duration_seconds"`
	Sections        []Section `json:"sections"`
}

// SentenceGroup is a contiguous run of words within one section treated as a
// single highlighting unit. Indices are local to the owning section's words.
type SentenceGroup struct {
	StartWordIndex int    `json:"start_word_index"`
	EndWordIndex   int    `json:"end_word_index"`
	Text           string `json:"text"`
}

// Contains reports whether the group's inclusive index range covers wordIndex.
func (g SentenceGroup) Contains(wordIndex int) bool {
	return wordIndex >= g.StartWordIndex && wordIndex <= g.EndWordIndex
}

// PlaybackPosition is the derived location of playback within a reading,
// recomputed on every sample tick.
type PlaybackPosition struct {
	SectionIndex    int     `json:"section_index"`     // -1 if none
	SectionKind     string  `json:"section_kind"`      // empty if none
	ActiveWordIndex int     `json:"active_word_index"` // -1 if none
	InGap           bool    `json:"in_gap"`
	ProgressPercent float64 `json:"progress_percent"`
}
