package domain

// HighlightKind discriminates the four mutually exclusive highlight states.
type HighlightKind string

// Highlight states emitted to the UI layer.
const (
	HighlightNone     HighlightKind = "none"
	HighlightGap      HighlightKind = "gap"
	HighlightWord     HighlightKind = "word"
	HighlightSentence HighlightKind = "sentence"
)

// Highlight is the tagged result of projecting a playback position onto a
// reading's sections. Exactly one kind is active at any instant; the index
// fields are meaningful only for the kinds that set them.
type Highlight struct {
	Kind HighlightKind `json:"kind"`

	// Set for Word and Sentence.
	SectionIndex int `json:"section_index,omitempty"`

	// Set for Word.
	ActiveWordIndex int `json:"active_word_index,omitempty"`

	// Set for Sentence.
	ActiveSentenceIndex int `json:"active_sentence_index,omitempty"`
	StartWordIndex      int `json:"start_word_index,omitempty"`
	EndWordIndex        int `json:"end_word_index,omitempty"`
}

// ProjectHighlight derives the highlight state from a sampled position and
// the per-section sentence groups (memoized by the caller per reading).
// It owns no state of its own and is safe to call on every tick.
//
// Verse sections highlight at word granularity; prose sections highlight the
// sentence group containing the active word. A gap takes priority over any
// section-based state.
func ProjectHighlight(pos PlaybackPosition, sections []Section, groups [][]SentenceGroup) Highlight {
	if len(sections) == 0 {
		return Highlight{Kind: HighlightNone}
	}
	if pos.InGap {
		return Highlight{Kind: HighlightGap}
	}
	if pos.SectionIndex < 0 || pos.SectionIndex >= len(sections) {
		return Highlight{Kind: HighlightNone}
	}

	if sections[pos.SectionIndex].Kind == KindVerse {
		return Highlight{
			Kind:            HighlightWord,
			SectionIndex:    pos.SectionIndex,
			ActiveWordIndex: pos.ActiveWordIndex,
		}
	}

	// Prose: translation, commentary, reflection.
	if pos.SectionIndex >= len(groups) || len(groups[pos.SectionIndex]) == 0 {
		return Highlight{Kind: HighlightNone}
	}

	sectionGroups := groups[pos.SectionIndex]
	active := 0 // segmenter output is exhaustive, but fall back to group 0
	for i, g := range sectionGroups {
		if g.Contains(pos.ActiveWordIndex) {
			active = i
			break
		}
	}

	return Highlight{
		Kind:                HighlightSentence,
		SectionIndex:        pos.SectionIndex,
		ActiveSentenceIndex: active,
		StartWordIndex:      sectionGroups[active].StartWordIndex,
		EndWordIndex:        sectionGroups[active].EndWordIndex,
	}
}
