package domain

import "strings"

// DefaultMaxSentenceWords is the length bound used when the caller does not
// configure one. Prose commentary narrated without punctuation would
// otherwise highlight an entire section as a single sentence.
const DefaultMaxSentenceWords = 30

// sentenceTerminators end a sentence when a word's text ends with one.
// The Devanagari danda is a first-class terminator for Hindi content.
var sentenceTerminators = []string{".", "?", "!", "।"}

// clauseCommas mark sub-clause boundaries used when a forced break is needed.
var clauseCommas = []string{",", "，"}

// SegmentSentences partitions a section's words into sentence groups.
//
// A sentence ends at word i if its text ends with a terminator, or i is the
// last word. If maxWords accumulate without a terminator, the sentence is
// force-broken: the nearest comma-terminated word between the current word
// and the sentence start becomes the break point, so the split lands on a
// natural sub-clause boundary; with no comma in range the break falls at the
// current word. Groups are contiguous and exhaustive over [0, len(words)-1].
// Empty input yields nil.
func SegmentSentences(words []TimedWord, maxWords int) []SentenceGroup {
	if len(words) == 0 {
		return nil
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxSentenceWords
	}

	var groups []SentenceGroup
	start := 0

	for i := 0; i < len(words); i++ {
		atLast := i == len(words)-1
		runLength := i - start + 1

		switch {
		case endsWithAny(words[i].Text, sentenceTerminators) || atLast:
			groups = append(groups, newSentenceGroup(words, start, i))
			start = i + 1

		case runLength >= maxWords:
			breakAt := i
			// Scan backward for a comma so the forced split lands on a
			// sub-clause boundary. A comma right at the sentence start can
			// produce a near-empty first group; that matches the narration
			// data and is intentionally not special-cased.
			for j := i; j >= start; j-- {
				if endsWithAny(words[j].Text, clauseCommas) {
					breakAt = j
					break
				}
			}
			groups = append(groups, newSentenceGroup(words, start, breakAt))
			start = breakAt + 1
			i = breakAt
		}
	}

	return groups
}

// newSentenceGroup builds a group covering words[start..end] inclusive.
func newSentenceGroup(words []TimedWord, start, end int) SentenceGroup {
	texts := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		texts = append(texts, words[i].Text)
	}
	return SentenceGroup{
		StartWordIndex: start,
		EndWordIndex:   end,
		Text:           strings.Join(texts, " "),
	}
}

func endsWithAny(text string, suffixes []string) bool {
	trimmed := strings.TrimSpace(text)
	for _, suffix := range suffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}
