package domain

// LocateSection returns the index of the section whose span contains t using
// the half-open rule start <= t < end, or -1 if no section contains t.
// Callers distinguish gaps from not-started/finished via InGap.
func LocateSection(sections []Section, t float64) int {
	for i := range sections {
		if sections[i].Contains(t) {
			return i
		}
	}
	return -1
}

// LocateWord returns the index of the word whose half-open span contains t.
// Sampling runs at tens of hertz against sections that may hold hundreds of
// words, so lookup is a binary search over the sorted, non-overlapping spans.
//
// When t falls strictly between two words, the word preceding the gap wins;
// t before the first word resolves to the first word, and t at or past the
// last word's end resolves to the last word. Empty input returns -1.
func LocateWord(words []TimedWord, t float64) int {
	if len(words) == 0 {
		return -1
	}

	lo, hi := 0, len(words)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case t < words[mid].StartSeconds:
			hi = mid - 1
		case t >= words[mid].EndSeconds:
			lo = mid + 1
		default:
			return mid
		}
	}

	// Search exhausted without an exact hit. hi now sits on the word
	// preceding t (or -1 when t is before the first word).
	if hi < 0 {
		return 0
	}
	if hi >= len(words) {
		return len(words) - 1
	}
	return hi
}

// InGap reports whether t lies in a narration pause: at or after the first
// section's start, strictly before the last section's end, yet inside no
// section's span. Times before the reading starts or at/after it ends are
// not gaps; they are the not-started/finished states.
func InGap(sections []Section, t float64) bool {
	if len(sections) == 0 {
		return false
	}

	first := sections[0].StartSeconds()
	last := sections[len(sections)-1].EndSeconds()
	if t < first || t >= last {
		return false
	}

	return LocateSection(sections, t) == -1
}
