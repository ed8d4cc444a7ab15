package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shlokapp/narrate-server/internal/errors"
)

// ReadingKey derives the deterministic artifact key for a chapter and verse
// range, e.g. chapter 1 verses "1-3" -> "Ch01_Verses_01-03". A single verse
// maps to equal bounds: chapter 2 verse "5" -> "Ch02_Verses_05-05".
//
// A malformed verse range is an authoring defect of the reading data, so it
// fails loudly with a validation error rather than guessing a key.
func ReadingKey(chapter int, verseRange string) (string, error) {
	if chapter <= 0 {
		return "", errors.Validationf("invalid chapter %d: must be positive", chapter)
	}

	verseRange = strings.TrimSpace(verseRange)
	if verseRange == "" {
		return "", errors.Validation("verse range is empty")
	}

	first, last, err := parseVerseRange(verseRange)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Ch%02d_Verses_%02d-%02d", chapter, first, last), nil
}

// parseVerseRange parses "a-b" or a single verse "a" into inclusive bounds.
func parseVerseRange(verseRange string) (first, last int, err error) {
	parts := strings.SplitN(verseRange, "-", 2)

	first, err = parseVerseNumber(parts[0], verseRange)
	if err != nil {
		return 0, 0, err
	}

	last = first
	if len(parts) == 2 {
		last, err = parseVerseNumber(parts[1], verseRange)
		if err != nil {
			return 0, 0, err
		}
	}

	if last < first {
		return 0, 0, errors.Validationf("invalid verse range %q: end precedes start", verseRange)
	}
	return first, last, nil
}

func parseVerseNumber(raw, verseRange string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, errors.Validationf("invalid verse range %q: %q is not a positive verse number", verseRange, raw)
	}
	return n, nil
}
