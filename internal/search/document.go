// Package search provides full-text search over reading section texts using
// Bleve, and the explicit highlight-request message handed to the reading
// screen when the user jumps to a search match.
package search

import (
	"fmt"

	"github.com/shlokapp/narrate-server/internal/domain"
)

// Document is one indexed section of a reading. Sections are indexed
// individually so a hit can point at the exact section to highlight.
type Document struct {
	ID           string `json:"id"` // readingKey:language:sectionIndex
	ReadingKey   string `json:"reading_key"`
	Language     string `json:"language"`
	Category     string `json:"category"`
	SectionIndex int    `json:"section_index"`
	Text         string `json:"text"`
}

// DocumentsForReading flattens a reading into per-section documents.
// Sections with no text are skipped.
func DocumentsForReading(reading *domain.AlignedReading) []Document {
	docs := make([]Document, 0, len(reading.Sections))
	for i := range reading.Sections {
		section := &reading.Sections[i]
		if section.Text == "" {
			continue
		}
		docs = append(docs, Document{
			ID:           fmt.Sprintf("%s:%s:%d", reading.ReadingKey, reading.Language, i),
			ReadingKey:   reading.ReadingKey,
			Language:     reading.Language,
			Category:     string(domain.CategoryForKind(section.Kind)),
			SectionIndex: i,
			Text:         section.Text,
		})
	}
	return docs
}

// Hit is a single search result.
type Hit struct {
	ReadingKey   string  `json:"reading_key"`
	Language     string  `json:"language"`
	Category     string  `json:"category"`
	SectionIndex int     `json:"section_index"`
	Score        float64 `json:"score"`
}

// HighlightRequest is the explicit jump-to-match message passed from the
// search screen to the reading screen at navigation time. The sequence
// number lets the receiver distinguish a fresh request from a stale one,
// replacing ambient shared state with an owned, short-lived value.
type HighlightRequest struct {
	Seq          int64  `json:"seq"`
	ReadingKey   string `json:"reading_key"`
	Language     string `json:"language"`
	SectionIndex int    `json:"section_index"`
	WordIndex    int    `json:"word_index"`
}
