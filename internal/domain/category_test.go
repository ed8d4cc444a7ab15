package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryForKind(t *testing.T) {
	tests := []struct {
		kind SectionKind
		want Category
	}{
		{kind: KindVerse, want: CategoryShloka},
		{kind: KindVerseTranslation, want: CategoryTranslation},
		{kind: KindCommentary, want: CategoryCommentary},
		{kind: KindReflection, want: CategoryReflection},
		{kind: SectionKind("unknown"), want: CategoryReflection},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryForKind(tt.kind), "kind %s", tt.kind)
	}
}

func TestCategoryStarts(t *testing.T) {
	// Two verses with interleaved translations; the first of each kind wins.
	sections := []Section{
		{Kind: KindVerse, Words: timedWords(0, 2, 1)},
		{Kind: KindVerseTranslation, Words: timedWords(3, 2, 1)},
		{Kind: KindVerse, Words: timedWords(6, 2, 1)},
		{Kind: KindVerseTranslation, Words: timedWords(9, 2, 1)},
		{Kind: KindCommentary, Words: timedWords(12, 3, 1)},
		{Kind: KindReflection, Words: timedWords(16, 2, 1)},
	}

	starts := CategoryStarts(sections)
	require.Len(t, starts, 4)

	assert.Equal(t, CategoryStart{Category: CategoryShloka, StartSeconds: 0, SectionIndex: 0}, starts[0])
	assert.Equal(t, CategoryStart{Category: CategoryTranslation, StartSeconds: 3, SectionIndex: 1}, starts[1])
	assert.Equal(t, CategoryStart{Category: CategoryCommentary, StartSeconds: 12, SectionIndex: 4}, starts[2])
	assert.Equal(t, CategoryStart{Category: CategoryReflection, StartSeconds: 16, SectionIndex: 5}, starts[3])
}

func TestCategoryStarts_PartialReading(t *testing.T) {
	sections := []Section{
		{Kind: KindVerse, Words: timedWords(0, 2, 1)},
		{Kind: KindCommentary, Words: timedWords(3, 2, 1)},
	}

	starts := CategoryStarts(sections)
	require.Len(t, starts, 2)
	assert.Equal(t, CategoryShloka, starts[0].Category)
	assert.Equal(t, CategoryCommentary, starts[1].Category)
}

func TestCategoryStarts_Empty(t *testing.T) {
	assert.Empty(t, CategoryStarts(nil))
}
