package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordsFromText splits text on whitespace into words with sequential
// one-second spans; only the text matters to the segmenter.
func wordsFromText(text string) []TimedWord {
	fields := strings.Fields(text)
	words := make([]TimedWord, len(fields))
	for i, f := range fields {
		words[i] = TimedWord{
			Text:         f,
			StartSeconds: float64(i),
			EndSeconds:   float64(i + 1),
		}
	}
	return words
}

func groupIndexes(groups []SentenceGroup) [][2]int {
	out := make([][2]int, len(groups))
	for i, g := range groups {
		out[i] = [2]int{g.StartWordIndex, g.EndWordIndex}
	}
	return out
}

func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     [][2]int
	}{
		{
			name: "terminators split sentences",
			text: "The dawn breaks. Birds sing? Yes! Quiet now.",
			want: [][2]int{{0, 2}, {3, 4}, {5, 5}, {6, 7}},
		},
		{
			name: "devanagari danda terminates",
			text: "धर्मक्षेत्रे कुरुक्षेत्रे। समवेता युयुत्सवः।",
			want: [][2]int{{0, 1}, {2, 3}},
		},
		{
			name: "trailing words without terminator form final sentence",
			text: "an unfinished thought",
			want: [][2]int{{0, 2}},
		},
		{
			name:     "forced break at comma",
			text:     "a b c, d e f g h",
			maxWords: 5,
			want:     [][2]int{{0, 2}, {3, 7}},
		},
		{
			name:     "forced break without comma lands on current word",
			text:     "a b c d e f g",
			maxWords: 4,
			want:     [][2]int{{0, 3}, {4, 6}},
		},
		{
			name: "single terminated word",
			text: "Om.",
			want: [][2]int{{0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentSentences(wordsFromText(tt.text), tt.maxWords)
			assert.Equal(t, tt.want, groupIndexes(got))
		})
	}
}

func TestSegmentSentences_Empty(t *testing.T) {
	assert.Nil(t, SegmentSentences(nil, 0))
}

func TestSegmentSentences_LongRunPrefersCommaBoundary(t *testing.T) {
	// 35 unterminated words with a comma after word 15: the forced break at
	// the 30-word bound scans back to the comma, and the remainder forms the
	// final sentence.
	parts := make([]string, 35)
	for i := range parts {
		parts[i] = "word"
	}
	parts[15] = "word,"

	got := SegmentSentences(wordsFromText(strings.Join(parts, " ")), 30)
	require.Len(t, got, 2)
	assert.Equal(t, [2]int{0, 15}, [2]int{got[0].StartWordIndex, got[0].EndWordIndex})
	assert.Equal(t, [2]int{16, 34}, [2]int{got[1].StartWordIndex, got[1].EndWordIndex})
}

func TestSegmentSentences_NearEmptyFirstGroupAtEarlyComma(t *testing.T) {
	// A comma right after the sentence start is still the preferred forced
	// break point, so the first group can be nearly empty. Known consequence
	// of scanning backward for the nearest sub-clause boundary.
	parts := make([]string, 35)
	for i := range parts {
		parts[i] = "word"
	}
	parts[1] = "word,"

	got := SegmentSentences(wordsFromText(strings.Join(parts, " ")), 30)
	require.NotEmpty(t, got)
	assert.Equal(t, [2]int{0, 1}, [2]int{got[0].StartWordIndex, got[0].EndWordIndex})

	// The remainder stays contiguous and exhaustive through the last word.
	for i := 1; i < len(got); i++ {
		assert.Equal(t, got[i-1].EndWordIndex+1, got[i].StartWordIndex)
	}
	assert.Equal(t, 34, got[len(got)-1].EndWordIndex)
}

func TestSegmentSentences_GroupsAreContiguousAndExhaustive(t *testing.T) {
	text := "one two, three four. five six seven eight nine ten"
	words := wordsFromText(text)
	groups := SegmentSentences(words, 4)
	require.NotEmpty(t, groups)

	assert.Equal(t, 0, groups[0].StartWordIndex)
	assert.Equal(t, len(words)-1, groups[len(groups)-1].EndWordIndex)
	for i := 1; i < len(groups); i++ {
		assert.Equal(t, groups[i-1].EndWordIndex+1, groups[i].StartWordIndex)
	}
}

func TestSegmentSentences_GroupText(t *testing.T) {
	groups := SegmentSentences(wordsFromText("hello bright world. again"), 0)
	require.Len(t, groups, 2)
	assert.Equal(t, "hello bright world.", groups[0].Text)
	assert.Equal(t, "again", groups[1].Text)
}

func TestSegmentSentences_DefaultBound(t *testing.T) {
	// 40 unterminated words with maxWords 0 uses the default bound of 30.
	words := timedWords(0, 40, 1)
	groups := SegmentSentences(words, 0)
	require.Len(t, groups, 2)
	assert.Equal(t, 29, groups[0].EndWordIndex)
	assert.Equal(t, 39, groups[1].EndWordIndex)
}
