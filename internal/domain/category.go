package domain

// Category is the coarse content grouping shown as navigation chips in the
// reading UI. Display strings come from the localization layer, never here.
type Category string

// Display categories, one per section kind.
const (
	CategoryShloka      Category = "shloka"
	CategoryTranslation Category = "translation"
	CategoryCommentary  Category = "commentary"
	CategoryReflection  Category = "reflection"
)

// CategoryForKind maps a section kind to its display category.
// The mapping is total over the four kinds.
func CategoryForKind(kind SectionKind) Category {
	switch kind {
	case KindVerse:
		return CategoryShloka
	case KindVerseTranslation:
		return CategoryTranslation
	case KindCommentary:
		return CategoryCommentary
	default:
		return CategoryReflection
	}
}

// CategoryStart is a category together with the narration time of its first
// section, used to jump playback to the start of a category.
type CategoryStart struct {
	Category     Category `json:"category"`
	StartSeconds float64  `json:"start_seconds"`
	SectionIndex int      `json:"section_index"`
}

// CategoryStarts returns, for each category present in the reading, the start
// time of the first section of that kind in narration order.
func CategoryStarts(sections []Section) []CategoryStart {
	seen := make(map[Category]bool, 4)
	var starts []CategoryStart

	for i := range sections {
		category := CategoryForKind(sections[i].Kind)
		if seen[category] {
			continue
		}
		seen[category] = true
		starts = append(starts, CategoryStart{
			Category:     category,
			StartSeconds: sections[i].StartSeconds(),
			SectionIndex: i,
		})
	}

	return starts
}
