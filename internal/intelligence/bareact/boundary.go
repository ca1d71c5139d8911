package bareact

import "strings"

// ---------------------------------------------------------------------------
// Content boundary location
// ---------------------------------------------------------------------------

// tocLookbackLines is how far the fallback rewinds before the first real
// section header so the preamble scan still sees enacting text.
const tocLookbackLines = 5

// BoundaryLocator finds the line index where enacted content begins,
// skipping the table of contents that bare act PDFs open with. The heuristic
// is deliberately isolated behind this interface: front matter layouts vary
// by publisher and the strategy is the most likely part of the pipeline to
// be swapped out.
type BoundaryLocator interface {
	// ContentStart returns the index into lines at which structural parsing
	// should begin. It never returns an index out of range; when no boundary
	// can be found it returns 0 and the whole document is parsed.
	ContentStart(lines []string) int
}

// chapterAnchorLocator implements the duplicate-heading heuristic: the table
// of contents repeats every chapter header once, so the second occurrence of
// a chapter header marks the start of the real text.
type chapterAnchorLocator struct{}

// NewBoundaryLocator returns the default chapter-anchored locator.
func NewBoundaryLocator() BoundaryLocator {
	return chapterAnchorLocator{}
}

func (chapterAnchorLocator) ContentStart(lines []string) int {
	var chapterAt []int
	for i, line := range lines {
		if _, ok := isChapterHeader(line); ok {
			chapterAt = append(chapterAt, i)
		}
	}
	// Two or more chapter headers: the first is the TOC copy, the second is
	// the real one. Exactly one: there was no TOC copy, start there.
	if len(chapterAt) >= 2 {
		return chapterAt[1]
	}
	if len(chapterAt) == 1 {
		return chapterAt[0]
	}

	// No chapters at all (short acts). Anchor on the first section header
	// that is followed by a non-blank line, rewound a few lines so the
	// preamble is not cut off. TOC entries list headers back to back with
	// nothing beneath them, which is what the follow-line check rejects.
	for i, line := range lines {
		if _, _, ok := isSectionHeader(line); ok {
			if i+2 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
				if i < tocLookbackLines {
					return 0
				}
				return i - tocLookbackLines
			}
		}
	}
	return 0
}
