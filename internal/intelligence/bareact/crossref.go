package bareact

import (
	"regexp"
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

// ---------------------------------------------------------------------------
// Cross-reference resolution
// ---------------------------------------------------------------------------

// referenceContextWindow is how much surrounding text is kept on each side
// of a reference match.
const referenceContextWindow = 50

// reCrossReference matches in-text mentions of other provisions:
// "section 25", "sub-section (2)", "clause (b)". The target group keeps
// parentheses so sub-section and clause markers survive as written.
var reCrossReference = regexp.MustCompile(`(?i)\b(?:section|sub-section|clause)\s+([A-Z0-9()]+)\b`)

// CrossReferenceResolver captures intra-document references from section
// content. Targets are recorded, not resolved to content; the validator
// checks numeric targets against real section numbers afterwards.
type CrossReferenceResolver struct{}

// NewCrossReferenceResolver constructs a CrossReferenceResolver.
func NewCrossReferenceResolver() *CrossReferenceResolver {
	return &CrossReferenceResolver{}
}

// Resolve scans every section and returns the reference records in document
// order. Each section's own CrossReferences list is filled with the raw
// matched texts as a side effect, so the serialized section carries its
// references inline.
func (r *CrossReferenceResolver) Resolve(sections []statute.Section) []statute.CrossReference {
	refs := []statute.CrossReference{}

	for i := range sections {
		sec := &sections[i]
		content := sec.Content
		for _, loc := range reCrossReference.FindAllStringSubmatchIndex(content, -1) {
			refText := content[loc[0]:loc[1]]
			target := content[loc[2]:loc[3]]

			refs = append(refs, statute.CrossReference{
				SourceSection:   sec.Number,
				SourceChapter:   sec.ChapterNumber,
				ReferenceText:   refText,
				TargetReference: target,
				Context:         contextAround(content, loc[0], loc[1]),
			})
			sec.CrossReferences = append(sec.CrossReferences, refText)
		}
	}
	return refs
}

// contextAround returns a trimmed window of text surrounding [start, end),
// clamped to the content bounds. Runes torn at the window edges are dropped.
func contextAround(content string, start, end int) string {
	lo := start - referenceContextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + referenceContextWindow
	if hi > len(content) {
		hi = len(content)
	}
	return strings.TrimSpace(strings.ToValidUTF8(content[lo:hi], ""))
}
