package bareact

import (
	"regexp"
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

// ---------------------------------------------------------------------------
// Section decomposition
// ---------------------------------------------------------------------------

// Marker patterns for the three nesting conventions of statutory drafting:
// "(1)" subsections, "(a)" clauses, "(i)" sub-clauses. Sub-clause markers
// are a subset of clause markers; disambiguation comes from nesting, not
// from the pattern.
var (
	reSubsectionMarker = regexp.MustCompile(`\((\d+)\)\s+`)
	reClauseMarker     = regexp.MustCompile(`\(([a-z]+)\)\s+`)
	reSubClauseMarker  = regexp.MustCompile(`\(([ivx]+)\)\s+`)
)

// markedSegment is one labelled span between consecutive markers.
type markedSegment struct {
	label string
	body  string
}

// sliceByMarker finds every match of the marker pattern and returns the text
// between each marker and the next (or end of text for the last), trimmed.
func sliceByMarker(re *regexp.Regexp, text string) []markedSegment {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	segs := make([]markedSegment, 0, len(locs))
	for k, loc := range locs {
		end := len(text)
		if k+1 < len(locs) {
			end = locs[k+1][0]
		}
		segs = append(segs, markedSegment{
			label: text[loc[2]:loc[3]],
			body:  strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return segs
}

// SectionDecomposer splits a section body into its numbered subsections,
// lettered clauses, and Roman-numbered sub-clauses. A level that is absent
// simply yields an empty list; sections with no internal numbering at all
// are common and not an error.
type SectionDecomposer struct{}

// NewSectionDecomposer constructs a SectionDecomposer.
func NewSectionDecomposer() *SectionDecomposer {
	return &SectionDecomposer{}
}

// Decompose parses the nesting hierarchy out of content. Each subsection's
// content retains its clause text in full; clauses are additionally broken
// out as children, and likewise for sub-clauses within clauses.
func (d *SectionDecomposer) Decompose(content string) []statute.Subsection {
	subsections := []statute.Subsection{}
	for _, seg := range sliceByMarker(reSubsectionMarker, content) {
		sub := statute.Subsection{
			Number:  seg.label,
			Content: seg.body,
			Clauses: []statute.Clause{},
		}
		for _, cseg := range sliceByMarker(reClauseMarker, seg.body) {
			clause := statute.Clause{
				Letter:     cseg.label,
				Content:    cseg.body,
				SubClauses: []statute.SubClause{},
			}
			for _, sseg := range sliceByMarker(reSubClauseMarker, cseg.body) {
				clause.SubClauses = append(clause.SubClauses, statute.SubClause{
					Number:  sseg.label,
					Content: sseg.body,
				})
			}
			sub.Clauses = append(sub.Clauses, clause)
		}
		subsections = append(subsections, sub)
	}
	return subsections
}
