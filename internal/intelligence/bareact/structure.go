package bareact

import (
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

// ---------------------------------------------------------------------------
// Parse state machine
// ---------------------------------------------------------------------------

// parseState is the scanner's position in the document hierarchy.
type parseState int

const (
	stateNone parseState = iota
	stateInPreamble
	stateInChapter
	stateInSection
)

// chapterTitleLookahead bounds the title scan after a chapter header line
// (exclusive, so up to four lines are inspected).
const chapterTitleLookahead = 5

// parseContext is the single mutable record threaded through the line scan.
type parseContext struct {
	state      parseState
	chapterIdx int                 // index into act.Chapters, -1 outside any chapter
	section    *statute.Section    // open section, nil unless state == stateInSection
	buf        []string            // raw content lines of the open section
	seen       map[string]struct{} // section numbers already emitted
}

func newParseContext() *parseContext {
	return &parseContext{
		state:      stateNone,
		chapterIdx: -1,
		seen:       make(map[string]struct{}),
	}
}

// ---------------------------------------------------------------------------
// StructureParser
// ---------------------------------------------------------------------------

// StructureParser recovers chapters and sections from preprocessed lines.
// It consumes one line at a time from the boundary position onward, opening
// chapters and sections as their header lines appear and accumulating body
// lines into the open section.
type StructureParser struct {
	logger logging.Logger
}

// NewStructureParser constructs a StructureParser. A nil logger is replaced
// with a no-op implementation.
func NewStructureParser(logger logging.Logger) *StructureParser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &StructureParser{logger: logger}
}

// Run scans lines[start:] and appends the recovered chapters and sections to
// act in document order. Section numbers already seen are treated as TOC
// echoes and skipped rather than reopened, so numbers stay unique within the
// act.
func (p *StructureParser) Run(lines []string, start int, act *statute.Act) {
	ctx := newParseContext()

	for i := start; i < len(lines); i++ {
		line := lines[i]

		if strings.TrimSpace(line) == "" {
			// Blank lines separate paragraphs inside a section body but
			// never trigger header detection.
			if ctx.state == stateInSection {
				ctx.buf = append(ctx.buf, "")
			}
			continue
		}

		if marker, ok := isChapterHeader(line); ok {
			p.flush(ctx, act)
			ch := statute.NewChapter(marker, chapterTitleAt(lines, i))
			act.Chapters = append(act.Chapters, *ch)
			ctx.chapterIdx = len(act.Chapters) - 1
			ctx.state = stateInChapter
			p.logger.Debug("chapter opened",
				logging.String("number", ch.Number),
				logging.String("title", ch.Title))
			continue
		}

		if num, title, ok := isSectionHeader(line); ok {
			if _, dup := ctx.seen[num]; dup {
				continue
			}
			p.flush(ctx, act)
			ctx.seen[num] = struct{}{}

			var chNum, chTitle string
			if ctx.chapterIdx >= 0 {
				ch := &act.Chapters[ctx.chapterIdx]
				chNum, chTitle = ch.Number, ch.Title
				ch.AddSectionNumber(num)
			}
			ctx.section = statute.NewSection(num, title, chNum, chTitle)
			ctx.state = stateInSection
			p.logger.Debug("section opened",
				logging.String("number", num),
				logging.String("title", title))
			continue
		}

		if ctx.state == stateInSection && !isFootnote(line) {
			ctx.buf = append(ctx.buf, line)
		}
	}

	p.flush(ctx, act)
}

// flush closes the open section: its buffered lines are joined, cleaned,
// capped, flagged for provisos/explanations, and appended to the act. The
// same treatment applies on every flush path so content handling never
// depends on which header ended the section.
func (p *StructureParser) flush(ctx *parseContext, act *statute.Act) {
	if ctx.section == nil {
		return
	}
	ctx.section.Content = cleanContent(strings.Join(ctx.buf, "\n"), statute.MaxSectionContentLength)
	ctx.section.DeriveFlags()
	act.Sections = append(act.Sections, *ctx.section)
	ctx.section = nil
	ctx.buf = nil
}

// chapterTitleAt scans the lines after a chapter header at index i for the
// title line. Titles are set in caps on their own line; the scan stops at
// the first section header or another chapter header.
func chapterTitleAt(lines []string, i int) string {
	for j := i + 1; j < i+chapterTitleLookahead && j < len(lines); j++ {
		line := strings.TrimSpace(lines[j])
		if line == "" {
			continue
		}
		if _, _, ok := isSectionHeader(line); ok {
			break
		}
		if isChapterTitleLine(line) {
			return line
		}
		if _, ok := isChapterHeader(line); ok {
			break
		}
	}
	return ""
}
