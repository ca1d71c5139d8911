// Package bareact implements the structural parsing pipeline for Indian bare
// acts: boundary location, the chapter/section state machine, hierarchical
// decomposition, entity extraction, cross-reference capture, schedule
// extraction, and the four-check document validator. The pipeline is a pure
// text transformation; acquisition (pdftotext/OCR) and persistence live in
// the infrastructure layer.
package bareact

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

// ---------------------------------------------------------------------------
// Line classification patterns
// ---------------------------------------------------------------------------

var (
	// reChapterHeader matches a line that is nothing but a chapter marker:
	//   "CHAPTER I", "CHAPTER IV", "CHAPTER 7"
	reChapterHeader = regexp.MustCompile(`(?i)^CHAPTER\s+([IVX]+|\d+)\s*$`)

	// reSectionHeader matches a numbered section heading with a capitalized
	// title, optionally ending in a period:
	//   "1. Short title, extent and commencement."
	//   "25A. Power to give directions"
	reSectionHeader = regexp.MustCompile(`^(\d+[A-Z]?)\.\s+([A-Z][^\n]+?)\.?\s*$`)

	// reFootnoteAmendment matches amendment citations that mimic section
	// headers, applied to the lowercased line:
	//   "1. ins. by act 14 of 1947"  "2. subs. by s. 3"
	reFootnoteAmendment = regexp.MustCompile(`^\d+\.\s*(?:ins|subs|omitted|added|the words|w\.e\.f)`)

	// reFootnoteActRef matches bare act references like "14 of 1947".
	reFootnoteActRef = regexp.MustCompile(`^\d+\s+of\s+\d{4}`)

	// Content cleanup: collapse runs of blank lines and runs of spaces.
	reBlankRuns = regexp.MustCompile(`\n\s*\n\s*\n+`)
	reSpaceRuns = regexp.MustCompile(` +`)
)

// amendmentKeywords backstops the footnote check for lines numbered 1-5 that
// carry amendment markers later in the line rather than at the start.
var amendmentKeywords = []string{"ins.", "subs.", "omitted", "added"}

var lowNumberPrefixes = []string{"1.", "2.", "3.", "4.", "5."}

// ---------------------------------------------------------------------------
// Text normalization
// ---------------------------------------------------------------------------

// normalizeText canonicalizes line endings and applies Unicode NFC so that
// pdftotext and OCR output compare equal when they differ only in composed
// form.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFC.String(text)
}

// splitLines splits normalized text into logical lines.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// ---------------------------------------------------------------------------
// Line classifiers
// ---------------------------------------------------------------------------

// isChapterHeader reports whether the line is a chapter header and returns
// the marker ("I", "IV", "7") when it is.
func isChapterHeader(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	m := reChapterHeader.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isSectionHeader reports whether the line is a section header and returns
// its number and title. Lines that classify as footnotes are rejected even
// when they match the header shape: "1. Ins. by Act 14 of 1947." must never
// open a section.
func isSectionHeader(line string) (number, title string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}
	m := reSectionHeader.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	number, title = m[1], strings.TrimSpace(m[2])
	if isFootnote(number + ". " + title) {
		return "", "", false
	}
	return number, title, true
}

// isFootnote classifies amendment/citation annotation lines. Three rules,
// applied to the lowercased line: a numbered amendment marker, a bare
// "<num> of <year>" act reference, or a low section number combined with an
// amendment keyword anywhere in the line.
func isFootnote(line string) bool {
	if line == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(line))

	if reFootnoteAmendment.MatchString(lower) {
		return true
	}
	if reFootnoteActRef.MatchString(lower) {
		return true
	}
	for _, prefix := range lowNumberPrefixes {
		if strings.HasPrefix(lower, prefix) {
			for _, kw := range amendmentKeywords {
				if strings.Contains(lower, kw) {
					return true
				}
			}
			break
		}
	}
	return false
}

// isChapterTitleLine reports whether the line looks like a chapter title:
// at least 5 characters, with uppercase letters outnumbering 60% of all
// letters. Chapter titles in bare acts are set in caps ("PRELIMINARY",
// "THE CENTRAL BOARD").
func isChapterTitleLine(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 5 {
		return false
	}

	var upper, alpha int
	for _, r := range line {
		if unicode.IsLetter(r) {
			alpha++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if alpha == 0 {
		return false
	}
	return float64(upper) > float64(alpha)*0.6
}

// ---------------------------------------------------------------------------
// Content cleanup
// ---------------------------------------------------------------------------

// cleanContent collapses repeated blank lines to a single paragraph break,
// collapses runs of spaces, trims, and caps the result at the section
// content bound.
func cleanContent(content string, maxLen int) string {
	if content == "" {
		return ""
	}
	content = reBlankRuns.ReplaceAllString(content, "\n\n")
	content = reSpaceRuns.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	if maxLen > 0 {
		content = statute.Truncate(content, maxLen)
	}
	return content
}
