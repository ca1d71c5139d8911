package bareact

import (
	"strings"
	"testing"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

// =========================================================================
// Line classifiers
// =========================================================================

func TestIsChapterHeader(t *testing.T) {
	tests := []struct {
		line   string
		marker string
		ok     bool
	}{
		{"CHAPTER I", "I", true},
		{"CHAPTER IV", "IV", true},
		{"CHAPTER 7", "7", true},
		{"  CHAPTER II  ", "II", true},
		{"Chapter iii", "iii", true}, // case-insensitive, marker as written
		{"CHAPTER I PRELIMINARY", "", false},
		{"CHAPTERS I", "", false},
		{"THE FIRST SCHEDULE", "", false},
		{"", "", false},
		{"CHAPTER", "", false},
	}

	for _, tt := range tests {
		marker, ok := isChapterHeader(tt.line)
		if ok != tt.ok {
			t.Errorf("isChapterHeader(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && marker != tt.marker {
			t.Errorf("isChapterHeader(%q) marker = %q, want %q", tt.line, marker, tt.marker)
		}
	}
}

func TestIsSectionHeader(t *testing.T) {
	tests := []struct {
		line   string
		number string
		title  string
		ok     bool
	}{
		{"1. Short title, extent and commencement.", "1", "Short title, extent and commencement", true},
		{"25A. Power to give directions", "25A", "Power to give directions", true},
		{"47. Offences by companies.", "47", "Offences by companies", true},
		{"2. Definitions.", "2", "Definitions", true},
		// Lowercase after the number is body text, not a heading.
		{"1. this act may be called", "", "", false},
		// Amendment footnotes that mimic the header shape must be rejected.
		{"1. Ins. by Act 14 of 1947.", "", "", false},
		{"2. Subs. by Act 44 of 1978, for Boards.", "", "", false},
		{"(a) something lettered", "", "", false},
		{"Section 5 applies here", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		number, title, ok := isSectionHeader(tt.line)
		if ok != tt.ok {
			t.Errorf("isSectionHeader(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if number != tt.number || title != tt.title {
			t.Errorf("isSectionHeader(%q) = (%q, %q), want (%q, %q)",
				tt.line, number, title, tt.number, tt.title)
		}
	}
}

func TestIsFootnote(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1. Ins. by Act 14 of 1947", true},
		{"2. Subs. by s. 3 of the Amendment Act", true},
		{"3. The words omitted by Act 5 of 1990", true},
		{"4. w.e.f. 1-4-1976", true},
		{"14 of 1947", true},
		// Low section number with an amendment keyword anywhere in the line.
		{"5. Certain provisions ins. by the legislature", true},
		{"2. Clause added by notification", true},
		// Genuine headers and body text.
		{"1. Short title, extent and commencement.", false},
		{"6. Penalty for contravention", false},
		{"42. Power to make rules", false},
		{"This section was inspected carefully", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isFootnote(tt.line); got != tt.want {
			t.Errorf("isFootnote(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsChapterTitleLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"PRELIMINARY", true},
		{"THE CENTRAL BOARD", true},
		{"PENALTIES AND PROCEDURE", true},
		{"This is an ordinary sentence of body text.", false},
		{"ABRA", false},  // below minimum length
		{"12345", false}, // no letters at all
		{"Mixed Case Title Line", false},
	}

	for _, tt := range tests {
		if got := isChapterTitleLine(tt.line); got != tt.want {
			t.Errorf("isChapterTitleLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

// =========================================================================
// Normalization and cleanup
// =========================================================================

func TestNormalizeText_LineEndings(t *testing.T) {
	got := normalizeText("one\r\ntwo\rthree\nfour")
	want := "one\ntwo\nthree\nfour"
	if got != want {
		t.Errorf("normalizeText = %q, want %q", got, want)
	}
}

func TestNormalizeText_NFC(t *testing.T) {
	// "e" + combining acute accent composes to a single rune.
	got := normalizeText("décret")
	if !strings.Contains(got, "é") {
		t.Errorf("expected composed form in %q", got)
	}
}

func TestCleanContent_CollapsesBlankRunsAndSpaces(t *testing.T) {
	in := "first   paragraph\n\n\n\nsecond    paragraph"
	got := cleanContent(in, 0)
	want := "first paragraph\n\nsecond paragraph"
	if got != want {
		t.Errorf("cleanContent = %q, want %q", got, want)
	}
}

func TestCleanContent_TrimsAndCaps(t *testing.T) {
	in := "  " + strings.Repeat("a", statute.MaxSectionContentLength+100) + "  "
	got := cleanContent(in, statute.MaxSectionContentLength)
	if len(got) != statute.MaxSectionContentLength {
		t.Errorf("expected content capped at %d, got %d", statute.MaxSectionContentLength, len(got))
	}
}

func TestCleanContent_Empty(t *testing.T) {
	if got := cleanContent("", 100); got != "" {
		t.Errorf("cleanContent(\"\") = %q, want empty", got)
	}
}
