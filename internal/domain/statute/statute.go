// Package statute implements the Statute bounded context for the
// BareAct-Intelligence platform: the parsed representation of an Indian bare
// act (chapters, sections, schedules, extracted entities), its derived
// identifiers, and the persistence contracts implemented by the
// infrastructure layer. Parsing itself lives in
// internal/intelligence/bareact; this package only enforces the structural
// invariants of an already parsed document.
package statute

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/nyayatech/BareAct-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Document constants and bounded lengths
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DocumentTypeBareAct tags every parsed bare act; downstream graph nodes
	// carry it as statute_type.
	DocumentTypeBareAct = "bare_act"

	// DefaultActName is assigned when no name could be recovered from the
	// source text or the filename.
	DefaultActName = "Unknown Act"

	// MaxPreambleLength bounds the stored preamble.
	MaxPreambleLength = 2000

	// MaxSectionContentLength bounds each section body.
	MaxSectionContentLength = 5000

	// MaxScheduleContentLength bounds each schedule body.
	MaxScheduleContentLength = 3000

	// ProvisoMarker and ExplanationMarker are the literal phrases whose
	// presence in a section body sets the corresponding derived flag.
	// Matching is case-sensitive: Indian bare acts capitalize both.
	ProvisoMarker     = "Provided that"
	ExplanationMarker = "Explanation"
)

// Truncate returns s cut to at most max runes. Slicing by runes rather than
// bytes keeps multi-byte characters (Devanagari passages, rupee signs) intact
// at the cut point.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// ─────────────────────────────────────────────────────────────────────────────
// Structural value objects
// ─────────────────────────────────────────────────────────────────────────────

// SubClause is the deepest structural level: "(i)", "(ii)", … inside a clause.
type SubClause struct {
	Number  string `json:"number"`
	Content string `json:"content"`
}

// Clause is a lettered block "(a)", "(b)", … inside a subsection.
type Clause struct {
	Letter     string      `json:"letter"`
	Content    string      `json:"content"`
	SubClauses []SubClause `json:"sub_clauses"`
}

// Subsection is a numbered block "(1)", "(2)", … inside a section body.
type Subsection struct {
	Number  string   `json:"number"`
	Content string   `json:"content"`
	Clauses []Clause `json:"clauses"`
}

// Chapter groups sections under a Roman, numeric, or lettered marker. It
// owns its sections by number reference only; the Section records themselves
// live on the Act so that acts without any chapter structure parse the same
// way as chaptered ones.
type Chapter struct {
	Number         string   `json:"number"`
	Title          string   `json:"title"`
	SectionNumbers []string `json:"section_numbers"`
}

// NewChapter creates a Chapter with normalized fields and an empty section
// list.
func NewChapter(number, title string) *Chapter {
	return &Chapter{
		Number:         strings.TrimSpace(number),
		Title:          strings.TrimSpace(title),
		SectionNumbers: make([]string, 0),
	}
}

// AddSectionNumber registers a section under this chapter. A number already
// present is not added twice, so a section belongs to at most one position
// in the chapter's list.
func (c *Chapter) AddSectionNumber(number string) {
	for _, n := range c.SectionNumbers {
		if n == number {
			return
		}
	}
	c.SectionNumbers = append(c.SectionNumbers, number)
}

// Section is one numbered provision of the act. Number is unique within the
// act: duplicate headers produced by table-of-contents echoes are suppressed
// at parse time, never stored.
type Section struct {
	Number          string       `json:"number"`
	Title           string       `json:"title"`
	Content         string       `json:"content"`
	ChapterNumber   string       `json:"chapter_number"`
	ChapterTitle    string       `json:"chapter_title"`
	HasProviso      bool         `json:"has_proviso"`
	HasExplanation  bool         `json:"has_explanation"`
	CrossReferences []string     `json:"cross_references"`
	Subsections     []Subsection `json:"subsections"`
}

// NewSection creates a Section bound to the given chapter (both fields may be
// empty for sections outside any chapter), with normalized fields and empty
// collections.
func NewSection(number, title, chapterNumber, chapterTitle string) *Section {
	return &Section{
		Number:          strings.TrimSpace(number),
		Title:           strings.TrimSpace(title),
		ChapterNumber:   chapterNumber,
		ChapterTitle:    chapterTitle,
		CrossReferences: make([]string, 0),
		Subsections:     make([]Subsection, 0),
	}
}

// DeriveFlags recomputes HasProviso and HasExplanation from the current
// content. Call after the content buffer is final.
func (s *Section) DeriveFlags() {
	s.HasProviso = strings.Contains(s.Content, ProvisoMarker)
	s.HasExplanation = strings.Contains(s.Content, ExplanationMarker)
}

// Schedule is an annexed table or list outside the chapter/section hierarchy.
// Number carries the normalized label ("1", "I", "A").
type Schedule struct {
	Number  string `json:"number"`
	Content string `json:"content"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Parse metadata
// ─────────────────────────────────────────────────────────────────────────────

// Metadata records provenance for one parse run. Validation is attached by
// the parsing pipeline after the four-check validator has run; it never
// gates assembly.
type Metadata struct {
	SourceFile string            `json:"source_file"`
	TextLength int               `json:"text_length"`
	LineCount  int               `json:"line_count"`
	ParsedAt   time.Time         `json:"parsed_at"`
	Validation *ValidationReport `json:"validation,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Act aggregate root
// ─────────────────────────────────────────────────────────────────────────────

// Act is the aggregate root of the Statute bounded context: the complete
// parsed representation of one bare act. An Act is assembled once by the
// parsing pipeline and is immutable afterwards; re-parsing the same text
// produces a structurally identical instance, which downstream consumers use
// for change detection via ContentHash.
type Act struct {
	Name          string     `json:"name"`
	Year          int        `json:"year"`
	ActNumber     string     `json:"act_number"`
	Preamble      string     `json:"preamble"`
	DocumentType  string     `json:"document_type"`
	TotalChapters int        `json:"total_chapters"`
	TotalSections int        `json:"total_sections"`
	Chapters      []Chapter  `json:"chapters"`
	Sections      []Section  `json:"sections"`
	Schedules     []Schedule `json:"schedules"`

	// Extracted entity passes. Empty slices are elided from the wire form;
	// the structural fields above always serialize.
	Authorities     []Authority      `json:"authorities,omitempty"`
	Penalties       []Penalty        `json:"penalties,omitempty"`
	Definitions     []Definition     `json:"definitions,omitempty"`
	CrossReferences []CrossReference `json:"cross_references,omitempty"`

	Metadata Metadata `json:"metadata"`

	// Domain event collector; never serialized.
	events []common.DomainEvent
}

// NewAct creates an empty Act with all collections initialized, ready for
// the parsing pipeline to populate.
func NewAct() *Act {
	return &Act{
		DocumentType: DocumentTypeBareAct,
		Chapters:     make([]Chapter, 0),
		Sections:     make([]Section, 0),
		Schedules:    make([]Schedule, 0),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Finalization and invariants
// ─────────────────────────────────────────────────────────────────────────────

// Finalize normalizes the assembled document and derives the counted totals.
// Invariants after Finalize:
//   - Name is never empty (falls back to DefaultActName).
//   - Preamble is at most MaxPreambleLength runes.
//   - TotalChapters == len(Chapters) and TotalSections == len(Sections).
//
// A StatuteParsed domain event is recorded. The parsing pipeline calls
// Finalize exactly once, as its last assembly step.
func (a *Act) Finalize() {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		a.Name = DefaultActName
	}
	a.ActNumber = strings.TrimSpace(a.ActNumber)
	a.Preamble = Truncate(strings.TrimSpace(a.Preamble), MaxPreambleLength)
	if a.DocumentType == "" {
		a.DocumentType = DocumentTypeBareAct
	}
	a.TotalChapters = len(a.Chapters)
	a.TotalSections = len(a.Sections)

	a.recordEvent(NewStatuteParsedEvent(a))
}

// Validate performs the fast structural sanity check applied at assembly
// time, returning ok and the combined error+warning messages. The full
// four-check validation against the original text lives in the intelligence
// layer and produces a ValidationReport instead.
func (a *Act) Validate() (bool, []string) {
	var errs, warns []string

	if a.Name == "" || a.Name == DefaultActName {
		warns = append(warns, "Act name could not be determined")
	}
	if a.Year == 0 {
		warns = append(warns, "Act year could not be determined")
	}
	if len(a.Sections) == 0 {
		errs = append(errs, "No sections were extracted")
	}
	if len(a.Sections) < 2 {
		warns = append(warns, fmt.Sprintf("Only %d section(s) found - may be incomplete", len(a.Sections)))
	}

	empty := 0
	for _, s := range a.Sections {
		if strings.TrimSpace(s.Content) == "" {
			empty++
		}
	}
	if empty > 0 && empty*2 > len(a.Sections) {
		warns = append(warns, fmt.Sprintf("%d of %d sections have no content", empty, len(a.Sections)))
	}

	return len(errs) == 0, append(errs, warns...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived identifiers
// ─────────────────────────────────────────────────────────────────────────────

// DocumentID returns the deterministic graph node ID for this act, derived
// from the normalized name and year: "statute_<name>_<year>". Re-parsing the
// same act always yields the same ID, which is what makes graph ingestion
// idempotent.
func (a *Act) DocumentID() string {
	return fmt.Sprintf("statute_%s_%d", sanitizeIDToken(a.Name), a.Year)
}

// FileID returns the deterministic ID under which retrieval chunks for this
// act are grouped: "bare_act_<name>_<year>".
func (a *Act) FileID() string {
	return fmt.Sprintf("bare_act_%s_%d", sanitizeIDToken(a.Name), a.Year)
}

// ContentHash returns a short hex digest over the serialized sections,
// used by the ingest ledger to skip unchanged documents. Only the sections
// contribute: metadata such as the parse timestamp must not perturb the
// hash.
func (a *Act) ContentHash() string {
	raw, err := json.Marshal(a.Sections)
	if err != nil {
		// []Section contains no unmarshalable types; keep the signature clean.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:16]
}

// sanitizeIDToken lowercases the name, drops everything except letters,
// digits, and spaces, then joins words with underscores.
func sanitizeIDToken(name string) string {
	if name == "" {
		name = "unknown"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), " ", "_")
}

// ─────────────────────────────────────────────────────────────────────────────
// Lookup helpers
// ─────────────────────────────────────────────────────────────────────────────

// FindSection returns the section with the given number, or nil.
func (a *Act) FindSection(number string) *Section {
	for i := range a.Sections {
		if a.Sections[i].Number == number {
			return &a.Sections[i]
		}
	}
	return nil
}

// SectionNumbers returns the section numbers in document order.
func (a *Act) SectionNumbers() []string {
	numbers := make([]string, len(a.Sections))
	for i := range a.Sections {
		numbers[i] = a.Sections[i].Number
	}
	return numbers
}

// HasChapterStructure reports whether the act recovered at least one chapter.
// Short acts frequently have none; sections then bind to no chapter.
func (a *Act) HasChapterStructure() bool {
	return len(a.Chapters) > 0
}

// ─────────────────────────────────────────────────────────────────────────────
// Domain event collection
// ─────────────────────────────────────────────────────────────────────────────

// MarkIngested records a StatuteIngested domain event after the graph
// repository has persisted the act. Called by the application layer inside
// the same unit of work that publishes the events.
func (a *Act) MarkIngested(chaptersCreated, sectionsCreated, referencesCreated int) {
	a.recordEvent(NewStatuteIngestedEvent(a, chaptersCreated, sectionsCreated, referencesCreated))
}

// Events returns the domain events accumulated since the last call and
// clears the internal buffer. Callers are responsible for publishing them
// after their unit of work commits.
func (a *Act) Events() []common.DomainEvent {
	evts := a.events
	a.events = nil
	return evts
}

// recordEvent appends a domain event to the internal buffer.
func (a *Act) recordEvent(evt common.DomainEvent) {
	a.events = append(a.events, evt)
}
