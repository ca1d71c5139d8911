package statute

import (
	"fmt"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Validation report
// ─────────────────────────────────────────────────────────────────────────────

// StructureStats are the supporting counts behind the structure check.
// Original counts come from naive header-pattern scans of the source text.
type StructureStats struct {
	OriginalChapters int `json:"original_chapters"`
	ParsedChapters   int `json:"parsed_chapters"`
	OriginalSections int `json:"original_sections"`
	ParsedSections   int `json:"parsed_sections"`
}

// PreservationStats are the supporting counts behind the content check.
type PreservationStats struct {
	OriginalWordCount int      `json:"original_word_count"`
	ParsedWordCount   int      `json:"parsed_word_count"`
	PreservationRatio float64  `json:"preservation_ratio"`
	MissingKeywords   []string `json:"missing_keywords"`
}

// EntityStats are the supporting counts behind the entity check.
type EntityStats struct {
	ExpectedAuthorities  []string `json:"expected_authorities"`
	ExtractedAuthorities int      `json:"extracted_authorities"`
	ExtractedPenalties   int      `json:"extracted_penalties"`
	ExtractedDefinitions int      `json:"extracted_definitions"`
}

// CrossReferenceStats are the supporting counts behind the reference check.
type CrossReferenceStats struct {
	OriginalCrossReferences  int `json:"original_cross_references"`
	ExtractedCrossReferences int `json:"extracted_cross_references"`
	InvalidReferences        int `json:"invalid_references"`
}

// ValidationStats aggregates the outcome of the four validation checks.
// OverallScore is the fraction of checks passed (0.0 to 1.0).
type ValidationStats struct {
	TotalErrors            int     `json:"total_errors"`
	TotalWarnings          int     `json:"total_warnings"`
	StructureValidity      bool    `json:"structure_validity"`
	ContentPreservation    bool    `json:"content_preservation"`
	EntityExtraction       bool    `json:"entity_extraction"`
	CrossReferenceAccuracy bool    `json:"cross_reference_accuracy"`
	OverallScore           float64 `json:"overall_score"`

	Structure       StructureStats      `json:"structure"`
	Preservation    PreservationStats   `json:"preservation"`
	Entities        EntityStats         `json:"entities"`
	CrossReferences CrossReferenceStats `json:"cross_references"`
}

// ValidationReport is the advisory result of validating a parsed act against
// its original text. It is attached to Act.Metadata and surfaced to
// operators; it never blocks assembly or ingestion. IsValid means zero
// errors across all checks; warnings alone leave it true.
type ValidationReport struct {
	IsValid  bool            `json:"is_valid"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
	Stats    ValidationStats `json:"stats"`
}

// Render formats the report for terminal display.
func (r *ValidationReport) Render() string {
	var b strings.Builder

	b.WriteString("=== PARSING VALIDATION REPORT ===\n")
	status := "FAIL"
	if r.IsValid {
		status = "PASS"
	}
	fmt.Fprintf(&b, "Overall Status: %s\n", status)
	fmt.Fprintf(&b, "Validation Score: %.1f%%\n\n", r.Stats.OverallScore*100)

	if len(r.Errors) > 0 {
		b.WriteString("ERRORS:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  ✗ %s\n", e)
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("WARNINGS:\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "  ! %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("STATISTICS:\n")
	fmt.Fprintf(&b, "  Structure Validity: %s\n", mark(r.Stats.StructureValidity))
	fmt.Fprintf(&b, "  Content Preservation: %s\n", mark(r.Stats.ContentPreservation))
	fmt.Fprintf(&b, "  Entity Extraction: %s\n", mark(r.Stats.EntityExtraction))
	fmt.Fprintf(&b, "  Cross-Reference Accuracy: %s\n", mark(r.Stats.CrossReferenceAccuracy))

	return b.String()
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
