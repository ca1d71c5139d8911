package bareact

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

// ---------------------------------------------------------------------------
// Validation thresholds
// ---------------------------------------------------------------------------

const (
	// sectionCountTolerance is the allowed drift between the parsed section
	// count and the naive whole-text count before it becomes an error.
	// Complex numbering ("25A") makes an exact match unrealistic.
	sectionCountTolerance = 2

	// Content preservation ratio bounds: below the error floor the parse
	// lost too much text to trust; between the floors it is degraded but
	// usable.
	preservationErrorFloor = 0.8
	preservationWarnFloor  = 0.9

	// crossRefCoverageFloor is the fraction of naively counted references
	// the extractor must recover before coverage is merely a warning.
	crossRefCoverageFloor = 0.5
)

// ---------------------------------------------------------------------------
// Naive source-text patterns
// ---------------------------------------------------------------------------

// The validator deliberately counts with patterns cruder than the parser's
// own: an independent estimate is only a useful cross-check if it does not
// share the parser's blind spots.
var (
	reNaiveChapterCount = regexp.MustCompile(`(?i)\bCHAPTER\s+(?:[IVX]+|[A-Z]+|\d+)\b`)
	reNaiveSectionCount = regexp.MustCompile(`(?m)^\d+\.\s+`)
)

// expectedAuthorityPatterns are bodies that, when named anywhere in the raw
// text, should have surfaced in entity extraction.
var expectedAuthorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Central\s+(?:Pollution\s+Control\s+)?Board`),
	regexp.MustCompile(`(?i)State\s+(?:Pollution\s+Control\s+)?Board`),
	regexp.MustCompile(`(?i)Central\s+Government`),
	regexp.MustCompile(`(?i)State\s+Government`),
	regexp.MustCompile(`(?i)High\s+Court`),
	regexp.MustCompile(`(?i)Supreme\s+Court`),
}

var naiveCrossRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsection\s+\d+`),
	regexp.MustCompile(`(?i)\bsub-section\s+\(\d+\)`),
	regexp.MustCompile(`(?i)\bclause\s+\([a-z]+\)`),
}

// criticalContentKeywords must survive from source into section content; a
// keyword present in the source but absent from every parsed section means
// a substantive part of the act was dropped.
var criticalContentKeywords = []string{"penalty", "definition", "authority", "board", "power"}

// ---------------------------------------------------------------------------
// Validator
// ---------------------------------------------------------------------------

// Validator scores a parsed act against its original text. The result is
// advisory: errors mark the document as "parsed with issues" for operators,
// they never block assembly or ingestion.
type Validator interface {
	Validate(act *statute.Act, originalText string) *statute.ValidationReport
}

// documentValidator runs the four independent checks: structure counts,
// content preservation, entity completeness, and cross-reference validity.
type documentValidator struct {
	logger logging.Logger
}

// NewValidator constructs the standard four-check validator. A nil logger is
// replaced with a no-op implementation.
func NewValidator(logger logging.Logger) Validator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &documentValidator{logger: logger}
}

// checkResult is one check's outcome. valid means the check added no errors;
// warnings alone leave it true.
type checkResult struct {
	valid    bool
	errors   []string
	warnings []string
}

func finishCheck(errs, warns []string) checkResult {
	return checkResult{valid: len(errs) == 0, errors: errs, warnings: warns}
}

// Validate runs all four checks and assembles the report. The overall score
// is the fraction of checks that passed; is_valid requires zero errors in
// total.
func (v *documentValidator) Validate(act *statute.Act, originalText string) *statute.ValidationReport {
	structure, structureStats := v.checkStructure(act, originalText)
	preservation, preservationStats := v.checkPreservation(act, originalText)
	entities, entityStats := v.checkEntities(act, originalText)
	references, referenceStats := v.checkCrossReferences(act, originalText)

	checks := []checkResult{structure, preservation, entities, references}

	report := &statute.ValidationReport{Errors: []string{}, Warnings: []string{}}
	passed := 0
	for _, c := range checks {
		report.Errors = append(report.Errors, c.errors...)
		report.Warnings = append(report.Warnings, c.warnings...)
		if c.valid {
			passed++
		}
	}
	report.IsValid = len(report.Errors) == 0
	report.Stats = statute.ValidationStats{
		TotalErrors:            len(report.Errors),
		TotalWarnings:          len(report.Warnings),
		StructureValidity:      structure.valid,
		ContentPreservation:    preservation.valid,
		EntityExtraction:       entities.valid,
		CrossReferenceAccuracy: references.valid,
		OverallScore:           float64(passed) / float64(len(checks)),
		Structure:              structureStats,
		Preservation:           preservationStats,
		Entities:               entityStats,
		CrossReferences:        referenceStats,
	}

	v.logger.Debug("validation complete",
		logging.Bool("is_valid", report.IsValid),
		logging.Float64("score", report.Stats.OverallScore),
		logging.Int("errors", report.Stats.TotalErrors),
		logging.Int("warnings", report.Stats.TotalWarnings))
	return report
}

// ---------------------------------------------------------------------------
// Check 1: structure counts
// ---------------------------------------------------------------------------

func (v *documentValidator) checkStructure(act *statute.Act, text string) (checkResult, statute.StructureStats) {
	stats := statute.StructureStats{
		OriginalChapters: len(reNaiveChapterCount.FindAllString(text, -1)),
		ParsedChapters:   len(act.Chapters),
		OriginalSections: len(reNaiveSectionCount.FindAllString(text, -1)),
		ParsedSections:   len(act.Sections),
	}

	var errs, warns []string

	if stats.OriginalChapters > 0 && stats.ParsedChapters != stats.OriginalChapters {
		errs = append(errs, fmt.Sprintf("Chapter count mismatch: found %d, expected %d",
			stats.ParsedChapters, stats.OriginalChapters))
	}

	diff := stats.ParsedSections - stats.OriginalSections
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff > sectionCountTolerance:
		errs = append(errs, fmt.Sprintf("Section count mismatch: found %d, expected %d",
			stats.ParsedSections, stats.OriginalSections))
	case diff > 0:
		warns = append(warns, fmt.Sprintf("Minor section count difference: found %d, expected %d",
			stats.ParsedSections, stats.OriginalSections))
	}

	empty := 0
	for _, s := range act.Sections {
		if strings.TrimSpace(s.Content) == "" {
			empty++
		}
	}
	if empty > 0 {
		errs = append(errs, fmt.Sprintf("Found %d sections with no content", empty))
	}

	var nums []int
	for _, s := range act.Sections {
		if isAllDigits(s.Number) {
			n, _ := strconv.Atoi(s.Number)
			nums = append(nums, n)
		}
	}
	if len(nums) > 0 && hasNumberingGaps(nums) {
		warns = append(warns, "Section numbering sequence appears to have gaps")
	}

	return finishCheck(errs, warns), stats
}

// hasNumberingGaps reports whether nums is anything other than the
// contiguous ascending run min..max. Lettered numbers ("25A") are excluded
// before the call, so only the plain digit sequence is judged.
func hasNumberingGaps(nums []int) bool {
	lo, hi := nums[0], nums[0]
	for _, n := range nums {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	if hi-lo+1 != len(nums) {
		return true
	}
	for i, n := range nums {
		if n != lo+i {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Check 2: content preservation
// ---------------------------------------------------------------------------

func (v *documentValidator) checkPreservation(act *statute.Act, text string) (checkResult, statute.PreservationStats) {
	stats := statute.PreservationStats{
		OriginalWordCount: len(strings.Fields(text)),
		MissingKeywords:   []string{},
	}
	// Chapters carry no body of their own; all preserved words live in
	// section content.
	for _, s := range act.Sections {
		stats.ParsedWordCount += len(strings.Fields(s.Content))
	}
	if stats.OriginalWordCount > 0 {
		stats.PreservationRatio = float64(stats.ParsedWordCount) / float64(stats.OriginalWordCount)
	}

	var errs, warns []string
	switch {
	case stats.PreservationRatio < preservationErrorFloor:
		errs = append(errs, fmt.Sprintf("Low content preservation: only %.1f%% of content preserved",
			stats.PreservationRatio*100))
	case stats.PreservationRatio < preservationWarnFloor:
		warns = append(warns, fmt.Sprintf("Moderate content loss: %.1f%% of content preserved",
			stats.PreservationRatio*100))
	}

	lowerText := strings.ToLower(text)
	for _, kw := range criticalContentKeywords {
		if !strings.Contains(lowerText, kw) {
			continue
		}
		found := false
		for _, s := range act.Sections {
			if strings.Contains(strings.ToLower(s.Content), kw) {
				found = true
				break
			}
		}
		if !found {
			stats.MissingKeywords = append(stats.MissingKeywords, kw)
		}
	}
	if len(stats.MissingKeywords) > 0 {
		errs = append(errs, "Critical content missing: "+strings.Join(stats.MissingKeywords, ", "))
	}

	return finishCheck(errs, warns), stats
}

// ---------------------------------------------------------------------------
// Check 3: entity completeness
// ---------------------------------------------------------------------------

func (v *documentValidator) checkEntities(act *statute.Act, text string) (checkResult, statute.EntityStats) {
	expected := expectedAuthoritiesIn(text)
	stats := statute.EntityStats{
		ExpectedAuthorities:  expected,
		ExtractedAuthorities: len(act.Authorities),
		ExtractedPenalties:   len(act.Penalties),
		ExtractedDefinitions: len(act.Definitions),
	}

	var errs, warns []string

	var missing []string
	for _, want := range expected {
		lowerWant := strings.ToLower(want)
		found := false
		for _, a := range act.Authorities {
			if strings.Contains(strings.ToLower(a.Name), lowerWant) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		warns = append(warns, "Potentially missing authorities: "+strings.Join(missing, ", "))
	}

	lowerText := strings.ToLower(text)
	if containsAnyFold(text, penaltyTitleKeywords) && len(act.Penalties) == 0 {
		errs = append(errs, "Document contains penalty sections but no penalties were extracted")
	}
	if strings.Contains(lowerText, "definitions") && strings.Contains(lowerText, "means") && len(act.Definitions) == 0 {
		errs = append(errs, "Document contains definitions section but no definitions were extracted")
	}

	return finishCheck(errs, warns), stats
}

// expectedAuthoritiesIn collects the distinct expected-authority mentions as
// they appear in text, sorted so the report is deterministic.
func expectedAuthoritiesIn(text string) []string {
	set := make(map[string]struct{})
	for _, re := range expectedAuthorityPatterns {
		for _, m := range re.FindAllString(text, -1) {
			set[m] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ---------------------------------------------------------------------------
// Check 4: cross-reference validity
// ---------------------------------------------------------------------------

func (v *documentValidator) checkCrossReferences(act *statute.Act, text string) (checkResult, statute.CrossReferenceStats) {
	original := 0
	for _, re := range naiveCrossRefPatterns {
		original += len(re.FindAllString(text, -1))
	}
	stats := statute.CrossReferenceStats{
		OriginalCrossReferences:  original,
		ExtractedCrossReferences: len(act.CrossReferences),
	}

	var errs, warns []string
	switch {
	case original > 0 && stats.ExtractedCrossReferences == 0:
		errs = append(errs, "Document contains cross-references but none were extracted")
	case original > 0 && float64(stats.ExtractedCrossReferences) < float64(original)*crossRefCoverageFloor:
		warns = append(warns, fmt.Sprintf("Low cross-reference extraction: found %d, expected around %d",
			stats.ExtractedCrossReferences, original))
	}

	known := make(map[string]struct{}, len(act.Sections))
	for _, s := range act.Sections {
		known[s.Number] = struct{}{}
	}
	var invalid []string
	for _, ref := range act.CrossReferences {
		if !isAllDigits(ref.TargetReference) {
			continue
		}
		if _, ok := known[ref.TargetReference]; !ok {
			invalid = append(invalid, ref.TargetReference)
		}
	}
	if len(invalid) > 0 {
		errs = append(errs, "Cross-references to non-existent sections: "+strings.Join(invalid, ", "))
	}
	stats.InvalidReferences = len(invalid)

	return finishCheck(errs, warns), stats
}

// isAllDigits reports whether s is a non-empty run of ASCII digits.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
