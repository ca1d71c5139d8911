package bareact

import (
	"regexp"
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

// ---------------------------------------------------------------------------
// Authority patterns
// ---------------------------------------------------------------------------

// Capitalized noun-phrase families that name statutory bodies. Patterns are
// case-insensitive so OCR case damage does not hide a mention.
var authorityPatterns = []*regexp.Regexp{
	// "Central Board", "Appellate Authority", "National Commission"
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+\s+(?:Board|Authority|Commission|Committee|Tribunal|Government))\b`),
	// "Central Government", "Central Water Laboratory"
	regexp.MustCompile(`(?i)\b(Central\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`),
	// "State Government", "State Pollution Control Board"
	regexp.MustCompile(`(?i)\b(State\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`),
	// "Maharashtra Pollution Control Board"
	regexp.MustCompile(`(?i)\b([A-Z][a-z]+\s+Pollution\s+Control\s+Board)\b`),
	// "Appellate Authority", "Appellate Tribunal"
	regexp.MustCompile(`(?i)\b(Appellate\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`),
	regexp.MustCompile(`(?i)\b(High\s+Court|Supreme\s+Court)\b`),
}

var (
	rePollutionBoard     = regexp.MustCompile(`\bPollution Control Board\b`)
	reGovernmentWord     = regexp.MustCompile(`\bGovernment\b`)
	reAuthorityArtifacts = regexp.MustCompile(`(?i)\b(?:Under|Section|This|Act|For|The|And|To|Of)\b`)
	reSentenceBreak      = regexp.MustCompile(`[.;]`)
)

// authorityRejectWords are substrings that mark a match as a captured verb
// phrase rather than a body's name.
var authorityRejectWords = []string{"shall", "may", "improve", "prevent", "control"}

const (
	maxAuthorityNameLength = 100
	minAuthorityNameLength = 3
	contextSnippetLength   = 100
)

// ---------------------------------------------------------------------------
// Penalty patterns
// ---------------------------------------------------------------------------

var (
	penaltyTitleKeywords     = []string{"penalty", "punishment", "offence", "fine", "imprisonment"}
	penaltyContentIndicators = []string{"punishable", "imprisonment", "fine", "penalty"}
)

// imprisonmentPatterns capture the drafting formula for custodial terms.
// The first form carries an optional statutory minimum ("shall not be less
// than X but which may extend to Y"); the second is the plain maximum-only
// form.
var imprisonmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)imprisonment\s+for\s+a?\s*term\s+(?:which\s+)?(?:shall\s+not\s+be\s+less\s+than\s+([^,]+)\s+but\s+)?(?:which\s+)?(?:may\s+)?(?:extend\s+to\s+)?([^,\.]+)`),
	regexp.MustCompile(`(?i)imprisonment\s+for\s+a?\s*term\s+(?:which\s+)?(?:may\s+)?(?:extend\s+to\s+)?([^,\.]+)`),
}

// finePatterns capture fine amounts, from the full drafting formula down to
// bare currency figures.
var finePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)fine\s+(?:which\s+)?(?:may\s+)?(?:extend\s+to\s+)?(?:rupees\s+)?([^,\.]+)`),
	regexp.MustCompile(`(?i)with\s+fine(?:\s+of\s+(?:rupees\s+)?([^,\.]+))?`),
	regexp.MustCompile(`₹\s*(\d+(?:,\d+)*)`),
	regexp.MustCompile(`(?i)rupees\s+(\d+(?:,\d+)*)`),
}

const unspecifiedFineAmount = "unspecified"

// ---------------------------------------------------------------------------
// Definition patterns
// ---------------------------------------------------------------------------

var (
	// reFormalDefinition matches the definitions-section convention:
	//   (a) "occupier" means the person in control of the premises;
	reFormalDefinition = regexp.MustCompile(`(?is)\([a-z]\)\s*"([^"]+)"\s+means\s+([^;]+);?`)

	// reInlineDefinition matches loose "X means Y" phrasing anywhere in the
	// document. The caller gates terms to 3-5 words; shorter and longer
	// captures are overwhelmingly false positives.
	reInlineDefinition = regexp.MustCompile(`(?i)\b([A-Za-z\s]+)\s+means\s+([^;\.]+)`)
)

const (
	minInlineTermWords = 3
	maxInlineTermWords = 5

	// inlineDefinitionSection is the provenance sentinel for definitions
	// found outside any dedicated definitions section.
	inlineDefinitionSection = "inline"
)

// ---------------------------------------------------------------------------
// EntityExtractor
// ---------------------------------------------------------------------------

// EntityExtractor derives Authorities, Penalties and Definitions from parsed
// section content in three independent passes.
type EntityExtractor struct {
	logger logging.Logger
}

// NewEntityExtractor constructs an EntityExtractor. A nil logger is replaced
// with a no-op implementation.
func NewEntityExtractor(logger logging.Logger) *EntityExtractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &EntityExtractor{logger: logger}
}

// Extract runs all three passes. fullText is the preprocessed document text,
// used only by the inline-definition scan; everything else works off section
// content.
func (e *EntityExtractor) Extract(fullText string, sections []statute.Section) ([]statute.Authority, []statute.Penalty, []statute.Definition) {
	authorities := e.extractAuthorities(sections)
	penalties := e.extractPenalties(sections)
	definitions := e.extractDefinitions(fullText, sections)

	e.logger.Debug("entity extraction complete",
		logging.Int("authorities", len(authorities)),
		logging.Int("penalties", len(penalties)),
		logging.Int("definitions", len(definitions)))
	return authorities, penalties, definitions
}

// ---------------------------------------------------------------------------
// Authorities
// ---------------------------------------------------------------------------

func (e *EntityExtractor) extractAuthorities(sections []statute.Section) []statute.Authority {
	authorities := []statute.Authority{}
	seen := make(map[string]struct{})

	for _, sec := range sections {
		for _, re := range authorityPatterns {
			for _, m := range re.FindAllStringSubmatch(sec.Content, -1) {
				name := normalizeAuthorityName(m[1])
				if name == "" {
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				authorities = append(authorities, buildAuthority(name, sec.Content, sec.Number))
			}
		}
	}
	return authorities
}

// normalizeAuthorityName canonicalizes a raw pattern match into a stable
// authority name, or returns "" when the match is not a usable name.
// Rejection happens before the shorthand substitutions, so phrases carrying
// verb fragments are dropped whole rather than trimmed into fake names.
func normalizeAuthorityName(name string) string {
	name = strings.TrimSpace(reWhitespaceRuns.ReplaceAllString(name, " "))

	if len(name) > maxAuthorityNameLength {
		return ""
	}
	lower := strings.ToLower(name)
	for _, w := range authorityRejectWords {
		if strings.Contains(lower, w) {
			return ""
		}
	}

	name = rePollutionBoard.ReplaceAllString(name, "Board")
	name = reGovernmentWord.ReplaceAllString(name, "Govt")
	name = reAuthorityArtifacts.ReplaceAllString(name, "")
	name = strings.TrimSpace(reWhitespaceRuns.ReplaceAllString(name, " "))

	if len(name) < minAuthorityNameLength {
		return ""
	}
	return titleCase(name)
}

// buildAuthority assembles the full record. Supporting fields come from the
// first sentence in the section that mentions the normalized name; when the
// normalization changed the wording enough that no sentence matches, they
// stay empty.
func buildAuthority(name, content, sectionNumber string) statute.Authority {
	a := statute.Authority{
		Name:               name,
		Type:               statute.ClassifyAuthorityType(name),
		MentionedInSection: sectionNumber,
		Powers:             []string{},
		Functions:          []string{},
	}

	context := authorityContext(name, content)
	if context == "" {
		return a
	}
	a.Powers = powersFromContext(context)
	a.Functions = functionsFromContext(context)
	a.Jurisdiction = jurisdictionFromContext(context)
	return a
}

// authorityContext returns the first sentence of content mentioning name,
// comparing case-insensitively.
func authorityContext(name, content string) string {
	lowerName := strings.ToLower(name)
	for _, sentence := range reSentenceBreak.Split(content, -1) {
		if strings.Contains(strings.ToLower(sentence), lowerName) {
			return strings.TrimSpace(sentence)
		}
	}
	return ""
}

func powersFromContext(context string) []string {
	keywords := []string{"power", "authority", "may", "shall", "can"}
	if containsAnyFold(context, keywords) {
		return []string{ellipsize(context, contextSnippetLength)}
	}
	return []string{}
}

func functionsFromContext(context string) []string {
	keywords := []string{"function", "duty", "responsibility", "shall"}
	if containsAnyFold(context, keywords) {
		return []string{ellipsize(context, contextSnippetLength)}
	}
	return []string{}
}

func jurisdictionFromContext(context string) string {
	lower := strings.ToLower(context)
	for _, kw := range []string{"state", "central", "union territory", "district"} {
		if strings.Contains(lower, kw) {
			return titleCase(kw)
		}
	}
	return "Unknown"
}

// ---------------------------------------------------------------------------
// Penalties
// ---------------------------------------------------------------------------

func (e *EntityExtractor) extractPenalties(sections []statute.Section) []statute.Penalty {
	penalties := []statute.Penalty{}
	for _, sec := range sections {
		if !containsAnyFold(sec.Title, penaltyTitleKeywords) {
			continue
		}
		penalties = append(penalties, parsePenaltySection(sec.Content, sec.Number, sec.Title)...)
	}
	return penalties
}

// parsePenaltySection pulls imprisonment and fine records out of one penalty
// section. The content gate rejects sections whose title merely sounds
// punitive ("Offences by companies" procedural text with no sanction).
func parsePenaltySection(content, sectionNumber, sectionTitle string) []statute.Penalty {
	if !containsAnyFold(content, penaltyContentIndicators) {
		return nil
	}

	penalties := []statute.Penalty{}
	for _, re := range imprisonmentPatterns {
		twoGroups := re.NumSubexp() == 2
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			var term string
			if twoGroups {
				minTerm := strings.TrimSpace(m[1])
				maxTerm := strings.TrimSpace(m[2])
				if minTerm != "" {
					term = minTerm + " to " + maxTerm
				} else {
					term = maxTerm
				}
			} else {
				term = strings.TrimSpace(m[1])
			}
			penalties = append(penalties, statute.Penalty{
				Type:    statute.PenaltyTypeImprisonment,
				Term:    term,
				Section: sectionNumber,
				Offense: sectionTitle,
				RawText: m[0],
			})
		}
	}

	for _, re := range finePatterns {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			amount := strings.TrimSpace(m[1])
			if amount == "" {
				amount = unspecifiedFineAmount
			}
			penalties = append(penalties, statute.Penalty{
				Type:    statute.PenaltyTypeFine,
				Amount:  amount,
				Section: sectionNumber,
				Offense: sectionTitle,
				RawText: m[0],
			})
		}
	}
	return penalties
}

// ---------------------------------------------------------------------------
// Definitions
// ---------------------------------------------------------------------------

func (e *EntityExtractor) extractDefinitions(fullText string, sections []statute.Section) []statute.Definition {
	definitions := []statute.Definition{}

	for _, sec := range sections {
		if strings.Contains(strings.ToLower(sec.Title), "definition") {
			definitions = append(definitions, parseDefinitionsSection(sec)...)
			break
		}
	}

	definitions = append(definitions, extractInlineDefinitions(fullText)...)
	return definitions
}

// parseDefinitionsSection parses the formal `(a) "term" means ...;` entries
// of a dedicated definitions section.
func parseDefinitionsSection(sec statute.Section) []statute.Definition {
	defs := []statute.Definition{}
	for _, m := range reFormalDefinition.FindAllStringSubmatch(sec.Content, -1) {
		defs = append(defs, statute.Definition{
			Term:       strings.TrimSpace(m[1]),
			Definition: strings.TrimSpace(m[2]),
			Section:    sec.Number,
			Context:    statute.DefinitionContextFormal,
		})
	}
	return defs
}

// extractInlineDefinitions scans the whole document for loose "X means Y"
// phrasing, keeping only terms of 3-5 words.
func extractInlineDefinitions(fullText string) []statute.Definition {
	defs := []statute.Definition{}
	for _, m := range reInlineDefinition.FindAllStringSubmatch(fullText, -1) {
		term := strings.TrimSpace(m[1])
		words := len(strings.Fields(term))
		if words < minInlineTermWords || words > maxInlineTermWords {
			continue
		}
		defs = append(defs, statute.Definition{
			Term:       term,
			Definition: strings.TrimSpace(m[2]),
			Section:    inlineDefinitionSection,
			Context:    statute.DefinitionContextInline,
		})
	}
	return defs
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// containsAnyFold reports whether s contains any of the keywords,
// case-insensitively.
func containsAnyFold(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ellipsize caps s at max runes, appending an ellipsis when truncated.
func ellipsize(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return statute.Truncate(s, max) + "..."
}
