package statute

import "strings"

// ─────────────────────────────────────────────────────────────────────────────
// Authority
// ─────────────────────────────────────────────────────────────────────────────

// AuthorityType classifies an extracted authority by its institutional kind.
type AuthorityType string

const (
	AuthorityTypeBoard      AuthorityType = "board"
	AuthorityTypeCourt      AuthorityType = "court"
	AuthorityTypeTribunal   AuthorityType = "tribunal"
	AuthorityTypeGovernment AuthorityType = "government"
	AuthorityTypeCommission AuthorityType = "commission"
	AuthorityTypeAuthority  AuthorityType = "authority"
	AuthorityTypeOther      AuthorityType = "other"
)

// ClassifyAuthorityType derives the type from a normalized authority name by
// substring, first match wins. Normalization abbreviates "Government" to
// "Govt", so both spellings map to the government type.
func ClassifyAuthorityType(name string) AuthorityType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "board"):
		return AuthorityTypeBoard
	case strings.Contains(lower, "court"):
		return AuthorityTypeCourt
	case strings.Contains(lower, "tribunal"):
		return AuthorityTypeTribunal
	case strings.Contains(lower, "government"), strings.Contains(lower, "govt"):
		return AuthorityTypeGovernment
	case strings.Contains(lower, "commission"):
		return AuthorityTypeCommission
	case strings.Contains(lower, "authority"):
		return AuthorityTypeAuthority
	default:
		return AuthorityTypeOther
	}
}

// Authority is a body the act names as exercising statutory power: a board,
// court, tribunal, government, or commission. Powers, Functions, and
// Jurisdiction hold free-text evidence lifted from the sentence where the
// authority is first mentioned.
type Authority struct {
	Name               string        `json:"name"`
	Type               AuthorityType `json:"type"`
	MentionedInSection string        `json:"mentioned_in_section"`
	Powers             []string      `json:"powers"`
	Functions          []string      `json:"functions"`
	Jurisdiction       string        `json:"jurisdiction"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Penalty
// ─────────────────────────────────────────────────────────────────────────────

// PenaltyType distinguishes the two penalty kinds bare acts prescribe.
type PenaltyType string

const (
	PenaltyTypeImprisonment PenaltyType = "imprisonment"
	PenaltyTypeFine         PenaltyType = "fine"
)

// Penalty records one sanction extracted from a penalty section. Term is set
// for imprisonment penalties, Amount for fines; the other field stays empty.
// Offense carries the owning section's title and RawText the matched phrase.
type Penalty struct {
	Type    PenaltyType `json:"type"`
	Term    string      `json:"term,omitempty"`
	Amount  string      `json:"amount,omitempty"`
	Section string      `json:"section"`
	Offense string      `json:"offense"`
	RawText string      `json:"raw_text"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Definition
// ─────────────────────────────────────────────────────────────────────────────

// Definition contexts distinguish where a term definition was found.
const (
	// DefinitionContextFormal marks entries parsed from a dedicated
	// definitions section: `(a) "term" means …;`.
	DefinitionContextFormal = "formal_definition"

	// DefinitionContextInline marks `<phrase> means <definition>` matches
	// found anywhere in the document body.
	DefinitionContextInline = "inline_definition"
)

// Definition is one defined term. Section holds the defining section's
// number, or "inline" for document-wide inline matches.
type Definition struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Section    string `json:"section"`
	Context    string `json:"context"`
}

// ─────────────────────────────────────────────────────────────────────────────
// CrossReference
// ─────────────────────────────────────────────────────────────────────────────

// CrossReference is an in-text mention of another provision ("section 3",
// "sub-section (2)", "clause (b)") found inside a section body. Targets are
// captured, not resolved; the validator later checks numeric targets against
// the parsed section numbers.
type CrossReference struct {
	SourceSection   string `json:"source_section"`
	SourceChapter   string `json:"source_chapter"`
	ReferenceText   string `json:"reference_text"`
	TargetReference string `json:"target_reference"`
	Context         string `json:"context"`
}
