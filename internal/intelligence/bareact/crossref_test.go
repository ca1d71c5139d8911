package bareact

import (
	"strings"
	"testing"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

func TestResolve_CapturesReferences(t *testing.T) {
	sections := []statute.Section{
		{
			Number:          "4",
			ChapterNumber:   "I",
			Content:         "Whoever contravenes section 3 or sub-section (2) of section 5 shall, subject to clause (b), be liable.",
			CrossReferences: []string{},
		},
	}

	refs := NewCrossReferenceResolver().Resolve(sections)
	if len(refs) != 4 {
		t.Fatalf("references = %d, want 4: %+v", len(refs), refs)
	}

	// The trailing parenthesis of bracketed targets sits outside the word
	// boundary and is not captured.
	wantTargets := []string{"3", "(2", "5", "(b"}
	for k, want := range wantTargets {
		if refs[k].TargetReference != want {
			t.Errorf("ref %d target = %q, want %q", k, refs[k].TargetReference, want)
		}
	}

	first := refs[0]
	if first.SourceSection != "4" || first.SourceChapter != "I" {
		t.Errorf("ref 0 source = %q %q", first.SourceSection, first.SourceChapter)
	}
	if first.ReferenceText != "section 3" {
		t.Errorf("ref 0 text = %q", first.ReferenceText)
	}
	if !strings.Contains(first.Context, "contravenes section 3") {
		t.Errorf("ref 0 context = %q", first.Context)
	}

	// Raw matched texts are mirrored onto the section itself.
	wantInline := []string{"section 3", "sub-section (2", "section 5", "clause (b"}
	if len(sections[0].CrossReferences) != len(wantInline) {
		t.Fatalf("inline refs = %v", sections[0].CrossReferences)
	}
	for k, want := range wantInline {
		if sections[0].CrossReferences[k] != want {
			t.Errorf("inline ref %d = %q, want %q", k, sections[0].CrossReferences[k], want)
		}
	}
}

func TestResolve_NoReferences(t *testing.T) {
	sections := []statute.Section{
		{Number: "1", Content: "Nothing here refers anywhere else.", CrossReferences: []string{}},
	}

	if refs := NewCrossReferenceResolver().Resolve(sections); len(refs) != 0 {
		t.Errorf("references = %d, want 0", len(refs))
	}
	if len(sections[0].CrossReferences) != 0 {
		t.Errorf("inline refs = %v, want none", sections[0].CrossReferences)
	}
}

func TestContextAround_ClampsToBounds(t *testing.T) {
	if got := contextAround("short text", 0, 5); got != "short text" {
		t.Errorf("context = %q, want full text", got)
	}
}
