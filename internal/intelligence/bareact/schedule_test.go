package bareact

import (
	"strings"
	"testing"
)

func TestScheduleExtract_OrdinalHeaders(t *testing.T) {
	text := "THE FIRST SCHEDULE\nList of scheduled industries.\n" +
		"THE SECOND SCHEDULE\nForms of notices and registers to be maintained.\n"

	scheds := NewScheduleExtractor().Extract(text)
	if len(scheds) != 2 {
		t.Fatalf("schedules = %d, want 2: %+v", len(scheds), scheds)
	}
	if scheds[0].Number != "1" || scheds[1].Number != "2" {
		t.Errorf("numbers = %q %q, want 1 2", scheds[0].Number, scheds[1].Number)
	}
	if scheds[0].Content != "THE FIRST SCHEDULE\nList of scheduled industries." {
		t.Errorf("schedule 1 content = %q", scheds[0].Content)
	}
	if !strings.Contains(scheds[1].Content, "registers") {
		t.Errorf("schedule 2 content = %q", scheds[1].Content)
	}
}

func TestScheduleExtract_RomanHeader(t *testing.T) {
	scheds := NewScheduleExtractor().Extract("SCHEDULE III\nRates of cess payable under section 3.\n")
	if len(scheds) != 1 {
		t.Fatalf("schedules = %d, want 1", len(scheds))
	}
	if scheds[0].Number != "3" {
		t.Errorf("number = %q, want 3", scheds[0].Number)
	}
	if !strings.Contains(scheds[0].Content, "Rates of cess") {
		t.Errorf("content = %q", scheds[0].Content)
	}
}

func TestScheduleExtract_TOCEchoMergedKeepingLongest(t *testing.T) {
	text := "CONTENTS\nTHE SCHEDULE.\n1. Short title.\n" +
		"THE SCHEDULE\n(See section 3)\nForms of application for a licence and the fees payable for each class of vessel.\n"

	scheds := NewScheduleExtractor().Extract(text)
	if len(scheds) != 1 {
		t.Fatalf("schedules = %d, want 1 after merge: %+v", len(scheds), scheds)
	}
	if scheds[0].Number != "1" {
		t.Errorf("number = %q, want 1", scheds[0].Number)
	}
	if !strings.Contains(scheds[0].Content, "fees payable") {
		t.Errorf("content = %q, want the body copy", scheds[0].Content)
	}
	if strings.Contains(scheds[0].Content, "Short title") {
		t.Errorf("content kept the TOC echo: %q", scheds[0].Content)
	}
}

func TestScheduleExtract_NoSchedules(t *testing.T) {
	if scheds := NewScheduleExtractor().Extract("1. Short title.\nBody only.\n"); len(scheds) != 0 {
		t.Errorf("schedules = %d, want 0", len(scheds))
	}
}

func TestNormalizeScheduleNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FIRST", "1"},
		{"TWELFTH", "12"},
		{"2ND", "2"},
		{"10TH", "10"},
		{"IV", "4"},
		{"IX", "9"},
		{"A", "A"},
		{"  third  ", "3"},
	}

	for _, tt := range tests {
		if got := normalizeScheduleNumber(tt.in); got != tt.want {
			t.Errorf("normalizeScheduleNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRomanToInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"I", 1},
		{"II", 2},
		{"IV", 4},
		{"IX", 9},
		{"X", 10},
		{"XIV", 14},
		{"L", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := romanToInt(tt.in); got != tt.want {
			t.Errorf("romanToInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
