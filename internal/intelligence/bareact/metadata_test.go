package bareact

import "testing"

func TestExtractActMetadata_Header(t *testing.T) {
	text := "THE WATER (PREVENTION AND CONTROL OF POLLUTION) ACT, 1974\n" +
		"ACT NO. 6 OF 1974\n" +
		"[16th March, 1974.]\n" +
		"An Act to provide for the prevention and control of water pollution.\n"

	name, year, number := extractActMetadata(text, "water_act.pdf")
	if name != "Water (Prevention And Control Of Pollution)" {
		t.Errorf("name = %q", name)
	}
	if year != 1974 {
		t.Errorf("year = %d, want 1974", year)
	}
	if number != "No. 6 of 1974" {
		t.Errorf("act number = %q, want %q", number, "No. 6 of 1974")
	}
}

func TestExtractActMetadata_NumberAbsent(t *testing.T) {
	text := "THE ENVIRONMENT (PROTECTION) ACT, 1986\n" +
		"An Act to provide for the protection and improvement of environment.\n"

	name, year, number := extractActMetadata(text, "environment.pdf")
	if name != "Environment (Protection)" {
		t.Errorf("name = %q", name)
	}
	if year != 1986 {
		t.Errorf("year = %d, want 1986", year)
	}
	if number != "" {
		t.Errorf("act number = %q, want empty", number)
	}
}

func TestExtractActMetadata_FilenameFallback(t *testing.T) {
	name, year, number := extractActMetadata(
		"Scanned gibberish with no recognisable header.",
		"/data/acts/industrial_disputes_1947.pdf")

	if name != "Industrial Disputes 1947" {
		t.Errorf("name = %q", name)
	}
	if year != 1947 {
		t.Errorf("year = %d, want 1947", year)
	}
	if number != "" {
		t.Errorf("act number = %q, want empty", number)
	}
}

func TestExtractPreamble(t *testing.T) {
	lines := []string{
		"THE TEST ACT, 1990",
		"An Act to consolidate the law.",
		"WHEREAS it is expedient to consolidate the law;",
		"BE IT ENACTED by Parliament as follows:",
		"CHAPTER I",
		"PRELIMINARY",
		"1. Short title.",
	}

	got := extractPreamble(lines)
	want := "WHEREAS it is expedient to consolidate the law;\nBE IT ENACTED by Parliament as follows:"
	if got != want {
		t.Errorf("preamble = %q, want %q", got, want)
	}
}

func TestExtractPreamble_StopsAtSectionHeader(t *testing.T) {
	lines := []string{
		"WHEREAS brevity is a virtue;",
		"1. Short title.",
		"This Act may be cited briefly.",
	}

	if got := extractPreamble(lines); got != "WHEREAS brevity is a virtue;" {
		t.Errorf("preamble = %q", got)
	}
}

func TestExtractPreamble_AbsentMeansEmpty(t *testing.T) {
	lines := []string{
		"THE TEST ACT, 1990",
		"CHAPTER I",
		"1. Short title.",
	}

	if got := extractPreamble(lines); got != "" {
		t.Errorf("preamble = %q, want empty", got)
	}
}
