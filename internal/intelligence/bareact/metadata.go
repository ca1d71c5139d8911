package bareact

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

// ---------------------------------------------------------------------------
// Act metadata extraction
// ---------------------------------------------------------------------------

const (
	// metadataHeaderWindow bounds the header scan; the act title and number
	// always sit on the first page or two.
	metadataHeaderWindow = 5000

	// preambleScanWindow bounds the preamble scan in lines.
	preambleScanWindow = 150
)

// Title patterns tried in order of specificity:
//
//	"THE WATER (PREVENTION AND CONTROL OF POLLUTION) ACT, 1974"
//	"THE INDIAN PENAL CODE, 1860"
//	"ENVIRONMENT PROTECTION ACT 1986"
var reActNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)THE\s+([A-Z][A-Za-z\s()&,\-]+?)\s+ACT,?\s*((?:19|20)\d{2})`),
	regexp.MustCompile(`(?i)THE\s+([A-Z][A-Za-z\s()&,\-]+?)\s*,\s*((?:19|20)\d{2})`),
	regexp.MustCompile(`(?i)([A-Z][A-Za-z\s()&,\-]+?)\s+ACT[,\s]+((?:19|20)\d{2})`),
}

var (
	// reActNumber matches the gazette numbering: "ACT NO. 6 OF 1974".
	reActNumber = regexp.MustCompile(`(?i)(?:ACT\s+)?NO\.?\s*(\d+)\s+OF\s+((?:19|20)\d{2})`)

	reFourDigitYear  = regexp.MustCompile(`((?:19|20)\d{2})`)
	reWhitespaceRuns = regexp.MustCompile(`\s+`)
)

// titleCase applies English title casing. A fresh Caser per call: cases.Caser
// is stateful and not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// extractActMetadata recovers the act name, year and gazette number from the
// document header, falling back to the source filename when the header scan
// comes up empty. A zero year means the year could not be determined.
func extractActMetadata(text, sourceFile string) (name string, year int, actNumber string) {
	header := statute.Truncate(text, metadataHeaderWindow)

	for _, re := range reActNamePatterns {
		m := re.FindStringSubmatch(header)
		if m == nil {
			continue
		}
		name = strings.TrimSpace(m[1])
		year, _ = strconv.Atoi(m[2])
		break
	}

	base := strings.TrimSuffix(filepath.Base(sourceFile), ".pdf")
	if name == "" && base != "" && base != "." {
		name = titleCase(strings.ReplaceAll(base, "_", " "))
	}
	if year == 0 && base != "" {
		if m := reFourDigitYear.FindStringSubmatch(base); m != nil {
			year, _ = strconv.Atoi(m[1])
		}
	}

	if m := reActNumber.FindStringSubmatch(header); m != nil {
		actNumber = "No. " + m[1] + " of " + m[2]
	}

	if name != "" {
		name = strings.TrimSpace(reWhitespaceRuns.ReplaceAllString(name, " "))
		// Headers are set in full caps; bring them down to title case.
		if name == strings.ToUpper(name) {
			name = titleCase(name)
		}
	}
	return name, year, actNumber
}

// extractPreamble collects the enacting recital. The scan enters
// stateInPreamble on the first line containing "BE IT ENACTED" or "WHEREAS"
// and gathers raw lines until the first chapter or section header closes it.
func extractPreamble(lines []string) string {
	if len(lines) > preambleScanWindow {
		lines = lines[:preambleScanWindow]
	}

	var collected []string
	state := stateNone
	for _, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if strings.Contains(upper, "BE IT ENACTED") || strings.Contains(upper, "WHEREAS") {
			state = stateInPreamble
		}
		if state != stateInPreamble {
			continue
		}
		if _, ok := isChapterHeader(line); ok {
			break
		}
		if _, _, ok := isSectionHeader(line); ok {
			break
		}
		collected = append(collected, line)
	}
	return statute.Truncate(strings.TrimSpace(strings.Join(collected, "\n")), statute.MaxPreambleLength)
}
