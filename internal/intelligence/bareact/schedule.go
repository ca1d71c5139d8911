package bareact

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

// ---------------------------------------------------------------------------
// Schedule extraction
// ---------------------------------------------------------------------------

// scheduleTailWindow bounds the raw slice taken after the final schedule
// header; earlier schedules run to the next header.
const scheduleTailWindow = 5000

// reScheduleHeader matches the three header shapes appendices appear under:
// an ordinal-word schedule ("THE FIRST SCHEDULE"), the bare "THE SCHEDULE"
// of single-appendix acts, and "SCHEDULE <roman/digit/letter>".
var reScheduleHeader = regexp.MustCompile(
	`(?i)(?:THE\s+)?(FIRST|SECOND|THIRD|FOURTH|FIFTH|SIXTH|SEVENTH|EIGHTH|NINTH|TENTH|ELEVENTH|TWELFTH|\d+(?:ST|ND|RD|TH)?)\s+SCHEDULE|THE\s+SCHEDULE|SCHEDULE\s+([IVX]+|\d+|[A-Z])`)

var reOrdinalDigits = regexp.MustCompile(`^(\d+)(?:ST|ND|RD|TH)?$`)

var ordinalSchedules = map[string]string{
	"FIRST":    "1",
	"SECOND":   "2",
	"THIRD":    "3",
	"FOURTH":   "4",
	"FIFTH":    "5",
	"SIXTH":    "6",
	"SEVENTH":  "7",
	"EIGHTH":   "8",
	"NINTH":    "9",
	"TENTH":    "10",
	"ELEVENTH": "11",
	"TWELFTH":  "12",
}

// romanToInt evaluates a numeral over I, V and X with subtractive notation.
// Returns 0 for anything else.
func romanToInt(s string) int {
	vals := map[byte]int{'I': 1, 'V': 5, 'X': 10}
	total := 0
	for i := 0; i < len(s); i++ {
		v := vals[s[i]]
		if v == 0 {
			return 0
		}
		if i+1 < len(s) && vals[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

// normalizeScheduleNumber maps the many header spellings of the same
// schedule onto one label: ordinal words and suffixed ordinals become plain
// digits ("FIRST" and "1ST" → "1"), Roman numerals become digits, single
// letters stay as uppercase letters.
func normalizeScheduleNumber(raw string) string {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if ord, ok := ordinalSchedules[upper]; ok {
		return ord
	}
	if m := reOrdinalDigits.FindStringSubmatch(upper); m != nil {
		return m[1]
	}
	if n := romanToInt(upper); n > 0 {
		return strconv.Itoa(n)
	}
	return upper
}

// ScheduleExtractor recovers appendix schedules in a whole-text pass,
// independent of the chapter/section hierarchy.
type ScheduleExtractor struct{}

// NewScheduleExtractor constructs a ScheduleExtractor.
func NewScheduleExtractor() *ScheduleExtractor {
	return &ScheduleExtractor{}
}

// Extract returns the schedules found in text in order of first appearance.
// Content for each schedule runs from its header to the next schedule
// header (or a bounded tail for the last), trimmed and capped. Headers that
// normalize to the same schedule number are merged keeping the longest
// content: the table of contents and in-text cross-references repeat
// schedule headers with little or nothing beneath them, and the real body
// is the long one.
func (e *ScheduleExtractor) Extract(text string) []statute.Schedule {
	locs := reScheduleHeader.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return []statute.Schedule{}
	}

	schedules := []statute.Schedule{}
	byNumber := make(map[string]int)

	for k, loc := range locs {
		raw := "I"
		if loc[2] >= 0 {
			raw = text[loc[2]:loc[3]]
		} else if loc[4] >= 0 {
			raw = text[loc[4]:loc[5]]
		}
		number := normalizeScheduleNumber(raw)

		start := loc[0]
		end := len(text)
		if k+1 < len(locs) {
			end = locs[k+1][0]
		} else if start+scheduleTailWindow < end {
			end = start + scheduleTailWindow
		}
		content := statute.Truncate(strings.TrimSpace(text[start:end]), statute.MaxScheduleContentLength)

		if idx, ok := byNumber[number]; ok {
			if len(content) > len(schedules[idx].Content) {
				schedules[idx].Content = content
			}
			continue
		}
		byNumber[number] = len(schedules)
		schedules = append(schedules, statute.Schedule{Number: number, Content: content})
	}
	return schedules
}
