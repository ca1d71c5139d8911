package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleActText is a small but structurally complete bare act: one chapter,
// four sections, formal definitions, a penalty section and cross-references,
// so every extraction pass has something to find. CLI and integration tests
// share it so their expectations stay aligned.
const SampleActText = `THE REGIONAL DATA CENTRES ACT, 2015
ACT NO. 21 OF 2015
CHAPTER I
PRELIMINARY
1. Short title, extent and commencement.
(1) This Act may be called the Regional Data Centres Act, 2015.
(2) It extends to the whole of India.
(3) It shall come into force on such date as the Central Government may, by notification in the Official Gazette, appoint.
2. Definitions.
In this Act, unless the context otherwise requires,
(a) "Board" means the Regional Data Centres Board established under section 3;
(b) "data centre" means any premises used for the hosting of computing facilities and notified as a data centre under this Act;
(c) words and expressions used but not defined in this Act shall carry the definition assigned to them under the Information Technology Act, 2000.
3. Establishment of the Board.
(1) The Central Government may, by notification in the Official Gazette, establish a Board to be known as the Regional Data Centres Board.
(2) The Board shall be the licensing authority for data centres and shall have the power to regulate their operation.
4. Penalty for contravention.
Whoever establishes or operates a data centre in contravention of section 3 shall be punishable with imprisonment for a term which may extend to two years, or with fine which may extend to fifty thousand rupees, or with both, and the penalty so imposed shall be without prejudice to any other action under this Act.
`

// SampleActWithTOCText is the gazette layout with an arrangement-of-sections
// block before the body: the chapter heading and every section title appear
// twice, and a schedule follows the last section. Content detection must skip
// past the front matter, and the naive validator counts the duplicated
// headings, so a parse of this text is expected to carry validation errors.
const SampleActWithTOCText = `THE INLAND FISHERIES ACT, 1948
ACT NO. 14 OF 1948
ARRANGEMENT OF SECTIONS
CHAPTER I
PRELIMINARY
SECTIONS
1. Short title and application.
2. Definitions.
3. Licensing of fishing vessels.
4. Penalty for unlicensed fishing.
THE INLAND FISHERIES ACT, 1948
ACT NO. 14 OF 1948
CHAPTER I
PRELIMINARY
1. Short title and application.
(1) This Act may be called the Inland Fisheries Act, 1948.
(2) It applies to all inland waters of the State.
2. Definitions.
In this Act, unless the context otherwise requires,
(a) "licence" means a licence granted under section 3;
(b) "fishing vessel" means any boat or craft used for the taking of fish;
(c) words not defined in this Act carry the definition given to them in the Indian Fisheries Act, 1897.
3. Licensing of fishing vessels.
(1) The State Government may appoint a licensing authority for fishing vessels.
(2) The licensing authority shall have the power to grant, suspend or cancel a licence in the prescribed manner.
4. Penalty for unlicensed fishing.
Whoever uses a fishing vessel in contravention of section 3 shall be punishable with fine which may extend to five hundred rupees, and the penalty shall be recoverable as an arrear of land revenue.
THE SCHEDULE
(See section 3)
Forms of application for a licence and the fees payable for each class of fishing vessel.
`

// WriteSampleAct writes SampleActText into a fresh temp directory and returns
// the file path.
func WriteSampleAct(tb testing.TB) string {
	tb.Helper()
	return WriteDocument(tb, "regional_data_centres_2015.txt", SampleActText)
}

// WriteDocument writes text under name in a fresh temp directory owned by the
// test and returns the full path.
func WriteDocument(tb testing.TB, name, text string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		tb.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
