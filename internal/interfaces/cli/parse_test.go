package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

func TestParseCommand_SummaryJSON(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "parse", path, "-o", "json")
	require.NoError(t, err)

	var summary parseSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))

	assert.Equal(t, "Regional Data Centres", summary.Name)
	assert.Equal(t, 2015, summary.Year)
	assert.Equal(t, "No. 21 of 2015", summary.ActNumber)
	assert.Equal(t, "statute_regional_data_centres_2015", summary.DocumentID)
	assert.Equal(t, "plain", summary.Method)
	assert.Equal(t, 1, summary.Chapters)
	assert.Equal(t, 4, summary.Sections)
	assert.GreaterOrEqual(t, summary.Definitions, 2)
	assert.GreaterOrEqual(t, summary.Penalties, 1)
	assert.GreaterOrEqual(t, summary.CrossReferences, 1)
	assert.True(t, summary.Valid)
}

func TestParseCommand_TextSummary(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "parse", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Regional Data Centres, 2015")
	assert.Contains(t, stdout, "statute_regional_data_centres_2015")
	assert.Contains(t, stdout, "PASS")
}

func TestParseCommand_TableOutput(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "parse", path, "-o", "table")
	require.NoError(t, err)

	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "Regional Data Centres")
}

func TestParseCommand_FullJSON(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "parse", path, "--full", "-o", "json")
	require.NoError(t, err)

	var act statute.Act
	require.NoError(t, json.Unmarshal([]byte(stdout), &act))

	assert.Equal(t, "Regional Data Centres", act.Name)
	require.Len(t, act.Chapters, 1)
	assert.Len(t, act.Chapters[0].SectionNumbers, 4)
	require.NotNil(t, act.Metadata.Validation)
	assert.True(t, act.Metadata.Validation.IsValid)
}

func TestParseCommand_WritesOut(t *testing.T) {
	path := writeSampleAct(t)
	outDir := filepath.Join(t.TempDir(), "parsed")

	_, _, err := runCommand(t, "parse", path, "--out", outDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "statute_regional_data_centres_2015.json"))
	require.NoError(t, err)

	var act statute.Act
	require.NoError(t, json.Unmarshal(data, &act))
	assert.Equal(t, 2015, act.Year)
}

func TestParseCommand_MutuallyExclusiveOCRFlags(t *testing.T) {
	path := writeSampleAct(t)

	_, _, err := runCommand(t, "parse", path, "--force-ocr", "--no-ocr")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestParseCommand_MissingFile(t *testing.T) {
	_, _, err := runCommand(t, "parse", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAcquisitionFailed))
}

func TestParseCommand_RequiresFileArgument(t *testing.T) {
	_, _, err := runCommand(t, "parse")
	assert.Error(t, err)
}
