package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
)

func TestValidateCommand_TextReport(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "validate", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "PARSING VALIDATION REPORT")
	assert.Contains(t, stdout, "Overall Status: PASS")
}

func TestValidateCommand_JSONReport(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "validate", path, "-o", "json")
	require.NoError(t, err)

	var report statute.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.True(t, report.IsValid)
	assert.True(t, report.Stats.StructureValidity)
	assert.True(t, report.Stats.ContentPreservation)
	assert.True(t, report.Stats.EntityExtraction)
	assert.True(t, report.Stats.CrossReferenceAccuracy)
	assert.InDelta(t, 1.0, report.Stats.OverallScore, 0.001)
}

func TestValidateCommand_TableSummary(t *testing.T) {
	path := writeSampleAct(t)

	stdout, _, err := runCommand(t, "validate", path, "-o", "table")
	require.NoError(t, err)

	assert.Contains(t, stdout, "CHECK")
	assert.Contains(t, stdout, "structure")
	assert.Contains(t, stdout, "PASS")
}

func TestValidateCommand_StrictWithValidDocument(t *testing.T) {
	path := writeSampleAct(t)

	_, _, err := runCommand(t, "validate", path, "--strict")
	assert.NoError(t, err)
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, _, err := runCommand(t, "validate", "/nonexistent/act.txt")
	assert.Error(t, err)
}
