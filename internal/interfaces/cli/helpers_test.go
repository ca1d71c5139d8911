package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/internal/testutil"
)

// writeSampleAct writes the shared sample act into a temp directory and
// returns its path.
func writeSampleAct(t *testing.T) string {
	t.Helper()
	return testutil.WriteSampleAct(t)
}

// writeConfigFile writes a YAML config into a temp directory and returns its
// path.
func writeConfigFile(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bareact.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

// runCommand executes the root command with the given args and returns the
// captured stdout and stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
