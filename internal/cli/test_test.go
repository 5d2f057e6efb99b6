package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: send_accept
description: "A request is sent and accepted"
users:
  - username: alice
  - username: bob
flow:
  - op: send
    actor: alice
    target: bob
  - op: accept
    actor: bob
    target: alice
    expect:
      to: friends
assertions:
  - type: consistent
`

const failingScenario = `name: wrong_state
description: "Expects a friendship that never happens"
users:
  - username: alice
  - username: bob
flow:
  - op: send
    actor: alice
    target: bob
assertions:
  - type: state
    user: alice
    other: bob
    state: friends
`

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func runTestCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCommand(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentPath(t *testing.T) {
	out, err := runTestCommand(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "failed to find scenarios")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := runTestCommand(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, err := runTestCommand(t, "json", t.TempDir())
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandRepositoryScenarios(t *testing.T) {
	out, err := runTestCommand(t, "text", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ partial_write_retry")
	assert.Contains(t, out, "✓ request_lifecycle")
	assert.Contains(t, out, "2 passed, 0 failed, 2 total")
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	writeScenario(t, scenarios, "send_accept.yaml", passingScenario)

	out, err := runTestCommand(t, "text", scenarios, "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ send_accept (golden updated)")

	golden, err := os.ReadFile(filepath.Join(root, "golden", "send_accept.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "send_accept"`)

	out, err = runTestCommand(t, "text", scenarios)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ send_accept\n")

	require.NoError(t, os.WriteFile(filepath.Join(root, "golden", "send_accept.golden"), []byte("{}\n"), 0644))
	out, err = runTestCommand(t, "text", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandGoldenDirFlag(t *testing.T) {
	root := t.TempDir()
	path := writeScenario(t, filepath.Join(root, "s"), "send_accept.yaml", passingScenario)
	goldenDir := filepath.Join(root, "elsewhere")

	_, err := runTestCommand(t, "text", path, "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(goldenDir, "send_accept.golden"))
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	scenarios := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, scenarios, "send_accept.yaml", passingScenario)
	writeScenario(t, scenarios, "wrong_state.yaml", failingScenario)

	out, err := runTestCommand(t, "json", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	assert.NotContains(t, out, "Usage:")
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, 1, response.Data.Passed)
	assert.Equal(t, 1, response.Data.Failed)
	require.NotNil(t, response.Error)
	assert.Equal(t, CodeTestFailed, response.Error.Code)
	assert.False(t, response.Data.Scenarios[1].Pass)
	assert.NotEmpty(t, response.Data.Scenarios[1].Errors)
}

func TestTestCommandLoadError(t *testing.T) {
	scenarios := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, scenarios, "broken.yaml", "name: broken\nunknown_key: 1\n")

	out, err := runTestCommand(t, "text", scenarios)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestHelpText(t *testing.T) {
	out, err := runTestCommand(t, "text", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "golden")
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "--golden-dir")
}

func TestFilterScenarios(t *testing.T) {
	files := []string{"a/cart-test.yaml", "a/cart-add.yml", "a/inventory-test.yaml"}

	kept, err := filterScenarios(files, "cart-*")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/cart-test.yaml", "a/cart-add.yml"}, kept)

	kept, err = filterScenarios(files, "")
	require.NoError(t, err)
	assert.Equal(t, files, kept)

	_, err = filterScenarios(files, "[")
	require.Error(t, err)
}

func TestGoldenFilePath(t *testing.T) {
	testCases := []struct {
		dir      string
		file     string
		name     string
		expected string
	}{
		{"", "/path/to/scenarios/x.yaml", "lifecycle", "/path/to/golden/lifecycle.golden"},
		{"", "scenarios/x.yml", "lifecycle", "golden/lifecycle.golden"},
		{"/g", "scenarios/x.yaml", "lifecycle", "/g/lifecycle.golden"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, goldenFilePath(tc.dir, tc.file, tc.name))
	}
}
