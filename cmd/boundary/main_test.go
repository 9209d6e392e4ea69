package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBinaryPath string

func TestMain(m *testing.M) {
	tempBinary := filepath.Join(os.TempDir(), "boundary-test-"+fmt.Sprintf("%d", time.Now().UnixNano()))

	buildCmd := exec.Command("go", "build", "-o", tempBinary, ".")
	var buildOut bytes.Buffer
	buildCmd.Stdout = &buildOut
	buildCmd.Stderr = &buildOut

	if err := buildCmd.Run(); err != nil {
		fmt.Printf("failed to build CLI for testing: %v\nbuild output: %s\n", err, buildOut.String())
		os.Exit(1)
	}

	testBinaryPath = tempBinary

	code := m.Run()

	os.Remove(testBinaryPath)
	os.Exit(code)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupLayeredProject builds a two-module project where mod_high is
// declared as depending on mod_low, plus a third module that imports
// mod_low without declaring the dependency.
func setupLayeredProject(t *testing.T) string {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "mod_low", "__init__.py"), "")
	writeFile(t, filepath.Join(dir, "mod_low", "core.py"), "def helper():\n    return 1\n")
	writeFile(t, filepath.Join(dir, "mod_high", "__init__.py"), "")
	writeFile(t, filepath.Join(dir, "mod_high", "api.py"), "import mod_low.core\n")
	writeFile(t, filepath.Join(dir, "mod_stray", "__init__.py"), "")
	writeFile(t, filepath.Join(dir, "mod_stray", "app.py"), "import mod_low.core\n")

	writeFile(t, filepath.Join(dir, "tach.toml"), `
source_roots = ["."]

[[modules]]
path = "mod_low"

[[modules]]
path = "mod_high"
depends_on = ["mod_low"]

[[modules]]
path = "mod_stray"
`)

	return dir
}

func runCLI(t *testing.T, dir string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(testBinaryPath, args...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run boundary: %v", err)
		}
	}
	return out.String(), exitCode
}

func TestCheckFailsOnUndeclaredDependency(t *testing.T) {
	dir := setupLayeredProject(t)

	output, code := runCLI(t, dir, "check")
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "mod_stray")
	assert.Contains(t, output, "mod_low")
}

func TestCheckPassesWhenDependencyDeclared(t *testing.T) {
	dir := setupLayeredProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "mod_stray")))

	output, code := runCLI(t, dir, "check")
	assert.Equal(t, 0, code, "output: %s", output)
}

func TestCheckExactReportsUnusedDependency(t *testing.T) {
	dir := setupLayeredProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "mod_stray")))
	writeFile(t, filepath.Join(dir, "tach.toml"), `
source_roots = ["."]

[[modules]]
path = "mod_low"

[[modules]]
path = "mod_high"
depends_on = ["mod_low", "mod_unused"]

[[modules]]
path = "mod_unused"
`)

	output, code := runCLI(t, dir, "check", "--exact")
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "mod_unused")
}

func TestCheckMissingConfigDefaultsToPermissive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.py"), "import os\n")

	_, code := runCLI(t, dir, "check")
	assert.Equal(t, 0, code)
}

func TestCheckWarnsOnUnknownConfigKey(t *testing.T) {
	dir := setupLayeredProject(t)
	writeFile(t, filepath.Join(dir, "tach.toml"), `
source_roots = ["."]
made_up_key = true

[[modules]]
path = "mod_low"

[[modules]]
path = "mod_high"
depends_on = ["mod_low"]

[[modules]]
path = "mod_stray"
depends_on = ["mod_low"]
`)

	output, code := runCLI(t, dir, "check")
	assert.Equal(t, 0, code, "output: %s", output)
	assert.Contains(t, output, "made_up_key")
	assert.Contains(t, output, "configuration")
}

func TestReportUnknownModuleSuggestsClosestMatch(t *testing.T) {
	dir := setupLayeredProject(t)

	output, code := runCLI(t, dir, "report", "mod_lwo")
	assert.Equal(t, 2, code)
	assert.Contains(t, output, "mod_low")
}

func TestReportKnownModulePrintsDependenciesAndUsages(t *testing.T) {
	dir := setupLayeredProject(t)

	output, code := runCLI(t, dir, "report", "mod_low")
	assert.Equal(t, 0, code)
	assert.Contains(t, output, "mod_high")
}

func TestSyncAddsMissingDependencyAndPreservesPassingCheck(t *testing.T) {
	dir := setupLayeredProject(t)

	_, code := runCLI(t, dir, "sync")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "tach.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "mod_low")

	_, code = runCLI(t, dir, "check")
	assert.Equal(t, 0, code)
}

func TestSyncPrunesModuleWithNoSurvivingFiles(t *testing.T) {
	dir := setupLayeredProject(t)
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "mod_stray")))

	writeFile(t, filepath.Join(dir, "tach.toml"), `
source_roots = ["."]

[[modules]]
path = "mod_low"

[[modules]]
path = "mod_high"
depends_on = ["mod_low"]

[[modules]]
path = "mod_gone"
`)

	_, code := runCLI(t, dir, "sync")
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(dir, "tach.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "mod_gone")
}

func TestTestCommandCachesRepeatRun(t *testing.T) {
	dir := setupLayeredProject(t)
	writeFile(t, filepath.Join(dir, "tach.toml"), `
source_roots = ["."]

[[modules]]
path = "mod_low"

[[modules]]
path = "mod_high"
depends_on = ["mod_low"]

[[modules]]
path = "mod_stray"

[cache]
`)

	first, code := runCLI(t, dir, "test", "true")
	require.Equal(t, 0, code, "output: %s", first)

	second, code := runCLI(t, dir, "test", "true")
	require.Equal(t, 0, code, "output: %s", second)
	assert.Contains(t, second, "Cached results")
}

func TestTestCommandPropagatesNonZeroExit(t *testing.T) {
	dir := setupLayeredProject(t)

	_, code := runCLI(t, dir, "test", "false")
	assert.Equal(t, 1, code)
}
