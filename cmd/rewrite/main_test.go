package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libA = `package a;
public class A {
   public void foo(String s, Integer m, Integer n) {}
   public void foo(Integer n, Integer m, String s) {}
}
`

const callerB = `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("mystring", 1, 2);
   }
}
`

const recipe = `deps = ["a/A.java"]

[[reorder]]
pattern = "a.A foo(String, ..)"
order = ["n", "m", "s"]

[[literal]]
pattern = "a.A foo(String, ..)"
arg = 0
set = "anotherstring"
`

func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd, c := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	c.teardown(&stderr)
	return stdout.String(), stderr.String(), err
}

func TestApplyPrintsRewrittenText(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})

	out, _, err := run(t, "apply", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(callerB, `a.foo("mystring", 1, 2)`, `a.foo(2, 1, "anotherstring")`, 1), out)
}

func TestApplyDiff(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})

	out, _, err := run(t, "apply", "--diff", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.NoError(t, err)
	assert.Contains(t, out, `-       a.foo("mystring", 1, 2);`)
	assert.Contains(t, out, `+       a.foo(2, 1, "anotherstring");`)
}

func TestApplyWrite(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})
	target := filepath.Join(dir, "B.java")

	out, errOut, err := run(t, "apply", "--write", "--recipe", filepath.Join(dir, "rewrite.toml"), target)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "rewrote "+filepath.ToSlash(target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `a.foo(2, 1, "anotherstring")`)
}

func TestApplyWriteWithoutUI(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})
	target := filepath.Join(dir, "B.java")

	_, errOut, err := run(t, "apply", "--write", "--ui", "off", "--recipe", filepath.Join(dir, "rewrite.toml"), target)
	require.NoError(t, err)
	assert.Contains(t, errOut, "rewrote "+filepath.ToSlash(target))
}

func TestApplyBadUIMode(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})
	_, _, err := run(t, "apply", "--write", "--ui", "loud", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --ui value")
}

func TestUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	var buf bytes.Buffer
	assert.False(t, shouldUseTUI(uiModeAuto, &buf), "a buffer is not a terminal")
	assert.True(t, shouldUseTUI(uiModeOn, &buf))
	assert.False(t, shouldUseTUI(uiModeOff, &buf))
}

func TestApplyWriteAndDiffConflict(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})
	_, _, err := run(t, "apply", "--write", "--diff", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.Error(t, err)
}

func TestApplyUnknownParameterReportsDiagnostic(t *testing.T) {
	bad := strings.Replace(recipe, `order = ["n", "m", "s"]`, `order = ["n", "zz"]`, 1)
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": bad})

	out, _, err := run(t, "apply", "--format", "json", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.ErrorIs(t, err, errReported)

	// stdout carries nothing but the JSON report when every file failed
	var report struct {
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, "RWR3002", report.Diagnostics[0].Code)
}

func TestApplySyntaxError(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": "class B { void f( }\n", "rewrite.toml": recipe})

	_, errOut, err := run(t, "apply", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "ERROR SYN")
}

func TestFindListsCallSites(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB})

	out, _, err := run(t, "find", "--pattern", "a.A foo(..)", "--dep", filepath.Join(dir, "a", "A.java"), filepath.Join(dir, "B.java"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], ":5:10\ta.A.foo(java.lang.String, java.lang.Integer, java.lang.Integer)"), lines[0])
}

func TestFindBadPattern(t *testing.T) {
	dir := workspace(t, map[string]string{"B.java": callerB})
	_, _, err := run(t, "find", "--pattern", "a.A foo(", filepath.Join(dir, "B.java"))
	require.Error(t, err)
}

func TestIndexThenApply(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB})
	idx := filepath.Join(dir, "deps.idx")

	_, errOut, err := run(t, "index", "--out", idx, filepath.Join(dir, "a", "A.java"))
	require.NoError(t, err)
	assert.Contains(t, errOut, "indexed 1 classes")

	noDeps := strings.Replace(recipe, `deps = ["a/A.java"]`, `index = "deps.idx"`, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rewrite.toml"), []byte(noDeps), 0o600))
	out, _, err := run(t, "apply", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.NoError(t, err)
	assert.Contains(t, out, `a.foo(2, 1, "anotherstring")`)
}

func TestVersionJSON(t *testing.T) {
	out, _, err := run(t, "version", "--format", "json", "--hash")
	require.NoError(t, err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "rewrite", payload.Tool)
	assert.NotEmpty(t, payload.Version)
	assert.NotEmpty(t, payload.GitCommit)
}

func TestBadColorMode(t *testing.T) {
	_, _, err := run(t, "--color", "rainbow", "version")
	require.Error(t, err)
}

func TestTimings(t *testing.T) {
	dir := workspace(t, map[string]string{"a/A.java": libA, "B.java": callerB, "rewrite.toml": recipe})
	_, errOut, err := run(t, "--timings", "apply", "--recipe", filepath.Join(dir, "rewrite.toml"), filepath.Join(dir, "B.java"))
	require.NoError(t, err)
	assert.Contains(t, errOut, "parse ")
	assert.Contains(t, errOut, "rewrite ")
}
