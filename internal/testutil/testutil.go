// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// FakeCompiler writes a shell script standing in for c++. It creates the
// file named after -o and appends its arguments, one line per call, to the
// returned calls file. Tests using it are skipped on Windows.
func FakeCompiler(t *testing.T) (cxx, calls string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}

	dir := t.TempDir()
	cxx = filepath.Join(dir, "fakecxx")
	calls = filepath.Join(dir, "calls")
	script := `#!/bin/sh
echo "$*" >> "` + calls + `"
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
printf 'built\n' > "$out"
`
	if err := os.WriteFile(cxx, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write fake compiler: %v", err)
	}
	return cxx, calls
}

// CountLines returns the number of lines in path, 0 if it does not exist.
func CountLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return strings.Count(string(data), "\n")
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
