package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsukumogami/buildvars/internal/executor"
	"github.com/tsukumogami/buildvars/internal/log"
)

func newTestDispatcher(t *testing.T, out *bytes.Buffer, opts ...Option) (*Dispatcher, *executor.Executor) {
	t.Helper()
	exec := executor.New(executor.WithLogger(log.NewNoop()), executor.WithOutput(out))
	base := []Option{WithLogger(log.NewNoop()), WithOutput(out)}
	return New(exec, append(base, opts...)...), exec
}

func TestCompileRegistersDefaultGoal(t *testing.T) {
	var out bytes.Buffer
	d, exec := newTestDispatcher(t, &out)

	n := d.Compile("src/hello.cpp", "build/hello")

	require.Equal(t, executor.KindProgram, n.Kind)
	require.Equal(t, []*executor.Node{n}, exec.Goals())
	require.Equal(t, "will compile: target = build/hello, source = src/hello.cpp\n", out.String())
}

func TestInstallRegistersDefaultGoal(t *testing.T) {
	var out bytes.Buffer
	d, exec := newTestDispatcher(t, &out)

	n := d.Install("build/hello", "/tmp/img/usr/bin")

	require.Equal(t, executor.KindInstall, n.Kind)
	require.Equal(t, "/tmp/img/usr/bin/hello", n.Target)
	require.Equal(t, []*executor.Node{n}, exec.Goals())
	require.Equal(t, "will install: dir = /tmp/img/usr/bin, source = build/hello\n", out.String())
}

func fixed(name, path string) Producer {
	return Producer{Name: name, Path: func() string { return path }}
}

func TestCleanDeletesRegularFilesInWorkDir(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(work, "build"), 0755))
	for _, f := range []string{".buildvars.db", "build/hello", "cache.conf"} {
		require.NoError(t, os.WriteFile(filepath.Join(work, f), []byte("x"), 0644))
	}

	var out bytes.Buffer
	d, _ := newTestDispatcher(t, &out, WithWorkDir(work))
	report := d.Clean(
		fixed("build database", ".buildvars.db"),
		fixed("object file", "src/hello.o"),
		fixed("compiled binary", "build/hello"),
		fixed("variables cache", filepath.Join(work, "cache.conf")),
	)

	require.Len(t, report.Deleted, 3)
	require.Len(t, report.Skipped, 1)
	require.Equal(t, "object file", report.Skipped[0].Name)
	require.Equal(t, "does not exist", report.Skipped[0].Reason)
	require.NoFileExists(t, filepath.Join(work, "build", "hello"))
	require.DirExists(t, filepath.Join(work, "build"))
	require.Contains(t, out.String(), "Removed ")
}

func TestCleanSkipsUnsafePaths(t *testing.T) {
	work := t.TempDir()
	outside := filepath.Join(t.TempDir(), "outside")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(work, "build"), 0755))

	tests := []struct {
		name   string
		path   string
		reason string
	}{
		{"empty path", "", "path unknown"},
		{"directory", "build", "not a regular file"},
		{"absolute outside", outside, "outside the working directory"},
		{"relative escape", filepath.Join("..", filepath.Base(filepath.Dir(outside)), "outside"), "outside the working directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			d, _ := newTestDispatcher(t, &out, WithWorkDir(work))

			report := d.Clean(fixed(tt.name, tt.path))
			require.Empty(t, report.Deleted)
			require.Len(t, report.Skipped, 1)
			require.Equal(t, tt.reason, report.Skipped[0].Reason)
		})
	}
	require.FileExists(t, outside)
	require.DirExists(t, filepath.Join(work, "build"))
}

func TestCleanNeverDeletesEtcPasswd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no /etc/passwd on windows")
	}
	if _, err := os.Stat("/etc/passwd"); err != nil {
		t.Skip("/etc/passwd not present")
	}

	var out bytes.Buffer
	d, _ := newTestDispatcher(t, &out, WithWorkDir(t.TempDir()))

	report := d.Clean(fixed("install target", "/etc/passwd"))
	require.Empty(t, report.Deleted)
	require.Equal(t, "outside the working directory", report.Skipped[0].Reason)
	require.FileExists(t, "/etc/passwd")
}

func TestCleanSkipsSymlinkToDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	work := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(work, "dir"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(work, "dir"), filepath.Join(work, "link")))

	var out bytes.Buffer
	d, _ := newTestDispatcher(t, &out, WithWorkDir(work))

	report := d.Clean(fixed("link", "link"))
	require.Empty(t, report.Deleted)
	require.Equal(t, "not a regular file", report.Skipped[0].Reason)
}

func TestCleanIsRepeatable(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, "a"), []byte("x"), 0644))

	var out bytes.Buffer
	d, _ := newTestDispatcher(t, &out, WithWorkDir(work))

	first := d.Clean(fixed("a", "a"))
	second := d.Clean(fixed("a", "a"))
	require.Len(t, first.Deleted, 1)
	require.Empty(t, second.Deleted)
	require.Len(t, second.Skipped, 1)
}
