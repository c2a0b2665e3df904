package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/executor"
	"github.com/tsukumogami/buildvars/internal/profile"
	"github.com/tsukumogami/buildvars/internal/vars"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"Yes", true},
		{"on", true},
		{"ON", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"off", false},
		{"random", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := isTruthy(tt.input)
			if got != tt.want {
				t.Errorf("isTruthy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetermineLogLevel(t *testing.T) {
	origQuiet := quietFlag
	origVerbose := verboseFlag
	origDebug := debugFlag

	defer func() {
		quietFlag = origQuiet
		verboseFlag = origVerbose
		debugFlag = origDebug
	}()

	tests := []struct {
		name       string
		quietF     bool
		verboseF   bool
		debugF     bool
		envQuiet   string
		envVerbose string
		envDebug   string
		want       slog.Level
	}{
		{name: "default is info", want: slog.LevelInfo},
		{name: "quiet flag", quietF: true, want: slog.LevelError},
		{name: "verbose flag", verboseF: true, want: slog.LevelInfo},
		{name: "debug flag", debugF: true, want: slog.LevelDebug},
		{name: "debug beats quiet", quietF: true, debugF: true, want: slog.LevelDebug},
		{name: "flag beats env", quietF: true, envDebug: "1", want: slog.LevelError},
		{name: "env quiet", envQuiet: "true", want: slog.LevelError},
		{name: "env verbose", envVerbose: "yes", want: slog.LevelInfo},
		{name: "env debug", envDebug: "on", want: slog.LevelDebug},
		{name: "env not truthy", envQuiet: "no", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietFlag = tt.quietF
			verboseFlag = tt.verboseF
			debugFlag = tt.debugF
			t.Setenv("BUILDVARS_QUIET", tt.envQuiet)
			t.Setenv("BUILDVARS_VERBOSE", tt.envVerbose)
			t.Setenv("BUILDVARS_DEBUG", tt.envDebug)

			if got := determineLogLevel(); got != tt.want {
				t.Errorf("determineLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneral},
		{"usage", &usageError{err: errors.New("unknown flag: --nope")}, ExitUsage},
		{"config", errmsg.New(errmsg.ErrTypeNoOSMatch, "operating system not detected"), ExitConfig},
		{"wrapped config", fmt.Errorf("resolving: %w", errmsg.New(errmsg.ErrTypeBadPathSegment, "bad")), ExitConfig},
		{"build", &executor.BuildError{Target: "hello", ExitCode: 1}, ExitBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUsageErrorMessage(t *testing.T) {
	inner := errors.New("unknown shorthand flag: 'x'")
	err := &usageError{err: inner}

	if !strings.HasPrefix(err.Error(), "unknown shorthand flag") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "buildvars --help") {
		t.Errorf("expected help hint, got %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("usageError should unwrap to the flag error")
	}
}

func TestRenderProfiles(t *testing.T) {
	table, err := profile.NewTable(vars.BuiltinProfiles(), vars.DetectionAnchor)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	var buf bytes.Buffer
	renderProfiles(&buf, table, false)
	out := buf.String()

	lines := strings.Split(out, "\n")
	if len(lines) < 4 {
		t.Fatalf("expected header and three profiles, got:\n%s", out)
	}
	header := strings.Fields(lines[0])
	wantHeader := []string{"KEY", "NAME", "cpp_compiler", "cpp_compiler_flags", "destdir", "linker_flags", "prefix"}
	if strings.Join(header, " ") != strings.Join(wantHeader, " ") {
		t.Errorf("header = %v, want %v", header, wantHeader)
	}

	wantRows := [][]string{
		{"gentoo", "Gentoo", "CXX", "CXXFLAGS", "DESTDIR", "LDFLAGS", "PREFIX"},
		{"debian", "Debian-based", "CXX", "CXXFLAGS", "install_root", "LDFLAGS", "prefix"},
		{"rhel", "RPM-based", "CXX", "CXXFLAGS", "BUILDROOT", "LDFLAGS", "PREFIX"},
	}
	for i, want := range wantRows {
		if got := strings.Fields(lines[i+1]); strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("row %d = %v, want %v", i, got, want)
		}
	}

	if strings.Contains(out, "\x1b[") {
		t.Errorf("unstyled output contains escape sequences:\n%q", out)
	}
	if !strings.Contains(out, "first profile whose destdir argument is non-empty") {
		t.Errorf("expected anchor footer, got:\n%s", out)
	}
}

func TestRenderProfilesMissingArgument(t *testing.T) {
	profiles := profile.Merge(vars.BuiltinProfiles(), []profile.Profile{
		{Key: "slack", Name: "Slackware", Args: map[string]string{vars.Destdir: "PKG"}},
	})
	table, err := profile.NewTable(profiles, vars.DetectionAnchor)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	var buf bytes.Buffer
	renderProfiles(&buf, table, false)

	var slack []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "slack") {
			slack = strings.Fields(line)
		}
	}
	want := []string{"slack", "Slackware", "-", "-", "PKG", "-", "-"}
	if strings.Join(slack, " ") != strings.Join(want, " ") {
		t.Errorf("slack row = %v, want %v", slack, want)
	}
}
