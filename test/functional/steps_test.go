package functional

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
)

const helloDescription = `source_path  = "src"
source_name  = "hello.cpp"
compile_path = "build"
install_path = "bin"
binary_name  = "hello"
`

// fakeCompiler writes "built" to whatever follows -o, standing in for c++.
const fakeCompiler = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
printf 'built\n' > "$out"
`

// aHelloProject lays out a one-file C++ project with a fake compiler at
// ./fakecxx and the default build description.
func aHelloProject(ctx context.Context) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	files := map[string]struct {
		content string
		mode    os.FileMode
	}{
		"src/hello.cpp":  {"int main() { return 0; }\n", 0o644},
		"fakecxx":        {fakeCompiler, 0o755},
		"buildvars.toml": {helloDescription, 0o644},
	}
	for name, f := range files {
		path := filepath.Join(state.workDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return ctx, err
		}
		if err := os.WriteFile(path, []byte(f.content), f.mode); err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

// theBuildDescription replaces buildvars.toml with the given document.
func theBuildDescription(ctx context.Context, doc *godog.DocString) (context.Context, error) {
	state := getState(ctx)
	path := filepath.Join(state.workDir, "buildvars.toml")
	return ctx, os.WriteFile(path, []byte(doc.Content), 0o644)
}

// iRun executes a command string in the scenario's working directory,
// replacing "buildvars" with the test binary path.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "buildvars" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.workDir

	// Keep the caller's BUILDVARS_* settings out of the scenario
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "BUILDVARS_") {
			env = append(env, kv)
		}
	}
	cmd.Env = env

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return ctx, fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}

	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileExists(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.workDir, path)
	if _, err := os.Lstat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("expected file %q to exist", fullPath)
	}
	return nil
}

func theFileDoesNotExist(ctx context.Context, path string) error {
	state := getState(ctx)
	fullPath := filepath.Join(state.workDir, path)
	if _, err := os.Lstat(fullPath); err == nil {
		return fmt.Errorf("expected file %q not to exist", fullPath)
	}
	return nil
}

func theFileContains(ctx context.Context, path, text string) error {
	state := getState(ctx)
	data, err := os.ReadFile(filepath.Join(state.workDir, path))
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("expected %s to contain %q, got:\n%s", path, text, data)
	}
	return nil
}
