package executor

import (
	"fmt"
	"strings"
)

// BuildError reports a failed build action.
type BuildError struct {
	Target   string   // Node target being built
	Command  []string // Failing command line, empty for file operations
	ExitCode int      // Exit status, -1 when the command did not run
	Output   string   // Combined output of the command
	Err      error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "building %s", e.Target)
	if len(e.Command) > 0 {
		fmt.Fprintf(&sb, ": %s", strings.Join(e.Command, " "))
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&sb, "\nOutput: %s", out)
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Err
}
