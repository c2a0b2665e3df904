package main

import (
	"errors"
	"os"

	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/executor"
)

// Exit codes for different error types.
// These enable packaging scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid flags or arguments
	ExitUsage = 2

	// ExitConfig indicates a configuration error (OS not detected, bad
	// build description, bad path, unreadable cache)
	ExitConfig = 3

	// ExitBuildFailed indicates a compile or install action failed
	ExitBuildFailed = 4
)

// exitCodeFor maps an error to its exit code.
func exitCodeFor(err error) int {
	var usageErr *usageError
	var buildErr *executor.BuildError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usageErr):
		return ExitUsage
	case errmsg.IsConfigError(err):
		return ExitConfig
	case errors.As(err, &buildErr):
		return ExitBuildFailed
	default:
		return ExitGeneral
	}
}

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	os.Exit(code)
}
