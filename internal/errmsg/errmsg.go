// Package errmsg defines the configuration error kinds of buildvars and
// formats errors with actionable suggestions.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format returns a formatted error message with possible causes and suggestions.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return formatConfigError(err, cfgErr)
	}

	errMsg := err.Error()
	if isPermissionError(errMsg) {
		return formatPermissionError(errMsg)
	}

	// Return original error for unrecognized types
	return errMsg
}

// Fprint writes the formatted error to w, prefixed with "Error: ".
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", strings.TrimRight(Format(err), "\n"))
}

func formatConfigError(err error, cfgErr *ConfigError) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	if s := cfgErr.Suggestion(); s != "" {
		sb.WriteString("\nSuggestion:\n")
		sb.WriteString("  - ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatPermissionError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The destination directory is owned by another user\n")
	sb.WriteString("  - The build directory is read-only\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check the permissions of the destination and build directories\n")
	sb.WriteString("  - Install into a staging directory (DESTDIR) instead of the live system\n")

	return sb.String()
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
