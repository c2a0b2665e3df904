package errmsg

import (
	"errors"
	"fmt"
)

// ErrorType classifies configuration errors. Every configuration error is
// terminal for the run; the type only drives the message and suggestion.
type ErrorType int

const (
	// ErrTypeNoOSMatch indicates no profile's detection argument was passed
	ErrTypeNoOSMatch ErrorType = iota
	// ErrTypeDoubleDetect indicates OS detection was attempted a second time
	ErrTypeDoubleDetect
	// ErrTypeBadPathSegment indicates a path segment with forbidden characters
	ErrTypeBadPathSegment
	// ErrTypeEmptyDetectionArg indicates a profile without a detection argument
	ErrTypeEmptyDetectionArg
	// ErrTypeUnknownGroup indicates a request for an undefined variable group
	ErrTypeUnknownGroup
	// ErrTypeBadBuildDescription indicates a missing or malformed build description
	ErrTypeBadBuildDescription
	// ErrTypeBadCacheFile indicates the variables cache file could not be parsed
	ErrTypeBadCacheFile
	// ErrTypeUnsupportedVersion indicates the build description requires another tool version
	ErrTypeUnsupportedVersion
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNoOSMatch:
		return "no-os-match"
	case ErrTypeDoubleDetect:
		return "double-detect"
	case ErrTypeBadPathSegment:
		return "bad-path-segment"
	case ErrTypeEmptyDetectionArg:
		return "empty-detection-argument"
	case ErrTypeUnknownGroup:
		return "unknown-group"
	case ErrTypeBadBuildDescription:
		return "bad-build-description"
	case ErrTypeBadCacheFile:
		return "bad-cache-file"
	case ErrTypeUnsupportedVersion:
		return "unsupported-version"
	default:
		return "unknown"
	}
}

// ConfigError is a fatal configuration error. Core packages return it instead
// of exiting; cmd/buildvars turns it into a diagnostic and an exit code.
type ConfigError struct {
	Type    ErrorType
	Message string // Human-readable error message
	Err     error  // Underlying error (if any)
}

// New creates a ConfigError with a formatted message.
func New(t ErrorType, format string, args ...any) *ConfigError {
	return &ConfigError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a ConfigError around an underlying error.
func Wrap(t ErrorType, err error, format string, args ...any) *ConfigError {
	return &ConfigError{Type: t, Message: fmt.Sprintf(format, args...), Err: err}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain support
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable suggestion for the user based on the error type.
// Returns an empty string if no specific suggestion is available.
func (e *ConfigError) Suggestion() string {
	switch e.Type {
	case ErrTypeNoOSMatch:
		return "Pass the destination directory argument your packaging system uses (e.g. DESTDIR=..., install_root=... or BUILDROOT=...). " +
			"An unsupported OS can be simulated by passing the argument names of a supported one; run 'buildvars profiles' to list them"
	case ErrTypeDoubleDetect:
		return "Re-detecting the operating system is not supported within one run"
	case ErrTypeBadPathSegment:
		return "Paths may only contain letters, digits, '_', '.', '-' and '/'"
	case ErrTypeEmptyDetectionArg:
		return "Every profile in the build description must name its destdir argument"
	case ErrTypeBadBuildDescription:
		return "Check that buildvars.toml (or buildvars.hcl) sets source_path, source_name, compile_path, install_path and binary_name"
	case ErrTypeBadCacheFile:
		return "Run 'buildvars -c' to remove the variables cache, then configure again"
	case ErrTypeUnsupportedVersion:
		return "Install a buildvars version that satisfies the build description's 'requires' constraint"
	default:
		return ""
	}
}

// Is reports whether err is a ConfigError of the given type.
func Is(err error, t ErrorType) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Type == t
	}
	return false
}

// IsConfigError reports whether err (or anything it wraps) is a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
