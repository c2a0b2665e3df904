// Package args holds the raw invocation arguments of a build run:
// NAME=VALUE assignments, bare command-line targets and boolean options.
package args

import "strings"

// Well-known option names.
const (
	OptionClean  = "clean"
	OptionDryRun = "dry-run"
)

// InstallArgument is the argument that switches a run to install mode.
const InstallArgument = "INSTALL"

// Source is the Argument Source of one run. Values are fixed once the
// run starts.
type Source struct {
	arguments map[string]string
	targets   []string
	options   map[string]bool
}

// Parse splits positional arguments into NAME=VALUE assignments and targets.
// The assignment is split on the first '='; a repeated name keeps the last
// value. An argument with an empty name ("=x") is treated as a target.
func Parse(argv []string) *Source {
	s := &Source{
		arguments: make(map[string]string),
		options:   make(map[string]bool),
	}
	for _, a := range argv {
		name, value, ok := strings.Cut(a, "=")
		if ok && name != "" {
			s.arguments[name] = value
			continue
		}
		s.targets = append(s.targets, a)
	}
	return s
}

// Get returns the value of a named argument, or "" if it was not passed.
func (s *Source) Get(name string) string {
	return s.arguments[name]
}

// Lookup returns the value of a named argument and whether it was passed.
func (s *Source) Lookup(name string) (string, bool) {
	v, ok := s.arguments[name]
	return v, ok
}

// Targets returns the command-line targets in invocation order.
func (s *Source) Targets() []string {
	return append([]string(nil), s.targets...)
}

// AnyTarget reports whether any command-line target was passed.
func (s *Source) AnyTarget() bool {
	return len(s.targets) > 0
}

// SetOption records a boolean option. The CLI layer sets options before
// handing the Source to the helper.
func (s *Source) SetOption(name string, value bool) {
	s.options[name] = value
}

// Option reports whether a boolean option is set.
func (s *Source) Option(name string) bool {
	return s.options[name]
}

// InstallRequested reports whether INSTALL=1 was passed. Any other value,
// including "true" or "yes", leaves the run in compile mode.
func (s *Source) InstallRequested() bool {
	return s.arguments[InstallArgument] == "1"
}
