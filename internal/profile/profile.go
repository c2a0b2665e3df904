// Package profile holds the OS Profile Table and the OS Detector.
//
// A profile describes one packaging convention by the argument names its
// tooling passes: Gentoo ebuilds pass DESTDIR and PREFIX, Debian rules pass
// install_root and prefix, and so on. The operating system is never probed;
// it is inferred from which detection argument carries a value, so a user
// can simulate any supported OS by passing its argument names.
package profile

import (
	"sort"

	"github.com/tsukumogami/buildvars/internal/errmsg"
)

// Profile maps internal variable names to the external argument names used
// by one packaging convention.
type Profile struct {
	Key  string            // Short identifier (e.g., "gentoo", "debian")
	Name string            // Display name (e.g., "Debian-based")
	Args map[string]string // Internal variable name -> argument name
}

// ArgName returns the argument name that carries variable on this profile.
func (p Profile) ArgName(variable string) (string, bool) {
	name, ok := p.Args[variable]
	return name, ok && name != ""
}

// Table is an ordered, validated list of profiles. Order is detection order.
type Table struct {
	profiles []Profile
	anchor   string
}

// NewTable validates profiles and returns a Table. anchor is the internal
// variable whose argument detects the OS; every profile must name one.
func NewTable(profiles []Profile, anchor string) (*Table, error) {
	if len(profiles) == 0 {
		return nil, errmsg.New(errmsg.ErrTypeEmptyDetectionArg, "no OS profiles defined")
	}

	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.Key == "" {
			return nil, errmsg.New(errmsg.ErrTypeBadBuildDescription, "OS profile without a key")
		}
		if seen[p.Key] {
			return nil, errmsg.New(errmsg.ErrTypeBadBuildDescription, "duplicate OS profile %q", p.Key)
		}
		seen[p.Key] = true

		if _, ok := p.ArgName(anchor); !ok {
			return nil, errmsg.New(errmsg.ErrTypeEmptyDetectionArg,
				"%s is empty for %s", anchor, p.Key)
		}
	}

	return &Table{profiles: append([]Profile(nil), profiles...), anchor: anchor}, nil
}

// Anchor returns the variable OS detection is anchored to.
func (t *Table) Anchor() string {
	return t.anchor
}

// Profiles returns the profiles in detection order.
func (t *Table) Profiles() []Profile {
	return append([]Profile(nil), t.profiles...)
}

// Variables returns every internal variable named by at least one profile,
// sorted by name.
func (t *Table) Variables() []string {
	set := make(map[string]bool)
	for _, p := range t.profiles {
		for v := range p.Args {
			set[v] = true
		}
	}
	vars := make([]string, 0, len(set))
	for v := range set {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

// Merge returns base with extra applied: a profile whose key already exists
// replaces it in place, any other profile is appended.
func Merge(base, extra []Profile) []Profile {
	out := append([]Profile(nil), base...)
	for _, e := range extra {
		replaced := false
		for i := range out {
			if out[i].Key == e.Key {
				out[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return out
}
