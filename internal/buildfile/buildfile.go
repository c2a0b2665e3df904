// Package buildfile loads the build description: the fixed source, build
// and install paths of the program plus optional extra OS profiles.
//
// The description is read from buildvars.toml or buildvars.hcl. Both
// formats carry the same keys:
//
//	source_path  = "src"
//	source_name  = "hello.cpp"
//	compile_path = "build"
//	install_path = "bin"
//	binary_name  = "hello"
//	requires     = ">= 0.3"   # optional
package buildfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/tsukumogami/buildvars/internal/buildinfo"
	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/log"
	"github.com/tsukumogami/buildvars/internal/profile"
	"github.com/tsukumogami/buildvars/internal/vars"
)

// Well-known description file names, in lookup order.
const (
	DefaultTOMLFile = "buildvars.toml"
	DefaultHCLFile  = "buildvars.hcl"
)

// Description is a loaded build description.
type Description struct {
	SourcePath  string
	SourceName  string
	CompilePath string
	InstallPath string
	BinaryName  string

	// Requires is a semver constraint on the buildvars version.
	Requires string

	// Profiles are appended to, or replace, the built-in OS profiles.
	Profiles []profile.Profile

	// File is the path the description was read from.
	File string
}

// Paths returns the path inputs of the variable resolver.
func (d *Description) Paths() vars.Paths {
	return vars.Paths{
		SourcePath:  d.SourcePath,
		SourceName:  d.SourceName,
		CompilePath: d.CompilePath,
		InstallPath: d.InstallPath,
		BinaryName:  d.BinaryName,
	}
}

// Find returns the description file in dir, preferring TOML over HCL.
func Find(dir string) (string, error) {
	for _, name := range []string{DefaultTOMLFile, DefaultHCLFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errmsg.New(errmsg.ErrTypeBadBuildDescription,
		"no %s or %s found in %s", DefaultTOMLFile, DefaultHCLFile, dir)
}

// Load reads the description at path; the extension selects the format.
// The result is validated.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errmsg.Wrap(errmsg.ErrTypeBadBuildDescription, err, "reading build description")
	}
	if err != nil {
		return nil, errmsg.Wrap(errmsg.ErrTypeBadBuildDescription, err, "reading build description %s", path)
	}

	var desc *Description
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		desc, err = decodeTOML(path, data)
	case ".hcl":
		desc, err = decodeHCL(path, data)
	default:
		return nil, errmsg.New(errmsg.ErrTypeBadBuildDescription,
			"unsupported build description format %q (use .toml or .hcl)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	desc.File = path
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// Validate checks that every mandatory key is set and every extra profile
// has a key.
func (d *Description) Validate() error {
	mandatory := []struct {
		key   string
		value string
	}{
		{"source_path", d.SourcePath},
		{"source_name", d.SourceName},
		{"compile_path", d.CompilePath},
		{"install_path", d.InstallPath},
		{"binary_name", d.BinaryName},
	}
	for _, m := range mandatory {
		if m.value == "" {
			return errmsg.New(errmsg.ErrTypeBadBuildDescription,
				"%s: %s is missing or empty", d.File, m.key)
		}
	}

	for i := range d.Profiles {
		if d.Profiles[i].Key == "" {
			return errmsg.New(errmsg.ErrTypeBadBuildDescription,
				"%s: profile #%d has no key", d.File, i+1)
		}
		if d.Profiles[i].Name == "" {
			d.Profiles[i].Name = d.Profiles[i].Key
		}
	}
	return nil
}

// CheckVersion verifies the running version against Requires. Development
// builds carry no release version and are not checked.
func (d *Description) CheckVersion(running string, logger log.Logger) error {
	if d.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(d.Requires)
	if err != nil {
		return errmsg.Wrap(errmsg.ErrTypeBadBuildDescription, err,
			"%s: invalid requires constraint %q", d.File, d.Requires)
	}

	if buildinfo.IsDevelopment(running) {
		logger.Debug("skipping version check for development build",
			"version", running, "requires", d.Requires)
		return nil
	}

	v, err := semver.NewVersion(running)
	if err != nil {
		logger.Debug("skipping version check for unparseable version",
			"version", running, "error", err)
		return nil
	}
	if !constraint.Check(v) {
		return errmsg.New(errmsg.ErrTypeUnsupportedVersion,
			"%s requires buildvars %s, running %s", d.File, d.Requires, running)
	}
	return nil
}
