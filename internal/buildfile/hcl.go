package buildfile

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/profile"
)

// hclDescription is the top-level structure of buildvars.hcl. Mandatory keys
// are optional here so that Validate can name the missing one.
type hclDescription struct {
	SourcePath  string        `hcl:"source_path,optional"`
	SourceName  string        `hcl:"source_name,optional"`
	CompilePath string        `hcl:"compile_path,optional"`
	InstallPath string        `hcl:"install_path,optional"`
	BinaryName  string        `hcl:"binary_name,optional"`
	Requires    string        `hcl:"requires,optional"`
	Profiles    []*hclProfile `hcl:"profile,block"`
}

type hclProfile struct {
	Key  string            `hcl:"key,label"`
	Name string            `hcl:"name,optional"`
	Args map[string]string `hcl:"args"`
}

func decodeHCL(path string, data []byte) (*Description, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, errmsg.Wrap(errmsg.ErrTypeBadBuildDescription, diags, "parsing %s", path)
	}

	var raw hclDescription
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, errmsg.Wrap(errmsg.ErrTypeBadBuildDescription, diags, "decoding %s", path)
	}

	desc := &Description{
		SourcePath:  raw.SourcePath,
		SourceName:  raw.SourceName,
		CompilePath: raw.CompilePath,
		InstallPath: raw.InstallPath,
		BinaryName:  raw.BinaryName,
		Requires:    raw.Requires,
	}
	for _, p := range raw.Profiles {
		desc.Profiles = append(desc.Profiles, profile.Profile{Key: p.Key, Name: p.Name, Args: p.Args})
	}
	return desc, nil
}
