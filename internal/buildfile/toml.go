package buildfile

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/profile"
)

type tomlDescription struct {
	SourcePath  string        `toml:"source_path"`
	SourceName  string        `toml:"source_name"`
	CompilePath string        `toml:"compile_path"`
	InstallPath string        `toml:"install_path"`
	BinaryName  string        `toml:"binary_name"`
	Requires    string        `toml:"requires"`
	Profiles    []tomlProfile `toml:"profile"`
}

type tomlProfile struct {
	Key  string            `toml:"key"`
	Name string            `toml:"name"`
	Args map[string]string `toml:"args"`
}

func decodeTOML(path string, data []byte) (*Description, error) {
	var raw tomlDescription
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.ErrTypeBadBuildDescription, err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errmsg.New(errmsg.ErrTypeBadBuildDescription,
			"%s: unsupported key(s): %s", path, strings.Join(keys, ", "))
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
