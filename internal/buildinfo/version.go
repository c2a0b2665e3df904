// Package buildinfo reports the buildvars version from Go build metadata.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version returns the version of the running binary.
//
// Tagged releases (go install from a tag) report the tag, e.g. "v0.3.1".
// Development builds report "dev-<hash>", "dev-<hash>-dirty" or "dev" from
// the VCS stamp, and "unknown" when no build info is embedded.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return devVersion(info)
}

// IsDevelopment reports whether v is a development or unknown version rather
// than a tagged release. Build descriptions' version requirements are not
// enforced for such builds.
func IsDevelopment(v string) bool {
	return v == "unknown" || v == "dev" || strings.HasPrefix(v, "dev-")
}

// devVersion builds "dev-<hash>[-dirty]" from the VCS settings.
func devVersion(info *debug.BuildInfo) string {
	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}

	if len(revision) > 12 {
		revision = revision[:12]
	}

	v := fmt.Sprintf("dev-%s", revision)
	if modified {
		v += "-dirty"
	}
	return v
}
