package vars

import "github.com/tsukumogami/buildvars/internal/profile"

// compilerArgs are the compiler argument names shared by every built-in profile.
var compilerArgs = map[string]string{
	CppCompiler:      "CXX",
	CppCompilerFlags: "CXXFLAGS",
	LinkerFlags:      "LDFLAGS",
}

// BuiltinProfiles returns the built-in OS profiles in detection order.
func BuiltinProfiles() []profile.Profile {
	return []profile.Profile{
		builtin("gentoo", "Gentoo", "DESTDIR", "PREFIX"),
		builtin("debian", "Debian-based", "install_root", "prefix"),
		builtin("rhel", "RPM-based", "BUILDROOT", "PREFIX"),
	}
}

func builtin(key, name, destdir, prefix string) profile.Profile {
	args := map[string]string{
		Destdir: destdir,
		Prefix:  prefix,
	}
	for v, arg := range compilerArgs {
		args[v] = arg
	}
	return profile.Profile{Key: key, Name: name, Args: args}
}
