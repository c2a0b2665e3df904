// Package vars describes the internal build variables, groups them, and
// resolves them from invocation arguments or fixed path segments.
package vars

// Internal variable names.
const (
	Destdir          = "destdir"
	Prefix           = "prefix"
	CompileTarget    = "compile_target"
	CppCompiler      = "cpp_compiler"
	CppCompilerFlags = "cpp_compiler_flags"
	LinkerFlags      = "linker_flags"
	SourceFull       = "source_full"
)

// Group names.
const (
	GroupInstall   = "install_vars"
	GroupCppLinker = "cpp_linker_vars"
)

// Cache keys under which install variables are persisted.
const (
	CacheKeyDestdir       = "MYCACHEDDIR"
	CacheKeyCompileTarget = "MYCACHEDSOURCE"
)

// DetectionAnchor is the variable whose argument identifies the OS profile.
const DetectionAnchor = Destdir

// PostProcess is a step run on a group after all its variables are resolved.
type PostProcess int

const (
	// PostProcessNone leaves the variable as resolved.
	PostProcessNone PostProcess = iota
	// PostProcessResetDestdir moves destdir under prefix and the install path.
	PostProcessResetDestdir
)

// String returns the step's name as used in diagnostics.
func (p PostProcess) String() string {
	switch p {
	case PostProcessNone:
		return "none"
	case PostProcessResetDestdir:
		return "reset_destdir"
	default:
		return "unknown"
	}
}

// Descriptor describes where one internal variable comes from and where it goes.
type Descriptor struct {
	Name          string
	FromArguments bool        // Read from the OS-specific argument, else computed
	EnvVar        string      // Construction variable it feeds, if any
	CacheKey      string      // Cache file key, if persisted
	CacheHelp     string      // Human-readable description of the cache entry
	PostProcess   PostProcess // Step run after the group resolves
}

type group struct {
	name        string
	descriptors []Descriptor
}

// groups lists the variable groups in resolution order.
var groups = []group{
	{
		name: GroupInstall,
		descriptors: []Descriptor{
			{
				Name:          Destdir,
				FromArguments: true,
				CacheKey:      CacheKeyDestdir,
				CacheHelp:     "install directory",
				PostProcess:   PostProcessResetDestdir,
			},
			{Name: Prefix, FromArguments: true},
			{
				Name:      CompileTarget,
				CacheKey:  CacheKeyCompileTarget,
				CacheHelp: "compiled binary to install",
			},
		},
	},
	{
		name: GroupCppLinker,
		descriptors: []Descriptor{
			{Name: CppCompiler, FromArguments: true, EnvVar: "CXX"},
			{Name: CppCompilerFlags, FromArguments: true, EnvVar: "CXXFLAGS"},
			{Name: LinkerFlags, FromArguments: true, EnvVar: "LINKFLAGS"},
			{Name: SourceFull},
		},
	},
}

// Group returns the descriptors of the named group in resolution order.
func Group(name string) ([]Descriptor, bool) {
	for _, g := range groups {
		if g.name == name {
			return append([]Descriptor(nil), g.descriptors...), true
		}
	}
	return nil, false
}

// GroupNames returns every group name in resolution order.
func GroupNames() []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.name
	}
	return names
}

// CacheDescriptions returns the descriptors that carry a cache key, in
// group order.
func CacheDescriptions() []Descriptor {
	var out []Descriptor
	for _, g := range groups {
		for _, d := range g.descriptors {
			if d.CacheKey != "" {
				out = append(out, d)
			}
		}
	}
	return out
}
