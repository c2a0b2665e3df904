package executor

// Construction variables understood by the Program action.
const (
	VarCXX       = "CXX"
	VarCXXFlags  = "CXXFLAGS"
	VarLinkFlags = "LINKFLAGS"
)

// DefaultCompiler is used when CXX is not replaced.
const DefaultCompiler = "c++"

// Environment holds construction variables, each a list of command-line
// words.
type Environment struct {
	vars map[string][]string
}

// NewEnvironment returns an Environment with CXX set to DefaultCompiler and
// empty flags.
func NewEnvironment() *Environment {
	return &Environment{vars: map[string][]string{
		VarCXX:       {DefaultCompiler},
		VarCXXFlags:  nil,
		VarLinkFlags: nil,
	}}
}

// Replace sets key to value.
func (e *Environment) Replace(key string, value []string) {
	e.vars[key] = append([]string(nil), value...)
}

// Get returns a copy of the words stored under key.
func (e *Environment) Get(key string) []string {
	return append([]string(nil), e.vars[key]...)
}

// First returns the first word stored under key, or "".
func (e *Environment) First(key string) string {
	if v := e.vars[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
