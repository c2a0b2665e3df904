package vars

import (
	"strings"

	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/log"
	"github.com/tsukumogami/buildvars/internal/pathutil"
	"github.com/tsukumogami/buildvars/internal/profile"
)

// Paths are the fixed filesystem inputs of a build description.
type Paths struct {
	SourcePath  string // Directory holding the source file
	SourceName  string // Source file name
	CompilePath string // Build output directory
	InstallPath string // Install subpath under the prefix
	BinaryName  string // Name of the compiled program
}

// EnvReplacer receives construction variables from Apply.
type EnvReplacer interface {
	Replace(key string, value []string)
}

// Resolver fills a Store one group at a time.
type Resolver struct {
	detector *profile.Detector
	src      profile.ArgumentGetter
	paths    Paths
	defaults map[string]string
	store    *Store
	logger   log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithStore makes the resolver fill an existing store.
func WithStore(store *Store) Option {
	return func(r *Resolver) {
		r.store = store
	}
}

// NewResolver precomputes the computed variables from paths and returns a
// Resolver reading argument-sourced variables from src. Every path segment
// is validated here so bad input fails before anything is resolved.
func NewResolver(detector *profile.Detector, src profile.ArgumentGetter, paths Paths, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		detector: detector,
		src:      src,
		paths:    paths,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.store == nil {
		r.store = NewStore()
	}

	sourceFull, err := pathutil.Join(paths.SourcePath, paths.SourceName)
	if err != nil {
		return nil, err
	}
	compileTarget, err := pathutil.Join(paths.CompilePath, paths.BinaryName)
	if err != nil {
		return nil, err
	}
	if _, err := pathutil.Join(paths.InstallPath); err != nil {
		return nil, err
	}
	r.defaults = map[string]string{
		SourceFull:    sourceFull,
		CompileTarget: compileTarget,
	}

	return r, nil
}

// Store returns the store the resolver fills.
func (r *Resolver) Store() *Store {
	return r.store
}

// Default returns the precomputed value of a computed variable.
func (r *Resolver) Default(name string) string {
	return r.defaults[name]
}

// ResolveGroup resolves every variable of the named group in order, then
// runs the group's post-processing steps.
//
// Argument-sourced variables trigger OS detection on first use. An empty or
// missing argument never overwrites a value resolved earlier.
func (r *Resolver) ResolveGroup(name string) error {
	descriptors, ok := Group(name)
	if !ok {
		return errmsg.New(errmsg.ErrTypeUnknownGroup, "variable group %q is not defined", name)
	}

	logger := r.logger.With("group", name)
	for _, d := range descriptors {
		if !d.FromArguments {
			r.store.Set(d.Name, r.defaults[d.Name])
			logger.Debug("computed variable", "var", d.Name, "value", r.defaults[d.Name])
			continue
		}
		if err := r.resolveArgument(logger, d); err != nil {
			return err
		}
	}

	for _, d := range descriptors {
		if err := r.postProcess(logger, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveArgument(logger log.Logger, d Descriptor) error {
	p, err := r.detectedProfile()
	if err != nil {
		return err
	}

	argName, ok := p.ArgName(d.Name)
	if !ok {
		logger.Info(d.Name+" argument not found", "os", p.Name)
		return nil
	}

	value := r.src.Get(argName)
	if value == "" {
		logger.Info(d.Name + " (" + argName + " in " + p.Name + ") argument not found")
		return nil
	}

	logger.Info(d.Name+" ("+argName+" in "+p.Name+") argument found", "value", value)
	r.store.Set(d.Name, value)
	return nil
}

// detectedProfile returns the detected profile, running detection if it has
// not been attempted yet.
func (r *Resolver) detectedProfile() (profile.Profile, error) {
	if p, ok := r.detector.Detected(); ok {
		return p, nil
	}
	return r.detector.Detect(r.src)
}

func (r *Resolver) postProcess(logger log.Logger, d Descriptor) error {
	switch d.PostProcess {
	case PostProcessNone:
		return nil
	case PostProcessResetDestdir:
		return r.resetDestdir(logger)
	default:
		return nil
	}
}

// resetDestdir moves destdir under prefix and the install path when a
// prefix was resolved.
func (r *Resolver) resetDestdir(logger log.Logger) error {
	destdir := r.store.Get(Destdir)
	logger.Info("destdir initially set without prefix", "destdir", destdir)

	prefix := r.store.Get(Prefix)
	if prefix == "" {
		return nil
	}

	joined, err := pathutil.Join(destdir, prefix, r.paths.InstallPath)
	if err != nil {
		return err
	}
	r.store.Set(Destdir, joined)
	logger.Info("destdir reset using prefix and install path", "destdir", joined)
	return nil
}

// Apply copies every resolved variable of the group that feeds a
// construction variable into env, split like a command line. Variables
// never resolved leave the environment's value in place.
func (r *Resolver) Apply(name string, env EnvReplacer) error {
	descriptors, ok := Group(name)
	if !ok {
		return errmsg.New(errmsg.ErrTypeUnknownGroup, "variable group %q is not defined", name)
	}

	for _, d := range descriptors {
		if d.EnvVar == "" {
			continue
		}
		value, ok := r.store.Lookup(d.Name)
		if !ok {
			r.logger.Debug("keeping default", "env", d.EnvVar, "var", d.Name)
			continue
		}
		r.logger.Info("setting "+d.EnvVar+" to "+value, "var", d.Name)
		env.Replace(d.EnvVar, strings.Fields(value))
	}
	return nil
}
