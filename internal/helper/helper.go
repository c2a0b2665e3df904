// Package helper wires the build variable machinery together and runs one
// invocation: configure and compile, install from the cache, or clean.
package helper

import (
	"context"
	"io"
	"os"

	"github.com/tsukumogami/buildvars/internal/actions"
	"github.com/tsukumogami/buildvars/internal/args"
	"github.com/tsukumogami/buildvars/internal/buildfile"
	"github.com/tsukumogami/buildvars/internal/cache"
	"github.com/tsukumogami/buildvars/internal/config"
	"github.com/tsukumogami/buildvars/internal/executor"
	"github.com/tsukumogami/buildvars/internal/log"
	"github.com/tsukumogami/buildvars/internal/pathutil"
	"github.com/tsukumogami/buildvars/internal/profile"
	"github.com/tsukumogami/buildvars/internal/vars"
)

// Mode is what a run did.
type Mode int

const (
	// ModeCompile configured (if needed) and compiled the program.
	ModeCompile Mode = iota
	// ModeInstall installed the cached program.
	ModeInstall
	// ModeClean removed build artifacts.
	ModeClean
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCompile:
		return "compile"
	case ModeInstall:
		return "install"
	case ModeClean:
		return "clean"
	default:
		return "unknown"
	}
}

// Result describes a completed run.
type Result struct {
	Mode Mode

	// CacheSaved is set when the run configured and wrote the cache.
	CacheSaved bool

	// Clean is the clean report of a ModeClean run.
	Clean *actions.CleanReport
}

// Helper holds the components of one run.
type Helper struct {
	desc       *buildfile.Description
	src        *args.Source
	cfg        *config.Config
	table      *profile.Table
	resolver   *vars.Resolver
	cache      *cache.Cache
	executor   *executor.Executor
	dispatcher *actions.Dispatcher
	out        io.Writer
	logger     log.Logger
}

// Option configures a Helper.
type Option func(*Helper)

// WithLogger sets the logger handed to every component.
func WithLogger(logger log.Logger) Option {
	return func(h *Helper) {
		h.logger = logger
	}
}

// WithOutput sets where user-facing lines are printed.
func WithOutput(w io.Writer) Option {
	return func(h *Helper) {
		h.out = w
	}
}

// New validates the OS profiles and path inputs and builds every component.
// Options on src must already be set.
func New(desc *buildfile.Description, src *args.Source, cfg *config.Config, opts ...Option) (*Helper, error) {
	h := &Helper{desc: desc, src: src, cfg: cfg, out: os.Stdout}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = log.Default()
	}

	table, err := profile.NewTable(profile.Merge(vars.BuiltinProfiles(), desc.Profiles), vars.DetectionAnchor)
	if err != nil {
		return nil, err
	}
	h.table = table

	detector := profile.NewDetector(table, profile.WithLogger(h.logger))
	resolver, err := vars.NewResolver(detector, src, desc.Paths(), vars.WithLogger(h.logger))
	if err != nil {
		return nil, err
	}
	h.resolver = resolver

	h.cache = cache.New(cfg.CacheFile, CacheKeys(), cache.WithLogger(h.logger))
	h.executor = executor.New(
		executor.WithLogger(h.logger),
		executor.WithDBPath(cfg.DBFile),
		executor.WithDryRun(src.Option(args.OptionDryRun)),
		executor.WithOutput(h.out),
	)
	h.dispatcher = actions.New(h.executor,
		actions.WithLogger(h.logger),
		actions.WithOutput(h.out),
		actions.WithWorkDir(cfg.WorkDir),
	)
	return h, nil
}

// CacheKeys returns the cache declarations of every cached variable.
func CacheKeys() []cache.Key {
	var keys []cache.Key
	for _, d := range vars.CacheDescriptions() {
		keys = append(keys, cache.Key{Name: d.CacheKey, Var: d.Name, Help: d.CacheHelp})
	}
	return keys
}

// Table returns the validated OS profile table.
func (h *Helper) Table() *profile.Table {
	return h.table
}

// Run performs the invocation.
//
// With the clean option it only cleans. Otherwise it loads the cache and,
// when the cache is incomplete, resolves and saves the install variables.
// INSTALL=1 with a cache that was complete at load registers the install;
// anything else registers the compile. The registered goals then run.
func (h *Helper) Run(ctx context.Context) (*Result, error) {
	if h.src.Option(args.OptionClean) {
		return &Result{Mode: ModeClean, Clean: h.Clean()}, nil
	}

	result := &Result{}
	rec, err := h.cache.Load()
	if err != nil {
		return nil, err
	}

	complete := rec.Complete()
	if !complete {
		if err := h.configure(rec); err != nil {
			return nil, err
		}
		result.CacheSaved = !h.src.Option(args.OptionDryRun)
	}

	if h.src.InstallRequested() && complete {
		result.Mode = ModeInstall
		h.dispatcher.Install(rec.Get(vars.CacheKeyCompileTarget), rec.Get(vars.CacheKeyDestdir))
	} else {
		if h.src.InstallRequested() {
			h.logger.Warn("install variables were not cached yet, compiling instead",
				"hint", "run again with INSTALL=1 to install")
		}
		result.Mode = ModeCompile
		if err := h.registerCompile(); err != nil {
			return nil, err
		}
	}

	if h.src.AnyTarget() {
		h.logger.Warn("command-line targets are ignored",
			"targets", h.src.Targets(), "hint", "pass INSTALL=1 to install")
	}

	if err := h.executor.Run(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// configure resolves the install variables and saves them to the cache.
func (h *Helper) configure(rec *cache.Record) error {
	if err := h.resolver.ResolveGroup(vars.GroupInstall); err != nil {
		return err
	}
	for _, k := range rec.Keys() {
		rec.Set(k.Name, h.resolver.Store().Get(k.Var))
	}

	if h.src.Option(args.OptionDryRun) {
		h.logger.Info("dry run, variables cache not saved", "path", h.cache.Path())
		return nil
	}
	return h.cache.Save(rec)
}

func (h *Helper) registerCompile() error {
	if err := h.resolver.ResolveGroup(vars.GroupCppLinker); err != nil {
		return err
	}
	if err := h.resolver.Apply(vars.GroupCppLinker, h.executor.Env()); err != nil {
		return err
	}

	store := h.resolver.Store()
	target, ok := store.Lookup(vars.CompileTarget)
	if !ok {
		target = h.resolver.Default(vars.CompileTarget)
	}
	h.dispatcher.Compile(store.Get(vars.SourceFull), target)
	return nil
}

// Clean removes the build artifacts. Invocation arguments are ignored.
func (h *Helper) Clean() *actions.CleanReport {
	return h.dispatcher.Clean(h.cleanProducers()...)
}

// cleanProducers lists the artifacts in clean order.
func (h *Helper) cleanProducers() []actions.Producer {
	return []actions.Producer{
		{Name: "build database", Path: func() string { return h.cfg.DBFile }},
		{Name: "object file", Path: func() string {
			return executor.ObjectFile(h.resolver.Default(vars.SourceFull))
		}},
		{Name: "compiled binary", Path: func() string { return h.resolver.Default(vars.CompileTarget) }},
		{Name: "install target", Path: h.installTarget},
		{Name: "variables cache", Path: func() string { return h.cfg.CacheFile }},
	}
}

// installTarget returns the installed program path from the cached
// destdir, or "" when the cache holds none.
func (h *Helper) installTarget() string {
	rec, err := h.cache.Load()
	if err != nil {
		h.logger.Warn("cannot read variables cache", "error", err)
		return ""
	}
	destdir := rec.Get(vars.CacheKeyDestdir)
	if destdir == "" {
		h.logger.Warn("cannot get destdir from the variables cache")
		return ""
	}
	target, err := pathutil.Join(destdir, h.desc.BinaryName)
	if err != nil {
		h.logger.Warn("cannot build install target", "error", err)
		return ""
	}
	return target
}
