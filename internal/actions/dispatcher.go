// Package actions registers the compile and install actions with the build
// backend and implements the manual clean.
package actions

import (
	"fmt"
	"io"
	"os"

	"github.com/tsukumogami/buildvars/internal/executor"
	"github.com/tsukumogami/buildvars/internal/log"
)

// Backend is the part of the build backend the dispatcher registers with.
type Backend interface {
	Program(target, source string) *executor.Node
	Install(dir, source string) *executor.Node
	Default(nodes ...*executor.Node)
}

// Dispatcher turns resolved variables into registered build actions.
// Nothing runs until the backend does.
type Dispatcher struct {
	backend Backend
	out     io.Writer
	workDir string
	logger  log.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for dispatcher diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithOutput sets where user-facing lines are printed.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.out = w
	}
}

// WithWorkDir sets the directory clean targets must stay inside. Defaults
// to the current working directory.
func WithWorkDir(dir string) Option {
	return func(d *Dispatcher) {
		d.workDir = dir
	}
}

// New returns a Dispatcher registering with backend.
func New(backend Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{backend: backend, out: os.Stdout}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	return d
}

// Compile registers building target from source and makes it a default goal.
func (d *Dispatcher) Compile(source, target string) *executor.Node {
	n := d.backend.Program(target, source)
	d.backend.Default(n)
	fmt.Fprintf(d.out, "will compile: target = %s, source = %s\n", target, source)
	return n
}

// Install registers copying source into dir and makes it a default goal.
func (d *Dispatcher) Install(source, dir string) *executor.Node {
	n := d.backend.Install(dir, source)
	d.backend.Default(n)
	fmt.Fprintf(d.out, "will install: dir = %s, source = %s\n", dir, source)
	return n
}
