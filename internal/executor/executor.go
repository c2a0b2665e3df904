// Package executor is the build backend: callers register compile and
// install actions, mark some of them as default goals, and Run executes
// the goals whose inputs changed since the last run.
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tsukumogami/buildvars/internal/log"
)

// Kind identifies the action a Node performs.
type Kind int

const (
	// KindProgram compiles and links one C++ source into a program.
	KindProgram Kind = iota
	// KindInstall copies a file into a directory.
	KindInstall
)

// String returns the action name.
func (k Kind) String() string {
	switch k {
	case KindProgram:
		return "program"
	case KindInstall:
		return "install"
	default:
		return "unknown"
	}
}

// Node is one registered action.
type Node struct {
	Kind   Kind
	Target string
	Source string
}

// Object returns the intermediate object file of a Program node: the
// source path with its extension replaced by ".o".
func (n *Node) Object() string {
	return ObjectFile(n.Source)
}

// ObjectFile returns the object file compiled from source.
func ObjectFile(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".o"
}

// Executor records actions and runs them on request.
type Executor struct {
	env    *Environment
	nodes  []*Node
	goals  []*Node
	dbPath string
	dryRun bool
	out    io.Writer
	logger log.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger for build diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithDBPath sets the build database path.
func WithDBPath(path string) Option {
	return func(e *Executor) {
		e.dbPath = path
	}
}

// WithDryRun makes Run print commands without executing them.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}

// WithOutput sets where command lines and command output are printed.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) {
		e.out = w
	}
}

// New returns an Executor with a fresh Environment.
func New(opts ...Option) *Executor {
	e := &Executor{
		env:    NewEnvironment(),
		dbPath: DefaultDBFile,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Env returns the construction environment. Changes apply to every action
// that has not run yet.
func (e *Executor) Env() *Environment {
	return e.env
}

// Program registers compiling source into the program target.
func (e *Executor) Program(target, source string) *Node {
	n := &Node{Kind: KindProgram, Target: target, Source: source}
	e.nodes = append(e.nodes, n)
	return n
}

// Install registers copying source into dir.
func (e *Executor) Install(dir, source string) *Node {
	n := &Node{Kind: KindInstall, Target: filepath.Join(dir, filepath.Base(source)), Source: source}
	e.nodes = append(e.nodes, n)
	return n
}

// Default marks nodes as build goals. A node marked twice runs once.
func (e *Executor) Default(nodes ...*Node) {
	for _, n := range nodes {
		if !e.isGoal(n) {
			e.goals = append(e.goals, n)
		}
	}
}

// Goals returns the default goals in registration order.
func (e *Executor) Goals() []*Node {
	return append([]*Node(nil), e.goals...)
}

func (e *Executor) isGoal(n *Node) bool {
	for _, g := range e.goals {
		if g == n {
			return true
		}
	}
	return false
}

// Commands returns the command lines a Program node runs with the current
// environment. Install nodes run no commands.
func (e *Executor) Commands(n *Node) [][]string {
	if n.Kind != KindProgram {
		return nil
	}
	cxx := e.env.Get(VarCXX)
	if len(cxx) == 0 {
		cxx = []string{DefaultCompiler}
	}

	compile := append(append([]string(nil), cxx...), e.env.Get(VarCXXFlags)...)
	compile = append(compile, "-c", "-o", n.Object(), n.Source)

	link := append(append([]string(nil), cxx...), e.env.Get(VarLinkFlags)...)
	link = append(link, "-o", n.Target, n.Object())

	return [][]string{compile, link}
}

// Run executes the default goals in registration order. A goal whose target
// exists and whose signature matches the build database is up to date and
// skipped. Signatures of completed goals are saved even when a later goal
// fails.
func (e *Executor) Run(ctx context.Context) error {
	if len(e.goals) == 0 {
		e.logger.Debug("no build goals")
		return nil
	}

	if e.dryRun {
		for _, n := range e.goals {
			e.printDryRun(n)
		}
		return nil
	}

	db, err := loadDB(e.dbPath)
	if err != nil {
		e.logger.Warn("ignoring unreadable build database", "path", e.dbPath, "error", err)
		db = &signatureDB{Signatures: make(map[string]string)}
	}

	var runErr error
	changed := false
	for _, n := range e.goals {
		sig, err := e.signature(n)
		if err != nil {
			runErr = err
			break
		}
		if db.Signatures[n.Target] == sig && fileExists(n.Target) {
			e.logger.Info("up to date", "target", n.Target)
			continue
		}

		if err := e.build(ctx, n); err != nil {
			runErr = err
			break
		}
		db.Signatures[n.Target] = sig
		changed = true
		e.logger.Debug("stored signature", "target", n.Target, "signature", sig)
	}

	if changed {
		if err := db.save(e.dbPath); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

func (e *Executor) signature(n *Node) (string, error) {
	commands := e.Commands(n)
	if n.Kind == KindInstall {
		commands = [][]string{{"install", n.Source, n.Target}}
	}
	sig, err := signature(commands, []string{n.Source})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &BuildError{Target: n.Target, ExitCode: -1,
				Err: fmt.Errorf("source %s does not exist", n.Source)}
		}
		return "", &BuildError{Target: n.Target, ExitCode: -1, Err: err}
	}
	return sig, nil
}

func (e *Executor) build(ctx context.Context, n *Node) error {
	switch n.Kind {
	case KindProgram:
		if err := os.MkdirAll(filepath.Dir(n.Object()), 0755); err != nil {
			return &BuildError{Target: n.Target, ExitCode: -1, Err: err}
		}
		if err := os.MkdirAll(filepath.Dir(n.Target), 0755); err != nil {
			return &BuildError{Target: n.Target, ExitCode: -1, Err: err}
		}
		for _, cmd := range e.Commands(n) {
			if err := e.runCommand(ctx, n, cmd); err != nil {
				return err
			}
		}
		return nil
	case KindInstall:
		fmt.Fprintf(e.out, "Install file: %q as %q\n", n.Source, n.Target)
		if err := copyFile(n.Source, n.Target); err != nil {
			return &BuildError{Target: n.Target, ExitCode: -1, Err: err}
		}
		return nil
	default:
		return &BuildError{Target: n.Target, ExitCode: -1, Err: fmt.Errorf("unknown action %s", n.Kind)}
	}
}

func (e *Executor) runCommand(ctx context.Context, n *Node, argv []string) error {
	fmt.Fprintln(e.out, strings.Join(argv, " "))
	e.logger.Debug("running", "target", n.Target, "cmd", argv)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		_, _ = e.out.Write(output)
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &BuildError{
			Target:   n.Target,
			Command:  argv,
			ExitCode: exitCode,
			Output:   string(output),
			Err:      err,
		}
	}
	return nil
}

func (e *Executor) printDryRun(n *Node) {
	switch n.Kind {
	case KindProgram:
		for _, cmd := range e.Commands(n) {
			fmt.Fprintln(e.out, strings.Join(cmd, " "))
		}
	case KindInstall:
		fmt.Fprintf(e.out, "Install file: %q as %q\n", n.Source, n.Target)
	}
	e.logger.Debug("dry run, not executed", "target", n.Target)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// copyFile copies src to dst, creating dst's directory and keeping src's
// permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to chmod: %w", err)
	}
	return nil
}
