package profile

import (
	"github.com/tsukumogami/buildvars/internal/errmsg"
	"github.com/tsukumogami/buildvars/internal/log"
)

// ArgumentGetter returns the value of a named invocation argument,
// or "" when it was not passed.
type ArgumentGetter interface {
	Get(name string) string
}

// detection is the outcome of the single detection attempt.
type detection struct {
	profile Profile
	err     error
}

// Detector selects the profile of the current run. It may be asked once;
// its result is stored in a single-assignment field.
type Detector struct {
	table   *Table
	logger  log.Logger
	outcome *detection
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger for detection diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// NewDetector creates a Detector over table.
func NewDetector(table *Table, opts ...Option) *Detector {
	d := &Detector{table: table}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.Default()
	}
	return d
}

// Detect scans the table in order and selects the first profile whose
// detection argument has a non-empty value in src.
//
// It fails with ErrTypeNoOSMatch when no profile matches and with
// ErrTypeDoubleDetect on every call after the first, whatever the first
// call returned.
func (d *Detector) Detect(src ArgumentGetter) (Profile, error) {
	if d.outcome != nil {
		return Profile{}, errmsg.New(errmsg.ErrTypeDoubleDetect,
			"re-detecting operating system is not supported")
	}

	anchor := d.table.Anchor()
	for _, p := range d.table.profiles {
		argName, _ := p.ArgName(anchor)
		d.logger.Info("checking for "+anchor+" as "+argName,
			"question", "are we on "+p.Name+"?")
		if src.Get(argName) != "" {
			d.outcome = &detection{profile: p}
			d.logger.Info("detected operating system", "os", p.Key)
			return p, nil
		}
	}

	err := errmsg.New(errmsg.ErrTypeNoOSMatch, "operating system not detected")
	d.outcome = &detection{err: err}
	d.logger.Error("operating system not detected",
		"hint", "simulate a supported OS by passing the argument names it uses")
	return Profile{}, err
}

// Detected returns the detected profile, if detection ran and succeeded.
func (d *Detector) Detected() (Profile, bool) {
	if d.outcome == nil || d.outcome.err != nil {
		return Profile{}, false
	}
	return d.outcome.profile, true
}

// Attempted reports whether Detect has been called.
func (d *Detector) Attempted() bool {
	return d.outcome != nil
}
