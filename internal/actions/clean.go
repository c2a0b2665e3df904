package actions

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Producer yields one artifact path for Clean. An empty path means the
// artifact location is unknown.
type Producer struct {
	Name string
	Path func() string
}

// Skipped records an artifact Clean left in place.
type Skipped struct {
	Name   string
	Path   string
	Reason string
}

// CleanReport lists what Clean deleted and what it skipped.
type CleanReport struct {
	Deleted []string
	Skipped []Skipped
}

// Clean deletes each produced path in order. A path is deleted only when it
// is an existing regular file inside the working directory; anything else
// is skipped with a warning. Clean never fails.
func (d *Dispatcher) Clean(producers ...Producer) *CleanReport {
	report := &CleanReport{}

	workDir := d.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			d.logger.Warn("cannot determine working directory, nothing cleaned", "error", err)
			for _, p := range producers {
				report.Skipped = append(report.Skipped, Skipped{Name: p.Name, Reason: "unknown working directory"})
			}
			return report
		}
		workDir = wd
	}

	for _, p := range producers {
		path := p.Path()
		full, reason := removable(workDir, path)
		if reason != "" {
			d.logger.Warn("not cleaning "+p.Name, "path", path, "reason", reason)
			report.Skipped = append(report.Skipped, Skipped{Name: p.Name, Path: path, Reason: reason})
			continue
		}

		if err := os.Remove(full); err != nil {
			d.logger.Warn("not cleaning "+p.Name, "path", path, "error", err)
			report.Skipped = append(report.Skipped, Skipped{Name: p.Name, Path: path, Reason: err.Error()})
			continue
		}
		fmt.Fprintf(d.out, "Removed %s\n", path)
		report.Deleted = append(report.Deleted, path)
	}

	return report
}

// removable resolves path against workDir and returns why it must not be
// deleted, or "" if it may be.
func removable(workDir, path string) (string, string) {
	if path == "" {
		return "", "path unknown"
	}

	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(workDir, full)
	}

	info, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return full, "does not exist"
	}
	if err != nil {
		return full, err.Error()
	}
	if !info.Mode().IsRegular() {
		return full, "not a regular file"
	}

	rel, err := filepath.Rel(workDir, filepath.Clean(full))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return full, "outside the working directory"
	}
	return full, ""
}
