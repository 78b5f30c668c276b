package site

import "time"

// Reasons attached to recoverable skips.
const (
	ReasonMissingMeta     = "missing_meta"
	ReasonEmptyMeta       = "empty_meta"
	ReasonMissingFragment = "missing_fragment"
)

// Warning records one recoverable condition met during a build.
type Warning struct {
	Reason   string
	PageType string
	Slug     string
	Path     string
}

// Report summarizes one Clean, Build or Rebuild call.
type Report struct {
	BuildID  string
	Removed  []string
	Written  []string
	Warnings []Warning
	Duration time.Duration
}

// HasWarnings reports whether anything was skipped.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *Report) merge(other *Report) {
	if other == nil {
		return
	}
	if r.BuildID == "" {
		r.BuildID = other.BuildID
	}
	r.Removed = append(r.Removed, other.Removed...)
	r.Written = append(r.Written, other.Written...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Duration += other.Duration
}
