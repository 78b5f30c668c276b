package metrics

import "time"

// BuildOutcome enumerates final build states.
type BuildOutcome string

const (
	OutcomeSuccess BuildOutcome = "success"
	OutcomeWarning BuildOutcome = "warning" // completed with skipped pages or items
	OutcomeFailed  BuildOutcome = "failed"
)

// PageKind labels written pages.
type PageKind string

const (
	PageIndex     PageKind = "index"
	PageSecondary PageKind = "secondary"
	PageListing   PageKind = "listing"
	PageContent   PageKind = "content"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe to call on every write.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcome)
	IncPageWritten(kind PageKind)
	IncWarning(reason string)
	IncRemoved()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration) {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)       {}
func (NoopRecorder) IncPageWritten(PageKind)            {}
func (NoopRecorder) IncWarning(string)                  {}
func (NoopRecorder) IncRemoved()                        {}

// LiveReloadRecorder observes the serve-mode live-reload hub.
type LiveReloadRecorder interface {
	SetLiveReloadClients(n int)
	IncLiveReloadBroadcast()
}

func (NoopRecorder) SetLiveReloadClients(int) {}
func (NoopRecorder) IncLiveReloadBroadcast()  {}
