// Package site renders the configured source tree into the output tree.
//
// A build is a single synchronous pass: index page, secondary page, then for
// each page type its listing page followed by one sub-page per item. Missing
// metadata files, empty metadata files and missing fragments are reported as
// warnings and skipped; every other failure aborts the build and leaves the
// files written so far in place.
package site

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/malvolio/internal/config"
	"git.home.luguber.info/inful/malvolio/internal/logfields"
	"git.home.luguber.info/inful/malvolio/internal/metrics"
	"git.home.luguber.info/inful/malvolio/internal/render"
)

// Builder produces the output tree for a site configuration.
type Builder struct {
	cfg      *config.Site
	renderer render.Renderer
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// New creates a Builder rendering cfg through r.
func New(cfg *config.Site, r render.Renderer, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		renderer: r,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the site configuration.
func (b *Builder) Config() *config.Site { return b.cfg }

// Clean removes the generated files and content directories. Paths that do not
// exist are skipped silently.
func (b *Builder) Clean() (*Report, error) {
	rep := &Report{}
	for _, f := range b.cfg.OutputFiles() {
		ok, err := exists(f)
		if err != nil {
			return rep, err
		}
		if !ok {
			b.logger.Debug("Nothing to remove", logfields.Path(f))
			continue
		}
		if err := removeFile(f); err != nil {
			return rep, err
		}
		b.removed(rep, f)
	}
	for _, d := range b.cfg.OutputDirs() {
		ok, err := exists(d)
		if err != nil {
			return rep, err
		}
		if !ok {
			b.logger.Debug("Nothing to remove", logfields.Path(d))
			continue
		}
		if err := removeDir(d); err != nil {
			return rep, err
		}
		b.removed(rep, d)
	}
	return rep, nil
}

func (b *Builder) removed(rep *Report, path string) {
	rep.Removed = append(rep.Removed, path)
	b.recorder.IncRemoved()
	b.logger.Info("Removed", logfields.Path(path))
}

// Build renders every page of the site.
func (b *Builder) Build() (*Report, error) {
	start := time.Now()
	rep := &Report{BuildID: uuid.NewString()}
	log := b.logger.With(logfields.BuildID(rep.BuildID))

	err := b.build(log, rep)

	rep.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(rep.Duration)
	switch {
	case err != nil:
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return rep, err
	case rep.HasWarnings():
		b.recorder.IncBuildOutcome(metrics.OutcomeWarning)
	default:
		b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	}
	log.Info("Build complete.",
		slog.Int("pages", len(rep.Written)),
		slog.Int("warnings", len(rep.Warnings)),
		logfields.Duration(rep.Duration))
	return rep, nil
}

func (b *Builder) build(log *slog.Logger, rep *Report) error {
	if err := b.renderFixed(log, rep, config.IndexTemplate, b.cfg.IndexOutput(), metrics.PageIndex); err != nil {
		return err
	}
	if err := b.renderFixed(log, rep, config.SecondaryTemplate, b.cfg.SecondaryOutput(), metrics.PageSecondary); err != nil {
		return err
	}
	for _, p := range b.cfg.Pages() {
		if err := b.renderPageType(log.With(logfields.PageType(p.Name)), rep, p); err != nil {
			return err
		}
	}
	return nil
}

// Rebuild runs Clean followed by Build.
func (b *Builder) Rebuild() (*Report, error) {
	rep, err := b.Clean()
	if err != nil {
		return rep, err
	}
	built, err := b.Build()
	rep.merge(built)
	return rep, err
}
