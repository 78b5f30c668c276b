package preview

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/malvolio/internal/logfields"
	"git.home.luguber.info/inful/malvolio/internal/site"
)

// Builder produces the site. *site.Builder satisfies it.
type Builder interface {
	Build() (*site.Report, error)
}

// Options configures a preview session.
type Options struct {
	Builder    Builder
	Watcher    Watcher
	Server     Server
	Hub        *LiveReloadHub // optional; receives the build ID after every successful build
	Root       string         // directory served over HTTP
	Port       int
	WatchPaths []string
	Logger     *slog.Logger
}

// Run builds the site once, then serves it and rebuilds on change until ctx
// is done. A failed initial build is returned; failed rebuilds are logged and
// the previous output stays in place.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	rep, err := opts.Builder.Build()
	if err != nil {
		return err
	}
	opts.announce(rep)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rb := newRebuilder(opts, log)
	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(3)
	go func() {
		defer wg.Done()
		rb.run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := opts.Watcher.Watch(ctx, opts.WatchPaths, rb.request); err != nil {
			errs <- err
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if err := opts.Server.Serve(ctx, opts.Root, opts.Port); err != nil {
			errs <- err
			cancel()
		}
	}()

	<-ctx.Done()
	wg.Wait()
	close(errs)
	if err, ok := <-errs; ok {
		return err
	}
	log.Info("Preview stopped")
	return nil
}

func (o Options) announce(rep *site.Report) {
	if o.Hub != nil && rep != nil {
		o.Hub.Broadcast(rep.BuildID)
	}
}

// rebuilder runs one build at a time. Requests arriving during a build
// collapse into a single follow-up build.
type rebuilder struct {
	opts Options
	log  *slog.Logger
	req  chan struct{}
}

func newRebuilder(opts Options, log *slog.Logger) *rebuilder {
	return &rebuilder{opts: opts, log: log, req: make(chan struct{}, 1)}
}

// request schedules a build without blocking.
func (r *rebuilder) request() {
	select {
	case r.req <- struct{}{}:
	default:
	}
}

func (r *rebuilder) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.req:
			r.rebuild()
		}
	}
}

func (r *rebuilder) rebuild() {
	r.log.Info("Change detected; rebuilding site")
	rep, err := r.opts.Builder.Build()
	if err != nil {
		r.log.Error("Rebuild failed", logfields.Error(err))
		return
	}
	r.opts.announce(rep)
}
