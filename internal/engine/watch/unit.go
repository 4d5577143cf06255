package watch

import (
	"context"
	"sync"
	"time"

	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Unit owns the build lifecycle of one bundle configuration: its dirty
// flag, its cached previous result, and the set of files it currently has
// registered with the change notifier.
type Unit struct {
	sched        *Scheduler
	engine       ports.BuildEngine
	notifier     ports.Notifier
	logger       ports.Logger
	opts         domain.BundleOptions
	filter       domain.Filter
	notifierOpts domain.NotifierOptions
	optionsHash  string

	mu      sync.Mutex
	dirty   bool
	closed  bool
	warned  bool
	watched map[string]struct{}
	cached  ports.BuildResult
}

func newUnit(
	sched *Scheduler,
	engine ports.BuildEngine,
	notifier ports.Notifier,
	logger ports.Logger,
	opts domain.BundleOptions,
	notifierOpts domain.NotifierOptions,
	optionsHash string,
) *Unit {
	return &Unit{
		sched:        sched,
		engine:       engine,
		notifier:     notifier,
		logger:       logger,
		opts:         opts,
		filter:       domain.NewFilter(opts.Include, opts.Exclude),
		notifierOpts: notifierOpts,
		optionsHash:  optionsHash,
		watched:      make(map[string]struct{}),
	}
}

// Name returns the bundle name, which also serves as the unit's identity
// towards the shared change notifier.
func (u *Unit) Name() string {
	return u.opts.Name
}

// onChange is the notifier subscription callback.
func (u *Unit) onChange(string) {
	u.MarkDirty()
}

// MarkDirty flags the unit for rebuilding on the next round and asks the
// scheduler to schedule one. No-op when already dirty or closed.
func (u *Unit) MarkDirty() {
	u.mu.Lock()
	if u.dirty || u.closed {
		u.mu.Unlock()
		return
	}
	u.dirty = true
	u.mu.Unlock()

	u.sched.RequestDirty()
}

// Build runs one build engine invocation if the unit is dirty, then
// reconciles the watched-file set against the result. The dirty flag is
// cleared before the engine is invoked, so a change notification arriving
// mid-build marks the unit dirty again and guarantees a follow-up round.
func (u *Unit) Build(ctx context.Context) error {
	u.mu.Lock()
	if u.closed || !u.dirty {
		u.mu.Unlock()
		return nil
	}
	u.dirty = false
	cache := u.cached
	u.mu.Unlock()

	u.sched.emit(domain.Event{
		Kind:    domain.EventBundleStart,
		Input:   u.opts.Entry,
		Outputs: u.opts.OutputPaths(),
	})
	u.warnDeprecations()

	start := time.Now()
	result, err := u.engine.Build(ctx, u.opts, cache)
	if err != nil {
		// Keep watching the files of the last good build so the change
		// that fixes this failure is still detected.
		u.recoverWatched()
		return zerr.With(zerr.Wrap(err, domain.ErrBundleFailed.Error()), "bundle", u.opts.Name)
	}

	u.mu.Lock()
	if u.closed {
		// Closed mid-build: the engine call ran to completion, but no
		// watch registration or output write happens anymore.
		u.mu.Unlock()
		return nil
	}
	u.cached = result
	u.mu.Unlock()

	if err := u.reconcileWatched(result); err != nil {
		return err
	}
	if err := u.writeOutputs(ctx, result); err != nil {
		return err
	}

	u.sched.emit(domain.Event{
		Kind:     domain.EventBundleEnd,
		Input:    u.opts.Entry,
		Outputs:  u.opts.OutputPaths(),
		Duration: time.Since(start),
	})
	return nil
}

// reconcileWatched replaces the watched-file set with the module set of the
// new result: modules passing the filter are registered, files no longer in
// the result are unregistered. Files present in both stay registered and
// cause no notifier traffic.
func (u *Unit) reconcileWatched(result ports.BuildResult) error {
	next := make(map[string]struct{})
	for chunk := range result.Chunks() {
		for _, id := range chunk.Modules {
			if !u.filter.Accept(id) {
				continue
			}
			if u.isOutputTarget(id) {
				return zerr.With(zerr.With(domain.ErrSelfWatch, "file", id), "bundle", u.opts.Name)
			}
			next[id] = struct{}{}
		}
	}

	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	prev := u.watched
	u.watched = next
	u.mu.Unlock()

	for id := range next {
		if _, ok := prev[id]; ok {
			continue
		}
		if err := u.notifier.Register(id, u.opts.Name, u.notifierOpts, u.optionsHash); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchRegistration.Error()), "file", id)
		}
	}
	for id := range prev {
		if _, ok := next[id]; !ok {
			u.notifier.Unregister(id, u.opts.Name, u.optionsHash)
		}
	}
	return nil
}

// recoverWatched re-registers every module of the cached result after a
// failed build. A failure caused by a rename or delete would otherwise
// leave the affected files unwatched, and the edit that restores them
// would go unnoticed. The watched set only grows here, never shrinks.
func (u *Unit) recoverWatched() {
	u.mu.Lock()
	cached := u.cached
	closed := u.closed
	u.mu.Unlock()
	if cached == nil || closed {
		return
	}

	for chunk := range cached.Chunks() {
		for _, id := range chunk.Modules {
			if !u.filter.Accept(id) || u.isOutputTarget(id) {
				continue
			}

			u.mu.Lock()
			if u.closed {
				u.mu.Unlock()
				return
			}
			_, known := u.watched[id]
			if !known {
				u.watched[id] = struct{}{}
			}
			u.mu.Unlock()
			if known {
				continue
			}

			if err := u.notifier.Register(id, u.opts.Name, u.notifierOpts, u.optionsHash); err != nil {
				u.logger.Warn("could not re-register watched file " + id + " after failed build")
			}
		}
	}
}

// writeOutputs writes the result to every configured output target. The
// writes run concurrently and are all awaited before the unit reports
// success.
func (u *Unit) writeOutputs(ctx context.Context, result ports.BuildResult) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, out := range u.opts.Outputs {
		g.Go(func() error {
			if err := result.Write(ctx, out); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", out.Path)
			}
			return nil
		})
	}
	return g.Wait()
}

func (u *Unit) isOutputTarget(fileID string) bool {
	for _, out := range u.opts.Outputs {
		if fileID == out.Path {
			return true
		}
	}
	return false
}

// warnDeprecations surfaces configuration deprecation notices once, on the
// unit's first build.
func (u *Unit) warnDeprecations() {
	u.mu.Lock()
	if u.warned || len(u.opts.Deprecations) == 0 {
		u.mu.Unlock()
		return
	}
	u.warned = true
	u.mu.Unlock()

	for _, notice := range u.opts.Deprecations {
		u.logger.Warn(notice)
	}
}

// close makes the unit terminal and unregisters every watched file. Other
// units sharing the same notifier subscription group are unaffected because
// registrations are keyed by (file, owner, options hash).
func (u *Unit) close() {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return
	}
	u.closed = true
	watched := u.watched
	u.watched = make(map[string]struct{})
	u.mu.Unlock()

	for id := range watched {
		u.notifier.Unregister(id, u.opts.Name, u.optionsHash)
	}
}
