// Package watch implements the watch-mode scheduler: it coalesces file
// change notifications into discrete build rounds, runs every dirty bundle
// unit strictly in declaration order, and keeps the watched-file sets in
// sync with the latest build results.
package watch

import (
	"context"
	"sync"
	"time"

	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
)

// Scheduler coordinates build rounds across all bundle units. Dirty signals
// from any number of units collapse into one upcoming round per debounce
// window, and rounds never overlap: a unit going dirty mid-round guarantees
// exactly one follow-up round, started without an additional debounce.
type Scheduler struct {
	engine   ports.BuildEngine
	notifier ports.Notifier
	logger   ports.Logger
	tracer   ports.Tracer
	debounce time.Duration
	units    []*Unit

	mu              sync.Mutex
	ctx             context.Context
	pendingRebuild  bool
	roundInProgress bool
	everSucceeded   bool
	closed          bool
	timer           *time.Timer
	listeners       map[int]func(domain.Event)
	nextListenerID  int
}

// New creates a Scheduler with one Unit per configured bundle. All units
// share the notifier subscription group identified by the watch section's
// notifier options hash.
func New(
	engine ports.BuildEngine,
	notifier ports.Notifier,
	logger ports.Logger,
	tracer ports.Tracer,
	cfg *domain.Config,
) (*Scheduler, error) {
	if len(cfg.Bundles) == 0 {
		return nil, domain.ErrNoBundles
	}

	debounce := cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = domain.DefaultDebounce
	}

	s := &Scheduler{
		engine:    engine,
		notifier:  notifier,
		logger:    logger,
		tracer:    tracer,
		debounce:  debounce,
		ctx:       context.Background(),
		listeners: make(map[int]func(domain.Event)),
	}

	hash := cfg.Watch.Notifier.Hash()
	for _, opts := range cfg.Bundles {
		u := newUnit(s, engine, notifier, logger, opts, cfg.Watch.Notifier, hash)
		notifier.Subscribe(u.Name(), u.onChange)
		s.units = append(s.units, u)
	}

	return s, nil
}

// OnEvent registers a lifecycle event listener and returns a function that
// removes it. Listeners registered after Close are never invoked.
func (s *Scheduler) OnEvent(fn func(domain.Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Start marks every unit dirty so the first round builds everything. The
// context is carried into every subsequent round's build invocations.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.ctx = ctx
	s.mu.Unlock()

	for _, u := range s.units {
		u.MarkDirty()
	}
}

// RunOnce builds every bundle exactly once, synchronously, bypassing the
// debounce window. It is the non-watch build path. A unit going dirty
// during the round is not dropped: the follow-up round is scheduled
// through the regular debounce path after RunOnce returns.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSchedulerClosed
	}
	if s.roundInProgress {
		s.mu.Unlock()
		return nil
	}
	s.roundInProgress = true
	s.mu.Unlock()

	for _, u := range s.units {
		u.MarkDirty()
	}

	err := s.runRound(ctx)

	s.mu.Lock()
	s.roundInProgress = false
	if s.pendingRebuild && !s.closed && s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.onDebounce)
	}
	s.mu.Unlock()

	return err
}

// RequestDirty is called by a unit when it becomes dirty. The first call
// while idle arms the debounce timer; further calls before the round starts
// coalesce into the same round. During a round it only records that a
// follow-up round is needed.
func (s *Scheduler) RequestDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.pendingRebuild = true
	if s.roundInProgress || s.timer != nil {
		return
	}
	s.timer = time.AfterFunc(s.debounce, s.onDebounce)
}

// Close shuts the scheduler down: the debounce timer is stopped, every unit
// is closed (unregistering its watched files) and all event listeners are
// detached. Close is idempotent and terminal; no round starts afterwards.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.listeners = nil
	units := s.units
	s.mu.Unlock()

	for _, u := range units {
		u.close()
	}
}

// onDebounce fires when the debounce window expires.
func (s *Scheduler) onDebounce() {
	s.mu.Lock()
	s.timer = nil
	if s.closed || s.roundInProgress || !s.pendingRebuild {
		s.mu.Unlock()
		return
	}
	s.roundInProgress = true
	ctx := s.ctx
	s.mu.Unlock()

	s.runRounds(ctx)
}

// runRounds executes rounds until no unit went dirty during the last one.
// An explicit loop keeps the stack flat across arbitrarily many follow-up
// rounds; mutual exclusion is held through roundInProgress for the whole
// sequence, so a concurrent RequestDirty can only schedule work here.
func (s *Scheduler) runRounds(ctx context.Context) {
	for {
		// Round errors surface through EventError/EventFatal; the loop
		// itself never retries, recovery comes from the next file change.
		_ = s.runRound(ctx)

		s.mu.Lock()
		if s.closed || !s.pendingRebuild {
			s.roundInProgress = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// runRound runs one pass over every unit, strictly in declaration order.
func (s *Scheduler) runRound(ctx context.Context) error {
	s.mu.Lock()
	s.pendingRebuild = false
	s.mu.Unlock()

	s.emit(domain.Event{Kind: domain.EventStart})

	roundCtx, span := s.tracer.Start(ctx, "round")

	var err error
	for _, u := range s.units {
		if err = s.buildUnit(roundCtx, u); err != nil {
			break
		}
	}

	if err != nil {
		span.RecordError(err)
		span.End()

		s.mu.Lock()
		ever := s.everSucceeded
		s.mu.Unlock()

		kind := domain.EventFatal
		if ever {
			kind = domain.EventError
		}
		s.emit(domain.Event{Kind: kind, Err: err})
		return err
	}

	span.End()

	s.mu.Lock()
	s.everSucceeded = true
	s.mu.Unlock()

	s.emit(domain.Event{Kind: domain.EventEnd})
	return nil
}

func (s *Scheduler) buildUnit(ctx context.Context, u *Unit) error {
	unitCtx, span := s.tracer.Start(ctx, "bundle "+u.Name())
	defer span.End()
	span.SetAttribute("refold.bundle", u.Name())

	if err := u.Build(unitCtx); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// emit delivers an event to every registered listener. Listeners are called
// outside the scheduler lock; within a round, events arrive in emission
// order because rounds are single-flow.
func (s *Scheduler) emit(e domain.Event) {
	s.mu.Lock()
	fns := make([]func(domain.Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
