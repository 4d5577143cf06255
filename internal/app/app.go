// Package app implements the application layer for refold.
package app

import (
	"context"
	"io"
	"os"
	"time"

	"go.refold.dev/refold/internal/adapters/linear"
	"go.refold.dev/refold/internal/adapters/notifier"
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
	"go.refold.dev/refold/internal/engine/watch"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader ports.ConfigLoader
	engine ports.BuildEngine
	logger ports.Logger
	tracer ports.Tracer
	out    io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	engine ports.BuildEngine,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		loader: loader,
		engine: engine,
		logger: logger,
		tracer: tracer,
		out:    os.Stdout,
	}
}

// WithOutput redirects event output. Used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WatchOptions configures the Watch method.
type WatchOptions struct {
	// Debounce overrides the configured debounce window when positive.
	Debounce time.Duration
}

// Watch builds every bundle and keeps rebuilding whenever a watched file
// changes, until the context is canceled. With watch mode "disabled" in the
// configuration, it performs a single build and returns.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	cfg, err := a.loader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Debounce > 0 {
		cfg.Watch.Debounce = opts.Debounce
	}

	var notify ports.Notifier
	if cfg.Watch.Mode == domain.WatchDisabled {
		a.logger.Warn("file watching is disabled in the configuration; building once")
		notify = notifier.Disabled()
	} else {
		notify = notifier.New(a.logger)
	}
	defer func() {
		_ = notify.Close()
	}()

	sched, err := watch.New(a.engine, notify, a.logger, a.tracer, cfg)
	if err != nil {
		return err
	}
	defer sched.Close()

	renderer := linear.NewRenderer(a.out)
	cancel := sched.OnEvent(renderer.Handle)
	defer cancel()

	if cfg.Watch.Mode == domain.WatchDisabled {
		return sched.RunOnce(ctx)
	}

	sched.Start(ctx)
	<-ctx.Done()
	return nil
}

// Build runs every bundle exactly once and returns the round's error, if
// any. No file watching takes place.
func (a *App) Build(ctx context.Context) error {
	cfg, err := a.loader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	sched, err := watch.New(a.engine, notifier.Disabled(), a.logger, a.tracer, cfg)
	if err != nil {
		return err
	}
	defer sched.Close()

	renderer := linear.NewRenderer(a.out)
	cancel := sched.OnEvent(renderer.Handle)
	defer cancel()

	return sched.RunOnce(ctx)
}
