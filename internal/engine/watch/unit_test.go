package watch_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.refold.dev/refold/internal/adapters/telemetry"
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
	"go.refold.dev/refold/internal/engine/watch"
)

func TestUnit_WatchSetFollowsBuildResult(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	modules := []string{"src/a.js", "src/util.js"}
	engine.fn = func(domain.BundleOptions, ports.BuildResult) (ports.BuildResult, error) {
		return resultWithModules(modules...), nil
	}

	sched, _ := newScheduler(t, engine, notifier, watchConfig(bundle("a")))
	defer sched.Close()

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.ElementsMatch(t, []string{"src/a.js", "src/util.js"}, notifier.watchedBy("a"))

	// The next build drops util.js and pulls in helper.js.
	modules = []string{"src/a.js", "src/helper.js"}
	require.NoError(t, sched.RunOnce(context.Background()))
	assert.ElementsMatch(t, []string{"src/a.js", "src/helper.js"}, notifier.watchedBy("a"))
}

func TestUnit_UnchangedBuildCausesNoNotifierTraffic(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	engine.fn = func(domain.BundleOptions, ports.BuildResult) (ports.BuildResult, error) {
		return resultWithModules("src/a.js", "src/util.js"), nil
	}

	sched, _ := newScheduler(t, engine, notifier, watchConfig(bundle("a")))
	defer sched.Close()

	require.NoError(t, sched.RunOnce(context.Background()))
	registers, unregisters := notifier.callCounts()
	require.Equal(t, 2, registers)
	require.Zero(t, unregisters)

	// A rebuild with an identical module set leaves unchanged files
	// registered and issues no further notifier calls at all.
	require.NoError(t, sched.RunOnce(context.Background()))
	registers, unregisters = notifier.callCounts()
	assert.Equal(t, 2, registers)
	assert.Zero(t, unregisters)
}

func TestUnit_FilterExcludesModulesFromWatching(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	engine.fn = func(domain.BundleOptions, ports.BuildResult) (ports.BuildResult, error) {
		return resultWithModules("src/a.js", "vendor/lib.js"), nil
	}

	cfg := watchConfig(bundle("a", func(o *domain.BundleOptions) {
		o.Exclude = []string{"vendor/*"}
	}))
	sched, _ := newScheduler(t, engine, notifier, cfg)
	defer sched.Close()

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.ElementsMatch(t, []string{"src/a.js"}, notifier.watchedBy("a"))
}

func TestUnit_WatchingOwnOutputFails(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	engine.fn = func(domain.BundleOptions, ports.BuildResult) (ports.BuildResult, error) {
		return resultWithModules("src/a.js", "dist/a.js"), nil
	}

	sched, rec := newScheduler(t, engine, notifier, watchConfig(bundle("a")))
	defer sched.Close()

	err := sched.RunOnce(context.Background())
	require.ErrorIs(t, err, domain.ErrSelfWatch)
	assert.Equal(t, domain.EventFatal, rec.last().Kind)

	// Nothing was registered: the check runs before any mutation.
	assert.Empty(t, notifier.watchedBy("a"))
}

func TestUnit_FailedBuildKeepsWatchingLastGoodModules(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine := &fakeEngine{}
		notifier := newFakeNotifier()

		fail := false
		engine.fn = func(opts domain.BundleOptions, _ ports.BuildResult) (ports.BuildResult, error) {
			if fail {
				return nil, errors.New("entry renamed")
			}
			return resultWithModules("src/a.js", "src/util.js"), nil
		}

		sched, rec := newScheduler(t, engine, notifier, watchConfig(bundle("a")))
		defer sched.Close()

		require.NoError(t, sched.RunOnce(context.Background()))
		require.ElementsMatch(t, []string{"src/a.js", "src/util.js"}, notifier.watchedBy("a"))

		// The build breaks. The watched set stays intact so the fixing
		// edit is still observed.
		fail = true
		notifier.change("a", "src/util.js")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, domain.EventError, rec.last().Kind)
		assert.ElementsMatch(t, []string{"src/a.js", "src/util.js"}, notifier.watchedBy("a"))

		// The fixing edit triggers a recovery round.
		fail = false
		notifier.change("a", "src/util.js")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, domain.EventEnd, rec.last().Kind)
	})
}

func TestUnit_CleanUnitSkippedInRound(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		engine := &fakeEngine{}
		notifier := newFakeNotifier()
		sched, _ := newScheduler(t, engine, notifier, watchConfig(bundle("a"), bundle("b")))
		defer sched.Close()

		sched.Start(context.Background())
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, []string{"a", "b"}, engine.buildOrder())

		// Only "b" changes; "a" stays clean and is not rebuilt.
		notifier.change("b", "src/b.js")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{"a", "b", "b"}, engine.buildOrder())
	})
}

func TestUnit_DeprecationsWarnedOnce(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()
	logger := &fakeLogger{}

	cfg := watchConfig(bundle("a", func(o *domain.BundleOptions) {
		o.Deprecations = []string{"bundle a: 'watchExclude' is deprecated, use 'exclude'"}
	}))
	sched, err := watch.New(engine, notifier, logger, telemetry.Noop(), cfg)
	require.NoError(t, err)
	defer sched.Close()

	require.NoError(t, sched.RunOnce(context.Background()))
	require.NoError(t, sched.RunOnce(context.Background()))

	assert.Equal(t, []string{"bundle a: 'watchExclude' is deprecated, use 'exclude'"}, logger.warned())
}

func TestUnit_AllOutputsWritten(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	result := resultWithModules("src/a.js")
	engine.fn = func(domain.BundleOptions, ports.BuildResult) (ports.BuildResult, error) {
		return result, nil
	}

	cfg := watchConfig(bundle("a", func(o *domain.BundleOptions) {
		o.Outputs = []domain.OutputOptions{
			{Path: "dist/a.esm.js", Format: "esm"},
			{Path: "dist/a.cjs.js", Format: "cjs"},
		}
	}))
	sched, _ := newScheduler(t, engine, notifier, cfg)
	defer sched.Close()

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.ElementsMatch(t, []string{"dist/a.esm.js", "dist/a.cjs.js"}, result.writtenPaths())
}

func TestUnit_OutputWriteFailure(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	result := resultWithModules("src/a.js")
	result.writeErr = errors.New("permission denied")
	engine.fn = func(domain.BundleOptions, ports.BuildResult) (ports.BuildResult, error) {
		return result, nil
	}

	sched, rec := newScheduler(t, engine, notifier, watchConfig(bundle("a")))
	defer sched.Close()

	err := sched.RunOnce(context.Background())
	require.ErrorIs(t, err, domain.ErrOutputWriteFailed)
	assert.Equal(t, domain.EventFatal, rec.last().Kind)
}

func TestUnit_CachedResultSeedsNextBuild(t *testing.T) {
	engine := &fakeEngine{}
	notifier := newFakeNotifier()

	var caches []ports.BuildResult
	first := resultWithModules("src/a.js")
	engine.fn = func(_ domain.BundleOptions, cache ports.BuildResult) (ports.BuildResult, error) {
		caches = append(caches, cache)
		return first, nil
	}

	sched, _ := newScheduler(t, engine, notifier, watchConfig(bundle("a")))
	defer sched.Close()

	require.NoError(t, sched.RunOnce(context.Background()))
	require.NoError(t, sched.RunOnce(context.Background()))

	require.Len(t, caches, 2)
	assert.Nil(t, caches[0])
	assert.Same(t, first, caches[1])
}
