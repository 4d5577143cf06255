// Package notifier implements the shared file-change notification registry
// using fsnotify. Units with identical notifier options share one physical
// subscription group, keyed by the options hash; registrations within a
// group are refcounted by (file, owner), so units never disturb each
// other's subscriptions.
package notifier

import (
	"maps"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.refold.dev/refold/internal/core/domain"
	"go.refold.dev/refold/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Notifier = (*Registry)(nil)

// ErrNotifierClosed is returned when registering on a closed registry.
var ErrNotifierClosed = zerr.New("notifier is closed")

// Registry implements ports.Notifier on top of fsnotify. Subscription
// groups and their OS watchers are created lazily on first registration.
type Registry struct {
	logger ports.Logger

	mu     sync.Mutex
	groups map[string]*group
	subs   map[string]func(fileID string)
	closed bool
}

// New creates an empty Registry.
func New(logger ports.Logger) *Registry {
	return &Registry{
		logger: logger,
		groups: make(map[string]*group),
		subs:   make(map[string]func(string)),
	}
}

// Subscribe installs the change callback for an owner.
func (r *Registry) Subscribe(owner string, fn func(fileID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[owner] = fn
}

// Register subscribes owner to change events for fileID within the group
// identified by hash. Registering an already registered (file, owner) pair
// is a no-op.
func (r *Registry) Register(fileID, owner string, opts domain.NotifierOptions, hash string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrNotifierClosed
	}
	g, ok := r.groups[hash]
	if !ok {
		var err error
		g, err = newGroup(r, opts)
		if err != nil {
			r.mu.Unlock()
			return zerr.Wrap(err, "failed to create notifier subscription group")
		}
		r.groups[hash] = g
	}
	r.mu.Unlock()

	return g.register(fileID, owner)
}

// Unregister removes owner's subscription for fileID. Unknown files, owners
// and groups are ignored.
func (r *Registry) Unregister(fileID, owner, hash string) {
	r.mu.Lock()
	g, ok := r.groups[hash]
	r.mu.Unlock()
	if !ok {
		return
	}
	g.unregister(fileID, owner)
}

// Close stops every subscription group and releases all OS watchers.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	groups := slices.Collect(maps.Values(r.groups))
	r.groups = map[string]*group{}
	r.subs = map[string]func(string){}
	r.mu.Unlock()

	var firstErr error
	for _, g := range groups {
		if err := g.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// callback looks up the change callback registered for an owner.
func (r *Registry) callback(owner string) func(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[owner]
}

// dispatch is one pending change delivery.
type dispatch struct {
	fileID string
	owners []string
}

// group is one shared notifier subscription group. It watches the parent
// directories of registered files rather than the files themselves, so a
// file that is deleted or renamed stays observable and its recreation is
// still reported.
type group struct {
	reg     *Registry
	fw      *fsnotify.Watcher
	pending chan dispatch
	done    chan struct{}

	mu    sync.Mutex
	files map[string]*fileEntry // abs path -> entry
	dirs  map[string]int        // abs dir -> registered file count
}

type fileEntry struct {
	id     string // identifier as registered, preserved for callbacks
	owners map[string]struct{}
}

func newGroup(r *Registry, opts domain.NotifierOptions) (*group, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	buffer := opts.EventBuffer
	if buffer <= 0 {
		buffer = domain.DefaultEventBuffer
	}

	g := &group{
		reg:     r,
		fw:      fw,
		pending: make(chan dispatch, buffer),
		done:    make(chan struct{}),
		files:   make(map[string]*fileEntry),
		dirs:    make(map[string]int),
	}
	go g.processEvents()
	go g.dispatchEvents()
	return g, nil
}

func (g *group) register(fileID, owner string) error {
	abs, err := filepath.Abs(fileID)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve watched file"), "file", fileID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.files[abs]
	if !ok {
		entry = &fileEntry{id: fileID, owners: make(map[string]struct{})}
		g.files[abs] = entry
	}
	if _, dup := entry.owners[owner]; dup {
		return nil
	}
	entry.owners[owner] = struct{}{}

	dir := filepath.Dir(abs)
	g.dirs[dir]++
	if g.dirs[dir] == 1 {
		if err := g.fw.Add(dir); err != nil {
			delete(entry.owners, owner)
			if len(entry.owners) == 0 {
				delete(g.files, abs)
			}
			g.dirs[dir]--
			if g.dirs[dir] == 0 {
				delete(g.dirs, dir)
			}
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
	}
	return nil
}

func (g *group) unregister(fileID, owner string) {
	abs, err := filepath.Abs(fileID)
	if err != nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.files[abs]
	if !ok {
		return
	}
	if _, ok := entry.owners[owner]; !ok {
		return
	}
	delete(entry.owners, owner)
	if len(entry.owners) > 0 {
		return
	}
	delete(g.files, abs)

	dir := filepath.Dir(abs)
	g.dirs[dir]--
	if g.dirs[dir] == 0 {
		delete(g.dirs, dir)
		// The directory may already be gone; a stale OS watch is harmless.
		_ = g.fw.Remove(dir)
	}
}

func (g *group) close() error {
	close(g.done)
	return g.fw.Close()
}

// processEvents converts raw fsnotify events on registered files into
// pending dispatches. Callbacks run on the dispatch goroutine so a slow
// subscriber never stalls the OS event stream.
func (g *group) processEvents() {
	defer close(g.pending)

	for {
		select {
		case <-g.done:
			return
		case ev, ok := <-g.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			abs := filepath.Clean(ev.Name)
			g.mu.Lock()
			entry, registered := g.files[abs]
			var d dispatch
			if registered {
				d = dispatch{
					fileID: entry.id,
					owners: slices.Collect(maps.Keys(entry.owners)),
				}
			}
			g.mu.Unlock()
			if !registered {
				continue
			}

			select {
			case g.pending <- d:
			case <-g.done:
				return
			}
		case err, ok := <-g.fw.Errors:
			if !ok {
				return
			}
			g.reg.logger.Warn("file system notifier error: " + err.Error())
		}
	}
}

func (g *group) dispatchEvents() {
	for d := range g.pending {
		for _, owner := range d.owners {
			if fn := g.reg.callback(owner); fn != nil {
				fn(d.fileID)
			}
		}
	}
}
