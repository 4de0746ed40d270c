package luarules

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/dshills/insights/internal/rules"
)

// Watcher keeps a provider in sync with the scripts of a rule directory.
// Every rule is owned by the script that defined it; editing a script
// replaces its rules and deleting it removes them.
type Watcher struct {
	loader   *Loader
	provider *rules.Provider
	logger   *zap.Logger
	onReload func(path string, err error)

	mu     sync.Mutex
	owners map[rules.RuleID]string
	files  map[string][]rules.RuleID

	fsw       *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithReloadHook sets a function called after each script change is applied.
func WithReloadHook(fn func(path string, err error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher creates a watcher loading scripts with loader into provider.
func NewWatcher(loader *Loader, provider *rules.Provider, logger *zap.Logger, opts ...WatcherOption) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		loader:   loader,
		provider: provider,
		logger:   logger.Named("luarules"),
		owners:   make(map[rules.RuleID]string),
		files:    make(map[string][]rules.RuleID),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LoadDir loads every script in dir. A missing dir loads nothing. The first
// failing script aborts the load.
func (w *Watcher) LoadDir(dir string) error {
	paths, err := scriptPaths(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, path := range paths {
		if err := w.reloadLocked(path); err != nil {
			return err
		}
	}
	return nil
}

// Start watches dir for script changes until Close.
func (w *Watcher) Start(dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Close stops watching. Rules already loaded stay registered.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			err = w.fsw.Close()
		}
		w.wg.Wait()
	})
	return err
}

// Owner returns the script that defined id.
func (w *Watcher) Owner(id rules.RuleID) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	path, ok := w.owners[id]
	return path, ok
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("rule watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !isScript(filepath.Base(ev.Name)) {
		return
	}

	var err error
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.mu.Lock()
		w.dropLocked(ev.Name)
		w.mu.Unlock()
		w.logger.Info("rule script removed", zap.String("script", ev.Name))

	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.mu.Lock()
		err = w.reloadLocked(ev.Name)
		w.mu.Unlock()
		if err != nil {
			w.logger.Warn("rule script reload failed, keeping previous rules",
				zap.String("script", ev.Name), zap.Error(err))
		} else {
			w.logger.Info("rule script reloaded", zap.String("script", ev.Name))
		}

	default:
		return
	}

	if w.onReload != nil {
		w.onReload(ev.Name, err)
	}
}

// reloadLocked runs the script at path and swaps in its rules.
func (w *Watcher) reloadLocked(path string) error {
	path = filepath.Clean(path)

	defs, err := w.loader.LoadFile(path)
	if err != nil {
		return err
	}

	// A rejected script keeps its previous rules.
	seen := make(map[rules.RuleID]bool, len(defs))
	for _, d := range defs {
		if seen[d.RuleID] {
			return fmt.Errorf("%s: %w: %s defined twice", path, rules.ErrDuplicateRule, d.RuleID)
		}
		seen[d.RuleID] = true
		if owner, ok := w.owners[d.RuleID]; ok && owner != path {
			return fmt.Errorf("%w: %s defined by %s and %s", rules.ErrDuplicateRule, d.RuleID, owner, path)
		}
		if w.provider.IsBuiltin(d.RuleID) {
			return fmt.Errorf("%s: %w: %s is built in", path, rules.ErrDuplicateRule, d.RuleID)
		}
		if d.HowToFixFormat == nil {
			return fmt.Errorf("%s: %w: %s", path, rules.ErrInvalidRule, d.RuleID)
		}
	}

	ids := make([]rules.RuleID, 0, len(defs))
	for _, d := range defs {
		if err := w.provider.Replace(d); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		w.owners[d.RuleID] = path
		ids = append(ids, d.RuleID)
	}

	for _, old := range w.files[path] {
		if !slices.Contains(ids, old) {
			w.provider.Remove(old)
			delete(w.owners, old)
		}
	}
	w.files[path] = ids
	return nil
}

func (w *Watcher) dropLocked(path string) {
	path = filepath.Clean(path)
	for _, id := range w.files[path] {
		w.provider.Remove(id)
		delete(w.owners, id)
	}
	delete(w.files, path)
}
