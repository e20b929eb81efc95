package localebuild

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// ErrNothingToWatch is returned when none of the watch directories exist.
var ErrNothingToWatch = errors.New("localebuild: no directory to watch")

// Watcher re-runs a Compiler when fragments matching its patterns change.
// Bursts of events are coalesced by a debounce delay.
type Watcher struct {
	compiler *Compiler
	patterns []string
	debounce time.Duration
	initial  bool
	log      *slog.Logger
	onRun    func(*Result, error)
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithWatchPatterns overrides Compiler.WatchPatterns.
func WithWatchPatterns(patterns ...string) WatchOption {
	return func(w *Watcher) {
		if len(patterns) > 0 {
			w.patterns = patterns
		}
	}
}

// WithDebounce sets the quiet period before a run starts.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInitialRun compiles once before waiting for changes.
func WithInitialRun() WatchOption {
	return func(w *Watcher) { w.initial = true }
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithRunHook registers a callback invoked after every run.
func WithRunHook(fn func(*Result, error)) WatchOption {
	return func(w *Watcher) { w.onRun = fn }
}

// NewWatcher creates a watcher for c.
func NewWatcher(c *Compiler, opts ...WatchOption) *Watcher {
	w := &Watcher{
		compiler: c,
		patterns: c.WatchPatterns(),
		debounce: c.cfg.Debounce,
		log:      c.log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. Compile errors are logged and the
// watcher keeps going.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	matchers := make([]glob.Glob, 0, len(w.patterns))
	for _, p := range w.patterns {
		g, err := glob.Compile(filepath.ToSlash(filepath.Clean(p)), '/')
		if err != nil {
			return errors.Join(ErrInvalidPattern, err)
		}
		matchers = append(matchers, g)
	}

	watched := 0
	for _, dir := range watchDirs(w.patterns) {
		if err := fw.Add(dir); err != nil {
			w.log.WarnContext(ctx, "cannot watch locale directory", slog.String("dir", dir), slog.String("error", err.Error()))
			continue
		}
		watched++
	}
	if watched == 0 {
		return ErrNothingToWatch
	}
	w.log.InfoContext(ctx, "watching locale fragments", slog.Any("patterns", w.patterns))

	if w.initial {
		w.compile(ctx)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && w.recursive() && isDir(ev.Name) {
				_ = fw.Add(ev.Name)
			}
			if !relevant(ev, matchers) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.ErrorContext(ctx, "locale watcher error", slog.String("error", err.Error()))
		case <-fire:
			fire = nil
			w.compile(ctx)
		}
	}
}

func (w *Watcher) compile(ctx context.Context) {
	res, err := w.compiler.Run(ctx)
	if err != nil {
		w.log.ErrorContext(ctx, "locale compilation failed", slog.String("error", err.Error()))
	}
	if w.onRun != nil {
		w.onRun(res, err)
	}
}

func (w *Watcher) recursive() bool {
	for _, p := range w.patterns {
		if strings.Contains(p, "**") {
			return true
		}
	}
	return false
}

func relevant(ev fsnotify.Event, matchers []glob.Glob) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !isFragment(ev.Name) {
		return false
	}
	name := filepath.ToSlash(filepath.Clean(ev.Name))
	for _, m := range matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// watchDirs lists the directories that can hold files matching patterns.
func watchDirs(patterns []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	add := func(d string) {
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}

	for _, p := range patterns {
		p = filepath.ToSlash(filepath.Clean(p))
		if strings.Contains(p, "**") {
			root := staticRoot(p)
			_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err == nil && d.IsDir() {
					add(path)
				}
				return nil
			})
			continue
		}
		matches, err := filepath.Glob(filepath.Dir(filepath.FromSlash(p)))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if isDir(m) {
				add(m)
			}
		}
	}
	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
