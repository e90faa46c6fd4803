package assets

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/lightbox/engine/core"
)

// DEFAULT_SETTLE_TIME is how long a newly created file must stay quiet before
// the watcher reports it, so half-written files are not handed to a decoder.
const DEFAULT_SETTLE_TIME = 250 * time.Millisecond

// MIN_POLL_INTERVAL bounds how often pending files are checked.
const MIN_POLL_INTERVAL = time.Millisecond

var ErrWatcherClosed = errors.New("watcher already closed")

var supportedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
	".tga":  {},
}

// IsSupported reports whether path has an image extension the loaders can decode.
func IsSupported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

/**
 * @brief Lists the supported image files under root, visiting at most
 * maxDepth directory levels (1 means only the files directly inside root).
 * Entries are ordered by file name within each directory. Unreadable
 * entries are skipped. Symlinks to regular files are followed.
 */
func Discover(root string, maxDepth int) ([]string, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}
	// resolve the root itself so a symlinked input directory works
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "discover", Path: root, Err: errors.New("not a directory")}
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			core.LogWarn("skipping %s: %s", path, err.Error())
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && depth(root, path) >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) || !IsSupported(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	info, err := os.Stat(path)
	if err != nil {
		core.LogWarn("skipping broken link %s", path)
		return false
	}
	return info.Mode().IsRegular()
}

/**
 * @brief Watches a directory for new image files. Created (or moved-in)
 * files with a supported extension are reported once they have settled.
 * Removals are logged only; the registry never evicts.
 */
type Watcher struct {
	fsnotify *fsnotify.Watcher
	settle   time.Duration
	paths    chan string
	done     chan struct{}
	wg       sync.WaitGroup

	mutex    sync.Mutex
	isClosed bool
}

func NewWatcher(dir string, settle time.Duration) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, err
	}
	if settle <= 0 {
		settle = DEFAULT_SETTLE_TIME
	}

	w := &Watcher{
		fsnotify: fsWatch,
		settle:   settle,
		paths:    make(chan string, 64),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Paths delivers settled paths of new image files.
func (w *Watcher) Paths() <-chan string {
	return w.paths
}

// Pending drains every path that is ready right now without blocking.
func (w *Watcher) Pending() []string {
	var ready []string
	for {
		select {
		case p, ok := <-w.paths:
			if !ok {
				return ready
			}
			ready = append(ready, p)
		default:
			return ready
		}
	}
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return ErrWatcherClosed
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	defer close(w.paths)
	defer w.fsnotify.Close()

	// path -> time of the last write or create seen for it
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(max(w.settle/2, MIN_POLL_INTERVAL))
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if !IsSupported(e.Name) {
				continue
			}
			switch {
			case e.Op&fsnotify.Create != 0:
				pending[e.Name] = time.Now()
			case e.Op&fsnotify.Write != 0:
				// only files we are still waiting on; edits to known files are not reloads
				if _, ok := pending[e.Name]; ok {
					pending[e.Name] = time.Now()
				}
			case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(pending, e.Name)
				core.LogDebug("%s left the watched directory", e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("watcher: %s", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
					continue
				}
				select {
				case w.paths <- path:
				case <-w.done:
					return
				}
			}

		case <-w.done:
			return
		}
	}
}
