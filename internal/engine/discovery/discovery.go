// Package discovery locates Containerfiles under the source tree and
// validates stage lists against them.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/frap129/trls-sub000/internal/core/domain"
	"github.com/frap129/trls-sub000/internal/core/ports"
	"go.trai.ch/zerr"
)

// cacheEntry remembers one successful group lookup.
type cacheEntry struct {
	path string
}

// Discovery resolves group names to Containerfile paths. Lookups are cached
// per group; the whole cache is dropped once the source tree's modification
// time advances past the snapshot taken when caching began.
type Discovery struct {
	cfg    *domain.Config
	logger ports.Logger

	mu         sync.Mutex
	cache      map[string]cacheEntry
	srcDirTime time.Time
	snapshotOK bool
}

// New creates a Discovery for the given configuration.
func New(cfg *domain.Config, logger ports.Logger) *Discovery {
	return &Discovery{
		cfg:    cfg,
		logger: logger,
		cache:  map[string]cacheEntry{},
	}
}

// Resolve returns the path of the Containerfile for the given group,
// consulting the cache before scanning the source tree.
func (d *Discovery) Resolve(group string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.revalidate()

	if entry, ok := d.cache[group]; ok {
		if _, err := os.Stat(entry.path); err == nil {
			return entry.path, nil
		}
		// The cached file is gone; fall through to a fresh scan.
		delete(d.cache, group)
	}

	path, err := d.scan(group)
	if err != nil {
		return "", err
	}

	d.cache[group] = cacheEntry{path: path}
	return path, nil
}

// revalidate drops the whole cache once the source tree has been touched
// after the snapshot was taken. Must be called with the mutex held.
func (d *Discovery) revalidate() {
	info, err := os.Stat(d.cfg.SrcDir)
	if err != nil {
		d.cache = map[string]cacheEntry{}
		d.snapshotOK = false
		return
	}

	current := info.ModTime()
	if d.snapshotOK && !d.srcDirTime.Before(current) {
		return
	}

	d.cache = map[string]cacheEntry{}
	d.srcDirTime = current
	d.snapshotOK = true
}

// scan walks the source tree for the group's Containerfile. The deepest
// match wins; ties keep the first encountered. Unreadable directories are
// warned about and skipped.
func (d *Discovery) scan(group string) (string, error) {
	filename := domain.ContainerfilePrefix + group

	var bestPath string
	bestDepth := -1

	err := d.walk(func(path string, depth int, entry fs.DirEntry) {
		if entry.Name() == filename && depth > bestDepth {
			bestPath = path
			bestDepth = depth
		}
	})
	if err != nil {
		return "", err
	}

	if bestPath == "" {
		return "", zerr.With(
			zerr.With(domain.ErrContainerfileNotFound, "file", filename),
			"src_dir", d.cfg.SrcDir,
		)
	}

	return bestPath, nil
}

// ValidateStages resolves the group of every stage and reports all missing
// Containerfiles in one error. An empty stage list is vacuously valid.
func (d *Discovery) ValidateStages(stages []string) error {
	if len(stages) == 0 {
		return nil
	}

	groups := map[string]bool{}
	for _, stage := range stages {
		group, _ := domain.ParseStageName(stage)
		groups[group] = false
	}

	// One shared walk finds every group's deepest match.
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revalidate()

	type match struct {
		path  string
		depth int
	}
	found := map[string]match{}

	err := d.walk(func(path string, depth int, entry fs.DirEntry) {
		group, ok := strings.CutPrefix(entry.Name(), domain.ContainerfilePrefix)
		if !ok || group == "" {
			return
		}
		if _, wanted := groups[group]; !wanted {
			return
		}
		if prev, ok := found[group]; !ok || depth > prev.depth {
			found[group] = match{path: path, depth: depth}
		}
	})
	if err != nil {
		return err
	}

	var missing []string
	for group := range groups {
		if m, ok := found[group]; ok {
			d.cache[group] = cacheEntry{path: m.path}
		} else {
			missing = append(missing, domain.ContainerfilePrefix+group)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		err := zerr.Wrap(domain.ErrMissingContainerfiles, "missing "+strings.Join(missing, ", "))
		return zerr.With(err, "src_dir", d.cfg.SrcDir)
	}

	return nil
}

// walk traverses the source tree up to MaxSearchDepth without following
// symlinks, invoking fn for every regular file. Unreadable directories are
// logged and skipped rather than aborting the walk.
func (d *Discovery) walk(fn func(path string, depth int, entry fs.DirEntry)) error {
	root := filepath.Clean(d.cfg.SrcDir)

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			d.logger.Warn("skipping unreadable path during discovery", "path", path, "error", err.Error())
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		depth := pathDepth(root, path)
		if entry.IsDir() {
			if depth > domain.MaxSearchDepth {
				return filepath.SkipDir
			}
			return nil
		}

		// WalkDir does not follow symlinks, so symlinked files and
		// directories are seen but never traversed.
		if entry.Type().IsRegular() {
			fn(path, depth, entry)
		}
		return nil
	})
}

// pathDepth counts path elements below the walk root.
func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}
