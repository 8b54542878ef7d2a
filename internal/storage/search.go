package storage

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/danfe-zpl/internal/model"
)

// XMLExtension is the suffix of candidate files
const XMLExtension = ".xml"

// DefaultSearchWorkers bounds concurrent stat calls
const DefaultSearchWorkers = 8

// Searcher finds NFe XML files in a single directory (non-recursive).
// Modification times are cached per path; the cache is safe for
// concurrent use and can be dropped with Invalidate.
type Searcher struct {
	dir     string
	workers int
	fs      afero.Fs
	logger  *zap.Logger

	mu     sync.RWMutex
	mtimes map[string]time.Time
}

// SearcherOption configures a Searcher
type SearcherOption func(*Searcher)

// WithWorkers sets the stat worker limit
func WithWorkers(n int) SearcherOption {
	return func(s *Searcher) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSearcherFs sets the filesystem (default: OS filesystem)
func WithSearcherFs(fsys afero.Fs) SearcherOption {
	return func(s *Searcher) {
		s.fs = fsys
	}
}

// WithSearcherLogger sets the logger
func WithSearcherLogger(logger *zap.Logger) SearcherOption {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a searcher rooted at dir
func NewSearcher(dir string, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		dir:     dir,
		workers: DefaultSearchWorkers,
		fs:      afero.NewOsFs(),
		logger:  zap.NewNop(),
		mtimes:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the searched directory
func (s *Searcher) Dir() string {
	return s.dir
}

// Find returns the path of the first XML file, in name order, whose name
// contains code
func (s *Searcher) Find(ctx context.Context, code string) (string, bool, error) {
	names, err := s.candidates(func(name string) bool {
		return strings.Contains(name, code)
	})
	if err != nil {
		return "", false, err
	}

	// stat one batch at a time so a hit in an early batch skips the rest
	for start := 0; start < len(names); start += s.workers {
		end := start + s.workers
		if end > len(names) {
			end = len(names)
		}

		ok, err := s.statAll(ctx, names[start:end])
		if err != nil {
			return "", false, err
		}
		for i, hit := range ok {
			if hit {
				return filepath.Join(s.dir, names[start+i]), true, nil
			}
		}
	}

	return "", false, nil
}

// List returns the names of all readable XML files in name order
func (s *Searcher) List(ctx context.Context) ([]string, error) {
	names, err := s.candidates(nil)
	if err != nil {
		return nil, err
	}

	ok, err := s.statAll(ctx, names)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(names))
	for i, name := range names {
		if ok[i] {
			files = append(files, name)
		}
	}
	return files, nil
}

// ModTime returns the cached modification time of path, if known
func (s *Searcher) ModTime(path string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.mtimes[path]
	return t, ok
}

// Invalidate drops every cached modification time
func (s *Searcher) Invalidate() {
	s.mu.Lock()
	s.mtimes = make(map[string]time.Time)
	s.mu.Unlock()
}

// InvalidatePath drops the cached modification time of one path
func (s *Searcher) InvalidatePath(path string) {
	s.mu.Lock()
	delete(s.mtimes, path)
	s.mu.Unlock()
}

// IsXMLName reports whether name carries the (case-sensitive) .xml suffix
func IsXMLName(name string) bool {
	return strings.HasSuffix(name, XMLExtension)
}

func (s *Searcher) candidates(match func(string) bool) ([]string, error) {
	if s.dir == "" {
		return nil, ErrDirNotConfigured
	}

	d, err := s.fs.Open(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.NewNotFoundError(s.dir, err)
		}
		return nil, NewIOError("open", s.dir, err)
	}
	defer d.Close()

	names, err := d.Readdirnames(-1)
	if err != nil {
		return nil, NewIOError("readdir", s.dir, err)
	}
	sort.Strings(names)

	out := names[:0]
	for _, name := range names {
		if !IsXMLName(name) {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// statAll checks each name with a bounded pool. Files that cannot be
// stat'ed, and directories, are reported false and skipped.
func (s *Searcher) statAll(ctx context.Context, names []string) ([]bool, error) {
	ok := make([]bool, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok[i] = s.stat(filepath.Join(s.dir, name))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ok, nil
}

func (s *Searcher) stat(path string) bool {
	if _, cached := s.ModTime(path); cached {
		return true
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		s.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
		return false
	}
	if info.IsDir() {
		return false
	}

	s.mu.Lock()
	s.mtimes[path] = info.ModTime()
	s.mu.Unlock()
	return true
}
