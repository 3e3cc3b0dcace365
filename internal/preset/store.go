package preset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrSourceUnavailable is wrapped by fetchers when the network file
	// cannot be reached.
	ErrSourceUnavailable = errors.New("preset source unavailable")

	// ErrNoCache means the source was unreachable and no cached copy
	// exists either.
	ErrNoCache = errors.New("no cached presets available")

	// ErrUnchanged may be returned by a Fetcher to signal that the source
	// has not changed since the last successful fetch.
	ErrUnchanged = errors.New("preset source unchanged")
)

// Fetcher retrieves the raw bytes of the shared presets file.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// Store owns the current preset snapshot. The refresh goroutine started by
// Run is the only writer; Snapshot hands out copies, so readers never
// observe a partially updated list.
type Store struct {
	src       Fetcher
	cachePath string
	log       *slog.Logger

	// OnUpdate is invoked after every refresh attempt made by Run, with
	// the resulting set (or the retained one) and the load error, if any.
	OnUpdate func(Set, error)

	autoRefresh atomic.Bool

	mu     sync.RWMutex
	set    Set
	loaded bool
}

// NewStore creates a store reading from src and caching at cachePath.
// Auto refresh starts enabled.
func NewStore(src Fetcher, cachePath string, log *slog.Logger) *Store {
	s := &Store{src: src, cachePath: cachePath, log: log}
	s.autoRefresh.Store(true)
	return s
}

// SetAutoRefresh gates the periodic refresh performed by Run. Explicit
// Load calls are unaffected.
func (s *Store) SetAutoRefresh(on bool) { s.autoRefresh.Store(on) }

// Load fetches the presets from the network source, falling back to the
// local cache. A successful network load rewrites the cache. With no
// network and no cache it fails with ErrNoCache.
func (s *Store) Load(ctx context.Context) (Set, error) {
	data, err := s.src.Fetch(ctx)
	if err == nil {
		set, perr := Parse(data, s.log)
		if perr == nil {
			set.Origin = OriginNetwork
			set.FetchedAt = time.Now()
			s.swap(set)
			if werr := writeFileAtomic(s.cachePath, data); werr != nil {
				s.log.Warn("updating preset cache failed", "path", s.cachePath, "error", werr)
			}
			return set, nil
		}
		// Treat undecodable source data like an unreachable source: the
		// cache still holds the last known-good copy.
		s.log.Warn("preset source returned undecodable data",
			"source", s.src.Location(), "error", perr)
		err = perr
	}

	if errors.Is(err, ErrUnchanged) {
		if set, ok := s.current(); ok {
			return set, nil
		}
	}

	s.log.Debug("preset source fetch failed, trying cache",
		"source", s.src.Location(), "error", err)
	return s.loadCached()
}

func (s *Store) loadCached() (Set, error) {
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		if set, ok := s.current(); ok {
			// Keep serving the snapshot from the last good fetch.
			return set, nil
		}
		if os.IsNotExist(err) {
			return Set{}, ErrNoCache
		}
		return Set{}, errors.Wrap(err, "reading preset cache")
	}

	set, err := Parse(data, s.log)
	if err != nil {
		if cur, ok := s.current(); ok {
			return cur, nil
		}
		return Set{}, errors.Wrap(err, "parsing preset cache")
	}
	set.Origin = OriginCache
	if fi, serr := os.Stat(s.cachePath); serr == nil {
		set.FetchedAt = fi.ModTime()
	}
	s.swap(set)
	return set, nil
}

// Snapshot returns a copy of the current set and whether anything has been
// loaded yet.
func (s *Store) Snapshot() (Set, bool) {
	return s.current()
}

// Run refreshes the store every interval until ctx is done. A failed tick
// keeps the previous snapshot; the next attempt is the next tick.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.autoRefresh.Load() {
				continue
			}
			set, err := s.Load(ctx)
			if err != nil {
				s.log.Warn("preset refresh failed", "error", err)
			}
			if s.OnUpdate != nil {
				s.OnUpdate(set, err)
			}
		}
	}
}

func (s *Store) swap(set Set) {
	s.mu.Lock()
	s.set = set
	s.loaded = true
	s.mu.Unlock()
}

func (s *Store) current() (Set, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Set{}, false
	}
	cp := s.set
	cp.Presets = make([]Preset, len(s.set.Presets))
	copy(cp.Presets, s.set.Presets)
	return cp, true
}

// writeFileAtomic writes to a temp file then renames it over path.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
