// Package netshare fetches the shared presets file, either straight from a
// filesystem path (UNC or mounted share) or over SFTP for shares that are
// only reachable through SSH.
package netshare

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"scanselector/internal/preset"
)

// ParseSource picks a fetcher for the given source spec. Specs of the form
// sftp://host/path go over SSH; anything else is treated as a plain path.
func ParseSource(spec string) (preset.Fetcher, error) {
	if strings.HasPrefix(spec, "sftp://") {
		rest := strings.TrimPrefix(spec, "sftp://")
		host, path, ok := strings.Cut(rest, "/")
		if !ok || host == "" || path == "" {
			return nil, errors.Errorf("malformed sftp source %q, want sftp://host/path", spec)
		}
		return NewSFTPSource(host, "/"+path), nil
	}
	if spec == "" {
		return nil, errors.New("empty preset source")
	}
	return NewPathSource(spec), nil
}

// PathSource reads the presets file from a filesystem path. It remembers
// the file's mtime so an unchanged file costs one stat per tick.
type PathSource struct {
	path string

	mu      sync.Mutex
	lastMod time.Time
}

func NewPathSource(path string) *PathSource {
	return &PathSource{path: path}
}

func (p *PathSource) Location() string { return p.path }

func (p *PathSource) Fetch(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fi, err := os.Stat(p.path)
	if err != nil {
		return nil, errors.Wrapf(preset.ErrSourceUnavailable, "stat %s: %v", p.path, err)
	}
	if !p.lastMod.IsZero() && fi.ModTime().Equal(p.lastMod) {
		return nil, preset.ErrUnchanged
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, errors.Wrapf(preset.ErrSourceUnavailable, "read %s: %v", p.path, err)
	}
	p.lastMod = fi.ModTime()
	return data, nil
}
