// Package preset loads named scanner IP presets from a shared network file,
// mirrors them into a local cache, and serves atomic snapshots to the UI.
package preset

import (
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"scanselector/internal/driverconfig"
)

// Origin tags where a Set was loaded from.
type Origin string

const (
	OriginNetwork Origin = "network"
	OriginCache   Origin = "cache"
)

// Preset is one named scanner address from the presets file.
type Preset struct {
	Name string
	IP   string
}

// Set is an immutable snapshot of loaded presets. Presets keep the order of
// their sections in the source file.
type Set struct {
	Presets   []Preset
	Origin    Origin
	FetchedAt time.Time
}

// Lookup returns the preset with the given name.
func (s Set) Lookup(name string) (Preset, bool) {
	for _, p := range s.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Names returns the preset names in display order.
func (s Set) Names() []string {
	names := make([]string, len(s.Presets))
	for i, p := range s.Presets {
		names[i] = p.Name
	}
	return names
}

// Parse reads presets from INI data: one section per preset, the section
// name is the preset name and its ScannerAddress key holds the IP. Sections
// without a valid IPv4 address are skipped with a warning so one bad entry
// never hides the rest.
func Parse(data []byte, log *slog.Logger) (Set, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return Set{}, errors.Wrap(err, "parsing presets")
	}

	var presets []Preset
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		ip := strings.TrimSpace(sec.Key("ScannerAddress").String())
		if !driverconfig.ValidIP(ip) {
			log.Warn("skipping preset without a valid scanner address",
				"preset", sec.Name(), "address", ip)
			continue
		}
		presets = append(presets, Preset{Name: sec.Name(), IP: ip})
	}
	return Set{Presets: presets}, nil
}
