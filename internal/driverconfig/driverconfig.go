// Package driverconfig reads and rewrites the ScannerAddress entry in the
// Kyocera KM_TWAIN driver's per-user INI file, leaving every other entry
// untouched.
package driverconfig

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const (
	contentsSection = "Contents"
	addressKey      = "ScannerAddress"
)

// defaultContents is what the driver installer seeds; writing it on first
// run means the selector works before the scanner dialog was ever opened.
const defaultContents = "[Contents]\nUnit=0\nCompression=0\nCompressionGray=0\nScannerAddress=10.0.0.1\n\n[Authentication]\nUnit=0\nUserName=\nPassword=\n"

// File is an accessor for one driver configuration file.
type File struct {
	Path string
}

// Resolve locates the driver configuration file and creates it with default
// contents when missing. An empty override resolves the conventional
// per-user location (%APPDATA%\Kyocera\KM_TWAIN on Windows); the driver
// sometimes stores the file with a .ini suffix, so both names are probed.
func Resolve(override string) (*File, error) {
	base := override
	if base == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving user config dir")
		}
		base = filepath.Join(confDir, "Kyocera", "KM_TWAIN")
	}

	if fileExists(base) {
		return &File{Path: base}, nil
	}
	if fileExists(base + ".ini") {
		return &File{Path: base + ".ini"}, nil
	}

	if err := os.MkdirAll(filepath.Dir(base), 0755); err != nil {
		return nil, errors.Wrap(err, "creating driver config dir")
	}
	if err := os.WriteFile(base, []byte(defaultContents), 0644); err != nil {
		return nil, errors.Wrap(err, "seeding driver config")
	}
	return &File{Path: base}, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// CurrentIP returns the scanner address the driver is configured to use.
// A missing section or key reads as an empty string.
func (f *File) CurrentIP() (string, error) {
	cfg, err := ini.Load(f.Path)
	if err != nil {
		return "", errors.Wrap(err, "loading driver config")
	}
	return strings.TrimSpace(cfg.Section(contentsSection).Key(addressKey).String()), nil
}

// WriteIP replaces ScannerAddress and persists the file atomically via a
// temp file and rename, so the TWAIN driver never observes a partial write.
// All unrelated sections, keys, and comments are preserved.
func (f *File) WriteIP(newIP string) error {
	if !ValidIP(newIP) {
		return errors.Errorf("not a valid IPv4 address: %q", newIP)
	}

	cfg, err := ini.Load(f.Path)
	if err != nil {
		return errors.Wrap(err, "loading driver config")
	}
	cfg.Section(contentsSection).Key(addressKey).SetValue(newIP)

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".km_twain-*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	if _, err := cfg.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "writing driver config")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replacing driver config")
	}
	return nil
}

// ValidIP reports whether s is a dotted-quad IPv4 address. The KM_TWAIN
// driver does not accept hostnames or IPv6.
func ValidIP(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Count(s, ".") != 3 {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}
