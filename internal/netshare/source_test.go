package netshare_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"

	"scanselector/internal/netshare"
	"scanselector/internal/preset"
)

func TestParseSourceSFTP(t *testing.T) {
	src, err := netshare.ParseSource("sftp://storage/share/printers/presets.ini")
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if _, ok := src.(*netshare.SFTPSource); !ok {
		t.Fatalf("expected an SFTPSource, got %T", src)
	}
	if src.Location() != "sftp://storage/share/printers/presets.ini" {
		t.Errorf("unexpected location %q", src.Location())
	}
}

func TestParseSourcePath(t *testing.T) {
	src, err := netshare.ParseSource(`\\storage\Instal\printers\presets.ini`)
	if err != nil {
		t.Fatalf("ParseSource: %v", err)
	}
	if _, ok := src.(*netshare.PathSource); !ok {
		t.Fatalf("expected a PathSource, got %T", src)
	}
}

func TestParseSourceRejectsBadSpecs(t *testing.T) {
	for _, spec := range []string{"", "sftp://", "sftp://hostonly"} {
		if _, err := netshare.ParseSource(spec); err == nil {
			t.Errorf("expected error for spec %q", spec)
		}
	}
}

func TestPathSourceFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.ini")
	content := "[Office]\nScannerAddress=10.0.0.9\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	src := netshare.NewPathSource(path)
	data, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != content {
		t.Errorf("unexpected data: %q", data)
	}

	// Untouched file: the second fetch short-circuits on mtime.
	if _, err := src.Fetch(context.Background()); !errors.Is(err, preset.ErrUnchanged) {
		t.Fatalf("expected ErrUnchanged, got %v", err)
	}

	// A touched file is fetched again.
	updated := content + "\n[Annex]\nScannerAddress=10.0.0.12\n"
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	data, err = src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch after update: %v", err)
	}
	if string(data) != updated {
		t.Errorf("expected updated data, got: %q", data)
	}
}

func TestPathSourceMissingFile(t *testing.T) {
	src := netshare.NewPathSource(filepath.Join(t.TempDir(), "nonexistent.ini"))
	if _, err := src.Fetch(context.Background()); !errors.Is(err, preset.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
