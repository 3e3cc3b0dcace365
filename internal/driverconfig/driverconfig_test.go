package driverconfig_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/ini.v1"

	"scanselector/internal/driverconfig"
)

func TestResolveCreatesDefaultFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "Kyocera", "KM_TWAIN")

	f, err := driverconfig.Resolve(base)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Path != base {
		t.Errorf("expected path %q, got %q", base, f.Path)
	}

	ip, err := f.CurrentIP()
	if err != nil {
		t.Fatalf("CurrentIP on seeded file: %v", err)
	}
	if ip != "10.0.0.1" {
		t.Errorf("expected seeded default 10.0.0.1, got %q", ip)
	}

	cfg, err := ini.Load(base)
	if err != nil {
		t.Fatalf("seeded file does not parse: %v", err)
	}
	if !cfg.HasSection("Authentication") {
		t.Error("seeded file is missing the Authentication section")
	}
}

func TestResolvePrefersIniSuffix(t *testing.T) {
	base := filepath.Join(t.TempDir(), "KM_TWAIN")
	content := "[Contents]\nScannerAddress=10.1.2.3\n"
	if err := os.WriteFile(base+".ini", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := driverconfig.Resolve(base)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Path != base+".ini" {
		t.Errorf("expected %q, got %q", base+".ini", f.Path)
	}
	ip, err := f.CurrentIP()
	if err != nil {
		t.Fatalf("CurrentIP: %v", err)
	}
	if ip != "10.1.2.3" {
		t.Errorf("expected 10.1.2.3, got %q", ip)
	}
}

func TestWriteIPRoundTripPreservesOtherEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "KM_TWAIN")
	seed := strings.Join([]string{
		"[Contents]",
		"Unit=0",
		"Compression=2",
		"CompressionGray=1",
		"ScannerAddress=10.0.0.1",
		"",
		"[Authentication]",
		"Unit=0",
		"UserName=scanuser",
		"Password=hunter2",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
		t.Fatal(err)
	}

	f := &driverconfig.File{Path: path}
	if err := f.WriteIP("192.168.1.50"); err != nil {
		t.Fatalf("WriteIP: %v", err)
	}

	ip, err := f.CurrentIP()
	if err != nil {
		t.Fatalf("CurrentIP: %v", err)
	}
	if ip != "192.168.1.50" {
		t.Errorf("expected 192.168.1.50, got %q", ip)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		t.Fatalf("rewritten file does not parse: %v", err)
	}
	checks := map[[2]string]string{
		{"Contents", "Unit"}:            "0",
		{"Contents", "Compression"}:     "2",
		{"Contents", "CompressionGray"}: "1",
		{"Authentication", "UserName"}:  "scanuser",
		{"Authentication", "Password"}:  "hunter2",
	}
	for loc, want := range checks {
		if got := cfg.Section(loc[0]).Key(loc[1]).String(); got != want {
			t.Errorf("[%s] %s: expected %q, got %q", loc[0], loc[1], want, got)
		}
	}
}

func TestWriteIPRejectsInvalidAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "KM_TWAIN")
	if err := os.WriteFile(path, []byte("[Contents]\nScannerAddress=10.0.0.1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f := &driverconfig.File{Path: path}

	if err := f.WriteIP("not-an-ip"); err == nil {
		t.Fatal("expected error for invalid address")
	}
	ip, _ := f.CurrentIP()
	if ip != "10.0.0.1" {
		t.Errorf("file changed by rejected write, got %q", ip)
	}
}

func TestValidIP(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"10.0.0.1", true},
		{"192.168.100.200", true},
		{" 10.0.0.1 ", true},
		{"255.255.255.255", true},
		{"", false},
		{"256.1.1.1", false},
		{"10.0.0", false},
		{"10.0.0.1.5", false},
		{"scanner.local", false},
		{"fe80::1", false},
	}
	for _, tc := range cases {
		if got := driverconfig.ValidIP(tc.in); got != tc.want {
			t.Errorf("ValidIP(%q) = %v, expected %v", tc.in, got, tc.want)
		}
	}
}
