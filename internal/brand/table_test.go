package brand

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	scerrors "github.com/scamlens/scamlens/internal/shared/errors"
)

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brands.yaml")
	doc := `brands:
  - name: Acme Bank
    domains: [acmebank.example]
    keywords: [acme]
    url: https://acmebank.example
  - name: Shiply
    domains: [shiply.example]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}

	brands := table.Brands()
	if brands[0].Name != "Acme Bank" {
		t.Errorf("first brand = %q", brands[0].Name)
	}
	// The brand name (spaces removed, lower-cased) is always added as a keyword.
	if !contains(brands[0].Keywords, "acmebank") {
		t.Errorf("name-derived keyword missing: %v", brands[0].Keywords)
	}
	// Missing URL defaults to the first canonical domain.
	if brands[1].URL != "https://shiply.example" {
		t.Errorf("defaulted URL = %q", brands[1].URL)
	}
}

func TestLoadTable_MissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewTable_Validation(t *testing.T) {
	if _, err := NewTable(nil); !errors.Is(err, scerrors.ErrBrandTableEmpty) {
		t.Errorf("empty table error = %v", err)
	}
	if _, err := NewTable([]Brand{{Name: "", Domains: []string{"x.example"}}}); !errors.Is(err, scerrors.ErrEmptyBrandName) {
		t.Errorf("empty name error = %v", err)
	}
	if _, err := NewTable([]Brand{{Name: "X"}}); !errors.Is(err, scerrors.ErrNoBrandDomains) {
		t.Errorf("no domains error = %v", err)
	}
}
