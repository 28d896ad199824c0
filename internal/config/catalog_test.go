package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/3weTN/latest-news/internal/config"
	"github.com/3weTN/latest-news/internal/domain/entity"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := config.DefaultCatalog()

	if len(catalog) != 5 {
		t.Fatalf("catalog length = %d, want 5", len(catalog))
	}
	for _, src := range catalog {
		if err := src.Validate(); err != nil {
			t.Errorf("built-in source %s invalid: %v", src.ID, err)
		}
	}
	if catalog[0].ID != "mosaique" || catalog[0].Type != entity.SourceTypeAPI {
		t.Errorf("first source = %s/%s, want mosaique/api", catalog[0].ID, catalog[0].Type)
	}
}

func TestLoadCatalog_EmptyPathUsesBuiltin(t *testing.T) {
	catalog, err := config.LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog(\"\") error = %v", err)
	}
	if len(catalog) != len(config.DefaultCatalog()) {
		t.Errorf("catalog length = %d, want built-in length", len(catalog))
	}
}

func TestLoadCatalog_FileOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	content := `sources:
  - id: feedone
    name: Feed One
    type: rss
    endpoint: https://one.example.tn/feed
    maxAgeDays: 7
  - id: apitwo
    name: API Two
    type: api
    endpoint: https://two.example.tn/api/{page}
    perPage: 10
    firstPageOnly: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	catalog, err := config.LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("catalog length = %d, want 2", len(catalog))
	}
	if catalog[0].MaxAgeDays != 7 {
		t.Errorf("maxAgeDays = %d, want 7", catalog[0].MaxAgeDays)
	}
	if !catalog[1].FirstPageOnly {
		t.Error("firstPageOnly not parsed")
	}
}

func TestLoadCatalog_RejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	content := `sources:
  - {id: dup, name: A, type: rss, endpoint: "https://a.tn/feed"}
  - {id: dup, name: B, type: rss, endpoint: "https://b.tn/feed"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := config.LoadCatalog(path); err == nil {
		t.Error("LoadCatalog() accepted duplicate ids")
	}
}

func TestLoadCatalog_RejectsInvalidSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	content := `sources:
  - {id: bad, name: Bad, type: carrier-pigeon, endpoint: "https://bad.tn"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := config.LoadCatalog(path); err == nil {
		t.Error("LoadCatalog() accepted invalid source type")
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := config.LoadCatalog("/nonexistent/sources.yaml"); err == nil {
		t.Error("LoadCatalog() accepted missing file")
	}
}
