package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	langs := c.Languages()
	if len(langs) == 0 {
		t.Fatal("Default catalog has no languages")
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1] >= langs[i] {
			t.Errorf("Languages not sorted: %s before %s", langs[i-1], langs[i])
		}
	}
	topics, ok := c.Topics("javascript")
	if !ok || len(topics) == 0 {
		t.Error("Expected javascript topics in the default catalog")
	}
	if !c.Has("javascript", "basics") {
		t.Error("Expected javascript/basics in the default catalog")
	}
	if c.Has("javascript", "nonexistent") {
		t.Error("Unknown topic should not be in the catalog")
	}
	if c.Has("cobol", "") {
		t.Error("Unknown language should not be in the catalog")
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	contents := `{"rust": ["ownership", "traits"]}`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !c.Has("rust", "traits") {
		t.Error("Expected rust/traits from loaded catalog")
	}
	if c.Has("javascript", "") {
		t.Error("Loaded catalog should replace the defaults")
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	_ = os.WriteFile(empty, []byte(`{}`), 0644)
	if _, err := Load(empty); err == nil {
		t.Error("Expected error for catalog with no languages")
	}

	malformed := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(malformed, []byte(`not json`), 0644)
	if _, err := Load(malformed); err == nil {
		t.Error("Expected error for malformed catalog")
	}
}

func TestTopicsReturnsACopy(t *testing.T) {
	c := Default()
	topics, _ := c.Topics("python")
	topics[0] = "tampered"
	again, _ := c.Topics("python")
	if again[0] == "tampered" {
		t.Error("Topics must return a copy")
	}
}
