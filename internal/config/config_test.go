package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", Config{}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Fatalf("Load(\"\", {}, nil) = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFileFillsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kmatch.jsonc")
	// JSON-with-comments: hujson.Standardize must strip the comment
	// before json.Unmarshal runs.
	body := `{
		// rolling extension needs a k-mer length
		"k_len": 21,
		"use_klcp": true
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, Config{}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.KLen != 21 || !cfg.UseKLCP {
		t.Fatalf("Load = %+v, want KLen=21 UseKLCP=true", cfg)
	}
	if cfg.Format != "text" {
		t.Fatalf("Load should keep the default Format, got %q", cfg.Format)
	}
}

func TestCLIOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kmatch.jsonc")
	if err := os.WriteFile(path, []byte(`{"k_len": 21}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, Config{KLen: 31}, map[string]bool{"k_len": true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.KLen != 31 {
		t.Fatalf("KLen = %d, want 31 (CLI flag must win over file)", cfg.KLen)
	}
}

func TestValidateRejectsKLCPWithoutKLen(t *testing.T) {
	if _, err := Load("", Config{UseKLCP: true}, map[string]bool{"use_klcp": true}); err == nil {
		t.Fatal("Load should reject UseKLCP without a positive KLen")
	}
}

func TestValidateRejectsUnknownFormat(t *testing.T) {
	if _, err := Load("", Config{Format: "bogus"}, map[string]bool{"format": true}); err == nil {
		t.Fatal("Load should reject an unrecognized -format value")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/kmatch.jsonc", Config{}, nil); err == nil {
		t.Fatal("Load should error when the config file does not exist")
	}
}
