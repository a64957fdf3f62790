package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsPerService(t *testing.T) {
	t.Setenv("DIALOG_CONFIG_PATH", "")
	cfg, err := Load("kbqa")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8072" {
		t.Fatalf("expected the kbqa default address, got %q", cfg.HTTP.Addr)
	}
	if cfg.KBQA.EntitiesToLeave != 5 || cfg.KBQA.RelsToLeave != 7 {
		t.Fatalf("unexpected retention defaults: %+v", cfg.KBQA)
	}
	if cfg.KBQA.WikiParserMode != "http" {
		t.Fatalf("expected http wiki parser mode, got %q", cfg.KBQA.WikiParserMode)
	}

	sel, err := Load("selector")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sel.HTTP.Addr != ":3000" {
		t.Fatalf("expected the selector default address, got %q", sel.HTTP.Addr)
	}
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"env": "production",
		"http": {"addr": ":9999"},
		"kbqa": {
			"rels_to_leave": 3,
			"wiki_parser": {"base_url": "http://wiki:8077/model", "timeout": "30s"}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DIALOG_CONFIG_PATH", path)
	t.Setenv("KBQA_HTTP_ADDR", ":7070")
	t.Setenv("ENTITY_LINKER_URL", "http://linker:8075/model")

	cfg, err := Load("kbqa")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env from file, got %q", cfg.Env)
	}
	// Env vars win over the file.
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("expected the env override, got %q", cfg.HTTP.Addr)
	}
	if cfg.KBQA.RelsToLeave != 3 {
		t.Fatalf("expected rels_to_leave from file, got %d", cfg.KBQA.RelsToLeave)
	}
	if cfg.KBQA.WikiParser.BaseURL != "http://wiki:8077/model" {
		t.Fatalf("unexpected wiki parser url %q", cfg.KBQA.WikiParser.BaseURL)
	}
	if cfg.KBQA.WikiParser.Timeout.Duration != 30*time.Second {
		t.Fatalf("unexpected wiki parser timeout %v", cfg.KBQA.WikiParser.Timeout)
	}
	if cfg.KBQA.EntityLinker.BaseURL != "http://linker:8075/model" {
		t.Fatalf("unexpected entity linker url %q", cfg.KBQA.EntityLinker.BaseURL)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DIALOG_CONFIG_PATH", path)
	if _, err := Load("kbqa"); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"1m30s"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Fatalf("expected 90s, got %v", d.Duration)
	}
	if err := json.Unmarshal([]byte(`5000000000`), &d); err != nil {
		t.Fatalf("unmarshal int: %v", err)
	}
	if d.Duration != 5*time.Second {
		t.Fatalf("expected 5s, got %v", d.Duration)
	}
	if err := json.Unmarshal([]byte(`""`), &d); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if d.Duration != 0 {
		t.Fatalf("expected zero, got %v", d.Duration)
	}
	if err := json.Unmarshal([]byte(`"bogus"`), &d); err == nil {
		t.Fatalf("expected an error for a bad duration")
	}
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"1m30s"` {
		t.Fatalf("unexpected marshal output %s", b)
	}
}
