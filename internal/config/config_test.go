package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// UNIFIED CONFIG TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "apexvle" {
		t.Errorf("expected Name=apexvle, got %s", cfg.Name)
	}
	if cfg.Apex.Driver != "sqlite" {
		t.Errorf("expected Driver=sqlite, got %s", cfg.Apex.Driver)
	}
	if cfg.Export.DefaultFile != "apex_cheminfo.csv" {
		t.Errorf("expected DefaultFile=apex_cheminfo.csv, got %s", cfg.Export.DefaultFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("APEX_DSN", "")
	t.Setenv("APEX_DRIVER", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Apex.Driver = "sqlite3"
	cfg.Apex.DSN = "/srv/apex/apex.db"
	cfg.Simulator.RunTimeout = "45s"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Apex.Driver != "sqlite3" {
		t.Errorf("expected Driver=sqlite3, got %s", loaded.Apex.Driver)
	}
	if loaded.Apex.DSN != "/srv/apex/apex.db" {
		t.Errorf("expected DSN=/srv/apex/apex.db, got %s", loaded.Apex.DSN)
	}
	if loaded.GetRunTimeout() != 45*time.Second {
		t.Errorf("expected run timeout 45s, got %v", loaded.GetRunTimeout())
	}
}

func TestConfig_SavedLoggingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Logging.JSONFormat = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "json_format: true") {
		t.Errorf("expected json_format in saved config:\n%s", text)
	}
	if strings.Contains(text, " format:") {
		t.Errorf("unexpected second format key in saved config:\n%s", text)
	}
}

func TestConfig_LoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("APEX_DSN", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Apex.DSN != DefaultConfig().Apex.DSN {
		t.Errorf("expected default DSN, got %s", cfg.Apex.DSN)
	}
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("apex: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apex.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown driver")
	}

	cfg = DefaultConfig()
	cfg.Apex.DSN = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty DSN")
	}

	cfg = DefaultConfig()
	cfg.Simulator.Backend = "excel"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown backend")
	}

	cfg = DefaultConfig()
	cfg.Export.Parallelism = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for zero parallelism")
	}
}

func TestConfig_DurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Apex.QueryTimeout = "soon"
	cfg.Simulator.RunTimeout = ""
	if got := cfg.GetQueryTimeout(); got != 30*time.Second {
		t.Errorf("expected 30s fallback, got %v", got)
	}
	if got := cfg.GetRunTimeout(); got != 2*time.Minute {
		t.Errorf("expected 2m fallback, got %v", got)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if lc.IsCategoryEnabled("apex") {
		t.Error("production mode must disable every category")
	}
	lc.DebugMode = true
	if !lc.IsCategoryEnabled("apex") {
		t.Error("debug mode without filter enables everything")
	}
	lc.Categories = map[string]bool{"apex": false}
	if lc.IsCategoryEnabled("apex") {
		t.Error("explicitly disabled category must stay disabled")
	}
	if !lc.IsCategoryEnabled("sim") {
		t.Error("unlisted category defaults to enabled")
	}
}
