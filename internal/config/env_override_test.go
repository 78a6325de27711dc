package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("APEX_DSN replaces configured DSN", func(t *testing.T) {
		t.Setenv("APEX_DSN", "file:apex.db?mode=ro")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "file:apex.db?mode=ro", cfg.Apex.DSN)
	})

	t.Run("APEX_DRIVER selects the cgo driver", func(t *testing.T) {
		t.Setenv("APEX_DRIVER", "sqlite3")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "sqlite3", cfg.Apex.Driver)
	})

	t.Run("empty values leave config untouched", func(t *testing.T) {
		t.Setenv("APEX_DSN", "")
		t.Setenv("APEX_DRIVER", "")
		t.Setenv("APEXVLE_SIM_BACKEND", "")
		t.Setenv("APEXVLE_OUT_DIR", "")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("simulator backend and out dir", func(t *testing.T) {
		t.Setenv("APEXVLE_SIM_BACKEND", "com")
		t.Setenv("APEXVLE_OUT_DIR", "/tmp/dumps")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "com", cfg.Simulator.Backend)
		assert.Equal(t, "/tmp/dumps", cfg.Export.OutDir)
	})
}
