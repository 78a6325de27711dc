package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all apexvle configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Apex physical-properties database
	Apex ApexConfig `yaml:"apex"`

	// CSV dumps
	Export ExportConfig `yaml:"export"`

	// Simulator automation
	Simulator SimulatorConfig `yaml:"simulator"`

	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "apexvle",
		Version: "0.3.0",

		Apex: ApexConfig{
			Driver:       "sqlite",
			DSN:          "data/apex.db",
			QueryTimeout: "30s",
			MaxOpenConns: 4,
			BusyTimeout:  5000,
		},

		Export: ExportConfig{
			OutDir:       ".",
			DefaultTable: "ChemInfo",
			DefaultFile:  "apex_cheminfo.csv",
			Parallelism:  4,
			Manifest:     true,
		},

		Simulator: SimulatorConfig{
			Backend:    "offline",
			Visible:    false,
			CaseFile:   "",
			RunTimeout: "2m",
			LockDir:    ".apexvle",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the workspace-relative config location.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, ".apexvle", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv("APEX_DSN"); dsn != "" {
		c.Apex.DSN = dsn
	}
	if driver := os.Getenv("APEX_DRIVER"); driver != "" {
		c.Apex.Driver = driver
	}
	if backend := os.Getenv("APEXVLE_SIM_BACKEND"); backend != "" {
		c.Simulator.Backend = backend
	}
	if dir := os.Getenv("APEXVLE_OUT_DIR"); dir != "" {
		c.Export.OutDir = dir
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidDrivers, c.Apex.Driver) {
		return fmt.Errorf("invalid apex driver: %s (valid: %v)", c.Apex.Driver, ValidDrivers)
	}
	if c.Apex.DSN == "" {
		return fmt.Errorf("apex DSN not configured (set apex.dsn or APEX_DSN)")
	}
	if !contains(ValidBackends, c.Simulator.Backend) {
		return fmt.Errorf("invalid simulator backend: %s (valid: %v)", c.Simulator.Backend, ValidBackends)
	}
	if c.Export.Parallelism < 1 {
		return fmt.Errorf("export parallelism must be >= 1, got %d", c.Export.Parallelism)
	}
	return nil
}

// GetQueryTimeout returns the Apex query timeout as a duration.
func (c *Config) GetQueryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Apex.QueryTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetRunTimeout returns the simulator run timeout as a duration.
func (c *Config) GetRunTimeout() time.Duration {
	d, err := time.ParseDuration(c.Simulator.RunTimeout)
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
