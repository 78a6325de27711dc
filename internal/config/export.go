package config

// ExportConfig configures CSV dumps.
type ExportConfig struct {
	OutDir       string `yaml:"out_dir"`
	DefaultTable string `yaml:"default_table"`
	DefaultFile  string `yaml:"default_file"`
	Parallelism  int    `yaml:"parallelism"` // tables exported concurrently by "export all"
	Manifest     bool   `yaml:"manifest"`    // write <run>.manifest.yaml next to the CSVs
}
