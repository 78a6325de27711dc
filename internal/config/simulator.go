package config

// ValidBackends lists the simulator backends. Only "offline" is built into this binary;
// "com" is accepted by config so a case can be shared with a Windows workstation.
var ValidBackends = []string{"offline", "com"}

// SimulatorConfig configures the simulator automation session.
type SimulatorConfig struct {
	Backend    string `yaml:"backend"`
	Visible    bool   `yaml:"visible"`
	CaseFile   string `yaml:"case_file"` // YAML flash case; empty means the built-in ternary case
	RunTimeout string `yaml:"run_timeout"`
	LockDir    string `yaml:"lock_dir"`
}
