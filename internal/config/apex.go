package config

// ValidDrivers lists the database/sql drivers the Apex session can open.
// "sqlite" is modernc.org/sqlite (pure Go), "sqlite3" is github.com/mattn/go-sqlite3 (cgo).
var ValidDrivers = []string{"sqlite", "sqlite3"}

// ApexConfig configures the Apex database session.
type ApexConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	QueryTimeout string `yaml:"query_timeout"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	BusyTimeout  int    `yaml:"busy_timeout_ms"`
}
